package telnet

import (
	"fmt"
	"strconv"
	"strings"
)

// ElementKind discriminates the four shapes an Element can take. The zero
// value is never produced by the codec.
type ElementKind byte

const (
	// KindData marks a run of plain octets with any IAC already unescaped.
	KindData ElementKind = iota + 1
	// KindCommand marks a single command byte that isn't one of the five
	// bytes that introduce a longer sequence (WILL, WONT, DO, DONT, SB).
	// The one exception is recovery inside a subnegotiation payload: there
	// IAC followed by any byte other than IAC or SE is surfaced as a command
	// carrying that byte, whatever it is.
	KindCommand
	// KindNegotiation marks a WILL/WONT/DO/DONT request for an option code.
	KindNegotiation
	// KindSubnegotiation marks a complete IAC SB ... IAC SE payload.
	KindSubnegotiation
)

// Element is the sum type that crosses the codec/session boundary. Exactly
// one of its fields is meaningful, selected by Kind.
type Element struct {
	Kind ElementKind

	// Data holds the payload for KindData.
	Data []byte

	// Command holds the opcode for KindCommand.
	Command byte

	// Request holds WILL/WONT/DO/DONT for KindNegotiation.
	Request byte
	// Option holds the option code for KindNegotiation and KindSubnegotiation.
	Option byte

	// Content holds the unescaped payload for KindSubnegotiation.
	Content []byte
}

// DataElement builds a KindData element. b is not copied; callers must not
// mutate it after passing it in.
func DataElement(b []byte) Element {
	return Element{Kind: KindData, Data: b}
}

// CommandElement builds a KindCommand element.
func CommandElement(opcode byte) Element {
	return Element{Kind: KindCommand, Command: opcode}
}

// NegotiationElement builds a KindNegotiation element.
func NegotiationElement(request byte, option byte) Element {
	return Element{Kind: KindNegotiation, Request: request, Option: option}
}

// SubnegotiationElement builds a KindSubnegotiation element.
func SubnegotiationElement(option byte, content []byte) Element {
	return Element{Kind: KindSubnegotiation, Option: option, Content: content}
}

func (e Element) String() string {
	switch e.Kind {
	case KindData:
		return fmt.Sprintf("DATA %q", e.Data)
	case KindCommand:
		return "IAC " + commandName(e.Command)
	case KindNegotiation:
		return fmt.Sprintf("IAC %s %d", commandName(e.Request), e.Option)
	case KindSubnegotiation:
		var sb strings.Builder
		fmt.Fprintf(&sb, "IAC SB %d", e.Option)
		for _, b := range e.Content {
			sb.WriteByte(' ')
			sb.WriteString(strconv.Itoa(int(b)))
		}
		sb.WriteString(" IAC SE")
		return sb.String()
	default:
		return "INVALID ELEMENT"
	}
}

var commandNames = map[byte]string{
	SE:   "SE",
	NOP:  "NOP",
	GA:   "GA",
	SB:   "SB",
	WILL: "WILL",
	WONT: "WONT",
	DO:   "DO",
	DONT: "DONT",
	IAC:  "IAC",
}

func commandName(b byte) string {
	name, ok := commandNames[b]
	if ok {
		return name
	}
	return strconv.Itoa(int(b))
}
