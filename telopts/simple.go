package telopts

import "github.com/moodclient/telnet"

// Option codes for the handful of telopts below that carry no
// subnegotiation at all: their entire meaning is "is this side doing the
// thing", which Active() already reports. Where the teacher's version of
// these options drove terminal/keyboard side effects directly (locking
// input, toggling a prompt's go-ahead behavior), this library has no
// terminal to reach into - the caller wires StateChange to react instead.
const (
	// CodeTRANSMITBINARY (RFC 856) toggles 8-bit-clean transmission.
	CodeTRANSMITBINARY byte = 0
	// CodeSUPPRESSGOAHEAD (RFC 858) suppresses the GA prompt marker.
	CodeSUPPRESSGOAHEAD byte = 3
	// CodeEOR (RFC 885) marks prompt boundaries with IAC EOR instead of GA.
	CodeEOR byte = 25
)

// simpleOption is the shared shape of a payload-free telopt: it just rides
// BaseOption's negotiation machinery and never produces a subnegotiation.
type simpleOption struct {
	telnet.BaseOption
}

func (o *simpleOption) Subnegotiate(content []byte, emit func(telnet.Element)) {}

// TRANSMITBINARY negotiates 8-bit-clean transmission (RFC 856). Neither side
// carries a payload; StateChange is how a caller learns to stop treating the
// stream as 7-bit.
type TRANSMITBINARY struct {
	simpleOption
}

var _ telnet.Option = &TRANSMITBINARY{}

// NewTransmitBinary returns a TRANSMIT-BINARY option negotiating the given
// side (LocalSide for "I will send binary", RemoteSide for "you send binary").
func NewTransmitBinary(perspective telnet.Side) *TRANSMITBINARY {
	return &TRANSMITBINARY{simpleOption{telnet.NewBaseOption(CodeTRANSMITBINARY, perspective)}}
}

// SUPPRESSGOAHEAD negotiates whether the side performing it sends the
// historical GA prompt marker (RFC 858). Most modern connections suppress it
// in both directions as a prerequisite for other options like MSDP.
type SUPPRESSGOAHEAD struct {
	simpleOption
}

var _ telnet.Option = &SUPPRESSGOAHEAD{}

// NewSuppressGoAhead returns a SUPPRESS-GO-AHEAD option negotiating the
// given side.
func NewSuppressGoAhead(perspective telnet.Side) *SUPPRESSGOAHEAD {
	return &SUPPRESSGOAHEAD{simpleOption{telnet.NewBaseOption(CodeSUPPRESSGOAHEAD, perspective)}}
}

// EOR negotiates whether the side performing it marks prompts with IAC EOR
// in place of GA (RFC 885).
type EOR struct {
	simpleOption
}

var _ telnet.Option = &EOR{}

// NewEOR returns an EOR option negotiating the given side.
func NewEOR(perspective telnet.Side) *EOR {
	return &EOR{simpleOption{telnet.NewBaseOption(CodeEOR, perspective)}}
}
