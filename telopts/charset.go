package telopts

import (
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/moodclient/telnet"
)

// CodeCHARSET is the option code (42) for the CHARSET telopt, RFC 2066.
const CodeCHARSET byte = 42

const (
	charsetRequest byte = iota + 1
	charsetAccepted
	charsetRejected
)

// ttableMarker is the optional prefix RFC 2066 allows before a REQUEST's
// charset list, signaling a translation-table variant this library doesn't
// implement; it's stripped like the teacher does, not acted on.
const ttableMarker = "[TTABLE]"

// CHARSETOptions configures a CHARSET instance's acceptance policy.
type CHARSETOptions struct {
	// PreferredCharsets, if non-empty, are sent as our own REQUEST, most
	// preferred first, when RequestPreferred is called on the Active option.
	// Activation alone sends no REQUEST.
	PreferredCharsets []string
	// AllowAnyCharset accepts any IANA-registered name the peer proposes.
	// When false, only names in PreferredCharsets are acceptable.
	AllowAnyCharset bool
}

// CHARSET negotiates a text encoding for the connection by name, validating
// proposals against the IANA charset registry via
// golang.org/x/text/encoding/ianaindex rather than hand-rolling a name
// table. It carries no text-transcoding logic of its own - Session and its
// peer deal in bytes regardless of what CHARSET settles on - so agreement
// here is purely advisory information the caller applies however its I/O
// layer sees fit.
type CHARSET struct {
	telnet.BaseOption

	options CHARSETOptions

	localAllowed map[string]struct{}

	// requestInFlight is set while we're waiting on a reply to our own
	// REQUEST, mirroring the teacher's keyboard lock but as a plain flag
	// since this library has no outbound queue to block.
	requestInFlight bool

	negotiated string

	// OnNegotiated fires once both sides have settled on an encoding name
	// (our ACCEPTED was sent, or the peer's ACCEPTED arrived for our request).
	OnNegotiated func(name string)
}

var _ telnet.Option = &CHARSET{}

// NewCharset returns a CHARSET option negotiating the given side, configured
// by options.
func NewCharset(perspective telnet.Side, options CHARSETOptions) *CHARSET {
	allowed := make(map[string]struct{}, len(options.PreferredCharsets))
	for _, name := range options.PreferredCharsets {
		allowed[name] = struct{}{}
	}

	return &CHARSET{
		BaseOption:   telnet.NewBaseOption(CodeCHARSET, perspective),
		options:      options,
		localAllowed: allowed,
	}
}

// Negotiated returns the charset name both sides have settled on, or the
// empty string if none has been agreed yet.
func (o *CHARSET) Negotiated() string {
	return o.negotiated
}

// RequestPreferred emits a REQUEST naming our preferred charsets, most
// preferred first. It is a no-op if PreferredCharsets is empty or the
// option isn't Active.
func (o *CHARSET) RequestPreferred(emit func(telnet.Element)) {
	if !o.Active() || len(o.options.PreferredCharsets) == 0 {
		return
	}
	o.requestInFlight = true
	o.writeRequest(o.options.PreferredCharsets, emit)
}

func (o *CHARSET) writeRequest(charsets []string, emit func(telnet.Element)) {
	content := []byte{charsetRequest}
	for _, name := range charsets {
		content = append(content, ';')
		content = append(content, name...)
	}
	emit(telnet.SubnegotiationElement(CodeCHARSET, content))
}

func (o *CHARSET) writeAccept(name string, emit func(telnet.Element)) {
	content := append([]byte{charsetAccepted}, name...)
	emit(telnet.SubnegotiationElement(CodeCHARSET, content))
}

func (o *CHARSET) writeReject(emit func(telnet.Element)) {
	emit(telnet.SubnegotiationElement(CodeCHARSET, []byte{charsetRejected}))
}

func (o *CHARSET) isAcceptable(name string) bool {
	if _, err := ianaindex.IANA.Encoding(name); err != nil {
		return false
	}
	if o.options.AllowAnyCharset {
		return true
	}
	_, ok := o.localAllowed[name]
	return ok
}

// Subnegotiate dispatches an inbound REQUEST, ACCEPTED, or REJECTED payload.
func (o *CHARSET) Subnegotiate(content []byte, emit func(telnet.Element)) {
	if len(content) == 0 {
		return
	}

	switch content[0] {
	case charsetRequest:
		o.handleRequest(content[1:], emit)
	case charsetRejected:
		o.handleRejected(emit)
	case charsetAccepted:
		o.handleAccepted(content[1:])
	}
}

func (o *CHARSET) handleRequest(payload []byte, emit func(telnet.Element)) {
	if o.RemoteState() != telnet.Active {
		o.writeReject(emit)
		return
	}

	list := string(payload)
	list = strings.TrimPrefix(list, ttableMarker)
	if list == "" {
		o.writeReject(emit)
		return
	}

	delimiter := list[0]
	candidates := strings.Split(list[1:], string(delimiter))

	var chosen string
	for _, candidate := range candidates {
		if o.isAcceptable(candidate) {
			chosen = candidate
			break
		}
	}

	if chosen == "" {
		o.writeReject(emit)
		return
	}

	// A REQUEST of our own is already in flight: give it priority over the
	// peer's proposal rather than racing to settle on two different names.
	if o.requestInFlight {
		o.writeReject(emit)
		return
	}

	o.negotiated = chosen
	o.writeAccept(chosen, emit)
	if o.OnNegotiated != nil {
		o.OnNegotiated(chosen)
	}
}

func (o *CHARSET) handleRejected(emit func(telnet.Element)) {
	if o.LocalState() != telnet.Active {
		return
	}
	o.requestInFlight = false
}

func (o *CHARSET) handleAccepted(payload []byte) {
	if o.LocalState() != telnet.Active {
		return
	}

	name := string(payload)
	if !o.isAcceptable(name) {
		return
	}

	o.requestInFlight = false
	o.negotiated = name
	if o.OnNegotiated != nil {
		o.OnNegotiated(name)
	}
}
