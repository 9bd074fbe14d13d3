package telnet

import "fmt"

// Session owns the per-code Option registry for one connection and drives
// the frame codec over inbound bytes. It has no queues, no threading, and no
// buffering beyond what the Decoder needs to hold a partial frame between
// calls - everything it does completes before Receive returns.
//
// A Session is not safe for concurrent use; a caller driving Receive and an
// option's outbound calls from different goroutines must supply its own
// mutual exclusion.
type Session struct {
	decoder *Decoder
	options map[byte]Option

	// OnData is invoked for every KindData element the frame codec
	// recognizes, in stream order.
	OnData func(data []byte)
	// OnCommand is invoked for every bare command byte (one that isn't a
	// negotiation or subnegotiation introducer).
	OnCommand func(opcode byte)
}

// NewSession returns an empty Session with no options installed.
func NewSession() *Session {
	return &Session{
		decoder: NewDecoder(),
		options: make(map[byte]Option),
	}
}

// Install registers option under the code it reports from Code(). It fails
// with ErrAlreadyRegistered if that code already has an option installed;
// replacing a registration is not supported.
func (s *Session) Install(option Option) error {
	code := option.Code()
	if _, exists := s.options[code]; exists {
		return fmt.Errorf("%w: code %d", ErrAlreadyRegistered, code)
	}

	s.options[code] = option
	return nil
}

// Option returns the option installed for code, if any.
func (s *Session) Option(code byte) (Option, bool) {
	option, ok := s.options[code]
	return option, ok
}

// Receive feeds data through the frame codec and routes every resulting
// Element: Data and Command elements surface via OnData/OnCommand, bare
// negotiations are dispatched to the matching installed option (or, if none
// is installed, a WILL or DO is answered with a refusal and a WONT or DONT
// draws no reply), and subnegotiations are delivered to
// their option only while it is active. Any bytes an option produces while
// handling its negotiation or subnegotiation are written, in the order
// produced, to emitOut.
func (s *Session) Receive(data []byte, emitOut func([]byte)) {
	emit := func(e Element) {
		emitOut(Serialize(e))
	}

	s.decoder.Parse(data, func(e Element) {
		switch e.Kind {
		case KindData:
			if s.OnData != nil {
				s.OnData(e.Data)
			}

		case KindCommand:
			if s.OnCommand != nil {
				s.OnCommand(e.Command)
			}

		case KindNegotiation:
			option, ok := s.options[e.Option]
			if !ok {
				if e.Request == WILL || e.Request == DO {
					emit(NegotiationElement(RefusalFor(e.Request), e.Option))
				}
				return
			}

			option.Negotiate(e.Request, emit)

		case KindSubnegotiation:
			option, ok := s.options[e.Option]
			if !ok || !option.Active() {
				// Stale or malicious payload for an option we never agreed
				// to (or have since deactivated): discard silently.
				return
			}

			option.Subnegotiate(e.Content, emit)
		}
	})
}
