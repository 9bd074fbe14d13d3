package telopts

import "github.com/moodclient/telnet"

// CodeTTYPE is the option code (24) for the Terminal Type telopt, RFC 1091.
const CodeTTYPE byte = 24

const (
	ttypeIS byte = iota
	ttypeSend
)

// TTYPE implements RFC 1091 terminal type negotiation. A client that
// activates its local side answers SEND requests with IS, cycling through a list of
// terminal names it offers, repeating the last one once the list is
// exhausted; a server/telnet peer that activates the remote side sends SEND
// to pull names out of the client one at a time, stopping once the client
// repeats itself.
//
// Unlike the teacher's version, terminal names travel as plain ASCII bytes
// rather than ascii85-encoded: RFC 1091 never encodes the name, and a MUD
// client/server exchanging plain strings like "ansi" or "xterm-256color"
// has no need for a binary-safe envelope.
type TTYPE struct {
	telnet.BaseOption

	localTerminals []string
	localCursor    int

	remoteTerminals []string
	remoteDone      bool

	// OnRemoteTerminal is invoked each time the remote side reports a
	// terminal name, including the final repeated one.
	OnRemoteTerminal func(name string, done bool)
}

var _ telnet.Option = &TTYPE{}

// NewTTYPEClient returns a TTYPE option that offers terminal names from
// localTerminals when asked (LocalSide: WILL/WONT).
func NewTTYPEClient(localTerminals []string) *TTYPE {
	return &TTYPE{
		BaseOption:     telnet.NewBaseOption(CodeTTYPE, telnet.LocalSide),
		localTerminals: localTerminals,
	}
}

// NewTTYPEServer returns a TTYPE option that requests terminal names from
// the peer (RemoteSide: DO/DONT).
func NewTTYPEServer() *TTYPE {
	return &TTYPE{BaseOption: telnet.NewBaseOption(CodeTTYPE, telnet.RemoteSide)}
}

// RemoteTerminals returns every terminal name harvested from the peer so
// far, in the order reported.
func (o *TTYPE) RemoteTerminals() []string {
	return o.remoteTerminals
}

// RemoteDone reports whether the peer has repeated its last terminal name,
// signaling that no further SEND will produce anything new.
func (o *TTYPE) RemoteDone() bool {
	return o.remoteDone
}

// RequestRemote emits a SEND subnegotiation, asking the peer for its next
// terminal name. It is a no-op if the remote side isn't Active.
func (o *TTYPE) RequestRemote(emit func(telnet.Element)) {
	if o.RemoteState() != telnet.Active {
		return
	}
	emit(telnet.SubnegotiationElement(CodeTTYPE, []byte{ttypeSend}))
}

// Subnegotiate handles both subnegotiation shapes TTYPE defines: an inbound
// SEND (we reply with our next offered terminal name) and an inbound IS
// (the peer is reporting a terminal name we asked for with RequestRemote).
// A malformed or unrecognized payload is discarded, matching the rest of
// this package's options.
func (o *TTYPE) Subnegotiate(content []byte, emit func(telnet.Element)) {
	if len(content) < 1 {
		return
	}

	switch content[0] {
	case ttypeSend:
		if o.LocalState() != telnet.Active {
			return
		}
		emit(telnet.SubnegotiationElement(CodeTTYPE, append([]byte{ttypeIS}, o.nextLocalTerminal()...)))

	case ttypeIS:
		if o.RemoteState() != telnet.Active {
			return
		}
		name := string(content[1:])
		done := len(o.remoteTerminals) > 0 && o.remoteTerminals[len(o.remoteTerminals)-1] == name
		if !done {
			o.remoteTerminals = append(o.remoteTerminals, name)
		} else {
			o.remoteDone = true
		}
		if o.OnRemoteTerminal != nil {
			o.OnRemoteTerminal(name, o.remoteDone)
		}
	}
}

func (o *TTYPE) nextLocalTerminal() []byte {
	if len(o.localTerminals) == 0 {
		return []byte("UNKNOWN")
	}
	if o.localCursor >= len(o.localTerminals) {
		return []byte(o.localTerminals[len(o.localTerminals)-1])
	}
	name := o.localTerminals[o.localCursor]
	o.localCursor++
	return []byte(name)
}
