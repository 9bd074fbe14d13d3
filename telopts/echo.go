package telopts

import "github.com/moodclient/telnet"

// CodeECHO is the option code (1) for the ECHO telopt, RFC 857.
const CodeECHO byte = 1

// ECHO negotiates whether the side that performs it echoes input back to the
// other side. The option carries no subnegotiation; by the time either side
// cares whether ECHO is Active, the negotiation itself already conveys the
// information the caller needs. In practice clients fall back to echoing
// locally whenever the server isn't, so the decision of what an active ECHO
// should actually trigger is left entirely to the consumer via StateChange.
type ECHO struct {
	telnet.BaseOption
}

var _ telnet.Option = &ECHO{}

// NewEchoServer returns an ECHO option for a server that offers to echo
// input typed by the client: it negotiates the local side (WILL/WONT).
func NewEchoServer() *ECHO {
	return &ECHO{BaseOption: telnet.NewBaseOption(CodeECHO, telnet.LocalSide)}
}

// NewEchoClient returns an ECHO option for a client that asks the server to
// echo its input: it negotiates the remote side (DO/DONT).
func NewEchoClient() *ECHO {
	return &ECHO{BaseOption: telnet.NewBaseOption(CodeECHO, telnet.RemoteSide)}
}

// Subnegotiate is a no-op: ECHO never sends a subnegotiation payload, and
// Session only calls Subnegotiate while the option is Active, so there is
// nothing meaningful to do with whatever arrives.
func (o *ECHO) Subnegotiate(content []byte, emit func(telnet.Element)) {}
