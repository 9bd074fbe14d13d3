package telopts

import "github.com/moodclient/telnet"

// CodeMSDP is the option code (69) for the Mud Server Data Protocol.
const CodeMSDP byte = 69

// MSDPReceiveFunc is invoked once per top-level variable found in an
// incoming MSDP subnegotiation, in the order they appeared in the payload.
type MSDPReceiveFunc func(variable MSDPVariable)

// MSDP implements the Mud Server Data Protocol (option code 69): a
// recursive string/array/table value codec carried entirely inside telnet
// subnegotiations. A MUD server offers the option (LocalSide); a client
// that wants to receive game state requests it of the server (RemoteSide).
type MSDP struct {
	telnet.BaseOption

	// OnReceive is called for each variable decoded from an inbound
	// subnegotiation. It may be left nil to discard incoming data.
	OnReceive MSDPReceiveFunc
}

var _ telnet.Option = &MSDP{}

// NewMSDPServer returns an MSDP option for a server offering the protocol
// to its clients.
func NewMSDPServer() *MSDP {
	return &MSDP{BaseOption: telnet.NewBaseOption(CodeMSDP, telnet.LocalSide)}
}

// NewMSDPClient returns an MSDP option for a client requesting the protocol
// of its server.
func NewMSDPClient() *MSDP {
	return &MSDP{BaseOption: telnet.NewBaseOption(CodeMSDP, telnet.RemoteSide)}
}

// Send encodes variable and emits it as an MSDP subnegotiation. It returns
// ErrOptionInactive without emitting anything if the option hasn't reached
// Active yet, since sending MSDP data to a peer that never agreed to the
// option is a protocol violation.
func (o *MSDP) Send(variable MSDPVariable, emit func(telnet.Element)) error {
	if !o.Active() {
		return telnet.ErrOptionInactive
	}

	content := EncodeMSDPVariables([]MSDPVariable{variable})
	emit(telnet.SubnegotiationElement(CodeMSDP, content))
	return nil
}

// Subnegotiate decodes content as a sequence of MSDP variables and invokes
// OnReceive for each one in order. A malformed payload is discarded rather
// than surfaced as an error: Session gives a subnegotiation handler no way
// to report back to the peer, and MSDP has no error-reporting sub-protocol
// of its own.
func (o *MSDP) Subnegotiate(content []byte, emit func(telnet.Element)) {
	variables, err := DecodeMSDPVariables(content)
	if err != nil {
		return
	}

	if o.OnReceive == nil {
		return
	}
	for _, v := range variables {
		o.OnReceive(v)
	}
}
