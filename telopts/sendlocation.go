package telopts

import "github.com/moodclient/telnet"

// CodeSENDLOCATION is the option code (23) for the non-standard
// SEND-LOCATION telopt used by some MUD clients and servers to exchange a
// free-text description of where the connection is physically located.
const CodeSENDLOCATION byte = 23

// SENDLOCATION carries one string payload per direction: whatever the side
// performing the option last sent is its location, with no further
// structure. Unlike the teacher's version, sending on activation is left to
// the caller via Send rather than fired automatically from a state
// transition, since this library's StateChange signal has no emit channel
// of its own to write through.
type SENDLOCATION struct {
	telnet.BaseOption

	remoteLocation string
}

var _ telnet.Option = &SENDLOCATION{}

// NewSendLocation returns a SEND-LOCATION option negotiating the given side.
func NewSendLocation(perspective telnet.Side) *SENDLOCATION {
	return &SENDLOCATION{BaseOption: telnet.NewBaseOption(CodeSENDLOCATION, perspective)}
}

// RemoteLocation returns the last location string reported by the peer, or
// the empty string if none has arrived yet.
func (o *SENDLOCATION) RemoteLocation() string {
	return o.remoteLocation
}

// Send emits location as this side's SEND-LOCATION payload. It returns
// ErrOptionInactive without emitting if the option isn't Active.
func (o *SENDLOCATION) Send(location string, emit func(telnet.Element)) error {
	if !o.Active() {
		return telnet.ErrOptionInactive
	}
	emit(telnet.SubnegotiationElement(CodeSENDLOCATION, []byte(location)))
	return nil
}

// Subnegotiate records content as the peer's reported location whenever the
// remote side is active; it is ignored otherwise.
func (o *SENDLOCATION) Subnegotiate(content []byte, emit func(telnet.Element)) {
	if o.RemoteState() != telnet.Active {
		return
	}
	o.remoteLocation = string(content)
}
