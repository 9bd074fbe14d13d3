package telopts

import "github.com/moodclient/telnet"

// CodeNAWS is the option code (31) for Negotiate About Window Size, RFC 1073.
const CodeNAWS byte = 31

// NAWS carries the terminal's width and height as a fixed four-byte
// subnegotiation: width high/low, then height high/low. The local size is
// sent each time SetLocalSize is called while the local side is Active.
// Activation itself sends nothing: a size recorded before activation is not
// reported until SetLocalSize is called again.
type NAWS struct {
	telnet.BaseOption

	localWidth, localHeight   int
	remoteWidth, remoteHeight int

	// OnRemoteSize is invoked whenever the peer reports a new size.
	OnRemoteSize func(width, height int)
}

var _ telnet.Option = &NAWS{}

// NewNAWS returns a NAWS option negotiating the given side.
func NewNAWS(perspective telnet.Side) *NAWS {
	return &NAWS{BaseOption: telnet.NewBaseOption(CodeNAWS, perspective)}
}

// SetLocalSize records the local terminal size and, if the local side is
// Active, reports it to the peer immediately.
func (o *NAWS) SetLocalSize(emit func(telnet.Element), width, height int) {
	o.localWidth, o.localHeight = width, height
	if o.LocalState() != telnet.Active {
		return
	}
	emit(telnet.SubnegotiationElement(CodeNAWS, encodeNAWSSize(width, height)))
}

// RemoteSize returns the last size the peer reported.
func (o *NAWS) RemoteSize() (width, height int) {
	return o.remoteWidth, o.remoteHeight
}

func encodeNAWSSize(width, height int) []byte {
	return []byte{
		byte((width >> 8) & 0xff), byte(width & 0xff),
		byte((height >> 8) & 0xff), byte(height & 0xff),
	}
}

// Subnegotiate decodes a four-byte width/height payload while the remote
// side is Active; any other length is discarded as malformed.
func (o *NAWS) Subnegotiate(content []byte, emit func(telnet.Element)) {
	if o.RemoteState() != telnet.Active || len(content) != 4 {
		return
	}

	o.remoteWidth = int(content[0])<<8 | int(content[1])
	o.remoteHeight = int(content[2])<<8 | int(content[3])

	if o.OnRemoteSize != nil {
		o.OnRemoteSize(o.remoteWidth, o.remoteHeight)
	}
}
