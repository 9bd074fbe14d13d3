package telopts

import "github.com/moodclient/telnet"

// CodeNEWENVIRON is the option code (39) for NEW-ENVIRON, RFC 1572.
const CodeNEWENVIRON byte = 39

// WellKnownEnvironVars lists the variable names RFC 1572 singles out as
// commonly meaningful across implementations.
var WellKnownEnvironVars = []string{"USER", "JOB", "ACCT", "PRINTER", "SYSTEMTYPE", "DISPLAY"}

const (
	environIS byte = iota
	environSend
	environInfo
)

const (
	environVar byte = iota
	environValue
	environEsc
	environUserVar
)

// NEWENVIRONConfig configures which variable names a NEWENVIRON instance
// treats as well-known (sent with the VAR marker) versus user-defined (sent
// with USERVAR), and its starting local values.
type NEWENVIRONConfig struct {
	WellKnownVarKeys []string
	InitialVars      map[string]string
}

// NEWENVIRON implements NEW-ENVIRON (RFC 1572): environment variable
// exchange using an escaped VAR/VALUE/USERVAR marker grammar, structurally
// the ancestor of MSDP's own marker-based codec. Unlike the teacher's
// version, state updates are delivered synchronously through OnRemoteVars
// rather than through an event-raising side channel, matching how every
// other option in this package reports inbound data.
type NEWENVIRON struct {
	telnet.BaseOption

	wellKnownVars map[string]struct{}

	localUserVars      map[string]string
	localWellKnownVars map[string]string

	remoteUserVars      map[string]string
	remoteWellKnownVars map[string]string

	// OnRemoteVars is invoked with the keys that changed whenever an IS or
	// INFO subnegotiation updates the remote variable set.
	OnRemoteVars func(keys []string)
}

var _ telnet.Option = &NEWENVIRON{}

// NewNewEnviron returns a NEWENVIRON option negotiating the given side.
func NewNewEnviron(perspective telnet.Side, config NEWENVIRONConfig) *NEWENVIRON {
	o := &NEWENVIRON{
		BaseOption:          telnet.NewBaseOption(CodeNEWENVIRON, perspective),
		wellKnownVars:       make(map[string]struct{}, len(config.WellKnownVarKeys)),
		localUserVars:       make(map[string]string),
		localWellKnownVars:  make(map[string]string),
		remoteUserVars:      make(map[string]string),
		remoteWellKnownVars: make(map[string]string),
	}

	for _, key := range config.WellKnownVarKeys {
		o.wellKnownVars[key] = struct{}{}
	}
	for key, value := range config.InitialVars {
		if _, wellKnown := o.wellKnownVars[key]; wellKnown {
			o.localWellKnownVars[key] = value
		} else {
			o.localUserVars[key] = value
		}
	}

	return o
}

// RemoteWellKnownVar returns the last value the peer reported for a
// well-known variable.
func (o *NEWENVIRON) RemoteWellKnownVar(key string) (string, bool) {
	value, ok := o.remoteWellKnownVars[key]
	return value, ok
}

// RemoteUserVar returns the last value the peer reported for a user variable.
func (o *NEWENVIRON) RemoteUserVar(key string) (string, bool) {
	value, ok := o.remoteUserVars[key]
	return value, ok
}

// RequestAll emits a SEND asking the peer for every well-known and user
// variable it has. It is a no-op unless the remote side is Active.
func (o *NEWENVIRON) RequestAll(emit func(telnet.Element)) {
	if o.RemoteState() != telnet.Active {
		return
	}
	content := []byte{environSend, environVar, environUserVar}
	emit(telnet.SubnegotiationElement(CodeNEWENVIRON, content))
}

func encodeEnvironText(out []byte, text string) []byte {
	for _, b := range []byte(text) {
		if b <= environUserVar {
			out = append(out, environEsc)
		}
		out = append(out, b)
	}
	return out
}

// decodeEnvironText reads one name/value token starting at buffer[0],
// stopping at the next unescaped marker byte or the end of input, and
// returns the token's length in the source buffer alongside its value.
func decodeEnvironText(buffer []byte) (consumed int, text string) {
	var out []byte
	i := 0
	for i < len(buffer) {
		b := buffer[i]
		if b == environEsc {
			i++
			if i >= len(buffer) {
				break
			}
		} else if b <= environUserVar {
			break
		}
		out = append(out, buffer[i])
		i++
	}
	return i, string(out)
}

// Subnegotiate dispatches an inbound SEND, IS, or INFO payload.
func (o *NEWENVIRON) Subnegotiate(content []byte, emit func(telnet.Element)) {
	if len(content) == 0 {
		return
	}

	switch content[0] {
	case environSend:
		if o.LocalState() == telnet.Active {
			o.handleSend(content[1:], emit)
		}
	case environIS, environInfo:
		if o.RemoteState() == telnet.Active {
			o.handleValues(content[1:])
		}
	}
}

func (o *NEWENVIRON) handleSend(payload []byte, emit func(telnet.Element)) {
	varKeys := make(map[string]struct{})
	userVarKeys := make(map[string]struct{})
	var includeAllVars, includeAllUserVars bool

	if len(payload) == 0 {
		includeAllVars = true
		includeAllUserVars = true
	}

	for i := 0; i < len(payload); {
		token := payload[i]
		i++
		if token != environVar && token != environUserVar {
			continue
		}

		size, key := decodeEnvironText(payload[i:])
		i += size

		switch {
		case size == 0 && token == environUserVar:
			includeAllUserVars = true
		case size == 0:
			includeAllVars = true
		case token == environUserVar:
			userVarKeys[key] = struct{}{}
		default:
			varKeys[key] = struct{}{}
		}
	}

	if includeAllVars {
		for key := range o.localWellKnownVars {
			varKeys[key] = struct{}{}
		}
	}
	if includeAllUserVars {
		for key := range o.localUserVars {
			userVarKeys[key] = struct{}{}
		}
	}

	out := []byte{environIS}
	for key := range varKeys {
		out = append(out, environVar)
		out = encodeEnvironText(out, key)
		if value, ok := o.localWellKnownVars[key]; ok {
			out = append(out, environValue)
			out = encodeEnvironText(out, value)
		}
	}
	for key := range userVarKeys {
		out = append(out, environUserVar)
		out = encodeEnvironText(out, key)
		if value, ok := o.localUserVars[key]; ok {
			out = append(out, environValue)
			out = encodeEnvironText(out, value)
		}
	}

	emit(telnet.SubnegotiationElement(CodeNEWENVIRON, out))
}

func (o *NEWENVIRON) handleValues(payload []byte) {
	var modifiedKeys []string

	for i := 0; i < len(payload); {
		token := payload[i]
		i++
		if token != environVar && token != environUserVar {
			continue
		}

		keySize, key := decodeEnvironText(payload[i:])
		if keySize == 0 {
			return
		}
		i += keySize
		modifiedKeys = append(modifiedKeys, key)

		if i < len(payload) && payload[i] == environValue {
			i++
			valueSize, value := decodeEnvironText(payload[i:])
			i += valueSize

			if token == environUserVar {
				o.remoteUserVars[key] = value
			} else {
				o.remoteWellKnownVars[key] = value
			}
		} else if token == environUserVar {
			delete(o.remoteUserVars, key)
		} else {
			delete(o.remoteWellKnownVars, key)
		}
	}

	if len(modifiedKeys) > 0 && o.OnRemoteVars != nil {
		o.OnRemoteVars(modifiedKeys)
	}
}

// SetVars sets one or more local variables and, if the local side is
// Active, immediately reports the change to the peer via an INFO
// subnegotiation. keysAndValues must have an even length.
func (o *NEWENVIRON) SetVars(emit func(telnet.Element), keysAndValues ...string) {
	out := []byte{environInfo}

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, value := keysAndValues[i], keysAndValues[i+1]

		if _, wellKnown := o.wellKnownVars[key]; wellKnown {
			out = append(out, environVar)
			o.localWellKnownVars[key] = value
		} else {
			out = append(out, environUserVar)
			o.localUserVars[key] = value
		}
		out = encodeEnvironText(out, key)
		out = append(out, environValue)
		out = encodeEnvironText(out, value)
	}

	if o.LocalState() == telnet.Active {
		emit(telnet.SubnegotiationElement(CodeNEWENVIRON, out))
	}
}
