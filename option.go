package telnet

// State is the four-state negotiation machine each side of an Option runs
// independently, per RFC 1143's Q-method.
type State byte

const (
	// Inactive is the initial state: the option is not in effect.
	Inactive State = iota
	// WantActive means we've asked to turn the option on and are waiting
	// to hear back.
	WantActive
	// Active means the option is in effect.
	Active
	// WantInactive means we've asked to turn the option off and are
	// waiting to hear back.
	WantInactive
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "Inactive"
	case WantActive:
		return "WantActive"
	case Active:
		return "Active"
	case WantInactive:
		return "WantInactive"
	default:
		return "Unknown"
	}
}

// Side distinguishes which half of an option's negotiation state a
// StateChangeEvent or accessor refers to: whether we perform the option
// (Local, governed by outbound WILL/WONT and inbound DO/DONT) or whether the
// peer does (Remote, governed by outbound DO/DONT and inbound WILL/WONT).
type Side byte

const (
	LocalSide Side = iota
	RemoteSide
)

// verbsFor returns the verb this side sends to request activation and the
// verb it sends to request (or confirm) deactivation.
func verbsFor(side Side) (request, release byte) {
	if side == LocalSide {
		return WILL, WONT
	}
	return DO, DONT
}

// StateChangeEvent describes a transition of one side of an option's state
// machine, delivered synchronously before the triggering Negotiate, Activate,
// or Deactivate call returns.
type StateChangeEvent struct {
	Side Side
	// Active is the new Active()-equivalent value for this side.
	Active bool
	// RemoteInitiated is true when the peer's negotiation caused the
	// transition, false when our own Activate/Deactivate call did.
	RemoteInitiated bool
	// Rejected is true when the transition is the peer declining a request
	// we made (WantActive -> Inactive on a negative reply).
	Rejected bool
}

// StateChangeFunc is the signal an Option fires on every state transition.
type StateChangeFunc func(StateChangeEvent)

// optionSide is one independent instance of the per-side negotiation state
// machine described in the option base design: four states, driven by local
// Activate/Deactivate calls and inbound positive/negative negotiation verbs.
type optionSide struct {
	state State

	// acked remembers that we've already sent the one-time negative
	// acknowledgement while Inactive, so that repeated unsolicited WONT/DONT
	// from the peer don't each provoke a reply (loop prevention).
	acked bool

	// pending queues the opposite request while a request is already in
	// flight (WantActive/WantInactive), to be carried out once the current
	// negotiation resolves.
	pending bool
}

// BaseOption implements the per-code negotiation state machine shared by
// every concrete option. It tracks both the local and the remote side, as
// the wire protocol requires, but exposes Activate/Deactivate/Active against
// whichever side the option was constructed to represent - its perspective.
// Concrete options embed BaseOption and add a Subnegotiate method to satisfy
// Option.
type BaseOption struct {
	code        byte
	perspective Side

	local  optionSide
	remote optionSide

	// StateChange is invoked synchronously on every local or remote state
	// transition. It may be left nil.
	StateChange StateChangeFunc
}

// NewBaseOption returns a BaseOption for the given option code. perspective
// selects which side Activate, Deactivate, and Active operate on: LocalSide
// for an option that represents something we do (ECHO as seen from the
// echoing server), RemoteSide for one that represents something we're
// asking the peer to do (ECHO as seen from the client asking the server to
// echo).
func NewBaseOption(code byte, perspective Side) BaseOption {
	return BaseOption{code: code, perspective: perspective}
}

// Code returns the option code this instance negotiates.
func (o *BaseOption) Code() byte {
	return o.code
}

// LocalState returns the current state of the local-side machine.
func (o *BaseOption) LocalState() State {
	return o.local.state
}

// RemoteState returns the current state of the remote-side machine.
func (o *BaseOption) RemoteState() State {
	return o.remote.state
}

// Active reports whether the option's perspective side is Active.
func (o *BaseOption) Active() bool {
	return o.sideFor(o.perspective).state == Active
}

func (o *BaseOption) sideFor(side Side) *optionSide {
	if side == LocalSide {
		return &o.local
	}
	return &o.remote
}

func (o *BaseOption) fire(side Side, active, remoteInitiated, rejected bool) {
	if o.StateChange == nil {
		return
	}
	o.StateChange(StateChangeEvent{
		Side:            side,
		Active:          active,
		RemoteInitiated: remoteInitiated,
		Rejected:        rejected,
	})
}

// Activate requests activation of the option's perspective side. It is
// idempotent: calling it while already Active or WantActive does nothing,
// and calling it while WantInactive queues the request to run once the
// pending deactivation resolves.
func (o *BaseOption) Activate(emit func(Element)) {
	o.activateSide(o.perspective, emit)
}

// Deactivate requests deactivation of the option's perspective side, with
// the same idempotence and queuing rules as Activate.
func (o *BaseOption) Deactivate(emit func(Element)) {
	o.deactivateSide(o.perspective, emit)
}

func (o *BaseOption) activateSide(side Side, emit func(Element)) {
	s := o.sideFor(side)
	request, _ := verbsFor(side)

	switch s.state {
	case Inactive:
		emit(NegotiationElement(request, o.code))
		s.state = WantActive
	case WantInactive:
		s.pending = true
	case WantActive, Active:
		// already on its way up or already there
	}
}

func (o *BaseOption) deactivateSide(side Side, emit func(Element)) {
	s := o.sideFor(side)
	_, release := verbsFor(side)

	switch s.state {
	case Active:
		emit(NegotiationElement(release, o.code))
		s.state = WantInactive
	case WantActive:
		s.pending = true
	case Inactive, WantInactive:
		// already on its way down or already there
	}
}

// Negotiate injects an inbound negotiation verb (WILL, WONT, DO, or DONT)
// for this option, running the per-side state machine and writing whatever
// reply the loop-prevention rules call for to emit.
func (o *BaseOption) Negotiate(request byte, emit func(Element)) {
	side := RemoteSide
	if request == DO || request == DONT {
		side = LocalSide
	}
	positive := request == WILL || request == DO

	o.step(side, positive, emit)
}

func (o *BaseOption) step(side Side, positive bool, emit func(Element)) {
	s := o.sideFor(side)
	request, release := verbsFor(side)

	switch s.state {
	case Inactive:
		if positive {
			emit(NegotiationElement(request, o.code))
			s.state = Active
			s.acked = false
			o.fire(side, true, true, false)
			return
		}

		if !s.acked {
			emit(NegotiationElement(release, o.code))
			s.acked = true
		}

	case WantActive:
		if positive {
			s.state = Active
			s.acked = false
			o.fire(side, true, false, false)

			if s.pending {
				s.pending = false
				o.deactivateSide(side, emit)
			}
			return
		}

		s.state = Inactive
		s.pending = false
		o.fire(side, false, false, true)

	case Active:
		if positive {
			// Already active: this is just an acknowledgement of our
			// existing state, not a request. Emit nothing.
			return
		}

		emit(NegotiationElement(release, o.code))
		s.state = Inactive
		s.acked = false
		o.fire(side, false, true, false)

	case WantInactive:
		if positive {
			// The peer is re-asserting the option even though we've asked
			// to turn it off. Not valid protocol, but we tolerate it as a
			// no-op rather than erroring.
			return
		}

		s.state = Inactive
		s.acked = false
		o.fire(side, false, false, false)

		if s.pending {
			s.pending = false
			o.activateSide(side, emit)
		}
	}
}

// Option is the capability set a Session dispatches negotiations and
// subnegotiations to. Concrete options satisfy it by embedding BaseOption
// (which supplies Code, Active, and Negotiate) and adding a Subnegotiate
// method of their own.
type Option interface {
	Code() byte
	Active() bool
	Negotiate(request byte, emit func(Element))
	Subnegotiate(content []byte, emit func(Element))
}
