package tickfsm

import "fmt"

// TickAction is the callback signature for a state's tick action. It receives
// the state handle together with the number of ticks consumed and remaining
// on the state's timer (zero and Forever for states without a finite timer).
type TickAction[S comparable] func(state *State[S], ticksConsumed, ticksRemaining int)

// State is the record kept for each state identifier: lifecycle callbacks, a
// timer, and an optional diagnostic annotation.
//
// Records are materialized lazily. An identifier that is only ever referenced
// as a transition endpoint still yields a default record (no-op callbacks, a
// timer that never expires) on first access. Callbacks and timers are meant
// to be assigned during the building phase; mutating a running machine's
// states is not supported.
type State[S comparable] struct {
	id S

	// entryAction runs when the state is entered, default no-op.
	entryAction func()

	// exitAction runs when the state is left, default no-op.
	exitAction func()

	// tickAction runs once per update in which no immediate transition
	// fired, default no-op.
	tickAction TickAction[S]

	// timer is never nil; states without a timeout carry a timer that
	// never expires.
	timer *stateTimer

	// fnAnnotation optionally provides a display label, evaluated lazily.
	fnAnnotation func() string

	// payload is an optional client extension slot, see SetPayload.
	payload any
}

func newDefaultState[S comparable](id S) *State[S] {
	return &State[S]{id: id, timer: neverEndingTimer()}
}

// ID returns the identifier of this state.
func (s *State[S]) ID() S {
	return s.id
}

// SetOnEntry assigns the action executed whenever this state is entered,
// either via a transition or by setting the state directly.
func (s *State[S]) SetOnEntry(action func()) {
	s.entryAction = action
}

// SetOnExit assigns the action executed whenever this state is left.
func (s *State[S]) SetOnExit(action func()) {
	s.exitAction = action
}

// SetOnTick assigns the action executed whenever this state is "ticked".
func (s *State[S]) SetOnTick(action TickAction[S]) {
	s.tickAction = action
}

// SetTimerFn arms a timer whose duration function is evaluated on every
// reset, and restarts it.
func (s *State[S]) SetTimerFn(fnDuration func() int) {
	s.timer = newStateTimer(fnDuration)
}

// SetTimer arms a constant timer of the given tick count and restarts it.
func (s *State[S]) SetTimer(ticks int) {
	s.SetTimerFn(func() int { return ticks })
}

// RemoveTimer replaces the timer of this state by one that never expires.
func (s *State[S]) RemoveTimer() {
	s.timer = neverEndingTimer()
}

// HasTimer reports whether this state has a finite timer.
func (s *State[S]) HasTimer() bool {
	return s.timer.finite()
}

// IsTerminated reports whether this state's timer, if any, reached its end.
func (s *State[S]) IsTerminated() bool {
	return s.timer.remaining == 0
}

// Duration returns the total number of updates until this state times out,
// or Forever if no finite timer is armed.
func (s *State[S]) Duration() int {
	return s.timer.duration
}

// TicksRemaining returns the number of updates until the timeout occurs.
func (s *State[S]) TicksRemaining() int {
	return s.timer.remaining
}

// TicksConsumed returns the number of updates since the timer was started or
// reset, or zero for states without a finite timer.
func (s *State[S]) TicksConsumed() int {
	if !s.HasTimer() {
		return 0
	}
	return s.timer.duration - s.timer.remaining
}

// SetAnnotation assigns a lazily evaluated display label, used by diagram
// exporters and tracers.
func (s *State[S]) SetAnnotation(fnAnnotation func() string) {
	s.fnAnnotation = fnAnnotation
}

// Annotation returns the display label, or the empty string if none is set.
func (s *State[S]) Annotation() string {
	if s.fnAnnotation == nil {
		return ""
	}
	return s.fnAnnotation()
}

// SetPayload attaches an arbitrary client value to this state. Custom state
// data that older designs expressed through subclassing lives here instead.
func (s *State[S]) SetPayload(payload any) {
	s.payload = payload
}

// Payload returns the value attached via SetPayload, or nil.
func (s *State[S]) Payload() any {
	return s.payload
}

func (s *State[S]) onEntry() {
	if s.entryAction != nil {
		s.entryAction()
	}
}

func (s *State[S]) onExit() {
	if s.exitAction != nil {
		s.exitAction()
	}
}

func (s *State[S]) onTick() {
	if s.tickAction != nil {
		s.tickAction(s, s.TicksConsumed(), s.TicksRemaining())
	}
}

func (s *State[S]) String() string {
	str := fmt.Sprintf("(%v", s.id)
	if s.entryAction != nil {
		str += " entry"
	}
	if s.tickAction != nil {
		str += " tick"
	}
	if s.exitAction != nil {
		str += " exit"
	}
	if s.HasTimer() {
		str += " timer"
	}
	return str + ")"
}
