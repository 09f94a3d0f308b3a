package tickfsm

import "math"

// Forever is the sentinel duration of a timer that never expires. It is the
// default duration of every state's timer.
const Forever = math.MaxInt

// stateTimer counts down a state's lifetime in tick units.
//
// The duration function is re-evaluated on every reset (never memoized), so
// durations may depend on runtime data such as a game level. A timer with
// duration Forever never advances and never expires.
type stateTimer struct {
	// fnDuration provides the duration, queried on each reset.
	fnDuration func() int

	// duration is the total tick count of the current cycle.
	duration int

	// remaining counts down to zero.
	remaining int

	// expired latches after the expiry tick so that expiry is signalled
	// exactly once per reset cycle.
	expired bool
}

func newStateTimer(fnDuration func() int) *stateTimer {
	t := &stateTimer{fnDuration: fnDuration}
	t.reset()
	return t
}

// neverEndingTimer returns the default timer assigned to states without an
// explicit timeout.
func neverEndingTimer() *stateTimer {
	return newStateTimer(func() int { return Forever })
}

// reset re-evaluates the duration function and restarts the countdown.
func (t *stateTimer) reset() {
	t.duration = t.fnDuration()
	t.remaining = t.duration
	t.expired = false
}

// tick advances the timer by one unit. It returns true exactly on the tick
// that exhausts the countdown; once expired, remaining stays pinned at zero
// and tick returns false until the next reset. A zero-duration timer expires
// on the first tick after reset.
func (t *stateTimer) tick() bool {
	if t.duration == Forever || t.expired {
		return false
	}
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining == 0 {
		t.expired = true
		return true
	}
	return false
}

// finite reports whether this timer can expire at all.
func (t *stateTimer) finite() bool {
	return t.duration != Forever
}
