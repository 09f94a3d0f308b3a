package tickfsm

// Tracer is a passive observer invoked synchronously from the engine at
// well-defined points. Implementations must never alter engine state; they
// receive the machine handle for read-only introspection (description,
// state records, match strategy). Formatting and destination of the trace
// output are the implementation's concern.
//
// The trace subpackage provides a Tracer backed by log/slog.
type Tracer[S, E comparable] interface {
	// StateCreated reports lazy materialization of a state record.
	StateCreated(m *Machine[S, E], id S)

	// TimerReset reports an explicit timer reset via Machine.ResetTimer.
	TimerReset(m *Machine[S, E], id S)

	// EnteringInitialState reports Init switching into the initial state.
	EnteringInitialState(m *Machine[S, E], id S)

	// EnteringState reports entry into a state, after the current state
	// identifier has been updated.
	EnteringState(m *Machine[S, E], id S)

	// ExitingState reports departure from a state, before its exit action
	// runs.
	ExitingState(m *Machine[S, E], id S)

	// FiringTransition reports the transition selected on this tick. The
	// event is nil for timeout and guard-only firings.
	FiringTransition(m *Machine[S, E], t *Transition[S, E], event *E)

	// UnhandledEvent reports an event dropped under the LogMissing policy.
	UnhandledEvent(m *Machine[S, E], event E)

	// PublishedEvent reports an event published on the pub/sub channel.
	PublishedEvent(m *Machine[S, E], event E)
}

// NopTracer discards all notifications. It is the default tracer of a new
// machine.
type NopTracer[S, E comparable] struct{}

func (NopTracer[S, E]) StateCreated(*Machine[S, E], S)                          {}
func (NopTracer[S, E]) TimerReset(*Machine[S, E], S)                            {}
func (NopTracer[S, E]) EnteringInitialState(*Machine[S, E], S)                  {}
func (NopTracer[S, E]) EnteringState(*Machine[S, E], S)                         {}
func (NopTracer[S, E]) ExitingState(*Machine[S, E], S)                          {}
func (NopTracer[S, E]) FiringTransition(*Machine[S, E], *Transition[S, E], *E) {}
func (NopTracer[S, E]) UnhandledEvent(*Machine[S, E], E)                        {}
func (NopTracer[S, E]) PublishedEvent(*Machine[S, E], E)                        {}
