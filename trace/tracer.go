// Package trace provides a Tracer implementation backed by log/slog.
//
// The engine itself holds no logger; attach a MachineTracer to forward its
// notifications to structured logs:
//
//	fsm.SetTracer(trace.New[State, Event](slog.Default(), func() int { return 60 }))
package trace

import (
	"log/slog"

	"github.com/mzholdas/tickfsm"
)

// MachineTracer logs state machine activity through a slog.Logger. Entering
// a state with a finite timer additionally reports the duration in ticks and
// seconds, using the configured ticks-per-second function.
//
// Per-event suppression predicates (DoNotLog) let the client silence noisy
// events, e.g. per-frame movement inputs, without the engine knowing.
type MachineTracer[S, E comparable] struct {
	log *slog.Logger

	// fnTicksPerSecond is the update frequency of the traced machine,
	// queried per message so a variable clock stays accurate.
	fnTicksPerSecond func() int

	suppressions []func(event E) bool
}

// New creates a tracer that writes to the given logger. A nil logger falls
// back to slog.Default; a nil frequency function assumes 60 ticks/second.
func New[S, E comparable](log *slog.Logger, fnTicksPerSecond func() int) *MachineTracer[S, E] {
	if log == nil {
		log = slog.Default()
	}
	if fnTicksPerSecond == nil {
		fnTicksPerSecond = func() int { return 60 }
	}
	return &MachineTracer[S, E]{log: log, fnTicksPerSecond: fnTicksPerSecond}
}

// DoNotLog suppresses messages about events matching the given predicate.
func (tr *MachineTracer[S, E]) DoNotLog(predicate func(event E) bool) {
	tr.suppressions = append(tr.suppressions, predicate)
}

func (tr *MachineTracer[S, E]) suppressed(event E) bool {
	for _, predicate := range tr.suppressions {
		if predicate(event) {
			return true
		}
	}
	return false
}

func label[S, E comparable](m *tickfsm.Machine[S, E]) string {
	if m.Description() != "" {
		return m.Description()
	}
	return m.ID().String()
}

func (tr *MachineTracer[S, E]) StateCreated(m *tickfsm.Machine[S, E], id S) {
	tr.log.Debug("state created", "machine", label(m), "state", id)
}

func (tr *MachineTracer[S, E]) TimerReset(m *tickfsm.Machine[S, E], id S) {
	tr.log.Debug("timer reset", "machine", label(m), "state", id)
}

func (tr *MachineTracer[S, E]) EnteringInitialState(m *tickfsm.Machine[S, E], id S) {
	tr.log.Info("entering initial state", "machine", label(m), "state", id)
}

func (tr *MachineTracer[S, E]) EnteringState(m *tickfsm.Machine[S, E], id S) {
	state := m.State(id)
	if state.HasTimer() {
		ticks := state.Duration()
		seconds := float64(ticks) / float64(tr.fnTicksPerSecond())
		tr.log.Info("entering state", "machine", label(m), "state", id,
			"ticks", ticks, "seconds", seconds)
		return
	}
	tr.log.Info("entering state", "machine", label(m), "state", id)
}

func (tr *MachineTracer[S, E]) ExitingState(m *tickfsm.Machine[S, E], id S) {
	tr.log.Info("exiting state", "machine", label(m), "state", id)
}

func (tr *MachineTracer[S, E]) FiringTransition(m *tickfsm.Machine[S, E], t *tickfsm.Transition[S, E], event *E) {
	if event != nil && tr.suppressed(*event) {
		return
	}
	verb := "changes"
	if t.IsLoop() {
		verb = "stays"
	}
	if event != nil {
		tr.log.Info("firing transition", "machine", label(m), verb, t.String(), "event", *event)
		return
	}
	tr.log.Info("firing transition", "machine", label(m), verb, t.String())
}

func (tr *MachineTracer[S, E]) UnhandledEvent(m *tickfsm.Machine[S, E], event E) {
	if tr.suppressed(event) {
		return
	}
	tr.log.Warn("unhandled event", "machine", label(m), "state", m.Current(), "event", event)
}

func (tr *MachineTracer[S, E]) PublishedEvent(m *tickfsm.Machine[S, E], event E) {
	if tr.suppressed(event) {
		return
	}
	tr.log.Info("published event", "machine", label(m), "event", event)
}
