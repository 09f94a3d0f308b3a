package tickfsm

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// MissingTransitionBehavior is the policy for handling a dequeued event that
// matches no transition from the current state.
type MissingTransitionBehavior int

const (
	// RaiseOnMissing fails the Update call with an UnhandledEventError.
	// This is the default.
	RaiseOnMissing MissingTransitionBehavior = iota

	// IgnoreMissing silently drops the event.
	IgnoreMissing

	// LogMissing reports the event to the tracer and drops it.
	LogMissing
)

func (b MissingTransitionBehavior) String() string {
	switch b {
	case RaiseOnMissing:
		return "RAISE"
	case IgnoreMissing:
		return "IGNORE"
	case LogMissing:
		return "LOG"
	default:
		return "UNKNOWN"
	}
}

// Machine is a tick-driven finite state machine over state identifiers of
// type S and events of type E.
//
// A machine is single-threaded and non-reentrant: each Update must run to
// completion, including all callbacks it triggers, before the next Update,
// Process, or Enqueue call. Callbacks may Enqueue follow-up events on the
// same machine, but must not call Update reentrantly. Independent machine
// instances share no state and may run on separate goroutines as long as
// each instance is driven by one goroutine at a time.
type Machine[S, E comparable] struct {
	// id identifies this instance in traces when no description is set.
	id uuid.UUID

	description   string
	matchStrategy MatchStrategy

	initialState    S
	initialStateSet bool

	currentState S
	initialized  bool

	// states maps identifiers to their lazily materialized records.
	states map[S]*State[S]

	// transitions holds the ordered transition list per source state.
	transitions map[S][]*Transition[S, E]

	// eventQ is the FIFO of pending inputs, drained one per update.
	eventQ []E

	missingBehavior MissingTransitionBehavior

	// lastFired supports diagnostic replay, e.g. edge highlighting in an
	// exported diagram.
	lastFired *Transition[S, E]

	tracer Tracer[S, E]

	// entryListeners and exitListeners are independent of the State
	// records' own callbacks and fire strictly after them.
	entryListeners map[S][]StateListener[S]
	exitListeners  map[S][]StateListener[S]

	eventListeners []*Subscription[E]
}

// New creates a machine with the given event match strategy. The initial
// state must be set before Init, either directly or through the builder.
func New[S, E comparable](strategy MatchStrategy) *Machine[S, E] {
	return &Machine[S, E]{
		id:              uuid.New(),
		matchStrategy:   strategy,
		states:          make(map[S]*State[S]),
		transitions:     make(map[S][]*Transition[S, E]),
		missingBehavior: RaiseOnMissing,
		tracer:          NopTracer[S, E]{},
		entryListeners:  make(map[S][]StateListener[S]),
		exitListeners:   make(map[S][]StateListener[S]),
	}
}

// ID returns the unique identifier of this machine instance.
func (m *Machine[S, E]) ID() uuid.UUID {
	return m.id
}

// Description returns the description text of this machine, used by tracing
// and diagram export.
func (m *Machine[S, E]) Description() string {
	return m.description
}

// SetDescription assigns the description text of this machine.
func (m *Machine[S, E]) SetDescription(description string) {
	m.description = description
}

// label names this machine in traces and errors.
func (m *Machine[S, E]) label() string {
	if m.description != "" {
		return m.description
	}
	return fmt.Sprintf("fsm-%s", m.id.String()[:8])
}

// MatchStrategy returns the event match strategy of this machine.
func (m *Machine[S, E]) MatchStrategy() MatchStrategy {
	return m.matchStrategy
}

// SetMissingTransitionBehavior defines how the machine reacts to an event
// with no matching transition.
func (m *Machine[S, E]) SetMissingTransitionBehavior(behavior MissingTransitionBehavior) {
	m.missingBehavior = behavior
}

// SetTracer attaches the given tracer to this machine. A nil tracer resets
// to the no-op tracer.
func (m *Machine[S, E]) SetTracer(tracer Tracer[S, E]) {
	if tracer == nil {
		m.tracer = NopTracer[S, E]{}
		return
	}
	m.tracer = tracer
}

// Tracer returns the tracer attached to this machine.
func (m *Machine[S, E]) Tracer() Tracer[S, E] {
	return m.tracer
}

// SetInitialState defines the state entered by Init.
func (m *Machine[S, E]) SetInitialState(state S) {
	m.initialState = state
	m.initialStateSet = true
}

// InitialState returns the initial state and whether one has been set.
func (m *Machine[S, E]) InitialState() (S, bool) {
	return m.initialState, m.initialStateSet
}

// State returns the record for the given state identifier, materializing a
// default record (no-op callbacks, no finite timer) on first access.
func (m *Machine[S, E]) State(id S) *State[S] {
	if state, ok := m.states[id]; ok {
		return state
	}
	state := newDefaultState(id)
	m.states[id] = state
	m.tracer.StateCreated(m, id)
	return state
}

// RealizeState creates or replaces the record for the given state. Replacing
// a record is supported only before the machine starts running; doing so
// after Init is undefined behavior.
func (m *Machine[S, E]) RealizeState(id S, state *State[S]) *State[S] {
	if state == nil {
		panic(configErrorf("%s: custom state record for '%v' cannot be nil", m.label(), id))
	}
	state.id = id
	if state.timer == nil {
		state.timer = neverEndingTimer()
	}
	m.states[id] = state
	return state
}

// CurrentState returns the record of the current state. It panics with a
// LifecycleError if the machine has not been initialized.
func (m *Machine[S, E]) CurrentState() *State[S] {
	if !m.initialized {
		panic(lifecycleErrorf("%s: cannot access current state, machine not initialized", m.label()))
	}
	return m.State(m.currentState)
}

// Current returns the current state identifier. The result is undefined
// before Init.
func (m *Machine[S, E]) Current() S {
	return m.currentState
}

// Is reports whether the machine currently is in one of the given states.
func (m *Machine[S, E]) Is(states ...S) bool {
	if !m.initialized {
		return false
	}
	for _, s := range states {
		if s == m.currentState {
			return true
		}
	}
	return false
}

// States returns all materialized state records. Order is unspecified.
func (m *Machine[S, E]) States() []*State[S] {
	states := make([]*State[S], 0, len(m.states))
	for _, state := range m.states {
		states = append(states, state)
	}
	return states
}

// Transitions returns all registered transitions. Ordering across different
// source states is unspecified; within one source state's transitions,
// declaration order is preserved.
func (m *Machine[S, E]) Transitions() []*Transition[S, E] {
	var all []*Transition[S, E]
	for _, list := range m.transitions {
		all = append(all, list...)
	}
	return all
}

// LastFiredTransition returns the most recently fired transition, or nil if
// none has fired yet.
func (m *Machine[S, E]) LastFiredTransition() *Transition[S, E] {
	return m.lastFired
}

// addTransition appends a record to the ordered list of the source state.
// The target state is not validated; lazy materialization covers endpoints
// that are never explicitly declared.
func (m *Machine[S, E]) addTransition(t *Transition[S, E]) *Transition[S, E] {
	m.transitions[t.From] = append(m.transitions[t.From], t)
	return t
}

// AddTransition registers a guard-only transition which fires on a tick
// without a pending event when the guard holds. A nil guard always holds;
// a nil action is a no-op.
func (m *Machine[S, E]) AddTransition(from, to S, guard func() bool, action func(event *E)) *Transition[S, E] {
	return m.addTransition(&Transition[S, E]{
		From: from, To: to, guard: guard, action: action, kind: TriggerNone,
	})
}

// AddTimeoutTransition registers a transition fired when the source state's
// timer expires and the guard holds. The guard is evaluated at fire time.
func (m *Machine[S, E]) AddTimeoutTransition(from, to S, guard func() bool, action func(event *E)) *Transition[S, E] {
	return m.addTransition(&Transition[S, E]{
		From: from, To: to, guard: guard, action: action, kind: TriggerTimeout,
	})
}

// AddTransitionOnEventValue registers a transition fired when the guard
// holds and the dequeued event equals the given value. Only legal on
// machines using MatchByValue.
func (m *Machine[S, E]) AddTransitionOnEventValue(from, to S, guard func() bool, action func(event *E), event E) *Transition[S, E] {
	if m.matchStrategy != MatchByValue {
		panic(configErrorf("%s: cannot add by-value transition, match strategy is %s", m.label(), m.matchStrategy))
	}
	return m.addTransition(&Transition[S, E]{
		From: from, To: to, guard: guard, action: action,
		kind: TriggerEventValue, eventValue: &event,
	})
}

// AddTransitionOnEventType registers a transition fired when the guard holds
// and the dequeued event's dynamic type equals the given type. Only legal on
// machines using MatchByClass.
func (m *Machine[S, E]) AddTransitionOnEventType(from, to S, guard func() bool, action func(event *E), eventType reflect.Type) *Transition[S, E] {
	if m.matchStrategy != MatchByClass {
		panic(configErrorf("%s: cannot add by-class transition, match strategy is %s", m.label(), m.matchStrategy))
	}
	if eventType == nil {
		panic(configErrorf("%s: event type of transition cannot be nil", m.label()))
	}
	return m.addTransition(&Transition[S, E]{
		From: from, To: to, guard: guard, action: action,
		kind: TriggerEventType, eventType: eventType,
	})
}

// Enqueue adds an event to the input queue. At most one event is consumed
// per update, in FIFO order.
func (m *Machine[S, E]) Enqueue(event E) {
	m.eventQ = append(m.eventQ, event)
}

// Process enqueues the given event and updates the machine once.
func (m *Machine[S, E]) Process(event E) error {
	m.Enqueue(event)
	return m.Update()
}

// Init switches the machine into its initial state, resetting that state's
// timer and running its entry path. It panics with a LifecycleError if no
// initial state has been set.
func (m *Machine[S, E]) Init() {
	if !m.initialStateSet {
		panic(lifecycleErrorf("%s: cannot initialize, no initial state defined", m.label()))
	}
	m.tracer.EnteringInitialState(m, m.initialState)
	m.currentState = m.initialState
	m.initialized = true
	state := m.State(m.currentState)
	state.timer.reset()
	state.onEntry()
	m.notifyEntryListeners(state)
}

// Update drives the machine by one tick:
//
//  1. Dequeue at most one pending event.
//  2. Fire the first non-timeout transition of the current state whose guard
//     holds and whose trigger matches the event; if one fires, the timer is
//     not advanced this tick and Update returns.
//  3. Otherwise, an unconsumed event is subject to the missing-transition
//     policy; under RaiseOnMissing the tick fails here.
//  4. Run the current state's tick action.
//  5. Advance the timer; on expiry, fire the first timeout transition whose
//     guard holds.
//
// Tick actions observe the pre-transition timer values; when a timeout
// fires, it does so after the tick action of the same update, so a state
// does its work for the full duration before transitioning.
func (m *Machine[S, E]) Update() error {
	if !m.initialized {
		return lifecycleErrorf("%s: cannot update, machine not initialized", m.label())
	}
	var event *E
	if len(m.eventQ) > 0 {
		e := m.eventQ[0]
		m.eventQ = m.eventQ[1:]
		event = &e
	}
	if t := m.findImmediateTransition(event); t != nil {
		m.fireTransition(t, event)
		return nil
	}
	if event != nil {
		switch m.missingBehavior {
		case RaiseOnMissing:
			return &UnhandledEventError{Machine: m.label(), State: m.currentState, Event: *event}
		case LogMissing:
			m.tracer.UnhandledEvent(m, *event)
		case IgnoreMissing:
		}
	}
	state := m.State(m.currentState)
	state.onTick()
	if state.timer.tick() {
		if t := m.findTimeoutTransition(); t != nil {
			m.fireTransition(t, nil)
		}
	}
	return nil
}

// findImmediateTransition scans the current state's transitions in
// declaration order for the first non-timeout match.
func (m *Machine[S, E]) findImmediateTransition(event *E) *Transition[S, E] {
	for _, t := range m.transitions[m.currentState] {
		if m.isMatching(t, event) {
			return t
		}
	}
	return nil
}

// findTimeoutTransition scans for the first timeout transition whose guard
// holds at fire time.
func (m *Machine[S, E]) findTimeoutTransition() *Transition[S, E] {
	for _, t := range m.transitions[m.currentState] {
		if t.kind == TriggerTimeout && t.guardOK() {
			return t
		}
	}
	return nil
}

// fireTransition executes the entry/exit/action sequence for the given
// transition. A self-loop runs the transition action only: no exit/entry
// callbacks, no listeners, and no timer reset.
func (m *Machine[S, E]) fireTransition(t *Transition[S, E], event *E) {
	m.tracer.FiringTransition(m, t, event)
	m.lastFired = t
	if t.To == m.currentState {
		t.invokeAction(event)
		return
	}
	source := m.State(m.currentState)
	target := m.State(t.To)
	m.tracer.ExitingState(m, m.currentState)
	source.onExit()
	m.notifyExitListeners(source)
	t.invokeAction(event)
	m.currentState = t.To
	target.timer.reset()
	m.tracer.EnteringState(m, t.To)
	target.onEntry()
	m.notifyEntryListeners(target)
}

// SetState jumps directly to the given state, bypassing transition matching:
// the current state's exit path runs (if the machine is initialized), then
// the new state's timer is reset and its entry path runs.
func (m *Machine[S, E]) SetState(id S) {
	m.enterState(id, true)
}

// ResumeState is identical to SetState except that the timer of the entered
// state is not reset, so a suspended state continues where it left off.
func (m *Machine[S, E]) ResumeState(id S) {
	m.enterState(id, false)
}

func (m *Machine[S, E]) enterState(id S, resetTimer bool) {
	if m.initialized {
		current := m.State(m.currentState)
		m.tracer.ExitingState(m, m.currentState)
		current.onExit()
		m.notifyExitListeners(current)
	}
	m.currentState = id
	m.initialized = true
	state := m.State(id)
	if resetTimer {
		state.timer.reset()
	}
	m.tracer.EnteringState(m, id)
	state.onEntry()
	m.notifyEntryListeners(state)
}

// ResetTimer sets the timer of the given state back to its full duration,
// re-evaluating the duration function.
func (m *Machine[S, E]) ResetTimer(id S) {
	m.State(id).timer.reset()
	m.tracer.TimerReset(m, id)
}

func (m *Machine[S, E]) String() string {
	return fmt.Sprintf("Machine{%s, state=%v}", m.label(), m.currentState)
}
