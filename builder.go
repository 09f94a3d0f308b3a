package tickfsm

import "reflect"

// builderPhase tracks the two-phase construction protocol. The builder is
// itself a tiny state machine: each phase keeps one open accumulator that is
// committed when the next State/When/Stay call or a phase change occurs.
type builderPhase int

const (
	phaseIdle builderPhase = iota
	phaseBuildingStates
	phaseBuildingTransitions
	phaseDone
)

// Builder assembles a machine declaratively. Construction runs in two
// phases entered via distinct methods: a states phase (States) followed by a
// transitions phase (Transitions, on the StateBuilder). Reentering the
// states phase after transitions have started is not supported. The machine
// is returned only by EndMachine; it is not usable before that.
//
// All configuration mistakes (duplicate callback assignment, conflicting
// triggers, out-of-phase calls) panic with a ConfigError at the offending
// call site.
type Builder[S, E comparable] struct {
	machine *Machine[S, E]
	phase   builderPhase
}

// stateDraft accumulates the state currently being declared.
type stateDraft[S comparable] struct {
	open                       bool
	id                         S
	custom                     *State[S]
	entryAction, exitAction    func()
	tickAction                 TickAction[S]
	entrySet, exitSet, tickSet bool
	fnTimer                    func() int
	fnAnnotation               func() string
}

// transitionDraft accumulates the transition currently being declared.
type transitionDraft[S, E comparable] struct {
	open         bool
	from, to     S
	guard        func() bool
	timeout      bool
	eventValue   *E
	eventType    reflect.Type
	action       func(event *E)
	fnAnnotation func() string
}

// BeginMachine starts the declarative construction of a machine with the
// given event match strategy.
func BeginMachine[S, E comparable](strategy MatchStrategy) *Builder[S, E] {
	return &Builder[S, E]{machine: New[S, E](strategy), phase: phaseIdle}
}

// Description assigns the description text of the machine under
// construction.
func (b *Builder[S, E]) Description(text string) *Builder[S, E] {
	b.machine.SetDescription(text)
	return b
}

// InitialState defines the state the machine enters on Init.
func (b *Builder[S, E]) InitialState(state S) *Builder[S, E] {
	b.machine.SetInitialState(state)
	return b
}

// States enters the state building phase.
func (b *Builder[S, E]) States() *StateBuilder[S, E] {
	if b.phase != phaseIdle {
		panic(configErrorf("%s: states section can only be entered once, before transitions", b.machine.label()))
	}
	b.phase = phaseBuildingStates
	return &StateBuilder[S, E]{b: b}
}

// StateBuilder declares states one at a time. Each State call commits the
// previously open state into the registry before opening the next one.
type StateBuilder[S, E comparable] struct {
	b     *Builder[S, E]
	draft stateDraft[S]
}

// State starts the declaration of a state, committing the previous one.
func (sb *StateBuilder[S, E]) State(id S) *StateBuilder[S, E] {
	sb.commit()
	sb.draft = stateDraft[S]{open: true, id: id}
	return sb
}

// CustomState replaces the default record of the state under declaration by
// the given record. Callbacks and timers declared in the builder are applied
// on top of it.
func (sb *StateBuilder[S, E]) CustomState(state *State[S]) *StateBuilder[S, E] {
	sb.requireOpen()
	if state == nil {
		panic(configErrorf("%s: custom state record for '%v' cannot be nil", sb.b.machine.label(), sb.draft.id))
	}
	sb.draft.custom = state
	return sb
}

// TimeoutAfter arms a constant timer of the given tick count for the state
// under declaration. A zero duration is legal and expires on the first tick
// after reset.
func (sb *StateBuilder[S, E]) TimeoutAfter(ticks int) *StateBuilder[S, E] {
	sb.requireOpen()
	if ticks < 0 {
		panic(configErrorf("%s: timer value must be non-negative for state '%v'", sb.b.machine.label(), sb.draft.id))
	}
	return sb.TimeoutAfterFn(func() int { return ticks })
}

// TimeoutAfterFn arms a timer whose duration function is re-evaluated on
// every reset.
func (sb *StateBuilder[S, E]) TimeoutAfterFn(fnTicks func() int) *StateBuilder[S, E] {
	sb.requireOpen()
	if fnTicks == nil {
		panic(configErrorf("%s: timer function cannot be nil for state '%v'", sb.b.machine.label(), sb.draft.id))
	}
	if sb.draft.fnTimer != nil {
		panic(configErrorf("%s: timer already set for state '%v'", sb.b.machine.label(), sb.draft.id))
	}
	sb.draft.fnTimer = fnTicks
	return sb
}

// OnEntry declares the entry action of the state under declaration.
// Declaring it twice for one state is a configuration error.
func (sb *StateBuilder[S, E]) OnEntry(action func()) *StateBuilder[S, E] {
	sb.requireOpen()
	if sb.draft.entrySet {
		panic(configErrorf("%s: entry action already set for state '%v'", sb.b.machine.label(), sb.draft.id))
	}
	sb.draft.entryAction = action
	sb.draft.entrySet = true
	return sb
}

// OnExit declares the exit action of the state under declaration.
func (sb *StateBuilder[S, E]) OnExit(action func()) *StateBuilder[S, E] {
	sb.requireOpen()
	if sb.draft.exitSet {
		panic(configErrorf("%s: exit action already set for state '%v'", sb.b.machine.label(), sb.draft.id))
	}
	sb.draft.exitAction = action
	sb.draft.exitSet = true
	return sb
}

// OnTick declares the tick action of the state under declaration.
func (sb *StateBuilder[S, E]) OnTick(action TickAction[S]) *StateBuilder[S, E] {
	sb.requireOpen()
	if sb.draft.tickSet {
		panic(configErrorf("%s: tick action already set for state '%v'", sb.b.machine.label(), sb.draft.id))
	}
	sb.draft.tickAction = action
	sb.draft.tickSet = true
	return sb
}

// Annotation declares a lazily evaluated display label for the state under
// declaration.
func (sb *StateBuilder[S, E]) Annotation(fnAnnotation func() string) *StateBuilder[S, E] {
	sb.requireOpen()
	sb.draft.fnAnnotation = fnAnnotation
	return sb
}

// Transitions commits the open state and enters the transition building
// phase.
func (sb *StateBuilder[S, E]) Transitions() *TransitionBuilder[S, E] {
	sb.commit()
	sb.b.phase = phaseBuildingTransitions
	return &TransitionBuilder[S, E]{b: sb.b}
}

func (sb *StateBuilder[S, E]) requireOpen() {
	if !sb.draft.open {
		panic(configErrorf("%s: state building must be started with State(...)", sb.b.machine.label()))
	}
}

func (sb *StateBuilder[S, E]) commit() {
	if !sb.draft.open {
		return
	}
	d := &sb.draft
	machine := sb.b.machine
	var state *State[S]
	if d.custom != nil {
		state = machine.RealizeState(d.id, d.custom)
	} else {
		state = machine.State(d.id)
	}
	if d.entrySet {
		state.SetOnEntry(d.entryAction)
	}
	if d.exitSet {
		state.SetOnExit(d.exitAction)
	}
	if d.tickSet {
		state.SetOnTick(d.tickAction)
	}
	if d.fnTimer != nil {
		state.SetTimerFn(d.fnTimer)
	}
	if d.fnAnnotation != nil {
		state.SetAnnotation(d.fnAnnotation)
	}
	sb.draft = stateDraft[S]{}
}

// TransitionBuilder declares transitions one at a time. Each When or Stay
// call commits the previously open transition, preserving declaration order,
// which is significant: the first matching transition wins.
type TransitionBuilder[S, E comparable] struct {
	b     *Builder[S, E]
	draft transitionDraft[S, E]
}

// When starts the declaration of a transition from the given source state.
// Until Then is called, the target equals the source.
func (tb *TransitionBuilder[S, E]) When(from S) *TransitionBuilder[S, E] {
	tb.commit()
	tb.draft = transitionDraft[S, E]{open: true, from: from, to: from}
	return tb
}

// Stay starts the declaration of a self-loop transition for the given
// state. Self-loops run their action only; no exit/entry callbacks fire and
// the state's timer is not reset.
func (tb *TransitionBuilder[S, E]) Stay(id S) *TransitionBuilder[S, E] {
	return tb.When(id)
}

// Then sets the target state of the transition under declaration.
func (tb *TransitionBuilder[S, E]) Then(to S) *TransitionBuilder[S, E] {
	tb.requireOpen()
	tb.draft.to = to
	return tb
}

// Condition sets the guard of the transition under declaration. The default
// guard always holds.
func (tb *TransitionBuilder[S, E]) Condition(guard func() bool) *TransitionBuilder[S, E] {
	tb.requireOpen()
	if guard == nil {
		panic(configErrorf("%s: transition guard cannot be nil", tb.b.machine.label()))
	}
	tb.draft.guard = guard
	return tb
}

// OnTimeout makes the transition under declaration fire when the source
// state's timer expires. Mutually exclusive with On and OnType.
func (tb *TransitionBuilder[S, E]) OnTimeout() *TransitionBuilder[S, E] {
	tb.requireOpen()
	if tb.draft.timeout {
		panic(configErrorf("%s: timeout condition must only be set once", tb.b.machine.label()))
	}
	tb.draft.timeout = true
	return tb
}

// On makes the transition under declaration fire when the dequeued event
// equals the given value. Only legal on machines using MatchByValue.
func (tb *TransitionBuilder[S, E]) On(event E) *TransitionBuilder[S, E] {
	tb.requireOpen()
	if tb.b.machine.matchStrategy != MatchByValue {
		panic(configErrorf("%s: cannot match event by value, match strategy is %s",
			tb.b.machine.label(), tb.b.machine.matchStrategy))
	}
	tb.draft.eventValue = &event
	return tb
}

// OnType makes the transition under declaration fire when the dequeued
// event's dynamic type equals the given type (see EventTypeOf). Only legal
// on machines using MatchByClass.
func (tb *TransitionBuilder[S, E]) OnType(eventType reflect.Type) *TransitionBuilder[S, E] {
	tb.requireOpen()
	if eventType == nil {
		panic(configErrorf("%s: event type of transition cannot be nil", tb.b.machine.label()))
	}
	if tb.b.machine.matchStrategy != MatchByClass {
		panic(configErrorf("%s: cannot match event by type, match strategy is %s",
			tb.b.machine.label(), tb.b.machine.matchStrategy))
	}
	tb.draft.eventType = eventType
	return tb
}

// Act sets the action executed when the transition under declaration fires.
// The action receives the triggering event, or nil for timeout and
// guard-only firings.
func (tb *TransitionBuilder[S, E]) Act(action func(event *E)) *TransitionBuilder[S, E] {
	tb.requireOpen()
	tb.draft.action = action
	return tb
}

// Annotation declares a lazily evaluated diagnostic label for the
// transition under declaration.
func (tb *TransitionBuilder[S, E]) Annotation(fnAnnotation func() string) *TransitionBuilder[S, E] {
	tb.requireOpen()
	tb.draft.fnAnnotation = fnAnnotation
	return tb
}

// EndMachine commits the open transition, finalizes the construction, and
// returns the machine.
func (tb *TransitionBuilder[S, E]) EndMachine() *Machine[S, E] {
	tb.commit()
	tb.b.phase = phaseDone
	return tb.b.machine
}

func (tb *TransitionBuilder[S, E]) requireOpen() {
	if !tb.draft.open {
		panic(configErrorf("%s: transition building must be started with When(...) or Stay(...)", tb.b.machine.label()))
	}
}

func (tb *TransitionBuilder[S, E]) commit() {
	if !tb.draft.open {
		return
	}
	d := &tb.draft
	machine := tb.b.machine
	if d.timeout && (d.eventValue != nil || d.eventType != nil) {
		panic(configErrorf("%s: cannot specify both timeout and event trigger for transition '%v' -> '%v'",
			machine.label(), d.from, d.to))
	}
	if d.eventValue != nil && d.eventType != nil {
		panic(configErrorf("%s: cannot specify both event value and event type for transition '%v' -> '%v'",
			machine.label(), d.from, d.to))
	}
	t := &Transition[S, E]{
		From: d.from, To: d.to,
		guard: d.guard, action: d.action,
		fnAnnotation: d.fnAnnotation,
	}
	switch {
	case d.timeout:
		t.kind = TriggerTimeout
	case d.eventValue != nil:
		t.kind = TriggerEventValue
		t.eventValue = d.eventValue
	case d.eventType != nil:
		t.kind = TriggerEventType
		t.eventType = d.eventType
	default:
		t.kind = TriggerNone
	}
	machine.addTransition(t)
	tb.draft = transitionDraft[S, E]{}
}
