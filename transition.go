package tickfsm

import (
	"fmt"
	"reflect"
)

// TriggerKind classifies what causes a transition to fire.
type TriggerKind int

const (
	// TriggerNone marks a guard-only transition that fires on a tick
	// without a pending event.
	TriggerNone TriggerKind = iota

	// TriggerTimeout marks a transition fired by the source state's timer.
	TriggerTimeout

	// TriggerEventValue marks a transition matched against an event by
	// value equality.
	TriggerEventValue

	// TriggerEventType marks a transition matched against an event by its
	// dynamic type.
	TriggerEventType
)

// Transition is one record in the transition registry. Records are
// append-only per source state; their declaration order is significant
// because the first matching transition wins.
type Transition[S, E comparable] struct {
	// From is the source state of this transition.
	From S

	// To is the target state. Equal to From for a "stay" (self-loop)
	// transition.
	To S

	// guard gates the transition, default always true.
	guard func() bool

	// action runs when the transition fires. The triggering event is nil
	// for timeout and guard-only firings.
	action func(event *E)

	kind       TriggerKind
	eventValue *E
	eventType  reflect.Type

	// fnAnnotation optionally provides a diagnostic label.
	fnAnnotation func() string
}

// Kind returns the trigger classification of this transition.
func (t *Transition[S, E]) Kind() TriggerKind {
	return t.kind
}

// IsTimeout reports whether this transition fires on timer expiry.
func (t *Transition[S, E]) IsTimeout() bool {
	return t.kind == TriggerTimeout
}

// IsLoop reports whether source and target state are identical.
func (t *Transition[S, E]) IsLoop() bool {
	return t.From == t.To
}

// EventValue returns the declared event value for a by-value transition,
// or nil.
func (t *Transition[S, E]) EventValue() *E {
	return t.eventValue
}

// EventType returns the declared event type for a by-class transition,
// or nil.
func (t *Transition[S, E]) EventType() reflect.Type {
	return t.eventType
}

// SetAnnotation assigns a lazily evaluated diagnostic label.
func (t *Transition[S, E]) SetAnnotation(fnAnnotation func() string) {
	t.fnAnnotation = fnAnnotation
}

// Annotation returns the diagnostic label, or the empty string.
func (t *Transition[S, E]) Annotation() string {
	if t.fnAnnotation == nil {
		return ""
	}
	return t.fnAnnotation()
}

// Label returns a human-readable description of the trigger, preferring the
// annotation when one is set. Diagram exporters use it for edge labels.
func (t *Transition[S, E]) Label() string {
	if label := t.Annotation(); label != "" {
		return label
	}
	switch t.kind {
	case TriggerTimeout:
		return "timeout"
	case TriggerEventType:
		return t.eventType.Name()
	case TriggerEventValue:
		return fmt.Sprintf("%v", *t.eventValue)
	default:
		return "condition"
	}
}

func (t *Transition[S, E]) guardOK() bool {
	if t.guard == nil {
		return true
	}
	return t.guard()
}

func (t *Transition[S, E]) invokeAction(event *E) {
	if t.action != nil {
		t.action(event)
	}
}

func (t *Transition[S, E]) String() string {
	return fmt.Sprintf("%v --%s--> %v", t.From, t.Label(), t.To)
}

// EventTypeOf returns the reflect.Type for T, for registering by-class
// transitions:
//
//	fsm.AddTransitionOnEventType(Hunting, Fleeing, nil, nil, tickfsm.EventTypeOf[PowerPillEaten]())
func EventTypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
