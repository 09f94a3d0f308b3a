package tickfsm

import "reflect"

// MatchStrategy is the machine-wide policy for comparing a dequeued event
// against a transition's declared trigger. It is fixed per machine instance;
// registering a transition of the other flavour is a configuration error.
type MatchStrategy int

const (
	// MatchByValue matches an event against a transition when the event
	// equals the transition's declared event value.
	MatchByValue MatchStrategy = iota

	// MatchByClass matches an event against a transition when the event's
	// dynamic type equals the transition's declared event type. Intended
	// for machines whose event type parameter is an interface.
	MatchByClass
)

func (ms MatchStrategy) String() string {
	switch ms {
	case MatchByValue:
		return "BY_VALUE"
	case MatchByClass:
		return "BY_CLASS"
	default:
		return "UNKNOWN"
	}
}

// isMatching implements the immediate-match rules of the update scan:
// timeout transitions never match here, a missing event only matches
// guard-only transitions, and a present event is compared according to the
// machine's strategy. The guard is checked first in all cases.
func (m *Machine[S, E]) isMatching(t *Transition[S, E], event *E) bool {
	if t.kind == TriggerTimeout {
		return false
	}
	if !t.guardOK() {
		return false
	}
	if event == nil {
		return t.kind == TriggerNone
	}
	switch m.matchStrategy {
	case MatchByValue:
		return t.kind == TriggerEventValue && *t.eventValue == *event
	case MatchByClass:
		return t.kind == TriggerEventType && reflect.TypeOf(*event) == t.eventType
	}
	return false
}
