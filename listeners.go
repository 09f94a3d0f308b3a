package tickfsm

// StateListener observes entry into or exit from a specific state. Listeners
// are registered on the machine, independently of the State record's own
// entry/exit actions, and fire strictly after the record's own callback.
type StateListener[S comparable] func(state *State[S])

// AddStateEntryListener registers a listener fired whenever the given state
// is entered.
func (m *Machine[S, E]) AddStateEntryListener(id S, listener StateListener[S]) {
	m.entryListeners[id] = append(m.entryListeners[id], listener)
}

// AddStateExitListener registers a listener fired whenever the given state
// is left.
func (m *Machine[S, E]) AddStateExitListener(id S, listener StateListener[S]) {
	m.exitListeners[id] = append(m.exitListeners[id], listener)
}

func (m *Machine[S, E]) notifyEntryListeners(state *State[S]) {
	for _, listener := range m.entryListeners[state.id] {
		listener(state)
	}
}

func (m *Machine[S, E]) notifyExitListeners(state *State[S]) {
	for _, listener := range m.exitListeners[state.id] {
		listener(state)
	}
}
