package tickfsm

// Subscription identifies a registered event listener so it can be removed
// again. Function values are not comparable in Go, so removal goes through
// the handle returned by AddEventListener.
type Subscription[E comparable] struct {
	handler func(event E)
}

// AddEventListener registers a listener on the machine's pub/sub channel.
// This channel is for cross-machine signaling and is decoupled from the
// transition-triggering event queue: published events are delivered to
// listeners only, never enqueued.
func (m *Machine[S, E]) AddEventListener(handler func(event E)) *Subscription[E] {
	sub := &Subscription[E]{handler: handler}
	m.eventListeners = append(m.eventListeners, sub)
	return sub
}

// RemoveEventListener removes a previously registered listener. Removing an
// unknown subscription is a no-op.
func (m *Machine[S, E]) RemoveEventListener(sub *Subscription[E]) {
	for i, s := range m.eventListeners {
		if s == sub {
			m.eventListeners = append(m.eventListeners[:i], m.eventListeners[i+1:]...)
			return
		}
	}
}

// Publish delivers the given event to all registered event listeners, in
// registration order. A listener may react by enqueueing events on this or
// another machine.
func (m *Machine[S, E]) Publish(event E) {
	m.tracer.PublishedEvent(m, event)
	listeners := make([]*Subscription[E], len(m.eventListeners))
	copy(listeners, m.eventListeners)
	for _, sub := range listeners {
		sub.handler(event)
	}
}
