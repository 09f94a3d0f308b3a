package tickfsm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzholdas/tickfsm"
)

func TestStateListeners(t *testing.T) {
	t.Run("listeners fire after the state's own callbacks", func(t *testing.T) {
		var trail []string
		fsm := tickfsm.BeginMachine[string, string](tickfsm.MatchByValue).
			InitialState("A").
			States().
			State("A").OnExit(func() { trail = append(trail, "exit action") }).
			State("B").OnEntry(func() { trail = append(trail, "entry action") }).
			Transitions().
			When("A").Then("B").On("x").
			EndMachine()

		fsm.AddStateExitListener("A", func(state *tickfsm.State[string]) {
			trail = append(trail, "exit listener "+state.ID())
		})
		fsm.AddStateEntryListener("B", func(state *tickfsm.State[string]) {
			trail = append(trail, "entry listener "+state.ID())
		})

		fsm.Init()
		require.NoError(t, fsm.Process("x"))
		assert.Equal(t, []string{
			"exit action", "exit listener A",
			"entry action", "entry listener B",
		}, trail)
	})

	t.Run("initial entry notifies listeners", func(t *testing.T) {
		notified := 0
		fsm := tickfsm.BeginMachine[string, string](tickfsm.MatchByValue).
			InitialState("A").
			States().
			State("A").
			Transitions().
			EndMachine()

		fsm.AddStateEntryListener("A", func(*tickfsm.State[string]) { notified++ })
		fsm.Init()
		assert.Equal(t, 1, notified)
	})

	t.Run("self-loops do not notify listeners", func(t *testing.T) {
		notified := 0
		fsm := tickfsm.BeginMachine[string, string](tickfsm.MatchByValue).
			InitialState("A").
			States().
			State("A").
			Transitions().
			Stay("A").On("x").
			EndMachine()

		fsm.AddStateEntryListener("A", func(*tickfsm.State[string]) { notified++ })
		fsm.AddStateExitListener("A", func(*tickfsm.State[string]) { notified++ })
		fsm.Init()
		require.NoError(t, fsm.Process("x"))
		assert.Equal(t, 1, notified)
	})

	t.Run("multiple listeners fire in registration order", func(t *testing.T) {
		var trail []string
		fsm := tickfsm.BeginMachine[string, string](tickfsm.MatchByValue).
			InitialState("A").
			States().
			State("A").
			Transitions().
			EndMachine()

		fsm.AddStateEntryListener("A", func(*tickfsm.State[string]) { trail = append(trail, "first") })
		fsm.AddStateEntryListener("A", func(*tickfsm.State[string]) { trail = append(trail, "second") })
		fsm.Init()
		assert.Equal(t, []string{"first", "second"}, trail)
	})
}

func TestEventPubSub(t *testing.T) {
	t.Run("publish delivers to listeners in registration order", func(t *testing.T) {
		fsm := tickfsm.New[string, string](tickfsm.MatchByValue)
		var received []string
		fsm.AddEventListener(func(event string) { received = append(received, "a:"+event) })
		fsm.AddEventListener(func(event string) { received = append(received, "b:"+event) })

		fsm.Publish("ping")
		assert.Equal(t, []string{"a:ping", "b:ping"}, received)
	})

	t.Run("publish does not feed the transition queue", func(t *testing.T) {
		fsm := tickfsm.BeginMachine[string, string](tickfsm.MatchByValue).
			InitialState("A").
			States().
			State("A").
			Transitions().
			When("A").Then("B").On("x").
			EndMachine()

		fsm.Init()
		fsm.Publish("x")
		require.NoError(t, fsm.Update())
		assert.Equal(t, "A", fsm.Current())
	})

	t.Run("removed subscription no longer receives", func(t *testing.T) {
		fsm := tickfsm.New[string, string](tickfsm.MatchByValue)
		delivered := 0
		sub := fsm.AddEventListener(func(string) { delivered++ })

		fsm.Publish("one")
		fsm.RemoveEventListener(sub)
		fsm.Publish("two")
		assert.Equal(t, 1, delivered)

		// Removing twice is a no-op.
		fsm.RemoveEventListener(sub)
	})

	t.Run("listener bridging two machines", func(t *testing.T) {
		producer := tickfsm.New[string, string](tickfsm.MatchByValue)
		consumer := tickfsm.BeginMachine[string, string](tickfsm.MatchByValue).
			InitialState("Idle").
			States().
			State("Idle").
			Transitions().
			When("Idle").Then("Working").On("start").
			EndMachine()

		producer.AddEventListener(func(event string) { consumer.Enqueue(event) })
		consumer.Init()

		producer.Publish("start")
		require.NoError(t, consumer.Update())
		assert.Equal(t, "Working", consumer.Current())
	})

	t.Run("publish reaches the tracer", func(t *testing.T) {
		fsm := tickfsm.New[string, string](tickfsm.MatchByValue)
		rec := &recordingTracer[string, string]{}
		fsm.SetTracer(rec)
		fsm.Publish("ping")
		assert.Equal(t, []string{"ping"}, rec.published)
	})
}
