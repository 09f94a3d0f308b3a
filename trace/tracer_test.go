package trace_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzholdas/tickfsm"
	"github.com/mzholdas/tickfsm/trace"
)

func newLogged(t *testing.T) (*tickfsm.Machine[string, string], *trace.MachineTracer[string, string], *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fsm := tickfsm.BeginMachine[string, string](tickfsm.MatchByValue).
		Description("demo").
		InitialState("A").
		States().
		State("A").
		State("B").TimeoutAfter(30).
		Transitions().
		When("A").Then("B").On("go").
		Stay("A").On("noise").
		EndMachine()

	tracer := trace.New[string, string](logger, func() int { return 60 })
	fsm.SetTracer(tracer)
	return fsm, tracer, &buf
}

func TestTracerLogsLifecycle(t *testing.T) {
	fsm, _, buf := newLogged(t)

	fsm.Init()
	require.NoError(t, fsm.Process("go"))

	out := buf.String()
	assert.Contains(t, out, "entering initial state")
	assert.Contains(t, out, "machine=demo")
	assert.Contains(t, out, "firing transition")
	assert.Contains(t, out, "changes=\"A --go--> B\"")
	assert.Contains(t, out, "exiting state")
	assert.Contains(t, out, "entering state")
}

func TestTracerReportsTimerSeconds(t *testing.T) {
	fsm, _, buf := newLogged(t)

	fsm.Init()
	require.NoError(t, fsm.Process("go"))

	// B has a 30 tick timer at 60 ticks/second.
	out := buf.String()
	assert.Contains(t, out, "ticks=30")
	assert.Contains(t, out, "seconds=0.5")
}

func TestTracerSelfLoopVerb(t *testing.T) {
	fsm, _, buf := newLogged(t)

	fsm.Init()
	require.NoError(t, fsm.Process("noise"))

	assert.Contains(t, buf.String(), "stays=\"A --noise--> A\"")
}

func TestTracerUnhandledEvent(t *testing.T) {
	fsm, _, buf := newLogged(t)
	fsm.SetMissingTransitionBehavior(tickfsm.LogMissing)

	fsm.Init()
	require.NoError(t, fsm.Process("bogus"))

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "unhandled event")
	assert.Contains(t, out, "event=bogus")
}

func TestTracerSuppression(t *testing.T) {
	fsm, tracer, buf := newLogged(t)
	fsm.SetMissingTransitionBehavior(tickfsm.LogMissing)
	tracer.DoNotLog(func(event string) bool { return event == "noise" })

	fsm.Init()
	require.NoError(t, fsm.Process("noise"))
	fsm.Publish("noise")
	assert.NotContains(t, buf.String(), "noise")

	require.NoError(t, fsm.Process("go"))
	assert.Contains(t, buf.String(), "event=go")
}

func TestTracerPublishedEvent(t *testing.T) {
	fsm, _, buf := newLogged(t)

	fsm.Publish("broadcast")
	out := buf.String()
	assert.Contains(t, out, "published event")
	assert.Contains(t, out, "event=broadcast")
}

func TestTracerDebugMessages(t *testing.T) {
	fsm, _, buf := newLogged(t)

	fsm.Init()
	fsm.State("C")
	fsm.ResetTimer("B")

	out := buf.String()
	assert.Contains(t, out, "state created")
	assert.Contains(t, out, "state=C")
	assert.Contains(t, out, "timer reset")
}

func TestTracerDefaults(t *testing.T) {
	// Nil logger and frequency function fall back to usable defaults
	// instead of panicking.
	tracer := trace.New[string, string](nil, nil)
	fsm := tickfsm.New[string, string](tickfsm.MatchByValue)
	fsm.SetTracer(tracer)
	fsm.SetInitialState("A")
	fsm.Init()

	assert.Equal(t, "A", fsm.Current())
}
