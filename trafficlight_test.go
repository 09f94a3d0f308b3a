package tickfsm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzholdas/tickfsm"
)

// TestTrafficLightRoundTrip drives a full Red -> Green -> Yellow -> Red cycle
// on timers alone and checks entry/exit counts along the way.
func TestTrafficLightRoundTrip(t *testing.T) {
	entries := map[string]int{}
	exits := map[string]int{}
	count := func(id string) (func(), func()) {
		return func() { entries[id]++ }, func() { exits[id]++ }
	}
	onRed, offRed := count("Red")
	onGreen, offGreen := count("Green")
	onYellow, offYellow := count("Yellow")

	fsm := tickfsm.BeginMachine[string, string](tickfsm.MatchByValue).
		Description("traffic-light").
		InitialState("Off").
		States().
		State("Off").
		State("Red").TimeoutAfter(3).OnEntry(onRed).OnExit(offRed).
		State("Green").TimeoutAfter(5).OnEntry(onGreen).OnExit(offGreen).
		State("Yellow").TimeoutAfter(2).OnEntry(onYellow).OnExit(offYellow).
		Transitions().
		When("Off").Then("Red").On("go").
		When("Red").Then("Green").OnTimeout().
		When("Green").Then("Yellow").OnTimeout().
		When("Yellow").Then("Red").OnTimeout().
		When("Red").Then("Off").On("off").
		EndMachine()

	fsm.Init()
	require.Equal(t, "Off", fsm.Current())

	// The "go" event switches the light on without advancing any timer.
	require.NoError(t, fsm.Process("go"))
	require.Equal(t, "Red", fsm.Current())
	require.Equal(t, 3, fsm.State("Red").TicksRemaining())

	expected := []string{
		"Red", "Red", "Green", // updates 1-3, Red expires on 3
		"Green", "Green", "Green", "Green", "Yellow", // updates 4-8
		"Yellow", "Red", // updates 9-10, back to Red
	}
	for i, want := range expected {
		require.NoError(t, fsm.Update())
		require.Equal(t, want, fsm.Current(), "update %d", i+1)
	}

	assert.Equal(t, 2, entries["Red"])
	assert.Equal(t, 1, exits["Red"])
	assert.Equal(t, 1, entries["Green"])
	assert.Equal(t, 1, exits["Green"])
	assert.Equal(t, 1, entries["Yellow"])
	assert.Equal(t, 1, exits["Yellow"])

	// Re-entering Red restarted its timer.
	assert.Equal(t, 3, fsm.State("Red").TicksRemaining())

	// The "off" event works from Red only.
	require.NoError(t, fsm.Process("off"))
	assert.Equal(t, "Off", fsm.Current())
}
