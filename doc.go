// Package tickfsm provides a generic, tick-driven finite state machine
// engine for Go.
//
// A machine is driven by discrete "ticks": the client calls Update once per
// unit of logical time (typically once per frame or clock tick). On each tick
// the machine dequeues at most one pending event, fires the first matching
// transition, runs the current state's tick action, and advances the state's
// timer. Three transition triggers compete with strict precedence:
//
//   - an explicit event match (by value or by dynamic type)
//   - a guard-only condition (no event required)
//   - a state timer expiry
//
// # Basic Usage
//
// Declare a machine with the fluent builder:
//
//	fsm := tickfsm.BeginMachine[string, string](tickfsm.MatchByValue).
//	    Description("lamp").
//	    InitialState("Off").
//	    States().
//	        State("Off").
//	        State("On").TimeoutAfter(60).OnEntry(func() { fmt.Println("light!") }).
//	    Transitions().
//	        When("Off").Then("On").On("switch").
//	        When("On").Then("Off").OnTimeout().
//	    EndMachine()
//
// Drive it from a control loop:
//
//	fsm.Init()
//	for running {
//	    fsm.Enqueue(nextInput())
//	    if err := fsm.Update(); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Timers
//
// Each state owns a timer counting down in tick units. The default timer
// never expires; TimeoutAfter arms a finite one. Duration functions are
// re-evaluated on every reset, so durations may depend on runtime data.
//
// # Self-loops
//
// A transition whose source and target are identical fires its action only:
// no exit/entry callbacks run and the timer keeps counting. Use self-loops
// for "stay but react" patterns such as counters.
//
// # Observability
//
// A Tracer attached to the machine is notified of state creation, entry,
// exit, timer resets, transition firings, and unhandled events. The trace
// subpackage provides an implementation backed by log/slog; the graph
// subpackage renders DOT and Mermaid diagrams from a machine's introspection
// surface.
package tickfsm
