// Package graph renders state machine diagrams from a machine's read-only
// introspection surface. It depends on no core logic; the engine runs the
// same with or without it.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mzholdas/tickfsm"
)

// Dot renders the machine as a Graphviz DOT digraph. The current state is
// drawn with a double border and the last fired transition is highlighted,
// so a periodically re-rendered diagram shows the machine "live".
func Dot[S, E comparable](m *tickfsm.Machine[S, E]) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph %q {\n", m.Description())
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=ellipse, fontname=\"Courier\" fontsize=\"8\"];\n")
	sb.WriteString("  edge [fontname=\"Courier\" fontsize=\"8\"];\n")

	for _, state := range sortedStates(m) {
		attrs := ""
		if annotation := state.Annotation(); annotation != "" {
			attrs = fmt.Sprintf("label=\"%v\\n%s\", ", state.ID(), annotation)
		}
		if m.Is(state.ID()) {
			attrs += "peripheries=2"
		}
		if attrs != "" {
			fmt.Fprintf(&sb, "  %q [%s];\n", nodeName(state.ID()), strings.TrimSuffix(attrs, ", "))
		} else {
			fmt.Fprintf(&sb, "  %q;\n", nodeName(state.ID()))
		}
	}

	lastFired := m.LastFiredTransition()
	for _, t := range m.Transitions() {
		attrs := fmt.Sprintf("label = %q", t.Label())
		if t == lastFired {
			attrs += ", color=red, fontcolor=red"
		}
		fmt.Fprintf(&sb, "  %q -> %q [ %s ];\n", nodeName(t.From), nodeName(t.To), attrs)
	}

	sb.WriteString("}\n")
	return sb.String()
}

// nodeName formats a state identifier for use as a diagram node name.
func nodeName(id any) string {
	return fmt.Sprintf("%v", id)
}

// sortedStates returns all materialized states ordered by formatted name,
// for stable output. States() order is unspecified.
func sortedStates[S, E comparable](m *tickfsm.Machine[S, E]) []*tickfsm.State[S] {
	states := m.States()
	sort.Slice(states, func(i, j int) bool {
		return nodeName(states[i].ID()) < nodeName(states[j].ID())
	})
	return states
}
