package graph

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mzholdas/tickfsm"
)

// Direction specifies the flow of a Mermaid state diagram.
type Direction int

const (
	// TopToBottom flows from top to bottom. This is Mermaid's default.
	TopToBottom Direction = iota
	// BottomToTop flows from bottom to top.
	BottomToTop
	// LeftToRight flows from left to right.
	LeftToRight
	// RightToLeft flows from right to left.
	RightToLeft
)

func (d Direction) String() string {
	switch d {
	case BottomToTop:
		return "BT"
	case LeftToRight:
		return "LR"
	case RightToLeft:
		return "RL"
	default:
		return "TB"
	}
}

// Mermaid renders the machine as a Mermaid stateDiagram-v2 definition.
func Mermaid[S, E comparable](m *tickfsm.Machine[S, E], direction Direction) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")
	if direction != TopToBottom {
		fmt.Fprintf(&sb, "\tdirection %s\n", direction)
	}

	for _, state := range sortedStates(m) {
		if annotation := state.Annotation(); annotation != "" {
			fmt.Fprintf(&sb, "\t%s : %s\n", mermaidID(state.ID()), annotation)
		}
	}

	if initial, ok := m.InitialState(); ok {
		fmt.Fprintf(&sb, "\t[*] --> %s\n", mermaidID(initial))
	}
	for _, t := range m.Transitions() {
		fmt.Fprintf(&sb, "\t%s --> %s : %s\n", mermaidID(t.From), mermaidID(t.To), t.Label())
	}
	return sb.String()
}

// mermaidID formats a state identifier as a Mermaid node identifier, which
// must not contain whitespace.
func mermaidID(id any) string {
	name := nodeName(id)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, name)
}
