// Package def loads declarative machine definitions from YAML. Definitions
// describe string-identified states and by-value string events; behavior
// (callbacks, guards) is attached in code after loading.
//
// A definition looks like:
//
//	name: traffic-light
//	initial: Off
//	missingTransition: ignore
//	states:
//	  - id: Red
//	    timeout: 3
//	  - id: Green
//	    timeout: 5
//	transitions:
//	  - {from: Off, to: Red, event: go}
//	  - {from: Red, to: Green, onTimeout: true}
package def

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mzholdas/tickfsm"
)

// Document is the YAML shape of a machine definition.
type Document struct {
	Name              string          `yaml:"name"`
	Initial           string          `yaml:"initial"`
	MissingTransition string          `yaml:"missingTransition"`
	States            []StateDef      `yaml:"states"`
	Transitions       []TransitionDef `yaml:"transitions"`
}

// StateDef declares one state. Timeout is the timer duration in ticks; a
// state without one never times out.
type StateDef struct {
	ID         string `yaml:"id"`
	Timeout    *int   `yaml:"timeout"`
	Annotation string `yaml:"annotation"`
}

// TransitionDef declares one transition. Exactly one of Event and OnTimeout
// may be set; neither means a guard-only transition (which fires on every
// event-less tick unless a guard is attached after loading).
type TransitionDef struct {
	From       string `yaml:"from"`
	To         string `yaml:"to"`
	Event      string `yaml:"event"`
	OnTimeout  bool   `yaml:"onTimeout"`
	Annotation string `yaml:"annotation"`
}

// Parse decodes and validates a YAML definition.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("def: decode: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads a YAML definition and builds the machine from it.
func Load(r io.Reader) (*tickfsm.Machine[string, string], error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("def: read: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return doc.Machine()
}

func (d *Document) validate() error {
	if d.Initial == "" {
		return fmt.Errorf("def: %s: initial state not set", d.Name)
	}
	declared := make(map[string]bool, len(d.States))
	for _, s := range d.States {
		if s.ID == "" {
			return fmt.Errorf("def: %s: state with empty id", d.Name)
		}
		if declared[s.ID] {
			return fmt.Errorf("def: %s: duplicate state %q", d.Name, s.ID)
		}
		if s.Timeout != nil && *s.Timeout < 0 {
			return fmt.Errorf("def: %s: state %q: negative timeout", d.Name, s.ID)
		}
		declared[s.ID] = true
	}
	for i, t := range d.Transitions {
		if t.From == "" || t.To == "" {
			return fmt.Errorf("def: %s: transition %d: from and to are mandatory", d.Name, i)
		}
		if t.OnTimeout && t.Event != "" {
			return fmt.Errorf("def: %s: transition %d: cannot combine event and onTimeout", d.Name, i)
		}
	}
	switch d.MissingTransition {
	case "", "raise", "ignore", "log":
	default:
		return fmt.Errorf("def: %s: unknown missingTransition %q", d.Name, d.MissingTransition)
	}
	return nil
}

// Machine builds a by-value machine from the definition. States referenced
// only by transitions are materialized lazily by the engine, exactly as with
// the in-code builder.
func (d *Document) Machine() (*tickfsm.Machine[string, string], error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	m := tickfsm.New[string, string](tickfsm.MatchByValue)
	m.SetDescription(d.Name)
	m.SetInitialState(d.Initial)
	switch d.MissingTransition {
	case "ignore":
		m.SetMissingTransitionBehavior(tickfsm.IgnoreMissing)
	case "log":
		m.SetMissingTransitionBehavior(tickfsm.LogMissing)
	}
	for _, s := range d.States {
		state := m.State(s.ID)
		if s.Timeout != nil {
			state.SetTimer(*s.Timeout)
		}
		if s.Annotation != "" {
			annotation := s.Annotation
			state.SetAnnotation(func() string { return annotation })
		}
	}
	for _, t := range d.Transitions {
		var record *tickfsm.Transition[string, string]
		switch {
		case t.OnTimeout:
			record = m.AddTimeoutTransition(t.From, t.To, nil, nil)
		case t.Event != "":
			record = m.AddTransitionOnEventValue(t.From, t.To, nil, nil, t.Event)
		default:
			record = m.AddTransition(t.From, t.To, nil, nil)
		}
		if t.Annotation != "" {
			text := t.Annotation
			record.SetAnnotation(func() string { return text })
		}
	}
	return m, nil
}
