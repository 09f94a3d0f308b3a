package tickfsm

import "fmt"

// ConfigError indicates invalid machine configuration, for example a
// duplicate callback assignment or conflicting transition triggers. It is
// raised as a panic at the offending builder or registry call site, never
// deferred to runtime.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// LifecycleError indicates a machine operation out of lifecycle order:
// updating or querying a machine before Init, or initializing a machine
// without an initial state.
type LifecycleError struct {
	Message string
}

func (e *LifecycleError) Error() string {
	return e.Message
}

// UnhandledEventError is returned by Update and Process under the Raise
// missing-transition policy when a dequeued event matches no transition from
// the current state.
type UnhandledEventError struct {
	Machine string
	State   any
	Event   any
}

func (e *UnhandledEventError) Error() string {
	return fmt.Sprintf("%s: no transition defined for state '%v' and event '%v'",
		e.Machine, e.State, e.Event)
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

func lifecycleErrorf(format string, args ...any) *LifecycleError {
	return &LifecycleError{Message: fmt.Sprintf(format, args...)}
}
