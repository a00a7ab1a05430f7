package registry

import "fmt"

// RegistrationError reports a rejected registration: a duplicate name on
// the same scope, or a statement bound to an unknown connection. It is
// fatal to the registration call only.
type RegistrationError struct {
	Kind   string // "connection" or "statement"
	Name   string
	Reason string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("cannot register %s %q: %s", e.Kind, e.Name, e.Reason)
}

// ConnectionError wraps a failed connect or reconnect. The failed
// attempt is never cached, so the next accessor call retries.
type ConnectionError struct {
	Name string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection %q: %v", e.Name, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// PrepareError wraps a driver-side prepare failure for a named
// statement. Not cached; the next accessor call retries.
type PrepareError struct {
	Name string
	SQL  string
	Err  error
}

func (e *PrepareError) Error() string {
	return fmt.Sprintf("statement %q: %v", e.Name, e.Err)
}

func (e *PrepareError) Unwrap() error { return e.Err }

// UsageError reports a malformed call: an unregistered name, a template
// argument count mismatch, or a bad bind shape. Always a programmer
// error, never retried.
type UsageError struct {
	Op     string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}
