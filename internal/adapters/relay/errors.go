package relay

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for relay fetches.
var (
	ErrExhausted = errors.New("relay chain exhausted")
	ErrTransport = errors.New("relay transport failed")
	ErrStatus    = errors.New("relay returned non-success status")
	ErrEmptyBody = errors.New("relay returned empty body")
)

// Attempt records one failed relay attempt.
type Attempt struct {
	Relay string
	Err   error
}

// ExhaustedError is returned when every relay in a chain failed.
// It matches ErrExhausted and the last attempt's error with errors.Is.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return "relay chain exhausted: no relays configured"
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Relay, a.Err))
	}
	return fmt.Sprintf("relay chain exhausted after %d attempts: %s", len(e.Attempts), strings.Join(parts, "; "))
}

func (e *ExhaustedError) Unwrap() []error {
	if last := e.Last(); last != nil {
		return []error{ErrExhausted, last}
	}
	return []error{ErrExhausted}
}

// Last returns the error of the final attempt.
func (e *ExhaustedError) Last() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

// TransportOnly reports whether every attempt failed before a usable document
// was received.
func (e *ExhaustedError) TransportOnly() bool {
	if len(e.Attempts) == 0 {
		return false
	}
	for _, a := range e.Attempts {
		if !errors.Is(a.Err, ErrTransport) {
			return false
		}
	}
	return true
}

// stopError ends a chain early with its wrapped error.
type stopError struct {
	err error
}

func (e *stopError) Error() string { return e.err.Error() }
func (e *stopError) Unwrap() error { return e.err }

// Stop marks err as final so the chain returns it without trying more relays.
func Stop(err error) error {
	if err == nil {
		return nil
	}
	return &stopError{err: err}
}
