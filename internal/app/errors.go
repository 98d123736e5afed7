package service

import "errors"

var (
	// ErrEmptySubject is returned when a lookup is requested for a blank subject.
	ErrEmptySubject = errors.New("subject is empty")
	// ErrGainsPanic wraps a panic raised by the gains source.
	ErrGainsPanic = errors.New("gains source panicked")
	// ErrNoRelaySet is returned by UpdateRelays when the service was built without WithRelays.
	ErrNoRelaySet = errors.New("service has no shared relay set")
)

// MsgGainsUnreachable is shown when the gains source failed outright.
const MsgGainsUnreachable = "CML unreachable"
