package service

import "context"

// State is a stage of a single lookup.
type State int

// Lookup states in the order they are entered.
const (
	StateIdle State = iota
	StateFetchingPrimary
	StateReadingGains
	StateFetchingGains
	StatePersisting
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateIdle:            "idle",
	StateFetchingPrimary: "fetching_primary",
	StateReadingGains:    "reading_gains",
	StateFetchingGains:   "fetching_gains",
	StatePersisting:      "persisting",
	StateDone:            "done",
	StateFailed:          "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Observer receives every state a lookup enters.
type Observer func(ctx context.Context, lookupID string, state State)
