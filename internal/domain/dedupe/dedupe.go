// Package dedupe decides whether a new snapshot repeats the previous one.
package dedupe

import (
	"time"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/model"
)

// DefaultWindow is how close two snapshots must be to count as a repeat.
const DefaultWindow = 60 * time.Second

// Deduper reports whether next adds nothing to a subject's history.
type Deduper interface {
	// Duplicate returns true when next should not be stored after history.
	Duplicate(history model.SubjectHistory, next model.Snapshot) bool
}

// snapshotDeduper treats a snapshot as a repeat when its total experience is
// unchanged and it was taken within window of the last stored snapshot.
type snapshotDeduper struct {
	window time.Duration
}

// New creates a Deduper with the given options.
func New(opts ...Option) Deduper {
	d := &snapshotDeduper{window: DefaultWindow}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *snapshotDeduper) Duplicate(history model.SubjectHistory, next model.Snapshot) bool {
	last, ok := history.Last()
	if !ok {
		return false
	}
	if last.TotalXP != next.TotalXP {
		return false
	}
	gap := next.Timestamp.Sub(last.Timestamp)
	if gap < 0 {
		gap = -gap
	}
	return gap < d.window
}
