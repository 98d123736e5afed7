package dedupe

import "time"

// Option applies a configuration option to the Deduper.
type Option func(*snapshotDeduper)

// WithWindow sets the repeat window. A non-positive window disables
// deduplication.
func WithWindow(window time.Duration) Option {
	return func(d *snapshotDeduper) {
		d.window = window
	}
}
