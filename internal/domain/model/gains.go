package model

import "time"

// Window is one of the fixed lookback periods reported by the gains tracker.
type Window string

// Gains windows.
const (
	WindowDay   Window = "1d"
	WindowWeek  Window = "7d"
	WindowMonth Window = "30d"
	WindowYear  Window = "365d"
)

// Windows lists every window in ascending length.
var Windows = []Window{WindowDay, WindowWeek, WindowMonth, WindowYear}

// GainsReason classifies why a GainsRecord is unavailable.
type GainsReason string

// Gains reasons. The zero value means the record is available.
const (
	ReasonNone                  GainsReason = ""
	ReasonNotTracked            GainsReason = "not_tracked"
	ReasonNeedsUpdate           GainsReason = "needs_update"
	ReasonStructureUnrecognized GainsReason = "structure_unrecognized"
	ReasonServiceBusy           GainsReason = "service_busy"
	ReasonUnreachable           GainsReason = "unreachable"
)

// GainsRecord holds signed xp deltas per skill id for each window.
// Values are in tenths of an experience point.
type GainsRecord struct {
	Day       map[int]int64 `json:"1d"`
	Week      map[int]int64 `json:"7d"`
	Month     map[int]int64 `json:"30d"`
	Year      map[int]int64 `json:"365d"`
	Available bool          `json:"isAvailable"`
	Error     string        `json:"error,omitempty"`
	Reason    GainsReason   `json:"reason,omitempty"`
}

// NewGainsRecord returns an empty, unavailable record with all maps allocated.
func NewGainsRecord() GainsRecord {
	return GainsRecord{
		Day:   make(map[int]int64),
		Week:  make(map[int]int64),
		Month: make(map[int]int64),
		Year:  make(map[int]int64),
	}
}

// Unavailable returns a soft-failure record.
func Unavailable(reason GainsReason, msg string) GainsRecord {
	r := NewGainsRecord()
	r.Reason = reason
	r.Error = msg
	return r
}

// Window returns the deltas for w, nil for an unknown window.
func (r GainsRecord) Window(w Window) map[int]int64 {
	switch w {
	case WindowDay:
		return r.Day
	case WindowWeek:
		return r.Week
	case WindowMonth:
		return r.Month
	case WindowYear:
		return r.Year
	}
	return nil
}

// Set stores delta for skill id in window w.
func (r *GainsRecord) Set(w Window, id int, delta int64) {
	m := r.Window(w)
	if m == nil {
		return
	}
	m[id] = delta
}

// CacheEntry is a cached GainsRecord and the time it was written.
type CacheEntry struct {
	Record    GainsRecord `json:"data"`
	CreatedAt time.Time   `json:"timestamp"`
}

// Fresh reports whether the entry is younger than ttl at now.
func (e CacheEntry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CreatedAt) < ttl
}
