// Package repository persists subject histories and the gains cache on top of
// a kv.Store. Each collection lives under a single key as one JSON document
// that is read and written whole.
package repository

import (
	"context"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/model"
)

// Default storage keys.
const (
	DefaultHistoryKey = "rs3_tracker_v2_data"
	DefaultCacheKey   = "rs3_tracker_v2_cml_cache"
)

// AppendResult tells whether an appended snapshot was stored.
type AppendResult int

// Append results.
const (
	Stored AppendResult = iota
	Duplicate
)

func (r AppendResult) String() string {
	if r == Duplicate {
		return "duplicate"
	}
	return "stored"
}

// History stores subject snapshot histories.
type History interface {
	GetAll(ctx context.Context) map[string]model.SubjectHistory
	GetOne(ctx context.Context, subject string) (model.SubjectHistory, bool)
	Append(ctx context.Context, subject string, snap model.Snapshot) (model.SubjectHistory, AppendResult, error)
	ClearAll(ctx context.Context) error
}

// Cache stores the most recent gains record per subject.
type Cache interface {
	Get(ctx context.Context, subject string) (model.CacheEntry, bool)
	Put(ctx context.Context, subject string, record model.GainsRecord)
}
