package repository

import (
	"time"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/dedupe"
	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/logger"
)

// HistoryOption applies a configuration option to the HistoryStore.
type HistoryOption func(*HistoryStore)

// WithHistoryKey sets the storage key of the history document.
func WithHistoryKey(key string) HistoryOption {
	return func(s *HistoryStore) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClearKeys sets additional keys removed by ClearAll.
func WithClearKeys(keys ...string) HistoryOption {
	return func(s *HistoryStore) {
		s.clearKeys = keys
	}
}

// WithLimit sets how many snapshots are kept per subject.
func WithLimit(limit int) HistoryOption {
	return func(s *HistoryStore) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithDeduper sets the duplicate snapshot rule.
func WithDeduper(d dedupe.Deduper) HistoryOption {
	return func(s *HistoryStore) {
		if d != nil {
			s.deduper = d
		}
	}
}

// WithResetHook sets a function called after ClearAll succeeds.
func WithResetHook(fn func()) HistoryOption {
	return func(s *HistoryStore) {
		s.onReset = fn
	}
}

// WithHistoryLogger sets a custom logger.
func WithHistoryLogger(l logger.Logger) HistoryOption {
	return func(s *HistoryStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// CacheOption applies a configuration option to the GainsCache.
type CacheOption func(*GainsCache)

// WithCacheKey sets the storage key of the cache document.
func WithCacheKey(key string) CacheOption {
	return func(c *GainsCache) {
		if key != "" {
			c.key = key
		}
	}
}

// WithClock sets the time source stamped on cache entries.
func WithClock(now func() time.Time) CacheOption {
	return func(c *GainsCache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithCacheLogger sets a custom logger.
func WithCacheLogger(l logger.Logger) CacheOption {
	return func(c *GainsCache) {
		if l != nil {
			c.logger = l
		}
	}
}
