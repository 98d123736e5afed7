package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/kv"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/model"
	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/logger"
	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/metrics"
)

// GainsCache keeps the last gains record per subject. It never fails: read
// and write problems are logged and treated as a miss or a dropped write.
type GainsCache struct {
	mu     sync.Mutex
	store  kv.Store
	key    string
	now    func() time.Time
	logger logger.Logger
}

// NewGainsCache creates a cache on top of store.
func NewGainsCache(store kv.Store, opts ...CacheOption) *GainsCache {
	c := &GainsCache{
		store: store,
		key:   DefaultCacheKey,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Named("gains_cache")
	}
	return c
}

// Get returns the cached entry for subject. Freshness is the caller's call.
func (c *GainsCache) Get(ctx context.Context, subject string) (model.CacheEntry, bool) {
	e, ok := c.read(ctx)[model.SubjectKey(subject)]
	return e, ok
}

// Put stores record for subject stamped with the current time.
func (c *GainsCache) Put(ctx context.Context, subject string, record model.GainsRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.read(ctx)
	entries[model.SubjectKey(subject)] = model.CacheEntry{Record: record, CreatedAt: c.now()}

	raw, err := json.Marshal(entries)
	if err != nil {
		c.logger.Warn(ctx, "gains cache encode failed", logger.Error(err))
		return
	}
	if err := c.store.Put(ctx, c.key, raw); err != nil {
		metrics.RecordErrorByComponent("gains_cache", "write")
		c.logger.Warn(ctx, "gains cache write failed",
			logger.String("subject", subject),
			logger.Error(err),
		)
		return
	}
	metrics.UpdateStoredBytes(c.key, len(raw))
}

func (c *GainsCache) read(ctx context.Context) map[string]model.CacheEntry {
	entries := make(map[string]model.CacheEntry)
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		c.logger.Warn(ctx, "gains cache read failed", logger.Error(err))
		return entries
	}
	if !ok || len(raw) == 0 {
		return entries
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		c.logger.Warn(ctx, "gains cache unreadable, starting empty", logger.Error(err))
		return make(map[string]model.CacheEntry)
	}
	return entries
}
