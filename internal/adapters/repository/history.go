package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/kv"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/dedupe"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/model"
	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/logger"
	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/metrics"
)

// DefaultLimit is the number of snapshots retained per subject.
const DefaultLimit = 100

// HistoryStore keeps every subject's snapshots in one document keyed by
// model.SubjectKey.
type HistoryStore struct {
	mu        sync.Mutex
	store     kv.Store
	key       string
	clearKeys []string
	limit     int
	deduper   dedupe.Deduper
	onReset   func()
	logger    logger.Logger
}

// NewHistoryStore creates a history store on top of store.
func NewHistoryStore(store kv.Store, opts ...HistoryOption) *HistoryStore {
	s := &HistoryStore{
		store:     store,
		key:       DefaultHistoryKey,
		clearKeys: []string{DefaultCacheKey},
		limit:     DefaultLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.deduper == nil {
		s.deduper = dedupe.New()
	}
	if s.logger == nil {
		s.logger = logger.Named("history")
	}
	return s
}

// GetAll returns every stored history. Unreadable data yields an empty map.
func (s *HistoryStore) GetAll(ctx context.Context) map[string]model.SubjectHistory {
	all, err := s.read(ctx)
	if err != nil {
		s.logger.Warn(ctx, "history read failed", logger.Error(err))
		return map[string]model.SubjectHistory{}
	}
	return all
}

// GetOne returns the history of subject.
func (s *HistoryStore) GetOne(ctx context.Context, subject string) (model.SubjectHistory, bool) {
	h, ok := s.GetAll(ctx)[model.SubjectKey(subject)]
	return h, ok
}

// Append adds snap to subject's history. A snapshot older than the last one
// is stamped with the last one's time. On failure the previously stored
// history is returned with ErrStorageFull or ErrPersistence.
func (s *HistoryStore) Append(ctx context.Context, subject string, snap model.Snapshot) (model.SubjectHistory, AppendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	all, err := s.read(ctx)
	if err != nil {
		metrics.RecordHistoryAppend("error")
		return model.SubjectHistory{}, Stored, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	key := model.SubjectKey(subject)
	prev, ok := all[key]
	if !ok {
		prev = model.SubjectHistory{Subject: strings.TrimSpace(subject)}
	}
	if last, ok := prev.Last(); ok && snap.Timestamp.Before(last.Timestamp) {
		snap.Timestamp = last.Timestamp
	}
	if s.deduper.Duplicate(prev, snap) {
		metrics.RecordHistoryAppend("duplicate")
		s.logger.Debug(ctx, "duplicate snapshot skipped",
			logger.String("subject", prev.Subject),
			logger.Int64("totalXp", snap.TotalXP),
		)
		return prev, Duplicate, nil
	}

	snaps := make([]model.Snapshot, 0, min(len(prev.Snapshots)+1, s.limit))
	snaps = append(snaps, prev.Snapshots...)
	snaps = append(snaps, snap)
	if len(snaps) > s.limit {
		snaps = snaps[len(snaps)-s.limit:]
	}
	next := model.SubjectHistory{Subject: prev.Subject, Snapshots: snaps}
	all[key] = next

	if err := s.write(ctx, all); err != nil {
		if errors.Is(err, kv.ErrQuotaExceeded) {
			metrics.RecordHistoryAppend("storage_full")
			s.logger.Warn(ctx, "history write rejected by quota", logger.String("subject", prev.Subject), logger.Error(err))
			return prev, Stored, fmt.Errorf("%w (%w)", ErrStorageFull, err)
		}
		metrics.RecordHistoryAppend("error")
		s.logger.Error(ctx, "history write failed", logger.String("subject", prev.Subject), logger.Error(err))
		return prev, Stored, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	metrics.RecordHistoryAppend("stored")
	metrics.UpdateSubjectsTracked(len(all))
	return next, Stored, nil
}

// ClearAll removes every history and the gains cache in one transaction and
// then runs the reset hook.
func (s *HistoryStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := append([]string{s.key}, s.clearKeys...)
	if err := s.store.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	metrics.UpdateSubjectsTracked(0)
	for _, k := range keys {
		metrics.UpdateStoredBytes(k, 0)
	}
	s.logger.Info(ctx, "local data cleared", logger.Any("keys", keys))
	if s.onReset != nil {
		s.onReset()
	}
	return nil
}

// read loads the history document. Backend failures are returned; a document
// that does not decode is logged and treated as empty.
func (s *HistoryStore) read(ctx context.Context) (map[string]model.SubjectHistory, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	raw, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	all := make(map[string]model.SubjectHistory)
	if !ok || len(raw) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(raw, &all); err != nil {
		s.logger.Warn(ctx, "history document unreadable, starting empty", logger.Error(err))
		return make(map[string]model.SubjectHistory), nil
	}
	return all, nil
}

func (s *HistoryStore) write(ctx context.Context, all map[string]model.SubjectHistory) error {
	raw, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.store.Put(ctx, s.key, raw); err != nil {
		return err
	}
	metrics.UpdateStoredBytes(s.key, len(raw))
	return nil
}
