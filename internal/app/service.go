// Package service orchestrates a lookup: it fetches the primary profile,
// reads or refreshes the gains record, stores a snapshot and returns the
// merged result.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/gains"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/relay"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/repository"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/stats"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/model"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/types"
	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/logger"
	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/metrics"
)

// DefaultGainsTTL is how long a cached gains record is served.
const DefaultGainsTTL = 5 * time.Minute

// Service merges the primary stats source, the gains source and local storage.
type Service struct {
	mu sync.RWMutex

	// Core components
	primary stats.Fetcher
	gains   gains.Source
	history repository.History
	cache   repository.Cache
	relays  *relay.Set

	// Configuration
	gainsTTL time.Duration
	now      func() time.Time
	observer Observer

	// Counters
	lookups   atomic.Int64
	failures  atomic.Int64
	cacheHits atomic.Int64

	logger logger.Logger
}

// New constructs a Service over its sources and stores.
func New(primary stats.Fetcher, src gains.Source, history repository.History, cache repository.Cache, opts ...Option) *Service {
	s := &Service{
		primary:  primary,
		gains:    src,
		history:  history,
		cache:    cache,
		gainsTTL: DefaultGainsTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	return s
}

// Lookup runs one lookup for subject. Only a primary failure fails the
// lookup; gains problems are reported inside the record and persistence
// problems in LookupResult.PersistErr.
func (s *Service) Lookup(ctx context.Context, subject string) (LookupResult, error) {
	start := s.now()
	id := uuid.NewString()
	subject = strings.TrimSpace(subject)
	s.lookups.Add(1)

	defer func() {
		metrics.RecordLookupLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	s.enter(ctx, id, StateIdle)
	if subject == "" {
		s.fail(ctx, id, "empty_subject")
		return LookupResult{}, ErrEmptySubject
	}

	s.enter(ctx, id, StateFetchingPrimary)
	profile, err := s.primary.FetchProfile(ctx, subject)
	if err != nil {
		s.fail(ctx, id, "primary_error")
		s.logger.Info(ctx, "lookup failed",
			logger.String("lookup_id", id),
			logger.String("subject", subject),
			logger.Error(err),
		)
		return LookupResult{}, fmt.Errorf("fetch profile for %q: %w", subject, err)
	}

	record, fromCache := s.resolveGains(ctx, id, subject)

	s.enter(ctx, id, StatePersisting)
	snap := model.NewSnapshot(profile, s.now())
	hist, res, perr := s.history.Append(ctx, subject, snap)
	if perr != nil {
		s.logger.Warn(ctx, "snapshot not saved",
			logger.String("lookup_id", id),
			logger.String("subject", subject),
			logger.Error(perr),
		)
	}

	s.enter(ctx, id, StateDone)
	metrics.RecordLookup("ok")
	s.logger.Info(ctx, "lookup completed",
		logger.String("lookup_id", id),
		logger.String("subject", subject),
		logger.Bool("gains_available", record.Available),
		logger.Bool("from_cache", fromCache),
		logger.String("append", res.String()),
		logger.Int("history", len(hist.Snapshots)),
	)

	return LookupResult{
		ID:         id,
		Subject:    subject,
		Profile:    profile,
		Gains:      record,
		FromCache:  fromCache,
		History:    hist,
		Duplicate:  res == repository.Duplicate,
		PersistErr: perr,
	}, nil
}

// resolveGains serves a fresh cache entry or scrapes a new record. Scraped
// records are cached whatever their availability; a failing source yields
// an unreachable record that is not cached.
func (s *Service) resolveGains(ctx context.Context, id, subject string) (model.GainsRecord, bool) {
	s.enter(ctx, id, StateReadingGains)
	if entry, ok := s.cache.Get(ctx, subject); ok {
		if entry.Fresh(s.now(), s.gainsTTL) {
			s.cacheHits.Add(1)
			metrics.RecordCacheResult("hit")
			return entry.Record, true
		}
		metrics.RecordCacheResult("stale")
	} else {
		metrics.RecordCacheResult("miss")
	}

	s.enter(ctx, id, StateFetchingGains)
	record, err := s.fetchGains(ctx, subject)
	if err != nil {
		metrics.RecordErrorByComponent("service", "gains_source")
		s.logger.Warn(ctx, "gains source failed",
			logger.String("lookup_id", id),
			logger.String("subject", subject),
			logger.Error(err),
		)
		return model.Unavailable(model.ReasonUnreachable, MsgGainsUnreachable), false
	}
	s.cache.Put(ctx, subject, record)
	return record, false
}

func (s *Service) fetchGains(ctx context.Context, subject string) (record model.GainsRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrGainsPanic, r)
		}
	}()
	return s.gains.FetchGains(ctx, subject)
}

func (s *Service) enter(ctx context.Context, id string, state State) {
	s.logger.Debug(ctx, "lookup state", logger.String("lookup_id", id), logger.String("state", state.String()))
	if s.observer != nil {
		s.observer(ctx, id, state)
	}
}

func (s *Service) fail(ctx context.Context, id, outcome string) {
	s.failures.Add(1)
	metrics.RecordLookup(outcome)
	s.enter(ctx, id, StateFailed)
}

// History returns the stored history of subject.
func (s *Service) History(ctx context.Context, subject string) (model.SubjectHistory, bool) {
	return s.history.GetOne(ctx, subject)
}

// Histories summarizes every stored history, ordered by subject key.
func (s *Service) Histories(ctx context.Context) []types.HistorySummary {
	return Summaries(s.history.GetAll(ctx))
}

// ClearAll removes all local history and cached gains.
func (s *Service) ClearAll(ctx context.Context) error {
	if err := s.history.ClearAll(ctx); err != nil {
		metrics.RecordErrorByComponent("service", "clear")
		return err
	}
	s.logger.Info(ctx, "local data cleared")
	return nil
}

// UpdateRelays replaces the relay list used by both fetchers.
func (s *Service) UpdateRelays(ctx context.Context, relays []relay.Relay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.relays == nil {
		return ErrNoRelaySet
	}
	s.relays.Store(relays)
	names := make([]string, len(relays))
	for i, r := range relays {
		names[i] = r.Name
	}
	s.logger.Info(ctx, "relays updated", logger.Any("relays", names))
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subjects := len(s.history.GetAll(context.Background()))
	stats := map[string]interface{}{
		"lookups":     s.lookups.Load(),
		"failures":    s.failures.Load(),
		"cacheHits":   s.cacheHits.Load(),
		"gainsTTL":    s.gainsTTL.String(),
		"subjects":    subjects,
		"relayCount":  0,
		"relayOrder":  []string{},
		"generatedAt": s.now().UTC(),
	}
	if s.relays != nil {
		relays := s.relays.Load()
		names := make([]string, len(relays))
		for i, r := range relays {
			names[i] = r.Name
		}
		stats["relayCount"] = len(relays)
		stats["relayOrder"] = names
	}
	metrics.UpdateSubjectsTracked(subjects)
	return stats
}
