package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/gains"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/kv"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/relay"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/repository"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/stats"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/config"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/dedupe"
	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/logger"
)

// Runtime is a Service together with the resources it owns.
type Runtime struct {
	Service *Service
	Relays  *relay.Set
	Store   kv.Store
}

// Build opens storage and wires both sources into a Service as described by cfg.
// onReset runs after local data has been cleared.
func Build(cfg *config.Config, onReset func()) (*Runtime, error) {
	store, err := kv.Open(cfg.StorageBackend, cfg.StoragePath, kv.WithQuota(cfg.StorageQuotaBytes))
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.StorageBackend, err)
	}

	hc := &http.Client{Timeout: cfg.HTTPTimeout}
	set := relay.NewSet(cfg.Relays)

	statsLog := logger.Named("stats")
	primary := stats.NewClient(set,
		stats.WithBaseURL(cfg.StatsURL),
		stats.WithRelayLimit(cfg.PrimaryRelayLimit),
		stats.WithLogger(statsLog),
		stats.WithRelayClient(relay.NewClient(
			relay.WithHTTPClient(hc),
			relay.WithSource("stats"),
			relay.WithUserAgent(cfg.UserAgent),
			relay.WithLogger(statsLog),
		)),
	)

	gainsLog := logger.Named("gains")
	scraper := gains.NewScraper(set,
		gains.WithBaseURL(cfg.GainsURL),
		gains.WithMinDocumentLength(cfg.MinDocumentLength),
		gains.WithParseOptions(gains.WithStableIDs(cfg.StableTableIDs...)),
		gains.WithLogger(gainsLog),
		gains.WithRelayClient(relay.NewClient(
			relay.WithHTTPClient(hc),
			relay.WithSource("gains"),
			relay.WithUserAgent(cfg.UserAgent),
			relay.WithLogger(gainsLog),
		)),
	)

	history := repository.NewHistoryStore(store,
		repository.WithHistoryKey(cfg.HistoryKey),
		repository.WithClearKeys(cfg.CacheKey),
		repository.WithLimit(cfg.HistoryLimit),
		repository.WithDeduper(dedupe.New(dedupe.WithWindow(cfg.DedupeWindow))),
		repository.WithResetHook(onReset),
	)
	cache := repository.NewGainsCache(store, repository.WithCacheKey(cfg.CacheKey))

	svc := New(primary, scraper, history, cache,
		WithGainsTTL(cfg.GainsCacheTTL),
		WithRelays(set),
	)
	return &Runtime{Service: svc, Relays: set, Store: store}, nil
}

// Apply takes the settings of a reloaded config that can change while running.
func (r *Runtime) Apply(ctx context.Context, cfg *config.Config) error {
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}
	return r.Service.UpdateRelays(ctx, cfg.Relays)
}

// Close releases the storage backend.
func (r *Runtime) Close() error {
	return r.Store.Close()
}
