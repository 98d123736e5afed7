// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/relay"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StatsURL and GainsURL are the source endpoints; the subject is appended.
	StatsURL string `koanf:"stats_url"`
	GainsURL string `koanf:"gains_url"`

	// Relays is the ordered relay chain shared by both sources.
	Relays []relay.Relay `koanf:"relays"`

	// PrimaryRelayLimit caps how many relays the stats fetch tries.
	PrimaryRelayLimit int `koanf:"primary_relay_limit"`

	// HTTPTimeout bounds each relay request; zero leaves it to the caller's context.
	HTTPTimeout time.Duration `koanf:"http_timeout"`

	UserAgent string `koanf:"user_agent"`

	// MinDocumentLength is the shortest gains document worth parsing.
	MinDocumentLength int `koanf:"min_document_length"`

	// StableTableIDs are element ids that mark the gains table directly.
	StableTableIDs []string `koanf:"stable_table_ids"`

	GainsCacheTTL time.Duration `koanf:"gains_cache_ttl"`
	HistoryLimit  int           `koanf:"history_limit"`
	DedupeWindow  time.Duration `koanf:"dedupe_window"`

	// StorageBackend is one of memory, bolt or sqlite.
	StorageBackend    string `koanf:"storage_backend"`
	StoragePath       string `koanf:"storage_path"`
	StorageQuotaBytes int64  `koanf:"storage_quota_bytes"`
	HistoryKey        string `koanf:"history_key"`
	CacheKey          string `koanf:"cache_key"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		StatsURL:          "https://apps.runescape.com/runemetrics/profile/profile?activities=0&user=",
		GainsURL:          "https://crystalmathlabs.com/tracker-rs3/track.php?player=",
		Relays:            relay.Defaults(),
		PrimaryRelayLimit: 2,
		UserAgent:         "RuneTracker-Pro/1.0",
		MinDocumentLength: 200,
		StableTableIDs:    []string{"stats_table", "statstable", "tracker_table", "gains_table"},
		GainsCacheTTL:     5 * time.Minute,
		HistoryLimit:      100,
		DedupeWindow:      60 * time.Second,
		StorageBackend:    "bolt",
		StoragePath:       "runetracker.db",
		StorageQuotaBytes: 5 << 20,
		HistoryKey:        "rs3_tracker_v2_data",
		CacheKey:          "rs3_tracker_v2_cml_cache",
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case len(c.Relays) == 0:
		return fmt.Errorf("%w: at least one relay is required", ErrInvalidConfig)
	case c.StatsURL == "" || c.GainsURL == "":
		return fmt.Errorf("%w: stats_url and gains_url must not be empty", ErrInvalidConfig)
	case c.PrimaryRelayLimit < 0:
		return fmt.Errorf("%w: primary_relay_limit must not be negative", ErrInvalidConfig)
	case c.HTTPTimeout < 0:
		return fmt.Errorf("%w: http_timeout must not be negative", ErrInvalidConfig)
	case c.GainsCacheTTL <= 0:
		return fmt.Errorf("%w: gains_cache_ttl must be positive", ErrInvalidConfig)
	case c.HistoryLimit <= 0:
		return fmt.Errorf("%w: history_limit must be positive", ErrInvalidConfig)
	case c.HistoryKey == "" || c.CacheKey == "" || c.HistoryKey == c.CacheKey:
		return fmt.Errorf("%w: history_key and cache_key must be set and distinct", ErrInvalidConfig)
	}
	for i, r := range c.Relays {
		if strings.TrimSpace(r.Prefix) == "" {
			return fmt.Errorf("%w: relay %d has no prefix", ErrInvalidConfig, i)
		}
	}
	switch c.StorageBackend {
	case "memory", "bolt", "sqlite":
	default:
		return fmt.Errorf("%w: unknown storage_backend %q", ErrInvalidConfig, c.StorageBackend)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
