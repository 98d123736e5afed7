package service

import (
	"time"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/relay"
	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithGainsTTL sets how long a cached gains record is served without a new scrape.
func WithGainsTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.gainsTTL = ttl
		}
	}
}

// WithClock sets the time source used for snapshots and cache freshness.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithObserver registers a callback for lookup state changes.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		s.observer = o
	}
}

// WithRelays shares the relay list used by the fetchers so it can be
// replaced at runtime through UpdateRelays.
func WithRelays(set *relay.Set) Option {
	return func(s *Service) {
		s.relays = set
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
