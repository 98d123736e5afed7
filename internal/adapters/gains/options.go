package gains

import (
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/relay"
	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/logger"
)

// Option applies a configuration option to the Scraper.
type Option func(*Scraper)

// WithBaseURL sets the tracker page URL the subject is appended to.
func WithBaseURL(u string) Option {
	return func(s *Scraper) {
		if u != "" {
			s.baseURL = u
		}
	}
}

// WithMinDocumentLength sets the size below which a relay response is treated
// as a transient empty reply.
func WithMinDocumentLength(n int) Option {
	return func(s *Scraper) {
		if n >= 0 {
			s.minDocLen = n
		}
	}
}

// WithParseOptions passes options through to Parse.
func WithParseOptions(opts ...ParseOption) Option {
	return func(s *Scraper) {
		s.parseOpts = append(s.parseOpts, opts...)
	}
}

// WithRelayClient sets the relay client used for requests.
func WithRelayClient(rc *relay.Client) Option {
	return func(s *Scraper) {
		if rc != nil {
			s.client = rc
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scraper) {
		if l != nil {
			s.logger = l
		}
	}
}
