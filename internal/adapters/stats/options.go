package stats

import (
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/relay"
	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the profile endpoint the subject is appended to.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithRelayLimit caps how many relays of the shared list are tried.
// Zero or less uses all of them.
func WithRelayLimit(n int) Option {
	return func(c *Client) {
		c.relayLimit = n
	}
}

// WithRelayClient sets the relay client used for requests.
func WithRelayClient(rc *relay.Client) Option {
	return func(c *Client) {
		if rc != nil {
			c.client = rc
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
