package relay

import (
	"net/http"
	"strings"

	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithSource names the upstream the client fetches, for logs and metrics.
func WithSource(source string) Option {
	return func(c *Client) {
		if s := strings.TrimSpace(source); s != "" {
			c.source = s
		}
	}
}

// WithUserAgent sets the User-Agent header sent to relays.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMaxBodyBytes caps how much of a response body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
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
