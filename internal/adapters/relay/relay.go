// Package relay fetches remote documents through an ordered list of
// URL-prefix relays, falling back to the next relay on failure.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/logger"
	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/metrics"
)

const (
	defaultMaxBodyBytes = 4 << 20
	defaultUserAgent    = "RuneTracker-Pro/1.0"
)

// Relay is a URL-prefix forwarding service. The target URL is query-escaped
// and appended to Prefix.
type Relay struct {
	Name   string `koanf:"name" json:"name"`
	Prefix string `koanf:"prefix" json:"prefix"`
}

// URL returns the address that fetches target through r.
func (r Relay) URL(target string) string {
	return r.Prefix + url.QueryEscape(target)
}

// EscapeComponent escapes s for use as a single query value, encoding spaces
// as %20.
func EscapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Defaults returns the built-in relay list in preference order.
func Defaults() []Relay {
	return []Relay{
		{Name: "allorigins", Prefix: "https://api.allorigins.win/get?url="},
		{Name: "codetabs", Prefix: "https://api.codetabs.com/v1/proxy?quest="},
		{Name: "corsproxy", Prefix: "https://corsproxy.io/?"},
	}
}

// Set is a relay list that can be replaced while lookups are running.
type Set struct {
	v atomic.Pointer[[]Relay]
}

// NewSet returns a Set holding relays.
func NewSet(relays []Relay) *Set {
	s := &Set{}
	s.Store(relays)
	return s
}

// Load returns the current list. Callers must not modify it.
func (s *Set) Load() []Relay {
	if p := s.v.Load(); p != nil {
		return *p
	}
	return nil
}

// Store replaces the list.
func (s *Set) Store(relays []Relay) {
	cp := append([]Relay(nil), relays...)
	s.v.Store(&cp)
}

// Client performs GET requests through relays.
type Client struct {
	http      *http.Client
	source    string
	userAgent string
	maxBody   int64
	logger    logger.Logger
}

// NewClient creates a relay client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		source:    "relay",
		userAgent: defaultUserAgent,
		maxBody:   defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.logger == nil {
		c.logger = logger.Named(c.source)
	}
	return c
}

// Fetch retrieves target through r and returns the unwrapped document.
// Errors match ErrTransport, ErrStatus or ErrEmptyBody.
func (c *Client) Fetch(ctx context.Context, r Relay, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL(target), nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", ErrTransport, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}
	doc := Unwrap(raw)
	if strings.TrimSpace(doc) == "" {
		return "", ErrEmptyBody
	}
	return doc, nil
}

// Unwrap returns the inner document of a {"contents": ...} envelope, or the
// body itself when it is not such an envelope. A null or non-string contents
// field yields an empty document.
func Unwrap(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return string(body)
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return string(body)
	}
	contents, ok := envelope["contents"]
	if !ok {
		return string(body)
	}
	var inner string
	if err := json.Unmarshal(contents, &inner); err != nil {
		return ""
	}
	return inner
}

// Handler inspects a fetched document. A nil error accepts the value. An error
// wrapped with Stop ends the chain; any other error moves on to the next relay.
type Handler[T any] func(doc string) (T, error)

// Do walks relays in order until handle accepts a document or stops the chain.
// When every relay fails the error is an *ExhaustedError.
func Do[T any](ctx context.Context, c *Client, relays []Relay, target string, handle Handler[T]) (T, error) {
	var zero T
	exhausted := &ExhaustedError{}

	for _, r := range relays {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("relay %s: %w", r.Name, err)
		}

		start := time.Now()
		doc, err := c.Fetch(ctx, r, target)
		if err == nil {
			var v T
			v, err = handle(doc)
			if err == nil {
				c.observe(ctx, r, "ok", nil, start)
				return v, nil
			}
			var stop *stopError
			if errors.As(err, &stop) {
				c.observe(ctx, r, "stopped", stop.err, start)
				return zero, stop.err
			}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, fmt.Errorf("relay %s: %w", r.Name, ctxErr)
		}
		c.observe(ctx, r, outcome(err), err, start)
		exhausted.Attempts = append(exhausted.Attempts, Attempt{Relay: r.Name, Err: err})
	}
	return zero, exhausted
}

func (c *Client) observe(ctx context.Context, r Relay, result string, err error, start time.Time) {
	metrics.RecordRelayAttempt(c.source, r.Name, result)
	fields := []logger.Field{
		logger.String("relay", r.Name),
		logger.String("outcome", result),
		logger.Int64("elapsedMs", time.Since(start).Milliseconds()),
	}
	if err == nil {
		c.logger.Debug(ctx, "relay attempt finished", fields...)
		return
	}
	fields = append(fields, logger.Error(err))
	if result == "stopped" {
		c.logger.Debug(ctx, "relay attempt settled", fields...)
		return
	}
	c.logger.Warn(ctx, "relay attempt failed", fields...)
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrStatus):
		return "status"
	case errors.Is(err, ErrEmptyBody):
		return "empty"
	default:
		return "rejected"
	}
}
