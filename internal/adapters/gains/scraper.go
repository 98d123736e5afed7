package gains

import (
	"context"
	"errors"
	"strings"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/relay"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/model"
	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/logger"
	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/metrics"
)

const (
	// DefaultURL is the RS3 tracker page; the subject is appended.
	DefaultURL = "https://crystalmathlabs.com/tracker-rs3/track.php?player="

	defaultMinDocumentLength = 200
)

// notFoundMarkers appear on tracker pages for subjects it does not know.
var notFoundMarkers = []string{"player not found", "invalid name"}

// Source retrieves a subject's gains. Failures are reported in the record.
type Source interface {
	FetchGains(ctx context.Context, subject string) (model.GainsRecord, error)
}

// Scraper fetches and parses tracker pages through the relay chain.
type Scraper struct {
	relays    *relay.Set
	client    *relay.Client
	baseURL   string
	minDocLen int
	parseOpts []ParseOption
	logger    logger.Logger
}

// NewScraper creates a Scraper that routes through relays.
func NewScraper(relays *relay.Set, opts ...Option) *Scraper {
	s := &Scraper{
		relays:    relays,
		baseURL:   DefaultURL,
		minDocLen: defaultMinDocumentLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("gains")
	}
	if s.client == nil {
		s.client = relay.NewClient(relay.WithSource("gains"), relay.WithLogger(s.logger))
	}
	return s
}

// FetchGains returns the subject's gains. The error is always nil; soft
// failures come back as a record with Available false and a Reason.
func (s *Scraper) FetchGains(ctx context.Context, subject string) (model.GainsRecord, error) {
	target := s.baseURL + relay.EscapeComponent(subject)

	record, err := relay.Do(ctx, s.client, s.relays.Load(), target, s.handle)
	if err != nil {
		record = classify(err)
	}

	reason := string(record.Reason)
	if reason == "" {
		reason = "available"
	}
	metrics.RecordGainsOutcome(reason)
	s.logger.Debug(ctx, "gains fetched",
		logger.String("subject", subject),
		logger.Bool("available", record.Available),
		logger.String("reason", reason),
	)
	return record, nil
}

func (s *Scraper) handle(doc string) (model.GainsRecord, error) {
	if len(doc) < s.minDocLen {
		return model.GainsRecord{}, shortDocument(len(doc))
	}
	lower := strings.ToLower(Sanitize(doc))
	for _, marker := range notFoundMarkers {
		if strings.Contains(lower, marker) {
			return model.GainsRecord{}, relay.Stop(errNotTracked)
		}
	}
	if t, ok := Parse(doc, s.parseOpts...); ok {
		return t.Record(), nil
	}
	if HasUpdateControl(doc) {
		return model.GainsRecord{}, relay.Stop(errNeedsUpdate)
	}
	return model.GainsRecord{}, errUnrecognized
}

func classify(err error) model.GainsRecord {
	switch {
	case errors.Is(err, errNotTracked):
		return model.Unavailable(model.ReasonNotTracked, MsgNotTracked)
	case errors.Is(err, errNeedsUpdate):
		return model.Unavailable(model.ReasonNeedsUpdate, MsgNeedsUpdate)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return model.Unavailable(model.ReasonUnreachable, MsgUnreachable)
	}
	var exhausted *relay.ExhaustedError
	if errors.As(err, &exhausted) {
		for _, a := range exhausted.Attempts {
			if errors.Is(a.Err, errUnrecognized) {
				return model.Unavailable(model.ReasonStructureUnrecognized, MsgUnrecognized)
			}
		}
	}
	return model.Unavailable(model.ReasonServiceBusy, MsgServiceBusy)
}
