// Package stats fetches a subject's current profile from the primary stats
// source through the relay chain.
package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/relay"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/model"
	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/logger"
	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/metrics"
)

const (
	// DefaultURL is the RuneMetrics profile endpoint; the subject is appended.
	DefaultURL = "https://apps.runescape.com/runemetrics/profile/profile?activities=0&user="

	defaultRelayLimit = 2

	markerPrivate  = "PROFILE_PRIVATE"
	markerNotFound = "NO_PROFILE"
)

// Fetcher retrieves a subject's profile.
type Fetcher interface {
	FetchProfile(ctx context.Context, subject string) (model.Profile, error)
}

// Client fetches profiles from RuneMetrics.
type Client struct {
	relays     *relay.Set
	client     *relay.Client
	baseURL    string
	relayLimit int
	logger     logger.Logger
}

// NewClient creates a stats client that routes through relays.
func NewClient(relays *relay.Set, opts ...Option) *Client {
	c := &Client{
		relays:     relays,
		baseURL:    DefaultURL,
		relayLimit: defaultRelayLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Named("stats")
	}
	if c.client == nil {
		c.client = relay.NewClient(relay.WithSource("stats"), relay.WithLogger(c.logger))
	}
	return c
}

// payload mirrors the RuneMetrics profile document.
type payload struct {
	Name        string       `json:"name"`
	Rank        *rankValue   `json:"rank"`
	TotalSkill  int          `json:"totalskill"`
	TotalXP     int64        `json:"totalxp"`
	CombatLevel int          `json:"combatlevel"`
	Skills      []skillValue `json:"skillvalues"`
	Error       string       `json:"error"`
}

type skillValue struct {
	ID    int        `json:"id"`
	Level int        `json:"level"`
	XP    int64      `json:"xp"`
	Rank  *rankValue `json:"rank"`
}

// rankValue accepts ranks encoded as numbers or as strings with separators.
// Anything unparseable becomes model.Unranked.
type rankValue int64

func (r *rankValue) UnmarshalJSON(b []byte) error {
	*r = rankValue(parseRank(string(b)))
	return nil
}

func (r *rankValue) value() int64 {
	if r == nil {
		return model.Unranked
	}
	return int64(*r)
}

func parseRank(raw string) int64 {
	s := strings.Trim(strings.TrimSpace(raw), `"`)
	s = strings.NewReplacer(",", "", ".", "", " ", "").Replace(s)
	if s == "" || s == "null" {
		return model.Unranked
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return model.Unranked
	}
	return n
}

// FetchProfile returns the current profile of subject.
func (c *Client) FetchProfile(ctx context.Context, subject string) (model.Profile, error) {
	target := c.baseURL + relay.EscapeComponent(subject)
	relays := c.relays.Load()
	if c.relayLimit > 0 && len(relays) > c.relayLimit {
		relays = relays[:c.relayLimit]
	}

	profile, err := relay.Do(ctx, c.client, relays, target, decode)
	if err == nil {
		return profile, nil
	}

	var exhausted *relay.ExhaustedError
	switch {
	case errors.As(err, &exhausted) && exhausted.TransportOnly():
		err = fmt.Errorf("%w (%w)", ErrConnection, exhausted)
	case errors.As(err, &exhausted):
		err = fmt.Errorf("%w: %w", ErrRelay, exhausted)
	}
	metrics.RecordErrorByComponent("stats", errorType(err))
	c.logger.Warn(ctx, "profile fetch failed",
		logger.String("subject", subject),
		logger.Error(err),
	)
	return model.Profile{}, err
}

// decode turns one relay document into a Profile. Source markers stop the
// chain; malformed documents let the next relay try.
func decode(doc string) (model.Profile, error) {
	var p payload
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return model.Profile{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	switch p.Error {
	case "":
	case markerPrivate:
		return model.Profile{}, relay.Stop(ErrPrivateProfile)
	case markerNotFound:
		return model.Profile{}, relay.Stop(ErrNotFound)
	default:
		return model.Profile{}, relay.Stop(&MarkerError{Marker: p.Error})
	}
	if p.Name == "" && len(p.Skills) == 0 {
		return model.Profile{}, fmt.Errorf("%w: empty profile", ErrParse)
	}

	seen := make(map[int]struct{}, len(p.Skills))
	skills := make([]model.Skill, 0, len(p.Skills))
	for _, s := range p.Skills {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		skills = append(skills, model.Skill{
			ID:    s.ID,
			Level: max(s.Level, 1),
			XP:    s.XP,
			Rank:  s.Rank.value(),
		})
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i].ID < skills[j].ID })

	return model.Profile{
		Name:        p.Name,
		Rank:        p.Rank.value(),
		TotalSkill:  p.TotalSkill,
		TotalXP:     p.TotalXP,
		CombatLevel: p.CombatLevel,
		Skills:      skills,
	}, nil
}

func errorType(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrPrivateProfile):
		return "private"
	case errors.Is(err, ErrConnection):
		return "connection"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "relay"
	}
}
