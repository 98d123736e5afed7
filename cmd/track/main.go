// Command track performs one lookup and prints the merged result.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/stats"
	app "github.com/dalmatianosrs/RuneTracker-Pro/internal/app"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/config"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/model"
	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/logger"
)

type gainEntry struct {
	Skill string `json:"skill" yaml:"skill"`
	Gain  int64  `json:"gain" yaml:"gain"`
}

type report struct {
	LookupID     string      `json:"lookup_id" yaml:"lookup_id"`
	Subject      string      `json:"subject" yaml:"subject"`
	TotalXP      int64       `json:"total_xp" yaml:"total_xp"`
	TotalLevel   int         `json:"total_level" yaml:"total_level"`
	Rank         int64       `json:"rank" yaml:"rank"`
	GainsStatus  string      `json:"gains_status" yaml:"gains_status"`
	GainsCached  bool        `json:"gains_cached" yaml:"gains_cached"`
	WeeklyTotal  int64       `json:"weekly_total" yaml:"weekly_total"`
	TopGains     []gainEntry `json:"top_gains" yaml:"top_gains"`
	Snapshots    int         `json:"snapshots" yaml:"snapshots"`
	Duplicate    bool        `json:"duplicate" yaml:"duplicate"`
	StorageError string      `json:"storage_error,omitempty" yaml:"storage_error,omitempty"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "track:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("track", flag.ContinueOnError)
	fs.SetOutput(stderr)
	subject := fs.String("subject", "", "player name to look up")
	format := fs.String("format", "json", "output format: json or yaml")
	top := fs.Int("top", 5, "number of top gains to show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *format != "json" && *format != "yaml" {
		return fmt.Errorf("unknown format %q", *format)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithLevel(cfg.LogLevel), logger.WithOutput(stderr), logger.WithSource(false)); err != nil {
		return err
	}

	rt, err := app.Build(cfg, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	res, err := rt.Service.Lookup(ctx, *subject)
	if err != nil {
		if errors.Is(err, app.ErrEmptySubject) {
			return errors.New("-subject is required")
		}
		return errors.New(stats.Message(err))
	}
	return write(stdout, *format, newReport(res, *top))
}

func newReport(res app.LookupResult, top int) report {
	r := report{
		LookupID:    res.ID,
		Subject:     res.Subject,
		TotalXP:     res.Profile.TotalXP,
		TotalLevel:  res.Profile.TotalSkill,
		Rank:        res.Profile.Rank,
		GainsStatus: "available",
		GainsCached: res.FromCache,
		WeeklyTotal: res.WeeklyTotal() / 10,
		Snapshots:   len(res.History.Snapshots),
		Duplicate:   res.Duplicate,
	}
	if !res.Gains.Available {
		r.GainsStatus = res.Gains.Error
		if r.GainsStatus == "" {
			r.GainsStatus = string(res.Gains.Reason)
		}
	}
	for _, e := range res.TopGains(top) {
		r.TopGains = append(r.TopGains, gainEntry{Skill: model.SkillName(e.SkillID), Gain: e.Display})
	}
	if res.PersistErr != nil {
		r.StorageError = res.PersistErr.Error()
	}
	return r
}

func write(w io.Writer, format string, r report) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
