package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/relay"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

const yamlContent = `
addr: ":9090"
primary_relay_limit: 1
gains_cache_ttl: 10m
history_limit: 50
storage_backend: sqlite
storage_path: /tmp/tracker.sqlite
relays:
  - name: local
    prefix: "http://127.0.0.1:9000/?url="
stable_table_ids: [gains]
`

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		t.Setenv(config.EnvFile, "")

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			t.Setenv("RUNETRACK_ADDR", ":8080")
			t.Setenv("RUNETRACK_HISTORY_LIMIT", "25")
			t.Setenv("RUNETRACK_DEDUPE_WINDOW", "90s")
			t.Setenv("RUNETRACK_STABLE_TABLE_IDS", "a,b")
			t.Setenv("RUNETRACK_RELAYS", "one=http://one.test/?u=,http://two.test/?u=")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.HistoryLimit, convey.ShouldEqual, 25)
				convey.So(cfg.DedupeWindow, convey.ShouldEqual, 90*time.Second)
				convey.So(cfg.StableTableIDs, convey.ShouldResemble, []string{"a", "b"})
				convey.So(cfg.Relays, convey.ShouldResemble, []relay.Relay{
					{Name: "one", Prefix: "http://one.test/?u="},
					{Name: "two.test", Prefix: "http://two.test/?u="},
				})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			t.Setenv(config.EnvFile, writeConfig(t, yamlContent))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.PrimaryRelayLimit, convey.ShouldEqual, 1)
				convey.So(cfg.GainsCacheTTL, convey.ShouldEqual, 10*time.Minute)
				convey.So(cfg.HistoryLimit, convey.ShouldEqual, 50)
				convey.So(cfg.StorageBackend, convey.ShouldEqual, "sqlite")
				convey.So(cfg.Relays, convey.ShouldResemble, []relay.Relay{{Name: "local", Prefix: "http://127.0.0.1:9000/?url="}})
				convey.So(cfg.StableTableIDs, convey.ShouldResemble, []string{"gains"})
				convey.So(cfg.UserAgent, convey.ShouldEqual, config.New().UserAgent)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			t.Setenv(config.EnvFile, writeConfig(t, yamlContent))
			t.Setenv("RUNETRACK_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.HistoryLimit, convey.ShouldEqual, 50)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			t.Setenv(config.EnvFile, "/non/existent/file.yaml")
			_, err := config.Load(ctx)

			convey.Convey("Then it should fail with ErrLoadConfig", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a value cannot be decoded", func() {
			t.Setenv("RUNETRACK_HISTORY_LIMIT", "lots")
			_, err := config.Load(ctx)

			convey.Convey("Then it should fail with ErrLoadConfig", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a value is invalid", func() {
			t.Setenv("RUNETRACK_STORAGE_BACKEND", "redis")
			_, err := config.Load(ctx)

			convey.Convey("Then it should fail with ErrInvalidConfig", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestWatch(t *testing.T) {
	convey.Convey("Given a watched config file", t, func() {
		t.Setenv(config.EnvFile, "")
		path := writeConfig(t, yamlContent)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes := make(chan *config.Config, 4)
		done := make(chan error, 1)
		go func() {
			done <- config.Watch(ctx, path, func(c *config.Config) { changes <- c })
		}()
		// Give the watcher time to register.
		time.Sleep(100 * time.Millisecond)

		convey.Convey("When the file is replaced with a new relay list", func() {
			tmp := path + ".tmp"
			convey.So(os.WriteFile(tmp, []byte(`
relays:
  - name: fresh
    prefix: "http://fresh.test/?url="
`), 0o600), convey.ShouldBeNil)
			convey.So(os.Rename(tmp, path), convey.ShouldBeNil)

			convey.Convey("Then onChange receives the reloaded config", func() {
				select {
				case cfg := <-changes:
					convey.So(cfg.Relays[0].Name, convey.ShouldEqual, "fresh")
				case <-time.After(5 * time.Second):
					convey.So("timed out waiting for reload", convey.ShouldBeEmpty)
				}
				cancel()
				convey.So(<-done, convey.ShouldBeNil)
			})
		})
	})
}
