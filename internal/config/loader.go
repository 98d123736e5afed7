package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/relay"
)

// Environment variables read by Load.
const (
	EnvPrefix = "RUNETRACK_"
	EnvFile   = EnvPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if RUNETRACK_CONFIG is set
//  3. env (prefix RUNETRACK_)
func Load(ctx context.Context) (*Config, error) {
	return LoadFile(ctx, os.Getenv(EnvFile))
}

// LoadFile is Load with an explicit file path. An empty path skips the file layer.
func LoadFile(_ context.Context, path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Map env keys like RUNETRACK_HISTORY_LIMIT -> history_limit (flat keys).
	// RUNETRACK_RELAYS holds a comma-separated relay list.
	envProvider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(EnvPrefix))
		if key == "config" {
			return "", nil
		}
		if key == "relays" {
			return key, relayMaps(ParseRelays(value))
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	// Lists replace the defaults instead of merging into them.
	if k.Exists("relays") {
		cfg.Relays = nil
	}
	if k.Exists("stable_table_ids") {
		cfg.StableTableIDs = nil
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseRelays reads a comma-separated relay list. Each item is either
// "name=prefix" or a bare prefix, in which case the host names the relay.
func ParseRelays(s string) []relay.Relay {
	var out []relay.Relay
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, prefix, ok := strings.Cut(item, "=")
		if !ok || strings.Contains(name, "://") {
			name, prefix = "", item
		}
		name, prefix = strings.TrimSpace(name), strings.TrimSpace(prefix)
		if name == "" {
			if u, err := url.Parse(prefix); err == nil && u.Hostname() != "" {
				name = u.Hostname()
			} else {
				name = prefix
			}
		}
		out = append(out, relay.Relay{Name: name, Prefix: prefix})
	}
	return out
}

func relayMaps(relays []relay.Relay) []interface{} {
	out := make([]interface{}, len(relays))
	for i, r := range relays {
		out[i] = map[string]interface{}{"name": r.Name, "prefix": r.Prefix}
	}
	return out
}
