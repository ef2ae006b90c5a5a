package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "DRAFTRANK_"
	envConfigPath = envPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if DRAFTRANK_CONFIG is set
//  3. env (prefix DRAFTRANK_)
func Load(ctx context.Context) (*Config, error) {
	return LoadFile(ctx, os.Getenv(envConfigPath))
}

// LoadFile is Load with an explicit YAML path. An empty path skips the file layer.
func LoadFile(_ context.Context, path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// DRAFTRANK_FETCH_RETRIES -> fetch_retries, DRAFTRANK_LEAGUE_TEAMS -> league.teams,
	// DRAFTRANK_LEAGUE_ROSTER_RB -> league.roster.RB.
	envProvider := env.Provider(envPrefix, ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	if s == "CONFIG" {
		return ""
	}
	if rest, ok := strings.CutPrefix(s, "LEAGUE_ROSTER_"); ok {
		return "league.roster." + rest
	}
	s = strings.ToLower(s)
	if rest, ok := strings.CutPrefix(s, "league_"); ok {
		return "league." + rest
	}
	return s
}
