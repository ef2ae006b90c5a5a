// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Durations are configured in milliseconds and exposed as time.Duration helpers.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/okian/draftrank/internal/domain/vbd"
)

// League describes the fantasy league VBD figures are computed for.
type League struct {
	// Teams is the number of teams drafting.
	Teams int `koanf:"teams"`

	// Format is one of standard, ppr, half_ppr, superflex.
	Format string `koanf:"format"`

	// Roster maps slot keys (QB, RB, WR, TE, K, DEF, FLEX, SUPER_FLEX) to starter counts.
	Roster map[string]int `koanf:"roster"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// RosterPath is the player database file written by the roster update job.
	RosterPath string `koanf:"roster_path"`

	// OutputPath is where the ranked board artifact is written.
	OutputPath string `koanf:"output_path"`

	// Season pins the projection season. Empty means use the roster file's
	// season, then the current year.
	Season string `koanf:"season"`

	// ProjectionsURL is the projection endpoint; the season is appended as a path segment.
	ProjectionsURL string `koanf:"projections_url"`

	// Projection fetch tuning.
	FetchTimeoutMS     int `koanf:"fetch_timeout_ms"`
	FetchRetries       int `koanf:"fetch_retries"`
	FetchRetryDelayMS  int `koanf:"fetch_retry_delay_ms"`
	FetchMinIntervalMS int `koanf:"fetch_min_interval_ms"`

	// FallbackSeasons is how many earlier seasons to try when projections are empty.
	FallbackSeasons int `koanf:"fallback_seasons"`

	// Circuit breaker around the projection source.
	BreakerMaxFailures int `koanf:"breaker_max_failures"`
	BreakerOpenMS      int `koanf:"breaker_open_ms"`

	// MaxBoardLimit caps GET /rankings?limit and GET /vbd?limit.
	MaxBoardLimit int `koanf:"max_board_limit"`

	// RefreshIntervalMS re-runs generation periodically in the server. 0 disables.
	RefreshIntervalMS int `koanf:"refresh_interval_ms"`

	League League `koanf:"league"`
}

// New creates a Config with defaults.
func New() *Config {
	league := vbd.DefaultSettings()
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		RosterPath:         "data/sleeper_players.json",
		OutputPath:         "data/rankings.json",
		ProjectionsURL:     "https://api.sleeper.app/v1/projections/nfl/regular",
		FetchTimeoutMS:     10_000,
		FetchRetries:       3,
		FetchRetryDelayMS:  500,
		FetchMinIntervalMS: 250,
		FallbackSeasons:    1,
		BreakerMaxFailures: 5,
		BreakerOpenMS:      30_000,
		MaxBoardLimit:      500,
		League: League{
			Teams:  league.Teams,
			Format: league.Format,
			Roster: league.Roster,
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.RosterPath == "":
		return fmt.Errorf("%w: roster_path must not be empty", ErrInvalidConfig)
	case c.OutputPath == "":
		return fmt.Errorf("%w: output_path must not be empty", ErrInvalidConfig)
	case c.ProjectionsURL == "":
		return fmt.Errorf("%w: projections_url must not be empty", ErrInvalidConfig)
	case c.FetchTimeoutMS <= 0:
		return fmt.Errorf("%w: fetch_timeout_ms must be positive", ErrInvalidConfig)
	case c.FetchRetries < 1:
		return fmt.Errorf("%w: fetch_retries must be at least 1", ErrInvalidConfig)
	case c.FetchRetryDelayMS < 0, c.FetchMinIntervalMS < 0, c.BreakerOpenMS < 0, c.RefreshIntervalMS < 0:
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidConfig)
	case c.FallbackSeasons < 0:
		return fmt.Errorf("%w: fallback_seasons must not be negative", ErrInvalidConfig)
	case c.BreakerMaxFailures < 1:
		return fmt.Errorf("%w: breaker_max_failures must be at least 1", ErrInvalidConfig)
	case c.MaxBoardLimit < 1:
		return fmt.Errorf("%w: max_board_limit must be at least 1", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.Season != "" {
		if _, err := strconv.Atoi(c.Season); err != nil {
			return fmt.Errorf("%w: season %q is not a year", ErrInvalidConfig, c.Season)
		}
	}
	if err := c.LeagueSettings().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// LeagueSettings converts the league block for the VBD calculator.
func (c *Config) LeagueSettings() vbd.Settings {
	return vbd.Settings{Teams: c.League.Teams, Format: c.League.Format, Roster: c.League.Roster}
}

// FetchTimeout bounds one projection request.
func (c *Config) FetchTimeout() time.Duration { return ms(c.FetchTimeoutMS) }

// FetchRetryDelay is the linear backoff step between attempts.
func (c *Config) FetchRetryDelay() time.Duration { return ms(c.FetchRetryDelayMS) }

// FetchMinInterval is the minimum spacing between projection requests.
func (c *Config) FetchMinInterval() time.Duration { return ms(c.FetchMinIntervalMS) }

// BreakerOpen is how long the projection breaker stays open.
func (c *Config) BreakerOpen() time.Duration { return ms(c.BreakerOpenMS) }

// RefreshInterval is the server's regeneration period.
func (c *Config) RefreshInterval() time.Duration { return ms(c.RefreshIntervalMS) }

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}
