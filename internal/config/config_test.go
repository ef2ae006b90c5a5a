package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/draftrank/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.RosterPath, convey.ShouldEqual, "data/sleeper_players.json")
			convey.So(cfg.OutputPath, convey.ShouldEqual, "data/rankings.json")
			convey.So(cfg.Season, convey.ShouldBeEmpty)
			convey.So(cfg.FetchRetries, convey.ShouldEqual, 3)
			convey.So(cfg.FallbackSeasons, convey.ShouldEqual, 1)
			convey.So(cfg.League.Teams, convey.ShouldEqual, 12)
			convey.So(cfg.League.Format, convey.ShouldEqual, "ppr")
			convey.So(cfg.League.Roster["RB"], convey.ShouldEqual, 2)
		})

		convey.Convey("Then the defaults should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then durations should be exposed in milliseconds", func() {
			convey.So(cfg.FetchTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.FetchRetryDelay(), convey.ShouldEqual, 500*time.Millisecond)
			convey.So(cfg.FetchMinInterval(), convey.ShouldEqual, 250*time.Millisecond)
			convey.So(cfg.BreakerOpen(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.RefreshInterval(), convey.ShouldEqual, time.Duration(0))
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one invalid field", t, func() {
		cases := map[string]func(*config.Config){
			"empty roster path":     func(c *config.Config) { c.RosterPath = "" },
			"empty output path":     func(c *config.Config) { c.OutputPath = "" },
			"zero fetch timeout":    func(c *config.Config) { c.FetchTimeoutMS = 0 },
			"zero retries":          func(c *config.Config) { c.FetchRetries = 0 },
			"negative delay":        func(c *config.Config) { c.FetchRetryDelayMS = -1 },
			"negative fallback":     func(c *config.Config) { c.FallbackSeasons = -1 },
			"zero breaker trips":    func(c *config.Config) { c.BreakerMaxFailures = 0 },
			"zero board limit":      func(c *config.Config) { c.MaxBoardLimit = 0 },
			"unknown log format":    func(c *config.Config) { c.LogFormat = "xml" },
			"non numeric season":    func(c *config.Config) { c.Season = "next" },
			"no teams":              func(c *config.Config) { c.League.Teams = 0 },
			"unknown league format": func(c *config.Config) { c.League.Format = "dynasty" },
		}

		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)

			convey.Convey("Then "+name+" should be rejected", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})

	convey.Convey("Given a pinned numeric season", t, func() {
		cfg := config.New()
		cfg.Season = "2024"

		convey.Convey("Then it should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given the league block", t, func() {
		cfg := config.New()
		cfg.League.Teams = 10

		convey.Convey("Then it should convert to VBD settings", func() {
			s := cfg.LeagueSettings()
			convey.So(s.Teams, convey.ShouldEqual, 10)
			convey.So(s.Format, convey.ShouldEqual, "ppr")
			convey.So(s.Roster["QB"], convey.ShouldEqual, 1)
		})
	})
}
