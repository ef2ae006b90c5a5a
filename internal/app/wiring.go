package service

import (
	"github.com/okian/draftrank/internal/adapters/artifact"
	"github.com/okian/draftrank/internal/adapters/repository"
	"github.com/okian/draftrank/internal/adapters/sleeper"
	"github.com/okian/draftrank/internal/config"
	"github.com/okian/draftrank/pkg/logger"
)

// FromConfig builds a Service backed by the roster file, the Sleeper
// projection client, the board store and the JSON artifact writer described
// by cfg. Extra options are applied last.
func FromConfig(cfg *config.Config, log logger.Logger, opts ...Option) *Service {
	client := sleeper.NewClient(
		sleeper.WithBaseURL(cfg.ProjectionsURL),
		sleeper.WithTimeout(cfg.FetchTimeout()),
		sleeper.WithRetries(cfg.FetchRetries),
		sleeper.WithRetryDelay(cfg.FetchRetryDelay()),
		sleeper.WithMinInterval(cfg.FetchMinInterval()),
		sleeper.WithBreaker(cfg.BreakerMaxFailures, cfg.BreakerOpen()),
		sleeper.WithLogger(log.Named("sleeper")),
	)

	base := []Option{
		WithLogger(log.Named("service")),
		WithRoster(sleeper.NewRosterFile(cfg.RosterPath)),
		WithProjections(client),
		WithWriter(artifact.NewWriter(cfg.OutputPath)),
		WithStore(repository.NewBoardStore(repository.WithMaxLimit(cfg.MaxBoardLimit))),
		WithLeague(cfg.LeagueSettings()),
		WithSeason(cfg.Season),
		WithFallbackSeasons(cfg.FallbackSeasons),
		WithRefreshInterval(cfg.RefreshInterval()),
	}
	return New(append(base, opts...)...)
}
