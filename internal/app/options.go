package service

import (
	"time"

	"github.com/okian/draftrank/internal/adapters/repository"
	"github.com/okian/draftrank/internal/domain/ranking"
	"github.com/okian/draftrank/internal/domain/vbd"
	"github.com/okian/draftrank/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRoster sets the roster source.
func WithRoster(r RosterSource) Option {
	return func(s *Service) {
		if r != nil {
			s.roster = r
		}
	}
}

// WithProjections sets the projection source.
func WithProjections(p ProjectionSource) Option {
	return func(s *Service) {
		if p != nil {
			s.projections = p
		}
	}
}

// WithWriter sets the artifact writer.
func WithWriter(w ArtifactWriter) Option {
	return func(s *Service) {
		if w != nil {
			s.writer = w
		}
	}
}

// WithStore replaces the in-memory board store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithRanker replaces the default ranker.
func WithRanker(r *ranking.Ranker) Option {
	return func(s *Service) {
		if r != nil {
			s.ranker = r
		}
	}
}

// WithLeague sets the league used for VBD figures.
func WithLeague(l vbd.Settings) Option {
	return func(s *Service) {
		s.league = l
	}
}

// WithSeason pins the projection season. Empty defers to the roster file.
func WithSeason(season string) Option {
	return func(s *Service) {
		s.season = season
	}
}

// WithFallbackSeasons sets how many earlier seasons to try when projections are empty.
func WithFallbackSeasons(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.fallbackSeasons = n
		}
	}
}

// WithRefreshInterval makes Start regenerate the board periodically. Zero disables.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.refreshInterval = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
