// Package service orchestrates board generation and serves reads over the
// latest board to the HTTP API.
package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/draftrank/internal/adapters/repository"
	"github.com/okian/draftrank/internal/domain/model"
	"github.com/okian/draftrank/internal/domain/ranking"
	"github.com/okian/draftrank/internal/domain/types"
	"github.com/okian/draftrank/internal/domain/vbd"
	"github.com/okian/draftrank/pkg/logger"
	"github.com/okian/draftrank/pkg/metrics"
)

// RosterSource loads the player database.
type RosterSource interface {
	Load(ctx context.Context) (model.Roster, error)
}

// ProjectionSource fetches season projections. An empty result is valid.
type ProjectionSource interface {
	Fetch(ctx context.Context, season string) (model.Projections, error)
}

// ArtifactWriter persists the ranked board.
type ArtifactWriter interface {
	Write(ctx context.Context, board []types.Entry) error
	Path() string
}

// Report describes one generation run.
type Report struct {
	RunID            string    `json:"run_id"`
	Season           string    `json:"season"`
	ProjectionSeason string    `json:"projection_season,omitempty"` // empty when no season had projections
	ProjectionCount  int       `json:"projection_count"`
	Considered       int       `json:"considered"`
	ExcludedInactive int       `json:"excluded_inactive"`
	ExcludedPosition int       `json:"excluded_position"`
	Ranked           int       `json:"ranked"`
	Estimated        int       `json:"estimated"`
	OutputPath       string    `json:"output_path"`
	StartedAt        time.Time `json:"started_at"`
	DurationMS       int64     `json:"duration_ms"`
}

// Service generates ranked boards and answers reads over the latest one.
type Service struct {
	genMu sync.Mutex // one generation at a time
	mu    sync.RWMutex

	roster      RosterSource
	projections ProjectionSource
	writer      ArtifactWriter
	store       repository.Store
	ranker      *ranking.Ranker

	league          vbd.Settings
	season          string
	fallbackSeasons int
	refreshInterval time.Duration
	now             func() time.Time

	// State
	last        *Report
	generations int
	failures    int
	started     bool
	stopCh      chan struct{}
	wg          sync.WaitGroup

	logger logger.Logger
}

// New constructs a Service. Roster, projection and writer collaborators are
// required before Generate can run.
func New(opts ...Option) *Service {
	s := &Service{
		store:           repository.NewBoardStore(),
		ranker:          ranking.New(),
		league:          vbd.DefaultSettings(),
		fallbackSeasons: 1,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Generate runs one full generation: load roster, resolve the season, fetch
// projections with fallback, rank, publish to the store and write the artifact.
// Concurrent callers are serialized.
func (s *Service) Generate(ctx context.Context) (Report, error) {
	s.genMu.Lock()
	defer s.genMu.Unlock()

	if s.roster == nil || s.projections == nil || s.writer == nil {
		return Report{}, ErrNotConfigured
	}

	start := s.now()
	report := Report{RunID: uuid.NewString(), StartedAt: start, OutputPath: s.writer.Path()}
	runField := logger.String("run_id", report.RunID)

	report, err := s.generate(ctx, report, runField)
	took := s.now().Sub(start)
	report.DurationMS = took.Milliseconds()
	metrics.RecordGeneration(err == nil, took)

	s.mu.Lock()
	s.generations++
	if err != nil {
		s.failures++
	} else {
		r := report
		s.last = &r
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error(ctx, "generation failed", runField, logger.Error(err))
		return report, fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	s.logger.Info(ctx, "generation complete",
		runField,
		logger.String("season", report.Season),
		logger.String("projection_season", report.ProjectionSeason),
		logger.Int("ranked", report.Ranked),
		logger.Int("estimated", report.Estimated),
		logger.Duration("took", took),
	)
	return report, nil
}

func (s *Service) generate(ctx context.Context, report Report, runField logger.Field) (Report, error) {
	roster, err := s.roster.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("load roster: %w", err)
	}
	report.Season = s.resolveSeason(roster)

	projections, used, err := s.fetchProjections(ctx, report.Season, runField)
	if err != nil {
		return report, err
	}
	report.ProjectionSeason = used
	report.ProjectionCount = len(projections)

	result := s.ranker.Build(roster, projections)
	st := result.Stats
	report.Considered = st.Considered
	report.ExcludedInactive = st.ExcludedInactive
	report.ExcludedPosition = st.ExcludedPosition
	report.Ranked = st.Ranked
	report.Estimated = st.Estimated

	if err := s.store.Replace(ctx, result.Entries); err != nil {
		return report, fmt.Errorf("publish board: %w", err)
	}
	if err := s.writer.Write(ctx, result.Entries); err != nil {
		return report, err
	}

	metrics.UpdateProjectionRecords(len(projections))
	metrics.UpdateBoardStats(st.Ranked, st.Estimated, st.ExcludedInactive, st.ExcludedPosition)
	return report, nil
}

// resolveSeason picks the configured season, then the roster file's, then
// the current calendar year.
func (s *Service) resolveSeason(roster model.Roster) string {
	switch {
	case s.season != "":
		return s.season
	case roster.Season != "":
		return roster.Season
	default:
		return strconv.Itoa(s.now().Year())
	}
}

// fetchProjections tries season, then up to fallbackSeasons earlier seasons,
// and returns the first non-empty result with the season it came from. Fetch
// errors degrade to "empty" so the board can still be built from estimates.
func (s *Service) fetchProjections(ctx context.Context, season string, runField logger.Field) (model.Projections, string, error) {
	for _, candidate := range candidateSeasons(season, s.fallbackSeasons) {
		p, err := s.projections.Fetch(ctx, candidate)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", ctxErr
		}
		switch {
		case err != nil:
			s.logger.Warn(ctx, "projection fetch failed",
				runField, logger.String("season", candidate), logger.Error(err))
			continue
		case len(p) == 0:
			s.logger.Info(ctx, "no projections for season",
				runField, logger.String("season", candidate))
			continue
		}
		if candidate != season {
			metrics.RecordSeasonFallback()
			s.logger.Info(ctx, "using projections from an earlier season",
				runField, logger.String("season", season), logger.String("projection_season", candidate))
		}
		return p, candidate, nil
	}

	s.logger.Warn(ctx, "no projections available, estimating every player", runField)
	return model.Projections{}, "", nil
}

// candidateSeasons lists season then up to n earlier seasons. A season that
// is not a year has no predecessors.
func candidateSeasons(season string, n int) []string {
	out := []string{season}
	year, err := strconv.Atoi(season)
	if err != nil {
		return out
	}
	for i := 1; i <= n; i++ {
		out = append(out, strconv.Itoa(year-i))
	}
	return out
}

// Start begins periodic regeneration when a refresh interval is configured.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.started = true
	s.stopCh = make(chan struct{})

	if s.refreshInterval <= 0 {
		return nil
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				// Failures are logged and counted inside Generate.
				_, _ = s.Generate(ctx)
			}
		}
	}()
	s.logger.Info(ctx, "periodic refresh enabled", logger.Duration("interval", s.refreshInterval))
	return nil
}

// Stop halts periodic regeneration and waits for an in-flight tick.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
}

// TopN returns the first n board entries, optionally for one position.
func (s *Service) TopN(ctx context.Context, n int, position string) ([]types.Entry, error) {
	return s.store.TopN(ctx, n, position)
}

// Rank returns the board entry for a player.
func (s *Service) Rank(ctx context.Context, playerID string) (types.Entry, error) {
	return s.store.Rank(ctx, playerID)
}

// VBD returns the top limit players by value over replacement for the
// configured league.
func (s *Service) VBD(ctx context.Context, limit int) ([]types.VBDEntry, error) {
	if limit < 1 {
		return nil, repository.ErrInvalidLimit
	}
	out, err := vbd.Calculate(s.store.All(ctx), s.league)
	if err != nil {
		return nil, err
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// LastReport returns the report of the latest successful generation.
func (s *Service) LastReport() (Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return Report{}, ErrNoBoard
	}
	return *s.last, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":          s.started,
		"generations":      s.generations,
		"failures":         s.failures,
		"board_size":       s.store.Count(context.Background()),
		"league_teams":     s.league.Teams,
		"league_format":    s.league.Format,
		"refresh_interval": s.refreshInterval.String(),
	}
	if s.last != nil {
		stats["last_run"] = *s.last
	}
	return stats
}
