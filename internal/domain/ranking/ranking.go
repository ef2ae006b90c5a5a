// Package ranking merges roster and projection data into a ranked draft board.
//
// Ranking is a two-pass build: every candidate is collected and sorted first,
// then a single forward walk assigns rank, tier and fallback estimates. Point
// estimates depend on a player's place among same-position players, so no
// estimate can be made before the full order is known.
package ranking

import (
	"math"
	"sort"

	"github.com/okian/draftrank/internal/domain/estimate"
	"github.com/okian/draftrank/internal/domain/model"
	"github.com/okian/draftrank/internal/domain/types"
)

// Ordering sentinels. Each has exactly one meaning.
const (
	// TierSize is the number of consecutive ranks grouped into one tier.
	TierSize = 12

	// UnrankedFallback is the ordering key for a player with neither an ADP
	// nor a fallback rank. It sorts after every real value.
	UnrankedFallback = 9999.0

	// NoADP is the upstream ADP value meaning "no draft data".
	NoADP = 999.0

	// ADPDisplayCeiling suppresses ordering values at or above it in output.
	ADPDisplayCeiling = 5000.0
)

// Estimator supplies fallback points for players without a projection.
type Estimator interface {
	Estimate(position model.Position, tier int) float64
}

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithEstimator sets the fallback point estimator.
func WithEstimator(e Estimator) Option {
	return func(r *Ranker) {
		if e != nil {
			r.estimator = e
		}
	}
}

// Stats summarizes one ranking run.
type Stats struct {
	Considered       int // roster records seen
	ExcludedInactive int
	ExcludedPosition int
	Ranked           int
	Estimated        int
}

// Result is the ranked board plus run statistics.
type Result struct {
	Entries []types.Entry
	Stats   Stats
}

// Ranker builds ranked boards. It holds no per-run state and is safe for
// concurrent use.
type Ranker struct {
	estimator Estimator
}

// New creates a Ranker using the default estimator unless overridden.
func New(opts ...Option) *Ranker {
	r := &Ranker{estimator: estimate.New()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type candidate struct {
	playerID string
	name     string
	position model.Position
	team     string
	orderKey float64
	points   *float64 // nil until estimated
}

// Rank returns the ordered board for roster and projections.
func (r *Ranker) Rank(roster model.Roster, projections model.Projections) []types.Entry {
	return r.Build(roster, projections).Entries
}

// Build ranks roster against projections and reports run statistics.
func (r *Ranker) Build(roster model.Roster, projections model.Projections) Result {
	stats := Stats{Considered: len(roster.Players)}
	candidates := make([]candidate, 0, len(roster.Players))

	for _, p := range roster.Players {
		if !p.Active {
			stats.ExcludedInactive++
			continue
		}
		if !p.Position.Valid() {
			stats.ExcludedPosition++
			continue
		}
		proj := projections[p.PlayerID]
		candidates = append(candidates, candidate{
			playerID: p.PlayerID,
			name:     p.DisplayName(),
			position: p.Position,
			team:     p.TeamOrFreeAgent(),
			orderKey: orderingKey(p, proj),
			points:   proj.PtsPPR,
		})
	}

	// Stable: equal keys keep roster order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].orderKey < candidates[j].orderKey
	})

	entries := make([]types.Entry, 0, len(candidates))
	positionCounts := make(map[model.Position]int, len(model.Positions))

	for i, c := range candidates {
		rank := i + 1
		positionCounts[c.position]++

		var points float64
		estimated := false
		if c.points != nil {
			points = *c.points
		} else {
			points = r.estimator.Estimate(c.position, tierOf(positionCounts[c.position]))
			estimated = true
			stats.Estimated++
		}

		entries = append(entries, types.Entry{
			PlayerID:        c.playerID,
			Name:            c.name,
			Position:        string(c.position),
			Team:            c.team,
			Rank:            rank,
			Tier:            tierOf(rank),
			ProjectedPoints: round1(points),
			ADP:             displayADP(c.orderKey),
			IsEstimated:     estimated,
		})
	}

	stats.Ranked = len(entries)
	return Result{Entries: entries, Stats: stats}
}

var defaultRanker = New()

// Rank ranks with the default estimator.
func Rank(roster model.Roster, projections model.Projections) []types.Entry {
	return defaultRanker.Rank(roster, projections)
}

// orderingKey prefers a real ADP, then the roster's fallback rank.
func orderingKey(p model.RosterRecord, proj model.ProjectionRecord) float64 {
	if proj.ADPPPR != nil && *proj.ADPPPR != NoADP {
		return *proj.ADPPPR
	}
	if p.SearchRank != nil {
		return float64(*p.SearchRank)
	}
	return UnrankedFallback
}

// tierOf groups 1-based ranks into tiers of TierSize.
func tierOf(rank int) int {
	return (rank + TierSize - 1) / TierSize
}

func displayADP(key float64) *float64 {
	if key >= ADPDisplayCeiling {
		return nil
	}
	v := round1(key)
	return &v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
