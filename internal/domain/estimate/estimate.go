// Package estimate provides fallback season point estimates for players
// without a real projection.
package estimate

import (
	"math"

	"github.com/okian/draftrank/internal/domain/model"
)

// Extrapolation constants for tiers beyond the table.
const (
	maxTableTier    = 8
	pointsPerTier   = 10.0
	minimumPoints   = 10.0
	unknownBaseline = 50.0
)

// Table maps position to the PPR points expected at tiers 1..8.
type Table map[model.Position][maxTableTier]float64

// DefaultTable holds the PPR tier estimates.
var DefaultTable = Table{
	model.QB:  {350, 320, 290, 260, 240, 220, 200, 180},
	model.RB:  {300, 260, 220, 190, 160, 140, 120, 100},
	model.WR:  {300, 260, 230, 200, 170, 150, 130, 110},
	model.TE:  {220, 170, 140, 120, 100, 90, 80, 70},
	model.K:   {150, 140, 135, 130, 125, 120, 115, 110},
	model.DEF: {160, 150, 140, 130, 120, 110, 105, 100},
}

// Option applies a configuration option to the Estimator.
type Option func(*Estimator)

// WithTable replaces the tier table. Positions missing from t fall back to
// the unknown-position baseline.
func WithTable(t Table) Option {
	return func(e *Estimator) {
		if len(t) > 0 {
			e.table = t
		}
	}
}

// Estimator returns fallback point values by position and tier.
type Estimator struct {
	table Table
}

// New creates an Estimator using DefaultTable unless overridden.
func New(opts ...Option) *Estimator {
	e := &Estimator{table: DefaultTable}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate returns the points for a player of position at the given
// 1-based tier. Tiers past the table lose 10 points each from the tier-8
// value and never drop below 10.
func (e *Estimator) Estimate(position model.Position, tier int) float64 {
	if tier < 1 {
		tier = 1
	}
	row, ok := e.table[position]
	if ok && tier <= maxTableTier {
		return row[tier-1]
	}
	base := unknownBaseline
	if ok {
		base = row[maxTableTier-1]
	}
	return math.Max(minimumPoints, base-float64(tier-maxTableTier)*pointsPerTier)
}

var defaultEstimator = New()

// Estimate uses the default table.
func Estimate(position model.Position, tier int) float64 {
	return defaultEstimator.Estimate(position, tier)
}
