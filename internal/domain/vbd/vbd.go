// Package vbd computes value-based-drafting figures over a ranked board.
//
// A player's value is how far their projection sits above the replacement
// level at their position, where replacement level is the projection of the
// last player a league of the given shape is expected to roster.
package vbd

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/okian/draftrank/internal/domain/model"
	"github.com/okian/draftrank/internal/domain/types"
)

// League formats.
const (
	FormatStandard  = "standard"
	FormatPPR       = "ppr"
	FormatHalfPPR   = "half_ppr"
	FormatSuperflex = "superflex"
)

// Roster slot keys beyond the six positions.
const (
	SlotFlex      = "FLEX"
	SlotSuperFlex = "SUPER_FLEX"
)

const (
	flexShare      = 0.3
	superFlexShare = 0.2
)

// ErrInvalidSettings is returned for league settings that cannot produce baselines.
var ErrInvalidSettings = errors.New("invalid league settings")

var scarcityMultipliers = map[model.Position]float64{
	model.QB:  1.0,
	model.RB:  1.3,
	model.WR:  1.1,
	model.TE:  1.5,
	model.K:   0.8,
	model.DEF: 0.8,
}

// Settings describes the league the values are computed for.
type Settings struct {
	Teams  int
	Format string
	Roster map[string]int // starting slots per position or flex key
}

// DefaultSettings is a 12-team PPR league with one flex.
func DefaultSettings() Settings {
	return Settings{
		Teams:  12,
		Format: FormatPPR,
		Roster: map[string]int{
			"QB": 1, "RB": 2, "WR": 2, "TE": 1, SlotFlex: 1, "K": 1, "DEF": 1,
		},
	}
}

// Validate checks that s can produce baselines.
func (s Settings) Validate() error {
	if s.Teams < 1 {
		return fmt.Errorf("%w: teams must be at least 1", ErrInvalidSettings)
	}
	switch s.Format {
	case FormatStandard, FormatPPR, FormatHalfPPR, FormatSuperflex:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidSettings, s.Format)
	}
	for slot, n := range s.Roster {
		if n < 0 {
			return fmt.Errorf("%w: negative slot count for %s", ErrInvalidSettings, slot)
		}
	}
	return nil
}

// Calculate annotates entries with VBD figures and returns them ordered by
// value, highest first. Entries with unrecognized positions are skipped.
func Calculate(entries []types.Entry, s Settings) ([]types.VBDEntry, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	byPos := make(map[model.Position][]types.Entry, len(model.Positions))
	for _, e := range entries {
		pos := model.Position(e.Position)
		if !pos.Valid() {
			continue
		}
		byPos[pos] = append(byPos[pos], e)
	}

	out := make([]types.VBDEntry, 0, len(entries))
	for _, pos := range model.Positions {
		group := byPos[pos]
		if len(group) == 0 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].ProjectedPoints > group[j].ProjectedPoints
		})
		cutoff := demand(pos, s)
		if cutoff > len(group)-1 {
			cutoff = len(group) - 1
		}
		baseline := group[cutoff].ProjectedPoints
		mult := scarcityMultipliers[pos]
		for i, e := range group {
			out = append(out, types.VBDEntry{
				Entry:              e,
				PositionRank:       i + 1,
				BaselinePoints:     baseline,
				ScarcityMultiplier: mult,
				VBDValue:           round1((e.ProjectedPoints - baseline) * mult),
			})
		}
	}

	// Ties fall back to board rank so the order is deterministic.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].VBDValue != out[j].VBDValue {
			return out[i].VBDValue > out[j].VBDValue
		}
		return out[i].Rank < out[j].Rank
	})
	return out, nil
}

// demand is the number of players at pos the league rosters in total,
// including flex share and bench depth.
func demand(pos model.Position, s Settings) int {
	base := float64(s.Roster[string(pos)] * s.Teams)

	var flex float64
	switch pos {
	case model.RB, model.WR, model.TE:
		flex += float64(s.Roster[SlotFlex]*s.Teams) * flexShare
	}
	if s.Format == FormatSuperflex {
		switch pos {
		case model.QB, model.RB, model.WR, model.TE:
			flex += float64(s.Roster[SlotSuperFlex]*s.Teams) * superFlexShare
		}
	}

	return int(math.Floor(base + flex + base*benchMultiplier(pos)))
}

func benchMultiplier(pos model.Position) float64 {
	switch pos {
	case model.QB:
		return 0.5
	case model.RB:
		return 1.5
	case model.WR:
		return 1.2
	case model.TE:
		return 0.8
	default:
		return 0.1
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
