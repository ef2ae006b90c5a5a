package ranking_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/okian/draftrank/internal/domain/model"
	"github.com/okian/draftrank/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

func player(id string, pos model.Position, rank *int) model.RosterRecord {
	return model.RosterRecord{
		PlayerID:   id,
		FirstName:  "Player",
		LastName:   id,
		Position:   pos,
		Team:       "KC",
		Active:     true,
		SearchRank: rank,
	}
}

func TestRankUnrankedPlayers(t *testing.T) {
	Convey("Given two active unranked running backs and no projections", t, func() {
		roster := model.Roster{Players: []model.RosterRecord{
			player("A", model.RB, intp(9999)),
			player("B", model.RB, intp(9999)),
		}}

		entries := ranking.Rank(roster, model.Projections{})

		Convey("Then roster order should break the tie", func() {
			So(len(entries), ShouldEqual, 2)
			So(entries[0].PlayerID, ShouldEqual, "A")
			So(entries[1].PlayerID, ShouldEqual, "B")
		})

		Convey("And both should be rank 1 and 2 in tier 1", func() {
			So(entries[0].Rank, ShouldEqual, 1)
			So(entries[1].Rank, ShouldEqual, 2)
			So(entries[0].Tier, ShouldEqual, 1)
			So(entries[1].Tier, ShouldEqual, 1)
		})

		Convey("And both should be estimated at the RB tier-1 value", func() {
			for _, e := range entries {
				So(e.ProjectedPoints, ShouldEqual, 300)
				So(e.IsEstimated, ShouldBeTrue)
				So(e.ADP, ShouldBeNil)
			}
		})
	})
}

func TestRankOrdering(t *testing.T) {
	Convey("Given players with ADP, fallback ranks and neither", t, func() {
		roster := model.Roster{Players: []model.RosterRecord{
			player("none", model.WR, nil),
			player("fallback", model.WR, intp(40)),
			player("adp", model.WR, intp(500)),
			player("sentinel", model.WR, intp(20)),
		}}
		projections := model.Projections{
			"adp":      {PlayerID: "adp", ADPPPR: f64(12.34), PtsPPR: f64(241.26)},
			"sentinel": {PlayerID: "sentinel", ADPPPR: f64(ranking.NoADP)},
		}

		entries := ranking.Rank(roster, projections)

		Convey("Then a real ADP should win over the fallback rank", func() {
			So(entries[0].PlayerID, ShouldEqual, "adp")
			So(*entries[0].ADP, ShouldEqual, 12.3)
		})

		Convey("And the no-ADP sentinel should fall back to the roster rank", func() {
			So(entries[1].PlayerID, ShouldEqual, "sentinel")
			So(*entries[1].ADP, ShouldEqual, 20)
		})

		Convey("And a fallback rank should order the next player", func() {
			So(entries[2].PlayerID, ShouldEqual, "fallback")
			So(*entries[2].ADP, ShouldEqual, 40)
		})

		Convey("And a player without any ordering data should be last with no ADP", func() {
			So(entries[3].PlayerID, ShouldEqual, "none")
			So(entries[3].ADP, ShouldBeNil)
		})

		Convey("And real points should be rounded and not flagged", func() {
			So(entries[0].ProjectedPoints, ShouldEqual, 241.3)
			So(entries[0].IsEstimated, ShouldBeFalse)
		})
	})

	Convey("Given a fallback rank at the display ceiling", t, func() {
		roster := model.Roster{Players: []model.RosterRecord{
			player("edge", model.QB, intp(5000)),
			player("below", model.QB, intp(4999)),
		}}

		entries := ranking.Rank(roster, nil)

		Convey("Then values at or above 5000 should be suppressed", func() {
			So(entries[0].PlayerID, ShouldEqual, "below")
			So(*entries[0].ADP, ShouldEqual, 4999)
			So(entries[1].ADP, ShouldBeNil)
		})
	})
}

func TestRankExclusions(t *testing.T) {
	Convey("Given a roster with inactive players and unrecognized positions", t, func() {
		inactive := player("inactive", model.QB, intp(1))
		inactive.Active = false
		roster := model.Roster{Players: []model.RosterRecord{
			inactive,
			player("lineman", model.Position("OL"), intp(2)),
			player("linebacker", model.Position("LB"), intp(3)),
			player("kept", model.TE, intp(4)),
		}}

		result := ranking.New().Build(roster, model.Projections{})

		Convey("Then only the eligible player should be ranked", func() {
			So(len(result.Entries), ShouldEqual, 1)
			So(result.Entries[0].PlayerID, ShouldEqual, "kept")
			So(result.Entries[0].Rank, ShouldEqual, 1)
		})

		Convey("And the statistics should account for every exclusion", func() {
			So(result.Stats.Considered, ShouldEqual, 4)
			So(result.Stats.ExcludedInactive, ShouldEqual, 1)
			So(result.Stats.ExcludedPosition, ShouldEqual, 2)
			So(result.Stats.Ranked, ShouldEqual, 1)
			So(result.Stats.Estimated, ShouldEqual, 1)
		})
	})

	Convey("Given an empty roster", t, func() {
		entries := ranking.Rank(model.Roster{}, nil)

		Convey("Then the board should be empty", func() {
			So(entries, ShouldNotBeNil)
			So(len(entries), ShouldEqual, 0)
		})
	})
}

func TestRankTiers(t *testing.T) {
	Convey("Given 30 wide receivers followed by 3 tight ends", t, func() {
		var players []model.RosterRecord
		for i := 1; i <= 30; i++ {
			players = append(players, player(fmt.Sprintf("wr%d", i), model.WR, intp(i)))
		}
		for i := 31; i <= 33; i++ {
			players = append(players, player(fmt.Sprintf("te%d", i), model.TE, intp(i)))
		}

		entries := ranking.Rank(model.Roster{Players: players}, nil)

		Convey("Then ranks should be contiguous and tiers should follow overall rank", func() {
			So(len(entries), ShouldEqual, 33)
			for i, e := range entries {
				So(e.Rank, ShouldEqual, i+1)
				So(e.Tier, ShouldEqual, (e.Rank+11)/12)
			}
			So(entries[11].Tier, ShouldEqual, 1)
			So(entries[12].Tier, ShouldEqual, 2)
			So(entries[32].Tier, ShouldEqual, 3)
		})

		Convey("And estimates should follow the position-relative tier", func() {
			So(entries[0].ProjectedPoints, ShouldEqual, 300)  // WR1 -> tier 1
			So(entries[12].ProjectedPoints, ShouldEqual, 260) // WR13 -> tier 2
			So(entries[24].ProjectedPoints, ShouldEqual, 230) // WR25 -> tier 3
		})

		Convey("And the first tight ends should use tier 1 despite overall tier 3", func() {
			for _, e := range entries[30:] {
				So(e.Tier, ShouldEqual, 3)
				So(e.ProjectedPoints, ShouldEqual, 220)
				So(e.IsEstimated, ShouldBeTrue)
			}
		})
	})
}

func TestRankKickerAndDefense(t *testing.T) {
	Convey("Given a kicker and a defense with the same ADP", t, func() {
		roster := model.Roster{Players: []model.RosterRecord{
			player("k1", model.K, nil),
			player("def1", model.DEF, nil),
		}}
		projections := model.Projections{
			"k1":   {PlayerID: "k1", ADPPPR: f64(150)},
			"def1": {PlayerID: "def1", ADPPPR: f64(150)},
		}

		entries := ranking.Rank(roster, projections)

		Convey("Then both should appear in roster order", func() {
			So(len(entries), ShouldEqual, 2)
			So(entries[0].PlayerID, ShouldEqual, "k1")
			So(entries[1].PlayerID, ShouldEqual, "def1")
		})

		Convey("And each should be estimated from its own position tier", func() {
			So(entries[0].ProjectedPoints, ShouldEqual, 150)
			So(entries[1].ProjectedPoints, ShouldEqual, 160)
		})
	})
}

func TestRankEstimationFlag(t *testing.T) {
	Convey("Given a mix of projected and unprojected players", t, func() {
		var players []model.RosterRecord
		projections := model.Projections{}
		for i := 1; i <= 20; i++ {
			id := fmt.Sprintf("p%d", i)
			players = append(players, player(id, model.Positions[i%len(model.Positions)], intp(i)))
			if i%3 == 0 {
				projections[id] = model.ProjectionRecord{PlayerID: id, PtsPPR: f64(float64(100 + i))}
			} else if i%4 == 0 {
				projections[id] = model.ProjectionRecord{PlayerID: id, ADPPPR: f64(float64(i))}
			}
		}

		entries := ranking.Rank(model.Roster{Players: players}, projections)

		Convey("Then is_estimated should be true exactly when points were absent", func() {
			for _, e := range entries {
				proj, ok := projections[e.PlayerID]
				hasPoints := ok && proj.PtsPPR != nil
				So(e.IsEstimated, ShouldEqual, !hasPoints)
				So(e.ProjectedPoints, ShouldBeGreaterThan, 0)
			}
		})
	})

	Convey("Given a zero point projection", t, func() {
		roster := model.Roster{Players: []model.RosterRecord{player("z", model.K, intp(1))}}
		entries := ranking.Rank(roster, model.Projections{"z": {PlayerID: "z", PtsPPR: f64(0)}})

		Convey("Then it should be kept as a real projection", func() {
			So(entries[0].ProjectedPoints, ShouldEqual, 0)
			So(entries[0].IsEstimated, ShouldBeFalse)
		})
	})
}

type fixedEstimator struct{ calls []int }

func (f *fixedEstimator) Estimate(_ model.Position, tier int) float64 {
	f.calls = append(f.calls, tier)
	return 42.04
}

func TestRankWithEstimator(t *testing.T) {
	Convey("Given a ranker with a custom estimator", t, func() {
		est := &fixedEstimator{}
		r := ranking.New(ranking.WithEstimator(est))
		var players []model.RosterRecord
		for i := 1; i <= 13; i++ {
			players = append(players, player(fmt.Sprintf("qb%d", i), model.QB, intp(i)))
		}

		entries := r.Rank(model.Roster{Players: players}, nil)

		Convey("Then the estimator should receive position tiers", func() {
			So(len(est.calls), ShouldEqual, 13)
			So(est.calls[0], ShouldEqual, 1)
			So(est.calls[11], ShouldEqual, 1)
			So(est.calls[12], ShouldEqual, 2)
		})

		Convey("And estimated points should be rounded", func() {
			So(entries[0].ProjectedPoints, ShouldEqual, 42)
		})
	})

	Convey("Given a nil estimator option", t, func() {
		r := ranking.New(ranking.WithEstimator(nil))

		Convey("Then the default estimator should be kept", func() {
			entries := r.Rank(model.Roster{Players: []model.RosterRecord{player("a", model.RB, nil)}}, nil)
			So(entries[0].ProjectedPoints, ShouldEqual, 300)
		})
	})
}

func TestRankDeterminism(t *testing.T) {
	Convey("Given the same inputs ranked twice", t, func() {
		var players []model.RosterRecord
		projections := model.Projections{}
		for i := 0; i < 60; i++ {
			id := fmt.Sprintf("id%02d", i)
			players = append(players, player(id, model.Positions[i%len(model.Positions)], intp(100-i%7)))
			if i%2 == 0 {
				projections[id] = model.ProjectionRecord{PlayerID: id, ADPPPR: f64(float64(i % 5)), PtsPPR: f64(float64(i) * 1.55)}
			}
		}
		roster := model.Roster{Players: players}

		first, err := json.Marshal(ranking.Rank(roster, projections))
		So(err, ShouldBeNil)
		second, err := json.Marshal(ranking.Rank(roster, projections))
		So(err, ShouldBeNil)

		Convey("Then the encoded output should be byte-identical", func() {
			So(string(first), ShouldEqual, string(second))
		})
	})
}
