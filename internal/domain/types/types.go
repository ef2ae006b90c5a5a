// Package types contains common types used across the application
package types

// Entry is one row of the ranked draft board. Field names are the wire
// contract of the rankings artifact.
type Entry struct {
	PlayerID        string   `json:"player_id"`
	Name            string   `json:"name"`
	Position        string   `json:"position"`
	Team            string   `json:"team"`
	Rank            int      `json:"rank"`
	Tier            int      `json:"tier"`
	ProjectedPoints float64  `json:"projected_points"`
	ADP             *float64 `json:"adp"` // null when above the display ceiling
	IsEstimated     bool     `json:"is_estimated"`
}

// VBDEntry is a board row annotated with value-based-drafting figures.
type VBDEntry struct {
	Entry
	PositionRank       int     `json:"position_rank"`
	BaselinePoints     float64 `json:"baseline_points"`
	ScarcityMultiplier float64 `json:"scarcity_multiplier"`
	VBDValue           float64 `json:"vbd_value"`
}
