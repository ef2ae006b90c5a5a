// Package model contains domain models passed between layers.
package model

import "strings"

// Position is a fantasy roster position.
type Position string

// Recognized positions. Anything else is dropped before ranking.
const (
	QB  Position = "QB"
	RB  Position = "RB"
	WR  Position = "WR"
	TE  Position = "TE"
	K   Position = "K"
	DEF Position = "DEF"
)

// Positions lists the recognized positions in display order.
var Positions = []Position{QB, RB, WR, TE, K, DEF}

// Valid reports whether p is one of the recognized positions.
func (p Position) Valid() bool {
	switch p {
	case QB, RB, WR, TE, K, DEF:
		return true
	}
	return false
}

const (
	// FreeAgentTeam is used when a roster record carries no team.
	FreeAgentTeam = "FA"
	unknownName   = "Unknown"
)

// RosterRecord is one player from the player database.
// Optional fields are pointers so that "absent" and "zero" stay distinct.
type RosterRecord struct {
	PlayerID   string
	FirstName  string
	LastName   string
	FullName   string
	Position   Position
	Team       string // empty when the player has no team
	Active     bool
	SearchRank *int // fallback rank, nil when unranked
}

// DisplayName joins first and last name, falling back to the full name.
func (r RosterRecord) DisplayName() string {
	if name := strings.TrimSpace(r.FirstName + " " + r.LastName); name != "" {
		return name
	}
	if r.FullName != "" {
		return r.FullName
	}
	return unknownName
}

// TeamOrFreeAgent returns the team abbreviation or FA.
func (r RosterRecord) TeamOrFreeAgent() string {
	if r.Team == "" {
		return FreeAgentTeam
	}
	return r.Team
}

// Roster is the player database in source order. Order matters: it breaks
// ties between players with the same ordering key.
type Roster struct {
	Season  string
	Players []RosterRecord
}

// ProjectionRecord holds the season projection for one player.
type ProjectionRecord struct {
	PlayerID string
	PtsPPR   *float64
	ADPPPR   *float64
}

// Projections maps player id to projection. May be empty.
type Projections map[string]ProjectionRecord
