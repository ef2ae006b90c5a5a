package sleeper

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/okian/draftrank/internal/domain/model"
)

// RosterFile loads the player database written by the roster update job:
//
//	{"season": "2025", "players": {"<id>": {...}, ...}}
//
// Players are returned in file order.
type RosterFile struct {
	Path string
}

// NewRosterFile returns a loader for path.
func NewRosterFile(path string) *RosterFile {
	return &RosterFile{Path: path}
}

// Load reads and decodes the roster file.
func (r *RosterFile) Load(ctx context.Context) (model.Roster, error) {
	if err := ctx.Err(); err != nil {
		return model.Roster{}, err
	}
	f, err := os.Open(r.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Roster{}, fmt.Errorf("%w: %s", ErrRosterNotFound, r.Path)
	}
	if err != nil {
		return model.Roster{}, fmt.Errorf("open roster %s: %w", r.Path, err)
	}
	defer func() { _ = f.Close() }()

	roster, err := DecodeRoster(bufio.NewReader(f))
	if err != nil {
		return model.Roster{}, fmt.Errorf("%s: %w", r.Path, err)
	}
	return roster, nil
}

type rosterPlayer struct {
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	FullName   string  `json:"full_name"`
	Position   string  `json:"position"`
	Team       *string `json:"team"`
	Active     bool    `json:"active"`
	SearchRank *int    `json:"search_rank"`
}

// DecodeRoster decodes a player database document. The players object is
// walked token by token so its key order becomes roster order.
func DecodeRoster(rd io.Reader) (model.Roster, error) {
	dec := json.NewDecoder(rd)
	var roster model.Roster

	if err := expectDelim(dec, '{'); err != nil {
		return roster, err
	}
	for dec.More() {
		key, err := nextKey(dec)
		if err != nil {
			return roster, err
		}
		switch key {
		case "season":
			var v any
			if err := dec.Decode(&v); err != nil {
				return roster, fmt.Errorf("%w: season: %w", ErrRosterFormat, err)
			}
			roster.Season = seasonString(v)
		case "players":
			players, err := decodePlayers(dec)
			if err != nil {
				return roster, err
			}
			roster.Players = players
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return roster, fmt.Errorf("%w: %s: %w", ErrRosterFormat, key, err)
			}
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return roster, err
	}
	return roster, nil
}

func decodePlayers(dec *json.Decoder) ([]model.RosterRecord, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: players: %w", ErrRosterFormat, err)
	}
	if tok == nil {
		return nil, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: players must be an object", ErrRosterFormat)
	}

	var out []model.RosterRecord
	for dec.More() {
		id, err := nextKey(dec)
		if err != nil {
			return nil, err
		}
		var p rosterPlayer
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("%w: player %s: %w", ErrRosterFormat, id, err)
		}
		rec := model.RosterRecord{
			PlayerID:   id,
			FirstName:  p.FirstName,
			LastName:   p.LastName,
			FullName:   p.FullName,
			Position:   model.Position(p.Position),
			Active:     p.Active,
			SearchRank: p.SearchRank,
		}
		if p.Team != nil {
			rec.Team = *p.Team
		}
		out = append(out, rec)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return out, nil
}

func nextKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRosterFormat, err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected object key, got %v", ErrRosterFormat, tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRosterFormat, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: expected %q, got %v", ErrRosterFormat, want, tok)
	}
	return nil
}

// seasonString accepts the season as a string or a number.
func seasonString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.Itoa(int(s))
	default:
		return ""
	}
}
