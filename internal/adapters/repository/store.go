// Package repository holds the latest ranked board in memory and answers
// lookups against it.
package repository

import (
	"context"

	"github.com/okian/draftrank/internal/domain/types"
)

// Store provides read/write access to the ranked board.
type Store interface {
	// Replace swaps in a new board. Entries must already be in rank order.
	Replace(ctx context.Context, board []types.Entry) error

	// Rank returns the entry for a player.
	// Returns ErrNotFound if the player is not on the board.
	Rank(ctx context.Context, playerID string) (types.Entry, error)

	// TopN returns the first n entries in rank order, optionally restricted
	// to one position. An empty position means all positions.
	TopN(ctx context.Context, n int, position string) ([]types.Entry, error)

	// All returns the whole board in rank order.
	All(ctx context.Context) []types.Entry

	// Count returns the number of players on the board.
	Count(ctx context.Context) int
}
