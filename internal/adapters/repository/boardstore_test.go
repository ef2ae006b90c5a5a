package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/draftrank/internal/domain/types"
)

func board(positions ...string) []types.Entry {
	out := make([]types.Entry, len(positions))
	for i, pos := range positions {
		out[i] = types.Entry{
			PlayerID: fmt.Sprintf("p%d", i+1),
			Name:     fmt.Sprintf("Player %d", i+1),
			Position: pos,
			Team:     "FA",
			Rank:     i + 1,
			Tier:     (i + 12) / 12,
		}
	}
	return out
}

func TestBoardStore_Empty(t *testing.T) {
	ctx := context.Background()
	store := NewBoardStore()

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}
	if _, err := store.Rank(ctx, "p1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	entries, err := store.TopN(ctx, 10, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestBoardStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewBoardStore()

	if err := store.Replace(ctx, board("QB", "RB", "WR", "RB", "TE")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if count := store.Count(ctx); count != 5 {
		t.Errorf("expected count 5, got %d", count)
	}

	entry, err := store.Rank(ctx, "p4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 4 || entry.Position != "RB" {
		t.Errorf("unexpected entry %+v", entry)
	}

	top, err := store.TopN(ctx, 3, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 3 || top[0].PlayerID != "p1" || top[2].PlayerID != "p3" {
		t.Errorf("unexpected top 3: %+v", top)
	}

	// Limits beyond the board return everything.
	all, err := store.TopN(ctx, 100, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("expected 5 entries, got %d", len(all))
	}
}

func TestBoardStore_PositionFilter(t *testing.T) {
	ctx := context.Background()
	store := NewBoardStore()
	_ = store.Replace(ctx, board("QB", "RB", "WR", "RB", "TE", "RB"))

	rbs, err := store.TopN(ctx, 2, "RB")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rbs) != 2 || rbs[0].PlayerID != "p2" || rbs[1].PlayerID != "p4" {
		t.Errorf("unexpected RBs: %+v", rbs)
	}
	// Overall rank is kept, not re-numbered within the position.
	if rbs[1].Rank != 4 {
		t.Errorf("expected overall rank 4, got %d", rbs[1].Rank)
	}

	ks, err := store.TopN(ctx, 5, "K")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ks) != 0 {
		t.Errorf("expected no kickers, got %d", len(ks))
	}
}

func TestBoardStore_InvalidLimit(t *testing.T) {
	ctx := context.Background()
	store := NewBoardStore()

	for _, n := range []int{0, -1} {
		if _, err := store.TopN(ctx, n, ""); !errors.Is(err, ErrInvalidLimit) {
			t.Errorf("TopN(%d): expected ErrInvalidLimit, got %v", n, err)
		}
	}
}

func TestBoardStore_MaxLimit(t *testing.T) {
	ctx := context.Background()
	store := NewBoardStore(WithMaxLimit(2))
	_ = store.Replace(ctx, board("QB", "RB", "WR", "TE"))

	top, err := store.TopN(ctx, 10, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 2 {
		t.Errorf("expected clamp to 2, got %d", len(top))
	}
}

func TestBoardStore_ReplaceIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewBoardStore()
	input := board("QB", "RB")
	_ = store.Replace(ctx, input)

	// Mutating the caller's slice must not leak into the store.
	input[0].Name = "changed"
	got, _ := store.Rank(ctx, "p1")
	if got.Name != "Player 1" {
		t.Errorf("store aliased caller slice: %q", got.Name)
	}

	// Mutating a returned slice must not leak either.
	all := store.All(ctx)
	all[1].Name = "changed"
	got, _ = store.Rank(ctx, "p2")
	if got.Name != "Player 2" {
		t.Errorf("store aliased returned slice: %q", got.Name)
	}

	// A replacement fully supersedes the previous board.
	_ = store.Replace(ctx, board("K"))
	if _, err := store.Rank(ctx, "p2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected old entry gone, got %v", err)
	}
}

func TestBoardStore_ReplaceCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewBoardStore()

	if err := store.Replace(ctx, board("QB")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if store.Count(context.Background()) != 0 {
		t.Error("canceled replace should not change the board")
	}
}

func TestBoardStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewBoardStore()
	_ = store.Replace(ctx, board("QB", "RB", "WR"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = store.Replace(ctx, board("QB", "RB", "WR"))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				top, err := store.TopN(ctx, 3, "")
				if err != nil || len(top) != 3 {
					t.Errorf("torn read: %v %d", err, len(top))
					return
				}
			}
		}()
	}
	wg.Wait()
}
