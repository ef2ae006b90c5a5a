package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/draftrank/internal/domain/types"
	"github.com/okian/draftrank/pkg/metrics"
)

// snapshot is an immutable view of one board. It is built outside the lock
// and swapped in whole, so readers never see a half-replaced board.
type snapshot struct {
	entries    []types.Entry
	byID       map[string]int   // player id -> index into entries
	byPosition map[string][]int // position -> indexes in rank order
}

func newSnapshot(board []types.Entry) *snapshot {
	s := &snapshot{
		entries:    make([]types.Entry, len(board)),
		byID:       make(map[string]int, len(board)),
		byPosition: make(map[string][]int),
	}
	copy(s.entries, board)
	for i, e := range s.entries {
		s.byID[e.PlayerID] = i
		s.byPosition[e.Position] = append(s.byPosition[e.Position], i)
	}
	return s
}

// BoardStore is an in-memory Store safe for concurrent use.
type BoardStore struct {
	mu       sync.RWMutex
	current  *snapshot
	maxLimit int
}

var _ Store = (*BoardStore)(nil)

// NewBoardStore constructs an empty board store.
func NewBoardStore(opts ...Option) *BoardStore {
	s := &BoardStore{current: newSnapshot(nil)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Replace implements Store.Replace.
func (s *BoardStore) Replace(ctx context.Context, board []types.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	next := newSnapshot(board)

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	metrics.UpdateBoardSize(len(next.entries))
	return nil
}

func (s *BoardStore) load() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Rank implements Store.Rank.
func (s *BoardStore) Rank(_ context.Context, playerID string) (types.Entry, error) {
	start := time.Now()
	defer func() { metrics.RecordBoardQuery("rank", time.Since(start)) }()

	snap := s.load()
	i, ok := snap.byID[playerID]
	if !ok {
		return types.Entry{}, ErrNotFound
	}
	return snap.entries[i], nil
}

// TopN implements Store.TopN.
func (s *BoardStore) TopN(_ context.Context, n int, position string) ([]types.Entry, error) {
	start := time.Now()
	defer func() { metrics.RecordBoardQuery("top_n", time.Since(start)) }()

	if n < 1 {
		return nil, ErrInvalidLimit
	}
	if s.maxLimit > 0 && n > s.maxLimit {
		n = s.maxLimit
	}

	snap := s.load()
	if position == "" {
		n = min(n, len(snap.entries))
		out := make([]types.Entry, n)
		copy(out, snap.entries[:n])
		return out, nil
	}

	idx := snap.byPosition[position]
	n = min(n, len(idx))
	out := make([]types.Entry, 0, n)
	for _, i := range idx[:n] {
		out = append(out, snap.entries[i])
	}
	return out, nil
}

// All implements Store.All.
func (s *BoardStore) All(_ context.Context) []types.Entry {
	snap := s.load()
	out := make([]types.Entry, len(snap.entries))
	copy(out, snap.entries)
	return out
}

// Count implements Store.Count.
func (s *BoardStore) Count(_ context.Context) int {
	return len(s.load().entries)
}
