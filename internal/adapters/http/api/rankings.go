package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/draftrank/internal/domain/model"
)

// RankingsDependencies defines the interface for board list operations.
type RankingsDependencies interface {
	TopN(ctx context.Context, n int, position string) ([]Entry, error)
}

// RankingsHandler handles board list requests.
type RankingsHandler struct {
	deps     RankingsDependencies
	maxLimit int
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps RankingsDependencies, maxLimit int) *RankingsHandler {
	return &RankingsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetRankings handles GET /rankings?limit=N&position=P requests.
func (h *RankingsHandler) HandleGetRankings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rankings"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n, err := parseLimit(op, r, h.maxLimit)
	if err != nil {
		writeFailure(w, err)
		return
	}
	position := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("position")))
	if position != "" && !model.Position(position).Valid() {
		writeFailure(w, NewKindf(op, ErrBadRequest, "unknown position %q", position))
		return
	}
	entries, err := h.deps.TopN(r.Context(), n, position)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
