package api

import (
	"context"
	"net/http"
)

// VBDDependencies defines the interface for value-based drafting queries.
type VBDDependencies interface {
	VBD(ctx context.Context, limit int) ([]VBDEntry, error)
}

// VBDHandler handles value board requests.
type VBDHandler struct {
	deps     VBDDependencies
	maxLimit int
}

// NewVBDHandler creates a new VBD handler.
func NewVBDHandler(deps VBDDependencies, maxLimit int) *VBDHandler {
	return &VBDHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetVBD handles GET /vbd?limit=N requests.
func (h *VBDHandler) HandleGetVBD(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_vbd"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n, err := parseLimit(op, r, h.maxLimit)
	if err != nil {
		writeFailure(w, err)
		return
	}
	entries, err := h.deps.VBD(r.Context(), n)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
