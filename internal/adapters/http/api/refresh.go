package api

import (
	"context"
	"net/http"
)

// RefreshDependencies triggers a board generation.
type RefreshDependencies interface {
	Generate(ctx context.Context) (Report, error)
}

// RefreshHandler handles on-demand generation requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandleRefresh handles POST /refresh requests. The response carries the
// run report; a failed run answers 500 with the error.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.refresh"
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	report, err := h.deps.Generate(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "generate_failed", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}
