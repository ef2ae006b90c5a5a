package api

import (
	"net/http"
	"strconv"
)

// defaultLimit applies when a list request omits limit.
const defaultLimit = 100

// parseLimit reads the limit query parameter. Values above maxLimit are
// capped; missing values fall back to defaultLimit.
func parseLimit(op string, r *http.Request, maxLimit int) (int, error) {
	raw := r.URL.Query().Get("limit")
	n := defaultLimit
	if raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return 0, NewKindf(op, ErrBadRequest, "limit must be a positive integer, got %q", raw)
		}
		n = v
	}
	if maxLimit > 0 && n > maxLimit {
		n = maxLimit
	}
	return n, nil
}
