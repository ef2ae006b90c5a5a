package sleeper

import "errors"

// Sentinel kinds for Sleeper adapter errors.
var (
	ErrRosterNotFound = errors.New("roster file not found")
	ErrRosterFormat   = errors.New("malformed roster file")
	ErrRejected       = errors.New("projection request rejected")
	ErrUpstream       = errors.New("projection source unavailable")
	ErrDecode         = errors.New("malformed projection response")
	ErrBreakerOpen    = errors.New("projection breaker open")
)
