package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotConfigured = errors.New("service not configured")
	ErrGenerate      = errors.New("generation failed")
	ErrNoBoard       = errors.New("no board generated yet")
)
