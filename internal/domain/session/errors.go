package session

import "errors"

// Sentinel kinds for session errors.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyID         = errors.New("empty session id")
)
