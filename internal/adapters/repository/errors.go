package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrMissingColumn = errors.New("missing required column")
	ErrMalformedRow  = errors.New("malformed row")
	ErrNoPath        = errors.New("no path configured")
)
