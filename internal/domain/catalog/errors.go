package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrPageNotFound = errors.New("page not found")
	ErrInvalidPage  = errors.New("invalid page")
)
