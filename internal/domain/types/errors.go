package types

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds for dataset problems. Both typed errors below match
// them with errors.Is.
var (
	ErrDataLoad      = errors.New("data load failed")
	ErrDataInvariant = errors.New("data invariant violated")
)

// ErrInvalidWindow reports a bad offset or limit on a record listing.
var ErrInvalidWindow = errors.New("invalid result window")

// DataLoadError reports a missing, unreadable or malformed source.
type DataLoadError struct {
	Path   string
	Line   int    // 1-based source line, 0 when not line specific
	Column string // offending column, empty when not column specific
	Err    error
}

func (e *DataLoadError) Error() string {
	var b strings.Builder
	b.WriteString("load ")
	if e.Path != "" {
		b.WriteString(e.Path)
	} else {
		b.WriteString("dataset")
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %q", e.Column)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// Is matches ErrDataLoad.
func (e *DataLoadError) Is(target error) bool { return target == ErrDataLoad }

// DataInvariantError reports a row whose content breaks a data invariant.
type DataInvariantError struct {
	Row    int // 0-based row index
	City   string
	Reason string
}

func (e *DataInvariantError) Error() string {
	return fmt.Sprintf("host row %d (%s): %s", e.Row, e.City, e.Reason)
}

// Is matches ErrDataInvariant.
func (e *DataInvariantError) Is(target error) bool { return target == ErrDataInvariant }
