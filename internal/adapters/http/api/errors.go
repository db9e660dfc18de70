package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/olympicsnav/internal/domain/catalog"
	"github.com/okian/olympicsnav/internal/domain/session"
	"github.com/okian/olympicsnav/internal/domain/types"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrRateLimited      = errors.New("rate limited")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// Error is a request failure tagged with the operation that produced it and
// a sentinel kind used for status mapping.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	case e.Kind == nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	}
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewKind returns an error of the given kind with no further cause.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// WrapKind tags err with op and kind.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// Wrap tags err with op, keeping whatever kind it already carries.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// classify maps an error to an HTTP status and a stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, types.ErrInvalidWindow):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, session.ErrEmptyID):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, catalog.ErrPageNotFound):
		return http.StatusNotFound, "page_not_found"
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, "method_not_allowed"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, types.ErrDataLoad):
		return http.StatusServiceUnavailable, "data_unavailable"
	case errors.Is(err, types.ErrDataInvariant):
		return http.StatusInternalServerError, "data_invariant"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
