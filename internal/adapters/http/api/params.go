package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/olympicsnav/internal/domain/types"
)

// Query parameter names.
const (
	paramSeason  = "season"
	paramSport   = "sport"
	paramEvent   = "event"
	paramCountry = "country"
	paramMedal   = "medal"
	paramYear    = "year"
	paramLimit   = "limit"
	paramOffset  = "offset"
)

// selectionParam reads a single-select parameter. Absent, empty, and "*" all
// mean unconstrained.
func selectionParam(q url.Values, key string) (types.Selection, error) {
	vals := q[key]
	switch len(vals) {
	case 0:
		return types.All(), nil
	case 1:
		return types.ParseSelection(vals[0]), nil
	default:
		return types.Selection{}, fmt.Errorf("%w: %s given %d times", ErrBadRequest, key, len(vals))
	}
}

// multiParam reads a repeated multi-select parameter.
func multiParam(q url.Values, key string) types.MultiSelection {
	return types.ParseMulti(q[key])
}

func intParam(q url.Values, key string) (int, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, key)
	}
	return n, nil
}

// stateParams builds a FilterState from the query string.
func stateParams(q url.Values) (types.FilterState, error) {
	var sel [4]types.Selection
	for i, key := range []string{paramSeason, paramSport, paramEvent, paramYear} {
		s, err := selectionParam(q, key)
		if err != nil {
			return types.FilterState{}, err
		}
		sel[i] = s
	}
	return types.DefaultState().
		WithSeason(sel[0]).
		WithSport(sel[1]).
		WithEvent(sel[2]).
		WithYear(sel[3]).
		WithCountries(multiParam(q, paramCountry)).
		WithMedals(multiParam(q, paramMedal)), nil
}

// windowParams reads offset and limit. Range checks are left to the service.
func windowParams(q url.Values) (offset, limit int, err error) {
	if offset, err = intParam(q, paramOffset); err != nil {
		return 0, 0, err
	}
	if limit, err = intParam(q, paramLimit); err != nil {
		return 0, 0, err
	}
	return offset, limit, nil
}
