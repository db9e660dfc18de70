package probe

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/olympicsnav/internal/domain/types"
)

// Check names.
const (
	CheckRows      = "rows_match_state"
	CheckNarrowing = "narrowing_never_grows"
	CheckDominance = "all_dominates_multi_select"
)

var errCheck = errors.New("check failed")

// recordSource is the part of Client the checks need.
type recordSource interface {
	Records(ctx context.Context, state types.FilterState, offset, limit int) (types.ResultPage, error)
}

// checkRows verifies every returned row satisfies state and that the page
// is consistent with its own total.
func checkRows(ctx context.Context, src recordSource, state types.FilterState, pageSize int) (types.ResultPage, error) {
	page, err := src.Records(ctx, state, 0, pageSize)
	if err != nil {
		return page, err
	}
	if len(page.Records) > page.Total {
		return page, fmt.Errorf("%w: %d rows returned for a total of %d", errCheck, len(page.Records), page.Total)
	}
	if page.Total > 0 && len(page.Records) == 0 {
		return page, fmt.Errorf("%w: total %d but no rows returned", errCheck, page.Total)
	}
	for i, r := range page.Records {
		if !state.Matches(r) {
			return page, fmt.Errorf("%w: row %d (%s %s %s %s %s %s) does not match",
				errCheck, i, r.Season, r.Sport, r.Event, r.Country, r.Medal, r.Year)
		}
	}
	return page, nil
}

// narrow returns a strictly narrower state built from a row of page, or
// false when nothing can be narrowed.
func narrow(state types.FilterState, page types.ResultPage) (types.FilterState, bool) {
	if len(page.Records) == 0 {
		return state, false
	}
	r := page.Records[0]
	switch {
	case state.Year.IsAll():
		return state.WithYear(types.Only(r.Year)), true
	case state.Medals.IncludesAll():
		return state.WithMedals(types.AnyOf(string(r.Medal))), true
	case state.Countries.IncludesAll():
		return state.WithCountries(types.AnyOf(r.Country)), true
	case state.Sport.IsAll():
		return state.WithSport(types.Only(r.Sport)), true
	}
	return state, false
}

// checkNarrowing verifies that adding a constraint never increases the total.
func checkNarrowing(ctx context.Context, src recordSource, state types.FilterState, page types.ResultPage) error {
	narrower, ok := narrow(state, page)
	if !ok {
		return nil
	}
	got, err := src.Records(ctx, narrower, 0, 1)
	if err != nil {
		return err
	}
	if got.Total > page.Total {
		return fmt.Errorf("%w: narrowed total %d exceeds %d", errCheck, got.Total, page.Total)
	}
	if got.Total == 0 {
		return fmt.Errorf("%w: narrowing to a returned row matched nothing", errCheck)
	}
	return nil
}

// checkDominance verifies that All alongside specific countries behaves
// exactly like All.
func checkDominance(ctx context.Context, src recordSource, state types.FilterState, page types.ResultPage) error {
	if len(page.Records) == 0 || !state.Countries.IncludesAll() || len(state.Countries.Values()) > 0 {
		return nil
	}
	mixed := state.WithCountries(types.AnyOf(page.Records[0].Country).WithAll())
	got, err := src.Records(ctx, mixed, 0, 1)
	if err != nil {
		return err
	}
	if got.Total != page.Total {
		return fmt.Errorf("%w: All plus %s gave %d, All alone gave %d",
			errCheck, page.Records[0].Country, got.Total, page.Total)
	}
	return nil
}
