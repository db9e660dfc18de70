// Package filter derives option lists for the browse filters and applies a
// FilterState to a record set.
//
// Season -> Sport -> Event cascade: each list is computed from the records
// that survive the selections above it. Country, Medal and Year are
// independent and always computed from the whole set.
package filter

import (
	"slices"

	"github.com/okian/olympicsnav/internal/domain/types"
)

// Cascading holds the hierarchical option lists.
type Cascading struct {
	Seasons types.OptionList `json:"seasons"`
	Sports  types.OptionList `json:"sports"`
	Events  types.OptionList `json:"events"`
}

// Independent holds the option lists that never depend on other selections.
type Independent struct {
	Countries types.OptionList `json:"countries"`
	Medals    types.OptionList `json:"medals"`
	Years     types.OptionList `json:"years"`
}

// CascadingOptions returns the Season, Sport and Event lists for the given
// upstream selections.
func CascadingOptions(rs types.RecordSet, season, sport types.Selection) Cascading {
	return Cascading{
		Seasons: Seasons(rs),
		Sports:  Sports(rs, season),
		Events:  Events(rs, season, sport),
	}
}

// Seasons lists the seasons of the whole set.
func Seasons(rs types.RecordSet) types.OptionList {
	return distinct(rs, func(r types.Record) (string, bool) { return string(r.Season), true })
}

// Sports lists the sports among records matching season.
func Sports(rs types.RecordSet, season types.Selection) types.OptionList {
	return distinct(rs, func(r types.Record) (string, bool) {
		return r.Sport, season.Matches(string(r.Season))
	})
}

// Events lists the events among records matching season and sport.
func Events(rs types.RecordSet, season, sport types.Selection) types.OptionList {
	return distinct(rs, func(r types.Record) (string, bool) {
		return r.Event, season.Matches(string(r.Season)) && sport.Matches(r.Sport)
	})
}

// IndependentOptions returns the Country, Medal and Year lists over the whole
// set.
func IndependentOptions(rs types.RecordSet) Independent {
	return Independent{
		Countries: distinct(rs, func(r types.Record) (string, bool) { return r.Country, true }),
		Medals:    distinct(rs, func(r types.Record) (string, bool) { return string(r.Medal), true }),
		Years:     distinct(rs, func(r types.Record) (string, bool) { return r.Year, true }),
	}
}

// Apply keeps the records satisfying every selection of state, preserving
// their order. An empty result is not an error.
func Apply(rs types.RecordSet, state types.FilterState) types.RecordSet {
	return rs.Select(state.Matches)
}

// Reconcile resets downstream cascading selections that the upstream ones no
// longer offer: Sport against Season, then Event against Season and Sport.
func Reconcile(rs types.RecordSet, state types.FilterState) types.FilterState {
	if !state.Sport.IsAll() && !Sports(rs, state.Season).Contains(state.Sport) {
		state = state.WithSport(types.All())
	}
	if !state.Event.IsAll() && !Events(rs, state.Season, state.Sport).Contains(state.Event) {
		state = state.WithEvent(types.All())
	}
	return state
}

// distinct collects the sorted distinct keys of the records for which key
// reports true, and prefixes the unconstrained choice.
func distinct(rs types.RecordSet, key func(types.Record) (string, bool)) types.OptionList {
	seen := make(map[string]struct{})
	for i := range rs.Len() {
		if k, ok := key(rs.At(i)); ok {
			seen[k] = struct{}{}
		}
	}
	values := make([]string, 0, len(seen))
	for k := range seen {
		values = append(values, k)
	}
	slices.Sort(values)
	return types.NewOptionList(values)
}

// Options combines cascading and independent lists into one set.
func Options(c Cascading, i Independent) types.OptionSet {
	return types.OptionSet{
		Seasons:   c.Seasons,
		Sports:    c.Sports,
		Events:    c.Events,
		Countries: i.Countries,
		Medals:    i.Medals,
		Years:     i.Years,
	}
}
