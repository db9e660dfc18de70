package types

import (
	"encoding/json"
	"fmt"
)

// FilterState is the full set of selections for one view of the data. It is a
// value: the With* methods return modified copies.
type FilterState struct {
	Season    Selection      `json:"season"`
	Sport     Selection      `json:"sport"`
	Event     Selection      `json:"event"`
	Countries MultiSelection `json:"countries"`
	Medals    MultiSelection `json:"medals"`
	Year      Selection      `json:"year"`
}

// DefaultState constrains nothing.
func DefaultState() FilterState {
	return FilterState{
		Countries: AllOf(),
		Medals:    AllOf(),
	}
}

// WithSeason returns a copy with the season replaced.
func (s FilterState) WithSeason(v Selection) FilterState { s.Season = v; return s }

// WithSport returns a copy with the sport replaced.
func (s FilterState) WithSport(v Selection) FilterState { s.Sport = v; return s }

// WithEvent returns a copy with the event replaced.
func (s FilterState) WithEvent(v Selection) FilterState { s.Event = v; return s }

// WithCountries returns a copy with the country multi-select replaced.
func (s FilterState) WithCountries(v MultiSelection) FilterState { s.Countries = v; return s }

// WithMedals returns a copy with the medal multi-select replaced.
func (s FilterState) WithMedals(v MultiSelection) FilterState { s.Medals = v; return s }

// WithYear returns a copy with the year replaced.
func (s FilterState) WithYear(v Selection) FilterState { s.Year = v; return s }

// Matches reports whether r satisfies every selection.
func (s FilterState) Matches(r Record) bool {
	return s.Season.Matches(string(r.Season)) &&
		s.Sport.Matches(r.Sport) &&
		s.Event.Matches(r.Event) &&
		s.Countries.Matches(r.Country) &&
		s.Medals.Matches(string(r.Medal)) &&
		s.Year.Matches(r.Year)
}

// StateChange is a partial update of a FilterState. Nil fields are left as
// they are.
type StateChange struct {
	Season    *Selection
	Sport     *Selection
	Event     *Selection
	Countries *MultiSelection
	Medals    *MultiSelection
	Year      *Selection
}

// UnmarshalJSON treats a present key as a change even when its value is null,
// so {"sport": null} resets the sport to the unconstrained choice.
func (c *StateChange) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*c = StateChange{}
	single := map[string]**Selection{
		"season": &c.Season,
		"sport":  &c.Sport,
		"event":  &c.Event,
		"year":   &c.Year,
	}
	multi := map[string]**MultiSelection{
		"countries": &c.Countries,
		"medals":    &c.Medals,
	}
	for key, msg := range raw {
		switch {
		case single[key] != nil:
			var sel Selection
			if err := sel.UnmarshalJSON(msg); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*single[key] = &sel
		case multi[key] != nil:
			var sel MultiSelection
			if err := sel.UnmarshalJSON(msg); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*multi[key] = &sel
		default:
			return fmt.Errorf("unknown filter %q", key)
		}
	}
	return nil
}

// UpstreamChanged reports whether the change touches the Season or Sport,
// which invalidates the downstream cascading choices.
func (c StateChange) UpstreamChanged() bool {
	return c.Season != nil || c.Sport != nil
}

// ApplyTo returns s with the non-nil fields of c applied.
func (c StateChange) ApplyTo(s FilterState) FilterState {
	if c.Season != nil {
		s.Season = *c.Season
	}
	if c.Sport != nil {
		s.Sport = *c.Sport
	}
	if c.Event != nil {
		s.Event = *c.Event
	}
	if c.Countries != nil {
		s.Countries = *c.Countries
	}
	if c.Medals != nil {
		s.Medals = *c.Medals
	}
	if c.Year != nil {
		s.Year = *c.Year
	}
	return s
}
