package types

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
)

// AllLabel is how the unconstrained choice is shown to users.
const AllLabel = "All"

// Wildcard is the textual form of the unconstrained choice in query strings
// and command-line flags.
const Wildcard = "*"

// ParseSelection reads a textual single-select value. Blank and Wildcard are
// unconstrained.
func ParseSelection(v string) Selection {
	v = strings.TrimSpace(v)
	if v == "" || v == Wildcard {
		return All()
	}
	return Only(v)
}

// ParseMulti reads repeated textual multi-select values. Wildcard among them
// adds the unconstrained choice; blank values are ignored, and no specific
// value at all is unconstrained.
func ParseMulti(vals []string) MultiSelection {
	all := false
	picked := make([]string, 0, len(vals))
	for _, v := range vals {
		switch v = strings.TrimSpace(v); v {
		case "":
		case Wildcard:
			all = true
		default:
			picked = append(picked, v)
		}
	}
	if len(picked) == 0 {
		return AllOf()
	}
	m := AnyOf(picked...)
	if all {
		m = m.WithAll()
	}
	return m
}

// Selection is a single-select filter choice: either unconstrained or a
// specific value. The zero value is unconstrained.
type Selection struct {
	value string
	set   bool
}

// All returns the unconstrained selection.
func All() Selection { return Selection{} }

// Only returns a selection constrained to v.
func Only(v string) Selection { return Selection{value: v, set: true} }

// IsAll reports whether the selection is unconstrained.
func (s Selection) IsAll() bool { return !s.set }

// Value returns the selected value and whether one is set.
func (s Selection) Value() (string, bool) { return s.value, s.set }

// Matches reports whether v satisfies the selection.
func (s Selection) Matches(v string) bool { return !s.set || s.value == v }

// Label returns the display text of the choice.
func (s Selection) Label() string {
	if !s.set {
		return AllLabel
	}
	return s.value
}

// String implements fmt.Stringer.
func (s Selection) String() string { return s.Label() }

// MarshalJSON encodes the unconstrained choice as null.
func (s Selection) MarshalJSON() ([]byte, error) {
	if !s.set {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON decodes null as the unconstrained choice.
func (s *Selection) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*s = All()
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = Only(v)
	return nil
}

// MultiSelection is a multi-select filter choice. The unconstrained choice may
// be picked alongside specific values; when it is, it dominates and the
// selection matches everything.
type MultiSelection struct {
	all    bool
	values []string
}

// AllOf returns the default multi-select: only the unconstrained choice.
func AllOf() MultiSelection { return MultiSelection{all: true} }

// AnyOf returns a multi-select of the given specific values.
func AnyOf(values ...string) MultiSelection {
	return MultiSelection{values: dedupe(values)}
}

// WithAll returns a copy that also includes the unconstrained choice.
func (m MultiSelection) WithAll() MultiSelection {
	return MultiSelection{all: true, values: slices.Clone(m.values)}
}

// IncludesAll reports whether the unconstrained choice is selected.
func (m MultiSelection) IncludesAll() bool { return m.all }

// Values returns a copy of the specific values selected.
func (m MultiSelection) Values() []string { return slices.Clone(m.values) }

// IsEmpty reports whether nothing at all is selected.
func (m MultiSelection) IsEmpty() bool { return !m.all && len(m.values) == 0 }

// Matches reports whether v satisfies the selection.
func (m MultiSelection) Matches(v string) bool {
	if m.all {
		return true
	}
	return slices.Contains(m.values, v)
}

type multiSelectionJSON struct {
	All    bool     `json:"all"`
	Values []string `json:"values"`
}

// MarshalJSON encodes the selection as {"all": bool, "values": [...]}.
func (m MultiSelection) MarshalJSON() ([]byte, error) {
	vals := m.values
	if vals == nil {
		vals = []string{}
	}
	return json.Marshal(multiSelectionJSON{All: m.all, Values: vals})
}

// UnmarshalJSON decodes {"all": bool, "values": [...]}. A null decodes as
// the default multi-select.
func (m *MultiSelection) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*m = AllOf()
		return nil
	}
	var raw multiSelectionJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*m = MultiSelection{all: raw.All, values: dedupe(raw.Values)}
	return nil
}

// dedupe drops repeated values, keeping first occurrences in order.
func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// OptionList is the list of choices offered for one filter. The first element
// is always the unconstrained choice.
type OptionList []Selection

// NewOptionList builds a list from already sorted, distinct values.
func NewOptionList(sorted []string) OptionList {
	out := make(OptionList, 0, len(sorted)+1)
	out = append(out, All())
	for _, v := range sorted {
		out = append(out, Only(v))
	}
	return out
}

// Values returns the specific values, without the unconstrained choice.
func (o OptionList) Values() []string {
	out := make([]string, 0, len(o))
	for _, s := range o {
		if v, ok := s.Value(); ok {
			out = append(out, v)
		}
	}
	return out
}

// Labels returns the display labels, "All" first.
func (o OptionList) Labels() []string {
	out := make([]string, len(o))
	for i, s := range o {
		out[i] = s.Label()
	}
	return out
}

// Contains reports whether s is one of the offered choices.
func (o OptionList) Contains(s Selection) bool {
	return slices.Contains(o, s)
}
