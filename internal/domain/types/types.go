// Package types contains common types used across the application
package types

import (
	"fmt"
	"slices"
)

// Season is the Games edition a record belongs to.
type Season string

// Known seasons.
const (
	SeasonSummer Season = "Summer"
	SeasonWinter Season = "Winter"
)

// ParseSeason validates a raw season value.
func ParseSeason(s string) (Season, error) {
	switch Season(s) {
	case SeasonSummer, SeasonWinter:
		return Season(s), nil
	}
	return "", fmt.Errorf("unknown season %q", s)
}

// Medal is the award attached to a record.
type Medal string

// Known medals. MedalNone marks a participation without a medal.
const (
	MedalGold   Medal = "Gold"
	MedalSilver Medal = "Silver"
	MedalBronze Medal = "Bronze"
	MedalNone   Medal = "None"
)

// ParseMedal validates a raw medal value. Empty and "NA" map to MedalNone.
func ParseMedal(s string) (Medal, error) {
	switch s {
	case "", "NA", string(MedalNone):
		return MedalNone, nil
	case string(MedalGold), string(MedalSilver), string(MedalBronze):
		return Medal(s), nil
	}
	return "", fmt.Errorf("unknown medal %q", s)
}

// Won reports whether the medal is an actual award.
func (m Medal) Won() bool {
	return m == MedalGold || m == MedalSilver || m == MedalBronze
}

// Record is one participation entry.
type Record struct {
	Season  Season `json:"season"`
	Sport   string `json:"sport"`
	Event   string `json:"event"`
	Country string `json:"noc"`
	Medal   Medal  `json:"medal"`
	Year    string `json:"year"`

	// Display-only columns, empty when the source does not carry them or
	// holds NA.
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Sex    string `json:"sex,omitempty"`
	Age    string `json:"age,omitempty"`
	Height string `json:"height,omitempty"`
	Weight string `json:"weight,omitempty"`
	Team   string `json:"team,omitempty"`
	Games  string `json:"games,omitempty"`
	City   string `json:"city,omitempty"`
}

// RecordSet is an immutable, ordered collection of records.
type RecordSet struct {
	records []Record
}

// NewRecordSet copies records into a new set.
func NewRecordSet(records []Record) RecordSet {
	return RecordSet{records: slices.Clone(records)}
}

// Len returns the number of records.
func (rs RecordSet) Len() int { return len(rs.records) }

// At returns the i-th record.
func (rs RecordSet) At(i int) Record { return rs.records[i] }

// Records returns a copy of the underlying records.
func (rs RecordSet) Records() []Record { return slices.Clone(rs.records) }

// Window returns a copy of records[offset:offset+limit], clamped to the set.
func (rs RecordSet) Window(offset, limit int) []Record {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rs.records) || limit <= 0 {
		return []Record{}
	}
	end := min(offset+limit, len(rs.records))
	return slices.Clone(rs.records[offset:end])
}

// Select returns a new set holding the records for which keep returns true,
// in their original order.
func (rs RecordSet) Select(keep func(Record) bool) RecordSet {
	out := make([]Record, 0, len(rs.records))
	for _, r := range rs.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return RecordSet{records: out}
}

// Same reports whether rs and o share the same backing records, i.e. come
// from the same load.
func (rs RecordSet) Same(o RecordSet) bool {
	if len(rs.records) != len(o.records) {
		return false
	}
	return len(rs.records) == 0 || &rs.records[0] == &o.records[0]
}
