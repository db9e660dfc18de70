package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/olympicsnav/internal/domain/types"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Column names of the medalist source.
const (
	colSeason = "Season"
	colSport  = "Sport"
	colEvent  = "Event"
	colNOC    = "NOC"
	colMedal  = "Medal"
	colYear   = "Year"
	colID     = "ID"
	colName   = "Name"
	colSex    = "Sex"
	colAge    = "Age"
	colHeight = "Height"
	colWeight = "Weight"
	colTeam   = "Team"
	colGames  = "Games"
	colCity   = "City"
)

// Column names of the host table.
const (
	colHostCity    = "City"
	colHostCountry = "Country"
	colLatitude    = "Latitude"
	colLongitude   = "Longitude"
	colSummer      = "Summer"
	colWinter      = "Winter"
)

var (
	recordColumns  = []string{colSeason, colSport, colEvent, colNOC, colMedal, colYear}
	displayColumns = []string{colID, colName, colSex, colAge, colHeight, colWeight, colTeam, colGames, colCity}
	hostColumns   = []string{colHostCity, colHostCountry, colLatitude, colLongitude, colSummer, colWinter}
)

// ReadOptions controls ReadRecords.
type ReadOptions struct {
	// Path is only used to describe errors.
	Path string
	// KeepNonMedal keeps rows without a medal. By default they are dropped so
	// that the engine only ever sees medal-won rows.
	KeepNonMedal bool
}

// ReadRecords parses a medalist CSV with a header row. A UTF-8 byte order
// mark is tolerated.
func ReadRecords(r io.Reader, opts ReadOptions) (types.RecordSet, error) {
	cr := newCSVReader(r)
	header, err := cr.Read()
	if err != nil {
		return types.RecordSet{}, loadErr(opts.Path, 1, "", headerErr(err))
	}
	idx, err := indexColumns(opts.Path, header, recordColumns)
	if err != nil {
		return types.RecordSet{}, err
	}
	// Resolved before the loop: the reader reuses the header's backing array
	// for every row.
	display := make(map[string]int, len(displayColumns))
	for _, name := range displayColumns {
		if i, ok := columnIndex(header, name); ok {
			display[name] = i
		}
	}
	optional := func(row []string, name string) string {
		i, ok := display[name]
		if !ok {
			return ""
		}
		if v := field(row, i); v != "NA" {
			return v
		}
		return ""
	}

	var out []types.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return types.RecordSet{}, loadErr(opts.Path, parseLine(err), "", err)
		}
		line, _ := cr.FieldPos(0)

		medal, err := types.ParseMedal(field(row, idx[colMedal]))
		if err != nil {
			return types.RecordSet{}, loadErr(opts.Path, line, colMedal, fmt.Errorf("%w: %w", ErrMalformedRow, err))
		}
		if !medal.Won() && !opts.KeepNonMedal {
			continue
		}
		season, err := types.ParseSeason(field(row, idx[colSeason]))
		if err != nil {
			return types.RecordSet{}, loadErr(opts.Path, line, colSeason, fmt.Errorf("%w: %w", ErrMalformedRow, err))
		}
		year, err := normalizeYear(field(row, idx[colYear]))
		if err != nil {
			return types.RecordSet{}, loadErr(opts.Path, line, colYear, fmt.Errorf("%w: %w", ErrMalformedRow, err))
		}

		out = append(out, types.Record{
			Season:  season,
			Sport:   field(row, idx[colSport]),
			Event:   field(row, idx[colEvent]),
			Country: field(row, idx[colNOC]),
			Medal:   medal,
			Year:    year,
			ID:      optional(row, colID),
			Name:    optional(row, colName),
			Sex:     optional(row, colSex),
			Age:     optional(row, colAge),
			Height:  optional(row, colHeight),
			Weight:  optional(row, colWeight),
			Team:    optional(row, colTeam),
			Games:   optional(row, colGames),
			City:    optional(row, colCity),
		})
	}
	return types.NewRecordSet(out), nil
}

// ReadHosts parses the host table CSV. Summer and Winter cells that are empty
// or "NA" are treated as absent; the Summer/Winter invariant itself is checked
// by whoever derives the season.
func ReadHosts(r io.Reader, path string) ([]types.HostEntry, error) {
	cr := newCSVReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, loadErr(path, 1, "", headerErr(err))
	}
	idx, err := indexColumns(path, header, hostColumns)
	if err != nil {
		return nil, err
	}

	var out []types.HostEntry
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, loadErr(path, parseLine(err), "", err)
		}
		line, _ := cr.FieldPos(0)

		lat, err := strconv.ParseFloat(field(row, idx[colLatitude]), 64)
		if err != nil {
			return nil, loadErr(path, line, colLatitude, fmt.Errorf("%w: %w", ErrMalformedRow, err))
		}
		lng, err := strconv.ParseFloat(field(row, idx[colLongitude]), 64)
		if err != nil {
			return nil, loadErr(path, line, colLongitude, fmt.Errorf("%w: %w", ErrMalformedRow, err))
		}

		out = append(out, types.HostEntry{
			City:      field(row, idx[colHostCity]),
			Country:   field(row, idx[colHostCountry]),
			Latitude:  lat,
			Longitude: lng,
			Summer:    nullable(field(row, idx[colSummer])),
			Winter:    nullable(field(row, idx[colWinter])),
		})
	}
	return out, nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	cr.ReuseRecord = true
	return cr
}

func headerErr(err error) error {
	if errors.Is(err, io.EOF) {
		return errors.New("empty file")
	}
	return err
}

func parseLine(err error) int {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.Line
	}
	return 0
}

func columnIndex(header []string, name string) (int, bool) {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i, true
		}
	}
	return 0, false
}

func indexColumns(path string, header, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(required))
	for _, name := range required {
		i, ok := columnIndex(header, name)
		if !ok {
			return nil, loadErr(path, 1, name, ErrMissingColumn)
		}
		idx[name] = i
	}
	return idx, nil
}

func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func nullable(s string) *string {
	switch s {
	case "", "NA", "NaN", "nan":
		return nil
	}
	if y, err := normalizeYear(s); err == nil {
		s = y
	}
	return &s
}

// normalizeYear accepts "2016" and the float rendering "2016.0".
func normalizeYear(s string) (string, error) {
	s = strings.TrimSuffix(s, ".0")
	if len(s) != 4 {
		return "", fmt.Errorf("year %q is not 4 digits", s)
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("year %q is not numeric", s)
		}
	}
	return s, nil
}

func loadErr(path string, line int, column string, err error) error {
	return &types.DataLoadError{Path: path, Line: line, Column: column, Err: err}
}
