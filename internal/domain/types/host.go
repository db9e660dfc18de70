package types

// HostEntry is one Games instance from the host table. Summer and Winter are
// the nullable presence columns; nil means the cell was empty.
type HostEntry struct {
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Summer    *string `json:"summer"`
	Winter    *string `json:"winter"`
}

// Season derives the edition from the presence columns. Exactly one of them
// must be populated; row is only used to describe a violation.
func (h HostEntry) Season(row int) (Season, error) {
	switch {
	case h.Summer != nil && h.Winter != nil:
		return "", &DataInvariantError{Row: row, City: h.City, Reason: "both Summer and Winter populated"}
	case h.Summer != nil:
		return SeasonSummer, nil
	case h.Winter != nil:
		return SeasonWinter, nil
	}
	return "", &DataInvariantError{Row: row, City: h.City, Reason: "neither Summer nor Winter populated"}
}

// Edition returns the populated presence value, e.g. the year "2021".
func (h HostEntry) Edition() string {
	switch {
	case h.Summer != nil:
		return *h.Summer
	case h.Winter != nil:
		return *h.Winter
	}
	return ""
}
