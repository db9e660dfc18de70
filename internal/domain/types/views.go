package types

import "time"

// OptionSet is every option list for one state: the cascading lists for its
// Season and Sport plus the independent lists.
type OptionSet struct {
	Seasons   OptionList `json:"seasons"`
	Sports    OptionList `json:"sports"`
	Events    OptionList `json:"events"`
	Countries OptionList `json:"countries"`
	Medals    OptionList `json:"medals"`
	Years     OptionList `json:"years"`
}

// ResultPage is one window of a filtered record set.
type ResultPage struct {
	Total   int      `json:"total"`
	Offset  int      `json:"offset"`
	Limit   int      `json:"limit"`
	Records []Record `json:"records"`
}

// SessionView is the read shape of a browsing session.
type SessionView struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	State     FilterState `json:"state"`
	Options   OptionSet   `json:"options"`
	Total     int         `json:"total"`
}
