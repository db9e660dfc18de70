// Package probe drives a running navigator over HTTP with randomized filter
// states and checks the filter engine's properties on what comes back.
package probe

import (
	"time"

	"github.com/okian/olympicsnav/internal/domain/types"
)

// Defaults for Config.
const (
	DefaultStates   = 200
	DefaultWorkers  = 8
	DefaultTimeout  = 30 * time.Second
	DefaultPageSize = 1000
)

// Config holds configuration for a probe run.
type Config struct {
	BaseURL  string        // Base URL of the service
	States   int           // Number of random filter states to check
	Workers  int           // Maximum concurrent checks
	Timeout  time.Duration // HTTP request timeout
	PageSize int           // Rows fetched per state for the row check
	Seed     uint64        // Seed for state generation; 0 picks one
}

func (c *Config) withDefaults() {
	if c.States <= 0 {
		c.States = DefaultStates
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
}

// Failure is one failed check.
type Failure struct {
	Check string            `json:"check"`
	State types.FilterState `json:"state"`
	Error string            `json:"error"`
}

// Report summarizes a probe run.
type Report struct {
	RunID    string        `json:"run_id"`
	Seed     uint64        `json:"seed"`
	States   int           `json:"states"`
	Checks   int           `json:"checks"`
	Passed   int           `json:"passed"`
	Failures []Failure     `json:"failures"`
	Duration time.Duration `json:"duration"`
}

// OK reports whether every check passed.
func (r Report) OK() bool { return len(r.Failures) == 0 }
