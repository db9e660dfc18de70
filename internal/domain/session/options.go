package session

import (
	"time"

	"github.com/okian/olympicsnav/internal/domain/filter"
)

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithCapacity sets the maximum number of live sessions. The least recently
// used session is evicted when a new one would exceed it. Values <= 0 keep
// the default.
func WithCapacity(capacity int) Option {
	return func(s *Store) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithEvictHook registers a callback invoked with the id of every session
// dropped to make room.
func WithEvictHook(fn func(id string)) Option {
	return func(s *Store) {
		if fn != nil {
			s.onEvict = fn
		}
	}
}

// WithCacheOptions passes options to the option cache of every new session.
func WithCacheOptions(opts ...filter.Option) Option {
	return func(s *Store) {
		s.cacheOpts = append(s.cacheOpts, opts...)
	}
}
