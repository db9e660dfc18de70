// Package session keeps per-user browsing sessions: a snapshot of the record
// set taken when the session starts and the current filter selections.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/okian/olympicsnav/internal/domain/filter"
	"github.com/okian/olympicsnav/internal/domain/types"
)

const defaultCapacity = 1024

// Session is one browsing session. Options is bound to the session's record
// snapshot, so its lists never mix data from another load.
type Session struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	State     types.FilterState
	Options   *filter.Cache
}

// Records returns the record snapshot the session was created with.
func (s Session) Records() types.RecordSet { return s.Options.Records() }

// Cascading returns the cascading lists for the session's current state.
func (s Session) Cascading() filter.Cascading {
	return s.Options.Cascading(s.State.Season, s.State.Sport)
}

// Store is a bounded in-memory session store with least-recently-used
// eviction. Safe for concurrent use.
type Store struct {
	capacity  int
	now       func() time.Time
	onEvict   func(id string)
	cacheOpts []filter.Option

	mu       sync.Mutex
	sessions *simplelru.LRU[string, *Session]
}

// NewStore creates a Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		capacity: defaultCapacity,
		now:      time.Now,
		onEvict:  func(string) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	// NewLRU only fails for a non-positive size.
	s.sessions, _ = simplelru.NewLRU[string, *Session](s.capacity, nil)
	return s
}

// Create starts a session over records with the default state.
func (s *Store) Create(ctx context.Context, records types.RecordSet) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	now := s.now()
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		State:     types.DefaultState(),
		Options:   filter.NewCache(records, s.cacheOpts...),
	}

	var evicted string
	s.mu.Lock()
	if s.sessions.Len() >= s.capacity {
		evicted, _, _ = s.sessions.RemoveOldest()
	}
	s.sessions.Add(sess.ID, sess)
	s.mu.Unlock()

	if evicted != "" {
		s.onEvict(evicted)
	}
	return *sess, nil
}

// Get returns the session with id and marks it recently used.
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	if id == "" {
		return Session{}, ErrEmptyID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions.Get(id)
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return *sess, nil
}

// Update replaces the state of session id with fn's result. fn runs under the
// store lock and must not call back into the store.
func (s *Store) Update(ctx context.Context, id string, fn func(Session) (types.FilterState, error)) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	if id == "" {
		return Session{}, ErrEmptyID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions.Get(id)
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	state, err := fn(*sess)
	if err != nil {
		return Session{}, err
	}
	next := *sess
	next.State = state
	next.UpdatedAt = s.now()
	s.sessions.Add(id, &next)
	return next, nil
}

// Apply applies a partial selection change to session id and reconciles the
// downstream cascading selections against the session's records, so the
// stored state only ever holds offered choices.
func (s *Store) Apply(ctx context.Context, id string, change types.StateChange) (Session, error) {
	return s.Update(ctx, id, func(sess Session) (types.FilterState, error) {
		return sess.Options.Reconcile(change.ApplyTo(sess.State)), nil
	})
}

// Delete removes session id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sessions.Remove(id) {
		return ErrSessionNotFound
	}
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Len()
}

// Capacity returns the configured maximum number of sessions.
func (s *Store) Capacity() int {
	return s.capacity
}
