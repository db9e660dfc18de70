package filter

import (
	"sync"

	"github.com/okian/olympicsnav/internal/domain/types"
)

// Option applies a configuration option to the Cache.
type Option func(*Cache)

// WithLookupHook registers a callback invoked on every cached lookup with the
// list name ("sports", "events") and whether it was served from the cache.
func WithLookupHook(fn func(list string, hit bool)) Option {
	return func(c *Cache) {
		if fn != nil {
			c.onLookup = fn
		}
	}
}

type eventKey struct {
	season types.Selection
	sport  types.Selection
}

// Cache memoizes option lists for one record set. Sport lists are keyed by
// the Season selection and Event lists by (Season, Sport), so a changed
// upstream selection always reaches a different entry. Safe for concurrent use.
type Cache struct {
	rs       types.RecordSet
	onLookup func(list string, hit bool)

	once        sync.Once
	seasons     types.OptionList
	independent Independent

	mu     sync.RWMutex
	sports map[types.Selection]types.OptionList
	events map[eventKey]types.OptionList
}

// NewCache creates a cache over rs.
func NewCache(rs types.RecordSet, opts ...Option) *Cache {
	c := &Cache{
		rs:       rs,
		onLookup: func(string, bool) {},
		sports:   make(map[types.Selection]types.OptionList),
		events:   make(map[eventKey]types.OptionList),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Records returns the record set the cache was built over.
func (c *Cache) Records() types.RecordSet { return c.rs }

func (c *Cache) init() {
	c.once.Do(func() {
		c.seasons = Seasons(c.rs)
		c.independent = IndependentOptions(c.rs)
	})
}

// Cascading returns the cascading lists for the given upstream selections.
func (c *Cache) Cascading(season, sport types.Selection) Cascading {
	c.init()
	return Cascading{
		Seasons: c.seasons,
		Sports:  c.Sports(season),
		Events:  c.Events(season, sport),
	}
}

// Independent returns the independent lists.
func (c *Cache) Independent() Independent {
	c.init()
	return c.independent
}

// Sports returns the Sport list for season. Only offered seasons are
// memoized; any other selection is computed on each call.
func (c *Cache) Sports(season types.Selection) types.OptionList {
	c.mu.RLock()
	list, ok := c.sports[season]
	c.mu.RUnlock()
	c.onLookup("sports", ok)
	if ok {
		return list
	}
	list = Sports(c.rs, season)
	if c.offeredSeason(season) {
		c.mu.Lock()
		c.sports[season] = list
		c.mu.Unlock()
	}
	return list
}

// Events returns the Event list for season and sport. Only pairs of an
// offered season and a sport offered for it are memoized.
func (c *Cache) Events(season, sport types.Selection) types.OptionList {
	key := eventKey{season: season, sport: sport}
	c.mu.RLock()
	list, ok := c.events[key]
	c.mu.RUnlock()
	c.onLookup("events", ok)
	if ok {
		return list
	}
	list = Events(c.rs, season, sport)
	if c.offeredPair(season, sport) {
		c.mu.Lock()
		c.events[key] = list
		c.mu.Unlock()
	}
	return list
}

func (c *Cache) offeredSeason(season types.Selection) bool {
	c.init()
	return c.seasons.Contains(season)
}

func (c *Cache) offeredPair(season, sport types.Selection) bool {
	if !c.offeredSeason(season) {
		return false
	}
	c.mu.RLock()
	list, ok := c.sports[season]
	c.mu.RUnlock()
	if !ok {
		list = Sports(c.rs, season)
	}
	return list.Contains(sport)
}

// Size returns the number of memoized Sport and Event lists.
func (c *Cache) Size() (sports, events int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sports), len(c.events)
}

// Reconcile is the cached counterpart of the package-level Reconcile.
func (c *Cache) Reconcile(state types.FilterState) types.FilterState {
	if !state.Sport.IsAll() && !c.Sports(state.Season).Contains(state.Sport) {
		state = state.WithSport(types.All())
	}
	if !state.Event.IsAll() && !c.Events(state.Season, state.Sport).Contains(state.Event) {
		state = state.WithEvent(types.All())
	}
	return state
}

// Options returns every option list for the given upstream selections.
func (c *Cache) Options(season, sport types.Selection) types.OptionSet {
	return Options(c.Cascading(season, sport), c.Independent())
}
