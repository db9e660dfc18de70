package filter_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/okian/olympicsnav/internal/domain/filter"
	"github.com/okian/olympicsnav/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

type lookups struct {
	mu   sync.Mutex
	hits map[string]int
	miss map[string]int
}

func (l *lookups) record(list string, hit bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if hit {
		l.hits[list]++
	} else {
		l.miss[list]++
	}
}

func TestCache(t *testing.T) {
	Convey("Given an option cache over a record set", t, func() {
		rs := fixture()
		l := &lookups{hits: map[string]int{}, miss: map[string]int{}}
		c := filter.NewCache(rs, filter.WithLookupHook(l.record))

		Convey("It returns the same lists as the uncached functions", func() {
			for _, season := range filter.Seasons(rs) {
				for _, sport := range filter.Sports(rs, season) {
					So(c.Cascading(season, sport), ShouldResemble, filter.CascadingOptions(rs, season, sport))
				}
			}
			So(c.Independent(), ShouldResemble, filter.IndependentOptions(rs))
		})

		Convey("Selections the data does not offer are not memoized", func() {
			for i := range 500 {
				season := types.Only(fmt.Sprintf("season-%d", i))
				sport := types.Only(fmt.Sprintf("sport-%d", i))
				opts := c.Options(season, sport)
				So(opts.Sports.Labels(), ShouldResemble, []string{"All"})
				c.Events(types.Only("Summer"), sport)
			}
			sports, events := c.Size()
			So(sports, ShouldBeLessThanOrEqualTo, 1)
			So(events, ShouldEqual, 0)
		})

		Convey("Offered selections are memoized once", func() {
			c.Options(types.Only("Summer"), types.Only("Swimming"))
			c.Options(types.Only("Summer"), types.Only("Swimming"))
			sports, events := c.Size()
			So(sports, ShouldEqual, 1)
			So(events, ShouldEqual, 1)
		})

		Convey("Repeated lookups are served from the cache", func() {
			c.Sports(types.Only("Summer"))
			c.Sports(types.Only("Summer"))
			So(l.miss["sports"], ShouldEqual, 1)
			So(l.hits["sports"], ShouldEqual, 1)
		})

		Convey("A changed season never yields the previous season's lists", func() {
			summer := c.Cascading(types.Only("Summer"), types.Only("Swimming"))
			winter := c.Cascading(types.Only("Winter"), types.Only("Swimming"))
			So(summer.Sports.Values(), ShouldContain, "Swimming")
			So(winter.Sports.Values(), ShouldNotContain, "Swimming")
			So(winter.Events.Labels(), ShouldResemble, []string{"All"})
		})

		Convey("A changed sport never yields the previous sport's events", func() {
			a := c.Events(types.Only("Summer"), types.Only("Swimming"))
			b := c.Events(types.Only("Summer"), types.Only("Athletics"))
			So(a.Values(), ShouldResemble, []string{"100m Freestyle", "200m Butterfly"})
			So(b.Values(), ShouldResemble, []string{"100m", "Marathon"})
		})

		Convey("Cached reconcile matches the uncached one", func() {
			state := types.DefaultState().
				WithSeason(types.Only("Winter")).
				WithSport(types.Only("Swimming")).
				WithEvent(types.Only("100m Freestyle"))
			So(c.Reconcile(state), ShouldResemble, filter.Reconcile(rs, state))
		})

		Convey("It is safe under concurrent lookups", func() {
			var wg sync.WaitGroup
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					season := types.Only("Summer")
					if i%2 == 0 {
						season = types.Only("Winter")
					}
					c.Cascading(season, types.All())
				}(i)
			}
			wg.Wait()
			So(c.Records().Len(), ShouldEqual, rs.Len())
		})
	})
}
