package filter_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/olympicsnav/internal/domain/filter"
	"github.com/okian/olympicsnav/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(season types.Season, sport, event, noc string, medal types.Medal, year string) types.Record {
	return types.Record{Season: season, Sport: sport, Event: event, Country: noc, Medal: medal, Year: year}
}

func exampleSet() types.RecordSet {
	return types.NewRecordSet([]types.Record{
		rec(types.SeasonSummer, "Swimming", "100m Freestyle", "USA", types.MedalGold, "2016"),
		rec(types.SeasonWinter, "Skating", "500m", "NOR", types.MedalSilver, "1924"),
	})
}

func fixture() types.RecordSet {
	return types.NewRecordSet([]types.Record{
		rec(types.SeasonSummer, "Swimming", "100m Freestyle", "USA", types.MedalGold, "2016"),
		rec(types.SeasonWinter, "Skating", "500m", "NOR", types.MedalSilver, "1924"),
		rec(types.SeasonSummer, "Athletics", "Marathon", "GRE", types.MedalGold, "1896"),
		rec(types.SeasonSummer, "Swimming", "200m Butterfly", "USA", types.MedalBronze, "2016"),
		rec(types.SeasonWinter, "Ice Hockey", "Ice Hockey", "USA", types.MedalGold, "1980"),
		rec(types.SeasonSummer, "Athletics", "100m", "USA", types.MedalGold, "1936"),
		rec(types.SeasonWinter, "Skating", "10000m", "FIN", types.MedalGold, "1924"),
		rec(types.SeasonSummer, "Swimming", "100m Freestyle", "JPN", types.MedalSilver, "2021"),
		rec(types.SeasonSummer, "swimming", "relay", "AUS", types.MedalBronze, "2021"),
	})
}

// isSubsequence reports whether sub appears in full in the same order.
func isSubsequence(sub, full []types.Record) bool {
	i := 0
	for _, r := range full {
		if i < len(sub) && sub[i] == r {
			i++
		}
	}
	return i == len(sub)
}

// states enumerates filter states built from every offered option.
func states(rs types.RecordSet) []types.FilterState {
	ind := filter.IndependentOptions(rs)
	var out []types.FilterState
	for _, season := range filter.Seasons(rs) {
		for _, sport := range filter.Sports(rs, season) {
			for _, event := range filter.Events(rs, season, sport) {
				base := types.DefaultState().WithSeason(season).WithSport(sport).WithEvent(event)
				out = append(out, base)
				for _, c := range ind.Countries.Values() {
					out = append(out, base.WithCountries(types.AnyOf(c)))
				}
				for _, m := range ind.Medals.Values() {
					out = append(out, base.WithMedals(types.AnyOf(m)))
				}
				for _, y := range ind.Years.Values() {
					out = append(out, base.WithYear(types.Only(y)))
				}
			}
		}
	}
	return out
}

func TestCascadingOptions(t *testing.T) {
	Convey("Given the two-record example", t, func() {
		rs := exampleSet()

		Convey("Sports for Summer are All plus Swimming", func() {
			opts := filter.CascadingOptions(rs, types.Only("Summer"), types.All())
			So(opts.Sports.Labels(), ShouldResemble, []string{"All", "Swimming"})
			So(opts.Seasons.Labels(), ShouldResemble, []string{"All", "Summer", "Winter"})
			So(opts.Events.Labels(), ShouldResemble, []string{"All", "100m Freestyle"})
		})
	})

	Convey("Given a larger record set", t, func() {
		rs := fixture()

		Convey("Seasons always cover the whole set", func() {
			a := filter.CascadingOptions(rs, types.Only("Winter"), types.Only("Skating"))
			So(a.Seasons.Values(), ShouldResemble, []string{"Summer", "Winter"})
		})

		Convey("Sorting is case-sensitive byte order with All first", func() {
			opts := filter.CascadingOptions(rs, types.Only("Summer"), types.All())
			So(opts.Sports.Labels(), ShouldResemble, []string{"All", "Athletics", "Swimming", "swimming"})
			So(opts.Sports[0].IsAll(), ShouldBeTrue)
		})

		Convey("Sport options are exactly the distinct sports of that season", func() {
			for _, season := range filter.Seasons(rs).Values() {
				want := map[string]bool{}
				for _, r := range rs.Records() {
					if string(r.Season) == season {
						want[r.Sport] = true
					}
				}
				got := filter.Sports(rs, types.Only(season)).Values()
				So(len(got), ShouldEqual, len(want))
				for _, s := range got {
					So(want[s], ShouldBeTrue)
				}
			}
		})

		Convey("Events are restricted by both season and sport", func() {
			opts := filter.CascadingOptions(rs, types.Only("Winter"), types.Only("Skating"))
			So(opts.Events.Values(), ShouldResemble, []string{"10000m", "500m"})

			opts = filter.CascadingOptions(rs, types.All(), types.Only("Swimming"))
			So(opts.Events.Values(), ShouldResemble, []string{"100m Freestyle", "200m Butterfly"})
		})

		Convey("A season with no such sport offers no events", func() {
			opts := filter.CascadingOptions(rs, types.Only("Winter"), types.Only("Swimming"))
			So(opts.Events.Labels(), ShouldResemble, []string{"All"})
		})
	})
}

func TestIndependentOptions(t *testing.T) {
	Convey("Given a larger record set", t, func() {
		rs := fixture()
		ind := filter.IndependentOptions(rs)

		Convey("Lists cover the whole set, sorted, with All first", func() {
			So(ind.Countries.Labels(), ShouldResemble, []string{"All", "AUS", "FIN", "GRE", "JPN", "NOR", "USA"})
			So(ind.Medals.Labels(), ShouldResemble, []string{"All", "Bronze", "Gold", "Silver"})
			So(ind.Years.Labels(), ShouldResemble, []string{"All", "1896", "1924", "1936", "1980", "2016", "2021"})
		})

		Convey("They do not shrink when other filters narrow the result", func() {
			narrowed := filter.Apply(rs, types.DefaultState().WithSeason(types.Only("Winter")))
			So(narrowed.Len(), ShouldBeLessThan, rs.Len())
			So(filter.IndependentOptions(rs), ShouldResemble, ind)
		})
	})
}

func TestApply(t *testing.T) {
	Convey("Given the two-record example", t, func() {
		rs := exampleSet()

		Convey("Filtering to Summer returns only the first record", func() {
			out := filter.Apply(rs, types.DefaultState().WithSeason(types.Only("Summer")))
			So(out.Len(), ShouldEqual, 1)
			So(out.At(0), ShouldResemble, rs.At(0))
		})

		Convey("All alongside USA dominates and returns both records", func() {
			out := filter.Apply(rs, types.DefaultState().WithCountries(types.AnyOf("USA").WithAll()))
			So(out.Len(), ShouldEqual, 2)
		})

		Convey("USA alone returns only USA's record", func() {
			out := filter.Apply(rs, types.DefaultState().WithCountries(types.AnyOf("USA")))
			So(out.Len(), ShouldEqual, 1)
			So(out.At(0).Country, ShouldEqual, "USA")
		})

		Convey("Unsatisfiable filters return an empty set", func() {
			out := filter.Apply(rs, types.DefaultState().WithYear(types.Only("1800")))
			So(out.Len(), ShouldEqual, 0)
		})

		Convey("An empty multi-select matches nothing", func() {
			out := filter.Apply(rs, types.DefaultState().WithMedals(types.AnyOf()))
			So(out.Len(), ShouldEqual, 0)
		})
	})

	Convey("Given every state built from the offered options", t, func() {
		rs := fixture()
		all := rs.Records()

		Convey("Results are order-preserving subsequences of the source", func() {
			for _, s := range states(rs) {
				out := filter.Apply(rs, s).Records()
				So(isSubsequence(out, all), ShouldBeTrue)
				for _, r := range out {
					So(s.Matches(r), ShouldBeTrue)
				}
			}
		})

		Convey("Applying twice equals applying once", func() {
			for _, s := range states(rs) {
				once := filter.Apply(rs, s)
				twice := filter.Apply(once, s)
				So(cmp.Diff(once.Records(), twice.Records()), ShouldBeEmpty)
			}
		})

		Convey("Narrowing a dimension never grows the result", func() {
			ind := filter.IndependentOptions(rs)
			for _, s := range states(rs) {
				n := filter.Apply(rs, s).Len()
				for _, y := range ind.Years.Values() {
					if s.Year.IsAll() {
						So(filter.Apply(rs, s.WithYear(types.Only(y))).Len(), ShouldBeLessThanOrEqualTo, n)
					}
				}
				if s.Countries.IncludesAll() {
					wide := s.WithCountries(types.AnyOf(ind.Countries.Values()...))
					w := filter.Apply(rs, wide).Len()
					So(w, ShouldBeLessThanOrEqualTo, n)
					narrow := s.WithCountries(types.AnyOf("USA"))
					So(filter.Apply(rs, narrow).Len(), ShouldBeLessThanOrEqualTo, w)
				}
			}
		})

		Convey("All in a multi-select equals leaving the dimension unconstrained", func() {
			for _, s := range states(rs) {
				base := filter.Apply(rs, s.WithCountries(types.AllOf()).WithMedals(types.AllOf()))
				mixed := filter.Apply(rs, s.
					WithCountries(types.AnyOf("USA", "NOR").WithAll()).
					WithMedals(types.AnyOf("Gold").WithAll()))
				So(cmp.Diff(base.Records(), mixed.Records()), ShouldBeEmpty)
			}
		})

		Convey("The source set is never modified", func() {
			before := rs.Records()
			for _, s := range states(rs) {
				filter.Apply(rs, s)
			}
			So(cmp.Diff(before, rs.Records()), ShouldBeEmpty)
		})
	})
}

func TestReconcile(t *testing.T) {
	Convey("Given a state whose downstream choices came from another season", t, func() {
		rs := fixture()
		state := types.DefaultState().
			WithSeason(types.Only("Summer")).
			WithSport(types.Only("Swimming")).
			WithEvent(types.Only("100m Freestyle"))

		Convey("Switching the season resets inapplicable sport and event", func() {
			next := filter.Reconcile(rs, state.WithSeason(types.Only("Winter")))
			So(next.Sport.IsAll(), ShouldBeTrue)
			So(next.Event.IsAll(), ShouldBeTrue)
			So(next.Season, ShouldResemble, types.Only("Winter"))
		})

		Convey("Switching the sport resets only the event", func() {
			next := filter.Reconcile(rs, state.WithSport(types.Only("Athletics")))
			So(next.Sport, ShouldResemble, types.Only("Athletics"))
			So(next.Event.IsAll(), ShouldBeTrue)
		})

		Convey("Still-applicable choices survive", func() {
			next := filter.Reconcile(rs, state.WithSeason(types.All()))
			So(next, ShouldResemble, state.WithSeason(types.All()))
		})

		Convey("Reconciled states only hold offered choices", func() {
			for _, season := range filter.Seasons(rs) {
				next := filter.Reconcile(rs, state.WithSeason(season))
				So(filter.Sports(rs, next.Season).Contains(next.Sport), ShouldBeTrue)
				So(filter.Events(rs, next.Season, next.Sport).Contains(next.Event), ShouldBeTrue)
			}
		})
	})
}
