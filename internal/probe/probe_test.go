package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	service "github.com/okian/olympicsnav/internal/app"
	"github.com/okian/olympicsnav/internal/adapters/http/api"
	repository "github.com/okian/olympicsnav/internal/adapters/repository"
	"github.com/okian/olympicsnav/internal/domain/types"
	"github.com/okian/olympicsnav/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func records() []types.Record {
	return []types.Record{
		{Season: types.SeasonSummer, Sport: "Swimming", Event: "100m Freestyle", Country: "USA", Medal: types.MedalGold, Year: "2016"},
		{Season: types.SeasonSummer, Sport: "Swimming", Event: "100m Freestyle", Country: "AUS", Medal: types.MedalSilver, Year: "2016"},
		{Season: types.SeasonSummer, Sport: "Swimming", Event: "200m Butterfly", Country: "USA", Medal: types.MedalBronze, Year: "2012"},
		{Season: types.SeasonSummer, Sport: "Athletics", Event: "Marathon", Country: "GRE", Medal: types.MedalGold, Year: "1896"},
		{Season: types.SeasonSummer, Sport: "Athletics", Event: "100m", Country: "JAM", Medal: types.MedalGold, Year: "2016"},
		{Season: types.SeasonWinter, Sport: "Skating", Event: "500m", Country: "NOR", Medal: types.MedalSilver, Year: "1924"},
		{Season: types.SeasonWinter, Sport: "Skiing", Event: "Slalom", Country: "AUT", Medal: types.MedalGold, Year: "2014"},
		{Season: types.SeasonWinter, Sport: "Skating", Event: "1500m", Country: "USA", Medal: types.MedalBronze, Year: "2014"},
	}
}

func navigator(t *testing.T) *httptest.Server {
	t.Helper()
	svc := service.New(
		service.WithStore(repository.NewMemoryStore(records(), nil)),
		service.WithLogger(logger.Discard()),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(svc.Stop)
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRun(t *testing.T) {
	Convey("Given a running navigator", t, func() {
		srv := navigator(t)

		Convey("A probe run passes every check", func() {
			report, err := Run(context.Background(), Config{BaseURL: srv.URL, States: 40, Workers: 4, Seed: 7}, nil)
			So(err, ShouldBeNil)
			So(report.Failures, ShouldBeEmpty)
			So(report.OK(), ShouldBeTrue)
			So(report.Checks, ShouldEqual, 3*40)
			So(report.Passed, ShouldEqual, report.Checks)
			So(report.RunID, ShouldNotBeEmpty)
			So(report.Seed, ShouldEqual, 7)
		})
	})

	Convey("Given no server", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		Convey("The run fails at the health check", func() {
			_, err := Run(context.Background(), Config{BaseURL: srv.URL, States: 1}, nil)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "health check")
		})
	})
}

func TestClient(t *testing.T) {
	Convey("Given a client for a running navigator", t, func() {
		c := NewClient(navigator(t).URL+"/", DefaultTimeout)
		ctx := context.Background()

		Convey("Records honours the state", func() {
			state := types.DefaultState().WithCountries(types.AnyOf("USA"))
			page, err := c.Records(ctx, state, 0, 2)
			So(err, ShouldBeNil)
			So(page.Total, ShouldEqual, 3)
			So(len(page.Records), ShouldEqual, 2)
		})

		Convey("Options reflect the cascade", func() {
			o, err := c.Options(ctx, types.Only("Winter"), types.All())
			So(err, ShouldBeNil)
			So(o.Sports.Values(), ShouldResemble, []string{"Skating", "Skiing"})
		})

		Convey("Errors carry the status", func() {
			_, err := c.Page(ctx, "atlantis")
			So(err, ShouldWrap, ErrStatus)
			So(err.Error(), ShouldContainSubstring, "page_not_found")
		})
	})
}

func TestStateQuery(t *testing.T) {
	Convey("StateQuery encodes selections the server understands", t, func() {
		q := StateQuery(types.DefaultState().
			WithSeason(types.Only("Summer")).
			WithCountries(types.AnyOf("USA", "GBR").WithAll()).
			WithMedals(types.AnyOf("Gold")))
		So(q.Get("season"), ShouldEqual, "Summer")
		So(q.Has("sport"), ShouldBeFalse)
		So(q["country"], ShouldResemble, []string{"*", "USA", "GBR"})
		So(q["medal"], ShouldResemble, []string{"Gold"})
	})
}

type fakeOptions struct {
	calls int
	sets  map[types.Selection]types.OptionSet
}

func (f *fakeOptions) Options(_ context.Context, season, _ types.Selection) (types.OptionSet, error) {
	f.calls++
	return f.sets[season], nil
}

func TestGenerator(t *testing.T) {
	Convey("Given a generator over fixed option lists", t, func() {
		top := types.OptionSet{
			Seasons:   types.NewOptionList([]string{"Summer", "Winter"}),
			Sports:    types.NewOptionList([]string{"Skating", "Swimming"}),
			Events:    types.NewOptionList(nil),
			Countries: types.NewOptionList([]string{"AUS", "NOR", "USA"}),
			Medals:    types.NewOptionList([]string{"Bronze", "Gold", "Silver"}),
			Years:     types.NewOptionList([]string{"1924", "2016"}),
		}
		winter := top
		winter.Sports = types.NewOptionList([]string{"Skating"})
		summer := top
		summer.Sports = types.NewOptionList([]string{"Swimming"})
		src := &fakeOptions{sets: map[types.Selection]types.OptionSet{
			types.All():          top,
			types.Only("Winter"): winter,
			types.Only("Summer"): summer,
		}}
		ctx := context.Background()

		Convey("Generated states only use offered options", func() {
			g := newGenerator(42, src)
			for range 100 {
				s, err := g.next(ctx)
				So(err, ShouldBeNil)
				if sport, ok := s.Sport.Value(); ok {
					switch season, _ := s.Season.Value(); season {
					case "Winter":
						So(sport, ShouldEqual, "Skating")
					case "Summer":
						So(sport, ShouldEqual, "Swimming")
					}
				}
				So(s.Countries.IsEmpty(), ShouldBeFalse)
				So(s.Medals.IsEmpty(), ShouldBeFalse)
			}
		})

		Convey("The same seed gives the same states", func() {
			a, b := newGenerator(9, src), newGenerator(9, src)
			for range 20 {
				x, _ := a.next(ctx)
				y, _ := b.next(ctx)
				So(x, ShouldResemble, y)
			}
		})

		Convey("Option lists are fetched once per season and sport", func() {
			g := newGenerator(1, src)
			for range 50 {
				_, _ = g.next(ctx)
			}
			So(src.calls, ShouldBeLessThanOrEqualTo, 1+2+3*2)
		})
	})
}

type brokenRecords struct {
	page types.ResultPage
}

func (b brokenRecords) Records(context.Context, types.FilterState, int, int) (types.ResultPage, error) {
	return b.page, nil
}

func TestChecks(t *testing.T) {
	Convey("Given a server that ignores the filter", t, func() {
		ctx := context.Background()
		rows := records()
		src := brokenRecords{page: types.ResultPage{Total: len(rows), Records: rows}}

		Convey("The row check fails for a constrained state", func() {
			_, err := checkRows(ctx, src, types.DefaultState().WithSeason(types.Only("Winter")), 100)
			So(err, ShouldWrap, errCheck)
		})

		Convey("The narrowing check fails when the narrowed total does not shrink to a match", func() {
			page := types.ResultPage{Total: 2, Records: rows[:2]}
			err := checkNarrowing(ctx, src, types.DefaultState(), page)
			So(err, ShouldWrap, errCheck)
		})

		Convey("The dominance check fails when All plus a value differs from All", func() {
			page := types.ResultPage{Total: 3, Records: rows[:3]}
			err := checkDominance(ctx, src, types.DefaultState(), page)
			So(err, ShouldWrap, errCheck)
		})
	})
}
