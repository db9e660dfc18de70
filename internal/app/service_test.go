package service_test

import (
	"context"
	"errors"
	"testing"

	service "github.com/okian/olympicsnav/internal/app"
	repository "github.com/okian/olympicsnav/internal/adapters/repository"
	"github.com/okian/olympicsnav/internal/domain/catalog"
	"github.com/okian/olympicsnav/internal/domain/session"
	"github.com/okian/olympicsnav/internal/domain/types"
	"github.com/okian/olympicsnav/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func str(s string) *string { return &s }

func fixtureStore() *repository.MemoryStore {
	return repository.NewMemoryStore([]types.Record{
		{Season: types.SeasonSummer, Sport: "Swimming", Event: "100m Freestyle", Country: "USA", Medal: types.MedalGold, Year: "2016"},
		{Season: types.SeasonWinter, Sport: "Skating", Event: "500m", Country: "NOR", Medal: types.MedalSilver, Year: "1924"},
		{Season: types.SeasonSummer, Sport: "Athletics", Event: "Marathon", Country: "GRE", Medal: types.MedalGold, Year: "1896"},
	}, []types.HostEntry{
		{City: "Athina", Country: "Greece", Latitude: 37.98, Longitude: 23.72, Summer: str("1896")},
		{City: "Chamonix", Country: "France", Latitude: 45.92, Longitude: 6.87, Winter: str("1924")},
	})
}

func started(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	svc := service.New(append([]service.Option{service.WithStore(fixtureStore())}, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithStore(fixtureStore()))
		ctx := context.Background()

		Convey("Operations before Start fail", func() {
			_, err := svc.Options(ctx, types.All(), types.All())
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})

		Convey("Start marks it started and Stop stops it", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["records"], ShouldEqual, 3)
			So(stats["hosts"], ShouldEqual, 2)

			svc.Stop()
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})

	Convey("Given a service without a store", t, func() {
		err := service.New().Start(context.Background())
		So(errors.Is(err, repository.ErrNoPath), ShouldBeTrue)
	})
}

func TestService_Query(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started(t, service.WithMaxPageSize(2), service.WithDefaultPageSize(1))
		ctx := context.Background()

		Convey("Options cascade from the season", func() {
			opts, err := svc.Options(ctx, types.Only("Summer"), types.All())
			So(err, ShouldBeNil)
			So(opts.Sports.Values(), ShouldResemble, []string{"Athletics", "Swimming"})
			So(opts.Countries.Values(), ShouldResemble, []string{"GRE", "NOR", "USA"})
		})

		Convey("Filter windows the result and reports the total", func() {
			res, err := svc.Filter(ctx, types.DefaultState().WithSeason(types.Only("Summer")), 0, 0)
			So(err, ShouldBeNil)
			So(res.Total, ShouldEqual, 2)
			So(res.Limit, ShouldEqual, 1)
			So(res.Records, ShouldHaveLength, 1)
			So(res.Records[0].Country, ShouldEqual, "USA")

			res, err = svc.Filter(ctx, types.DefaultState().WithSeason(types.Only("Summer")), 1, 2)
			So(err, ShouldBeNil)
			So(res.Records[0].Country, ShouldEqual, "GRE")
		})

		Convey("Bad windows are rejected", func() {
			_, err := svc.Filter(ctx, types.DefaultState(), -1, 1)
			So(errors.Is(err, types.ErrInvalidWindow), ShouldBeTrue)
			_, err = svc.Filter(ctx, types.DefaultState(), 0, 3)
			So(errors.Is(err, types.ErrInvalidWindow), ShouldBeTrue)
		})
	})
}

func TestService_Sessions(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started(t)
		ctx := context.Background()

		Convey("A new session starts unconstrained", func() {
			view, err := svc.CreateSession(ctx)
			So(err, ShouldBeNil)
			So(view.ID, ShouldNotBeEmpty)
			So(view.Total, ShouldEqual, 3)
			So(view.State, ShouldResemble, types.DefaultState())

			Convey("Changing the season resets an inapplicable sport", func() {
				summer, swim := types.Only("Summer"), types.Only("Swimming")
				_, err := svc.UpdateSession(ctx, view.ID, types.StateChange{Season: &summer, Sport: &swim})
				So(err, ShouldBeNil)

				winter := types.Only("Winter")
				next, err := svc.UpdateSession(ctx, view.ID, types.StateChange{Season: &winter})
				So(err, ShouldBeNil)
				So(next.State.Sport.IsAll(), ShouldBeTrue)
				So(next.Total, ShouldEqual, 1)
				So(next.Options.Sports.Values(), ShouldResemble, []string{"Skating"})
			})

			Convey("Session records follow the session state", func() {
				medals := types.AnyOf("Gold")
				_, err := svc.UpdateSession(ctx, view.ID, types.StateChange{Medals: &medals})
				So(err, ShouldBeNil)
				res, err := svc.SessionRecords(ctx, view.ID, 0, 10)
				So(err, ShouldBeNil)
				So(res.Total, ShouldEqual, 2)
			})

			Convey("A deleted session is gone", func() {
				So(svc.DeleteSession(ctx, view.ID), ShouldBeNil)
				_, err := svc.Session(ctx, view.ID)
				So(errors.Is(err, session.ErrSessionNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_Content(t *testing.T) {
	Convey("Given a started service with an asset base", t, func() {
		svc := started(t, service.WithAssetsBaseURL("/assets"))
		ctx := context.Background()

		Convey("Pages are rendered in order with prefixed assets", func() {
			pages, err := svc.Pages(ctx)
			So(err, ShouldBeNil)
			So(pages, ShouldHaveLength, 5)
			So(pages[0].HTML, ShouldContainSubstring, "<li>")
			So(pages[0].Images[0].Asset, ShouldEqual, "/assets/Athens1896Stadium.jpg")
		})

		Convey("Unknown pages are reported", func() {
			_, err := svc.Page(ctx, "nowhere")
			So(errors.Is(err, catalog.ErrPageNotFound), ShouldBeTrue)
		})

		Convey("Overview and citations are served", func() {
			o, err := svc.Overview(ctx)
			So(err, ShouldBeNil)
			So(o.HTML, ShouldContainSubstring, "<h2>About</h2>")
			c, err := svc.Citations(ctx)
			So(err, ShouldBeNil)
			So(c, ShouldNotBeEmpty)
		})

		Convey("Host points derive their season", func() {
			pts, err := svc.HostPoints(ctx)
			So(err, ShouldBeNil)
			So(pts[0].Season, ShouldEqual, types.SeasonSummer)
			So(pts[1].Season, ShouldEqual, types.SeasonWinter)
		})
	})

	Convey("Given a host table that breaks the presence invariant", t, func() {
		store := repository.NewMemoryStore(nil, []types.HostEntry{{City: "Both", Summer: str("2000"), Winter: str("2002")}})
		svc := service.New(service.WithStore(store))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		Convey("The host view fails while the records view stays up", func() {
			_, err := svc.HostPoints(context.Background())
			So(errors.Is(err, types.ErrDataInvariant), ShouldBeTrue)
			_, err = svc.Filter(context.Background(), types.DefaultState(), 0, 10)
			So(err, ShouldBeNil)
		})
	})
}
