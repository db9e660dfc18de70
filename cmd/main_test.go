package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/olympicsnav/internal/config"
	"github.com/okian/olympicsnav/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

const recordsCSV = `Name,Team,NOC,Games,Year,Season,City,Sport,Event,Medal
A,Greece,GRE,1896 Summer,1896,Summer,Athina,Athletics,Marathon,Gold
B,United States,USA,2016 Summer,2016,Summer,Rio de Janeiro,Swimming,100m Freestyle,Gold
C,Norway,NOR,1924 Winter,1924,Winter,Chamonix,Skating,500m,Silver
D,France,FRA,1924 Winter,1924,Winter,Chamonix,Skating,500m,NA
`

const hostsCSV = `City,Country,Latitude,Longitude,Summer,Winter
Athina,Greece,37.98,23.72,1896.0,NA
Chamonix,France,45.92,6.87,NA,1924.0
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	records := filepath.Join(dir, "athlete_events.csv")
	hosts := filepath.Join(dir, "olympic_hosts.csv")
	if err := os.WriteFile(records, []byte(recordsCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(hosts, []byte(hostsCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := config.New(context.Background())
	cfg.RecordsPath = records
	cfg.HostsPath = hosts
	cfg.RateLimitRPS = 0
	return cfg
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, http.NoBody))
	return w
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When loading configuration from the environment", func() {
			t.Setenv("OLYNAV_ADDR", ":8080")
			t.Setenv("OLYNAV_SESSION_CAPACITY", "16")

			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.SessionCapacity, convey.ShouldEqual, 16)
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given the wired application over CSV files", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		cfg := testConfig(t)

		svc := newService(ctx, cfg, logger.Discard())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()
		mux := newMux(ctx, cfg, svc, logger.Discard())

		convey.Convey("Then records are served without the non-medal row", func() {
			w := get(t, mux, "/api/records?season=Winter")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			var page struct {
				Total int `json:"total"`
			}
			convey.So(json.Unmarshal(w.Body.Bytes(), &page), convey.ShouldBeNil)
			convey.So(page.Total, convey.ShouldEqual, 1)
		})

		convey.Convey("And the host map is served", func() {
			w := get(t, mux, "/api/hosts")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "Chamonix")
		})

		convey.Convey("And docs, metrics, dashboard and front end are mounted", func() {
			for _, path := range []string{"/openapi.yaml", "/api-docs", "/healthz", "/stats", "/dashboard", "/"} {
				convey.So(get(t, mux, path).Code, convey.ShouldEqual, http.StatusOK)
			}
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a configuration on a free port", t, func() {
		cfg := testConfig(t)
		cfg.Addr = "127.0.0.1:0"

		convey.Convey("run returns cleanly when the context is cancelled", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()
			convey.So(run(ctx, cfg), convey.ShouldBeNil)
		})

		convey.Convey("run reports a listen failure", func() {
			cfg.Addr = "127.0.0.1:-1"
			err := run(context.Background(), cfg)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(strings.Contains(err.Error(), "http server"), convey.ShouldBeTrue)
		})
	})
}
