package repository

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/okian/olympicsnav/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func TestFileStore(t *testing.T) {
	Convey("Given a file store over CSV files", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		recordsPath := writeFile(t, dir, "athletes.csv", recordsCSV)
		hostsPath := writeFile(t, dir, "hosts.csv", hostsCSV)
		store := NewFileStore(ctx, WithRecordsPath(recordsPath), WithHostsPath(hostsPath))

		Convey("Records are parsed once and then served from memory", func() {
			a, err := store.Records(ctx)
			So(err, ShouldBeNil)
			b, err := store.Records(ctx)
			So(err, ShouldBeNil)
			So(a.Len(), ShouldEqual, 2)
			So(b.Records(), ShouldResemble, a.Records())
			So(store.Loads(), ShouldEqual, 1)
		})

		Convey("Concurrent first callers share one load", func() {
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, _ = store.Hosts(ctx)
				}()
			}
			wg.Wait()
			So(store.Loads(), ShouldBeLessThanOrEqualTo, 8)
			hosts, err := store.Hosts(ctx)
			So(err, ShouldBeNil)
			So(hosts, ShouldHaveLength, 3)
		})

		Convey("A changed file is reloaded", func() {
			_, err := store.Records(ctx)
			So(err, ShouldBeNil)

			writeFile(t, dir, "athletes.csv", "Season,Sport,Event,NOC,Medal,Year\nSummer,Judo,Open,JPN,Gold,1964\n")
			later := time.Now().Add(time.Minute)
			So(os.Chtimes(recordsPath, later, later), ShouldBeNil)

			rs, err := store.Records(ctx)
			So(err, ShouldBeNil)
			So(rs.Len(), ShouldEqual, 1)
			So(store.Loads(), ShouldEqual, 2)
		})

		Convey("Non-medal rows can be kept", func() {
			keep := NewFileStore(ctx, WithRecordsPath(recordsPath), WithKeepNonMedal(true))
			rs, err := keep.Records(ctx)
			So(err, ShouldBeNil)
			So(rs.Len(), ShouldEqual, 3)
		})

		Convey("Mutating returned hosts does not touch the cache", func() {
			hosts, _ := store.Hosts(ctx)
			hosts[0].City = "changed"
			again, _ := store.Hosts(ctx)
			So(again[0].City, ShouldEqual, "Athina")
		})
	})

	Convey("Given a file store with bad sources", t, func() {
		ctx := context.Background()

		Convey("A missing file is a load error wrapping fs.ErrNotExist", func() {
			store := NewFileStore(ctx, WithRecordsPath(filepath.Join(t.TempDir(), "nope.csv")))
			_, err := store.Records(ctx)
			So(errors.Is(err, types.ErrDataLoad), ShouldBeTrue)
			So(errors.Is(err, fs.ErrNotExist), ShouldBeTrue)
		})

		Convey("An unset path is a load error", func() {
			_, err := NewFileStore(ctx).Hosts(ctx)
			So(errors.Is(err, ErrNoPath), ShouldBeTrue)
			So(errors.Is(err, types.ErrDataLoad), ShouldBeTrue)
		})

		Convey("A cancelled context stops before reading", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := NewFileStore(ctx, WithRecordsPath("x")).Records(cctx)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a memory store", t, func() {
		ctx := context.Background()
		in := []types.Record{{Season: types.SeasonSummer, Sport: "Judo", Medal: types.MedalGold, Year: "1964"}}
		store := NewMemoryStore(in, nil)

		Convey("It returns a copy of its input", func() {
			in[0].Sport = "changed"
			rs, err := store.Records(ctx)
			So(err, ShouldBeNil)
			So(rs.At(0).Sport, ShouldEqual, "Judo")
		})

		Convey("It satisfies Store", func() {
			var s Store = store
			hosts, err := s.Hosts(ctx)
			So(err, ShouldBeNil)
			So(hosts, ShouldBeEmpty)
		})
	})
}
