package hosting

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidplay-cli/vidplay/filesystem"
)

type countingExtractor struct {
	calls int
	err   error
}

func (c *countingExtractor) Manifest(_ context.Context, id string) (*Manifest, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &Manifest{ID: id, Muxed: []VideoStream{{Stream: Stream{URL: "u", Bitrate: 1}}}}, nil
}

func TestCached(t *testing.T) {
	Convey("Given a cached extractor", t, func() {
		filesystem.SetMemMapFs()
		next := &countingExtractor{}
		cached := NewCached(next, "/cache/manifests.json", time.Hour).(*Cached)

		clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		cached.now = func() time.Time { return clock }

		Convey("A second lookup within the ttl should not refetch", func() {
			_, err := cached.Manifest(context.Background(), "rWbo_sJSZJ0")
			So(err, ShouldBeNil)
			m, err := cached.Manifest(context.Background(), "rWbo_sJSZJ0")
			So(err, ShouldBeNil)
			So(m.ID, ShouldEqual, "rWbo_sJSZJ0")
			So(next.calls, ShouldEqual, 1)

			exists, _ := filesystem.API().Exists("/cache/manifests.json")
			So(exists, ShouldBeTrue)
		})

		Convey("A stale entry should be refetched", func() {
			_, _ = cached.Manifest(context.Background(), "rWbo_sJSZJ0")
			clock = clock.Add(2 * time.Hour)
			_, _ = cached.Manifest(context.Background(), "rWbo_sJSZJ0")
			So(next.calls, ShouldEqual, 2)
		})

		Convey("Errors should not be cached", func() {
			next.err = errors.New("boom")
			_, err := cached.Manifest(context.Background(), "rWbo_sJSZJ0")
			So(err, ShouldNotBeNil)
			next.err = nil
			_, err = cached.Manifest(context.Background(), "rWbo_sJSZJ0")
			So(err, ShouldBeNil)
			So(next.calls, ShouldEqual, 2)
		})
	})

	Convey("A zero ttl should disable caching", t, func() {
		next := &countingExtractor{}
		So(NewCached(next, "/cache/manifests.json", 0), ShouldEqual, next)
	})
}
