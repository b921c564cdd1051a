package hosting

import (
	"errors"
	"testing"

	"github.com/kkdai/youtube/v2"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManifest(t *testing.T) {
	Convey("Given a manifest", t, func() {
		m := &Manifest{
			AudioOnly: []Stream{
				{URL: "a1", Bitrate: 64},
				{URL: "a2", Bitrate: 160},
				{URL: "a3", Bitrate: 160},
			},
			Muxed: []VideoStream{
				{Stream: Stream{URL: "m1", Bitrate: 500}, QualityLabel: "360p"},
				{Stream: Stream{URL: "m2", Bitrate: 900}, QualityLabel: "720p"},
			},
		}

		Convey("BestAudio should pick the highest bitrate, first on ties", func() {
			So(m.BestAudio().MustGet().URL, ShouldEqual, "a2")
		})

		Convey("BestMuxed should pick the highest bitrate", func() {
			So(m.BestMuxed().MustGet().QualityLabel, ShouldEqual, "720p")
		})

		Convey("Empty should be false", func() {
			So(m.Empty(), ShouldBeFalse)
		})
	})

	Convey("Given an empty manifest", t, func() {
		m := &Manifest{}
		So(m.Empty(), ShouldBeTrue)
		So(m.BestAudio().IsPresent(), ShouldBeFalse)
		So(m.BestMuxed().IsPresent(), ShouldBeFalse)

		var missing *Manifest
		So(missing.Empty(), ShouldBeTrue)
	})
}

func TestBuildManifest(t *testing.T) {
	Convey("Given formats returned by the service", t, func() {
		v := &youtube.Video{
			ID:    "rWbo_sJSZJ0",
			Title: "clip",
			Formats: youtube.FormatList{
				{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, QualityLabel: "360p", Bitrate: 500, AudioChannels: 2},
				{ItagNo: 137, MimeType: `video/mp4; codecs="avc1.640028"`, QualityLabel: "1080p", Bitrate: 4000},
				{ItagNo: 136, MimeType: `video/mp4; codecs="avc1.4d401f"`, QualityLabel: "720p", Bitrate: 2000},
				{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, Bitrate: 128, AudioChannels: 2},
				{ItagNo: 999, MimeType: `video/webm`, QualityLabel: "480p"},
			},
		}

		m := buildManifest(v, func(f *youtube.Format) (string, error) {
			if f.ItagNo == 999 {
				return "", errors.New("cipher")
			}
			return "https://cdn/" + f.QualityLabel, nil
		})

		Convey("Should classify every resolvable format", func() {
			So(m.ID, ShouldEqual, "rWbo_sJSZJ0")
			So(len(m.Muxed), ShouldEqual, 1)
			So(m.Muxed[0].Itag, ShouldEqual, 18)
			So(len(m.AudioOnly), ShouldEqual, 1)
			So(m.AudioOnly[0].Itag, ShouldEqual, 140)
		})

		Convey("Should keep video-only order and skip unresolved formats", func() {
			So(len(m.VideoOnly), ShouldEqual, 2)
			So(m.VideoOnly[0].QualityLabel, ShouldEqual, "1080p")
			So(m.VideoOnly[1].QualityLabel, ShouldEqual, "720p")
			So(m.VideoOnly[1].URL, ShouldEqual, "https://cdn/720p")
		})
	})
}
