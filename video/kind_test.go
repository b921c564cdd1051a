package video

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseKind(t *testing.T) {
	Convey("ParseKind", t, func() {
		for in, want := range map[string]Kind{
			"network":       Network,
			"FILE":          File,
			" asset ":       Asset,
			"video_hosting": VideoHosting,
			"videoHosting":  VideoHosting,
			"youtube":       VideoHosting,
		} {
			got, err := ParseKind(in)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, want)
		}

		_, err := ParseKind("torrent")
		So(err, ShouldNotBeNil)
	})
}

func TestInferKind(t *testing.T) {
	Convey("InferKind", t, func() {
		Convey("hosting URLs and IDs", func() {
			So(InferKind("https://www.youtube.com/watch?v=rWbo_sJSZJ0"), ShouldEqual, VideoHosting)
			So(InferKind("https://youtu.be/rWbo_sJSZJ0"), ShouldEqual, VideoHosting)
			So(InferKind("https://m.youtube.com/watch?v=rWbo_sJSZJ0"), ShouldEqual, VideoHosting)
			So(InferKind("youtube.com/watch?v=rWbo_sJSZJ0"), ShouldEqual, VideoHosting)
			So(InferKind("rWbo_sJSZJ0"), ShouldEqual, VideoHosting)
		})

		Convey("other http URLs", func() {
			So(InferKind("https://cdn.example.com/movie.mp4"), ShouldEqual, Network)
			So(InferKind("http://10.0.0.2:8080/live.m3u8"), ShouldEqual, Network)
		})

		Convey("everything else is a file", func() {
			So(InferKind("/home/me/movie.mkv"), ShouldEqual, File)
			So(InferKind("clip.mp4"), ShouldEqual, File)
			So(InferKind("sftp://host/clip.mp4"), ShouldEqual, File)
		})
	})
}
