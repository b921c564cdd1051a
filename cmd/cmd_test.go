package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vidplay-cli/vidplay/config"
	"github.com/vidplay-cli/vidplay/filesystem"
	"github.com/vidplay-cli/vidplay/hosting"
	"github.com/vidplay-cli/vidplay/key"
	"github.com/vidplay-cli/vidplay/video"
)

func init() {
	filesystem.SetMemMapFs()
	_ = config.Setup()
}

func TestBuildDescriptor(t *testing.T) {
	Convey("Given a positional source", t, func() {
		viper.Set(key.HostingFetchQualities, false)

		Convey("The kind should be inferred", func() {
			d, err := buildDescriptor([]string{"https://youtu.be/rWbo_sJSZJ0"}, playOptions{})
			So(err, ShouldBeNil)
			So(d.Default().Kind, ShouldEqual, video.VideoHosting)
			So(d.FetchQualities, ShouldBeFalse)
		})

		Convey("An explicit kind should win", func() {
			d, err := buildDescriptor([]string{"intro.mp4"}, playOptions{kind: "asset"})
			So(err, ShouldBeNil)
			So(d.Default().Kind, ShouldEqual, video.Asset)
		})

		Convey("An unknown kind should be an error", func() {
			_, err := buildDescriptor([]string{"intro.mp4"}, playOptions{kind: "carrier-pigeon"})
			So(err, ShouldNotBeNil)
		})

		Convey("Track flags should become auxiliary tracks", func() {
			d, err := buildDescriptor([]string{"/v.mp4"}, playOptions{
				subtitles: []string{"/subs/en.srt", "https://cdn/de.vtt"},
				audios:    []string{"https://cdn/a.m4a"},
			})
			So(err, ShouldBeNil)
			So(len(d.Subtitles), ShouldEqual, 2)
			So(d.Subtitles[0].Kind, ShouldEqual, video.File)
			So(d.Subtitles[1].Kind, ShouldEqual, video.Network)
			So(d.Audios[0].Kind, ShouldEqual, video.Network)
		})

		Convey("The fetch qualities setting should apply", func() {
			viper.Set(key.HostingFetchQualities, true)
			d, err := buildDescriptor([]string{"rWbo_sJSZJ0"}, playOptions{})
			So(err, ShouldBeNil)
			So(d.FetchQualities, ShouldBeTrue)
			viper.Set(key.HostingFetchQualities, false)
		})
	})

	Convey("No source should be an error", t, func() {
		_, err := buildDescriptor(nil, playOptions{})
		So(err, ShouldNotBeNil)
	})
}

func TestControllerOptions(t *testing.T) {
	Convey("Given playback flags", t, func() {
		d := video.Single("/v.mp4", video.File)
		d.Subtitles = []video.AuxTrack{video.NewAuxTrack("/subs/en.srt")}

		opts, err := controllerOptions(d, playOptions{
			qualityRules: []string{"~1080", "off"},
			start:        90 * time.Second,
			noAutoPause:  true,
		})

		So(err, ShouldBeNil)
		So(len(opts.QualityRules), ShouldEqual, 2)
		So(opts.QualityRules[1].String(), ShouldEqual, "off")
		So(opts.StartOffset, ShouldEqual, 90*time.Second)
		So(opts.DisableAutoVisibilityPause, ShouldBeTrue)
		So(opts.Subtitles, ShouldResemble, d.Subtitles)

		Convey("Malformed rules should be rejected", func() {
			_, err := controllerOptions(d, playOptions{audioRules: []string{"~"}})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestConfigHelpers(t *testing.T) {
	Convey("Config values should be parsed to the default's type", t, func() {
		v, err := parseConfigValue(config.Default[key.HostingCacheTTL], []string{"15"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 15)

		v, err = parseConfigValue(config.Default[key.PlayerLoop], []string{"true"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, true)

		v, err = parseConfigValue(config.Default[key.SelectQuality], []string{"1080", "720"})
		So(err, ShouldBeNil)
		So(v, ShouldResemble, []string{"1080", "720"})

		_, err = parseConfigValue(config.Default[key.PlayerStartTimeout], []string{"soon"})
		So(err, ShouldNotBeNil)
	})

	Convey("Unknown keys should suggest the closest one", t, func() {
		err := errUnknownKey("player.lop")
		So(err.Error(), ShouldContainSubstring, key.PlayerLoop)
	})

	Convey("Environment names should include the config path override", t, func() {
		names := envNames()
		So(names, ShouldContain, "VIDPLAY_CONFIG_PATH")
		So(names, ShouldContain, "VIDPLAY_PLAYER_START_TIMEOUT")
	})
}

func TestPrintManifest(t *testing.T) {
	Convey("A manifest should list every section", t, func() {
		var buf bytes.Buffer
		printManifest(&buf, &hosting.Manifest{
			Title:     "clip",
			Muxed:     []hosting.VideoStream{{Stream: hosting.Stream{Bitrate: 500000}, QualityLabel: "360p"}},
			VideoOnly: []hosting.VideoStream{{Stream: hosting.Stream{Bitrate: 4000000}, QualityLabel: "1080p"}},
			AudioOnly: []hosting.Stream{{Bitrate: 128000, MimeType: "audio/mp4"}},
		})

		out := buf.String()
		So(out, ShouldContainSubstring, "clip")
		So(out, ShouldContainSubstring, "1080p")
		So(strings.Count(out, "1 stream"), ShouldEqual, 3)
	})
}
