package util

import (
	"errors"
	"regexp"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "quality", "qualities"), ShouldEqual, "1 quality")
		So(Quantify(3, "quality", "qualities"), ShouldEqual, "3 qualities")
	})
}

func TestReGroups(t *testing.T) {
	Convey("ReGroups", t, func() {
		re := regexp.MustCompile(`(?P<first>\w+)\s(?P<last>\w+)`)
		groups := ReGroups(re, "John Doe")
		So(groups["first"], ShouldEqual, "John")
		So(groups["last"], ShouldEqual, "Doe")

		So(ReGroups(re, "!"), ShouldBeEmpty)
	})
}

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("path/to/file.mp4"), ShouldEqual, "file")
		So(FileStem("file"), ShouldEqual, "file")
		So(FileStem("https://cdn.example.com/media/clip.m3u8?token=1"), ShouldEqual, "clip")
		So(FileStem("https://cdn.example.com/"), ShouldEqual, "cdn.example.com")
	})
}

func TestIgnore(t *testing.T) {
	Convey("Ignore swallows the error", t, func() {
		called := false
		Ignore(func() error {
			called = true
			return errors.New("boom")
		})
		So(called, ShouldBeTrue)
	})
}
