package session

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEventListener(t *testing.T) {
	Convey("Given an engine with a minimized window", t, func() {
		fake := startFakeMPV(t, map[string]any{
			PropertyPause:           false,
			PropertyWindowMinimized: true,
		})

		events := make(chan Event, 16)
		el, err := attached(fake.socket).Events(func(e Event) { events <- e })
		So(err, ShouldBeNil)

		Convey("Should deliver observed property changes", func() {
			var got []Event
			timeout := time.After(2 * time.Second)
		collect:
			for len(got) < 2 {
				select {
				case e := <-events:
					if e.Name == PropertyPause || e.Name == PropertyWindowMinimized {
						got = append(got, e)
					}
				case <-timeout:
					break collect
				}
			}

			So(len(got), ShouldEqual, 2)

			for _, e := range got {
				if fraction, ok := e.Visibility(); ok {
					So(fraction, ShouldEqual, 0)
				}
			}
		})

		Convey("Stop should end the read loop", func() {
			el.Stop()
			select {
			case <-el.Done():
			case <-time.After(2 * time.Second):
				So("read loop still running", ShouldBeEmpty)
			}
		})
	})
}

func TestVisibility(t *testing.T) {
	Convey("Visibility should map window-minimized", t, func() {
		f, ok := Event{Name: PropertyWindowMinimized, Data: false}.Visibility()
		So(ok, ShouldBeTrue)
		So(f, ShouldEqual, 1)

		_, ok = Event{Name: PropertyPause, Data: true}.Visibility()
		So(ok, ShouldBeFalse)

		_, ok = Event{Name: PropertyWindowMinimized, Data: "yes"}.Visibility()
		So(ok, ShouldBeFalse)
	})
}
