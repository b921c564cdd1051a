//go:build !windows

package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// stallingBinary writes an engine stand-in that never opens its socket.
func stallingBinary(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mpv")
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexec sleep 30\n"), 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	return path
}

func TestMPVDisposeDuringStart(t *testing.T) {
	Convey("Given an engine that is still starting", t, func() {
		previous := Binary
		Binary = stallingBinary(t)
		Reset(func() { Binary = previous })

		m := &MPV{
			socketPath: filepath.Join(t.TempDir(), "mpv.sock"),
			exited:     make(chan struct{}),
			done:       make(chan struct{}),
		}

		result := make(chan error, 1)
		go func() {
			result <- m.InitFromFile(context.Background(), "/videos/v.mp4", InitOptions{})
		}()

		time.Sleep(50 * time.Millisecond)
		disposed := time.Now()
		So(m.Dispose(), ShouldBeNil)

		Convey("Init should fail with ErrDisposed and the process should be gone", func() {
			select {
			case err := <-result:
				So(err, ShouldEqual, ErrDisposed)
			case <-time.After(5 * time.Second):
				So("init never returned", ShouldBeEmpty)
			}

			So(time.Since(disposed), ShouldBeLessThan, quitTimeout)

			select {
			case <-m.exited:
			case <-time.After(time.Second):
				So("process still running", ShouldBeEmpty)
			}
			So(errors.Is(m.Play(), ErrDisposed), ShouldBeTrue)
		})
	})
}
