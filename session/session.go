// Package session drives the playback engine that renders a video.
// The engine is mpv, controlled over its JSON-IPC socket.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotInitialized is returned by operations that need loaded media.
var ErrNotInitialized = errors.New("session not initialized")

// ErrDisposed is returned by operations on a disposed session.
var ErrDisposed = errors.New("session disposed")

// PlayingState is what the engine is doing with the loaded media.
type PlayingState int

const (
	Idle PlayingState = iota
	Buffering
	Playing
	Paused
	Ended
)

func (s PlayingState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Buffering:
		return "buffering"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// State is a snapshot of the engine.
type State struct {
	Initialized  bool
	Playing      bool
	PlayingState PlayingState
	// AspectRatio is zero until the first video frame is decoded.
	AspectRatio float64
	Position    time.Duration
	Duration    time.Duration
}

// InitOptions tune how media is loaded.
type InitOptions struct {
	Title   string
	Headers map[string]string
	// AudioFile is played alongside a video-only stream.
	AudioFile string
	Paused    bool
	Loop      bool
}

// Session is a playback engine handle. Init* may be called again to replace
// the loaded media.
type Session interface {
	InitFromNetwork(ctx context.Context, url string, opts InitOptions) error
	InitFromFile(ctx context.Context, path string, opts InitOptions) error
	InitFromAsset(ctx context.Context, asset string, opts InitOptions) error

	AddSubtitleFromFile(path, label string, selected bool) error
	AddSubtitleFromNetwork(url, label string, selected bool) error
	AddAudioFromFile(path, label string, selected bool) error
	AddAudioFromNetwork(url, label string, selected bool) error

	State() (State, error)
	Play() error
	Pause() error
	SeekTo(position time.Duration) error
	Position() (time.Duration, error)

	// Done is closed when the engine exits on its own or is disposed.
	Done() <-chan struct{}
	Dispose() error
}
