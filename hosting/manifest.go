package hosting

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// ErrEmptyManifest is returned when a manifest carries no playable stream of the requested shape.
var ErrEmptyManifest = errors.New("manifest has no streams")

// Stream is one downloadable stream of a hosted video.
type Stream struct {
	URL      string `json:"url"`
	Bitrate  int    `json:"bitrate"`
	MimeType string `json:"mime_type"`
	Itag     int    `json:"itag"`
	Size     int64  `json:"size,omitempty"`
}

// VideoStream is a stream with picture, muxed or video-only.
type VideoStream struct {
	Stream
	QualityLabel string `json:"quality_label"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	FPS          int    `json:"fps,omitempty"`
}

// Manifest enumerates the streams available for one hosted video.
type Manifest struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Duration time.Duration `json:"duration"`

	VideoOnly []VideoStream `json:"video_only"`
	AudioOnly []Stream      `json:"audio_only"`
	Muxed     []VideoStream `json:"muxed"`
}

// Empty reports whether the manifest has no stream at all.
func (m *Manifest) Empty() bool {
	return m == nil || len(m.VideoOnly)+len(m.AudioOnly)+len(m.Muxed) == 0
}

// BestAudio returns the audio-only stream with the highest bitrate. Ties keep the first.
func (m *Manifest) BestAudio() mo.Option[Stream] {
	if m == nil || len(m.AudioOnly) == 0 {
		return mo.None[Stream]()
	}
	return mo.Some(lo.MaxBy(m.AudioOnly, func(a, b Stream) bool { return a.Bitrate > b.Bitrate }))
}

// BestMuxed returns the muxed stream with the highest bitrate. Ties keep the first.
func (m *Manifest) BestMuxed() mo.Option[VideoStream] {
	if m == nil || len(m.Muxed) == 0 {
		return mo.None[VideoStream]()
	}
	return mo.Some(lo.MaxBy(m.Muxed, func(a, b VideoStream) bool { return a.Bitrate > b.Bitrate }))
}

// Extractor fetches the manifest of a hosted video by canonical identifier.
type Extractor interface {
	Manifest(ctx context.Context, id string) (*Manifest, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, id string) (*Manifest, error)

func (f ExtractorFunc) Manifest(ctx context.Context, id string) (*Manifest, error) {
	return f(ctx, id)
}
