package hosting

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/kkdai/youtube/v2"
	"github.com/vidplay-cli/vidplay/log"
)

// YouTube extracts manifests with the kkdai/youtube client.
type YouTube struct {
	client *youtube.Client
}

// NewYouTube returns an extractor whose page and player requests go through httpClient.
func NewYouTube(httpClient *http.Client) *YouTube {
	return &YouTube{client: &youtube.Client{HTTPClient: httpClient}}
}

// Manifest fetches video metadata and resolves a stream URL for every format.
// Formats whose URL cannot be resolved are skipped rather than failing the manifest.
func (y *YouTube) Manifest(ctx context.Context, id string) (*Manifest, error) {
	v, err := y.client.GetVideoContext(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch video %s: %w", id, err)
	}

	m := buildManifest(v, func(f *youtube.Format) (string, error) {
		return y.client.GetStreamURLContext(ctx, v, f)
	})

	if m.Empty() {
		return nil, fmt.Errorf("video %s: %w", id, ErrEmptyManifest)
	}

	log.With(log.Fields{
		"id":         id,
		"video_only": len(m.VideoOnly),
		"audio_only": len(m.AudioOnly),
		"muxed":      len(m.Muxed),
	}).Debug("fetched manifest")

	return m, nil
}

// buildManifest sorts formats into video-only, audio-only and muxed streams, keeping
// the order the service returned them in.
func buildManifest(v *youtube.Video, streamURL func(*youtube.Format) (string, error)) *Manifest {
	m := &Manifest{ID: v.ID, Title: v.Title, Duration: v.Duration}

	for i := range v.Formats {
		f := &v.Formats[i]

		url, err := streamURL(f)
		if err != nil {
			log.Debugf("skip itag %d of %s: %v", f.ItagNo, v.ID, err)
			continue
		}

		stream := Stream{
			URL:      url,
			Bitrate:  f.Bitrate,
			MimeType: f.MimeType,
			Itag:     f.ItagNo,
			Size:     f.ContentLength,
		}

		switch {
		case strings.HasPrefix(f.MimeType, "audio/"):
			m.AudioOnly = append(m.AudioOnly, stream)
		case strings.HasPrefix(f.MimeType, "video/"):
			vs := VideoStream{
				Stream:       stream,
				QualityLabel: f.QualityLabel,
				Width:        f.Width,
				Height:       f.Height,
				FPS:          f.FPS,
			}
			if f.AudioChannels > 0 {
				m.Muxed = append(m.Muxed, vs)
			} else {
				m.VideoOnly = append(m.VideoOnly, vs)
			}
		}
	}

	return m
}
