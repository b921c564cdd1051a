// Package resolver turns a video descriptor into one concrete rendition the
// player can open, expanding hosted videos into their streams on the way.
package resolver

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/vidplay-cli/vidplay/filesystem"
	"github.com/vidplay-cli/vidplay/hosting"
	"github.com/vidplay-cli/vidplay/log"
	"github.com/vidplay-cli/vidplay/selector"
	"github.com/vidplay-cli/vidplay/video"
)

// HostingAudioLabel labels the audio track split off a hosted video.
const HostingAudioLabel = "Audio"

// Resolver picks the default rendition and makes it concrete.
type Resolver struct {
	Extractor    hosting.Extractor
	QualityRules []selector.Rule
}

// Resolved is the outcome of a resolution.
type Resolved struct {
	Title string
	// Rendition is concrete: its kind is never video_hosting.
	Rendition video.Rendition
	// Index of Rendition within Renditions.
	Index      int
	Renditions []video.Rendition
	// AudioTracks are extra tracks produced by resolution, such as a hosted video's audio.
	AudioTracks []video.AuxTrack
}

// Labels returns the labels of the candidate renditions.
func (r *Resolved) Labels() []string {
	return lo.Map(r.Renditions, func(rd video.Rendition, _ int) string { return rd.Label })
}

// Resolve validates d, picks its default rendition and resolves it. When quality
// enumeration replaces the rendition list, d is updated in place.
func (r *Resolver) Resolve(ctx context.Context, d *video.Descriptor) (*Resolved, error) {
	if err := d.Validate(); err != nil {
		source := ""
		if d != nil && len(d.Renditions) > 0 {
			source = d.Default().Source
		}
		return nil, &InvalidSourceError{Source: source, Err: err}
	}

	index := r.pick(d.Renditions)
	chosen := d.Renditions[index]

	if chosen.Kind != video.VideoHosting {
		log.With(log.Fields{"kind": chosen.Kind, "label": chosen.Label}).Debug("resolved rendition")
		return &Resolved{
			Title:      d.Title,
			Rendition:  chosen,
			Index:      index,
			Renditions: d.Renditions,
		}, nil
	}

	id, manifest, err := r.fetch(ctx, chosen.Source)
	if err != nil {
		return nil, err
	}

	resolved := &Resolved{Title: lo.Ternary(d.Title != "", d.Title, manifest.Title)}

	if d.FetchQualities && len(manifest.VideoOnly) > 0 {
		renditions, audio := qualities(manifest)
		d.ReplaceRenditions(renditions)

		resolved.Renditions = renditions
		resolved.Index = r.pick(renditions)
		resolved.Rendition = renditions[resolved.Index]
		if audio != "" {
			resolved.AudioTracks = []video.AuxTrack{{Label: HostingAudioLabel, Source: audio, Kind: video.Network}}
		}
	} else {
		if d.FetchQualities {
			log.Debugf("%s has no video-only streams, using the best muxed stream", id)
		}
		muxed, ok := manifest.BestMuxed().Get()
		if !ok {
			return nil, &ManifestFetchError{ID: id, Err: hosting.ErrEmptyManifest}
		}

		concrete := video.Rendition{
			Label:  lo.Ternary(chosen.Label != "", chosen.Label, muxed.QualityLabel),
			Source: muxed.URL,
			Kind:   video.Network,
		}

		resolved.Renditions = slices.Clone(d.Renditions)
		resolved.Renditions[index] = concrete
		resolved.Index = index
		resolved.Rendition = concrete
	}

	log.With(log.Fields{
		"id":         id,
		"label":      resolved.Rendition.Label,
		"renditions": len(resolved.Renditions),
	}).Info("resolved hosted video")

	return resolved, nil
}

// Concrete resolves a single rendition without selection or quality enumeration.
// Hosted renditions become their best muxed stream.
func (r *Resolver) Concrete(ctx context.Context, rendition video.Rendition) (video.Rendition, error) {
	if rendition.Kind != video.VideoHosting {
		return rendition, nil
	}

	id, manifest, err := r.fetch(ctx, rendition.Source)
	if err != nil {
		return video.Rendition{}, err
	}

	muxed, ok := manifest.BestMuxed().Get()
	if !ok {
		return video.Rendition{}, &ManifestFetchError{ID: id, Err: hosting.ErrEmptyManifest}
	}

	return video.Rendition{
		Label:  lo.Ternary(rendition.Label != "", rendition.Label, muxed.QualityLabel),
		Source: muxed.URL,
		Kind:   video.Network,
	}, nil
}

func (r *Resolver) pick(renditions []video.Rendition) int {
	if len(renditions) == 1 {
		return 0
	}
	labels := lo.Map(renditions, func(rd video.Rendition, _ int) string { return rd.Label })
	return selector.SelectDefault(r.QualityRules, labels).OrElse(0)
}

func (r *Resolver) fetch(ctx context.Context, source string) (string, *hosting.Manifest, error) {
	id, err := hosting.ExtractID(source)
	if err != nil {
		return "", nil, &InvalidSourceError{Source: source, Err: err}
	}

	if r.Extractor == nil {
		return id, nil, &ManifestFetchError{ID: id, Err: fmt.Errorf("no extractor configured")}
	}

	manifest, err := r.Extractor.Manifest(ctx, id)
	if err != nil {
		return id, nil, &ManifestFetchError{ID: id, Err: err}
	}
	if manifest.Empty() {
		return id, nil, &ManifestFetchError{ID: id, Err: hosting.ErrEmptyManifest}
	}

	return id, manifest, nil
}

// qualities builds one rendition per distinct video-only label, in first-seen
// order, each paired with the best audio stream.
func qualities(m *hosting.Manifest) ([]video.Rendition, string) {
	audio := ""
	if best, ok := m.BestAudio().Get(); ok {
		audio = best.URL
	}

	streams := lo.UniqBy(m.VideoOnly, func(s hosting.VideoStream) string { return s.QualityLabel })
	renditions := lo.Map(streams, func(s hosting.VideoStream, _ int) video.Rendition {
		return video.Rendition{
			Label:         s.QualityLabel,
			Source:        s.URL,
			Kind:          video.Network,
			AudioOverride: audio,
		}
	})

	return renditions, audio
}

// CheckTrack verifies that a file-kind track exists. Network tracks always pass.
func CheckTrack(t video.AuxTrack) error {
	switch t.Kind {
	case video.Network:
		return nil
	case video.File:
		ok, err := filesystem.IsRegularFile(t.Source)
		if err != nil || !ok {
			return &MissingFileError{Path: t.Source}
		}
		return nil
	default:
		return &InvalidSourceError{Source: t.Source, Err: fmt.Errorf("unsupported track kind %q", t.Kind)}
	}
}
