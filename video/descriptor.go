package video

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/vidplay-cli/vidplay/util"
)

// Descriptor is the caller-supplied description of one playable video.
type Descriptor struct {
	Title string `json:"title,omitempty" mapstructure:"title"`
	// Renditions is ordered; the first element is the fallback default.
	Renditions []Rendition `json:"renditions" mapstructure:"renditions" jsonschema:"required,minItems=1"`
	// FetchQualities enumerates every hosted quality instead of using one muxed stream.
	FetchQualities bool `json:"fetch_qualities,omitempty" mapstructure:"fetch_qualities"`

	Subtitles []AuxTrack `json:"subtitles,omitempty" mapstructure:"subtitles"`
	Audios    []AuxTrack `json:"audios,omitempty" mapstructure:"audios"`
}

// Single returns a descriptor with one unlabeled rendition.
func Single(source string, kind Kind) *Descriptor {
	return &Descriptor{
		Renditions: []Rendition{{Label: "Default", Source: source, Kind: kind}},
	}
}

// Validate requires at least one rendition and validates every rendition and track.
func (d *Descriptor) Validate() error {
	if d == nil || len(d.Renditions) == 0 {
		return errors.New("descriptor has no renditions")
	}
	for i, r := range d.Renditions {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("rendition %d: %w", i, err)
		}
	}
	for _, t := range lo.Flatten([][]AuxTrack{d.Subtitles, d.Audios}) {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Default returns the first rendition.
func (d *Descriptor) Default() Rendition {
	return d.Renditions[0]
}

// Labels returns the rendition labels in order.
func (d *Descriptor) Labels() []string {
	return lo.Map(d.Renditions, func(r Rendition, _ int) string { return r.Label })
}

// DisplayTitle returns Title or a name derived from the default source.
func (d *Descriptor) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return util.FileStem(d.Default().Source)
}

// ReplaceRenditions swaps the rendition list, as quality enumeration and the
// interactive quality picker do once a hosted video is resolved.
func (d *Descriptor) ReplaceRenditions(renditions []Rendition) {
	d.Renditions = renditions
}
