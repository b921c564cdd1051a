package video

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Rendition is one candidate playable stream of a video.
type Rendition struct {
	// Label is the human readable quality or track name, e.g. "1080p".
	Label string `json:"label,omitempty" mapstructure:"label"`
	// Source is a path, asset path, URL or hosting identifier depending on Kind.
	Source string `json:"source" mapstructure:"source" jsonschema:"required"`
	Kind   Kind   `json:"kind" mapstructure:"kind" jsonschema:"required,enum=network,enum=file,enum=asset,enum=video_hosting"`
	// AudioOverride is a separate audio stream played alongside a video-only rendition.
	AudioOverride string `json:"audio_override,omitempty" mapstructure:"audio_override"`
}

func (r Rendition) String() string {
	if r.Label != "" {
		return r.Label
	}
	return r.Source
}

// Validate checks that Source is set and Kind is known.
func (r Rendition) Validate() error {
	if r.Source == "" {
		return errors.New("rendition source is empty")
	}
	if !r.Kind.Valid() {
		return fmt.Errorf("rendition %q: unknown source kind %q", r.Source, r.Kind)
	}
	return nil
}

// AuxTrack is a subtitle or audio track attached to the session after initialization.
type AuxTrack struct {
	Label  string `json:"label,omitempty" mapstructure:"label"`
	Source string `json:"source" mapstructure:"source" jsonschema:"required"`
	// Kind is either Network or File.
	Kind Kind `json:"kind" mapstructure:"kind" jsonschema:"enum=network,enum=file"`
	// Selected forces the track on or off. Absent leaves the choice to the rule chain.
	Selected mo.Option[bool] `json:"selected,omitempty" mapstructure:"-"`
}

func (t AuxTrack) String() string {
	if t.Label != "" {
		return t.Label
	}
	return t.Source
}

// Validate checks the locator and restricts Kind to network and file.
func (t AuxTrack) Validate() error {
	if t.Source == "" {
		return errors.New("track source is empty")
	}
	if t.Kind != Network && t.Kind != File {
		return fmt.Errorf("track %q: kind must be network or file, got %q", t.Source, t.Kind)
	}
	return nil
}

// NewAuxTrack builds a track, inferring network vs file from the locator.
func NewAuxTrack(source string) AuxTrack {
	kind := lo.Ternary(InferKind(source) == Network, Network, File)
	return AuxTrack{Source: source, Kind: kind}
}
