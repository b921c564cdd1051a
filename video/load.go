package video

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/vidplay-cli/vidplay/filesystem"
)

// trackFile mirrors AuxTrack with a plain pointer for the optional selection,
// which mapstructure can decode.
type trackFile struct {
	Label    string `mapstructure:"label"`
	Source   string `mapstructure:"source"`
	Kind     Kind   `mapstructure:"kind"`
	Selected *bool  `mapstructure:"selected"`
}

type descriptorFile struct {
	Title          string      `mapstructure:"title"`
	Renditions     []Rendition `mapstructure:"renditions"`
	FetchQualities bool        `mapstructure:"fetch_qualities"`
	Subtitles      []trackFile `mapstructure:"subtitles"`
	Audios         []trackFile `mapstructure:"audios"`
}

// LoadDescriptor reads a descriptor from a json, toml or yaml file.
// Rendition kinds may be omitted and are then inferred from the source.
func LoadDescriptor(path string) (*Descriptor, error) {
	v := viper.New()
	v.SetFs(filesystem.API())
	v.SetConfigFile(path)
	v.SetConfigType(strings.TrimPrefix(filepath.Ext(path), "."))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read descriptor %s: %w", path, err)
	}

	var raw descriptorFile
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("decode descriptor %s: %w", path, err)
	}

	d := &Descriptor{
		Title:          raw.Title,
		Renditions:     raw.Renditions,
		FetchQualities: raw.FetchQualities,
		Subtitles:      convertTracks(raw.Subtitles),
		Audios:         convertTracks(raw.Audios),
	}
	for i := range d.Renditions {
		if d.Renditions[i].Kind == "" {
			d.Renditions[i].Kind = InferKind(d.Renditions[i].Source)
		} else if k, err := ParseKind(string(d.Renditions[i].Kind)); err == nil {
			d.Renditions[i].Kind = k
		}
	}

	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("descriptor %s: %w", path, err)
	}
	return d, nil
}

func convertTracks(in []trackFile) []AuxTrack {
	out := make([]AuxTrack, 0, len(in))
	for _, t := range in {
		track := AuxTrack{Label: t.Label, Source: t.Source, Kind: t.Kind}
		if track.Kind == "" {
			track.Kind = NewAuxTrack(t.Source).Kind
		}
		if t.Selected != nil {
			track.Selected = mo.Some(*t.Selected)
		}
		out = append(out, track)
	}
	return out
}
