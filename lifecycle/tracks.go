package lifecycle

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/vidplay-cli/vidplay/resolver"
	"github.com/vidplay-cli/vidplay/selector"
	"github.com/vidplay-cli/vidplay/video"
)

type trackKind int

const (
	subtitleTracks trackKind = iota
	audioTracks
)

func (k trackKind) String() string {
	if k == subtitleTracks {
		return "subtitle"
	}
	return "audio"
}

func (c *Controller) attachSubtitles() {
	c.attach(subtitleTracks, c.opts.Subtitles, c.opts.SubtitleRules)
}

// attachAudios adds the resolved hosting audio, then the caller's tracks.
func (c *Controller) attachAudios(res *resolver.Resolved) {
	for _, t := range res.AudioTracks {
		c.attachOne(audioTracks, t, true)
	}
	c.attach(audioTracks, c.opts.Audios, c.opts.AudioRules)
}

// attach adds every track, selecting the one chosen by selection.
func (c *Controller) attach(kind trackKind, tracks []video.AuxTrack, rules []selector.Rule) {
	for i, selected := range selection(tracks, rules) {
		c.attachOne(kind, tracks[i], selected)
	}
}

// selection honours explicit Selected flags when any track carries one.
// Otherwise the rule chain picks at most one track.
func selection(tracks []video.AuxTrack, rules []selector.Rule) []bool {
	selected := make([]bool, len(tracks))

	if lo.SomeBy(tracks, func(t video.AuxTrack) bool { return t.Selected.IsPresent() }) {
		for i, t := range tracks {
			selected[i] = t.Selected.OrElse(false)
		}
		return selected
	}

	labels := lo.Map(tracks, func(t video.AuxTrack, _ int) string { return t.String() })
	if index, ok := selector.SelectDefault(rules, labels).Get(); ok {
		selected[index] = true
	}
	return selected
}

func (c *Controller) attachOne(kind trackKind, t video.AuxTrack, selected bool) {
	if c.guard() != nil {
		return
	}

	if err := resolver.CheckTrack(t); err != nil {
		c.report(err)
		return
	}

	var err error
	switch {
	case kind == subtitleTracks && t.Kind == video.File:
		err = c.sess.AddSubtitleFromFile(t.Source, t.Label, selected)
	case kind == subtitleTracks:
		err = c.sess.AddSubtitleFromNetwork(t.Source, t.Label, selected)
	case t.Kind == video.File:
		err = c.sess.AddAudioFromFile(t.Source, t.Label, selected)
	default:
		err = c.sess.AddAudioFromNetwork(t.Source, t.Label, selected)
	}

	if err != nil {
		c.report(fmt.Errorf("attach %s track %s: %w", kind, t, err))
	}
}
