package lifecycle

import (
	"time"

	"github.com/spf13/viper"
	"github.com/vidplay-cli/vidplay/key"
	"github.com/vidplay-cli/vidplay/log"
	"github.com/vidplay-cli/vidplay/selector"
	"github.com/vidplay-cli/vidplay/video"
)

// Options configure a Controller.
type Options struct {
	// DisableAutoVisibilityPause stops SetVisibility from pausing while the
	// view is hidden and resuming when it is shown.
	DisableAutoVisibilityPause bool
	// StartOffset is seeked to once playback starts. Zero disables the seek.
	StartOffset time.Duration
	// AllowScreenSleep skips the wake lock.
	AllowScreenSleep bool

	QualityRules  []selector.Rule
	AudioRules    []selector.Rule
	SubtitleRules []selector.Rule

	Subtitles []video.AuxTrack
	Audios    []video.AuxTrack

	// StartTimeout bounds the wait for playback before the start seek. Zero means the default.
	StartTimeout time.Duration

	Headers     map[string]string
	Loop        bool
	StartPaused bool

	Observer Observer
}

// DefaultOptions reads the configured defaults. Rule expressions that fail to
// parse are logged and skipped.
func DefaultOptions() Options {
	return Options{
		DisableAutoVisibilityPause: !viper.GetBool(key.PlayerAutoVisibilityPause),
		AllowScreenSleep:           viper.GetBool(key.PlayerAllowScreenSleep),
		StartTimeout:               time.Duration(viper.GetInt(key.PlayerStartTimeout)) * time.Second,
		Loop:                       viper.GetBool(key.PlayerLoop),
		StartPaused:                viper.GetBool(key.PlayerStartPaused),
		QualityRules:               configuredRules(key.SelectQuality),
		AudioRules:                 configuredRules(key.SelectAudio),
		SubtitleRules:              configuredRules(key.SelectSubtitle),
	}
}

func configuredRules(k string) []selector.Rule {
	var rules []selector.Rule
	for _, expr := range viper.GetStringSlice(k) {
		rule, err := selector.Parse(expr)
		if err != nil {
			log.Warnf("%s: skipping rule %q: %v", k, expr, err)
			continue
		}
		rules = append(rules, rule)
	}
	return rules
}
