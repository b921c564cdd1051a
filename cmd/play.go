package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidplay-cli/vidplay/color"
	"github.com/vidplay-cli/vidplay/constant"
	"github.com/vidplay-cli/vidplay/history"
	"github.com/vidplay-cli/vidplay/hosting"
	"github.com/vidplay-cli/vidplay/key"
	"github.com/vidplay-cli/vidplay/lifecycle"
	"github.com/vidplay-cli/vidplay/log"
	"github.com/vidplay-cli/vidplay/resolver"
	"github.com/vidplay-cli/vidplay/selector"
	"github.com/vidplay-cli/vidplay/session"
	"github.com/vidplay-cli/vidplay/style"
	"github.com/vidplay-cli/vidplay/video"
	"github.com/vidplay-cli/vidplay/wakelock"
)

const progressInterval = 5 * time.Second

type playOptions struct {
	kind          string
	descriptor    string
	qualityRules  []string
	audioRules    []string
	subtitleRules []string
	subtitles     []string
	audios        []string
	start         time.Duration
	pick          bool
	resume        bool
	noAutoPause   bool
}

func playOptionsFromFlags(cmd *cobra.Command) (playOptions, error) {
	flags := cmd.Flags()

	o := playOptions{
		kind:          lo.Must(flags.GetString("kind")),
		descriptor:    lo.Must(flags.GetString("descriptor")),
		qualityRules:  lo.Must(flags.GetStringSlice("quality")),
		audioRules:    lo.Must(flags.GetStringSlice("audio-rule")),
		subtitleRules: lo.Must(flags.GetStringSlice("subtitle-rule")),
		subtitles:     lo.Must(flags.GetStringSlice("subtitle")),
		audios:        lo.Must(flags.GetStringSlice("audio")),
		start:         lo.Must(flags.GetDuration("start")),
		pick:          lo.Must(flags.GetBool("pick")),
		resume:        lo.Must(flags.GetBool("continue")),
		noAutoPause:   lo.Must(flags.GetBool("no-auto-pause")),
	}

	if o.descriptor != "" && o.kind != "" {
		return o, errors.New("--kind cannot be combined with --descriptor")
	}
	return o, nil
}

// buildDescriptor reads the descriptor file or wraps the positional source.
func buildDescriptor(args []string, o playOptions) (*video.Descriptor, error) {
	var d *video.Descriptor

	switch {
	case o.descriptor != "":
		loaded, err := video.LoadDescriptor(o.descriptor)
		if err != nil {
			return nil, err
		}
		d = loaded
	case len(args) > 0:
		kind := video.InferKind(args[0])
		if o.kind != "" {
			parsed, err := video.ParseKind(o.kind)
			if err != nil {
				return nil, err
			}
			kind = parsed
		}
		d = video.Single(args[0], kind)
	default:
		return nil, errors.New("a source or --descriptor is required")
	}

	if viper.GetBool(key.HostingFetchQualities) {
		d.FetchQualities = true
	}

	for _, s := range o.subtitles {
		d.Subtitles = append(d.Subtitles, video.NewAuxTrack(s))
	}
	for _, a := range o.audios {
		d.Audios = append(d.Audios, video.NewAuxTrack(a))
	}

	return d, d.Validate()
}

// controllerOptions layers flags over the configured defaults.
func controllerOptions(d *video.Descriptor, o playOptions) (lifecycle.Options, error) {
	opts := lifecycle.DefaultOptions()

	for _, r := range []struct {
		exprs []string
		dst   *[]selector.Rule
	}{
		{o.qualityRules, &opts.QualityRules},
		{o.audioRules, &opts.AudioRules},
		{o.subtitleRules, &opts.SubtitleRules},
	} {
		if len(r.exprs) == 0 {
			continue
		}
		rules, err := selector.ParseAll(r.exprs)
		if err != nil {
			return opts, err
		}
		*r.dst = rules
	}

	if o.noAutoPause {
		opts.DisableAutoVisibilityPause = true
	}

	opts.StartOffset = o.start
	opts.Subtitles = d.Subtitles
	opts.Audios = d.Audios

	return opts, nil
}

// pickQuality resolves d up front and lets the user choose a rendition. The
// descriptor is rewritten to the concrete renditions with the choice pinned.
func pickQuality(ctx context.Context, res *resolver.Resolver, d *video.Descriptor, opts *lifecycle.Options) error {
	resolved, err := res.Resolve(ctx, d)
	if err != nil {
		return err
	}
	if len(resolved.Renditions) < 2 {
		return nil
	}

	options := lo.Map(resolved.Renditions, func(r video.Rendition, _ int) string { return r.String() })

	var index int
	prompt := &survey.Select{
		Message: "Quality",
		Options: options,
		Default: options[resolved.Index],
	}
	if err := survey.AskOne(prompt, &index); err != nil {
		return err
	}

	d.Title = resolved.Title
	d.ReplaceRenditions(resolved.Renditions)
	d.FetchQualities = false

	pinned := []selector.Rule{selector.Custom(func(i int, _ string) bool { return i == index })}
	res.QualityRules = pinned
	opts.QualityRules = pinned
	return nil
}

// cliObserver reports controller progress on the terminal and wires engine
// events back into the controller.
type cliObserver struct {
	lifecycle.NopObserver

	sess *session.MPV
	ctrl *lifecycle.Controller

	mu       sync.Mutex
	listener *session.EventListener
}

func (o *cliObserver) OnResolved(res *resolver.Resolved) {
	title := lo.Ternary(res.Title != "", res.Title, res.Rendition.Source)
	fmt.Printf("%s %s %s\n", style.Fg(color.Purple)("▶"), style.Bold(title), style.Faint(res.Rendition.String()))
}

func (o *cliObserver) OnReady(session.State) {
	listener, err := o.sess.Events(func(e session.Event) {
		if fraction, ok := e.Visibility(); ok {
			o.ctrl.SetVisibility(fraction)
			return
		}
		if e.Name == session.PropertyPause || e.Name == session.PropertyEOFReached {
			_ = o.ctrl.Refresh()
		}
	})
	if err != nil {
		log.Warnf("player events unavailable: %v", err)
		return
	}

	o.mu.Lock()
	o.listener = listener
	o.mu.Unlock()
}

func (o *cliObserver) OnError(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", style.Fg(color.Yellow)("!"), err)
}

func (o *cliObserver) OnQualityChanged(_ int, r video.Rendition) {
	fmt.Printf("%s switched to %s\n", style.Success, r)
}

func (o *cliObserver) stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.listener != nil {
		o.listener.Stop()
	}
}

// progress remembers the last position seen while the engine was reachable.
type progress struct {
	mu       sync.Mutex
	position time.Duration
	duration time.Duration
}

func (p *progress) track(ctx context.Context, sess session.Session) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sess.Done():
			return
		case <-ticker.C:
			p.sample(sess)
		}
	}
}

func (p *progress) sample(sess session.Session) {
	state, err := sess.State()
	if err != nil || !state.Initialized {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = state.Position
	if state.Duration > 0 {
		p.duration = state.Duration
	}
}

func (p *progress) get() (time.Duration, time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position, p.duration
}

func play(ctx context.Context, args []string, o playOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := buildDescriptor(args, o)
	if err != nil {
		return err
	}

	opts, err := controllerOptions(d, o)
	if err != nil {
		return err
	}

	historyKey := d.Default().Source
	if o.resume && o.start == 0 {
		if entry, ok := history.Get(historyKey).Get(); ok {
			opts.StartOffset = entry.Position
			log.Infof("resuming %s at %s", historyKey, entry.Position)
		}
	}

	res := &resolver.Resolver{Extractor: hosting.New(), QualityRules: opts.QualityRules}

	if o.pick {
		if err := pickQuality(ctx, res, d, &opts); err != nil {
			return err
		}
	}

	lock := wakelock.Nop
	if !opts.AllowScreenSleep {
		lock = wakelock.Acquire(constant.Vidplay, "Playing video")
	}

	sess := session.NewMPV()
	observer := &cliObserver{sess: sess}
	opts.Observer = observer

	ctrl := lifecycle.New(sess, res, lock, opts)
	observer.ctrl = ctrl
	defer observer.stop()

	if err := ctrl.Start(ctx, d); err != nil {
		return err
	}

	p := &progress{}
	go p.track(ctx, sess)

	if err := ctrl.Wait(); err != nil {
		_ = ctrl.Dispose()
		return err
	}

	select {
	case <-sess.Done():
	case <-ctx.Done():
		p.sample(sess)
	}

	if err := ctrl.Dispose(); err != nil {
		log.Warnf("dispose player: %v", err)
	}

	if viper.GetBool(key.HistorySave) {
		position, duration := p.get()
		if err := history.Save(historyKey, position, duration); err != nil {
			log.Warnf("save history: %v", err)
		}
	}

	return nil
}
