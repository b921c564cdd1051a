// Package lifecycle owns a playback session from resolution to disposal.
//
// A Controller resolves a descriptor, initializes the session on the chosen
// rendition, runs the post-init effects (start seek and track attachment),
// follows view visibility and releases everything on Dispose. Work that
// settles after Dispose never touches the session.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/vidplay-cli/vidplay/constant"
	"github.com/vidplay-cli/vidplay/log"
	"github.com/vidplay-cli/vidplay/resolver"
	"github.com/vidplay-cli/vidplay/session"
	"github.com/vidplay-cli/vidplay/video"
	"github.com/vidplay-cli/vidplay/wakelock"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrDisposed is returned by operations on a disposed controller.
	ErrDisposed = errors.New("controller disposed")
	// ErrStartTimeout is reported when playback does not start in time for the start seek.
	ErrStartTimeout = errors.New("timed out waiting for playback to start")
	// ErrNotReady is returned by controls used before initialization completes.
	ErrNotReady = errors.New("player is not ready")
	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("controller already started")
)

// Controller coordinates one session. It is safe for concurrent use.
type Controller struct {
	sess session.Session
	res  *resolver.Resolver
	lock wakelock.Lock
	obs  Observer
	opts Options

	pollInterval time.Duration

	mu       sync.Mutex
	state    State
	started  bool
	disposed bool
	err      error
	title    string
	resolved *resolver.Resolved
	current  int
	ctx      context.Context
	cancel   context.CancelFunc

	// switching serialises quality changes.
	switching sync.Mutex

	settled     chan struct{}
	settledOnce sync.Once
}

// New returns a controller that owns sess and lock. A nil lock means no wake
// lock is held. With AllowScreenSleep a given lock is released right away.
func New(sess session.Session, res *resolver.Resolver, lock wakelock.Lock, opts Options) *Controller {
	if lock != nil && opts.AllowScreenSleep {
		if err := lock.Release(); err != nil {
			log.Warnf("release wake lock: %v", err)
		}
		lock = nil
	}
	if lock == nil {
		lock = wakelock.Nop
	}
	if opts.StartTimeout <= 0 {
		opts.StartTimeout = constant.DefaultStartTimeout
	}
	if res == nil {
		res = &resolver.Resolver{}
	}
	if res.QualityRules == nil {
		res.QualityRules = opts.QualityRules
	}

	return &Controller{
		sess:         sess,
		res:          res,
		lock:         lock,
		obs:          lo.Ternary[Observer](opts.Observer != nil, opts.Observer, NopObserver{}),
		opts:         opts,
		pollInterval: constant.StartOffsetPollInterval,
		settled:      make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start begins resolution and initialization in the background and returns immediately.
func (c *Controller) Start(ctx context.Context, d *video.Descriptor) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.started = true
	c.ctx, c.cancel = context.WithCancel(ctx)
	runCtx := c.ctx
	from := c.transitionLocked(Initializing)
	c.mu.Unlock()

	c.notifyState(from, Initializing)

	go c.initialize(runCtx, d)
	return nil
}

// Wait blocks until initialization and the post-init effects settle, and
// returns the initialization error, if any.
func (c *Controller) Wait() error {
	<-c.settled

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Controller) settle() {
	c.settledOnce.Do(func() { close(c.settled) })
}

func (c *Controller) initialize(ctx context.Context, d *video.Descriptor) {
	res, err := c.res.Resolve(ctx, d)
	if err != nil {
		c.fail(err)
		return
	}

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		c.settle()
		return
	}
	c.resolved = res
	c.current = res.Index
	c.title = lo.Ternary(res.Title != "", res.Title, d.DisplayTitle())
	c.mu.Unlock()

	c.obs.OnResolved(res)

	if err := c.open(ctx, res.Rendition, c.opts.StartPaused); err != nil {
		c.fail(err)
		return
	}

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		c.settle()
		return
	}
	from := c.transitionLocked(Ready)
	c.mu.Unlock()

	c.notifyState(from, Ready)

	state, err := c.sess.State()
	if err != nil {
		log.Warnf("read session state: %v", err)
	}
	c.obs.OnReady(state)

	log.With(log.Fields{"title": c.title, "rendition": res.Rendition.Label}).Info("player ready")

	c.runEffects(ctx, res)
	c.settle()
}

// fail records an init error and releases the wake lock. Failures after
// Dispose are dropped.
func (c *Controller) fail(err error) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		c.settle()
		return
	}
	c.err = err
	from := c.transitionLocked(Uninitialized)
	c.mu.Unlock()

	log.Errorf("initialize player: %v", err)

	if releaseErr := c.lock.Release(); releaseErr != nil {
		log.Warnf("release wake lock: %v", releaseErr)
	}

	c.notifyState(from, Uninitialized)
	c.obs.OnError(err)
	c.settle()
}

// open initializes the session on a concrete rendition.
func (c *Controller) open(ctx context.Context, r video.Rendition, paused bool) error {
	if err := c.guard(); err != nil {
		return err
	}

	opts := session.InitOptions{
		Title:     c.currentTitle(),
		Headers:   c.opts.Headers,
		AudioFile: r.AudioOverride,
		Paused:    paused,
		Loop:      c.opts.Loop,
	}

	switch r.Kind {
	case video.Network:
		return c.sess.InitFromNetwork(ctx, r.Source, opts)
	case video.File:
		return c.sess.InitFromFile(ctx, r.Source, opts)
	case video.Asset:
		return c.sess.InitFromAsset(ctx, r.Source, opts)
	case video.VideoHosting:
		return &resolver.InvalidSourceError{Source: r.Source, Err: errors.New("hosted rendition was not resolved")}
	default:
		return &resolver.InvalidSourceError{Source: r.Source, Err: fmt.Errorf("unknown kind %q", r.Kind)}
	}
}

func (c *Controller) currentTitle() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title
}

// guard returns ErrDisposed once Dispose has been called.
func (c *Controller) guard() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return ErrDisposed
	}
	return nil
}

// runEffects runs the start seek and both track attachments concurrently. Each
// effect reports its own failures to the observer.
func (c *Controller) runEffects(ctx context.Context, res *resolver.Resolved) {
	var g errgroup.Group

	if c.opts.StartOffset > 0 {
		g.Go(func() error {
			if err := c.seekWhenPlaying(ctx, c.opts.StartOffset); err != nil {
				c.report(err)
			}
			return nil
		})
	}

	g.Go(func() error {
		c.attachSubtitles()
		return nil
	})

	g.Go(func() error {
		c.attachAudios(res)
		return nil
	})

	_ = g.Wait()
}

// report forwards an effect failure unless the controller is disposed.
func (c *Controller) report(err error) {
	if err == nil || errors.Is(err, ErrDisposed) || c.guard() != nil {
		return
	}
	log.Warn(err)
	c.obs.OnError(err)
}

// seekWhenPlaying polls until the session reports playback, then seeks to
// position. It gives up with ErrStartTimeout after StartTimeout.
func (c *Controller) seekWhenPlaying(ctx context.Context, position time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.StartTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		if err := c.guard(); err != nil {
			return err
		}

		state, err := c.sess.State()
		if err == nil && state.Playing {
			break
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrStartTimeout
			}
			return ErrDisposed
		case <-ticker.C:
		}
	}

	if err := c.guard(); err != nil {
		return err
	}
	if err := c.sess.SeekTo(position); err != nil {
		return fmt.Errorf("seek to %s: %w", position, err)
	}

	c.setPlaybackState(Playing)
	return nil
}

// SetVisibility pauses when fraction is 0 and plays when it is positive.
// Every call is forwarded, so a repeated visibility undoes a manual change.
// Calls before Ready, after Dispose or with DisableAutoVisibilityPause do nothing.
func (c *Controller) SetVisibility(fraction float64) {
	if c.opts.DisableAutoVisibilityPause {
		return
	}

	c.mu.Lock()
	if c.disposed || !c.state.active() {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	var err error
	if fraction > 0 {
		err = c.Play()
	} else {
		err = c.Pause()
	}
	if err != nil {
		c.report(fmt.Errorf("visibility change: %w", err))
	}
}

func (c *Controller) controllable() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return ErrDisposed
	}
	if !c.state.active() {
		return ErrNotReady
	}
	return nil
}

// Play resumes playback.
func (c *Controller) Play() error {
	if err := c.controllable(); err != nil {
		return err
	}
	if err := c.sess.Play(); err != nil {
		return err
	}
	c.setPlaybackState(Playing)
	return nil
}

// Pause suspends playback.
func (c *Controller) Pause() error {
	if err := c.controllable(); err != nil {
		return err
	}
	if err := c.sess.Pause(); err != nil {
		return err
	}
	c.setPlaybackState(Paused)
	return nil
}

// TogglePlay pauses a playing session and plays a paused one.
func (c *Controller) TogglePlay() error {
	if err := c.controllable(); err != nil {
		return err
	}

	state, err := c.sess.State()
	if err != nil {
		return err
	}
	if state.Playing {
		return c.Pause()
	}
	return c.Play()
}

// Seek moves playback to an absolute position.
func (c *Controller) Seek(position time.Duration) error {
	if err := c.controllable(); err != nil {
		return err
	}
	return c.sess.SeekTo(position)
}

// Refresh reads the session's playing state into the controller state, for
// pause changes made in the engine itself.
func (c *Controller) Refresh() error {
	if err := c.controllable(); err != nil {
		return err
	}

	state, err := c.sess.State()
	if err != nil {
		return err
	}

	switch state.PlayingState {
	case session.Playing:
		c.setPlaybackState(Playing)
	case session.Paused, session.Ended:
		c.setPlaybackState(Paused)
	}
	return nil
}

func (c *Controller) setPlaybackState(to State) {
	c.mu.Lock()
	if c.disposed || !c.state.active() || c.state == to {
		c.mu.Unlock()
		return
	}
	from := c.transitionLocked(to)
	c.mu.Unlock()

	c.notifyState(from, to)
}

// SelectQuality re-initializes the session on another rendition and restores
// the playback position.
func (c *Controller) SelectQuality(index int) error {
	c.switching.Lock()
	defer c.switching.Unlock()

	if err := c.controllable(); err != nil {
		return err
	}

	c.mu.Lock()
	resolved := c.resolved
	renditions := resolved.Renditions
	current := c.current
	ctx := c.ctx
	c.mu.Unlock()

	if index < 0 || index >= len(renditions) {
		return fmt.Errorf("quality %d out of range [0, %d)", index, len(renditions))
	}
	if index == current {
		return nil
	}

	position, err := c.sess.Position()
	if err != nil {
		position = 0
	}
	state, err := c.sess.State()
	paused := err == nil && !state.Playing

	rendition, err := c.res.Concrete(ctx, renditions[index])
	if err != nil {
		return err
	}

	if err := c.open(ctx, rendition, paused); err != nil {
		return err
	}

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	c.current = index
	c.mu.Unlock()

	// The reload drops tracks added to the previous file.
	c.attachSubtitles()
	c.attachAudios(resolved)

	c.obs.OnQualityChanged(index, rendition)
	log.Infof("switched quality to %s", rendition)

	if position > 0 && !paused {
		return c.seekWhenPlaying(ctx, position)
	}
	if position > 0 {
		return c.sess.SeekTo(position)
	}
	return nil
}

// Renditions returns the candidate renditions after resolution.
func (c *Controller) Renditions() []video.Rendition {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resolved == nil {
		return nil
	}
	return slices.Clone(c.resolved.Renditions)
}

// Current returns the index of the active rendition once resolved.
func (c *Controller) Current() mo.Option[int] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resolved == nil {
		return mo.None[int]()
	}
	return mo.Some(c.current)
}

// Dispose releases the session and the wake lock and cancels in-flight work.
// Only the first call does anything.
func (c *Controller) Dispose() error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return nil
	}
	c.disposed = true
	if !c.state.active() && c.err == nil {
		c.err = ErrDisposed
	}
	started := c.started
	from := c.transitionLocked(Disposed)
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	sessErr := c.sess.Dispose()
	lockErr := c.lock.Release()

	// A started controller settles from its init goroutine.
	if !started {
		c.settle()
	}

	c.notifyState(from, Disposed)
	log.Debug("player disposed")

	return errors.Join(sessErr, lockErr)
}

func (c *Controller) transitionLocked(to State) State {
	from := c.state
	c.state = to
	return from
}

func (c *Controller) notifyState(from, to State) {
	if from != to {
		c.obs.OnStateChange(from, to)
	}
}
