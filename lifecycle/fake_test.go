package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/vidplay-cli/vidplay/resolver"
	"github.com/vidplay-cli/vidplay/session"
	"github.com/vidplay-cli/vidplay/video"
)

type addedTrack struct {
	kind     string
	source   string
	selected bool
}

type fakeSession struct {
	mu sync.Mutex

	initErr    error
	neverPlays bool
	// playAfter is the number of State calls that report not playing.
	playAfter int
	// initGate, when set, holds every init until it is closed. initEntered is
	// closed once the first init is waiting on it.
	initGate    chan struct{}
	initEntered chan struct{}

	inits       []string
	initOptions []session.InitOptions
	initialized bool
	playing     bool
	stateCalls  int
	position    time.Duration
	seeks       []time.Duration
	plays       int
	pauses      int
	added       []addedTrack
	disposed    int
	done        chan struct{}
}

func newFakeSession() *fakeSession {
	return &fakeSession{done: make(chan struct{})}
}

func (f *fakeSession) init(kind, target string, opts session.InitOptions) error {
	f.mu.Lock()
	gate, entered := f.initGate, f.initEntered
	f.initEntered = nil
	f.mu.Unlock()

	if entered != nil {
		close(entered)
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.inits = append(f.inits, kind+":"+target)
	f.initOptions = append(f.initOptions, opts)
	if f.initErr != nil {
		return f.initErr
	}
	f.initialized = true
	f.playing = !opts.Paused
	return nil
}

func (f *fakeSession) InitFromNetwork(_ context.Context, url string, opts session.InitOptions) error {
	return f.init("network", url, opts)
}

func (f *fakeSession) InitFromFile(_ context.Context, path string, opts session.InitOptions) error {
	return f.init("file", path, opts)
}

func (f *fakeSession) InitFromAsset(_ context.Context, asset string, opts session.InitOptions) error {
	return f.init("asset", asset, opts)
}

func (f *fakeSession) add(kind, source string, selected bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, addedTrack{kind: kind, source: source, selected: selected})
	return nil
}

func (f *fakeSession) AddSubtitleFromFile(path, _ string, selected bool) error {
	return f.add("subtitle", path, selected)
}

func (f *fakeSession) AddSubtitleFromNetwork(url, _ string, selected bool) error {
	return f.add("subtitle", url, selected)
}

func (f *fakeSession) AddAudioFromFile(path, _ string, selected bool) error {
	return f.add("audio", path, selected)
}

func (f *fakeSession) AddAudioFromNetwork(url, _ string, selected bool) error {
	return f.add("audio", url, selected)
}

func (f *fakeSession) State() (session.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stateCalls++
	playing := f.playing && !f.neverPlays && f.stateCalls > f.playAfter
	return session.State{
		Initialized:  f.initialized,
		Playing:      playing,
		PlayingState: lo.Ternary(playing, session.Playing, session.Paused),
		Position:     f.position,
	}, nil
}

func (f *fakeSession) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plays++
	f.playing = true
	return nil
}

func (f *fakeSession) Pause() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pauses++
	f.playing = false
	return nil
}

func (f *fakeSession) SeekTo(position time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seeks = append(f.seeks, position)
	f.position = position
	return nil
}

func (f *fakeSession) Position() (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position, nil
}

func (f *fakeSession) Done() <-chan struct{} {
	return f.done
}

func (f *fakeSession) Dispose() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disposed++
	return nil
}

type sessionRecord struct {
	inits       []string
	initOptions []session.InitOptions
	seeks       []time.Duration
	plays       int
	pauses      int
	added       []addedTrack
	disposed    int
}

// snapshot copies the fields tests assert on.
func (f *fakeSession) snapshot() sessionRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return sessionRecord{
		inits:       append([]string(nil), f.inits...),
		initOptions: append([]session.InitOptions(nil), f.initOptions...),
		seeks:       append([]time.Duration(nil), f.seeks...),
		plays:       f.plays,
		pauses:      f.pauses,
		added:       append([]addedTrack(nil), f.added...),
		disposed:    f.disposed,
	}
}

type fakeLock struct {
	mu       sync.Mutex
	releases int
}

func (l *fakeLock) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.releases++
	return nil
}

func (l *fakeLock) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.releases
}

type recordingObserver struct {
	mu       sync.Mutex
	changes  []string
	errs     []error
	resolved int
	ready    int
	quality  []int
}

func (o *recordingObserver) OnStateChange(from, to State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.changes = append(o.changes, fmt.Sprintf("%s->%s", from, to))
}

func (o *recordingObserver) OnResolved(*resolver.Resolved) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resolved++
}

func (o *recordingObserver) OnReady(session.State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ready++
}

func (o *recordingObserver) OnError(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errs = append(o.errs, err)
}

func (o *recordingObserver) OnQualityChanged(index int, _ video.Rendition) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.quality = append(o.quality, index)
}

// disposingObserver disposes the controller as soon as resolution finishes.
type disposingObserver struct {
	*recordingObserver
	ctrl func() *Controller
}

func (o *disposingObserver) OnResolved(res *resolver.Resolved) {
	o.recordingObserver.OnResolved(res)
	_ = o.ctrl().Dispose()
}

func (o *recordingObserver) readyCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ready
}

func (o *recordingObserver) errors() []error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]error(nil), o.errs...)
}

func (o *recordingObserver) stateChanges() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.changes...)
}
