package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vidplay-cli/vidplay/constant"
	"github.com/vidplay-cli/vidplay/log"
	"github.com/vidplay-cli/vidplay/where"
)

// Binary is the engine executable looked up on PATH.
var Binary = "mpv"

const (
	socketWaitDelay = 100 * time.Millisecond
	quitTimeout     = 3 * time.Second
)

// MPV implements Session by spawning mpv with an IPC server.
type MPV struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}

	// ipcMu serialises socket requests.
	ipcMu sync.Mutex
	// mu guards the lifecycle fields below.
	mu        sync.Mutex
	started   bool
	disposed  bool
	audioFile string
	done      chan struct{}
	closeDone sync.Once
}

// NewMPV returns a session that starts mpv on first Init.
func NewMPV() *MPV {
	return &MPV{
		socketPath: filepath.Join(where.Temp(), fmt.Sprintf("%s-%s.sock", constant.Vidplay, uuid.NewString())),
		exited:     make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

func (m *MPV) InitFromNetwork(ctx context.Context, rawURL string, opts InitOptions) error {
	target, err := sanitizeNetworkTarget(rawURL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}
	return m.load(ctx, target, opts)
}

func (m *MPV) InitFromFile(ctx context.Context, path string, opts InitOptions) error {
	target, err := sanitizeFileTarget(path)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}
	return m.load(ctx, target, opts)
}

// InitFromAsset plays a file relative to the assets directory.
func (m *MPV) InitFromAsset(ctx context.Context, asset string, opts InitOptions) error {
	path, err := assetPath(where.Assets(), asset)
	if err != nil {
		return err
	}
	return m.InitFromFile(ctx, path, opts)
}

func assetPath(dir, asset string) (string, error) {
	clean := filepath.Clean("/" + filepath.ToSlash(asset))
	if clean == "/" {
		return "", errors.New("empty asset path")
	}
	return filepath.Join(dir, filepath.FromSlash(clean)), nil
}

func (m *MPV) load(ctx context.Context, target string, opts InitOptions) error {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return ErrDisposed
	}
	started := m.started
	m.mu.Unlock()

	if started {
		return m.reload(target, opts)
	}
	return m.start(ctx, target, opts)
}

func (m *MPV) start(ctx context.Context, target string, opts InitOptions) error {
	cmd := exec.Command(Binary, buildArgs(m.socketPath, target, opts)...)
	cmd.SysProcAttr = sysProcAttr()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", Binary, err)
	}

	go func() {
		_ = cmd.Wait()
		close(m.exited)
		m.closeDone.Do(func() { close(m.done) })
	}()

	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		_ = killProcess(cmd)
		_ = os.Remove(m.socketPath)
		return ErrDisposed
	}
	m.cmd = cmd
	m.mu.Unlock()

	socketErr := m.waitForSocket(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	// Dispose owns the process once it has run.
	if m.disposed {
		return ErrDisposed
	}

	if socketErr != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing %s: socket never became ready", Binary)
			_ = killProcess(cmd)
		}
		return fmt.Errorf("%s socket not ready: %w", Binary, socketErr)
	}

	m.started = true
	m.audioFile = opts.AudioFile

	log.With(log.Fields{"socket": m.socketPath, "title": opts.Title}).Info("mpv started")
	return nil
}

// reload replaces the loaded media in the running engine.
func (m *MPV) reload(target string, opts InitOptions) error {
	steps := [][]any{
		{"set_property", "options/audio-files", opts.AudioFile},
		{"set_property", "force-media-title", sanitizeTitle(opts.Title)},
		{"set_property", "http-header-fields", headerFields(opts.Headers)},
		{"set_property", "loop-file", loopValue(opts.Loop)},
		{"loadfile", target, "replace"},
		{"set_property", "pause", opts.Paused},
	}

	for _, step := range steps {
		if _, err := m.sendCommand(step...); err != nil {
			return fmt.Errorf("reload: %w", err)
		}
	}

	m.mu.Lock()
	m.audioFile = opts.AudioFile
	m.mu.Unlock()
	return nil
}

// buildArgs returns the mpv command line. Only IPC, title and per-media options
// are passed so the user's mpv.conf stays in charge of rendering.
func buildArgs(socket, target string, opts InitOptions) []string {
	title := sanitizeTitle(opts.Title)
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--input-ipc-server=" + socket,
		"--force-window=yes",
		"--keep-open=yes",
	}

	if title != "" {
		args = append(args, "--force-media-title="+title, "--title="+title)
	}
	if fields := headerFields(opts.Headers); fields != "" {
		args = append(args, "--http-header-fields="+fields)
	}
	if opts.AudioFile != "" {
		args = append(args, "--audio-file="+opts.AudioFile)
	}
	if opts.Paused {
		args = append(args, "--pause")
	}
	if opts.Loop {
		args = append(args, "--loop-file=inf")
	}

	// Terminates option parsing so a target can never be read as a flag.
	return append(args, "--", target)
}

func headerFields(headers map[string]string) string {
	if len(headers) == 0 {
		return ""
	}

	names := make([]string, 0, len(headers))
	for k := range headers {
		names = append(names, k)
	}
	sort.Strings(names)

	fields := make([]string, 0, len(names))
	for _, k := range names {
		fields = append(fields, fmt.Sprintf("%s: %s", k, strings.ReplaceAll(headers[k], ",", "%2C")))
	}
	return strings.Join(fields, ",")
}

func loopValue(loop bool) string {
	if loop {
		return "inf"
	}
	return "no"
}

// waitForSocket polls until the IPC socket accepts connections.
func (m *MPV) waitForSocket(ctx context.Context) error {
	ticker := time.NewTicker(socketWaitDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.exited:
			return errors.New("mpv exited before socket was ready")
		case <-ticker.C:
			conn, err := net.Dial("unix", m.socketPath)
			if err == nil {
				conn.Close()
				return nil
			}
		}
	}
}

func (m *MPV) ready() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.disposed:
		return ErrDisposed
	case !m.started:
		return ErrNotInitialized
	default:
		return nil
	}
}

func (m *MPV) addTrack(command, target, label string, selected bool) error {
	if err := m.ready(); err != nil {
		return err
	}

	flag := "auto"
	if selected {
		flag = "select"
	}

	args := []any{command, target, flag}
	if label != "" {
		args = append(args, label)
	}

	_, err := m.sendCommand(args...)
	return err
}

func (m *MPV) AddSubtitleFromFile(path, label string, selected bool) error {
	target, err := sanitizeFileTarget(path)
	if err != nil {
		return err
	}
	return m.addTrack("sub-add", target, label, selected)
}

func (m *MPV) AddSubtitleFromNetwork(rawURL, label string, selected bool) error {
	target, err := sanitizeNetworkTarget(rawURL)
	if err != nil {
		return err
	}
	return m.addTrack("sub-add", target, label, selected)
}

func (m *MPV) AddAudioFromFile(path, label string, selected bool) error {
	target, err := sanitizeFileTarget(path)
	if err != nil {
		return err
	}
	return m.addTrack("audio-add", target, label, selected)
}

// AddAudioFromNetwork adds an audio track. The stream already passed as the
// init audio file is not added twice.
func (m *MPV) AddAudioFromNetwork(rawURL, label string, selected bool) error {
	target, err := sanitizeNetworkTarget(rawURL)
	if err != nil {
		return err
	}

	m.mu.Lock()
	duplicate := target == m.audioFile
	m.mu.Unlock()
	if duplicate {
		return nil
	}

	return m.addTrack("audio-add", target, label, selected)
}

// State queries the engine. A session without loaded media reports Idle.
func (m *MPV) State() (State, error) {
	if err := m.ready(); err != nil {
		if errors.Is(err, ErrNotInitialized) {
			return State{}, nil
		}
		return State{}, err
	}

	pos, err := m.getFloatProperty("time-pos")
	if errors.Is(err, errPropertyUnavailable) {
		return State{PlayingState: Idle}, nil
	}
	if err != nil {
		return State{}, err
	}

	state := State{Initialized: true, Position: seconds(pos)}

	if dur, err := m.getFloatProperty("duration"); err == nil {
		state.Duration = seconds(dur)
	}
	if aspect, err := m.getFloatProperty("video-params/aspect"); err == nil {
		state.AspectRatio = aspect
	}

	paused, _ := m.getBoolProperty("pause")
	eof, _ := m.getBoolProperty("eof-reached")
	buffering, _ := m.getBoolProperty("paused-for-cache")

	switch {
	case eof:
		state.PlayingState = Ended
	case paused:
		state.PlayingState = Paused
	case buffering:
		state.PlayingState = Buffering
	default:
		state.PlayingState = Playing
	}
	state.Playing = state.PlayingState == Playing

	return state, nil
}

func (m *MPV) Play() error {
	return m.setPause(false)
}

func (m *MPV) Pause() error {
	return m.setPause(true)
}

func (m *MPV) setPause(paused bool) error {
	if err := m.ready(); err != nil {
		return err
	}
	_, err := m.sendCommand("set_property", "pause", paused)
	return err
}

// SeekTo moves playback to an absolute position.
func (m *MPV) SeekTo(position time.Duration) error {
	if err := m.ready(); err != nil {
		return err
	}
	_, err := m.sendCommand("seek", position.Seconds(), "absolute")
	return err
}

func (m *MPV) Position() (time.Duration, error) {
	if err := m.ready(); err != nil {
		return 0, err
	}
	pos, err := m.getFloatProperty("time-pos")
	if err != nil {
		return 0, err
	}
	return seconds(pos), nil
}

func (m *MPV) Done() <-chan struct{} {
	return m.done
}

// Dispose quits mpv, killing it if it does not exit in time. It is safe to call more than once.
func (m *MPV) Dispose() error {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return nil
	}
	m.disposed = true
	started := m.started
	cmd := m.cmd
	m.mu.Unlock()

	defer m.closeDone.Do(func() { close(m.done) })

	if cmd == nil {
		return nil
	}

	if started {
		_, _ = m.sendCommand("quit")
	} else {
		// Still waiting for the socket, nothing to quit gracefully.
		_ = killProcess(cmd)
	}

	select {
	case <-m.exited:
	case <-time.After(quitTimeout):
		_ = killProcess(cmd)
	}

	_ = os.Remove(m.socketPath)
	log.Debugf("mpv session %s disposed", m.socketPath)
	return nil
}

func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand("get_property", name)
	if err != nil {
		return 0, err
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}
	return val, nil
}

func (m *MPV) getBoolProperty(name string) (bool, error) {
	data, err := m.sendCommand("get_property", name)
	if err != nil {
		return false, err
	}

	val, ok := data.(bool)
	if !ok {
		return false, fmt.Errorf("property %s: expected bool, got %T", name, data)
	}
	return val, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func validateTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", errors.New("empty target")
	}
	if strings.ContainsAny(l, "\x00\n\r") {
		return "", errors.New("invalid control characters in target")
	}
	if strings.HasPrefix(l, "-") {
		return "", errors.New("target must not start with '-'")
	}
	return l, nil
}

func sanitizeNetworkTarget(link string) (string, error) {
	l, err := validateTarget(link)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(l)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return l, nil
	default:
		return "", fmt.Errorf("unsupported URL scheme: %q", u.Scheme)
	}
}

func sanitizeFileTarget(path string) (string, error) {
	p, err := validateTarget(path)
	if err != nil {
		return "", err
	}
	if strings.Contains(p, "://") {
		return "", fmt.Errorf("expected a file path, got URL %q", p)
	}
	return filepath.Clean(p), nil
}

// sanitizeTitle flattens whitespace control characters.
func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
