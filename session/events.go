package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/vidplay-cli/vidplay/log"
)

// Observed properties.
const (
	PropertyPause           = "pause"
	PropertyEOFReached      = "eof-reached"
	PropertyWindowMinimized = "window-minimized"
)

var observed = []string{PropertyPause, PropertyEOFReached, PropertyWindowMinimized}

// Event is a property change or a named engine event such as "end-file".
type Event struct {
	Name string
	Data any
}

// Visibility maps a window-minimized change to a visible fraction.
func (e Event) Visibility() (float64, bool) {
	if e.Name != PropertyWindowMinimized {
		return 0, false
	}
	minimized, ok := e.Data.(bool)
	if !ok {
		return 0, false
	}
	if minimized {
		return 0, true
	}
	return 1, true
}

// EventCallback receives engine events on the listener goroutine.
type EventCallback func(Event)

// EventListener keeps a dedicated connection to the engine that observes properties.
type EventListener struct {
	socketPath string
	callback   EventCallback

	mu        sync.Mutex
	conn      net.Conn
	listening bool
	stopped   chan struct{}
}

// NewEventListener returns a listener for socketPath.
func NewEventListener(socketPath string, callback EventCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
		stopped:    make(chan struct{}),
	}
}

// Events starts a listener on the session socket.
func (m *MPV) Events(callback EventCallback) (*EventListener, error) {
	if err := m.ready(); err != nil {
		return nil, err
	}
	el := NewEventListener(m.socketPath, callback)
	return el, el.Start()
}

// Start subscribes to the observed properties on its own connection, since
// mpv delivers observations to the client that asked for them.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	encoder := json.NewEncoder(conn)
	for i, name := range observed {
		if err := encoder.Encode(ipcCommand{Command: []any{"observe_property", i + 1, name}}); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true
	go el.readLoop(conn)

	log.Infof("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop closes the listener connection. Done is closed once the read loop returns.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}
	el.listening = false
	_ = el.conn.Close()
}

// Done is closed when the read loop exits.
func (el *EventListener) Done() <-chan struct{} {
	return el.stopped
}

func (el *EventListener) readLoop(conn net.Conn) {
	defer close(el.stopped)
	defer func() {
		el.mu.Lock()
		el.listening = false
		el.mu.Unlock()
	}()

	decoder := json.NewDecoder(conn)
	for {
		var msg ipcMessage
		if err := decoder.Decode(&msg); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				log.Warnf("event listener read error: %v", err)
			}
			return
		}
		el.dispatch(msg)
	}
}

func (el *EventListener) dispatch(msg ipcMessage) {
	if el.callback == nil || msg.Event == "" {
		return
	}

	if msg.Event == "property-change" {
		if msg.Name != "" {
			el.callback(Event{Name: msg.Name, Data: msg.Data})
		}
		return
	}

	el.callback(Event{Name: msg.Event})
}
