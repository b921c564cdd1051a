package session

import (
	"encoding/json"
	"net"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
)

// fakeMPV answers JSON-IPC requests from an in-memory property table.
type fakeMPV struct {
	ln     net.Listener
	socket string

	mu       sync.Mutex
	props    map[string]any
	received [][]any
}

func startFakeMPV(t *testing.T, props map[string]any) *fakeMPV {
	t.Helper()

	socket := filepath.Join(t.TempDir(), "mpv.sock")
	ln, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	f := &fakeMPV{ln: ln, socket: socket, props: props}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go f.serve(conn)
		}
	}()

	return f
}

func (f *fakeMPV) serve(conn net.Conn) {
	defer conn.Close()

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	for {
		var cmd ipcCommand
		if err := decoder.Decode(&cmd); err != nil {
			return
		}

		f.mu.Lock()
		f.received = append(f.received, cmd.Command)
		reply := map[string]any{"error": "success", "request_id": cmd.RequestID}
		var event map[string]any

		switch cmd.Command[0] {
		case "get_property":
			name := cmd.Command[1].(string)
			if v, ok := f.props[name]; ok {
				reply["data"] = v
			} else {
				reply["error"] = "property unavailable"
			}
		case "set_property":
			f.props[cmd.Command[1].(string)] = cmd.Command[2]
		case "observe_property":
			name := cmd.Command[2].(string)
			if v, ok := f.props[name]; ok {
				event = map[string]any{"event": "property-change", "id": cmd.Command[1], "name": name, "data": v}
			}
		}
		f.mu.Unlock()

		// An unrelated event ahead of every reply.
		_ = encoder.Encode(map[string]any{"event": "playback-restart"})
		_ = encoder.Encode(reply)
		if event != nil {
			_ = encoder.Encode(event)
		}
	}
}

func (f *fakeMPV) commands() [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]any(nil), f.received...)
}

func (f *fakeMPV) prop(name string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.props[name]
}

// attached returns a session bound to an already running engine.
func attached(socket string) *MPV {
	return &MPV{
		socketPath: socket,
		exited:     make(chan struct{}),
		done:       make(chan struct{}),
		started:    true,
	}
}

func hasCommand(cmds [][]any, want []any) bool {
	for _, c := range cmds {
		if reflect.DeepEqual(c, want) {
			return true
		}
	}
	return false
}
