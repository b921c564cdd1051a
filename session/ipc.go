package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/vidplay-cli/vidplay/util"
)

type ipcCommand struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// ipcMessage is either a command reply or an asynchronous event.
type ipcMessage struct {
	Data      any    `json:"data"`
	Error     string `json:"error"`
	Event     string `json:"event"`
	Name      string `json:"name"`
	RequestID int64  `json:"request_id"`
}

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	readDeadline = time.Second
)

// errPropertyUnavailable is mpv's reply for properties of media that is not loaded yet.
var errPropertyUnavailable = errors.New("property unavailable")

var requestID atomic.Int64

// sendCommand runs command against the session socket, retrying transient failures.
func (m *MPV) sendCommand(command ...any) (any, error) {
	m.ipcMu.Lock()
	defer m.ipcMu.Unlock()

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		result, err := doSendCommand(m.socketPath, command)
		if err == nil {
			return result, nil
		}
		// mpv answered; retrying won't change that.
		if errors.Is(err, errPropertyUnavailable) || isReplyError(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("ipc command %v failed after %d attempts: %w", command[0], maxRetries, lastErr)
}

type replyError struct{ msg string }

func (e *replyError) Error() string { return "mpv error: " + e.msg }

func isReplyError(err error) bool {
	var re *replyError
	return errors.As(err, &re)
}

// doSendCommand performs one request over a fresh connection. Event lines that
// arrive before the reply are skipped.
func doSendCommand(socketPath string, command []any) (any, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer util.Ignore(conn.Close)

	id := requestID.Add(1)
	if err := json.NewEncoder(conn).Encode(ipcCommand{Command: command, RequestID: id}); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	decoder := json.NewDecoder(conn)
	for {
		var msg ipcMessage
		if err := decoder.Decode(&msg); err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}

		if msg.Event != "" || msg.RequestID != id {
			continue
		}

		switch msg.Error {
		case "", "success":
			return msg.Data, nil
		case "property unavailable":
			return nil, errPropertyUnavailable
		default:
			return nil, &replyError{msg: msg.Error}
		}
	}
}
