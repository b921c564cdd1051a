// Package wakelock keeps the screen awake while a video plays.
package wakelock

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/vidplay-cli/vidplay/log"
)

const (
	screenSaverDest = "org.freedesktop.ScreenSaver"
	screenSaverPath = dbus.ObjectPath("/org/freedesktop/ScreenSaver")
	inhibitMethod   = screenSaverDest + ".Inhibit"
	unInhibitMethod = screenSaverDest + ".UnInhibit"
)

// Lock is a held wake lock. Release is idempotent.
type Lock interface {
	Release() error
}

type nop struct{}

func (nop) Release() error { return nil }

// Nop is a lock that holds nothing.
var Nop Lock = nop{}

type screenSaverLock struct {
	obj    dbus.BusObject
	close  func() error
	cookie uint32

	once sync.Once
	err  error
}

// Acquire inhibits the screen saver over the session bus. Without a bus, or
// when the call fails, it logs a warning and returns Nop.
func Acquire(app, reason string) Lock {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		log.Warnf("wake lock unavailable: %v", err)
		return Nop
	}

	lock, err := inhibit(conn.Object(screenSaverDest, screenSaverPath), conn.Close, app, reason)
	if err != nil {
		log.Warnf("wake lock unavailable: %v", err)
		_ = conn.Close()
		return Nop
	}

	log.Debugf("wake lock acquired, cookie %d", lock.cookie)
	return lock
}

func inhibit(obj dbus.BusObject, closer func() error, app, reason string) (*screenSaverLock, error) {
	var cookie uint32
	if err := obj.Call(inhibitMethod, 0, app, reason).Store(&cookie); err != nil {
		return nil, fmt.Errorf("inhibit: %w", err)
	}
	return &screenSaverLock{obj: obj, close: closer, cookie: cookie}, nil
}

func (l *screenSaverLock) Release() error {
	l.once.Do(func() {
		if call := l.obj.Call(unInhibitMethod, 0, l.cookie); call.Err != nil {
			l.err = fmt.Errorf("uninhibit: %w", call.Err)
		}
		if l.close != nil {
			_ = l.close()
		}
		log.Debugf("wake lock %d released", l.cookie)
	})
	return l.err
}
