// Package history remembers where playback of each video stopped so it can be resumed.
package history

import (
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/mo"
	"github.com/vidplay-cli/vidplay/filesystem"
	"github.com/vidplay-cli/vidplay/where"
)

// finishedRatio is the share of the duration after which a video counts as watched.
const finishedRatio = 0.95

// Entry is the saved position of one video.
type Entry struct {
	Key       string        `json:"key"`
	Position  time.Duration `json:"position"`
	Duration  time.Duration `json:"duration"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Progress returns the watched fraction, or 0 when the duration is unknown.
func (e Entry) Progress() float64 {
	if e.Duration <= 0 {
		return 0
	}
	return float64(e.Position) / float64(e.Duration)
}

var cacher = sync.OnceValue(func() *gache.Cache[map[string]*Entry] {
	return gache.New[map[string]*Entry](&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	})
})

// All returns every saved entry by key.
func All() (map[string]*Entry, error) {
	cached, expired, err := cacher().Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// Get returns the entry saved for key.
func Get(key string) mo.Option[Entry] {
	saved, err := All()
	if err != nil {
		return mo.None[Entry]()
	}
	entry, ok := saved[key]
	if !ok || entry == nil {
		return mo.None[Entry]()
	}
	return mo.Some(*entry)
}

// Save records position for key. A position at the very end, or at the very
// start, removes the entry instead since there is nothing to resume.
func Save(key string, position, duration time.Duration) error {
	saved, err := All()
	if err != nil {
		return err
	}

	entry := &Entry{Key: key, Position: position, Duration: duration, UpdatedAt: time.Now()}
	if position <= 0 || entry.Progress() >= finishedRatio {
		delete(saved, key)
	} else {
		saved[key] = entry
	}

	return cacher().Set(saved)
}

// Remove deletes the entry for key.
func Remove(key string) error {
	saved, err := All()
	if err != nil {
		return err
	}

	delete(saved, key)
	return cacher().Set(saved)
}
