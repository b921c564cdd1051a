package lifecycle

import (
	"github.com/vidplay-cli/vidplay/resolver"
	"github.com/vidplay-cli/vidplay/session"
	"github.com/vidplay-cli/vidplay/video"
)

// Observer is notified of controller progress. Callbacks run on controller
// goroutines, never while the controller lock is held.
type Observer interface {
	OnStateChange(from, to State)
	OnResolved(res *resolver.Resolved)
	OnReady(state session.State)
	// OnError receives init failures and failures of post-init effects.
	OnError(err error)
	OnQualityChanged(index int, rendition video.Rendition)
}

// NopObserver ignores every notification. Embed it to implement a subset.
type NopObserver struct{}

func (NopObserver) OnStateChange(State, State)            {}
func (NopObserver) OnResolved(*resolver.Resolved)         {}
func (NopObserver) OnReady(session.State)                 {}
func (NopObserver) OnError(error)                         {}
func (NopObserver) OnQualityChanged(int, video.Rendition) {}
