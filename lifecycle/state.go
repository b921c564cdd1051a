package lifecycle

// State is the controller's position in its lifecycle.
type State int

const (
	Uninitialized State = iota
	Initializing
	Ready
	Playing
	Paused
	Disposed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Disposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// active reports whether the session is initialized and controllable.
func (s State) active() bool {
	return s == Ready || s == Playing || s == Paused
}
