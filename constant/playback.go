package constant

import "time"

// Playback timing parameters shared by the lifecycle controller and the mpv session.
const (
	// StartOffsetPollInterval is how often the session is polled for a playing state before the start seek.
	StartOffsetPollInterval = 100 * time.Millisecond

	// DefaultStartTimeout bounds the wait for a playing state before the start seek is abandoned.
	DefaultStartTimeout = 10 * time.Second

	// HostingIDLength is the length of a canonical video hosting identifier.
	HostingIDLength = 11
)
