// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Playback Behaviour - these keys configure the lifecycle controller defaults.
const (
	PlayerAutoVisibilityPause = "player.auto_visibility_pause"
	PlayerAllowScreenSleep    = "player.allow_screen_sleep"
	PlayerStartTimeout        = "player.start_timeout"
	PlayerAssetsDir           = "player.assets_dir"
	PlayerLoop                = "player.loop"
	PlayerStartPaused         = "player.start_paused"
)

// Track Selection - these keys hold the default rule chains for quality, audio and subtitle tracks.
const (
	SelectQuality  = "select.quality"
	SelectAudio    = "select.audio"
	SelectSubtitle = "select.subtitle"
)

// Video Hosting - these keys govern manifest extraction against the hosting service.
const (
	HostingFetchQualities = "hosting.fetch_qualities"
	HostingCacheTTL       = "hosting.cache_ttl"
)

// History Tracking - these keys configure the persistence of resume positions.
const (
	HistorySave = "history.save"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment
const (
	CliColored = "cli.colored"
)
