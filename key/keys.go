// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Catalog Location - where the content catalog (items and playlists) is read from.
const (
	CatalogPath = "catalog.path"
)

// Progress Persistence - these keys select the backing store for per-item watch state.
const (
	ProgressBackend = "progress.backend"
	ProgressLock    = "progress.lock"
)

// Media Playback - these keys configure the embedded player and the playback session.
const (
	Player                = "player.default"
	PlayerSampleInterval  = "player.sample_interval"
	PlayerResumeThreshold = "player.resume_threshold"
)

// Playlist Navigation - these keys tune gating and completion aggregation.
const (
	PlaylistGateSize       = "playlist.gate_size"
	PlaylistExcludeMissing = "playlist.exclude_missing"
)

// History Tracking - these keys configure the last-opened playlist pointer.
const (
	HistorySaveOnPlay = "history.save_on_play"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the interactive environment's styling.
const (
	TUIItemSpacing = "tui.item_spacing"
	TUIShowSources = "tui.show_sources"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
