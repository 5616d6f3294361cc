package config

import "github.com/playtrail/playtrail/key"

var fields = []Field{
	{key.CatalogPath, "", "Path to the catalog file (items and playlists).\nEmpty means catalog.toml inside the config directory"},

	{key.ProgressBackend, "file", "Where watch progress is persisted.\nAvailable options are: file, sqlite"},
	{key.ProgressLock, true, "Hold a lock file while progress is read, merged and written back"},

	{key.Player, "mpv", "Media player to use"},
	{key.PlayerSampleInterval, 5, "Seconds between playback position snapshots"},
	{key.PlayerResumeThreshold, 5, "Stored positions at or below this many seconds are not resumed"},

	{key.PlaylistGateSize, 3, "Number of leading items selectable in a locked playlist"},
	{key.PlaylistExcludeMissing, false, "Leave items missing from the catalog out of playlist completion"},

	{key.HistorySaveOnPlay, true, "Remember the last opened playlist position"},

	{key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)"},

	{key.TUIItemSpacing, 1, "Spacing between items in the TUI"},
	{key.TUIShowSources, false, "Show source references under playlist items"},

	{key.LogsWrite, false, "Write logs"},
	{key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace"},
	{key.LogsJson, false, "Use json format for logs"},

	{key.CliColored, true, "Enable colored CLI output"},
	{key.CliVersionCheck, true, "Check for a newer release when printing help or version"},
}

// Default maps every known key to its field.
var Default = make(map[string]Field, len(fields))

// EnvExposed lists the keys that can be overridden from the environment.
var EnvExposed []string

func init() {
	for _, field := range fields {
		if _, exists := Default[field.Key]; exists {
			panic("duplicate config key: " + field.Key)
		}

		Default[field.Key] = field
		EnvExposed = append(EnvExposed, field.Key)
	}
}
