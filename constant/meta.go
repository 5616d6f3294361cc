// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Playtrail is the canonical application identifier used for filesystem paths and CLI branding.
	Playtrail = "playtrail"

	// Version is the current application semantic version string.
	Version = "0.3.0"
)

// ProgressStorageKey is the single storage key under which the whole progress mapping is persisted.
const ProgressStorageKey = "video-progress"

// Build metadata, overridden at link time with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
