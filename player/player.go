// Package player defines the embedded player capability consumed by playback sessions.
// The primary implementation drives 'mpv' through its JSON-IPC interface.
package player

import "fmt"

// Code is the opaque lifecycle code a player reports on state changes.
type Code int

const (
	CodeUnstarted Code = -1
	CodeEnded     Code = 0
	CodePlaying   Code = 1
	CodePaused    Code = 2
	CodeBuffering Code = 3
	CodeCued      Code = 5
)

func (c Code) String() string {
	switch c {
	case CodeUnstarted:
		return "unstarted"
	case CodeEnded:
		return "ended"
	case CodePlaying:
		return "playing"
	case CodePaused:
		return "paused"
	case CodeBuffering:
		return "buffering"
	case CodeCued:
		return "cued"
	default:
		return "unknown"
	}
}

// Handle controls one constructed player instance.
type Handle interface {
	// SeekTo moves playback to an absolute position in seconds.
	SeekTo(seconds float64) error

	// PlayVideo starts or resumes playback.
	PlayVideo() error

	// CurrentTime returns the playback position in seconds.
	CurrentTime() (float64, error)

	// Duration returns the media length in seconds.
	Duration() (float64, error)

	// Destroy stops playback and releases the instance. It is safe to call more than once.
	Destroy() error
}

// Listener receives lifecycle events from a Handle. Callbacks run on the
// player's own goroutines and are never invoked from within Construct.
type Listener struct {
	OnReady       func(Handle)
	OnStateChange func(Code)
	// OnExit fires when the player goes away on its own (window closed, process died).
	OnExit func()
}

// Capability constructs player instances once the underlying player is available.
type Capability interface {
	// Ready is closed once Construct may be called.
	Ready() <-chan struct{}

	// Construct mounts source into the container and returns its handle.
	Construct(container, source string, listener Listener) (Handle, error)
}

// New returns the capability registered under name. An empty name selects mpv.
func New(name string) (Capability, error) {
	switch name {
	case "mpv", "":
		return NewMPV(), nil
	default:
		return nil, fmt.Errorf("unknown player %q", name)
	}
}
