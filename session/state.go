package session

import "github.com/playtrail/playtrail/player"

// State is the lifecycle state of a Session.
type State int

const (
	Uninitialized State = iota
	Loading
	Playing
	Paused
	Ended
	TornDown
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	case TornDown:
		return "torn down"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are expected.
func (s State) Terminal() bool {
	return s == TornDown
}

// translate collapses player codes into the states a running session can move to.
// Anything that is neither playing nor ended counts as paused.
func translate(code player.Code) State {
	switch code {
	case player.CodePlaying:
		return Playing
	case player.CodeEnded:
		return Ended
	default:
		return Paused
	}
}
