package progress

import (
	"math"
	"time"
)

// Record is the persisted watch state of one content item.
type Record struct {
	// Timestamp is the last known playback position in seconds.
	Timestamp float64 `json:"timestamp"`
	// Duration is the item length in seconds as last observed, 0 if unknown.
	Duration float64 `json:"duration"`
	// Watched never reverts to false once set.
	Watched bool `json:"watched"`
	// LastUpdated is the epoch milliseconds of the last write.
	LastUpdated int64 `json:"lastUpdated"`
}

// Percentage reports how far into the item the stored position is (0-100).
// Watched records always report 100.
func (r Record) Percentage() float64 {
	if r.Watched {
		return 100
	}
	if r.Duration <= 0 {
		return 0
	}
	return math.Min(r.Timestamp/r.Duration*100, 100)
}

// UpdatedAt converts LastUpdated into a time.Time.
func (r Record) UpdatedAt() time.Time {
	return time.UnixMilli(r.LastUpdated)
}

// merge folds a write into the stored record for the same item. Position,
// duration and the update time are always replaced; watched is ORed so a
// completed item stays completed.
func merge(prev Record, exists bool, seconds, duration float64, watched bool, now time.Time) Record {
	return Record{
		Timestamp:   sanitize(seconds),
		Duration:    sanitize(duration),
		Watched:     watched || (exists && prev.Watched),
		LastUpdated: now.UnixMilli(),
	}
}

// sanitize clamps player-reported seconds to a finite non-negative value.
func sanitize(seconds float64) float64 {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0
	}
	return seconds
}
