// Package navigator walks a playlist: it tracks the active index, enforces
// the lock gate, skips items missing from the catalog and owns the playback
// session of the active item.
package navigator

import (
	"math"

	"github.com/playtrail/playtrail/catalog"
	"github.com/playtrail/playtrail/progress"
	"github.com/samber/mo"
)

// DefaultGateSize is how many leading items of a locked playlist are selectable.
const DefaultGateSize = 3

// Progress is the read side of the progress store.
type Progress interface {
	Load() map[string]progress.Record
}

// Playback is a session bound to one item.
type Playback interface {
	Start()
	Teardown()
	ItemID() string
}

// Factory creates the playback session for item.
type Factory func(item *catalog.Item) Playback

// Entry describes one playlist position for display.
type Entry struct {
	Index  int
	ItemID string
	// Item is nil for a hole.
	Item    *catalog.Item
	Record  mo.Option[progress.Record]
	Hole    bool
	Gated   bool
	Watched bool
	Current bool
}

// Navigator is the cursor over a playlist.
type Navigator struct {
	playlist       *catalog.Playlist
	catalog        *catalog.Catalog
	store          Progress
	gateSize       int
	excludeMissing bool
	factory        Factory

	index   int
	session Playback
}

type Option func(*Navigator)

// WithGateSize sets how many leading items of a locked playlist are selectable.
func WithGateSize(n int) Option {
	return func(nav *Navigator) {
		nav.gateSize = max(n, 0)
	}
}

// WithExcludeMissing leaves catalog-missing items out of AggregateProgress entirely.
func WithExcludeMissing(exclude bool) Option {
	return func(nav *Navigator) {
		nav.excludeMissing = exclude
	}
}

// WithPlayback binds a session to the current item whenever the index changes.
func WithPlayback(factory Factory) Option {
	return func(nav *Navigator) {
		nav.factory = factory
	}
}

// New positions a navigator on the first item of playlist that resolves in
// the catalog. It never starts past the gate; with no selectable item it
// stays on 0.
func New(playlist *catalog.Playlist, c *catalog.Catalog, store Progress, options ...Option) *Navigator {
	nav := &Navigator{
		playlist: playlist,
		catalog:  c,
		store:    store,
		gateSize: DefaultGateSize,
	}

	for _, option := range options {
		option(nav)
	}

	for i := range playlist.Items {
		if nav.Gated(i) {
			break
		}
		if !nav.hole(i) {
			nav.index = i
			break
		}
	}

	return nav
}

func (n *Navigator) Playlist() *catalog.Playlist {
	return n.playlist
}

func (n *Navigator) Len() int {
	return len(n.playlist.Items)
}

func (n *Navigator) Index() int {
	return n.index
}

// Current resolves the item at the active index.
func (n *Navigator) Current() mo.Option[*catalog.Item] {
	return n.at(n.index)
}

// Session returns the bound playback session, if any.
func (n *Navigator) Session() mo.Option[Playback] {
	if n.session == nil {
		return mo.None[Playback]()
	}
	return mo.Some(n.session)
}

// Gated reports whether index i is locked away.
func (n *Navigator) Gated(i int) bool {
	return n.playlist.Locked && i >= n.gateSize
}

// Watched reports whether the item at index i has been completed. It reads
// the store on every call; list views use Entries instead.
func (n *Navigator) Watched(i int) bool {
	if !n.inBounds(i) {
		return false
	}
	return n.store.Load()[n.playlist.Items[i]].Watched
}

// Next moves to the following selectable position. At the end of the
// playlist or in front of the gate it does nothing and returns false.
func (n *Navigator) Next() bool {
	for i := n.index + 1; i < n.Len(); i++ {
		if n.Gated(i) {
			return false
		}
		if !n.hole(i) {
			return n.move(i)
		}
	}
	return false
}

// Previous moves to the preceding selectable position, if any.
func (n *Navigator) Previous() bool {
	for i := n.index - 1; i >= 0; i-- {
		if !n.hole(i) {
			return n.move(i)
		}
	}
	return false
}

// SelectIndex moves to i when it is in bounds, not gated and resolvable.
// Anything else is rejected without error.
func (n *Navigator) SelectIndex(i int) bool {
	if !n.inBounds(i) || n.Gated(i) || n.hole(i) {
		return false
	}
	return n.move(i)
}

// Play binds a session to the current item if none is bound yet.
func (n *Navigator) Play() {
	n.bind()
}

// Restart replaces the current session with a fresh one for the same item.
func (n *Navigator) Restart() {
	n.release()
	n.bind()
}

// Close tears down the bound session.
func (n *Navigator) Close() {
	n.release()
}

// AggregateProgress is the rounded percentage of watched positions. Holes
// count in the denominator unless missing items are excluded.
func (n *Navigator) AggregateProgress() int {
	records := n.store.Load()

	var total, watched int
	for i, id := range n.playlist.Items {
		if n.excludeMissing && n.hole(i) {
			continue
		}

		total++
		if records[id].Watched {
			watched++
		}
	}

	if total == 0 {
		return 0
	}

	return int(math.Round(float64(watched) / float64(total) * 100))
}

// Entries lists every position, holes included.
func (n *Navigator) Entries() []Entry {
	records := n.store.Load()
	entries := make([]Entry, len(n.playlist.Items))

	for i, id := range n.playlist.Items {
		record, ok := records[id]
		entry := Entry{
			Index:   i,
			ItemID:  id,
			Record:  mo.TupleToOption(record, ok),
			Gated:   n.Gated(i),
			Watched: ok && record.Watched,
			Current: i == n.index,
		}

		if item, ok := n.at(i).Get(); ok {
			entry.Item = item
		} else {
			entry.Hole = true
		}

		entries[i] = entry
	}

	return entries
}

func (n *Navigator) inBounds(i int) bool {
	return i >= 0 && i < n.Len()
}

func (n *Navigator) at(i int) mo.Option[*catalog.Item] {
	if !n.inBounds(i) {
		return mo.None[*catalog.Item]()
	}
	return n.catalog.Item(n.playlist.Items[i])
}

func (n *Navigator) hole(i int) bool {
	return n.at(i).IsAbsent()
}

func (n *Navigator) move(i int) bool {
	if i == n.index {
		return true
	}

	n.index = i
	if n.session != nil {
		n.bind()
	}
	return true
}

// bind makes the bound session match the current item. A session for a
// different item is torn down before the new one is constructed.
func (n *Navigator) bind() {
	if n.factory == nil {
		return
	}

	item, ok := n.Current().Get()
	if !ok {
		n.release()
		return
	}

	if n.session != nil && n.session.ItemID() == item.ID {
		return
	}

	n.release()
	n.session = n.factory(item)
	n.session.Start()
}

func (n *Navigator) release() {
	if n.session == nil {
		return
	}

	n.session.Teardown()
	n.session = nil
}
