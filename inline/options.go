// Package inline implements the non-interactive, scriptable mode.
package inline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/playtrail/playtrail/catalog"
	"github.com/playtrail/playtrail/navigator"
	"github.com/playtrail/playtrail/player"
	"github.com/playtrail/playtrail/progress"
	"github.com/playtrail/playtrail/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type (
	PlaylistPicker func([]*catalog.Playlist) *catalog.Playlist
	EntriesFilter  func([]navigator.Entry) ([]navigator.Entry, error)
)

// Store is what inline mode needs from the progress store.
type Store interface {
	Load() map[string]progress.Record
	Get(itemID string) (progress.Record, bool)
	Save(itemID string, seconds, duration float64, watched bool) error
}

type Options struct {
	Out            io.Writer
	Catalog        *catalog.Catalog
	Store          Store
	Json           bool
	Query          string
	PlaylistPicker mo.Option[PlaylistPicker]
	EntriesFilter  mo.Option[EntriesFilter]

	// Play plays the selected entries one after another before reporting.
	Play       bool
	Capability player.Capability
}

// ParsePlaylistPicker understands "first", "last", "exact" (the query itself) and a 0-based index.
func ParsePlaylistPicker(description, query string) (PlaylistPicker, error) {
	switch description {
	case "first":
		return func(playlists []*catalog.Playlist) *catalog.Playlist {
			if len(playlists) == 0 {
				return nil
			}
			return playlists[0]
		}, nil
	case "last":
		return func(playlists []*catalog.Playlist) *catalog.Playlist {
			if len(playlists) == 0 {
				return nil
			}
			return playlists[len(playlists)-1]
		}, nil
	case "exact":
		return func(playlists []*catalog.Playlist) *catalog.Playlist {
			p, _ := lo.Find(playlists, func(p *catalog.Playlist) bool {
				return p.ID == query || strings.EqualFold(p.Name, query)
			})
			return p
		}, nil
	}

	idx, err := strconv.ParseUint(description, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid playlist picker: %s", description)
	}

	return func(playlists []*catalog.Playlist) *catalog.Playlist {
		if len(playlists) == 0 {
			return nil
		}
		return playlists[util.Min(idx, uint64(len(playlists)-1))]
	}, nil
}

// ParseEntriesFilter understands "first", "last", "all", "unwatched",
// "from-to", "@substring@" and a single 0-based index.
func ParseEntriesFilter(description string) (EntriesFilter, error) {
	switch description {
	case "first":
		return func(entries []navigator.Entry) ([]navigator.Entry, error) {
			if len(entries) == 0 {
				return entries, nil
			}
			return entries[:1], nil
		}, nil
	case "last":
		return func(entries []navigator.Entry) ([]navigator.Entry, error) {
			if len(entries) == 0 {
				return entries, nil
			}
			return entries[len(entries)-1:], nil
		}, nil
	case "all":
		return func(entries []navigator.Entry) ([]navigator.Entry, error) {
			return entries, nil
		}, nil
	case "unwatched":
		return func(entries []navigator.Entry) ([]navigator.Entry, error) {
			return lo.Filter(entries, func(e navigator.Entry, _ int) bool {
				return !e.Watched
			}), nil
		}, nil
	}

	if from, to, ok := strings.Cut(description, "-"); ok {
		start, err1 := strconv.ParseUint(from, 10, 16)
		end, err2 := strconv.ParseUint(to, 10, 16)
		if err1 == nil && err2 == nil {
			return func(entries []navigator.Entry) ([]navigator.Entry, error) {
				start := util.Min(start, uint64(len(entries)))
				end := util.Min(end+1, uint64(len(entries)))
				if start > end {
					return []navigator.Entry{}, nil
				}
				return entries[start:end], nil
			}, nil
		}
	}

	if len(description) > 1 && strings.HasPrefix(description, "@") && strings.HasSuffix(description, "@") {
		sub := strings.ToLower(description[1 : len(description)-1])
		return func(entries []navigator.Entry) ([]navigator.Entry, error) {
			return lo.Filter(entries, func(e navigator.Entry, _ int) bool {
				return e.Item != nil && strings.Contains(strings.ToLower(e.Item.String()), sub)
			}), nil
		}, nil
	}

	if idx, err := strconv.ParseUint(description, 10, 16); err == nil {
		return func(entries []navigator.Entry) ([]navigator.Entry, error) {
			if uint64(len(entries)) <= idx {
				return []navigator.Entry{}, nil
			}
			return []navigator.Entry{entries[idx]}, nil
		}, nil
	}

	return nil, fmt.Errorf("invalid entries filter: %s", description)
}
