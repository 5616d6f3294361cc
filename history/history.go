// Package history remembers the last item opened in each playlist so a
// session can be continued later.
package history

import (
	"time"

	"github.com/metafates/gache"
	"github.com/playtrail/playtrail/catalog"
	"github.com/playtrail/playtrail/filesystem"
	"github.com/playtrail/playtrail/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

var cacher = gache.New[map[string]*Entry](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every entry keyed by playlist id.
func Get() (map[string]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// Save records item at index as the last position opened in playlist.
func Save(playlist *catalog.Playlist, index int, item *catalog.Item) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	saved[playlist.ID] = newEntry(playlist, index, item, time.Now())
	return cacher.Set(saved)
}

// Last returns the most recently opened entry.
func Last() (mo.Option[*Entry], error) {
	saved, err := Get()
	if err != nil {
		return mo.None[*Entry](), err
	}

	if len(saved) == 0 {
		return mo.None[*Entry](), nil
	}

	return mo.Some(lo.MaxBy(lo.Values(saved), func(a, b *Entry) bool {
		return a.OpenedAt > b.OpenedAt
	})), nil
}

// Remove forgets the entry of a playlist.
func Remove(playlistID string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, playlistID)
	return cacher.Set(saved)
}
