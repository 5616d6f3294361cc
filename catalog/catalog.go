// Package catalog holds the read-only content catalog: playable items and the playlists that order them.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pelletier/go-toml/v2"
	"github.com/playtrail/playtrail/filesystem"
	"github.com/playtrail/playtrail/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Item is a single playable unit.
type Item struct {
	ID       string  `toml:"id" json:"id"`
	Title    string  `toml:"title" json:"title"`
	Source   string  `toml:"source" json:"source"`
	Vertical bool    `toml:"vertical" json:"vertical"`
	Duration float64 `toml:"duration" json:"duration"`
}

func (i *Item) String() string {
	if i.Title != "" {
		return i.Title
	}
	return i.ID
}

// Playlist is an ordered, possibly locked sequence of item ids. Ids may repeat.
type Playlist struct {
	ID     string   `toml:"id" json:"id"`
	Name   string   `toml:"name" json:"name"`
	Locked bool     `toml:"locked" json:"locked"`
	Items  []string `toml:"items" json:"items"`
}

func (p *Playlist) String() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// Catalog indexes items by id and keeps playlists in file order.
type Catalog struct {
	items     map[string]*Item
	playlists []*Playlist
}

// Document is the on-disk shape of a catalog file.
type Document struct {
	Items     []*Item     `toml:"items" json:"items"`
	Playlists []*Playlist `toml:"playlists" json:"playlists"`
}

// New builds a catalog from already validated records.
func New(items []*Item, playlists []*Playlist) *Catalog {
	c := &Catalog{
		items:     make(map[string]*Item, len(items)),
		playlists: playlists,
	}
	for _, item := range items {
		c.items[item.ID] = item
	}
	return c
}

// Load reads a TOML catalog from path.
func Load(path string) (*Catalog, error) {
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Open loads the catalog at the configured location.
func Open() (*Catalog, error) {
	return Load(where.Catalog())
}

// Parse decodes and validates a TOML catalog.
func Parse(data []byte) (*Catalog, error) {
	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return New(doc.Items, doc.Playlists), nil
}

func (d *Document) validate() error {
	var errs []error

	seen := make(map[string]struct{})
	for i, item := range d.Items {
		switch {
		case item.ID == "":
			errs = append(errs, fmt.Errorf("item #%d: missing id", i))
		case item.Source == "":
			errs = append(errs, fmt.Errorf("item %q: missing source", item.ID))
		}
		if _, dup := seen[item.ID]; dup {
			errs = append(errs, fmt.Errorf("item %q: duplicate id", item.ID))
		}
		seen[item.ID] = struct{}{}
	}

	playlists := make(map[string]struct{})
	for i, playlist := range d.Playlists {
		if playlist.ID == "" {
			errs = append(errs, fmt.Errorf("playlist #%d: missing id", i))
		}
		if _, dup := playlists[playlist.ID]; dup {
			errs = append(errs, fmt.Errorf("playlist %q: duplicate id", playlist.ID))
		}
		playlists[playlist.ID] = struct{}{}
	}

	return errors.Join(errs...)
}

// Item resolves an item id. Playlists may reference ids that are absent.
func (c *Catalog) Item(id string) mo.Option[*Item] {
	item, ok := c.items[id]
	if !ok {
		return mo.None[*Item]()
	}
	return mo.Some(item)
}

// Items returns every item ordered by id.
func (c *Catalog) Items() []*Item {
	items := lo.Values(c.items)
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
	return items
}

// Playlists returns the playlists in file order.
func (c *Catalog) Playlists() []*Playlist {
	return c.playlists
}

// Playlist looks a playlist up by id, falling back to a case-insensitive name match.
func (c *Catalog) Playlist(ref string) mo.Option[*Playlist] {
	if p, ok := lo.Find(c.playlists, func(p *Playlist) bool { return p.ID == ref }); ok {
		return mo.Some(p)
	}
	if p, ok := lo.Find(c.playlists, func(p *Playlist) bool { return strings.EqualFold(p.Name, ref) }); ok {
		return mo.Some(p)
	}
	return mo.None[*Playlist]()
}

// Find returns playlists whose name or id fuzzily matches query, best first.
func (c *Catalog) Find(query string) []*Playlist {
	if strings.TrimSpace(query) == "" {
		return c.playlists
	}

	targets := lo.Map(c.playlists, func(p *Playlist, _ int) string {
		return p.Name + " " + p.ID
	})
	ranks := fuzzy.RankFindFold(query, targets)
	sort.Sort(ranks)

	return lo.Map(ranks, func(r fuzzy.Rank, _ int) *Playlist {
		return c.playlists[r.OriginalIndex]
	})
}

// Closest suggests the playlist id nearest to ref by edit distance.
func (c *Catalog) Closest(ref string) mo.Option[*Playlist] {
	if len(c.playlists) == 0 {
		return mo.None[*Playlist]()
	}
	return mo.Some(lo.MinBy(c.playlists, func(a, b *Playlist) bool {
		return levenshtein.Distance(ref, a.ID) < levenshtein.Distance(ref, b.ID)
	}))
}
