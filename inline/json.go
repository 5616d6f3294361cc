package inline

import (
	"encoding/json"
	"io"

	"github.com/playtrail/playtrail/catalog"
	"github.com/playtrail/playtrail/navigator"
	"github.com/playtrail/playtrail/progress"
	"github.com/samber/lo"
)

type Item struct {
	// Index is the position within the playlist.
	Index int `json:"index"`
	// ID is the referenced item id, which may not exist in the catalog.
	ID     string `json:"id"`
	Title  string `json:"title,omitempty"`
	Source string `json:"source,omitempty"`
	// Hole marks an id missing from the catalog.
	Hole    bool `json:"hole"`
	Gated   bool `json:"gated"`
	Watched bool `json:"watched"`
	// Progress is the stored record, if any.
	Progress *progress.Record `json:"progress,omitempty"`
}

type Playlist struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Locked bool   `json:"locked"`
	// Progress is the aggregate watched percentage (0-100).
	Progress int     `json:"progress"`
	Items    []*Item `json:"items"`
}

type Output struct {
	Query  string      `json:"query"`
	Result []*Playlist `json:"result"`
}

func newPlaylist(p *catalog.Playlist, aggregate int, entries []navigator.Entry) *Playlist {
	return &Playlist{
		ID:       p.ID,
		Name:     p.Name,
		Locked:   p.Locked,
		Progress: aggregate,
		Items:    lo.Map(entries, func(e navigator.Entry, _ int) *Item { return newItem(e) }),
	}
}

func newItem(e navigator.Entry) *Item {
	item := &Item{
		Index:   e.Index,
		ID:      e.ItemID,
		Hole:    e.Hole,
		Gated:   e.Gated,
		Watched: e.Watched,
	}

	if e.Item != nil {
		item.Title = e.Item.Title
		item.Source = e.Item.Source
	}

	if record, ok := e.Record.Get(); ok {
		item.Progress = &record
	}

	return item
}

func writeJson(out io.Writer, playlists []*Playlist, options *Options) error {
	if playlists == nil {
		playlists = []*Playlist{}
	}

	return json.NewEncoder(out).Encode(&Output{
		Query:  options.Query,
		Result: playlists,
	})
}
