package history

import (
	"fmt"
	"time"

	"github.com/playtrail/playtrail/catalog"
)

// Entry is the last position opened in one playlist.
type Entry struct {
	PlaylistID   string `json:"playlist_id"`
	PlaylistName string `json:"playlist_name"`
	Index        int    `json:"index"`
	ItemID       string `json:"item_id"`
	ItemTitle    string `json:"item_title"`
	OpenedAt     int64  `json:"opened_at"`
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s : %d. %s", e.PlaylistName, e.Index+1, e.ItemTitle)
}

func (e *Entry) Opened() time.Time {
	return time.UnixMilli(e.OpenedAt)
}

func newEntry(playlist *catalog.Playlist, index int, item *catalog.Item, now time.Time) *Entry {
	return &Entry{
		PlaylistID:   playlist.ID,
		PlaylistName: playlist.String(),
		Index:        index,
		ItemID:       item.ID,
		ItemTitle:    item.String(),
		OpenedAt:     now.UnixMilli(),
	}
}
