package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/playtrail/playtrail/catalog"
	"github.com/playtrail/playtrail/history"
	"github.com/playtrail/playtrail/internal/ui"
	"github.com/playtrail/playtrail/key"
	"github.com/playtrail/playtrail/log"
	"github.com/playtrail/playtrail/navigator"
	"github.com/playtrail/playtrail/session"
	"github.com/playtrail/playtrail/util"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (b *statefulBubble) loadPlaylists() tea.Cmd {
	items := lo.Map(b.catalog.Playlists(), func(p *catalog.Playlist, _ int) list.Item {
		nav := navigator.New(p, b.catalog, b.store, navigator.Configured()...)

		return &listItem{internal: &playlistSummary{
			playlist:  p,
			aggregate: nav.AggregateProgress(),
			holes: lo.CountBy(nav.Entries(), func(e navigator.Entry) bool {
				return e.Hole
			}),
		}}
	})

	return b.playlistsC.SetItems(items)
}

// openPlaylist replaces the active navigator with one over p.
func (b *statefulBubble) openPlaylist(p *catalog.Playlist) tea.Cmd {
	b.closeNavigator()

	b.navigator = navigator.New(p, b.catalog, b.store, append(
		navigator.Configured(),
		navigator.WithPlayback(b.newSession),
	)...)

	b.itemsC.Title = p.String()
	b.itemsC.ResetFilter()
	return b.refreshItems()
}

// refreshItems rebuilds the item list, skipping holes.
func (b *statefulBubble) refreshItems() tea.Cmd {
	if b.navigator == nil {
		return nil
	}

	entries := lo.Filter(b.navigator.Entries(), func(e navigator.Entry, _ int) bool {
		return !e.Hole
	})

	items := make([]list.Item, len(entries))
	selected := 0
	for i, e := range entries {
		items[i] = &listItem{internal: e}
		if e.Current {
			selected = i
		}
	}

	b.itemsC.Title = fmt.Sprintf("%s • %d%%", b.navigator.Playlist().String(), b.navigator.AggregateProgress())
	cmd := b.itemsC.SetItems(items)
	b.itemsC.Select(selected)
	return cmd
}

// newSession is the navigator's playback factory.
func (b *statefulBubble) newSession(item *catalog.Item) navigator.Playback {
	var s *session.Session

	s = session.New(item, b.store, b.capability, append(
		session.Configured(),
		session.OnChange(func(state session.State) {
			select {
			case b.sessionChanges <- sessionChangedMsg{id: s.ID(), state: state}:
			default:
				log.Warnf("tui: dropped session change %s", state)
			}
		}),
	)...)

	b.session = s
	return s
}

func (b *statefulBubble) waitForSessionChange() tea.Cmd {
	return func() tea.Msg {
		return <-b.sessionChanges
	}
}

// startPlayback plays the navigator's current item.
func (b *statefulBubble) startPlayback(restart bool) tea.Cmd {
	if restart {
		b.navigator.Restart()
	} else {
		b.navigator.Play()
	}

	b.rememberPosition()
	b.newState(playState)
	return tea.Batch(b.refreshItems(), b.spinnerC.Tick, tick())
}

func (b *statefulBubble) rememberPosition() {
	if !viper.GetBool(key.HistorySaveOnPlay) {
		return
	}

	item, ok := b.navigator.Current().Get()
	if !ok {
		return
	}

	if err := history.Save(b.navigator.Playlist(), b.navigator.Index(), item); err != nil {
		log.Warnf("tui: save history: %s", err)
	}
}

// step moves the navigator with move and explains a refusal.
func (b *statefulBubble) step(move func() bool, forward bool) tea.Cmd {
	if move() {
		b.rememberPosition()
		b.setState(playState)
		return tea.Batch(b.refreshItems(), tick())
	}

	switch {
	case forward && b.navigator.Gated(b.navigator.Index()+1):
		return ui.Notify("The rest of this playlist is locked")
	case forward:
		return ui.Notify("This is the last item")
	default:
		return ui.Notify("This is the first item")
	}
}

func (b *statefulBubble) continueFrom(entry *history.Entry) error {
	p, ok := b.catalog.Playlist(entry.PlaylistID).Get()
	if !ok {
		return fmt.Errorf("playlist %s is no longer in the catalog", entry.PlaylistID)
	}

	b.newState(playlistsState)
	b.openPlaylist(p)
	b.newState(itemsState)

	if !b.navigator.SelectIndex(entry.Index) {
		return nil
	}

	b.startPlayback(false)
	return nil
}

// closeNavigator tears down any playing session.
func (b *statefulBubble) closeNavigator() {
	if b.navigator != nil {
		b.navigator.Close()
	}
	b.session = nil
}

func (b *statefulBubble) resumeNotice() tea.Cmd {
	if b.session == nil {
		return nil
	}

	if at := b.session.Snapshot().ResumedAt; at > 0 {
		return ui.Notify(fmt.Sprintf("Resumed at %s", util.Clock(at)))
	}
	return nil
}
