package mini

import (
	"errors"
	"fmt"
	"strings"

	"github.com/playtrail/playtrail/history"
	"github.com/playtrail/playtrail/icon"
	"github.com/playtrail/playtrail/navigator"
	"github.com/playtrail/playtrail/session"
	"github.com/playtrail/playtrail/util"
	"github.com/samber/lo"
)

type state int

const (
	playlistSelectState state = iota + 1
	itemSelectState
	playState
	continueState
	quitState
)

// entryOption renders a navigator entry as a menu line.
type entryOption navigator.Entry

func (e entryOption) String() string {
	var sb strings.Builder

	sb.WriteString(e.Item.String())

	switch {
	case e.Watched:
		sb.WriteString(" " + icon.Get(icon.Watched))
	case e.Gated:
		sb.WriteString(" " + icon.Get(icon.Locked))
	default:
		if record, ok := e.Record.Get(); ok && record.Timestamp > 0 {
			sb.WriteString(fmt.Sprintf(" (%s)", util.Clock(record.Timestamp)))
		}
	}

	return sb.String()
}

func (m *mini) handleContinueState() error {
	last, err := history.Last()
	if err != nil {
		return err
	}

	entry, ok := last.Get()
	if !ok {
		return errors.New("nothing to continue")
	}

	p, ok := m.catalog.Playlist(entry.PlaylistID).Get()
	if !ok {
		return fmt.Errorf("playlist %s is no longer in the catalog", entry.PlaylistID)
	}

	m.openPlaylist(p)
	m.setState(playlistSelectState)
	m.newState(itemSelectState)

	if !m.navigator.SelectIndex(entry.Index) {
		return nil
	}

	m.newState(playState)
	m.navigator.Play()
	return nil
}

func (m *mini) handlePlaylistSelectState() error {
	playlists := m.catalog.Playlists()
	if len(playlists) == 0 {
		return errors.New("the catalog has no playlists")
	}

	title("Select Playlist")
	b, p, err := menu(playlists, quit)
	if err != nil {
		return err
	}

	if quit.eq(b) {
		m.newState(quitState)
		return nil
	}

	m.openPlaylist(p)
	m.newState(itemSelectState)
	return nil
}

func (m *mini) handleItemSelectState() error {
	entries := lo.FilterMap(m.navigator.Entries(), func(e navigator.Entry, _ int) (entryOption, bool) {
		return entryOption(e), !e.Hole
	})

	title(fmt.Sprintf("%s >> %d%% watched", m.selectedPlaylist, m.navigator.AggregateProgress()))
	b, e, err := menu(entries, back, quit)
	if err != nil {
		return err
	}

	switch b {
	case back:
		m.closeNavigator()
		m.previousState()
		return nil
	case quit:
		m.newState(quitState)
		return nil
	}

	if !m.navigator.SelectIndex(e.Index) {
		fail("This item is locked. Finish the first items of the playlist to continue")
		return nil
	}

	m.navigator.Play()
	m.rememberPosition()
	m.newState(playState)
	return nil
}

func (m *mini) handlePlayState() error {
	item, ok := m.navigator.Current().Get()
	if !ok {
		m.previousState()
		return nil
	}

	title(fmt.Sprintf("Now playing %s (%d/%d)", item, m.navigator.Index()+1, m.navigator.Len()))
	if s, ok := m.currentSession(); ok {
		if snapshot := s.Snapshot(); snapshot.ResumedAt > 0 {
			info(fmt.Sprintf("Resumed at %s", util.Clock(snapshot.ResumedAt)))
		}
	}

	b, _, err := menu([]fmt.Stringer{}, next, prev, replay, back, quit)
	if err != nil {
		return err
	}

	switch b {
	case next:
		if !m.navigator.Next() {
			fail("No next item available")
		}
		m.rememberPosition()
	case prev:
		if !m.navigator.Previous() {
			fail("No previous item available")
		}
		m.rememberPosition()
	case replay:
		m.navigator.Restart()
	case back:
		m.closeNavigator()
		m.previousState()
	case quit:
		m.newState(quitState)
	}

	return nil
}

func (m *mini) currentSession() (*session.Session, bool) {
	playback, ok := m.navigator.Session().Get()
	if !ok {
		return nil, false
	}

	s, ok := playback.(*session.Session)
	return s, ok
}
