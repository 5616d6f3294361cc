// Package mini implements a line-oriented interface for terminals where the full TUI is unwanted.
package mini

import (
	"github.com/playtrail/playtrail/catalog"
	"github.com/playtrail/playtrail/history"
	"github.com/playtrail/playtrail/key"
	"github.com/playtrail/playtrail/navigator"
	"github.com/playtrail/playtrail/player"
	"github.com/playtrail/playtrail/progress"
	"github.com/playtrail/playtrail/session"
	"github.com/playtrail/playtrail/util"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

var (
	truncateAt = 100
)

type Options struct {
	Continue bool
}

// Store is what mini needs from the progress store.
type Store interface {
	navigator.Progress
	session.Progress
}

type mini struct {
	width, height int

	state         state
	statesHistory util.Stack[state]

	catalog    *catalog.Catalog
	store      Store
	capability player.Capability

	selectedPlaylist *catalog.Playlist
	navigator        *navigator.Navigator
}

func newMini(c *catalog.Catalog, store Store, capability player.Capability) *mini {
	return &mini{
		statesHistory: util.Stack[state]{},
		catalog:       c,
		store:         store,
		capability:    capability,
	}
}

func (m *mini) previousState() {
	if m.statesHistory.Len() > 0 {
		m.setState(m.statesHistory.Pop())
	}
}

func (m *mini) setState(s state) {
	m.state = s
}

func (m *mini) newState(s state) {
	if m.state == s {
		return
	}

	if !lo.Contains([]state{playState}, m.state) {
		m.statesHistory.Push(m.state)
	}

	m.setState(s)
}

// Run prompts until the user quits.
func Run(options *Options) error {
	c, err := catalog.Open()
	if err != nil {
		return err
	}

	store, err := progress.Open()
	if err != nil {
		return err
	}
	defer store.Close()

	capability, err := player.New(viper.GetString(key.Player))
	if err != nil {
		return err
	}

	m := newMini(c, store, capability)
	defer m.closeNavigator()

	m.state = playlistSelectState
	if options.Continue {
		m.state = continueState
	}

	if w, h, err := util.TerminalSize(); err == nil {
		m.width, m.height = w, h
		truncateAt = w
	}

	for m.state != quitState {
		if err := m.handleState(); err != nil {
			return err
		}
	}

	return nil
}

func (m *mini) handleState() error {
	switch m.state {
	case continueState:
		return m.handleContinueState()
	case playlistSelectState:
		return m.handlePlaylistSelectState()
	case itemSelectState:
		return m.handleItemSelectState()
	case playState:
		return m.handlePlayState()
	}

	return nil
}

func (m *mini) openPlaylist(p *catalog.Playlist) {
	m.closeNavigator()
	m.selectedPlaylist = p
	m.navigator = navigator.New(p, m.catalog, m.store, append(
		navigator.Configured(),
		navigator.WithPlayback(m.newSession),
	)...)
}

func (m *mini) newSession(item *catalog.Item) navigator.Playback {
	return session.New(item, m.store, m.capability, session.Configured()...)
}

func (m *mini) closeNavigator() {
	if m.navigator != nil {
		m.navigator.Close()
	}
}

func (m *mini) rememberPosition() {
	if !viper.GetBool(key.HistorySaveOnPlay) {
		return
	}

	if item, ok := m.navigator.Current().Get(); ok {
		_ = history.Save(m.selectedPlaylist, m.navigator.Index(), item)
	}
}
