package tui

import (
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/playtrail/playtrail/internal/ui"
	"github.com/playtrail/playtrail/navigator"
	"github.com/playtrail/playtrail/open"
	"github.com/playtrail/playtrail/session"
)

func (b *statefulBubble) Init() tea.Cmd {
	cmds := []tea.Cmd{b.waitForSessionChange()}
	if b.state == playState {
		cmds = append(cmds, b.spinnerC.Tick, tick())
	}
	return tea.Batch(cmds...)
}

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = uiCmd
	}

	switch msg := msg.(type) {
	case error:
		b.raiseError(msg)
		return b, cmd
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case sessionChangedMsg:
		return b, tea.Batch(cmd, b.waitForSessionChange(), b.onSessionChange(msg))
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			b.closeNavigator()
			return b, tea.Quit
		}
	}

	var stateCmd tea.Cmd
	switch b.state {
	case playlistsState:
		_, stateCmd = b.updatePlaylists(msg)
	case itemsState:
		_, stateCmd = b.updateItems(msg)
	case playState:
		_, stateCmd = b.updatePlay(msg)
	case postWatchState:
		_, stateCmd = b.updatePostWatch(msg)
	case errorState:
		_, stateCmd = b.updateError(msg)
	case loadingState:
		_, stateCmd = b.updateLoading(msg)
	}

	return b, tea.Batch(cmd, stateCmd)
}

// onSessionChange reacts to transitions of the active session only.
func (b *statefulBubble) onSessionChange(msg sessionChangedMsg) tea.Cmd {
	if b.session == nil || msg.id != b.session.ID() {
		return nil
	}

	switch msg.state {
	case session.Playing:
		return tea.Batch(b.resumeNotice(), b.refreshItems())
	case session.Ended:
		if b.state == playState {
			b.setState(postWatchState)
			b.postWatchC.Select(0)
		}
		return tea.Batch(b.refreshItems(), b.loadPlaylists())
	case session.TornDown:
		// the player window was closed
		if b.state == playState {
			b.navigator.Close()
			b.session = nil
			b.previousState()
			return tea.Batch(b.refreshItems(), b.loadPlaylists())
		}
	}

	return nil
}

func (b *statefulBubble) updatePlaylists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && b.playlistsC.FilterState() != list.Filtering {
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			selected, ok := b.playlistsC.SelectedItem().(*listItem)
			if !ok {
				break
			}

			cmd = b.openPlaylist(selected.internal.(*playlistSummary).playlist)
			b.newState(itemsState)
			return b, cmd
		case bubblesKey.Matches(msg, b.keymap.back):
			if b.playlistsC.FilterState() == list.Unfiltered {
				return b, tea.Quit
			}
		}
	}

	b.playlistsC, cmd = b.playlistsC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateItems(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && b.itemsC.FilterState() != list.Filtering {
		selected, hasSelection := b.itemsC.SelectedItem().(*listItem)

		switch {
		case bubblesKey.Matches(msg, b.keymap.play):
			if !hasSelection {
				break
			}

			entry := selected.internal.(navigator.Entry)
			if !b.navigator.SelectIndex(entry.Index) {
				return b, ui.Notify("Locked: finish the first items of this playlist")
			}

			return b, b.startPlayback(false)
		case bubblesKey.Matches(msg, b.keymap.openSource):
			if !hasSelection {
				break
			}

			if err := open.Start(selected.internal.(navigator.Entry).Item.Source); err != nil {
				b.raiseError(err)
			}
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.back):
			if b.itemsC.FilterState() != list.Unfiltered {
				break
			}

			b.closeNavigator()
			b.previousState()
			return b, b.loadPlaylists()
		}
	}

	b.itemsC, cmd = b.itemsC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tickMsg:
		return b, tick()
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.next):
			return b, b.step(b.navigator.Next, true)
		case bubblesKey.Matches(msg, b.keymap.previous):
			return b, b.step(b.navigator.Previous, false)
		case bubblesKey.Matches(msg, b.keymap.replay):
			return b, b.startPlayback(true)
		case bubblesKey.Matches(msg, b.keymap.back):
			b.closeNavigator()
			b.previousState()
			return b, tea.Batch(b.refreshItems(), b.loadPlaylists())
		}
	case spinner.TickMsg:
		b.spinnerC, cmd = b.spinnerC.Update(msg)
	}

	return b, cmd
}

func (b *statefulBubble) updatePostWatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			selected, ok := b.postWatchC.SelectedItem().(*listItem)
			if !ok {
				break
			}

			switch selected.internal.(string) {
			case postWatchNext:
				return b, b.step(b.navigator.Next, true)
			case postWatchReplay:
				b.setState(playState)
				return b, b.startPlayback(true)
			case postWatchPrevious:
				return b, b.step(b.navigator.Previous, false)
			case postWatchBack:
				b.closeNavigator()
				b.previousState()
				return b, b.refreshItems()
			}
		case bubblesKey.Matches(msg, b.keymap.back):
			b.closeNavigator()
			b.previousState()
			return b, b.refreshItems()
		}
	}

	b.postWatchC, cmd = b.postWatchC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
		}
	}
	return b, nil
}

func (b *statefulBubble) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.back) {
			b.previousState()
		}
	case spinner.TickMsg:
		b.spinnerC, cmd = b.spinnerC.Update(msg)
	}

	return b, cmd
}
