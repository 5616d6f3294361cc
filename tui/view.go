package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/playtrail/playtrail/color"
	"github.com/playtrail/playtrail/icon"
	"github.com/playtrail/playtrail/session"
	"github.com/playtrail/playtrail/style"
	"github.com/playtrail/playtrail/util"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case playlistsState:
		output = listExtraPaddingStyle.Render(b.playlistsC.View())
	case itemsState:
		output = listExtraPaddingStyle.Render(b.itemsC.View())
	case playState:
		output = b.viewPlay()
	case postWatchState:
		output = listExtraPaddingStyle.Render(b.postWatchC.View())
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View(),
		},
	)
}

func (b *statefulBubble) viewPlay() string {
	var title, status string

	if item, ok := b.navigator.Current().Get(); ok {
		title = item.String()
	}

	if b.session != nil {
		snapshot := b.session.Snapshot()
		status = b.viewSessionStatus(b.session.State(), snapshot)
	}

	aggregate := b.navigator.AggregateProgress()

	return b.renderLines(
		true,
		[]string{
			style.Title("Now Playing"),
			"",
			style.Truncate(b.width)(fmt.Sprintf("%s %s", icon.Get(icon.Progress), style.Fg(color.Purple)(title))),
			style.Faint(fmt.Sprintf("%d / %d in %s", b.navigator.Index()+1, b.navigator.Len(), b.navigator.Playlist().String())),
			"",
			style.Truncate(b.width)(status),
			"",
			b.progressC.ViewAs(float64(aggregate) / 100),
			style.Faint(fmt.Sprintf("%d%% of the playlist watched", aggregate)),
		},
	)
}

func (b *statefulBubble) viewSessionStatus(state session.State, snapshot session.Snapshot) string {
	position := util.Clock(snapshot.Position)
	if snapshot.Duration > 0 {
		position = fmt.Sprintf("%s / %s", position, util.Clock(snapshot.Duration))
	}

	switch state {
	case session.Uninitialized, session.Loading:
		return b.spinnerC.View() + " Waiting for the player"
	case session.Playing:
		return fmt.Sprintf("%s %s", icon.Get(icon.Play), position)
	case session.Paused:
		return fmt.Sprintf("%s %s", icon.Get(icon.Pause), position)
	case session.Ended:
		return fmt.Sprintf("%s Finished", icon.Get(icon.Success))
	default:
		return state.String()
	}
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	errorMsg := wrap.String(errorStyle.Render(b.lastError.Error()), b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
