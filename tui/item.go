package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/playtrail/playtrail/catalog"
	"github.com/playtrail/playtrail/icon"
	"github.com/playtrail/playtrail/key"
	"github.com/playtrail/playtrail/navigator"
	"github.com/playtrail/playtrail/style"
	"github.com/playtrail/playtrail/util"
	"github.com/spf13/viper"
)

// playlistSummary is a playlist with its completion computed at load time.
type playlistSummary struct {
	playlist  *catalog.Playlist
	aggregate int
	holes     int
}

// listItem implements the list.Item interface, wrapping domain models for terminal display.
type listItem struct {
	internal interface{}
}

func (t *listItem) Title() (title string) {
	switch e := t.internal.(type) {
	case *playlistSummary:
		title = e.playlist.String()
		if e.playlist.Locked {
			title = fmt.Sprintf("%s %s", title, icon.Get(icon.Locked))
		}
	case navigator.Entry:
		title = fmt.Sprintf("%d. %s", e.Index+1, t.FilterValue())

		switch {
		case e.Watched:
			title = fmt.Sprintf("%s %s", title, lipgloss.NewStyle().Foreground(style.SuccessColor).Render(icon.Get(icon.Watched)))
		case e.Gated:
			title = style.Faint(fmt.Sprintf("%s %s", title, icon.Get(icon.Locked)))
		}

		if e.Current {
			title = fmt.Sprintf("%s %s", title, lipgloss.NewStyle().Bold(true).Foreground(style.AccentColor).Render(icon.Get(icon.Play)))
		}
	case string:
		title = e
	default:
		title = t.FilterValue()
	}

	return
}

func (t *listItem) Description() (description string) {
	switch e := t.internal.(type) {
	case *playlistSummary:
		parts := []string{
			util.Quantify(len(e.playlist.Items), "item", "items"),
			lipgloss.NewStyle().Foreground(completionColor(e.aggregate)).Render(fmt.Sprintf("%d%% watched", e.aggregate)),
		}

		if e.holes > 0 {
			parts = append(parts, lipgloss.NewStyle().Foreground(style.WarningColor).Render(util.Quantify(e.holes, "missing item", "missing items")))
		}

		description = strings.Join(parts, " • ")
	case navigator.Entry:
		var parts []string

		if e.Item.Duration > 0 {
			parts = append(parts, util.Clock(e.Item.Duration))
		}

		if record, ok := e.Record.Get(); ok && !record.Watched && record.Timestamp > 0 {
			parts = append(parts, lipgloss.NewStyle().Foreground(style.WarningColor).Render(fmt.Sprintf("resume at %s", util.Clock(record.Timestamp))))
		}

		if e.Gated {
			parts = append(parts, "locked")
		}

		if viper.GetBool(key.TUIShowSources) {
			parts = append(parts, style.Faint(e.Item.Source))
		}

		description = strings.Join(parts, " • ")
	}

	return
}

func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case *playlistSummary:
		return e.playlist.String()
	case navigator.Entry:
		return e.Item.String()
	case string:
		return e
	default:
		return ""
	}
}

func completionColor(aggregate int) lipgloss.Color {
	switch {
	case aggregate >= 100:
		return style.SuccessColor
	case aggregate > 0:
		return style.WarningColor
	default:
		return style.FaintColor
	}
}
