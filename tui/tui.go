// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/playtrail/playtrail/catalog"
	"github.com/playtrail/playtrail/history"
	"github.com/playtrail/playtrail/key"
	"github.com/playtrail/playtrail/player"
	"github.com/playtrail/playtrail/progress"
	"github.com/spf13/viper"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	Continue bool
}

// Run loads the catalog and progress store and runs the interface until the user quits.
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

	bubble := newBubble(c, store, capability, options)
	bubble.loadPlaylists()

	if options.Continue {
		last, err := history.Last()
		if err != nil {
			return err
		}

		entry, ok := last.Get()
		if !ok {
			return fmt.Errorf("nothing to continue")
		}

		if err := bubble.continueFrom(entry); err != nil {
			return err
		}
	} else {
		bubble.newState(playlistsState)
	}

	defer bubble.closeNavigator()

	_, err = tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
