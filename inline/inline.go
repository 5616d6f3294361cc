package inline

import (
	"errors"
	"fmt"
	"os"

	"github.com/playtrail/playtrail/catalog"
	"github.com/playtrail/playtrail/log"
	"github.com/playtrail/playtrail/navigator"
	"github.com/playtrail/playtrail/session"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Run selects playlists and entries, optionally plays them, and writes the result.
func Run(options *Options) error {
	if options.Catalog == nil || options.Store == nil {
		return errors.New("catalog and progress store are required")
	}

	if options.Out == nil {
		options.Out = os.Stdout
	}

	playlists := options.Catalog.Find(options.Query)

	if picker, ok := options.PlaylistPicker.Get(); ok {
		if choice := picker(playlists); choice != nil {
			playlists = []*catalog.Playlist{choice}
		} else {
			playlists = nil
		}
	}

	if len(playlists) == 0 {
		if suggestion, ok := options.Catalog.Closest(options.Query).Get(); ok && options.Query != "" {
			log.Infof("no playlist matches %q, did you mean %q?", options.Query, suggestion.ID)
		}

		if options.Json {
			return writeJson(options.Out, nil, options)
		}
		return nil
	}

	if options.Play && options.Capability == nil {
		return errors.New("no player available")
	}

	if options.Play && len(playlists) > 1 {
		return fmt.Errorf("%d playlists match %q, pick one to play", len(playlists), options.Query)
	}

	result := make([]*Playlist, 0, len(playlists))
	for _, p := range playlists {
		nav, current := newNavigator(p, options)

		entries, err := selectEntries(nav, options)
		if err != nil {
			return err
		}

		if options.Play {
			err = play(nav, entries, current)
			nav.Close()
			if err != nil {
				return err
			}

			// reread so the report reflects what was just watched
			entries, err = selectEntries(nav, options)
			if err != nil {
				return err
			}
		}

		if options.Json {
			result = append(result, newPlaylist(p, nav.AggregateProgress(), entries))
			continue
		}

		for _, e := range entries {
			if e.Hole {
				log.Warnf("playlist %s references missing item %s", p.ID, e.ItemID)
				continue
			}

			log.Info("Found " + e.Item.String())
			fmt.Fprintln(options.Out, e.Item.Source)
		}
	}

	if options.Json {
		return writeJson(options.Out, result, options)
	}

	return nil
}

func selectEntries(nav *navigator.Navigator, options *Options) ([]navigator.Entry, error) {
	entries := nav.Entries()

	if filter, ok := options.EntriesFilter.Get(); ok {
		return filter(entries)
	}

	return entries, nil
}

func newNavigator(p *catalog.Playlist, options *Options) (*navigator.Navigator, func() *session.Session) {
	var current *session.Session

	navOptions := navigator.Configured()
	if options.Play {
		navOptions = append(navOptions, navigator.WithPlayback(func(item *catalog.Item) navigator.Playback {
			current = session.New(item, options.Store, options.Capability, session.Configured()...)
			return current
		}))
	}

	return navigator.New(p, options.Catalog, options.Store, navOptions...), func() *session.Session { return current }
}

// play watches each playable entry in order. Closing the player stops the run.
func play(nav *navigator.Navigator, entries []navigator.Entry, current func() *session.Session) error {
	playable := lo.Filter(entries, func(e navigator.Entry, _ int) bool {
		return !e.Hole && !e.Gated
	})

	for _, e := range playable {
		nav.Close()
		if !nav.SelectIndex(e.Index) {
			continue
		}

		nav.Play()
		s := current()
		log.WithFields(logrus.Fields{
			"session": s.ID(),
			"index":   e.Index,
		}).Info("playing " + e.Item.String())

		if s.Stalled() {
			return fmt.Errorf("could not start player for %s", e.ItemID)
		}
		if s.State() == session.Uninitialized {
			log.Info("waiting for player")
		}

		<-s.Done()
		if s.State() == session.TornDown {
			log.Info("player closed, stopping")
			return nil
		}
	}

	return nil
}
