package cmd

import (
	"fmt"
	"strconv"

	"github.com/playtrail/playtrail/catalog"
	"github.com/playtrail/playtrail/icon"
	"github.com/playtrail/playtrail/inline"
	"github.com/playtrail/playtrail/navigator"
	"github.com/playtrail/playtrail/progress"
	"github.com/playtrail/playtrail/style"
	"github.com/playtrail/playtrail/util"
	"github.com/playtrail/playtrail/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(playlistsCmd)
	playlistsCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
}

var playlistsCmd = &cobra.Command{
	Use:     "playlists [query]",
	Short:   "List playlists with their completion",
	Aliases: []string{"ls"},
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, store := openCatalogAndStore()
		defer store.Close()

		query := ""
		if len(args) > 0 {
			query = args[0]
		}

		playlists := c.Find(query)
		if len(playlists) == 0 {
			if suggestion, ok := c.Closest(query).Get(); ok {
				handleErr(fmt.Errorf("no playlist matches %q, did you mean %q?", query, suggestion.ID))
			}
			handleErr(fmt.Errorf("no playlists in %s", where.Catalog()))
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(inline.Run(&inline.Options{
				Out:     cmd.OutOrStdout(),
				Catalog: c,
				Store:   store,
				Json:    true,
				Query:   query,
			}))
			return
		}

		rows := lo.Map(playlists, func(p *catalog.Playlist, _ int) []string {
			nav := navigator.New(p, c, store, navigator.Configured()...)
			holes := lo.CountBy(nav.Entries(), func(e navigator.Entry) bool { return e.Hole })

			return []string{
				p.ID,
				p.String(),
				strconv.Itoa(nav.Len()),
				lo.Ternary(p.Locked, icon.Get(icon.Locked), ""),
				lo.Ternary(holes > 0, strconv.Itoa(holes), ""),
				fmt.Sprintf("%d%%", nav.AggregateProgress()),
			}
		})

		cmd.Println(renderTable(
			[]string{"ID", "Name", "Items", "Locked", "Missing", "Progress"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight},
		))
	},
}

func init() {
	playlistsCmd.AddCommand(playlistsShowCmd)
	playlistsShowCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
}

var playlistsShowCmd = &cobra.Command{
	Use:   "show <playlist>",
	Short: "Show every item of a playlist with its watch state",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		c, err := catalog.Open()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return lo.Map(c.Find(toComplete), func(p *catalog.Playlist, _ int) string {
			return p.ID
		}), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		c, store := openCatalogAndStore()
		defer store.Close()

		p := resolvePlaylist(c, args[0])

		if lo.Must(cmd.Flags().GetBool("json")) {
			picker, err := inline.ParsePlaylistPicker("exact", p.ID)
			handleErr(err)

			handleErr(inline.Run(&inline.Options{
				Out:            cmd.OutOrStdout(),
				Catalog:        c,
				Store:          store,
				Json:           true,
				Query:          p.ID,
				PlaylistPicker: mo.Some(picker),
			}))
			return
		}

		nav := navigator.New(p, c, store, navigator.Configured()...)
		entries := nav.Entries()

		rows := lo.Map(entries, func(e navigator.Entry, _ int) []string {
			return []string{
				strconv.Itoa(e.Index + 1),
				e.ItemID,
				lo.TernaryF(e.Hole, func() string { return "" }, func() string { return e.Item.String() }),
				entryState(e),
			}
		})

		cmd.Printf("%s %s %s\n", icon.Get(icon.Playlist), style.Bold(p.String()), style.Faint(fmt.Sprintf("(%d%% watched)", nav.AggregateProgress())))
		cmd.Println(renderTable(
			[]string{"#", "ID", "Title", "State"},
			rows,
			[]columnAlignment{alignRight},
		))
	},
}

func entryState(e navigator.Entry) string {
	switch {
	case e.Hole:
		return icon.Get(icon.Missing) + " missing"
	case e.Watched:
		return icon.Get(icon.Watched) + " watched"
	case e.Gated:
		return icon.Get(icon.Locked) + " locked"
	}

	if record, ok := e.Record.Get(); ok && record.Timestamp > 0 {
		return fmt.Sprintf("%s %s", icon.Get(icon.Pause), util.Clock(record.Timestamp))
	}

	return ""
}

func openCatalogAndStore() (*catalog.Catalog, *progress.Store) {
	c, err := catalog.Open()
	handleErr(err)

	store, err := progress.Open()
	handleErr(err)

	return c, store
}

func resolvePlaylist(c *catalog.Catalog, ref string) *catalog.Playlist {
	if p, ok := c.Playlist(ref).Get(); ok {
		return p
	}

	if suggestion, ok := c.Closest(ref).Get(); ok {
		handleErr(fmt.Errorf("unknown playlist %q, did you mean %q?", ref, suggestion.ID))
	}

	handleErr(fmt.Errorf("unknown playlist %q", ref))
	return nil
}
