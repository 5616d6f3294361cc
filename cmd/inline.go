package cmd

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/playtrail/playtrail/catalog"
	"github.com/playtrail/playtrail/filesystem"
	"github.com/playtrail/playtrail/inline"
	"github.com/playtrail/playtrail/key"
	"github.com/playtrail/playtrail/player"
	"github.com/playtrail/playtrail/progress"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(inlineCmd)

	inlineCmd.Flags().StringP("query", "q", "", "Playlist name or id to search for")
	inlineCmd.Flags().StringP("playlist", "p", "", "Which of the matching playlists to pick")
	inlineCmd.Flags().StringP("items", "i", "", "Which playlist items to select")
	inlineCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON object")
	inlineCmd.Flags().Bool("play", false, "Play the selected items in order before reporting")
	inlineCmd.Flags().StringP("output", "o", "", "Write the output to this file")

	lo.Must0(inlineCmd.RegisterFlagCompletionFunc("query", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		c, err := catalog.Open()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		return lo.Map(c.Find(toComplete), func(p *catalog.Playlist, _ int) string {
			return p.ID
		}), cobra.ShellCompDirectiveNoFileComp
	}))
}

var inlineCmd = &cobra.Command{
	Use:   "inline",
	Short: "Query and play playlists without the interactive interface",
	Long: `Select playlists and items from the command line and print them, optionally playing them.

Playlist selectors:
  first - first matching playlist
  last - last matching playlist
  exact - the playlist whose id or name equals the query
  [number] - select playlist by index (starting from 0)

Item selectors:
  first - first item of the playlist
  last - last item of the playlist
  all - every item
  unwatched - items not yet watched
  [number] - select item by index (starting from 0)
  [from]-[to] - select items by range
  @[substring]@ - select items by title substring

Without the json flag the playlist selector is required.`,
	Example: `  playtrail inline -q course -p exact -i unwatched
  playtrail inline -q course -p first -i 0-2 --play
  playtrail inline -j`,
	PreRun: func(cmd *cobra.Command, args []string) {
		if !lo.Must(cmd.Flags().GetBool("json")) {
			lo.Must0(cmd.MarkFlagRequired("playlist"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		query := lo.Must(cmd.Flags().GetString("query"))

		var out io.Writer = os.Stdout
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer file.Close()
			out = file
		}

		playlistPicker := mo.None[inline.PlaylistPicker]()
		if flag := lo.Must(cmd.Flags().GetString("playlist")); flag != "" {
			fn, err := inline.ParsePlaylistPicker(flag, query)
			handleErr(err)
			playlistPicker = mo.Some(fn)
		}

		entriesFilter := mo.None[inline.EntriesFilter]()
		if flag := lo.Must(cmd.Flags().GetString("items")); flag != "" {
			fn, err := inline.ParseEntriesFilter(flag)
			handleErr(err)
			entriesFilter = mo.Some(fn)
		}

		c, err := catalog.Open()
		handleErr(err)

		store, err := progress.Open()
		handleErr(err)
		defer store.Close()

		options := &inline.Options{
			Out:            out,
			Catalog:        c,
			Store:          store,
			Json:           lo.Must(cmd.Flags().GetBool("json")),
			Query:          query,
			PlaylistPicker: playlistPicker,
			EntriesFilter:  entriesFilter,
			Play:           lo.Must(cmd.Flags().GetBool("play")),
		}

		if options.Play {
			options.Capability, err = player.New(viper.GetString(key.Player))
			handleErr(err)
		}

		handleErr(inline.Run(options))
	},
}

func init() {
	inlineCmd.AddCommand(inlineSchemaCmd)

	inlineSchemaCmd.Flags().Bool("catalog", false, "Generate the schema of the catalog instead")
}

var inlineSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the inline output",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "item", "playlist", "output", "record":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		var schema *jsonschema.Schema

		switch {
		case lo.Must(cmd.Flags().GetBool("catalog")):
			schema = reflector.Reflect(&catalog.Document{})
		default:
			schema = reflector.Reflect(&inline.Output{})
		}

		handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(schema))
	},
}
