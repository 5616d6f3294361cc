package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/playtrail/playtrail/catalog"
	"github.com/playtrail/playtrail/color"
	"github.com/playtrail/playtrail/filesystem"
	"github.com/playtrail/playtrail/icon"
	"github.com/playtrail/playtrail/progress"
	"github.com/playtrail/playtrail/style"
	"github.com/playtrail/playtrail/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(progressCmd)
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Inspect and edit stored watch progress",
}

func init() {
	progressCmd.AddCommand(progressListCmd)
	progressListCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	progressListCmd.Flags().BoolP("watched", "w", false, "Only list watched items")
}

var progressListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every item with stored progress",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := progress.Open()
		handleErr(err)
		defer store.Close()

		records := store.Load()
		if lo.Must(cmd.Flags().GetBool("watched")) {
			records = lo.PickBy(records, func(_ string, r progress.Record) bool { return r.Watched })
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(records))
			return
		}

		if len(records) == 0 {
			cmd.Println(style.Faint("No progress stored yet"))
			return
		}

		// titles are a nicety, a missing catalog is not an error here
		c, _ := catalog.Open()

		ids := lo.Keys(records)
		sort.Strings(ids)

		rows := lo.Map(ids, func(id string, _ int) []string {
			r := records[id]
			return []string{
				id,
				itemTitle(c, id),
				util.Clock(r.Timestamp),
				lo.Ternary(r.Duration > 0, util.Clock(r.Duration), ""),
				fmt.Sprintf("%.0f%%", r.Percentage()),
				lo.Ternary(r.Watched, icon.Get(icon.Watched), ""),
				r.UpdatedAt().Format(time.DateTime),
			}
		})

		cmd.Println(renderTable(
			[]string{"Item", "Title", "Position", "Duration", "Progress", "Watched", "Updated"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
		))
	},
}

func itemTitle(c *catalog.Catalog, id string) string {
	if c == nil {
		return ""
	}

	if item, ok := c.Item(id).Get(); ok {
		return item.Title
	}

	return style.Faint("not in catalog")
}

func init() {
	progressCmd.AddCommand(progressMarkCmd)
	progressMarkCmd.Flags().Float64P("position", "p", -1, "Store this position in seconds instead of marking as watched")
}

var progressMarkCmd = &cobra.Command{
	Use:   "mark <item>...",
	Short: "Mark items as watched, or store a position for them",
	Long: `Mark items as watched, or store a position for them.

Watched is never undone by a later position, so marking a watched item
with --position only moves its resume point.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := progress.Open()
		handleErr(err)
		defer store.Close()

		position := lo.Must(cmd.Flags().GetFloat64("position"))

		for _, id := range args {
			record, _ := store.Get(id)

			if position >= 0 {
				handleErr(store.Save(id, position, record.Duration, false))
				cmd.Printf("%s %s at %s\n", icon.Get(icon.Success), style.Fg(color.Purple)(id), util.Clock(position))
				continue
			}

			handleErr(store.Save(id, record.Timestamp, record.Duration, true))
			cmd.Printf("%s %s marked as watched\n", icon.Get(icon.Success), style.Fg(color.Purple)(id))
		}
	},
}

func init() {
	progressCmd.AddCommand(progressExportCmd)
	progressExportCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
}

var progressExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all stored progress as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := progress.Open()
		handleErr(err)
		defer store.Close()

		var out io.Writer = cmd.OutOrStdout()
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer file.Close()
			out = file
		}

		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(store.Load()))
	},
}

func init() {
	progressCmd.AddCommand(progressImportCmd)
}

var progressImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all stored progress with an exported JSON file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := filesystem.API().ReadFile(args[0])
		handleErr(err)

		var records map[string]progress.Record
		if err := json.Unmarshal(data, &records); err != nil {
			handleErr(fmt.Errorf("%s is not a progress export: %w", args[0], err))
		}

		store, err := progress.Open()
		handleErr(err)
		defer store.Close()

		handleErr(store.Replace(records))
		cmd.Printf("%s imported %s\n", icon.Get(icon.Success), util.Quantify(len(records), "record", "records"))
	},
}

func init() {
	progressCmd.AddCommand(progressResetCmd)
	progressResetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

var progressResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget all watch progress",
	Run: func(cmd *cobra.Command, args []string) {
		if !lo.Must(cmd.Flags().GetBool("yes")) {
			var confirm bool
			handleErr(survey.AskOne(&survey.Confirm{
				Message: "Forget progress for every item?",
			}, &confirm, survey.WithStdio(os.Stdin, os.Stdout, os.Stderr)))

			if !confirm {
				return
			}
		}

		store, err := progress.Open()
		handleErr(err)
		defer store.Close()

		handleErr(store.Reset())
		cmd.Printf("%s progress reset\n", icon.Get(icon.Success))
	},
}
