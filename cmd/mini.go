package cmd

import (
	"errors"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/playtrail/playtrail/mini"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(miniCmd)

	miniCmd.Flags().BoolP("continue", "c", false, "Reopen the last played playlist position")
}

var miniCmd = &cobra.Command{
	Use:   "mini",
	Short: "Launch the prompt-based interface",
	Long:  `Pick playlists and items from simple prompts instead of the full-screen interface.`,
	Run: func(cmd *cobra.Command, args []string) {
		options := mini.Options{
			Continue: lo.Must(cmd.Flags().GetBool("continue")),
		}

		if err := mini.Run(&options); err != nil && !errors.Is(err, terminal.InterruptErr) {
			handleErr(err)
		}
	},
}
