package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rogersnm/todomaster/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive task list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(cmd.Context(), sess)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
