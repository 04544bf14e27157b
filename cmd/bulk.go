package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rogersnm/todomaster/internal/render"
	"github.com/rogersnm/todomaster/internal/tasklist"
)

var toggleAllCmd = &cobra.Command{
	Use:   "toggle-all",
	Short: "Complete every task, or reopen all when every task is done",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := sess.ToggleAll(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), render.RenderStats(st.Stats()))
		return err
	},
}

var clearCompletedCmd = &cobra.Command{
	Use:   "clear-completed",
	Short: "Delete every completed task",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := sess.ClearCompleted(cmd.Context())
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completed task(s)\n", n)
		return err
	},
}

var clearAllCmd = &cobra.Command{
	Use:   "clear-all",
	Short: "Delete every task",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var confirmer tasklist.Confirmer = huhConfirmer
		if force, _ := cmd.Flags().GetBool("force"); force {
			confirmer = tasklist.Confirmed
		}
		cleared, err := sess.ClearAll(cmd.Context(), confirmer)
		if err != nil && !cleared {
			return err
		}
		if !cleared {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cleared all tasks")
		return err
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task counts and completion rate",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := sess.View().Stats
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			return enc.Encode(s)
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.StatsLine(s))
		return nil
	},
}

func init() {
	clearAllCmd.Flags().Bool("force", false, "skip confirmation")
	statsCmd.Flags().Bool("json", false, "print stats as JSON")

	rootCmd.AddCommand(toggleAllCmd, clearCompletedCmd, clearAllCmd, statsCmd)
}
