package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/rogersnm/todomaster/internal/listfile"
)

var listNameCmd = &cobra.Command{
	Use:   "list-name",
	Short: "Choose which named list this directory uses",
}

var listNameLinkCmd = &cobra.Command{
	Use:   "link [name]",
	Short: "Link the current directory to a list",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) == 1 {
			name = args[0]
		} else {
			keys, err := slot.Keys(cmd.Context())
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				return fmt.Errorf("no lists exist yet; pass a name: todomaster list-name link <name>")
			}
			opts := make([]huh.Option[string], len(keys))
			for i, k := range keys {
				opts[i] = huh.NewOption(k, k)
			}
			if err := huh.NewSelect[string]().
				Title("Select a list").
				Options(opts...).
				Value(&name).
				Run(); err != nil {
				return fmt.Errorf("selection cancelled")
			}
		}

		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		if err := listfile.Write(cwd, name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Linked %s to list %s\n", listfile.FileName, name)
		return nil
	},
}

var listNameUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Remove the list link from the current directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		if !listfile.Exists(cwd) {
			return fmt.Errorf("no %s in %s", listfile.FileName, cwd)
		}
		name, readErr := listfile.Read(cwd)
		if err := listfile.Remove(cwd); err != nil {
			return err
		}
		if readErr != nil || name == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Removed invalid %s\n", listfile.FileName)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Unlinked list %s\n", name)
		return nil
	},
}

var listNameShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the list in use and where the name came from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, source, err := resolveList()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", name, source)
		return nil
	},
}

var listNameAllCmd = &cobra.Command{
	Use:   "all",
	Short: "List every stored list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := slot.Keys(cmd.Context())
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No lists found.")
			return nil
		}
		for _, k := range keys {
			marker := "  "
			if k == st.Key() {
				marker = "* "
			}
			fmt.Fprintln(cmd.OutOrStdout(), marker+k)
		}
		return nil
	},
}

func init() {
	listNameCmd.AddCommand(listNameLinkCmd, listNameUnlinkCmd, listNameShowCmd, listNameAllCmd)
	rootCmd.AddCommand(listNameCmd)
}
