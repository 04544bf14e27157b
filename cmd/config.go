package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/rogersnm/todomaster/internal/config"
	"github.com/rogersnm/todomaster/internal/kv"
	"github.com/rogersnm/todomaster/internal/render"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Choose where lists are stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		choice := cfg.Backend
		err := huh.NewSelect[string]().
			Title("Where should lists be stored?").
			Options(
				huh.NewOption("Files, one JSON document per list", kv.BackendFile),
				huh.NewOption("SQLite database", kv.BackendSQLite),
			).
			Value(&choice).
			Run()
		if err != nil {
			return fmt.Errorf("selection cancelled")
		}
		if err := cfg.Set("backend", choice); err != nil {
			return err
		}
		if err := config.Save(dataDir, cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Lists will be stored using the %s backend in %s\n", choice, dataDir)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list := cfg.List
		if list == "" {
			list = "(default)"
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.RenderEntityHeader("Configuration", []string{
			render.RenderField("Data", dataDir),
			render.RenderField("Backend", cfg.Backend),
			render.RenderField("List", list),
			render.RenderField("Log level", cfg.LogLevel),
			render.RenderField("Log format", cfg.LogFormat),
		}))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Set one configuration value",
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.Keys(),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := config.Save(dataDir, cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
