package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	mtp "github.com/modeltoolsprotocol/go-sdk"
	"github.com/spf13/cobra"

	"github.com/rogersnm/todomaster/internal/config"
	"github.com/rogersnm/todomaster/internal/kv"
	"github.com/rogersnm/todomaster/internal/listfile"
	"github.com/rogersnm/todomaster/internal/logging"
	"github.com/rogersnm/todomaster/internal/session"
	"github.com/rogersnm/todomaster/internal/tasklist"
)

var (
	version  = "dev"
	dataDir  string
	listName string
	logLevel string
	cfg      *config.Config
	logger   *log.Logger
	slot     kv.Store
	st       *tasklist.Store
	sess     *session.Session
)

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".todomaster")
	}
	return filepath.Join(home, ".todomaster")
}

var rootCmd = &cobra.Command{
	Use:     "todomaster",
	Short:   "A task list for the terminal",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}

		var err error
		cfg, err = config.Load(dataDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		level := cfg.LogLevel
		if logLevel != "" {
			level = logLevel
		}
		logger, err = logging.New(cmd.ErrOrStderr(), level, cfg.LogFormat)
		if err != nil {
			return err
		}

		if !needsList(cmd) {
			return nil
		}

		slot, err = kv.Open(cmd.Context(), cfg.Backend, dataDir)
		if err != nil {
			return fmt.Errorf("opening %s backend: %w", cfg.Backend, err)
		}
		key, source, err := resolveList()
		if err != nil {
			return err
		}
		logger.Debug("opening list", "list", key, "from", source, "backend", cfg.Backend)

		st, err = tasklist.Open(cmd.Context(), slot, key, tasklist.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("opening list %q: %w", key, err)
		}
		sess = session.New(st)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeSlot()
	},
	SilenceUsage: true,
}

// needsList reports whether cmd works on an open list. Config commands and
// the list-name commands that inspect or remove the link file must keep
// working when that file is broken.
func needsList(cmd *cobra.Command) bool {
	if cmd.Name() == "config" || (cmd.Parent() != nil && cmd.Parent().Name() == "config") {
		return false
	}
	if cmd.Parent() != nil && cmd.Parent().Name() == "list-name" {
		return cmd.Name() != "unlink" && cmd.Name() != "show"
	}
	return true
}

func closeSlot() error {
	if slot == nil {
		return nil
	}
	err := slot.Close()
	slot = nil
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "data directory path")
	rootCmd.PersistentFlags().StringVarP(&listName, "list", "l", "", "list name (default: linked list, then config, then \"todos\")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	mtpOpts := &mtp.DescribeOptions{
		Commands: map[string]*mtp.CommandAnnotation{
			"add": {
				Stdin: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Task text, used when no arguments are given",
				},
				Examples: []mtp.Example{
					{Description: "Add a task", Command: "todomaster add \"Buy milk\""},
					{Description: "Add to a named list", Command: "todomaster add \"Fix login bug\" --list work"},
				},
			},
			"list": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Table of tasks with ID, done marker, text and creation time, followed by stats",
				},
				Examples: []mtp.Example{
					{Description: "List active tasks", Command: "todomaster list --filter active"},
					{Description: "Search all tasks", Command: "todomaster list --search milk"},
				},
			},
			"show": {
				Examples: []mtp.Example{
					{Description: "Show a task", Command: "todomaster show 1772366400000"},
					{Description: "Render the task text as markdown", Command: "todomaster show 1772366400000 --pretty"},
				},
			},
			"toggle": {
				Examples: []mtp.Example{
					{Description: "Mark a task done, or reopen it", Command: "todomaster toggle 1772366400000"},
				},
			},
			"delete": {
				Examples: []mtp.Example{
					{Description: "Delete a task", Command: "todomaster delete 1772366400000"},
				},
			},
			"edit": {
				Examples: []mtp.Example{
					{Description: "Replace task text", Command: "todomaster edit 1772366400000 \"Buy oat milk\""},
					{Description: "Edit task text in $EDITOR", Command: "todomaster edit 1772366400000"},
				},
			},
			"clear-all": {
				Examples: []mtp.Example{
					{Description: "Delete every task (interactive confirm)", Command: "todomaster clear-all"},
					{Description: "Delete every task (skip confirm)", Command: "todomaster clear-all --force"},
				},
			},
			"stats": {
				Stdout: &mtp.IODescriptor{
					ContentType: "application/json",
					Description: "Total, active, completed and completion rate when --json is set",
				},
			},
			"export": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/markdown",
					Description: "Checklist with a YAML front matter header, or JSON/YAML/TOML with --format",
				},
				Examples: []mtp.Example{
					{Description: "Export as a markdown checklist", Command: "todomaster export"},
					{Description: "Back up as JSON", Command: "todomaster export --format json --output todos.json"},
				},
			},
			"import": {
				Examples: []mtp.Example{
					{Description: "Import a markdown checklist", Command: "todomaster import groceries.md"},
					{Description: "Import a YAML export into another list", Command: "todomaster import backup.yaml --list archive"},
				},
			},
			"list-name link": {
				Examples: []mtp.Example{
					{Description: "Use the work list in this directory and below", Command: "todomaster list-name link work"},
				},
			},
			"config set": {
				Examples: []mtp.Example{
					{Description: "Store lists in SQLite", Command: "todomaster config set backend sqlite"},
				},
			},
		},
	}

	mtp.WithDescribe(rootCmd, mtpOpts)
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer closeSlot()
	return rootCmd.ExecuteContext(ctx)
}

// resolveList returns the list name from the flag, a linked directory, the
// config default, or the built-in default, in that order.
func resolveList() (name, source string, err error) {
	if listName != "" {
		return listName, "flag", nil
	}
	if cwd, err := os.Getwd(); err == nil {
		name, dir, err := listfile.Find(cwd)
		if err != nil {
			return "", "", fmt.Errorf("%w (fix the file or run: todomaster list-name unlink)", err)
		}
		if name != "" {
			return name, filepath.Join(dir, listfile.FileName), nil
		}
	}
	if cfg != nil && cfg.List != "" {
		return cfg.List, "config", nil
	}
	return tasklist.DefaultKey, "default", nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

func notFound(id int64) error {
	return fmt.Errorf("task %d not found", id)
}

// huhConfirmer asks on the terminal.
var huhConfirmer = tasklist.ConfirmFunc(func(prompt string) (bool, error) {
	var ok bool
	if err := huh.NewConfirm().Title(prompt).Value(&ok).Run(); err != nil {
		return false, err
	}
	return ok, nil
})
