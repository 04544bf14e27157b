package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rogersnm/todomaster/internal/editor"
	"github.com/rogersnm/todomaster/internal/model"
	"github.com/rogersnm/todomaster/internal/render"
)

var addCmd = &cobra.Command{
	Use:   "add [text...]",
	Short: "Add a task",
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if len(args) == 0 {
			text = readStdin()
		}
		sess.SetInput(text)
		t, err := sess.Submit(cmd.Context())
		if t == nil {
			if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to add")
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added task %d\n", t.ID)
		return err
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		filterStr, _ := cmd.Flags().GetString("filter")
		query, _ := cmd.Flags().GetString("search")

		f, err := model.ParseFilter(filterStr)
		if err != nil {
			return err
		}
		sess.SetFilter(f)
		sess.SetSearch(query)

		v := sess.View()
		fmt.Fprintln(cmd.OutOrStdout(), render.RenderTaskTable(v.Visible, f, query))
		fmt.Fprintln(cmd.OutOrStdout(), render.RenderStats(v.Stats))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		t, ok := st.Get(id)
		if !ok {
			return notFound(id)
		}

		fmt.Fprint(cmd.OutOrStdout(), render.RenderTask(t))
		if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
			out, err := render.RenderMarkdown(t.Text)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
		}
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Mark a task done, or reopen a done task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		changed, err := sess.Toggle(cmd.Context(), id)
		if !changed {
			return notFound(id)
		}
		t, _ := st.Get(id)
		if t.Completed {
			fmt.Fprintf(cmd.OutOrStdout(), "Completed task %d\n", id)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Reopened task %d\n", id)
		}
		return err
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		deleted, err := sess.Delete(cmd.Context(), id)
		if !deleted {
			return notFound(id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
		return err
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id> [text...]",
	Short: "Change the text of a task (opens $EDITOR when no text is given)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		t, ok := st.Get(id)
		if !ok {
			return notFound(id)
		}

		sess.BeginEdit(t.ID, t.Text)
		text := strings.Join(args[1:], " ")
		if len(args) == 1 {
			text, err = editor.EditText(t.Text)
			if err != nil {
				sess.CancelEdit()
				return err
			}
		}
		sess.SetEditBuffer(text)

		changed, err := sess.SaveEdit(cmd.Context())
		if !changed {
			fmt.Fprintln(cmd.OutOrStdout(), "Edit cancelled")
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated task %d\n", id)
		return err
	},
}

func readStdin() string {
	info, err := os.Stdin.Stat()
	if err != nil {
		return ""
	}
	// Only read if stdin is explicitly a pipe (not a terminal, not a socket)
	if info.Mode()&os.ModeNamedPipe == 0 && info.Size() == 0 {
		return ""
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return ""
	}
	return string(data)
}

func init() {
	listCmd.Flags().String("filter", "all", "filter: all, active, completed")
	listCmd.Flags().StringP("search", "s", "", "only tasks whose text contains this (case-insensitive)")
	showCmd.Flags().Bool("pretty", false, "render the task text as markdown")

	rootCmd.AddCommand(addCmd, listCmd, showCmd, toggleCmd, deleteCmd, editCmd)
}
