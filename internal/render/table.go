package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/rogersnm/todomaster/internal/model"
)

var (
	headerRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle      = lipgloss.NewStyle()
)

// RenderTaskTable lists tasks in the order given. An empty slice renders the
// empty-state message for the filter in effect.
func RenderTaskTable(tasks []model.Task, f model.Filter, query string) string {
	if len(tasks) == 0 {
		return EmptyMessage(f, query)
	}
	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		rows[i] = []string{fmt.Sprintf("%d", t.ID), Checkbox(t.Completed), t.Text, FormatTime(t.CreatedAt)}
	}
	return renderTable([]string{"ID", "Done", "Task", "Created"}, rows, tasks)
}

// EmptyMessage explains why nothing is listed.
func EmptyMessage(f model.Filter, query string) string {
	switch {
	case query != "":
		return fmt.Sprintf("No tasks match %q.", query)
	case f == model.FilterActive:
		return "No active tasks."
	case f == model.FilterCompleted:
		return "No completed tasks."
	default:
		return "No tasks yet."
	}
}

func renderTable(headers []string, rows [][]string, tasks []model.Task) string {
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerRowStyle
			}
			if row >= 0 && row < len(tasks) && tasks[row].Completed {
				return DoneStyle
			}
			return cellStyle
		})
	return t.Render()
}
