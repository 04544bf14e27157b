// Package render turns tasks and stats into terminal output.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rogersnm/todomaster/internal/model"
)

const timeLayout = "2006-01-02 15:04"

var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	LabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	ActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	DoneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	AccentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

// Checkbox is the one-cell completion marker.
func Checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

func StatusLabel(completed bool) string {
	if completed {
		return "done"
	}
	return "active"
}

func RenderStatus(completed bool) string {
	if completed {
		return DoneStyle.Render(StatusLabel(true))
	}
	return ActiveStyle.Render(StatusLabel(false))
}

// FilterLabel is the display name of a filter, e.g. "Active".
func FilterLabel(f model.Filter) string {
	return cases.Title(language.English).String(string(f))
}

func FormatTime(t time.Time) string {
	return t.Local().Format(timeLayout)
}

func RenderField(label, value string) string {
	return LabelStyle.Render(label+":") + " " + value
}

func RenderEntityHeader(title string, fields []string) string {
	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render(title))
	sb.WriteString("\n")
	for _, f := range fields {
		sb.WriteString("  " + f + "\n")
	}
	return sb.String()
}

// RenderTask is the detail view used by show.
func RenderTask(t model.Task) string {
	return RenderEntityHeader(t.Text, []string{
		RenderField("ID", fmt.Sprintf("%d", t.ID)),
		RenderField("Status", RenderStatus(t.Completed)),
		RenderField("Created", FormatTime(t.CreatedAt)),
	})
}

// StatsLine summarises the whole list in one line.
func StatsLine(s model.Stats) string {
	return fmt.Sprintf("Total: %d  Active: %d  Completed: %d  Progress: %d%%",
		s.Total, s.Active, s.Completed, s.CompletionRate)
}

func RenderStats(s model.Stats) string {
	return LabelStyle.Render(StatsLine(s))
}
