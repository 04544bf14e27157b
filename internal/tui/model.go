// Package tui is the interactive terminal front end. It renders one Session
// and turns key presses into session calls.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rogersnm/todomaster/internal/model"
	"github.com/rogersnm/todomaster/internal/render"
	"github.com/rogersnm/todomaster/internal/session"
	"github.com/rogersnm/todomaster/internal/tasklist"
)

type mode int

const (
	modeNormal mode = iota
	modeAdd
	modeEdit
	modeSearch
	modeConfirmClear
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("8"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(lipgloss.Color("12"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EE6FF8")).Bold(true)
	doneTextStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Strikethrough(true)
	modalStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(0, 2)
)

type Model struct {
	ctx   context.Context
	sess  *session.Session
	keys  KeyMap
	help  help.Model
	input textinput.Model

	mode   mode
	cursor int

	status    string
	statusErr bool

	width int
}

func New(ctx context.Context, sess *session.Session) *Model {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 60
	m := &Model{
		ctx:   ctx,
		sess:  sess,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		input: ti,
	}
	if err := sess.Store().Unreadable(); err != nil {
		m.report(err, "")
	}
	return m
}

// Run blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, sess *session.Session) error {
	p := tea.NewProgram(New(ctx, sess), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = max(20, msg.Width-12)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd, modeEdit, modeSearch:
			return m, m.updateInput(msg)
		case modeConfirmClear:
			m.updateConfirm(msg)
		default:
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			m.updateNormal(msg)
		}
	}
	return m, nil
}

func (m *Model) updateNormal(msg tea.KeyMsg) {
	visible := m.sess.View().Visible
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor--
	case key.Matches(msg, m.keys.Down):
		m.cursor++
	case key.Matches(msg, m.keys.Add):
		m.startInput(modeAdd, "Add: ", m.sess.State().Input)
	case key.Matches(msg, m.keys.Search):
		m.startInput(modeSearch, "Search: ", m.sess.State().Search)
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selected(visible); ok {
			_, err := m.sess.Toggle(m.ctx, t.ID)
			m.report(err, "")
		}
	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.selected(visible); ok {
			m.sess.BeginEdit(t.ID, t.Text)
			m.startInput(modeEdit, "Edit: ", t.Text)
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(visible); ok {
			_, err := m.sess.Delete(m.ctx, t.ID)
			m.report(err, "Deleted "+quote(t.Text))
		}
	case key.Matches(msg, m.keys.NextFilter):
		m.setFilter(m.sess.State().Filter.Next())
	case key.Matches(msg, m.keys.FilterAll):
		m.setFilter(model.FilterAll)
	case key.Matches(msg, m.keys.FilterActive):
		m.setFilter(model.FilterActive)
	case key.Matches(msg, m.keys.FilterCompleted):
		m.setFilter(model.FilterCompleted)
	case key.Matches(msg, m.keys.ToggleAll):
		m.report(m.sess.ToggleAll(m.ctx), "Toggled all tasks")
	case key.Matches(msg, m.keys.ClearCompleted):
		n, err := m.sess.ClearCompleted(m.ctx)
		m.report(err, fmt.Sprintf("Cleared %d completed", n))
	case key.Matches(msg, m.keys.ClearAll):
		if m.sess.Store().Len() > 0 {
			m.mode = modeConfirmClear
		}
	case key.Matches(msg, m.keys.Reload):
		m.sess.Store().Reload(m.ctx)
		m.report(nil, "Reloaded")
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	m.clampCursor()
}

func (m *Model) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.finishInput()
		return nil
	case key.Matches(msg, m.keys.Cancel):
		m.cancelInput()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	switch m.mode {
	case modeAdd:
		m.sess.SetInput(m.input.Value())
	case modeEdit:
		m.sess.SetEditBuffer(m.input.Value())
	case modeSearch:
		m.sess.SetSearch(m.input.Value())
		m.clampCursor()
	}
	return cmd
}

func (m *Model) finishInput() {
	switch m.mode {
	case modeAdd:
		t, err := m.sess.Submit(m.ctx)
		if t != nil {
			m.report(err, "Added "+quote(t.Text))
			m.cursor = len(m.sess.View().Visible) - 1
		} else {
			m.report(err, "")
		}
	case modeEdit:
		_, err := m.sess.SaveEdit(m.ctx)
		m.report(err, "")
	}
	m.endInput()
}

func (m *Model) cancelInput() {
	switch m.mode {
	case modeAdd:
		m.sess.SetInput("")
	case modeEdit:
		m.sess.CancelEdit()
	case modeSearch:
		m.sess.SetSearch("")
	}
	m.endInput()
}

func (m *Model) updateConfirm(msg tea.KeyMsg) {
	var answer bool
	switch {
	case key.Matches(msg, m.keys.Yes):
		answer = true
	case key.Matches(msg, m.keys.No):
	default:
		return
	}
	m.mode = modeNormal
	cleared, err := m.sess.ClearAll(m.ctx, tasklist.ConfirmFunc(func(string) (bool, error) {
		return answer, nil
	}))
	if cleared {
		m.report(err, "Cleared all tasks")
	}
	m.clampCursor()
}

func (m *Model) startInput(md mode, prompt, value string) {
	m.mode = md
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) endInput() {
	m.mode = modeNormal
	m.input.Blur()
	m.input.Reset()
	m.clampCursor()
}

func (m *Model) setFilter(f model.Filter) {
	m.sess.SetFilter(f)
	m.cursor = 0
}

func (m *Model) selected(visible []model.Task) (model.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(visible) {
		return model.Task{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.sess.View().Visible)
	m.cursor = min(m.cursor, n-1)
	m.cursor = max(m.cursor, 0)
}

// report shows err if set, otherwise ok (an empty ok leaves the status alone).
// The store keeps a change whose write failed, so the view stays current.
func (m *Model) report(err error, ok string) {
	switch {
	case err != nil:
		m.status = err.Error()
		m.statusErr = true
	case ok != "":
		m.status = ok
		m.statusErr = false
	}
}

func quote(s string) string {
	const limit = 40
	if r := []rune(s); len(r) > limit {
		s = string(r[:limit-1]) + "…"
	}
	return fmt.Sprintf("%q", s)
}

func (m *Model) View() string {
	v := m.sess.View()
	var b strings.Builder

	b.WriteString(titleStyle.Render("todomaster: " + m.sess.Store().Key()))
	b.WriteString("\n\n")
	b.WriteString(m.tabs(v.State.Filter))
	if v.State.Search != "" && m.mode != modeSearch {
		b.WriteString(render.LabelStyle.Render("  search: " + v.State.Search))
	}
	b.WriteString("\n\n")

	if len(v.Visible) == 0 {
		b.WriteString("  " + render.LabelStyle.Render(render.EmptyMessage(v.State.Filter, v.State.Search)) + "\n")
	}
	for i, t := range v.Visible {
		b.WriteString(m.row(i, t, v.State))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch m.mode {
	case modeAdd, modeEdit, modeSearch:
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case modeConfirmClear:
		b.WriteString(modalStyle.Render(tasklist.ClearAllPrompt + " (y/n)"))
		b.WriteString("\n")
	}

	b.WriteString(render.RenderStats(v.Stats))
	b.WriteString("\n")
	if m.status != "" {
		style := render.AccentStyle
		if m.statusErr {
			style = render.ErrorStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) tabs(current model.Filter) string {
	parts := make([]string, 0, len(model.Filters))
	for _, f := range model.Filters {
		style := tabStyle
		if f == current {
			style = activeTabStyle
		}
		parts = append(parts, style.Render(render.FilterLabel(f)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) row(i int, t model.Task, st session.State) string {
	prefix := "  "
	if i == m.cursor && m.mode == modeNormal {
		prefix = cursorStyle.Render("> ")
	}
	text := t.Text
	if st.Editing() && st.EditID == t.ID {
		text = render.AccentStyle.Render(st.EditBuffer + " (editing)")
	} else if t.Completed {
		text = doneTextStyle.Render(text)
	}
	created := render.LabelStyle.Render(render.FormatTime(t.CreatedAt))
	return prefix + render.Checkbox(t.Completed) + " " + text + "  " + created
}
