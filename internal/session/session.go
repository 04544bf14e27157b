// Package session binds transient UI state to a task list. One Session
// serves one presentation instance; nothing in State is persisted.
package session

import (
	"context"
	"slices"
	"strings"

	"github.com/rogersnm/todomaster/internal/model"
	"github.com/rogersnm/todomaster/internal/tasklist"
)

// State is the UI-only state carried between events.
type State struct {
	Input      string
	EditID     int64 // 0 when nothing is being edited
	EditBuffer string
	Filter     model.Filter
	Search     string
}

// Editing reports whether a task is mid-edit.
func (s State) Editing() bool { return s.EditID != 0 }

// View is what a renderer needs for one frame.
type View struct {
	Visible []model.Task
	Stats   model.Stats
	State   State
}

type Session struct {
	store *tasklist.Store
	state State
}

func New(store *tasklist.Store) *Session {
	return &Session{store: store, state: State{Filter: model.FilterAll}}
}

func (s *Session) Store() *tasklist.Store { return s.store }

func (s *Session) State() State { return s.state }

func (s *Session) SetInput(text string) { s.state.Input = text }

// Submit adds the current input as a task and clears the input. A failed
// write still clears it because the task stays in the list.
func (s *Session) Submit(ctx context.Context) (*model.Task, error) {
	t, err := s.store.Add(ctx, s.state.Input)
	if t != nil || err == nil {
		s.state.Input = ""
	}
	return t, err
}

// BeginEdit marks taskID as the edit target with currentText in the buffer.
func (s *Session) BeginEdit(taskID int64, currentText string) {
	s.state.EditID = taskID
	s.state.EditBuffer = currentText
}

func (s *Session) SetEditBuffer(text string) { s.state.EditBuffer = text }

// SaveEdit writes the buffer to the edit target only. A blank buffer cancels.
func (s *Session) SaveEdit(ctx context.Context) (bool, error) {
	if !s.state.Editing() || strings.TrimSpace(s.state.EditBuffer) == "" {
		s.CancelEdit()
		return false, nil
	}
	target := s.state.EditID
	buf := s.state.EditBuffer
	s.CancelEdit()
	return s.store.UpdateText(ctx, target, buf)
}

func (s *Session) CancelEdit() {
	s.state.EditID = 0
	s.state.EditBuffer = ""
}

func (s *Session) SetFilter(f model.Filter) { s.state.Filter = f }

func (s *Session) SetSearch(q string) { s.state.Search = q }

func (s *Session) Toggle(ctx context.Context, taskID int64) (bool, error) {
	return s.store.Toggle(ctx, taskID)
}

// Delete removes a task, leaving edit mode if it was the edit target.
func (s *Session) Delete(ctx context.Context, taskID int64) (bool, error) {
	if s.state.EditID == taskID {
		s.CancelEdit()
	}
	return s.store.Delete(ctx, taskID)
}

func (s *Session) ToggleAll(ctx context.Context) error {
	return s.store.ToggleAll(ctx)
}

func (s *Session) ClearCompleted(ctx context.Context) (int, error) {
	return s.store.ClearCompleted(ctx)
}

func (s *Session) ClearAll(ctx context.Context, c tasklist.Confirmer) (bool, error) {
	cleared, err := s.store.ClearAll(ctx, c)
	if cleared {
		s.CancelEdit()
	}
	return cleared, err
}

// View recomputes the visible tasks and stats from the current list.
func (s *Session) View() View {
	return View{
		Visible: slices.Collect(s.store.Filtered(s.state.Filter, s.state.Search)),
		Stats:   s.store.Stats(),
		State:   s.state,
	}
}
