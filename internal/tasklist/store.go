// Package tasklist owns the ordered task collection. Every mutation is
// applied in memory and then the whole collection is written to its slot.
package tasklist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/text/cases"

	"github.com/rogersnm/todomaster/internal/id"
	"github.com/rogersnm/todomaster/internal/kv"
	"github.com/rogersnm/todomaster/internal/model"
)

// DefaultKey is the slot used when no list name is given.
const DefaultKey = "todos"

// ClearAllPrompt is the question put to the Confirmer before ClearAll.
const ClearAllPrompt = "Are you sure you want to delete all tasks?"

// ErrPersist wraps slot write failures. The in-memory change that triggered
// the write is kept.
var ErrPersist = errors.New("persisting task list")

// ErrUnreadable is wrapped by ErrPersist when the slot could not be read on
// the last load.
var ErrUnreadable = errors.New("slot could not be read; reload before writing")

// Confirmer answers a blocking yes/no question.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

type ConfirmFunc func(prompt string) (bool, error)

func (f ConfirmFunc) Confirm(prompt string) (bool, error) { return f(prompt) }

// Confirmed is a Confirmer that always says yes.
var Confirmed = ConfirmFunc(func(string) (bool, error) { return true, nil })

// Draft describes a task to append. A zero CreatedAt means now.
type Draft struct {
	Text      string
	Completed bool
	CreatedAt time.Time
}

type Store struct {
	slot   kv.Store
	key    string
	tasks  []model.Task
	ids    *id.Generator
	clock  func() time.Time
	logger *log.Logger

	// readErr is set when the slot exists but could not be read. Writes are
	// refused until a Reload succeeds so the saved list is never overwritten
	// by an empty one.
	readErr error
}

type Option func(*Store)

func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Open builds a store over slot[key] and loads it. Missing or malformed slot
// contents yield an empty list; only an invalid key is an error.
func Open(ctx context.Context, slot kv.Store, key string, opts ...Option) (*Store, error) {
	if key == "" {
		key = DefaultKey
	}
	if err := kv.ValidateKey(key); err != nil {
		return nil, err
	}
	s := &Store{
		slot:   slot,
		key:    key,
		clock:  time.Now,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ids = id.NewGenerator(s.clock)
	s.load(ctx)
	return s, nil
}

func (s *Store) Key() string { return s.key }

// Reload replaces the in-memory list with the slot contents.
func (s *Store) Reload(ctx context.Context) {
	s.load(ctx)
}

func (s *Store) load(ctx context.Context) {
	s.tasks = []model.Task{}
	s.readErr = nil
	data, err := s.slot.Get(ctx, s.key)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		s.logger.Debug("slot empty", "list", s.key)
	case err != nil:
		s.readErr = err
		s.logger.Error("reading slot failed, writes disabled until reload", "list", s.key, "err", err)
	default:
		tasks, err := Decode(data)
		if err != nil {
			s.logger.Warn("malformed slot, starting empty", "list", s.key, "err", err)
			break
		}
		s.tasks = tasks
		s.logger.Debug("loaded", "list", s.key, "tasks", len(tasks))
	}
	for _, t := range s.tasks {
		s.ids.Observe(t.ID)
	}
}

// Unreadable returns the read error from the last load, or nil.
func (s *Store) Unreadable() error { return s.readErr }

func (s *Store) persist(ctx context.Context) error {
	if s.readErr != nil {
		return fmt.Errorf("%w: %w: %w", ErrPersist, ErrUnreadable, s.readErr)
	}
	data, err := Encode(s.tasks)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := s.slot.Set(ctx, s.key, data); err != nil {
		s.logger.Error("persist failed", "list", s.key, "err", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	s.logger.Debug("persisted", "list", s.key, "tasks", len(s.tasks))
	return nil
}

func (s *Store) now() time.Time {
	return s.clock().UTC().Truncate(time.Millisecond)
}

func (s *Store) index(taskID int64) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool { return t.ID == taskID })
}

// Add appends a task with trimmed text. Blank text is a no-op and returns nil.
func (s *Store) Add(ctx context.Context, text string) (*model.Task, error) {
	added, err := s.Append(ctx, Draft{Text: text})
	if len(added) == 0 {
		return nil, err
	}
	return &added[0], err
}

// Append adds every draft with non-blank text in order and persists once.
func (s *Store) Append(ctx context.Context, drafts ...Draft) ([]model.Task, error) {
	var added []model.Task
	for _, d := range drafts {
		text := strings.TrimSpace(d.Text)
		if text == "" {
			continue
		}
		now := s.now()
		created := d.CreatedAt.UTC().Truncate(time.Millisecond)
		if d.CreatedAt.IsZero() {
			created = now
		}
		added = append(added, model.Task{
			ID:        s.ids.NextAt(now),
			Text:      text,
			Completed: d.Completed,
			CreatedAt: created,
		})
	}
	if len(added) == 0 {
		return nil, nil
	}
	s.tasks = append(s.tasks, added...)
	return added, s.persist(ctx)
}

// Toggle flips completion on the task with the given id. Unknown ids are ignored.
func (s *Store) Toggle(ctx context.Context, taskID int64) (bool, error) {
	i := s.index(taskID)
	if i < 0 {
		return false, nil
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	return true, s.persist(ctx)
}

// Delete removes the task with the given id. Unknown ids are ignored.
func (s *Store) Delete(ctx context.Context, taskID int64) (bool, error) {
	i := s.index(taskID)
	if i < 0 {
		return false, nil
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return true, s.persist(ctx)
}

// UpdateText sets the text of exactly the task with the given id. Blank text
// and unknown ids are ignored.
func (s *Store) UpdateText(ctx context.Context, taskID int64, text string) (bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return false, nil
	}
	i := s.index(taskID)
	if i < 0 {
		return false, nil
	}
	s.tasks[i].Text = text
	return true, s.persist(ctx)
}

// ClearCompleted removes every completed task and returns how many went.
func (s *Store) ClearCompleted(ctx context.Context) (int, error) {
	before := len(s.tasks)
	s.tasks = slices.DeleteFunc(s.tasks, func(t model.Task) bool { return t.Completed })
	return before - len(s.tasks), s.persist(ctx)
}

// ClearAll empties the list once c confirms. A refusal or a confirmer error
// leaves the list untouched.
func (s *Store) ClearAll(ctx context.Context, c Confirmer) (bool, error) {
	ok, err := c.Confirm(ClearAllPrompt)
	if err != nil {
		return false, fmt.Errorf("confirming clear: %w", err)
	}
	if !ok {
		return false, nil
	}
	s.tasks = []model.Task{}
	return true, s.persist(ctx)
}

// ToggleAll completes every task unless all are already completed, in which
// case every task is reopened.
func (s *Store) ToggleAll(ctx context.Context) error {
	target := !s.AllCompleted()
	for i := range s.tasks {
		s.tasks[i].Completed = target
	}
	return s.persist(ctx)
}

// AllCompleted reports whether every task is completed (true for an empty list).
func (s *Store) AllCompleted() bool {
	for _, t := range s.tasks {
		if !t.Completed {
			return false
		}
	}
	return true
}

// Filtered yields tasks selected by f whose text contains query, ignoring
// case. Order follows the collection. Nothing is computed until iterated.
func (s *Store) Filtered(f model.Filter, query string) iter.Seq[model.Task] {
	return func(yield func(model.Task) bool) {
		q := fold(query)
		for _, t := range s.tasks {
			if !f.Match(t) || !strings.Contains(fold(t.Text), q) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

func (s *Store) Stats() model.Stats {
	return model.ComputeStats(s.tasks)
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []model.Task {
	return slices.Clone(s.tasks)
}

func (s *Store) Get(taskID int64) (model.Task, bool) {
	i := s.index(taskID)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i], true
}

func (s *Store) Len() int { return len(s.tasks) }

func fold(text string) string {
	return cases.Fold().String(text)
}
