package tasklist

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogersnm/todomaster/internal/kv"
	"github.com/rogersnm/todomaster/internal/model"
)

var epoch = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

// tickClock advances one second per call so every add gets a distinct time.
func tickClock() func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return epoch.Add(time.Duration(n) * time.Second)
	}
}

func newTestStore(t *testing.T) (*Store, *kv.MemoryStore) {
	t.Helper()
	slot := kv.NewMemoryStore()
	s, err := Open(context.Background(), slot, DefaultKey, WithClock(tickClock()))
	require.NoError(t, err)
	return s, slot
}

func seed(t *testing.T, s *Store, texts ...string) []model.Task {
	t.Helper()
	var out []model.Task
	for _, text := range texts {
		task, err := s.Add(context.Background(), text)
		require.NoError(t, err)
		require.NotNil(t, task)
		out = append(out, *task)
	}
	return out
}

func persisted(t *testing.T, slot kv.Store) []model.Task {
	t.Helper()
	data, err := slot.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	tasks, err := Decode(data)
	require.NoError(t, err)
	return tasks
}

// failingSlot reads like an empty slot and refuses every write.
type failingSlot struct{ kv.MemoryStore }

func (f *failingSlot) Get(context.Context, string) ([]byte, error) { return nil, kv.ErrNotFound }
func (f *failingSlot) Set(context.Context, string, []byte) error   { return errors.New("disk full") }

// --- Load ---

func TestOpen_MissingSlotIsEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, s.Tasks())
}

func TestOpen_LoadsPersistedList(t *testing.T) {
	ctx := context.Background()
	slot := kv.NewMemoryStore()
	require.NoError(t, slot.Set(ctx, DefaultKey, []byte(
		`[{"id":1700000000000,"text":"buy milk","completed":false,"createdAt":"2023-11-14T22:13:20.000Z"}]`)))

	s, err := Open(ctx, slot, DefaultKey)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, "buy milk", s.Tasks()[0].Text)
}

func TestOpen_MalformedSlotIsEmpty(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{not json", "null", `{"id":1}`, `[{"id":"x"}]`, `[1,2,3]`} {
		slot := kv.NewMemoryStore()
		require.NoError(t, slot.Set(ctx, DefaultKey, []byte(raw)))
		s, err := Open(ctx, slot, DefaultKey)
		require.NoError(t, err, raw)
		assert.Equal(t, 0, s.Len(), raw)
	}
}

func TestOpen_InvalidKey(t *testing.T) {
	_, err := Open(context.Background(), kv.NewMemoryStore(), "../etc")
	assert.Error(t, err)
}

func TestOpen_EmptyKeyUsesDefault(t *testing.T) {
	s, err := Open(context.Background(), kv.NewMemoryStore(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultKey, s.Key())
}

func TestOpen_NewIDsExceedLoadedIDs(t *testing.T) {
	ctx := context.Background()
	slot := kv.NewMemoryStore()
	future := epoch.Add(24 * time.Hour).UnixMilli()
	data, err := Encode([]model.Task{{ID: future, Text: "later", CreatedAt: epoch}})
	require.NoError(t, err)
	require.NoError(t, slot.Set(ctx, DefaultKey, data))

	s, err := Open(ctx, slot, DefaultKey, WithClock(tickClock()))
	require.NoError(t, err)
	task, err := s.Add(ctx, "now")
	require.NoError(t, err)
	assert.Greater(t, task.ID, future)
}

// --- Add ---

func TestAdd_CreatesTask(t *testing.T) {
	s, slot := newTestStore(t)
	task, err := s.Add(context.Background(), "  buy milk  ")
	require.NoError(t, err)

	assert.Equal(t, "buy milk", task.Text)
	assert.False(t, task.Completed)
	assert.Equal(t, epoch.Add(time.Second).UnixMilli(), task.ID)
	assert.True(t, task.CreatedAt.Equal(epoch.Add(time.Second)))
	assert.Equal(t, []model.Task{*task}, persisted(t, slot))
}

func TestAdd_Blank(t *testing.T) {
	s, slot := newTestStore(t)
	seed(t, s, "one")

	task, err := s.Add(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, task)
	assert.Equal(t, 1, s.Len())
	assert.Len(t, persisted(t, slot), 1)
}

func TestAdd_CountAndDistinctIDs(t *testing.T) {
	ctx := context.Background()
	slot := kv.NewMemoryStore()
	// a frozen clock forces the generator to break ties
	s, err := Open(ctx, slot, DefaultKey, WithClock(func() time.Time { return epoch }))
	require.NoError(t, err)

	inputs := []string{"a", " ", "b", "", "c", "\t\n", "d"}
	want := 0
	for _, in := range inputs {
		_, err := s.Add(ctx, in)
		require.NoError(t, err)
		if in != " " && in != "" && in != "\t\n" {
			want++
		}
	}
	tasks := s.Tasks()
	assert.Len(t, tasks, want)

	seen := map[int64]bool{}
	for _, task := range tasks {
		assert.False(t, seen[task.ID])
		seen[task.ID] = true
	}
}

func TestAdd_AppendsInOrder(t *testing.T) {
	s, _ := newTestStore(t)
	seed(t, s, "first", "second", "third")

	var texts []string
	for _, task := range s.Tasks() {
		texts = append(texts, task.Text)
	}
	assert.Equal(t, []string{"first", "second", "third"}, texts)
}

func TestAppend_KeepsCompletionAndCreatedAt(t *testing.T) {
	s, slot := newTestStore(t)
	created := time.Date(2025, 12, 24, 18, 0, 0, 0, time.UTC)
	added, err := s.Append(context.Background(),
		Draft{Text: "wrap gifts", Completed: true, CreatedAt: created},
		Draft{Text: "  "},
		Draft{Text: "call mum"},
	)
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.True(t, added[0].Completed)
	assert.True(t, added[0].CreatedAt.Equal(created))
	assert.False(t, added[1].Completed)
	assert.Greater(t, added[1].ID, added[0].ID)
	assert.Len(t, persisted(t, slot), 2)
}

// --- Toggle ---

func TestToggle_IsItsOwnInverse(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	tasks := seed(t, s, "a", "b")
	before := s.Tasks()

	changed, err := s.Toggle(ctx, tasks[0].ID)
	require.NoError(t, err)
	assert.True(t, changed)
	got, _ := s.Get(tasks[0].ID)
	assert.True(t, got.Completed)

	_, err = s.Toggle(ctx, tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, before, s.Tasks())
}

func TestToggle_UnknownID(t *testing.T) {
	s, _ := newTestStore(t)
	seed(t, s, "a")
	before := s.Tasks()

	changed, err := s.Toggle(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, before, s.Tasks())
}

func TestToggle_Persists(t *testing.T) {
	s, slot := newTestStore(t)
	tasks := seed(t, s, "a")
	_, err := s.Toggle(context.Background(), tasks[0].ID)
	require.NoError(t, err)
	assert.True(t, persisted(t, slot)[0].Completed)
}

// --- Delete ---

func TestDelete_Idempotent(t *testing.T) {
	ctx := context.Background()
	s, slot := newTestStore(t)
	tasks := seed(t, s, "a", "b", "c")

	removed, err := s.Delete(ctx, tasks[1].ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 2, s.Len())

	removed, err = s.Delete(ctx, tasks[1].ID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 2, s.Len())

	assert.Equal(t, []model.Task{tasks[0], tasks[2]}, persisted(t, slot))
}

// --- UpdateText ---

func TestUpdateText_OnlyTarget(t *testing.T) {
	ctx := context.Background()
	s, slot := newTestStore(t)
	tasks := seed(t, s, "alpha", "beta", "gamma")

	changed, err := s.UpdateText(ctx, tasks[1].ID, "  BETA  ")
	require.NoError(t, err)
	assert.True(t, changed)

	after := s.Tasks()
	assert.Equal(t, "alpha", after[0].Text)
	assert.Equal(t, "BETA", after[1].Text)
	assert.Equal(t, "gamma", after[2].Text)
	assert.Equal(t, after, persisted(t, slot))
}

func TestUpdateText_BlankOrUnknown(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	tasks := seed(t, s, "alpha")
	before := s.Tasks()

	changed, err := s.UpdateText(ctx, tasks[0].ID, "   ")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = s.UpdateText(ctx, 999, "x")
	require.NoError(t, err)
	assert.False(t, changed)

	assert.Equal(t, before, s.Tasks())
}

// --- Bulk ---

func TestClearCompleted(t *testing.T) {
	ctx := context.Background()
	slot := kv.NewMemoryStore()
	data, err := Encode([]model.Task{
		{ID: 1, Text: "done", Completed: true, CreatedAt: epoch},
		{ID: 2, Text: "open", Completed: false, CreatedAt: epoch},
	})
	require.NoError(t, err)
	require.NoError(t, slot.Set(ctx, DefaultKey, data))
	s, err := Open(ctx, slot, DefaultKey)
	require.NoError(t, err)

	n, err := s.ClearCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, int64(2), s.Tasks()[0].ID)
	assert.False(t, s.Tasks()[0].Completed)
	assert.Len(t, persisted(t, slot), 1)
}

func TestClearAll_Confirmed(t *testing.T) {
	s, slot := newTestStore(t)
	seed(t, s, "a", "b")

	var asked string
	cleared, err := s.ClearAll(context.Background(), ConfirmFunc(func(p string) (bool, error) {
		asked = p
		return true, nil
	}))
	require.NoError(t, err)
	assert.True(t, cleared)
	assert.Equal(t, ClearAllPrompt, asked)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, persisted(t, slot))
}

func TestClearAll_Declined(t *testing.T) {
	s, slot := newTestStore(t)
	seed(t, s, "a", "b")

	cleared, err := s.ClearAll(context.Background(), ConfirmFunc(func(string) (bool, error) { return false, nil }))
	require.NoError(t, err)
	assert.False(t, cleared)
	assert.Equal(t, 2, s.Len())
	assert.Len(t, persisted(t, slot), 2)
}

func TestClearAll_ConfirmerError(t *testing.T) {
	s, _ := newTestStore(t)
	seed(t, s, "a")

	_, err := s.ClearAll(context.Background(), ConfirmFunc(func(string) (bool, error) {
		return false, errors.New("no tty")
	}))
	assert.Error(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestToggleAll_MixedCompletesAll(t *testing.T) {
	ctx := context.Background()
	s, slot := newTestStore(t)
	tasks := seed(t, s, "a", "b")
	_, err := s.Toggle(ctx, tasks[0].ID)
	require.NoError(t, err)

	require.NoError(t, s.ToggleAll(ctx))
	for _, task := range s.Tasks() {
		assert.True(t, task.Completed)
	}

	require.NoError(t, s.ToggleAll(ctx))
	for _, task := range s.Tasks() {
		assert.False(t, task.Completed)
	}
	for _, task := range persisted(t, slot) {
		assert.False(t, task.Completed)
	}
}

func TestToggleAll_Empty(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.ToggleAll(context.Background()))
	assert.Equal(t, 0, s.Len())
}

// --- Views ---

func TestFiltered_ActiveNoSearch(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	tasks := seed(t, s, "buy milk", "pay bills")
	_, err := s.Toggle(ctx, tasks[1].ID)
	require.NoError(t, err)

	got := slices.Collect(s.Filtered(model.FilterActive, ""))
	require.Len(t, got, 1)
	assert.Equal(t, "buy milk", got[0].Text)
}

func TestFiltered_SearchIgnoresCase(t *testing.T) {
	s, _ := newTestStore(t)
	seed(t, s, "Buy MILK", "pay bills", "milkshake", "Straße fegen")

	got := slices.Collect(s.Filtered(model.FilterAll, "milk"))
	require.Len(t, got, 2)
	assert.Equal(t, "Buy MILK", got[0].Text)
	assert.Equal(t, "milkshake", got[1].Text)

	got = slices.Collect(s.Filtered(model.FilterAll, "STRASSE"))
	require.Len(t, got, 1)
}

func TestFiltered_Completed(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	tasks := seed(t, s, "a", "b", "c")
	_, err := s.Toggle(ctx, tasks[0].ID)
	require.NoError(t, err)
	_, err = s.Toggle(ctx, tasks[2].ID)
	require.NoError(t, err)

	got := slices.Collect(s.Filtered(model.FilterCompleted, ""))
	require.Len(t, got, 2)
	assert.Equal(t, tasks[0].ID, got[0].ID)
	assert.Equal(t, tasks[2].ID, got[1].ID)
}

func TestFiltered_StopsEarly(t *testing.T) {
	s, _ := newTestStore(t)
	seed(t, s, "a", "b", "c")

	var seen int
	for range s.Filtered(model.FilterAll, "") {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestFiltered_SeesLaterMutations(t *testing.T) {
	s, _ := newTestStore(t)
	seq := s.Filtered(model.FilterAll, "")
	seed(t, s, "late")
	assert.Len(t, slices.Collect(seq), 1)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	assert.Equal(t, model.Stats{}, s.Stats())

	tasks := seed(t, s, "a", "b", "c")
	_, err := s.Toggle(ctx, tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{Total: 3, Active: 2, Completed: 1, CompletionRate: 33}, s.Stats())
}

// --- Persistence failures ---

func TestPersistFailure_KeepsMutation(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, &failingSlot{}, DefaultKey)
	require.NoError(t, err)

	task, err := s.Add(ctx, "survives")
	assert.ErrorIs(t, err, ErrPersist)
	require.NotNil(t, task)
	assert.Equal(t, 1, s.Len())

	_, err = s.Toggle(ctx, task.ID)
	assert.ErrorIs(t, err, ErrPersist)
	got, _ := s.Get(task.ID)
	assert.True(t, got.Completed)
}

func TestReload(t *testing.T) {
	ctx := context.Background()
	slot := kv.NewMemoryStore()
	a, err := Open(ctx, slot, DefaultKey)
	require.NoError(t, err)
	b, err := Open(ctx, slot, DefaultKey)
	require.NoError(t, err)

	_, err = a.Add(ctx, "from a")
	require.NoError(t, err)
	assert.Equal(t, 0, b.Len())

	b.Reload(ctx)
	assert.Equal(t, 1, b.Len())
}

func TestSeparateKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	slot := kv.NewMemoryStore()
	work, err := Open(ctx, slot, "work")
	require.NoError(t, err)
	home, err := Open(ctx, slot, "home")
	require.NoError(t, err)

	_, err = work.Add(ctx, "ship release")
	require.NoError(t, err)
	home.Reload(ctx)
	assert.Equal(t, 0, home.Len())
}

// unreadableSlot fails reads while broken is set.
type unreadableSlot struct {
	*kv.MemoryStore
	broken bool
}

func (u *unreadableSlot) Get(ctx context.Context, key string) ([]byte, error) {
	if u.broken {
		return nil, errors.New("permission denied")
	}
	return u.MemoryStore.Get(ctx, key)
}

func TestUnreadableSlot_NotOverwritten(t *testing.T) {
	ctx := context.Background()
	slot := &unreadableSlot{MemoryStore: kv.NewMemoryStore()}
	seeded, err := Open(ctx, slot, DefaultKey, WithClock(tickClock()))
	require.NoError(t, err)
	seed(t, seeded, "first", "second")

	slot.broken = true
	s, err := Open(ctx, slot, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.Error(t, s.Unreadable())

	_, err = s.Add(ctx, "new")
	assert.ErrorIs(t, err, ErrPersist)
	assert.ErrorIs(t, err, ErrUnreadable)

	slot.broken = false
	kept := persisted(t, slot)
	require.Len(t, kept, 2)
	assert.Equal(t, "first", kept[0].Text)
	assert.Equal(t, "second", kept[1].Text)

	s.Reload(ctx)
	require.NoError(t, s.Unreadable())
	assert.Equal(t, 2, s.Len())
	_, err = s.Add(ctx, "third")
	require.NoError(t, err)
	assert.Len(t, persisted(t, slot), 3)
}
