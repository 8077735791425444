package ui

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklet/internal/config"
	"tasklet/internal/notify"
	"tasklet/internal/storage"
	"tasklet/internal/task"
)

type recordingOpener struct {
	urls []string
}

func (r *recordingOpener) Open(u string) error {
	r.urls = append(r.urls, u)
	return nil
}

type harness struct {
	m      Model
	slot   *storage.Memory
	store  *task.Store
	opener *recordingOpener
}

func newHarness(t *testing.T, seed ...string) *harness {
	t.Helper()
	slot := storage.NewMemory()
	clock := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	status := NewStatusLine("")
	store := task.NewStore(slot, "todos", task.WithNotifier(status), task.WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
	for _, text := range seed {
		_, err := store.Add(text)
		require.NoError(t, err)
	}
	cfg, err := config.LoadOrCreate(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	opener := &recordingOpener{}
	m := New(store, status, cfg, opener)
	m.loc = time.UTC
	return &harness{m: m, slot: slot, store: store, opener: opener}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func (h *harness) press(t *testing.T, keys ...string) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = h.m.Update(keyMsg(k))
		h.m = next.(Model)
	}
	return cmd
}

func viewTexts(m Model) []string {
	out := make([]string, 0, len(m.view))
	for _, t := range m.view {
		out = append(out, t.Text)
	}
	return out
}

func TestAddFlow(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.m.View(), "No tasks yet! Add one above.")

	h.press(t, "a", "Buy milk", "enter")

	assert.Equal(t, modeList, h.m.mode)
	assert.Equal(t, []string{"Buy milk"}, viewTexts(h.m))
	assert.Equal(t, "To-do added successfully!", h.m.status.Text())
	assert.Contains(t, h.m.View(), "[ ] Buy milk")

	raw, ok, err := h.slot.Get("todos")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"text":"Buy milk"`)
}

func TestAddBlankStaysInAddMode(t *testing.T) {
	h := newHarness(t)

	h.press(t, "a", "   ", "enter")

	assert.Equal(t, modeAdd, h.m.mode)
	assert.Empty(t, h.m.view)
	assert.Equal(t, notify.Error, h.m.status.Severity())
	assert.Equal(t, "To-do text cannot be empty!", h.m.status.Text())

	h.press(t, "esc")
	assert.Equal(t, modeList, h.m.mode)
}

func TestToggleAndDelete(t *testing.T) {
	h := newHarness(t, "first", "second")

	h.press(t, " ")
	assert.True(t, h.m.view[0].Completed)
	assert.Contains(t, h.m.View(), "[x]")

	h.press(t, "j", "d")
	assert.True(t, h.m.confirmDel)
	h.press(t, "n")
	assert.Len(t, h.m.view, 2)

	h.press(t, "d", "y")
	assert.Equal(t, []string{"first"}, viewTexts(h.m))
	assert.Equal(t, "To-do deleted!", h.m.status.Text())
	assert.Equal(t, 0, h.m.cursor)
}

func TestSearchFiltersAndEmptyState(t *testing.T) {
	h := newHarness(t, "Buy milk", "Walk dog", "buy bread")

	h.press(t, "/", "BUY")
	assert.Equal(t, modeSearch, h.m.mode)
	assert.Equal(t, []string{"Buy milk", "buy bread"}, viewTexts(h.m))

	h.press(t, "enter")
	assert.Equal(t, modeList, h.m.mode)
	assert.Equal(t, "BUY", h.m.search)

	h.press(t, "/", "zzz")
	assert.Empty(t, h.m.view)
	assert.Contains(t, h.m.View(), "No tasks found.")

	h.press(t, "esc")
	assert.Equal(t, "", h.m.search)
	assert.Len(t, h.m.view, 3)
}

func TestClearSearchKey(t *testing.T) {
	h := newHarness(t, "Buy milk", "Walk dog")
	h.press(t, "/", "milk", "enter")
	require.Len(t, h.m.view, 1)

	h.press(t, "ctrl+l")
	assert.Len(t, h.m.view, 2)
}

func TestSortCycles(t *testing.T) {
	h := newHarness(t, "banana", "Apple")
	assert.Equal(t, []string{"banana", "Apple"}, viewTexts(h.m))

	h.press(t, "s")
	assert.Equal(t, task.SortAlphaAsc, h.m.sort)
	assert.Equal(t, []string{"Apple", "banana"}, viewTexts(h.m))
	assert.Equal(t, "Sorted by A-Z", h.m.status.Text())

	h.press(t, "s")
	assert.Equal(t, []string{"banana", "Apple"}, viewTexts(h.m))
}

func TestDueDateSetAndClear(t *testing.T) {
	h := newHarness(t, "Alpha", "Beta")

	h.press(t, "t", "2024-01-05", "enter")
	assert.Equal(t, modeList, h.m.mode)
	assert.Equal(t, "Due date set!", h.m.status.Text())
	assert.Contains(t, h.m.View(), "due Jan 05, 2024")

	h.press(t, "s", "s", "s")
	require.Equal(t, task.SortDueAsc, h.m.sort)
	assert.Equal(t, []string{"Alpha", "Beta"}, viewTexts(h.m))

	h.press(t, "T")
	assert.Equal(t, "Due date cleared!", h.m.status.Text())
	assert.False(t, h.m.view[0].Due.IsSet())
}

func TestDueDateRejectsGarbage(t *testing.T) {
	h := newHarness(t, "Alpha")

	h.press(t, "t", "someday", "enter")
	assert.Equal(t, modeDue, h.m.mode)
	assert.Equal(t, notify.Error, h.m.status.Severity())

	h.press(t, "esc")
	assert.Equal(t, modeList, h.m.mode)
	assert.False(t, h.m.view[0].Due.IsSet())
}

func TestOpenLink(t *testing.T) {
	h := newHarness(t)

	h.press(t, "o", "enter")
	assert.Equal(t, modeLink, h.m.mode)
	assert.Equal(t, "Please enter a valid URL.", h.m.status.Text())
	assert.Empty(t, h.opener.urls)

	h.press(t, "example.com", "enter")
	assert.Equal(t, modeList, h.m.mode)
	assert.Equal(t, []string{"http://example.com"}, h.opener.urls)
}

func TestPersistFailureQuits(t *testing.T) {
	h := newHarness(t, "Alpha")
	h.slot.FailPut = errors.New("disk full")

	cmd := h.press(t, " ")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.ErrorContains(t, h.m.err, "disk full")
}

func TestTickUpdatesClock(t *testing.T) {
	h := newHarness(t)
	at := time.Date(2024, 6, 1, 12, 34, 56, 0, time.UTC)

	next, cmd := h.m.Update(tickMsg(at))
	h.m = next.(Model)
	assert.NotNil(t, cmd)
	assert.Contains(t, h.m.View(), "12:34:56")
}

func TestQuit(t *testing.T) {
	h := newHarness(t)
	cmd := h.press(t, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestClampCursor(t *testing.T) {
	assert.Equal(t, 0, clampCursor(3, 0))
	assert.Equal(t, 0, clampCursor(-1, 4))
	assert.Equal(t, 3, clampCursor(9, 4))
	assert.Equal(t, 2, clampCursor(2, 4))
}
