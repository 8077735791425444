package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tasklet/internal/config"
	"tasklet/internal/link"
	"tasklet/internal/notify"
	"tasklet/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeSearch
	modeDue
	modeLink
)

type tickMsg time.Time

type Model struct {
	store      *task.Store
	deriver    task.Deriver
	cfg        config.Config
	status     *StatusLine
	opener     link.Opener
	view       []task.Task
	cursor     int
	mode       mode
	input      textinput.Model
	search     string
	sort       task.SortOrder
	confirmDel bool
	pendingDel *task.Task
	dueTarget  task.ID
	now        time.Time
	loc        *time.Location
	err        error
}

func New(store *task.Store, status *StatusLine, cfg config.Config, opener link.Opener) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	if status == nil {
		status = NewStatusLine("")
	}
	if status.Text() == "" {
		status.Notify("Press 'a' to add, space to toggle, 'd' to delete.", notify.Success)
	}
	m := Model{
		store:   store,
		deriver: task.NewDeriver(cfg.Language()),
		cfg:     cfg,
		status:  status,
		opener:  opener,
		input:   ti,
		mode:    modeList,
		sort:    cfg.SortOrder(),
		now:     time.Now(),
		loc:     time.Local,
	}
	m.refresh()
	return m
}

// Run blocks until the user quits. A failed write to the task slot ends
// the program and is returned.
func Run(store *task.Store, status *StatusLine, cfg config.Config, opener link.Opener) error {
	program := tea.NewProgram(New(store, status, cfg, opener))
	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}
	return nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.mode {
	case modeAdd:
		return m.updateAddMode(key, msg)
	case modeSearch:
		return m.updateSearchMode(key, msg)
	case modeDue:
		return m.updateDueMode(key, msg)
	case modeLink:
		return m.updateLinkMode(key, msg)
	}
	return m.updateListMode(key)
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(m.view) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.view))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.view))
		}
	case m.cfg.Keys.Add:
		return m.openInput(modeAdd, "", "Add a new to-do..."), nil
	case m.cfg.Keys.Search:
		return m.openInput(modeSearch, m.search, "Search tasks..."), nil
	case m.cfg.Keys.ClearFind:
		m.search = ""
		m.refresh()
	case m.cfg.Keys.Sort:
		m.sort = m.sort.Next()
		m.refresh()
		m.status.Notify("Sorted by "+m.sort.Label(), notify.Success)
	case m.cfg.Keys.OpenLink:
		return m.openInput(modeLink, "", "https://example.com"), nil
	case m.cfg.Keys.Toggle:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m.afterMutation(m.store.ToggleComplete(t.ID), t.ID)
	case m.cfg.Keys.Due:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.dueTarget = t.ID
		return m.openInput(modeDue, task.InputValue(t.Due, m.loc), "YYYY-MM-DD or YYYY-MM-DD HH:MM"), nil
	case m.cfg.Keys.ClearDue:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m.afterMutation(m.store.UpdateDueDate(t.ID, task.NoDue()), t.ID)
	case m.cfg.Keys.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = &t
		m.status.Notify(fmt.Sprintf("Delete \"%s\"? y/n", t.Text), notify.Success)
	}
	return m, nil
}

func (m Model) openInput(next mode, value, placeholder string) Model {
	m.mode = next
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.CursorEnd()
	m.input.Focus()
	return m
}

func (m Model) closeInput() Model {
	m.mode = modeList
	m.input.SetValue("")
	m.input.Blur()
	return m
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m = m.closeInput()
		m.status.Notify("Cancelled", notify.Success)
		return m, nil
	case m.cfg.Keys.Confirm:
		added, err := m.store.Add(m.input.Value())
		if errors.Is(err, task.ErrEmptyText) {
			return m, nil
		}
		m = m.closeInput()
		return m.afterMutation(err, added.ID)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// updateSearchMode filters as the user types. Cancel clears the search,
// confirm keeps it.
func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m = m.closeInput()
		m.search = ""
		m.refresh()
		return m, nil
	case m.cfg.Keys.Confirm:
		m = m.closeInput()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.search = m.input.Value()
		m.refresh()
		return m, cmd
	}
}

func (m Model) updateDueMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m = m.closeInput()
		m.dueTarget = ""
		m.status.Notify("Cancelled", notify.Success)
		return m, nil
	case m.cfg.Keys.Confirm:
		due, err := task.ParseDue(m.input.Value(), m.loc)
		if err != nil {
			m.status.Notify(err.Error(), notify.Error)
			return m, nil
		}
		id := m.dueTarget
		m = m.closeInput()
		m.dueTarget = ""
		return m.afterMutation(m.store.UpdateDueDate(id, due), id)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateLinkMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m = m.closeInput()
		m.status.Notify("Cancelled", notify.Success)
		return m, nil
	case m.cfg.Keys.Confirm:
		if err := link.Open(m.opener, m.status, m.input.Value()); err != nil {
			return m, nil
		}
		m = m.closeInput()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.status.Notify("Delete cancelled", notify.Success)
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		pending := m.pendingDel
		m.confirmDel = false
		m.pendingDel = nil
		if pending == nil {
			m.status.Notify("Nothing to delete", notify.Success)
			return m, nil
		}
		return m.afterMutation(m.store.Delete(pending.ID), "")
	default:
		return m, nil
	}
}

// afterMutation recomputes the view. A persistence error quits the
// program.
func (m Model) afterMutation(err error, focus task.ID) (tea.Model, tea.Cmd) {
	if err != nil {
		m.err = err
		m.status.Notify(fmt.Sprintf("save failed: %v", err), notify.Error)
		return m, tea.Quit
	}
	m.refresh()
	if focus != "" {
		m.focus(focus)
	}
	return m, nil
}

func (m *Model) refresh() {
	m.view = m.deriver.Derive(m.store.Tasks(), m.search, m.sort)
	m.cursor = clampCursor(m.cursor, len(m.view))
}

func (m *Model) focus(id task.ID) {
	for i, t := range m.view {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m Model) selected() (task.Task, bool) {
	if len(m.view) == 0 {
		return task.Task{}, false
	}
	return m.view[clampCursor(m.cursor, len(m.view))], true
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("My To-Do List"))
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render(m.now.In(m.loc).Format("Mon Jan 02 15:04:05")))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.filterSummary()))
	b.WriteString("\n\n")

	if empty := task.EmptyStateFor(m.store.Len(), len(m.view), m.search); empty != task.EmptyNone {
		b.WriteString(mutedStyle.Render(empty.Message()))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList())
	}

	b.WriteString("\n---\n")

	if m.mode != modeList {
		b.WriteString(m.inputLabel())
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderStatus(m.status))
	b.WriteString("\n")
	b.WriteString(renderHelp(m.cfg.Keys))

	return b.String()
}

func (m Model) filterSummary() string {
	summary := "Sort: " + m.sort.Label()
	if m.search != "" {
		summary += fmt.Sprintf(" • Search: %q", m.search)
	}
	return summary
}

func (m Model) inputLabel() string {
	switch m.mode {
	case modeAdd:
		return "New to-do (enter to add, esc to cancel)"
	case modeSearch:
		return "Search (enter to keep, esc to clear)"
	case modeDue:
		return "Due date (blank clears, enter to save, esc to cancel)"
	case modeLink:
		return "Open link (enter to open, esc to cancel)"
	default:
		return ""
	}
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	for i, t := range m.view {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}

		checkbox := "[ ]"
		text := t.Text
		if t.Completed {
			checkbox = "[x]"
			text = doneStyle.Render(text)
		}

		b.WriteString(fmt.Sprintf("%s %s %s", cursor, checkbox, text))
		if due := task.FormatDue(t.Due, m.loc); due != "" {
			b.WriteString("  ")
			b.WriteString(dueStyle.Render("due " + due))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderStatus(s *StatusLine) string {
	if s.Severity() == notify.Error {
		return errorStyle.Render(s.Text())
	}
	return successStyle.Render(s.Text())
}

func renderHelp(k config.Keymap) string {
	return mutedStyle.Render(fmt.Sprintf("%s/%s move • %s add • %s toggle • %s delete • %s due • %s clear due • %s search • %s sort • %s link • %s quit",
		k.Up, k.Down, k.Add, keyLabel(k.Toggle), k.Delete, k.Due, k.ClearDue, k.Search, k.Sort, k.OpenLink, k.Quit))
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
