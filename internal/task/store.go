package task

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"tasklet/internal/notify"
)

// ErrEmptyText is returned by Add when the text is blank after trimming.
var ErrEmptyText = errors.New("task text is empty")

const (
	msgEmptyText  = "To-do text cannot be empty!"
	msgAdded      = "To-do added successfully!"
	msgToggled    = "To-do status updated!"
	msgDeleted    = "To-do deleted!"
	msgDueSet     = "Due date set!"
	msgDueCleared = "Due date cleared!"
)

// Slot is the durable key/value location the collection lives in.
type Slot interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
}

// Store is the authoritative task collection. It loads once from its slot
// and writes the whole collection back after every mutation. A Store is
// not safe for concurrent use.
type Store struct {
	slot     Slot
	key      string
	tasks    []Task
	notifier notify.Notifier
	logger   *log.Logger
	now      func() time.Time
}

type Option func(*Store)

func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the source of creation instants.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore loads the collection stored under key. Missing or malformed
// data yields an empty collection.
func NewStore(slot Slot, key string, opts ...Option) *Store {
	s := &Store{
		slot:     slot,
		key:      key,
		notifier: notify.Discard,
		logger:   log.New(io.Discard),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = s.load()
	return s
}

func (s *Store) load() []Task {
	raw, ok, err := s.slot.Get(s.key)
	if err != nil {
		s.logger.Warn("read saved tasks", "key", s.key, "err", err)
		return nil
	}
	if !ok {
		s.logger.Debug("no saved tasks", "key", s.key)
		return nil
	}
	tasks, err := Decode(raw)
	if err != nil {
		s.logger.Warn("ignoring saved tasks", "key", s.key, "err", err)
		return nil
	}
	s.logger.Debug("loaded tasks", "key", s.key, "count", len(tasks))
	return tasks
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []Task {
	return slices.Clone(s.tasks)
}

func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) Get(id ID) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

// Add appends a new task with the trimmed text. The returned error is
// ErrEmptyText for blank input, or a persistence error.
func (s *Store) Add(text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		s.notifier.Notify(msgEmptyText, notify.Error)
		return Task{}, ErrEmptyText
	}
	t := Task{ID: s.nextID(), Text: text}

	next := make([]Task, 0, len(s.tasks)+1)
	next = append(next, s.tasks...)
	s.tasks = append(next, t)

	s.notifier.Notify(msgAdded, notify.Success)
	return t, s.persist()
}

// ToggleComplete flips the completion flag. Unknown ids are ignored.
func (s *Store) ToggleComplete(id ID) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	next := slices.Clone(s.tasks)
	next[i].Completed = !next[i].Completed
	s.tasks = next

	s.notifier.Notify(msgToggled, notify.Success)
	return s.persist()
}

// Delete removes the task. Unknown ids are ignored.
func (s *Store) Delete(id ID) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	s.tasks = slices.Delete(slices.Clone(s.tasks), i, i+1)

	s.notifier.Notify(msgDeleted, notify.Success)
	return s.persist()
}

// UpdateDueDate sets or clears the due date. Unknown ids are ignored.
func (s *Store) UpdateDueDate(id ID, due Due) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	next := slices.Clone(s.tasks)
	next[i].Due = due
	s.tasks = next

	if due.IsSet() {
		s.notifier.Notify(msgDueSet, notify.Success)
	} else {
		s.notifier.Notify(msgDueCleared, notify.Success)
	}
	return s.persist()
}

func (s *Store) index(id ID) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

// nextID returns the current instant, moved past any existing id so two
// adds within one millisecond stay distinct.
func (s *Store) nextID() ID {
	ms := s.now().UnixMilli()
	for _, t := range s.tasks {
		if m, ok := t.ID.Millis(); ok && m >= ms {
			ms = m + 1
		}
	}
	return newID(ms)
}

func (s *Store) persist() error {
	raw, err := Encode(s.tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.slot.Put(s.key, raw); err != nil {
		s.logger.Error("persist tasks", "key", s.key, "err", err)
		return fmt.Errorf("persist tasks: %w", err)
	}
	s.logger.Debug("persisted tasks", "key", s.key, "count", len(s.tasks))
	return nil
}
