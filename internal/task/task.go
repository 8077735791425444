// Package task owns the to-do collection and the views derived from it.
package task

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ID identifies a task for its whole lifetime. It holds the creation
// instant as decimal Unix milliseconds.
type ID string

func newID(ms int64) ID {
	return ID(strconv.FormatInt(ms, 10))
}

// Millis returns the creation instant encoded in the id.
func (id ID) Millis() (int64, bool) {
	ms, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return ms, true
}

// compareIDs orders ids by creation instant. Ids that are not numbers sort
// first, lexically, so the order stays total for hand-edited data.
func compareIDs(a, b ID) int {
	am, aok := a.Millis()
	bm, bok := b.Millis()
	switch {
	case aok && bok:
		switch {
		case am < bm:
			return -1
		case am > bm:
			return 1
		}
		return 0
	case aok:
		return 1
	case bok:
		return -1
	}
	return strings.Compare(string(a), string(b))
}

type Task struct {
	ID        ID     `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Due       Due    `json:"dueDate,omitzero"`
}

const dueLayout = "2006-01-02T15:04:05.000Z07:00"

// Due is an optional due instant. The zero value has no due date.
type Due struct {
	at  time.Time
	set bool
}

func NoDue() Due {
	return Due{}
}

// DueAt returns a Due holding t, normalized to UTC at millisecond precision.
func DueAt(t time.Time) Due {
	return Due{at: t.UTC().Truncate(time.Millisecond), set: true}
}

func (d Due) Get() (time.Time, bool) {
	return d.at, d.set
}

func (d Due) IsSet() bool {
	return d.set
}

// IsZero reports whether no due date is set.
func (d Due) IsZero() bool {
	return !d.set
}

func (d Due) Equal(o Due) bool {
	if d.set != o.set {
		return false
	}
	return !d.set || d.at.Equal(o.at)
}

func (d Due) MarshalJSON() ([]byte, error) {
	if !d.set {
		return []byte("null"), nil
	}
	return json.Marshal(d.at.Format(dueLayout))
}

func (d *Due) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = NoDue()
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return err
	}
	*d = DueAt(t)
	return nil
}
