package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	dateDisplay     = "Jan 02, 2006"
	dateTimeDisplay = "Jan 02, 2006 3:04 PM"
)

var ErrInvalidDue = errors.New("invalid due date")

// FormatDue renders a due date in loc, leaving out the time of day when it
// is exactly midnight. A nil loc means time.Local.
func FormatDue(d Due, loc *time.Location) string {
	at, ok := d.Get()
	if !ok {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	at = at.In(loc)
	if at.Hour() == 0 && at.Minute() == 0 && at.Second() == 0 {
		return at.Format(dateDisplay)
	}
	return at.Format(dateTimeDisplay)
}

var inputLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

// ParseDue reads user input. Blank input clears the due date.
func ParseDue(v string, loc *time.Location) (Due, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return NoDue(), nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return DueAt(t), nil
		}
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return DueAt(t), nil
	}
	return NoDue(), fmt.Errorf("%w: %q (want YYYY-MM-DD or YYYY-MM-DD HH:MM)", ErrInvalidDue, v)
}

// InputValue is the inverse of ParseDue for pre-filling an editor.
func InputValue(d Due, loc *time.Location) string {
	at, ok := d.Get()
	if !ok {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	at = at.In(loc)
	if at.Hour() == 0 && at.Minute() == 0 && at.Second() == 0 {
		return at.Format(inputLayouts[0])
	}
	return at.Format(inputLayouts[1])
}
