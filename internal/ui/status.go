package ui

import "tasklet/internal/notify"

// StatusLine is the notifier the UI renders under the list. It is shared
// by pointer between the store and every copy of the model.
type StatusLine struct {
	text string
	sev  notify.Severity
}

func NewStatusLine(initial string) *StatusLine {
	return &StatusLine{text: initial}
}

func (s *StatusLine) Notify(msg string, sev notify.Severity) {
	s.text = msg
	s.sev = sev
}

func (s *StatusLine) Text() string {
	return s.text
}

func (s *StatusLine) Severity() notify.Severity {
	return s.sev
}
