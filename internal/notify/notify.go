// Package notify carries short user-facing feedback messages.
package notify

import "github.com/charmbracelet/log"

type Severity int

const (
	Success Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "success"
}

// Notifier receives fire-and-forget feedback. Implementations must not
// block the caller.
type Notifier interface {
	Notify(msg string, sev Severity)
}

// Func adapts a plain function to Notifier.
type Func func(msg string, sev Severity)

func (f Func) Notify(msg string, sev Severity) { f(msg, sev) }

// Discard drops every message.
var Discard Notifier = Func(func(string, Severity) {})

type logNotifier struct {
	logger *log.Logger
}

// Log writes notifications to logger.
func Log(logger *log.Logger) Notifier {
	return logNotifier{logger: logger}
}

func (l logNotifier) Notify(msg string, sev Severity) {
	if sev == Error {
		l.logger.Error(msg, "severity", sev.String())
		return
	}
	l.logger.Info(msg, "severity", sev.String())
}

// Multi fans a notification out to every non-nil notifier in order.
func Multi(ns ...Notifier) Notifier {
	return Func(func(msg string, sev Severity) {
		for _, n := range ns {
			if n != nil {
				n.Notify(msg, sev)
			}
		}
	})
}

// Recorder keeps every notification it receives.
type Recorder struct {
	Messages []Message
}

type Message struct {
	Text     string
	Severity Severity
}

func (r *Recorder) Notify(msg string, sev Severity) {
	r.Messages = append(r.Messages, Message{Text: msg, Severity: sev})
}

// Last returns the most recent message, or the zero Message.
func (r *Recorder) Last() Message {
	if len(r.Messages) == 0 {
		return Message{}
	}
	return r.Messages[len(r.Messages)-1]
}
