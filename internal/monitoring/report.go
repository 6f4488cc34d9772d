package monitoring

import (
	"fmt"
	"strings"
)

// Level is the severity of a user-facing message.
type Level int

const (
	Remark Level = iota
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Remark:
		return "remark"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Message is one entry of a Report.
type Message struct {
	Level Level
	Text  string
}

func (m Message) String() string {
	return m.Level.String() + ": " + m.Text
}

// Report collects the outcome messages of a single operation. Operations
// that must not fail loudly return a Report instead of an error; the caller
// decides how to surface it. The zero value is ready to use.
type Report struct {
	messages []Message
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{}
}

func (r *Report) add(level Level, format string, v ...interface{}) {
	text := fmt.Sprintf(format, v...)
	r.messages = append(r.messages, Message{Level: level, Text: text})
	Logf("%s: %s", level, text)
}

// Remarkf records an informational message.
func (r *Report) Remarkf(format string, v ...interface{}) { r.add(Remark, format, v...) }

// Warnf records a warning.
func (r *Report) Warnf(format string, v ...interface{}) { r.add(Warning, format, v...) }

// Errorf records an error.
func (r *Report) Errorf(format string, v ...interface{}) { r.add(Error, format, v...) }

// Messages returns the recorded messages in order.
func (r *Report) Messages() []Message {
	if r == nil {
		return nil
	}
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Has reports whether any message of the given level was recorded.
func (r *Report) Has(level Level) bool {
	if r == nil {
		return false
	}
	for _, m := range r.messages {
		if m.Level == level {
			return true
		}
	}
	return false
}

// HasErrors is shorthand for Has(Error).
func (r *Report) HasErrors() bool { return r.Has(Error) }

// Err folds the recorded errors into one error, or returns nil.
func (r *Report) Err() error {
	if r == nil {
		return nil
	}
	var parts []string
	for _, m := range r.messages {
		if m.Level == Error {
			parts = append(parts, m.Text)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return fmt.Errorf("%s", strings.Join(parts, "; "))
}
