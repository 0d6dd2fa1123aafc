package logging

import (
	"strings"
	"time"
)

// Entry is one logged message. It is created once by the Logger and never mutated.
type Entry struct {
	Time     time.Time
	Severity Severity
	Text     string

	// failureReport marks entries the dispatcher produced to report a sink failure.
	failureReport bool
}

// String renders the entry as "[yyyy/MM/dd HH:mm:ss.mmm] TAG: text".
func (e Entry) String() string {
	var b strings.Builder
	b.Grow(len(entryTimeLayout) + len(e.Text) + 10)
	b.WriteByte('[')
	b.WriteString(e.Time.Format(entryTimeLayout))
	b.WriteString("] ")
	b.WriteString(e.Severity.Tag())
	b.WriteString(": ")
	b.WriteString(e.Text)
	return b.String()
}

// IsFailureReport reports whether the entry describes a failed sink write.
func (e Entry) IsFailureReport() bool {
	return e.failureReport
}
