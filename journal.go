package logging

import (
	"errors"
	"strconv"

	"github.com/coreos/go-systemd/v22/journal"
)

// ErrJournalUnavailable is returned when no systemd journal socket is reachable.
var ErrJournalUnavailable = errors.New("systemd journal is not available")

// JournalSink forwards entries to systemd-journald.
type JournalSink struct {
	identifier string
	send       func(message string, priority journal.Priority, vars map[string]string) error
}

// NewJournalSink returns a sink tagging entries with identifier as
// SYSLOG_IDENTIFIER. It fails with ErrJournalUnavailable when journald's
// socket cannot be reached.
func NewJournalSink(identifier string) (*JournalSink, error) {
	if !journal.Enabled() {
		return nil, ErrJournalUnavailable
	}
	return &JournalSink{identifier: identifier, send: journal.Send}, nil
}

func (j *JournalSink) Name() string { return "journal" }

// Write sends the entry text as MESSAGE with the severity mapped to a syslog priority.
func (j *JournalSink) Write(e Entry) error {
	vars := map[string]string{
		"SEVERITY":               e.Severity.Tag(),
		"SYSLOG_TIMESTAMP":       e.Time.Format(entryTimeLayout),
		"LOGGING_TIMESTAMP_USEC": strconv.FormatInt(e.Time.UnixMicro(), 10),
	}
	if j.identifier != emptyString {
		vars["SYSLOG_IDENTIFIER"] = j.identifier
	}
	return j.send(e.Text, journalPriority(e.Severity), vars)
}

// Release is a no-op; journal.Send manages its own socket.
func (j *JournalSink) Release() error { return nil }

func journalPriority(s Severity) journal.Priority {
	switch s {
	case Critical:
		return journal.PriCrit
	case Error:
		return journal.PriErr
	case Warning:
		return journal.PriWarning
	case Info:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}
