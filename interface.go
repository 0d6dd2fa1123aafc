package logging

import "errors"

// ErrSinkClosed is returned by a sink that is written to after Release.
var ErrSinkClosed = errors.New("log sink is closed")

// Sink is an output destination for entries. Write may fail; the dispatcher
// contains the failure. Release frees any resource the sink owns and must be
// safe to call more than once.
type Sink interface {
	Name() string
	Write(e Entry) error
	Release() error
}

// Producer is what application code depends on to emit log messages.
// None of the methods block beyond a short critical section or report errors.
type Producer interface {
	Log(severity Severity, text string)
	Logf(severity Severity, format string, args ...interface{})

	Critical(text string)
	Criticalf(format string, args ...interface{})
	Error(text string)
	Errorf(format string, args ...interface{})
	Warning(text string)
	Warningf(format string, args ...interface{})
	Info(text string)
	Infof(format string, args ...interface{})
	Verbose(text string)
	Verbosef(format string, args ...interface{})
	Debug(text string)
	Debugf(format string, args ...interface{})
}

var _ Producer = (*Logger)(nil)
