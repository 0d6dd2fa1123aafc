package logging

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ArchiveConfig controls the JSON archive written through lumberjack.
type ArchiveConfig struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// ZerologSink forwards entries into a zerolog.Logger, one JSON event per entry.
type ZerologSink struct {
	logger zerolog.Logger
	closer io.Closer
	errs   *errorWriter
}

// errorWriter keeps the last write error, which zerolog would otherwise
// only hand to its global error handler.
type errorWriter struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

func (ew *errorWriter) Write(p []byte) (int, error) {
	n, err := ew.w.Write(p)
	if err != nil {
		ew.mu.Lock()
		ew.err = err
		ew.mu.Unlock()
	}
	return n, err
}

func (ew *errorWriter) take() error {
	ew.mu.Lock()
	defer ew.mu.Unlock()
	err := ew.err
	ew.err = nil
	return err
}

// NewZerologSink adapts an existing zerolog logger. The caller keeps
// ownership of its writer.
func NewZerologSink(logger zerolog.Logger) *ZerologSink {
	return &ZerologSink{logger: logger}
}

// NewArchiveSink writes JSON lines to a lumberjack-managed file, rotated by
// size and pruned by age and backup count.
func NewArchiveSink(cfg ArchiveConfig) *ZerologSink {
	lj := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
	ew := &errorWriter{w: lj}
	return &ZerologSink{
		logger: zerolog.New(ew),
		closer: lj,
		errs:   ew,
	}
}

func (z *ZerologSink) Name() string { return "archive" }

// Write emits one event. Errors from the archive writer are returned; those
// of an adapted logger stay with that logger.
func (z *ZerologSink) Write(e Entry) error {
	z.logger.WithLevel(zerologLevel(e.Severity)).
		Time(zerolog.TimestampFieldName, e.Time).
		Str("severity", e.Severity.Tag()).
		Bool("failure_report", e.failureReport).
		Msg(e.Text)
	if z.errs != nil {
		return z.errs.take()
	}
	return nil
}

// Release closes the archive file when the sink owns it. lumberjack reopens
// on the next write, so repeated calls are harmless.
func (z *ZerologSink) Release() error {
	if z.closer == nil {
		return nil
	}
	return z.closer.Close()
}

// zerologLevel maps severities onto zerolog levels. WithLevel never exits,
// so Critical can use FatalLevel.
func zerologLevel(s Severity) zerolog.Level {
	switch s {
	case Critical:
		return zerolog.FatalLevel
	case Error:
		return zerolog.ErrorLevel
	case Warning:
		return zerolog.WarnLevel
	case Info:
		return zerolog.InfoLevel
	case Verbose, Debug:
		// trace sits below zerolog's default global level
		return zerolog.DebugLevel
	}
	return zerolog.NoLevel
}
