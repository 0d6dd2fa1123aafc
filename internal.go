package logging

import (
	stderrs "errors"
	"path/filepath"
)

// initializeSinks builds the sinks enabled in the config. The second result
// lists the sinks the exit hook must release.
func (s *Service) initializeSinks() ([]Sink, []releaser, error) {
	cfg := s.LoggingConfig
	var sinks []Sink
	var releasers []releaser

	if cfg.ConsoleLogging {
		sinks = append(sinks, NewConsoleSink(WithNoColor(cfg.ConsoleNoColor)))
	}

	if cfg.FileLogging {
		fs := NewRotatingFileSink(FileSinkConfig{
			Dir:         filepath.Join(s.WorkingDir, cfg.RelLogFileDir),
			MaxSize:     cfg.LogFileMaxSizeBytes,
			MaxFiles:    cfg.LogFileMaxFiles,
			Compress:    cfg.LogFileCompress,
			SyncOnWrite: cfg.LogFileSyncOnWrite,
		})
		sinks = append(sinks, fs)
		releasers = append(releasers, fs)
	}

	if cfg.JournalLogging {
		id := cfg.JournalIdentifier
		if id == emptyString {
			id = executableName()
		}
		js, err := NewJournalSink(id)
		switch {
		case stderrs.Is(err, ErrJournalUnavailable):
			s.diag.Warn().Msg("Journal logging enabled but journald is not reachable; skipping")
		case err != nil:
			return nil, nil, err
		default:
			sinks = append(sinks, js)
		}
	}

	if cfg.ArchiveLogging {
		as := NewArchiveSink(ArchiveConfig{
			Filename:   filepath.Join(s.WorkingDir, cfg.ArchiveRelFile),
			MaxSizeMB:  cfg.ArchiveMaxSizeMB,
			MaxBackups: cfg.ArchiveMaxBackups,
			MaxAgeDays: cfg.ArchiveMaxAgeDays,
			Compress:   cfg.ArchiveCompress,
		})
		sinks = append(sinks, as)
		releasers = append(releasers, as)
	}

	return sinks, releasers, nil
}
