package logging

import (
	"context"
	stderrs "errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// Service owns a Logger together with the sinks built from its Config.
type Service struct {
	WorkingDir    string `di.inject:"WorkingDir"`
	LoggingConfig *Config
	// ExtraSinks are appended to the configured sinks. The Service releases
	// them on Close like the sinks it builds itself.
	ExtraSinks []Sink
	// Diagnostics receives the pipeline's own warnings. Defaults to stderr.
	Diagnostics *zerolog.Logger

	initOnce      sync.Once
	initErr       error
	mu            sync.Mutex
	logger        atomic.Pointer[Logger]
	isInitialized atomic.Bool
	sinks         []Sink
	exitHook      *ExitHook
	diag          zerolog.Logger
}

// NewService returns an uninitialized Service. Call Initialize before use.
func NewService(workingDir string, cfg *Config) *Service {
	return &Service{WorkingDir: workingDir, LoggingConfig: cfg}
}

// Initialize validates the configuration, builds the sinks and starts the
// exit hook. Calling it again returns the result of the first call.
func (s *Service) Initialize() error {
	const op errors.Op = "logging.Service.Initialize"
	if s == nil {
		return errors.New(op).Msg(errMsgNilService)
	}
	s.initOnce.Do(func() {
		s.initErr = s.initialize()
	})
	return s.initErr
}

func (s *Service) initialize() error {
	const op errors.Op = "logging.Service.initialize"
	if err := validateConfig(s.LoggingConfig); err != nil {
		return err
	}
	cfg := s.LoggingConfig

	if (cfg.FileLogging || cfg.ArchiveLogging) && s.WorkingDir == emptyString {
		return errors.New(op).Msg(errMsgWorkingDirNotSet)
	}

	level, err := ParseSeverity(cfg.Level)
	if err != nil {
		return errors.New(op).Err(err).Msg(errMsgBadLevel)
	}

	diagLevel, err := parseDiagnosticsLevel(cfg.DiagnosticsLevel)
	if err != nil {
		return errors.New(op).Err(err).Msg(errMsgBadLevel)
	}
	if s.Diagnostics != nil {
		s.diag = s.Diagnostics.Level(diagLevel)
	} else {
		s.diag = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(diagLevel).With().Timestamp().Logger()
	}
	s.diag = s.diag.With().Str("component", ServiceName).Logger()

	sinks, releasers, err := s.initializeSinks()
	if err != nil {
		return errors.New(op).Err(err).Msg(errMsgSinkInit)
	}
	sinks = append(sinks, s.ExtraSinks...)
	if len(sinks) == 0 {
		return errors.New(op).Msg(errMsgNoSinks)
	}
	s.sinks = sinks

	opts := []Option{WithDiagnostics(s.diag)}
	if cfg.FailureReportsPerSecond > 0 || cfg.FailureReportBurst > 0 {
		opts = append(opts, WithFailureReportLimit(cfg.FailureReportsPerSecond, cfg.FailureReportBurst))
	}
	logger := NewLogger(level, sinks, opts...)
	s.logger.Store(logger)

	if cfg.FlushOnSignal && len(releasers) > 0 {
		// Stop admitting entries and drain what is queued before file handles go.
		drain := func() error {
			ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
			defer cancel()
			return logger.Close(ctx)
		}
		s.exitHook = newExitHook(drain, releasers, func(sig os.Signal, err error) {
			s.diag.Warn().Str("signal", sig.String()).Err(err).Msg("Log sinks released on signal")
		})
		s.exitHook.Start()
	}

	s.isInitialized.Store(true)
	return nil
}

// Logger returns the Logger, or nil before Initialize. A nil *Logger is a
// valid Producer that drops everything.
func (s *Service) Logger() *Logger {
	if s == nil {
		return nil
	}
	return s.logger.Load()
}

// Log forwards to the Logger. It is a no-op before Initialize and after Close.
func (s *Service) Log(severity Severity, text string) {
	if s == nil || !s.isInitialized.Load() {
		return
	}
	s.logger.Load().Log(severity, text)
}

// Logf is the formatting form of Log.
func (s *Service) Logf(severity Severity, format string, args ...interface{}) {
	if s == nil || !s.isInitialized.Load() {
		return
	}
	s.logger.Load().Logf(severity, format, args...)
}

// Close drains the queue for at most ShutdownTimeoutMS and releases every
// sink. It's safe to call Close multiple times.
func (s *Service) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isInitialized.Load() {
		return nil
	}
	s.isInitialized.Store(false)

	timeout := s.shutdownTimeout()
	logger := s.logger.Load()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := logger.Close(ctx); err != nil && s.LoggingConfig.ShutdownTimeoutWarning {
		s.diag.Warn().
			Int("pending", logger.Pending()).
			Dur("timeout", timeout).
			Msg("Logger shutdown timeout exceeded")
	}

	if s.exitHook != nil {
		s.exitHook.Stop()
	}

	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", sink.Name(), err))
		}
	}
	return stderrs.Join(errs...)
}

func (s *Service) shutdownTimeout() time.Duration {
	if s.LoggingConfig.ShutdownTimeoutMS > 0 {
		return time.Duration(s.LoggingConfig.ShutdownTimeoutMS) * time.Millisecond
	}
	return defaultShutdownTimeout
}
