package logging

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"golang.org/x/time/rate"
)

// Logger buffers entries that pass its severity gate and hands them, in
// order, to every sink. A single dispatcher goroutine is started on demand
// and exits once the queue is drained.
type Logger struct {
	threshold Severity
	sinks     []Sink
	diag      zerolog.Logger
	limiter   *rate.Limiter
	now       func() time.Time

	mu      sync.Mutex
	queue   []Entry
	running bool
	idle    chan struct{}
	closed  bool

	enqueued     atomic.Uint64
	filtered     atomic.Uint64
	dropped      atomic.Uint64
	dispatched   atomic.Uint64
	sinkFailures atomic.Uint64
	suppressed   atomic.Uint64
	starts       atomic.Uint64
}

// Stats is a point-in-time copy of the Logger counters.
type Stats struct {
	Enqueued          uint64
	Filtered          uint64
	Dropped           uint64
	Dispatched        uint64
	SinkFailures      uint64
	SuppressedReports uint64
	DispatcherStarts  uint64
}

// Option configures a Logger.
type Option func(*Logger)

// WithDiagnostics sets the logger used for problems of the pipeline itself,
// such as suppressed failure reports.
func WithDiagnostics(z zerolog.Logger) Option {
	return func(l *Logger) {
		l.diag = z
	}
}

// WithFailureReportLimit bounds how many sink failures per second are turned
// into Error entries. A non-positive rate disables the limit.
func WithFailureReportLimit(perSecond float64, burst int) Option {
	return func(l *Logger) {
		if burst <= 0 {
			burst = 1
		}
		limit := rate.Inf
		if perSecond > 0 {
			limit = rate.Limit(perSecond)
		}
		l.limiter = rate.NewLimiter(limit, burst)
	}
}

func withClock(now func() time.Time) Option {
	return func(l *Logger) {
		l.now = now
	}
}

// NewLogger returns a Logger admitting entries at least as severe as
// threshold. The sink set is fixed for the lifetime of the Logger; the
// caller keeps ownership of the sinks and releases them.
func NewLogger(threshold Severity, sinks []Sink, opts ...Option) *Logger {
	l := &Logger{
		threshold: threshold,
		sinks:     append([]Sink(nil), sinks...),
		diag:      zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel).With().Timestamp().Logger(),
		limiter:   rate.NewLimiter(rate.Limit(defaultFailureReportsPS), defaultFailureBurst),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Threshold returns the least severe level the Logger admits.
func (l *Logger) Threshold() Severity {
	if l == nil {
		return Critical
	}
	return l.threshold
}

// Log enqueues text at the given severity. It never blocks beyond the queue
// lock and never fails.
func (l *Logger) Log(severity Severity, text string) {
	if l == nil {
		return
	}
	l.enqueue(Entry{Time: l.now(), Severity: severity, Text: text})
}

// Logf formats and enqueues a message. Arguments are not formatted when the
// severity is below the threshold.
func (l *Logger) Logf(severity Severity, format string, args ...interface{}) {
	if l == nil {
		return
	}
	if !severity.Enabled(l.threshold) {
		l.filtered.Inc()
		return
	}
	l.Log(severity, fmt.Sprintf(format, args...))
}

func (l *Logger) enqueue(e Entry) {
	if !e.Severity.Enabled(l.threshold) {
		l.filtered.Inc()
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Failure reports are still accepted while closing so Close can drain them.
	if l.closed && !e.failureReport {
		l.dropped.Inc()
		return
	}

	l.queue = append(l.queue, e)
	l.enqueued.Inc()

	if !l.running {
		l.running = true
		l.idle = make(chan struct{})
		l.starts.Inc()
		go l.dispatch(l.idle)
	}
}

// dispatch drains the queue. It is the only goroutine popping entries while
// running is set.
func (l *Logger) dispatch(idle chan struct{}) {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.queue = nil
			l.running = false
			close(idle)
			l.mu.Unlock()
			return
		}
		e := l.queue[0]
		l.queue[0] = Entry{}
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.fanOut(e)
	}
}

// fanOut writes e to every sink concurrently and waits for all of them.
func (l *Logger) fanOut(e Entry) {
	errs := make([]error, len(l.sinks))

	switch len(l.sinks) {
	case 0:
	case 1:
		errs[0] = writeSink(l.sinks[0], e)
	default:
		var wg sync.WaitGroup
		wg.Add(len(l.sinks))
		for i, sink := range l.sinks {
			go func() {
				defer wg.Done()
				errs[i] = writeSink(sink, e)
			}()
		}
		wg.Wait()
	}
	l.dispatched.Inc()

	for i, err := range errs {
		if err != nil {
			l.reportFailure(l.sinks[i], e, err)
		}
	}
}

func writeSink(s Sink, e Entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return s.Write(e)
}

// reportFailure turns a sink failure into an Error entry. Failures of a
// failure report are not re-logged, and reports are rate limited.
func (l *Logger) reportFailure(s Sink, cause Entry, err error) {
	l.sinkFailures.Inc()

	if cause.failureReport || !l.limiter.Allow() {
		l.suppressed.Inc()
		l.diag.Warn().
			Str("sink", s.Name()).
			Bool("nested", cause.failureReport).
			Err(err).
			Msg("Sink failure report suppressed")
		return
	}

	chain, _, _, _ := buildErrorChain(err)
	l.enqueue(Entry{
		Time:          l.now(),
		Severity:      Error,
		Text:          fmt.Sprintf("sink %s failed: %s", s.Name(), joinChain(chain)),
		failureReport: true,
	})
}

// Flush blocks until the queue is empty and no dispatcher is running, or
// until ctx is done.
func (l *Logger) Flush(ctx context.Context) error {
	if l == nil {
		return nil
	}
	for {
		l.mu.Lock()
		if !l.running {
			l.mu.Unlock()
			return nil
		}
		idle := l.idle
		l.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close stops admitting new entries and waits for queued ones to be
// dispatched. It does not release the sinks.
func (l *Logger) Close(ctx context.Context) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	return l.Flush(ctx)
}

// Pending returns the number of queued entries not yet dispatched.
func (l *Logger) Pending() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Stats returns the current counter values. A nil Logger reports zeros.
func (l *Logger) Stats() Stats {
	if l == nil {
		return Stats{}
	}
	return Stats{
		Enqueued:          l.enqueued.Load(),
		Filtered:          l.filtered.Load(),
		Dropped:           l.dropped.Load(),
		Dispatched:        l.dispatched.Load(),
		SinkFailures:      l.sinkFailures.Load(),
		SuppressedReports: l.suppressed.Load(),
		DispatcherStarts:  l.starts.Load(),
	}
}

// Per-severity shorthands for Log and Logf.

func (l *Logger) Critical(text string) { l.Log(Critical, text) }
func (l *Logger) Error(text string)    { l.Log(Error, text) }
func (l *Logger) Warning(text string)  { l.Log(Warning, text) }
func (l *Logger) Info(text string)     { l.Log(Info, text) }
func (l *Logger) Verbose(text string)  { l.Log(Verbose, text) }
func (l *Logger) Debug(text string)    { l.Log(Debug, text) }

func (l *Logger) Criticalf(format string, args ...interface{}) { l.Logf(Critical, format, args...) }
func (l *Logger) Errorf(format string, args ...interface{})    { l.Logf(Error, format, args...) }
func (l *Logger) Warningf(format string, args ...interface{})  { l.Logf(Warning, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})     { l.Logf(Info, format, args...) }
func (l *Logger) Verbosef(format string, args ...interface{})  { l.Logf(Verbose, format, args...) }
func (l *Logger) Debugf(format string, args ...interface{})    { l.Logf(Debug, format, args...) }
