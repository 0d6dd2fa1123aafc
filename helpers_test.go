package logging

import (
	"bytes"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// recordingSink keeps every entry it receives and tracks how many writes
// overlap.
type recordingSink struct {
	name  string
	delay time.Duration
	fail  func(Entry) error

	mu       sync.Mutex
	entries  []Entry
	released atomic.Int32

	active    atomic.Int32
	maxActive atomic.Int32
}

func newRecordingSink(name string) *recordingSink {
	return &recordingSink{name: name}
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) Write(e Entry) error {
	n := r.active.Inc()
	defer r.active.Dec()
	for {
		m := r.maxActive.Load()
		if n <= m || r.maxActive.CompareAndSwap(m, n) {
			break
		}
	}

	if r.delay > 0 {
		time.Sleep(r.delay)
	}

	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()

	if r.fail != nil {
		return r.fail(e)
	}
	return nil
}

func (r *recordingSink) Release() error {
	r.released.Inc()
	return nil
}

func (r *recordingSink) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

func (r *recordingSink) Texts() []string {
	var out []string
	for _, e := range r.Entries() {
		out = append(out, e.Text)
	}
	return out
}

// blockingSink waits on gate before accepting a write.
type blockingSink struct {
	gate    chan struct{}
	started chan struct{}
	once    sync.Once
}

func newBlockingSink() *blockingSink {
	return &blockingSink{gate: make(chan struct{}), started: make(chan struct{})}
}

func (b *blockingSink) Name() string { return "blocking" }

func (b *blockingSink) Write(Entry) error {
	b.once.Do(func() { close(b.started) })
	<-b.gate
	return nil
}

func (b *blockingSink) Release() error { return nil }

func (b *blockingSink) Unblock() { close(b.gate) }

// panicSink panics on every write.
type panicSink struct{}

func (panicSink) Name() string      { return "panicky" }
func (panicSink) Write(Entry) error { panic("sink exploded") }
func (panicSink) Release() error    { return nil }

var errDiskFull = errors.New("no space left on device")

func failAlways(Entry) error { return errDiskFull }

// threadSafeBuffer is a bytes.Buffer guarded by a mutex.
type threadSafeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *threadSafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *threadSafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func quietDiagnostics() Option {
	return WithDiagnostics(zerolog.Nop())
}

// fixedClock returns a clock advancing by one millisecond per call.
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := now
		now = now.Add(time.Millisecond)
		return t
	}
}
