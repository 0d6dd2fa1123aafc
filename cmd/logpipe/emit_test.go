package main

import (
	"bufio"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/quotewatch/logging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	mu      sync.Mutex
	entries []logging.Entry
}

func (m *memorySink) Name() string { return "memory" }

func (m *memorySink) Write(e logging.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memorySink) Release() error { return nil }

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		sev  logging.Severity
		text string
	}{
		{"WARN: disk at 91%", logging.Warning, "disk at 91%"},
		{"error:failed", logging.Error, "failed"},
		{"crit:  feed down", logging.Critical, "feed down"},
		{"plain line", logging.Info, "plain line"},
		{"EURUSD: 1.0841", logging.Info, "EURUSD: 1.0841"},
		{": leading colon", logging.Info, ": leading colon"},
		{"a very long prefix: text", logging.Info, "a very long prefix: text"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			sev, text := parseLine(tt.line, logging.Info)
			assert.Equal(t, tt.sev, sev)
			assert.Equal(t, tt.text, text)
		})
	}
}

func TestEmit(t *testing.T) {
	sink := &memorySink{}
	l := logging.NewLogger(logging.Info, []logging.Sink{sink}, logging.WithDiagnostics(zerolog.Nop()))

	in := strings.NewReader("debug: hidden\nstarted\n\nWARNING: slow quote\n")
	require.NoError(t, emit(context.Background(), in, l, logging.Info, 1024))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, l.Close(ctx))

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.entries, 2)
	assert.Equal(t, "started", sink.entries[0].Text)
	assert.Equal(t, logging.Info, sink.entries[0].Severity)
	assert.Equal(t, "slow quote", sink.entries[1].Text)
	assert.Equal(t, logging.Warning, sink.entries[1].Severity)
}

type blockingReader struct{ unblock chan struct{} }

func (b blockingReader) Read([]byte) (int, error) {
	<-b.unblock
	return 0, context.Canceled
}

func TestEmit_StopsOnCancel(t *testing.T) {
	r := blockingReader{unblock: make(chan struct{})}
	defer close(r.unblock)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- emit(ctx, r, (*logging.Logger)(nil), logging.Info, 1024) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("emit ignored cancellation")
	}
}

func TestEmit_LongLines(t *testing.T) {
	cfg := logging.DefaultConfig()
	limit := maxLineSize(cfg)
	assert.Greater(t, int64(limit), cfg.LogFileMaxSizeBytes)

	sink := &memorySink{}
	l := logging.NewLogger(logging.Debug, []logging.Sink{sink}, logging.WithDiagnostics(zerolog.Nop()))

	long := strings.Repeat("q", int(cfg.LogFileMaxSizeBytes)+10)
	in := strings.NewReader("before\n" + long + "\nafter\n")
	require.NoError(t, emit(context.Background(), in, l, logging.Info, limit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, l.Close(ctx))

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.entries, 3)
	assert.Equal(t, long, sink.entries[1].Text)
	assert.Equal(t, "after", sink.entries[2].Text)
}

func TestEmit_LineOverLimit(t *testing.T) {
	in := strings.NewReader(strings.Repeat("q", 2048) + "\n")
	err := emit(context.Background(), in, (*logging.Logger)(nil), logging.Info, 1024)
	assert.ErrorIs(t, err, bufio.ErrTooLong)
}
