package logging

import (
	"io"
	"testing"
	"time"
)

type discardSink struct{}

func (discardSink) Name() string { return "discard" }
func (discardSink) Write(e Entry) error {
	_, err := io.WriteString(io.Discard, e.String())
	return err
}
func (discardSink) Release() error { return nil }

func BenchmarkLogger_Log(b *testing.B) {
	l := NewLogger(Debug, []Sink{discardSink{}}, quietDiagnostics())
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Info("benchmark message")
	}
	b.StopTimer()
	flush(b, l)
}

func BenchmarkLogger_LogFanOut(b *testing.B) {
	sinks := []Sink{discardSink{}, discardSink{}, discardSink{}}
	l := NewLogger(Debug, sinks, quietDiagnostics())
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Infof("benchmark %d", i)
	}
	b.StopTimer()
	flush(b, l)
}

func BenchmarkLogger_Filtered(b *testing.B) {
	l := NewLogger(Error, []Sink{discardSink{}}, quietDiagnostics())
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Debugf("dropped %d", i)
	}
}

func BenchmarkRotatingFileSink_Write(b *testing.B) {
	sink := NewRotatingFileSink(FileSinkConfig{Dir: b.TempDir(), MaxSize: 64 * 1024, MaxFiles: 4})
	defer sink.Release()
	e := Entry{Severity: Info, Text: "benchmark message"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		e.Time = time.Now()
		if err := sink.Write(e); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEntry_String(b *testing.B) {
	e := Entry{Severity: Warning, Text: "benchmark message"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = e.String()
	}
}
