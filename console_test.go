package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleSink_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(WithConsoleWriter(&buf), WithNoColor(true))

	ts := time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.Local)
	require.NoError(t, sink.Write(Entry{Time: ts, Severity: Info, Text: "hello"}))
	require.NoError(t, sink.Write(Entry{Time: ts, Severity: Error, Text: "line one\n\tline two"}))

	assert.Equal(t,
		"[2024/01/02 03:04:05.006] INFO: hello\n"+
			"[2024/01/02 03:04:05.006] ERRO: line one\n\tline two\n",
		buf.String())
}

func TestConsoleSink_ColoursBySeverity(t *testing.T) {
	render := func(sev Severity) string {
		var buf bytes.Buffer
		sink := NewConsoleSink(WithConsoleWriter(&buf), WithColorProfile(termenv.ANSI256))
		require.NoError(t, sink.Write(Entry{Time: time.Now(), Severity: sev, Text: "x"}))
		return buf.String()
	}

	outputs := map[Severity]string{}
	for _, sev := range []Severity{Critical, Error, Warning, Info, Verbose, Debug} {
		out := render(sev)
		assert.True(t, strings.HasPrefix(out, "\x1b["), "%s output should be coloured: %q", sev, out)
		assert.Contains(t, out, "\x1b[0m", "%s output must reset the colour", sev)
		outputs[sev] = out[:strings.Index(out, "m")+1]
	}

	assert.Equal(t, outputs[Verbose], outputs[Debug])
	assert.NotEqual(t, outputs[Critical], outputs[Error])
	assert.NotEqual(t, outputs[Error], outputs[Warning])
	assert.NotEqual(t, outputs[Warning], outputs[Info])
	assert.NotEqual(t, outputs[Info], outputs[Debug])

	unknown := render(Severity(17))
	assert.NotEqual(t, outputs[Info], unknown[:strings.Index(unknown, "m")+1])
}

func TestConsoleSink_Release(t *testing.T) {
	sink := NewConsoleSink(WithConsoleWriter(&bytes.Buffer{}))
	assert.NoError(t, sink.Release())
	assert.NoError(t, sink.Release())
	assert.Equal(t, "console", sink.Name())
}
