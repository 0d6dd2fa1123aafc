package logging

import (
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-colorable"
	"github.com/muesli/termenv"
)

// ANSI colour numbers matching the classic console palette.
const (
	colorRed        = "9"
	colorDarkYellow = "3"
	colorYellow     = "11"
	colorGray       = "7"
	colorDarkGray   = "8"
	colorGreen      = "10"
)

// ConsoleSink prints colourised lines to standard output. Each line is
// terminated with a reset, so the terminal is back to its default colour
// after every write.
type ConsoleSink struct {
	mu       sync.Mutex
	out      io.Writer
	styles   map[Severity]lipgloss.Style
	fallback lipgloss.Style
}

// ConsoleOption configures a ConsoleSink.
type ConsoleOption func(*consoleOptions)

type consoleOptions struct {
	out     io.Writer
	noColor bool
	profile *termenv.Profile
}

// WithConsoleWriter sends console output to w instead of stdout.
func WithConsoleWriter(w io.Writer) ConsoleOption {
	return func(o *consoleOptions) { o.out = w }
}

// WithNoColor disables colouring.
func WithNoColor(noColor bool) ConsoleOption {
	return func(o *consoleOptions) { o.noColor = noColor }
}

// WithColorProfile forces a colour profile instead of detecting it from the writer.
func WithColorProfile(p termenv.Profile) ConsoleOption {
	return func(o *consoleOptions) { o.profile = &p }
}

// NewConsoleSink returns a sink writing to stdout through a colorable writer,
// with the colour profile detected from the output unless an option forces one.
func NewConsoleSink(opts ...ConsoleOption) *ConsoleSink {
	o := consoleOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.out == nil {
		o.out = colorable.NewColorableStdout()
	}

	r := lipgloss.NewRenderer(o.out)
	switch {
	case o.noColor:
		r.SetColorProfile(termenv.Ascii)
	case o.profile != nil:
		r.SetColorProfile(*o.profile)
	}

	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c)).TabWidth(lipgloss.NoTabConversion)
	}
	return &ConsoleSink{
		out: o.out,
		styles: map[Severity]lipgloss.Style{
			Critical: fg(colorRed),
			Error:    fg(colorDarkYellow),
			Warning:  fg(colorYellow),
			Info:     fg(colorGray),
			Verbose:  fg(colorDarkGray),
			Debug:    fg(colorDarkGray),
		},
		fallback: fg(colorGreen),
	}
}

func (c *ConsoleSink) Name() string { return "console" }

// Write prints the entry in its severity colour, one styled run per line.
func (c *ConsoleSink) Write(e Entry) error {
	style, ok := c.styles[e.Severity]
	if !ok {
		style = c.fallback
	}
	// Render line by line: lipgloss pads multi-line blocks to a common width.
	lines := strings.Split(e.String(), "\n")
	for i, ln := range lines {
		lines[i] = style.Render(ln)
	}
	line := strings.Join(lines, "\n") + "\n"

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := io.WriteString(c.out, line)
	return err
}

// Release is a no-op; the console holds no resources.
func (c *ConsoleSink) Release() error { return nil }
