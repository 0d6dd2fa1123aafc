package logging

import (
	"fmt"
	"strings"
)

// Severity orders log entries from most (Critical) to least (Debug) severe.
// Lower values are more severe.
type Severity int

const (
	Critical Severity = iota
	Error
	Warning
	Info
	Verbose
	Debug
)

var severityNames = [...]string{
	Critical: "Critical",
	Error:    "Error",
	Warning:  "Warning",
	Info:     "Info",
	Verbose:  "Verbose",
	Debug:    "Debug",
}

func (s Severity) valid() bool {
	return s >= Critical && s <= Debug
}

func (s Severity) String() string {
	if !s.valid() {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// Tag is the four letter, upper-cased prefix used in rendered lines (CRIT, ERRO, ...).
func (s Severity) Tag() string {
	name := s.String()
	if len(name) > 4 {
		name = name[:4]
	}
	return strings.ToUpper(name)
}

// Enabled reports whether an entry of severity s passes a gate set to threshold.
func (s Severity) Enabled(threshold Severity) bool {
	return s <= threshold
}

// ParseSeverity maps a configuration string onto a Severity.
func ParseSeverity(level string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "critical", "crit", "fatal":
		return Critical, nil
	case "error", "err":
		return Error, nil
	case "warning", "warn":
		return Warning, nil
	case "info":
		return Info, nil
	case "verbose":
		return Verbose, nil
	case "debug", "trace":
		return Debug, nil
	}
	return Debug, fmt.Errorf("unknown severity %q", level)
}

func (s Severity) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(strings.ToLower(s.String())), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
