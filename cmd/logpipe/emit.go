package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/quotewatch/logging"
	"github.com/urfave/cli/v3"
)

const (
	// maxLevelPrefix bounds how far into a line a "LEVEL:" prefix is looked for.
	maxLevelPrefix = 10
	// initialLineBuffer is the scanner's starting buffer; it grows up to the line limit.
	initialLineBuffer = 64 * 1024
)

func emitCommand() *cli.Command {
	return &cli.Command{
		Name:  "emit",
		Usage: "Log lines read from stdin; a line may start with LEVEL:",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "default-level",
				Usage: "Severity of lines without a level prefix",
				Value: "info",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			def, err := logging.ParseSeverity(c.String("default-level"))
			if err != nil {
				return err
			}
			fc, err := resolveConfig(c)
			if err != nil {
				return err
			}

			svc := logging.NewService(fc.WorkingDir, &fc.Logging)
			if err := svc.Initialize(); err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			emitErr := emit(ctx, os.Stdin, svc.Logger(), def, maxLineSize(fc.Logging))
			if err := svc.Close(); err != nil && emitErr == nil {
				emitErr = err
			}
			return emitErr
		},
	}
}

// maxLineSize is the longest stdin line emit accepts: twice the file size
// cap, so lines big enough to get a log file of their own still pass.
func maxLineSize(cfg logging.Config) int {
	limit := cfg.LogFileMaxSizeBytes
	if limit <= 0 {
		limit = logging.DefaultMaxFileSize
	}
	return int(2 * limit)
}

// emit logs every line of r until EOF or until ctx is done. Lines longer
// than maxLine bytes end the input with an error.
func emit(ctx context.Context, r io.Reader, p logging.Producer, def logging.Severity, maxLine int) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, min(initialLineBuffer, maxLine)), maxLine)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-errc
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			sev, text := parseLine(line, def)
			p.Log(sev, text)
		}
	}
}

// parseLine splits an optional "LEVEL:" prefix off line.
func parseLine(line string, def logging.Severity) (logging.Severity, string) {
	i := strings.IndexByte(line, ':')
	if i <= 0 || i > maxLevelPrefix {
		return def, line
	}
	sev, err := logging.ParseSeverity(line[:i])
	if err != nil {
		return def, line
	}
	return sev, strings.TrimLeft(line[i+1:], " \t")
}
