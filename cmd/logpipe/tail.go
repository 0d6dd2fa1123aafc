package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v3"
)

const logFileExt = ".txt"

func tailCommand() *cli.Command {
	return &cli.Command{
		Name:  "tail",
		Usage: "Follow the log directory across rotations",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Print the current file from the start instead of from its end",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			fc, err := resolveConfig(c)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return tail(ctx, fc.logDir(), c.Root().Writer, c.Bool("all"))
		},
	}
}

// follower copies whatever is appended to the current log file to out.
type follower struct {
	out  io.Writer
	file *os.File
	path string
}

func (f *follower) open(path string, fromStart bool) error {
	if f.file != nil {
		// drain what the old file got before it was rotated out
		if err := f.copy(); err != nil {
			return err
		}
		_ = f.file.Close()
		f.file = nil
	}
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	if !fromStart {
		if _, err := file.Seek(0, io.SeekEnd); err != nil {
			_ = file.Close()
			return err
		}
	}
	f.file, f.path = file, path
	return f.copy()
}

func (f *follower) copy() error {
	if f.file == nil {
		return nil
	}
	_, err := io.Copy(f.out, f.file)
	return err
}

func (f *follower) close() {
	if f.file != nil {
		_ = f.file.Close()
	}
}

// tail follows the newest log file in dir, switching to each new file the
// rotating sink creates, until ctx is done.
func tail(ctx context.Context, dir string, out io.Writer, fromStart bool) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	f := &follower{out: out}
	defer f.close()

	latest, err := newestLogFile(dir)
	if err != nil {
		return err
	}
	if latest != "" {
		if err := f.open(latest, fromStart); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != logFileExt {
				continue
			}
			switch {
			case event.Has(fsnotify.Create) && event.Name != f.path:
				if err := f.open(event.Name, true); err != nil && !errors.Is(err, os.ErrNotExist) {
					return err
				}
			case event.Has(fsnotify.Write) && event.Name == f.path:
				if err := f.copy(); err != nil {
					return err
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
}

// newestLogFile returns the most recently modified log file in dir, or ""
// when there is none.
func newestLogFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var newest string
	var newestInfo os.FileInfo
	for _, de := range entries {
		if !de.Type().IsRegular() || !strings.HasSuffix(de.Name(), logFileExt) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		if newestInfo == nil || info.ModTime().After(newestInfo.ModTime()) ||
			(info.ModTime().Equal(newestInfo.ModTime()) && de.Name() > filepath.Base(newest)) {
			newest, newestInfo = filepath.Join(dir, de.Name()), info
		}
	}
	return newest, nil
}
