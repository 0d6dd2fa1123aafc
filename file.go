package logging

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	smerrors "github.com/Station-Manager/errors"
	"github.com/klauspost/compress/gzip"
)

// FileSinkConfig controls a RotatingFileSink.
type FileSinkConfig struct {
	// Dir receives the log files. It is created on first use.
	Dir string
	// MaxSize is the byte cap of one file. A line at or over the cap gets a file of its own.
	MaxSize int64
	// MaxFiles is the number of files kept in Dir after each rotation.
	MaxFiles int
	// Compress gzips a file once it has been rotated out.
	Compress bool
	// SyncOnWrite fsyncs after every line.
	SyncOnWrite bool
}

// RotatingFileSink appends rendered lines to files named after the
// timestamp of the entry that opened them, rotating by size and pruning the
// directory down to MaxFiles.
type RotatingFileSink struct {
	cfg FileSinkConfig

	mu      sync.Mutex
	file    *os.File
	written int64
	closed  bool

	prune func(dir string, keep int) error
}

// NewRotatingFileSink returns a sink writing under cfg.Dir. Zero fields take
// the package defaults. No file is opened until the first Write.
func NewRotatingFileSink(cfg FileSinkConfig) *RotatingFileSink {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxFileSize
	}
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = DefaultMaxFiles
	}
	if cfg.Dir == emptyString {
		cfg.Dir = DefaultRelLogFileDir
	}
	return &RotatingFileSink{cfg: cfg, prune: pruneDir}
}

func (f *RotatingFileSink) Name() string { return "file" }

// Dir returns the directory the sink writes to.
func (f *RotatingFileSink) Dir() string { return f.cfg.Dir }

// Write appends the rendered entry, rotating first when the line would push
// the file past MaxSize.
func (f *RotatingFileSink) Write(e Entry) error {
	const op smerrors.Op = "logging.RotatingFileSink.Write"
	line := []byte(e.String() + "\n")
	size := int64(len(line))

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrSinkClosed
	}

	var cleanupErr error
	if f.file == nil || size >= f.cfg.MaxSize || f.written+size > f.cfg.MaxSize {
		msg := "rotate log file"
		if f.file == nil {
			msg = "open log file"
		}
		cleanup, err := f.rotate(e.Time)
		if err != nil {
			return smerrors.New(op).Err(err).Msg(msg)
		}
		cleanupErr = cleanup
	}

	n, err := f.file.Write(line)
	f.written += int64(n)
	if err != nil {
		return smerrors.New(op).Err(err).Msg("write log file")
	}
	if f.cfg.SyncOnWrite {
		if err := f.file.Sync(); err != nil {
			return smerrors.New(op).Err(err).Msg("sync log file")
		}
	}
	// The line is on disk; housekeeping failures are reported after the fact.
	if cleanupErr != nil {
		return smerrors.New(op).Err(cleanupErr).Msg("clean up log files")
	}
	return nil
}

// rotate closes the current file, if any, and opens a new one. err is set
// only when no new file could be opened. cleanup reports failures to close
// or compress the old file and to apply retention; the new file is usable
// regardless.
func (f *RotatingFileSink) rotate(t time.Time) (cleanup error, err error) {
	var prev string
	var errs []error
	if f.file != nil {
		prev = f.file.Name()
		if err := f.closeFile(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := f.open(t); err != nil {
		return nil, errors.Join(append(errs, err)...)
	}
	if prev != emptyString && f.cfg.Compress {
		if err := compressFile(prev); err != nil {
			errs = append(errs, err)
		}
	}
	if err := f.prune(f.cfg.Dir, f.cfg.MaxFiles); err != nil {
		errs = append(errs, fmt.Errorf("apply retention: %w", err))
	}
	return errors.Join(errs...), nil
}

func (f *RotatingFileSink) open(t time.Time) error {
	if err := os.MkdirAll(f.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	base := logFileBase(t)
	var file *os.File
	for i := 0; ; i++ {
		name := base
		if i > 0 {
			name += "-" + strconv.Itoa(i)
		}
		path := filepath.Join(f.cfg.Dir, name+logFileExt)
		var err error
		file, err = os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return err
		}
	}

	f.file = file
	f.written = 0
	return nil
}

func (f *RotatingFileSink) closeFile() error {
	file := f.file
	f.file = nil
	f.written = 0
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// Release syncs and closes the open file. Later writes fail with ErrSinkClosed.
func (f *RotatingFileSink) Release() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true
	if f.file == nil {
		return nil
	}
	return f.closeFile()
}

// CurrentFile returns the path of the open file, or "" when none is open.
func (f *RotatingFileSink) CurrentFile() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		return emptyString
	}
	return f.file.Name()
}

func logFileBase(t time.Time) string {
	return fmt.Sprintf("%s-%03d", t.Format(fileTimeLayout), t.Nanosecond()/int(time.Millisecond))
}

// PruneDir removes all but the keep most recently modified regular files in
// dir. A non-positive keep means DefaultMaxFiles.
func PruneDir(dir string, keep int) error {
	const op smerrors.Op = "logging.PruneDir"
	if keep <= 0 {
		keep = DefaultMaxFiles
	}
	if err := pruneDir(dir, keep); err != nil {
		return smerrors.New(op).Err(err).Msg("prune log dir")
	}
	return nil
}

// pruneDir keeps the keep most recently modified regular files in dir and
// removes the rest.
func pruneDir(dir string, keep int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	type logFile struct {
		path    string
		modTime time.Time
	}
	files := make([]logFile, 0, len(entries))
	for _, de := range entries {
		if !de.Type().IsRegular() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			// removed concurrently
			continue
		}
		files = append(files, logFile{path: filepath.Join(dir, de.Name()), modTime: info.ModTime()})
	}
	if len(files) <= keep {
		return nil
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].modTime.Equal(files[j].modTime) {
			return files[i].path > files[j].path
		}
		return files[i].modTime.After(files[j].modTime)
	})

	var errs []error
	for _, lf := range files[keep:] {
		if err := os.Remove(lf.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// compressFile replaces path with path.gz.
func compressFile(path string) (err error) {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}

	dst, err := os.OpenFile(path+gzipExt, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(path + gzipExt)
		}
	}()

	zw := gzip.NewWriter(dst)
	zw.Name = filepath.Base(path)
	zw.ModTime = info.ModTime()
	if _, err = io.Copy(zw, src); err != nil {
		_ = dst.Close()
		return err
	}
	if err = zw.Close(); err != nil {
		_ = dst.Close()
		return err
	}
	if err = dst.Close(); err != nil {
		return err
	}
	// keep the rotated file's position in the retention order
	if err = os.Chtimes(path+gzipExt, info.ModTime(), info.ModTime()); err != nil {
		return err
	}
	_ = src.Close()
	return os.Remove(path)
}
