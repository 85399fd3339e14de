package logging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	filePrefix         = "drugs-eda-"
	fileSuffix         = ".log"
	defaultMaxFileSize = 100 * 1024 * 1024
	cleanupInterval    = 24 * time.Hour
)

var partPattern = regexp.MustCompile(`_(\d{2})\.log$`)

// RotatingLogger is an io.Writer over one log file per ISO week. A week's file is
// split into numbered parts once it reaches maxFileSize. Files older than the
// retention period are removed by a background job.
type RotatingLogger struct {
	dir         string
	retention   time.Duration
	maxFileSize int64

	mu   sync.Mutex
	file *os.File
	week string
	size int64

	cancel context.CancelFunc
	done   chan struct{}
}

// NewRotatingLogger returns a logger writing into dir with the default size limit
func NewRotatingLogger(dir string, retentionWeeks int) *RotatingLogger {
	return NewRotatingLoggerWithSizeLimit(dir, retentionWeeks, defaultMaxFileSize)
}

// NewRotatingLoggerWithSizeLimit returns a logger writing into dir. A zero
// maxFileSize disables size rotation.
func NewRotatingLoggerWithSizeLimit(dir string, retentionWeeks int, maxFileSize int64) *RotatingLogger {
	return &RotatingLogger{
		dir:         dir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
	}
}

// weekKey returns the ISO week of t as YYYY-Www
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (rl *RotatingLogger) baseName(week string) string {
	return filePrefix + week + fileSuffix
}

func (rl *RotatingLogger) partName(week string, part int) string {
	return fmt.Sprintf("%s%s_%02d%s", filePrefix, week, part, fileSuffix)
}

// full reports whether a file of the given size cannot take more writes
func (rl *RotatingLogger) full(size int64) bool {
	return rl.maxFileSize > 0 && size >= rl.maxFileSize
}

// pick chooses the file to append to for week. forceNew skips every existing file.
func (rl *RotatingLogger) pick(week string, forceNew bool) string {
	if !forceNew {
		info, err := os.Stat(filepath.Join(rl.dir, rl.baseName(week)))
		if err != nil || !rl.full(info.Size()) {
			return rl.baseName(week)
		}
	}

	last, lastSize := 0, int64(0)
	matches, _ := filepath.Glob(filepath.Join(rl.dir, filePrefix+week+"_??"+fileSuffix))
	for _, m := range matches {
		sub := partPattern.FindStringSubmatch(m)
		if len(sub) < 2 {
			continue
		}
		n, _ := strconv.Atoi(sub[1])
		if n <= last {
			continue
		}
		last, lastSize = n, 0
		if info, err := os.Stat(m); err == nil {
			lastSize = info.Size()
		}
	}

	if last > 0 && !forceNew && !rl.full(lastSize) {
		return rl.partName(week, last)
	}
	return rl.partName(week, last+1)
}

// rotate opens the file for week. Callers hold mu.
func (rl *RotatingLogger) rotate(week string, forceNew bool) error {
	if rl.file != nil {
		_ = rl.file.Close()
		rl.file = nil
	}

	path := filepath.Join(rl.dir, rl.pick(week, forceNew))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	rl.file = f
	rl.week = week
	rl.size = 0
	if info, err := f.Stat(); err == nil {
		rl.size = info.Size()
	}
	return nil
}

// Open creates the log directory, opens the current file and starts the retention job
func (rl *RotatingLogger) Open() error {
	if err := os.MkdirAll(rl.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", rl.dir, err)
	}

	rl.mu.Lock()
	err := rl.rotate(weekKey(time.Now()), false)
	rl.mu.Unlock()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	rl.cancel = cancel
	rl.done = make(chan struct{})
	go rl.cleanupLoop(ctx)
	return nil
}

func (rl *RotatingLogger) cleanupLoop(ctx context.Context) {
	defer close(rl.done)
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := rl.cleanup(time.Now()); err != nil {
				fmt.Fprintf(os.Stderr, "log cleanup failed: %v\n", err)
			}
		}
	}
}

// Write appends p to the current file, rotating on a week change or when p would
// overflow the size limit
func (rl *RotatingLogger) Write(p []byte) (int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	week := weekKey(time.Now())
	switch {
	case rl.file == nil || rl.week != week:
		if err := rl.rotate(week, false); err != nil {
			return 0, err
		}
	case rl.maxFileSize > 0 && rl.size > 0 && rl.size+int64(len(p)) > rl.maxFileSize:
		if err := rl.rotate(week, true); err != nil {
			return 0, err
		}
	}

	n, err := rl.file.Write(p)
	rl.size += int64(n)
	return n, err
}

// cleanup removes log files last modified before now minus the retention period
func (rl *RotatingLogger) cleanup(now time.Time) (int, error) {
	entries, err := os.ReadDir(rl.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := now.Add(-rl.retention)
	removed := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(rl.dir, name)); err == nil {
			removed++
		}
	}
	return removed, nil
}

// Close stops the retention job and closes the current file
func (rl *RotatingLogger) Close() error {
	if rl.cancel != nil {
		rl.cancel()
		<-rl.done
		rl.cancel = nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.file == nil {
		return nil
	}
	err := rl.file.Close()
	rl.file = nil
	return err
}
