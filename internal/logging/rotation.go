package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// RotationConfig controls size-based rotation of the log file.
type RotationConfig struct {
	// MaxSizeMB triggers a rotation once the file would grow past it.
	// Zero disables rotation.
	MaxSizeMB int
	// MaxBackups is how many rotated files survive; older ones are removed.
	MaxBackups int
	// Compress gzips each backup as it is rotated out.
	Compress bool
}

// DefaultRotationConfig is the rotation used when configuration says nothing.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{MaxSizeMB: 10, MaxBackups: 3}
}

// RotatingWriter appends to a file and rotates it by size. Backups are
// {path}.1 (newest) to {path}.N, each optionally gzipped to {path}.N.gz.
type RotatingWriter struct {
	path string
	cfg  RotationConfig

	mu   sync.Mutex
	f    *os.File
	size int64
}

// NewRotatingWriter creates missing parent directories and opens path for
// appending.
func NewRotatingWriter(path string, cfg RotationConfig) (*RotatingWriter, error) {
	rw := &RotatingWriter{path: path, cfg: cfg}
	if err := rw.open(); err != nil {
		return nil, err
	}
	return rw, nil
}

func (rw *RotatingWriter) open() error {
	if err := os.MkdirAll(filepath.Dir(rw.path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(rw.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	rw.f, rw.size = f, st.Size()
	return nil
}

func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.f == nil {
		return 0, fmt.Errorf("log file is closed")
	}
	if limit := int64(rw.cfg.MaxSizeMB) << 20; limit > 0 && rw.size > 0 && rw.size+int64(len(p)) > limit {
		// On failure keep appending to whatever file is open.
		_ = rw.rotate()
		if rw.f == nil {
			return 0, fmt.Errorf("log file could not be reopened")
		}
	}

	n, err := rw.f.Write(p)
	rw.size += int64(n)
	return n, err
}

// rotate runs with mu held.
func (rw *RotatingWriter) rotate() error {
	if err := rw.f.Close(); err != nil {
		return err
	}
	rw.f = nil

	keep := max(rw.cfg.MaxBackups, 1)
	removeBackup(rw.backup(keep))
	for n := keep - 1; n >= 1; n-- {
		moveBackup(rw.backup(n), rw.backup(n+1))
	}

	first := rw.backup(1)
	renameErr := os.Rename(rw.path, first)
	if renameErr == nil && rw.cfg.Compress {
		// A failed compression leaves the plain backup in place.
		_ = gzipFile(first)
	}
	if err := rw.open(); err != nil {
		return err
	}
	return renameErr
}

func (rw *RotatingWriter) backup(n int) string {
	return fmt.Sprintf("%s.%d", rw.path, n)
}

func removeBackup(name string) {
	_ = os.Remove(name)
	_ = os.Remove(name + ".gz")
}

func moveBackup(from, to string) {
	if err := os.Rename(from+".gz", to+".gz"); err == nil {
		return
	}
	_ = os.Rename(from, to)
}

func gzipFile(name string) (err error) {
	src, err := os.Open(name)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(name + ".gz")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(name + ".gz")
		}
	}()

	zw := gzip.NewWriter(dst)
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
	return os.Remove(name)
}

// Close syncs and closes the file. Calling it twice is harmless.
func (rw *RotatingWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.f == nil {
		return nil
	}
	f := rw.f
	rw.f = nil
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	return f.Close()
}
