package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// RotationConfig holds configuration for log rotation.
type RotationConfig struct {
	// MaxSizeMB is the size in megabytes a log file may reach before it is
	// rotated. Zero disables rotation.
	MaxSizeMB int
	// MaxBackups is the number of rotated files to keep.
	MaxBackups int
	// Compress gzips rotated files.
	Compress bool
	// Fs is the filesystem the writer works on. Nil means the OS filesystem.
	Fs afero.Fs

	// maxBytes overrides MaxSizeMB in tests.
	maxBytes int64
}

// DefaultRotationConfig returns the rotation used when the config file does
// not override it.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		MaxSizeMB:  10,
		MaxBackups: 3,
	}
}

// RotatingWriter is an io.Writer over a log file that renames the file to
// path.1 (shifting older backups up) once it exceeds the configured size.
// It is safe for concurrent use.
type RotatingWriter struct {
	mu sync.Mutex

	fs         afero.Fs
	filePath   string
	maxSizeB   int64
	maxBackups int
	compress   bool

	file        afero.File
	currentSize int64
}

// NewRotatingWriter opens filePath for appending, creating its directory
// if needed.
func NewRotatingWriter(filePath string, config RotationConfig) (*RotatingWriter, error) {
	fs := config.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	maxSize := int64(config.MaxSizeMB) * 1024 * 1024
	if config.maxBytes > 0 {
		maxSize = config.maxBytes
	}

	rw := &RotatingWriter{
		fs:         fs,
		filePath:   filePath,
		maxSizeB:   maxSize,
		maxBackups: config.MaxBackups,
		compress:   config.Compress,
	}
	if err := rw.openFile(); err != nil {
		return nil, err
	}
	return rw, nil
}

// openFile opens the log file and records its size. The caller must hold
// the mutex.
func (rw *RotatingWriter) openFile() error {
	if err := rw.fs.MkdirAll(filepath.Dir(rw.filePath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := rw.fs.OpenFile(rw.filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	rw.file = file
	rw.currentSize = info.Size()
	return nil
}

// Write appends p to the log file, rotating first if p would push the file
// past the size limit. A failed rotation is reported on stderr and the
// write goes to the current file.
func (rw *RotatingWriter) Write(p []byte) (n int, err error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file == nil {
		return 0, fmt.Errorf("log file is closed")
	}

	if rw.maxSizeB > 0 && rw.currentSize > 0 && rw.currentSize+int64(len(p)) > rw.maxSizeB {
		if err := rw.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: log rotation failed: %v\n", err)
			if rw.file == nil {
				return 0, err
			}
		}
	}

	n, err = rw.file.Write(p)
	rw.currentSize += int64(n)
	return n, err
}

// rotate performs the log rotation. The caller must hold the mutex.
func (rw *RotatingWriter) rotate() error {
	if err := rw.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	if err := rw.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	rw.file = nil

	rw.rotateBackups()

	backup := rw.backupPath(1)
	if rw.maxBackups <= 0 {
		_ = rw.fs.Remove(rw.filePath)
		return rw.openFile()
	}
	if err := rw.fs.Rename(rw.filePath, backup); err != nil {
		if openErr := rw.openFile(); openErr != nil {
			return fmt.Errorf("failed to rename log file and reopen: %w", openErr)
		}
		return fmt.Errorf("failed to rename log file: %w", err)
	}

	if rw.compress {
		if err := rw.compressFile(backup); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	return rw.openFile()
}

// rotateBackups drops the oldest backup and shifts the rest up by one.
// Backups are numbered .1 (newest) to .N (oldest).
func (rw *RotatingWriter) rotateBackups() {
	if rw.maxBackups <= 0 {
		return
	}

	oldest := rw.backupPath(rw.maxBackups)
	_ = rw.fs.Remove(oldest)
	_ = rw.fs.Remove(oldest + ".gz")

	for i := rw.maxBackups - 1; i >= 1; i-- {
		from := rw.backupPath(i)
		to := rw.backupPath(i + 1)
		if ok, _ := afero.Exists(rw.fs, from+".gz"); ok {
			_ = rw.fs.Rename(from+".gz", to+".gz")
		} else if ok, _ := afero.Exists(rw.fs, from); ok {
			_ = rw.fs.Rename(from, to)
		}
	}
}

func (rw *RotatingWriter) backupPath(n int) string {
	return fmt.Sprintf("%s.%d", rw.filePath, n)
}

// compressFile replaces path with path.gz. The original is removed only
// after the compressed copy is complete.
func (rw *RotatingWriter) compressFile(path string) error {
	src, err := rw.fs.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s for compression: %w", path, err)
	}
	defer src.Close()

	gzPath := path + ".gz"
	dst, err := rw.fs.Create(gzPath)
	if err != nil {
		return fmt.Errorf("failed to create compressed log file %s: %w", gzPath, err)
	}

	gz := gzip.NewWriter(dst)
	if _, err := io.Copy(gz, src); err != nil {
		dst.Close()
		_ = rw.fs.Remove(gzPath)
		return fmt.Errorf("failed to write compressed log data to %s: %w", gzPath, err)
	}
	if err := gz.Close(); err != nil {
		dst.Close()
		_ = rw.fs.Remove(gzPath)
		return fmt.Errorf("failed to finalize compressed log file %s: %w", gzPath, err)
	}
	if err := dst.Close(); err != nil {
		_ = rw.fs.Remove(gzPath)
		return fmt.Errorf("failed to close compressed log file %s: %w", gzPath, err)
	}

	src.Close()
	return rw.fs.Remove(path)
}

// Sync flushes the log file.
func (rw *RotatingWriter) Sync() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file == nil {
		return nil
	}
	return rw.file.Sync()
}

// Close syncs and closes the log file. Further writes fail.
func (rw *RotatingWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file == nil {
		return nil
	}
	if err := rw.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	if err := rw.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	rw.file = nil
	return nil
}

// CurrentSize returns the current size of the log file in bytes.
func (rw *RotatingWriter) CurrentSize() int64 {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return rw.currentSize
}

// FilePath returns the path to the log file.
func (rw *RotatingWriter) FilePath() string {
	return rw.filePath
}
