package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/chessbridge/internal/errors"
	"github.com/Iron-Ham/chessbridge/internal/logging"
)

// ErrDeviceLocked is returned when another live process holds the lock for
// the same board device.
var ErrDeviceLocked = errors.New("board device is in use by another bridge")

// Lock records which process is reading a board device. Two bridges on one
// serial link would each see half the records.
type Lock struct {
	RunID     string    `json:"run_id"`
	Device    string    `json:"device"`
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	StartedAt time.Time `json:"started_at"`

	fs       afero.Fs
	lockFile string
	logger   *logging.Logger
}

// LockPath returns the lock file used for device inside dir.
// "/dev/rfcomm0" maps to "dev_rfcomm0.lock".
func LockPath(dir, device string) string {
	name := strings.Trim(filepath.ToSlash(filepath.Clean(device)), "/")
	name = strings.NewReplacer("/", "_", ":", "_", " ", "_").Replace(name)
	if name == "" || name == "." {
		name = "stdin"
	}
	return filepath.Join(dir, name+".lock")
}

// AcquireLock takes the lock for device in dir. A lock left behind by a dead
// process is removed and replaced. logger may be nil.
func AcquireLock(fs afero.Fs, dir, device, runID string, logger *logging.Logger) (*Lock, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock dir: %w", err)
	}
	lockPath := LockPath(dir, device)

	if existing, err := ReadLock(fs, lockPath); err == nil {
		if isProcessAlive(existing.PID) {
			if logger != nil {
				logger.Error("failed to acquire device lock",
					"device", device,
					"holder_pid", existing.PID,
					"holder_run", existing.RunID,
				)
			}
			return nil, fmt.Errorf("%w: PID %d on %s", ErrDeviceLocked, existing.PID, existing.Hostname)
		}
		if err := fs.Remove(lockPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lock: %w", err)
		}
		if logger != nil {
			logger.Warn("stale device lock cleaned", "device", device, "old_pid", existing.PID)
		}
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	lock := &Lock{
		RunID:     runID,
		Device:    device,
		PID:       os.Getpid(),
		Hostname:  hostname,
		StartedAt: time.Now(),
		fs:        fs,
		lockFile:  lockPath,
		logger:    logger,
	}

	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lock: %w", err)
	}

	// O_EXCL loses cleanly to a bridge that started at the same moment.
	f, err := fs.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			if existing, readErr := ReadLock(fs, lockPath); readErr == nil {
				return nil, fmt.Errorf("%w: PID %d on %s", ErrDeviceLocked, existing.PID, existing.Hostname)
			}
			return nil, ErrDeviceLocked
		}
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(data); err != nil {
		_ = fs.Remove(lockPath)
		return nil, fmt.Errorf("failed to write lock file: %w", err)
	}

	if logger != nil {
		logger.Info("device lock acquired", "device", device, "pid", lock.PID)
	}
	return lock, nil
}

// Release removes the lock file if this process still owns it.
// Safe to call multiple times.
func (l *Lock) Release() error {
	if l == nil || l.lockFile == "" {
		return nil
	}

	existing, err := ReadLock(l.fs, l.lockFile)
	if err != nil {
		return nil
	}
	if existing.PID != l.PID || existing.RunID != l.RunID {
		return nil
	}

	if err := l.fs.Remove(l.lockFile); err != nil {
		return err
	}
	if l.logger != nil {
		l.logger.Info("device lock released", "device", l.Device)
	}
	return nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.lockFile
}

// ReadLock reads a lock file.
func ReadLock(fs afero.Fs, lockPath string) (*Lock, error) {
	data, err := afero.ReadFile(fs, lockPath)
	if err != nil {
		return nil, err
	}

	var lock Lock
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("failed to parse lock file: %w", err)
	}
	lock.fs = fs
	lock.lockFile = lockPath
	return &lock, nil
}

// IsLocked reports whether a live process holds the lock for device.
func IsLocked(fs afero.Fs, dir, device string) (*Lock, bool) {
	lock, err := ReadLock(fs, LockPath(dir, device))
	if err != nil {
		return nil, false
	}
	return lock, isProcessAlive(lock.PID)
}

// isProcessAlive sends signal 0, which checks existence without delivering anything.
func isProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
