package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/chessbridge/internal/errors"
)

func TestLockPath(t *testing.T) {
	tests := []struct {
		device string
		want   string
	}{
		{"/dev/rfcomm0", "dev_rfcomm0.lock"},
		{"/dev/serial/by-id/usb-arduino", "dev_serial_by-id_usb-arduino.lock"},
		{"capture.txt", "capture.txt.lock"},
		{"", "stdin.lock"},
	}
	for _, tt := range tests {
		got := LockPath("/run/chessbridge", tt.device)
		if want := filepath.Join("/run/chessbridge", tt.want); got != want {
			t.Errorf("LockPath(%q) = %q, want %q", tt.device, got, want)
		}
	}
}

func TestAcquireLock(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/locks"

	lock, err := AcquireLock(fs, dir, "/dev/rfcomm0", "run-1", nil)
	if err != nil {
		t.Fatalf("AcquireLock() error = %v", err)
	}
	if lock.PID != os.Getpid() {
		t.Errorf("PID = %d, want %d", lock.PID, os.Getpid())
	}
	if lock.Path() != LockPath(dir, "/dev/rfcomm0") {
		t.Errorf("Path() = %q", lock.Path())
	}

	stored, err := ReadLock(fs, lock.Path())
	if err != nil {
		t.Fatalf("ReadLock() error = %v", err)
	}
	if stored.RunID != "run-1" || stored.Device != "/dev/rfcomm0" {
		t.Errorf("stored lock = %+v", stored)
	}

	if _, locked := IsLocked(fs, dir, "/dev/rfcomm0"); !locked {
		t.Error("IsLocked() = false, want true while held")
	}

	t.Run("second acquire fails while held", func(t *testing.T) {
		_, err := AcquireLock(fs, dir, "/dev/rfcomm0", "run-2", nil)
		if !errors.Is(err, ErrDeviceLocked) {
			t.Errorf("error = %v, want ErrDeviceLocked", err)
		}
	})

	t.Run("other device is independent", func(t *testing.T) {
		other, err := AcquireLock(fs, dir, "/dev/ttyACM0", "run-2", nil)
		if err != nil {
			t.Fatalf("AcquireLock() error = %v", err)
		}
		_ = other.Release()
	})

	if err := lock.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if exists, _ := afero.Exists(fs, lock.Path()); exists {
		t.Error("lock file still present after Release()")
	}
	if err := lock.Release(); err != nil {
		t.Errorf("second Release() error = %v", err)
	}
}

func TestAcquireLock_ReplacesStaleLock(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/locks"
	path := LockPath(dir, "/dev/rfcomm0")

	// PIDs are positive, so -1 never names a live process.
	stale, _ := json.Marshal(Lock{RunID: "old", Device: "/dev/rfcomm0", PID: -1, Hostname: "board"})
	if err := afero.WriteFile(fs, path, stale, 0644); err != nil {
		t.Fatal(err)
	}

	if _, locked := IsLocked(fs, dir, "/dev/rfcomm0"); locked {
		t.Error("IsLocked() = true for a dead holder")
	}

	lock, err := AcquireLock(fs, dir, "/dev/rfcomm0", "new", nil)
	if err != nil {
		t.Fatalf("AcquireLock() error = %v", err)
	}
	if lock.RunID != "new" {
		t.Errorf("RunID = %q, want new", lock.RunID)
	}
}

func TestRelease_LeavesForeignLock(t *testing.T) {
	fs := afero.NewMemMapFs()
	lock, err := AcquireLock(fs, "/locks", "/dev/rfcomm0", "mine", nil)
	if err != nil {
		t.Fatal(err)
	}

	// Another run replaced the file after ours was judged stale.
	foreign, _ := json.Marshal(Lock{RunID: "theirs", PID: lock.PID})
	if err := afero.WriteFile(fs, lock.Path(), foreign, 0644); err != nil {
		t.Fatal(err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if exists, _ := afero.Exists(fs, lock.Path()); !exists {
		t.Error("Release() removed a lock owned by another run")
	}
}

func TestReadLock_Corrupt(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/locks/x.lock", []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadLock(fs, "/locks/x.lock"); err == nil {
		t.Error("ReadLock() should fail on corrupt data")
	}
}
