// Package testutil provides testing utilities for chessbridge tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Iron-Ham/chessbridge/internal/board"
)

// Square parses a square name, failing the test if it is invalid.
func Square(t *testing.T, name string) board.Square {
	t.Helper()

	sq, err := board.ParseSquare(name)
	if err != nil {
		t.Fatalf("invalid square %q: %v", name, err)
	}
	return sq
}

// Board returns a snapshot with exactly the named squares occupied.
func Board(t *testing.T, squares ...string) board.Snapshot {
	t.Helper()

	var s board.Snapshot
	for _, name := range squares {
		s = s.Set(Square(t, name), true)
	}
	return s
}

// Move returns s with a piece moved from one square to another. The
// destination keeps its piece if it had one, as on a capture.
func Move(t *testing.T, s board.Snapshot, from, to string) board.Snapshot {
	t.Helper()

	return s.Set(Square(t, from), false).Set(Square(t, to), true)
}

// Lift returns s with the named squares cleared.
func Lift(t *testing.T, s board.Snapshot, squares ...string) board.Snapshot {
	t.Helper()

	for _, name := range squares {
		s = s.Set(Square(t, name), false)
	}
	return s
}

// Records renders each snapshot n times as wire records, one per line, the
// way the board repeats a position while nothing moves.
func Records(n int, snapshots ...board.Snapshot) string {
	var b strings.Builder
	for _, s := range snapshots {
		for i := 0; i < n; i++ {
			b.WriteString(s.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// WriteCapture writes content to a new file in a temp dir and returns its
// path.
func WriteCapture(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "capture.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write capture: %v", err)
	}
	return path
}

// ReadFile returns the contents of path, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// SkipIfNoGolangciLint skips the test if golangci-lint is not installed.
func SkipIfNoGolangciLint(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("golangci-lint"); err != nil {
		t.Skip("golangci-lint not found in PATH, skipping test")
	}
}
