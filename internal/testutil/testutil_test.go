package testutil

import (
	"strings"
	"testing"

	"github.com/Iron-Ham/chessbridge/internal/board"
)

func TestBoardAndMove(t *testing.T) {
	s := Board(t, "e2", "g1")
	if s.Count() != 2 || !s.At(6, 4) || !s.At(7, 6) {
		t.Fatalf("Board() = %s", s)
	}

	s = Move(t, s, "e2", "e4")
	if s.At(6, 4) || !s.At(4, 4) {
		t.Errorf("Move() did not move e2 to e4")
	}

	s = Lift(t, s, "e4", "g1")
	if !s.IsEmpty() {
		t.Errorf("Lift() left %d pieces", s.Count())
	}
}

func TestRecords(t *testing.T) {
	got := Records(2, board.Empty, board.StartingPosition())
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Records() produced %d lines, want 4", len(lines))
	}
	if lines[0] != strings.Repeat("0", board.Cells) || lines[3] != board.StartingPosition().String() {
		t.Errorf("Records() = %q", got)
	}
}

func TestWriteCapture(t *testing.T) {
	path := WriteCapture(t, "abc\n")
	if got := ReadFile(t, path); got != "abc\n" {
		t.Errorf("ReadFile() = %q", got)
	}
}
