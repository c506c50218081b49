package inference

import (
	"time"

	"github.com/Iron-Ham/chessbridge/internal/board"
	"github.com/Iron-Ham/chessbridge/internal/errors"
)

// MoveKind tags the shape of an inferred move.
type MoveKind int

const (
	MoveNone MoveKind = iota
	MoveSimple
	MoveCapture
	MoveCastleKingside
	MoveCastleQueenside
)

// String returns the kind name used in logs and events.
func (k MoveKind) String() string {
	switch k {
	case MoveSimple:
		return "simple"
	case MoveCapture:
		return "capture"
	case MoveCastleKingside:
		return "castle_kingside"
	case MoveCastleQueenside:
		return "castle_queenside"
	default:
		return "none"
	}
}

// Move is an inferred move. From and To are meaningful for simple moves and
// captures only. The zero value means no move.
type Move struct {
	Kind MoveKind
	From board.Square
	To   board.Square
}

// IsNone reports whether the move is absent.
func (m Move) IsNone() bool {
	return m.Kind == MoveNone
}

// Notation renders the move for the downstream consumer: "e2e4" for simple
// moves and captures, "O-O" and "O-O-O" for castling, "" for no move.
func (m Move) Notation() string {
	switch m.Kind {
	case MoveSimple, MoveCapture:
		return m.From.String() + m.To.String()
	case MoveCastleKingside:
		return "O-O"
	case MoveCastleQueenside:
		return "O-O-O"
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (m Move) String() string {
	if m.IsNone() {
		return "none"
	}
	return m.Notation()
}

// PendingLift is a stable state recorded when exactly one piece left the
// board, waiting for the matching placement.
type PendingLift struct {
	State    board.Snapshot
	Square   board.Square
	Deadline time.Time
}

// Expired reports whether the lift's deadline has passed at now.
func (p PendingLift) Expired(now time.Time) bool {
	return now.After(p.Deadline)
}

// State is the session context the engine classifies against.
// PreviousStable is the last state a move was accepted on (or the bootstrap
// baseline); PendingLift is the in-flight lift, if any. Busy is the
// controller's reentrancy guard and is never touched by the engine.
type State struct {
	PreviousStable *board.Snapshot
	PendingLift    *PendingLift
	Busy           bool
}

// Baseline returns the state new snapshots are compared against: the pending
// lift if there is one, otherwise the previous stable state.
func (s *State) Baseline() (board.Snapshot, bool) {
	if s.PendingLift != nil {
		return s.PendingLift.State, true
	}
	if s.PreviousStable != nil {
		return *s.PreviousStable, true
	}
	return board.Snapshot{}, false
}

// Validate checks a candidate move's squares before it is emitted.
func Validate(from, to board.Square) error {
	if !from.InBounds() || !to.InBounds() {
		return errors.NewOutOfBounds(from.String(), to.String())
	}
	if from == to {
		return errors.NewNullMove(from.String())
	}
	return nil
}
