package event

import (
	"time"

	"github.com/Iron-Ham/chessbridge/internal/board"
)

// Event type names, following the "category.action" convention.
const (
	TypeBoardBaseline   = "board.baseline"
	TypeBoardChanged    = "board.changed"
	TypeMoveAccepted    = "move.accepted"
	TypeMoveRejected    = "move.rejected"
	TypeLiftChanged     = "lift.changed"
	TypeInputDropped    = "input.dropped"
	TypeSnapshotDropped = "snapshot.dropped"
	TypeSinkFailed      = "sink.failed"
)

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Board Events
// -----------------------------------------------------------------------------

// BoardBaselineEvent is emitted when the first stable state of a session is
// recorded as the comparison baseline.
type BoardBaselineEvent struct {
	baseEvent
	Board board.Snapshot
}

// NewBoardBaselineEvent creates a BoardBaselineEvent.
func NewBoardBaselineEvent(b board.Snapshot) BoardBaselineEvent {
	return BoardBaselineEvent{
		baseEvent: newBaseEvent(TypeBoardBaseline),
		Board:     b,
	}
}

// BoardChangedEvent is emitted when the debounced board settles on a state
// different from the last one it settled on.
type BoardChangedEvent struct {
	baseEvent
	Board board.Snapshot
}

// NewBoardChangedEvent creates a BoardChangedEvent.
func NewBoardChangedEvent(b board.Snapshot) BoardChangedEvent {
	return BoardChangedEvent{
		baseEvent: newBaseEvent(TypeBoardChanged),
		Board:     b,
	}
}

// -----------------------------------------------------------------------------
// Move Events
// -----------------------------------------------------------------------------

// MoveAcceptedEvent is emitted after a move has been delivered to the sinks.
type MoveAcceptedEvent struct {
	baseEvent
	Notation string       // e.g. "e2e4", "O-O"
	Kind     string       // simple, capture, castle_kingside, castle_queenside
	From     board.Square // zero for castling
	To       board.Square // zero for castling
	Board    board.Snapshot
	Sequence int // 1-based count of accepted moves in this session
}

// NewMoveAcceptedEvent creates a MoveAcceptedEvent.
func NewMoveAcceptedEvent(notation, kind string, from, to board.Square, b board.Snapshot, seq int) MoveAcceptedEvent {
	return MoveAcceptedEvent{
		baseEvent: newBaseEvent(TypeMoveAccepted),
		Notation:  notation,
		Kind:      kind,
		From:      from,
		To:        to,
		Board:     b,
		Sequence:  seq,
	}
}

// MoveRejectedEvent is emitted when a stable change produced a diagnostic.
type MoveRejectedEvent struct {
	baseEvent
	Kind    string // errors.Kind name
	Message string // text sent to the board
	Board   board.Snapshot
}

// NewMoveRejectedEvent creates a MoveRejectedEvent.
func NewMoveRejectedEvent(kind, message string, b board.Snapshot) MoveRejectedEvent {
	return MoveRejectedEvent{
		baseEvent: newBaseEvent(TypeMoveRejected),
		Kind:      kind,
		Message:   message,
		Board:     b,
	}
}

// LiftChangedEvent is emitted on every pending-lift transition.
type LiftChangedEvent struct {
	baseEvent
	Transition string // recorded, resolved, expired, reset
	Square     board.Square
	Deadline   time.Time
}

// NewLiftChangedEvent creates a LiftChangedEvent.
func NewLiftChangedEvent(transition string, square board.Square, deadline time.Time) LiftChangedEvent {
	return LiftChangedEvent{
		baseEvent:  newBaseEvent(TypeLiftChanged),
		Transition: transition,
		Square:     square,
		Deadline:   deadline,
	}
}

// -----------------------------------------------------------------------------
// Pipeline Events
// -----------------------------------------------------------------------------

// InputDroppedEvent is emitted when a raw record fails the framing check.
type InputDroppedEvent struct {
	baseEvent
	Reason string
	Length int
}

// NewInputDroppedEvent creates an InputDroppedEvent.
func NewInputDroppedEvent(reason string, length int) InputDroppedEvent {
	return InputDroppedEvent{
		baseEvent: newBaseEvent(TypeInputDropped),
		Reason:    reason,
		Length:    length,
	}
}

// SnapshotDroppedEvent is emitted when a snapshot arrives while a
// classification is still running.
type SnapshotDroppedEvent struct {
	baseEvent
}

// NewSnapshotDroppedEvent creates a SnapshotDroppedEvent.
func NewSnapshotDroppedEvent() SnapshotDroppedEvent {
	return SnapshotDroppedEvent{baseEvent: newBaseEvent(TypeSnapshotDropped)}
}

// SinkFailedEvent is emitted when writing to an output sink fails.
type SinkFailedEvent struct {
	baseEvent
	Sink string
	Err  error
}

// NewSinkFailedEvent creates a SinkFailedEvent.
func NewSinkFailedEvent(sink string, err error) SinkFailedEvent {
	return SinkFailedEvent{
		baseEvent: newBaseEvent(TypeSinkFailed),
		Sink:      sink,
		Err:       err,
	}
}
