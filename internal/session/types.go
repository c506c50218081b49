package session

import (
	"time"

	"github.com/Iron-Ham/chessbridge/internal/board"
	"github.com/Iron-Ham/chessbridge/internal/config"
	"github.com/Iron-Ham/chessbridge/internal/debounce"
	"github.com/Iron-Ham/chessbridge/internal/inference"
)

// MoveSink receives accepted moves for the downstream consumer.
type MoveSink interface {
	// WriteMove delivers one move in notation ("e2e4", "O-O").
	WriteMove(notation string) error
}

// HardwareSink receives acknowledgements and diagnostics for the board.
type HardwareSink interface {
	// Acknowledge confirms an accepted move.
	Acknowledge(notation string) error

	// Report sends a diagnostic message.
	Report(message string) error
}

// Settings are the controller's tunables.
type Settings struct {
	WindowSize         int
	StabilityThreshold int
	LiftTimeout        time.Duration
	// SuppressRepeats sends a diagnostic to the board once per stable state
	// rather than on every re-certification of that state.
	SuppressRepeats bool
}

// DefaultSettings returns the board firmware's tuning: K=5, T=3, 2s.
func DefaultSettings() Settings {
	return Settings{
		WindowSize:         debounce.DefaultWindowSize,
		StabilityThreshold: debounce.DefaultThreshold,
		LiftTimeout:        inference.DefaultLiftTimeout,
		SuppressRepeats:    false,
	}
}

// SettingsFrom extracts the controller settings from the loaded config.
func SettingsFrom(cfg *config.Config) Settings {
	return Settings{
		WindowSize:         cfg.Board.WindowSize,
		StabilityThreshold: cfg.Board.StabilityThreshold,
		LiftTimeout:        cfg.Board.LiftTimeout,
		SuppressRepeats:    cfg.Session.SuppressRepeats,
	}
}

// Stats counts what the controller has seen since it was created.
type Stats struct {
	Records     int // lines handed to HandleLine
	Framing     int // records rejected by the framing check
	Dropped     int // snapshots discarded while busy
	Stable      int // stable states certified by the debouncer
	Moves       int // moves delivered
	Diagnostics int // diagnostics sent to the board
	Suppressed  int // repeated diagnostics not sent
	SinkErrors  int // failed sink writes
}

// Status is a copy of the controller's state.
type Status struct {
	Baseline    *board.Snapshot
	PendingLift *inference.PendingLift
	Busy        bool
	Counter     int
	WindowFill  int
	LastMove    inference.Move
	Stats       Stats
}
