package monitor

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/chessbridge/internal/board"
	"github.com/Iron-Ham/chessbridge/internal/config"
	"github.com/Iron-Ham/chessbridge/internal/event"
	"github.com/Iron-Ham/chessbridge/internal/inference"
)

// EventMsg carries a session event into the bubbletea loop.
type EventMsg struct {
	Event event.Event
}

// SessionEndedMsg reports that the input reader stopped. Err is nil on a
// clean end of input.
type SessionEndedMsg struct {
	Err error
}

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusOK
	statusWarn
	statusError
)

type counters struct {
	moves    int
	rejected int
	dropped  int
	busy     int
	sinkErrs int
}

// Model is the bubbletea model for the board monitor. It only reflects
// events; it never calls back into the session.
type Model struct {
	styles       Styles
	keys         keyMap
	help         help.Model
	source       string
	historyLimit int
	highlight    bool
	flipped      bool

	board    board.Snapshot
	hasBoard bool
	lastFrom board.Square
	lastTo   board.Square
	hasLast  bool
	lifted   *board.Square
	history  []string

	status      string
	statusLevel statusLevel
	counts      counters

	ended  bool
	endErr error
	width  int
	height int
}

// New creates a Model. source names the input shown while waiting for the
// first stable board.
func New(cfg config.MonitorConfig, source string) Model {
	return Model{
		styles:       NewStyles(cfg),
		keys:         defaultKeyMap(),
		help:         help.New(),
		source:       source,
		historyLimit: cfg.History,
		highlight:    cfg.HighlightEnabled,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case EventMsg:
		m.apply(msg.Event)
		return m, nil

	case SessionEndedMsg:
		m.ended = true
		m.endErr = msg.Err
		if msg.Err != nil {
			m.setStatus(statusError, "input failed: "+msg.Err.Error())
		} else {
			m.setStatus(statusInfo, "input closed")
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Flip):
		m.flipped = !m.flipped
	case key.Matches(msg, m.keys.Highlight):
		m.highlight = !m.highlight
	case key.Matches(msg, m.keys.Clear):
		m.history = nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) apply(e event.Event) {
	switch e := e.(type) {
	case event.BoardBaselineEvent:
		m.board = e.Board
		m.hasBoard = true
		m.setStatus(statusOK, fmt.Sprintf("baseline recorded, %d pieces", e.Board.Count()))

	case event.BoardChangedEvent:
		m.board = e.Board
		m.hasBoard = true

	case event.MoveAcceptedEvent:
		m.board = e.Board
		m.hasBoard = true
		m.lifted = nil
		m.counts.moves++
		// Castling carries no squares.
		m.hasLast = e.Kind == inference.MoveSimple.String() || e.Kind == inference.MoveCapture.String()
		m.lastFrom, m.lastTo = e.From, e.To
		m.pushHistory(fmt.Sprintf("%d. %s", e.Sequence, e.Notation))
		m.setStatus(statusOK, "move "+e.Notation)

	case event.MoveRejectedEvent:
		m.counts.rejected++
		m.setStatus(statusError, e.Message)

	case event.LiftChangedEvent:
		switch inference.LiftTransition(e.Transition) {
		case inference.LiftRecorded:
			sq := e.Square
			m.lifted = &sq
			m.setStatus(statusWarn, "lifted "+sq.String())
		case inference.LiftExpired:
			m.lifted = nil
			m.setStatus(statusWarn, "lift from "+e.Square.String()+" expired")
		default:
			m.lifted = nil
		}

	case event.InputDroppedEvent:
		m.counts.dropped++

	case event.SnapshotDroppedEvent:
		m.counts.busy++

	case event.SinkFailedEvent:
		m.counts.sinkErrs++
		msg := e.Sink + " sink failed"
		if e.Err != nil {
			msg += ": " + e.Err.Error()
		}
		m.setStatus(statusError, msg)
	}
}

func (m *Model) pushHistory(entry string) {
	if m.historyLimit <= 0 {
		return
	}
	m.history = append(m.history, entry)
	if over := len(m.history) - m.historyLimit; over > 0 {
		m.history = append([]string(nil), m.history[over:]...)
	}
}

func (m *Model) setStatus(level statusLevel, text string) {
	m.statusLevel = level
	m.status = text
}
