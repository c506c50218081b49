package monitor

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/chessbridge/internal/board"
	"github.com/Iron-Ham/chessbridge/internal/config"
	"github.com/Iron-Ham/chessbridge/internal/event"
)

func mustSquare(t *testing.T, name string) board.Square {
	t.Helper()
	sq, err := board.ParseSquare(name)
	if err != nil {
		t.Fatal(err)
	}
	return sq
}

func newTestModel() Model {
	return New(config.Default().Monitor, "/dev/rfcomm0")
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	var model tea.Model = m
	for _, msg := range msgs {
		model, _ = model.Update(msg)
	}
	out, ok := model.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", model)
	}
	return out
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func plain(m Model) string {
	return ansi.Strip(m.View())
}

func TestModel_Waiting(t *testing.T) {
	view := plain(newTestModel())
	if !strings.Contains(view, "waiting for a stable board on /dev/rfcomm0") {
		t.Errorf("view missing waiting message:\n%s", view)
	}
	if strings.Contains(view, pieceGlyph) {
		t.Error("board rendered before any stable state")
	}
}

func TestModel_Baseline(t *testing.T) {
	start := board.StartingPosition()
	m := send(t, newTestModel(), EventMsg{Event: event.NewBoardBaselineEvent(start)})

	view := plain(m)
	if got := strings.Count(view, pieceGlyph); got != 32 {
		t.Errorf("rendered %d pieces, want 32", got)
	}
	if !strings.Contains(view, "baseline recorded, 32 pieces") {
		t.Errorf("view missing baseline status:\n%s", view)
	}
	if !strings.Contains(view, "a  b  c  d  e  f  g  h") {
		t.Errorf("view missing file labels:\n%s", view)
	}
}

func TestModel_MoveAccepted(t *testing.T) {
	start := board.StartingPosition()
	e2, e4 := mustSquare(t, "e2"), mustSquare(t, "e4")
	after := start.Set(e2, false).Set(e4, true)

	m := send(t, newTestModel(),
		EventMsg{Event: event.NewBoardBaselineEvent(start)},
		EventMsg{Event: event.NewMoveAcceptedEvent("e2e4", "simple", e2, e4, after, 1)},
	)

	if !m.hasLast || m.lastFrom != e2 || m.lastTo != e4 {
		t.Errorf("last move = %v->%v (has=%v), want e2->e4", m.lastFrom, m.lastTo, m.hasLast)
	}
	view := plain(m)
	if !strings.Contains(view, "1. e2e4") {
		t.Errorf("history missing move:\n%s", view)
	}
	if !strings.Contains(view, "moves    1") {
		t.Errorf("move counter not shown:\n%s", view)
	}
	if m.board != after {
		t.Error("board not updated from move event")
	}
}

func TestModel_CastleHasNoHighlight(t *testing.T) {
	m := send(t, newTestModel(),
		EventMsg{Event: event.NewMoveAcceptedEvent("O-O", "castle_kingside", board.Square{}, board.Square{}, board.Empty, 1)},
	)
	if m.hasLast {
		t.Error("castling should not highlight squares")
	}
}

func TestModel_HistoryLimit(t *testing.T) {
	cfg := config.Default().Monitor
	cfg.History = 3
	m := New(cfg, "capture")

	for i := 1; i <= 5; i++ {
		m = send(t, m, EventMsg{Event: event.NewMoveAcceptedEvent("a2a3", "simple", board.Square{Row: 6}, board.Square{Row: 5}, board.Empty, i)})
	}
	if len(m.history) != 3 {
		t.Fatalf("history = %v, want 3 entries", m.history)
	}
	if m.history[0] != "3. a2a3" || m.history[2] != "5. a2a3" {
		t.Errorf("history = %v, want the last three", m.history)
	}

	m = send(t, m, runeKey('c'))
	if len(m.history) != 0 {
		t.Errorf("history after clear = %v", m.history)
	}

	t.Run("zero disables history", func(t *testing.T) {
		cfg.History = 0
		m := send(t, New(cfg, "capture"), EventMsg{Event: event.NewMoveAcceptedEvent("a2a3", "simple", board.Square{}, board.Square{}, board.Empty, 1)})
		if len(m.history) != 0 {
			t.Errorf("history = %v, want none", m.history)
		}
	})
}

func TestModel_Lift(t *testing.T) {
	a2 := mustSquare(t, "a2")
	deadline := time.Now().Add(2 * time.Second)

	m := send(t, newTestModel(), EventMsg{Event: event.NewLiftChangedEvent("recorded", a2, deadline)})
	if m.lifted == nil || *m.lifted != a2 {
		t.Fatalf("lifted = %v, want a2", m.lifted)
	}
	if m.status != "lifted a2" {
		t.Errorf("status = %q", m.status)
	}

	m = send(t, m, EventMsg{Event: event.NewLiftChangedEvent("expired", a2, deadline)})
	if m.lifted != nil {
		t.Error("lift not cleared on expiry")
	}
	if m.status != "lift from a2 expired" {
		t.Errorf("status = %q", m.status)
	}

	m = send(t, m,
		EventMsg{Event: event.NewLiftChangedEvent("recorded", a2, deadline)},
		EventMsg{Event: event.NewLiftChangedEvent("resolved", a2, deadline)},
	)
	if m.lifted != nil {
		t.Error("lift not cleared on resolve")
	}
}

func TestModel_Diagnostics(t *testing.T) {
	m := send(t, newTestModel(),
		EventMsg{Event: event.NewBoardBaselineEvent(board.StartingPosition())},
		EventMsg{Event: event.NewMoveRejectedEvent("pattern_unrecognized", "Unrecognized move pattern", board.Empty)},
		EventMsg{Event: event.NewInputDroppedEvent("bad record", 3)},
		EventMsg{Event: event.NewSnapshotDroppedEvent()},
	)
	view := plain(m)
	for _, want := range []string{"Unrecognized move pattern", "rejected 1", "dropped  2"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m = send(t, m, EventMsg{Event: event.NewSinkFailedEvent("consumer", errors.New("broken pipe"))})
	if m.status != "consumer sink failed: broken pipe" {
		t.Errorf("status = %q", m.status)
	}
	if !strings.Contains(plain(m), "sink err 1") {
		t.Error("sink error counter not shown")
	}
}

func TestModel_Keys(t *testing.T) {
	t.Run("quit", func(t *testing.T) {
		for _, msg := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
			_, cmd := newTestModel().Update(msg)
			if cmd == nil {
				t.Fatalf("%s: no command returned", msg)
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Errorf("%s: command did not quit", msg)
			}
		}
	})

	t.Run("flip", func(t *testing.T) {
		m := send(t, newTestModel(), EventMsg{Event: event.NewBoardBaselineEvent(board.StartingPosition())})
		lines := strings.Split(plain(m), "\n")
		if idx := firstLineWithPrefix(lines, "8 "); idx < 0 || idx > firstLineWithPrefix(lines, "1 ") {
			t.Error("rank 8 should be drawn above rank 1")
		}

		m = send(t, m, runeKey('f'))
		lines = strings.Split(plain(m), "\n")
		if idx := firstLineWithPrefix(lines, "1 "); idx < 0 || idx > firstLineWithPrefix(lines, "8 ") {
			t.Error("flipped board should draw rank 1 first")
		}
		if !strings.Contains(plain(m), "h  g  f  e  d  c  b  a") {
			t.Error("flipped board should reverse the files")
		}
	})

	t.Run("highlight toggle", func(t *testing.T) {
		m := newTestModel()
		before := m.highlight
		m = send(t, m, runeKey('h'))
		if m.highlight == before {
			t.Error("h did not toggle highlight")
		}
	})

	t.Run("help toggle", func(t *testing.T) {
		m := send(t, newTestModel(), runeKey('?'))
		if !m.help.ShowAll {
			t.Error("? did not expand help")
		}
		if !strings.Contains(plain(m), "clear history") {
			t.Error("full help missing bindings")
		}
	})
}

func firstLineWithPrefix(lines []string, prefix string) int {
	for i, l := range lines {
		if strings.HasPrefix(l, prefix) {
			return i
		}
	}
	return -1
}

func TestModel_SessionEnded(t *testing.T) {
	m := send(t, newTestModel(), SessionEndedMsg{})
	if !m.ended || m.status != "input closed" {
		t.Errorf("ended=%v status=%q", m.ended, m.status)
	}

	m = send(t, newTestModel(), SessionEndedMsg{Err: errors.New("device unplugged")})
	if m.status != "input failed: device unplugged" {
		t.Errorf("status = %q", m.status)
	}
}

func TestModel_WindowSize(t *testing.T) {
	m := send(t, newTestModel(), tea.WindowSizeMsg{Width: 30, Height: 20})
	if m.width != 30 || m.help.Width != 30 {
		t.Errorf("width = %d, help width = %d", m.width, m.help.Width)
	}

	m = send(t, m, EventMsg{Event: event.NewMoveRejectedEvent("x", strings.Repeat("long message ", 10), board.Empty)})
	if w := ansi.StringWidth(m.renderStatus()); w > 30 {
		t.Errorf("status width = %d, want <= 30", w)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"e2e4", 10, "e2e4"},
		{"1234567890", 10, "1234567890"},
		{"12345678901", 10, "1234567..."},
		{"anything", 3, "..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestNewStyles_Fallbacks(t *testing.T) {
	cfg := config.MonitorConfig{Theme: "light"}
	s := NewStyles(cfg)
	def := config.Default().Monitor
	if got := s.Light.GetBackground(); got != lipgloss.Color(def.LightColor) {
		t.Errorf("light background = %v, want %s", got, def.LightColor)
	}
	if got := s.Highlight.GetBackground(); got != lipgloss.Color(def.MoveColor) {
		t.Errorf("highlight background = %v, want %s", got, def.MoveColor)
	}
}
