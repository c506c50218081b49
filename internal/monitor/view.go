package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/chessbridge/internal/board"
)

const (
	pieceGlyph = "●"
	panelWidth = 22
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("chessbridge monitor"))
	b.WriteString("\n")

	if !m.hasBoard {
		b.WriteString(m.styles.Muted.Render("waiting for a stable board on " + m.source + "..."))
		b.WriteString("\n")
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderBoard(), "  ", m.renderPanel()))
		b.WriteString("\n")
	}

	if line := m.renderStatus(); line != "" {
		b.WriteString("\n" + line + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

// renderBoard draws the occupancy grid with rank and file labels. Row 0 is
// rank 8, so the unflipped board has white at the bottom.
func (m Model) renderBoard() string {
	order := [board.Size]int{0, 1, 2, 3, 4, 5, 6, 7}
	if m.flipped {
		order = [board.Size]int{7, 6, 5, 4, 3, 2, 1, 0}
	}

	var files strings.Builder
	files.WriteString("  ")
	for _, col := range order {
		files.WriteString(" " + string(rune('a'+col)) + " ")
	}
	fileLine := m.styles.Label.Render(files.String())

	var b strings.Builder
	b.WriteString(fileLine + "\n")
	for _, row := range order {
		rank := m.styles.Label.Render(fmt.Sprintf("%d ", board.Size-row))
		b.WriteString(rank)
		for _, col := range order {
			b.WriteString(m.renderSquare(board.Square{Row: row, Col: col}))
		}
		b.WriteString(m.styles.Label.Render(fmt.Sprintf(" %d", board.Size-row)))
		b.WriteString("\n")
	}
	b.WriteString(fileLine)
	return b.String()
}

func (m Model) renderSquare(sq board.Square) string {
	cell := "   "
	if m.board.At(sq.Row, sq.Col) {
		cell = " " + pieceGlyph + " "
	}

	style := m.styles.Dark
	if (sq.Row+sq.Col)%2 == 0 {
		style = m.styles.Light
	}
	switch {
	case m.lifted != nil && *m.lifted == sq:
		style = m.styles.Lifted
	case m.highlight && m.hasLast && (sq == m.lastFrom || sq == m.lastTo):
		style = m.styles.Highlight
	}
	return style.Render(cell)
}

func (m Model) renderPanel() string {
	var lines []string
	lines = append(lines, m.styles.Title.Render("Moves"))
	if len(m.history) == 0 {
		lines = append(lines, m.styles.Muted.Render("none yet"))
	}
	for _, h := range m.history {
		lines = append(lines, truncate(h, panelWidth-2))
	}

	lines = append(lines, "")
	lines = append(lines,
		m.styles.Label.Render(fmt.Sprintf("moves    %d", m.counts.moves)),
		m.styles.Label.Render(fmt.Sprintf("rejected %d", m.counts.rejected)),
		m.styles.Label.Render(fmt.Sprintf("dropped  %d", m.counts.dropped+m.counts.busy)),
	)
	if m.counts.sinkErrs > 0 {
		lines = append(lines, m.styles.Error.Render(fmt.Sprintf("sink err %d", m.counts.sinkErrs)))
	}
	return m.styles.Panel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	text := m.status
	if m.width > 0 {
		text = truncate(text, m.width)
	}
	switch m.statusLevel {
	case statusOK:
		return m.styles.OK.Render(text)
	case statusWarn:
		return m.styles.Warn.Render(text)
	case statusError:
		return m.styles.Error.Render(text)
	default:
		return m.styles.Muted.Render(text)
	}
}

// truncate shortens s to maxWidth visible columns, keeping escape sequences
// intact and ending with "...".
func truncate(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, "...")
}
