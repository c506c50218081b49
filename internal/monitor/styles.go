package monitor

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/chessbridge/internal/config"
)

// Theme colors for the text around the board. Square colors come from config.
var (
	darkText = themeColors{
		title:  lipgloss.Color("#A78BFA"), // violet-400
		label:  lipgloss.Color("#9CA3AF"),
		ok:     lipgloss.Color("#10B981"),
		warn:   lipgloss.Color("#F59E0B"),
		err:    lipgloss.Color("#F87171"),
		border: lipgloss.Color("#6B7280"),
	}
	lightText = themeColors{
		title:  lipgloss.Color("#6D28D9"),
		label:  lipgloss.Color("#4B5563"),
		ok:     lipgloss.Color("#047857"),
		warn:   lipgloss.Color("#B45309"),
		err:    lipgloss.Color("#B91C1C"),
		border: lipgloss.Color("#9CA3AF"),
	}
)

// pieceColor is the glyph color on every square. Both default square colors
// are light enough for it.
var pieceColor = lipgloss.Color("#111827")

type themeColors struct {
	title, label, ok, warn, err, border lipgloss.Color
}

// Styles holds every style the monitor renders with.
type Styles struct {
	Light     lipgloss.Style
	Dark      lipgloss.Style
	Highlight lipgloss.Style
	Lifted    lipgloss.Style

	Title  lipgloss.Style
	Label  lipgloss.Style
	Muted  lipgloss.Style
	OK     lipgloss.Style
	Warn   lipgloss.Style
	Error  lipgloss.Style
	Panel  lipgloss.Style
	Header lipgloss.Style
}

// NewStyles builds the styles for a monitor config. Empty colors fall back
// to the defaults.
func NewStyles(cfg config.MonitorConfig) Styles {
	defaults := config.Default().Monitor
	light := orDefault(cfg.LightColor, defaults.LightColor)
	dark := orDefault(cfg.DarkColor, defaults.DarkColor)
	move := orDefault(cfg.MoveColor, defaults.MoveColor)

	text := darkText
	if cfg.Theme == "light" {
		text = lightText
	}

	square := lipgloss.NewStyle().Foreground(pieceColor).Bold(true)
	return Styles{
		Light:     square.Background(lipgloss.Color(light)),
		Dark:      square.Background(lipgloss.Color(dark)),
		Highlight: square.Background(lipgloss.Color(move)),
		Lifted:    square.Background(text.warn),

		Title:  lipgloss.NewStyle().Bold(true).Foreground(text.title),
		Label:  lipgloss.NewStyle().Foreground(text.label),
		Muted:  lipgloss.NewStyle().Foreground(text.label).Italic(true),
		OK:     lipgloss.NewStyle().Foreground(text.ok),
		Warn:   lipgloss.NewStyle().Foreground(text.warn),
		Error:  lipgloss.NewStyle().Foreground(text.err).Bold(true),
		Panel:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(text.border).Padding(0, 1),
		Header: lipgloss.NewStyle().Bold(true).Foreground(text.title).MarginBottom(1),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
