package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/chessbridge/internal/logging"
	"github.com/Iron-Ham/chessbridge/internal/transport"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View bridge logs",
	Long: `View and filter bridge.log in the logging directory.

The log is read from logging.dir, or from the logs directory under the
config directory (where the monitor writes) when logging.dir is unset.

Examples:
  # Show the last 50 entries
  chessbridge logs

  # Show everything from one run
  chessbridge logs -s 1f3a9c2e -n 0

  # Follow the log in real time
  chessbridge logs -f

  # Only warnings and errors from the last hour
  chessbridge logs --level warn --since 1h

  # Only rejected moves
  chessbridge logs --grep "rejected"`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsRunID     string
	logsTail      int
	logsFollow    bool
	logsLevel     string
	logsSince     string
	logsGrep      string
	logsComponent string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().StringVarP(&logsRunID, "session", "s", "", "Only entries from this run ID")
	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of lines to show (0 for all)")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output (like tail -f)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show logs since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter logs matching pattern (regex)")
	logsCmd.Flags().StringVar(&logsComponent, "component", "", "Only entries from this component (session, transport, sink)")
}

// logEntry represents a parsed JSON log line
type logEntry struct {
	Time      time.Time      `json:"time"`
	Level     string         `json:"level"`
	Msg       string         `json:"msg"`
	SessionID string         `json:"session_id,omitempty"`
	Component string         `json:"component,omitempty"`
	Extra     map[string]any `json:"-"` // Captures additional fields
}

// UnmarshalJSON implements custom unmarshaling to capture extra fields
func (e *logEntry) UnmarshalJSON(data []byte) error {
	type Alias logEntry
	aux := &struct {
		*Alias
	}{
		Alias: (*Alias)(e),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	for _, known := range []string{"time", "level", "msg", "session_id", "component"} {
		delete(all, known)
	}
	if len(all) > 0 {
		e.Extra = all
	}
	return nil
}

// logFilter holds the parsed filter flags.
type logFilter struct {
	minLevel  int
	since     time.Time
	grep      *regexp.Regexp
	runID     string
	component string
}

var (
	logTimeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	logFieldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	logLevelStyle = map[string]lipgloss.Style{
		logging.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		logging.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		logging.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		logging.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

// levelPriority returns the priority of a log level for filtering
func levelPriority(level string) int {
	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		return 0
	case logging.LevelInfo:
		return 1
	case logging.LevelWarn:
		return 2
	case logging.LevelError:
		return 3
	default:
		return -1
	}
}

// formatLogEntry formats a log entry for terminal output
func formatLogEntry(entry *logEntry) string {
	var sb strings.Builder

	sb.WriteString(logTimeStyle.Render("[" + entry.Time.Format("15:04:05.000") + "]"))

	level := strings.ToUpper(entry.Level)
	style, ok := logLevelStyle[level]
	if !ok {
		style = lipgloss.NewStyle()
	}
	sb.WriteString(" ")
	sb.WriteString(style.Render("[" + level + "]"))

	if entry.Component != "" {
		sb.WriteString(" ")
		sb.WriteString(logFieldStyle.Render(entry.Component + ":"))
	}
	sb.WriteString(" ")
	sb.WriteString(entry.Msg)

	// Map iteration order is random; keep output stable
	keys := make([]string, 0, len(entry.Extra))
	for key := range entry.Extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		sb.WriteString(" ")
		sb.WriteString(logFieldStyle.Render(key + "="))
		sb.WriteString(fmt.Sprintf("%v", entry.Extra[key]))
	}

	return sb.String()
}

// logFilePath returns the bridge.log the logs command reads.
func logFilePath() (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	dir := cfg.Logging.ResolveDir()
	if dir == "" {
		dir = defaultLogDir()
	}
	return filepath.Join(dir, logging.FileName), nil
}

func runLogs(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	logPath, err := logFilePath()
	if err != nil {
		return err
	}
	if exists, _ := afero.Exists(appFs, logPath); !exists {
		fmt.Fprintf(out, "No logs found at %s\n", logPath)
		fmt.Fprintln(out, "Set logging.dir to keep logs from 'chessbridge run' and 'replay'.")
		return nil
	}

	filter := logFilter{minLevel: -1, runID: logsRunID, component: logsComponent}
	if logsLevel != "" {
		filter.minLevel = levelPriority(logging.ParseLevel(logsLevel))
	}
	if logsSince != "" {
		duration, err := time.ParseDuration(logsSince)
		if err != nil {
			return fmt.Errorf("invalid duration format: %w", err)
		}
		filter.since = time.Now().Add(-duration)
	}
	if logsGrep != "" {
		filter.grep, err = regexp.Compile(logsGrep)
		if err != nil {
			return fmt.Errorf("invalid grep pattern: %w", err)
		}
	}

	if logsFollow {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(out, "Following %s... (Ctrl+C to stop)\n\n", logPath)
		return transport.Follow(ctx, logPath, func(line string) {
			if formatted, ok := renderLine(line, filter); ok {
				fmt.Fprintln(out, formatted)
			}
		})
	}

	f, err := appFs.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()
	return displayLogs(f, out, logsTail, filter)
}

// renderLine parses and filters one log line. Lines that are not JSON are
// shown as they are.
func renderLine(line string, filter logFilter) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return line, true
	}
	if !passesFilters(&entry, filter) {
		return "", false
	}
	return formatLogEntry(&entry), true
}

// displayLogs prints the filtered entries of r, keeping the last tail.
func displayLogs(r io.Reader, out io.Writer, tail int, filter logFilter) error {
	var entries []string
	scanner := bufio.NewScanner(r)

	// Increase buffer size for potentially long log lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		if formatted, ok := renderLine(scanner.Text(), filter); ok {
			entries = append(entries, formatted)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading log file: %w", err)
	}

	if tail > 0 && len(entries) > tail {
		entries = entries[len(entries)-tail:]
	}
	for _, entry := range entries {
		fmt.Fprintln(out, entry)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No matching log entries found.")
	}
	return nil
}

// passesFilters checks if a log entry passes all filter criteria
func passesFilters(entry *logEntry, filter logFilter) bool {
	if filter.minLevel >= 0 && levelPriority(entry.Level) < filter.minLevel {
		return false
	}
	if !filter.since.IsZero() && entry.Time.Before(filter.since) {
		return false
	}
	if filter.runID != "" && entry.SessionID != filter.runID {
		return false
	}
	if filter.component != "" && entry.Component != filter.component {
		return false
	}

	// Grep searches the message and extra fields
	if filter.grep != nil {
		searchText := entry.Msg
		for _, v := range entry.Extra {
			searchText += " " + fmt.Sprintf("%v", v)
		}
		if !filter.grep.MatchString(searchText) {
			return false
		}
	}
	return true
}
