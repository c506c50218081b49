package config

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "board.window_size")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// hexColorRegex matches "#rgb" and "#rrggbb" color strings
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidThemes returns the list of valid monitor themes
func ValidThemes() []string {
	return []string{"dark", "light"}
}

// ValidBaudRates returns the line speeds the serial transport can configure
func ValidBaudRates() []int {
	return []int{1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateBoard()...)
	errors = append(errors, c.validateSerial()...)
	errors = append(errors, c.validateConsumer()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateMonitor()...)

	return errors
}

// validateBoard validates the BoardConfig
func (c *Config) validateBoard() []ValidationError {
	var errors []ValidationError

	const maxWindowSize = 64
	if c.Board.WindowSize < 1 || c.Board.WindowSize > maxWindowSize {
		errors = append(errors, ValidationError{
			Field:   "board.window_size",
			Value:   c.Board.WindowSize,
			Message: fmt.Sprintf("must be between 1 and %d", maxWindowSize),
		})
	}

	if c.Board.StabilityThreshold < 0 {
		errors = append(errors, ValidationError{
			Field:   "board.stability_threshold",
			Value:   c.Board.StabilityThreshold,
			Message: "must be non-negative",
		})
	}

	if c.Board.LiftTimeout <= 0 {
		errors = append(errors, ValidationError{
			Field:   "board.lift_timeout",
			Value:   c.Board.LiftTimeout,
			Message: "must be positive",
		})
	}

	const maxLiftTimeout = time.Minute
	if c.Board.LiftTimeout > maxLiftTimeout {
		errors = append(errors, ValidationError{
			Field:   "board.lift_timeout",
			Value:   c.Board.LiftTimeout,
			Message: fmt.Sprintf("exceeds maximum of %s", maxLiftTimeout),
		})
	}

	return errors
}

// validateSerial validates the SerialConfig
func (c *Config) validateSerial() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Serial.Device) == "" {
		errors = append(errors, ValidationError{
			Field:   "serial.device",
			Value:   c.Serial.Device,
			Message: "cannot be empty",
		})
	}

	if !slices.Contains(ValidBaudRates(), c.Serial.BaudRate) {
		rates := make([]string, 0, len(ValidBaudRates()))
		for _, r := range ValidBaudRates() {
			rates = append(rates, strconv.Itoa(r))
		}
		errors = append(errors, ValidationError{
			Field:   "serial.baud_rate",
			Value:   c.Serial.BaudRate,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(rates, ", ")),
		})
	}

	return errors
}

// validateConsumer validates the ConsumerConfig
func (c *Config) validateConsumer() []ValidationError {
	if strings.TrimSpace(c.Consumer.Path) == "" {
		return []ValidationError{{
			Field:   "consumer.path",
			Value:   c.Consumer.Path,
			Message: `cannot be empty (use "-" for stdout)`,
		}}
	}
	return nil
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	// Zero disables rotation
	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be non-negative",
		})
	}

	const maxLogSizeMB = 1000 // 1GB
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateMonitor validates the MonitorConfig
func (c *Config) validateMonitor() []ValidationError {
	var errors []ValidationError

	if c.Monitor.Theme != "" && !slices.Contains(ValidThemes(), c.Monitor.Theme) {
		errors = append(errors, ValidationError{
			Field:   "monitor.theme",
			Value:   c.Monitor.Theme,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidThemes(), ", ")),
		})
	}

	colors := []struct {
		field string
		value string
	}{
		{"monitor.light_color", c.Monitor.LightColor},
		{"monitor.dark_color", c.Monitor.DarkColor},
		{"monitor.move_color", c.Monitor.MoveColor},
	}
	for _, col := range colors {
		if col.value != "" && !IsValidColor(col.value) {
			errors = append(errors, ValidationError{
				Field:   col.field,
				Value:   col.value,
				Message: `must be a hex color ("#rrggbb") or an ANSI color index (0-255)`,
			})
		}
	}

	const maxHistory = 500
	if c.Monitor.History < 0 || c.Monitor.History > maxHistory {
		errors = append(errors, ValidationError{
			Field:   "monitor.history",
			Value:   c.Monitor.History,
			Message: fmt.Sprintf("must be between 0 and %d", maxHistory),
		})
	}

	return errors
}

// IsValidColor reports whether s is a color lipgloss can render: a hex
// string or an ANSI 256-color index.
func IsValidColor(s string) bool {
	if hexColorRegex.MatchString(s) {
		return true
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0 && n <= 255
}
