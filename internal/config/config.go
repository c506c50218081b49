package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/chessbridge/internal/errors"
)

// Config represents the complete chessbridge configuration
type Config struct {
	Board    BoardConfig    `mapstructure:"board" yaml:"board"`
	Serial   SerialConfig   `mapstructure:"serial" yaml:"serial"`
	Consumer ConsumerConfig `mapstructure:"consumer" yaml:"consumer"`
	Session  SessionConfig  `mapstructure:"session" yaml:"session"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Monitor  MonitorConfig  `mapstructure:"monitor" yaml:"monitor"`
}

// BoardConfig tunes the debouncer and the move classifier
type BoardConfig struct {
	// WindowSize is the number of recent snapshots the debouncer keeps (default: 5)
	WindowSize int `mapstructure:"window_size" yaml:"window_size"`
	// StabilityThreshold is the number of consecutive ingests the majority
	// must hold before it is reported as stable (default: 3)
	StabilityThreshold int `mapstructure:"stability_threshold" yaml:"stability_threshold"`
	// LiftTimeout is how long a lifted piece may stay off the board before
	// the pending lift is discarded (default: 2s)
	LiftTimeout time.Duration `mapstructure:"lift_timeout" yaml:"lift_timeout"`
}

// SerialConfig describes the link to the board controller
type SerialConfig struct {
	// Device is the serial device path (default: /dev/rfcomm0)
	Device string `mapstructure:"device" yaml:"device"`
	// FallbackDevices are tried in order when Device cannot be opened.
	// Accepts a comma-separated string in env vars.
	FallbackDevices []string `mapstructure:"fallback_devices" yaml:"fallback_devices"`
	// BaudRate is the line speed (default: 9600)
	BaudRate int `mapstructure:"baud_rate" yaml:"baud_rate"`
	// Raw puts the terminal into raw mode before reading (default: true)
	Raw bool `mapstructure:"raw" yaml:"raw"`
}

// ConsumerConfig controls where accepted moves are written
type ConsumerConfig struct {
	// Path is the file moves are appended to, one per line. "-" writes to stdout.
	Path string `mapstructure:"path" yaml:"path"`
}

// SessionConfig controls the session controller
type SessionConfig struct {
	// SuppressRepeats sends a diagnostic to the board only once while the
	// board stays in the same stable state (default: false)
	SuppressRepeats bool `mapstructure:"suppress_repeats" yaml:"suppress_repeats"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// Dir is the directory holding bridge.log. Empty logs to stderr.
	Dir string `mapstructure:"dir" yaml:"dir"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
	// Compress gzips rotated log files (default: false)
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

// MonitorConfig controls the terminal board monitor
type MonitorConfig struct {
	// Theme is "dark" or "light" (default: "dark")
	Theme string `mapstructure:"theme" yaml:"theme"`
	// HighlightEnabled colors the squares of the last accepted move (default: true)
	HighlightEnabled bool `mapstructure:"highlight_enabled" yaml:"highlight_enabled"`
	// LightColor and DarkColor are the square colors, as "#rrggbb" or an ANSI index
	LightColor string `mapstructure:"light_color" yaml:"light_color"`
	DarkColor  string `mapstructure:"dark_color" yaml:"dark_color"`
	// MoveColor highlights the last move's squares
	MoveColor string `mapstructure:"move_color" yaml:"move_color"`
	// History is the number of recent moves listed beside the board (default: 12)
	History int `mapstructure:"history" yaml:"history"`
}

// ResolveDir expands a leading ~ in the log directory.
func (l *LoggingConfig) ResolveDir() string {
	return expandHome(l.Dir)
}

// Devices returns Device followed by the fallbacks, skipping blanks and duplicates.
func (s *SerialConfig) Devices() []string {
	seen := make(map[string]bool)
	var result []string
	for _, d := range append([]string{s.Device}, s.FallbackDevices...) {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		result = append(result, d)
	}
	return result
}

func expandHome(path string) string {
	if path == "~" || (len(path) > 1 && path[:2] == "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Board: BoardConfig{
			WindowSize:         5,
			StabilityThreshold: 3,
			LiftTimeout:        2 * time.Second,
		},
		Serial: SerialConfig{
			Device:          "/dev/rfcomm0",
			FallbackDevices: []string{},
			BaudRate:        9600,
			Raw:             true,
		},
		Consumer: ConsumerConfig{
			Path: "./build/arduino_out",
		},
		Session: SessionConfig{
			SuppressRepeats: false,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			Dir:        "",
			MaxSizeMB:  10,
			MaxBackups: 3,
			Compress:   false,
		},
		Monitor: MonitorConfig{
			Theme:            "dark",
			HighlightEnabled: true,
			LightColor:       "#EEEED2",
			DarkColor:        "#769656",
			MoveColor:        "#F6F669",
			History:          12,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	SetDefaultsOn(viper.GetViper())
}

// SetDefaultsOn registers default values with a specific viper instance.
func SetDefaultsOn(v *viper.Viper) {
	defaults := Default()

	// Board defaults
	v.SetDefault("board.window_size", defaults.Board.WindowSize)
	v.SetDefault("board.stability_threshold", defaults.Board.StabilityThreshold)
	v.SetDefault("board.lift_timeout", defaults.Board.LiftTimeout)

	// Serial defaults
	v.SetDefault("serial.device", defaults.Serial.Device)
	v.SetDefault("serial.fallback_devices", defaults.Serial.FallbackDevices)
	v.SetDefault("serial.baud_rate", defaults.Serial.BaudRate)
	v.SetDefault("serial.raw", defaults.Serial.Raw)

	v.SetDefault("consumer.path", defaults.Consumer.Path)
	v.SetDefault("session.suppress_repeats", defaults.Session.SuppressRepeats)

	// Logging defaults
	v.SetDefault("logging.enabled", defaults.Logging.Enabled)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.dir", defaults.Logging.Dir)
	v.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	v.SetDefault("logging.compress", defaults.Logging.Compress)

	// Monitor defaults
	v.SetDefault("monitor.theme", defaults.Monitor.Theme)
	v.SetDefault("monitor.highlight_enabled", defaults.Monitor.HighlightEnabled)
	v.SetDefault("monitor.light_color", defaults.Monitor.LightColor)
	v.SetDefault("monitor.dark_color", defaults.Monitor.DarkColor)
	v.SetDefault("monitor.move_color", defaults.Monitor.MoveColor)
	v.SetDefault("monitor.history", defaults.Monitor.History)
}

// decodeHook turns "2s" into a time.Duration and "a,b" into a []string,
// which is how both arrive from env vars and `config set`.
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom is Load over a specific viper instance. Both decode and
// validation failures match errors.ErrInvalidConfig; the latter also unwrap
// to ValidationErrors.
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHook())); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidConfig, ValidationErrors(errs))
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "chessbridge")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chessbridge"
	}
	return filepath.Join(home, ".config", "chessbridge")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
