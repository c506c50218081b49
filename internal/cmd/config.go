package cmd

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/chessbridge/internal/config"
	"github.com/Iron-Ham/chessbridge/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify chessbridge configuration",
	Long: `View or modify chessbridge configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  chessbridge config set board.lift_timeout 3s
  chessbridge config set serial.device /dev/ttyUSB0
  chessbridge config set serial.fallback_devices /dev/rfcomm1,/dev/ttyACM0

Valid keys:
  board.window_size          - Snapshots kept by the debouncer
  board.stability_threshold  - Consecutive ingests before a state is stable
  board.lift_timeout         - How long a lifted piece may stay off (e.g. 2s)
  serial.device              - Board serial device
  serial.fallback_devices    - Devices tried when serial.device fails (comma-separated)
  serial.baud_rate           - Line speed
  serial.raw                 - Put the line in raw mode (true/false)
  consumer.path              - Move output file, - for stdout
  session.suppress_repeats   - Report a diagnostic once per stable state (true/false)
  logging.enabled            - Write logs (true/false)
  logging.level              - debug, info, warn, error
  logging.dir                - Directory for bridge.log (empty: stderr)
  logging.max_size_mb        - Rotate bridge.log past this size, 0 to never rotate
  logging.max_backups        - Rotated files to keep
  logging.compress           - Gzip rotated files (true/false)
  monitor.theme              - dark or light
  monitor.highlight_enabled  - Highlight the last move (true/false)
  monitor.light_color        - Light square color
  monitor.dark_color         - Dark square color
  monitor.move_color         - Last move color
  monitor.history            - Moves listed beside the board`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/chessbridge/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

type keyType int

const (
	keyString keyType = iota
	keyInt
	keyBool
	keyDuration
	keyList
)

// configKeys lists the keys 'config set' accepts.
var configKeys = map[string]keyType{
	"board.window_size":         keyInt,
	"board.stability_threshold": keyInt,
	"board.lift_timeout":        keyDuration,
	"serial.device":             keyString,
	"serial.fallback_devices":   keyList,
	"serial.baud_rate":          keyInt,
	"serial.raw":                keyBool,
	"consumer.path":             keyString,
	"session.suppress_repeats":  keyBool,
	"logging.enabled":           keyBool,
	"logging.level":             keyString,
	"logging.dir":               keyString,
	"logging.max_size_mb":       keyInt,
	"logging.max_backups":       keyInt,
	"logging.compress":          keyBool,
	"monitor.theme":             keyString,
	"monitor.highlight_enabled": keyBool,
	"monitor.light_color":       keyString,
	"monitor.dark_color":        keyString,
	"monitor.move_color":        keyString,
	"monitor.history":           keyInt,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := config.Load()
	if err != nil {
		if !errors.Is(err, errors.ErrInvalidConfig) {
			return err
		}
		fmt.Fprintf(out, "Configuration is invalid, showing defaults:\n%v\n\n", err)
		cfg = config.Default()
	}

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "# Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "# Config file: (none - using defaults)\n")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

// parseConfigValue converts the command-line value for key to the type
// stored in the config file.
func parseConfigValue(key, value string) (any, error) {
	kt, ok := configKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s\nValid keys: %s", key, strings.Join(sortedConfigKeys(), ", "))
	}

	switch kt {
	case keyInt:
		n, err := cast.ToIntE(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		return n, nil
	case keyBool:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return b, nil
	case keyDuration:
		d, err := cast.ToDurationE(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected a duration such as 2s or 1500ms", key)
		}
		return d.String(), nil
	case keyList:
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items, nil
	default:
		return value, nil
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	typedValue, err := parseConfigValue(key, args[1])
	if err != nil {
		return err
	}

	// Check the whole config with the new value before writing it
	v := viper.New()
	config.SetDefaultsOn(v)
	v.SetFs(appFs)
	configFile := config.ConfigFile()
	if used := viper.ConfigFileUsed(); used != "" {
		configFile = used
	}
	v.SetConfigFile(configFile)
	if exists, _ := afero.Exists(appFs, configFile); exists {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read %s: %w", configFile, err)
		}
	}
	v.Set(key, typedValue)
	if _, err := config.LoadFrom(v); err != nil {
		return err
	}

	if err := appFs.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}

const defaultConfigContent = `# chessbridge configuration

# Debouncing and move detection
board:
  # Number of recent snapshots kept; the majority state wins
  window_size: 5
  # Consecutive ingests the majority must hold before it is stable
  stability_threshold: 3
  # How long a lifted piece may stay off the board
  lift_timeout: 2s

# Link to the board controller
serial:
  device: /dev/rfcomm0
  # Tried in order when device cannot be opened
  fallback_devices: []
  baud_rate: 9600
  raw: true

# Where accepted moves are written, one per line ("-" for stdout)
consumer:
  path: ./build/arduino_out

session:
  # Report a diagnostic to the board once per stable state
  suppress_repeats: false

logging:
  enabled: true
  # debug, info, warn, error
  level: info
  # Directory for bridge.log; empty logs to stderr
  dir: ""
  # Rotate past this size in MB, 0 to never rotate
  max_size_mb: 10
  max_backups: 3
  compress: false

# Terminal board view
monitor:
  # dark or light
  theme: dark
  highlight_enabled: true
  light_color: "#EEEED2"
  dark_color: "#769656"
  move_color: "#F6F669"
  # Moves listed beside the board
  history: 12
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if exists, _ := afero.Exists(appFs, configFile); exists {
		return fmt.Errorf("config file already exists at %s\nUse 'chessbridge config set' to modify values", configFile)
	}

	if err := appFs.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := afero.WriteFile(appFs, configFile, []byte(defaultConfigContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize chessbridge.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Fprintln(out, "  2. $HOME/.config/chessbridge/config.yaml")
	fmt.Fprintln(out, "  3. ./config.yaml")
	fmt.Fprintln(out, "\nEnvironment variables use the CHESSBRIDGE_ prefix, e.g. CHESSBRIDGE_SERIAL_DEVICE.")
	return nil
}

// sortedConfigKeys returns the keys accepted by 'config set' in order.
func sortedConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
