package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/chessbridge/internal/config"
	"github.com/Iron-Ham/chessbridge/internal/errors"
	"github.com/Iron-Ham/chessbridge/internal/event"
	"github.com/Iron-Ham/chessbridge/internal/logging"
	"github.com/Iron-Ham/chessbridge/internal/session"
	"github.com/Iron-Ham/chessbridge/internal/sink"
	"github.com/Iron-Ham/chessbridge/internal/transport"
)

// appFs is the filesystem commands create files on. Tests swap it for a
// memory filesystem.
var appFs afero.Fs = afero.NewOsFs()

// defaultLogDir is where the monitor logs when logging.dir is unset, since
// stderr belongs to the terminal UI.
func defaultLogDir() string {
	return filepath.Join(config.ConfigDir(), "logs")
}

// lockDir holds one lock file per board device.
func lockDir() string {
	return filepath.Join(config.ConfigDir(), "locks")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		if used := viper.ConfigFileUsed(); used != "" && errors.Is(err, errors.ErrInvalidConfig) {
			return nil, errors.Wrap(err, used)
		}
		return nil, err
	}
	return cfg, nil
}

// openBoard opens the first usable board device. Unless noLock is set, each
// device is locked before it is opened, so a device another bridge holds is
// never reconfigured.
func openBoard(cfg *config.Config, runID string, logger *logging.Logger, noLock bool) (*transport.Port, error) {
	var claim transport.Claim
	if !noLock {
		claim = func(device string) (func(), error) {
			lock, err := session.AcquireLock(appFs, lockDir(), device, runID, logger)
			if err != nil {
				return nil, err
			}
			return func() { _ = lock.Release() }, nil
		}
	}

	port, err := transport.OpenFirst(cfg.Serial.Devices(), serialOptions(cfg), claim)
	if err != nil {
		logger.Error("no board device available", "devices", cfg.Serial.Devices(), "error", err)
		if errors.Is(err, session.ErrDeviceLocked) {
			return nil, fmt.Errorf("%w\nStop the other bridge or pass --no-lock", err)
		}
		return nil, err
	}
	logger.Info("board device opened", "device", port.Name(), "baud_rate", cfg.Serial.BaudRate)
	return port, nil
}

// newRunID returns the identifier attached to every log record of one run.
func newRunID() string {
	return uuid.NewString()[:8]
}

// openLogger builds the run's logger from the logging section. An empty
// logging.dir falls back to fallbackDir, and to stderr when that is empty
// too. The returned logger must be closed by the caller.
func openLogger(cfg *config.Config, fallbackDir string) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	dir := cfg.Logging.ResolveDir()
	if dir == "" {
		dir = fallbackDir
	}
	return logging.NewRotatingLogger(dir, cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	})
}

func serialOptions(cfg *config.Config) transport.SerialOptions {
	return transport.SerialOptions{
		BaudRate: cfg.Serial.BaudRate,
		Raw:      cfg.Serial.Raw,
	}
}

func openConsumer(cfg *config.Config) (*sink.Consumer, error) {
	return sink.OpenConsumer(appFs, cfg.Consumer.Path)
}

// describeOutput names the consumer destination for status lines.
func describeOutput(path string) string {
	if path == sink.StdoutPath {
		return "stdout"
	}
	return path
}

// echoEvents prints a one-line summary of each session event to w and
// returns the subscription ID.
func echoEvents(bus *event.Bus, w io.Writer) string {
	return bus.SubscribeAll(func(e event.Event) {
		if line := describeEvent(e); line != "" {
			fmt.Fprintln(w, line)
		}
	})
}

func describeEvent(e event.Event) string {
	switch e := e.(type) {
	case event.BoardBaselineEvent:
		return fmt.Sprintf("baseline: %d pieces", e.Board.Count())
	case event.MoveAcceptedEvent:
		return fmt.Sprintf("move %d: %s", e.Sequence, e.Notation)
	case event.MoveRejectedEvent:
		return "rejected: " + e.Message
	case event.LiftChangedEvent:
		return fmt.Sprintf("lift %s: %s", e.Transition, e.Square)
	case event.InputDroppedEvent:
		return fmt.Sprintf("dropped record: %s", e.Reason)
	case event.SinkFailedEvent:
		return fmt.Sprintf("%s sink failed: %v", e.Sink, e.Err)
	default:
		return ""
	}
}

// printSummary writes the end-of-run counters.
func printSummary(w io.Writer, stats session.Stats) {
	fmt.Fprintf(w, "records %d, stable %d, moves %d, diagnostics %d (suppressed %d), dropped %d, framing errors %d, sink errors %d\n",
		stats.Records, stats.Stable, stats.Moves, stats.Diagnostics, stats.Suppressed, stats.Dropped, stats.Framing, stats.SinkErrors)
}
