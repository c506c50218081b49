package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/chessbridge/internal/errors"
	"github.com/Iron-Ham/chessbridge/internal/event"
	"github.com/Iron-Ham/chessbridge/internal/session"
	"github.com/Iron-Ham/chessbridge/internal/sink"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Bridge the board on its serial device",
	Long: `Open the board's serial device and run the move pipeline until the
device closes or the process is interrupted.

Accepted moves are written to the consumer output (consumer.path), one per
line. Acknowledgements ("MOVE:e2e4") and diagnostics ("ERROR:...") are
written back to the board on the same device.

The devices in serial.fallback_devices are tried in order when
serial.device cannot be opened. A lock file under the config directory
keeps two bridges off the same device.

Examples:
  # Use the configured device and output
  chessbridge run

  # Read a USB adapter and print moves to the terminal
  chessbridge run -d /dev/ttyUSB0 -o -

  # Show every event on stderr
  chessbridge run -v`,
	Args: cobra.NoArgs,
	RunE: runBridge,
}

var (
	runNoLock  bool
	runVerbose bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runNoLock, "no-lock", false, "Do not take the device lock")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print session events to stderr")
}

func runBridge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	base, err := openLogger(cfg, "")
	if err != nil {
		return errors.Wrap(err, "failed to open log")
	}
	defer base.Close()
	runID := newRunID()
	logger := base.WithSession(runID)

	port, err := openBoard(cfg, runID, logger, runNoLock)
	if err != nil {
		return err
	}
	defer port.Close()

	consumer, err := openConsumer(cfg)
	if err != nil {
		return err
	}
	defer consumer.Close()

	bus := event.NewBus()
	if runVerbose {
		echoEvents(bus, cmd.ErrOrStderr())
	}

	ctrl := session.New(session.SettingsFrom(cfg), consumer, sink.NewHardware(port),
		session.WithLogger(logger),
		session.WithBus(bus),
	)

	fmt.Fprintf(cmd.ErrOrStderr(), "Reading %s, moves to %s (Ctrl+C to stop)\n", port.Name(), describeOutput(cfg.Consumer.Path))
	runErr := ctrl.Run(ctx, port)
	printSummary(cmd.ErrOrStderr(), ctrl.Status().Stats)

	if runErr != nil {
		logger.Error("board read failed", "device", port.Name(), "error", runErr)
		return runErr
	}
	logger.Info("session ended", "moves", ctrl.Status().Stats.Moves)
	return nil
}
