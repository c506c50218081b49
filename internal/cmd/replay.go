package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/chessbridge/internal/errors"
	"github.com/Iron-Ham/chessbridge/internal/event"
	"github.com/Iron-Ham/chessbridge/internal/session"
	"github.com/Iron-Ham/chessbridge/internal/sink"
	"github.com/Iron-Ham/chessbridge/internal/transport"
)

var replayCmd = &cobra.Command{
	Use:   "replay [capture]",
	Short: "Run the move pipeline over a recorded capture",
	Long: `Feed a capture of snapshot records through the move pipeline, exactly as
if they arrived from the board. A capture is a text file with one
64-character record per line; "-" or no argument reads standard input.

Moves go to the consumer output as in 'chessbridge run'. The messages the
board would have received go to stderr, or to the file named by
--hardware.

Records are processed as fast as they are read, so a lift never times out
during a replay of a finished capture. Use --follow to process a capture
that is still being written, like tail -f.

Examples:
  # Replay a capture and print the moves
  chessbridge replay game.txt -o -

  # Process records as another program appends them
  chessbridge replay --follow /tmp/board.log

  # Build a capture with the snapshot command
  chessbridge snapshot --start -n 6 | chessbridge replay -o -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

var (
	replayFollow   bool
	replayHardware string
	replayVerbose  bool
)

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().BoolVarP(&replayFollow, "follow", "f", false, "Keep reading records appended to the capture")
	replayCmd.Flags().StringVar(&replayHardware, "hardware", "", "File for board messages (default: stderr)")
	replayCmd.Flags().BoolVarP(&replayVerbose, "verbose", "v", false, "Print session events to stderr")
}

// stdinIsTerminal is swapped in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(os.Stdin.Fd())
}

func runReplay(cmd *cobra.Command, args []string) error {
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	if path == "-" && replayFollow {
		return errors.New("--follow needs a capture file, not standard input")
	}
	if path == "-" && stdinIsTerminal() {
		return errors.New("no capture given and standard input is a terminal\nPass a capture file or pipe records in")
	}

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
	logger := base.WithSession(newRunID())

	consumer, err := openConsumer(cfg)
	if err != nil {
		return err
	}
	defer consumer.Close()

	hwOut, closeHw, err := openHardwareOutput(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeHw()

	bus := event.NewBus()
	if replayVerbose {
		echoEvents(bus, cmd.ErrOrStderr())
	}

	ctrl := session.New(session.SettingsFrom(cfg), consumer, sink.NewHardware(hwOut),
		session.WithLogger(logger),
		session.WithBus(bus),
	)

	logger.Info("replay started", "capture", path, "follow", replayFollow)
	runErr := replay(ctx, ctrl, path, replayFollow, cmd.InOrStdin())
	printSummary(cmd.ErrOrStderr(), ctrl.Status().Stats)
	if runErr != nil {
		logger.Error("replay failed", "capture", path, "error", runErr)
		return runErr
	}
	return nil
}

// replay drives ctrl from the capture at path. stdin is used for "-".
func replay(ctx context.Context, ctrl *session.Controller, path string, follow bool, stdin io.Reader) error {
	if follow {
		return transport.Follow(ctx, path, ctrl.HandleLine)
	}
	if path == "-" {
		return ctrl.Run(ctx, stdin)
	}
	capture, err := transport.OpenCapture(appFs, path)
	if err != nil {
		return err
	}
	defer capture.Close()
	return ctrl.Run(ctx, capture)
}

func openHardwareOutput(fallback io.Writer) (io.Writer, func(), error) {
	if replayHardware == "" || replayHardware == "-" {
		return fallback, func() {}, nil
	}
	f, err := appFs.OpenFile(replayHardware, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open hardware output")
	}
	return f, func() { _ = f.Close() }, nil
}
