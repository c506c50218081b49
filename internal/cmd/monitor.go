package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/chessbridge/internal/errors"
	"github.com/Iron-Ham/chessbridge/internal/event"
	"github.com/Iron-Ham/chessbridge/internal/monitor"
	"github.com/Iron-Ham/chessbridge/internal/session"
	"github.com/Iron-Ham/chessbridge/internal/sink"
	"github.com/Iron-Ham/chessbridge/internal/transport"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor [capture]",
	Short: "Run the bridge with a live board view",
	Long: `Run the move pipeline and show the debounced board in the terminal: the
occupied squares, the last move, a piece that is currently lifted, the
recent moves and the last message sent to the board.

Without an argument the board's serial device is used, as in
'chessbridge run'. With a capture file the records are replayed instead and
no messages are written back to a board.

Logs go to logging.dir, or to the logs directory under the config
directory when it is unset. Moves cannot be written to stdout while the
monitor owns the terminal.

Keys: f flips the board, h toggles the move highlight, c clears the move
list, ? shows all keys, q quits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMonitor,
}

var (
	monitorFollow bool
	monitorNoLock bool
)

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().BoolVarP(&monitorFollow, "follow", "f", false, "Keep reading records appended to the capture")
	monitorCmd.Flags().BoolVar(&monitorNoLock, "no-lock", false, "Do not take the device lock")
}

// monitorSource is the reader half of a monitor run.
type monitorSource struct {
	name     string
	hardware session.HardwareSink
	read     func(ctx context.Context, ctrl *session.Controller) error
	close    func()
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Consumer.Path == sink.StdoutPath {
		return errors.New("the monitor owns stdout; set consumer.path or --output to a file")
	}
	if len(args) == 1 && args[0] == "-" {
		return errors.New("the monitor reads keys from stdin; pass a capture file")
	}
	if monitorFollow && len(args) == 0 {
		return errors.New("--follow needs a capture file")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	base, err := openLogger(cfg, defaultLogDir())
	if err != nil {
		return errors.Wrap(err, "failed to open log")
	}
	defer base.Close()
	runID := newRunID()
	logger := base.WithSession(runID)

	var src *monitorSource
	if len(args) == 1 {
		src = captureSource(args[0], monitorFollow)
	} else {
		port, err := openBoard(cfg, runID, logger, monitorNoLock)
		if err != nil {
			return err
		}
		src = serialSource(port)
	}
	defer src.close()

	consumer, err := openConsumer(cfg)
	if err != nil {
		return err
	}
	defer consumer.Close()

	bus := event.NewBus()
	ctrl := session.New(session.SettingsFrom(cfg), consumer, src.hardware,
		session.WithLogger(logger),
		session.WithBus(bus),
	)
	app := monitor.NewApp(ctx, monitor.New(cfg.Monitor, src.name), bus)

	var wg conc.WaitGroup
	wg.Go(func() {
		readErr := src.read(ctx, ctrl)
		if readErr != nil {
			logger.Error("input failed", "source", src.name, "error", readErr)
		} else {
			logger.Info("input closed", "source", src.name, "moves", ctrl.Status().Stats.Moves)
		}
		app.SessionEnded(readErr)
	})

	uiErr := app.Run()
	cancel()
	wg.Wait()

	printSummary(cmd.ErrOrStderr(), ctrl.Status().Stats)
	return uiErr
}

func serialSource(port *transport.Port) *monitorSource {
	return &monitorSource{
		name:     port.Name(),
		hardware: sink.NewHardware(port),
		read: func(ctx context.Context, ctrl *session.Controller) error {
			return ctrl.Run(ctx, port)
		},
		close: func() { _ = port.Close() },
	}
}

func captureSource(path string, follow bool) *monitorSource {
	return &monitorSource{
		name: path,
		read: func(ctx context.Context, ctrl *session.Controller) error {
			return replay(ctx, ctrl, path, follow, nil)
		},
		close: func() {},
	}
}
