package session

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/Iron-Ham/chessbridge/internal/board"
	"github.com/Iron-Ham/chessbridge/internal/debounce"
	"github.com/Iron-Ham/chessbridge/internal/errors"
	"github.com/Iron-Ham/chessbridge/internal/event"
	"github.com/Iron-Ham/chessbridge/internal/inference"
	"github.com/Iron-Ham/chessbridge/internal/logging"
	"github.com/Iron-Ham/chessbridge/internal/transport"
)

// Controller runs the move pipeline for one board. It owns the debouncer,
// the session state and the sink handles for its whole lifetime.
//
// A Controller is driven by a single reader loop and is not safe for
// concurrent use. Observers should subscribe to the event bus instead of
// calling into it from other goroutines.
type Controller struct {
	settings  Settings
	debouncer *debounce.Debouncer
	engine    *inference.Engine
	state     inference.State

	consumer MoveSink
	hardware HardwareSink
	bus      *event.Bus
	logger   *logging.Logger

	lastStable   *board.Snapshot
	lastReported string
	lastMove     inference.Move
	stats        Stats
}

// New creates a Controller. Either sink may be nil, in which case that
// channel is skipped.
func New(settings Settings, consumer MoveSink, hardware HardwareSink, opts ...Option) *Controller {
	o := &options{
		logger: logging.NopLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.NopLogger()
	}
	if o.now == nil {
		o.now = time.Now
	}

	c := &Controller{
		settings:  settings,
		debouncer: debounce.New(settings.WindowSize, settings.StabilityThreshold),
		consumer:  consumer,
		hardware:  hardware,
		bus:       o.bus,
		logger:    o.logger.WithComponent("session"),
	}
	c.engine = inference.NewEngine(
		inference.WithLiftTimeout(settings.LiftTimeout),
		inference.WithClock(o.now),
		inference.WithLiftHook(c.onLift),
	)
	return c
}

// Run feeds every line read from r to HandleLine until r is exhausted or
// ctx is cancelled.
func (c *Controller) Run(ctx context.Context, r io.Reader) error {
	return transport.ReadLines(ctx, r, c.HandleLine)
}

// HandleLine parses one raw record and processes it. Blank lines are
// ignored; records that are not 64 cells of '0'/'1' are logged and dropped
// before they reach the debouncer.
func (c *Controller) HandleLine(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	c.stats.Records++

	snap, err := board.ParseSnapshot(line)
	if err != nil {
		c.stats.Framing++
		length := len(line)
		var fe *errors.FramingError
		if errors.As(err, &fe) {
			length = fe.Length
		}
		c.logger.Warn("dropped malformed record", "error", err.Error(), "length", length)
		c.publish(event.NewInputDroppedEvent(err.Error(), length))
		return
	}
	c.Process(snap)
}

// Process runs one snapshot through the pipeline.
//
// The first stable state becomes the baseline without producing a move.
// After that every stable state is classified; a move goes to both sinks
// and becomes the new baseline, a diagnostic goes to the hardware sink only
// and leaves the baseline where it was.
func (c *Controller) Process(raw board.Snapshot) {
	if c.state.Busy {
		c.stats.Dropped++
		c.logger.Debug("snapshot dropped while busy")
		c.publish(event.NewSnapshotDroppedEvent())
		return
	}

	stable, ok := c.debouncer.Ingest(raw)
	if !ok {
		return
	}
	c.stats.Stable++

	if c.state.PreviousStable == nil {
		baseline := stable
		c.state.PreviousStable = &baseline
		c.lastStable = &baseline
		c.debouncer.ResetCounter()
		c.logger.Info("baseline recorded", "pieces", stable.Count())
		c.publish(event.NewBoardBaselineEvent(stable))
		return
	}

	c.state.Busy = true
	defer func() { c.state.Busy = false }()

	c.observe(stable)

	move, err := c.engine.Classify(&c.state, stable)
	switch {
	case err != nil:
		c.diagnose(stable, err)
	case !move.IsNone():
		c.deliver(stable, move)
	}
}

// observe announces a stable state that differs from the previous one.
func (c *Controller) observe(stable board.Snapshot) {
	if c.lastStable != nil && *c.lastStable == stable {
		return
	}
	s := stable
	c.lastStable = &s
	c.lastReported = ""
	c.logger.Debug("board settled", "board", stable.String())
	c.publish(event.NewBoardChangedEvent(stable))
}

func (c *Controller) deliver(stable board.Snapshot, move inference.Move) {
	notation := move.Notation()

	if c.consumer != nil {
		if err := c.consumer.WriteMove(notation); err != nil {
			c.sinkFailed("consumer", err)
		}
	}
	if c.hardware != nil {
		if err := c.hardware.Acknowledge(notation); err != nil {
			c.sinkFailed("hardware", err)
		}
	}

	next := stable
	c.state.PreviousStable = &next
	c.debouncer.ResetCounter()
	c.lastMove = move
	c.lastReported = ""
	c.stats.Moves++

	c.logger.Info("move accepted", "move", notation, "kind", move.Kind.String(), "seq", c.stats.Moves)
	c.publish(event.NewMoveAcceptedEvent(notation, move.Kind.String(), move.From, move.To, stable, c.stats.Moves))
}

func (c *Controller) diagnose(stable board.Snapshot, err error) {
	message := err.Error()
	var diag *errors.DiagnosticError
	if errors.As(err, &diag) {
		message = diag.HardwareMessage()
	}
	kind := errors.KindOf(err).String()

	if c.settings.SuppressRepeats && c.lastReported == message {
		c.stats.Suppressed++
		c.logger.Debug("repeated diagnostic suppressed", "kind", kind)
		return
	}
	c.lastReported = message
	c.stats.Diagnostics++

	c.logRejection(err, kind)
	if c.hardware != nil && errors.IsHardwareVisible(err) {
		if werr := c.hardware.Report(message); werr != nil {
			c.sinkFailed("hardware", werr)
		}
	}
	c.publish(event.NewMoveRejectedEvent(kind, message, stable))
}

// logRejection logs a rejected change at the level its error carries.
func (c *Controller) logRejection(err error, kind string) {
	args := []any{"kind", kind, "error", err.Error()}
	switch errors.GetSeverity(err) {
	case errors.SeverityDebug:
		c.logger.Debug("move rejected", args...)
	case errors.SeverityInfo:
		c.logger.Info("move rejected", args...)
	case errors.SeverityWarning:
		c.logger.Warn("move rejected", args...)
	default:
		c.logger.Error("move rejected", args...)
	}
}

func (c *Controller) sinkFailed(name string, err error) {
	c.stats.SinkErrors++
	c.logger.Error("sink write failed", "sink", name, "error", err.Error())
	c.publish(event.NewSinkFailedEvent(name, err))
}

func (c *Controller) onLift(transition inference.LiftTransition, lift inference.PendingLift) {
	c.logger.Debug("pending lift "+string(transition), "square", lift.Square.String(), "deadline", lift.Deadline)
	c.publish(event.NewLiftChangedEvent(string(transition), lift.Square, lift.Deadline))
}

func (c *Controller) publish(e event.Event) {
	if c.bus != nil {
		c.bus.Publish(e)
	}
}

// Status returns a copy of the controller's state.
func (c *Controller) Status() Status {
	st := Status{
		Busy:       c.state.Busy,
		Counter:    c.debouncer.Counter(),
		WindowFill: c.debouncer.Len(),
		LastMove:   c.lastMove,
		Stats:      c.stats,
	}
	if c.state.PreviousStable != nil {
		b := *c.state.PreviousStable
		st.Baseline = &b
	}
	if c.state.PendingLift != nil {
		l := *c.state.PendingLift
		st.PendingLift = &l
	}
	return st
}

// Settings returns the settings the controller was created with.
func (c *Controller) Settings() Settings {
	return c.settings
}
