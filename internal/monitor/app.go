package monitor

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/chessbridge/internal/event"
)

// App wraps the bubbletea program and its event subscription.
type App struct {
	ctx     context.Context
	program *tea.Program
	bus     *event.Bus
	subID   string
}

// NewApp creates the monitor program and subscribes it to bus, so events
// published before Run is called are delivered once the program starts.
// Cancelling ctx ends it. Extra options are appended after the defaults
// (alt screen, ctx).
func NewApp(ctx context.Context, model Model, bus *event.Bus, opts ...tea.ProgramOption) *App {
	options := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	a := &App{
		ctx:     ctx,
		program: tea.NewProgram(model, options...),
		bus:     bus,
	}
	a.subID = bus.SubscribeAll(func(e event.Event) {
		a.program.Send(EventMsg{Event: e})
	})
	return a
}

// Run blocks until the user quits or ctx is cancelled.
func (a *App) Run() error {
	defer a.bus.Unsubscribe(a.subID)

	_, err := a.program.Run()
	if err != nil && a.ctx.Err() != nil {
		return nil
	}
	return err
}

// SessionEnded tells the monitor the input reader has stopped.
func (a *App) SessionEnded(err error) {
	a.program.Send(SessionEndedMsg{Err: err})
}
