package session

import (
	"time"

	"github.com/Iron-Ham/chessbridge/internal/event"
	"github.com/Iron-Ham/chessbridge/internal/logging"
)

// Option configures a Controller.
type Option func(*options)

type options struct {
	logger *logging.Logger
	bus    *event.Bus
	now    func() time.Time
}

// WithLogger sets the logger for the controller.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithBus publishes the controller's events on bus.
func WithBus(bus *event.Bus) Option {
	return func(o *options) {
		o.bus = bus
	}
}

// WithClock replaces time.Now for lift deadlines.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}
