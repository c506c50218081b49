// Package event provides a pub-sub event bus that lets the session
// controller report what it does without knowing who is listening.
//
// The controller publishes; the run command logs, and the terminal monitor
// redraws. Neither listener can influence the move pipeline.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub event dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// Board:
//   - [BoardBaselineEvent]: first stable state of the session
//   - [BoardChangedEvent]: the debounced board settled on a new state
//
// Moves:
//   - [MoveAcceptedEvent]: a move was delivered to the sinks
//   - [MoveRejectedEvent]: a stable change produced a diagnostic
//   - [LiftChangedEvent]: a pending lift was recorded, resolved, expired or reset
//
// Pipeline:
//   - [InputDroppedEvent]: a raw record failed the framing check
//   - [SnapshotDroppedEvent]: a snapshot arrived during a classification
//   - [SinkFailedEvent]: an output sink rejected a write
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. Handlers are called
// synchronously and protected against panics.
//
// # Basic Usage
//
//	bus := event.NewBus()
//
//	bus.Subscribe(event.TypeMoveAccepted, func(e event.Event) {
//	    accepted := e.(event.MoveAcceptedEvent)
//	    fmt.Println(accepted.Notation)
//	})
//
//	bus.SubscribeAll(func(e event.Event) {
//	    logger.Debug("event", "type", e.EventType())
//	})
package event
