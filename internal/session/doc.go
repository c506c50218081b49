// Package session drives one board from raw records to delivered moves.
//
// A Controller owns the debouncer, the previous-stable and pending-lift
// state, and the two sinks for its whole lifetime. Records are fed in one at
// a time, either line by line through [Controller.HandleLine] or as parsed
// snapshots through [Controller.Process]; [Controller.Run] does the former
// for an io.Reader until it is exhausted.
//
// The pipeline per stable state:
//
//	first stable state    recorded as the baseline, nothing emitted
//	classified move       consumer gets "e2e4", hardware gets "MOVE:e2e4",
//	                      baseline advances
//	diagnostic            hardware gets "ERROR:<message>", baseline stays
//	no change / lift      nothing emitted
//
// Sink failures are logged and published as [event.SinkFailedEvent]; they
// never stop the controller.
//
// The controller is single-threaded. Observers such as the terminal monitor
// subscribe to the [event.Bus] passed with [WithBus].
//
// Lifecycle:
//
//	c := session.New(session.SettingsFrom(cfg), consumer, hardware,
//		session.WithLogger(logger), session.WithBus(bus))
//	err := c.Run(ctx, port)
//
// A [Lock] keeps a second bridge from reading the same device.
package session
