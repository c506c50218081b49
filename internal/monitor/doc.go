// Package monitor renders the live board in the terminal.
//
// The monitor is a bubbletea program driven entirely by session events: the
// [App] subscribes to the event bus and forwards every event with
// Program.Send, which is safe to call from the reader goroutine. It shows the
// debounced occupancy grid, the squares of the last move, a pending lift, the
// recent move list and the last diagnostic sent to the board.
//
// Square colors, the theme and the history length come from the monitor
// section of the config.
package monitor
