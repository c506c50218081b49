// Package errors provides centralized error definitions and error handling utilities
// for the chessbridge codebase. It defines the diagnostic taxonomy of the move
// pipeline, typed errors carrying board context, and classification helpers.
//
// # Error Kinds
//
// Every error raised while turning sensor records into moves belongs to one
// [Kind]:
//   - InputFraming: a raw record was not 64 characters of '0'/'1'
//   - OutOfBounds: a coordinate fell outside the 8x8 grid
//   - NullMove: source and destination squares are the same
//   - PatternUnrecognized: the board diff matches no known move shape
//   - LiftTimeout: a pending lift exceeded its deadline
//   - SinkWriteFailure: writing to an output sink failed
//
// None of these stop a running session. Only startup failures (opening the
// transport, opening a sink, invalid configuration) are fatal.
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewNullMove("e2")
//	err := errors.NewPatternUnrecognized(3)
//	err := errors.NewSinkError("consumer", ioErr)
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrNullMove) { ... }
//
//	var diag *errors.DiagnosticError
//	if errors.As(err, &diag) {
//	    hw.Report(diag.HardwareMessage())
//	}
//
//	if errors.IsHardwareVisible(err) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is   = errors.Is
	As   = errors.As
	New  = errors.New
	Join = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Kind classifies an error within the move pipeline.
type Kind int

const (
	KindUnknown Kind = iota
	KindInputFraming
	KindOutOfBounds
	KindNullMove
	KindPatternUnrecognized
	KindLiftTimeout
	KindSinkWriteFailure
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindInputFraming:
		return "input_framing"
	case KindOutOfBounds:
		return "out_of_bounds"
	case KindNullMove:
		return "null_move"
	case KindPatternUnrecognized:
		return "pattern_unrecognized"
	case KindLiftTimeout:
		return "lift_timeout"
	case KindSinkWriteFailure:
		return "sink_write_failure"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Move diagnostics. The text of these errors is what the board receives after
// "ERROR:", so it stays short and ASCII.
var (
	// ErrOutOfBounds indicates a coordinate outside the 8x8 grid.
	ErrOutOfBounds = New("Coordinates out of board")
	// ErrNullMove indicates the source and destination squares are equal.
	ErrNullMove = New("Piece didn't move")
	// ErrPatternUnrecognized indicates a diff shape that matches no move class.
	ErrPatternUnrecognized = New("Unrecognized move pattern")
)

// Pipeline errors that never reach the board.
var (
	// ErrInputFraming indicates a malformed raw record.
	ErrInputFraming = New("malformed board record")
	// ErrLiftTimeout indicates a pending lift passed its deadline.
	ErrLiftTimeout = New("pending lift expired")
	// ErrSinkWrite indicates an output sink rejected a write.
	ErrSinkWrite = New("sink write failed")
)

// Startup errors. These are the only fatal errors.
var (
	// ErrTransportUnavailable indicates the board transport could not be opened.
	ErrTransportUnavailable = New("board transport unavailable")
	// ErrSinkUnavailable indicates an output sink could not be opened.
	ErrSinkUnavailable = New("output sink unavailable")
	// ErrInvalidConfig indicates the configuration failed validation.
	ErrInvalidConfig = New("invalid configuration")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// BridgeError is the base interface for all chessbridge errors.
type BridgeError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// Kind returns the pipeline classification of this error.
	Kind() Kind

	// IsHardwareVisible returns true if the error is reported to the board.
	IsHardwareVisible() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message  string
	cause    error
	severity Severity
	kind     Kind
	hardware bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil && e.cause.Error() != e.message {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// Kind returns the error kind.
func (e *baseError) Kind() Kind {
	return e.kind
}

// IsHardwareVisible returns whether the error is sent to the board.
func (e *baseError) IsHardwareVisible() bool {
	return e.hardware
}

// -----------------------------------------------------------------------------
// Diagnostic Errors
// -----------------------------------------------------------------------------

// DiagnosticError is produced by move inference when a stable board change
// cannot be turned into a move. It is reported on the hardware sink.
//
// Example:
//
//	err := errors.NewOutOfBounds("e2", "j9")
//	fmt.Println(err) // "move diagnostic [from=e2, to=j9]: Coordinates out of board"
type DiagnosticError struct {
	baseError
	From  string
	To    string
	Diffs int
}

func newDiagnostic(kind Kind, sentinel error) *DiagnosticError {
	return &DiagnosticError{
		baseError: baseError{
			message:  sentinel.Error(),
			cause:    sentinel,
			severity: SeverityWarning,
			kind:     kind,
			hardware: true,
		},
	}
}

// NewOutOfBounds reports a coordinate outside the grid.
func NewOutOfBounds(from, to string) *DiagnosticError {
	return newDiagnostic(KindOutOfBounds, ErrOutOfBounds).WithSquares(from, to)
}

// NewNullMove reports a move whose source equals its destination. A piece
// put back where it was lifted is routine, so it carries info severity.
func NewNullMove(square string) *DiagnosticError {
	return newDiagnostic(KindNullMove, ErrNullMove).WithSquares(square, square).WithSeverity(SeverityInfo)
}

// NewPatternUnrecognized reports a diff shape that matches no move class.
func NewPatternUnrecognized(diffs int) *DiagnosticError {
	e := newDiagnostic(KindPatternUnrecognized, ErrPatternUnrecognized)
	e.Diffs = diffs
	return e
}

// WithSquares adds the squares involved to the error context.
func (e *DiagnosticError) WithSquares(from, to string) *DiagnosticError {
	e.From = from
	e.To = to
	return e
}

// WithSeverity sets the error severity.
func (e *DiagnosticError) WithSeverity(s Severity) *DiagnosticError {
	e.severity = s
	return e
}

// HardwareMessage returns the text sent to the board after "ERROR:".
func (e *DiagnosticError) HardwareMessage() string {
	return e.message
}

// Error returns the formatted error message.
func (e *DiagnosticError) Error() string {
	var parts []string
	if e.From != "" {
		parts = append(parts, fmt.Sprintf("from=%s", e.From))
	}
	if e.To != "" {
		parts = append(parts, fmt.Sprintf("to=%s", e.To))
	}
	if e.Diffs > 0 {
		parts = append(parts, fmt.Sprintf("diffs=%d", e.Diffs))
	}

	prefix := "move diagnostic"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("move diagnostic [%s]", strings.Join(parts, ", "))
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *DiagnosticError) Is(target error) bool {
	if _, ok := target.(*DiagnosticError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Framing Errors
// -----------------------------------------------------------------------------

// FramingError describes a raw record that failed the 64-cell shape check.
// It is logged and the record dropped; it never reaches the debouncer.
type FramingError struct {
	baseError
	Record string
	Length int
}

// NewFramingError creates a FramingError for the given record.
func NewFramingError(record, reason string) *FramingError {
	return &FramingError{
		baseError: baseError{
			message:  reason,
			cause:    ErrInputFraming,
			severity: SeverityWarning,
			kind:     KindInputFraming,
		},
		Record: record,
		Length: len(record),
	}
}

// Error returns the formatted error message.
func (e *FramingError) Error() string {
	return fmt.Sprintf("input framing [len=%d]: %s", e.Length, e.message)
}

// Is checks if this error matches the target.
func (e *FramingError) Is(target error) bool {
	if _, ok := target.(*FramingError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Sink Errors
// -----------------------------------------------------------------------------

// SinkError wraps an I/O failure on one of the output sinks.
type SinkError struct {
	baseError
	Sink string
}

// NewSinkError creates a SinkError for the named sink.
func NewSinkError(sink string, cause error) *SinkError {
	return &SinkError{
		baseError: baseError{
			message:  "write failed",
			cause:    cause,
			severity: SeverityError,
			kind:     KindSinkWriteFailure,
		},
		Sink: sink,
	}
}

// Error returns the formatted error message.
func (e *SinkError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("sink error [sink=%s]: %s: %v", e.Sink, e.message, e.cause)
	}
	return fmt.Sprintf("sink error [sink=%s]: %s", e.Sink, e.message)
}

// Is checks if this error matches the target.
func (e *SinkError) Is(target error) bool {
	if _, ok := target.(*SinkError); ok {
		return true
	}
	if target == ErrSinkWrite {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// KindOf returns the pipeline kind of err, or KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var bridgeErr BridgeError
	if As(err, &bridgeErr) {
		return bridgeErr.Kind()
	}
	switch {
	case Is(err, ErrInputFraming):
		return KindInputFraming
	case Is(err, ErrLiftTimeout):
		return KindLiftTimeout
	case Is(err, ErrSinkWrite):
		return KindSinkWriteFailure
	}
	return KindUnknown
}

// IsHardwareVisible returns true if err should be reported to the board.
func IsHardwareVisible(err error) bool {
	if err == nil {
		return false
	}
	var bridgeErr BridgeError
	if As(err, &bridgeErr) {
		return bridgeErr.IsHardwareVisible()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement BridgeError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	var bridgeErr BridgeError
	if As(err, &bridgeErr) {
		return bridgeErr.Severity()
	}
	return SeverityError
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to open serial device")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to open %s", path)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
