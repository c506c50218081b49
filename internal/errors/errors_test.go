package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

// -----------------------------------------------------------------------------
// Severity Tests
// -----------------------------------------------------------------------------

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindInputFraming, "input_framing"},
		{KindOutOfBounds, "out_of_bounds"},
		{KindNullMove, "null_move"},
		{KindPatternUnrecognized, "pattern_unrecognized"},
		{KindLiftTimeout, "lift_timeout"},
		{KindSinkWriteFailure, "sink_write_failure"},
		{KindUnknown, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// DiagnosticError Tests
// -----------------------------------------------------------------------------

func TestDiagnosticError(t *testing.T) {
	t.Run("out of bounds", func(t *testing.T) {
		err := NewOutOfBounds("e2", "j9")
		if !errors.Is(err, ErrOutOfBounds) {
			t.Error("expected errors.Is(err, ErrOutOfBounds)")
		}
		if err.Kind() != KindOutOfBounds {
			t.Errorf("Kind() = %v, want %v", err.Kind(), KindOutOfBounds)
		}
		want := "move diagnostic [from=e2, to=j9]: Coordinates out of board"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("null move", func(t *testing.T) {
		err := NewNullMove("a1")
		if !errors.Is(err, ErrNullMove) {
			t.Error("expected errors.Is(err, ErrNullMove)")
		}
		if err.HardwareMessage() != "Piece didn't move" {
			t.Errorf("HardwareMessage() = %q", err.HardwareMessage())
		}
		if err.Severity() != SeverityInfo {
			t.Errorf("Severity() = %v, want info", err.Severity())
		}
	})

	t.Run("pattern unrecognized", func(t *testing.T) {
		err := NewPatternUnrecognized(5)
		if !errors.Is(err, ErrPatternUnrecognized) {
			t.Error("expected errors.Is(err, ErrPatternUnrecognized)")
		}
		if errors.Is(err, ErrNullMove) {
			t.Error("pattern error should not match ErrNullMove")
		}
		if err.Error() != "move diagnostic [diffs=5]: Unrecognized move pattern" {
			t.Errorf("Error() = %q", err.Error())
		}
	})

	t.Run("matches by type through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("classify: %w", NewNullMove("b2"))
		var diag *DiagnosticError
		if !errors.As(wrapped, &diag) {
			t.Fatal("errors.As failed on wrapped diagnostic")
		}
		if diag.From != "b2" {
			t.Errorf("From = %q, want b2", diag.From)
		}
		if !errors.Is(wrapped, &DiagnosticError{}) {
			t.Error("expected type match via Is")
		}
	})

	t.Run("classification", func(t *testing.T) {
		err := NewPatternUnrecognized(3)
		if !IsHardwareVisible(err) {
			t.Error("diagnostics must be hardware visible")
		}
		if GetSeverity(err) != SeverityWarning {
			t.Errorf("GetSeverity() = %v, want warning", GetSeverity(err))
		}
		if err.WithSeverity(SeverityInfo).Severity() != SeverityInfo {
			t.Error("WithSeverity did not apply")
		}
	})
}

// -----------------------------------------------------------------------------
// FramingError Tests
// -----------------------------------------------------------------------------

func TestFramingError(t *testing.T) {
	err := NewFramingError("0101", "record must be 64 cells")

	if !errors.Is(err, ErrInputFraming) {
		t.Error("expected errors.Is(err, ErrInputFraming)")
	}
	if err.Length != 4 {
		t.Errorf("Length = %d, want 4", err.Length)
	}
	if IsHardwareVisible(err) {
		t.Error("framing errors must not reach the board")
	}
	if KindOf(err) != KindInputFraming {
		t.Errorf("KindOf() = %v", KindOf(err))
	}
	if err.Error() != "input framing [len=4]: record must be 64 cells" {
		t.Errorf("Error() = %q", err.Error())
	}
}

// -----------------------------------------------------------------------------
// SinkError Tests
// -----------------------------------------------------------------------------

func TestSinkError(t *testing.T) {
	err := NewSinkError("consumer", io.ErrClosedPipe)

	if !errors.Is(err, ErrSinkWrite) {
		t.Error("expected errors.Is(err, ErrSinkWrite)")
	}
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Error("expected cause to be reachable")
	}
	if KindOf(err) != KindSinkWriteFailure {
		t.Errorf("KindOf() = %v", KindOf(err))
	}
	want := "sink error [sink=consumer]: write failed: io: read/write on closed pipe"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

// -----------------------------------------------------------------------------
// Helper Tests
// -----------------------------------------------------------------------------

func TestIsHardwareVisible(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"diagnostic", NewOutOfBounds("a1", "i1"), true},
		{"wrapped diagnostic", fmt.Errorf("classify: %w", NewNullMove("c3")), true},
		{"framing", NewFramingError("01", "too short"), false},
		{"sink", NewSinkError("hardware", io.ErrShortWrite), false},
		{"lift timeout sentinel", ErrLiftTimeout, false},
		{"plain error", New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHardwareVisible(tt.err); got != tt.want {
				t.Errorf("IsHardwareVisible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetSeverity(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Severity
	}{
		{"nil", nil, SeverityDebug},
		{"pattern", NewPatternUnrecognized(4), SeverityWarning},
		{"null move", NewNullMove("e2"), SeverityInfo},
		{"sink", NewSinkError("consumer", io.ErrClosedPipe), SeverityError},
		{"plain error", New("boom"), SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetSeverity(tt.err); got != tt.want {
				t.Errorf("GetSeverity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKindOf_Sentinels(t *testing.T) {
	if KindOf(nil) != KindUnknown {
		t.Error("nil should be KindUnknown")
	}
	if KindOf(fmt.Errorf("x: %w", ErrLiftTimeout)) != KindLiftTimeout {
		t.Error("wrapped ErrLiftTimeout should be KindLiftTimeout")
	}
	if KindOf(New("other")) != KindUnknown {
		t.Error("unrelated error should be KindUnknown")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	err := Wrapf(ErrSinkUnavailable, "open %s", "/tmp/fifo")
	if !errors.Is(err, ErrSinkUnavailable) {
		t.Error("Wrapf lost the cause")
	}
	if err.Error() != "open /tmp/fifo: output sink unavailable" {
		t.Errorf("Error() = %q", err.Error())
	}
}
