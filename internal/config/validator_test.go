package config

import (
	"strings"
	"testing"
	"time"
)

func hasFieldError(errs []ValidationError, field string) bool {
	for _, err := range errs {
		if err.Field == field {
			return true
		}
	}
	return false
}

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "test.field", Value: 123, Message: "is invalid"},
		}
		expected := "test.field: is invalid (got: 123)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "field1", Value: "bad", Message: "is invalid"},
			{Field: "field2", Value: -1, Message: "must be positive"},
		}
		result := errs.Error()
		if !strings.Contains(result, "2 validation errors") {
			t.Errorf("Error() should mention 2 errors: %s", result)
		}
		if !strings.Contains(result, "field1") || !strings.Contains(result, "field2") {
			t.Errorf("Error() should mention both fields: %s", result)
		}
	})
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	cfg := Default()
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Default config should be valid, got errors: %v", errs)
	}
}

func TestConfig_Validate_Board(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		field   string
		wantErr bool
	}{
		{"window size 1", func(c *Config) { c.Board.WindowSize = 1 }, "board.window_size", false},
		{"window size zero", func(c *Config) { c.Board.WindowSize = 0 }, "board.window_size", true},
		{"window size too large", func(c *Config) { c.Board.WindowSize = 65 }, "board.window_size", true},
		{"threshold zero", func(c *Config) { c.Board.StabilityThreshold = 0 }, "board.stability_threshold", false},
		{"threshold negative", func(c *Config) { c.Board.StabilityThreshold = -1 }, "board.stability_threshold", true},
		{"lift timeout zero", func(c *Config) { c.Board.LiftTimeout = 0 }, "board.lift_timeout", true},
		{"lift timeout 500ms", func(c *Config) { c.Board.LiftTimeout = 500 * time.Millisecond }, "board.lift_timeout", false},
		{"lift timeout too long", func(c *Config) { c.Board.LiftTimeout = 2 * time.Minute }, "board.lift_timeout", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			got := hasFieldError(cfg.Validate(), tt.field)
			if got != tt.wantErr {
				t.Errorf("error on %s = %v, want %v", tt.field, got, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_Serial(t *testing.T) {
	t.Run("every supported baud rate is valid", func(t *testing.T) {
		for _, rate := range ValidBaudRates() {
			cfg := Default()
			cfg.Serial.BaudRate = rate
			if hasFieldError(cfg.Validate(), "serial.baud_rate") {
				t.Errorf("baud rate %d should be valid", rate)
			}
		}
	})

	t.Run("unsupported baud rate", func(t *testing.T) {
		cfg := Default()
		cfg.Serial.BaudRate = 9601
		if !hasFieldError(cfg.Validate(), "serial.baud_rate") {
			t.Error("expected error for baud rate 9601")
		}
	})

	t.Run("blank device", func(t *testing.T) {
		cfg := Default()
		cfg.Serial.Device = "  "
		if !hasFieldError(cfg.Validate(), "serial.device") {
			t.Error("expected error for blank device")
		}
	})
}

func TestConfig_Validate_Consumer(t *testing.T) {
	cfg := Default()
	cfg.Consumer.Path = "-"
	if hasFieldError(cfg.Validate(), "consumer.path") {
		t.Error(`"-" should be a valid consumer path`)
	}

	cfg.Consumer.Path = ""
	if !hasFieldError(cfg.Validate(), "consumer.path") {
		t.Error("expected error for empty consumer path")
	}
}

func TestConfig_Validate_Logging(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "INFO", ""} {
			cfg := Default()
			cfg.Logging.Level = level
			if hasFieldError(cfg.Validate(), "logging.level") {
				t.Errorf("level %q should be valid", level)
			}
		}
	})

	t.Run("invalid log level", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Level = "verbose"
		if !hasFieldError(cfg.Validate(), "logging.level") {
			t.Error("expected error for invalid log level")
		}
	})

	t.Run("max size bounds", func(t *testing.T) {
		for size, wantErr := range map[int]bool{-1: true, 0: false, 10: false, 1000: false, 1001: true} {
			cfg := Default()
			cfg.Logging.MaxSizeMB = size
			if got := hasFieldError(cfg.Validate(), "logging.max_size_mb"); got != wantErr {
				t.Errorf("max_size_mb %d: error = %v, want %v", size, got, wantErr)
			}
		}
	})

	t.Run("negative backups", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.MaxBackups = -1
		if !hasFieldError(cfg.Validate(), "logging.max_backups") {
			t.Error("expected error for negative max_backups")
		}
	})
}

func TestConfig_Validate_Monitor(t *testing.T) {
	t.Run("themes", func(t *testing.T) {
		for _, theme := range []string{"dark", "light", ""} {
			cfg := Default()
			cfg.Monitor.Theme = theme
			if hasFieldError(cfg.Validate(), "monitor.theme") {
				t.Errorf("theme %q should be valid", theme)
			}
		}
		cfg := Default()
		cfg.Monitor.Theme = "solarized"
		if !hasFieldError(cfg.Validate(), "monitor.theme") {
			t.Error("expected error for unknown theme")
		}
	})

	t.Run("colors", func(t *testing.T) {
		cfg := Default()
		cfg.Monitor.LightColor = "white"
		cfg.Monitor.DarkColor = "#12345"
		cfg.Monitor.MoveColor = "256"
		errs := cfg.Validate()
		for _, field := range []string{"monitor.light_color", "monitor.dark_color", "monitor.move_color"} {
			if !hasFieldError(errs, field) {
				t.Errorf("expected error for %s", field)
			}
		}
	})

	t.Run("history bounds", func(t *testing.T) {
		cfg := Default()
		cfg.Monitor.History = -1
		if !hasFieldError(cfg.Validate(), "monitor.history") {
			t.Error("expected error for negative history")
		}
		cfg.Monitor.History = 0
		if hasFieldError(cfg.Validate(), "monitor.history") {
			t.Error("zero history should be valid")
		}
	})
}

func TestIsValidColor(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"#fff", true},
		{"#EEEED2", true},
		{"0", true},
		{"255", true},
		{"256", false},
		{"-1", false},
		{"#ggg", false},
		{"red", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidColor(tt.in); got != tt.want {
			t.Errorf("IsValidColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Board.WindowSize = 0
	cfg.Serial.Device = ""
	cfg.Logging.Level = "loud"

	errs := cfg.Validate()
	if len(errs) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(errs), errs)
	}
}
