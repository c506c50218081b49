package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/chessbridge/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.Board.WindowSize != 5 {
		t.Errorf("Board.WindowSize = %d, want 5", cfg.Board.WindowSize)
	}
	if cfg.Board.StabilityThreshold != 3 {
		t.Errorf("Board.StabilityThreshold = %d, want 3", cfg.Board.StabilityThreshold)
	}
	if cfg.Board.LiftTimeout != 2*time.Second {
		t.Errorf("Board.LiftTimeout = %v, want 2s", cfg.Board.LiftTimeout)
	}

	if cfg.Serial.Device != "/dev/rfcomm0" {
		t.Errorf("Serial.Device = %q, want /dev/rfcomm0", cfg.Serial.Device)
	}
	if cfg.Serial.BaudRate != 9600 {
		t.Errorf("Serial.BaudRate = %d, want 9600", cfg.Serial.BaudRate)
	}
	if !cfg.Serial.Raw {
		t.Error("Serial.Raw should be true by default")
	}

	if cfg.Consumer.Path != "./build/arduino_out" {
		t.Errorf("Consumer.Path = %q", cfg.Consumer.Path)
	}
	if cfg.Session.SuppressRepeats {
		t.Error("Session.SuppressRepeats should be false by default")
	}

	if !cfg.Logging.Enabled {
		t.Error("Logging.Enabled should be true by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}

	if cfg.Monitor.Theme != "dark" {
		t.Errorf("Monitor.Theme = %q, want dark", cfg.Monitor.Theme)
	}
	if cfg.Monitor.History != 12 {
		t.Errorf("Monitor.History = %d, want 12", cfg.Monitor.History)
	}
}

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaultsOn(v)
	return v
}

func TestLoadFrom(t *testing.T) {
	t.Run("defaults round trip", func(t *testing.T) {
		cfg, err := LoadFrom(newViper(t))
		if err != nil {
			t.Fatalf("LoadFrom() error = %v", err)
		}
		if cfg.Board.LiftTimeout != 2*time.Second {
			t.Errorf("LiftTimeout = %v, want 2s", cfg.Board.LiftTimeout)
		}
		if cfg.Monitor.MoveColor != Default().Monitor.MoveColor {
			t.Errorf("MoveColor = %q", cfg.Monitor.MoveColor)
		}
	})

	t.Run("duration strings are decoded", func(t *testing.T) {
		v := newViper(t)
		v.Set("board.lift_timeout", "750ms")

		cfg, err := LoadFrom(v)
		if err != nil {
			t.Fatalf("LoadFrom() error = %v", err)
		}
		if cfg.Board.LiftTimeout != 750*time.Millisecond {
			t.Errorf("LiftTimeout = %v, want 750ms", cfg.Board.LiftTimeout)
		}
	})

	t.Run("comma lists are decoded", func(t *testing.T) {
		v := newViper(t)
		v.Set("serial.fallback_devices", "/dev/ttyACM0,/dev/ttyUSB0")

		cfg, err := LoadFrom(v)
		if err != nil {
			t.Fatalf("LoadFrom() error = %v", err)
		}
		want := []string{"/dev/ttyACM0", "/dev/ttyUSB0"}
		if len(cfg.Serial.FallbackDevices) != len(want) {
			t.Fatalf("FallbackDevices = %v, want %v", cfg.Serial.FallbackDevices, want)
		}
		for i := range want {
			if cfg.Serial.FallbackDevices[i] != want[i] {
				t.Errorf("FallbackDevices[%d] = %q, want %q", i, cfg.Serial.FallbackDevices[i], want[i])
			}
		}
	})

	t.Run("yaml file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "board:\n  window_size: 7\n  lift_timeout: 3s\nconsumer:\n  path: \"-\"\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		v := newViper(t)
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			t.Fatalf("ReadInConfig() error = %v", err)
		}

		cfg, err := LoadFrom(v)
		if err != nil {
			t.Fatalf("LoadFrom() error = %v", err)
		}
		if cfg.Board.WindowSize != 7 {
			t.Errorf("WindowSize = %d, want 7", cfg.Board.WindowSize)
		}
		if cfg.Board.LiftTimeout != 3*time.Second {
			t.Errorf("LiftTimeout = %v, want 3s", cfg.Board.LiftTimeout)
		}
		if cfg.Board.StabilityThreshold != 3 {
			t.Errorf("StabilityThreshold = %d, want default 3", cfg.Board.StabilityThreshold)
		}
		if cfg.Consumer.Path != "-" {
			t.Errorf("Consumer.Path = %q, want -", cfg.Consumer.Path)
		}
	})

	t.Run("env vars override defaults", func(t *testing.T) {
		t.Setenv("CHESSBRIDGE_SERIAL_BAUD_RATE", "115200")

		v := newViper(t)
		v.SetEnvPrefix("CHESSBRIDGE")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		cfg, err := LoadFrom(v)
		if err != nil {
			t.Fatalf("LoadFrom() error = %v", err)
		}
		if cfg.Serial.BaudRate != 115200 {
			t.Errorf("BaudRate = %d, want 115200", cfg.Serial.BaudRate)
		}
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		v := newViper(t)
		v.Set("board.window_size", 0)
		v.Set("serial.baud_rate", 1234)

		_, err := LoadFrom(v)
		if err == nil {
			t.Fatal("LoadFrom() should fail validation")
		}
		if !errors.Is(err, errors.ErrInvalidConfig) {
			t.Errorf("error = %v, want ErrInvalidConfig", err)
		}
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("error type = %T, want ValidationErrors inside", err)
		}
		if len(verrs) != 2 {
			t.Errorf("got %d validation errors, want 2: %v", len(verrs), verrs)
		}
	})
}

func TestSerialConfig_Devices(t *testing.T) {
	s := SerialConfig{
		Device:          "/dev/rfcomm0",
		FallbackDevices: []string{"", "/dev/ttyACM0", "/dev/rfcomm0", "/dev/ttyUSB0"},
	}
	got := s.Devices()
	want := []string{"/dev/rfcomm0", "/dev/ttyACM0", "/dev/ttyUSB0"}
	if len(got) != len(want) {
		t.Fatalf("Devices() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Devices()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoggingConfig_ResolveDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		dir  string
		want string
	}{
		{"", ""},
		{"/var/log/chessbridge", "/var/log/chessbridge"},
		{"~", home},
		{"~/logs", filepath.Join(home, "logs")},
		{"relative/logs", "relative/logs"},
	}
	for _, tt := range tests {
		l := LoggingConfig{Dir: tt.dir}
		if got := l.ResolveDir(); got != tt.want {
			t.Errorf("ResolveDir(%q) = %q, want %q", tt.dir, got, tt.want)
		}
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		result := ConfigDir()
		expected := "/custom/config/chessbridge"
		if result != expected {
			t.Errorf("ConfigDir() = %q, want %q", result, expected)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		result := ConfigDir()

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, ".config", "chessbridge")
		if result != expected {
			t.Errorf("ConfigDir() = %q, want %q", result, expected)
		}
	})
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	result := ConfigFile()
	expected := "/custom/config/chessbridge/config.yaml"
	if result != expected {
		t.Errorf("ConfigFile() = %q, want %q", result, expected)
	}
}
