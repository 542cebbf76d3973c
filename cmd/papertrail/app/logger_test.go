package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestDetermineLogLevel tests the log level precedence logic.
func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		verbose  bool
		quiet    bool
		expected string
	}{
		{"nothing set", "", false, false, "info"},
		{"verbose", "", true, false, "debug"},
		{"quiet", "", false, true, "warn"},
		{"verbose and quiet prefers quiet", "", true, true, "warn"},
		{"explicit level beats verbose", "error", true, false, "error"},
		{"explicit level beats quiet", "trace", false, true, "trace"},
		{"invalid level falls back to info", "loud", true, false, "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{LogLevel: tt.level, Verbose: tt.verbose, Quiet: tt.quiet}
			if got := determineLogLevel(config); got != tt.expected {
				t.Errorf("determineLogLevel() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

// TestValidateLogLevel tests log level validation.
func TestValidateLogLevel(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error"} {
		if got := validateLogLevel(level); got != level {
			t.Errorf("validateLogLevel(%q) = %q", level, got)
		}
	}
	for _, level := range []string{"", "DEBUG", "fatal", "verbose"} {
		if got := validateLogLevel(level); got != "info" {
			t.Errorf("validateLogLevel(%q) = %q, expected info", level, got)
		}
	}
}

// TestNewLogger_Level verifies the logger level follows the config.
func TestNewLogger_Level(t *testing.T) {
	logger := NewLogger(&Config{Quiet: true, LogFormat: "json", LogOutput: "discard"})
	if logger.GetLevel() != zerolog.WarnLevel {
		t.Errorf("level = %v, want warn", logger.GetLevel())
	}

	logger = NewLogger(&Config{Verbose: true, LogFormat: "json", LogOutput: "discard"})
	if logger.GetLevel() != zerolog.DebugLevel {
		t.Errorf("level = %v, want debug", logger.GetLevel())
	}
}

// TestNewLogger_File verifies that the detailed log lands in the log file.
func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "papertrail.log")

	logger := NewLogger(&Config{LogFormat: "json", LogOutput: path})
	logger.Info().Str("author", "Rémi Munos").Msg("Author updated")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(b), `"message":"Author updated"`) {
		t.Errorf("log file = %q, want the JSON entry", b)
	}
}
