package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentstation/papertrail/pkg/constants"
	"github.com/agentstation/papertrail/pkg/errors"
)

// isolate points the home and config directories at a temp dir so that
// no user config file leaks into the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

// TestLoadConfig verifies defaults.
func TestLoadConfig(t *testing.T) {
	isolate(t)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.LogFormat != "auto" {
		t.Errorf("LogFormat = %q, want auto", config.LogFormat)
	}
	if config.PageSize != constants.DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", config.PageSize, constants.DefaultPageSize)
	}
	if len(config.Categories) != len(constants.DefaultCategories) {
		t.Errorf("Categories = %v, want %v", config.Categories, constants.DefaultCategories)
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	wantDB := filepath.Join(configDir, constants.AppName, constants.DatabaseFile)
	if config.DBPath != wantDB {
		t.Errorf("DBPath = %q, want %q", config.DBPath, wantDB)
	}
	if config.LogOutput != config.LogFile() {
		t.Errorf("LogOutput = %q, want the log file %q", config.LogOutput, config.LogFile())
	}
}

// TestConfig_EnvironmentVariables verifies prefixed and bare variables.
func TestConfig_EnvironmentVariables(t *testing.T) {
	isolate(t)
	t.Setenv("VERBOSE", "true")
	t.Setenv("FORMAT", "json")
	t.Setenv("PAPERTRAIL_DB_PATH", "/tmp/other.db")
	t.Setenv("PAPERTRAIL_PAGE_SIZE", "25")
	t.Setenv("PAPERTRAIL_RETRY_DELAY", "500ms")
	t.Setenv("PAPERTRAIL_UPDATE_INTERVAL", "1h")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if !config.Verbose {
		t.Error("VERBOSE environment variable not loaded")
	}
	if config.Format != "json" {
		t.Errorf("Format = %s, want json", config.Format)
	}
	if config.DBPath != "/tmp/other.db" {
		t.Errorf("DBPath = %s, want /tmp/other.db", config.DBPath)
	}
	if config.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25", config.PageSize)
	}
	if config.RetryDelay != 500*time.Millisecond {
		t.Errorf("RetryDelay = %v, want 500ms", config.RetryDelay)
	}
	if config.UpdateInterval != time.Hour {
		t.Errorf("UpdateInterval = %v, want 1h", config.UpdateInterval)
	}
}

// TestConfig_File verifies loading an explicit config file.
func TestConfig_File(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	content := "categories: [math.OC, stat.ML]\nmax_attempts: 2\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() failed: %v", err)
	}

	if got := config.Categories; len(got) != 2 || got[0] != "math.OC" || got[1] != "stat.ML" {
		t.Errorf("Categories = %v, want [math.OC stat.ML]", got)
	}
	if config.MaxAttempts != 2 {
		t.Errorf("MaxAttempts = %d, want 2", config.MaxAttempts)
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", config.LogLevel)
	}
	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %s, want %s", config.ConfigFile, path)
	}
}

// TestConfig_SearchedFile verifies the dotfile in the home directory.
func TestConfig_SearchedFile(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, ".papertrail.yaml"), []byte("page_size: 7\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.PageSize != 7 {
		t.Errorf("PageSize = %d, want 7", config.PageSize)
	}
}

// TestConfig_MissingExplicitFile verifies that a named file must exist.
func TestConfig_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := LoadConfigFile(filepath.Join(dir, "missing.yaml"))
	var configErr *errors.ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("LoadConfigFile() error = %v, want ConfigError", err)
	}
}

// TestConfig_Validate verifies rejected values.
func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{Categories: []string{"cs.LG"}, PageSize: 10, MaxAttempts: 1}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"no categories", func(c *Config) { c.Categories = nil }, "categories"},
		{"zero page size", func(c *Config) { c.PageSize = 0 }, "page_size"},
		{"zero attempts", func(c *Config) { c.MaxAttempts = 0 }, "max_attempts"},
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("Validate() on valid config = %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			var configErr *errors.ConfigError
			if err := c.Validate(); !errors.As(err, &configErr) || configErr.Component != tt.field {
				t.Errorf("Validate() = %v, want ConfigError for %s", err, tt.field)
			}
		})
	}
}

// TestConfig_UpdateFromFlags verifies that flags override loaded values.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", LogLevel: "warn"}

	config.UpdateFromFlags(true, false, true, "", "")
	if !config.Verbose || !config.NoColor {
		t.Error("boolean flags not applied")
	}
	if config.Format != "yaml" || config.LogLevel != "warn" {
		t.Error("empty string flags must keep loaded values")
	}

	config.UpdateFromFlags(false, false, false, "json", "trace")
	if config.Format != "json" {
		t.Errorf("Format = %s, want json", config.Format)
	}
	if config.LogLevel != "trace" {
		t.Errorf("LogLevel = %s, want trace", config.LogLevel)
	}
	if !config.Verbose {
		t.Error("a false flag must not clear a loaded true value")
	}
}
