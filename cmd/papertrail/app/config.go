package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/papertrail/pkg/constants"
	"github.com/agentstation/papertrail/pkg/errors"
)

// envPrefix namespaces environment variables, e.g. PAPERTRAIL_DB_PATH.
const envPrefix = "PAPERTRAIL"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Store
	DataDir string
	DBPath  string

	// Remote source
	Categories  []string
	ArxivURL    string
	PageSize    int
	MaxAttempts uint
	RetryDelay  time.Duration
	RetryJitter time.Duration
	HTTPTimeout time.Duration

	// UpdateInterval is the pause between runs of `update --watch`
	UpdateInterval time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (PAPERTRAIL_* or the bare key)
// 3. .env files
// 4. Config file (~/.papertrail.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return LoadConfigFile("")
}

// LoadConfigFile is LoadConfig with an explicit config file, as given by
// --config. An empty path searches the standard locations, and a missing
// file there is not an error.
func LoadConfigFile(path string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	// Bare keys such as LOG_LEVEL are accepted alongside prefixed ones
	for _, key := range []string{"log_level", "log_format", "log_output", "verbose", "quiet", "format"} {
		if err := v.BindEnv(key, envPrefix+"_"+strings.ToUpper(key), strings.ToUpper(key)); err != nil {
			return nil, errors.NewConfigError("env", "binding "+key, err)
		}
	}

	if path == "" {
		path = v.GetString("config")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("." + constants.AppName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("file", path, err)
		}
	}

	config := &Config{
		Verbose:    v.GetBool("verbose"),
		Quiet:      v.GetBool("quiet"),
		NoColor:    v.GetBool("no_color"),
		Format:     v.GetString("format"),
		ConfigFile: v.ConfigFileUsed(),

		DataDir: v.GetString("data_dir"),
		DBPath:  v.GetString("db_path"),

		Categories:  v.GetStringSlice("categories"),
		ArxivURL:    v.GetString("arxiv_url"),
		PageSize:    v.GetInt("page_size"),
		MaxAttempts: v.GetUint("max_attempts"),
		RetryDelay:  v.GetDuration("retry_delay"),
		RetryJitter: v.GetDuration("retry_jitter"),
		HTTPTimeout: v.GetDuration("http_timeout"),

		UpdateInterval: v.GetDuration("update_interval"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	if config.DBPath == "" {
		config.DBPath = filepath.Join(config.DataDir, constants.DatabaseFile)
	}
	if config.LogOutput == "" {
		config.LogOutput = config.LogFile()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("categories", constants.DefaultCategories)
	v.SetDefault("arxiv_url", constants.ArxivAPIURL)
	v.SetDefault("page_size", constants.DefaultPageSize)
	v.SetDefault("max_attempts", constants.DefaultMaxAttempts)
	v.SetDefault("retry_delay", constants.DefaultRetryDelay)
	v.SetDefault("retry_jitter", constants.DefaultRetryJitter)
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("update_interval", constants.DefaultAutoUpdateInterval)
	v.SetDefault("log_format", "auto")
}

// defaultDataDir is the per-user config directory, or the working
// directory when the platform has none.
func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, constants.AppName)
}

// Validate checks the values that cannot be repaired with a default.
func (c *Config) Validate() error {
	if len(c.Categories) == 0 {
		return errors.NewConfigError("categories", "at least one category is required", nil)
	}
	if c.PageSize <= 0 {
		return errors.NewConfigError("page_size", "must be positive", nil)
	}
	if c.MaxAttempts == 0 {
		return errors.NewConfigError("max_attempts", "must be positive", nil)
	}
	return nil
}

// LogFile is the detailed log written next to the database.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, constants.LogFile)
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first so that its values win; godotenv never
// overrides a variable that is already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
