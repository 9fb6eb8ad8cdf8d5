package contract

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/cyclereport/schema"
)

// Default values for configuration.
const (
	DefaultEndpoint    = "https://api.linear.app/graphql"
	DefaultExcludeTeam = "Overhead"
	DefaultPageSize    = 100
	MaxPageSize        = 250
	DefaultTimeout     = 30 * time.Second
)

// Config holds the runtime configuration for a report run.
// This struct is the "final, validated" config.
type Config struct {
	APIKey   string // Please use env var as this is plaintext
	Endpoint string

	Quarter    Quarter
	Output     schema.OutputMode
	OutputFile string
	Print      bool

	TeamPrefix  string
	ExcludeTeam string
	PageSize    int
	Timeout     time.Duration

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	LogLevel  slog.Level
	LogFormat schema.LogFormat
	UseColors bool

	// Now is the wall-clock time captured once at run start.
	Now time.Time
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	APIKey           string `mapstructure:"api-key"`
	Endpoint         string `mapstructure:"endpoint"`
	Timeout          string `mapstructure:"timeout"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	LogLevel         string `mapstructure:"log-level"`
	LogFormat        string `mapstructure:"log-format"`
	Color            string `mapstructure:"color"`
	OutputFile       string `mapstructure:"output-file"`

	// --- Fields from reportCmd.Flags() ---
	Quarter     string `mapstructure:"quarter"`
	Output      string `mapstructure:"output"`
	Print       bool   `mapstructure:"print"`
	TeamPrefix  string `mapstructure:"team-prefix"`
	ExcludeTeam string `mapstructure:"exclude-team"`
	PageSize    int    `mapstructure:"page-size"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct. Every failure wraps ErrConfig.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput, now time.Time) error {
	cfg.Now = now
	steps := []func(*Config, *ConfigRawInput) error{
		validateCredentials,
		validateQuarter,
		validateOutput,
		validateQueryOptions,
		validateBackendConfigs,
		validateLogging,
	}
	for _, step := range steps {
		if err := step(cfg, input); err != nil {
			return err
		}
	}
	return nil
}

// validateCredentials checks the token and endpoint.
func validateCredentials(cfg *Config, input *ConfigRawInput) error {
	cfg.APIKey = strings.TrimSpace(input.APIKey)
	if cfg.APIKey == "" {
		return fmt.Errorf("%w: api key is required (set LINEAR_API_KEY or --api-key)", ErrConfig)
	}

	cfg.Endpoint = input.Endpoint
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return fmt.Errorf("%w: invalid endpoint %q", ErrConfig, cfg.Endpoint)
	}
	return nil
}

// validateQuarter resolves the target quarter, defaulting to the current one.
func validateQuarter(cfg *Config, input *ConfigRawInput) error {
	if input.Quarter == "" {
		cfg.Quarter = CurrentQuarter(cfg.Now)
		return nil
	}
	q, err := ParseQuarter(input.Quarter)
	if err != nil {
		return err
	}
	cfg.Quarter = q
	return nil
}

// validateOutput resolves the output format and path.
func validateOutput(cfg *Config, input *ConfigRawInput) error {
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.CSVOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("%w: invalid output format '%s'. must be csv, text, json, parquet", ErrConfig, input.Output)
	}

	cfg.OutputFile = input.OutputFile
	if cfg.OutputFile == "" {
		cfg.OutputFile = DefaultOutputFile(cfg.Quarter, cfg.Output)
	}
	cfg.Print = input.Print

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("%w: invalid --color value: %w", ErrConfig, err)
	}
	cfg.UseColors = colors
	return nil
}

// validateQueryOptions checks team filters, page size and timeout.
func validateQueryOptions(cfg *Config, input *ConfigRawInput) error {
	cfg.TeamPrefix = input.TeamPrefix
	cfg.ExcludeTeam = input.ExcludeTeam

	cfg.PageSize = input.PageSize
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.PageSize < 1 || cfg.PageSize > MaxPageSize {
		return fmt.Errorf("%w: page-size must be between 1 and %d (received %d)", ErrConfig, MaxPageSize, input.PageSize)
	}

	cfg.Timeout = DefaultTimeout
	if input.Timeout != "" {
		d, err := time.ParseDuration(input.Timeout)
		if err != nil {
			return fmt.Errorf("%w: invalid timeout %q: %w", ErrConfig, input.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("%w: timeout must be positive (received %s)", ErrConfig, d)
		}
		cfg.Timeout = d
	}
	return nil
}

// validateBackendConfigs validates the history backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseDatabaseBackend(input.HistoryBackend)
	if err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// validateLogging validates the log level and format.
func validateLogging(cfg *Config, input *ConfigRawInput) error {
	level, err := ParseLogLevel(input.LogLevel)
	if err != nil {
		return err
	}
	cfg.LogLevel = level

	cfg.LogFormat = schema.LogFormat(strings.ToLower(input.LogFormat))
	if cfg.LogFormat == "" {
		cfg.LogFormat = schema.AutoLogFormat
	}
	if _, ok := schema.ValidLogFormats[cfg.LogFormat]; !ok {
		return fmt.Errorf("%w: invalid log format '%s'. must be auto, console, json", ErrConfig, input.LogFormat)
	}
	return nil
}

// ParseDatabaseBackend parses a history backend name. Empty means disabled.
func ParseDatabaseBackend(s string) (schema.DatabaseBackend, error) {
	if s == "" {
		return schema.NoneBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(s))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("%w: invalid history backend '%s'. must be sqlite, mysql, postgresql, none", ErrConfig, s)
	}
	return backend, nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("%w: history-db-connect is required when using %s backend", ErrConfig, backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("%w: MySQL connection string must contain '@tcp(' for host:port specification", ErrConfig)
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("%w: MySQL connection string must contain '/' followed by database name", ErrConfig)
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("%w: history-db-connect is required when using %s backend", ErrConfig, backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("%w: PostgreSQL connection string must contain 'host=' parameter", ErrConfig)
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("%w: PostgreSQL connection string must contain 'dbname=' parameter", ErrConfig)
		}
	}
	return nil
}

// DefaultOutputFile returns the output path used when none is configured.
func DefaultOutputFile(q Quarter, mode schema.OutputMode) string {
	return fmt.Sprintf("cycle-report-%s.%s", q, mode.FileExtension())
}
