package contract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/douremember/schema"
)

// Default values for configuration.
const (
	DefaultPrecision     = 1
	DefaultSampleSize    = 5
	MaxSampleSize        = 50
	DefaultScorerBaseURL = "https://api.openai.com/v1"
	DefaultScorerModel   = "gpt-4o-mini"
	DefaultScorerTimeout = 45 * time.Second
	DefaultS3Bucket      = "imgs"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	UserID     string // Acting user: patient for sessions, caregiver for reports
	KindFilter string // Report kind filter; empty or "todos" means all
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	Location   *time.Location

	DBBackend schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext

	StorageBackend schema.StorageBackend
	StorageDir     string
	S3Endpoint     string
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string // Please use env var as this is plaintext
	PublicBaseURL  string

	ScorerBaseURL     string
	ScorerAPIKey      string // Please use env var as this is plaintext
	ScorerModel       string
	ScorerTimeout     time.Duration
	ScorerTemperature float64

	SampleSize int
	DayGuard   schema.DayGuardMode

	LogLevel  string
	LogFormat string
	LogFile   string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	User       string `mapstructure:"user"`
	Kind       string `mapstructure:"kind"`
	Precision  int    `mapstructure:"precision"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`
	Timezone   string `mapstructure:"timezone"`

	DBBackend string `mapstructure:"db-backend"`
	DBConnect string `mapstructure:"db-connect"`

	StorageBackend string `mapstructure:"storage-backend"`
	StorageDir     string `mapstructure:"storage-dir"`
	S3Endpoint     string `mapstructure:"s3-endpoint"`
	S3Region       string `mapstructure:"s3-region"`
	S3Bucket       string `mapstructure:"s3-bucket"`
	S3AccessKey    string `mapstructure:"s3-access-key"`
	S3SecretKey    string `mapstructure:"s3-secret-key"`
	PublicBaseURL  string `mapstructure:"public-base-url"`

	ScorerBaseURL     string  `mapstructure:"scorer-base-url"`
	ScorerAPIKey      string  `mapstructure:"scorer-api-key"`
	ScorerModel       string  `mapstructure:"scorer-model"`
	ScorerTimeout     string  `mapstructure:"scorer-timeout"`
	ScorerTemperature float64 `mapstructure:"scorer-temperature"`

	SampleSize int    `mapstructure:"sample-size"`
	DayGuard   string `mapstructure:"day-guard"`

	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`
	LogFile   string `mapstructure:"log-file"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate fills cfg from input, applying validation and parsing.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := validateStorageConfigs(cfg, input); err != nil {
		return err
	}
	if err := validateScorerConfigs(cfg, input); err != nil {
		return err
	}
	return validateSessionConfigs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
			return nil
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	default:
		return fmt.Errorf("unsupported backend: %s", backend)
	}
	return nil
}

// validateSimpleInputs processes output and display related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.UserID = strings.TrimSpace(input.User)
	cfg.KindFilter = strings.TrimSpace(input.Kind)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	tz := input.Timezone
	if tz == "" {
		tz = "Local"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", input.Timezone, err)
	}
	cfg.Location = loc

	cfg.LogLevel = strings.ToLower(input.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", input.LogLevel)
	}
	cfg.LogFormat = strings.ToLower(input.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("invalid log format '%s'. must be text, json", input.LogFormat)
	}
	cfg.LogFile = input.LogFile

	return nil
}

// validateBackendConfigs validates the relational backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.DBBackend = schema.DatabaseBackend(strings.ToLower(input.DBBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.DBBackend]; !ok {
		return fmt.Errorf("invalid db backend '%s'. must be sqlite, mysql, postgresql", input.DBBackend)
	}
	cfg.DBConnect = input.DBConnect
	return ValidateDatabaseConnectionString(cfg.DBBackend, cfg.DBConnect)
}

// validateStorageConfigs validates object storage settings.
func validateStorageConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.StorageBackend = schema.StorageBackend(strings.ToLower(input.StorageBackend))
	if _, ok := schema.ValidStorageBackends[cfg.StorageBackend]; !ok {
		return fmt.Errorf("invalid storage backend '%s'. must be s3, local", input.StorageBackend)
	}

	cfg.StorageDir = input.StorageDir
	cfg.S3Endpoint = input.S3Endpoint
	cfg.S3Region = input.S3Region
	cfg.S3Bucket = input.S3Bucket
	cfg.S3AccessKey = input.S3AccessKey
	cfg.S3SecretKey = input.S3SecretKey
	cfg.PublicBaseURL = strings.TrimRight(input.PublicBaseURL, "/")

	switch cfg.StorageBackend {
	case schema.LocalStorage:
		if cfg.StorageDir == "" {
			cfg.StorageDir = GetStorageDirPath()
		}
		if cfg.PublicBaseURL == "" {
			cfg.PublicBaseURL = "file://" + cfg.StorageDir
		}
	case schema.S3Storage:
		if cfg.S3Bucket == "" {
			cfg.S3Bucket = DefaultS3Bucket
		}
		if cfg.S3Region == "" {
			return fmt.Errorf("s3-region is required when using %s storage", cfg.StorageBackend)
		}
		if cfg.PublicBaseURL == "" {
			return fmt.Errorf("public-base-url is required when using %s storage", cfg.StorageBackend)
		}
		if _, err := url.ParseRequestURI(cfg.PublicBaseURL); err != nil {
			return fmt.Errorf("invalid public-base-url '%s': %w", input.PublicBaseURL, err)
		}
	}
	return nil
}

// validateScorerConfigs validates the text-evaluation service settings.
func validateScorerConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.ScorerBaseURL = strings.TrimRight(input.ScorerBaseURL, "/")
	if cfg.ScorerBaseURL == "" {
		cfg.ScorerBaseURL = DefaultScorerBaseURL
	}
	if _, err := url.ParseRequestURI(cfg.ScorerBaseURL); err != nil {
		return fmt.Errorf("invalid scorer-base-url '%s': %w", input.ScorerBaseURL, err)
	}
	cfg.ScorerAPIKey = input.ScorerAPIKey
	cfg.ScorerModel = input.ScorerModel
	if cfg.ScorerModel == "" {
		cfg.ScorerModel = DefaultScorerModel
	}

	cfg.ScorerTimeout = DefaultScorerTimeout
	if input.ScorerTimeout != "" {
		d, err := time.ParseDuration(input.ScorerTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid scorer-timeout '%s'. must be a positive duration like 45s", input.ScorerTimeout)
		}
		cfg.ScorerTimeout = d
	}

	if input.ScorerTemperature < 0 || input.ScorerTemperature > 2 {
		return fmt.Errorf("scorer-temperature must be between 0 and 2 (received %g)", input.ScorerTemperature)
	}
	cfg.ScorerTemperature = input.ScorerTemperature
	return nil
}

// validateSessionConfigs validates daily test session settings.
func validateSessionConfigs(cfg *Config, input *ConfigRawInput) error {
	if input.SampleSize <= 0 || input.SampleSize > MaxSampleSize {
		return fmt.Errorf("sample-size must be greater than 0 and cannot exceed %d (received %d)", MaxSampleSize, input.SampleSize)
	}
	cfg.SampleSize = input.SampleSize

	cfg.DayGuard = schema.DayGuardMode(strings.ToLower(input.DayGuard))
	if cfg.DayGuard == "" {
		cfg.DayGuard = schema.CalendarDayGuard
	}
	if _, ok := schema.ValidDayGuardModes[cfg.DayGuard]; !ok {
		return fmt.Errorf("invalid day guard '%s'. must be calendar, day-of-month", input.DayGuard)
	}
	return nil
}
