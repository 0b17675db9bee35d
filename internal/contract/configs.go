package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/devpulse/devpulse/schema"
)

// Default values for configuration.
const (
	DefaultHistoryLimit = schema.HistoryCap
	MaxHistoryLimit     = 500
	DefaultHorizonDays  = schema.DefaultHorizonDays
	MaxHorizonDays      = 90
	DefaultQueueSize    = 1024
)

// DefaultFetchWorkers is the default size of the repository fetch pool.
var DefaultFetchWorkers = schema.FetchWorkers

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for refresh and forecasting.
// This struct remains the "final, validated" config.
type Config struct {
	Token   string
	BaseURL string

	Repo      schema.RepoRef
	Developer string
	Scope     schema.Scope

	Workers      int
	FetchTimeout time.Duration

	HistoryLimit int
	HorizonDays  int

	Output     schema.OutputMode
	OutputFile string

	SnapshotBackend   schema.DatabaseBackend
	SnapshotDBConnect string // Please use env var as this is plaintext

	ModelBackend   schema.DatabaseBackend
	ModelDBConnect string // Please use env var as this is plaintext

	CacheMaxAge time.Duration
	RateWindow  time.Duration
	RateMax     int
	QueueSize   int
	QueueWait   time.Duration
	WorkerSleep time.Duration

	Force bool // Bypass the snapshot cache even when fresh

	UseColors bool // Enable colored labels in table output
	UseEmojis bool // Enable emojis in output headers
}

// Clone returns a copy of the config that can be mutated per request.
func (cfg *Config) Clone() *Config {
	clone := *cfg
	return &clone
}

// RefreshTask builds the refresh task the config describes.
func (cfg *Config) RefreshTask() schema.RefreshTask {
	if cfg.Scope == schema.TrackedScope {
		return schema.RefreshTask{Subject: cfg.Developer, Scope: schema.TrackedScope, Force: cfg.Force}
	}
	return schema.RefreshTask{
		Subject: cfg.Repo.FullName(),
		Scope:   schema.RepositoryScope,
		Repos:   []schema.RepoRef{cfg.Repo},
		Force:   cfg.Force,
	}
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Token             string `mapstructure:"token"`
	BaseURL           string `mapstructure:"base-url"`
	Developer         string `mapstructure:"developer"`
	Scope             string `mapstructure:"scope"`
	Workers           int    `mapstructure:"workers"`
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	SnapshotBackend   string `mapstructure:"snapshot-backend"`
	SnapshotDBConnect string `mapstructure:"snapshot-db-connect"`
	ModelBackend      string `mapstructure:"model-backend"`
	ModelDBConnect    string `mapstructure:"model-db-connect"`
	Color             string `mapstructure:"color"`
	Emoji             string `mapstructure:"emoji"`

	// --- Fields from forecastCmd.Flags() ---
	Horizon int `mapstructure:"horizon"`
	History int `mapstructure:"history"`

	// --- Fields from refreshCmd.Flags() ---
	FetchTimeout string `mapstructure:"fetch-timeout"`
	CacheMaxAge  string `mapstructure:"cache-max-age"`
	QueueSize    int    `mapstructure:"queue-size"`
	Force        bool   `mapstructure:"force"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processDurations(cfg, input); err != nil {
		return err
	}
	if err := processSubject(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all non-backend fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.Token = input.Token
	cfg.BaseURL = strings.TrimRight(input.BaseURL, "/")
	cfg.Developer = strings.TrimSpace(input.Developer)
	cfg.OutputFile = input.OutputFile
	cfg.Force = input.Force

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// --- 1. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	// --- 3. History / Horizon Validation ---
	if input.History == 0 {
		input.History = DefaultHistoryLimit
	}
	if input.History < 1 || input.History > MaxHistoryLimit {
		return fmt.Errorf("history must be between 1 and %d (received %d)", MaxHistoryLimit, input.History)
	}
	cfg.HistoryLimit = input.History

	if input.Horizon == 0 {
		input.Horizon = DefaultHorizonDays
	}
	if input.Horizon < 1 || input.Horizon > MaxHorizonDays {
		return fmt.Errorf("horizon must be between 1 and %d days (received %d)", MaxHorizonDays, input.Horizon)
	}
	cfg.HorizonDays = input.Horizon

	// --- 4. Queue Validation ---
	if input.QueueSize == 0 {
		input.QueueSize = DefaultQueueSize
	}
	if input.QueueSize < 1 {
		return fmt.Errorf("queue-size must be at least 1 (received %d)", input.QueueSize)
	}
	cfg.QueueSize = input.QueueSize

	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db connect string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db connect string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates snapshot and model backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Snapshot Backend Validation ---
	cfg.SnapshotBackend = schema.DatabaseBackend(strings.ToLower(input.SnapshotBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.SnapshotBackend]; !ok {
		return fmt.Errorf("invalid snapshot backend '%s'. must be sqlite, mysql, postgresql, none", input.SnapshotBackend)
	}
	cfg.SnapshotDBConnect = input.SnapshotDBConnect
	if err := ValidateDatabaseConnectionString(cfg.SnapshotBackend, cfg.SnapshotDBConnect); err != nil {
		return err
	}

	// --- Model Backend Validation ---
	cfg.ModelBackend = schema.DatabaseBackend(strings.ToLower(input.ModelBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.ModelBackend]; !ok {
		return fmt.Errorf("invalid model backend '%s'. must be sqlite, mysql, postgresql, none", input.ModelBackend)
	}
	cfg.ModelDBConnect = input.ModelDBConnect
	if err := ValidateDatabaseConnectionString(cfg.ModelBackend, cfg.ModelDBConnect); err != nil {
		return err
	}

	// Snapshot and model storage must not share a SQLite file.
	if cfg.SnapshotBackend == schema.SQLiteBackend && cfg.ModelBackend == schema.SQLiteBackend {
		snapPath := cfg.SnapshotDBConnect
		if snapPath == "" {
			snapPath = GetSnapshotDBFilePath()
		}
		modelPath := cfg.ModelDBConnect
		if modelPath == "" {
			modelPath = GetModelDBFilePath()
		}
		if snapPath == modelPath {
			return fmt.Errorf("snapshot and model storage must use different SQLite database files. Both resolve to %q", snapPath)
		}
	}

	return nil
}

// processDurations parses the duration-valued flags with sane fallbacks.
func processDurations(cfg *Config, input *ConfigRawInput) error {
	cfg.FetchTimeout = schema.RepoFetchTimeoutSeconds * time.Second
	if input.FetchTimeout != "" {
		d, err := time.ParseDuration(input.FetchTimeout)
		if err != nil {
			return fmt.Errorf("invalid fetch-timeout: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("fetch-timeout must be positive (received %s)", d)
		}
		cfg.FetchTimeout = d
	}

	cfg.CacheMaxAge = schema.CacheMaxAgeMinutes * time.Minute
	if input.CacheMaxAge != "" {
		d, err := time.ParseDuration(input.CacheMaxAge)
		if err != nil {
			return fmt.Errorf("invalid cache-max-age: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("cache-max-age cannot be negative (received %s)", d)
		}
		cfg.CacheMaxAge = d
	}

	cfg.RateWindow = schema.RateWindowSeconds * time.Second
	cfg.RateMax = schema.RateMaxRequests
	cfg.QueueWait = schema.QueueWaitSeconds * time.Second
	cfg.WorkerSleep = schema.WorkerSleepSeconds * time.Second

	return nil
}

// processSubject resolves the repo reference and scope.
func processSubject(cfg *Config, input *ConfigRawInput) error {
	if input.Scope == "" {
		input.Scope = string(schema.RepositoryScope)
	}
	cfg.Scope = schema.Scope(strings.ToLower(input.Scope))
	if !cfg.Scope.IsValid() {
		return fmt.Errorf("invalid scope '%s'. must be repository, tracked", input.Scope)
	}

	if cfg.Scope == schema.TrackedScope {
		if cfg.Developer == "" {
			return fmt.Errorf("developer is required for tracked scope")
		}
		return nil
	}

	repo, err := ParseRepoRef(input.RepoStr)
	if err != nil {
		return err
	}
	cfg.Repo = repo
	return nil
}

// ParseRepoRef parses an "owner/name" string into a RepoRef.
func ParseRepoRef(s string) (schema.RepoRef, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return schema.RepoRef{}, fmt.Errorf("invalid repository '%s'. expected owner/name", s)
	}
	return schema.RepoRef{Owner: parts[0], Name: parts[1]}, nil
}
