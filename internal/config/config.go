// Package config provides configuration management using Viper
package config

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment types
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// LogLevel represents the logging level for the application
type LogLevel string

// Available log levels
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Database types
const (
	SQLiteDatabase   = "sqlite"
	PostgresDatabase = "postgres"
)

// DefaultTimezone is the operating timezone of the sales desk.
const DefaultTimezone = "America/Sao_Paulo"

// Config holds all configuration parameters for the application
type Config struct {
	// Application settings
	AppName     string   `mapstructure:"appname"`
	AppPort     string   `mapstructure:"appport"`
	Environment string   `mapstructure:"environment"`
	LogLevel    LogLevel `mapstructure:"loglevel"`
	Timezone    string   `mapstructure:"timezone"`

	// Filter values preselected when a request leaves them out
	DefaultStatus   string `mapstructure:"defaultstatus"`
	DefaultDispatch string `mapstructure:"defaultdispatch"`

	// Comma-separated account colors; empty keeps the built-in palette
	Palette string `mapstructure:"palette"`

	// File paths
	DatabasePath string `mapstructure:"storagepath"`
	DatabaseName string `mapstructure:"-"` // Derived from other settings

	// Logging settings
	LogsDirectory    string `mapstructure:"logsdir"`
	LogsMaxSizeInMb  int    `mapstructure:"logsmaxsizeinmb"`
	LogsMaxBackups   int    `mapstructure:"logsmaxbackups"`
	LogsMaxAgeInDays int    `mapstructure:"logsmaxageindays"`

	// Database settings
	DatabaseType         string `mapstructure:"dbtype"`
	PostgresDSN          string `mapstructure:"postgresdsn"`
	DatabaseMaxOpenConns int    `mapstructure:"dbmaxopenconns"`
	DatabaseMaxIdleConns int    `mapstructure:"dbmaxidleconns"`

	// Snapshot cache settings
	CacheTTLSeconds int `mapstructure:"cachettlseconds"`
}

var (
	cfg  *Config
	once sync.Once
)

// GetConfig returns the application configuration
func GetConfig() *Config {
	once.Do(func() {
		// A missing .env is fine; the process environment still applies.
		_ = godotenv.Load()

		v := viper.New()

		v.SetDefault("appname", "cyberdock")
		v.SetDefault("appport", "3000")
		v.SetDefault("environment", Development)
		v.SetDefault("loglevel", string(LogLevelDebug))
		v.SetDefault("timezone", DefaultTimezone)
		v.SetDefault("defaultstatus", "Pago")
		v.SetDefault("defaultdispatch", "with")
		v.SetDefault("palette", "")
		v.SetDefault("storagepath", "storage")
		v.SetDefault("logsdir", "logs")
		v.SetDefault("logsmaxsizeinmb", 20)
		v.SetDefault("logsmaxbackups", 10)
		v.SetDefault("logsmaxageindays", 30)
		v.SetDefault("dbtype", SQLiteDatabase)
		v.SetDefault("postgresdsn", "")
		v.SetDefault("dbmaxopenconns", 0)
		v.SetDefault("dbmaxidleconns", 0)
		v.SetDefault("cachettlseconds", 300)

		v.BindEnv("appname", "CYBERDOCK_APP_NAME")
		v.BindEnv("appport", "CYBERDOCK_APP_PORT")
		v.BindEnv("environment", "CYBERDOCK_ENV")
		v.BindEnv("loglevel", "CYBERDOCK_LOG_LEVEL")
		v.BindEnv("timezone", "CYBERDOCK_TIMEZONE")
		v.BindEnv("defaultstatus", "CYBERDOCK_DEFAULT_STATUS")
		v.BindEnv("defaultdispatch", "CYBERDOCK_DEFAULT_DISPATCH")
		v.BindEnv("palette", "CYBERDOCK_PALETTE")
		v.BindEnv("storagepath", "CYBERDOCK_STORAGE_PATH")
		v.BindEnv("logsdir", "CYBERDOCK_LOGS_DIR")
		v.BindEnv("logsmaxsizeinmb", "CYBERDOCK_LOGS_MAX_SIZE_IN_MB")
		v.BindEnv("logsmaxbackups", "CYBERDOCK_LOGS_MAX_BACKUPS")
		v.BindEnv("logsmaxageindays", "CYBERDOCK_LOGS_MAX_AGE_IN_DAYS")
		v.BindEnv("dbtype", "CYBERDOCK_DB_TYPE")
		v.BindEnv("postgresdsn", "DB_URL")
		v.BindEnv("dbmaxopenconns", "CYBERDOCK_DB_MAX_OPEN_CONNS")
		v.BindEnv("dbmaxidleconns", "CYBERDOCK_DB_MAX_IDLE_CONNS")
		v.BindEnv("cachettlseconds", "CYBERDOCK_CACHE_TTL_SECONDS")

		cfg = &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			log.Fatalf("config: failed to unmarshal configuration: %v", err)
		}

		if err := cfg.validate(); err != nil {
			log.Fatalf("config: invalid configuration: %v", err)
		}

		cfg.DatabaseName = cfg.GetDatabasePath()
	})
	return cfg
}

// validate checks the configuration for errors
func (c *Config) validate() error {
	validEnvs := map[string]bool{
		Development: true,
		Production:  true,
		Test:        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	validDBTypes := map[string]bool{
		SQLiteDatabase:   true,
		PostgresDatabase: true,
	}
	if !validDBTypes[c.DatabaseType] {
		return fmt.Errorf("invalid database type: %s", c.DatabaseType)
	}
	if c.DatabaseType == PostgresDatabase && c.PostgresDSN == "" {
		return fmt.Errorf("postgres database requires DB_URL")
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}

	validDispatch := map[string]bool{"": true, "all": true, "with": true, "without": true}
	if !validDispatch[c.DefaultDispatch] {
		return fmt.Errorf("invalid default dispatch: %s", c.DefaultDispatch)
	}

	for _, color := range c.GetPalette() {
		if !strings.HasPrefix(color, "#") {
			return fmt.Errorf("invalid palette color: %s", color)
		}
	}

	if c.CacheTTLSeconds < 0 {
		return fmt.Errorf("cache ttl must not be negative: %d", c.CacheTTLSeconds)
	}

	return nil
}

// GetDatabasePath returns the appropriate database path based on environment
func (c *Config) GetDatabasePath() string {
	if c.DatabaseName == "" {
		c.DatabaseName = filepath.Join(c.DatabasePath,
			fmt.Sprintf("%s-%s.db", c.AppName, c.Environment))
	}
	return c.DatabaseName
}

// Location returns the operating timezone. Falls back to UTC when the
// zoneinfo database is unavailable.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetPalette returns the configured account colors in rank order.
func (c *Config) GetPalette() []string {
	var palette []string
	for _, color := range strings.Split(c.Palette, ",") {
		if color = strings.TrimSpace(color); color != "" {
			palette = append(palette, color)
		}
	}
	return palette
}

// CacheTTL returns how long a record snapshot stays fresh.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// IsTest returns true if the environment is test
func (c *Config) IsTest() bool {
	return c.Environment == Test
}

// GetPort returns the HTTP server port (implements cartridge.Config interface).
func (c *Config) GetPort() string {
	return c.AppPort
}

// GetPublicDirectory implements cartridge.Config. The API serves no static assets.
func (c *Config) GetPublicDirectory() string {
	return ""
}

// GetAssetsPrefix implements cartridge.Config.
func (c *Config) GetAssetsPrefix() string {
	return ""
}

// GetAppName returns the application name (implements cartridge.LogConfigProvider).
func (c *Config) GetAppName() string {
	return c.AppName
}

// GetLogLevel returns the log level as a string (implements cartridge.LogConfigProvider).
func (c *Config) GetLogLevel() string {
	return string(c.LogLevel)
}

// GetLogDirectory returns the logs directory (implements cartridge.LogConfigProvider).
func (c *Config) GetLogDirectory() string {
	return c.LogsDirectory
}

// GetLogMaxSizeMB returns the max log file size in MB (implements cartridge.LogConfigProvider).
func (c *Config) GetLogMaxSizeMB() int {
	return c.LogsMaxSizeInMb
}

// GetLogMaxBackups returns the max number of log backups (implements cartridge.LogConfigProvider).
func (c *Config) GetLogMaxBackups() int {
	return c.LogsMaxBackups
}

// GetLogMaxAgeDays returns the max age in days for log files (implements cartridge.LogConfigProvider).
func (c *Config) GetLogMaxAgeDays() int {
	return c.LogsMaxAgeInDays
}

// UsesPostgres reports whether sales are read from the shared Postgres database.
func (c *Config) UsesPostgres() bool {
	return c.DatabaseType == PostgresDatabase
}

// GetMaxOpenConns returns the appropriate MaxOpenConns value based on environment
// If explicitly set via env var, uses that value. Otherwise:
// - Test: 1
// - Development/Production: 10
func (c *Config) GetMaxOpenConns() int {
	if c.DatabaseMaxOpenConns > 0 {
		return c.DatabaseMaxOpenConns
	}

	if c.Environment == Test {
		return 1
	}

	return 10
}

// GetMaxIdleConns returns the appropriate MaxIdleConns value based on environment
func (c *Config) GetMaxIdleConns() int {
	if c.DatabaseMaxIdleConns > 0 {
		return c.DatabaseMaxIdleConns
	}

	if c.Environment == Test {
		return 1
	}

	return 5
}

// Reset clears the cached configuration; intended for tests.
func Reset() {
	once = sync.Once{}
	cfg = nil
}
