package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/eslsoft/pronadmin/internal/entity"
)

// Config holds all configuration for the console
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Console ConsoleConfig `mapstructure:"console"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
}

// APIConfig points the console at the PronIELTS REST API
type APIConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	VersionPath   string        `mapstructure:"version_path"`
	SchemaVersion string        `mapstructure:"schema_version"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// ConsoleConfig holds web console configuration
type ConsoleConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	SessionSecret  string        `mapstructure:"session_secret"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// StorageConfig selects where client-side state (the session record) lives
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Storage drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Load reads configuration from .env, an optional pronadmin.yaml and
// environment variables (PRONADMIN_*).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	viper.SetConfigName("pronadmin")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	if dir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(dir, "pronadmin"))
	}

	// Set default values
	setDefaults()

	// Enable reading from environment variables
	viper.SetEnvPrefix("PRONADMIN")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := viper.BindEnv("api.base_url", "PRONADMIN_API_BASE_URL", "VITE_API_URL"); err != nil {
		return nil, fmt.Errorf("bind api base url env: %w", err)
	}

	// Read configuration file
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if config.Storage.Driver == DriverSQLite && config.Storage.DSN == "" {
		config.Storage.DSN = DefaultStatePath()
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// API defaults
	viper.SetDefault("api.base_url", "http://localhost:8000/api/v1")
	viper.SetDefault("api.version_path", "/api/v1")
	viper.SetDefault("api.schema_version", string(entity.DefaultSchemaVersion))
	viper.SetDefault("api.timeout", 30*time.Second)

	// Console defaults
	viper.SetDefault("console.host", "localhost")
	viper.SetDefault("console.port", 3000)
	viper.SetDefault("console.session_secret", "pronadmin-dev-secret")
	viper.SetDefault("console.session_ttl", 12*time.Hour)
	viper.SetDefault("console.allowed_origins", []string{"http://localhost:3000"})

	// Storage defaults
	viper.SetDefault("storage.driver", DriverSQLite)
	viper.SetDefault("storage.dsn", "")

	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}

// DefaultStatePath is the SQLite file used when no DSN is configured.
func DefaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "pronadmin", "state.db")
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q must be an absolute URL", c.API.BaseURL)
	}
	if _, err := entity.ParseSchemaVersion(c.API.SchemaVersion); err != nil {
		return fmt.Errorf("api.schema_version: %w", err)
	}
	switch c.Storage.Driver {
	case DriverSQLite, DriverPostgres, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("storage.driver %q is not supported", c.Storage.Driver)
	}
	if c.Storage.Driver != DriverMemory && c.Storage.Driver != DriverSQLite && c.Storage.DSN == "" {
		return fmt.Errorf("storage.dsn is required for driver %q", c.Storage.Driver)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Console.Port <= 0 || c.Console.Port > 65535 {
		return fmt.Errorf("console.port %d out of range", c.Console.Port)
	}
	return nil
}

// Schema returns the parsed dialog schema version.
func (c *Config) Schema() entity.SchemaVersion {
	v, err := entity.ParseSchemaVersion(c.API.SchemaVersion)
	if err != nil {
		return entity.DefaultSchemaVersion
	}
	return v
}

// ConsoleAddr returns the listen address of the web console.
func (c *Config) ConsoleAddr() string {
	return fmt.Sprintf("%s:%d", c.Console.Host, c.Console.Port)
}
