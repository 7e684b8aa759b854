package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds user preferences and service wiring
type Config struct {
	Listen string `yaml:"listen" json:"listen"` // HTTP listen address

	Database DatabaseConfig `yaml:"database" json:"database"`
	Catalog  CatalogConfig  `yaml:"catalog" json:"catalog"`
	Jira     JiraConfig     `yaml:"jira" json:"jira"`

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// DatabaseConfig selects the record store backend
type DatabaseConfig struct {
	Driver string `yaml:"driver" json:"driver"` // "sqlite" (default) or "postgres"
	Path   string `yaml:"path" json:"path"`     // SQLite file path
	DSN    string `yaml:"dsn" json:"dsn"`       // Postgres connection string
}

// CatalogConfig controls the project/task cache
type CatalogConfig struct {
	// TTL after which cached catalog entries are refetched. Zero means the
	// cache never expires on its own; the invalidate endpoint still works.
	TTL time.Duration `yaml:"ttl" json:"ttl"`
}

// JiraConfig bounds calls to the issue tracker
type JiraConfig struct {
	Timeout time.Duration `yaml:"timeout" json:"timeout"` // Per-request timeout
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	dbPath := ""
	logPath := ""
	if home != "" {
		dbPath = filepath.Join(home, ".timelog", "timelog.db")
		logPath = filepath.Join(home, ".timelog", "logs", "timelog.log")
	}

	return &Config{
		Listen: getEnv("TIMELOG_LISTEN", "127.0.0.1:8321"),
		Database: DatabaseConfig{
			Driver: getEnv("TIMELOG_DB_DRIVER", "sqlite"),
			Path:   getEnv("TIMELOG_DB_PATH", dbPath),
			DSN:    getEnv("TIMELOG_DB_DSN", ""),
		},
		Catalog: CatalogConfig{
			TTL: 0,
		},
		Jira: JiraConfig{
			Timeout: 30 * time.Second,
		},
		LogLevel:   getEnv("TIMELOG_LOG_LEVEL", "INFO"),
		LogFile:    getEnv("TIMELOG_LOG_FILE", logPath),
		LogConsole: getEnv("TIMELOG_LOG_CONSOLE", "false") == "true",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate checks the config for values the rest of the app cannot work with
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Jira.Timeout <= 0 {
		return fmt.Errorf("jira.timeout must be positive")
	}
	if c.Catalog.TTL < 0 {
		return fmt.Errorf("catalog.ttl must not be negative")
	}
	return nil
}

// Load loads config from ~/.timelog/config.yaml
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(home, ".timelog", "config.yaml")

	// Check if exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Return defaults if no config
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves config to ~/.timelog/config.yaml
func (c *Config) Save() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configDir := filepath.Join(home, ".timelog")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
