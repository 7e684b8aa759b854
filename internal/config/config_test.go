package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("TIMELOG_LISTEN", "")
	t.Setenv("TIMELOG_DB_DRIVER", "")

	cfg := DefaultConfig()
	require.Equal(t, "127.0.0.1:8321", cfg.Listen)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, time.Duration(0), cfg.Catalog.TTL)
	require.Equal(t, 30*time.Second, cfg.Jira.Timeout)
	require.Equal(t, "INFO", cfg.LogLevel)
	require.False(t, cfg.LogConsole)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TIMELOG_LISTEN", "0.0.0.0:9000")
	t.Setenv("TIMELOG_DB_DRIVER", "postgres")
	t.Setenv("TIMELOG_DB_DSN", "postgres://localhost/timelog?sslmode=disable")
	t.Setenv("TIMELOG_LOG_LEVEL", "DEBUG")

	cfg := DefaultConfig()
	require.Equal(t, "0.0.0.0:9000", cfg.Listen)
	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "postgres://localhost/timelog?sslmode=disable", cfg.Database.DSN)
	require.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Listen:   "127.0.0.1:8321",
			Database: DatabaseConfig{Driver: "sqlite", Path: "/tmp/timelog.db"},
			Jira:     JiraConfig{Timeout: 30 * time.Second},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults pass", func(c *Config) {}, ""},
		{"sqlite without path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = "postgres" }, "database.dsn"},
		{"postgres with dsn", func(c *Config) {
			c.Database.Driver = "postgres"
			c.Database.DSN = "postgres://localhost/timelog"
		}, ""},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, "unknown database driver"},
		{"zero timeout", func(c *Config) { c.Jira.Timeout = 0 }, "jira.timeout"},
		{"negative ttl", func(c *Config) { c.Catalog.TTL = -time.Minute }, "catalog.ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Listen = "127.0.0.1:9999"
	cfg.Database.Path = filepath.Join(t.TempDir(), "timelog.db")
	cfg.Catalog.TTL = 15 * time.Minute
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9999", loaded.Listen)
	require.Equal(t, cfg.Database.Path, loaded.Database.Path)
	require.Equal(t, 15*time.Minute, loaded.Catalog.TTL)
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:8321", cfg.Listen)
}
