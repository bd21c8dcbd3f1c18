package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("SHAREIT_DB_PATH", "shareit-test.db")

	yamlContent := `
app:
  name: shareit
  environment: test
database:
  path: "${SHAREIT_DB_PATH}"
api:
  http:
    port: 9000
  rate_limit:
    enabled: true
    rps: 5
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "shareit-test.db", cfg.Database.Path)
	assert.Equal(t, 9000, cfg.API.HTTP.Port)
	assert.Equal(t, "X-Sharer-User-Id", cfg.API.UserHeader)
	assert.Equal(t, 10, cfg.API.PageSize)
	assert.Equal(t, 5.0, cfg.API.RateLimit.RPS)
	assert.Equal(t, 40, cfg.API.RateLimit.Burst)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("database:\n  driver: mysql\n"), 0o644))

	_, err := Load(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestValidateConfig(t *testing.T) {
	valid := func() Config {
		c := Config{Database: DatabaseConfig{Path: "shareit.db"}}
		c.applyDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid sqlite", mutate: func(*Config) {}},
		{name: "sqlite without path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: true},
		{
			name: "valid postgres",
			mutate: func(c *Config) {
				c.Database.Driver = DriverPostgres
				c.Database.Postgres.Host = "localhost"
				c.Database.Postgres.DBName = "shareit"
			},
		},
		{
			name:    "postgres without host",
			mutate:  func(c *Config) { c.Database.Driver = DriverPostgres },
			wantErr: true,
		},
		{name: "negative page size", mutate: func(c *Config) { c.API.PageSize = -1 }, wantErr: true},
		{name: "tracing without endpoint", mutate: func(c *Config) { c.Tracing.Enabled = true }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{Monitoring: MonitoringConfig{PrometheusEnabled: true}}
	cfg.applyDefaults()

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.API.HTTP.Port)
	assert.Equal(t, 9090, cfg.Monitoring.PrometheusPort)
	assert.Equal(t, 3, cfg.Database.Retry.MaxRetries)
	assert.Equal(t, 50*time.Millisecond, cfg.Database.Retry.InitialDelay)
	assert.Equal(t, time.Minute, cfg.API.RateLimit.Window)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "shareit", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=shareit sslmode=disable", p.DSN())
}
