package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, 8000, cfg.Server.HTTPPort)
	assert.Equal(t, 8080, cfg.Server.GRPCPort)
	assert.Equal(t, SourceCSV, cfg.Data.Source)
	assert.Equal(t, 5, cfg.Allocation.MaxFunds)
	assert.Equal(t, 0.40, cfg.Allocation.Weights.Sharpe)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFiles_NoFiles(t *testing.T) {
	cfg, err := LoadFromFiles()

	require.NoError(t, err)
	assert.Equal(t, NewDefaultConfig(), cfg)
}

func TestLoadFromFiles_ValidTOML(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9000
grpc_port = 0
cors_origins = ["https://fundwise.example"]

[data]
source = "sqlite"
dsn = "/tmp/funds.db"
seed_from_csv = true

[allocation]
max_funds = 4
amc_cap = 0.25

[allocation.weights]
sharpe = 0.5
return = 0.2
rating = 0.2
expense = 0.1

[logging]
level = "debug"
`)

	cfg, err := LoadFromFiles(path)

	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.Equal(t, "", cfg.GRPCAddr())
	assert.Equal(t, []string{"https://fundwise.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, SourceSQLite, cfg.Data.Source)
	assert.True(t, cfg.Data.SeedFromCSV)
	assert.Equal(t, 4, cfg.Allocation.MaxFunds)
	assert.Equal(t, 0.25, cfg.Allocation.AMCCap)
	// untouched keys keep their defaults
	assert.Equal(t, 0.50, cfg.Allocation.CategoryCap)
	assert.Equal(t, 0.5, cfg.Allocation.Weights.Sharpe)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	first := writeConfig(t, "[server]\nhttp_port = 9001\n")
	second := writeConfig(t, "[server]\nhttp_port = 9002\n")

	cfg, err := LoadFromFiles(first, "", second)

	require.NoError(t, err)
	assert.Equal(t, 9002, cfg.Server.HTTPPort)
}

func TestLoadFromFiles_Errors(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = LoadFromFiles(writeConfig(t, "[server\nport ="))
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FUNDWISE_HTTP_PORT", "7000")
	t.Setenv("FUNDWISE_GRPC_PORT", "not-a-number")
	t.Setenv("FUNDWISE_API_TOKEN", "secret")
	t.Setenv("FUNDWISE_MODELS_DIR", "/srv/models")
	t.Setenv("FUNDWISE_LOG_LEVEL", "warn")

	cfg, err := LoadFromFiles(writeConfig(t, "[server]\nhttp_port = 9000\n"))

	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.HTTPPort)
	assert.Equal(t, 8080, cfg.Server.GRPCPort)
	assert.Equal(t, "secret", cfg.Server.APIToken)
	assert.Equal(t, "/srv/models", cfg.Models.Dir)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, 0, 9100, "", "/models")

	assert.Equal(t, 8000, cfg.Server.HTTPPort)
	assert.Equal(t, 9100, cfg.Server.GRPCPort)
	assert.Equal(t, "data/funds.csv", cfg.Data.CSVPath)
	assert.Equal(t, "/models", cfg.Models.Dir)
	assert.Equal(t, "0.0.0.0:8000", cfg.HTTPAddr())
	assert.Equal(t, "0.0.0.0:9100", cfg.GRPCAddr())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectedErr string
	}{
		{name: "bad http port", mutate: func(c *Config) { c.Server.HTTPPort = 0 }, expectedErr: "invalid http port"},
		{name: "same ports", mutate: func(c *Config) { c.Server.GRPCPort = c.Server.HTTPPort }, expectedErr: "ports must differ"},
		{name: "grpc without token", mutate: func(c *Config) { c.Server.APIToken = "" }, expectedErr: "api_token is required"},
		{name: "grpc with blank token", mutate: func(c *Config) { c.Server.APIToken = "  " }, expectedErr: "api_token is required"},
		{name: "unknown source", mutate: func(c *Config) { c.Data.Source = "excel" }, expectedErr: "unknown data source"},
		{name: "csv without path", mutate: func(c *Config) { c.Data.CSVPath = "" }, expectedErr: "csv_path is required"},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Data.Source = SourcePostgres }, expectedErr: "dsn is required"},
		{name: "seed without csv", mutate: func(c *Config) {
			c.Data.Source = SourceSQLite
			c.Data.DSN = ":memory:"
			c.Data.SeedFromCSV = true
			c.Data.CSVPath = ""
		}, expectedErr: "required to seed"},
		{name: "no models dir", mutate: func(c *Config) { c.Models.Dir = "" }, expectedErr: "models.dir is required"},
		{name: "negative workers", mutate: func(c *Config) { c.Forecast.Workers = -1 }, expectedErr: "workers cannot be negative"},
		{name: "bad allocation", mutate: func(c *Config) { c.Allocation.MaxFunds = 0 }, expectedErr: "invalid allocation settings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)

			assert.ErrorContains(t, cfg.Validate(), tt.expectedErr)
		})
	}
}

func TestValidate_TokenOptionalWithoutGRPC(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Server.GRPCPort = 0
	cfg.Server.APIToken = ""

	assert.NoError(t, cfg.Validate())
}
