package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/simaogato/fundwise-backend/internal/usecase/investment"
	"github.com/simaogato/fundwise-backend/internal/usecase/scoring"
)

// Data sources
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

// Config represents the application configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Data       DataConfig       `toml:"data"`
	Models     ModelsConfig     `toml:"models"`
	Allocation AllocationConfig `toml:"allocation"`
	Forecast   ForecastConfig   `toml:"forecast"`
	Logging    LoggingConfig    `toml:"logging"`
}

// ServerConfig contains HTTP and gRPC server settings.
type ServerConfig struct {
	Host        string   `toml:"host"`
	HTTPPort    int      `toml:"http_port"`
	GRPCPort    int      `toml:"grpc_port"`
	APIToken    string   `toml:"api_token"`
	CORSOrigins []string `toml:"cors_origins"`
}

// DataConfig selects where the fund catalog is loaded from.
type DataConfig struct {
	Source      string `toml:"source"` // csv, postgres or sqlite
	CSVPath     string `toml:"csv_path"`
	DSN         string `toml:"dsn"`
	SeedFromCSV bool   `toml:"seed_from_csv"`
}

// ModelsConfig locates the fitted return models.
type ModelsConfig struct {
	Dir string `toml:"dir"`
}

// AllocationConfig tunes the diversified allocation engine.
type AllocationConfig struct {
	MaxFunds      int             `toml:"max_funds"`
	AMCCap        float64         `toml:"amc_cap"`
	CategoryCap   float64         `toml:"category_cap"`
	MinCategories int             `toml:"min_categories"`
	MinAMCs       int             `toml:"min_amcs"`
	Weights       scoring.Weights `toml:"weights"`
}

// ForecastConfig tunes the forecast engine.
type ForecastConfig struct {
	Workers int `toml:"workers"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Outputs  []string `toml:"outputs"` // console, file
	FilePath string   `toml:"file_path"`
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies FUNDWISE_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if host := os.Getenv("FUNDWISE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("FUNDWISE_HTTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.HTTPPort = p
		}
	}
	if port := os.Getenv("FUNDWISE_GRPC_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.GRPCPort = p
		}
	}
	if token := os.Getenv("FUNDWISE_API_TOKEN"); token != "" {
		config.Server.APIToken = token
	}
	if source := os.Getenv("FUNDWISE_DATA_SOURCE"); source != "" {
		config.Data.Source = source
	}
	if path := os.Getenv("FUNDWISE_CSV_PATH"); path != "" {
		config.Data.CSVPath = path
	}
	if dsn := os.Getenv("FUNDWISE_DSN"); dsn != "" {
		config.Data.DSN = dsn
	}
	if dir := os.Getenv("FUNDWISE_MODELS_DIR"); dir != "" {
		config.Models.Dir = dir
	}
	if level := os.Getenv("FUNDWISE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, httpPort, grpcPort int, dataPath, modelsDir string) {
	if httpPort > 0 {
		config.Server.HTTPPort = httpPort
	}
	if grpcPort > 0 {
		config.Server.GRPCPort = grpcPort
	}
	if dataPath != "" {
		config.Data.CSVPath = dataPath
	}
	if modelsDir != "" {
		config.Models.Dir = modelsDir
	}
}

// Validate ensures the configuration is usable
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port %d", c.Server.HTTPPort)
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 {
		return fmt.Errorf("invalid grpc port %d", c.Server.GRPCPort)
	}
	if c.Server.GRPCPort > 0 && c.Server.GRPCPort == c.Server.HTTPPort {
		return errors.New("http and grpc ports must differ")
	}
	if c.Server.GRPCPort > 0 && strings.TrimSpace(c.Server.APIToken) == "" {
		return errors.New("server.api_token is required when grpc is enabled")
	}

	switch strings.ToLower(c.Data.Source) {
	case SourceCSV:
		if c.Data.CSVPath == "" {
			return errors.New("data.csv_path is required for the csv source")
		}
	case SourcePostgres, SourceSQLite:
		if c.Data.DSN == "" {
			return fmt.Errorf("data.dsn is required for the %s source", c.Data.Source)
		}
		if c.Data.SeedFromCSV && c.Data.CSVPath == "" {
			return errors.New("data.csv_path is required to seed from csv")
		}
	default:
		return fmt.Errorf("unknown data source %q", c.Data.Source)
	}

	if c.Models.Dir == "" {
		return errors.New("models.dir is required")
	}
	if c.Forecast.Workers < 0 {
		return errors.New("forecast.workers cannot be negative")
	}

	if err := c.Allocation.Options().Validate(); err != nil {
		return fmt.Errorf("invalid allocation settings: %w", err)
	}
	return nil
}

// Options converts the allocation settings into engine options
func (a AllocationConfig) Options() investment.Options {
	return investment.Options{
		MaxFunds:      a.MaxFunds,
		AMCCap:        a.AMCCap,
		CategoryCap:   a.CategoryCap,
		MinCategories: a.MinCategories,
		MinAMCs:       a.MinAMCs,
		Weights:       a.Weights,
	}
}

// HTTPAddr returns the HTTP listen address
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}

// GRPCAddr returns the gRPC listen address, empty when gRPC is disabled
func (c *Config) GRPCAddr() string {
	if c.Server.GRPCPort == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}
