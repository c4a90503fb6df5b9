package config

import (
	"github.com/simaogato/fundwise-backend/internal/usecase/investment"
)

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	opts := investment.DefaultOptions()

	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			HTTPPort:    8000,
			GRPCPort:    8080,
			APIToken:    "dev-token",
			CORSOrigins: []string{"*"},
		},
		Data: DataConfig{
			Source:  SourceCSV,
			CSVPath: "data/funds.csv",
		},
		Models: ModelsConfig{
			Dir: "models",
		},
		Allocation: AllocationConfig{
			MaxFunds:      opts.MaxFunds,
			AMCCap:        opts.AMCCap,
			CategoryCap:   opts.CategoryCap,
			MinCategories: opts.MinCategories,
			MinAMCs:       opts.MinAMCs,
			Weights:       opts.Weights,
		},
		Forecast: ForecastConfig{
			Workers: 3,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Outputs: []string{"console"},
		},
	}
}
