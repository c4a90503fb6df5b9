package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcadapter "github.com/simaogato/fundwise-backend/internal/adapter/grpc"
	httpadapter "github.com/simaogato/fundwise-backend/internal/adapter/http"
	"github.com/simaogato/fundwise-backend/internal/adapter/repository/csvfile"
	"github.com/simaogato/fundwise-backend/internal/adapter/repository/sqlstore"
	"github.com/simaogato/fundwise-backend/internal/common"
	"github.com/simaogato/fundwise-backend/internal/config"
	"github.com/simaogato/fundwise-backend/internal/domain"
	"github.com/simaogato/fundwise-backend/internal/registry"
	"github.com/simaogato/fundwise-backend/internal/usecase/comparison"
	"github.com/simaogato/fundwise-backend/internal/usecase/dashboard"
	"github.com/simaogato/fundwise-backend/internal/usecase/forecast"
	"github.com/simaogato/fundwise-backend/internal/usecase/investment"
	"github.com/simaogato/fundwise-backend/internal/usecase/scoring"
	"github.com/simaogato/fundwise-backend/internal/usecase/seeder"
)

// configPaths allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	httpPort    = flag.Int("http-port", 0, "HTTP port (overrides config)")
	grpcPort    = flag.Int("grpc-port", 0, "gRPC port (overrides config)")
	dataPath    = flag.String("data", "", "Fund dataset CSV path (overrides config)")
	modelsDir   = flag.String("models", "", "Model directory (overrides config)")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times)")
}

func main() {
	flag.Parse()

	if len(configFiles) == 0 {
		for _, path := range []string{"fundwise.toml", "config/fundwise.toml"} {
			if _, err := os.Stat(path); err == nil {
				configFiles = append(configFiles, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	config.ApplyFlagOverrides(cfg, *httpPort, *grpcPort, *dataPath, *modelsDir)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := common.InitLogger(cfg.Logging)
	logger.Info().
		Str("config_files", fmt.Sprintf("%v", []string(configFiles))).
		Str("data_source", cfg.Data.Source).
		Msg("Configuration loaded")

	ctx := context.Background()

	// 1. Load the fund catalog
	catalog, closeStore, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load fund catalog")
		os.Exit(1)
	}
	defer closeStore()
	logger.Info().Int("funds", catalog.Len()).Int("amcs", len(catalog.AMCs())).Msg("Fund catalog loaded")

	// 2. Load the return models
	models, err := registry.LoadDir(cfg.Models.Dir, scoring.FeatureNames)
	if err != nil {
		logger.Error().Err(err).Str("dir", cfg.Models.Dir).Msg("Failed to load return models")
		os.Exit(1)
	}
	logger.Info().Int("models", models.Len()).Str("dir", cfg.Models.Dir).Msg("Return models loaded")

	// 3. Initialize Services (Use Cases)
	investmentService := investment.NewInvestmentService(catalog, cfg.Allocation.Options(), logger)
	forecastService := forecast.NewForecastService(catalog, models, cfg.Forecast.Workers, logger)
	comparisonService := comparison.NewComparisonService(catalog, forecastService, logger)
	dashboardService := dashboard.NewDashboardService(catalog)

	// 4. Start HTTP Server
	httpServer := httpadapter.NewServer(
		cfg.HTTPAddr(),
		cfg.Server.CORSOrigins,
		investmentService,
		forecastService,
		comparisonService,
		dashboardService,
		logger,
	)
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("HTTP server failed")
			os.Exit(1)
		}
	}()

	// 5. Start gRPC Server
	var grpcServer *grpclib.Server
	if addr := cfg.GRPCAddr(); addr != "" {
		grpcServer = grpclib.NewServer(grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(logger),
			grpcadapter.AuthInterceptor(cfg.Server.APIToken, healthpb.Health_Check_FullMethodName),
		))
		grpcadapter.RegisterFundAdvisorServer(grpcServer, grpcadapter.NewServer(
			investmentService,
			forecastService,
			comparisonService,
			dashboardService,
			logger,
		))

		healthServer := health.NewServer()
		healthServer.SetServingStatus(grpcadapter.ServiceName, healthpb.HealthCheckResponse_SERVING)
		healthpb.RegisterHealthServer(grpcServer, healthServer)

		lis, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Error().Err(err).Str("address", addr).Msg("Failed to listen for gRPC")
			os.Exit(1)
		}
		go func() {
			logger.Info().Str("address", addr).Msg("gRPC server listening")
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error().Err(err).Msg("Failed to serve gRPC server")
				os.Exit(1)
			}
		}()
	}

	// Graceful shutdown
	waitForShutdown(logger, httpServer, grpcServer)
}

// loadCatalog builds the immutable catalog from the configured data source
// For SQL sources the returned func closes the database.
func loadCatalog(ctx context.Context, cfg *config.Config, logger arbor.ILogger) (*domain.Catalog, func(), error) {
	noop := func() {}

	var source domain.FundSource
	closeStore := noop

	switch strings.ToLower(cfg.Data.Source) {
	case config.SourceCSV:
		source = csvfile.NewSource(cfg.Data.CSVPath)

	case config.SourcePostgres, config.SourceSQLite:
		driver := sqlstore.DriverPostgres
		if strings.EqualFold(cfg.Data.Source, config.SourceSQLite) {
			driver = sqlstore.DriverSQLite
		}

		db, err := sqlstore.NewDB(driver, cfg.Data.DSN)
		if err != nil {
			return nil, noop, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
		}
		closeStore = func() { _ = db.Close() }

		if err := db.Migrate(ctx); err != nil {
			closeStore()
			return nil, noop, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
		}

		repo := sqlstore.NewFundRepository(db)
		if cfg.Data.SeedFromCSV {
			created, err := seeder.NewCatalogSeeder(csvfile.NewSource(cfg.Data.CSVPath), repo, logger).Seed(ctx)
			if err != nil {
				closeStore()
				return nil, noop, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
			}
			logger.Info().Int("created", created).Msg("Fund table seeded from CSV")
		}
		source = repo

	default:
		return nil, noop, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}

	funds, err := source.LoadFunds(ctx)
	if err != nil {
		closeStore()
		return nil, noop, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}

	catalog, err := domain.NewCatalog(funds)
	if err != nil {
		closeStore()
		return nil, noop, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}
	return catalog, closeStore, nil
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the servers
func waitForShutdown(logger arbor.ILogger, httpServer *httpadapter.Server, grpcServer *grpclib.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
		logger.Info().Msg("gRPC server stopped")
	}
}
