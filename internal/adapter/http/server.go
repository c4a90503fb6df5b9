package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/simaogato/fundwise-backend/internal/usecase/comparison"
	"github.com/simaogato/fundwise-backend/internal/usecase/dashboard"
	"github.com/simaogato/fundwise-backend/internal/usecase/forecast"
	"github.com/simaogato/fundwise-backend/internal/usecase/investment"
)

const maxBodyBytes = 1 << 20

// Server exposes the engines over JSON/HTTP
type Server struct {
	InvestmentService *investment.InvestmentService
	ForecastService   *forecast.ForecastService
	ComparisonService *comparison.ComparisonService
	DashboardService  *dashboard.DashboardService
	Logger            arbor.ILogger

	corsOrigins []string
	server      *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(
	addr string,
	corsOrigins []string,
	investmentService *investment.InvestmentService,
	forecastService *forecast.ForecastService,
	comparisonService *comparison.ComparisonService,
	dashboardService *dashboard.DashboardService,
	logger arbor.ILogger,
) *Server {
	s := &Server{
		InvestmentService: investmentService,
		ForecastService:   forecastService,
		ComparisonService: comparisonService,
		DashboardService:  dashboardService,
		Logger:            logger,
		corsOrigins:       corsOrigins,
	}

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.withMiddleware(s.routes()),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("POST /api/recommend", s.handleRecommend)
	mux.HandleFunc("POST /api/forecast", s.handleForecast)
	mux.HandleFunc("POST /api/compare-funds", s.handleCompare)
	mux.HandleFunc("POST /api/funds", s.handleFunds)
	mux.HandleFunc("GET /api/amcs", s.handleAMCs)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/top-performers", s.handleTopPerformers)
	mux.HandleFunc("GET /api/dashboard-data", s.handleDashboardData)
	mux.HandleFunc("GET /api/descriptive-analysis", s.handleDescriptiveAnalysis)
	mux.HandleFunc("GET /api/enhanced-analysis", s.handleEnhancedAnalysis)
	mux.HandleFunc("GET /api/market-trends", s.handleMarketTrends)

	return mux
}

// Handler returns the HTTP handler for testing
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.Logger.Info().Str("address", s.server.Addr).Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve http: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	s.Logger.Info().Msg("HTTP server stopped")
	return nil
}
