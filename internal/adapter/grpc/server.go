package grpc

import (
	"context"
	"errors"

	"github.com/ternarybob/arbor"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/simaogato/fundwise-backend/internal/adapter/dto"
	"github.com/simaogato/fundwise-backend/internal/domain"
	"github.com/simaogato/fundwise-backend/internal/usecase/comparison"
	"github.com/simaogato/fundwise-backend/internal/usecase/dashboard"
	"github.com/simaogato/fundwise-backend/internal/usecase/forecast"
	"github.com/simaogato/fundwise-backend/internal/usecase/investment"
)

// Server implements the FundAdvisorService gRPC server
type Server struct {
	InvestmentService *investment.InvestmentService
	ForecastService   *forecast.ForecastService
	ComparisonService *comparison.ComparisonService
	DashboardService  *dashboard.DashboardService
	Logger            arbor.ILogger
}

var _ FundAdvisorServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(
	investmentService *investment.InvestmentService,
	forecastService *forecast.ForecastService,
	comparisonService *comparison.ComparisonService,
	dashboardService *dashboard.DashboardService,
	logger arbor.ILogger,
) *Server {
	return &Server{
		InvestmentService: investmentService,
		ForecastService:   forecastService,
		ComparisonService: comparisonService,
		DashboardService:  dashboardService,
		Logger:            logger,
	}
}

// GenerateInvestmentPlan handles the GenerateInvestmentPlan RPC
func (s *Server) GenerateInvestmentPlan(ctx context.Context, req *dto.RecommendRequest) (*dto.Plan, error) {
	plan, err := s.InvestmentService.GenerateInvestmentPlan(ctx, req.ToDomain())
	if err != nil {
		return nil, s.mapError(err)
	}
	plan = investment.ApplyAMCPreference(plan, req.AMCName)

	resp := dto.FromPlan(plan)
	return &resp, nil
}

// Forecast handles the Forecast RPC
func (s *Server) Forecast(ctx context.Context, req *dto.ForecastRequest) (*dto.Forecast, error) {
	if req.FundName == "" {
		return nil, status.Error(codes.InvalidArgument, "fund_name is required")
	}

	result, err := s.ForecastService.Forecast(ctx, req.FundName, req.HorizonOrDefault())
	if err != nil {
		return nil, s.mapError(err)
	}

	resp := dto.FromForecast(result)
	return &resp, nil
}

// CompareFunds handles the CompareFunds RPC
func (s *Server) CompareFunds(ctx context.Context, req *dto.CompareRequest) (*dto.Comparison, error) {
	result, err := s.ComparisonService.CompareFunds(ctx, req.FundNames, req.Metrics)
	if err != nil {
		return nil, s.mapError(err)
	}

	resp := dto.FromComparison(result)
	return &resp, nil
}

// ListFunds handles the ListFunds RPC
func (s *Server) ListFunds(ctx context.Context, req *dto.FundFilterRequest) (*dto.FundList, error) {
	result, err := s.DashboardService.FilterFunds(ctx, req.ToDomain())
	if err != nil {
		return nil, s.mapError(err)
	}

	return &dto.FundList{
		Funds:          dto.FromFunds(result.Funds),
		TotalFound:     result.TotalFound,
		FiltersApplied: *req,
	}, nil
}

// mapError converts domain errors to gRPC status errors
func (s *Server) mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrFundNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrDataUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	}

	s.Logger.Error().Err(err).Msg("gRPC request failed")
	return status.Error(codes.Internal, "internal error")
}
