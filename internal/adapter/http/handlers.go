package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/simaogato/fundwise-backend/internal/adapter/dto"
	"github.com/simaogato/fundwise-backend/internal/domain"
	"github.com/simaogato/fundwise-backend/internal/usecase/investment"
)

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	loaded := s.ForecastService != nil && s.ForecastService.Models != nil
	writeJSON(w, http.StatusOK, dto.Health{
		Message:      "Fundwise API is running",
		Status:       "healthy",
		ModelsLoaded: loaded,
	})
}

// handleRecommend builds a plan and applies the AMC preference on top of it
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req dto.RecommendRequest
	if !s.decode(w, r, &req) {
		return
	}

	plan, err := s.InvestmentService.GenerateInvestmentPlan(r.Context(), req.ToDomain())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	plan = investment.ApplyAMCPreference(plan, req.AMCName)

	writeJSON(w, http.StatusOK, dto.FromPlan(plan))
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	var req dto.ForecastRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.FundName == "" {
		s.writeError(w, r, fmt.Errorf("%w: fund_name is required", domain.ErrInvalidRequest))
		return
	}

	result, err := s.ForecastService.Forecast(r.Context(), req.FundName, req.HorizonOrDefault())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromForecast(result))
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req dto.CompareRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.ComparisonService.CompareFunds(r.Context(), req.FundNames, req.Metrics)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromComparison(result))
}

func (s *Server) handleFunds(w http.ResponseWriter, r *http.Request) {
	var req dto.FundFilterRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.DashboardService.FilterFunds(r.Context(), req.ToDomain())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FundList{
		Funds:          dto.FromFunds(result.Funds),
		TotalFound:     result.TotalFound,
		FiltersApplied: req,
	})
}

func (s *Server) handleAMCs(w http.ResponseWriter, r *http.Request) {
	amcs, err := s.DashboardService.ListAMCs(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AMCList{AMCs: amcs})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.DashboardService.ListCategories(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromCategories(categories))
}

func (s *Server) handleTopPerformers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, r, fmt.Errorf("%w: limit must be a positive integer", domain.ErrInvalidRequest))
			return
		}
		limit = n
	}

	result, err := s.DashboardService.TopPerformers(r.Context(), q.Get("metric"), q.Get("category"), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromTopPerformers(result))
}

func (s *Server) handleDashboardData(w http.ResponseWriter, r *http.Request) {
	data, err := s.DashboardService.GetDashboardData(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromDashboardData(data))
}

func (s *Server) handleDescriptiveAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.DashboardService.GetDescriptiveAnalysis(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromDescriptiveAnalysis(analysis))
}

func (s *Server) handleEnhancedAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.DashboardService.GetEnhancedAnalysis(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromEnhancedAnalysis(analysis))
}

func (s *Server) handleMarketTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := s.DashboardService.GetMarketTrends(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromMarketTrends(trends))
}

// decode reads a JSON body, answering 400 itself when it cannot
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: malformed JSON body: %v", domain.ErrInvalidRequest, err))
		return false
	}
	return true
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrFundNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		id, _ := r.Context().Value(requestIDKey).(string)
		s.Logger.Error().Err(err).Str("request_id", id).Str("path", r.URL.Path).Msg("Request failed")
		msg = "internal server error"
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
