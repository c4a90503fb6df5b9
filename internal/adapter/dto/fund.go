package dto

import (
	"github.com/simaogato/fundwise-backend/internal/domain"
	"github.com/simaogato/fundwise-backend/internal/usecase/comparison"
	"github.com/simaogato/fundwise-backend/internal/usecase/dashboard"
)

// DefaultForecastHorizon applies when a forecast request names none
const DefaultForecastHorizon = 5

// Fund is a catalog row
type Fund struct {
	SchemeName        string  `json:"scheme_name"`
	AMCName           string  `json:"amc_name"`
	Category          string  `json:"category"`
	Return1Yr         float64 `json:"return_1yr"`
	Return3Yr         float64 `json:"return_3yr"`
	Return5Yr         float64 `json:"return_5yr"`
	RiskLevel         int     `json:"risk_level"`
	Rating            int     `json:"rating"`
	ExpenseRatio      float64 `json:"expense_ratio"`
	FundSize          float64 `json:"fund_size"`
	FundAge           float64 `json:"fund_age"`
	Sharpe            float64 `json:"sharpe"`
	Sortino           float64 `json:"sortino"`
	Alpha             float64 `json:"alpha"`
	Beta              float64 `json:"beta"`
	StandardDeviation float64 `json:"standard_deviation"`
	StabilityScore    float64 `json:"stability_score"`
}

// FromFund converts a catalog row
func FromFund(f *domain.Fund) Fund {
	return Fund{
		SchemeName:        f.SchemeName,
		AMCName:           f.AMCName,
		Category:          string(f.Category),
		Return1Yr:         f.Return1Yr,
		Return3Yr:         f.Return3Yr,
		Return5Yr:         f.Return5Yr,
		RiskLevel:         f.RiskLevel,
		Rating:            f.Rating,
		ExpenseRatio:      f.ExpenseRatio,
		FundSize:          f.FundSize,
		FundAge:           f.FundAge,
		Sharpe:            f.Sharpe,
		Sortino:           f.Sortino,
		Alpha:             f.Alpha,
		Beta:              f.Beta,
		StandardDeviation: f.StandardDeviation,
		StabilityScore:    f.StabilityScore,
	}
}

// FromFunds converts catalog rows
func FromFunds(funds []*domain.Fund) []Fund {
	out := make([]Fund, len(funds))
	for i, f := range funds {
		out[i] = FromFund(f)
	}
	return out
}

// FundFilterRequest is the body of a fund listing request
type FundFilterRequest struct {
	AMCName   string `json:"amc_name,omitempty"`
	Category  string `json:"category,omitempty"`
	RiskLevel int    `json:"risk_level,omitempty"`
	MinRating int    `json:"min_rating,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

// ToDomain converts the request into a dashboard filter
func (r FundFilterRequest) ToDomain() dashboard.FundFilter {
	return dashboard.FundFilter{
		AMCName:   r.AMCName,
		Category:  r.Category,
		RiskLevel: r.RiskLevel,
		MinRating: r.MinRating,
		Limit:     r.Limit,
	}
}

// FundList is the response of a fund listing request
type FundList struct {
	Funds          []Fund            `json:"funds"`
	TotalFound     int               `json:"total_found"`
	FiltersApplied FundFilterRequest `json:"filters_applied"`
}

// ForecastRequest is the body of a forecast request
type ForecastRequest struct {
	FundName string `json:"fund_name"`
	Horizon  *int   `json:"horizon,omitempty"`
}

// HorizonOrDefault returns the requested horizon, 5 when omitted
func (r ForecastRequest) HorizonOrDefault() int {
	if r.Horizon == nil {
		return DefaultForecastHorizon
	}
	return *r.Horizon
}

// CurrentMetrics are the fund figures echoed by a forecast
type CurrentMetrics struct {
	RiskLevel    int     `json:"risk_level"`
	Rating       int     `json:"rating"`
	ExpenseRatio float64 `json:"expense_ratio"`
	FundSize     float64 `json:"fund_size"`
	FundAge      float64 `json:"fund_age"`
}

// Prediction is one horizon's outcome; either Error or the other fields are set
type Prediction struct {
	PredictedReturn  *float64 `json:"predicted_return,omitempty"`
	HistoricalReturn *float64 `json:"historical_return,omitempty"`
	Confidence       string   `json:"confidence,omitempty"`
	Error            string   `json:"error,omitempty"`
}

// MonthlyProjection is the value of 100 units after Month months
type MonthlyProjection struct {
	Month            int     `json:"month"`
	ProjectedValue   float64 `json:"projected_value"`
	ReturnPercentage float64 `json:"return_percentage"`
}

// Forecast is the response of a forecast request
type Forecast struct {
	FundName           string                `json:"fund_name"`
	AMCName            string                `json:"amc_name"`
	CurrentMetrics     CurrentMetrics        `json:"current_metrics"`
	Predictions        map[string]Prediction `json:"predictions"`
	MonthlyProjections []MonthlyProjection   `json:"monthly_projections"`
	ForecastHorizon    int                   `json:"forecast_horizon"`
	ProjectionError    string                `json:"projection_error,omitempty"`
}

// FromForecast converts a forecast result
func FromForecast(r *domain.ForecastResult) Forecast {
	f := r.Fund
	out := Forecast{
		FundName: f.SchemeName,
		AMCName:  f.AMCName,
		CurrentMetrics: CurrentMetrics{
			RiskLevel:    f.RiskLevel,
			Rating:       f.Rating,
			ExpenseRatio: f.ExpenseRatio,
			FundSize:     f.FundSize,
			FundAge:      f.FundAge,
		},
		Predictions:        make(map[string]Prediction, len(r.Predictions)),
		MonthlyProjections: make([]MonthlyProjection, len(r.MonthlyProjections)),
		ForecastHorizon:    r.RequestedHorizon,
		ProjectionError:    r.ProjectionError,
	}

	for _, p := range r.Predictions {
		if p.Failed() {
			out.Predictions[p.Horizon.Key()] = Prediction{Error: p.Error}
			continue
		}
		predicted, historical := p.PredictedReturn, p.HistoricalReturn
		out.Predictions[p.Horizon.Key()] = Prediction{
			PredictedReturn:  &predicted,
			HistoricalReturn: &historical,
			Confidence:       string(p.Confidence),
		}
	}
	for i, m := range r.MonthlyProjections {
		out.MonthlyProjections[i] = MonthlyProjection{Month: m.Month, ProjectedValue: m.ProjectedValue, ReturnPercentage: m.ReturnPercentage}
	}
	return out
}

// CompareRequest is the body of a comparison request
type CompareRequest struct {
	FundNames []string `json:"fund_names"`
	Metrics   []string `json:"metrics,omitempty"`
}

// Comparison is the response of a comparison request
// Each entry carries fund_name and either error or the metric, prediction and rank keys.
type Comparison struct {
	Comparison      []map[string]any `json:"comparison"`
	MetricsCompared []string         `json:"metrics_compared"`
	TotalFunds      int              `json:"total_funds"`
}

// FromComparison converts a comparison result
func FromComparison(r *comparison.Result) Comparison {
	out := Comparison{
		Comparison:      make([]map[string]any, len(r.Funds)),
		MetricsCompared: r.Metrics,
		TotalFunds:      len(r.Funds),
	}
	for i, c := range r.Funds {
		entry := map[string]any{"fund_name": c.SchemeName}
		if !c.Found() {
			entry["error"] = c.Error
			out.Comparison[i] = entry
			continue
		}
		entry["amc_name"] = c.AMCName
		entry["category"] = string(c.Category)
		for k, v := range c.Metrics {
			entry[k] = v
		}
		for k, v := range c.Ranks {
			entry[k] = v
		}
		if c.Predictions != nil {
			entry["predictions"] = c.Predictions
		}
		out.Comparison[i] = entry
	}
	return out
}
