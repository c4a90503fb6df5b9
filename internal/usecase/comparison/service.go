package comparison

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ternarybob/arbor"

	"github.com/simaogato/fundwise-backend/internal/domain"
	"github.com/simaogato/fundwise-backend/internal/usecase/forecast"
)

// DefaultMetrics are compared when the caller names none
var DefaultMetrics = []string{"return_1yr", "return_3yr", "return_5yr", "risk_level", "expense_ratio"}

// lowerIsBetter metrics rank ascending
var lowerIsBetter = map[string]bool{
	"expense_ratio":      true,
	"risk_level":         true,
	"standard_deviation": true,
}

// FundComparison is one compared fund
// Error is set instead of the other fields when the fund is unknown.
type FundComparison struct {
	SchemeName  string
	AMCName     string
	Category    domain.Category
	Metrics     map[string]float64
	Predictions map[string]float64 // "predicted_3yr" -> percent, nil when any horizon failed
	Ranks       map[string]int     // "<metric>_rank", only with two or more found funds
	Error       string
}

// Found reports whether the fund resolved
func (c *FundComparison) Found() bool {
	return c.Error == ""
}

// Result is the outcome of CompareFunds, in request order
type Result struct {
	Funds   []*FundComparison
	Metrics []string
}

// ComparisonService compares funds side by side
type ComparisonService struct {
	Catalog  *domain.Catalog
	Forecast *forecast.ForecastService
	Logger   arbor.ILogger
}

// NewComparisonService creates a new ComparisonService instance
func NewComparisonService(catalog *domain.Catalog, forecaster *forecast.ForecastService, logger arbor.ILogger) *ComparisonService {
	return &ComparisonService{
		Catalog:  catalog,
		Forecast: forecaster,
		Logger:   logger,
	}
}

// CompareFunds reports metrics, predictions and ranks for the named funds
// Logic:
//   - Unknown metric names are ignored, no metrics means DefaultMetrics
//   - An unknown fund is reported inline with "Fund not found"
//   - Predictions come from the forecast engine and are omitted if any horizon fails
//   - With two or more found funds every metric is ranked (1 is best, ties share a rank)
func (s *ComparisonService) CompareFunds(ctx context.Context, names []string, metrics []string) (*Result, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: fund names cannot be empty", domain.ErrInvalidRequest)
	}
	if s.Catalog == nil {
		return nil, fmt.Errorf("%w: catalog not loaded", domain.ErrDataUnavailable)
	}

	metrics = knownMetrics(metrics)
	result := &Result{Funds: make([]*FundComparison, 0, len(names)), Metrics: metrics}

	found := make([]*FundComparison, 0, len(names))
	for _, name := range names {
		fund, err := s.Catalog.Lookup(name)
		if err != nil {
			if !errors.Is(err, domain.ErrFundNotFound) {
				return nil, err
			}
			result.Funds = append(result.Funds, &FundComparison{SchemeName: name, Error: "Fund not found"})
			continue
		}

		c := &FundComparison{
			SchemeName:  fund.SchemeName,
			AMCName:     fund.AMCName,
			Category:    fund.Category,
			Metrics:     make(map[string]float64, len(metrics)),
			Predictions: s.predictions(ctx, fund),
		}
		for _, m := range metrics {
			c.Metrics[m], _ = fund.Metric(m)
		}
		result.Funds = append(result.Funds, c)
		found = append(found, c)
	}

	if len(found) >= 2 {
		for _, m := range metrics {
			rank(found, m)
		}
	}

	s.Logger.Debug().
		Strs("funds", names).
		Int("found", len(found)).
		Strs("metrics", metrics).
		Msg("Funds compared")

	return result, nil
}

// predictions returns every horizon's prediction, or nil if any failed or no models are loaded
func (s *ComparisonService) predictions(ctx context.Context, fund *domain.Fund) map[string]float64 {
	if s.Forecast == nil || s.Forecast.Models == nil {
		return nil
	}

	forecasted := s.Forecast.ForecastFund(ctx, fund, 0)
	out := make(map[string]float64, len(forecasted.Predictions))
	for _, p := range forecasted.Predictions {
		if p.Failed() {
			return nil
		}
		out[fmt.Sprintf("predicted_%dyr", int(p.Horizon))] = p.PredictedReturn
	}
	return out
}

func knownMetrics(requested []string) []string {
	if len(requested) == 0 {
		return append([]string(nil), DefaultMetrics...)
	}

	known := make(map[string]bool, len(domain.MetricNames))
	for _, m := range domain.MetricNames {
		known[m] = true
	}

	out := make([]string, 0, len(requested))
	seen := make(map[string]bool)
	for _, m := range requested {
		if known[m] && !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// rank assigns "<metric>_rank" to each fund
func rank(funds []*FundComparison, metric string) {
	order := make([]*FundComparison, len(funds))
	copy(order, funds)

	asc := lowerIsBetter[metric]
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i].Metrics[metric], order[j].Metrics[metric]
		if asc {
			return a < b
		}
		return a > b
	})

	key := metric + "_rank"
	for i, c := range order {
		if c.Ranks == nil {
			c.Ranks = make(map[string]int)
		}
		if i > 0 && c.Metrics[metric] == order[i-1].Metrics[metric] {
			c.Ranks[key] = order[i-1].Ranks[key]
			continue
		}
		c.Ranks[key] = i + 1
	}
}
