package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/simaogato/fundwise-backend/internal/domain"
	"github.com/simaogato/fundwise-backend/internal/usecase/forecast"
)

const (
	// DefaultFilterLimit caps FilterFunds when no limit is given
	DefaultFilterLimit = 50
	// DefaultTopLimit caps TopPerformers when no limit is given
	DefaultTopLimit = 10
	// DefaultTopMetric ranks TopPerformers when no metric is given
	DefaultTopMetric = "return_3yr"
)

// CategoryCount is the number of funds in one category
type CategoryCount struct {
	Name  string
	Count int
}

// FundFilter selects funds for exploration; zero values mean "any"
type FundFilter struct {
	AMCName   string
	Category  string
	RiskLevel int
	MinRating int
	Limit     int
}

// FilterResult is the outcome of FilterFunds
type FilterResult struct {
	Funds      []*domain.Fund
	TotalFound int
}

// RankedFund is one entry of a top performers list
type RankedFund struct {
	Rank        int
	Fund        *domain.Fund
	MetricValue float64
}

// TopPerformersResult is the outcome of TopPerformers
type TopPerformersResult struct {
	Metric         string
	Category       string
	Performers     []RankedFund
	TotalEvaluated int
}

// MarketOverview summarizes the whole catalog
type MarketOverview struct {
	TotalFunds   int
	TotalAMCs    int
	AvgReturn1Yr float64
	AvgReturn3Yr float64
	AvgReturn5Yr float64
	TotalAUM     float64
}

// ModelStats is the offline evaluation of one horizon's model
type ModelStats struct {
	Horizon  domain.Horizon
	Accuracy string
	RMSE     float64
}

// DashboardData is the dashboard overview
type DashboardData struct {
	MarketOverview   MarketOverview
	TopPerformers    map[string]*domain.Fund // best 3 year return per category
	ModelPerformance []ModelStats
}

// DashboardService handles fund exploration and market analytics
type DashboardService struct {
	Catalog *domain.Catalog
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(catalog *domain.Catalog) *DashboardService {
	return &DashboardService{
		Catalog: catalog,
	}
}

func (s *DashboardService) funds() ([]*domain.Fund, error) {
	if s.Catalog == nil {
		return nil, fmt.Errorf("%w: catalog not loaded", domain.ErrDataUnavailable)
	}
	return s.Catalog.Funds(), nil
}

// ListAMCs returns the sorted distinct AMC names
func (s *DashboardService) ListAMCs(ctx context.Context) ([]string, error) {
	if s.Catalog == nil {
		return nil, fmt.Errorf("%w: catalog not loaded", domain.ErrDataUnavailable)
	}
	return s.Catalog.AMCs(), nil
}

// ListCategories returns the populated categories, most funds first
func (s *DashboardService) ListCategories(ctx context.Context) ([]CategoryCount, error) {
	if s.Catalog == nil {
		return nil, fmt.Errorf("%w: catalog not loaded", domain.ErrDataUnavailable)
	}

	counts := s.Catalog.CategoryCounts()
	out := make([]CategoryCount, 0, len(counts))
	for _, c := range domain.Categories {
		if n := counts[c]; n > 0 {
			out = append(out, CategoryCount{Name: string(c), Count: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

// FilterFunds returns the funds matching every set field of the filter, in catalog order
// Logic:
//   - AMC matches exactly, category case-insensitively (unknown category is rejected)
//   - RiskLevel matches exactly, MinRating is inclusive
//   - At most Limit funds (default 50) are returned
func (s *DashboardService) FilterFunds(ctx context.Context, criteria FundFilter) (*FilterResult, error) {
	if s.Catalog == nil {
		return nil, fmt.Errorf("%w: catalog not loaded", domain.ErrDataUnavailable)
	}

	var category *domain.Category
	if strings.TrimSpace(criteria.Category) != "" {
		c, err := domain.ParseCategory(criteria.Category)
		if err != nil {
			return nil, err
		}
		category = &c
	}

	limit := criteria.Limit
	if limit <= 0 {
		limit = DefaultFilterLimit
	}

	matched := s.Catalog.Filter(func(f *domain.Fund) bool {
		if criteria.AMCName != "" && f.AMCName != criteria.AMCName {
			return false
		}
		if category != nil && f.Category != *category {
			return false
		}
		if criteria.RiskLevel != 0 && f.RiskLevel != criteria.RiskLevel {
			return false
		}
		return f.Rating >= criteria.MinRating
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}

	return &FilterResult{Funds: matched, TotalFound: len(matched)}, nil
}

// TopPerformers ranks funds by a numeric metric, highest first
// Returns ErrInvalidRequest for an unknown metric or category
func (s *DashboardService) TopPerformers(ctx context.Context, metric, category string, limit int) (*TopPerformersResult, error) {
	funds, err := s.funds()
	if err != nil {
		return nil, err
	}

	if metric == "" {
		metric = DefaultTopMetric
	}
	if !isMetric(metric) {
		return nil, fmt.Errorf("%w: invalid metric: %s", domain.ErrInvalidRequest, metric)
	}
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	label := "All"
	if strings.TrimSpace(category) != "" {
		c, err := domain.ParseCategory(category)
		if err != nil {
			return nil, err
		}
		label = string(c)
		funds = filter(funds, func(f *domain.Fund) bool { return f.Category == c })
	}

	evaluated := len(funds)
	sortByMetric(funds, metric)
	if len(funds) > limit {
		funds = funds[:limit]
	}

	performers := make([]RankedFund, len(funds))
	for i, f := range funds {
		v, _ := f.Metric(metric)
		performers[i] = RankedFund{Rank: i + 1, Fund: f, MetricValue: v}
	}

	return &TopPerformersResult{
		Metric:         metric,
		Category:       label,
		Performers:     performers,
		TotalEvaluated: evaluated,
	}, nil
}

// GetDashboardData builds the dashboard overview
func (s *DashboardService) GetDashboardData(ctx context.Context) (*DashboardData, error) {
	funds, err := s.funds()
	if err != nil {
		return nil, err
	}

	data := &DashboardData{
		MarketOverview: MarketOverview{
			TotalFunds:   len(funds),
			TotalAMCs:    len(s.Catalog.AMCs()),
			AvgReturn1Yr: mean(column(funds, "return_1yr")),
			AvgReturn3Yr: mean(column(funds, "return_3yr")),
			AvgReturn5Yr: mean(column(funds, "return_5yr")),
			TotalAUM:     sum(column(funds, "fund_size")),
		},
		TopPerformers: make(map[string]*domain.Fund),
	}

	for _, c := range domain.Categories {
		in := filter(funds, func(f *domain.Fund) bool { return f.Category == c })
		if len(in) == 0 {
			continue
		}
		sortByMetric(in, "return_3yr")
		data.TopPerformers[string(c)] = in[0]
	}

	for _, h := range domain.Horizons {
		acc := forecast.ModelAccuracy[h]
		data.ModelPerformance = append(data.ModelPerformance, ModelStats{Horizon: h, Accuracy: acc.Accuracy, RMSE: acc.RMSE})
	}

	return data, nil
}

func isMetric(name string) bool {
	for _, m := range domain.MetricNames {
		if m == name {
			return true
		}
	}
	return false
}

func filter(funds []*domain.Fund, keep func(*domain.Fund) bool) []*domain.Fund {
	out := make([]*domain.Fund, 0, len(funds))
	for _, f := range funds {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// sortByMetric orders funds by metric descending, scheme name breaking ties
func sortByMetric(funds []*domain.Fund, metric string) {
	sort.SliceStable(funds, func(i, j int) bool {
		a, _ := funds[i].Metric(metric)
		b, _ := funds[j].Metric(metric)
		if a != b {
			return a > b
		}
		return funds[i].SchemeName < funds[j].SchemeName
	})
}
