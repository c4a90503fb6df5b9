package dashboard

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/simaogato/fundwise-backend/internal/domain"
)

// Expense ratio bands, in percent
const (
	LowCostExpense  = 1.0
	HighCostExpense = 2.0
)

// Stats are the descriptive statistics of one metric
type Stats struct {
	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64
}

// Distribution extends Stats with shape and percentiles
type Distribution struct {
	Stats
	Skewness    float64
	Kurtosis    float64
	Percentiles map[string]float64 // "25th", "50th", "75th", "90th"
}

// AMCPerformance is the mean 3 year return of one AMC
type AMCPerformance struct {
	AMCName      string
	AvgReturn3Yr float64
}

// ExpenseAnalysis summarizes expense ratios
type ExpenseAnalysis struct {
	Mean          float64
	Median        float64
	LowCostFunds  int
	HighCostFunds int
}

// DescriptiveAnalysis is the catalog-wide descriptive report
type DescriptiveAnalysis struct {
	TotalFunds           int
	UniqueAMCs           int
	DataPoints           int
	CategoryDistribution map[string]int
	RiskDistribution     map[int]int
	RatingDistribution   map[int]int
	ReturnStatistics     map[string]Stats // keyed by horizon, e.g. "3_year"
	TopPerformingAMCs    []AMCPerformance // best first, at most 10
	Expense              ExpenseAnalysis
}

// Correlation is one strongly correlated metric pair
type Correlation struct {
	Feature1    string
	Feature2    string
	Correlation float64
	Strength    string // "strong" above 0.7, otherwise "moderate"
}

// CategoryTrend summarizes one category
type CategoryTrend struct {
	Count        int
	AvgReturn1Yr float64
	AvgReturn3Yr float64
	AvgReturn5Yr float64
	AvgRisk      float64
	AvgExpense   float64
	TopPerformer string
}

// RiskBucket summarizes the funds of one risk level
type RiskBucket struct {
	RiskLevel        int
	FundCount        int
	AvgReturn1Yr     float64
	AvgReturn3Yr     float64
	AvgReturn5Yr     float64
	ReturnVolatility float64
}

// CostBucket summarizes the funds of one expense band
type CostBucket struct {
	Count        int
	AvgReturn3Yr float64
	AvgExpense   float64
}

// AgeBucket summarizes the funds of one age range
type AgeBucket struct {
	AgeRange     string
	Count        int
	AvgReturn3Yr float64
	AvgStability float64
}

// MarketInsights are catalog-wide headline figures
type MarketInsights struct {
	TotalAUM           float64
	AvgFundAge         float64
	HighPerformerCount int
	LowCostFundCount   int
}

// EnhancedAnalysis is the correlation, trend and distribution report
type EnhancedAnalysis struct {
	CorrelationMatrix  map[string]map[string]float64
	StrongCorrelations []Correlation
	CategoryTrends     map[string]CategoryTrend
	RiskReturn         []RiskBucket
	ExpenseImpact      map[string]CostBucket
	AgePerformance     []AgeBucket
	Distributions      map[string]Distribution // "returns_1yr", "returns_3yr"
	Insights           MarketInsights
}

// MarketTrends is the market-wide trends report
type MarketTrends struct {
	PerformanceDistribution map[string]int
	RiskAppetite            map[string]int
	AMCMarketShare          []CategoryCount // top 10 AMCs by fund count
	CategoryAUM             map[string]float64
	ExpenseTrends           map[string]float64
	RatingDistribution      map[int]int
	MarketAvgSharpe         float64
	HighSharpeFunds         int
	NegativeSharpeFunds     int
	TotalFunds              int
	TotalAUM                float64
	AvgReturn3Yr            float64
	MarketVolatility        float64
}

// correlatedMetrics are the metrics compared in the correlation matrix
var correlatedMetrics = []string{
	"return_1yr", "return_3yr", "return_5yr", "risk_level",
	"expense_ratio", "fund_size", "fund_age", "rating",
	"sharpe", "sortino", "alpha", "beta",
}

// GetDescriptiveAnalysis builds distributions and statistics over the whole catalog
func (s *DashboardService) GetDescriptiveAnalysis(ctx context.Context) (*DescriptiveAnalysis, error) {
	funds, err := s.funds()
	if err != nil {
		return nil, err
	}

	a := &DescriptiveAnalysis{
		TotalFunds:           len(funds),
		UniqueAMCs:           len(s.Catalog.AMCs()),
		DataPoints:           len(funds) * len(domain.MetricNames),
		CategoryDistribution: make(map[string]int),
		RiskDistribution:     make(map[int]int),
		RatingDistribution:   make(map[int]int),
		ReturnStatistics:     make(map[string]Stats),
	}

	for c, n := range s.Catalog.CategoryCounts() {
		a.CategoryDistribution[string(c)] = n
	}
	for _, f := range funds {
		a.RiskDistribution[f.RiskLevel]++
		a.RatingDistribution[f.Rating]++
	}
	for _, h := range domain.Horizons {
		a.ReturnStatistics[h.Key()] = describe(column(funds, fmt.Sprintf("return_%dyr", int(h))))
	}

	a.TopPerformingAMCs = topAMCs(funds, 10)

	expense := column(funds, "expense_ratio")
	es := describe(expense)
	a.Expense = ExpenseAnalysis{
		Mean:          es.Mean,
		Median:        es.Median,
		LowCostFunds:  count(expense, func(v float64) bool { return v < LowCostExpense }),
		HighCostFunds: count(expense, func(v float64) bool { return v > HighCostExpense }),
	}

	return a, nil
}

// GetEnhancedAnalysis builds correlations, per-group trends and return distributions
func (s *DashboardService) GetEnhancedAnalysis(ctx context.Context) (*EnhancedAnalysis, error) {
	funds, err := s.funds()
	if err != nil {
		return nil, err
	}

	a := &EnhancedAnalysis{
		CorrelationMatrix: make(map[string]map[string]float64),
		CategoryTrends:    make(map[string]CategoryTrend),
		ExpenseImpact:     make(map[string]CostBucket),
		Distributions:     make(map[string]Distribution),
	}

	columns := make(map[string][]float64, len(correlatedMetrics))
	for _, m := range correlatedMetrics {
		columns[m] = column(funds, m)
	}
	for i, m1 := range correlatedMetrics {
		a.CorrelationMatrix[m1] = make(map[string]float64)
		for _, m2 := range correlatedMetrics {
			a.CorrelationMatrix[m1][m2] = correlation(columns[m1], columns[m2])
		}
		for _, m2 := range correlatedMetrics[i+1:] {
			r := a.CorrelationMatrix[m1][m2]
			if math.Abs(r) <= 0.5 {
				continue
			}
			strength := "moderate"
			if math.Abs(r) > 0.7 {
				strength = "strong"
			}
			a.StrongCorrelations = append(a.StrongCorrelations, Correlation{Feature1: m1, Feature2: m2, Correlation: r, Strength: strength})
		}
	}

	for _, c := range domain.Categories {
		in := filter(funds, func(f *domain.Fund) bool { return f.Category == c })
		if len(in) == 0 {
			continue
		}
		sortByMetric(in, "return_3yr")
		a.CategoryTrends[string(c)] = CategoryTrend{
			Count:        len(in),
			AvgReturn1Yr: mean(column(in, "return_1yr")),
			AvgReturn3Yr: mean(column(in, "return_3yr")),
			AvgReturn5Yr: mean(column(in, "return_5yr")),
			AvgRisk:      mean(column(in, "risk_level")),
			AvgExpense:   mean(column(in, "expense_ratio")),
			TopPerformer: in[0].SchemeName,
		}
	}

	for level := 1; level <= 6; level++ {
		in := filter(funds, func(f *domain.Fund) bool { return f.RiskLevel == level })
		if len(in) == 0 {
			continue
		}
		a.RiskReturn = append(a.RiskReturn, RiskBucket{
			RiskLevel:        level,
			FundCount:        len(in),
			AvgReturn1Yr:     mean(column(in, "return_1yr")),
			AvgReturn3Yr:     mean(column(in, "return_3yr")),
			AvgReturn5Yr:     mean(column(in, "return_5yr")),
			ReturnVolatility: describe(column(in, "return_3yr")).Std,
		})
	}

	costBands := []struct {
		name string
		keep func(float64) bool
	}{
		{"low_cost", func(e float64) bool { return e < LowCostExpense }},
		{"medium_cost", func(e float64) bool { return e >= LowCostExpense && e < HighCostExpense }},
		{"high_cost", func(e float64) bool { return e >= HighCostExpense }},
	}
	for _, band := range costBands {
		in := filter(funds, func(f *domain.Fund) bool { return band.keep(f.ExpenseRatio) })
		if len(in) == 0 {
			continue
		}
		a.ExpenseImpact[band.name] = CostBucket{
			Count:        len(in),
			AvgReturn3Yr: mean(column(in, "return_3yr")),
			AvgExpense:   mean(column(in, "expense_ratio")),
		}
	}

	for _, bin := range [][2]float64{{0, 3}, {3, 5}, {5, 10}, {10, 20}} {
		in := filter(funds, func(f *domain.Fund) bool { return f.FundAge >= bin[0] && f.FundAge < bin[1] })
		if len(in) == 0 {
			continue
		}
		a.AgePerformance = append(a.AgePerformance, AgeBucket{
			AgeRange:     fmt.Sprintf("%g-%g years", bin[0], bin[1]),
			Count:        len(in),
			AvgReturn3Yr: mean(column(in, "return_3yr")),
			AvgStability: mean(column(in, "stability_score")),
		})
	}

	a.Distributions["returns_1yr"] = distribution(columns["return_1yr"])
	a.Distributions["returns_3yr"] = distribution(columns["return_3yr"])

	a.Insights = MarketInsights{
		TotalAUM:           sum(columns["fund_size"]),
		AvgFundAge:         mean(columns["fund_age"]),
		HighPerformerCount: count(columns["return_3yr"], func(v float64) bool { return v > 20 }),
		LowCostFundCount:   count(columns["expense_ratio"], func(v float64) bool { return v < LowCostExpense }),
	}

	return a, nil
}

// GetMarketTrends builds the market-wide performance, risk and cost breakdown
func (s *DashboardService) GetMarketTrends(ctx context.Context) (*MarketTrends, error) {
	funds, err := s.funds()
	if err != nil {
		return nil, err
	}

	r3 := column(funds, "return_3yr")
	risk := column(funds, "risk_level")
	sharpe := column(funds, "sharpe")

	t := &MarketTrends{
		PerformanceDistribution: map[string]int{
			"excellent":     count(r3, func(v float64) bool { return v > 25 }),
			"good":          count(r3, func(v float64) bool { return v > 15 && v <= 25 }),
			"average":       count(r3, func(v float64) bool { return v > 10 && v <= 15 }),
			"below_average": count(r3, func(v float64) bool { return v <= 10 }),
		},
		RiskAppetite: map[string]int{
			string(domain.RiskConservative): count(risk, func(v float64) bool { return v <= 2 }),
			string(domain.RiskModerate):     count(risk, func(v float64) bool { return v > 2 && v <= 4 }),
			string(domain.RiskAggressive):   count(risk, func(v float64) bool { return v > 4 }),
		},
		CategoryAUM:         make(map[string]float64),
		ExpenseTrends:       map[string]float64{"market_average": mean(column(funds, "expense_ratio"))},
		RatingDistribution:  make(map[int]int),
		MarketAvgSharpe:     mean(sharpe),
		HighSharpeFunds:     count(sharpe, func(v float64) bool { return v > 1.5 }),
		NegativeSharpeFunds: count(sharpe, func(v float64) bool { return v < 0 }),
		TotalFunds:          len(funds),
		TotalAUM:            sum(column(funds, "fund_size")),
		AvgReturn3Yr:        mean(r3),
		MarketVolatility:    mean(column(funds, "standard_deviation")),
	}

	amcCounts := make(map[string]int)
	for _, f := range funds {
		amcCounts[f.AMCName]++
		t.RatingDistribution[f.Rating]++
	}
	for name, n := range amcCounts {
		t.AMCMarketShare = append(t.AMCMarketShare, CategoryCount{Name: name, Count: n})
	}
	sort.Slice(t.AMCMarketShare, func(i, j int) bool {
		a, b := t.AMCMarketShare[i], t.AMCMarketShare[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})
	if len(t.AMCMarketShare) > 10 {
		t.AMCMarketShare = t.AMCMarketShare[:10]
	}

	for _, c := range domain.Categories {
		in := filter(funds, func(f *domain.Fund) bool { return f.Category == c })
		if len(in) == 0 {
			continue
		}
		key := strings.ToLower(string(c)) + "_avg"
		t.CategoryAUM[string(c)] = sum(column(in, "fund_size"))
		t.ExpenseTrends[key] = mean(column(in, "expense_ratio"))
	}

	return t, nil
}

// topAMCs ranks AMCs by mean 3 year return
func topAMCs(funds []*domain.Fund, limit int) []AMCPerformance {
	byAMC := make(map[string][]float64)
	for _, f := range funds {
		byAMC[f.AMCName] = append(byAMC[f.AMCName], f.Return3Yr)
	}

	out := make([]AMCPerformance, 0, len(byAMC))
	for name, returns := range byAMC {
		out = append(out, AMCPerformance{AMCName: name, AvgReturn3Yr: mean(returns)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgReturn3Yr != out[j].AvgReturn3Yr {
			return out[i].AvgReturn3Yr > out[j].AvgReturn3Yr
		}
		return out[i].AMCName < out[j].AMCName
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func column(funds []*domain.Fund, metric string) []float64 {
	out := make([]float64, len(funds))
	for i, f := range funds {
		out[i], _ = f.Metric(metric)
	}
	return out
}

func count(values []float64, keep func(float64) bool) int {
	n := 0
	for _, v := range values {
		if keep(v) {
			n++
		}
	}
	return n
}

func sum(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Sum(values)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// describe computes Stats; the standard deviation is the sample one (n-1) and 0 below two values
func describe(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	st := Stats{
		Mean:   stat.Mean(sorted, nil),
		Median: median(sorted),
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
	}
	if len(sorted) > 1 {
		st.Std = stat.StdDev(sorted, nil)
	}
	return st
}

// median of sorted values, averaging the two middle values for an even count
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func distribution(values []float64) Distribution {
	d := Distribution{Stats: describe(values), Percentiles: make(map[string]float64)}
	if len(values) == 0 {
		return d
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	for _, p := range []struct {
		key string
		q   float64
	}{{"25th", 0.25}, {"50th", 0.50}, {"75th", 0.75}, {"90th", 0.90}} {
		d.Percentiles[p.key] = stat.Quantile(p.q, stat.Empirical, sorted, nil)
	}

	if d.Std > 0 && len(sorted) > 2 {
		d.Skewness = finite(stat.Skew(sorted, nil))
	}
	if d.Std > 0 && len(sorted) > 3 {
		d.Kurtosis = finite(stat.ExKurtosis(sorted, nil))
	}
	return d
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// correlation is Pearson's r, 0 when either side is constant
func correlation(x, y []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return finite(stat.Correlation(x, y, nil))
}
