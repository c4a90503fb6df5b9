package dto

import (
	"fmt"
	"strconv"

	"github.com/simaogato/fundwise-backend/internal/usecase/dashboard"
)

// Health is the response of the health check
type Health struct {
	Message      string `json:"message"`
	Status       string `json:"status"`
	ModelsLoaded bool   `json:"models_loaded"`
}

// AMCList is the response of the AMC listing
type AMCList struct {
	AMCs []string `json:"amcs"`
}

// CategoryCount is one populated category
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CategoryList is the response of the category listing
type CategoryList struct {
	Categories []CategoryCount `json:"categories"`
}

// FromCategories converts category counts
func FromCategories(in []dashboard.CategoryCount) CategoryList {
	out := CategoryList{Categories: make([]CategoryCount, len(in))}
	for i, c := range in {
		out.Categories[i] = CategoryCount{Name: c.Name, Count: c.Count}
	}
	return out
}

// Performer is one entry of a top performers list
type Performer struct {
	Rank         int     `json:"rank"`
	SchemeName   string  `json:"scheme_name"`
	AMCName      string  `json:"amc_name"`
	MetricValue  float64 `json:"metric_value"`
	Return1Yr    float64 `json:"return_1yr"`
	Return3Yr    float64 `json:"return_3yr"`
	Return5Yr    float64 `json:"return_5yr"`
	RiskLevel    int     `json:"risk_level"`
	Rating       int     `json:"rating"`
	ExpenseRatio float64 `json:"expense_ratio"`
}

// TopPerformers is the response of the top performers listing
type TopPerformers struct {
	Metric         string      `json:"metric"`
	Category       string      `json:"category"`
	TopPerformers  []Performer `json:"top_performers"`
	TotalEvaluated int         `json:"total_evaluated"`
}

// FromTopPerformers converts a top performers result
func FromTopPerformers(r *dashboard.TopPerformersResult) TopPerformers {
	out := TopPerformers{
		Metric:         r.Metric,
		Category:       r.Category,
		TopPerformers:  make([]Performer, len(r.Performers)),
		TotalEvaluated: r.TotalEvaluated,
	}
	for i, p := range r.Performers {
		f := p.Fund
		out.TopPerformers[i] = Performer{
			Rank:         p.Rank,
			SchemeName:   f.SchemeName,
			AMCName:      f.AMCName,
			MetricValue:  p.MetricValue,
			Return1Yr:    f.Return1Yr,
			Return3Yr:    f.Return3Yr,
			Return5Yr:    f.Return5Yr,
			RiskLevel:    f.RiskLevel,
			Rating:       f.Rating,
			ExpenseRatio: f.ExpenseRatio,
		}
	}
	return out
}

// MarketOverview summarizes the catalog
type MarketOverview struct {
	TotalFunds   int     `json:"total_funds"`
	TotalAMCs    int     `json:"total_amcs"`
	AvgReturn1Yr float64 `json:"avg_1yr_return"`
	AvgReturn3Yr float64 `json:"avg_3yr_return"`
	AvgReturn5Yr float64 `json:"avg_5yr_return"`
	TotalAUM     float64 `json:"total_aum"`
}

// CategoryLeader is the best 3 year performer of a category
type CategoryLeader struct {
	FundName  string  `json:"fund_name"`
	AMCName   string  `json:"amc_name"`
	Return3Yr float64 `json:"return_3yr"`
	RiskLevel int     `json:"risk_level"`
	Rating    int     `json:"rating"`
}

// ModelStats is the offline evaluation of one model
type ModelStats struct {
	Accuracy string  `json:"accuracy"`
	RMSE     float64 `json:"rmse"`
}

// DashboardData is the response of the dashboard overview
type DashboardData struct {
	MarketOverview   MarketOverview            `json:"market_overview"`
	TopPerformers    map[string]CategoryLeader `json:"top_performers"`
	ModelPerformance map[string]ModelStats     `json:"model_performance"`
}

// FromDashboardData converts the dashboard overview
func FromDashboardData(d *dashboard.DashboardData) DashboardData {
	m := d.MarketOverview
	out := DashboardData{
		MarketOverview: MarketOverview{
			TotalFunds:   m.TotalFunds,
			TotalAMCs:    m.TotalAMCs,
			AvgReturn1Yr: m.AvgReturn1Yr,
			AvgReturn3Yr: m.AvgReturn3Yr,
			AvgReturn5Yr: m.AvgReturn5Yr,
			TotalAUM:     m.TotalAUM,
		},
		TopPerformers:    make(map[string]CategoryLeader, len(d.TopPerformers)),
		ModelPerformance: make(map[string]ModelStats, len(d.ModelPerformance)),
	}
	for category, f := range d.TopPerformers {
		out.TopPerformers[category] = CategoryLeader{
			FundName:  f.SchemeName,
			AMCName:   f.AMCName,
			Return3Yr: f.Return3Yr,
			RiskLevel: f.RiskLevel,
			Rating:    f.Rating,
		}
	}
	for _, s := range d.ModelPerformance {
		out.ModelPerformance[fmt.Sprintf("%d_year_model", int(s.Horizon))] = ModelStats{Accuracy: s.Accuracy, RMSE: s.RMSE}
	}
	return out
}

// Stats are the descriptive statistics of one metric
type Stats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func fromStats(s dashboard.Stats) Stats {
	return Stats{Mean: s.Mean, Median: s.Median, Std: s.Std, Min: s.Min, Max: s.Max}
}

// AMCPerformance is the mean 3 year return of one AMC
type AMCPerformance struct {
	AMCName      string  `json:"amc_name"`
	AvgReturn3Yr float64 `json:"avg_return_3yr"`
}

// ExpenseAnalysis summarizes expense ratios
type ExpenseAnalysis struct {
	MeanExpense   float64 `json:"mean_expense"`
	MedianExpense float64 `json:"median_expense"`
	LowCostFunds  int     `json:"low_cost_funds"`
	HighCostFunds int     `json:"high_cost_funds"`
}

// DescriptiveSummary holds the catalog totals
type DescriptiveSummary struct {
	TotalFunds int `json:"total_funds"`
	UniqueAMCs int `json:"unique_amcs"`
	DataPoints int `json:"data_points"`
}

// DescriptiveAnalysis is the response of the descriptive report
type DescriptiveAnalysis struct {
	Summary              DescriptiveSummary `json:"summary"`
	CategoryDistribution map[string]int     `json:"category_distribution"`
	RiskDistribution     map[string]int     `json:"risk_distribution"`
	RatingDistribution   map[string]int     `json:"rating_distribution"`
	ReturnStatistics     map[string]Stats   `json:"return_statistics"`
	TopPerformingAMCs    []AMCPerformance   `json:"top_performing_amcs"`
	ExpenseAnalysis      ExpenseAnalysis    `json:"expense_analysis"`
}

// FromDescriptiveAnalysis converts the descriptive report
func FromDescriptiveAnalysis(a *dashboard.DescriptiveAnalysis) DescriptiveAnalysis {
	out := DescriptiveAnalysis{
		Summary:              DescriptiveSummary{TotalFunds: a.TotalFunds, UniqueAMCs: a.UniqueAMCs, DataPoints: a.DataPoints},
		CategoryDistribution: a.CategoryDistribution,
		RiskDistribution:     intKeys(a.RiskDistribution),
		RatingDistribution:   intKeys(a.RatingDistribution),
		ReturnStatistics:     make(map[string]Stats, len(a.ReturnStatistics)),
		TopPerformingAMCs:    make([]AMCPerformance, len(a.TopPerformingAMCs)),
		ExpenseAnalysis: ExpenseAnalysis{
			MeanExpense:   a.Expense.Mean,
			MedianExpense: a.Expense.Median,
			LowCostFunds:  a.Expense.LowCostFunds,
			HighCostFunds: a.Expense.HighCostFunds,
		},
	}
	for k, s := range a.ReturnStatistics {
		out.ReturnStatistics[k] = fromStats(s)
	}
	for i, p := range a.TopPerformingAMCs {
		out.TopPerformingAMCs[i] = AMCPerformance{AMCName: p.AMCName, AvgReturn3Yr: p.AvgReturn3Yr}
	}
	return out
}

// Correlation is one strongly correlated metric pair
type Correlation struct {
	Feature1    string  `json:"feature1"`
	Feature2    string  `json:"feature2"`
	Correlation float64 `json:"correlation"`
	Strength    string  `json:"strength"`
}

// CategoryTrend summarizes one category
type CategoryTrend struct {
	Count        int     `json:"count"`
	AvgReturn1Yr float64 `json:"avg_return_1yr"`
	AvgReturn3Yr float64 `json:"avg_return_3yr"`
	AvgReturn5Yr float64 `json:"avg_return_5yr"`
	AvgRisk      float64 `json:"avg_risk"`
	AvgExpense   float64 `json:"avg_expense"`
	TopPerformer string  `json:"top_performer"`
}

// RiskBucket summarizes one risk level
type RiskBucket struct {
	RiskLevel        int     `json:"risk_level"`
	FundCount        int     `json:"fund_count"`
	AvgReturn1Yr     float64 `json:"avg_return_1yr"`
	AvgReturn3Yr     float64 `json:"avg_return_3yr"`
	AvgReturn5Yr     float64 `json:"avg_return_5yr"`
	ReturnVolatility float64 `json:"return_volatility"`
}

// CostBucket summarizes one expense band
type CostBucket struct {
	Count        int     `json:"count"`
	AvgReturn3Yr float64 `json:"avg_return_3yr"`
	AvgExpense   float64 `json:"avg_expense"`
}

// AgeBucket summarizes one fund age range
type AgeBucket struct {
	AgeRange     string  `json:"age_range"`
	Count        int     `json:"count"`
	AvgReturn3Yr float64 `json:"avg_return_3yr"`
	AvgStability float64 `json:"avg_stability"`
}

// Distribution is the shape of one return series
type Distribution struct {
	Stats
	Skewness    float64            `json:"skewness"`
	Kurtosis    float64            `json:"kurtosis"`
	Percentiles map[string]float64 `json:"percentiles"`
}

// MarketInsights are catalog-wide headline figures
type MarketInsights struct {
	TotalAUM           float64 `json:"total_aum"`
	AvgFundAge         float64 `json:"avg_fund_age"`
	HighPerformerCount int     `json:"high_performers_count"`
	LowCostFundCount   int     `json:"low_cost_funds_count"`
}

// EnhancedAnalysis is the response of the enhanced report
type EnhancedAnalysis struct {
	CorrelationMatrix    map[string]map[string]float64 `json:"correlation_matrix"`
	StrongCorrelations   []Correlation                 `json:"strong_correlations"`
	CategoryTrends       map[string]CategoryTrend      `json:"category_trends"`
	RiskReturnAnalysis   []RiskBucket                  `json:"risk_return_analysis"`
	ExpenseImpact        map[string]CostBucket         `json:"expense_impact"`
	AgePerformance       []AgeBucket                   `json:"age_performance"`
	DistributionAnalysis map[string]Distribution       `json:"distribution_analysis"`
	MarketInsights       MarketInsights                `json:"market_insights"`
}

// FromEnhancedAnalysis converts the enhanced report
func FromEnhancedAnalysis(a *dashboard.EnhancedAnalysis) EnhancedAnalysis {
	out := EnhancedAnalysis{
		CorrelationMatrix:    a.CorrelationMatrix,
		StrongCorrelations:   make([]Correlation, len(a.StrongCorrelations)),
		CategoryTrends:       make(map[string]CategoryTrend, len(a.CategoryTrends)),
		RiskReturnAnalysis:   make([]RiskBucket, len(a.RiskReturn)),
		ExpenseImpact:        make(map[string]CostBucket, len(a.ExpenseImpact)),
		AgePerformance:       make([]AgeBucket, len(a.AgePerformance)),
		DistributionAnalysis: make(map[string]Distribution, len(a.Distributions)),
		MarketInsights: MarketInsights{
			TotalAUM:           a.Insights.TotalAUM,
			AvgFundAge:         a.Insights.AvgFundAge,
			HighPerformerCount: a.Insights.HighPerformerCount,
			LowCostFundCount:   a.Insights.LowCostFundCount,
		},
	}
	for i, c := range a.StrongCorrelations {
		out.StrongCorrelations[i] = Correlation{Feature1: c.Feature1, Feature2: c.Feature2, Correlation: c.Correlation, Strength: c.Strength}
	}
	for k, c := range a.CategoryTrends {
		out.CategoryTrends[k] = CategoryTrend(c)
	}
	for i, b := range a.RiskReturn {
		out.RiskReturnAnalysis[i] = RiskBucket(b)
	}
	for k, b := range a.ExpenseImpact {
		out.ExpenseImpact[k] = CostBucket(b)
	}
	for i, b := range a.AgePerformance {
		out.AgePerformance[i] = AgeBucket(b)
	}
	for k, d := range a.Distributions {
		out.DistributionAnalysis[k] = Distribution{
			Stats:       fromStats(d.Stats),
			Skewness:    d.Skewness,
			Kurtosis:    d.Kurtosis,
			Percentiles: d.Percentiles,
		}
	}
	return out
}

// SharpeAnalysis summarizes risk-adjusted returns
type SharpeAnalysis struct {
	MarketAvgSharpe     float64 `json:"market_avg_sharpe"`
	HighSharpeFunds     int     `json:"high_sharpe_funds"`
	NegativeSharpeFunds int     `json:"negative_sharpe_funds"`
}

// MarketSummary holds market-wide headline figures
type MarketSummary struct {
	TotalFunds       int     `json:"total_funds"`
	TotalAUM         float64 `json:"total_aum"`
	AvgReturn3Yr     float64 `json:"avg_return_3yr"`
	MarketVolatility float64 `json:"market_volatility"`
}

// MarketTrends is the response of the market trends report
type MarketTrends struct {
	PerformanceDistribution map[string]int     `json:"performance_distribution"`
	RiskAppetite            map[string]int     `json:"risk_appetite"`
	AMCMarketShare          map[string]int     `json:"amc_market_share"`
	CategoryAUM             map[string]float64 `json:"category_aum"`
	ExpenseTrends           map[string]float64 `json:"expense_trends"`
	RatingDistribution      map[string]int     `json:"rating_distribution"`
	SharpeAnalysis          SharpeAnalysis     `json:"sharpe_analysis"`
	MarketSummary           MarketSummary      `json:"market_summary"`
}

// FromMarketTrends converts the market trends report
func FromMarketTrends(t *dashboard.MarketTrends) MarketTrends {
	share := make(map[string]int, len(t.AMCMarketShare))
	for _, c := range t.AMCMarketShare {
		share[c.Name] = c.Count
	}
	return MarketTrends{
		PerformanceDistribution: t.PerformanceDistribution,
		RiskAppetite:            t.RiskAppetite,
		AMCMarketShare:          share,
		CategoryAUM:             t.CategoryAUM,
		ExpenseTrends:           t.ExpenseTrends,
		RatingDistribution:      intKeys(t.RatingDistribution),
		SharpeAnalysis: SharpeAnalysis{
			MarketAvgSharpe:     t.MarketAvgSharpe,
			HighSharpeFunds:     t.HighSharpeFunds,
			NegativeSharpeFunds: t.NegativeSharpeFunds,
		},
		MarketSummary: MarketSummary{
			TotalFunds:       t.TotalFunds,
			TotalAUM:         t.TotalAUM,
			AvgReturn3Yr:     t.AvgReturn3Yr,
			MarketVolatility: t.MarketVolatility,
		},
	}
}

func intKeys(in map[int]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[strconv.Itoa(k)] = v
	}
	return out
}
