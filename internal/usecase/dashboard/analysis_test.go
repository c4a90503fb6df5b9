package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected Stats
	}{
		{name: "empty", values: nil, expected: Stats{}},
		{name: "single value has zero std", values: []float64{4}, expected: Stats{Mean: 4, Median: 4, Min: 4, Max: 4}},
		{name: "odd count", values: []float64{3, 1, 2}, expected: Stats{Mean: 2, Median: 2, Std: 1, Min: 1, Max: 3}},
		{name: "even count averages middle", values: []float64{4, 1, 3, 2}, expected: Stats{Mean: 2.5, Median: 2.5, Std: 1.2909944, Min: 1, Max: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := describe(tt.values)

			assert.InDelta(t, tt.expected.Mean, got.Mean, 1e-6)
			assert.InDelta(t, tt.expected.Median, got.Median, 1e-6)
			assert.InDelta(t, tt.expected.Std, got.Std, 1e-6)
			assert.Equal(t, tt.expected.Min, got.Min)
			assert.Equal(t, tt.expected.Max, got.Max)
		})
	}
}

func TestDescribe_DoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}

	describe(values)

	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestCorrelation(t *testing.T) {
	assert.InDelta(t, 1.0, correlation([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-9)
	assert.InDelta(t, -1.0, correlation([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-9)
	assert.Equal(t, 0.0, correlation([]float64{1, 2, 3}, []float64{5, 5, 5}))
	assert.Equal(t, 0.0, correlation([]float64{1}, []float64{1}))
}

func TestGetDescriptiveAnalysis(t *testing.T) {
	service := NewDashboardService(testCatalog(t))

	a, err := service.GetDescriptiveAnalysis(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 6, a.TotalFunds)
	assert.Equal(t, 3, a.UniqueAMCs)
	assert.Equal(t, map[string]int{"Equity": 3, "Debt": 2, "Hybrid": 1}, a.CategoryDistribution)
	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 1, 4: 1, 5: 1, 6: 1}, a.RiskDistribution)
	assert.Equal(t, map[int]int{3: 2, 4: 2, 5: 2}, a.RatingDistribution)

	require.Contains(t, a.ReturnStatistics, "3_year")
	r3 := a.ReturnStatistics["3_year"]
	assert.Equal(t, 7.0, r3.Min)
	assert.Equal(t, 30.0, r3.Max)
	assert.InDelta(t, 14.0, r3.Median, 1e-9)

	// AMC A (30, 12) = 21, AMC B (18, 7) = 12.5, AMC C (8, 16) = 12
	require.Len(t, a.TopPerformingAMCs, 3)
	assert.Equal(t, "AMC A", a.TopPerformingAMCs[0].AMCName)
	assert.InDelta(t, 21.0, a.TopPerformingAMCs[0].AvgReturn3Yr, 1e-9)
	assert.Equal(t, "AMC B", a.TopPerformingAMCs[1].AMCName)
	assert.Equal(t, "AMC C", a.TopPerformingAMCs[2].AMCName)

	assert.Equal(t, 3, a.Expense.LowCostFunds)
	assert.Equal(t, 1, a.Expense.HighCostFunds)
}

func TestGetEnhancedAnalysis(t *testing.T) {
	service := NewDashboardService(testCatalog(t))

	a, err := service.GetEnhancedAnalysis(context.Background())

	require.NoError(t, err)
	require.Len(t, a.CorrelationMatrix, len(correlatedMetrics))
	assert.InDelta(t, 1.0, a.CorrelationMatrix["return_3yr"]["return_3yr"], 1e-9)
	// sharpe is derived from the 3 year return in the fixture
	assert.InDelta(t, 1.0, a.CorrelationMatrix["return_3yr"]["sharpe"], 1e-9)

	var found bool
	for _, c := range a.StrongCorrelations {
		if c.Feature1 == "return_3yr" && c.Feature2 == "sharpe" {
			found = true
			assert.Equal(t, "strong", c.Strength)
		}
	}
	assert.True(t, found)

	assert.Equal(t, 3, a.CategoryTrends["Equity"].Count)
	assert.Equal(t, "Alpha Equity", a.CategoryTrends["Equity"].TopPerformer)
	assert.Len(t, a.RiskReturn, 6)
	assert.Equal(t, 3, a.ExpenseImpact["low_cost"].Count)
	assert.Equal(t, 2, a.ExpenseImpact["medium_cost"].Count)
	assert.Equal(t, 1, a.ExpenseImpact["high_cost"].Count)

	require.Len(t, a.AgePerformance, 1)
	assert.Equal(t, "3-5 years", a.AgePerformance[0].AgeRange)

	require.Contains(t, a.Distributions, "returns_3yr")
	assert.Len(t, a.Distributions["returns_3yr"].Percentiles, 4)
	assert.Equal(t, 1, a.Insights.HighPerformerCount)
	assert.Equal(t, 600.0, a.Insights.TotalAUM)
}

func TestGetMarketTrends(t *testing.T) {
	service := NewDashboardService(testCatalog(t))

	trends, err := service.GetMarketTrends(context.Background())

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"excellent": 1, "good": 2, "average": 1, "below_average": 2}, trends.PerformanceDistribution)
	assert.Equal(t, map[string]int{"conservative": 2, "moderate": 2, "aggressive": 2}, trends.RiskAppetite)

	require.Len(t, trends.AMCMarketShare, 3)
	assert.Equal(t, CategoryCount{Name: "AMC A", Count: 2}, trends.AMCMarketShare[0])

	assert.Equal(t, 300.0, trends.CategoryAUM["Equity"])
	assert.Contains(t, trends.ExpenseTrends, "market_average")
	assert.InDelta(t, 1.5, trends.ExpenseTrends["equity_avg"], 1e-9)
	assert.Equal(t, 6, trends.TotalFunds)
	assert.Equal(t, 3, trends.HighSharpeFunds)
	assert.Equal(t, 0, trends.NegativeSharpeFunds)
}
