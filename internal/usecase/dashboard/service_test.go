package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/fundwise-backend/internal/domain"
)

func fund(name, amc string, category domain.Category, risk, rating int, r1, r3, r5, expense float64) *domain.Fund {
	return &domain.Fund{
		SchemeName:        name,
		AMCName:           amc,
		Category:          category,
		Return1Yr:         r1,
		Return3Yr:         r3,
		Return5Yr:         r5,
		RiskLevel:         risk,
		Rating:            rating,
		ExpenseRatio:      expense,
		FundSize:          100,
		FundAge:           4,
		Sharpe:            r3 / 10,
		StandardDeviation: 10,
		StabilityScore:    0.5,
	}
}

func testCatalog(t *testing.T) *domain.Catalog {
	t.Helper()
	catalog, err := domain.NewCatalog([]*domain.Fund{
		fund("Alpha Equity", "AMC A", domain.CategoryEquity, 5, 5, 20, 30, 18, 0.5),
		fund("Beta Equity", "AMC B", domain.CategoryEquity, 4, 4, 15, 18, 14, 1.5),
		fund("Gamma Equity", "AMC A", domain.CategoryEquity, 6, 3, 25, 12, 16, 2.5),
		fund("Delta Debt", "AMC C", domain.CategoryDebt, 1, 4, 7, 8, 7, 0.3),
		fund("Echo Debt", "AMC B", domain.CategoryDebt, 2, 3, 6, 7, 6, 0.8),
		fund("Foxtrot Hybrid", "AMC C", domain.CategoryHybrid, 3, 5, 12, 16, 11, 1.2),
	})
	require.NoError(t, err)
	return catalog
}

func TestListAMCs(t *testing.T) {
	service := NewDashboardService(testCatalog(t))

	amcs, err := service.ListAMCs(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"AMC A", "AMC B", "AMC C"}, amcs)
}

func TestListCategories(t *testing.T) {
	service := NewDashboardService(testCatalog(t))

	categories, err := service.ListCategories(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []CategoryCount{
		{Name: "Equity", Count: 3},
		{Name: "Debt", Count: 2},
		{Name: "Hybrid", Count: 1},
	}, categories)
}

func TestFilterFunds(t *testing.T) {
	service := NewDashboardService(testCatalog(t))

	tests := []struct {
		name     string
		filter   FundFilter
		expected []string
	}{
		{name: "no filter", filter: FundFilter{}, expected: []string{"Alpha Equity", "Beta Equity", "Gamma Equity", "Delta Debt", "Echo Debt", "Foxtrot Hybrid"}},
		{name: "by amc", filter: FundFilter{AMCName: "AMC B"}, expected: []string{"Beta Equity", "Echo Debt"}},
		{name: "by category any case", filter: FundFilter{Category: "debt"}, expected: []string{"Delta Debt", "Echo Debt"}},
		{name: "by risk level", filter: FundFilter{RiskLevel: 6}, expected: []string{"Gamma Equity"}},
		{name: "by min rating", filter: FundFilter{MinRating: 5}, expected: []string{"Alpha Equity", "Foxtrot Hybrid"}},
		{name: "combined", filter: FundFilter{Category: "Equity", MinRating: 4}, expected: []string{"Alpha Equity", "Beta Equity"}},
		{name: "limit", filter: FundFilter{Limit: 2}, expected: []string{"Alpha Equity", "Beta Equity"}},
		{name: "nothing", filter: FundFilter{AMCName: "AMC Z"}, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := service.FilterFunds(context.Background(), tt.filter)

			require.NoError(t, err)
			got := make([]string, 0, len(result.Funds))
			for _, f := range result.Funds {
				got = append(got, f.SchemeName)
			}
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, len(tt.expected), result.TotalFound)
		})
	}
}

func TestFilterFunds_UnknownCategory(t *testing.T) {
	service := NewDashboardService(testCatalog(t))

	_, err := service.FilterFunds(context.Background(), FundFilter{Category: "Gold"})

	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestTopPerformers(t *testing.T) {
	service := NewDashboardService(testCatalog(t))

	t.Run("default metric", func(t *testing.T) {
		result, err := service.TopPerformers(context.Background(), "", "", 3)

		require.NoError(t, err)
		assert.Equal(t, "return_3yr", result.Metric)
		assert.Equal(t, "All", result.Category)
		assert.Equal(t, 6, result.TotalEvaluated)
		require.Len(t, result.Performers, 3)
		assert.Equal(t, "Alpha Equity", result.Performers[0].Fund.SchemeName)
		assert.Equal(t, 1, result.Performers[0].Rank)
		assert.Equal(t, 30.0, result.Performers[0].MetricValue)
		assert.Equal(t, "Beta Equity", result.Performers[1].Fund.SchemeName)
		assert.Equal(t, "Foxtrot Hybrid", result.Performers[2].Fund.SchemeName)
		assert.Equal(t, 3, result.Performers[2].Rank)
	})

	t.Run("by category", func(t *testing.T) {
		result, err := service.TopPerformers(context.Background(), "return_1yr", "equity", 0)

		require.NoError(t, err)
		assert.Equal(t, "Equity", result.Category)
		assert.Equal(t, 3, result.TotalEvaluated)
		require.Len(t, result.Performers, 3)
		assert.Equal(t, "Gamma Equity", result.Performers[0].Fund.SchemeName)
	})

	t.Run("invalid metric", func(t *testing.T) {
		_, err := service.TopPerformers(context.Background(), "volume", "", 10)

		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		assert.Contains(t, err.Error(), "invalid metric: volume")
	})
}

func TestGetDashboardData(t *testing.T) {
	service := NewDashboardService(testCatalog(t))

	data, err := service.GetDashboardData(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 6, data.MarketOverview.TotalFunds)
	assert.Equal(t, 3, data.MarketOverview.TotalAMCs)
	assert.InDelta(t, 15.1666, data.MarketOverview.AvgReturn3Yr, 1e-3)
	assert.Equal(t, 600.0, data.MarketOverview.TotalAUM)

	assert.Equal(t, "Alpha Equity", data.TopPerformers["Equity"].SchemeName)
	assert.Equal(t, "Delta Debt", data.TopPerformers["Debt"].SchemeName)
	assert.Equal(t, "Foxtrot Hybrid", data.TopPerformers["Hybrid"].SchemeName)
	assert.NotContains(t, data.TopPerformers, "Other")

	require.Len(t, data.ModelPerformance, 3)
	assert.Equal(t, domain.Horizon3Y, data.ModelPerformance[1].Horizon)
	assert.Equal(t, "96.4%", data.ModelPerformance[1].Accuracy)
}

func TestDashboardService_CatalogNotLoaded(t *testing.T) {
	service := NewDashboardService(nil)
	ctx := context.Background()

	_, err := service.ListAMCs(ctx)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)

	_, err = service.ListCategories(ctx)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)

	_, err = service.FilterFunds(ctx, FundFilter{})
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)

	_, err = service.TopPerformers(ctx, "", "", 0)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)

	_, err = service.GetDashboardData(ctx)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)

	_, err = service.GetDescriptiveAnalysis(ctx)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)

	_, err = service.GetEnhancedAnalysis(ctx)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)

	_, err = service.GetMarketTrends(ctx)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}
