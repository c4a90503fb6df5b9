package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/fundwise-backend/internal/domain"
)

func fund(name string, sharpe, ret5, expense float64, rating int) *domain.Fund {
	return &domain.Fund{
		SchemeName:   name,
		AMCName:      name + " AMC",
		Category:     domain.CategoryEquity,
		Return1Yr:    ret5 + 2,
		Return3Yr:    ret5 + 1,
		Return5Yr:    ret5,
		RiskLevel:    3,
		Rating:       rating,
		ExpenseRatio: expense,
		Sharpe:       sharpe,
	}
}

func TestTenureReturn(t *testing.T) {
	f := &domain.Fund{Return1Yr: 1, Return3Yr: 3, Return5Yr: 5}

	tests := []struct {
		tenure int
		want   float64
	}{
		{1, 1}, {2, 1}, {3, 3}, {4, 3}, {5, 5}, {10, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TenureReturn(f, tt.tenure), "tenure %d", tt.tenure)
	}
}

func TestRange_Normalize(t *testing.T) {
	r := Range{Min: 2, Max: 6}
	assert.Equal(t, 0.0, r.Normalize(2))
	assert.Equal(t, 0.5, r.Normalize(4))
	assert.Equal(t, 1.0, r.Normalize(6))
	assert.Equal(t, 1.0, r.Normalize(9), "clamped")

	assert.Equal(t, 0.5, Range{Min: 3, Max: 3}.Normalize(3), "degenerate range")
}

func TestScore_Breakdown(t *testing.T) {
	best := fund("Best", 2.0, 15, 0.5, 5)
	worst := fund("Worst", 0.5, 5, 2.0, 1)
	stats := NewPoolStats([]*domain.Fund{best, worst}, 5)

	b := Score(best, stats, DefaultWeights())
	require.Len(t, b.Factors, 4)
	assert.InDelta(t, 1.0, b.Total, 1e-9)
	assert.Equal(t, FactorSharpe, b.Factors[0].Name)
	assert.Equal(t, 15.0, b.Factors[1].Raw)

	w := Score(worst, stats, DefaultWeights())
	assert.Equal(t, MinScore, w.Total, "floored at a positive value")
}

func TestScore_HigherExpenseLowersScore(t *testing.T) {
	cheap := fund("Cheap", 1, 10, 0.5, 4)
	pricey := fund("Pricey", 1, 10, 1.5, 4)
	stats := NewPoolStats([]*domain.Fund{cheap, pricey}, 5)

	assert.Greater(t, Score(cheap, stats, DefaultWeights()).Total, Score(pricey, stats, DefaultWeights()).Total)
}

func TestRank_TieBreaks(t *testing.T) {
	// identical metrics except the tie-break fields
	a := fund("Beta Fund", 1, 10, 1.0, 4)
	b := fund("Alpha Fund", 1, 10, 1.0, 4)
	weights := Weights{Sharpe: 1}

	ranked := Rank([]*domain.Fund{a, b}, 5, weights)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Alpha Fund", ranked[0].Fund.SchemeName, "name ascending")

	c := fund("Cheap", 1, 10, 0.2, 4)
	ranked = Rank([]*domain.Fund{a, c}, 5, weights)
	assert.Equal(t, "Cheap", ranked[0].Fund.SchemeName, "lower expense first")

	d := fund("Rated", 1, 10, 1.0, 5)
	ranked = Rank([]*domain.Fund{a, c, d}, 5, weights)
	assert.Equal(t, "Rated", ranked[0].Fund.SchemeName, "higher rating first")
}

func TestWeights_Validate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
	assert.Error(t, Weights{Sharpe: -1, Return: 2}.Validate())
	assert.Error(t, Weights{}.Validate())
}

func TestFeatureVector(t *testing.T) {
	f := fund("X", 1.2, 10, 0.7, 4)
	f.Category = domain.CategoryHybrid

	v := FeatureVector(f)
	require.Len(t, v, len(FeatureNames))
	assert.Len(t, FeatureNames, 18)
	assert.Equal(t, "category_hybrid", FeatureNames[16])
	assert.Equal(t, []float64{0, 0, 1, 0}, v[14:])
	assert.Equal(t, f.Return1Yr, v[0])
	assert.Equal(t, 0.7, v[5])
}
