package scoring

import (
	"errors"
	"math"
	"sort"

	"github.com/simaogato/fundwise-backend/internal/domain"
)

// MinScore is the floor of a composite score so that every selected fund keeps a positive weight
const MinScore = 1e-6

// Factor names used in score breakdowns
const (
	FactorSharpe       = "sharpe"
	FactorTenureReturn = "tenure_return"
	FactorRating       = "rating"
	FactorExpense      = "expense_ratio"
)

// Weights are the factor weights of the composite score
type Weights struct {
	Sharpe  float64 `toml:"sharpe"`
	Return  float64 `toml:"return"`
	Rating  float64 `toml:"rating"`
	Expense float64 `toml:"expense"`
}

// DefaultWeights returns the production weighting: 40% sharpe, 30% return, 20% rating, 10% cost
func DefaultWeights() Weights {
	return Weights{Sharpe: 0.40, Return: 0.30, Rating: 0.20, Expense: 0.10}
}

// Validate ensures no weight is negative and at least one is positive
func (w Weights) Validate() error {
	if w.Sharpe < 0 || w.Return < 0 || w.Rating < 0 || w.Expense < 0 {
		return errors.New("score weights must be non-negative")
	}
	if w.Sharpe+w.Return+w.Rating+w.Expense <= 0 {
		return errors.New("score weights must not all be zero")
	}
	return nil
}

// TenureReturn picks the historical return matching the investment tenure
// Logic:
//   - tenure <= 2 years: 1 year return
//   - tenure 3-4 years: 3 year return
//   - tenure >= 5 years: 5 year return
func TenureReturn(f *domain.Fund, tenureYears int) float64 {
	switch {
	case tenureYears <= 2:
		return f.Return1Yr
	case tenureYears <= 4:
		return f.Return3Yr
	default:
		return f.Return5Yr
	}
}

// Range is the observed [Min, Max] of one metric over a candidate pool
type Range struct {
	Min float64
	Max float64
}

// Normalize maps v into [0, 1] by min-max scaling.
// A degenerate range (all candidates equal) maps to 0.5.
func (r Range) Normalize(v float64) float64 {
	span := r.Max - r.Min
	if span <= 0 {
		return 0.5
	}
	n := (v - r.Min) / span
	return math.Max(0, math.Min(1, n))
}

func rangeOf(values []float64) Range {
	if len(values) == 0 {
		return Range{}
	}
	r := Range{Min: values[0], Max: values[0]}
	for _, v := range values[1:] {
		r.Min = math.Min(r.Min, v)
		r.Max = math.Max(r.Max, v)
	}
	return r
}

// PoolStats holds the normalization ranges of a candidate pool
type PoolStats struct {
	TenureYears int
	Sharpe      Range
	Return      Range
	Expense     Range
}

// NewPoolStats computes the min-max ranges of the scored metrics over pool
func NewPoolStats(pool []*domain.Fund, tenureYears int) PoolStats {
	sharpe := make([]float64, 0, len(pool))
	returns := make([]float64, 0, len(pool))
	expense := make([]float64, 0, len(pool))
	for _, f := range pool {
		sharpe = append(sharpe, f.Sharpe)
		returns = append(returns, TenureReturn(f, tenureYears))
		expense = append(expense, f.ExpenseRatio)
	}
	return PoolStats{
		TenureYears: tenureYears,
		Sharpe:      rangeOf(sharpe),
		Return:      rangeOf(returns),
		Expense:     rangeOf(expense),
	}
}

// Breakdown is a composite score with its per-factor contributions
type Breakdown struct {
	Total   float64
	Factors []domain.FactorScore
}

// Score computes the composite score of a fund relative to its pool
// Rating is scaled on its absolute 1-5 range, the other factors on the pool range.
// A higher expense ratio always lowers the score.
func Score(f *domain.Fund, stats PoolStats, w Weights) Breakdown {
	tenureReturn := TenureReturn(f, stats.TenureYears)
	factors := []domain.FactorScore{
		factor(FactorSharpe, f.Sharpe, stats.Sharpe.Normalize(f.Sharpe), w.Sharpe),
		factor(FactorTenureReturn, tenureReturn, stats.Return.Normalize(tenureReturn), w.Return),
		factor(FactorRating, float64(f.Rating), (float64(f.Rating)-1)/4, w.Rating),
		factor(FactorExpense, f.ExpenseRatio, 1-stats.Expense.Normalize(f.ExpenseRatio), w.Expense),
	}

	total := 0.0
	for _, fs := range factors {
		total += fs.Weighted
	}
	return Breakdown{Total: math.Max(total, MinScore), Factors: factors}
}

func factor(name string, raw, normalized, weight float64) domain.FactorScore {
	return domain.FactorScore{
		Name:       name,
		Raw:        raw,
		Normalized: normalized,
		Weight:     weight,
		Weighted:   normalized * weight,
	}
}

// Scored pairs a fund with its composite score
type Scored struct {
	Fund      *domain.Fund
	Breakdown Breakdown
}

// Rank scores every fund of the pool and orders them best first
// Ties: higher rating, then lower expense ratio, then scheme name ascending
func Rank(pool []*domain.Fund, tenureYears int, w Weights) []Scored {
	stats := NewPoolStats(pool, tenureYears)
	ranked := make([]Scored, 0, len(pool))
	for _, f := range pool {
		ranked = append(ranked, Scored{Fund: f, Breakdown: Score(f, stats, w)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Breakdown.Total != b.Breakdown.Total {
			return a.Breakdown.Total > b.Breakdown.Total
		}
		if a.Fund.Rating != b.Fund.Rating {
			return a.Fund.Rating > b.Fund.Rating
		}
		if a.Fund.ExpenseRatio != b.Fund.ExpenseRatio {
			return a.Fund.ExpenseRatio < b.Fund.ExpenseRatio
		}
		return a.Fund.SchemeName < b.Fund.SchemeName
	})
	return ranked
}
