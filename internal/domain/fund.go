package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Category represents the primary category of a fund
type Category string

const (
	CategoryEquity Category = "Equity"
	CategoryDebt   Category = "Debt"
	CategoryHybrid Category = "Hybrid"
	CategoryOther  Category = "Other"
)

// Categories lists every known category in a fixed order.
// The order is also the order of the one-hot flags in model feature vectors.
var Categories = []Category{CategoryEquity, CategoryDebt, CategoryHybrid, CategoryOther}

// ParseCategory resolves a category name (case-insensitive)
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), strings.TrimSpace(name)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidRequest, name)
}

// IsValid reports whether c is one of the known categories
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Horizon is a forecast/historical period in years
type Horizon int

const (
	Horizon1Y Horizon = 1
	Horizon3Y Horizon = 3
	Horizon5Y Horizon = 5
)

// Horizons are the fixed horizons a model exists for
var Horizons = []Horizon{Horizon1Y, Horizon3Y, Horizon5Y}

// IsValid reports whether h is one of the fixed horizons
func (h Horizon) IsValid() bool {
	return h == Horizon1Y || h == Horizon3Y || h == Horizon5Y
}

// Key returns the JSON key used for the horizon, e.g. "3_year"
func (h Horizon) Key() string {
	return fmt.Sprintf("%d_year", int(h))
}

// Fund represents one row of the fund catalog
// Fund values are never mutated after the catalog is built
type Fund struct {
	SchemeName string
	AMCName    string
	Category   Category

	Return1Yr    float64 // percent
	Return3Yr    float64 // percent
	Return5Yr    float64 // percent
	RiskLevel    int     // 1 (low) to 6 (very high)
	Rating       int     // 1 to 5
	ExpenseRatio float64 // percent
	FundSize     float64 // currency units
	FundAge      float64 // years

	Sharpe            float64
	Sortino           float64
	Alpha             float64
	Beta              float64
	StandardDeviation float64
	StabilityScore    float64
}

// HistoricalReturn returns the realised return for one of the fixed horizons
func (f *Fund) HistoricalReturn(h Horizon) float64 {
	switch h {
	case Horizon1Y:
		return f.Return1Yr
	case Horizon3Y:
		return f.Return3Yr
	default:
		return f.Return5Yr
	}
}

// Validate checks the fund fields the engines rely on
func (f *Fund) Validate() error {
	if strings.TrimSpace(f.SchemeName) == "" {
		return errors.New("fund scheme name cannot be empty")
	}
	if strings.TrimSpace(f.AMCName) == "" {
		return fmt.Errorf("fund %q: amc name cannot be empty", f.SchemeName)
	}
	if !f.Category.IsValid() {
		return fmt.Errorf("fund %q: invalid category %q", f.SchemeName, f.Category)
	}
	if f.RiskLevel < 1 || f.RiskLevel > 6 {
		return fmt.Errorf("fund %q: risk level must be between 1 and 6, got %d", f.SchemeName, f.RiskLevel)
	}
	if f.Rating < 1 || f.Rating > 5 {
		return fmt.Errorf("fund %q: rating must be between 1 and 5, got %d", f.SchemeName, f.Rating)
	}
	if f.ExpenseRatio < 0 {
		return fmt.Errorf("fund %q: expense ratio must be non-negative", f.SchemeName)
	}

	for name, v := range f.Metrics() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("fund %q: metric %s is not finite", f.SchemeName, name)
		}
	}

	return nil
}

// Metrics returns the numeric columns of the fund keyed by their dataset column name
func (f *Fund) Metrics() map[string]float64 {
	return map[string]float64{
		"return_1yr":         f.Return1Yr,
		"return_3yr":         f.Return3Yr,
		"return_5yr":         f.Return5Yr,
		"risk_level":         float64(f.RiskLevel),
		"rating":             float64(f.Rating),
		"expense_ratio":      f.ExpenseRatio,
		"fund_size":          f.FundSize,
		"fund_age":           f.FundAge,
		"sharpe":             f.Sharpe,
		"sortino":            f.Sortino,
		"alpha":              f.Alpha,
		"beta":               f.Beta,
		"standard_deviation": f.StandardDeviation,
		"stability_score":    f.StabilityScore,
	}
}

// Metric returns a single numeric column by name
func (f *Fund) Metric(name string) (float64, bool) {
	v, ok := f.Metrics()[name]
	return v, ok
}

// MetricNames lists the numeric dataset columns in a stable order
var MetricNames = []string{
	"return_1yr", "return_3yr", "return_5yr",
	"risk_level", "rating", "expense_ratio",
	"fund_size", "fund_age",
	"sharpe", "sortino", "alpha", "beta",
	"standard_deviation", "stability_score",
}
