package domain

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// RiskTolerance is the qualitative risk label of an investor
type RiskTolerance string

const (
	RiskConservative RiskTolerance = "conservative"
	RiskModerate     RiskTolerance = "moderate"
	RiskAggressive   RiskTolerance = "aggressive"
)

// RiskBand is an inclusive range of fund risk levels
type RiskBand struct {
	Min int
	Max int
}

// Contains reports whether the risk level falls inside the band
func (b RiskBand) Contains(riskLevel int) bool {
	return riskLevel >= b.Min && riskLevel <= b.Max
}

// Band maps a risk tolerance to the fund risk levels it accepts
func (r RiskTolerance) Band() (RiskBand, error) {
	switch RiskTolerance(strings.ToLower(strings.TrimSpace(string(r)))) {
	case RiskConservative:
		return RiskBand{Min: 1, Max: 2}, nil
	case RiskModerate:
		return RiskBand{Min: 3, Max: 4}, nil
	case RiskAggressive:
		return RiskBand{Min: 5, Max: 6}, nil
	default:
		return RiskBand{}, fmt.Errorf("%w: unknown risk tolerance %q (expected conservative, moderate or aggressive)", ErrInvalidRequest, r)
	}
}

// InvestmentRequest is the input of the allocation engine
type InvestmentRequest struct {
	Amount             int64         `validate:"gt=0"`
	TenureYears        int           `validate:"gt=0"`
	RiskTolerance      RiskTolerance `validate:"required"`
	CategoryPreference string
	// AMCName is only consulted by the caller-side AMC policy, never by the engine
	AMCName string
}

// Validate checks the request and resolves its risk band and category preference.
// Returns an error wrapping ErrInvalidRequest if validation fails.
func (r *InvestmentRequest) Validate() (RiskBand, *Category, error) {
	if err := validate.Struct(r); err != nil {
		return RiskBand{}, nil, fmt.Errorf("%w: %s", ErrInvalidRequest, describeValidation(err))
	}

	band, err := r.RiskTolerance.Band()
	if err != nil {
		return RiskBand{}, nil, err
	}

	if strings.TrimSpace(r.CategoryPreference) == "" {
		return band, nil, nil
	}
	category, err := ParseCategory(r.CategoryPreference)
	if err != nil {
		return RiskBand{}, nil, err
	}
	return band, &category, nil
}

// describeValidation turns validator errors into a short field list
func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "gt":
			parts = append(parts, fmt.Sprintf("%s must be positive", fe.Field()))
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// PlanStatus is the outcome of a plan generation
type PlanStatus string

const (
	PlanStatusSuccess      PlanStatus = "success"
	PlanStatusNoMatch      PlanStatus = "no_match"
	PlanStatusError        PlanStatus = "error"
	PlanStatusPartialMatch PlanStatus = "partial_match"
)

// FactorScore is one weighted component of a fund's composite score
type FactorScore struct {
	Name       string
	Raw        float64
	Normalized float64
	Weight     float64
	Weighted   float64
}

// Recommendation is one allocation line of an investment plan
type Recommendation struct {
	Fund             *Fund
	AllocatedAmount  decimal.Decimal
	AllocationWeight float64
	RationaleScore   float64
	ExpectedReturn   float64 // tenure-appropriate historical return, percent
	Factors          []FactorScore
}

// InvestmentSummary aggregates the plan totals
type InvestmentSummary struct {
	TotalInvestment  decimal.Decimal
	TotalAllocated   decimal.Decimal
	ExpectedReturn   float64 // blended, percent per year
	ProjectedValue   decimal.Decimal
	AverageRiskLevel float64
	RiskProfile      RiskTolerance
	TenureYears      int
	NumberOfFunds    int
}

// DiversificationAnalysis describes how the plan is spread
type DiversificationAnalysis struct {
	CategoryAllocation         map[string]float64
	AMCAllocation              map[string]float64
	ConcentrationIndex         float64 // sum of squared fund shares
	AMCConcentrationIndex      float64
	CategoryConcentrationIndex float64
	DistinctAMCs               int
	DistinctCategories         int
	CapsRelaxed                bool
}

// InvestmentPlan is the result of the allocation engine
type InvestmentPlan struct {
	ID              uuid.UUID
	Status          PlanStatus
	Message         string
	Recommendations []Recommendation
	Summary         InvestmentSummary
	Diversification DiversificationAnalysis
}
