// Package dto holds the JSON messages shared by the HTTP and gRPC adapters
package dto

import (
	"math"

	"github.com/simaogato/fundwise-backend/internal/domain"
)

// RecommendRequest is the body of a plan request
type RecommendRequest struct {
	AMCName       string `json:"amc_name,omitempty"`
	Category      string `json:"category,omitempty"`
	Amount        int64  `json:"amount"`
	Tenure        int    `json:"tenure"`
	RiskTolerance string `json:"risk_tolerance,omitempty"`
}

// DefaultRiskTolerance applies when a request names none
const DefaultRiskTolerance = domain.RiskModerate

// ToDomain converts the request into the engine input
func (r RecommendRequest) ToDomain() domain.InvestmentRequest {
	risk := domain.RiskTolerance(r.RiskTolerance)
	if risk == "" {
		risk = DefaultRiskTolerance
	}
	return domain.InvestmentRequest{
		Amount:             r.Amount,
		TenureYears:        r.Tenure,
		RiskTolerance:      risk,
		CategoryPreference: r.Category,
		AMCName:            r.AMCName,
	}
}

// Factor is one weighted component of a recommendation score
type Factor struct {
	Name       string  `json:"name"`
	Raw        float64 `json:"raw"`
	Normalized float64 `json:"normalized"`
	Weight     float64 `json:"weight"`
	Weighted   float64 `json:"weighted"`
}

// Recommendation is one allocation line
type Recommendation struct {
	SchemeName           string   `json:"scheme_name"`
	AMCName              string   `json:"amc_name"`
	Category             string   `json:"category"`
	RiskLevel            int      `json:"risk_level"`
	Rating               int      `json:"rating"`
	ExpenseRatio         float64  `json:"expense_ratio"`
	AllocatedAmount      float64  `json:"allocated_amount"`
	AllocationWeight     float64  `json:"allocation_weight"`
	AllocationPercentage float64  `json:"allocation_percentage"`
	RationaleScore       float64  `json:"rationale_score"`
	ExpectedReturn       float64  `json:"expected_return"`
	Factors              []Factor `json:"factors"`
}

// InvestmentSummary aggregates the plan totals
type InvestmentSummary struct {
	TotalInvestment  float64 `json:"total_investment"`
	TotalAllocated   float64 `json:"total_allocated"`
	ExpectedReturn   float64 `json:"expected_return"`
	ProjectedValue   float64 `json:"projected_value"`
	AverageRiskLevel float64 `json:"average_risk_level"`
	RiskProfile      string  `json:"risk_profile"`
	TenureYears      int     `json:"tenure_years"`
	NumberOfFunds    int     `json:"number_of_funds"`
}

// Diversification describes how a plan is spread
type Diversification struct {
	CategoryAllocation         map[string]float64 `json:"category_allocation"`
	AMCAllocation              map[string]float64 `json:"amc_allocation"`
	ConcentrationIndex         float64            `json:"concentration_index"`
	AMCConcentrationIndex      float64            `json:"amc_concentration_index"`
	CategoryConcentrationIndex float64            `json:"category_concentration_index"`
	DistinctAMCs               int                `json:"distinct_amcs"`
	DistinctCategories         int                `json:"distinct_categories"`
	CapsRelaxed                bool               `json:"caps_relaxed"`
}

// Plan is the response of a plan request
type Plan struct {
	PlanID          string            `json:"plan_id"`
	Status          string            `json:"status"`
	Message         string            `json:"message"`
	Recommendations []Recommendation  `json:"recommendations"`
	Summary         InvestmentSummary `json:"investment_summary"`
	Diversification Diversification   `json:"diversification_analysis"`
}

// FromPlan converts an engine plan into its JSON message
func FromPlan(p *domain.InvestmentPlan) Plan {
	recs := make([]Recommendation, len(p.Recommendations))
	for i, r := range p.Recommendations {
		factors := make([]Factor, len(r.Factors))
		for j, f := range r.Factors {
			factors[j] = Factor{Name: f.Name, Raw: f.Raw, Normalized: f.Normalized, Weight: f.Weight, Weighted: f.Weighted}
		}
		recs[i] = Recommendation{
			SchemeName:           r.Fund.SchemeName,
			AMCName:              r.Fund.AMCName,
			Category:             string(r.Fund.Category),
			RiskLevel:            r.Fund.RiskLevel,
			Rating:               r.Fund.Rating,
			ExpenseRatio:         r.Fund.ExpenseRatio,
			AllocatedAmount:      r.AllocatedAmount.InexactFloat64(),
			AllocationWeight:     r.AllocationWeight,
			AllocationPercentage: math.Round(r.AllocationWeight*10000) / 100,
			RationaleScore:       r.RationaleScore,
			ExpectedReturn:       r.ExpectedReturn,
			Factors:              factors,
		}
	}

	s := p.Summary
	d := p.Diversification
	return Plan{
		PlanID:          p.ID.String(),
		Status:          string(p.Status),
		Message:         p.Message,
		Recommendations: recs,
		Summary: InvestmentSummary{
			TotalInvestment:  s.TotalInvestment.InexactFloat64(),
			TotalAllocated:   s.TotalAllocated.InexactFloat64(),
			ExpectedReturn:   s.ExpectedReturn,
			ProjectedValue:   s.ProjectedValue.InexactFloat64(),
			AverageRiskLevel: s.AverageRiskLevel,
			RiskProfile:      string(s.RiskProfile),
			TenureYears:      s.TenureYears,
			NumberOfFunds:    s.NumberOfFunds,
		},
		Diversification: Diversification{
			CategoryAllocation:         d.CategoryAllocation,
			AMCAllocation:              d.AMCAllocation,
			ConcentrationIndex:         d.ConcentrationIndex,
			AMCConcentrationIndex:      d.AMCConcentrationIndex,
			CategoryConcentrationIndex: d.CategoryConcentrationIndex,
			DistinctAMCs:               d.DistinctAMCs,
			DistinctCategories:         d.DistinctCategories,
			CapsRelaxed:                d.CapsRelaxed,
		},
	}
}
