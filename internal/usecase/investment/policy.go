package investment

import (
	"fmt"
	"strings"

	"github.com/simaogato/fundwise-backend/internal/domain"
)

// ApplyAMCPreference narrows a plan to the funds of one AMC
// The engine is AMC-agnostic; adapters apply this policy on its output.
// Logic:
//   - No AMC named, or plan not successful: plan returned unchanged
//   - Plan holds funds of the AMC: recommendations narrowed to them, status success;
//     summary and diversification still describe the full plan
//   - Otherwise: full plan kept, status partial_match with an explanatory message
//
// The input plan is never modified.
func ApplyAMCPreference(plan *domain.InvestmentPlan, amcName string) *domain.InvestmentPlan {
	amcName = strings.TrimSpace(amcName)
	if plan == nil || amcName == "" || plan.Status != domain.PlanStatusSuccess {
		return plan
	}

	out := *plan
	narrowed := make([]domain.Recommendation, 0, len(plan.Recommendations))
	for _, r := range plan.Recommendations {
		if strings.EqualFold(r.Fund.AMCName, amcName) {
			narrowed = append(narrowed, r)
		}
	}

	if len(narrowed) == 0 {
		out.Status = domain.PlanStatusPartialMatch
		out.Message = fmt.Sprintf("No suitable funds found for %s. Showing alternative recommendations.", amcName)
		return &out
	}

	out.Recommendations = narrowed
	return &out
}
