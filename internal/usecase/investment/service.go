package investment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/ternarybob/arbor"

	"github.com/simaogato/fundwise-backend/internal/domain"
	"github.com/simaogato/fundwise-backend/internal/usecase/allocator"
	"github.com/simaogato/fundwise-backend/internal/usecase/scoring"
)

// Options tunes the diversification heuristic
type Options struct {
	MaxFunds      int
	AMCCap        float64 // share of the plan one AMC may already hold before it is skipped
	CategoryCap   float64 // share of the plan one category may already hold before it is skipped
	MinCategories int
	MinAMCs       int
	Weights       scoring.Weights
}

// DefaultOptions returns the production settings
func DefaultOptions() Options {
	return Options{
		MaxFunds:      5,
		AMCCap:        0.30,
		CategoryCap:   0.50,
		MinCategories: 2,
		MinAMCs:       3,
		Weights:       scoring.DefaultWeights(),
	}
}

// Validate ensures the options are usable
func (o Options) Validate() error {
	if o.MaxFunds <= 0 {
		return errors.New("max funds must be positive")
	}
	if o.AMCCap <= 0 || o.AMCCap > 1 {
		return errors.New("amc cap must be in (0, 1]")
	}
	if o.CategoryCap <= 0 || o.CategoryCap > 1 {
		return errors.New("category cap must be in (0, 1]")
	}
	if o.MinCategories < 0 || o.MinAMCs < 0 {
		return errors.New("minimum spread cannot be negative")
	}
	return o.Weights.Validate()
}

// InvestmentService is the diversified allocation engine
type InvestmentService struct {
	Catalog *domain.Catalog
	Options Options
	Logger  arbor.ILogger
}

// NewInvestmentService creates a new InvestmentService instance
func NewInvestmentService(catalog *domain.Catalog, opts Options, logger arbor.ILogger) *InvestmentService {
	return &InvestmentService{
		Catalog: catalog,
		Options: opts,
		Logger:  logger,
	}
}

// GenerateInvestmentPlan builds a ranked, weighted and diversified plan for a request
// Logic:
//  1. Validate the request and resolve the risk band (before touching the catalog)
//  2. Filter the catalog by risk band and optional category
//  3. Score and rank the candidates
//  4. Select up to MaxFunds greedily under the AMC/category caps, relaxing them if needed
//  5. Weight by score and split the amount penny-exact (remainder to the top-ranked fund)
//
// An empty candidate pool is not an error: the plan has status no_match.
func (s *InvestmentService) GenerateInvestmentPlan(ctx context.Context, req domain.InvestmentRequest) (*domain.InvestmentPlan, error) {
	band, category, err := req.Validate()
	if err != nil {
		return nil, err
	}

	if s.Catalog == nil {
		return nil, fmt.Errorf("%w: catalog not loaded", domain.ErrDataUnavailable)
	}

	profile := domain.RiskTolerance(strings.ToLower(strings.TrimSpace(string(req.RiskTolerance))))
	totalInvestment := decimal.NewFromInt(req.Amount)

	pool := s.Catalog.Filter(func(f *domain.Fund) bool {
		if !band.Contains(f.RiskLevel) {
			return false
		}
		return category == nil || f.Category == *category
	})

	if len(pool) == 0 {
		s.Logger.Info().
			Str("risk_tolerance", string(profile)).
			Str("category", req.CategoryPreference).
			Msg("No candidate funds for request")

		return &domain.InvestmentPlan{
			ID:              uuid.New(),
			Status:          domain.PlanStatusNoMatch,
			Message:         noMatchMessage(profile, category),
			Recommendations: []domain.Recommendation{},
			Summary: domain.InvestmentSummary{
				TotalInvestment: totalInvestment,
				TotalAllocated:  decimal.Zero,
				ProjectedValue:  decimal.Zero,
				RiskProfile:     profile,
				TenureYears:     req.TenureYears,
			},
			Diversification: domain.DiversificationAnalysis{
				CategoryAllocation: map[string]float64{},
				AMCAllocation:      map[string]float64{},
			},
		}, nil
	}

	ranked := scoring.Rank(pool, req.TenureYears, s.Options.Weights)
	picked, capsRelaxed := s.selectDiversified(ranked)

	recommendations, err := s.allocate(totalInvestment, picked, req.TenureYears)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate plan: %w", err)
	}

	plan := &domain.InvestmentPlan{
		ID:              uuid.New(),
		Status:          domain.PlanStatusSuccess,
		Recommendations: recommendations,
		Summary:         summarize(totalInvestment, recommendations, profile, req.TenureYears),
		Diversification: analyze(totalInvestment, recommendations, capsRelaxed),
	}
	plan.Message = fmt.Sprintf("Allocated across %d funds from %d AMCs in %d categories",
		len(recommendations), plan.Diversification.DistinctAMCs, plan.Diversification.DistinctCategories)

	s.Logger.Info().
		Str("plan_id", plan.ID.String()).
		Str("risk_tolerance", string(profile)).
		Int("candidates", len(pool)).
		Int("funds", len(recommendations)).
		Bool("caps_relaxed", capsRelaxed).
		Msg("Investment plan generated")

	return plan, nil
}

func noMatchMessage(profile domain.RiskTolerance, category *domain.Category) string {
	if category != nil {
		return fmt.Sprintf("No %s funds match the %s risk profile", *category, profile)
	}
	return fmt.Sprintf("No funds match the %s risk profile", profile)
}

// allocate turns the selection into recommendations with score weights and money amounts
func (s *InvestmentService) allocate(total decimal.Decimal, picked []scoring.Scored, tenureYears int) ([]domain.Recommendation, error) {
	scoreTotal := 0.0
	for _, p := range picked {
		scoreTotal += p.Breakdown.Total
	}

	items := make([]allocator.Item, len(picked))
	for i, p := range picked {
		items[i] = allocator.Item{
			SchemeName: p.Fund.SchemeName,
			Weight:     p.Breakdown.Total / scoreTotal,
			Rank:       i + 1,
		}
	}

	amounts, err := allocator.CalculateAllocation(total, items)
	if err != nil {
		return nil, err
	}

	recommendations := make([]domain.Recommendation, len(picked))
	for i, p := range picked {
		recommendations[i] = domain.Recommendation{
			Fund:             p.Fund,
			AllocatedAmount:  amounts[p.Fund.SchemeName],
			AllocationWeight: items[i].Weight,
			RationaleScore:   p.Breakdown.Total,
			ExpectedReturn:   scoring.TenureReturn(p.Fund, tenureYears),
			Factors:          p.Breakdown.Factors,
		}
	}
	return recommendations, nil
}

func summarize(total decimal.Decimal, recs []domain.Recommendation, profile domain.RiskTolerance, tenureYears int) domain.InvestmentSummary {
	allocated := decimal.Zero
	blended := 0.0
	risk := 0.0
	for _, r := range recs {
		allocated = allocated.Add(r.AllocatedAmount)
		blended += r.AllocationWeight * r.ExpectedReturn
		risk += r.AllocationWeight * float64(r.Fund.RiskLevel)
	}

	growth := math.Pow(1+blended/100, float64(tenureYears))

	return domain.InvestmentSummary{
		TotalInvestment:  total,
		TotalAllocated:   allocated,
		ExpectedReturn:   round2(blended),
		ProjectedValue:   total.Mul(decimal.NewFromFloat(growth)).Round(2),
		AverageRiskLevel: round2(risk),
		RiskProfile:      profile,
		TenureYears:      tenureYears,
		NumberOfFunds:    len(recs),
	}
}

// analyze reports how the money is spread over categories and AMCs
func analyze(total decimal.Decimal, recs []domain.Recommendation, capsRelaxed bool) domain.DiversificationAnalysis {
	a := domain.DiversificationAnalysis{
		CategoryAllocation: make(map[string]float64),
		AMCAllocation:      make(map[string]float64),
		CapsRelaxed:        capsRelaxed,
	}

	for _, r := range recs {
		share := r.AllocatedAmount.Div(total).InexactFloat64()
		a.CategoryAllocation[string(r.Fund.Category)] += share
		a.AMCAllocation[r.Fund.AMCName] += share
		a.ConcentrationIndex += share * share
	}
	for _, share := range a.CategoryAllocation {
		a.CategoryConcentrationIndex += share * share
	}
	for _, share := range a.AMCAllocation {
		a.AMCConcentrationIndex += share * share
	}
	a.DistinctCategories = len(a.CategoryAllocation)
	a.DistinctAMCs = len(a.AMCAllocation)

	return a
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
