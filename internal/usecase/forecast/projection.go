package forecast

import (
	"math"

	"github.com/simaogato/fundwise-backend/internal/domain"
)

// MaxProjectionMonths caps the monthly projection to the first year
const MaxProjectionMonths = 12

// Project compounds 100 currency units monthly at annualReturn/12 percent
// Returns min(12, h*12) entries with values rounded to 2 decimal places
func Project(annualReturn float64, h domain.Horizon) []domain.MonthlyProjection {
	monthly := annualReturn / 12 / 100
	months := min(int(h)*12, MaxProjectionMonths)

	out := make([]domain.MonthlyProjection, 0, months)
	for m := 1; m <= months; m++ {
		value := 100 * math.Pow(1+monthly, float64(m))
		out = append(out, domain.MonthlyProjection{
			Month:            m,
			ProjectedValue:   round2(value),
			ReturnPercentage: round2(value - 100),
		})
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
