package scoring

import (
	"strings"

	"github.com/simaogato/fundwise-backend/internal/domain"
)

// FeatureNames is the column order the return models were fitted on:
// the numeric fund metrics followed by one flag per category
var FeatureNames = featureNames()

func featureNames() []string {
	names := make([]string, 0, len(domain.MetricNames)+len(domain.Categories))
	names = append(names, domain.MetricNames...)
	for _, c := range domain.Categories {
		names = append(names, "category_"+strings.ToLower(string(c)))
	}
	return names
}

// FeatureVector flattens a fund into model input, in FeatureNames order
func FeatureVector(f *domain.Fund) []float64 {
	metrics := f.Metrics()
	out := make([]float64, 0, len(FeatureNames))
	for _, name := range domain.MetricNames {
		out = append(out, metrics[name])
	}
	for _, c := range domain.Categories {
		if f.Category == c {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
	}
	return out
}
