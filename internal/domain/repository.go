package domain

import (
	"context"
)

// FundSource defines the interface for loading the fund dataset
type FundSource interface {
	// LoadFunds reads every fund row, validating the dataset schema.
	// Implementations fail fast on a schema mismatch.
	LoadFunds(ctx context.Context) ([]*Fund, error)
}

// FundRepository defines the interface for fund persistence operations
// It is used to bootstrap SQL-backed catalogs from the CSV dataset
type FundRepository interface {
	FundSource

	// Exists reports whether a fund with the scheme name is stored
	Exists(ctx context.Context, schemeName string) (bool, error)

	// Create stores a new fund row
	Create(ctx context.Context, fund *Fund) error
}

// Predictor is a fitted regression function for one horizon.
// It returns a predicted annualized return in percent.
type Predictor interface {
	Predict(features []float64) (float64, error)
}

// PredictorFunc adapts an ordinary function to the Predictor interface
type PredictorFunc func(features []float64) (float64, error)

// Predict calls f(features)
func (f PredictorFunc) Predict(features []float64) (float64, error) {
	return f(features)
}

// ModelRegistry resolves the predictor of a horizon
type ModelRegistry interface {
	Predictor(h Horizon) (Predictor, bool)
}
