package registry

import (
	"errors"
	"fmt"
	"math"
)

// ModelFile is the on-disk form of a fitted linear return model
type ModelFile struct {
	Horizon      int                `yaml:"horizon"`
	Intercept    float64            `yaml:"intercept"`
	Coefficients map[string]float64 `yaml:"coefficients"`
	Clamp        *Bounds            `yaml:"clamp,omitempty"`
}

// Bounds limits a model's output
type Bounds struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// LinearModel predicts an annualized return as intercept + sum(coefficient * feature)
type LinearModel struct {
	intercept float64
	weights   []float64 // aligned with the feature order
	clamp     *Bounds
}

// NewLinearModel binds named coefficients to a feature order
// Returns an error if a coefficient names an unknown feature
func NewLinearModel(file ModelFile, featureNames []string) (*LinearModel, error) {
	if len(file.Coefficients) == 0 {
		return nil, errors.New("model has no coefficients")
	}
	if file.Clamp != nil && file.Clamp.Min > file.Clamp.Max {
		return nil, fmt.Errorf("clamp min %v exceeds max %v", file.Clamp.Min, file.Clamp.Max)
	}

	index := make(map[string]int, len(featureNames))
	for i, name := range featureNames {
		index[name] = i
	}

	weights := make([]float64, len(featureNames))
	for name, c := range file.Coefficients {
		i, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("unknown feature %q", name)
		}
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("coefficient %q is not finite", name)
		}
		weights[i] = c
	}

	return &LinearModel{intercept: file.Intercept, weights: weights, clamp: file.Clamp}, nil
}

// Predict evaluates the model on a feature vector
func (m *LinearModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.weights) {
		return 0, fmt.Errorf("expected %d features, got %d", len(m.weights), len(features))
	}

	y := m.intercept
	for i, x := range features {
		y += m.weights[i] * x
	}

	if m.clamp != nil {
		y = math.Max(m.clamp.Min, math.Min(m.clamp.Max, y))
	}
	return y, nil
}
