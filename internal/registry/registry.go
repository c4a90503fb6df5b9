package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/simaogato/fundwise-backend/internal/domain"
)

// Registry is the immutable horizon -> predictor mapping
type Registry struct {
	predictors map[domain.Horizon]domain.Predictor
}

// New builds a registry from predictors
// Returns an error if a horizon is unknown or a predictor is nil
func New(predictors map[domain.Horizon]domain.Predictor) (*Registry, error) {
	r := &Registry{predictors: make(map[domain.Horizon]domain.Predictor, len(predictors))}
	for h, p := range predictors {
		if !h.IsValid() {
			return nil, fmt.Errorf("%w: no model horizon %d", domain.ErrDataUnavailable, h)
		}
		if p == nil {
			return nil, fmt.Errorf("%w: nil predictor for horizon %d", domain.ErrDataUnavailable, h)
		}
		r.predictors[h] = p
	}
	return r, nil
}

// Predictor returns the predictor of a horizon
func (r *Registry) Predictor(h domain.Horizon) (domain.Predictor, bool) {
	p, ok := r.predictors[h]
	return p, ok
}

// Horizons returns the loaded horizons in ascending order
func (r *Registry) Horizons() []domain.Horizon {
	out := make([]domain.Horizon, 0, len(r.predictors))
	for h := range r.predictors {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of loaded models
func (r *Registry) Len() int {
	return len(r.predictors)
}

// FileName returns the model file name of a horizon, e.g. return_3yr.yaml
func FileName(h domain.Horizon) string {
	return fmt.Sprintf("return_%dyr.yaml", int(h))
}

// LoadDir reads one linear model per fixed horizon from dir
// Every horizon must be present; a missing or malformed file fails the load.
func LoadDir(dir string, featureNames []string) (*Registry, error) {
	predictors := make(map[domain.Horizon]domain.Predictor, len(domain.Horizons))

	for _, h := range domain.Horizons {
		path := filepath.Join(dir, FileName(h))
		model, err := loadFile(path, h, featureNames)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
		}
		predictors[h] = model
	}

	return New(predictors)
}

func loadFile(path string, h domain.Horizon, featureNames []string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}

	var file ModelFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse model %s: %w", path, err)
	}
	if file.Horizon != 0 && file.Horizon != int(h) {
		return nil, fmt.Errorf("model %s declares horizon %d, expected %d", path, file.Horizon, h)
	}

	model, err := NewLinearModel(file, featureNames)
	if err != nil {
		return nil, fmt.Errorf("invalid model %s: %w", path, err)
	}
	return model, nil
}
