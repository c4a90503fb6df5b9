package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ternarybob/arbor"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/simaogato/fundwise-backend/internal/domain"
	"github.com/simaogato/fundwise-backend/internal/usecase/scoring"
)

// ForecastService is the forecast projection engine
type ForecastService struct {
	Catalog *domain.Catalog
	Models  domain.ModelRegistry
	Workers int
	Logger  arbor.ILogger

	group singleflight.Group
}

// NewForecastService creates a new ForecastService instance
// workers limits how many horizon models run at once (<= 0 means one per horizon)
func NewForecastService(catalog *domain.Catalog, models domain.ModelRegistry, workers int, logger arbor.ILogger) *ForecastService {
	return &ForecastService{
		Catalog: catalog,
		Models:  models,
		Workers: workers,
		Logger:  logger,
	}
}

// Accuracy is the offline evaluation of a fitted return model
type Accuracy struct {
	Accuracy string
	RMSE     float64
}

// ModelAccuracy is the offline evaluation of each horizon's model
var ModelAccuracy = map[domain.Horizon]Accuracy{
	domain.Horizon1Y: {Accuracy: "51.8%", RMSE: 3.918},
	domain.Horizon3Y: {Accuracy: "96.4%", RMSE: 2.303},
	domain.Horizon5Y: {Accuracy: "78.8%", RMSE: 1.685},
}

// ConfidenceFor returns the static confidence tier of a horizon's model, ranked by ModelAccuracy
func ConfidenceFor(h domain.Horizon) domain.Confidence {
	switch h {
	case domain.Horizon3Y:
		return domain.ConfidenceHigh
	case domain.Horizon5Y:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

// Forecast resolves a fund by scheme name and forecasts it
// Concurrent identical requests share one computation.
// The returned result may be shared between callers and must not be mutated.
func (s *ForecastService) Forecast(ctx context.Context, fundName string, requestedHorizon int) (*domain.ForecastResult, error) {
	if s.Catalog == nil || s.Models == nil {
		return nil, fmt.Errorf("%w: catalog or models not loaded", domain.ErrDataUnavailable)
	}

	fund, err := s.Catalog.Lookup(fundName)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s\x00%d", fund.SchemeName, requestedHorizon)
	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		// one caller going away must not fail the others
		return s.ForecastFund(context.WithoutCancel(ctx), fund, requestedHorizon), nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.Logger.Debug().Str("fund", fund.SchemeName).Msg("Forecast shared with in-flight request")
	}

	return v.(*domain.ForecastResult), nil
}

// ForecastFund predicts every fixed horizon for a fund and projects the requested one
// Logic:
//  1. Build the feature vector once
//  2. Run each horizon's model concurrently; a failure is kept on that horizon only
//  3. If the requested horizon is 1, 3 or 5 and its model succeeded, project monthly growth
//
// ForecastFund never fails as a whole: partial results are always returned.
func (s *ForecastService) ForecastFund(ctx context.Context, fund *domain.Fund, requestedHorizon int) *domain.ForecastResult {
	features := scoring.FeatureVector(fund)
	predictions := make([]domain.HorizonPrediction, len(domain.Horizons))

	workers := s.Workers
	if workers <= 0 {
		workers = len(domain.Horizons)
	}

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, h := range domain.Horizons {
		g.Go(func() error {
			predictions[i] = s.predict(ctx, fund, h, features)
			return nil
		})
	}
	_ = g.Wait()

	result := &domain.ForecastResult{
		Fund:               fund,
		RequestedHorizon:   requestedHorizon,
		Predictions:        predictions,
		MonthlyProjections: []domain.MonthlyProjection{},
	}

	h := domain.Horizon(requestedHorizon)
	if !h.IsValid() {
		return result
	}

	p, _ := result.Prediction(h)
	if p.Failed() {
		result.ProjectionError = fmt.Sprintf("no projection: %d year prediction failed", requestedHorizon)
		return result
	}
	result.MonthlyProjections = Project(p.PredictedReturn, h)

	return result
}

// predict runs one horizon's model, turning errors and panics into a failed prediction
func (s *ForecastService) predict(ctx context.Context, fund *domain.Fund, h domain.Horizon, features []float64) (pred domain.HorizonPrediction) {
	pred = domain.HorizonPrediction{
		Horizon:          h,
		HistoricalReturn: fund.HistoricalReturn(h),
	}

	fail := func(cause error) {
		pred.PredictedReturn = 0
		pred.Confidence = ""
		pred.Error = fmt.Sprintf("Prediction failed: %v", cause)
		s.Logger.Warn().
			Err(fmt.Errorf("%w: %v", domain.ErrModelInference, cause)).
			Str("fund", fund.SchemeName).
			Int("horizon", int(h)).
			Msg("Horizon prediction failed")
	}

	defer func() {
		if r := recover(); r != nil {
			fail(fmt.Errorf("panic: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		fail(err)
		return pred
	}

	predictor, ok := s.Models.Predictor(h)
	if !ok {
		fail(errors.New("no model loaded for this horizon"))
		return pred
	}

	// each model gets its own copy of the shared vector
	y, err := predictor.Predict(append([]float64(nil), features...))
	if err != nil {
		fail(err)
		return pred
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		fail(fmt.Errorf("non-finite prediction %v", y))
		return pred
	}

	pred.PredictedReturn = y
	pred.Confidence = ConfidenceFor(h)
	return pred
}
