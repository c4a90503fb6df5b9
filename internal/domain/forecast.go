package domain

// Confidence is a static accuracy tier of a horizon's model
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// HorizonPrediction is the outcome of one horizon's model.
// Exactly one of (PredictedReturn, Confidence) or Error is meaningful.
type HorizonPrediction struct {
	Horizon          Horizon
	PredictedReturn  float64
	HistoricalReturn float64
	Confidence       Confidence
	Error            string
}

// Failed reports whether the horizon's predictor did not produce a value
func (p HorizonPrediction) Failed() bool {
	return p.Error != ""
}

// MonthlyProjection is the projected value of 100 currency units after Month months
type MonthlyProjection struct {
	Month            int
	ProjectedValue   float64
	ReturnPercentage float64
}

// ForecastResult is the output of the forecast engine for one fund
type ForecastResult struct {
	Fund               *Fund
	RequestedHorizon   int
	Predictions        []HorizonPrediction // one per fixed horizon, in Horizons order
	MonthlyProjections []MonthlyProjection
	ProjectionError    string
}

// Prediction returns the prediction for a horizon
func (r *ForecastResult) Prediction(h Horizon) (HorizonPrediction, bool) {
	for _, p := range r.Predictions {
		if p.Horizon == h {
			return p, true
		}
	}
	return HorizonPrediction{}, false
}
