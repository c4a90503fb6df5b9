package domain

import "errors"

// Error kinds surfaced by the engines. Callers match them with errors.Is.
var (
	// ErrInvalidRequest marks malformed or out-of-range input
	ErrInvalidRequest = errors.New("invalid request")

	// ErrFundNotFound marks an unknown fund identity
	ErrFundNotFound = errors.New("fund not found")

	// ErrModelInference marks a failed prediction for a single horizon
	ErrModelInference = errors.New("model inference failed")

	// ErrDataUnavailable marks a catalog or registry that could not be loaded
	ErrDataUnavailable = errors.New("data unavailable")
)
