package forecaster

import (
	"github.com/nocagentic/forecaster/pkg/domain"
)

// MinHistory is the shortest observation series that can be forecast
const MinHistory = 7

// Limits bounds and defaults the forecast horizon and sample count
type Limits struct {
	DefaultHorizon int
	DefaultSamples int
	MaxHorizon     int
	MaxSamples     int
}

// Validator validates forecast requests
type Validator struct {
	limits Limits
}

// NewValidator creates a new request validator
func NewValidator(limits Limits) *Validator {
	return &Validator{limits: limits}
}

// Validate checks a request and resolves its horizon and sample count.
// Dates are parsed later by the sequencer.
func (v *Validator) Validate(req *domain.ForecastRequest) (horizon, samples int, err error) {
	if req == nil || req.SiteID == "" {
		return 0, 0, domain.NewInputError(domain.CodeInvalidRequest, "site_id is required")
	}

	if len(req.Dates) != len(req.TrafficGB) {
		return 0, 0, domain.NewInputError(domain.CodeLengthMismatch,
			"dates and traffic_gb must have the same length (got %d and %d)", len(req.Dates), len(req.TrafficGB))
	}

	if len(req.TrafficGB) < MinHistory {
		return 0, 0, domain.NewInputError(domain.CodeInsufficientHistory,
			"need at least %d data points for forecasting (got %d)", MinHistory, len(req.TrafficGB))
	}

	horizon = v.limits.DefaultHorizon
	if req.Horizon != nil {
		horizon = *req.Horizon
	}
	if horizon < 1 || horizon > v.limits.MaxHorizon {
		return 0, 0, domain.NewInputError(domain.CodeInvalidHorizon,
			"horizon must be between 1 and %d", v.limits.MaxHorizon)
	}

	samples = v.limits.DefaultSamples
	if req.Samples != nil {
		samples = *req.Samples
	}
	if samples < 1 || samples > v.limits.MaxSamples {
		return 0, 0, domain.NewInputError(domain.CodeInvalidSamples,
			"samples must be between 1 and %d", v.limits.MaxSamples)
	}

	return horizon, samples, nil
}
