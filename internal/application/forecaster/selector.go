package forecaster

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/nocagentic/forecaster/pkg/domain"
	"github.com/nocagentic/forecaster/pkg/forecast"
	"github.com/nocagentic/forecaster/pkg/ports"
	"go.uber.org/zap"
)

// Fallback reasons
const (
	FallbackExternalUnavailable = "external_unavailable"
	FallbackPredictorError      = "predictor_error"
)

// Selector chooses between the external predictor and the statistical
// sampler. Availability of the external predictor is fixed at construction.
type Selector struct {
	external ports.Predictor
	sampler  *forecast.Sampler
	timeout  time.Duration
	metrics  ports.MetricsCollector
	logger   *zap.Logger
}

// NewSelector creates a selector. A nil external predictor means every
// request is served by the sampler.
func NewSelector(
	external ports.Predictor,
	sampler *forecast.Sampler,
	timeout time.Duration,
	metrics ports.MetricsCollector,
	logger *zap.Logger,
) *Selector {
	metrics.SetExternalPredictorAvailable(external != nil)

	return &Selector{
		external: external,
		sampler:  sampler,
		timeout:  timeout,
		metrics:  metrics,
		logger:   logger,
	}
}

// ExternalAvailable reports whether an external predictor was loaded
func (s *Selector) ExternalAvailable() bool {
	return s.external != nil
}

// PredictorName returns the name of the preferred predictor
func (s *Selector) PredictorName() string {
	if s.external == nil {
		return domain.PredictorStatistical
	}
	return s.external.Name()
}

// Predict returns an ensemble and the name of the predictor that produced
// it. External failures of any kind fall back to the sampler for this call
// only; Predict itself never fails.
func (s *Selector) Predict(ctx context.Context, siteID string, values []float64, horizon, samples int) (domain.Ensemble, string) {
	if s.external == nil {
		s.metrics.RecordFallback(FallbackExternalUnavailable)
		return s.sampler.Sample(values, horizon, samples), domain.PredictorStatistical
	}

	ensemble, err := s.predictExternal(ctx, values, horizon, samples)
	if err == nil {
		return ensemble, s.external.Name()
	}

	s.logger.Error("external predictor failed, falling back to statistical sampler",
		zap.String("site_id", siteID),
		zap.String("predictor", s.external.Name()),
		zap.Error(err))
	s.metrics.RecordPredictorFailure(s.external.Name())
	s.metrics.RecordFallback(FallbackPredictorError)

	return s.sampler.Sample(values, horizon, samples), domain.PredictorStatistical
}

type predictResult struct {
	ensemble domain.Ensemble
	err      error
}

// predictExternal calls the external predictor inside a failure boundary:
// errors, panics, timeouts and malformed ensembles all become a PredictorError.
func (s *Selector) predictExternal(ctx context.Context, values []float64, horizon, samples int) (domain.Ensemble, error) {
	name := s.external.Name()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	done := make(chan predictResult, 1)
	start := time.Now()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- predictResult{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		ensemble, err := s.external.Predict(ctx, values, horizon, samples)
		done <- predictResult{ensemble: ensemble, err: err}
	}()

	var res predictResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res = predictResult{err: ctx.Err()}
	}
	s.metrics.ObservePredictorLatency(name, time.Since(start))

	if res.err != nil {
		return nil, &domain.PredictorError{Predictor: name, Err: res.err}
	}
	if err := checkEnsemble(res.ensemble, horizon, samples); err != nil {
		return nil, &domain.PredictorError{Predictor: name, Err: err}
	}

	return res.ensemble, nil
}

// checkEnsemble enforces the samples x horizon shape with finite values
func checkEnsemble(e domain.Ensemble, horizon, samples int) error {
	if len(e) != samples {
		return fmt.Errorf("ensemble has %d trajectories, want %d", len(e), samples)
	}
	for i, row := range e {
		if len(row) != horizon {
			return fmt.Errorf("trajectory %d has %d steps, want %d", i, len(row), horizon)
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("trajectory %d has a non-finite value", i)
			}
		}
	}
	return nil
}
