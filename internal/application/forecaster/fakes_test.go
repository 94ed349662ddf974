package forecaster

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nocagentic/forecaster/pkg/domain"
)

type fakePredictor struct {
	name    string
	predict func(ctx context.Context, values []float64, horizon, samples int) (domain.Ensemble, error)

	mu    sync.Mutex
	calls int
}

func (f *fakePredictor) Name() string { return f.name }

func (f *fakePredictor) Predict(ctx context.Context, values []float64, horizon, samples int) (domain.Ensemble, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.predict(ctx, values, horizon, samples)
}

func (f *fakePredictor) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func constantPredictor(value float64) *fakePredictor {
	return &fakePredictor{
		name: "fake",
		predict: func(ctx context.Context, values []float64, horizon, samples int) (domain.Ensemble, error) {
			e := make(domain.Ensemble, samples)
			for i := range e {
				e[i] = make([]float64, horizon)
				for h := range e[i] {
					e[i][h] = value
				}
			}
			return e, nil
		},
	}
}

func failingPredictor() *fakePredictor {
	return &fakePredictor{
		name: "fake",
		predict: func(ctx context.Context, values []float64, horizon, samples int) (domain.Ensemble, error) {
			return nil, errors.New("model exploded")
		},
	}
}

type fakeMetrics struct {
	mu                sync.Mutex
	forecasts         map[string]int
	inputErrors       map[string]int
	predictorFailures int
	fallbacks         map[string]int
	available         bool
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		forecasts:   make(map[string]int),
		inputErrors: make(map[string]int),
		fallbacks:   make(map[string]int),
	}
}

func (m *fakeMetrics) RecordForecast(predictor, outcome string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forecasts[predictor+"/"+outcome]++
}

func (m *fakeMetrics) RecordInputError(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputErrors[code]++
}

func (m *fakeMetrics) RecordPredictorFailure(predictor string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictorFailures++
}

func (m *fakeMetrics) RecordFallback(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks[reason]++
}

func (m *fakeMetrics) ObservePredictorLatency(predictor string, duration time.Duration) {}

func (m *fakeMetrics) SetExternalPredictorAvailable(available bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = available
}
