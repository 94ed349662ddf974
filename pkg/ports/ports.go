// Package ports defines the interfaces between the forecasting core and its
// adapters.
package ports

import (
	"context"
	"time"

	"github.com/nocagentic/forecaster/pkg/domain"
)

// Predictor is an external forecasting model. It returns an ensemble of
// samples trajectories, each horizon values long, or an error.
type Predictor interface {
	Name() string
	Predict(ctx context.Context, values []float64, horizon, samples int) (domain.Ensemble, error)
}

// EventHandler processes an event received from the bus
type EventHandler func(ctx context.Context, event domain.Event) error

// EventBus publishes forecast events and delivers them to subscribers
type EventBus interface {
	Publish(ctx context.Context, topic string, event domain.Event) error
	Subscribe(ctx context.Context, topic string, handler EventHandler) error
	Unsubscribe(ctx context.Context, topic string) error
	Close() error
}

// MetricsCollector records forecast service metrics
type MetricsCollector interface {
	RecordForecast(predictor, outcome string, duration time.Duration)
	RecordInputError(code string)
	RecordPredictorFailure(predictor string)
	RecordFallback(reason string)
	ObservePredictorLatency(predictor string, duration time.Duration)
	SetExternalPredictorAvailable(available bool)
}
