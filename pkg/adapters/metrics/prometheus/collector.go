package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements MetricsCollector using Prometheus
type Collector struct {
	forecasts         *prometheus.CounterVec
	inputErrors       *prometheus.CounterVec
	predictorFailures *prometheus.CounterVec
	fallbacks         *prometheus.CounterVec
	forecastDuration  *prometheus.HistogramVec
	predictorLatency  *prometheus.HistogramVec
	externalAvailable prometheus.Gauge
}

// NewCollector creates a collector registered with the default registry
func NewCollector() *Collector {
	return NewCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewCollectorWithRegistry creates a collector registered with reg
func NewCollectorWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		forecasts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecaster_forecasts_total",
				Help: "Total number of forecasts served",
			},
			[]string{"predictor", "outcome"},
		),
		inputErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecaster_input_errors_total",
				Help: "Total number of rejected forecast requests",
			},
			[]string{"code"},
		),
		predictorFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecaster_predictor_failures_total",
				Help: "Total number of external predictor failures",
			},
			[]string{"predictor"},
		),
		fallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecaster_fallbacks_total",
				Help: "Total number of forecasts served by the statistical sampler",
			},
			[]string{"reason"},
		),
		forecastDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forecaster_forecast_duration_seconds",
				Help:    "End-to-end forecast duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"predictor"},
		),
		predictorLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forecaster_predictor_latency_seconds",
				Help:    "External predictor call latency in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 60},
			},
			[]string{"predictor"},
		),
		externalAvailable: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "forecaster_external_predictor_available",
				Help: "1 if an external predictor was loaded at startup",
			},
		),
	}
}

// RecordForecast records a served forecast and its duration
func (c *Collector) RecordForecast(predictor, outcome string, duration time.Duration) {
	c.forecasts.WithLabelValues(predictor, outcome).Inc()
	c.forecastDuration.WithLabelValues(predictor).Observe(duration.Seconds())
}

// RecordInputError records a rejected request
func (c *Collector) RecordInputError(code string) {
	c.inputErrors.WithLabelValues(code).Inc()
}

// RecordPredictorFailure records an external predictor failure
func (c *Collector) RecordPredictorFailure(predictor string) {
	c.predictorFailures.WithLabelValues(predictor).Inc()
}

// RecordFallback records a forecast served by the statistical sampler
func (c *Collector) RecordFallback(reason string) {
	c.fallbacks.WithLabelValues(reason).Inc()
}

// ObservePredictorLatency records the latency of an external predictor call
func (c *Collector) ObservePredictorLatency(predictor string, duration time.Duration) {
	c.predictorLatency.WithLabelValues(predictor).Observe(duration.Seconds())
}

// SetExternalPredictorAvailable records the startup availability decision
func (c *Collector) SetExternalPredictorAvailable(available bool) {
	if available {
		c.externalAvailable.Set(1)
		return
	}
	c.externalAvailable.Set(0)
}
