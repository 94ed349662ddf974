package forecaster

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nocagentic/forecaster/pkg/domain"
	"github.com/nocagentic/forecaster/pkg/forecast"
	"github.com/nocagentic/forecaster/pkg/ports"
	"go.uber.org/zap"
)

// Forecast outcomes recorded in metrics
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
)

// Service produces forecasts. It holds no per-request state.
type Service struct {
	validator *Validator
	selector  *Selector
	eventBus  ports.EventBus
	metrics   ports.MetricsCollector
	logger    *zap.Logger
}

// NewService creates a new forecast service
func NewService(
	validator *Validator,
	selector *Selector,
	eventBus ports.EventBus,
	metrics ports.MetricsCollector,
	logger *zap.Logger,
) *Service {
	return &Service{
		validator: validator,
		selector:  selector,
		eventBus:  eventBus,
		metrics:   metrics,
		logger:    logger,
	}
}

// ExternalPredictorAvailable reports whether an external predictor was loaded
func (s *Service) ExternalPredictorAvailable() bool {
	return s.selector.ExternalAvailable()
}

// PredictorName returns the name of the preferred predictor
func (s *Service) PredictorName() string {
	return s.selector.PredictorName()
}

// Forecast validates req and returns its percentile forecast. The only
// errors returned are *domain.InputError.
func (s *Service) Forecast(ctx context.Context, req *domain.ForecastRequest) (*domain.ForecastResponse, error) {
	start := time.Now()

	horizon, samples, err := s.validator.Validate(req)
	if err != nil {
		s.recordInputError(err)
		return nil, err
	}

	dates, err := forecast.NextDates(req.Dates[len(req.Dates)-1], horizon)
	if err != nil {
		inputErr := domain.NewInputError(domain.CodeInvalidDate, "%s", err.Error())
		s.recordInputError(inputErr)
		return nil, inputErr
	}

	ensemble, predictor := s.selector.Predict(ctx, req.SiteID, req.TrafficGB, horizon, samples)
	band := forecast.Summarize(ensemble)

	resp := &domain.ForecastResponse{
		SiteID:        req.SiteID,
		ForecastDates: dates,
		P10:           band.P10,
		P50:           band.P50,
		P90:           band.P90,
		Samples:       ensemble,
		Predictor:     predictor,
	}

	outcome := OutcomeOK
	if predictor == domain.PredictorStatistical && s.selector.ExternalAvailable() {
		outcome = OutcomeFallback
	}
	duration := time.Since(start)
	s.metrics.RecordForecast(predictor, outcome, duration)

	s.logger.Info("forecast produced",
		zap.String("site_id", req.SiteID),
		zap.String("predictor", predictor),
		zap.String("outcome", outcome),
		zap.Int("history", len(req.TrafficGB)),
		zap.Int("horizon", horizon),
		zap.Int("samples", samples),
		zap.Duration("duration", duration))

	s.publishCompleted(ctx, resp, outcome, samples)

	return resp, nil
}

// publishCompleted announces a forecast; failures are logged only
func (s *Service) publishCompleted(ctx context.Context, resp *domain.ForecastResponse, outcome string, samples int) {
	if s.eventBus == nil {
		return
	}

	event := domain.Event{
		ID:        uuid.New().String(),
		Type:      domain.EventTypeForecastCompleted,
		SiteID:    resp.SiteID,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"predictor":      resp.Predictor,
			"fallback":       outcome == OutcomeFallback,
			"horizon":        len(resp.ForecastDates),
			"samples":        samples,
			"forecast_dates": resp.ForecastDates,
			"p50":            resp.P50,
		},
	}

	if err := s.eventBus.Publish(ctx, domain.TopicForecastEvents, event); err != nil {
		s.logger.Error("failed to publish forecast event",
			zap.String("site_id", resp.SiteID),
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
}

func (s *Service) recordInputError(err error) {
	var inputErr *domain.InputError
	if errors.As(err, &inputErr) {
		s.metrics.RecordInputError(inputErr.Code)
	}
}
