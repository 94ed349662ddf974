package forecaster

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/nocagentic/forecaster/pkg/adapters/events/memory"
	"github.com/nocagentic/forecaster/pkg/domain"
	"github.com/nocagentic/forecaster/pkg/forecast"
	"github.com/nocagentic/forecaster/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(external ports.Predictor, bus ports.EventBus) (*Service, *fakeMetrics) {
	metrics := newFakeMetrics()
	selector := NewSelector(external, forecast.NewSampler(2024), time.Second, metrics, zap.NewNop())
	return NewService(NewValidator(testLimits), selector, bus, metrics, zap.NewNop()), metrics
}

// eightDayRamp is 2024-01-01..2024-01-08 with traffic 100, 110, ..., 170.
func eightDayRamp() *domain.ForecastRequest {
	req := &domain.ForecastRequest{SiteID: "site-a"}
	for i := 0; i < 8; i++ {
		req.Dates = append(req.Dates, fmt.Sprintf("2024-01-%02d", i+1))
		req.TrafficGB = append(req.TrafficGB, 100+10*float64(i))
	}
	return req
}

func TestService_ShortHistoryForecastsFlatFromLastValue(t *testing.T) {
	svc, metrics := newTestService(nil, nil)
	req := eightDayRamp()
	req.Horizon = intPtr(3)
	req.Samples = intPtr(50)

	resp, err := svc.Forecast(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "site-a", resp.SiteID)
	assert.Equal(t, []string{"2024-01-09", "2024-01-10", "2024-01-11"}, resp.ForecastDates)
	assert.Equal(t, domain.PredictorStatistical, resp.Predictor)
	require.Len(t, resp.P50, 3)
	for _, v := range resp.P50 {
		assert.InDelta(t, 170.0, v, 5.0)
	}
	assert.Len(t, resp.Samples, 50)
	assert.Equal(t, 1, metrics.forecasts["statistical/ok"])
}

func TestService_BandsOrderedAndSamplesNonNegative(t *testing.T) {
	svc, _ := newTestService(nil, nil)
	req := &domain.ForecastRequest{SiteID: "site-b"}
	for i, v := range []float64{5, 40, 2, 60, 0, 35, 8, 50, 1, 45, 3, 55, 0, 30, 4, 20} {
		req.Dates = append(req.Dates, fmt.Sprintf("2024-03-%02d", i+1))
		req.TrafficGB = append(req.TrafficGB, v)
	}

	resp, err := svc.Forecast(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.ForecastDates, 14)
	assert.Equal(t, "2024-03-17", resp.ForecastDates[0])
	for i := range resp.P50 {
		assert.LessOrEqual(t, resp.P10[i], resp.P50[i])
		assert.LessOrEqual(t, resp.P50[i], resp.P90[i])
	}
	for _, row := range resp.Samples {
		for _, v := range row {
			assert.GreaterOrEqual(t, v, 0.0)
		}
	}
}

func TestService_FailingExternalNeverSurfaces(t *testing.T) {
	svc, metrics := newTestService(failingPredictor(), nil)

	for i := 0; i < 5; i++ {
		resp, err := svc.Forecast(context.Background(), eightDayRamp())

		require.NoError(t, err)
		assert.Equal(t, domain.PredictorStatistical, resp.Predictor)
		assert.Len(t, resp.ForecastDates, 14)
		assert.Len(t, resp.P10, 14)
		assert.Len(t, resp.Samples, 20)
	}
	assert.Equal(t, 5, metrics.forecasts["statistical/fallback"])
}

func TestService_UsesExternalPredictor(t *testing.T) {
	svc, metrics := newTestService(constantPredictor(12.34), nil)

	resp, err := svc.Forecast(context.Background(), eightDayRamp())
	require.NoError(t, err)

	assert.Equal(t, "fake", resp.Predictor)
	assert.Equal(t, 12.3, resp.P50[0])
	// Raw samples are not rounded.
	assert.Equal(t, 12.34, resp.Samples[0][0])
	assert.True(t, svc.ExternalPredictorAvailable())
	assert.Equal(t, "fake", svc.PredictorName())
	assert.Equal(t, 1, metrics.forecasts["fake/ok"])
}

func TestService_InvalidDate(t *testing.T) {
	svc, metrics := newTestService(nil, nil)
	req := eightDayRamp()
	req.Dates[7] = "01/08/2024"

	_, err := svc.Forecast(context.Background(), req)

	requireInputCode(t, err, domain.CodeInvalidDate)
	assert.Contains(t, err.Error(), "01/08/2024")
	assert.Equal(t, 1, metrics.inputErrors[domain.CodeInvalidDate])
}

func TestService_LengthMismatchBeforeDateParsing(t *testing.T) {
	external := constantPredictor(1)
	svc, _ := newTestService(external, nil)
	req := eightDayRamp()
	req.Dates = []string{"not-a-date"}

	_, err := svc.Forecast(context.Background(), req)

	requireInputCode(t, err, domain.CodeLengthMismatch)
	assert.Zero(t, external.Calls())
}

func TestService_InsufficientHistoryComputesNothing(t *testing.T) {
	external := constantPredictor(1)
	svc, metrics := newTestService(external, nil)
	req := eightDayRamp()
	req.Dates = req.Dates[:6]
	req.TrafficGB = req.TrafficGB[:6]

	_, err := svc.Forecast(context.Background(), req)

	requireInputCode(t, err, domain.CodeInsufficientHistory)
	assert.Zero(t, external.Calls())
	assert.Empty(t, metrics.forecasts)
}

func TestService_SameSeedSameDates(t *testing.T) {
	a, _ := newTestService(nil, nil)
	b, _ := newTestService(nil, nil)

	ra, err := a.Forecast(context.Background(), eightDayRamp())
	require.NoError(t, err)
	rb, err := b.Forecast(context.Background(), eightDayRamp())
	require.NoError(t, err)

	assert.Equal(t, ra.ForecastDates, rb.ForecastDates)
	assert.Equal(t, ra.P50, rb.P50)
}

func TestService_PublishesCompletedEvent(t *testing.T) {
	bus := memory.NewInMemoryEventBus()
	svc, _ := newTestService(failingPredictor(), bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan domain.Event, 1)
	require.NoError(t, bus.Subscribe(ctx, domain.TopicForecastEvents, func(ctx context.Context, event domain.Event) error {
		received <- event
		return nil
	}))

	_, err := svc.Forecast(context.Background(), eightDayRamp())
	require.NoError(t, err)

	select {
	case event := <-received:
		assert.Equal(t, domain.EventTypeForecastCompleted, event.Type)
		assert.Equal(t, "site-a", event.SiteID)
		assert.NotEmpty(t, event.ID)
		assert.Equal(t, domain.PredictorStatistical, event.Data["predictor"])
		assert.Equal(t, true, event.Data["fallback"])
	case <-time.After(time.Second):
		t.Fatal("forecast event not published")
	}
}
