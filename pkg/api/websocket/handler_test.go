package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/nocagentic/forecaster/pkg/adapters/events/memory"
	"github.com/nocagentic/forecaster/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleForecastStream_FiltersBySite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	bus := memory.NewInMemoryEventBus()

	router := gin.New()
	router.GET("/forecast/stream/:site_id", NewHandler(bus, zap.NewNop()).HandleForecastStream)
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/forecast/stream/site-a"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return bus.SubscriberCount(domain.TopicForecastEvents) == 1
	}, time.Second, 10*time.Millisecond)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, domain.TopicForecastEvents, domain.Event{ID: "other", SiteID: "site-b"}))
	require.NoError(t, bus.Publish(ctx, domain.TopicForecastEvents, domain.Event{ID: "mine", SiteID: "site-a", Type: domain.EventTypeForecastCompleted}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event domain.Event
	require.NoError(t, conn.ReadJSON(&event))

	assert.Equal(t, "mine", event.ID)
	assert.Equal(t, domain.EventTypeForecastCompleted, event.Type)
}

func TestHandleForecastStream_UnsubscribesOnClose(t *testing.T) {
	gin.SetMode(gin.TestMode)
	bus := memory.NewInMemoryEventBus()

	router := gin.New()
	router.GET("/forecast/stream/:site_id", NewHandler(bus, zap.NewNop()).HandleForecastStream)
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/forecast/stream/site-a"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return bus.SubscriberCount(domain.TopicForecastEvents) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool {
		return bus.SubscriberCount(domain.TopicForecastEvents) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
