package domain

import "time"

// EventType identifies a forecast event
type EventType string

const (
	EventTypeForecastCompleted EventType = "forecast.completed"
)

// TopicForecastEvents is the event bus topic forecast events are published on.
const TopicForecastEvents = "forecast.events"

// Event is published after a forecast has been produced.
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	SiteID    string                 `json:"site_id"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}
