package ws

import (
	"time"
)

type EventType string

const (
	EventAlertCreated     EventType = "alert.created"
	EventAlertUpdated     EventType = "alert.updated"
	EventMetricsCollected EventType = "metrics.collected"
)

type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}
