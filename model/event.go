package model

import (
	"encoding/json"
	"time"
)

// EventType 事件类型
type EventType string

const (
	EventTick           EventType = "tick"            // heartbeat from the background ticker
	EventCatalogChanged EventType = "catalog_changed" // the catalog file was written
	EventRelay          EventType = "relay"           // message received from the Redis channel
)

// Event is the payload pushed to every live connection.
type Event struct {
	Type      EventType       `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// NewEvent stamps an event with the current time. data is marshalled to JSON;
// a marshal failure leaves Data empty.
func NewEvent(t EventType, data interface{}) Event {
	ev := Event{Type: t, Timestamp: time.Now().UnixMilli()}
	if data != nil {
		if raw, err := json.Marshal(data); err == nil {
			ev.Data = raw
		}
	}
	return ev
}

// DebugMarker is sent once right after a live connection is upgraded when debug mode is on.
type DebugMarker struct {
	DebugMode bool `json:"debug_mode"`
}
