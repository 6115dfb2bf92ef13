package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to the entity
type EventType string

const (
	EventTypeCreated        EventType = "created"
	EventTypeWatched        EventType = "watched"
	EventTypePrivacyChanged EventType = "privacy_changed"
	EventTypeDeleted        EventType = "deleted"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeMovie EntityType = "movie"
)

// Event represents a feed event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "movie.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "movie"
	Payload   interface{} `json:"payload"`   // Public entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// MovieCreated creates a movie.created event
func MovieCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeMovie, payload)
}

// MovieWatched creates a movie.watched event
func MovieWatched(payload interface{}) Event {
	return NewEvent(EventTypeWatched, EntityTypeMovie, payload)
}

// MoviePrivacyChanged creates a movie.privacy_changed event
func MoviePrivacyChanged(payload interface{}) Event {
	return NewEvent(EventTypePrivacyChanged, EntityTypeMovie, payload)
}

// MovieDeleted creates a movie.deleted event
func MovieDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeMovie, payload)
}
