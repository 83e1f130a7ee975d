package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents an event that occurred in the domain
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() string
	AggregateType() string
	RestaurantID() string
}

// BaseDomainEvent provides common fields for all domain events
type BaseDomainEvent struct {
	ID                uuid.UUID `json:"id"`
	Type              string    `json:"type"`
	Timestamp         time.Time `json:"timestamp"`
	AggID             string    `json:"aggregate_id"`
	AggType           string    `json:"aggregate_type"`
	RestaurantIDValue string    `json:"restaurant_id"`
}

// EventID returns the unique event identifier
func (e *BaseDomainEvent) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the type of the event
func (e *BaseDomainEvent) EventType() string {
	return e.Type
}

// OccurredAt returns when the event occurred
func (e *BaseDomainEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID returns the ID of the aggregate that produced this event
func (e *BaseDomainEvent) AggregateID() string {
	return e.AggID
}

// AggregateType returns the type of the aggregate
func (e *BaseDomainEvent) AggregateType() string {
	return e.AggType
}

// RestaurantID returns the restaurant the aggregate belongs to
func (e *BaseDomainEvent) RestaurantID() string {
	return e.RestaurantIDValue
}

// NewBaseDomainEvent creates a new base domain event
func NewBaseDomainEvent(eventType, aggType, aggID, restaurantID string) BaseDomainEvent {
	return BaseDomainEvent{
		ID:                uuid.New(),
		Type:              eventType,
		Timestamp:         time.Now(),
		AggID:             aggID,
		AggType:           aggType,
		RestaurantIDValue: restaurantID,
	}
}
