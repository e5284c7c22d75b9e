package types

import (
	"context"
	"encoding/json"
	"time"

	"github.com/NomadCrew/lunch-break-planner/errors"
)

type EventType string

const (
	CategoryTrip      = "TRIP"
	CategoryPassenger = "PASSENGER"
)

const (
	// Trip events
	EventTypeTripCreated EventType = CategoryTrip + "_CREATED"
	EventTypeTripDeleted EventType = CategoryTrip + "_DELETED"

	// Passenger events
	EventTypePassengerJoined EventType = CategoryPassenger + "_JOINED"
	EventTypePassengerLeft   EventType = CategoryPassenger + "_LEFT"
)

// Base event interface
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TripID    string    `json:"tripId"`
	Timestamp time.Time `json:"timestamp"`
	Version   int       `json:"version"`
}

// EventMetadata for tracking and debugging
type EventMetadata struct {
	CorrelationID string `json:"correlationId,omitempty"`
	Source        string `json:"source"`
}

type Event struct {
	BaseEvent
	Metadata EventMetadata   `json:"metadata"`
	Payload  json.RawMessage `json:"payload"`
}

// Validate checks the fields every published event must carry.
func (e Event) Validate() error {
	if e.ID == "" {
		return errors.ValidationFailed("invalid event", "event ID is required")
	}
	if e.Type == "" {
		return errors.ValidationFailed("invalid event", "event type is required")
	}
	if e.TripID == "" {
		return errors.ValidationFailed("invalid event", "trip ID is required")
	}
	if e.Timestamp.IsZero() {
		return errors.ValidationFailed("invalid event", "timestamp is required")
	}
	return nil
}

// EventPublisher fans trip notifications out to interested listeners.
// Publishing never carries authoritative trip state.
type EventPublisher interface {
	Publish(ctx context.Context, tripID string, event Event) error
	PublishBatch(ctx context.Context, tripID string, events []Event) error
}

type TripCreatedEvent struct {
	Destination    string `json:"destination"`
	DriverName     string `json:"driverName"`
	AvailableSeats int    `json:"availableSeats"`
	DepartureTime  string `json:"departureTime"`
}

type PassengerChangedEvent struct {
	PassengerName string    `json:"passengerName"`
	Passengers    int       `json:"passengers"`
	SeatsLeft     int       `json:"seatsLeft"`
	State         TripState `json:"state"`
}

type TripDeletedEvent struct {
	Destination string `json:"destination"`
}
