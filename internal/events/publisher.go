package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NomadCrew/lunch-break-planner/types"
	"github.com/google/uuid"
)

// PublishEventWithContext is a helper function to publish events with consistent structure
// It constructs a standard types.Event and publishes it using the provided publisher.
func PublishEventWithContext(publisher types.EventPublisher, ctx context.Context, eventType types.EventType, tripID string, data interface{}, source string) error {
	event, err := NewEvent(eventType, tripID, data, source)
	if err != nil {
		return err
	}

	if err := publisher.Publish(ctx, tripID, event); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}
	return nil
}

// NewEvent builds an event with a fresh id and the payload encoded as JSON.
func NewEvent(eventType types.EventType, tripID string, data interface{}, source string) (types.Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return types.Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	return types.Event{
		BaseEvent: types.BaseEvent{
			ID:        uuid.NewString(),
			Type:      eventType,
			TripID:    tripID,
			Timestamp: time.Now().UTC(),
			Version:   1,
		},
		Metadata: types.EventMetadata{
			Source: source,
		},
		Payload: payload,
	}, nil
}
