package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	apperrors "github.com/NomadCrew/lunch-break-planner/errors"
	"github.com/NomadCrew/lunch-break-planner/internal/events"
	"github.com/NomadCrew/lunch-break-planner/logger"
	"github.com/NomadCrew/lunch-break-planner/store"
	"github.com/NomadCrew/lunch-break-planner/types"
)

const eventSource = "trip-service"

// TripService applies trip operations to the store and announces the
// resulting changes. The store stays the single source of truth.
type TripService struct {
	store          store.TripStore
	eventPublisher types.EventPublisher
	metrics        *TripMetrics

	// sizeMu makes the store read and the gauge write one step, so the
	// last gauge update always reflects the newest store state.
	sizeMu sync.Mutex
}

// NewTripService creates a new trip service. A nil publisher disables events
// and nil metrics disables instrumentation.
func NewTripService(s store.TripStore, eventPublisher types.EventPublisher, metrics *TripMetrics) *TripService {
	if eventPublisher == nil {
		eventPublisher = events.NoopPublisher{}
	}
	svc := &TripService{
		store:          s,
		eventPublisher: eventPublisher,
		metrics:        metrics,
	}
	svc.refreshSize()
	return svc
}

// ListTrips returns every trip in creation order.
func (s *TripService) ListTrips(ctx context.Context) []types.Trip {
	trips := s.store.List()
	s.metrics.observe("list", OutcomeSuccess)
	return trips
}

// GetTrip returns a single trip.
func (s *TripService) GetTrip(ctx context.Context, id string) (types.Trip, error) {
	trip, err := s.store.Get(id)
	if err != nil {
		return types.Trip{}, s.translate("get", id, err)
	}
	s.metrics.observe("get", OutcomeSuccess)
	return trip, nil
}

// CreateTrip stores a new trip with no passengers.
func (s *TripService) CreateTrip(ctx context.Context, input types.TripInput) types.Trip {
	trip := s.store.Create(input)
	s.metrics.observe("create", OutcomeSuccess)
	s.refreshSize()

	s.publish(ctx, types.EventTypeTripCreated, trip.ID, types.TripCreatedEvent{
		Destination:    trip.Destination,
		DriverName:     trip.DriverName,
		AvailableSeats: trip.AvailableSeats,
		DepartureTime:  trip.DepartureTime,
	})

	logger.GetLogger().Infow("Trip created",
		"tripID", trip.ID,
		"destination", trip.Destination,
		"availableSeats", trip.AvailableSeats)
	return trip
}

// UpdatePassenger dispatches a join or leave request.
func (s *TripService) UpdatePassenger(ctx context.Context, tripID, passengerName string, action types.TripAction) (types.Trip, error) {
	switch action {
	case types.TripActionJoin:
		return s.JoinTrip(ctx, tripID, passengerName)
	case types.TripActionLeave:
		return s.LeaveTrip(ctx, tripID, passengerName)
	default:
		s.metrics.observe("update", OutcomeInvalid)
		return types.Trip{}, apperrors.ValidationFailed("invalid action", fmt.Sprintf("action must be %q or %q", types.TripActionJoin, types.TripActionLeave))
	}
}

// JoinTrip adds passengerName to the trip. Joining twice is a no-op.
func (s *TripService) JoinTrip(ctx context.Context, tripID, passengerName string) (types.Trip, error) {
	trip, err := s.store.Join(tripID, passengerName)
	if err != nil {
		return types.Trip{}, s.translate("join", tripID, err)
	}
	s.metrics.observe("join", OutcomeSuccess)
	s.refreshSize()

	s.publish(ctx, types.EventTypePassengerJoined, trip.ID, passengerChanged(trip, passengerName))
	return trip, nil
}

// LeaveTrip removes passengerName from the trip. Leaving a trip one is not
// on is a no-op.
func (s *TripService) LeaveTrip(ctx context.Context, tripID, passengerName string) (types.Trip, error) {
	trip, err := s.store.Leave(tripID, passengerName)
	if err != nil {
		return types.Trip{}, s.translate("leave", tripID, err)
	}
	s.metrics.observe("leave", OutcomeSuccess)
	s.refreshSize()

	s.publish(ctx, types.EventTypePassengerLeft, trip.ID, passengerChanged(trip, passengerName))
	return trip, nil
}

// DeleteTrip removes the trip if present. Deleting an unknown id succeeds;
// the returned flag reports whether anything was removed.
func (s *TripService) DeleteTrip(ctx context.Context, tripID string) bool {
	var destination string
	if trip, err := s.store.Get(tripID); err == nil {
		destination = trip.Destination
	}

	removed := s.store.Delete(tripID)
	if !removed {
		s.metrics.observe("delete", OutcomeNotFound)
		return false
	}
	s.metrics.observe("delete", OutcomeSuccess)
	s.refreshSize()

	s.publish(ctx, types.EventTypeTripDeleted, tripID, types.TripDeletedEvent{Destination: destination})
	logger.GetLogger().Infow("Trip deleted", "tripID", tripID)
	return true
}

// ImportTrips seeds the store and announces each imported trip with one
// batch holding its TRIP_CREATED event and a PASSENGER_JOINED event per
// passenger. Trips created before a seed error are still announced.
func (s *TripService) ImportTrips(ctx context.Context, seed []store.SeedTrip) ([]types.Trip, error) {
	trips, seedErr := store.Seed(s.store, seed)
	s.refreshSize()

	for _, trip := range trips {
		s.metrics.observe("import", OutcomeSuccess)
		batch, err := importEvents(trip)
		if err != nil {
			logger.GetLogger().Warnw("Failed to build import events", "error", err, "tripID", trip.ID)
			continue
		}
		if err := s.eventPublisher.PublishBatch(ctx, trip.ID, batch); err != nil {
			logger.GetLogger().Warnw("Failed to publish imported trip", "error", err, "tripID", trip.ID)
		}
	}

	if seedErr != nil {
		s.metrics.observe("import", OutcomeInvalid)
		return trips, apperrors.Wrap(seedErr, apperrors.ValidationError, "failed to import trips")
	}
	return trips, nil
}

func importEvents(trip types.Trip) ([]types.Event, error) {
	created, err := events.NewEvent(types.EventTypeTripCreated, trip.ID, types.TripCreatedEvent{
		Destination:    trip.Destination,
		DriverName:     trip.DriverName,
		AvailableSeats: trip.AvailableSeats,
		DepartureTime:  trip.DepartureTime,
	}, eventSource)
	if err != nil {
		return nil, err
	}

	batch := []types.Event{created}
	for i, name := range trip.Passengers {
		partial := trip.Clone()
		partial.Passengers = partial.Passengers[:i+1]
		joined, err := events.NewEvent(types.EventTypePassengerJoined, trip.ID, passengerChanged(partial, name), eventSource)
		if err != nil {
			return nil, err
		}
		batch = append(batch, joined)
	}
	return batch, nil
}

func passengerChanged(trip types.Trip, passengerName string) types.PassengerChangedEvent {
	return types.PassengerChangedEvent{
		PassengerName: passengerName,
		Passengers:    len(trip.Passengers),
		SeatsLeft:     trip.SeatsLeft(),
		State:         trip.State(),
	}
}

// translate maps store sentinels onto application errors.
func (s *TripService) translate(operation, tripID string, err error) error {
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		s.metrics.observe(operation, OutcomeNotFound)
		return apperrors.TripNotFound(tripID)
	case stderrors.Is(err, store.ErrSeatsExhausted):
		s.metrics.observe(operation, OutcomeNoSeats)
		return apperrors.NoSeatsAvailable(tripID)
	default:
		return apperrors.Wrap(err, apperrors.ServerError, fmt.Sprintf("failed to %s trip", operation))
	}
}

func (s *TripService) refreshSize() {
	if s.metrics == nil {
		return
	}
	s.sizeMu.Lock()
	defer s.sizeMu.Unlock()
	s.metrics.setSize(s.store.List())
}

// publish logs and swallows publisher failures; events never affect the
// outcome of a trip operation.
func (s *TripService) publish(ctx context.Context, eventType types.EventType, tripID string, payload interface{}) {
	if err := events.PublishEventWithContext(s.eventPublisher, ctx, eventType, tripID, payload, eventSource); err != nil {
		logger.GetLogger().Warnw("Failed to publish trip event", "error", err, "tripID", tripID, "type", eventType)
	}
}
