package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	apperrors "github.com/NomadCrew/lunch-break-planner/errors"
	"github.com/NomadCrew/lunch-break-planner/internal/events"
	"github.com/NomadCrew/lunch-break-planner/logger"
	tripservice "github.com/NomadCrew/lunch-break-planner/models/trip/service"
	"github.com/NomadCrew/lunch-break-planner/store"
	"github.com/NomadCrew/lunch-break-planner/store/memory"
	"github.com/NomadCrew/lunch-break-planner/tests/mocks"
	"github.com/NomadCrew/lunch-break-planner/types"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func init() {
	logger.IsTest = true
}

type TripServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memory.TripStore
	publisher *events.MockPublisher
	registry  *prometheus.Registry
	service   *tripservice.TripService
}

func (s *TripServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewTripStore()
	s.publisher = events.NewMockPublisher()
	s.registry = prometheus.NewRegistry()
	s.service = tripservice.NewTripService(s.store, s.publisher, tripservice.NewMetrics(s.registry))
}

func TestTripServiceSuite(t *testing.T) {
	suite.Run(t, new(TripServiceTestSuite))
}

func (s *TripServiceTestSuite) berlin() types.Trip {
	return s.service.CreateTrip(s.ctx, types.TripInput{
		Destination:    "Berlin",
		DriverName:     "John",
		AvailableSeats: 2,
		DepartureTime:  "14:00",
	})
}

func (s *TripServiceTestSuite) TestCreateTrip() {
	trip := s.berlin()

	s.NotEmpty(trip.ID)
	s.Empty(trip.Passengers)
	s.Equal([]types.EventType{types.EventTypeTripCreated}, s.publisher.Types())

	var payload types.TripCreatedEvent
	s.Require().NoError(json.Unmarshal(s.publisher.EventsFor(trip.ID)[0].Payload, &payload))
	s.Equal("Berlin", payload.Destination)
	s.Equal(2, payload.AvailableSeats)

	s.Equal(float64(1), s.gauge("lunchplanner_trips"))
}

func (s *TripServiceTestSuite) TestBerlinScenario() {
	trip := s.berlin()

	after, err := s.service.UpdatePassenger(s.ctx, trip.ID, "Alice", types.TripActionJoin)
	s.Require().NoError(err)
	s.Equal([]string{"Alice"}, after.Passengers)

	after, err = s.service.UpdatePassenger(s.ctx, trip.ID, "Bob", types.TripActionJoin)
	s.Require().NoError(err)
	s.Equal(types.TripStateFull, after.State())

	_, err = s.service.UpdatePassenger(s.ctx, trip.ID, "Carol", types.TripActionJoin)
	appErr, ok := apperrors.As(err)
	s.Require().True(ok)
	s.Equal(apperrors.NoSeatsError, appErr.Type)
	s.Equal("No seats available", appErr.Message)

	after, err = s.service.UpdatePassenger(s.ctx, trip.ID, "Alice", types.TripActionLeave)
	s.Require().NoError(err)
	s.Equal([]string{"Bob"}, after.Passengers)

	after, err = s.service.UpdatePassenger(s.ctx, trip.ID, "Carol", types.TripActionJoin)
	s.Require().NoError(err)
	s.Equal([]string{"Bob", "Carol"}, after.Passengers)

	s.Equal(float64(2), s.gauge("lunchplanner_passengers"))
	s.Equal(float64(1), s.counter("join", tripservice.OutcomeNoSeats))
	s.Equal(float64(3), s.counter("join", tripservice.OutcomeSuccess))
}

func (s *TripServiceTestSuite) TestJoinEventPayload() {
	trip := s.berlin()
	_, err := s.service.JoinTrip(s.ctx, trip.ID, "Alice")
	s.Require().NoError(err)

	recorded := s.publisher.EventsFor(trip.ID)
	s.Require().Len(recorded, 2)
	s.Equal(types.EventTypePassengerJoined, recorded[1].Type)

	var payload types.PassengerChangedEvent
	s.Require().NoError(json.Unmarshal(recorded[1].Payload, &payload))
	s.Equal(types.PassengerChangedEvent{
		PassengerName: "Alice",
		Passengers:    1,
		SeatsLeft:     1,
		State:         types.TripStateOpen,
	}, payload)
}

func (s *TripServiceTestSuite) TestUnknownTrip() {
	for _, action := range []types.TripAction{types.TripActionJoin, types.TripActionLeave} {
		_, err := s.service.UpdatePassenger(s.ctx, "missing", "Alice", action)
		appErr, ok := apperrors.As(err)
		s.Require().True(ok, "action %s", action)
		s.Equal(apperrors.TripNotFoundError, appErr.Type)
		s.Equal("Trip not found", appErr.Message)
	}

	_, err := s.service.GetTrip(s.ctx, "missing")
	s.Error(err)
	s.Empty(s.publisher.Types())
}

func (s *TripServiceTestSuite) TestInvalidAction() {
	trip := s.berlin()

	_, err := s.service.UpdatePassenger(s.ctx, trip.ID, "Alice", types.TripAction("board"))
	appErr, ok := apperrors.As(err)
	s.Require().True(ok)
	s.Equal(apperrors.ValidationError, appErr.Type)

	got, err := s.service.GetTrip(s.ctx, trip.ID)
	s.Require().NoError(err)
	s.Empty(got.Passengers)
}

func (s *TripServiceTestSuite) TestDeleteTrip() {
	trip := s.berlin()

	s.True(s.service.DeleteTrip(s.ctx, trip.ID))
	s.False(s.service.DeleteTrip(s.ctx, trip.ID))
	s.Empty(s.service.ListTrips(s.ctx))

	s.Equal([]types.EventType{types.EventTypeTripCreated, types.EventTypeTripDeleted}, s.publisher.Types())

	var payload types.TripDeletedEvent
	s.Require().NoError(json.Unmarshal(s.publisher.EventsFor(trip.ID)[1].Payload, &payload))
	s.Equal("Berlin", payload.Destination)
	s.Equal(float64(0), s.gauge("lunchplanner_trips"))
}

func (s *TripServiceTestSuite) TestPublishFailureDoesNotFailOperation() {
	s.publisher.FailWith(errors.New("redis down"))

	trip := s.berlin()
	joined, err := s.service.JoinTrip(s.ctx, trip.ID, "Alice")
	s.Require().NoError(err)
	s.Equal([]string{"Alice"}, joined.Passengers)
}

func (s *TripServiceTestSuite) TestImportTripsPublishesOneBatchPerTrip() {
	trips, err := s.service.ImportTrips(s.ctx, []store.SeedTrip{
		{Destination: "Berlin", DriverName: "John", AvailableSeats: 2, DepartureTime: "14:00", Passengers: []string{"Alice", "Bob"}},
		{Destination: "Paris", DriverName: "Marie", AvailableSeats: 4, DepartureTime: "12:30"},
	})
	s.Require().NoError(err)
	s.Require().Len(trips, 2)
	s.Equal(2, s.publisher.Batches())

	berlin := s.publisher.EventsFor(trips[0].ID)
	s.Require().Len(berlin, 3)
	s.Equal(types.EventTypeTripCreated, berlin[0].Type)
	s.Equal(types.EventTypePassengerJoined, berlin[1].Type)
	s.Equal(types.EventTypePassengerJoined, berlin[2].Type)

	var first, last types.PassengerChangedEvent
	s.Require().NoError(json.Unmarshal(berlin[1].Payload, &first))
	s.Require().NoError(json.Unmarshal(berlin[2].Payload, &last))
	s.Equal(types.PassengerChangedEvent{PassengerName: "Alice", Passengers: 1, SeatsLeft: 1, State: types.TripStateOpen}, first)
	s.Equal(types.PassengerChangedEvent{PassengerName: "Bob", Passengers: 2, SeatsLeft: 0, State: types.TripStateFull}, last)

	s.Len(s.publisher.EventsFor(trips[1].ID), 1)
	s.Equal(float64(2), s.gauge("lunchplanner_trips"))
	s.Equal(float64(2), s.gauge("lunchplanner_passengers"))
}

func (s *TripServiceTestSuite) TestImportTripsOverbookedSeed() {
	trips, err := s.service.ImportTrips(s.ctx, []store.SeedTrip{
		{Destination: "Rome", DriverName: "Luca", AvailableSeats: 3, DepartureTime: "13:00"},
		{Destination: "Berlin", DriverName: "John", AvailableSeats: 1, DepartureTime: "14:00", Passengers: []string{"Alice", "Bob"}},
	})

	appErr, ok := apperrors.As(err)
	s.Require().True(ok)
	s.Equal(apperrors.ValidationError, appErr.Type)
	s.Require().Len(trips, 1)
	s.Equal(1, s.publisher.Batches())
	s.Len(s.publisher.EventsFor(trips[0].ID), 1)
}

func (s *TripServiceTestSuite) TestGaugesMatchStoreAfterConcurrentMutations() {
	trip := s.service.CreateTrip(s.ctx, types.TripInput{
		Destination:    "Lisbon",
		DriverName:     "Ana",
		AvailableSeats: 50,
		DepartureTime:  "12:00",
	})

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("passenger-%d", i)
			_, _ = s.service.JoinTrip(s.ctx, trip.ID, name)
			if i%2 == 0 {
				_, _ = s.service.LeaveTrip(s.ctx, trip.ID, name)
			}
		}(i)
	}
	wg.Wait()

	got, err := s.service.GetTrip(s.ctx, trip.ID)
	s.Require().NoError(err)
	s.Len(got.Passengers, 20)
	s.Equal(float64(len(got.Passengers)), s.gauge("lunchplanner_passengers"))
	s.Equal(float64(1), s.gauge("lunchplanner_trips"))
}

func (s *TripServiceTestSuite) gauge(name string) float64 {
	families, err := s.registry.Gather()
	s.Require().NoError(err)
	for _, f := range families {
		if f.GetName() == name {
			return f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	s.FailNow("metric not found", name)
	return 0
}

func (s *TripServiceTestSuite) counter(operation, outcome string) float64 {
	families, err := s.registry.Gather()
	s.Require().NoError(err)
	for _, f := range families {
		if f.GetName() != "lunchplanner_trip_operations_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			if labelsMatch(m, operation, outcome) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func labelsMatch(m *dto.Metric, operation, outcome string) bool {
	labels := map[string]string{}
	for _, l := range m.GetLabel() {
		labels[l.GetName()] = l.GetValue()
	}
	return labels["operation"] == operation && labels["outcome"] == outcome
}

func TestTripService_PublishesThroughPublisher(t *testing.T) {
	publisher := new(mocks.MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.AnythingOfType("string"), mock.MatchedBy(func(e types.Event) bool {
		return e.Type == types.EventTypeTripCreated && e.Metadata.Source == "trip-service"
	})).Return(nil).Once()

	svc := tripservice.NewTripService(memory.NewTripStore(), publisher, nil)
	trip := svc.CreateTrip(context.Background(), types.TripInput{Destination: "Paris", AvailableSeats: 1})

	assert.NotEmpty(t, trip.ID)
	publisher.AssertExpectations(t)
}

func TestTripService_StoreFailureIsServerError(t *testing.T) {
	tripStore := new(mocks.MockTripStore)
	tripStore.On("Join", "trip-1", "Alice").Return(types.Trip{}, errors.New("disk on fire"))

	svc := tripservice.NewTripService(tripStore, nil, nil)
	_, err := svc.JoinTrip(context.Background(), "trip-1", "Alice")

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ServerError, appErr.Type)
	tripStore.AssertExpectations(t)
}

func TestTripService_NilPublisherDefaultsToNoop(t *testing.T) {
	svc := tripservice.NewTripService(memory.NewTripStore(), nil, nil)
	trip := svc.CreateTrip(context.Background(), types.TripInput{Destination: "Rome", AvailableSeats: 3})

	joined, err := svc.JoinTrip(context.Background(), trip.ID, "Alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, joined.Passengers)
}
