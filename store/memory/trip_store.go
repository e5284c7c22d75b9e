// Package memory provides the process-local TripStore.
package memory

import (
	"fmt"
	"sync"

	"github.com/NomadCrew/lunch-break-planner/store"
	"github.com/NomadCrew/lunch-break-planner/types"
	"github.com/google/uuid"
)

// TripStore keeps trips in a slice guarded by a single lock. Every operation
// is a linear scan; the collection is expected to stay small.
type TripStore struct {
	mu    sync.RWMutex
	trips []types.Trip
	newID func() string
}

var _ store.TripStore = (*TripStore)(nil)

// Option configures a TripStore.
type Option func(*TripStore)

// WithIDGenerator replaces the UUID generator, mainly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(s *TripStore) {
		s.newID = fn
	}
}

// NewTripStore returns an empty store.
func NewTripStore(opts ...Option) *TripStore {
	s := &TripStore{
		trips: make([]types.Trip, 0),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TripStore) List() []types.Trip {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Trip, len(s.trips))
	for i, t := range s.trips {
		out[i] = t.Clone()
	}
	return out
}

func (s *TripStore) Get(id string) (types.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return types.Trip{}, fmt.Errorf("get trip %s: %w", id, store.ErrNotFound)
	}
	return s.trips[idx].Clone(), nil
}

func (s *TripStore) Create(input types.TripInput) types.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for s.indexOf(id) >= 0 {
		id = s.newID()
	}

	trip := types.Trip{
		ID:             id,
		Destination:    input.Destination,
		DriverName:     input.DriverName,
		AvailableSeats: input.AvailableSeats,
		DepartureTime:  input.DepartureTime,
		Passengers:     []string{},
	}
	s.trips = append(s.trips, trip)
	return trip.Clone()
}

func (s *TripStore) Join(id, passengerName string) (types.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return types.Trip{}, fmt.Errorf("join trip %s: %w", id, store.ErrNotFound)
	}

	trip := &s.trips[idx]
	if len(trip.Passengers) >= trip.AvailableSeats {
		return types.Trip{}, fmt.Errorf("join trip %s: %w", id, store.ErrSeatsExhausted)
	}
	if !trip.HasPassenger(passengerName) {
		trip.Passengers = append(trip.Passengers, passengerName)
	}
	return trip.Clone(), nil
}

func (s *TripStore) Leave(id, passengerName string) (types.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return types.Trip{}, fmt.Errorf("leave trip %s: %w", id, store.ErrNotFound)
	}

	trip := &s.trips[idx]
	remaining := make([]string, 0, len(trip.Passengers))
	for _, p := range trip.Passengers {
		if p != passengerName {
			remaining = append(remaining, p)
		}
	}
	trip.Passengers = remaining
	return trip.Clone(), nil
}

func (s *TripStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.trips = append(s.trips[:idx], s.trips[idx+1:]...)
	return true
}

func (s *TripStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.trips)
}

// indexOf must be called with mu held.
func (s *TripStore) indexOf(id string) int {
	for i := range s.trips {
		if s.trips[i].ID == id {
			return i
		}
	}
	return -1
}
