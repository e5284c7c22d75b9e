package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/NomadCrew/lunch-break-planner/store"
	"github.com/NomadCrew/lunch-break-planner/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func berlinTrip(seats int) types.TripInput {
	return types.TripInput{
		Destination:    "Berlin",
		DriverName:     "John",
		AvailableSeats: seats,
		DepartureTime:  "14:00",
	}
}

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("trip-%d", n)
	})
}

func TestTripStore_CreateThenList(t *testing.T) {
	s := NewTripStore()

	created := s.Create(berlinTrip(2))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Berlin", created.Destination)
	assert.Equal(t, "John", created.DriverName)
	assert.Equal(t, 2, created.AvailableSeats)
	assert.Equal(t, "14:00", created.DepartureTime)
	assert.NotNil(t, created.Passengers)
	assert.Empty(t, created.Passengers)

	trips := s.List()
	require.Len(t, trips, 1)
	assert.Equal(t, created, trips[0])
}

func TestTripStore_ListKeepsCreationOrder(t *testing.T) {
	s := NewTripStore(sequentialIDs())
	for _, dest := range []string{"Berlin", "Paris", "Rome"} {
		s.Create(types.TripInput{Destination: dest, AvailableSeats: 1})
	}

	trips := s.List()
	require.Len(t, trips, 3)
	assert.Equal(t, "Berlin", trips[0].Destination)
	assert.Equal(t, "Paris", trips[1].Destination)
	assert.Equal(t, "Rome", trips[2].Destination)
	assert.Equal(t, 3, s.Count())
}

func TestTripStore_CreateIsPermissive(t *testing.T) {
	s := NewTripStore()

	trip := s.Create(types.TripInput{AvailableSeats: -3})
	assert.Equal(t, -3, trip.AvailableSeats)

	_, err := s.Join(trip.ID, "Alice")
	assert.ErrorIs(t, err, store.ErrSeatsExhausted)
}

func TestTripStore_IDsAreUnique(t *testing.T) {
	calls := 0
	ids := []string{"dup", "dup", "fresh"}
	s := NewTripStore(WithIDGenerator(func() string {
		id := ids[calls]
		calls++
		return id
	}))

	first := s.Create(berlinTrip(1))
	second := s.Create(berlinTrip(1))

	assert.Equal(t, "dup", first.ID)
	assert.Equal(t, "fresh", second.ID)
}

func TestTripStore_BerlinScenario(t *testing.T) {
	s := NewTripStore()
	trip := s.Create(berlinTrip(2))

	got, err := s.Join(trip.ID, "Alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, got.Passengers)

	got, err = s.Join(trip.ID, "Bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, got.Passengers)
	assert.Equal(t, types.TripStateFull, got.State())

	_, err = s.Join(trip.ID, "Carl")
	assert.ErrorIs(t, err, store.ErrSeatsExhausted)
	current, err := s.Get(trip.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, current.Passengers)

	got, err = s.Leave(trip.ID, "Alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob"}, got.Passengers)
	assert.Equal(t, types.TripStateOpen, got.State())

	got, err = s.Join(trip.ID, "Carl")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob", "Carl"}, got.Passengers)
}

func TestTripStore_JoinIsIdempotent(t *testing.T) {
	s := NewTripStore()
	trip := s.Create(berlinTrip(3))

	once, err := s.Join(trip.ID, "Alice")
	require.NoError(t, err)
	twice, err := s.Join(trip.ID, "Alice")
	require.NoError(t, err)

	assert.Equal(t, once.Passengers, twice.Passengers)
	assert.Equal(t, []string{"Alice"}, twice.Passengers)
}

func TestTripStore_JoinFullTripRejectsExistingPassenger(t *testing.T) {
	s := NewTripStore()
	trip := s.Create(berlinTrip(1))

	_, err := s.Join(trip.ID, "Alice")
	require.NoError(t, err)

	_, err = s.Join(trip.ID, "Alice")
	assert.ErrorIs(t, err, store.ErrSeatsExhausted)
}

func TestTripStore_LeaveIsNoOpWhenAbsent(t *testing.T) {
	s := NewTripStore()
	trip := s.Create(berlinTrip(2))
	_, err := s.Join(trip.ID, "Alice")
	require.NoError(t, err)

	got, err := s.Leave(trip.ID, "Zoe")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, got.Passengers)
}

func TestTripStore_UnknownTrip(t *testing.T) {
	s := NewTripStore()

	_, err := s.Join("missing", "Dana")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Leave("missing", "Dana")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.False(t, s.Delete("missing"))
}

func TestTripStore_DeleteIsIdempotent(t *testing.T) {
	s := NewTripStore(sequentialIDs())
	doomed := s.Create(berlinTrip(2))
	kept := s.Create(types.TripInput{Destination: "Paris", AvailableSeats: 3})

	assert.True(t, s.Delete(doomed.ID))
	assert.False(t, s.Delete(doomed.ID))
	assert.False(t, s.Delete("never-existed"))

	trips := s.List()
	require.Len(t, trips, 1)
	assert.Equal(t, kept, trips[0])

	_, err := s.Join(doomed.ID, "Alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Leave(doomed.ID, "Alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTripStore_ReturnsCopies(t *testing.T) {
	s := NewTripStore()
	trip := s.Create(berlinTrip(2))
	joined, err := s.Join(trip.ID, "Alice")
	require.NoError(t, err)

	joined.Passengers[0] = "Mallory"
	listed := s.List()
	listed[0].Passengers = append(listed[0].Passengers, "Eve")

	current, err := s.Get(trip.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, current.Passengers)
}

func TestTripStore_ConcurrentJoinsNeverOverfill(t *testing.T) {
	s := NewTripStore()
	trip := s.Create(berlinTrip(5))

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.Join(trip.ID, fmt.Sprintf("p%d", i)); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	current, err := s.Get(trip.ID)
	require.NoError(t, err)
	assert.Len(t, current.Passengers, 5)
	assert.Equal(t, 5, accepted)
}
