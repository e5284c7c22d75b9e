// Package store declares the trip storage contract and the helpers that
// operate on any implementation of it.
package store

import "github.com/NomadCrew/lunch-break-planner/types"

// TripStore owns the authoritative set of trips. Implementations must
// serialize mutations and hand out copies, never their internal slices.
type TripStore interface {
	// List returns every trip in creation order.
	List() []types.Trip
	// Get returns a single trip or ErrNotFound.
	Get(id string) (types.Trip, error)
	// Create appends a trip with a fresh id and no passengers.
	Create(input types.TripInput) types.Trip
	// Join adds passengerName unless already present. ErrSeatsExhausted is
	// returned when the trip is full, even for a passenger already aboard.
	Join(id, passengerName string) (types.Trip, error)
	// Leave removes every occurrence of passengerName.
	Leave(id, passengerName string) (types.Trip, error)
	// Delete removes the trip and reports whether it existed.
	Delete(id string) bool
	// Count returns the number of trips held.
	Count() int
}
