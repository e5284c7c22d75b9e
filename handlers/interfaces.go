package handlers

import (
	"context"

	"github.com/NomadCrew/lunch-break-planner/types"
)

// TripServiceInterface defines the trip service methods needed by handlers
type TripServiceInterface interface {
	ListTrips(ctx context.Context) []types.Trip
	GetTrip(ctx context.Context, id string) (types.Trip, error)
	CreateTrip(ctx context.Context, input types.TripInput) types.Trip
	UpdatePassenger(ctx context.Context, tripID, passengerName string, action types.TripAction) (types.Trip, error)
	DeleteTrip(ctx context.Context, tripID string) bool
}

// HealthServiceInterface is the health check used by HealthHandler.
type HealthServiceInterface interface {
	CheckHealth(ctx context.Context) types.HealthCheck
}
