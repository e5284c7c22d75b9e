package store

import "errors"

// Error Handling Guidelines:
// - Stores: return the sentinels below, wrapped with fmt.Errorf("context: %w", err) when useful
// - Services: translate them into apperrors.* values
// - Handlers: push the result with c.Error and let middleware render it

var (
	// ErrNotFound indicates that no trip matches the requested id.
	ErrNotFound = errors.New("trip not found")

	// ErrSeatsExhausted indicates a join against a trip whose seats are all taken.
	ErrSeatsExhausted = errors.New("no seats available")
)
