package types

// TripListResponse is the body of GET /api/trips.
type TripListResponse struct {
	Trips []Trip `json:"trips"`
}

// TripResponse wraps a single trip.
type TripResponse struct {
	Trip Trip `json:"trip"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Type    string `json:"type"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
