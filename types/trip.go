package types

// TripState is derived from a trip's seat occupancy; it is never stored.
type TripState string

const (
	TripStateOpen TripState = "OPEN" // At least one seat left
	TripStateFull TripState = "FULL" // Every seat taken
)

// TripAction selects the passenger mutation applied by an update request.
type TripAction string

const (
	TripActionJoin  TripAction = "join"
	TripActionLeave TripAction = "leave"
)

// IsValid checks if the action is one of the supported passenger actions
func (a TripAction) IsValid() bool {
	switch a {
	case TripActionJoin, TripActionLeave:
		return true
	default:
		return false
	}
}

func (a TripAction) String() string {
	return string(a)
}

// Trip is a ride offered by a driver to a destination. Passengers are kept in
// join order and identified by exact name.
type Trip struct {
	ID             string   `json:"id"`
	Destination    string   `json:"destination"`
	DriverName     string   `json:"driverName"`
	AvailableSeats int      `json:"availableSeats"`
	DepartureTime  string   `json:"departureTime"`
	Passengers     []string `json:"passengers"`
}

// TripInput carries the caller-supplied fields of a new trip.
type TripInput struct {
	Destination    string
	DriverName     string
	AvailableSeats int
	DepartureTime  string
}

// State reports whether the trip still has free seats.
func (t Trip) State() TripState {
	if len(t.Passengers) >= t.AvailableSeats {
		return TripStateFull
	}
	return TripStateOpen
}

// SeatsLeft returns the number of free seats, never below zero.
func (t Trip) SeatsLeft() int {
	left := t.AvailableSeats - len(t.Passengers)
	if left < 0 {
		return 0
	}
	return left
}

// HasPassenger reports whether name is already on the passenger list.
func (t Trip) HasPassenger(name string) bool {
	for _, p := range t.Passengers {
		if p == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot alias the passenger slice.
func (t Trip) Clone() Trip {
	passengers := make([]string, len(t.Passengers))
	copy(passengers, t.Passengers)
	t.Passengers = passengers
	return t
}
