package service

import (
	"github.com/NomadCrew/lunch-break-planner/types"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for the operations counter.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeNoSeats  = "no_seats"
	OutcomeInvalid  = "invalid"
)

// TripMetrics tracks trip operations and the current size of the store.
type TripMetrics struct {
	operations *prometheus.CounterVec
	trips      prometheus.Gauge
	passengers prometheus.Gauge
}

// NewMetrics registers the trip metrics with reg.
func NewMetrics(reg prometheus.Registerer) *TripMetrics {
	m := &TripMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lunchplanner_trip_operations_total",
			Help: "Total number of trip operations by outcome",
		}, []string{"operation", "outcome"}),
		trips: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lunchplanner_trips",
			Help: "Number of trips currently held",
		}),
		passengers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lunchplanner_passengers",
			Help: "Number of passengers across all trips",
		}),
	}

	reg.MustRegister(m.operations)
	reg.MustRegister(m.trips)
	reg.MustRegister(m.passengers)
	return m
}

func (m *TripMetrics) observe(operation, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

func (m *TripMetrics) setSize(trips []types.Trip) {
	if m == nil {
		return
	}
	passengers := 0
	for _, t := range trips {
		passengers += len(t.Passengers)
	}
	m.trips.Set(float64(len(trips)))
	m.passengers.Set(float64(passengers))
}
