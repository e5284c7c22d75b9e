package store

import (
	"fmt"
	"io"
	"os"

	"github.com/NomadCrew/lunch-break-planner/types"
	"gopkg.in/yaml.v3"
)

// SeedTrip is one entry of a seed file.
type SeedTrip struct {
	Destination    string   `yaml:"destination"`
	DriverName     string   `yaml:"driverName"`
	AvailableSeats int      `yaml:"availableSeats"`
	DepartureTime  string   `yaml:"departureTime"`
	Passengers     []string `yaml:"passengers"`
}

type seedFile struct {
	Trips []SeedTrip `yaml:"trips"`
}

// ParseSeed decodes a YAML document of the form:
//
//	trips:
//	  - destination: Berlin
//	    driverName: John
//	    availableSeats: 2
//	    departureTime: "14:00"
//	    passengers: [Alice]
func ParseSeed(r io.Reader) ([]SeedTrip, error) {
	var doc seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return doc.Trips, nil
}

// Seed creates every trip and joins its passengers through the regular store
// operations, so the usual capacity rules apply.
func Seed(s TripStore, trips []SeedTrip) ([]types.Trip, error) {
	created := make([]types.Trip, 0, len(trips))
	for _, st := range trips {
		trip := s.Create(types.TripInput{
			Destination:    st.Destination,
			DriverName:     st.DriverName,
			AvailableSeats: st.AvailableSeats,
			DepartureTime:  st.DepartureTime,
		})
		for _, name := range st.Passengers {
			var err error
			trip, err = s.Join(trip.ID, name)
			if err != nil {
				return created, fmt.Errorf("seed trip to %s: passenger %q: %w", st.Destination, name, err)
			}
		}
		created = append(created, trip)
	}
	return created, nil
}

// ReadSeedFile reads and decodes the seed file at path.
func ReadSeedFile(path string) ([]SeedTrip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	return ParseSeed(f)
}
