package mocks

import (
	"github.com/NomadCrew/lunch-break-planner/types"
	"github.com/stretchr/testify/mock"
)

type MockTripStore struct {
	mock.Mock
}

func (m *MockTripStore) List() []types.Trip {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]types.Trip)
}

func (m *MockTripStore) Get(id string) (types.Trip, error) {
	args := m.Called(id)
	return args.Get(0).(types.Trip), args.Error(1)
}

func (m *MockTripStore) Create(input types.TripInput) types.Trip {
	args := m.Called(input)
	return args.Get(0).(types.Trip)
}

func (m *MockTripStore) Join(id, passengerName string) (types.Trip, error) {
	args := m.Called(id, passengerName)
	return args.Get(0).(types.Trip), args.Error(1)
}

func (m *MockTripStore) Leave(id, passengerName string) (types.Trip, error) {
	args := m.Called(id, passengerName)
	return args.Get(0).(types.Trip), args.Error(1)
}

func (m *MockTripStore) Delete(id string) bool {
	args := m.Called(id)
	return args.Bool(0)
}

func (m *MockTripStore) Count() int {
	args := m.Called()
	return args.Int(0)
}
