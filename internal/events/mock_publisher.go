package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/NomadCrew/lunch-break-planner/types"
)

// NoopPublisher discards events. It is used when Redis is disabled.
type NoopPublisher struct{}

var _ types.EventPublisher = NoopPublisher{}

func (NoopPublisher) Publish(context.Context, string, types.Event) error { return nil }

func (NoopPublisher) PublishBatch(context.Context, string, []types.Event) error { return nil }

// MockPublisher implements types.EventPublisher for testing; it records
// every event per trip and can be told to fail.
type MockPublisher struct {
	mu      sync.RWMutex
	events  map[string][]types.Event
	order   []types.Event
	batches int
	err     error
}

var _ types.EventPublisher = (*MockPublisher)(nil)

// NewMockPublisher creates a new mock publisher for testing
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		events: make(map[string][]types.Event),
	}
}

// FailWith makes subsequent Publish calls return err.
func (m *MockPublisher) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockPublisher) Publish(ctx context.Context, tripID string, event types.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return fmt.Errorf("mock publish: %w", m.err)
	}
	m.events[tripID] = append(m.events[tripID], event)
	m.order = append(m.order, event)
	return nil
}

func (m *MockPublisher) PublishBatch(ctx context.Context, tripID string, events []types.Event) error {
	m.mu.Lock()
	m.batches++
	m.mu.Unlock()

	for _, event := range events {
		if err := m.Publish(ctx, tripID, event); err != nil {
			return err
		}
	}
	return nil
}

// EventsFor returns the events recorded for tripID.
func (m *MockPublisher) EventsFor(tripID string) []types.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Event, len(m.events[tripID]))
	copy(out, m.events[tripID])
	return out
}

// Types returns the recorded event types in publish order.
func (m *MockPublisher) Types() []types.EventType {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.EventType, len(m.order))
	for i, e := range m.order {
		out[i] = e.Type
	}
	return out
}

// Batches returns how many PublishBatch calls were made.
func (m *MockPublisher) Batches() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.batches
}
