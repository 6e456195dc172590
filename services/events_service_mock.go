package services

import (
	"context"
	"sync"
)

// MockEventsService is a mock implementation of EventsInterface for testing
type MockEventsService struct {
	mu     sync.Mutex
	events []OrderEvent

	// PublishError can be set to simulate publish failures
	PublishError error
}

// NewMockEventsService creates a new mock events service
func NewMockEventsService() *MockEventsService {
	return &MockEventsService{}
}

// PublishOrderEvent records the event instead of publishing it
func (m *MockEventsService) PublishOrderEvent(event OrderEvent) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// SubscribeOrderEvents replays already recorded events and then blocks
// until the context is cancelled
func (m *MockEventsService) SubscribeOrderEvents(ctx context.Context) (<-chan OrderEvent, func(), error) {
	out := make(chan OrderEvent)
	go func() {
		defer close(out)
		for _, event := range m.Events() {
			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
		<-ctx.Done()
	}()
	return out, func() {}, nil
}

// Events returns a copy of all recorded events
func (m *MockEventsService) Events() []OrderEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([]OrderEvent, len(m.events))
	copy(copied, m.events)
	return copied
}

// Reset clears all recorded events
func (m *MockEventsService) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
