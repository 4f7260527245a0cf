package mocks

import (
	"context"
	"sync"

	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/ports"
)

// MockAuditPublisher implements ports.AuditPublisher without a broker.
type MockAuditPublisher struct {
	mu sync.RWMutex

	PublishedEvents  []domain.AuditEvent
	PublishError     error
	PublishCallCount int
}

var _ ports.AuditPublisher = (*MockAuditPublisher)(nil)

func NewMockAuditPublisher() *MockAuditPublisher {
	return &MockAuditPublisher{
		PublishedEvents: make([]domain.AuditEvent, 0),
	}
}

func (m *MockAuditPublisher) PublishAuditEvent(ctx context.Context, evt domain.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

func (m *MockAuditPublisher) GetPublishedEvents() []domain.AuditEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]domain.AuditEvent, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}

// MockAuditRecorder implements ports.AuditRecorder in memory.
type MockAuditRecorder struct {
	mu sync.Mutex

	Events      []domain.AuditEvent
	RecordError error
}

var _ ports.AuditRecorder = (*MockAuditRecorder)(nil)

func (m *MockAuditRecorder) Record(ctx context.Context, evt domain.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RecordError != nil {
		return m.RecordError
	}
	m.Events = append(m.Events, evt)
	return nil
}

func (m *MockAuditRecorder) Recorded() []domain.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.AuditEvent(nil), m.Events...)
}
