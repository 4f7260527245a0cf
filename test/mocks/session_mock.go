package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/ports"
)

var ErrSessionNotFound = ports.ErrSessionNotFound

// MockSessionStore keeps sessions in a map keyed by a counter-based id.
type MockSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	next     int

	SaveError   error
	LoadError   error
	DeleteCalls []string
}

var _ ports.SessionStore = (*MockSessionStore)(nil)

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{sessions: make(map[string]domain.Session)}
}

func (m *MockSessionStore) Save(ctx context.Context, s domain.Session) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveError != nil {
		return "", m.SaveError
	}
	m.next++
	id := fmt.Sprintf("session-%d", m.next)
	m.sessions[id] = s
	return id, nil
}

func (m *MockSessionStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.LoadError != nil {
		return nil, m.LoadError
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, id)
	delete(m.sessions, id)
	return nil
}

// Seed stores a session under a fixed id for test setup.
func (m *MockSessionStore) Seed(id string, s domain.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = s
}

func (m *MockSessionStore) Has(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sessions[id]
	return ok
}

// MockAuthGateway implements ports.AuthGateway.
type MockAuthGateway struct {
	mu sync.Mutex

	Session     *domain.Session
	LoginError  error
	LogoutError error

	LoginCalls  []string
	LogoutCalls []string
}

var _ ports.AuthGateway = (*MockAuthGateway)(nil)

func (m *MockAuthGateway) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LoginCalls = append(m.LoginCalls, username)
	if m.LoginError != nil {
		return nil, m.LoginError
	}
	s := *m.Session
	return &s, nil
}

func (m *MockAuthGateway) Logout(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LogoutCalls = append(m.LogoutCalls, token)
	return m.LogoutError
}
