// Package mocks provides in-memory implementations of the core ports for
// tests. Each mock records its calls and lets a test inject errors.
package mocks

import (
	"context"
	"sync"

	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/ports"
)

// MockResourceClient implements ports.ResourceClient for any record type.
type MockResourceClient[T any] struct {
	mu sync.Mutex

	// Canned responses
	ListResult domain.Page[T]
	GetResult  *T

	// ListFunc, when set, replaces ListResult/ListError for every call.
	ListFunc func(ctx context.Context, q domain.ListQuery) (domain.Page[T], error)

	// Call tracking
	ListCalls   []domain.ListQuery
	GetCalls    []int
	CreateCalls []T
	UpdateCalls []T
	DeleteCalls []int

	// Error injection
	ListError   error
	GetError    error
	CreateError error
	UpdateError error
	DeleteError error
}

var _ ports.ResourceClient[domain.Student] = (*MockResourceClient[domain.Student])(nil)

func NewMockResourceClient[T any]() *MockResourceClient[T] {
	return &MockResourceClient[T]{}
}

func (m *MockResourceClient[T]) List(ctx context.Context, q domain.ListQuery) (domain.Page[T], error) {
	m.mu.Lock()
	m.ListCalls = append(m.ListCalls, q)
	fn := m.ListFunc
	result, err := m.ListResult, m.ListError
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, q)
	}
	if err != nil {
		return domain.Page[T]{}, err
	}
	return result, nil
}

func (m *MockResourceClient[T]) Get(ctx context.Context, id int) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = append(m.GetCalls, id)
	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.GetResult, nil
}

func (m *MockResourceClient[T]) Create(ctx context.Context, record *T) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, *record)
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	saved := *record
	return &saved, nil
}

func (m *MockResourceClient[T]) Update(ctx context.Context, record *T) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls = append(m.UpdateCalls, *record)
	if m.UpdateError != nil {
		return nil, m.UpdateError
	}
	saved := *record
	return &saved, nil
}

func (m *MockResourceClient[T]) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, id)
	return m.DeleteError
}

// Calls returns the number of write calls made so far.
func (m *MockResourceClient[T]) Calls() (creates, updates, deletes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.CreateCalls), len(m.UpdateCalls), len(m.DeleteCalls)
}

func (m *MockResourceClient[T]) ListCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ListCalls)
}
