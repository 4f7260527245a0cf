package ports

import (
	"context"

	"github.com/escolar/admin-console/internal/core/domain"
)

// ResourceClient is the gateway to one entity type on the remote API.
// Failures are opaque: callers only learn that the call did not succeed.
type ResourceClient[T any] interface {
	List(ctx context.Context, q domain.ListQuery) (domain.Page[T], error)
	Get(ctx context.Context, id int) (*T, error)
	Create(ctx context.Context, record *T) (*T, error)
	Update(ctx context.Context, record *T) (*T, error)
	Delete(ctx context.Context, id int) error
}

// AuthGateway exchanges credentials for an API session.
type AuthGateway interface {
	Login(ctx context.Context, username, password string) (*domain.Session, error)
	Logout(ctx context.Context, token string) error
}
