package ports

import (
	"context"
	"errors"

	"github.com/escolar/admin-console/internal/core/domain"
)

type ConfirmRequest struct {
	TargetID    int
	EntityLabel string
}

// Confirmer asks the user a yes/no question about deleting a record. It has
// no side effects; the caller acts on the decision.
type Confirmer interface {
	Confirm(ctx context.Context, req ConfirmRequest) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, req ConfirmRequest) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, req ConfirmRequest) (bool, error) {
	return f(ctx, req)
}

// ErrSessionNotFound is returned by SessionStore.Load for an unknown or
// expired id. Any other error means the store could not answer.
var ErrSessionNotFound = errors.New("session not found")

type SessionStore interface {
	Save(ctx context.Context, s domain.Session) (string, error)
	Load(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
