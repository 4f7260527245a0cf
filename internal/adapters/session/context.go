// Package session keeps the signed-in user's state: the record in Redis, the
// browser cookie that points at it and the request context that carries it.
package session

import (
	"context"

	"github.com/escolar/admin-console/internal/core/domain"
)

type contextKey string

const sessionKey contextKey = "session"

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext returns the session stored in ctx, or nil.
func FromContext(ctx context.Context) *domain.Session {
	s, _ := ctx.Value(sessionKey).(*domain.Session)
	return s
}
