package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/ports"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	gateway  ports.AuthGateway
	sessions ports.SessionStore
}

func NewAuthService(gateway ports.AuthGateway, sessions ports.SessionStore) *AuthService {
	return &AuthService{
		gateway:  gateway,
		sessions: sessions,
	}
}

// Login exchanges credentials for an API token and stores the resulting
// session. It returns the session id to hand to the browser.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, &UserError{Message: "Ingresa usuario y contraseña", Err: ErrInvalidCredentials}
	}

	sess, err := s.gateway.Login(ctx, username, password)
	if err != nil {
		return "", nil, &UserError{Message: "Usuario o contraseña incorrectos", Err: err}
	}
	sess.CreatedAt = time.Now().UTC()

	id, err := s.sessions.Save(ctx, *sess)
	if err != nil {
		return "", nil, &UserError{Message: "No se pudo iniciar sesión", Err: err}
	}
	return id, sess, nil
}

// Logout revokes the API token and forgets the session. A failing API call
// does not keep the local session alive.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.Authenticated() {
		if err := s.gateway.Logout(ctx, sess.Token); err != nil {
			log.Printf("auth: api logout failed for user %d: %v", sess.UserID, err)
		}
	}
	return s.sessions.Delete(ctx, sessionID)
}

// Session returns the stored session for id.
func (s *AuthService) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.sessions.Load(ctx, sessionID)
}
