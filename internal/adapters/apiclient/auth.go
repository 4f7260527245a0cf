package apiclient

import (
	"context"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/escolar/admin-console/internal/adapters/session"
	"github.com/escolar/admin-console/internal/config"
	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/ports"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID        int    `json:"id"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
	} `json:"user"`
	Role domain.Role `json:"rol"`
}

// Auth implements ports.AuthGateway against the API login endpoints.
type Auth struct {
	client *Client
	cb     *gobreaker.CircuitBreaker
}

var _ ports.AuthGateway = (*Auth)(nil)

func NewAuth(client *Client) *Auth {
	return &Auth{
		client: client,
		cb:     config.NewCircuitBreaker("API-login"),
	}
}

func (a *Auth) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	var resp loginResponse
	err := a.client.do(ctx, call{
		cb:     a.cb,
		entity: "login",
		method: http.MethodPost,
		path:   "/login/",
		body:   loginRequest{Username: username, Password: password},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &RemoteError{Status: http.StatusOK, Body: "login response without token"}
	}

	return &domain.Session{
		Token:     resp.Token,
		UserID:    resp.User.ID,
		FirstName: resp.User.FirstName,
		LastName:  resp.User.LastName,
		Email:     resp.User.Email,
		Role:      resp.Role,
	}, nil
}

// Logout revokes token on the API.
func (a *Auth) Logout(ctx context.Context, token string) error {
	ctx = session.NewContext(ctx, &domain.Session{Token: token})
	return a.client.do(ctx, call{
		cb:     a.cb,
		entity: "login",
		method: http.MethodGet,
		path:   "/logout/",
	}, nil)
}
