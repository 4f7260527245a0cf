package middleware

import (
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/escolar/admin-console/internal/adapters/session"
	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/ports"
)

// AuthMiddleware resolves the session cookie into a domain.Session and
// guards pages by role.
type AuthMiddleware struct {
	cookies  *session.Cookies
	sessions ports.SessionStore
}

func NewAuthMiddleware(cookies *session.Cookies, sessions ports.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		cookies:  cookies,
		sessions: sessions,
	}
}

// LoadSession attaches the caller's session to the request context when the
// cookie points at a live one. An id the store does not know is cleared
// from the cookie.
func (m *AuthMiddleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := m.cookies.ID(r)
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := m.sessions.Load(r.Context(), id)
		if err != nil {
			log.Printf("Session %s not loaded: %v", id, err)
			// a store outage keeps the cookie so the user is back once it recovers
			if errors.Is(err, ports.ErrSessionNotFound) {
				_ = m.cookies.Clear(w, r)
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
	})
}

// RequireRole lets the request through when the session's role is one of
// roles. An empty roles list accepts any signed-in user. Anonymous callers
// are sent to the login page; signed-in callers without the role get 403.
func (m *AuthMiddleware) RequireRole(roles []domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		if !sess.Authenticated() {
			log.Printf("Anonymous request to %s", r.URL.Path)
			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Redirect", "/login")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}

		if len(roles) == 0 {
			next(w, r)
			return
		}

		for _, role := range roles {
			if sess.Role == role {
				next(w, r)
				return
			}
		}

		log.Printf("Role mismatch: required one of %v, got %s", roles, sess.Role)
		http.Error(w, "Acceso denegado", http.StatusForbidden)
	}
}

// RequireLogin accepts any signed-in user.
func (m *AuthMiddleware) RequireLogin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireRole(nil, next)
}
