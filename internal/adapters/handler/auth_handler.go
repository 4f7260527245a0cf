package handler

import (
	"log"
	"net/http"

	"github.com/escolar/admin-console/internal/adapters/session"
	"github.com/escolar/admin-console/internal/core/services"
)

type AuthHandler struct {
	app         *App
	authService *services.AuthService
}

func NewAuthHandler(app *App, auth *services.AuthService) *AuthHandler {
	return &AuthHandler{app: app, authService: auth}
}

// Home sends signed-in users to their landing list and everyone else to the
// login page.
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.app.errorPage(w, r, http.StatusNotFound, "Página no encontrada")
		return
	}
	sess := session.FromContext(r.Context())
	if sess.Authenticated() {
		http.Redirect(w, r, landing(sess), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if sess := session.FromContext(r.Context()); sess.Authenticated() {
		http.Redirect(w, r, landing(sess), http.StatusSeeOther)
		return
	}
	view := LoginView{
		Base: h.app.base(w, r, "Iniciar sesión"),
		Next: safeNext(r.URL.Query().Get("next")),
	}
	h.app.Renderer.Page(w, r, http.StatusOK, "login.html", "", view)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	username := r.PostForm.Get("username")
	next := safeNext(r.PostForm.Get("next"))

	id, sess, err := h.authService.Login(r.Context(), username, r.PostForm.Get("password"))
	if err != nil {
		log.Printf("Login failed for %q: %v", username, err)
		h.app.Metrics.Login("failed")

		base := h.app.base(w, r, "Iniciar sesión")
		base.Flashes = append(base.Flashes, session.Flash{Kind: session.FlashError, Message: services.Alert(err)})
		view := LoginView{Base: base, Username: username, Next: next}
		h.app.Renderer.Page(w, r, http.StatusUnauthorized, "login.html", "", view)
		return
	}

	if err := h.app.Cookies.SetID(w, r, id); err != nil {
		log.Printf("Failed to write session cookie: %v", err)
		h.app.errorPage(w, r, http.StatusInternalServerError, "No se pudo iniciar sesión")
		return
	}
	h.app.Metrics.Login("ok")

	if next == "" {
		next = landing(sess)
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if id := h.app.Cookies.ID(r); id != "" {
		if err := h.authService.Logout(r.Context(), id); err != nil {
			log.Printf("Logout of session %s: %v", id, err)
		}
	}
	if err := h.app.Cookies.Clear(w, r); err != nil {
		log.Printf("Failed to clear session cookie: %v", err)
	}
	h.app.flash(w, r, session.FlashSuccess, "Sesión cerrada")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
