package handler

import (
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/escolar/admin-console/internal/adapters/metrics"
	"github.com/escolar/admin-console/internal/adapters/session"
	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/ports"
)

// App holds what every page handler shares.
type App struct {
	Renderer *Renderer
	Cookies  *session.Cookies
	Tickets  *Tickets
	Audit    ports.AuditRecorder
	Metrics  *metrics.Collector
}

// base builds the common page data and pops pending flashes.
func (a *App) base(w http.ResponseWriter, r *http.Request, title string) Base {
	return Base{
		Title:   title,
		Session: session.FromContext(r.Context()),
		Flashes: a.Cookies.Flashes(w, r),
	}
}

func (a *App) flash(w http.ResponseWriter, r *http.Request, kind, message string) {
	if err := a.Cookies.AddFlash(w, r, kind, message); err != nil {
		log.Printf("Failed to store flash: %v", err)
	}
}

// redirect sends the browser to target, using HX-Redirect for htmx calls.
func (a *App) redirect(w http.ResponseWriter, r *http.Request, target string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (a *App) errorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	view := ErrorView{Base: a.base(w, r, http.StatusText(status)), Message: message}
	a.Renderer.Page(w, r, status, "error.html", "", view)
}

// pathID reads a positive integer path value.
func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// safeNext accepts only local absolute paths as post-login targets.
func safeNext(next string) string {
	if next == "" || next[0] != '/' || (len(next) > 1 && (next[1] == '/' || next[1] == '\\')) {
		return ""
	}
	if u, err := url.Parse(next); err != nil || u.Host != "" || u.Scheme != "" {
		return ""
	}
	return next
}

// landing is where a user goes after signing in.
func landing(s *domain.Session) string {
	if s.Authenticated() && s.Role == domain.RoleStudent {
		return "/materias"
	}
	return "/alumnos"
}
