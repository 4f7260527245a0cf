package handler

import (
	"net/http"

	"github.com/escolar/admin-console/internal/adapters/middleware"
	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/ports"
	"github.com/escolar/admin-console/internal/core/services"
)

type Deps struct {
	App      *App
	Auth     *services.AuthService
	AuthMW   *middleware.AuthMiddleware
	Limiter  *middleware.RateLimiter
	Health   *HealthHandler
	Metrics  http.Handler
	Term     Term
	Origins  []string
	Students ports.ResourceClient[domain.Student]
	Teachers ports.ResourceClient[domain.Teacher]
	Admins   ports.ResourceClient[domain.Admin]
	Sections ports.ResourceClient[domain.Section]
}

type formRoutes interface {
	Show(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
}

type listRoutes interface {
	List(w http.ResponseWriter, r *http.Request)
	ConfirmDelete(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

// NewRouter wires every console page. Health and metrics endpoints skip the
// session lookup.
func NewRouter(d Deps) http.Handler {
	admin := []domain.Role{domain.RoleAdmin}
	mw := d.AuthMW

	students := NewListHandler(d.App, studentPages, d.Students)
	teachers := NewListHandler(d.App, teacherPages, d.Teachers)
	sections := NewListHandler(d.App, sectionPages, d.Sections)
	admins := NewListHandler(d.App, adminPages, d.Admins)
	admins.guard = selfDeleteGuard

	personForms := map[string]formRoutes{
		string(domain.RoleStudent): NewFormHandler(d.App, studentPages, d.Students, nil),
		string(domain.RoleTeacher): NewFormHandler(d.App, teacherPages, d.Teachers, nil),
		string(domain.RoleAdmin):   NewFormHandler(d.App, adminPages, d.Admins, nil),
	}
	sectionForm := NewFormHandler(d.App, sectionPages, d.Sections, d.Teachers)

	auth := NewAuthHandler(d.App, d.Auth)
	calendar := NewCalendarHandler(d.App, d.Sections, d.Term)

	app := http.NewServeMux()
	app.HandleFunc("GET /", auth.Home)
	app.HandleFunc("GET /login", auth.LoginForm)
	app.HandleFunc("POST /login", d.Limiter.Limit(auth.Login))
	app.HandleFunc("POST /logout", auth.Logout)
	app.HandleFunc("GET /logout", auth.Logout)

	mountList(app, mw, studentPages.Path, students, nil)
	mountList(app, mw, teacherPages.Path, teachers, nil)
	mountList(app, mw, sectionPages.Path, sections, nil)
	mountList(app, mw, adminPages.Path, admins, admin)

	// Creating a person is open so new users can register themselves.
	app.HandleFunc("GET /registro-usuarios/{rol}", byRole(d.App, personForms, formRoutes.Show))
	app.HandleFunc("POST /registro-usuarios/{rol}", byRole(d.App, personForms, formRoutes.Submit))
	app.HandleFunc("GET /registro-usuarios/{rol}/{id}", mw.RequireRole(admin, byRole(d.App, personForms, formRoutes.Show)))
	app.HandleFunc("POST /registro-usuarios/{rol}/{id}", mw.RequireRole(admin, byRole(d.App, personForms, formRoutes.Submit)))

	app.HandleFunc("GET /registro-materias", mw.RequireRole(admin, sectionForm.Show))
	app.HandleFunc("POST /registro-materias", mw.RequireRole(admin, sectionForm.Submit))
	app.HandleFunc("GET /registro-materias/{id}", mw.RequireRole(admin, sectionForm.Show))
	app.HandleFunc("POST /registro-materias/{id}", mw.RequireRole(admin, sectionForm.Submit))

	cors := middleware.CORSMiddleware(d.Origins)
	app.Handle("GET /materias/calendario.ics", cors(mw.RequireLogin(calendar.Export)))
	app.Handle("OPTIONS /materias/calendario.ics", cors(http.NotFoundHandler()))

	root := http.NewServeMux()
	root.HandleFunc("GET /health", d.Health.Health)
	root.HandleFunc("GET /health/ready", d.Health.Ready)
	root.HandleFunc("GET /health/live", d.Health.Live)
	if d.Metrics != nil {
		root.Handle("GET /metrics", d.Metrics)
	}
	root.Handle("/", mw.LoadSession(app))
	return root
}

// mountList registers the list page and the delete dialog of one entity.
// Viewing needs a session with one of roles (any role when nil); deleting
// is reserved to administrators.
func mountList(mux *http.ServeMux, mw *middleware.AuthMiddleware, path string, h listRoutes, roles []domain.Role) {
	admin := []domain.Role{domain.RoleAdmin}
	mux.HandleFunc("GET "+path, mw.RequireRole(roles, h.List))
	mux.HandleFunc("GET "+path+"/{id}/eliminar", mw.RequireRole(admin, h.ConfirmDelete))
	mux.HandleFunc("POST "+path+"/{id}/eliminar", mw.RequireRole(admin, h.Delete))
}

func byRole(app *App, forms map[string]formRoutes, action func(formRoutes, http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := forms[r.PathValue("rol")]
		if !ok {
			app.errorPage(w, r, http.StatusNotFound, "Tipo de usuario desconocido")
			return
		}
		action(f, w, r)
	}
}
