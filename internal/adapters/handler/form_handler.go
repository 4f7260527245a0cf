package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/escolar/admin-console/internal/adapters/session"
	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/ports"
	"github.com/escolar/admin-console/internal/core/services"
)

// FormHandler serves the create and edit form of one entity.
type FormHandler[T any] struct {
	app      *App
	pages    pages[T]
	client   ports.ResourceClient[T]
	teachers ports.ResourceClient[domain.Teacher]
}

func NewFormHandler[T any](app *App, p pages[T], client ports.ResourceClient[T], teachers ports.ResourceClient[domain.Teacher]) *FormHandler[T] {
	return &FormHandler[T]{app: app, pages: p, client: client, teachers: teachers}
}

// formID returns 0 for the create form and the record id for the edit form.
func formID(r *http.Request) (int, bool) {
	if r.PathValue("id") == "" {
		return 0, true
	}
	return pathID(r, "id")
}

func (h *FormHandler[T]) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := formID(r)
	if !ok {
		h.app.errorPage(w, r, http.StatusNotFound, "Registro no encontrado")
		return
	}

	record, opts, warning, err := h.load(r.Context(), id)
	if err != nil {
		entity := h.pages.Schema.Entity
		h.app.flash(w, r, session.FlashError, fmt.Sprintf("No se pudo obtener %s %s", entity.Article(), entity.Label))
		h.app.redirect(w, r, h.pages.Path)
		return
	}

	ctl := services.NewFormController(h.pages.Schema, h.client, id, record)
	base := h.app.base(w, r, h.heading(ctl.Mode()))
	if warning != "" {
		base.Flashes = append(base.Flashes, session.Flash{Kind: session.FlashError, Message: warning})
	}
	h.render(w, r, http.StatusOK, base, id, ctl, opts)
}

// load fetches the record being edited and the form's option lists
// concurrently. A failing option list only produces a warning.
func (h *FormHandler[T]) load(ctx context.Context, id int) (*T, formOptions, string, error) {
	var (
		record  *T
		opts    formOptions
		warning string
	)

	g, gctx := errgroup.WithContext(ctx)
	if id != 0 {
		g.Go(func() error {
			rec, err := h.client.Get(gctx, id)
			record = rec
			return err
		})
	}
	if h.pages.NeedsTeachers {
		g.Go(func() error {
			opts.Teachers, warning = h.teacherOptions(gctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, opts, warning, err
	}
	return record, opts, warning, nil
}

func (h *FormHandler[T]) teacherOptions(ctx context.Context) ([]domain.Option, string) {
	if h.teachers == nil {
		return nil, ""
	}

	page, err := h.teachers.List(ctx, domain.ListQuery{
		Page:     1,
		PageSize: domain.TeacherOptionsPageSize,
		Ordering: "user__first_name",
	})
	if err != nil {
		log.Printf("Failed to load teacher options: %v", err)
		return nil, "No se pudo obtener la lista de maestros"
	}

	opts := make([]domain.Option, 0, len(page.Results))
	for _, t := range page.Results {
		opts = append(opts, domain.Option{Value: fmt.Sprint(t.ID), Label: t.FullName()})
	}
	return opts, ""
}

func (h *FormHandler[T]) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := formID(r)
	if !ok {
		h.app.errorPage(w, r, http.StatusNotFound, "Registro no encontrado")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.app.errorPage(w, r, http.StatusBadRequest, "Solicitud inválida")
		return
	}

	mode := domain.ModeCreate
	if id != 0 {
		mode = domain.ModeEdit
	}
	draft := h.pages.Schema.New()
	if id != 0 {
		h.pages.SetID(draft, id)
	}
	h.pages.Bind(r.PostForm, draft, mode)

	sess := session.FromContext(r.Context())
	ctl := services.NewFormController(h.pages.Schema, h.client, id, draft, services.WithAudit(h.app.Audit, sess))

	_, msg, err := ctl.Submit(r.Context())
	if err == nil {
		h.app.flash(w, r, session.FlashSuccess, msg)
		if sess.Authenticated() {
			h.app.redirect(w, r, h.pages.Path)
		} else {
			h.app.redirect(w, r, "/")
		}
		return
	}

	entity := string(h.pages.Schema.Entity.Type)
	status := http.StatusUnprocessableEntity
	var alert string
	switch {
	case errors.Is(err, services.ErrValidation):
		h.app.Metrics.RejectForm(entity, "validation")
	case errors.Is(err, services.ErrPasswordMismatch):
		h.app.Metrics.RejectForm(entity, "password_mismatch")
		alert = services.Alert(err)
	default:
		status = http.StatusBadGateway
		alert = services.Alert(err)
	}

	var opts formOptions
	var warning string
	if h.pages.NeedsTeachers {
		opts.Teachers, warning = h.teacherOptions(r.Context())
	}

	base := h.app.base(w, r, h.heading(ctl.Mode()))
	for _, m := range []string{alert, warning} {
		if m != "" {
			base.Flashes = append(base.Flashes, session.Flash{Kind: session.FlashError, Message: m})
		}
	}
	h.render(w, r, status, base, id, ctl, opts)
}

func (h *FormHandler[T]) heading(mode domain.FormMode) string {
	label := h.pages.Schema.Entity.Label
	if mode == domain.ModeEdit {
		return "Editar " + label
	}
	return "Registro de " + label
}

func (h *FormHandler[T]) render(w http.ResponseWriter, r *http.Request, status int, base Base, id int, ctl *services.FormController[T], opts formOptions) {
	fields := h.pages.Fields(ctl.Draft(), ctl.Mode(), opts)
	errs := ctl.Errors()
	for i := range fields {
		fields[i].Error = errs.Of(fields[i].Name)
	}

	submit := "Registrar"
	if ctl.Mode() == domain.ModeEdit {
		submit = "Actualizar"
	}

	cancel := h.pages.Path
	if !base.Session.Authenticated() {
		cancel = "/login"
	}

	view := FormView{
		Base:        base,
		Heading:     base.Title,
		Action:      h.pages.formURL(id),
		SubmitLabel: submit,
		CancelURL:   cancel,
		Fields:      fields,
	}
	h.app.Renderer.Page(w, r, status, "form.html", "", view)
}
