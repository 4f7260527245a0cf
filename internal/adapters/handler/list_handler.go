package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/escolar/admin-console/internal/adapters/session"
	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/ports"
	"github.com/escolar/admin-console/internal/core/services"
)

// ListHandler serves the table page of one entity and its delete dialog.
type ListHandler[T any] struct {
	app    *App
	pages  pages[T]
	client ports.ResourceClient[T]
	// guard, when set, vetoes a delete for the signed-in user.
	guard func(s *domain.Session, id int) error
}

func NewListHandler[T any](app *App, p pages[T], client ports.ResourceClient[T]) *ListHandler[T] {
	return &ListHandler[T]{app: app, pages: p, client: client}
}

// listParams is the list state carried in the page URL.
type listParams struct {
	page     int
	pageSize int
	sort     string
	search   string
}

func parseListParams(q url.Values) listParams {
	p := listParams{
		page:     1,
		pageSize: domain.DefaultPageSize,
		sort:     strings.TrimSpace(q.Get("sort")),
		search:   q.Get("search"),
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.page = n
	}
	if n, err := strconv.Atoi(q.Get("page_size")); err == nil && slices.Contains(domain.PageSizeOptions, n) {
		p.pageSize = n
	}
	return p
}

func (p listParams) url(path string) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.page))
	q.Set("page_size", strconv.Itoa(p.pageSize))
	if p.sort != "" {
		q.Set("sort", p.sort)
	}
	if s := strings.TrimSpace(p.search); s != "" {
		q.Set("search", s)
	}
	return path + "?" + q.Encode()
}

func (h *ListHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r.URL.Query())

	ctl := services.NewListController(h.pages.Schema.Entity, h.client, services.WithPageSize(params.pageSize))
	ctl.Apply(services.ListParams{Sort: params.sort, Search: params.search, PageSize: params.pageSize})

	base := h.app.base(w, r, h.pages.Heading)
	if err := ctl.Load(r.Context(), params.page); err != nil {
		base.Flashes = append(base.Flashes, session.Flash{Kind: session.FlashError, Message: services.Alert(err)})
	}

	view := h.view(base, params, ctl.State())
	h.app.Renderer.Page(w, r, http.StatusOK, "list.html", "table", view)
}

func (h *ListHandler[T]) view(base Base, params listParams, state services.ListState[T]) ListView {
	v := ListView{
		Base:    base,
		Heading: h.pages.Heading,
		Path:    h.pages.Path,
		NewURL:  h.pages.formURL(0),
		Search:  state.Search,
		Sort:    params.sort,
		Count:   state.Count,
		Page:    state.Page,
		Pages:   state.Pages(),
		CanEdit: base.IsAdmin(),
	}

	current := strings.TrimPrefix(params.sort, "-")
	desc := strings.HasPrefix(params.sort, "-")
	for _, c := range h.pages.Columns {
		col := ColumnView{Header: c.Header}
		if _, ok := h.pages.Schema.Entity.SortColumns[c.Key]; ok {
			next := params
			next.page = 1
			next.sort = c.Key
			if current == c.Key {
				col.Active = true
				col.Desc = desc
				if !desc {
					next.sort = "-" + c.Key
				}
			}
			col.SortURL = next.url(h.pages.Path)
		}
		v.Columns = append(v.Columns, col)
	}

	for i := range state.Rows {
		row := &state.Rows[i]
		id := h.pages.Schema.ID(row)
		rv := RowView{
			ID:        id,
			EditURL:   h.pages.formURL(id),
			DeleteURL: h.pages.deleteURL(id),
		}
		for _, c := range h.pages.Columns {
			rv.Cells = append(rv.Cells, c.Value(row))
		}
		v.Rows = append(v.Rows, rv)
	}

	for _, size := range domain.PageSizeOptions {
		next := params
		next.page = 1
		next.pageSize = size
		v.PageSizes = append(v.PageSizes, PageSizeView{Size: size, URL: next.url(h.pages.Path), Selected: size == state.PageSize})
	}
	if state.Page > 1 {
		prev := params
		prev.page = state.Page - 1
		v.PrevURL = prev.url(h.pages.Path)
	}
	if state.Page < v.Pages {
		next := params
		next.page = state.Page + 1
		v.NextURL = next.url(h.pages.Path)
	}
	return v
}

// ConfirmDelete shows the yes/no dialog for one record.
func (h *ListHandler[T]) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.app.errorPage(w, r, http.StatusNotFound, "Registro no encontrado")
		return
	}

	entity := h.pages.Schema.Entity
	if err := h.checkGuard(r, id); err != nil {
		h.app.flash(w, r, session.FlashError, services.Alert(err))
		h.app.redirect(w, r, h.pages.Path)
		return
	}

	ticket, err := h.app.Tickets.Issue(entity.Type, id)
	if err != nil {
		h.app.errorPage(w, r, http.StatusInternalServerError, "No se pudo preparar la confirmación")
		return
	}

	view := ConfirmView{
		Base:      h.app.base(w, r, "Eliminar "+entity.Label),
		Question:  fmt.Sprintf("¿Deseas eliminar %s %s con id %d? Esta acción no se puede deshacer.", entity.Article(), entity.Label, id),
		Action:    h.pages.deleteURL(id),
		Ticket:    ticket,
		CancelURL: h.pages.Path,
	}
	h.app.Renderer.Page(w, r, http.StatusOK, "confirm.html", "", view)
}

// Delete resolves the dialog. The decision only counts as yes when the
// ticket was issued for this record and has not expired.
func (h *ListHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.app.errorPage(w, r, http.StatusNotFound, "Registro no encontrado")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.app.errorPage(w, r, http.StatusBadRequest, "Solicitud inválida")
		return
	}

	entity := h.pages.Schema.Entity
	confirmer := ports.ConfirmFunc(func(_ context.Context, _ ports.ConfirmRequest) (bool, error) {
		if r.PostForm.Get("decision") != "si" {
			return false, nil
		}
		return h.app.Tickets.Verify(r.PostForm.Get("ticket"), entity.Type, id), nil
	})

	// the redirect below reloads the list
	opts := []services.Option{
		services.WithAudit(h.app.Audit, session.FromContext(r.Context())),
		services.WithoutReload(),
	}
	if h.guard != nil {
		opts = append(opts, services.WithDeleteGuard(func(id int) error { return h.checkGuard(r, id) }))
	}
	ctl := services.NewListController(entity, h.client, opts...)

	msg, err := ctl.Delete(r.Context(), id, confirmer)
	if err != nil {
		h.app.flash(w, r, session.FlashError, services.Alert(err))
	} else {
		h.app.flash(w, r, session.FlashSuccess, msg)
	}
	h.app.redirect(w, r, h.pages.Path)
}

func (h *ListHandler[T]) checkGuard(r *http.Request, id int) error {
	if h.guard == nil {
		return nil
	}
	return h.guard(session.FromContext(r.Context()), id)
}

// selfDeleteGuard stops an administrator from deleting their own record.
func selfDeleteGuard(s *domain.Session, id int) error {
	if s.Authenticated() && s.Role == domain.RoleAdmin && s.UserID == id {
		return &services.UserError{
			Message: "No puedes eliminar tu propio usuario administrador.",
			Err:     services.ErrSelfDelete,
		}
	}
	return nil
}
