package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/ports"
)

// ListState is a snapshot of a list screen.
type ListState[T any] struct {
	Page     int
	PageSize int
	Sort     string
	Search   string
	Rows     []T
	Count    int
}

// Pages returns the number of pages needed for Count rows.
func (s ListState[T]) Pages() int {
	if s.PageSize <= 0 || s.Count == 0 {
		return 1
	}
	return (s.Count + s.PageSize - 1) / s.PageSize
}

// ListController holds pagination, ordering and search state for one list
// screen and loads pages through a ResourceClient.
//
// Every load is tagged with a sequence number. When loads overlap, only the
// response to the most recent one is applied; older responses are dropped
// with ErrStaleResponse.
type ListController[T any] struct {
	entity domain.Entity
	client ports.ResourceClient[T]
	opts   controllerOptions

	mu       sync.Mutex
	seq      uint64
	page     int
	pageSize int
	sort     string
	search   string
	rows     []T
	count    int
}

func NewListController[T any](entity domain.Entity, client ports.ResourceClient[T], opts ...Option) *ListController[T] {
	o := applyOptions(opts)
	return &ListController[T]{
		entity:   entity,
		client:   client,
		opts:     o,
		page:     1,
		pageSize: o.pageSize,
		sort:     entity.DefaultSort,
	}
}

func (c *ListController[T]) State() ListState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return ListState[T]{
		Page:     c.page,
		PageSize: c.pageSize,
		Sort:     c.sort,
		Search:   c.search,
		Rows:     append([]T(nil), c.rows...),
		Count:    c.count,
	}
}

// Load requests one page. On success the rows and total count are replaced;
// on failure the previous state is kept and a user-facing error is returned.
func (c *ListController[T]) Load(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	q := domain.ListQuery{
		Page:     page,
		PageSize: c.pageSize,
		Ordering: c.sort,
		Search:   c.search,
	}
	c.mu.Unlock()

	result, err := c.client.List(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		return ErrStaleResponse
	}
	if err != nil {
		return &UserError{
			Message: fmt.Sprintf("No se pudo obtener la lista de %s", c.entity.Plural),
			Err:     err,
		}
	}

	c.page = page
	c.rows = result.Results
	c.count = result.Count
	return nil
}

// SortBy orders by a display column ("-" prefix for descending) and reloads
// the first page.
func (c *ListController[T]) SortBy(ctx context.Context, column string) error {
	c.mu.Lock()
	c.sort = c.entity.Ordering(column)
	c.mu.Unlock()

	return c.Load(ctx, 1)
}

// Search filters by a case-insensitive substring and reloads the first page.
func (c *ListController[T]) Search(ctx context.Context, text string) error {
	c.mu.Lock()
	c.search = normalizeSearch(text)
	c.mu.Unlock()

	return c.Load(ctx, 1)
}

// ChangePage applies a new page size and loads the requested page.
func (c *ListController[T]) ChangePage(ctx context.Context, page, pageSize int) error {
	if pageSize > 0 {
		c.mu.Lock()
		c.pageSize = pageSize
		c.mu.Unlock()
	}
	return c.Load(ctx, page)
}

// ListParams restores list state carried in a URL without loading.
type ListParams struct {
	Sort     string
	Search   string
	PageSize int
}

func (c *ListController[T]) Apply(p ListParams) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p.Sort != "" {
		c.sort = c.entity.Ordering(p.Sort)
	}
	c.search = normalizeSearch(p.Search)
	if p.PageSize > 0 {
		c.pageSize = p.PageSize
	}
}

// Delete asks for confirmation and, on a yes, deletes the record and reloads
// the first page. A no or a failed call leaves the rows as they were.
func (c *ListController[T]) Delete(ctx context.Context, id int, confirmer ports.Confirmer) (string, error) {
	label := c.entity.Label

	if c.opts.deleteGuard != nil {
		if err := c.opts.deleteGuard(id); err != nil {
			return "", err
		}
	}

	ok, err := confirmer.Confirm(ctx, ports.ConfirmRequest{TargetID: id, EntityLabel: label})
	if err != nil {
		return "", &UserError{Message: "No se pudo confirmar la eliminación", Err: err}
	}
	if !ok {
		return "", &UserError{
			Message: fmt.Sprintf("%s %s no se ha eliminado", capitalize(c.entity.Article()), label),
			Err:     ErrDeleteCancelled,
		}
	}

	if err := c.client.Delete(ctx, id); err != nil {
		return "", &UserError{
			Message: fmt.Sprintf("No se pudo eliminar %s %s", c.entity.Article(), label),
			Err:     err,
		}
	}
	c.opts.audit.record(ctx, domain.AuditDeleted, c.entity.Type, id)

	msg := fmt.Sprintf("%s %s correctamente", capitalize(label), c.entity.Agree("eliminado"))
	if c.opts.noReload {
		return msg, nil
	}
	return msg, c.Load(ctx, 1)
}

func normalizeSearch(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
