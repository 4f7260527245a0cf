package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/escolar/admin-console/internal/config"
	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/ports"
)

// Resource is the ResourceClient for one entity type. Each entity has its
// own breaker so one failing endpoint does not block the others.
type Resource[T any] struct {
	client *Client
	entity domain.Entity
	cb     *gobreaker.CircuitBreaker
}

var _ ports.ResourceClient[domain.Student] = (*Resource[domain.Student])(nil)

func NewResource[T any](client *Client, entity domain.Entity) *Resource[T] {
	return &Resource[T]{
		client: client,
		entity: entity,
		cb:     config.NewCircuitBreaker("API-" + string(entity.Type)),
	}
}

func (r *Resource[T]) call(method, path string, query orderedQuery, body any) call {
	return call{
		cb:     r.cb,
		entity: string(r.entity.Type),
		method: method,
		path:   path,
		query:  query,
		body:   body,
	}
}

// List fetches one page. ordering and search are sent only when set.
func (r *Resource[T]) List(ctx context.Context, q domain.ListQuery) (domain.Page[T], error) {
	query := orderedQuery{
		{"page", strconv.Itoa(q.Page)},
		{"page_size", strconv.Itoa(q.PageSize)},
	}
	if q.Ordering != "" {
		query = append(query, [2]string{"ordering", q.Ordering})
	}
	if q.Search != "" {
		query = append(query, [2]string{"search", q.Search})
	}

	var page domain.Page[T]
	if err := r.client.do(ctx, r.call(http.MethodGet, r.entity.ListEndpoint, query, nil), &page); err != nil {
		return domain.Page[T]{}, err
	}
	if page.Results == nil {
		page.Results = []T{}
	}
	return page, nil
}

func (r *Resource[T]) Get(ctx context.Context, id int) (*T, error) {
	var record T
	if err := r.client.do(ctx, r.call(http.MethodGet, r.entity.ItemEndpoint, idQuery(id), nil), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *Resource[T]) Create(ctx context.Context, record *T) (*T, error) {
	return r.write(ctx, http.MethodPost, record)
}

// Update sends the whole record; the API reads the id from the payload.
func (r *Resource[T]) Update(ctx context.Context, record *T) (*T, error) {
	return r.write(ctx, http.MethodPut, record)
}

func (r *Resource[T]) write(ctx context.Context, method string, record *T) (*T, error) {
	var saved T
	if err := r.client.do(ctx, r.call(method, r.entity.ItemEndpoint, nil, record), &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *Resource[T]) Delete(ctx context.Context, id int) error {
	return r.client.do(ctx, r.call(http.MethodDelete, r.entity.ItemEndpoint, idQuery(id), nil), nil)
}

func idQuery(id int) orderedQuery {
	return orderedQuery{{"id", strconv.Itoa(id)}}
}

// orderedQuery encodes parameters in insertion order.
type orderedQuery [][2]string

func (q orderedQuery) Encode() string {
	parts := make([]string, 0, len(q))
	for _, kv := range q {
		parts = append(parts, url.QueryEscape(kv[0])+"="+url.QueryEscape(kv[1]))
	}
	return strings.Join(parts, "&")
}
