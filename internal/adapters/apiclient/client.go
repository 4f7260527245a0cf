// Package apiclient talks to the remote school API. It is the only place
// that knows URLs, query parameters and the bearer-token header.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/escolar/admin-console/internal/adapters/metrics"
	"github.com/escolar/admin-console/internal/adapters/session"
)

const maxErrorBody = 4 << 10

// RemoteError is any non-2xx answer from the API. The body is kept for
// logging only; callers treat the failure as opaque.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Body)
}

type Client struct {
	baseURL string
	http    *http.Client
	metrics *metrics.Collector
}

func New(baseURL string, timeout time.Duration, m *metrics.Collector) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		metrics: m,
	}
}

type call struct {
	cb     *gobreaker.CircuitBreaker
	entity string
	method string
	path   string
	query  orderedQuery
	body   any
}

// do performs one API call and decodes a 2xx body into out when out is not
// nil. Only transport errors and 5xx answers count against the breaker.
func (c *Client) do(ctx context.Context, req call, out any) error {
	started := time.Now()

	var payload io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", req.entity, err)
		}
		payload = bytes.NewReader(data)
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, payload)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if s := session.FromContext(ctx); s.Authenticated() {
		httpReq.Header.Set("Authorization", "Bearer "+s.Token)
	}

	var remoteErr *RemoteError
	_, err = req.cb.Execute(func() (interface{}, error) {
		resp, err := c.http.Do(httpReq)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			remoteErr = &RemoteError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
			if resp.StatusCode >= 500 {
				return nil, remoteErr
			}
			return nil, nil
		}

		c.metrics.ObserveUpstream(req.entity, req.method, resp.StatusCode, started)
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil, nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode %s response: %w", req.entity, err)
		}
		return nil, nil
	})

	if remoteErr != nil {
		c.metrics.ObserveUpstream(req.entity, req.method, remoteErr.Status, started)
		log.Printf("apiclient: %s %s failed with %d", req.method, req.path, remoteErr.Status)
		return remoteErr
	}
	if err != nil {
		c.metrics.ObserveUpstream(req.entity, req.method, 0, started)
		log.Printf("apiclient: %s %s failed: %v", req.method, req.path, err)
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	return nil
}
