package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/test/mocks"
)

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.ObserveUpstream("alumno", http.MethodGet, 200, time.Now())
	c.RejectForm("materia", "validation")
	c.Login("ok")
	c.Audit("maestro", "deleted")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	out := string(body)
	assert.Contains(t, out, `admin_console_upstream_requests_total{entity="alumno",method="GET",status_code="200"} 1`)
	assert.Contains(t, out, `admin_console_form_rejections_total{entity="materia",reason="validation"} 1`)
	assert.Contains(t, out, `admin_console_login_attempts_total{result="ok"} 1`)
	assert.True(t, strings.Contains(out, "admin_console_upstream_request_duration_seconds_bucket"))
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveUpstream("alumno", "GET", 500, time.Now())
		c.RejectForm("alumno", "validation")
		c.Login("failed")
		c.Audit("alumno", "created")
	})
}

func TestCountingRecorder(t *testing.T) {
	c := NewCollector()
	next := &mocks.MockAuditRecorder{}
	rec := CountingRecorder{Next: next, Collector: c}

	require.NoError(t, rec.Record(context.Background(), domain.AuditEvent{Entity: domain.EntitySection, Action: domain.AuditCreated}))
	assert.Len(t, next.Recorded(), 1)

	out := httptest.NewRecorder()
	c.Handler().ServeHTTP(out, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, out.Body.String(), `admin_console_audit_events_total{action="created",entity="materia"} 1`)
}
