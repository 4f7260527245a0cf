// Package metrics holds the console's Prometheus collectors. Each Collector
// owns its registry so tests can build one without touching global state.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/ports"
)

const namespace = "admin_console"

type Collector struct {
	registry *prometheus.Registry

	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	FormRejections   *prometheus.CounterVec
	LoginAttempts    *prometheus.CounterVec
	AuditEvents      *prometheus.CounterVec
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Calls made to the school API",
		}, []string{"entity", "method", "status_code"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of calls to the school API in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entity", "method"}),
		FormRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_rejections_total",
			Help:      "Form submissions stopped before reaching the API",
		}, []string{"entity", "reason"}),
		LoginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome",
		}, []string{"result"}),
		AuditEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_events_total",
			Help:      "Audit events recorded by action",
		}, []string{"entity", "action"}),
	}

	reg.MustRegister(
		c.UpstreamRequests,
		c.UpstreamDuration,
		c.FormRejections,
		c.LoginAttempts,
		c.AuditEvents,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveUpstream records one API call. status is 0 for transport errors.
func (c *Collector) ObserveUpstream(entity, method string, status int, started time.Time) {
	if c == nil {
		return
	}
	c.UpstreamRequests.WithLabelValues(entity, method, strconv.Itoa(status)).Inc()
	c.UpstreamDuration.WithLabelValues(entity, method).Observe(time.Since(started).Seconds())
}

func (c *Collector) RejectForm(entity, reason string) {
	if c == nil {
		return
	}
	c.FormRejections.WithLabelValues(entity, reason).Inc()
}

func (c *Collector) Login(result string) {
	if c == nil {
		return
	}
	c.LoginAttempts.WithLabelValues(result).Inc()
}

func (c *Collector) Audit(entity, action string) {
	if c == nil {
		return
	}
	c.AuditEvents.WithLabelValues(entity, action).Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// CountingRecorder counts audit events by entity and action before handing
// them to the wrapped recorder.
type CountingRecorder struct {
	Next      ports.AuditRecorder
	Collector *Collector
}

var _ ports.AuditRecorder = CountingRecorder{}

func (r CountingRecorder) Record(ctx context.Context, evt domain.AuditEvent) error {
	r.Collector.Audit(string(evt.Entity), string(evt.Action))
	return r.Next.Record(ctx, evt)
}
