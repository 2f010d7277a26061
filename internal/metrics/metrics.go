package metrics

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/gstbook/internal/lineitem"
)

// Metrics holds the engine and HTTP counters.
type Metrics struct {
	recomputes *prometheus.CounterVec
	writeBacks *prometheus.CounterVec
	requests   *prometheus.CounterVec
	gatherer   prometheus.Gatherer
}

// New registers the collectors on reg. A nil reg uses a fresh registry.
func New(reg *prometheus.Registry, appName string) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	constLabels := prometheus.Labels{"service": strings.ToLower(strings.TrimSpace(appName))}

	m := &Metrics{
		recomputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "gstbook_recompute_total",
			Help:        "Recompute passes by caller.",
			ConstLabels: constLabels,
		}, []string{"source"}),
		writeBacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "gstbook_recompute_writes_total",
			Help:        "Fields written back by recompute passes.",
			ConstLabels: constLabels,
		}, []string{"field"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "gstbook_http_requests_total",
			Help:        "HTTP requests by route and status.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		gatherer: reg,
	}

	reg.MustRegister(m.recomputes, m.writeBacks, m.requests)

	return m
}

// ObserveRecompute counts one pass and each field it wrote.
func (m *Metrics) ObserveRecompute(source string, changes lineitem.Changes) {
	m.recomputes.WithLabelValues(source).Inc()

	for _, c := range changes {
		m.writeBacks.WithLabelValues(string(c.Field)).Inc()
	}
}

// Middleware counts requests by their chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
