package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/gstbook/internal/lineitem"
	"github.com/MrJamesThe3rd/gstbook/internal/metrics"
)

func TestMetrics_ObserveRecompute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg, "GSTBook")

	m.ObserveRecompute("save", lineitem.Changes{
		{Line: 0, Field: lineitem.FieldAmount},
		{Line: 0, Field: lineitem.FieldLineTotal},
		{Line: lineitem.DocumentLevel, Field: lineitem.FieldInvoiceTotal},
	})
	m.ObserveRecompute("preview", nil)

	count, err := testutil.GatherAndCount(reg, "gstbook_recompute_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "gstbook_recompute_writes_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	m := metrics.New(nil, "GSTBook")

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(),
		`gstbook_http_requests_total{method="GET",route="/items/{id}",service="gstbook",status="418"} 1`)
}
