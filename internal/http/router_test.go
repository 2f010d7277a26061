package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/gstbook/internal/auth"
	gstHttp "github.com/MrJamesThe3rd/gstbook/internal/http"
	authHandler "github.com/MrJamesThe3rd/gstbook/internal/http/auth"
	catalogHandler "github.com/MrJamesThe3rd/gstbook/internal/http/catalog"
	companyHandler "github.com/MrJamesThe3rd/gstbook/internal/http/company"
	exportHandler "github.com/MrJamesThe3rd/gstbook/internal/http/export"
	hsnHandler "github.com/MrJamesThe3rd/gstbook/internal/http/hsn"
	importHandler "github.com/MrJamesThe3rd/gstbook/internal/http/importcsv"
	txHandler "github.com/MrJamesThe3rd/gstbook/internal/http/transaction"
	"github.com/MrJamesThe3rd/gstbook/internal/metrics"
)

func newRouter(issuer *auth.Issuer) http.Handler {
	m := metrics.New(nil, "test")

	return gstHttp.New(gstHttp.Handlers{
		Auth:         authHandler.NewHandler(issuer),
		Companies:    companyHandler.NewHandler(nil),
		Catalog:      catalogHandler.NewHandler(nil),
		Transactions: txHandler.NewHandler(nil),
		HSN:          hsnHandler.NewHandler(nil),
		Import:       importHandler.NewHandler(nil, nil),
		Export:       exportHandler.NewHandler(nil),
	}, gstHttp.Options{
		CORSOrigins:  []string{"http://localhost:3000"},
		Authenticate: issuer.Middleware,
		Instrument:   m.Middleware,
		Metrics:      m.Handler(),
	})
}

func TestRouter_RequiresToken(t *testing.T) {
	router := newRouter(auth.NewIssuer("secret", "key", time.Hour))

	for _, path := range []string{"/api/v1/companies", "/api/v1/transactions", "/api/v1/hsn/suggest"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestRouter_TokenExchange(t *testing.T) {
	router := newRouter(auth.NewIssuer("secret", "key", time.Hour))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(`{"api_key":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(`{"api_key":"key"}`))
	req.Header.Set("Content-Type", "application/json")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token"`)
}

func TestRouter_Metrics(t *testing.T) {
	router := newRouter(auth.NewIssuer("secret", "key", time.Hour))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/companies", nil))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gstbook_http_requests_total")
}
