package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/gstbook/internal/http/auth"
	"github.com/MrJamesThe3rd/gstbook/internal/http/catalog"
	"github.com/MrJamesThe3rd/gstbook/internal/http/company"
	"github.com/MrJamesThe3rd/gstbook/internal/http/export"
	"github.com/MrJamesThe3rd/gstbook/internal/http/hsn"
	"github.com/MrJamesThe3rd/gstbook/internal/http/importcsv"
	"github.com/MrJamesThe3rd/gstbook/internal/http/transaction"
)

type Handlers struct {
	Auth         *auth.Handler
	Companies    *company.Handler
	Catalog      *catalog.Handler
	Transactions *transaction.Handler
	HSN          *hsn.Handler
	Import       *importcsv.Handler
	Export       *export.Handler
}

type Options struct {
	CORSOrigins []string
	// Authenticate guards every /api/v1 route except token exchange. Nil
	// leaves the API open.
	Authenticate func(http.Handler) http.Handler
	// Instrument wraps every request, Metrics is mounted at /metrics. Both
	// may be nil.
	Instrument func(http.Handler) http.Handler
	Metrics    http.Handler
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	if opts.Instrument != nil {
		router.Use(opts.Instrument)
	}

	if opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Auth != nil {
			r.Route("/auth", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Auth.Routes(r)
			})
		}

		r.Group(func(r chi.Router) {
			if opts.Authenticate != nil {
				r.Use(opts.Authenticate)
			}

			r.Route("/companies", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Companies.Routes(r)
			})

			r.Route("/catalog", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Catalog.Routes(r)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Transactions.Routes(r)
			})

			r.Route("/hsn", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.HSN.Routes(r)
			})

			r.Route("/import", h.Import.Routes)

			r.Route("/export", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Export.Routes(r)
			})
		})
	})

	return router
}
