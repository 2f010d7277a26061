package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/gstbook/internal/auth"
	"github.com/MrJamesThe3rd/gstbook/internal/catalog"
	catalogStore "github.com/MrJamesThe3rd/gstbook/internal/catalog/store"
	"github.com/MrJamesThe3rd/gstbook/internal/company"
	companyStore "github.com/MrJamesThe3rd/gstbook/internal/company/store"
	"github.com/MrJamesThe3rd/gstbook/internal/config"
	"github.com/MrJamesThe3rd/gstbook/internal/database"
	"github.com/MrJamesThe3rd/gstbook/internal/export"
	"github.com/MrJamesThe3rd/gstbook/internal/format"
	"github.com/MrJamesThe3rd/gstbook/internal/hsn"
	hsnStore "github.com/MrJamesThe3rd/gstbook/internal/hsn/store"
	gstHttp "github.com/MrJamesThe3rd/gstbook/internal/http"
	authHandler "github.com/MrJamesThe3rd/gstbook/internal/http/auth"
	catalogHandler "github.com/MrJamesThe3rd/gstbook/internal/http/catalog"
	companyHandler "github.com/MrJamesThe3rd/gstbook/internal/http/company"
	exportHandler "github.com/MrJamesThe3rd/gstbook/internal/http/export"
	hsnHandler "github.com/MrJamesThe3rd/gstbook/internal/http/hsn"
	importHandler "github.com/MrJamesThe3rd/gstbook/internal/http/importcsv"
	txHandler "github.com/MrJamesThe3rd/gstbook/internal/http/transaction"
	"github.com/MrJamesThe3rd/gstbook/internal/importer"
	"github.com/MrJamesThe3rd/gstbook/internal/metrics"
	"github.com/MrJamesThe3rd/gstbook/internal/migration"
	"github.com/MrJamesThe3rd/gstbook/internal/transaction"
	txStore "github.com/MrJamesThe3rd/gstbook/internal/transaction/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString(), database.Pool{
		MaxOpenConns: cfg.DB.MaxOpenConns,
		MaxIdleConns: cfg.DB.MaxIdleConns,
		ConnLifetime: cfg.DB.ConnLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migration.Run(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	formatter, err := format.New(cfg.App.Locale)
	if err != nil {
		slog.Warn("unknown locale, using default formatting", "locale", cfg.App.Locale, "error", err)
		formatter = format.Default()
	}

	m := metrics.New(nil, cfg.App.Name)

	var (
		companyService     = company.NewService(companyStore.New(db))
		catalogService     = catalog.NewService(catalogStore.New(db))
		transactionService = transaction.NewService(txStore.New(db), companyService, m)
		hsnService         = hsn.NewService(hsnStore.New(db))
		importService      = importer.NewService()
		exportService      = export.NewService(transactionService, formatter)
	)

	handlers := gstHttp.Handlers{
		Companies:    companyHandler.NewHandler(companyService),
		Catalog:      catalogHandler.NewHandler(catalogService),
		Transactions: txHandler.NewHandler(transactionService),
		HSN:          hsnHandler.NewHandler(hsnService),
		Import:       importHandler.NewHandler(importService, transactionService),
		Export:       exportHandler.NewHandler(exportService),
	}

	opts := gstHttp.Options{
		CORSOrigins: cfg.CORS.Origins,
		Instrument:  m.Middleware,
		Metrics:     m.Handler(),
	}

	if cfg.AuthEnabled() {
		issuer := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.APIKey, cfg.Auth.TokenTTL)
		handlers.Auth = authHandler.NewHandler(issuer)
		opts.Authenticate = issuer.Middleware
	} else {
		slog.Warn("AUTH_SECRET not set, API is unauthenticated")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      gstHttp.New(handlers, opts),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr)

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
