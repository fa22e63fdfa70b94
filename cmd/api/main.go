package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mahfuzanam/dokanpos-backend/api/routes"
	"github.com/mahfuzanam/dokanpos-backend/internal/customers"
	"github.com/mahfuzanam/dokanpos-backend/internal/invoices"
	"github.com/mahfuzanam/dokanpos-backend/internal/payments"
	"github.com/mahfuzanam/dokanpos-backend/internal/products"
	"github.com/mahfuzanam/dokanpos-backend/internal/sales"
	"github.com/mahfuzanam/dokanpos-backend/pkg/config"
	"github.com/mahfuzanam/dokanpos-backend/pkg/db"
	"github.com/mahfuzanam/dokanpos-backend/pkg/logger"
	"github.com/mahfuzanam/dokanpos-backend/pkg/metrics"
	"github.com/mahfuzanam/dokanpos-backend/pkg/retry"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	// Schema initialization failure makes every operation impossible.
	if err := dbClient.Bootstrap(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to bootstrap schema", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	opMetrics := metrics.NewDataOpMetrics(registry)

	crudPolicy := retry.Policy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay,
		ShouldRetry: db.IsLocked,
	}
	salePolicy := retry.Policy{
		MaxAttempts: cfg.Sale.MaxAttempts,
		BaseDelay:   cfg.Sale.BaseDelay,
		ShouldRetry: db.IsLocked,
	}

	productService, err := products.NewService(products.NewRepository(dbClient.DB()), crudPolicy, opMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	customerService, err := customers.NewService(customers.NewRepository(dbClient.DB()), crudPolicy, opMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}

	saleService, err := sales.NewService(sales.ServiceParams{
		Tx:        dbClient,
		Repo:      sales.NewRepository(dbClient.DB()),
		Products:  products.NewRepository(dbClient.DB()),
		Customers: customers.NewRepository(dbClient.DB()),
		Policy:    salePolicy,
		Metrics:   opMetrics,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sale service", err)
		os.Exit(1)
	}

	paymentService, err := payments.NewService(payments.NewRepository(dbClient.DB()), customerService, crudPolicy, opMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	invoiceService := invoices.NewService(cfg.Invoice, logg)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx := logg.WithFields(runCtx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
		"db":   cfg.DB.Path,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			registry,
			productService,
			customerService,
			saleService,
			paymentService,
			invoiceService,
		),
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		stop()
		logg.Info(ctx, "shutdown signal received, draining requests")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
	}
}
