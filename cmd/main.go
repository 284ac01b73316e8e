package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"merchant-api/internal/handler"
	mid "merchant-api/internal/middleware"
	"merchant-api/internal/model"
	"merchant-api/internal/repository"
	"merchant-api/internal/service"
	"merchant-api/pkg/config"
	"merchant-api/pkg/database"
	"merchant-api/pkg/logger"
	"merchant-api/pkg/metrics"
	"merchant-api/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	conf, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.InitLogger(&logger.LogConfig{
		Level:       conf.Log.Level,
		Environment: conf.Server.Env,
		ServiceName: conf.ServiceName,
	})
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Configuration loaded", conf.LogConfig()...)

	// amounts go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Initialize database
	db, err := database.InitDB(&conf.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close(db)

	if conf.DB.AutoMigrate {
		err := database.MigrateModels(db,
			&model.Merchant{},
			&model.TransactionMaster{},
			&model.TransactionDetail{},
			&model.Member{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database models", zap.Error(err))
		}
	}
	log.Info("Database connection established", zap.String("driver", conf.DB.Driver))

	// Initialize Prometheus metrics
	registry := promclient.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := prometheus.InitMetrics(conf.Metrics.Prefix, registry)
	httpMetrics := metrics.NewHTTPMetrics(conf.ServiceName, registry)
	log.Info("Prometheus metrics initialized", zap.String("metrics_prefix", conf.Metrics.Prefix))

	merchantRepo := repository.NewMerchantRepository(db, appMetrics, conf.Merchant.IDMaxRetries)
	txnRepo := repository.NewTransactionRepository(db, appMetrics)

	merchantService := service.NewMerchantService(merchantRepo, service.MerchantOptions{
		MaxPageSize: conf.Listing.MaxPageSize,
		MaxScan:     conf.Listing.MaxScan,
		Metrics:     appMetrics,
	})
	txnService := service.NewTransactionService(txnRepo, merchantRepo, service.TransactionOptions{
		MaxPageSize: conf.Listing.MaxPageSize,
		Metrics:     appMetrics,
	})

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Validator = handler.NewRequestValidator()

	// Apply middleware
	useMiddleware(e, conf.Server.AllowOrigins, httpMetrics)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(registry)))

	// Health check endpoint
	e.GET("/health", handler.NewHealthHandler(db).HealthCheck)

	handler.Register(e,
		handler.NewMerchantHandler(merchantService),
		handler.NewTransactionHandler(txnService),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server
	go func() {
		log.Info("Starting " + conf.ServiceName + " on port " + conf.Server.Port)
		if err := e.Start(":" + conf.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// useMiddleware installs the middleware chain. Recover sits inside the request logger and
// metrics so a recovered panic is logged and counted as a 500.
func useMiddleware(e *echo.Echo, allowOrigins []string, httpMetrics *metrics.HTTPMetrics) {
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  allowOrigins,
		ExposeHeaders: []string{mid.RequestIDHeader},
	}))
	e.Use(mid.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(httpMetrics.Middleware())
	e.Use(middleware.Recover())
}
