package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/homehospital/hha/internal/config"
	"github.com/homehospital/hha/internal/domain/audit"
	"github.com/homehospital/hha/internal/domain/care"
	"github.com/homehospital/hha/internal/domain/clinical"
	"github.com/homehospital/hha/internal/domain/encounter"
	"github.com/homehospital/hha/internal/domain/messaging"
	"github.com/homehospital/hha/internal/domain/patient"
	"github.com/homehospital/hha/internal/domain/vitals"
	"github.com/homehospital/hha/internal/platform/auth"
	"github.com/homehospital/hha/internal/platform/db"
	"github.com/homehospital/hha/internal/platform/metrics"
	"github.com/homehospital/hha/internal/platform/middleware"
	"github.com/homehospital/hha/internal/platform/ws"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hha-server",
		Short: "Home Hospital API Server",
	}

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the home hospital API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	stats := metrics.New(registry)

	// Token validation. The validator is constructed even in development
	// mode so that a presented token is still checked; only the absence of
	// a token is bypassed there.
	validator := auth.NewValidator(auth.ValidatorConfig{
		Issuer:   cfg.AuthIssuer,
		Audience: cfg.AuthClientID,
		JWKSURL:  cfg.AuthJWKSURL,
	})

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware. The development bypass only excuses a missing token;
	// a presented token always goes through the validator.
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware(logger))
	}
	e.Use(auth.Authenticate(validator))

	// Audit trail. The recorder is the audit domain service; a failed write
	// must never fail the request it describes, so the middleware only
	// counts and logs failures.
	auditRepo := audit.NewRepoPG(pool)
	auditSvc := audit.NewService(auditRepo)
	e.Use(middleware.Audit(logger, auditSvc, stats.AuditWriteFailures))

	// Health and metrics
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	apiV1 := e.Group("/api/v1")

	// Alarm fan-out hub
	hub := ws.NewHub(logger, stats.BroadcastFailures, stats.WSConnections)
	wsAuth := ws.NewAuthenticator(validator, cfg.IsDev(), logger)
	wsHandler := ws.NewHandler(hub, wsAuth, logger)
	wsHandler.RegisterRoutes(apiV1)

	// -- Register Domain Handlers --

	// Audit domain
	auditHandler := audit.NewHandler(auditSvc)
	auditHandler.RegisterRoutes(apiV1)

	// Patient domain
	patientRepo := patient.NewRepoPG(pool)
	patientSvc := patient.NewService(patientRepo)
	patientHandler := patient.NewHandler(patientSvc)
	patientHandler.RegisterRoutes(apiV1)

	// Encounter domain
	encRepo := encounter.NewRepoPG(pool)
	encSvc := encounter.NewService(encRepo)
	encHandler := encounter.NewHandler(encSvc)
	encHandler.RegisterRoutes(apiV1)

	// Vitals domain (readings, thresholds, alarms)
	readingRepo := vitals.NewReadingRepoPG(pool)
	alarmRepo := vitals.NewAlarmRepoPG(pool)
	vitalsSvc := vitals.NewService(readingRepo, alarmRepo, nil, hub, stats, logger)
	vitalsHandler := vitals.NewHandler(vitalsSvc)
	vitalsHandler.RegisterRoutes(apiV1)

	// Clinical domain (diagnoses, medication orders)
	diagRepo := clinical.NewDiagnosisRepoPG(pool)
	medOrderRepo := clinical.NewMedicationOrderRepoPG(pool)
	clinicalSvc := clinical.NewService(diagRepo, medOrderRepo)
	clinicalHandler := clinical.NewHandler(clinicalSvc)
	clinicalHandler.RegisterRoutes(apiV1)

	// Care domain (fluid balance, clinical notes)
	fluidRepo := care.NewFluidRepoPG(pool)
	noteRepo := care.NewNoteRepoPG(pool)
	careSvc := care.NewService(fluidRepo, noteRepo)
	careHandler := care.NewHandler(careSvc)
	careHandler.RegisterRoutes(apiV1)

	// Messaging domain
	msgRepo := messaging.NewRepoPG(pool)
	msgSvc := messaging.NewService(msgRepo)
	msgHandler := messaging.NewHandler(msgSvc)
	msgHandler.RegisterRoutes(apiV1)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
