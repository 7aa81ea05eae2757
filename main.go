package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/NissBloom/runspire/config"
	"github.com/NissBloom/runspire/db"
	"github.com/NissBloom/runspire/handlers"
	applog "github.com/NissBloom/runspire/logger"
	mw "github.com/NissBloom/runspire/middleware"
	"github.com/NissBloom/runspire/store"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(applog.Options{
		Debug:      cfg.Debug,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bdb, err := db.Setup(ctx, cfg)
	if err != nil {
		logger.Warn("database not reachable at startup", zap.Error(err))
	}
	defer bdb.Close()

	schema := db.NewManager(bdb, logger)
	// Requests retry readiness on their own, so a failure here is not fatal.
	if err := schema.Ready(ctx); err != nil {
		logger.Warn("schema not ready at startup", zap.Error(err))
	}

	h := handlers.New(store.New(schema, logger), schema, logger, handlers.Options{
		JWTKey:       cfg.JWTKey(),
		AllowDBReset: cfg.AllowDBReset,
		IsProduction: cfg.IsProduction(),
		Site: handlers.SiteConfig{
			CalendlyURL:     cfg.CalendlyURL,
			WhatsAppURL:     cfg.WhatsAppURL,
			GAMeasurementID: cfg.GAMeasurementID,
		},
	})

	e := newServer(logger, cfg.CORSOrigins)
	registerRoutes(e, h, cfg.JWTKey())

	go serve(e, cfg, logger)

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func newServer(logger *zap.Logger, origins []string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogError:     true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	return e
}

func registerRoutes(e *echo.Echo, h *handlers.Handler, jwtKey []byte) {
	api := e.Group("/api")

	// Public
	api.GET("/health", h.Health)
	api.GET("/site-config", h.SiteConfig)
	api.POST("/testimonials", h.SubmitTestimonial)
	api.GET("/testimonials", h.Testimonials)
	api.POST("/training-plans", h.SubmitTrainingPlan)
	api.GET("/training-plans/:id", h.TrainingPlan)
	api.PATCH("/training-plans/:id/cta", h.UpdatePlanCTA)
	api.POST("/coaching-requests", h.SubmitCoachingRequest)
	api.POST("/admin/signin", h.Signin)

	// Protected – require valid JWT in Authorization header
	admin := api.Group("/admin", mw.JWT(jwtKey))
	admin.GET("/testimonials", h.AllTestimonials)
	admin.POST("/testimonials/:id/approve", h.ApproveTestimonial)
	admin.POST("/testimonials/:id/reject", h.RejectTestimonial)
	admin.PUT("/testimonials/:id", h.UpdateTestimonial)
	admin.GET("/coaching-requests", h.CoachingRequests)
	admin.GET("/training-plans", h.TrainingPlans)
	admin.GET("/db-check", h.DBCheck)
	admin.POST("/init", h.InitDatabase)
	admin.POST("/migrate-legacy", h.MigrateLegacy)
	admin.POST("/reset", h.ResetDatabase)
}

func serve(e *echo.Echo, cfg *config.Config, logger *zap.Logger) {
	if cfg.Debug {
		logger.Info("starting server", zap.String("mode", "debug"), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}
	e.TLSServer = &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
	logger.Info("starting server", zap.String("mode", "tls"), zap.Strings("domains", cfg.TLSDomains))
	if err := e.TLSServer.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
