package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/erp/uom/internal/application/catalog"
	healthapp "github.com/erp/uom/internal/application/health"
	pricingapp "github.com/erp/uom/internal/application/pricing"
	uomapp "github.com/erp/uom/internal/application/uom"
	"github.com/erp/uom/internal/domain/uom"
	"github.com/erp/uom/internal/infrastructure/auth"
	"github.com/erp/uom/internal/infrastructure/cache"
	"github.com/erp/uom/internal/infrastructure/config"
	"github.com/erp/uom/internal/infrastructure/logger"
	"github.com/erp/uom/internal/infrastructure/scheduler"
	"github.com/erp/uom/internal/interfaces/http/handler"
	"github.com/erp/uom/internal/interfaces/http/middleware"
	"github.com/erp/uom/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// A missing .env is fine; the environment and config.toml still apply
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	tel, err := setupTelemetry(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log = tel.logger
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting UOM service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
		zap.String("driver", cfg.Database.Driver),
	)

	st, err := openStores(cfg, log, tel)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer st.close(log)

	trackers := cache.NewRevisionTrackerFactory(cfg.Redis, cache.WithLogger(log))
	revisions, closeTracker, err := trackers.CreateTracker()
	if err != nil {
		log.Fatal("Failed to create catalog revision tracker", zap.Error(err))
	}
	defer func() {
		if err := closeTracker(); err != nil {
			log.Error("Error closing revision tracker", zap.Error(err))
		}
	}()

	// Application services
	catalogSvc := uomapp.NewCatalogService(st.catalog, revisions, uomapp.ServiceOptions{
		Graph: uom.GraphOptions{
			SynthesizeBaseEdges: cfg.Engine.SynthesizeBaseEdges,
			MaxDepth:            cfg.Engine.MaxResolveDepth,
		},
		Validator:   uom.ValidatorOptions{PerCategoryBaseWarnings: cfg.Engine.PerCategoryBaseWarnings},
		GraphMaxAge: cfg.Engine.GraphCacheMaxAge,
	}, log)
	packagingSvc := catalogapp.NewPackagingService(st.products, st.packaging, catalogSvc, log)
	tierSvc := pricingapp.NewTierService(st.tiers, pricingapp.Options{ReportIntervals: cfg.Pricing.ReportTierOverlaps}, log)
	healthSvc := healthapp.NewDataHealthService(catalogSvc, packagingSvc, tierSvc, log)

	catalogSvc.SetMetrics(tel.engine)
	healthSvc.SetMetrics(tel.engine)

	mode := gin.DebugMode
	if cfg.App.Env == "production" {
		mode = gin.ReleaseMode
	}
	var writeAuth *middleware.WriteAuthConfig
	if cfg.Auth.Enabled {
		tokens, err := auth.NewTokenService(cfg.Auth)
		if err != nil {
			log.Fatal("Invalid auth configuration", zap.Error(err))
		}
		writeAuth = &middleware.WriteAuthConfig{
			Verifier:  tokens,
			Scope:     auth.ScopeWrite,
			SkipPaths: []string{"/api/v1/uom/resolve", "/api/v1/uom/convert"},
			Logger:    log,
		}
	} else {
		log.Warn("API mutations are not authenticated")
	}

	engine, err := router.NewEngine(router.EngineConfig{
		Mode:           mode,
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: cfg.Telemetry.TracingEnabled,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		WriteAuth:      writeAuth,
	}, log)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	var pinger handler.Pinger
	if st.db != nil {
		pinger = st.db
	}
	healthHandler := handler.NewHealthHandler(healthSvc, pinger, version)
	engine.GET("/health", healthHandler.Liveness)
	engine.GET("/ready", healthHandler.Readiness)

	basePath := router.NewRouter(engine).Register(
		handler.NewUOMHandler(catalogSvc).Routes(),
		handler.NewProductHandler(packagingSvc, tierSvc).Routes(),
		healthHandler.Routes(),
	).Setup()
	log.Info("API mounted", zap.String("base_path", basePath))

	healthJob, err := scheduler.NewHealthCheckJob(scheduler.HealthJobConfig{
		Enabled: cfg.Health.ScheduleEnabled,
		Spec:    cfg.Health.Cron,
		Timeout: cfg.Health.RunTimeout,
	}, healthSvc, log)
	if err != nil {
		log.Fatal("Invalid data health schedule", zap.Error(err))
	}
	archive, err := newReportArchive(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to configure report storage", zap.Error(err))
	}
	if archive != nil {
		healthJob.SetArchive(archive)
	}
	if err := healthJob.Start(ctx); err != nil {
		log.Fatal("Failed to start data health job", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := healthJob.Stop(shutdownCtx); err != nil {
		log.Warn("Data health job did not stop cleanly", zap.Error(err))
	}
	tel.shutdown(shutdownCtx, log)

	log.Info("Server exited gracefully")
}
