package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"recruitflow/internal/app"
	"recruitflow/internal/config"
	"recruitflow/internal/database"
	apphttp "recruitflow/internal/http"
	"recruitflow/internal/http/handlers"
	httpmw "recruitflow/internal/http/middleware"
	"recruitflow/internal/integration/ats"
	"recruitflow/internal/metrics"
	"recruitflow/internal/notify"
	"recruitflow/internal/observability"
	"recruitflow/internal/repository/postgres"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := observability.NewLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	db, err := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer db.Close()

	var limiter httpmw.Limiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("redis url", zap.Error(err))
		}
		limiter = httpmw.NewRedisLimiter(redis.NewClient(opts))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	collector := metrics.NewCollector(registry)

	applicationRepo := postgres.NewApplicationRepository(db)
	recruiterRepo := postgres.NewRecruiterRepository(db)
	vacancyCatalog := postgres.NewVacancyCatalog(db)

	atsClient := ats.NewClient(cfg.ATSBaseURL, &http.Client{Timeout: cfg.ATSTimeout}, cfg.ATSRetries)
	notifier := notify.NewLogNotifier(logger)

	routerService := app.NewRouterService(recruiterRepo, cfg.DefaultRecruiterID, cfg.DefaultRecruiterUsername, logger)
	intakeService := app.NewIntakeService(applicationRepo, vacancyCatalog, routerService, atsClient, notifier, collector, logger)
	workflowService := app.NewWorkflowService(applicationRepo, atsClient, notifier, collector, logger, cfg.ATSTimeout)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		IntakeHandler:      handlers.NewIntakeHandler(intakeService, limiter, collector, cfg.IntakeRateLimitPerMin),
		ApplicationHandler: handlers.NewApplicationHandler(workflowService, limiter, cfg.WorkflowRateLimitPerMin),
		RecruiterHandler:   handlers.NewRecruiterHandler(routerService),
		Metrics:            collector,
		MetricsGatherer:    registry,
		Logger:             logger,
		RequestTimeout:     cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	// Let in-flight ATS pushes drain before the process exits.
	workflowService.Flush()
}
