package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/alerting"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/api"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/auth"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/collector"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/config"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/dashboard"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/database"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/notify"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/repository"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/security"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting audit dashboard API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Apply pending migrations before serving
	sqlDB, err := database.NewPool(database.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	migrator, err := database.NewMigrator(sqlDB, "audit_dashboard")
	if err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return fmt.Errorf("failed to migrate: %w", err)
	}
	_ = migrator.Close()

	// Connection pool for the repositories
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Repositories
	serverRepo := repository.NewServerRepository(pool)
	metricRepo := repository.NewMetricRepository(pool)
	alertRepo := repository.NewAlertRepository(pool)
	securityRepo := repository.NewSecurityEventRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	// Auth
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiresIn)
	authService := auth.NewService(userRepo, jwtService, logger)
	if err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	// Live-push hub plus optional outbound webhook
	hub := ws.NewHub()
	go hub.Run(ctx)
	publisher := ws.NewPublisher(hub)
	notifier := notify.NewNotifier(cfg.NotifyWebhookURL, cfg.NotifyWebhookSecret, logger)

	// Metric collection
	sampler := collector.NewSampler(serverRepo, metricRepo, collector.NewDemoSource(), publisher, logger)
	collection := collector.NewScheduler(sampler, logger, cfg.CollectionInterval)

	// Alert evaluation
	lifecycle := alerting.NewLifecycle(alertRepo, alerting.SinkList{publisher, notifier}, logger)
	evaluator := alerting.NewEvaluator(metricRepo)
	evaluation := alerting.NewScheduler(alertRepo, evaluator, lifecycle, logger, cfg.EvaluationInterval)

	// Query and dashboard services
	alertQueries := alerting.NewQueryService(alertRepo, logger)
	securityService := security.NewService(securityRepo, logger)
	overviewService := dashboard.NewService(serverRepo, alertRepo, metricRepo, securityRepo, logger)
	statusService := dashboard.NewStatusService(serverRepo, alertRepo, logger)

	// Background schedulers
	go collection.Start(ctx)
	go evaluation.Start(ctx)
	defer collection.Stop()
	defer evaluation.Stop()

	// Router
	router := api.NewRouter(logger, &api.Dependencies{
		DB:           pool,
		JWTService:   jwtService,
		AuthService:  authService,
		AlertQueries: alertQueries,
		Lifecycle:    lifecycle,
		Evaluation:   evaluation,
		Sampler:      sampler,
		Overview:     overviewService,
		Status:       statusService,
		Security:     securityService,
		ServerRepo:   serverRepo,
		MetricRepo:   metricRepo,
		WSHub:        hub,
	})
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}
