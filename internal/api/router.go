package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/alerting"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/api/docs"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/api/handler"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/api/middleware"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/auth"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/collector"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/dashboard"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/repository"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/security"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/ws"
)

type Dependencies struct {
	DB           *pgxpool.Pool
	JWTService   *auth.JWTService
	AuthService  *auth.Service
	AlertQueries *alerting.QueryService
	Lifecycle    *alerting.Lifecycle
	Evaluation   *alerting.Scheduler
	Sampler      *collector.Sampler
	Overview     *dashboard.Service
	Status       *dashboard.StatusService
	Security     *security.Service
	ServerRepo   *repository.ServerRepository
	MetricRepo   *repository.MetricRepository
	WSHub        *ws.Hub
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "SQL Server Audit Dashboard API",
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Swagger documentation (no auth required)
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints (no auth required)
	var pinger handler.Pinger
	if r.deps != nil && r.deps.DB != nil {
		pinger = r.deps.DB
	}
	healthHandler := handler.NewHealthHandler(pinger)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps == nil {
		return
	}

	api := r.app.Group("/api")

	// Auth routes (no token required for login)
	authHandler := handler.NewAuthHandler(r.deps.AuthService, r.logger)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/refresh", authHandler.Refresh)

	// WebSocket endpoint for live dashboard pushes
	if r.deps.WSHub != nil {
		r.app.Get("/ws/dashboard", ws.UpgradeMiddleware(), ws.Handler(r.deps.WSHub))
	}

	// Everything below requires a valid JWT
	api.Use(middleware.Auth(r.deps.JWTService))

	api.Get("/auth/me", authHandler.Me)

	// Server management
	serversHandler := handler.NewServersHandler(r.deps.ServerRepo, r.deps.Sampler, r.logger)
	api.Get("/servers", serversHandler.List)
	api.Post("/servers", serversHandler.Create)
	api.Get("/servers/:id", serversHandler.Get)
	api.Put("/servers/:id", serversHandler.Update)
	api.Delete("/servers/:id", serversHandler.Delete)
	api.Post("/servers/:id/test", serversHandler.TestConnection)

	// Alerts
	alertsHandler := handler.NewAlertsHandler(r.deps.AlertQueries, r.deps.Lifecycle, r.logger)
	api.Get("/alerts/active", alertsHandler.List)
	api.Get("/alerts/definitions", alertsHandler.Definitions)
	api.Post("/alerts/:id/acknowledge", alertsHandler.Acknowledge)
	api.Post("/alerts/:id/resolve", alertsHandler.Resolve)

	// Security events
	securityHandler := handler.NewSecurityHandler(r.deps.Security, r.logger)
	api.Get("/security/events", securityHandler.List)
	api.Post("/security/events", securityHandler.Record)
	api.Get("/security/events/recent", securityHandler.Recent)
	api.Get("/security/events/counts", securityHandler.Counts)
	api.Get("/security/events/summary", securityHandler.Summaries)
	api.Get("/security/events/high-risk", securityHandler.HighRisk)

	// Dashboard
	dashboardHandler := handler.NewDashboardHandler(r.deps.Overview, r.deps.Status, r.logger)
	api.Get("/dashboard/overview", dashboardHandler.Overview)
	api.Get("/dashboard/servers", dashboardHandler.ServerStatuses)

	// Metric history
	metricsHandler := handler.NewMetricsHandler(r.deps.MetricRepo, r.logger)
	api.Get("/metrics/servers/:id", metricsHandler.ServerMetrics)
	api.Get("/metrics/servers/:id/databases", metricsHandler.DatabaseMetrics)

	// Out-of-band monitoring passes
	monitoringHandler := handler.NewMonitoringHandler(r.deps.Sampler, r.deps.Evaluation, r.logger)
	api.Post("/monitoring/collect", monitoringHandler.Collect)
	api.Post("/monitoring/evaluate", monitoringHandler.Evaluate)
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}
