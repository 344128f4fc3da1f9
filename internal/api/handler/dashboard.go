package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/dashboard"
)

// OverviewService interface for the dashboard aggregation service
type OverviewService interface {
	Overview(ctx context.Context, serverID *int) *dashboard.Overview
}

// StatusService interface for per-server health rows
type StatusService interface {
	ServerStatuses(ctx context.Context) []dashboard.ServerStatus
}

// DashboardHandler handles the landing dashboard endpoints
type DashboardHandler struct {
	overview OverviewService
	status   StatusService
	logger   *slog.Logger
}

func NewDashboardHandler(overview OverviewService, status StatusService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		overview: overview,
		status:   status,
		logger:   logger,
	}
}

// Overview GET /api/dashboard/overview?server_id=N
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	serverID, err := optionalIntQuery(c, "server_id")
	if err != nil {
		return err
	}

	return c.JSON(h.overview.Overview(c.Context(), serverID))
}

// ServerStatuses GET /api/dashboard/servers
func (h *DashboardHandler) ServerStatuses(c *fiber.Ctx) error {
	return c.JSON(h.status.ServerStatuses(c.Context()))
}
