package handler

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/api/middleware"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

// AlertQueries interface for the read side of the alert engine
type AlertQueries interface {
	GetActiveAlerts(ctx context.Context, serverID *int) []*domain.ActiveAlert
	GetAlertDefinitions(ctx context.Context) []*domain.AlertDefinition
}

// AlertLifecycle interface for operator state transitions
type AlertLifecycle interface {
	Acknowledge(ctx context.Context, alertID int64, by string, notes *string) (*domain.ActiveAlert, error)
	Resolve(ctx context.Context, alertID int64, by string, notes *string) (*domain.ActiveAlert, error)
}

// AlertsHandler handles alert queries and lifecycle transitions
type AlertsHandler struct {
	queries   AlertQueries
	lifecycle AlertLifecycle
	logger    *slog.Logger
}

func NewAlertsHandler(queries AlertQueries, lifecycle AlertLifecycle, logger *slog.Logger) *AlertsHandler {
	return &AlertsHandler{
		queries:   queries,
		lifecycle: lifecycle,
		logger:    logger,
	}
}

// List GET /api/alerts/active?server_id=N
func (h *AlertsHandler) List(c *fiber.Ctx) error {
	serverID, err := optionalIntQuery(c, "server_id")
	if err != nil {
		return err
	}

	return c.JSON(h.queries.GetActiveAlerts(c.Context(), serverID))
}

// Definitions GET /api/alerts/definitions
func (h *AlertsHandler) Definitions(c *fiber.Ctx) error {
	return c.JSON(h.queries.GetAlertDefinitions(c.Context()))
}

type alertActionRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// Acknowledge POST /api/alerts/:id/acknowledge
func (h *AlertsHandler) Acknowledge(c *fiber.Ctx) error {
	alertID, err := alertIDParam(c)
	if err != nil {
		return err
	}

	username, err := middleware.GetUsername(c)
	if err != nil {
		return err
	}

	var req alertActionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return domain.ErrBadRequest.WithError(err)
		}
	}

	alert, err := h.lifecycle.Acknowledge(c.Context(), alertID, username, req.Notes)
	if err != nil {
		return err
	}

	return c.JSON(alert)
}

// Resolve POST /api/alerts/:id/resolve
func (h *AlertsHandler) Resolve(c *fiber.Ctx) error {
	alertID, err := alertIDParam(c)
	if err != nil {
		return err
	}

	username, err := middleware.GetUsername(c)
	if err != nil {
		return err
	}

	var req alertActionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return domain.ErrBadRequest.WithError(err)
		}
	}

	alert, err := h.lifecycle.Resolve(c.Context(), alertID, username, req.Notes)
	if err != nil {
		return err
	}

	return c.JSON(alert)
}

func alertIDParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrBadRequest
	}
	return id, nil
}

// optionalIntQuery parses an optional positive integer query parameter.
func optionalIntQuery(c *fiber.Ctx, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return nil, domain.ErrBadRequest
	}
	return &value, nil
}
