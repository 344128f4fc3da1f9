package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

// SecurityService interface for the security-event service
type SecurityService interface {
	Record(ctx context.Context, e *domain.SecurityEvent) error
	Recent(ctx context.Context, serverID *int, hours, limit int) []*domain.SecurityEvent
	Events(ctx context.Context, serverID *int, severity *string, page, pageSize int) ([]*domain.SecurityEvent, int)
	Counts(ctx context.Context, hours int) map[string]int
	Summaries(ctx context.Context, hours, limit int) []*domain.SecurityEventSummary
	HighRisk(ctx context.Context, hours, limit int) []*domain.SecurityEvent
}

// SecurityHandler handles security-event queries
type SecurityHandler struct {
	service SecurityService
	logger  *slog.Logger
}

func NewSecurityHandler(service SecurityService, logger *slog.Logger) *SecurityHandler {
	return &SecurityHandler{service: service, logger: logger}
}

// Recent GET /api/security/events/recent?server_id=N&hours=24&limit=20
func (h *SecurityHandler) Recent(c *fiber.Ctx) error {
	serverID, err := optionalIntQuery(c, "server_id")
	if err != nil {
		return err
	}

	hours := c.QueryInt("hours", 24)
	limit := c.QueryInt("limit", 20)

	return c.JSON(h.service.Recent(c.Context(), serverID, hours, limit))
}

type securityEventsPage struct {
	Events   []*domain.SecurityEvent `json:"events"`
	Total    int                     `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
}

// List GET /api/security/events?server_id=N&severity=High&page=1&page_size=50
func (h *SecurityHandler) List(c *fiber.Ctx) error {
	serverID, err := optionalIntQuery(c, "server_id")
	if err != nil {
		return err
	}

	var severity *string
	if raw := c.Query("severity"); raw != "" {
		severity = &raw
	}

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 50)

	events, total := h.service.Events(c.Context(), serverID, severity, page, pageSize)

	return c.JSON(securityEventsPage{
		Events:   events,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// Counts GET /api/security/events/counts?hours=24
func (h *SecurityHandler) Counts(c *fiber.Ctx) error {
	hours := c.QueryInt("hours", 24)
	return c.JSON(h.service.Counts(c.Context(), hours))
}

// Summaries GET /api/security/events/summary?hours=24&limit=10
func (h *SecurityHandler) Summaries(c *fiber.Ctx) error {
	hours := c.QueryInt("hours", 24)
	limit := c.QueryInt("limit", 10)
	return c.JSON(h.service.Summaries(c.Context(), hours, limit))
}

// HighRisk GET /api/security/events/high-risk?hours=24&limit=20
func (h *SecurityHandler) HighRisk(c *fiber.Ctx) error {
	hours := c.QueryInt("hours", 24)
	limit := c.QueryInt("limit", 20)
	return c.JSON(h.service.HighRisk(c.Context(), hours, limit))
}

type recordEventRequest struct {
	ServerID    int     `json:"server_id"`
	EventType   string  `json:"event_type"`
	Description string  `json:"description"`
	UserName    *string `json:"user_name,omitempty"`
	Details     *string `json:"details,omitempty"`
	Severity    string  `json:"severity"`
}

// Record POST /api/security/events
func (h *SecurityHandler) Record(c *fiber.Ctx) error {
	var req recordEventRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if req.ServerID <= 0 || req.EventType == "" {
		return domain.ErrValidationFailed.WithError(errors.New("server_id and event_type are required"))
	}

	event := &domain.SecurityEvent{
		ServerID:    req.ServerID,
		EventType:   req.EventType,
		Description: req.Description,
		UserName:    req.UserName,
		Details:     req.Details,
		Severity:    req.Severity,
	}

	if err := h.service.Record(c.Context(), event); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(event)
}
