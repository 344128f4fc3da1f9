package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

// MetricReader interface for raw metric history queries
type MetricReader interface {
	ListServerMetrics(ctx context.Context, serverID int, from, to *time.Time) ([]*domain.ServerMetric, error)
	ListDatabaseMetrics(ctx context.Context, serverID int, databaseName string, from, to *time.Time) ([]*domain.DatabaseMetric, error)
}

// MetricsHandler handles metric history queries
type MetricsHandler struct {
	metrics MetricReader
	logger  *slog.Logger
}

func NewMetricsHandler(metrics MetricReader, logger *slog.Logger) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, logger: logger}
}

// ServerMetrics GET /api/metrics/servers/:id?from=...&to=...
func (h *MetricsHandler) ServerMetrics(c *fiber.Ctx) error {
	serverID, err := serverIDParam(c)
	if err != nil {
		return err
	}

	from, to, err := timeRangeQuery(c)
	if err != nil {
		return err
	}

	metrics, err := h.metrics.ListServerMetrics(c.Context(), serverID, from, to)
	if err != nil {
		return err
	}
	if metrics == nil {
		metrics = []*domain.ServerMetric{}
	}

	return c.JSON(metrics)
}

// DatabaseMetrics GET /api/metrics/servers/:id/databases?database=Name&from=...&to=...
func (h *MetricsHandler) DatabaseMetrics(c *fiber.Ctx) error {
	serverID, err := serverIDParam(c)
	if err != nil {
		return err
	}

	from, to, err := timeRangeQuery(c)
	if err != nil {
		return err
	}

	metrics, err := h.metrics.ListDatabaseMetrics(c.Context(), serverID, c.Query("database"), from, to)
	if err != nil {
		return err
	}
	if metrics == nil {
		metrics = []*domain.DatabaseMetric{}
	}

	return c.JSON(metrics)
}

// timeRangeQuery parses optional RFC3339 from/to query parameters.
func timeRangeQuery(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, domain.ErrBadRequest.WithError(err)
		}
		from = &parsed
	}

	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, domain.ErrBadRequest.WithError(err)
		}
		to = &parsed
	}

	return from, to, nil
}
