package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CollectionRunner interface for one out-of-band collection pass
type CollectionRunner interface {
	CollectAll(ctx context.Context, now time.Time)
}

// EvaluationRunner interface for one out-of-band evaluation pass
type EvaluationRunner interface {
	RunTick(ctx context.Context, now time.Time)
}

// MonitoringHandler triggers collection and evaluation passes outside
// their schedules, mainly for demos and troubleshooting.
type MonitoringHandler struct {
	collector CollectionRunner
	evaluator EvaluationRunner
	logger    *slog.Logger
}

func NewMonitoringHandler(collector CollectionRunner, evaluator EvaluationRunner, logger *slog.Logger) *MonitoringHandler {
	return &MonitoringHandler{
		collector: collector,
		evaluator: evaluator,
		logger:    logger,
	}
}

// Collect POST /api/monitoring/collect
func (h *MonitoringHandler) Collect(c *fiber.Ctx) error {
	h.logger.Info("manual collection pass requested")
	h.collector.CollectAll(c.Context(), time.Now())

	return c.JSON(fiber.Map{"message": "collection pass completed"})
}

// Evaluate POST /api/monitoring/evaluate
func (h *MonitoringHandler) Evaluate(c *fiber.Ctx) error {
	h.logger.Info("manual evaluation pass requested")
	h.evaluator.RunTick(c.Context(), time.Now())

	return c.JSON(fiber.Map{"message": "evaluation pass completed"})
}
