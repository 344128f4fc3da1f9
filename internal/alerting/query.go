package alerting

import (
	"context"
	"log/slog"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

type AlertReader interface {
	ListOpen(ctx context.Context, serverID *int) ([]*domain.ActiveAlert, error)
	ListEnabledDefinitions(ctx context.Context) ([]*domain.AlertDefinition, error)
}

// QueryService is the read side of the engine. It backs dashboards, so
// repository failures degrade to empty results instead of propagating.
type QueryService struct {
	alerts AlertReader
	logger *slog.Logger
}

func NewQueryService(alerts AlertReader, logger *slog.Logger) *QueryService {
	return &QueryService{alerts: alerts, logger: logger}
}

// GetActiveAlerts returns unresolved alerts (ACTIVE and ACKNOWLEDGED),
// most recent occurrence first, optionally scoped to one server.
func (s *QueryService) GetActiveAlerts(ctx context.Context, serverID *int) []*domain.ActiveAlert {
	alerts, err := s.alerts.ListOpen(ctx, serverID)
	if err != nil {
		s.logger.Error("failed to list open alerts", "error", err)
		return []*domain.ActiveAlert{}
	}

	if alerts == nil {
		return []*domain.ActiveAlert{}
	}

	return alerts
}

// GetAlertDefinitions returns the enabled definitions ordered by name.
func (s *QueryService) GetAlertDefinitions(ctx context.Context) []*domain.AlertDefinition {
	definitions, err := s.alerts.ListEnabledDefinitions(ctx)
	if err != nil {
		s.logger.Error("failed to list alert definitions", "error", err)
		return []*domain.AlertDefinition{}
	}

	if definitions == nil {
		return []*domain.AlertDefinition{}
	}

	return definitions
}
