package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

// Aggregation windows for the overview panels.
const (
	heartbeatWindow  = 5 * time.Minute
	metricsWindow    = time.Hour
	databaseWindow   = 24 * time.Hour
	securityWindow   = 24 * time.Hour
	databaseTopCount = 10
)

type ServerCounter interface {
	CountActive(ctx context.Context, heartbeatSince time.Time) (total int, alive int, err error)
}

type AlertCounter interface {
	CountActiveBySeverity(ctx context.Context, serverID *int) (map[string]int, error)
}

type MetricSummarizer interface {
	MetricSummaries(ctx context.Context, serverID *int, since time.Time) ([]domain.MetricSummary, error)
	DatabaseSummaries(ctx context.Context, serverID *int, since time.Time, limit int) ([]domain.DatabaseSummary, error)
}

type SecurityCounter interface {
	CountsBySeverity(ctx context.Context, since time.Time) (map[string]int, error)
}

// Overview is the aggregate payload behind the landing dashboard.
type Overview struct {
	TotalServers        int                      `json:"total_servers"`
	ActiveServers       int                      `json:"active_servers"`
	CriticalAlerts      int                      `json:"critical_alerts"`
	WarningAlerts       int                      `json:"warning_alerts"`
	RecentMetrics       []domain.MetricSummary   `json:"recent_metrics"`
	DatabaseSummaries   []domain.DatabaseSummary `json:"database_summaries"`
	SecurityEventCounts map[string]int           `json:"security_event_counts"`
}

// Service aggregates fleet health for dashboards. Every panel degrades
// independently: a failed sub-query logs and leaves that panel empty
// instead of failing the whole overview.
type Service struct {
	servers  ServerCounter
	alerts   AlertCounter
	metrics  MetricSummarizer
	security SecurityCounter
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(servers ServerCounter, alerts AlertCounter, metrics MetricSummarizer, security SecurityCounter, logger *slog.Logger) *Service {
	return &Service{
		servers:  servers,
		alerts:   alerts,
		metrics:  metrics,
		security: security,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) Overview(ctx context.Context, serverID *int) *Overview {
	now := s.now()
	overview := &Overview{
		RecentMetrics:       []domain.MetricSummary{},
		DatabaseSummaries:   []domain.DatabaseSummary{},
		SecurityEventCounts: map[string]int{},
	}

	total, alive, err := s.servers.CountActive(ctx, now.Add(-heartbeatWindow))
	if err != nil {
		s.logger.Error("failed to count servers", "error", err)
	} else {
		overview.TotalServers = total
		overview.ActiveServers = alive
	}

	severities, err := s.alerts.CountActiveBySeverity(ctx, serverID)
	if err != nil {
		s.logger.Error("failed to count active alerts", "error", err)
	} else {
		overview.CriticalAlerts = severities[domain.SeverityCritical]
		overview.WarningAlerts = severities[domain.SeverityWarning]
	}

	metrics, err := s.metrics.MetricSummaries(ctx, serverID, now.Add(-metricsWindow))
	if err != nil {
		s.logger.Error("failed to summarize metrics", "error", err)
	} else if metrics != nil {
		overview.RecentMetrics = metrics
	}

	databases, err := s.metrics.DatabaseSummaries(ctx, serverID, now.Add(-databaseWindow), databaseTopCount)
	if err != nil {
		s.logger.Error("failed to summarize databases", "error", err)
	} else if databases != nil {
		overview.DatabaseSummaries = databases
	}

	counts, err := s.security.CountsBySeverity(ctx, now.Add(-securityWindow))
	if err != nil {
		s.logger.Error("failed to count security events", "error", err)
	} else if counts != nil {
		overview.SecurityEventCounts = counts
	}

	return overview
}

// ServerStatus is one row of the per-server health table.
type ServerStatus struct {
	ServerID      int        `json:"server_id"`
	ServerName    string     `json:"server_name"`
	Environment   string     `json:"environment"`
	IsOnline      bool       `json:"is_online"`
	LastHeartbeat *time.Time `json:"last_heartbeat,omitempty"`
	ActiveAlerts  int        `json:"active_alerts"`
}

type ServerReader interface {
	List(ctx context.Context) ([]*domain.MonitoredServer, error)
}

type AlertReader interface {
	ListOpen(ctx context.Context, serverID *int) ([]*domain.ActiveAlert, error)
}

// StatusService projects per-server liveness plus open-alert counts.
type StatusService struct {
	servers ServerReader
	alerts  AlertReader
	logger  *slog.Logger
	now     func() time.Time
}

func NewStatusService(servers ServerReader, alerts AlertReader, logger *slog.Logger) *StatusService {
	return &StatusService{servers: servers, alerts: alerts, logger: logger, now: time.Now}
}

func (s *StatusService) ServerStatuses(ctx context.Context) []ServerStatus {
	servers, err := s.servers.List(ctx)
	if err != nil {
		s.logger.Error("failed to list servers", "error", err)
		return []ServerStatus{}
	}

	openCounts := make(map[int]int)
	if open, err := s.alerts.ListOpen(ctx, nil); err != nil {
		s.logger.Error("failed to list open alerts", "error", err)
	} else {
		for _, a := range open {
			openCounts[a.ServerID]++
		}
	}

	now := s.now()
	statuses := make([]ServerStatus, 0, len(servers))
	for _, srv := range servers {
		if !srv.IsActive {
			continue
		}
		statuses = append(statuses, ServerStatus{
			ServerID:      srv.ID,
			ServerName:    srv.Name,
			Environment:   srv.Environment,
			IsOnline:      srv.HeartbeatFresh(now, heartbeatWindow),
			LastHeartbeat: srv.LastHeartbeat,
			ActiveAlerts:  openCounts[srv.ID],
		})
	}

	return statuses
}
