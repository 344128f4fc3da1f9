package collector

import (
	"context"
	"log/slog"
	"time"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

type ServerLister interface {
	ListActive(ctx context.Context) ([]*domain.MonitoredServer, error)
	UpdateHeartbeat(ctx context.Context, id int, at time.Time) error
}

type MetricWriter interface {
	AppendServerMetrics(ctx context.Context, samples []domain.ServerMetric) error
	AppendDatabaseMetrics(ctx context.Context, samples []domain.DatabaseMetric) error
}

// EventSink receives a notification after each successful per-server
// collection pass. May be nil.
type EventSink interface {
	MetricsCollected(serverID int, at time.Time)
}

// Sampler runs one collection pass over the active fleet. A failure on
// one server is logged and skipped; the rest of the fleet still gets
// visited, and that server keeps its previous heartbeat.
type Sampler struct {
	servers ServerLister
	metrics MetricWriter
	source  MetricSource
	events  EventSink
	logger  *slog.Logger
}

func NewSampler(servers ServerLister, metrics MetricWriter, source MetricSource, events EventSink, logger *slog.Logger) *Sampler {
	return &Sampler{
		servers: servers,
		metrics: metrics,
		source:  source,
		events:  events,
		logger:  logger,
	}
}

func (s *Sampler) CollectAll(ctx context.Context, now time.Time) {
	servers, err := s.servers.ListActive(ctx)
	if err != nil {
		s.logger.Error("failed to list active servers", "error", err)
		return
	}

	s.logger.Debug("collecting metrics", "servers", len(servers))

	for _, server := range servers {
		if err := s.CollectServer(ctx, server, now); err != nil {
			s.logger.Error("failed to collect metrics",
				"server_id", server.ID,
				"server_name", server.Name,
				"error", err,
			)
			continue
		}

		if s.events != nil {
			s.events.MetricsCollected(server.ID, now)
		}
	}
}

// CollectServer samples one server and persists the snapshot. The
// heartbeat is only advanced after everything else succeeded.
func (s *Sampler) CollectServer(ctx context.Context, server *domain.MonitoredServer, now time.Time) error {
	snap, err := s.source.Sample(ctx, server, now)
	if err != nil {
		return err
	}

	if err := s.metrics.AppendServerMetrics(ctx, snap.ServerMetrics); err != nil {
		return err
	}

	if err := s.metrics.AppendDatabaseMetrics(ctx, snap.DatabaseMetrics); err != nil {
		return err
	}

	if err := s.servers.UpdateHeartbeat(ctx, server.ID, now); err != nil {
		return err
	}

	s.logger.Info("collected metrics",
		"server_id", server.ID,
		"server_name", server.Name,
		"server_samples", len(snap.ServerMetrics),
		"database_samples", len(snap.DatabaseMetrics),
	)

	return nil
}

// TestConnection checks reachability of one server through the metric
// source without persisting anything.
func (s *Sampler) TestConnection(ctx context.Context, server *domain.MonitoredServer) error {
	return s.source.Ping(ctx, server)
}
