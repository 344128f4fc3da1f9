package collector

import (
	"context"
	"time"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

// Snapshot is the result of one collection pass against one server.
type Snapshot struct {
	ServerMetrics   []domain.ServerMetric
	DatabaseMetrics []domain.DatabaseMetric
}

// MetricSource produces a snapshot for one server. A production source
// connects to the monitored instance; DemoSource synthesizes values so
// the pipeline runs without a fleet behind it.
type MetricSource interface {
	Sample(ctx context.Context, server *domain.MonitoredServer, at time.Time) (*Snapshot, error)
	Ping(ctx context.Context, server *domain.MonitoredServer) error
}
