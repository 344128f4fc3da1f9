package collector

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

var demoDatabases = []string{"ProductionDB", "TestDB", "AnalyticsDB"}

// DemoSource synthesizes plausible samples for every server it is asked
// about. The ranges keep CPU below the default alert threshold most of
// the time so alerts stay meaningful in demo environments.
type DemoSource struct {
	rng *rand.Rand
}

func NewDemoSource() *DemoSource {
	return &DemoSource{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededDemoSource returns a source with a fixed seed.
func NewSeededDemoSource(seed int64) *DemoSource {
	return &DemoSource{rng: rand.New(rand.NewSource(seed))}
}

// Ping always succeeds; there is no real instance behind a demo source.
func (s *DemoSource) Ping(_ context.Context, _ *domain.MonitoredServer) error {
	return nil
}

func (s *DemoSource) Sample(_ context.Context, server *domain.MonitoredServer, at time.Time) (*Snapshot, error) {
	snap := &Snapshot{
		ServerMetrics: []domain.ServerMetric{
			{
				ServerID:       server.ID,
				MetricType:     domain.MetricTypePerformance,
				MetricName:     domain.MetricCPUPercent,
				MetricValue:    s.between(15, 45),
				UnitOfMeasure:  "Percent",
				CollectionTime: at,
			},
			{
				ServerID:       server.ID,
				MetricType:     domain.MetricTypePerformance,
				MetricName:     "Memory_Percent",
				MetricValue:    s.between(35, 70),
				UnitOfMeasure:  "Percent",
				CollectionTime: at,
			},
			{
				ServerID:       server.ID,
				MetricType:     domain.MetricTypeStorage,
				MetricName:     "Disk_Percent",
				MetricValue:    s.between(45, 80),
				UnitOfMeasure:  "Percent",
				CollectionTime: at,
			},
			{
				ServerID:       server.ID,
				MetricType:     domain.MetricTypeSessions,
				MetricName:     "Active_Sessions",
				MetricValue:    s.between(5, 40),
				UnitOfMeasure:  "Count",
				CollectionTime: at,
			},
		},
	}

	for _, name := range demoDatabases {
		size := s.between(1000, 6000)
		used := size.Mul(s.between(30, 80)).Div(decimal.NewFromInt(100)).Round(2)
		snap.DatabaseMetrics = append(snap.DatabaseMetrics, domain.DatabaseMetric{
			ServerID:       server.ID,
			DatabaseName:   name,
			DatabaseSize:   size,
			LogSize:        size.Div(decimal.NewFromInt(10)).Round(2),
			DataSize:       size.Sub(used).Round(2),
			DataUsed:       used,
			PercentUsed:    used.Div(size).Mul(decimal.NewFromInt(100)).Round(2),
			CollectionTime: at,
		})
	}

	return snap, nil
}

func (s *DemoSource) between(lo, hi int) decimal.Decimal {
	v := float64(lo) + s.rng.Float64()*float64(hi-lo)
	return decimal.NewFromFloat(v).Round(2)
}
