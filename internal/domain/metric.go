package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Metric type labels as written by the sampler and matched by alert rules.
const (
	MetricTypePerformance = "Performance"
	MetricTypeStorage     = "Storage"
	MetricTypeSessions    = "Sessions"
)

// ServerMetric is one measurement for one server. Rows are append-only.
type ServerMetric struct {
	ID             int64           `json:"server_metric_id"`
	ServerID       int             `json:"server_id"`
	MetricType     string          `json:"metric_type"`
	MetricName     string          `json:"metric_name"`
	MetricValue    decimal.Decimal `json:"metric_value"`
	UnitOfMeasure  string          `json:"unit_of_measure"`
	CollectionTime time.Time       `json:"collection_time"`
}

// DatabaseMetric is a per-database size/usage snapshot on one server.
type DatabaseMetric struct {
	ID             int64           `json:"database_metric_id"`
	ServerID       int             `json:"server_id"`
	DatabaseName   string          `json:"database_name"`
	DatabaseSize   decimal.Decimal `json:"database_size"`
	LogSize        decimal.Decimal `json:"log_size"`
	DataSize       decimal.Decimal `json:"data_size"`
	DataUsed       decimal.Decimal `json:"data_used"`
	PercentUsed    decimal.Decimal `json:"percent_used"`
	CollectionTime time.Time       `json:"collection_time"`
}

// MetricAverage is a per-server mean produced by the trailing-window query
// that the rule evaluator runs.
type MetricAverage struct {
	ServerID int             `json:"server_id"`
	Average  decimal.Decimal `json:"average"`
}

// MetricSummary aggregates one metric type over a recent window (dashboard).
type MetricSummary struct {
	MetricType   string          `json:"metric_type"`
	AverageValue decimal.Decimal `json:"average_value"`
	MaxValue     decimal.Decimal `json:"max_value"`
	MinValue     decimal.Decimal `json:"min_value"`
}

// DatabaseSummary aggregates size/used-space per database (dashboard).
type DatabaseSummary struct {
	DatabaseName string          `json:"database_name"`
	TotalSize    decimal.Decimal `json:"total_size"`
	UsedSpace    decimal.Decimal `json:"used_space"`
}
