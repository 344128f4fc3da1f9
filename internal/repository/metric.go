package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

type MetricRepository struct {
	pool PgxPool
}

func NewMetricRepository(pool PgxPool) *MetricRepository {
	return &MetricRepository{pool: pool}
}

// AppendServerMetrics writes one row per sample. Rows are append-only;
// there is no update path for metrics.
func (r *MetricRepository) AppendServerMetrics(ctx context.Context, samples []domain.ServerMetric) error {
	query := `
		INSERT INTO server_metrics (
			server_id, metric_type, metric_name, metric_value,
			unit_of_measure, collection_time
		)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, m := range samples {
		_, err := r.pool.Exec(ctx, query,
			m.ServerID, m.MetricType, m.MetricName, m.MetricValue,
			m.UnitOfMeasure, m.CollectionTime,
		)
		if err != nil {
			return fmt.Errorf("append server metric %s/%s: %w", m.MetricType, m.MetricName, err)
		}
	}

	return nil
}

func (r *MetricRepository) AppendDatabaseMetrics(ctx context.Context, samples []domain.DatabaseMetric) error {
	query := `
		INSERT INTO database_metrics (
			server_id, database_name, database_size, log_size,
			data_size, data_used, percent_used, collection_time
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, m := range samples {
		_, err := r.pool.Exec(ctx, query,
			m.ServerID, m.DatabaseName, m.DatabaseSize, m.LogSize,
			m.DataSize, m.DataUsed, m.PercentUsed, m.CollectionTime,
		)
		if err != nil {
			return fmt.Errorf("append database metric %s: %w", m.DatabaseName, err)
		}
	}

	return nil
}

// QueryMetricAverage computes the per-server arithmetic mean of the named
// metric since the given time. A nil serverID means all servers. The
// average comes back as NUMERIC so threshold comparison stays fixed-point.
func (r *MetricRepository) QueryMetricAverage(ctx context.Context, serverID *int, metricType, metricName string, since time.Time) ([]domain.MetricAverage, error) {
	query := `
		SELECT server_id, AVG(metric_value)
		FROM server_metrics
		WHERE metric_type = $1
		  AND metric_name = $2
		  AND collection_time >= $3
		  AND ($4::int IS NULL OR server_id = $4)
		GROUP BY server_id
	`

	rows, err := r.pool.Query(ctx, query, metricType, metricName, since, serverID)
	if err != nil {
		return nil, fmt.Errorf("query metric average: %w", err)
	}
	defer rows.Close()

	var averages []domain.MetricAverage
	for rows.Next() {
		var a domain.MetricAverage
		if err := rows.Scan(&a.ServerID, &a.Average); err != nil {
			return nil, fmt.Errorf("scan metric average: %w", err)
		}
		averages = append(averages, a)
	}

	return averages, rows.Err()
}

func (r *MetricRepository) ListServerMetrics(ctx context.Context, serverID int, from, to *time.Time) ([]*domain.ServerMetric, error) {
	query := `
		SELECT server_metric_id, server_id, metric_type, metric_name,
		       metric_value, unit_of_measure, collection_time
		FROM server_metrics
		WHERE server_id = $1
		  AND ($2::timestamptz IS NULL OR collection_time >= $2)
		  AND ($3::timestamptz IS NULL OR collection_time <= $3)
		ORDER BY collection_time DESC
	`

	rows, err := r.pool.Query(ctx, query, serverID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list server metrics: %w", err)
	}
	defer rows.Close()

	var metrics []*domain.ServerMetric
	for rows.Next() {
		var m domain.ServerMetric
		err := rows.Scan(
			&m.ID, &m.ServerID, &m.MetricType, &m.MetricName,
			&m.MetricValue, &m.UnitOfMeasure, &m.CollectionTime,
		)
		if err != nil {
			return nil, fmt.Errorf("scan server metric: %w", err)
		}
		metrics = append(metrics, &m)
	}

	return metrics, rows.Err()
}

func (r *MetricRepository) ListDatabaseMetrics(ctx context.Context, serverID int, databaseName string, from, to *time.Time) ([]*domain.DatabaseMetric, error) {
	query := `
		SELECT database_metric_id, server_id, database_name, database_size,
		       log_size, data_size, data_used, percent_used, collection_time
		FROM database_metrics
		WHERE server_id = $1
		  AND ($2::varchar IS NULL OR $2 = '' OR database_name = $2)
		  AND ($3::timestamptz IS NULL OR collection_time >= $3)
		  AND ($4::timestamptz IS NULL OR collection_time <= $4)
		ORDER BY collection_time DESC
	`

	rows, err := r.pool.Query(ctx, query, serverID, databaseName, from, to)
	if err != nil {
		return nil, fmt.Errorf("list database metrics: %w", err)
	}
	defer rows.Close()

	var metrics []*domain.DatabaseMetric
	for rows.Next() {
		var m domain.DatabaseMetric
		err := rows.Scan(
			&m.ID, &m.ServerID, &m.DatabaseName, &m.DatabaseSize,
			&m.LogSize, &m.DataSize, &m.DataUsed, &m.PercentUsed,
			&m.CollectionTime,
		)
		if err != nil {
			return nil, fmt.Errorf("scan database metric: %w", err)
		}
		metrics = append(metrics, &m)
	}

	return metrics, rows.Err()
}

// MetricSummaries aggregates min/avg/max per metric type since the given
// time (dashboard overview).
func (r *MetricRepository) MetricSummaries(ctx context.Context, serverID *int, since time.Time) ([]domain.MetricSummary, error) {
	query := `
		SELECT metric_type, AVG(metric_value), MAX(metric_value), MIN(metric_value)
		FROM server_metrics
		WHERE collection_time >= $1
		  AND ($2::int IS NULL OR server_id = $2)
		GROUP BY metric_type
	`

	rows, err := r.pool.Query(ctx, query, since, serverID)
	if err != nil {
		return nil, fmt.Errorf("metric summaries: %w", err)
	}
	defer rows.Close()

	var summaries []domain.MetricSummary
	for rows.Next() {
		var s domain.MetricSummary
		if err := rows.Scan(&s.MetricType, &s.AverageValue, &s.MaxValue, &s.MinValue); err != nil {
			return nil, fmt.Errorf("scan metric summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// DatabaseSummaries aggregates per-database size and used space since the
// given time, largest first.
func (r *MetricRepository) DatabaseSummaries(ctx context.Context, serverID *int, since time.Time, limit int) ([]domain.DatabaseSummary, error) {
	query := `
		SELECT database_name, SUM(database_size), AVG(data_used)
		FROM database_metrics
		WHERE collection_time >= $1
		  AND ($2::int IS NULL OR server_id = $2)
		GROUP BY database_name
		ORDER BY SUM(database_size) DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, since, serverID, limit)
	if err != nil {
		return nil, fmt.Errorf("database summaries: %w", err)
	}
	defer rows.Close()

	var summaries []domain.DatabaseSummary
	for rows.Next() {
		var s domain.DatabaseSummary
		if err := rows.Scan(&s.DatabaseName, &s.TotalSize, &s.UsedSpace); err != nil {
			return nil, fmt.Errorf("scan database summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}
