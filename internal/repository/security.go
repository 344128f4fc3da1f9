package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

type SecurityEventRepository struct {
	pool PgxPool
}

func NewSecurityEventRepository(pool PgxPool) *SecurityEventRepository {
	return &SecurityEventRepository{pool: pool}
}

func (r *SecurityEventRepository) Insert(ctx context.Context, e *domain.SecurityEvent) error {
	query := `
		INSERT INTO security_events (server_id, event_type, description, user_name, details, severity, event_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING security_event_id
	`

	err := r.pool.QueryRow(ctx, query,
		e.ServerID, e.EventType, e.Description, e.UserName, e.Details, e.Severity, e.EventTime,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert security event: %w", err)
	}

	return nil
}

// ListRecent returns the newest events since the given time, joined with
// the server name, optionally scoped to one server.
func (r *SecurityEventRepository) ListRecent(ctx context.Context, serverID *int, since time.Time, limit int) ([]*domain.SecurityEvent, error) {
	query := `
		SELECT e.security_event_id, e.server_id, s.server_name, e.event_type,
		       e.description, e.user_name, e.details, e.severity, e.event_time
		FROM security_events e
		JOIN monitored_servers s ON s.server_id = e.server_id
		WHERE e.event_time >= $1
		  AND ($2::int IS NULL OR e.server_id = $2)
		ORDER BY e.event_time DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, since, serverID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent security events: %w", err)
	}
	defer rows.Close()

	return scanSecurityEvents(rows)
}

// ListPaginated returns one page of events plus the total count matching
// the filter.
func (r *SecurityEventRepository) ListPaginated(ctx context.Context, serverID *int, severity *string, page, pageSize int) ([]*domain.SecurityEvent, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM security_events
		WHERE ($1::int IS NULL OR server_id = $1)
		  AND ($2::text IS NULL OR severity = $2)
	`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, serverID, severity).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count security events: %w", err)
	}

	query := `
		SELECT e.security_event_id, e.server_id, s.server_name, e.event_type,
		       e.description, e.user_name, e.details, e.severity, e.event_time
		FROM security_events e
		JOIN monitored_servers s ON s.server_id = e.server_id
		WHERE ($1::int IS NULL OR e.server_id = $1)
		  AND ($2::text IS NULL OR e.severity = $2)
		ORDER BY e.event_time DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query, serverID, severity, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list security events: %w", err)
	}
	defer rows.Close()

	events, err := scanSecurityEvents(rows)
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// CountsBySeverity groups events since the given time by severity.
func (r *SecurityEventRepository) CountsBySeverity(ctx context.Context, since time.Time) (map[string]int, error) {
	query := `
		SELECT severity, COUNT(*)
		FROM security_events
		WHERE event_time >= $1
		GROUP BY severity
	`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("count security events by severity: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var severity string
		var count int
		if err := rows.Scan(&severity, &count); err != nil {
			return nil, fmt.Errorf("scan severity count: %w", err)
		}
		counts[severity] = count
	}

	return counts, rows.Err()
}

// Summaries groups recent events into (type, user, server) buckets with
// the latest occurrence of each, highest volume first.
func (r *SecurityEventRepository) Summaries(ctx context.Context, since time.Time, limit int) ([]*domain.SecurityEventSummary, error) {
	query := `
		SELECT e.event_type, MAX(e.description), COALESCE(e.user_name, ''),
		       e.severity, MAX(e.event_time), s.server_name, COUNT(*)
		FROM security_events e
		JOIN monitored_servers s ON s.server_id = e.server_id
		WHERE e.event_time >= $1
		GROUP BY e.event_type, e.user_name, e.severity, s.server_name
		ORDER BY COUNT(*) DESC, MAX(e.event_time) DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("summarize security events: %w", err)
	}
	defer rows.Close()

	var summaries []*domain.SecurityEventSummary
	for rows.Next() {
		var s domain.SecurityEventSummary
		err := rows.Scan(&s.EventType, &s.Description, &s.UserName, &s.Severity, &s.EventTime, &s.ServerName, &s.Count)
		if err != nil {
			return nil, fmt.Errorf("scan event summary: %w", err)
		}
		summaries = append(summaries, &s)
	}

	return summaries, rows.Err()
}

// HighRisk returns recent Critical and High events.
func (r *SecurityEventRepository) HighRisk(ctx context.Context, since time.Time, limit int) ([]*domain.SecurityEvent, error) {
	query := `
		SELECT e.security_event_id, e.server_id, s.server_name, e.event_type,
		       e.description, e.user_name, e.details, e.severity, e.event_time
		FROM security_events e
		JOIN monitored_servers s ON s.server_id = e.server_id
		WHERE e.event_time >= $1
		  AND e.severity IN ('Critical', 'High')
		ORDER BY e.event_time DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("list high risk events: %w", err)
	}
	defer rows.Close()

	return scanSecurityEvents(rows)
}

func scanSecurityEvents(rows pgx.Rows) ([]*domain.SecurityEvent, error) {
	var events []*domain.SecurityEvent
	for rows.Next() {
		var e domain.SecurityEvent
		err := rows.Scan(
			&e.ID, &e.ServerID, &e.ServerName, &e.EventType,
			&e.Description, &e.UserName, &e.Details, &e.Severity, &e.EventTime,
		)
		if err != nil {
			return nil, fmt.Errorf("scan security event: %w", err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}
