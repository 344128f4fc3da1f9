package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

const serverColumns = `server_id, server_name, connection_string, environment,
	       is_active, monitoring_enabled, last_heartbeat, created_date, description`

type ServerRepository struct {
	pool PgxPool
}

func NewServerRepository(pool PgxPool) *ServerRepository {
	return &ServerRepository{pool: pool}
}

func (r *ServerRepository) GetByID(ctx context.Context, id int) (*domain.MonitoredServer, error) {
	query := `
		SELECT ` + serverColumns + `
		FROM monitored_servers
		WHERE server_id = $1
	`

	var s domain.MonitoredServer
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Name,
		&s.ConnectionString,
		&s.Environment,
		&s.IsActive,
		&s.MonitoringEnabled,
		&s.LastHeartbeat,
		&s.CreatedDate,
		&s.Description,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrServerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get server by id: %w", err)
	}

	return &s, nil
}

// List returns every registered server, ordered by name, for the
// management API.
func (r *ServerRepository) List(ctx context.Context) ([]*domain.MonitoredServer, error) {
	query := `
		SELECT ` + serverColumns + `
		FROM monitored_servers
		ORDER BY server_name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list servers: %w", err)
	}
	defer rows.Close()

	return scanServers(rows)
}

// ListActive returns the servers both schedulers visit: active and with
// monitoring enabled.
func (r *ServerRepository) ListActive(ctx context.Context) ([]*domain.MonitoredServer, error) {
	query := `
		SELECT ` + serverColumns + `
		FROM monitored_servers
		WHERE is_active = true AND monitoring_enabled = true
		ORDER BY server_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active servers: %w", err)
	}
	defer rows.Close()

	return scanServers(rows)
}

func (r *ServerRepository) Create(ctx context.Context, s *domain.MonitoredServer) error {
	query := `
		INSERT INTO monitored_servers (
			server_name, connection_string, environment, is_active,
			monitoring_enabled, last_heartbeat, description
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING server_id, created_date
	`

	err := r.pool.QueryRow(ctx, query,
		s.Name, s.ConnectionString, s.Environment, s.IsActive,
		s.MonitoringEnabled, s.LastHeartbeat, s.Description,
	).Scan(&s.ID, &s.CreatedDate)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrServerExists
		}
		return fmt.Errorf("create server: %w", err)
	}

	return nil
}

func (r *ServerRepository) Update(ctx context.Context, s *domain.MonitoredServer) error {
	query := `
		UPDATE monitored_servers
		SET server_name = $2, connection_string = $3, environment = $4,
		    is_active = $5, monitoring_enabled = $6, description = $7
		WHERE server_id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		s.ID, s.Name, s.ConnectionString, s.Environment,
		s.IsActive, s.MonitoringEnabled, s.Description,
	)
	if err != nil {
		return fmt.Errorf("update server: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrServerNotFound
	}

	return nil
}

// Delete removes the server; metric, alert and security-event rows go with
// it via ON DELETE CASCADE.
func (r *ServerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM monitored_servers WHERE server_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete server: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrServerNotFound
	}

	return nil
}

// UpdateHeartbeat is called by the sampler only after a successful
// collection pass; a failed pass leaves the previous value in place.
func (r *ServerRepository) UpdateHeartbeat(ctx context.Context, id int, at time.Time) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE monitored_servers SET last_heartbeat = $2 WHERE server_id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("update heartbeat: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrServerNotFound
	}

	return nil
}

// CountActive returns (total active, active with a heartbeat inside the
// liveness window) for the dashboard overview.
func (r *ServerRepository) CountActive(ctx context.Context, heartbeatSince time.Time) (total int, alive int, err error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE last_heartbeat > $1)
		FROM monitored_servers
		WHERE is_active = true
	`

	if err := r.pool.QueryRow(ctx, query, heartbeatSince).Scan(&total, &alive); err != nil {
		return 0, 0, fmt.Errorf("count active servers: %w", err)
	}

	return total, alive, nil
}

func scanServers(rows pgx.Rows) ([]*domain.MonitoredServer, error) {
	var servers []*domain.MonitoredServer
	for rows.Next() {
		var s domain.MonitoredServer
		err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.ConnectionString,
			&s.Environment,
			&s.IsActive,
			&s.MonitoringEnabled,
			&s.LastHeartbeat,
			&s.CreatedDate,
			&s.Description,
		)
		if err != nil {
			return nil, fmt.Errorf("scan server: %w", err)
		}
		servers = append(servers, &s)
	}

	return servers, rows.Err()
}
