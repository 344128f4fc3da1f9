package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

const activeAlertColumns = `alert_id, server_id, alert_definition_id, alert_message, severity,
	       current_value, threshold_value, first_occurrence, last_occurrence,
	       occurrence_count, status, acknowledged_by, acknowledged_date, notes,
	       resolved_by, resolved_date`

type AlertRepository struct {
	pool PgxPool
}

func NewAlertRepository(pool PgxPool) *AlertRepository {
	return &AlertRepository{pool: pool}
}

// ListEnabledDefinitions returns the rule templates the evaluation
// scheduler runs every tick, ordered by name.
func (r *AlertRepository) ListEnabledDefinitions(ctx context.Context) ([]*domain.AlertDefinition, error) {
	query := `
		SELECT alert_definition_id, alert_name, alert_type, metric_name,
		       threshold, operator, time_window, description, severity,
		       is_enabled, email_notification, email_recipients,
		       created_by, created_date, modified_by, modified_date
		FROM alert_definitions
		WHERE is_enabled = true
		ORDER BY alert_name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list enabled definitions: %w", err)
	}
	defer rows.Close()

	var definitions []*domain.AlertDefinition
	for rows.Next() {
		var d domain.AlertDefinition
		err := rows.Scan(
			&d.ID, &d.Name, &d.AlertType, &d.MetricName,
			&d.Threshold, &d.Operator, &d.TimeWindowMinutes, &d.Description,
			&d.Severity, &d.IsEnabled, &d.EmailNotification, &d.EmailRecipients,
			&d.CreatedBy, &d.CreatedDate, &d.ModifiedBy, &d.ModifiedDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan definition: %w", err)
		}
		definitions = append(definitions, &d)
	}

	return definitions, rows.Err()
}

// UpsertBreach is the single atomic create-or-update behind the dedup
// contract. The conflict target is the partial unique index on
// (alert_definition_id, server_id) over unresolved rows, so a breach
// while an ACTIVE or ACKNOWLEDGED row exists accumulates on that row;
// after resolution a fresh row is inserted. The update arm leaves
// first_occurrence, status and the ack/resolve fields untouched. On
// return a.OccurrenceCount == 1 means a new row was created.
func (r *AlertRepository) UpsertBreach(ctx context.Context, a *domain.ActiveAlert) error {
	query := `
		INSERT INTO active_alerts (
			server_id, alert_definition_id, alert_message, severity,
			current_value, threshold_value, first_occurrence, last_occurrence,
			occurrence_count, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7, 1, 'ACTIVE')
		ON CONFLICT (alert_definition_id, server_id) WHERE status IN ('ACTIVE', 'ACKNOWLEDGED')
		DO UPDATE SET
			last_occurrence = EXCLUDED.last_occurrence,
			occurrence_count = active_alerts.occurrence_count + 1,
			current_value = EXCLUDED.current_value,
			alert_message = EXCLUDED.alert_message
		RETURNING alert_id, first_occurrence, last_occurrence, occurrence_count, status
	`

	err := r.pool.QueryRow(ctx, query,
		a.ServerID, a.AlertDefinitionID, a.AlertMessage, a.Severity,
		a.CurrentValue, a.ThresholdValue, a.LastOccurrence,
	).Scan(&a.ID, &a.FirstOccurrence, &a.LastOccurrence, &a.OccurrenceCount, &a.Status)

	if err != nil {
		return fmt.Errorf("upsert breach: %w", err)
	}

	return nil
}

// FindOpen looks up the unique unresolved row for a (definition, server)
// pair; nil when no such row exists.
func (r *AlertRepository) FindOpen(ctx context.Context, definitionID, serverID int) (*domain.ActiveAlert, error) {
	query := `
		SELECT ` + activeAlertColumns + `
		FROM active_alerts
		WHERE alert_definition_id = $1 AND server_id = $2
		  AND status IN ('ACTIVE', 'ACKNOWLEDGED')
	`

	var a domain.ActiveAlert
	err := r.pool.QueryRow(ctx, query, definitionID, serverID).Scan(alertFields(&a)...)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find open alert: %w", err)
	}

	return &a, nil
}

func (r *AlertRepository) GetByID(ctx context.Context, id int64) (*domain.ActiveAlert, error) {
	query := `
		SELECT ` + activeAlertColumns + `
		FROM active_alerts
		WHERE alert_id = $1
	`

	var a domain.ActiveAlert
	err := r.pool.QueryRow(ctx, query, id).Scan(alertFields(&a)...)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAlertNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get alert by id: %w", err)
	}

	return &a, nil
}

// Save persists the lifecycle fields mutated by acknowledge/resolve.
func (r *AlertRepository) Save(ctx context.Context, a *domain.ActiveAlert) error {
	query := `
		UPDATE active_alerts
		SET status = $2, acknowledged_by = $3, acknowledged_date = $4,
		    notes = $5, resolved_by = $6, resolved_date = $7
		WHERE alert_id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		a.ID, a.Status, a.AcknowledgedBy, a.AcknowledgedDate,
		a.Notes, a.ResolvedBy, a.ResolvedDate,
	)
	if err != nil {
		return fmt.Errorf("save alert: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrAlertNotFound
	}

	return nil
}

// ListOpen returns ACTIVE and ACKNOWLEDGED alerts, newest occurrence
// first, optionally scoped to one server. RESOLVED rows never appear.
func (r *AlertRepository) ListOpen(ctx context.Context, serverID *int) ([]*domain.ActiveAlert, error) {
	query := `
		SELECT ` + activeAlertColumns + `
		FROM active_alerts
		WHERE status IN ('ACTIVE', 'ACKNOWLEDGED')
		  AND ($1::int IS NULL OR server_id = $1)
		ORDER BY last_occurrence DESC
	`

	rows, err := r.pool.Query(ctx, query, serverID)
	if err != nil {
		return nil, fmt.Errorf("list open alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*domain.ActiveAlert
	for rows.Next() {
		var a domain.ActiveAlert
		if err := rows.Scan(alertFields(&a)...); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, &a)
	}

	return alerts, rows.Err()
}

// CountActiveBySeverity groups ACTIVE alerts by severity (dashboard
// overview), optionally scoped to one server.
func (r *AlertRepository) CountActiveBySeverity(ctx context.Context, serverID *int) (map[string]int, error) {
	query := `
		SELECT severity, COUNT(*)
		FROM active_alerts
		WHERE status = 'ACTIVE'
		  AND ($1::int IS NULL OR server_id = $1)
		GROUP BY severity
	`

	rows, err := r.pool.Query(ctx, query, serverID)
	if err != nil {
		return nil, fmt.Errorf("count active alerts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var severity string
		var count int
		if err := rows.Scan(&severity, &count); err != nil {
			return nil, fmt.Errorf("scan alert count: %w", err)
		}
		counts[severity] = count
	}

	return counts, rows.Err()
}

func alertFields(a *domain.ActiveAlert) []any {
	return []any{
		&a.ID, &a.ServerID, &a.AlertDefinitionID, &a.AlertMessage, &a.Severity,
		&a.CurrentValue, &a.ThresholdValue, &a.FirstOccurrence, &a.LastOccurrence,
		&a.OccurrenceCount, &a.Status, &a.AcknowledgedBy, &a.AcknowledgedDate,
		&a.Notes, &a.ResolvedBy, &a.ResolvedDate,
	}
}
