package alerting

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

type AlertStore interface {
	UpsertBreach(ctx context.Context, a *domain.ActiveAlert) error
	GetByID(ctx context.Context, id int64) (*domain.ActiveAlert, error)
	Save(ctx context.Context, a *domain.ActiveAlert) error
}

// EventSink receives best-effort notifications after lifecycle writes
// commit. Implementations must not block; may be nil.
type EventSink interface {
	AlertCreated(a *domain.ActiveAlert)
	AlertUpdated(a *domain.ActiveAlert)
}

// SinkList fans lifecycle events out to several sinks. Nil entries are
// skipped.
type SinkList []EventSink

func (s SinkList) AlertCreated(a *domain.ActiveAlert) {
	for _, sink := range s {
		if sink != nil {
			sink.AlertCreated(a)
		}
	}
}

func (s SinkList) AlertUpdated(a *domain.ActiveAlert) {
	for _, sink := range s {
		if sink != nil {
			sink.AlertUpdated(a)
		}
	}
}

// Lifecycle owns the active-alert state machine:
// ACTIVE -> ACKNOWLEDGED -> RESOLVED, plus ACTIVE -> RESOLVED directly.
// RESOLVED is terminal.
type Lifecycle struct {
	alerts AlertStore
	events EventSink
	logger *slog.Logger
	now    func() time.Time
}

func NewLifecycle(alerts AlertStore, events EventSink, logger *slog.Logger) *Lifecycle {
	return &Lifecycle{
		alerts: alerts,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// RecordBreach applies one breach to the dedup row for the
// (definition, server) pair: a new ACTIVE row on first breach, occurrence
// accumulation on the existing unresolved row otherwise. The write is a
// single atomic upsert, so concurrent evaluations cannot produce
// duplicate rows for one pair.
func (l *Lifecycle) RecordBreach(ctx context.Context, definitionID, serverID int, message string, currentValue, thresholdValue decimal.Decimal, severity string, now time.Time) (*domain.ActiveAlert, error) {
	alert := &domain.ActiveAlert{
		ServerID:          serverID,
		AlertDefinitionID: definitionID,
		AlertMessage:      message,
		Severity:          severity,
		CurrentValue:      currentValue,
		ThresholdValue:    thresholdValue,
		LastOccurrence:    now,
	}

	if err := l.alerts.UpsertBreach(ctx, alert); err != nil {
		return nil, fmt.Errorf("record breach: %w", err)
	}

	if alert.OccurrenceCount == 1 {
		l.logger.Info("alert raised",
			"alert_id", alert.ID,
			"server_id", serverID,
			"definition_id", definitionID,
			"severity", severity,
			"value", currentValue,
		)
		if l.events != nil {
			l.events.AlertCreated(alert)
		}
	} else {
		l.logger.Debug("alert occurrence accumulated",
			"alert_id", alert.ID,
			"occurrence_count", alert.OccurrenceCount,
		)
		if l.events != nil {
			l.events.AlertUpdated(alert)
		}
	}

	return alert, nil
}

// Acknowledge marks the alert as seen by an operator. Re-acknowledging
// an ACKNOWLEDGED alert updates the stamp; a RESOLVED alert cannot be
// reopened. Non-empty notes overwrite the previous notes.
func (l *Lifecycle) Acknowledge(ctx context.Context, alertID int64, by string, notes *string) (*domain.ActiveAlert, error) {
	alert, err := l.alerts.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}

	if alert.Status == domain.AlertStatusResolved {
		return nil, domain.ErrAlertResolved
	}

	at := l.now()
	alert.Status = domain.AlertStatusAcknowledged
	alert.AcknowledgedBy = &by
	alert.AcknowledgedDate = &at
	if notes != nil && *notes != "" {
		alert.Notes = notes
	}

	if err := l.alerts.Save(ctx, alert); err != nil {
		return nil, fmt.Errorf("acknowledge alert %d: %w", alertID, err)
	}

	l.logger.Info("alert acknowledged", "alert_id", alertID, "by", by)

	if l.events != nil {
		l.events.AlertUpdated(alert)
	}

	return alert, nil
}

// Resolve closes the alert. Non-empty notes are appended to the existing
// notes rather than overwriting them. After resolution the next breach of
// the same (definition, server) pair opens a fresh row.
func (l *Lifecycle) Resolve(ctx context.Context, alertID int64, by string, notes *string) (*domain.ActiveAlert, error) {
	alert, err := l.alerts.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}

	at := l.now()
	alert.Status = domain.AlertStatusResolved
	alert.ResolvedBy = &by
	alert.ResolvedDate = &at
	if notes != nil && *notes != "" {
		appended := fmt.Sprintf("Resolved: %s", *notes)
		if alert.Notes != nil && *alert.Notes != "" {
			appended = *alert.Notes + "\n" + appended
		}
		alert.Notes = &appended
	}

	if err := l.alerts.Save(ctx, alert); err != nil {
		return nil, fmt.Errorf("resolve alert %d: %w", alertID, err)
	}

	l.logger.Info("alert resolved", "alert_id", alertID, "by", by)

	if l.events != nil {
		l.events.AlertUpdated(alert)
	}

	return alert, nil
}
