package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Alert statuses. ACTIVE is the sole initial state, RESOLVED is terminal.
const (
	AlertStatusActive       = "ACTIVE"
	AlertStatusAcknowledged = "ACKNOWLEDGED"
	AlertStatusResolved     = "RESOLVED"
)

// Alert rule categories. Only PERFORMANCE/CPU_Percent carries evaluation
// logic today; SECURITY/Failed_Logins is a reserved extension point.
const (
	AlertTypePerformance = "PERFORMANCE"
	AlertTypeSecurity    = "SECURITY"

	MetricCPUPercent   = "CPU_Percent"
	MetricFailedLogins = "Failed_Logins"
)

// Severity labels shared by alert definitions and security events.
const (
	SeverityCritical = "Critical"
	SeverityHigh     = "High"
	SeverityWarning  = "Warning"
	SeverityMedium   = "Medium"
	SeverityInfo     = "Info"
)

// AlertDefinition is a named rule template, managed by operators and read
// by the evaluation scheduler. Threshold, Operator and TimeWindow are
// optional; the evaluator resolves them to defaults at entry.
type AlertDefinition struct {
	ID                int              `json:"alert_definition_id"`
	Name              string           `json:"alert_name"`
	AlertType         string           `json:"alert_type"`
	MetricName        *string          `json:"metric_name,omitempty"`
	Threshold         *decimal.Decimal `json:"threshold,omitempty"`
	Operator          *string          `json:"operator,omitempty"`
	TimeWindowMinutes *int             `json:"time_window,omitempty"`
	Description       *string          `json:"description,omitempty"`
	Severity          string           `json:"severity"`
	IsEnabled         bool             `json:"is_enabled"`
	EmailNotification bool             `json:"email_notification"`
	EmailRecipients   *string          `json:"email_recipients,omitempty"`
	CreatedBy         *string          `json:"created_by,omitempty"`
	CreatedDate       time.Time        `json:"created_date"`
	ModifiedBy        *string          `json:"modified_by,omitempty"`
	ModifiedDate      time.Time        `json:"modified_date"`
}

// ActiveAlert is the stateful record of a rule breached for one server.
// At most one unresolved row may exist per (definition, server) pair;
// repeated breaches accumulate on that row instead of creating new ones,
// and only resolution allows a fresh row for the same pair.
type ActiveAlert struct {
	ID                int64           `json:"alert_id"`
	ServerID          int             `json:"server_id"`
	AlertDefinitionID int             `json:"alert_definition_id"`
	AlertMessage      string          `json:"alert_message"`
	Severity          string          `json:"severity"`
	CurrentValue      decimal.Decimal `json:"current_value"`
	ThresholdValue    decimal.Decimal `json:"threshold_value"`
	FirstOccurrence   time.Time       `json:"first_occurrence"`
	LastOccurrence    time.Time       `json:"last_occurrence"`
	OccurrenceCount   int             `json:"occurrence_count"`
	Status            string          `json:"status"`
	AcknowledgedBy    *string         `json:"acknowledged_by,omitempty"`
	AcknowledgedDate  *time.Time      `json:"acknowledged_date,omitempty"`
	Notes             *string         `json:"notes,omitempty"`
	ResolvedBy        *string         `json:"resolved_by,omitempty"`
	ResolvedDate      *time.Time      `json:"resolved_date,omitempty"`
}

// Breach is one (server, measured value) tuple produced by rule
// evaluation. Threshold carries the resolved threshold the rule was
// evaluated against, not the raw nullable definition field.
type Breach struct {
	ServerID      int
	MeasuredValue decimal.Decimal
	Threshold     decimal.Decimal
	Message       string
}
