package alerting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

// Rule defaults, applied when a definition leaves the field unset.
const defaultTimeWindowMinutes = 5

var defaultThreshold = decimal.NewFromInt(80)

type MetricAverager interface {
	QueryMetricAverage(ctx context.Context, serverID *int, metricType, metricName string, since time.Time) ([]domain.MetricAverage, error)
}

// Evaluator computes breach tuples for one alert definition. Dispatch is
// by (alert type, metric name); shapes without evaluation logic produce
// no breaches and no error.
type Evaluator struct {
	metrics MetricAverager
}

func NewEvaluator(metrics MetricAverager) *Evaluator {
	return &Evaluator{metrics: metrics}
}

// Evaluate returns the servers currently breaching the definition,
// optionally restricted to one server. Callers treat the result as a
// set; ordering carries no meaning.
func (e *Evaluator) Evaluate(ctx context.Context, def *domain.AlertDefinition, scopeServerID *int, now time.Time) ([]domain.Breach, error) {
	metricName := ""
	if def.MetricName != nil {
		metricName = *def.MetricName
	}

	switch {
	case def.AlertType == domain.AlertTypePerformance && metricName == domain.MetricCPUPercent:
		return e.evaluateCPU(ctx, def, scopeServerID, now)
	case def.AlertType == domain.AlertTypeSecurity && metricName == domain.MetricFailedLogins:
		// Reserved rule shape: no evaluation logic yet.
		return nil, nil
	default:
		// Unmatched shapes are inert, not an error.
		return nil, nil
	}
}

func (e *Evaluator) evaluateCPU(ctx context.Context, def *domain.AlertDefinition, scopeServerID *int, now time.Time) ([]domain.Breach, error) {
	threshold := defaultThreshold
	if def.Threshold != nil {
		threshold = *def.Threshold
	}

	window := defaultTimeWindowMinutes
	if def.TimeWindowMinutes != nil {
		window = *def.TimeWindowMinutes
	}

	since := now.Add(-time.Duration(window) * time.Minute)

	averages, err := e.metrics.QueryMetricAverage(ctx, scopeServerID, domain.MetricTypePerformance, domain.MetricCPUPercent, since)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", def.Name, err)
	}

	var breaches []domain.Breach
	for _, avg := range averages {
		// Strict comparison: a mean exactly at the threshold does not breach.
		if !avg.Average.GreaterThan(threshold) {
			continue
		}

		breaches = append(breaches, domain.Breach{
			ServerID:      avg.ServerID,
			MeasuredValue: avg.Average,
			Threshold:     threshold,
			Message: fmt.Sprintf("High CPU usage: %s%% (threshold: %s%%)",
				avg.Average.StringFixed(1), threshold.String()),
		})
	}

	return breaches, nil
}
