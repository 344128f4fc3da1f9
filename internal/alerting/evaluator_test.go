package alerting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

type sample struct {
	serverID int
	value    decimal.Decimal
	at       time.Time
}

// fakeMetricAverager mimics the trailing-window mean query over an
// in-memory sample set, recording the window start it was asked for.
type fakeMetricAverager struct {
	samples   []sample
	lastSince time.Time
	err       error
}

func (f *fakeMetricAverager) QueryMetricAverage(ctx context.Context, serverID *int, metricType, metricName string, since time.Time) ([]domain.MetricAverage, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.lastSince = since

	sums := make(map[int]decimal.Decimal)
	counts := make(map[int]int64)
	for _, s := range f.samples {
		if s.at.Before(since) {
			continue
		}
		if serverID != nil && s.serverID != *serverID {
			continue
		}
		sums[s.serverID] = sums[s.serverID].Add(s.value)
		counts[s.serverID]++
	}

	var averages []domain.MetricAverage
	for id, sum := range sums {
		averages = append(averages, domain.MetricAverage{
			ServerID: id,
			Average:  sum.Div(decimal.NewFromInt(counts[id])),
		})
	}

	return averages, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func cpuDefinition(threshold *decimal.Decimal, window *int) *domain.AlertDefinition {
	metric := domain.MetricCPUPercent
	return &domain.AlertDefinition{
		ID:                1,
		Name:              "High CPU Usage",
		AlertType:         domain.AlertTypePerformance,
		MetricName:        &metric,
		Threshold:         threshold,
		TimeWindowMinutes: window,
		Severity:          domain.SeverityWarning,
		IsEnabled:         true,
	}
}

func TestEvaluator_Evaluate_ThresholdBoundary(t *testing.T) {
	now := time.Now()
	threshold := dec("80")

	tests := []struct {
		name       string
		average    string
		wantBreach bool
	}{
		{"exactly at threshold does not breach", "80", false},
		{"just above threshold breaches", "80.01", true},
		{"one unit above breaches", "81", true},
		{"below threshold does not breach", "79.99", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := &fakeMetricAverager{samples: []sample{
				{serverID: 7, value: dec(tt.average), at: now.Add(-time.Minute)},
			}}
			evaluator := NewEvaluator(metrics)

			breaches, err := evaluator.Evaluate(context.Background(), cpuDefinition(&threshold, nil), nil, now)
			require.NoError(t, err)

			if tt.wantBreach {
				require.Len(t, breaches, 1)
				assert.Equal(t, 7, breaches[0].ServerID)
				assert.True(t, breaches[0].MeasuredValue.Equal(dec(tt.average)))
				assert.True(t, breaches[0].Threshold.Equal(threshold))
				assert.Contains(t, breaches[0].Message, "High CPU usage")
				assert.Contains(t, breaches[0].Message, "threshold: 80%")
			} else {
				assert.Empty(t, breaches)
			}
		})
	}
}

func TestEvaluator_Evaluate_TimeWindow(t *testing.T) {
	now := time.Now()
	window := 5

	metrics := &fakeMetricAverager{samples: []sample{
		// One second inside the window: included.
		{serverID: 7, value: dec("95"), at: now.Add(-5*time.Minute + time.Second)},
		// Outside the window: excluded. Would drag the mean below the
		// threshold if it leaked in.
		{serverID: 7, value: dec("10"), at: now.Add(-5*time.Minute - time.Second)},
		{serverID: 7, value: dec("10"), at: now.Add(-time.Hour)},
	}}
	evaluator := NewEvaluator(metrics)

	threshold := dec("80")
	breaches, err := evaluator.Evaluate(context.Background(), cpuDefinition(&threshold, &window), nil, now)
	require.NoError(t, err)

	require.Len(t, breaches, 1)
	assert.True(t, breaches[0].MeasuredValue.Equal(dec("95")))
	assert.Equal(t, now.Add(-5*time.Minute), metrics.lastSince)
}

func TestEvaluator_Evaluate_Defaults(t *testing.T) {
	now := time.Now()

	metrics := &fakeMetricAverager{samples: []sample{
		{serverID: 7, value: dec("80.5"), at: now.Add(-time.Minute)},
	}}
	evaluator := NewEvaluator(metrics)

	// Nil threshold and window resolve to 80 and 5 minutes.
	breaches, err := evaluator.Evaluate(context.Background(), cpuDefinition(nil, nil), nil, now)
	require.NoError(t, err)

	require.Len(t, breaches, 1)
	assert.True(t, breaches[0].Threshold.Equal(dec("80")))
	assert.Equal(t, now.Add(-5*time.Minute), metrics.lastSince)
}

func TestEvaluator_Evaluate_Scope(t *testing.T) {
	now := time.Now()
	scope := 7

	metrics := &fakeMetricAverager{samples: []sample{
		{serverID: 7, value: dec("90"), at: now.Add(-time.Minute)},
		{serverID: 8, value: dec("95"), at: now.Add(-time.Minute)},
	}}
	evaluator := NewEvaluator(metrics)

	breaches, err := evaluator.Evaluate(context.Background(), cpuDefinition(nil, nil), &scope, now)
	require.NoError(t, err)

	require.Len(t, breaches, 1)
	assert.Equal(t, 7, breaches[0].ServerID)
}

func TestEvaluator_Evaluate_InertShapes(t *testing.T) {
	now := time.Now()
	metrics := &fakeMetricAverager{samples: []sample{
		{serverID: 7, value: dec("99"), at: now.Add(-time.Minute)},
	}}
	evaluator := NewEvaluator(metrics)

	failedLogins := domain.MetricFailedLogins
	unknownMetric := "Queue_Depth"

	tests := []struct {
		name string
		def  *domain.AlertDefinition
	}{
		{
			name: "security rule is a reserved no-op",
			def: &domain.AlertDefinition{
				AlertType:  domain.AlertTypeSecurity,
				MetricName: &failedLogins,
				Severity:   domain.SeverityHigh,
			},
		},
		{
			name: "unknown shape is inert",
			def: &domain.AlertDefinition{
				AlertType:  domain.AlertTypePerformance,
				MetricName: &unknownMetric,
				Severity:   domain.SeverityWarning,
			},
		},
		{
			name: "missing metric name is inert",
			def: &domain.AlertDefinition{
				AlertType: domain.AlertTypePerformance,
				Severity:  domain.SeverityWarning,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breaches, err := evaluator.Evaluate(context.Background(), tt.def, nil, now)
			require.NoError(t, err)
			assert.Empty(t, breaches)
		})
	}
}

func TestEvaluator_Evaluate_QueryError(t *testing.T) {
	metrics := &fakeMetricAverager{err: errors.New("connection refused")}
	evaluator := NewEvaluator(metrics)

	_, err := evaluator.Evaluate(context.Background(), cpuDefinition(nil, nil), nil, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "evaluate High CPU Usage")
}
