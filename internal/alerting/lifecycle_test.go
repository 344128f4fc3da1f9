package alerting

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

// memAlertStore reproduces the dedup upsert semantics in memory: at most
// one unresolved row per (definition, server) pair.
type memAlertStore struct {
	nextID      int64
	alerts      map[int64]*domain.ActiveAlert
	definitions []*domain.AlertDefinition
	upsertErr   error
	saveErr     error
}

func newMemAlertStore() *memAlertStore {
	return &memAlertStore{alerts: make(map[int64]*domain.ActiveAlert)}
}

func (m *memAlertStore) UpsertBreach(ctx context.Context, a *domain.ActiveAlert) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}

	for _, existing := range m.alerts {
		if existing.AlertDefinitionID != a.AlertDefinitionID ||
			existing.ServerID != a.ServerID ||
			existing.Status == domain.AlertStatusResolved {
			continue
		}

		existing.LastOccurrence = a.LastOccurrence
		existing.OccurrenceCount++
		existing.CurrentValue = a.CurrentValue
		existing.AlertMessage = a.AlertMessage
		*a = *existing
		return nil
	}

	m.nextID++
	a.ID = m.nextID
	a.FirstOccurrence = a.LastOccurrence
	a.OccurrenceCount = 1
	a.Status = domain.AlertStatusActive
	stored := *a
	m.alerts[a.ID] = &stored
	return nil
}

func (m *memAlertStore) GetByID(ctx context.Context, id int64) (*domain.ActiveAlert, error) {
	a, ok := m.alerts[id]
	if !ok {
		return nil, domain.ErrAlertNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *memAlertStore) Save(ctx context.Context, a *domain.ActiveAlert) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if _, ok := m.alerts[a.ID]; !ok {
		return domain.ErrAlertNotFound
	}
	stored := *a
	m.alerts[a.ID] = &stored
	return nil
}

func (m *memAlertStore) ListEnabledDefinitions(ctx context.Context) ([]*domain.AlertDefinition, error) {
	return m.definitions, nil
}

func (m *memAlertStore) ListOpen(ctx context.Context, serverID *int) ([]*domain.ActiveAlert, error) {
	var open []*domain.ActiveAlert
	for _, a := range m.alerts {
		if a.Status == domain.AlertStatusResolved {
			continue
		}
		if serverID != nil && a.ServerID != *serverID {
			continue
		}
		copied := *a
		open = append(open, &copied)
	}
	return open, nil
}

type memEventSink struct {
	created []int64
	updated []int64
}

func (s *memEventSink) AlertCreated(a *domain.ActiveAlert) { s.created = append(s.created, a.ID) }
func (s *memEventSink) AlertUpdated(a *domain.ActiveAlert) { s.updated = append(s.updated, a.ID) }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLifecycle_RecordBreach_Dedup(t *testing.T) {
	store := newMemAlertStore()
	sink := &memEventSink{}
	lifecycle := NewLifecycle(store, sink, testLogger())

	ctx := context.Background()
	t0 := time.Now()

	first, err := lifecycle.RecordBreach(ctx, 1, 7, "High CPU usage: 85.0% (threshold: 80%)", dec("85"), dec("80"), domain.SeverityWarning, t0)
	require.NoError(t, err)
	assert.Equal(t, 1, first.OccurrenceCount)
	assert.Equal(t, domain.AlertStatusActive, first.Status)
	assert.Equal(t, t0, first.FirstOccurrence)

	second, err := lifecycle.RecordBreach(ctx, 1, 7, "High CPU usage: 90.0% (threshold: 80%)", dec("90"), dec("80"), domain.SeverityWarning, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.OccurrenceCount)
	assert.Equal(t, t0, second.FirstOccurrence)
	assert.True(t, second.CurrentValue.Equal(dec("90")))

	// Different server: its own row.
	other, err := lifecycle.RecordBreach(ctx, 1, 8, "High CPU usage: 99.0% (threshold: 80%)", dec("99"), dec("80"), domain.SeverityWarning, t0)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
	assert.Equal(t, 1, other.OccurrenceCount)

	assert.Equal(t, []int64{first.ID, other.ID}, sink.created)
	assert.Equal(t, []int64{first.ID}, sink.updated)
}

func TestLifecycle_RecordBreach_UpsertError(t *testing.T) {
	store := newMemAlertStore()
	store.upsertErr = errors.New("database unavailable")
	lifecycle := NewLifecycle(store, nil, testLogger())

	_, err := lifecycle.RecordBreach(context.Background(), 1, 7, "msg", dec("85"), dec("80"), domain.SeverityWarning, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record breach")
}

func TestLifecycle_Acknowledge(t *testing.T) {
	store := newMemAlertStore()
	lifecycle := NewLifecycle(store, nil, testLogger())

	ctx := context.Background()
	alert, err := lifecycle.RecordBreach(ctx, 1, 7, "msg", dec("85"), dec("80"), domain.SeverityWarning, time.Now())
	require.NoError(t, err)

	t.Run("acknowledge stamps operator and time", func(t *testing.T) {
		notes := "Looking into it"
		acked, err := lifecycle.Acknowledge(ctx, alert.ID, "alice", &notes)
		require.NoError(t, err)
		assert.Equal(t, domain.AlertStatusAcknowledged, acked.Status)
		require.NotNil(t, acked.AcknowledgedBy)
		assert.Equal(t, "alice", *acked.AcknowledgedBy)
		require.NotNil(t, acked.Notes)
		assert.Equal(t, "Looking into it", *acked.Notes)
	})

	t.Run("re-acknowledge succeeds and updates the stamp", func(t *testing.T) {
		acked, err := lifecycle.Acknowledge(ctx, alert.ID, "bob", nil)
		require.NoError(t, err)
		assert.Equal(t, domain.AlertStatusAcknowledged, acked.Status)
		assert.Equal(t, "bob", *acked.AcknowledgedBy)
		// Nil notes leave the previous notes alone.
		require.NotNil(t, acked.Notes)
		assert.Equal(t, "Looking into it", *acked.Notes)
	})

	t.Run("unknown alert id", func(t *testing.T) {
		_, err := lifecycle.Acknowledge(ctx, 9999, "alice", nil)
		assert.ErrorIs(t, err, domain.ErrAlertNotFound)
	})

	t.Run("resolved alerts cannot be acknowledged", func(t *testing.T) {
		_, err := lifecycle.Resolve(ctx, alert.ID, "alice", nil)
		require.NoError(t, err)

		_, err = lifecycle.Acknowledge(ctx, alert.ID, "alice", nil)
		assert.ErrorIs(t, err, domain.ErrAlertResolved)
	})
}

func TestLifecycle_Resolve(t *testing.T) {
	store := newMemAlertStore()
	lifecycle := NewLifecycle(store, nil, testLogger())

	ctx := context.Background()

	t.Run("resolve appends notes", func(t *testing.T) {
		alert, err := lifecycle.RecordBreach(ctx, 1, 7, "msg", dec("85"), dec("80"), domain.SeverityWarning, time.Now())
		require.NoError(t, err)

		ackNotes := "Checking"
		_, err = lifecycle.Acknowledge(ctx, alert.ID, "alice", &ackNotes)
		require.NoError(t, err)

		resolveNotes := "Rebalanced workload"
		resolved, err := lifecycle.Resolve(ctx, alert.ID, "bob", &resolveNotes)
		require.NoError(t, err)
		assert.Equal(t, domain.AlertStatusResolved, resolved.Status)
		require.NotNil(t, resolved.Notes)
		assert.Equal(t, "Checking\nResolved: Rebalanced workload", *resolved.Notes)
		require.NotNil(t, resolved.ResolvedBy)
		assert.Equal(t, "bob", *resolved.ResolvedBy)
	})

	t.Run("resolution resets dedup", func(t *testing.T) {
		t0 := time.Now()
		alert, err := lifecycle.RecordBreach(ctx, 2, 7, "msg", dec("85"), dec("80"), domain.SeverityWarning, t0)
		require.NoError(t, err)

		_, err = lifecycle.Resolve(ctx, alert.ID, "alice", nil)
		require.NoError(t, err)

		fresh, err := lifecycle.RecordBreach(ctx, 2, 7, "msg", dec("88"), dec("80"), domain.SeverityWarning, t0.Add(time.Minute))
		require.NoError(t, err)
		assert.NotEqual(t, alert.ID, fresh.ID)
		assert.Equal(t, 1, fresh.OccurrenceCount)
		assert.Equal(t, domain.AlertStatusActive, fresh.Status)
	})

	t.Run("unknown alert id", func(t *testing.T) {
		_, err := lifecycle.Resolve(ctx, 9999, "alice", nil)
		assert.ErrorIs(t, err, domain.ErrAlertNotFound)
	})
}

func TestLifecycle_BreachWhileAcknowledged(t *testing.T) {
	store := newMemAlertStore()
	lifecycle := NewLifecycle(store, nil, testLogger())

	ctx := context.Background()
	t0 := time.Now()

	alert, err := lifecycle.RecordBreach(ctx, 1, 7, "msg", dec("85"), dec("80"), domain.SeverityWarning, t0)
	require.NoError(t, err)

	_, err = lifecycle.Acknowledge(ctx, alert.ID, "alice", nil)
	require.NoError(t, err)

	// Re-breach accumulates on the acknowledged row without reopening it.
	again, err := lifecycle.RecordBreach(ctx, 1, 7, "msg", dec("95"), dec("80"), domain.SeverityWarning, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, alert.ID, again.ID)
	assert.Equal(t, 2, again.OccurrenceCount)
	assert.Equal(t, domain.AlertStatusAcknowledged, again.Status)
	assert.Equal(t, "alice", *again.AcknowledgedBy)
}
