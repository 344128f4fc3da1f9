package security

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

const defaultWindowHours = 24

type EventStore interface {
	Insert(ctx context.Context, e *domain.SecurityEvent) error
	ListRecent(ctx context.Context, serverID *int, since time.Time, limit int) ([]*domain.SecurityEvent, error)
	ListPaginated(ctx context.Context, serverID *int, severity *string, page, pageSize int) ([]*domain.SecurityEvent, int, error)
	CountsBySeverity(ctx context.Context, since time.Time) (map[string]int, error)
	Summaries(ctx context.Context, since time.Time, limit int) ([]*domain.SecurityEventSummary, error)
	HighRisk(ctx context.Context, since time.Time, limit int) ([]*domain.SecurityEvent, error)
}

// Service is the read/record surface over security events. Read paths
// back dashboards and degrade to empty results on repository failure;
// Record propagates errors to its caller.
type Service struct {
	events EventStore
	logger *slog.Logger
	now    func() time.Time
}

func NewService(events EventStore, logger *slog.Logger) *Service {
	return &Service{events: events, logger: logger, now: time.Now}
}

// Record persists one security event.
func (s *Service) Record(ctx context.Context, e *domain.SecurityEvent) error {
	if e.EventTime.IsZero() {
		e.EventTime = s.now()
	}
	if e.Severity == "" {
		e.Severity = domain.SeverityMedium
	}

	if err := s.events.Insert(ctx, e); err != nil {
		return fmt.Errorf("record security event: %w", err)
	}

	return nil
}

// Recent returns the newest events inside the trailing window.
func (s *Service) Recent(ctx context.Context, serverID *int, hours, limit int) []*domain.SecurityEvent {
	events, err := s.events.ListRecent(ctx, serverID, s.windowStart(hours), limit)
	if err != nil {
		s.logger.Error("failed to list recent security events", "error", err)
		return []*domain.SecurityEvent{}
	}
	if events == nil {
		return []*domain.SecurityEvent{}
	}
	return events
}

// Events returns one page of events plus the total matching the filter.
func (s *Service) Events(ctx context.Context, serverID *int, severity *string, page, pageSize int) ([]*domain.SecurityEvent, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	events, total, err := s.events.ListPaginated(ctx, serverID, severity, page, pageSize)
	if err != nil {
		s.logger.Error("failed to list security events", "error", err)
		return []*domain.SecurityEvent{}, 0
	}
	if events == nil {
		events = []*domain.SecurityEvent{}
	}
	return events, total
}

// Counts groups events inside the trailing window by severity.
func (s *Service) Counts(ctx context.Context, hours int) map[string]int {
	counts, err := s.events.CountsBySeverity(ctx, s.windowStart(hours))
	if err != nil {
		s.logger.Error("failed to count security events", "error", err)
		return map[string]int{}
	}
	return counts
}

// Summaries groups recent events into (type, user, server) buckets.
func (s *Service) Summaries(ctx context.Context, hours, limit int) []*domain.SecurityEventSummary {
	summaries, err := s.events.Summaries(ctx, s.windowStart(hours), limit)
	if err != nil {
		s.logger.Error("failed to summarize security events", "error", err)
		return []*domain.SecurityEventSummary{}
	}
	if summaries == nil {
		return []*domain.SecurityEventSummary{}
	}
	return summaries
}

// HighRisk returns recent Critical and High severity events.
func (s *Service) HighRisk(ctx context.Context, hours, limit int) []*domain.SecurityEvent {
	events, err := s.events.HighRisk(ctx, s.windowStart(hours), limit)
	if err != nil {
		s.logger.Error("failed to list high risk events", "error", err)
		return []*domain.SecurityEvent{}
	}
	if events == nil {
		return []*domain.SecurityEvent{}
	}
	return events
}

func (s *Service) windowStart(hours int) time.Time {
	if hours <= 0 {
		hours = defaultWindowHours
	}
	return s.now().Add(-time.Duration(hours) * time.Hour)
}
