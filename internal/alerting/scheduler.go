package alerting

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

type DefinitionLister interface {
	ListEnabledDefinitions(ctx context.Context) ([]*domain.AlertDefinition, error)
}

// Scheduler evaluates every enabled definition on a fixed interval and
// feeds the resulting breaches through the lifecycle manager. Failures
// are contained per definition so one broken rule never starves the
// rest of the tick.
type Scheduler struct {
	definitions DefinitionLister
	evaluator   *Evaluator
	lifecycle   *Lifecycle
	logger      *slog.Logger
	interval    time.Duration
	done        chan struct{}
	stop        sync.Once
}

func NewScheduler(definitions DefinitionLister, evaluator *Evaluator, lifecycle *Lifecycle, logger *slog.Logger, interval time.Duration) *Scheduler {
	if interval == 0 {
		interval = time.Minute
	}

	return &Scheduler{
		definitions: definitions,
		evaluator:   evaluator,
		lifecycle:   lifecycle,
		logger:      logger,
		interval:    interval,
		done:        make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("alert scheduler started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("alert scheduler stopped")
			return
		case <-s.done:
			s.logger.Info("alert scheduler stopped")
			return
		case t := <-ticker.C:
			s.RunTick(ctx, t)
		}
	}
}

func (s *Scheduler) Stop() {
	s.stop.Do(func() { close(s.done) })
}

// RunTick executes one evaluation pass. Exported so the API layer can
// trigger an out-of-band evaluation.
func (s *Scheduler) RunTick(ctx context.Context, now time.Time) {
	definitions, err := s.definitions.ListEnabledDefinitions(ctx)
	if err != nil {
		s.logger.Error("failed to list enabled definitions", "error", err)
		return
	}

	s.logger.Debug("evaluating alert definitions", "count", len(definitions))

	for _, def := range definitions {
		if err := s.processDefinition(ctx, def, now); err != nil {
			s.logger.Error("failed to process alert definition",
				"definition_id", def.ID,
				"alert_name", def.Name,
				"error", err,
			)
		}
	}
}

func (s *Scheduler) processDefinition(ctx context.Context, def *domain.AlertDefinition, now time.Time) error {
	breaches, err := s.evaluator.Evaluate(ctx, def, nil, now)
	if err != nil {
		return err
	}

	for _, b := range breaches {
		_, err := s.lifecycle.RecordBreach(ctx, def.ID, b.ServerID, b.Message, b.MeasuredValue, b.Threshold, def.Severity, now)
		if err != nil {
			// Keep going: remaining breaches of this definition are
			// independent units of work.
			s.logger.Error("failed to record breach",
				"definition_id", def.ID,
				"server_id", b.ServerID,
				"error", err,
			)
		}
	}

	return nil
}
