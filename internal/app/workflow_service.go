package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"recruitflow/internal/common"
	"recruitflow/internal/domain/application"
	"recruitflow/internal/integration/ats"
	"recruitflow/internal/metrics"
	"recruitflow/internal/notify"
)

// WorkflowService enforces the status state machine and keeps the audit
// trail. Local state is the source of truth: the ATS push after a
// transition is best-effort and never rolls the transition back.
type WorkflowService struct {
	apps        application.Repository
	sync        SyncClient
	notifier    notify.Notifier
	collector   *metrics.Collector
	logger      *zap.Logger
	syncTimeout time.Duration
	pushes      sync.WaitGroup
}

func NewWorkflowService(apps application.Repository, sync SyncClient, notifier notify.Notifier, collector *metrics.Collector, logger *zap.Logger, syncTimeout time.Duration) *WorkflowService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if syncTimeout <= 0 {
		syncTimeout = 5 * time.Second
	}
	return &WorkflowService{
		apps:        apps,
		sync:        sync,
		notifier:    notifier,
		collector:   collector,
		logger:      logger,
		syncTimeout: syncTimeout,
	}
}

// Transition applies one status change under per-application mutual
// exclusion (an optimistic check on the current status): of two recruiters
// racing for the same application, the loser gets invalid_transition.
func (s *WorkflowService) Transition(ctx context.Context, id common.UUID, newStatus application.Status, recruiterID int64, reason string) (*application.Application, error) {
	if !application.KnownStatus(newStatus) {
		return nil, common.NewValidationError("unknown status", map[string]string{"status": string(newStatus)})
	}
	if recruiterID <= 0 {
		return nil, common.NewValidationError("recruiter id is required", map[string]string{"recruiter_id": "must be positive"})
	}
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !application.CanTransition(app.Status, newStatus) {
		return nil, common.NewError(common.CodeInvalidTransition,
			fmt.Sprintf("transition %s -> %s is not allowed", app.Status, newStatus), nil)
	}

	updated, err := s.apps.UpdateStatus(ctx, id, app.Status, newStatus, &recruiterID, reason)
	if err != nil {
		return nil, err
	}
	if s.collector != nil {
		s.collector.Transitions.WithLabelValues(string(newStatus)).Inc()
	}

	// The push runs after the local commit on its own context so a slow
	// ATS cannot stall this or any other recruiter's transition.
	s.pushes.Add(1)
	go s.pushStatus(updated.ID, updated.ExternalRef, newStatus, recruiterID, reason)

	s.notifier.StatusChanged(ctx, notify.StatusChanged{
		ApplicationID: updated.ID,
		NewStatus:     newStatus,
		RecruiterID:   &recruiterID,
		Reason:        reason,
	})
	return updated, nil
}

// History returns the append-only audit trail for an application.
func (s *WorkflowService) History(ctx context.Context, id common.UUID) ([]application.Transition, error) {
	if _, err := s.apps.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.apps.ListTransitions(ctx, id)
}

// Get loads a single application.
func (s *WorkflowService) Get(ctx context.Context, id common.UUID) (*application.Application, error) {
	return s.apps.GetByID(ctx, id)
}

// Flush waits for in-flight status pushes; called on shutdown.
func (s *WorkflowService) Flush() {
	s.pushes.Wait()
}

func (s *WorkflowService) pushStatus(id common.UUID, externalRef string, newStatus application.Status, recruiterID int64, reason string) {
	defer s.pushes.Done()

	log := s.logger.With(zap.String("application_id", id.String()), zap.String("status", string(newStatus)))
	if externalRef == "" {
		// Transition before a successful finalize: nothing to sync yet.
		log.Debug("skipping ats status push, application has no external ref")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.syncTimeout)
	defer cancel()

	err := s.sync.PushStatus(ctx, externalRef, newStatus, recruiterID, reason)
	if err == nil {
		return
	}
	if s.collector != nil {
		s.collector.SyncFailures.WithLabelValues("push_status").Inc()
	}
	if errors.Is(err, ats.ErrRemoteMissing) {
		// Local and remote records have diverged; needs reconciliation.
		log.Error("ats record missing for status push", zap.String("external_ref", externalRef), zap.Error(err))
		return
	}
	log.Error("ats status push failed", zap.String("external_ref", externalRef), zap.Error(err))
}
