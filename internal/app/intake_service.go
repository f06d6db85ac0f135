package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"recruitflow/internal/common"
	"recruitflow/internal/domain/application"
	"recruitflow/internal/domain/intake"
	"recruitflow/internal/domain/recruiter"
	"recruitflow/internal/domain/vacancy"
	"recruitflow/internal/metrics"
	"recruitflow/internal/notify"
)

// candidateSource is what the engine reports to the ATS as the intake channel.
const candidateSource = "telegram_bot"

// IntakeService drives the fixed step sequence of the application wizard.
// Every accepted step is persisted before the next one is allowed in.
type IntakeService struct {
	apps      application.Repository
	vacancies vacancy.Catalog
	router    *RouterService
	sync      SyncClient
	notifier  notify.Notifier
	collector *metrics.Collector
	locks     *keyring
	logger    *zap.Logger
}

func NewIntakeService(apps application.Repository, vacancies vacancy.Catalog, router *RouterService, sync SyncClient, notifier notify.Notifier, collector *metrics.Collector, logger *zap.Logger) *IntakeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntakeService{
		apps:      apps,
		vacancies: vacancies,
		router:    router,
		sync:      sync,
		notifier:  notifier,
		collector: collector,
		locks:     newKeyring(),
		logger:    logger,
	}
}

// StartIntake anchors a new application the instant a candidate picks a
// vacancy, before any personal data is collected, so draft state has an
// identifier to resume against.
func (s *IntakeService) StartIntake(ctx context.Context, candidateTgID int64, vacancyID string) (*application.Application, error) {
	if candidateTgID <= 0 {
		return nil, common.NewValidationError("candidate id is required", map[string]string{"candidate_tg_id": "must be positive"})
	}
	vac, err := s.vacancies.GetByID(ctx, vacancyID)
	if err != nil {
		return nil, err
	}
	if !vac.IsActive {
		return nil, common.NewValidationError("vacancy is not active", map[string]string{"vacancy_id": vac.ID})
	}
	created, err := s.apps.Create(ctx, application.Application{
		CandidateTgID: candidateTgID,
		VacancyID:     vac.ID,
		VacancyTitle:  vac.Title,
		Direction:     vac.Direction,
		Status:        application.StatusNew,
		Draft:         &application.Draft{},
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

type StepResult struct {
	Done     bool        `json:"done"`
	NextStep intake.Step `json:"next_step"`
}

// SubmitStep validates one answer against the application's expected step,
// merges it into the draft and persists immediately. A step kind that does
// not match the expected step is a stale or out-of-order message and is
// rejected without touching the draft.
func (s *IntakeService) SubmitStep(ctx context.Context, id common.UUID, step intake.Step, in intake.Input) (*StepResult, error) {
	if !intake.KnownStep(step) {
		return nil, common.NewValidationError("unknown intake step", map[string]string{"step": string(step)})
	}
	if !s.locks.acquire(id) {
		return nil, common.NewError(common.CodeConflict, "previous step is still being processed", nil)
	}
	defer s.locks.release(id)

	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Finalized() || app.Draft == nil {
		return nil, common.NewError(common.CodeConflict, "intake is already finalized", nil)
	}
	if app.Status != application.StatusNew {
		return nil, common.NewError(common.CodeConflict, "application has already been decided", nil)
	}
	expected := intake.NextStep(app.Draft)
	if expected == intake.StepDone {
		return nil, common.NewValidationError("all intake steps are already complete", map[string]string{"step": string(step)})
	}
	if step != expected {
		return nil, common.NewValidationError("unexpected step for this application", map[string]string{
			"step":     string(step),
			"expected": string(expected),
		})
	}
	if err := intake.Apply(app.Draft, step, in); err != nil {
		return nil, err
	}
	if err := s.apps.UpdateDraft(ctx, id, app.Draft); err != nil {
		return nil, err
	}
	next := intake.NextStep(app.Draft)
	return &StepResult{Done: next == intake.StepDone, NextStep: next}, nil
}

type FinalizeResult struct {
	Application *application.Application `json:"application"`
	Recruiter   recruiter.Mapping        `json:"recruiter"`
	ExternalRef string                   `json:"external_ref"`
}

// Finalize is the one-time commit of a completed draft. On a sync failure
// the draft is kept intact with a failure annotation; calling Finalize
// again without retry returns that recorded failure instead of issuing a
// duplicate ATS submission.
func (s *IntakeService) Finalize(ctx context.Context, id common.UUID, retry bool) (*FinalizeResult, error) {
	if !s.locks.acquire(id) {
		return nil, common.NewError(common.CodeConflict, "previous step is still being processed", nil)
	}
	defer s.locks.release(id)

	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Finalized() {
		// Finalize already succeeded; report the same outcome.
		return &FinalizeResult{
			Application: app,
			Recruiter:   s.router.Resolve(ctx, app.Direction),
			ExternalRef: app.ExternalRef,
		}, nil
	}
	// A recruiter may have decided the application while intake was still
	// open; a decided application must never reach the ATS as a new one.
	if app.Status != application.StatusNew {
		return nil, common.NewError(common.CodeConflict, "application has already been decided", nil)
	}
	if !app.Draft.Complete() {
		return nil, common.NewValidationError("intake is not complete", map[string]string{
			"next_step": string(intake.NextStep(app.Draft)),
		})
	}
	if app.Draft.Failed() && !retry {
		return nil, common.NewError(common.CodeSync, *app.Draft.LastError, nil)
	}
	app.Draft.ClearFailure()

	candidate := app.Draft.Assemble(app.CandidateTgID, candidateSource)
	assigned := s.router.Resolve(ctx, app.Direction)

	externalRef, err := s.sync.SubmitNew(ctx, app.VacancyID, candidate, app.ID.String())
	if err != nil {
		if s.collector != nil {
			s.collector.SyncFailures.WithLabelValues("submit").Inc()
		}
		s.logger.Error("ats submit failed",
			zap.String("application_id", app.ID.String()),
			zap.Error(err))
		app.Draft.RecordFailure(err.Error(), time.Now().UTC())
		if persistErr := s.apps.UpdateDraft(ctx, id, app.Draft); persistErr != nil {
			s.logger.Error("failed to record finalize failure",
				zap.String("application_id", app.ID.String()),
				zap.Error(persistErr))
		}
		return nil, common.NewError(common.CodeSync, "failed to deliver application to the recruiting system", err)
	}

	updated, err := s.apps.CommitCandidateData(ctx, id, candidate, externalRef)
	if err != nil {
		// The ATS accepted the submission but the local commit failed.
		// The idempotency key keeps a later retry from duplicating it.
		return nil, fmt.Errorf("commit finalized application %s: %w", app.ID, err)
	}

	s.notifier.ApplicationSubmitted(ctx, notify.ApplicationSubmitted{
		ApplicationID: updated.ID,
		VacancyTitle:  updated.VacancyTitle,
		Direction:     updated.Direction,
		Recruiter:     assigned,
		Candidate:     candidate,
	})
	return &FinalizeResult{Application: updated, Recruiter: assigned, ExternalRef: externalRef}, nil
}
