package application

import (
	"context"

	"recruitflow/internal/common"
)

type Repository interface {
	Create(ctx context.Context, app Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	// UpdateDraft persists the in-progress draft. This is the intake
	// durability point: a crash afterwards loses at most the current
	// step's round-trip.
	UpdateDraft(ctx context.Context, id common.UUID, draft *Draft) error
	// CommitCandidateData is the one-time finalize commit: it sets the
	// immutable candidate record and external reference and clears the
	// draft in a single write, refusing to overwrite an existing record.
	CommitCandidateData(ctx context.Context, id common.UUID, data CandidateData, externalRef string) (*Application, error)
	// UpdateStatus applies from -> to with an optimistic check on the
	// current status and appends the audit row in the same transaction.
	// When the status has already moved past from, it fails with an
	// invalid-transition error and leaves the row untouched.
	UpdateStatus(ctx context.Context, id common.UUID, from, to Status, recruiterID *int64, reason string) (*Application, error)
	ListTransitions(ctx context.Context, id common.UUID) ([]Transition, error)
}
