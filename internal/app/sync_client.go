package app

import (
	"context"

	"recruitflow/internal/domain/application"
)

// SyncClient is the boundary to the external ATS. Implemented by
// integration/ats.Client; faked in tests.
type SyncClient interface {
	SubmitNew(ctx context.Context, vacancyID string, candidate application.CandidateData, idempotencyKey string) (string, error)
	PushStatus(ctx context.Context, externalRef string, newStatus application.Status, recruiterID int64, reason string) error
}
