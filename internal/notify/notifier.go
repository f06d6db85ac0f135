package notify

import (
	"context"

	"go.uber.org/zap"

	"recruitflow/internal/common"
	"recruitflow/internal/domain/application"
	"recruitflow/internal/domain/recruiter"
)

// ApplicationSubmitted is emitted once per successful finalize so the
// messaging collaborator can ping the owning recruiter.
type ApplicationSubmitted struct {
	ApplicationID common.UUID
	VacancyTitle  string
	Direction     string
	Recruiter     recruiter.Mapping
	Candidate     application.CandidateData
}

// StatusChanged is emitted after every successful status transition.
type StatusChanged struct {
	ApplicationID common.UUID
	NewStatus     application.Status
	RecruiterID   *int64
	Reason        string
}

// Notifier is the outbound boundary to whatever channel hosts the review
// workflow. Rendering and delivery are the caller's concern.
type Notifier interface {
	ApplicationSubmitted(ctx context.Context, event ApplicationSubmitted)
	StatusChanged(ctx context.Context, event StatusChanged)
}

// LogNotifier writes notification events to the log. Useful on its own in
// development and as the fallback when no chat transport is wired.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) ApplicationSubmitted(_ context.Context, event ApplicationSubmitted) {
	n.logger.Info("application submitted",
		zap.String("application_id", event.ApplicationID.String()),
		zap.String("vacancy_title", event.VacancyTitle),
		zap.String("direction", event.Direction),
		zap.Int64("recruiter_tg_id", event.Recruiter.TgID),
		zap.String("candidate", event.Candidate.FullName),
	)
}

func (n *LogNotifier) StatusChanged(_ context.Context, event StatusChanged) {
	fields := []zap.Field{
		zap.String("application_id", event.ApplicationID.String()),
		zap.String("new_status", string(event.NewStatus)),
	}
	if event.RecruiterID != nil {
		fields = append(fields, zap.Int64("recruiter_id", *event.RecruiterID))
	}
	if event.Reason != "" {
		fields = append(fields, zap.String("reason", event.Reason))
	}
	n.logger.Info("application status changed", fields...)
}
