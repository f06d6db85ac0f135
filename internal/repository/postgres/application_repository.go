package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"recruitflow/internal/common"
	"recruitflow/internal/domain/application"
)

const applicationColumns = `id, candidate_tg_id, vacancy_id, vacancy_title, direction, status, assigned_recruiter, candidate_data, draft_data, external_ref, created_at, updated_at`

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = application.StatusNew
	}
	if app.Draft == nil {
		app.Draft = &application.Draft{}
	}
	draftJSON, err := json.Marshal(app.Draft)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode draft", err)
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO applications (id, candidate_tg_id, vacancy_id, vacancy_title, direction, status, draft_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		app.ID, app.CandidateTgID, app.VacancyID, app.VacancyTitle, app.Direction, app.Status, draftJSON, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	return scanApplication(row)
}

func (r *ApplicationRepository) UpdateDraft(ctx context.Context, id common.UUID, draft *application.Draft) error {
	draftJSON, err := json.Marshal(draft)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to encode draft", err)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE applications SET draft_data = $1, updated_at = $2
		WHERE id = $3 AND candidate_data IS NULL AND status = $4`,
		draftJSON, time.Now().UTC(), id, application.StatusNew)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to persist draft", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to persist draft", err)
	}
	if affected == 0 {
		return r.draftWriteConflict(ctx, id)
	}
	return nil
}

func (r *ApplicationRepository) CommitCandidateData(ctx context.Context, id common.UUID, data application.CandidateData, externalRef string) (*application.Application, error) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode candidate data", err)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE applications SET candidate_data = $1, external_ref = $2, draft_data = NULL, updated_at = $3
		WHERE id = $4 AND candidate_data IS NULL AND status = $5`,
		dataJSON, externalRef, time.Now().UTC(), id, application.StatusNew)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit candidate data", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit candidate data", err)
	}
	if affected == 0 {
		return nil, r.draftWriteConflict(ctx, id)
	}
	return r.GetByID(ctx, id)
}

// draftWriteConflict explains a zero-row draft or finalize write: the row
// is missing, the application is already finalized, or a recruiter decided
// it while intake was still open.
func (r *ApplicationRepository) draftWriteConflict(ctx context.Context, id common.UUID) error {
	app, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if app.Status != application.StatusNew {
		return common.NewError(common.CodeConflict, "application has already been decided", nil)
	}
	return common.NewError(common.CodeConflict, "application is already finalized", nil)
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id common.UUID, from, to application.Status, recruiterID *int64, reason string) (*application.Application, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `UPDATE applications SET status = $1, assigned_recruiter = $2, updated_at = $3 WHERE id = $4 AND status = $5`,
		to, recruiterID, now, id, from)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update status", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update status", err)
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, common.NewError(common.CodeInvalidTransition, "application status already moved", nil)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO status_transitions (application_id, from_status, to_status, recruiter_id, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, from, to, recruiterID, reason, now)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to append status transition", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit status update", err)
	}
	return r.GetByID(ctx, id)
}

func (r *ApplicationRepository) ListTransitions(ctx context.Context, id common.UUID) ([]application.Transition, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, application_id, from_status, to_status, recruiter_id, reason, created_at
		FROM status_transitions WHERE application_id = $1 ORDER BY id ASC`, id)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list status transitions", err)
	}
	defer rows.Close()
	var items []application.Transition
	for rows.Next() {
		var tr application.Transition
		var recruiterID sql.NullInt64
		var reason sql.NullString
		if err := rows.Scan(&tr.ID, &tr.ApplicationID, &tr.FromStatus, &tr.ToStatus, &recruiterID, &reason, &tr.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan status transition", err)
		}
		if recruiterID.Valid {
			tr.RecruiterID = &recruiterID.Int64
		}
		tr.Reason = reason.String
		items = append(items, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list status transitions", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*application.Application, error) {
	var app application.Application
	var assignedRecruiter sql.NullInt64
	var candidateJSON, draftJSON []byte
	var externalRef sql.NullString
	err := row.Scan(&app.ID, &app.CandidateTgID, &app.VacancyID, &app.VacancyTitle, &app.Direction, &app.Status,
		&assignedRecruiter, &candidateJSON, &draftJSON, &externalRef, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	if assignedRecruiter.Valid {
		app.AssignedRecruiter = &assignedRecruiter.Int64
	}
	if len(candidateJSON) > 0 {
		var data application.CandidateData
		if err := json.Unmarshal(candidateJSON, &data); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to decode candidate data", err)
		}
		app.CandidateData = &data
	}
	if len(draftJSON) > 0 {
		var draft application.Draft
		if err := json.Unmarshal(draftJSON, &draft); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to decode draft", err)
		}
		app.Draft = &draft
	}
	app.ExternalRef = externalRef.String
	return &app, nil
}
