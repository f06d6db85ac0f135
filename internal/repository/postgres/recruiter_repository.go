package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"recruitflow/internal/common"
	"recruitflow/internal/domain/recruiter"
)

type RecruiterRepository struct {
	db *sql.DB
}

func NewRecruiterRepository(db *sql.DB) *RecruiterRepository {
	return &RecruiterRepository{db: db}
}

func (r *RecruiterRepository) FindActiveByDirection(ctx context.Context, direction string) (*recruiter.Mapping, error) {
	row := r.db.QueryRowContext(ctx, `SELECT direction, recruiter_tg_id, recruiter_username, is_active, updated_at
		FROM recruiter_mappings WHERE direction = $1 AND is_active = TRUE`, normalizeDirection(direction))
	var m recruiter.Mapping
	if err := row.Scan(&m.Direction, &m.TgID, &m.Username, &m.IsActive, &m.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "recruiter mapping not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load recruiter mapping", err)
	}
	return &m, nil
}

func (r *RecruiterRepository) Upsert(ctx context.Context, mapping recruiter.Mapping) (*recruiter.Mapping, error) {
	mapping.Direction = normalizeDirection(mapping.Direction)
	mapping.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO recruiter_mappings (direction, recruiter_tg_id, recruiter_username, is_active, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (direction) DO UPDATE SET recruiter_tg_id = EXCLUDED.recruiter_tg_id,
			recruiter_username = EXCLUDED.recruiter_username, is_active = EXCLUDED.is_active, updated_at = EXCLUDED.updated_at`,
		mapping.Direction, mapping.TgID, mapping.Username, mapping.IsActive, mapping.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to upsert recruiter mapping", err)
	}
	return &mapping, nil
}

func normalizeDirection(direction string) string {
	return strings.ToLower(strings.TrimSpace(direction))
}
