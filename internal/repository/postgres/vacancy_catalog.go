package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"recruitflow/internal/common"
	"recruitflow/internal/domain/vacancy"
)

// VacancyCatalog reads the content cache's vacancy table. The cache's
// CRUD belongs to the content collaborator; the engine only looks up.
type VacancyCatalog struct {
	db *sql.DB
}

func NewVacancyCatalog(db *sql.DB) *VacancyCatalog {
	return &VacancyCatalog{db: db}
}

func (c *VacancyCatalog) GetByID(ctx context.Context, id string) (*vacancy.Vacancy, error) {
	row := c.db.QueryRowContext(ctx, `SELECT id, title, direction, is_active FROM cached_vacancies WHERE id = $1`, strings.TrimSpace(id))
	var v vacancy.Vacancy
	if err := row.Scan(&v.ID, &v.Title, &v.Direction, &v.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "vacancy not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load vacancy", err)
	}
	return &v, nil
}
