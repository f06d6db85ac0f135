package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"recruitflow/internal/common"
	"recruitflow/internal/domain/recruiter"
)

func TestRecruiterRepositoryFindActiveByDirection(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"direction", "recruiter_tg_id", "recruiter_username", "is_active", "updated_at"}).
		AddRow("go", int64(777), "go_recruiter", true, time.Now().UTC())

	// Lookup keys are case-folded before hitting the table.
	mock.ExpectQuery(regexp.QuoteMeta(`FROM recruiter_mappings WHERE direction = $1 AND is_active = TRUE`)).
		WithArgs("go").
		WillReturnRows(rows)

	repo := NewRecruiterRepository(db)
	m, err := repo.FindActiveByDirection(context.Background(), "  Go ")
	require.NoError(t, err)
	require.Equal(t, int64(777), m.TgID)
	require.Equal(t, "go_recruiter", m.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecruiterRepositoryFindActiveByDirectionMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM recruiter_mappings WHERE direction = $1 AND is_active = TRUE`)).
		WithArgs("java").
		WillReturnRows(sqlmock.NewRows([]string{"direction", "recruiter_tg_id", "recruiter_username", "is_active", "updated_at"}))

	repo := NewRecruiterRepository(db)
	_, err = repo.FindActiveByDirection(context.Background(), "java")
	require.True(t, common.Is(err, common.CodeNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecruiterRepositoryUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO recruiter_mappings`)).
		WithArgs("python", int64(888), "py_recruiter", true, anyTime{}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewRecruiterRepository(db)
	m, err := repo.Upsert(context.Background(), recruiter.Mapping{
		Direction: " Python ",
		TgID:      888,
		Username:  "py_recruiter",
		IsActive:  true,
	})
	require.NoError(t, err)
	require.Equal(t, "python", m.Direction)
	require.False(t, m.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}
