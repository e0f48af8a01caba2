package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"edumee-backend/internal/apperror"
	authdomain "edumee-backend/internal/auth/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGormMock(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewGormUserRepository(db), mock
}

func userRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "email", "password", "role", "is_active", "is_verified", "created_at", "updated_at"}).
		AddRow("u-1", "jane@example.com", "$2a$10$hash", "mentor", true, false, now, now)
}

func TestGormFindByEmail(t *testing.T) {
	repo, mock := newGormMock(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).WillReturnRows(userRows())

	u, err := repo.FindByEmail(context.Background(), "Jane@Example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, authdomain.RoleMentor, u.Role)
	assert.True(t, u.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormFindByEmailAbsent(t *testing.T) {
	repo, mock := newGormMock(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	u, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestGormFindByIDNotFound(t *testing.T) {
	repo, mock := newGormMock(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGormFindByExternalIDUsesProviderColumn(t *testing.T) {
	repo, mock := newGormMock(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE facebook_id = \$1`).WillReturnRows(userRows())

	u, err := repo.FindByExternalID(context.Background(), authdomain.ProviderFacebook, "fb-1")
	require.NoError(t, err)
	require.NotNil(t, u)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormFindByExternalIDUnknownProvider(t *testing.T) {
	repo, mock := newGormMock(t)

	_, err := repo.FindByExternalID(context.Background(), authdomain.Provider("github"), "x")
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUpdateLastLoginMissingUser(t *testing.T) {
	repo, mock := newGormMock(t)

	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateLastLogin(context.Background(), "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGormStorageFailurePropagates(t *testing.T) {
	repo, mock := newGormMock(t)

	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnError(sql.ErrConnDone)

	_, err := repo.FindByEmail(context.Background(), "jane@example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Equal(t, 500, apperror.StatusCode(err))
}

func TestUpdateColumns(t *testing.T) {
	name := "  Ann "
	active := false
	values, err := updateColumns(authdomain.UserUpdate{
		FirstName: &name,
		IsActive:  &active,
		Profile:   &authdomain.Profile{Bio: "hi"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Ann", values["first_name"])
	assert.Equal(t, false, values["is_active"])
	assert.JSONEq(t, `{"bio":"hi"}`, values["profile"].(string))
	assert.NotContains(t, values, "role")
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint", ConstraintName: constraint}
}

func TestGormCreateDuplicateEmailConflicts(t *testing.T) {
	repo, mock := newGormMock(t)

	mock.ExpectExec(`INSERT INTO "users"`).WillReturnError(uniqueViolation("idx_users_email"))

	_, err := repo.Create(context.Background(), &authdomain.NewUser{Email: "jane@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "Email already registered", apperror.Message(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUpdateDuplicateExternalIDConflicts(t *testing.T) {
	repo, mock := newGormMock(t)

	mock.ExpectExec(`UPDATE "users" SET`).WillReturnError(uniqueViolation("idx_users_google_id"))

	googleID := "g-1"
	_, err := repo.Update(context.Background(), "u-2", authdomain.UserUpdate{GoogleID: &googleID})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "External account already linked to another user", apperror.Message(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCreateOtherFailurePropagates(t *testing.T) {
	repo, mock := newGormMock(t)

	mock.ExpectExec(`INSERT INTO "users"`).WillReturnError(&pgconn.PgError{Code: "23502", Message: "null value in column"})

	_, err := repo.Create(context.Background(), &authdomain.NewUser{Email: "jane@example.com", Password: "correct-horse"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, 500, apperror.StatusCode(err))
}
