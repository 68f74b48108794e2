package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/trophy/internal/common"
	"github.com/dmitrijs2005/trophy/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

var (
	created = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	insertQ = `(?s)^INSERT\s+INTO\s+users\s*\(email,\s*name,\s*password_hash,\s*role,\s*branch,\s*year,\s*skills,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7,\s*\$8\)\s*RETURNING\s+id$`
	byIDQ   = `(?s)^SELECT\s+id,\s*email,\s*name,\s*password_hash,\s*role,\s*branch,\s*year,\s*skills,\s*created_at\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`
	byMailQ = `(?s)^SELECT\s+id,.*\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1$`
	cols    = []string{"id", "email", "name", "password_hash", "role", "branch", "year", "skills", "created_at"}
)

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQ).
		WithArgs("alice@example.com", "Alice", "hash", "standard", "CS", 2, "go", created).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	u := &models.User{Email: "alice@example.com", Name: "Alice", PasswordHash: "hash", Role: models.RoleStandard,
		Branch: "CS", Year: 2, Skills: "go", CreatedAt: created}
	got, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.ID)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQ).WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.User{Email: "a@example.com", Role: models.RoleStandard})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Email: "a@example.com"})
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestGetByID_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(byIDQ).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(7), "a@example.com", "Ann", "h", "admin", "", 0, "", created))

	got, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, &models.User{ID: 7, Email: "a@example.com", Name: "Ann", PasswordHash: "h", Role: models.RoleAdmin, CreatedAt: created}, got)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(byIDQ).WithArgs(int64(404)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByEmail(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(byMailQ).WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(1), "a@example.com", "Ann", "h", "standard", "EE", 3, "c", created))
	mock.ExpectQuery(byMailQ).WithArgs("ghost@example.com").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(byMailQ).WithArgs("err@example.com").WillReturnError(errors.New("db err"))

	got, err := repo.GetByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "EE", got.Branch)
	assert.Equal(t, models.RoleStandard, got.Role)

	_, err = repo.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.GetByEmail(context.Background(), "err@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: db err")
}

func TestUpdateProfile(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `(?s)^UPDATE\s+users\s+SET\s+name\s*=\s*\$1,\s*branch\s*=\s*\$2,\s*year\s*=\s*\$3,\s*skills\s*=\s*\$4\s+WHERE\s+id\s*=\s*\$5$`

	mock.ExpectExec(q).WithArgs("Ann", "CS", 4, "rust", int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("Ann", "", 0, "", int64(2)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateProfile(context.Background(), &models.User{ID: 1, Name: "Ann", Branch: "CS", Year: 4, Skills: "rust"}))
	assert.ErrorIs(t, repo.UpdateProfile(context.Background(), &models.User{ID: 2, Name: "Ann"}), common.ErrorNotFound)
}

func TestSetRole(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `(?s)^UPDATE\s+users\s+SET\s+role\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2$`

	mock.ExpectExec(q).WithArgs("admin", int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("admin", int64(4)).WillReturnError(errors.New("boom"))

	require.NoError(t, repo.SetRole(context.Background(), 3, models.RoleAdmin))
	err := repo.SetRole(context.Background(), 4, models.RoleAdmin)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: boom")
}
