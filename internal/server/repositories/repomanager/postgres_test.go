package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/trophy/internal/server/repositories/stars"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func stubGoose(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()
	orig := gooseUpContext
	gooseUpContext = fn
	t.Cleanup(func() { gooseUpContext = orig })
}

func TestNew(t *testing.T) {
	m, err := New("pgx")
	require.NoError(t, err)
	assert.IsType(t, &PostgresRepositoryManager{}, m)

	m, err = New("sqlite")
	require.NoError(t, err)
	assert.IsType(t, &SQLiteRepositoryManager{}, m)

	_, err = New("mysql")
	assert.Error(t, err)
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db := newDB(t)

	for _, m := range []RepositoryManager{NewPostgresRepositoryManager(), NewSQLiteRepositoryManager()} {
		assert.NotNil(t, m.Users(db))
		assert.NotNil(t, m.Projects(db))
		assert.NotNil(t, m.Badges(db))
		assert.NotNil(t, m.Notifications(db))
	}

	assert.IsType(t, &stars.PostgresRepository{}, NewPostgresRepositoryManager().Stars(db))
	assert.IsType(t, &stars.SQLiteRepository{}, NewSQLiteRepositoryManager().Stars(db))
}

func TestRunMigrations_UsesDialectDirectory(t *testing.T) {
	db := newDB(t)

	var dirs []string
	stubGoose(t, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		dirs = append(dirs, dir)
		return nil
	})

	require.NoError(t, NewPostgresRepositoryManager().RunMigrations(context.Background(), db))
	require.NoError(t, NewSQLiteRepositoryManager().RunMigrations(context.Background(), db))
	assert.Equal(t, []string{"postgres", "sqlite"}, dirs)
}

func TestRunMigrations_Error(t *testing.T) {
	db := newDB(t)

	stubGoose(t, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	})

	err := NewPostgresRepositoryManager().RunMigrations(context.Background(), db)
	assert.EqualError(t, err, "boom")
}

func TestRunMigrations_SQLiteSchema(t *testing.T) {
	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "m.db")+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := NewSQLiteRepositoryManager()
	require.NoError(t, m.RunMigrations(context.Background(), db))
	// Applying again is a no-op.
	require.NoError(t, m.RunMigrations(context.Background(), db))

	for _, table := range []string{"users", "projects", "stars", "badges", "notifications"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}
