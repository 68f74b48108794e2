package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/trophy/internal/dbx"
	"github.com/dmitrijs2005/trophy/internal/server/migrations"
	"github.com/dmitrijs2005/trophy/internal/server/repositories/badges"
	"github.com/dmitrijs2005/trophy/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/trophy/internal/server/repositories/projects"
	"github.com/dmitrijs2005/trophy/internal/server/repositories/stars"
	"github.com/dmitrijs2005/trophy/internal/server/repositories/users"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends repositories for an embedded SQLite
// database. Only the star lock differs from PostgreSQL.
type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *SQLiteRepositoryManager) Projects(db dbx.DBTX) projects.Repository {
	return projects.NewPostgresRepository(db)
}

func (m *SQLiteRepositoryManager) Stars(db dbx.DBTX) stars.Repository {
	return stars.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Badges(db dbx.DBTX) badges.Repository {
	return badges.NewPostgresRepository(db)
}

func (m *SQLiteRepositoryManager) Notifications(db dbx.DBTX) notifications.Repository {
	return notifications.NewPostgresRepository(db)
}

// RunMigrations applies the embedded SQLite migrations.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "sqlite3", migrations.SQLiteDir)
}
