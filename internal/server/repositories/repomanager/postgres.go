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
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Projects(db dbx.DBTX) projects.Repository {
	return projects.NewPostgresRepository(db)
}

// Stars returns the repository whose Lock takes a PostgreSQL advisory lock.
func (m *PostgresRepositoryManager) Stars(db dbx.DBTX) stars.Repository {
	return stars.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Badges(db dbx.DBTX) badges.Repository {
	return badges.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Notifications(db dbx.DBTX) notifications.Repository {
	return notifications.NewPostgresRepository(db)
}

// RunMigrations applies the embedded PostgreSQL migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "pgx", migrations.PostgresDir)
}
