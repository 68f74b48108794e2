// Package repomanager vends repositories bound to a dbx.DBTX, so services
// can run the same repository code on the pool or inside a transaction,
// and runs the schema migrations for the selected dialect.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/trophy/internal/dbx"
	"github.com/dmitrijs2005/trophy/internal/server/config"
	"github.com/dmitrijs2005/trophy/internal/server/migrations"
	"github.com/dmitrijs2005/trophy/internal/server/repositories/badges"
	"github.com/dmitrijs2005/trophy/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/trophy/internal/server/repositories/projects"
	"github.com/dmitrijs2005/trophy/internal/server/repositories/stars"
	"github.com/dmitrijs2005/trophy/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Projects(db dbx.DBTX) projects.Repository
	Stars(db dbx.DBTX) stars.Repository
	Badges(db dbx.DBTX) badges.Repository
	Notifications(db dbx.DBTX) notifications.Repository
}

// New returns the manager for a config.Driver* value.
func New(driver string) (RepositoryManager, error) {
	switch driver {
	case config.DriverPostgres:
		return NewPostgresRepositoryManager(), nil
	case config.DriverSQLite:
		return NewSQLiteRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

func runMigrations(ctx context.Context, db *sql.DB, dialect, dir string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, dir)
}
