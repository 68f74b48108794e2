package stars

import (
	"context"

	"github.com/dmitrijs2005/trophy/internal/dbx"
)

// SQLiteRepository shares the PostgreSQL statements. SQLite has no advisory
// locks; write transactions are opened IMMEDIATE (the _txlock DSN option),
// which already holds the database write lock for the whole toggle.
type SQLiteRepository struct {
	*PostgresRepository
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{PostgresRepository: NewPostgresRepository(db)}
}

func (r *SQLiteRepository) Lock(ctx context.Context, userID, projectID int64) error {
	return nil
}
