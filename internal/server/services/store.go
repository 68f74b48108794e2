// Package services contains the server-side business logic: identity and
// session handling, the star ledger, badge awards, projects and broadcast
// notifications. Every service receives the one *sql.DB pool explicitly and
// reaches storage through a repomanager.RepositoryManager.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/trophy/internal/common"
	"github.com/dmitrijs2005/trophy/internal/dbx"
	"github.com/dmitrijs2005/trophy/internal/server/repositories/repomanager"
)

// store bundles what every service needs to reach the database.
type store struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	timeout     time.Duration
}

func newStore(db *sql.DB, m repomanager.RepositoryManager, timeout time.Duration) store {
	return store{db: db, repomanager: m, timeout: timeout}
}

// withTimeout bounds a single storage operation.
func (s store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// inTx runs fn in a transaction bounded by the storage timeout.
func (s store) inTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return storageErr(dbx.WithTx(ctx, s.db, nil, fn))
}

// storageErr maps transient storage failures to common.ErrStorageUnavailable
// and passes everything else through unchanged.
func storageErr(err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return err
	}
	if dbx.IsUnavailable(err) {
		return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	return err
}

func utcNow() time.Time { return time.Now().UTC() }
