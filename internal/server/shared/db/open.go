// Package db opens the single *sql.DB pool the server shares between its
// services.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/trophy/internal/server/config"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// sqlitePragmas make every transaction take the write lock up front, wait on
// a busy database instead of failing and enforce foreign keys.
var sqlitePragmas = []string{
	"_txlock=immediate",
	"_pragma=busy_timeout(5000)",
	"_pragma=foreign_keys(1)",
}

// SQLiteDSN appends the pragmas the server relies on to a SQLite DSN.
func SQLiteDSN(dsn string) string {
	var missing []string
	for _, p := range sqlitePragmas {
		if !strings.Contains(dsn, p) {
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(missing, "&")
}

// Open opens and pings a pool for a config.Driver* value. SQLite pools are
// limited to one connection so writers queue inside database/sql.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case config.DriverPostgres:
	case config.DriverSQLite:
		dsn = SQLiteDSN(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if driver == config.DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}
