// Package servertest wires the trophy services against a throwaway SQLite
// database for tests of the layers above them.
package servertest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/trophy/internal/logging"
	"github.com/dmitrijs2005/trophy/internal/server/config"
	"github.com/dmitrijs2005/trophy/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/trophy/internal/server/services"
	"github.com/dmitrijs2005/trophy/internal/server/shared/db"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type Env struct {
	Config        *config.Config
	Auth          *services.AuthService
	Awarder       *services.BadgeAwarder
	Projects      *services.ProjectService
	Ledger        *services.LedgerService
	Notifications *services.NotificationService
}

// Config returns server defaults tuned for tests: SQLite in a temporary
// directory, minimum bcrypt cost and no login rate limit.
func Config(t testing.TB) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabaseDriver = config.DriverSQLite
	c.DatabaseDSN = "file:" + filepath.Join(t.TempDir(), "trophy.db")
	c.SecretKey = "test-secret"
	c.PasswordCost = bcrypt.MinCost
	c.LoginRateLimit = 0
	return c
}

// New builds every service on a migrated database. dispatcher may be nil.
func New(t testing.TB, dispatcher services.Dispatcher) *Env {
	t.Helper()

	c := Config(t)
	ctx := context.Background()

	conn, err := db.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	m := repomanager.NewSQLiteRepositoryManager()
	require.NoError(t, m.RunMigrations(ctx, conn))

	logger := logging.Nop()
	authService := services.NewAuthService(conn, m, c, logger)
	t.Cleanup(authService.Close)
	awarder := services.NewBadgeAwarder(conn, m, c.StorageTimeout, logger)

	return &Env{
		Config:        c,
		Auth:          authService,
		Awarder:       awarder,
		Projects:      services.NewProjectService(conn, m, c, awarder, logger),
		Ledger:        services.NewLedgerService(conn, m, c.StorageTimeout, logger),
		Notifications: services.NewNotificationService(conn, m, c.StorageTimeout, authService, dispatcher, logger),
	}
}
