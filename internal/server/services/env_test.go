package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/trophy/internal/logging"
	"github.com/dmitrijs2005/trophy/internal/server/config"
	"github.com/dmitrijs2005/trophy/internal/server/models"
	"github.com/dmitrijs2005/trophy/internal/server/repositories/repomanager"
	sdb "github.com/dmitrijs2005/trophy/internal/server/shared/db"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type dispatched struct {
	n        models.Notification
	channels []string
}

type recordingDispatcher struct {
	mu    sync.Mutex
	calls []dispatched
}

func (d *recordingDispatcher) Dispatch(_ context.Context, n models.Notification, channels []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, dispatched{n: n, channels: channels})
}

func (d *recordingDispatcher) all() []dispatched {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]dispatched(nil), d.calls...)
}

type testEnv struct {
	cfg           *config.Config
	manager       repomanager.RepositoryManager
	auth          *AuthService
	awarder       *BadgeAwarder
	ledger        *LedgerService
	projects      *ProjectService
	notifications *NotificationService
	dispatcher    *recordingDispatcher
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDriver = config.DriverSQLite
	cfg.SecretKey = "test-secret"
	cfg.PasswordCost = bcrypt.MinCost
	cfg.LoginRateLimit = 0
	return cfg
}

// newTestEnv wires every service against a migrated SQLite database in a
// temporary directory. mutate may adjust the config before wiring.
func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}
	cfg.DatabaseDSN = "file:" + filepath.Join(t.TempDir(), "trophy.db")

	ctx := context.Background()
	db, err := sdb.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	manager := repomanager.NewSQLiteRepositoryManager()
	require.NoError(t, manager.RunMigrations(ctx, db))

	logger := logging.Nop()
	authService := NewAuthService(db, manager, cfg, logger)
	t.Cleanup(authService.Close)

	awarder := NewBadgeAwarder(db, manager, cfg.StorageTimeout, logger)
	dispatcher := &recordingDispatcher{}

	return &testEnv{
		cfg:           cfg,
		manager:       manager,
		auth:          authService,
		awarder:       awarder,
		ledger:        NewLedgerService(db, manager, cfg.StorageTimeout, logger),
		projects:      NewProjectService(db, manager, cfg, awarder, logger),
		notifications: NewNotificationService(db, manager, cfg.StorageTimeout, authService, dispatcher, logger),
		dispatcher:    dispatcher,
	}
}

func (e *testEnv) register(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: "s3cret-pass",
		Name:     "User " + email,
		Branch:   "CSE",
		Year:     3,
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) registerAdmin(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := e.auth.RegisterAdmin(context.Background(), RegisterRequest{
		Email:    email,
		Password: "admin-pass",
		Name:     "Admin",
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) createProject(t *testing.T, owner *models.User, title string) (*models.Project, *models.Badge) {
	t.Helper()
	p, b, err := e.projects.Create(context.Background(), owner, models.ProjectInput{
		Title:       title,
		Description: "desc",
		TechStack:   `["go","grpc"]`,
		GithubLink:  "https://github.com/example/" + title,
	})
	require.NoError(t, err)
	return p, b
}
