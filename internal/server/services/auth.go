package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/trophy/internal/common"
	"github.com/dmitrijs2005/trophy/internal/logging"
	"github.com/dmitrijs2005/trophy/internal/ratelimit"
	"github.com/dmitrijs2005/trophy/internal/server/auth"
	"github.com/dmitrijs2005/trophy/internal/server/config"
	"github.com/dmitrijs2005/trophy/internal/server/models"
	"github.com/dmitrijs2005/trophy/internal/server/repositories/repomanager"
)

// loginLimiterIdle is how long an email's attempt history is kept.
const loginLimiterIdle = 30 * time.Minute

// RegisterRequest carries a new account.
type RegisterRequest struct {
	Email    string
	Password string
	Name     string
	Branch   string
	Year     int
	Skills   string
}

// AuthService verifies credentials, issues and resolves session tokens and
// gates admin operations. It also owns profile reads and updates.
type AuthService struct {
	store
	tokens  *auth.TokenService
	hasher  *auth.PasswordHasher
	limiter *ratelimit.KeyedRateLimiter
	logger  logging.Logger
	now     func() time.Time
}

// NewAuthService builds an AuthService from the server config.
// Close releases the login limiter.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		store:   newStore(db, m, cfg.StorageTimeout),
		tokens:  auth.NewTokenService([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration),
		hasher:  auth.NewPasswordHasher(cfg.PasswordCost),
		limiter: ratelimit.New(cfg.LoginRateLimit, cfg.LoginBurst, loginLimiterIdle),
		logger:  logger.With("module", "auth"),
		now:     utcNow,
	}
}

// TokenTTL is the validity of issued session tokens.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// Close stops background work.
func (s *AuthService) Close() {
	s.limiter.Stop()
}

// NormalizeEmail trims and lower-cases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a standard account. A taken email is common.ErrConflict;
// a missing email, password or name is common.ErrValidation.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	return s.register(ctx, req, models.RoleStandard)
}

// RegisterAdmin creates an account with the admin role.
func (s *AuthService) RegisterAdmin(ctx context.Context, req RegisterRequest) (*models.User, error) {
	return s.register(ctx, req, models.RoleAdmin)
}

func (s *AuthService) register(ctx context.Context, req RegisterRequest, role models.Role) (*models.User, error) {
	email := NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || !strings.Contains(email, "@") || req.Password == "" || name == "" {
		return nil, common.ErrValidation
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		Branch:       req.Branch,
		Year:         req.Year,
		Skills:       req.Skills,
		CreatedAt:    s.now(),
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, storageErr(err)
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID, "role", string(u.Role))
	return u, nil
}

// Authenticate checks email and password. Unknown emails and wrong passwords
// both yield common.ErrInvalidCredentials after the same bcrypt work.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, s.hasher.CompareDummy(password)
		}
		return nil, storageErr(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates and issues a session token. Attempts are rate limited
// per email; exceeding the limit is common.ErrTooManyAttempts.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	key := NormalizeEmail(email)
	if !s.limiter.Allow(key) {
		s.logger.Warn(ctx, "login rate limited")
		return "", nil, common.ErrTooManyAttempts
	}

	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	s.limiter.Forget(key)

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Resolve verifies token and loads its identity. Token errors come from
// auth.TokenService.Verify; a deleted identity is common.ErrIdentityNotFound.
func (s *AuthService) Resolve(ctx context.Context, token string) (*models.User, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrIdentityNotFound
		}
		return nil, storageErr(err)
	}
	return user, nil
}

// RequireAdmin returns common.ErrForbidden unless user is an admin.
func (s *AuthService) RequireAdmin(user *models.User) error {
	if !user.IsAdmin() {
		return common.ErrForbidden
	}
	return nil
}

// Profile returns a user with their badges and projects.
func (s *AuthService) Profile(ctx context.Context, id int64) (*models.Profile, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}

	badges, err := s.repomanager.Badges(s.db).ListByUser(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}

	projects, err := s.repomanager.Projects(s.db).ListByOwnerWithStarCounts(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}

	return &models.Profile{User: *user, Badges: badges, Projects: projects}, nil
}

// UpdateProfile applies patch to the actor's own profile. Clearing the name
// is common.ErrValidation.
func (s *AuthService) UpdateProfile(ctx context.Context, actor *models.User, patch models.UserPatch) (*models.User, error) {
	if actor == nil {
		return nil, common.ErrIdentityNotFound
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, common.ErrValidation
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrIdentityNotFound
		}
		return nil, storageErr(err)
	}
	if patch.Empty() {
		return user, nil
	}

	patch.Apply(user)
	if err := repo.UpdateProfile(ctx, user); err != nil {
		return nil, storageErr(err)
	}
	return user, nil
}

// PromoteToAdmin grants the admin role to the account with email.
func (s *AuthService) PromoteToAdmin(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, storageErr(err)
	}
	if user.IsAdmin() {
		return user, nil
	}

	if err := repo.SetRole(ctx, user.ID, models.RoleAdmin); err != nil {
		return nil, storageErr(err)
	}
	user.Role = models.RoleAdmin

	s.logger.Info(ctx, "user promoted to admin", "user_id", user.ID)
	return user, nil
}
