// Package users persists identities.
package users

import (
	"context"

	"github.com/dmitrijs2005/trophy/internal/server/models"
)

// Repository is the credential store. Emails are compared as stored; callers
// normalize them first.
type Repository interface {
	// Create inserts user and fills its ID. A taken email is common.ErrConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateProfile writes the patchable profile fields of user.
	UpdateProfile(ctx context.Context, user *models.User) error
	SetRole(ctx context.Context, id int64, role models.Role) error
}
