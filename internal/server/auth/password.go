package auth

import (
	"errors"
	"sync"

	"github.com/dmitrijs2005/trophy/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher wraps bcrypt with a fixed cost.
type PasswordHasher struct {
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

// NewPasswordHasher returns a hasher producing bcrypt hashes of the given cost.
func NewPasswordHasher(cost int) *PasswordHasher {
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt hash of password. Passwords longer than bcrypt's
// 72-byte limit are rejected with common.ErrValidation.
func (h *PasswordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", common.ErrValidation
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare checks password against hash in constant time.
// Any mismatch, including a corrupt hash, is common.ErrInvalidCredentials.
func (h *PasswordHasher) Compare(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return common.ErrInvalidCredentials
	}
	return nil
}

// CompareDummy spends the same work as Compare against a throwaway hash and
// always returns common.ErrInvalidCredentials. Used when no account exists.
func (h *PasswordHasher) CompareDummy(password string) error {
	h.dummyOnce.Do(func() {
		h.dummy, _ = bcrypt.GenerateFromPassword([]byte("trophy-dummy-password"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
	return common.ErrInvalidCredentials
}
