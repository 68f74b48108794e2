// Package auth issues and verifies session tokens and hashes passwords.
// Both are pure computation; nothing here touches storage.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/dmitrijs2005/trophy/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenService signs HS256 session tokens carrying the identity id in "sub".
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService returns a TokenService using the real clock.
func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	return &TokenService{secret: secret, ttl: ttl, now: time.Now}
}

// WithClock returns a copy of s that reads time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	c := *s
	c.now = now
	return &c
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for userID that expires TTL from now.
// A zero TTL produces a token that is already expired.
func (s *TokenService) Issue(userID int64) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns the id in
// "sub". Errors are common.ErrInvalidSignature, common.ErrTokenExpired or
// common.ErrMalformedToken.
func (s *TokenService) Verify(token string) (int64, error) {
	claims := &jwt.RegisteredClaims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return 0, common.ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return 0, common.ErrTokenExpired
	default:
		return 0, common.ErrMalformedToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ErrMalformedToken
	}
	return id, nil
}
