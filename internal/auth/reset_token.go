// Package auth implements stateless password-reset tokens.
package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultResetTokenTTL is how long a reset token stays valid.
const DefaultResetTokenTTL = 600 * time.Second

const resetClaim = "reset_password"

// TokenService issues and verifies signed password-reset tokens. Tokens are
// self-contained HS256 JWTs bound to a user ID with an absolute expiry; no
// server-side token table exists, so a token is valid until it expires or
// the secret key rotates.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService returns a TokenService signing with the given secret key.
func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// NewTokenServiceWithClock returns a TokenService using the given clock.
// Used by tests to simulate expiry without sleeping.
func NewTokenServiceWithClock(secret string, now func() time.Time) *TokenService {
	return &TokenService{secret: []byte(secret), now: now}
}

// IssueResetToken creates a signed token identifying userID, expiring
// expiresIn from now. A non-positive expiresIn falls back to the default.
func (s *TokenService) IssueResetToken(userID uint, expiresIn time.Duration) (string, error) {
	if expiresIn <= 0 {
		expiresIn = DefaultResetTokenTTL
	}

	claims := jwt.MapClaims{
		resetClaim: strconv.FormatUint(uint64(userID), 10),
		"exp":      s.now().Add(expiresIn).Unix(),
		"iat":      s.now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyResetToken checks signature and expiry and returns the bound user
// ID. Any failure (malformed token, bad signature, wrong algorithm,
// expired) reports (0, false); callers never learn which check failed.
func (s *TokenService) VerifyResetToken(tokenString string) (uint, bool) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}

	sub, ok := claims[resetClaim].(string)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
