package middleware

import (
	"errors"
	"time"

	"walletledger/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "walletledger-dev"

// IssueToken signs an HS256 token for userID that Handler accepts. The
// identity provider issues production tokens; this exists for local
// development and tests.
func IssueToken(secret, userID string, ttl time.Duration, now time.Time) (string, error) {
	return IssueTokenWithRole(secret, userID, "", ttl, now)
}

// IssueTokenWithRole is IssueToken with a role claim.
func IssueTokenWithRole(secret, userID, role string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("JWT secret not configured")
	}
	if userID == "" {
		return "", errors.New("user id is required")
	}

	claims := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   userID,
		},
		UserID: userID,
		Role:   role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
