package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the bearer-token payload issued by the identity provider.
// The ledger only reads the opaque UserID out of it.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
}

// RoleAdmin grants access to the ledger-wide listings.
const RoleAdmin = "admin"
