// Package middleware provides HTTP middleware components for the application.
package middleware

import (
	"strings"

	"walletledger/internal/logger"
	"walletledger/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	ClaimsKey = "claims"
	UserIDKey = "userID"
)

// AuthMiddleware verifies bearer tokens issued by the identity provider and
// exposes the caller's user id to handlers. It performs no identity logic of
// its own.
type AuthMiddleware struct {
	secret []byte
	logger *zap.Logger
}

func NewAuthMiddleware(secret string, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		secret: []byte(secret),
		logger: logger.OrNop(log).Named("auth"),
	}
}

// Handler validates JWT tokens and adds claims to the request context.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		m.logger.Debug("token rejected", zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid claims"})
	}

	c.Locals(ClaimsKey, claims)
	c.Locals(UserIDKey, claims.UserID)

	return c.Next()
}

// UserID returns the authenticated caller, or "" outside Handler.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}

// AdminOnly rejects callers whose claims do not carry the admin role. It
// must run after Handler.
func (m *AuthMiddleware) AdminOnly(c *fiber.Ctx) error {
	claims, ok := c.Locals(ClaimsKey).(*models.UserClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid claims"})
	}
	if claims.Role != models.RoleAdmin {
		m.logger.Info("admin route denied", zap.String("user_id", claims.UserID), zap.String("role", claims.Role))
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient permissions"})
	}
	return c.Next()
}
