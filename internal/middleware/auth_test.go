package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"walletledger/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, key string, claims models.UserClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func claimsFor(userID string, expires time.Time) models.UserClaims {
	return models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expires)},
		UserID:           userID,
	}
}

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(NewAuthMiddleware(secret, nil).Handler)
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	future := time.Now().Add(time.Hour)
	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid token", "Bearer " + sign(t, secret, claimsFor("alice", future)), fiber.StatusOK, "alice"},
		{"missing header", "", fiber.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", fiber.StatusUnauthorized, ""},
		{"wrong key", "Bearer " + sign(t, "other", claimsFor("alice", future)), fiber.StatusUnauthorized, ""},
		{"expired", "Bearer " + sign(t, secret, claimsFor("alice", time.Now().Add(-time.Hour))), fiber.StatusUnauthorized, ""},
		{"no user id", "Bearer " + sign(t, secret, claimsFor("", future)), fiber.StatusUnauthorized, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := newApp().Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.body != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tc.body, string(body))
			}
		})
	}
}

func TestIssueTokenRoundTrip(t *testing.T) {
	token, err := IssueToken(secret, "bob", time.Hour, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := newApp().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "bob", string(body))

	_, err = IssueToken("", "bob", time.Hour, time.Now())
	assert.Error(t, err)
	_, err = IssueToken(secret, "", time.Hour, time.Now())
	assert.Error(t, err)
}
