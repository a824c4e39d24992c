package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"walletledger/internal/handlers"
	"walletledger/internal/middleware"
	"walletledger/internal/models"
	"walletledger/internal/repositories"
	"walletledger/internal/services"
	"walletledger/internal/services/transaction"
	"walletledger/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqIDs struct{ n int }

func (g *seqIDs) NewID() string {
	g.n++
	return fmt.Sprintf("id-%03d", g.n)
}

func setupApp(t *testing.T, checks map[string]handlers.HealthCheckFunc) *fiber.App {
	t.Helper()
	clock := fixedClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := repositories.NewLedgerStore(repositories.NewMemoryStore(clock))
	engine := wallet.NewService(store, clock, &seqIDs{}, nil, nil)
	facade := services.NewWalletService(engine, transaction.NewService(store, nil, nil), nil, nil)

	app := fiber.New()
	SetupRoutes(app, Dependencies{
		WalletService: facade,
		Auth:          middleware.NewAuthMiddleware(testSecret, nil),
		Health:        handlers.NewHealthHandler(checks),
	})
	return app
}

func tokenFor(t *testing.T, userID, role string) string {
	t.Helper()
	signed, err := middleware.IssueTokenWithRole(testSecret, userID, role, time.Hour, time.Now())
	require.NoError(t, err)
	return signed
}

func call(t *testing.T, app *fiber.App, method, path, userID, body string) (int, map[string]interface{}) {
	t.Helper()
	token := ""
	if userID != "" {
		token = tokenFor(t, userID, "")
	}
	return send(t, app, method, path, token, body)
}

func callAsAdmin(t *testing.T, app *fiber.App, method, path string) (int, map[string]interface{}) {
	t.Helper()
	return send(t, app, method, path, tokenFor(t, "root", models.RoleAdmin), "")
}

func send(t *testing.T, app *fiber.App, method, path, token, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "missing data in %v", body)
	return d
}

func TestWalletLifecycle(t *testing.T) {
	app := setupApp(t, nil)

	status, body := call(t, app, http.MethodPost, "/api/wallet", "alice", `{"initial_balance":"100"}`)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "100", data(t, body)["balance"])

	status, body = call(t, app, http.MethodPost, "/api/wallet", "alice", `{"initial_balance":"5"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["created"])

	status, _ = call(t, app, http.MethodPost, "/api/wallet", "bob", "")
	require.Equal(t, http.StatusCreated, status)

	status, body = call(t, app, http.MethodPost, "/api/wallet/credit", "alice", `{"amount":"50.25"}`)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "150.25", data(t, body)["balance"])

	status, body = call(t, app, http.MethodPost, "/api/wallet/transfer", "alice", `{"recipient_id":"bob","amount":"30","description":"rent"}`)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, data(t, body)["success"])
	assert.Equal(t, "120.25", data(t, body)["balance"])

	status, body = call(t, app, http.MethodGet, "/api/wallet/balance", "bob", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "30", data(t, body)["balance"])

	status, body = call(t, app, http.MethodGet, "/api/wallet/exists", "carol", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, data(t, body)["exists"])
}

func TestInsufficientFundsResponse(t *testing.T) {
	app := setupApp(t, nil)
	call(t, app, http.MethodPost, "/api/wallet", "alice", `{"initial_balance":"10"}`)
	call(t, app, http.MethodPost, "/api/wallet", "bob", "")

	status, body := call(t, app, http.MethodPost, "/api/wallet/debit", "alice", `{"amount":"11"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INSUFFICIENT_FUNDS", body["code"])
	assert.Equal(t, "10", body["balance"])

	status, body = call(t, app, http.MethodPost, "/api/wallet/transfer", "alice", `{"recipient_id":"bob","amount":"11"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "10", body["balance"])

	_, body = call(t, app, http.MethodGet, "/api/wallet/balance", "bob", "")
	assert.Equal(t, "0", data(t, body)["balance"])
}

func TestErrorStatuses(t *testing.T) {
	app := setupApp(t, nil)
	call(t, app, http.MethodPost, "/api/wallet", "alice", `{"initial_balance":"10"}`)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"zero credit", http.MethodPost, "/api/wallet/credit", `{"amount":"0"}`, http.StatusBadRequest},
		{"negative debit", http.MethodPost, "/api/wallet/debit", `{"amount":"-1"}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/wallet/credit", `{"amount":`, http.StatusBadRequest},
		{"self transfer", http.MethodPost, "/api/wallet/transfer", `{"recipient_id":"alice","amount":"1"}`, http.StatusBadRequest},
		{"unknown recipient", http.MethodPost, "/api/wallet/transfer", `{"recipient_id":"zed","amount":"1"}`, http.StatusNotFound},
		{"unknown transaction", http.MethodGet, "/api/transactions/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, app, tt.method, tt.path, "alice", tt.body)
			assert.Equal(t, tt.want, status, body)
		})
	}

	status, _ := call(t, app, http.MethodGet, "/api/wallet/balance", "ghost", "")
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = call(t, app, http.MethodPost, "/api/wallet/credit", "ghost", `{"amount":"1"}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRequiresToken(t *testing.T) {
	app := setupApp(t, nil)
	status, _ := call(t, app, http.MethodGet, "/api/wallet/balance", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestTransactionRoutes(t *testing.T) {
	app := setupApp(t, nil)
	call(t, app, http.MethodPost, "/api/wallet", "alice", `{"initial_balance":"100"}`)
	call(t, app, http.MethodPost, "/api/wallet", "bob", "")
	call(t, app, http.MethodPost, "/api/wallet", "carol", "")

	call(t, app, http.MethodPost, "/api/wallet/credit", "alice", `{"amount":"5"}`)
	_, body := call(t, app, http.MethodPost, "/api/wallet/transfer", "alice", `{"recipient_id":"bob","amount":"20"}`)
	txn := data(t, body)["transaction"].(map[string]interface{})
	id := txn["id"].(string)

	status, body := call(t, app, http.MethodGet, "/api/transactions?limit=1", "alice", "")
	require.Equal(t, http.StatusOK, status, body)
	items := body["data"].([]interface{})
	require.Len(t, items, 1)
	meta := body["meta"].(map[string]interface{})
	assert.EqualValues(t, 2, meta["total_items"])

	status, body = call(t, app, http.MethodGet, "/api/transactions", "bob", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, body = call(t, app, http.MethodGet, "/api/transactions/"+id, "bob", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "20", data(t, body)["amount"])

	status, _ = call(t, app, http.MethodGet, "/api/transactions/"+id, "carol", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealthCheck(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	app := setupApp(t, map[string]handlers.HealthCheckFunc{"database": ok})
	status, body := call(t, app, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	app = setupApp(t, map[string]handlers.HealthCheckFunc{"database": ok, "redis": down})
	status, body = call(t, app, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "degraded", body["status"])
	deps := body["services"].(map[string]interface{})
	assert.Equal(t, "unavailable", deps["redis"])
	assert.Equal(t, "connected", deps["database"])
}

func TestValidationErrorsListFields(t *testing.T) {
	app := setupApp(t, nil)
	call(t, app, http.MethodPost, "/api/wallet", "alice", `{"initial_balance":"10"}`)

	status, body := call(t, app, http.MethodPost, "/api/wallet/transfer", "alice", `{"amount":"1.00001"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
	fields := body["fields"].(map[string]interface{})
	assert.Contains(t, fields, "amount")
	assert.Contains(t, fields, "recipient_id")

	_, body = call(t, app, http.MethodGet, "/api/wallet/balance", "alice", "")
	assert.Equal(t, "10", data(t, body)["balance"])
}

func TestAdminListings(t *testing.T) {
	app := setupApp(t, nil)
	call(t, app, http.MethodPost, "/api/wallet", "alice", `{"initial_balance":"50"}`)
	call(t, app, http.MethodPost, "/api/wallet", "bob", `{"initial_balance":"30"}`)
	call(t, app, http.MethodPost, "/api/wallet", "carol", `{"initial_balance":"70"}`)
	call(t, app, http.MethodPost, "/api/wallet/credit", "alice", `{"amount":"1"}`)
	call(t, app, http.MethodPost, "/api/wallet/transfer", "carol", `{"recipient_id":"bob","amount":"5"}`)

	status, _ := call(t, app, http.MethodGet, "/api/admin/transactions", "alice", "")
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = call(t, app, http.MethodGet, "/api/admin/wallets", "alice", "")
	assert.Equal(t, http.StatusForbidden, status)

	status, body := callAsAdmin(t, app, http.MethodGet, "/api/admin/transactions?limit=10")
	require.Equal(t, http.StatusOK, status, body)
	assert.Len(t, body["data"], 2)
	assert.EqualValues(t, 2, body["meta"].(map[string]interface{})["total_items"])

	status, body = callAsAdmin(t, app, http.MethodGet, "/api/admin/wallets?above=40")
	require.Equal(t, http.StatusOK, status, body)
	wallets := data(t, body)["wallets"].([]interface{})
	require.Len(t, wallets, 2)
	assert.Equal(t, "alice", wallets[0].(map[string]interface{})["user_id"])
	assert.Equal(t, "carol", wallets[1].(map[string]interface{})["user_id"])

	status, _ = callAsAdmin(t, app, http.MethodGet, "/api/admin/wallets?above=lots")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLongDescriptionRejectedBeforeStorage(t *testing.T) {
	app := setupApp(t, nil)
	call(t, app, http.MethodPost, "/api/wallet", "alice", `{"initial_balance":"10"}`)

	body := fmt.Sprintf(`{"amount":"1","description":%q}`, strings.Repeat("x", models.MaxDescriptionLength+1))
	status, resp := call(t, app, http.MethodPost, "/api/wallet/debit", "alice", body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp["fields"], "description")

	_, resp = call(t, app, http.MethodGet, "/api/transactions", "alice", "")
	assert.Len(t, resp["data"], 0)
}
