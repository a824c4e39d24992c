// Package routes defines the API routing configuration.
package routes

import (
	"walletledger/internal/handlers"
	"walletledger/internal/middleware"
	"walletledger/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Dependencies carries what the routes need. Health may be nil.
type Dependencies struct {
	WalletService *services.WalletService
	Auth          *middleware.AuthMiddleware
	Health        *handlers.HealthHandler
}

// SetupRoutes registers the public health check, the authenticated wallet
// and transaction routes, and the admin listings.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	health := deps.Health
	if health == nil {
		health = handlers.NewHealthHandler(nil)
	}
	app.Get("/health", health.HealthCheck)

	walletHandler := handlers.NewWalletHandler(deps.WalletService)
	transactionHandler := handlers.NewTransactionHandler(deps.WalletService)

	api := app.Group("/api", deps.Auth.Handler)

	wallet := api.Group("/wallet")
	wallet.Post("/", walletHandler.CreateWallet)
	wallet.Get("/balance", walletHandler.GetBalance)
	wallet.Get("/exists", walletHandler.Exists)
	wallet.Post("/credit", walletHandler.Credit)
	wallet.Post("/debit", walletHandler.Debit)
	wallet.Post("/transfer", walletHandler.Transfer)

	transactions := api.Group("/transactions")
	transactions.Get("/", transactionHandler.GetTransactions)
	transactions.Get("/:id", transactionHandler.GetTransaction)

	admin := api.Group("/admin", deps.Auth.AdminOnly)
	admin.Get("/transactions", transactionHandler.GetAllTransactions)
	admin.Get("/wallets", walletHandler.ListWalletsAbove)
}
