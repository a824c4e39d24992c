package wallet

import (
	"context"

	"walletledger/internal/models"

	"github.com/shopspring/decimal"
)

// Service is the wallet ledger engine. It is stateless and safe for
// concurrent use; all coordination happens in the ledger store.
type Service interface {
	CreateWallet(ctx context.Context, userID string, initialBalance decimal.Decimal) (*models.Wallet, error)
	GetBalance(ctx context.Context, userID string) (decimal.Decimal, error)
	Exists(ctx context.Context, userID string) (bool, error)

	Credit(ctx context.Context, userID string, amount decimal.Decimal, description string) (BalanceResult, error)
	Debit(ctx context.Context, userID string, amount decimal.Decimal, description string) (BalanceResult, error)
	Transfer(ctx context.Context, senderID, recipientID string, amount decimal.Decimal, description string) (TransferResult, error)

	ListWalletsWithBalanceAbove(ctx context.Context, amount decimal.Decimal, page, limit int) ([]*models.Wallet, error)
}
