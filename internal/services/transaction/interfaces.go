package transaction

import (
	"context"

	"walletledger/internal/models"
)

// Service answers queries over committed transaction records.
type Service interface {
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID string, page, limit int) (*Page, error)
	List(ctx context.Context, page, limit int) (*Page, error)
}

// Cache holds settled records by id. GetTransaction returns (nil, nil) on a
// miss.
type Cache interface {
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	CacheTransaction(ctx context.Context, txn *models.Transaction) error
}
