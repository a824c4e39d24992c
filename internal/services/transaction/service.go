// Package transaction is the read side of the ledger: lookups and listings
// of committed transaction records.
package transaction

import (
	"context"
	"strings"

	lerrors "walletledger/internal/errors"
	"walletledger/internal/logger"
	"walletledger/internal/models"
	"walletledger/internal/repositories"

	"go.uber.org/zap"
)

type service struct {
	store  repositories.LedgerStore
	cache  Cache
	logger *zap.Logger
}

// NewService creates the query service. cache may be nil.
func NewService(store repositories.LedgerStore, cache Cache, log *zap.Logger) Service {
	if store == nil {
		panic("ledger store is required")
	}
	return &service{
		store:  store,
		cache:  cache,
		logger: logger.OrNop(log).Named("transactions"),
	}
}

func (s *service) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	if strings.TrimSpace(id) == "" {
		return nil, lerrors.ErrTransactionNotFound
	}

	if s.cache != nil {
		txn, err := s.cache.GetTransaction(ctx, id)
		if err != nil {
			s.logger.Warn("transaction cache read failed", zap.String("transaction_id", id), zap.Error(err))
		} else if txn != nil {
			return txn, nil
		}
	}

	txn, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheTransaction(ctx, txn); err != nil {
			s.logger.Warn("transaction cache write failed", zap.String("transaction_id", id), zap.Error(err))
		}
	}
	return txn, nil
}

func (s *service) ListByUser(ctx context.Context, userID string, page, limit int) (*Page, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, lerrors.ErrInvalidUserID
	}
	return s.list(ctx, userID, page, limit)
}

func (s *service) List(ctx context.Context, page, limit int) (*Page, error) {
	return s.list(ctx, "", page, limit)
}

func (s *service) list(ctx context.Context, userID string, page, limit int) (*Page, error) {
	p := repositories.NewPage(page, limit)
	items, total, err := s.store.ListTransactions(ctx, repositories.TransactionFilter{UserID: userID, Page: p})
	if err != nil {
		return nil, err
	}
	return &Page{Items: items, Total: total, Page: p.Number, Limit: p.Size}, nil
}
