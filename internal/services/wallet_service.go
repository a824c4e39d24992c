// Package services holds the application facade used by the HTTP adapter.
// It checks request shape, delegates to the ledger engine and the
// transaction read side, and hands back classified errors only.
package services

import (
	"context"

	lerrors "walletledger/internal/errors"
	"walletledger/internal/logger"
	"walletledger/internal/models"
	"walletledger/internal/services/transaction"
	"walletledger/internal/services/wallet"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EventPublisher announces committed transactions. Failures never change
// the outcome of the operation that produced the transaction.
type EventPublisher interface {
	PublishTransaction(ctx context.Context, txn *models.Transaction) error
}

type WalletService struct {
	engine       wallet.Service
	transactions transaction.Service
	events       EventPublisher
	logger       *zap.Logger
}

// NewWalletService wires the facade. events may be nil.
func NewWalletService(engine wallet.Service, transactions transaction.Service, events EventPublisher, log *zap.Logger) *WalletService {
	return &WalletService{
		engine:       engine,
		transactions: transactions,
		events:       events,
		logger:       logger.OrNop(log).Named("wallet_service"),
	}
}

func (s *WalletService) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	if userID == "" {
		return decimal.Zero, lerrors.ErrInvalidUserID
	}
	balance, err := s.engine.GetBalance(ctx, userID)
	return balance, normalize(err)
}

func (s *WalletService) Exists(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, lerrors.ErrInvalidUserID
	}
	exists, err := s.engine.Exists(ctx, userID)
	return exists, normalize(err)
}

// CreateWallet opens a wallet for userID. A second call for the same user
// fails with ErrWalletExists and leaves the first wallet untouched.
func (s *WalletService) CreateWallet(ctx context.Context, userID string, initialBalance decimal.Decimal) (*models.Wallet, error) {
	if userID == "" {
		return nil, lerrors.ErrInvalidUserID
	}
	if initialBalance.IsNegative() {
		return nil, lerrors.ErrInvalidAmount.WithMessage("initial balance cannot be negative")
	}
	if !models.FitsAmountScale(initialBalance) {
		return nil, lerrors.ErrInvalidAmount.WithMessage("initial balance must have at most %d decimal places", models.AmountScale)
	}
	w, err := s.engine.CreateWallet(ctx, userID, initialBalance)
	return w, normalize(err)
}

func (s *WalletService) Credit(ctx context.Context, userID string, amount decimal.Decimal, description string) (wallet.BalanceResult, error) {
	if err := checkMovement(userID, amount, description); err != nil {
		return wallet.BalanceResult{UserID: userID}, err
	}
	res, err := s.engine.Credit(ctx, userID, amount, description)
	if err != nil {
		return res, normalize(err)
	}
	s.publish(ctx, res.Transaction)
	return res, nil
}

func (s *WalletService) Debit(ctx context.Context, userID string, amount decimal.Decimal, description string) (wallet.BalanceResult, error) {
	if err := checkMovement(userID, amount, description); err != nil {
		return wallet.BalanceResult{UserID: userID}, err
	}
	res, err := s.engine.Debit(ctx, userID, amount, description)
	if err != nil {
		return res, normalize(err)
	}
	s.publish(ctx, res.Transaction)
	return res, nil
}

func (s *WalletService) Transfer(ctx context.Context, senderID, recipientID string, amount decimal.Decimal, description string) (wallet.TransferResult, error) {
	if err := checkMovement(senderID, amount, description); err != nil {
		return wallet.TransferResult{}, err
	}
	if recipientID == "" {
		return wallet.TransferResult{}, lerrors.ErrInvalidUserID
	}
	if senderID == recipientID {
		return wallet.TransferResult{}, lerrors.ErrSameWallet
	}
	res, err := s.engine.Transfer(ctx, senderID, recipientID, amount, description)
	if err != nil {
		return res, normalize(err)
	}
	s.publish(ctx, res.Transaction)
	return res, nil
}

func (s *WalletService) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	txn, err := s.transactions.GetTransaction(ctx, id)
	return txn, normalize(err)
}

// ListTransactions lists the records userID sent or received, newest first.
func (s *WalletService) ListTransactions(ctx context.Context, userID string, page, limit int) (*transaction.Page, error) {
	if userID == "" {
		return nil, lerrors.ErrInvalidUserID
	}
	p, err := s.transactions.ListByUser(ctx, userID, page, limit)
	return p, normalize(err)
}

// ListAllTransactions lists every record in the ledger, newest first.
func (s *WalletService) ListAllTransactions(ctx context.Context, page, limit int) (*transaction.Page, error) {
	p, err := s.transactions.List(ctx, page, limit)
	return p, normalize(err)
}

func (s *WalletService) ListWalletsWithBalanceAbove(ctx context.Context, amount decimal.Decimal, page, limit int) ([]*models.Wallet, error) {
	wallets, err := s.engine.ListWalletsWithBalanceAbove(ctx, amount, page, limit)
	return wallets, normalize(err)
}

func (s *WalletService) publish(ctx context.Context, txn *models.Transaction) {
	if s.events == nil || txn == nil {
		return
	}
	if err := s.events.PublishTransaction(context.WithoutCancel(ctx), txn); err != nil {
		s.logger.Warn("failed to publish transaction event",
			zap.String("transaction_id", txn.ID()),
			zap.Error(err),
		)
	}
}

// checkMovement rejects anything the ledger tables cannot store exactly.
func checkMovement(userID string, amount decimal.Decimal, description string) error {
	if userID == "" {
		return lerrors.ErrInvalidUserID
	}
	if !amount.IsPositive() {
		return lerrors.ErrInvalidAmount
	}
	if !models.FitsAmountScale(amount) {
		return lerrors.ErrInvalidAmount.WithMessage("amount must have at most %d decimal places", models.AmountScale)
	}
	if !models.FitsDescription(description) {
		return lerrors.ErrInvalidDescription
	}
	return nil
}

// normalize makes sure every error leaving the facade carries a kind.
func normalize(err error) error {
	return lerrors.StoreFault(err)
}
