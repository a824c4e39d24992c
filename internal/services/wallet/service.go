package wallet

import (
	"context"
	"fmt"
	"strings"
	"time"

	lerrors "walletledger/internal/errors"
	"walletledger/internal/logger"
	"walletledger/internal/models"
	"walletledger/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type service struct {
	store   repositories.LedgerStore
	factory *models.TransactionFactory
	clock   models.Clock
	ids     models.IDGenerator
	metrics MetricsCollector
	logger  *zap.Logger
}

// NewService creates the ledger engine. clock, ids, metrics and log may be
// nil; the system clock, UUIDs, a no-op collector and a no-op logger are
// used instead.
func NewService(
	store repositories.LedgerStore,
	clock models.Clock,
	ids models.IDGenerator,
	metrics MetricsCollector,
	log *zap.Logger,
) Service {
	if store == nil {
		panic("ledger store is required")
	}
	if clock == nil {
		clock = models.SystemClock{}
	}
	if ids == nil {
		ids = models.UUIDGenerator{}
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		store:   store,
		factory: models.NewTransactionFactory(clock, ids),
		clock:   clock,
		ids:     ids,
		metrics: metrics,
		logger:  logger.OrNop(log).Named("ledger"),
	}
}

func (s *service) CreateWallet(ctx context.Context, userID string, initialBalance decimal.Decimal) (w *models.Wallet, err error) {
	defer s.observe(OpCreateWallet, time.Now(), &err, zap.String("user_id", userID))

	if !models.FitsAmountScale(initialBalance) {
		return nil, errAmountScale
	}
	w, err = models.NewWallet(s.ids, s.clock, userID, initialBalance)
	if err != nil {
		return nil, err
	}
	if err = s.store.CreateWallet(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *service) GetBalance(ctx context.Context, userID string) (balance decimal.Decimal, err error) {
	defer s.observe(OpGetBalance, time.Now(), &err, zap.String("user_id", userID))

	if err = validateUserID(userID); err != nil {
		return decimal.Zero, err
	}
	return s.store.GetBalance(ctx, userID)
}

func (s *service) Exists(ctx context.Context, userID string) (exists bool, err error) {
	defer s.observe(OpExists, time.Now(), &err, zap.String("user_id", userID))

	if err = validateUserID(userID); err != nil {
		return false, err
	}
	return s.store.ExistsForUser(ctx, userID)
}

func (s *service) Credit(ctx context.Context, userID string, amount decimal.Decimal, description string) (res BalanceResult, err error) {
	defer s.observe(OpCredit, time.Now(), &err, zap.String("user_id", userID), zap.Stringer("amount", amount))

	if err = validateMovement(userID, amount, description); err != nil {
		return BalanceResult{UserID: userID}, err
	}
	if strings.TrimSpace(description) == "" {
		description = fmt.Sprintf(creditDescriptionFormat, amount, userID)
	}

	out, err := s.store.UpdateBalance(ctx, userID, amount, func() (*models.Transaction, error) {
		return s.factory.CreateCredit(amount, description, userID)
	})
	return s.balanceResult(userID, out, err)
}

func (s *service) Debit(ctx context.Context, userID string, amount decimal.Decimal, description string) (res BalanceResult, err error) {
	defer s.observe(OpDebit, time.Now(), &err, zap.String("user_id", userID), zap.Stringer("amount", amount))

	if err = validateMovement(userID, amount, description); err != nil {
		return BalanceResult{UserID: userID}, err
	}
	if strings.TrimSpace(description) == "" {
		description = fmt.Sprintf(debitDescriptionFormat, amount, userID)
	}

	out, err := s.store.UpdateBalance(ctx, userID, amount.Neg(), func() (*models.Transaction, error) {
		return s.factory.CreateDebit(amount, description, userID)
	})
	return s.balanceResult(userID, out, err)
}

func (s *service) balanceResult(userID string, out repositories.BalanceUpdate, err error) (BalanceResult, error) {
	res := BalanceResult{UserID: userID, Balance: out.Balance, Transaction: out.Transaction}
	if err != nil {
		res.Transaction = nil
		return res, err
	}
	if !out.Found {
		return BalanceResult{UserID: userID}, lerrors.ErrWalletNotFound.WithMessage("wallet not found for user %s", userID)
	}
	s.metrics.RecordTransaction(string(out.Transaction.Type()), out.Transaction.Amount())
	return res, nil
}

func (s *service) Transfer(ctx context.Context, senderID, recipientID string, amount decimal.Decimal, description string) (res TransferResult, err error) {
	defer s.observe(OpTransfer, time.Now(), &err,
		zap.String("sender_id", senderID),
		zap.String("recipient_id", recipientID),
		zap.Stringer("amount", amount),
	)

	if err = validateMovement(senderID, amount, description); err != nil {
		return TransferResult{}, err
	}
	if err = validateUserID(recipientID); err != nil {
		return TransferResult{}, err
	}
	if senderID == recipientID {
		return TransferResult{}, lerrors.ErrSameWallet
	}
	if strings.TrimSpace(description) == "" {
		description = fmt.Sprintf(transferDescriptionFormat, amount, senderID, recipientID)
	}

	out, err := s.store.Transfer(ctx, senderID, recipientID, amount, func() (*models.Transaction, error) {
		return s.factory.CreateTransfer(amount, description, senderID, recipientID)
	})
	res = TransferResult{Success: out.Success, SenderBalance: out.SenderBalance, Transaction: out.Transaction}
	if err != nil {
		return res, err
	}
	s.metrics.RecordTransaction(string(models.TransactionTypeTransfer), amount)
	return res, nil
}

func (s *service) ListWalletsWithBalanceAbove(ctx context.Context, amount decimal.Decimal, page, limit int) (wallets []*models.Wallet, err error) {
	defer s.observe(OpListWallets, time.Now(), &err, zap.Stringer("amount", amount))

	return s.store.ListWalletsWithBalanceAbove(ctx, amount, repositories.NewPage(page, limit))
}

func validateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return lerrors.ErrInvalidUserID
	}
	return nil
}

var errAmountScale = lerrors.ErrInvalidAmount.WithMessage("amount must have at most %d decimal places", models.AmountScale)

func validateMovement(userID string, amount decimal.Decimal, description string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return lerrors.ErrInvalidAmount
	}
	if !models.FitsAmountScale(amount) {
		return errAmountScale
	}
	if !models.FitsDescription(description) {
		return lerrors.ErrInvalidDescription
	}
	return nil
}

// observe records the outcome of an operation. Rejections are
// logged at warn, faults and defects at error.
func (s *service) observe(op string, start time.Time, errp *error, fields ...zap.Field) {
	s.metrics.RecordOperationDuration(op, time.Since(start))
	fields = append(fields, zap.String("operation", op))

	err := *errp
	if err == nil {
		s.metrics.RecordOperationResult(op, ResultSuccess)
		if isRead(op) {
			s.logger.Debug("ledger read served", fields...)
			return
		}
		s.logger.Info("ledger operation committed", fields...)
		return
	}

	kind := lerrors.KindOf(err)
	s.metrics.RecordError(op, string(kind))
	fields = append(fields, zap.String("kind", string(kind)), zap.Error(err))

	switch kind {
	case lerrors.KindStoreFault, lerrors.KindDomainValidation:
		s.metrics.RecordOperationResult(op, ResultFailed)
		s.logger.Error("ledger operation failed", fields...)
	default:
		s.metrics.RecordOperationResult(op, ResultRejected)
		s.logger.Warn("ledger operation rejected", fields...)
	}
}
