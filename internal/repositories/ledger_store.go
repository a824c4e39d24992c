// Package repositories provides the ledger store: durable, atomic access to
// wallet rows and append-only access to transaction rows.
package repositories

import (
	"context"
	"fmt"
	"time"

	lerrors "walletledger/internal/errors"
	"walletledger/internal/models"

	"github.com/shopspring/decimal"
)

// LedgerTx is the view of the ledger inside one atomic unit. Writes made
// through it become visible to other units only when the unit commits.
type LedgerTx interface {
	FindWallet(ctx context.Context, userID string) (*models.Wallet, error)
	WalletExists(ctx context.Context, userID string) (bool, error)
	// LockWallets locks the wallets of userIDs for the rest of the unit and
	// returns them in argument order. Rows are always locked in wallet id
	// order, whatever order the users are given in.
	LockWallets(ctx context.Context, userIDs ...string) ([]*models.Wallet, error)
	InsertWallet(ctx context.Context, w *models.Wallet) error
	SaveWallet(ctx context.Context, w *models.Wallet) error
	AppendTransaction(ctx context.Context, t *models.Transaction) error
	FindTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, int64, error)
	ListWalletsWithBalanceAbove(ctx context.Context, amount decimal.Decimal, page Page) ([]*models.Wallet, error)
}

// UnitOfWork runs callbacks against a storage backend. Atomic commits every
// write made by fn together, or none of them if fn or the commit fails.
// View is for reads only.
type UnitOfWork interface {
	Atomic(ctx context.Context, fn func(tx LedgerTx) error) error
	View(ctx context.Context, fn func(tx LedgerTx) error) error
}

// Recorder builds the transaction row committed together with a balance
// change. It runs after the wallets are mutated in memory, before anything
// is written.
type Recorder func() (*models.Transaction, error)

// BalanceUpdate is the outcome of UpdateBalance. Found is false when the
// user has no wallet.
type BalanceUpdate struct {
	Found       bool
	Balance     decimal.Decimal
	Transaction *models.Transaction
}

// TransferOutcome is the outcome of Transfer. Success is false when the
// sender cannot cover the amount; SenderBalance then holds the untouched
// balance.
type TransferOutcome struct {
	Success       bool
	SenderBalance decimal.Decimal
	Transaction   *models.Transaction
}

// LedgerStore is the persistence boundary used by the wallet engine.
type LedgerStore interface {
	GetBalance(ctx context.Context, userID string) (decimal.Decimal, error)
	ExistsForUser(ctx context.Context, userID string) (bool, error)
	CreateWallet(ctx context.Context, w *models.Wallet) error
	UpdateBalance(ctx context.Context, userID string, delta decimal.Decimal, record Recorder) (BalanceUpdate, error)
	Transfer(ctx context.Context, senderUserID, receiverUserID string, amount decimal.Decimal, record Recorder) (TransferOutcome, error)
	AppendTransaction(ctx context.Context, t *models.Transaction) error
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, int64, error)
	ListWalletsWithBalanceAbove(ctx context.Context, amount decimal.Decimal, page Page) ([]*models.Wallet, error)
}

// DefaultStoreTimeout bounds every store call when no timeout is configured.
const DefaultStoreTimeout = 5 * time.Second

type ledgerStore struct {
	uow     UnitOfWork
	timeout time.Duration
}

type StoreOption func(*ledgerStore)

// WithTimeout bounds each store call. Zero or negative disables the bound.
func WithTimeout(d time.Duration) StoreOption {
	return func(s *ledgerStore) { s.timeout = d }
}

func NewLedgerStore(uow UnitOfWork, opts ...StoreOption) LedgerStore {
	if uow == nil {
		panic("unit of work is required")
	}
	s := &ledgerStore{uow: uow, timeout: DefaultStoreTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ledgerStore) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// atomic and view hand fn the bounded context; fn must use it for every
// call on tx.
func (s *ledgerStore) atomic(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return lerrors.StoreFault(err)
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return lerrors.StoreFault(s.uow.Atomic(ctx, func(tx LedgerTx) error { return fn(ctx, tx) }))
}

func (s *ledgerStore) view(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return lerrors.StoreFault(err)
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return lerrors.StoreFault(s.uow.View(ctx, func(tx LedgerTx) error { return fn(ctx, tx) }))
}

func (s *ledgerStore) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.view(ctx, func(ctx context.Context, tx LedgerTx) error {
		w, err := tx.FindWallet(ctx, userID)
		if err != nil {
			return err
		}
		balance = w.Balance()
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (s *ledgerStore) ExistsForUser(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := s.view(ctx, func(ctx context.Context, tx LedgerTx) error {
		var err error
		exists, err = tx.WalletExists(ctx, userID)
		return err
	})
	return exists, err
}

func (s *ledgerStore) CreateWallet(ctx context.Context, w *models.Wallet) error {
	return s.atomic(ctx, func(ctx context.Context, tx LedgerTx) error {
		exists, err := tx.WalletExists(ctx, w.UserID())
		if err != nil {
			return err
		}
		if exists {
			return lerrors.ErrWalletExists
		}
		return tx.InsertWallet(ctx, w)
	})
}

// UpdateBalance credits (delta > 0) or debits (delta < 0) the user's wallet
// and appends the record built by record, in one atomic unit.
func (s *ledgerStore) UpdateBalance(ctx context.Context, userID string, delta decimal.Decimal, record Recorder) (BalanceUpdate, error) {
	if delta.IsZero() {
		return BalanceUpdate{}, lerrors.ErrInvalidAmount
	}

	var out BalanceUpdate
	err := s.atomic(ctx, func(ctx context.Context, tx LedgerTx) error {
		locked, err := tx.LockWallets(ctx, userID)
		if err != nil {
			return err
		}
		w := locked[0]
		out.Found = true
		out.Balance = w.Balance()

		if delta.IsPositive() {
			err = w.Credit(delta)
		} else {
			err = w.Debit(delta.Neg())
		}
		if err != nil {
			return err
		}

		txn, err := commitRecord(ctx, tx, record, w)
		if err != nil {
			return err
		}
		out.Balance = w.Balance()
		out.Transaction = txn
		return nil
	})
	if err != nil {
		if lerrors.CodeOf(err) == lerrors.ErrWalletNotFound.Code {
			return BalanceUpdate{Found: false}, nil
		}
		return out, err
	}
	return out, nil
}

// Transfer moves amount from the sender's wallet to the receiver's. Both rows
// are locked, mutated and saved together with the transfer record, so either
// all of it is committed or none of it is.
func (s *ledgerStore) Transfer(ctx context.Context, senderUserID, receiverUserID string, amount decimal.Decimal, record Recorder) (TransferOutcome, error) {
	if !amount.IsPositive() {
		return TransferOutcome{}, lerrors.ErrInvalidAmount.WithMessage("transfer amount must be greater than zero")
	}
	if senderUserID == receiverUserID {
		return TransferOutcome{}, lerrors.ErrSameWallet
	}

	var out TransferOutcome
	err := s.atomic(ctx, func(ctx context.Context, tx LedgerTx) error {
		locked, err := tx.LockWallets(ctx, senderUserID, receiverUserID)
		if err != nil {
			return err
		}
		sender, receiver := locked[0], locked[1]
		out.SenderBalance = sender.Balance()

		if !sender.CanCover(amount) {
			return lerrors.ErrInsufficientFunds
		}
		if err := sender.Debit(amount); err != nil {
			return err
		}
		if err := receiver.Credit(amount); err != nil {
			return err
		}

		txn, err := commitRecord(ctx, tx, record, sender, receiver)
		if err != nil {
			return err
		}
		out.Success = true
		out.SenderBalance = sender.Balance()
		out.Transaction = txn
		return nil
	})
	if err != nil {
		out.Success = false
		out.Transaction = nil
		return out, err
	}
	return out, nil
}

// commitRecord builds the transaction record, then writes the mutated
// wallets and the record inside tx.
func commitRecord(ctx context.Context, tx LedgerTx, record Recorder, wallets ...*models.Wallet) (*models.Transaction, error) {
	if record == nil {
		return nil, lerrors.ErrDomainValidation.WithMessage("balance change without a transaction record")
	}
	txn, err := record()
	if err != nil {
		return nil, err
	}
	for _, w := range wallets {
		if err := tx.SaveWallet(ctx, w); err != nil {
			return nil, fmt.Errorf("save wallet %s: %w", w.ID(), err)
		}
	}
	if err := tx.AppendTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("append transaction %s: %w", txn.ID(), err)
	}
	return txn, nil
}

func (s *ledgerStore) AppendTransaction(ctx context.Context, t *models.Transaction) error {
	return s.atomic(ctx, func(ctx context.Context, tx LedgerTx) error {
		return tx.AppendTransaction(ctx, t)
	})
}

func (s *ledgerStore) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var txn *models.Transaction
	err := s.view(ctx, func(ctx context.Context, tx LedgerTx) error {
		var err error
		txn, err = tx.FindTransaction(ctx, id)
		return err
	})
	return txn, err
}

func (s *ledgerStore) ListTransactions(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, int64, error) {
	var (
		txns  []*models.Transaction
		total int64
	)
	err := s.view(ctx, func(ctx context.Context, tx LedgerTx) error {
		var err error
		txns, total, err = tx.ListTransactions(ctx, filter)
		return err
	})
	return txns, total, err
}

func (s *ledgerStore) ListWalletsWithBalanceAbove(ctx context.Context, amount decimal.Decimal, page Page) ([]*models.Wallet, error) {
	var wallets []*models.Wallet
	err := s.view(ctx, func(ctx context.Context, tx LedgerTx) error {
		var err error
		wallets, err = tx.ListWalletsWithBalanceAbove(ctx, amount, page)
		return err
	})
	return wallets, err
}
