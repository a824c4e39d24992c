package models

import (
	"strings"
	"time"

	lerrors "walletledger/internal/errors"

	"github.com/shopspring/decimal"
)

// Wallet holds the balance of exactly one user. The balance can only change
// through Credit and Debit, which keep it non-negative.
type Wallet struct {
	id        string
	userID    string
	balance   decimal.Decimal
	isDeleted bool
	createdAt time.Time
	updatedAt time.Time
}

// WalletSnapshot is the flat form of a Wallet used by storage backends.
type WalletSnapshot struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	IsDeleted bool            `json:"is_deleted"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewWallet creates a wallet for userID holding initialBalance.
func NewWallet(ids IDGenerator, clock Clock, userID string, initialBalance decimal.Decimal) (*Wallet, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, lerrors.ErrInvalidUserID
	}
	if initialBalance.IsNegative() {
		return nil, lerrors.ErrInvalidAmount.WithMessage("initial balance cannot be negative")
	}

	now := clock.Now()
	return &Wallet{
		id:        ids.NewID(),
		userID:    userID,
		balance:   initialBalance,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// RestoreWallet rebuilds a wallet from its stored form.
func RestoreWallet(s WalletSnapshot) *Wallet {
	return &Wallet{
		id:        s.ID,
		userID:    s.UserID,
		balance:   s.Balance,
		isDeleted: s.IsDeleted,
		createdAt: s.CreatedAt,
		updatedAt: s.UpdatedAt,
	}
}

func (w *Wallet) ID() string               { return w.id }
func (w *Wallet) UserID() string           { return w.userID }
func (w *Wallet) Balance() decimal.Decimal { return w.balance }
func (w *Wallet) IsDeleted() bool          { return w.isDeleted }
func (w *Wallet) CreatedAt() time.Time     { return w.createdAt }
func (w *Wallet) UpdatedAt() time.Time     { return w.updatedAt }

// Credit adds amount to the balance.
func (w *Wallet) Credit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return lerrors.ErrInvalidAmount.WithMessage("credit amount must be greater than zero")
	}
	w.balance = w.balance.Add(amount)
	return nil
}

// Debit removes amount from the balance. The balance is left untouched when
// it cannot cover amount.
func (w *Wallet) Debit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return lerrors.ErrInvalidAmount.WithMessage("debit amount must be greater than zero")
	}
	if w.balance.LessThan(amount) {
		return lerrors.ErrInsufficientFunds
	}
	w.balance = w.balance.Sub(amount)
	return nil
}

// CanCover reports whether the balance is at least amount.
func (w *Wallet) CanCover(amount decimal.Decimal) bool {
	return w.balance.GreaterThanOrEqual(amount)
}

// Snapshot returns the stored form of the wallet, stamped with updatedAt.
func (w *Wallet) Snapshot(updatedAt time.Time) WalletSnapshot {
	return WalletSnapshot{
		ID:        w.id,
		UserID:    w.userID,
		Balance:   w.balance,
		IsDeleted: w.isDeleted,
		CreatedAt: w.createdAt,
		UpdatedAt: updatedAt,
	}
}
