package repositories

import (
	"time"

	"walletledger/internal/models"

	"github.com/shopspring/decimal"
)

// walletRow is the wallets table. user_id is unique, which is what keeps
// wallet creation idempotent under concurrent requests.
type walletRow struct {
	ID        string          `gorm:"primaryKey;type:varchar(64)"`
	UserID    string          `gorm:"type:varchar(128);uniqueIndex;not null"`
	Balance   decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	IsDeleted bool            `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (walletRow) TableName() string { return "wallets" }

func newWalletRow(w *models.Wallet) walletRow {
	s := w.Snapshot(w.UpdatedAt())
	return walletRow{
		ID:        s.ID,
		UserID:    s.UserID,
		Balance:   s.Balance,
		IsDeleted: s.IsDeleted,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (r walletRow) toModel() *models.Wallet {
	return models.RestoreWallet(models.WalletSnapshot{
		ID:        r.ID,
		UserID:    r.UserID,
		Balance:   r.Balance,
		IsDeleted: r.IsDeleted,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	})
}

// transactionRow is the transactions table. Rows are only ever inserted.
type transactionRow struct {
	ID          string          `gorm:"primaryKey;type:varchar(64)"`
	Type        string          `gorm:"type:varchar(16);not null;index"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Description string          `gorm:"type:varchar(255);not null"`
	Status      string          `gorm:"type:varchar(16);not null"`
	SenderID    *string         `gorm:"type:varchar(128);index"`
	RecipientID *string         `gorm:"type:varchar(128);index"`
	Timestamp   time.Time       `gorm:"not null;index"`
}

func (transactionRow) TableName() string { return "transactions" }

func newTransactionRow(t *models.Transaction) transactionRow {
	s := t.Snapshot()
	return transactionRow{
		ID:          s.ID,
		Type:        string(s.Type),
		Amount:      s.Amount,
		Description: s.Description,
		Status:      string(s.Status),
		SenderID:    nullable(s.SenderID),
		RecipientID: nullable(s.RecipientID),
		Timestamp:   s.Timestamp,
	}
}

func (r transactionRow) toModel() (*models.Transaction, error) {
	return models.RestoreTransaction(models.TransactionSnapshot{
		ID:          r.ID,
		Type:        models.TransactionType(r.Type),
		Amount:      r.Amount,
		Description: r.Description,
		Status:      models.TransactionStatus(r.Status),
		SenderID:    deref(r.SenderID),
		RecipientID: deref(r.RecipientID),
		Timestamp:   r.Timestamp,
	})
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
