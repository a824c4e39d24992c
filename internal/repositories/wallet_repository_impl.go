package repositories

import (
	"context"
	"errors"
	"fmt"

	lerrors "walletledger/internal/errors"
	"walletledger/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (t *gormTx) FindWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	var row walletRow
	if err := t.db.WithContext(ctx).Where("user_id = ?", userID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lerrors.ErrWalletNotFound
		}
		return nil, classify(fmt.Errorf("failed to get wallet: %w", err))
	}
	return row.toModel(), nil
}

func (t *gormTx) WalletExists(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := t.db.WithContext(ctx).Model(&walletRow{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return false, classify(fmt.Errorf("failed to check wallet: %w", err))
	}
	return count > 0, nil
}

// LockWallets selects the rows FOR UPDATE ordered by primary key, so two
// transfers between the same pair of wallets queue instead of deadlocking.
func (t *gormTx) LockWallets(ctx context.Context, userIDs ...string) ([]*models.Wallet, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var rows []walletRow
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id IN ?", userIDs).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, classify(fmt.Errorf("failed to lock wallets: %w", err))
	}

	byUser := make(map[string]walletRow, len(rows))
	for _, row := range rows {
		byUser[row.UserID] = row
	}
	wallets := make([]*models.Wallet, len(userIDs))
	for i, id := range userIDs {
		row, ok := byUser[id]
		if !ok {
			return nil, lerrors.ErrWalletNotFound.WithMessage("wallet not found for user %s", id)
		}
		wallets[i] = row.toModel()
	}
	return wallets, nil
}

func (t *gormTx) InsertWallet(ctx context.Context, w *models.Wallet) error {
	row := newWalletRow(w)
	if err := t.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return lerrors.ErrWalletExists
		}
		return classify(fmt.Errorf("failed to create wallet: %w", err))
	}
	return nil
}

func (t *gormTx) SaveWallet(ctx context.Context, w *models.Wallet) error {
	result := t.db.WithContext(ctx).
		Model(&walletRow{}).
		Where("id = ?", w.ID()).
		Update("balance", w.Balance())
	if result.Error != nil {
		return classify(fmt.Errorf("failed to update wallet: %w", result.Error))
	}
	if result.RowsAffected == 0 {
		return lerrors.ErrWalletNotFound
	}
	return nil
}

func (t *gormTx) ListWalletsWithBalanceAbove(ctx context.Context, amount decimal.Decimal, page Page) ([]*models.Wallet, error) {
	var rows []walletRow
	err := t.db.WithContext(ctx).
		Where("balance > ? AND is_deleted = ?", amount, false).
		Order("balance").
		Order("id").
		Limit(page.Limit()).
		Offset(page.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, classify(fmt.Errorf("failed to list wallets: %w", err))
	}
	wallets := make([]*models.Wallet, 0, len(rows))
	for _, row := range rows {
		wallets = append(wallets, row.toModel())
	}
	return wallets, nil
}
