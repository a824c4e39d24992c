package repositories

import (
	"context"
	"errors"
	"fmt"

	lerrors "walletledger/internal/errors"
	"walletledger/internal/models"

	"gorm.io/gorm"
)

func (t *gormTx) AppendTransaction(ctx context.Context, txn *models.Transaction) error {
	row := newTransactionRow(txn)
	if err := t.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return lerrors.ErrDomainValidation.WithMessage("transaction %s already recorded", txn.ID())
		}
		return classify(fmt.Errorf("failed to create transaction: %w", err))
	}
	return nil
}

func (t *gormTx) FindTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var row transactionRow
	if err := t.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lerrors.ErrTransactionNotFound
		}
		return nil, classify(fmt.Errorf("failed to get transaction: %w", err))
	}
	return row.toModel()
}

// ListTransactions returns the newest records first, with the total number of
// records matching filter.
func (t *gormTx) ListTransactions(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, int64, error) {
	query := t.db.WithContext(ctx).Model(&transactionRow{})
	if filter.UserID != "" {
		query = query.Where("sender_id = ? OR recipient_id = ?", filter.UserID, filter.UserID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, classify(fmt.Errorf("failed to count transactions: %w", err))
	}

	var rows []transactionRow
	err := query.
		Order("timestamp DESC").
		Order("id").
		Limit(filter.Page.Limit()).
		Offset(filter.Page.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, classify(fmt.Errorf("failed to get transaction history: %w", err))
	}

	txns := make([]*models.Transaction, 0, len(rows))
	for _, row := range rows {
		txn, err := row.toModel()
		if err != nil {
			return nil, 0, err
		}
		txns = append(txns, txn)
	}
	return txns, total, nil
}
