package wallet

import (
	"time"

	"walletledger/internal/models"

	"github.com/shopspring/decimal"
)

// BalanceResult is returned by Credit and Debit. On InsufficientFunds,
// Balance is the unchanged balance and Transaction is nil.
type BalanceResult struct {
	UserID      string
	Balance     decimal.Decimal
	Transaction *models.Transaction
}

// TransferResult is returned by Transfer. Success is false on
// InsufficientFunds, with SenderBalance holding the sender's current balance.
type TransferResult struct {
	Success       bool
	SenderBalance decimal.Decimal
	Transaction   *models.Transaction
}

// MetricsCollector defines the interface for collecting wallet metrics
type MetricsCollector interface {
	// Operation metrics
	RecordOperationDuration(operation string, duration time.Duration)
	RecordOperationResult(operation, result string)

	// Error metrics
	RecordError(operation, errKind string)

	// Transaction metrics
	RecordTransaction(txType string, amount decimal.Decimal)
}
