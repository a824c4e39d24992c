package wallet

// Operation names used in logs and metrics.
const (
	OpCreateWallet = "create_wallet"
	OpGetBalance   = "get_balance"
	OpExists       = "exists"
	OpCredit       = "credit"
	OpDebit        = "debit"
	OpTransfer     = "transfer"
	OpListWallets  = "list_wallets"
)

// Operation results reported to MetricsCollector.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// Descriptions used when the caller does not supply one.
const (
	creditDescriptionFormat   = "Credit of %s to wallet %s"
	debitDescriptionFormat    = "Debit of %s from wallet %s"
	transferDescriptionFormat = "Transfer of %s from %s to %s"
)

func isRead(op string) bool {
	switch op {
	case OpGetBalance, OpExists, OpListWallets:
		return true
	}
	return false
}
