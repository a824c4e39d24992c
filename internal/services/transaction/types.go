package transaction

import "walletledger/internal/models"

// Page is one window of a transaction listing, newest first.
type Page struct {
	Items []*models.Transaction
	Total int64
	Page  int
	Limit int
}
