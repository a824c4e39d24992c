package models

import "github.com/shopspring/decimal"

// Limits of the ledger tables: amounts and balances are numeric(20,4) and
// descriptions are varchar(255).
const (
	AmountScale          = 4
	MaxDescriptionLength = 255
)

// FitsAmountScale reports whether amount has at most AmountScale decimal
// places, so storing it loses nothing.
func FitsAmountScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(AmountScale))
}

// FitsDescription reports whether description fits the description column.
func FitsDescription(description string) bool {
	return len([]rune(description)) <= MaxDescriptionLength
}
