package validation

import "github.com/shopspring/decimal"

func ValidateCreateWallet(initialBalance decimal.Decimal) *Validator {
	v := New()
	v.NonNegativeAmount("initial_balance", initialBalance)
	return v
}

func ValidateMovement(amount decimal.Decimal, description string) *Validator {
	v := New()
	v.PositiveAmount("amount", amount)
	v.MaxLength("description", description, MaxDescriptionLength)
	return v
}

func ValidateTransfer(recipientID string, amount decimal.Decimal, description string) *Validator {
	v := ValidateMovement(amount, description)
	v.Required("recipient_id", recipientID)
	v.MaxLength("recipient_id", recipientID, MaxUserIDLength)
	return v
}
