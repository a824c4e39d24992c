// Package validation checks the shape of incoming ledger requests before
// they reach the facade.
package validation

import (
	"fmt"
	"strings"

	"walletledger/internal/models"

	"github.com/shopspring/decimal"
)

// Validator collects field errors.
type Validator struct {
	Errors map[string]string
}

// New creates a new validator
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid checks if there are any validation errors
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records message for field unless field already has one.
func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; !exists {
		v.Errors[field] = message
	}
}

// Check adds an error if the condition is false
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Required checks if a string is not blank
func (v *Validator) Required(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, "must not be empty")
}

// MaxLength checks if a string has at most n characters
func (v *Validator) MaxLength(field, value string, n int) {
	v.Check(len([]rune(value)) <= n, field, fmt.Sprintf("must not be more than %d characters long", n))
}

// PositiveAmount checks that value is greater than zero and fits the
// ledger's precision.
func (v *Validator) PositiveAmount(field string, value decimal.Decimal) {
	v.Check(value.IsPositive(), field, "must be greater than zero")
	v.Scale(field, value)
}

// NonNegativeAmount is PositiveAmount that also accepts zero.
func (v *Validator) NonNegativeAmount(field string, value decimal.Decimal) {
	v.Check(!value.IsNegative(), field, "must not be negative")
	v.Scale(field, value)
}

// Scale checks that value has at most MaxAmountScale decimal places.
func (v *Validator) Scale(field string, value decimal.Decimal) {
	v.Check(models.FitsAmountScale(value), field,
		fmt.Sprintf("must have at most %d decimal places", MaxAmountScale))
}
