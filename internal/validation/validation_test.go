package validation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateMovement(t *testing.T) {
	tests := []struct {
		name        string
		amount      string
		description string
		wantErrors  map[string]string
	}{
		{"valid", "10.5", "rent", map[string]string{}},
		{"zero", "0", "", map[string]string{"amount": "must be greater than zero"}},
		{"negative", "-3", "", map[string]string{"amount": "must be greater than zero"}},
		{"too precise", "0.00001", "", map[string]string{"amount": "must have at most 4 decimal places"}},
		{"four places", "0.0001", "", map[string]string{}},
		{"description at limit", "1", strings.Repeat("x", 255), map[string]string{}},
		{"description over limit", "1", strings.Repeat("x", 256),
			map[string]string{"description": "must not be more than 255 characters long"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateMovement(decimal.RequireFromString(tt.amount), tt.description)
			assert.Equal(t, tt.wantErrors, v.Errors)
			assert.Equal(t, len(tt.wantErrors) == 0, v.Valid())
		})
	}
}

func TestValidateTransfer(t *testing.T) {
	v := ValidateTransfer("  ", decimal.NewFromInt(1), "")
	assert.False(t, v.Valid())
	assert.Equal(t, "must not be empty", v.Errors["recipient_id"])

	v = ValidateTransfer("bob", decimal.NewFromInt(1), "")
	assert.True(t, v.Valid())
}

func TestValidateCreateWallet(t *testing.T) {
	assert.True(t, ValidateCreateWallet(decimal.Zero).Valid())
	assert.False(t, ValidateCreateWallet(decimal.NewFromInt(-1)).Valid())
}

func TestAddErrorKeepsFirstMessage(t *testing.T) {
	v := New()
	v.AddError("amount", "first")
	v.AddError("amount", "second")
	assert.Equal(t, "first", v.Errors["amount"])
}
