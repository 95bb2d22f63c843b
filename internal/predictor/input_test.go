package predictor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInputs_Valid(t *testing.T) {
	req, err := ParseInputs(Inputs{Balance: "1500.50", Purchases: " 200 ", CreditLimit: "5e3"})
	require.NoError(t, err)
	assert.Equal(t, PredictionRequest{Balance: 1500.5, Purchases: 200, CreditLimit: 5000}, req)
}

func TestParseInputs_DecimalForms(t *testing.T) {
	req, err := ParseInputs(Inputs{Balance: "+12.", Purchases: "-0.25e2", CreditLimit: "1E-1"})
	require.NoError(t, err)
	assert.Equal(t, PredictionRequest{Balance: 12, Purchases: -25, CreditLimit: 0.1}, req)
}

func TestParseInputs_NegativeAndZero(t *testing.T) {
	req, err := ParseInputs(Inputs{Balance: "-10", Purchases: "0", CreditLimit: ".5"})
	require.NoError(t, err)
	assert.Equal(t, PredictionRequest{Balance: -10, Purchases: 0, CreditLimit: 0.5}, req)
}

func TestParseInputs_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		in        Inputs
		wantField string
	}{
		{"empty balance", Inputs{"", "1", "1"}, FieldBalance},
		{"blank purchases", Inputs{"1", "   ", "1"}, FieldPurchases},
		{"word credit limit", Inputs{"1", "1", "lots"}, FieldCreditLimit},
		{"trailing garbage", Inputs{"12abc", "1", "1"}, FieldBalance},
		{"nan", Inputs{"1", "NaN", "1"}, FieldPurchases},
		{"inf", Inputs{"1", "1", "Inf"}, FieldCreditLimit},
		{"overflow", Inputs{"1e400", "1", "1"}, FieldBalance},
		{"first bad field wins", Inputs{"x", "y", "z"}, FieldBalance},
		{"digit separator", Inputs{"1_000", "1", "1"}, FieldBalance},
		{"hex float", Inputs{"0x1p3", "1", "1"}, FieldBalance},
		{"hex upper", Inputs{"1", "0X10", "1"}, FieldPurchases},
		{"infinity word", Inputs{"1", "1", "-infinity"}, FieldCreditLimit},
		{"lone sign", Inputs{"-", "1", "1"}, FieldBalance},
		{"lone dot", Inputs{"1", ".", "1"}, FieldPurchases},
		{"dangling exponent", Inputs{"1", "1", "1e"}, FieldCreditLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseInputs(tt.in)
			assert.Equal(t, PredictionRequest{}, req)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Field: FieldBalance, Value: "abc"}
	assert.Equal(t, `invalid balance: "abc" is not a valid number`, err.Error())
}
