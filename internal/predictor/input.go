package predictor

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// decimalPattern accepts plain decimal numbers only: an optional sign, digits
// with an optional fraction, and an optional exponent. Underscores, hex and
// the words Inf/NaN do not match.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Field names as shown to the user.
const (
	FieldBalance     = "balance"
	FieldPurchases   = "purchases"
	FieldCreditLimit = "credit limit"
)

// Inputs holds the three raw form values.
type Inputs struct {
	Balance     string
	Purchases   string
	CreditLimit string
}

// ParseInputs converts the raw form values into a request. It fails with a
// *ValidationError on the first value that is empty, not a plain decimal
// number, or out of float64 range.
func ParseInputs(in Inputs) (PredictionRequest, error) {
	balance, err := parseNumber(FieldBalance, in.Balance)
	if err != nil {
		return PredictionRequest{}, err
	}
	purchases, err := parseNumber(FieldPurchases, in.Purchases)
	if err != nil {
		return PredictionRequest{}, err
	}
	creditLimit, err := parseNumber(FieldCreditLimit, in.CreditLimit)
	if err != nil {
		return PredictionRequest{}, err
	}

	return PredictionRequest{
		Balance:     balance,
		Purchases:   purchases,
		CreditLimit: creditLimit,
	}, nil
}

func parseNumber(field, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if !decimalPattern.MatchString(s) {
		return 0, &ValidationError{Field: field, Value: raw}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: field, Value: raw}
	}
	return v, nil
}
