// Package amount validates requested transfer amounts.
package amount

import (
	"encoding/json"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-transfer/internal/domain"
)

// Places is the number of decimal digits a transfer amount may carry.
const Places = 1

// Bounds on the magnitude of a coerced amount. Coerce rejects values
// outside them, such as "1e100000000" or "1e-100000000".
const (
	maxIntegerDigits  = 18
	maxFractionDigits = 32
)

// Coerce converts a raw form amount into a decimal.
//
// Numbers, json.Number and numeric strings are accepted. Anything else,
// including an empty string, is not a number.
func Coerce(raw any) (decimal.Decimal, bool) {
	switch v := raw.(type) {
	case decimal.Decimal:
		return bounded(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, false
		}
		return bounded(decimal.NewFromFloat(v))
	case float32:
		return Coerce(float64(v))
	case int:
		return bounded(decimal.NewFromInt(int64(v)))
	case int32:
		return decimal.NewFromInt32(v), true
	case int64:
		return bounded(decimal.NewFromInt(v))
	case json.Number:
		return Coerce(string(v))
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return decimal.Zero, false
		}

		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}

		return bounded(d)
	default:
		return decimal.Zero, false
	}
}

// bounded reports d only if it has at most maxIntegerDigits before and
// maxFractionDigits after the decimal point.
func bounded(d decimal.Decimal) (decimal.Decimal, bool) {
	exp := int64(d.Exponent())
	if exp < -maxFractionDigits || exp > maxIntegerDigits {
		return decimal.Zero, false
	}

	digits := int64(len(new(big.Int).Abs(d.Coefficient()).String()))
	if digits+exp > maxIntegerDigits {
		return decimal.Zero, false
	}

	return d, true
}

// Round rounds d to the nearest tenth, halves away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Validate coerces, rounds and range-checks a raw amount.
// It returns the rounded amount on success.
func Validate(raw any) (decimal.Decimal, *domain.ValidationError) {
	d, ok := Coerce(raw)
	if !ok {
		return decimal.Zero, &domain.ValidationError{
			Field:   domain.FieldAmount,
			Code:    domain.CodeNotANumber,
			Message: domain.MsgAmountNotANumber,
		}
	}

	rounded := Round(d)

	if rounded.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, &domain.ValidationError{
			Field:   domain.FieldAmount,
			Code:    domain.CodeNonPositiveAmount,
			Message: domain.MsgAmountNonPositive,
		}
	}

	if !rounded.Equal(rounded.Truncate(Places)) {
		return decimal.Zero, &domain.ValidationError{
			Field:   domain.FieldAmount,
			Code:    domain.CodeFormatInvalid,
			Message: domain.MsgAmountFormat,
		}
	}

	return rounded, nil
}

// CheckBalance rejects an already validated amount that exceeds balance.
func CheckBalance(amount, balance decimal.Decimal) *domain.ValidationError {
	if amount.GreaterThan(balance) {
		return &domain.ValidationError{
			Field:   domain.FieldAmount,
			Code:    domain.CodeInsufficientBalance,
			Message: domain.MsgInsufficientBalance,
		}
	}

	return nil
}

// Format renders an amount with two decimals for display.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
