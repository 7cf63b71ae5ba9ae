// Package currency renders amounts for display using ISO 4217 codes.
package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// FormattingError is returned for currency codes that are malformed or unknown.
type FormattingError struct {
	Code string
	Err  error
}

func (e *FormattingError) Error() string {
	return fmt.Sprintf("unsupported currency code %q: %v", e.Code, e.Err)
}

func (e *FormattingError) Unwrap() error {
	return e.Err
}

// Lookup resolves an ISO 4217 code such as "GHS" or "ugx".
func Lookup(code string) (currency.Unit, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(normalized)
	if err != nil {
		return currency.Unit{}, &FormattingError{Code: code, Err: err}
	}
	return unit, nil
}

// MinorUnits returns the number of decimal places the currency is normally
// written with, e.g. 2 for GHS and 0 for UGX.
func MinorUnits(code string) (int, error) {
	unit, err := Lookup(code)
	if err != nil {
		return 0, err
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale, nil
}

// Format renders amount as "<CODE> <number>", e.g. "GHS 1,234.50".
func Format(amount decimal.Decimal, code string) (string, error) {
	unit, err := Lookup(code)
	if err != nil {
		return "", err
	}
	scale, _ := currency.Standard.Rounding(unit)

	return unit.String() + " " + groupThousands(amount.StringFixed(int32(scale))), nil
}

// groupThousands inserts commas into the integer part of a fixed-point
// string such as "-1234567.50".
func groupThousands(fixed string) string {
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, hasFrac := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// FormatOrFallback never fails: unknown codes fall back to plain two-place
// formatting.
func FormatOrFallback(amount decimal.Decimal, code string) string {
	s, err := Format(amount, code)
	if err != nil {
		return strings.TrimSpace(strings.ToUpper(code) + " " + amount.StringFixed(2))
	}
	return s
}
