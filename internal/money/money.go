package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MinorUnitPlaces is the rounding precision used for all computed shares.
const MinorUnitPlaces int32 = 2

// Tolerance is the largest difference two amounts may have and still be
// considered equal (one minor currency unit).
var Tolerance = decimal.New(1, -MinorUnitPlaces)

// ErrArithmetic is matched by every *ArithmeticError via errors.Is.
var ErrArithmetic = errors.New("arithmetic error")

// ArithmeticError reports an amount or participant list that a computation
// cannot work with.
type ArithmeticError struct {
	Op     string
	Reason string
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// Is lets callers use errors.Is(err, ErrArithmetic).
func (e *ArithmeticError) Is(target error) bool {
	return target == ErrArithmetic
}

// Round rounds an amount half away from zero to minor units.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MinorUnitPlaces)
}

// Sum adds up amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// WithinTolerance reports whether a and b differ by no more than Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// IsWholeMinorUnits reports whether d needs no more than MinorUnitPlaces
// decimals, i.e. it can be stored without rounding.
func IsWholeMinorUnits(d decimal.Decimal) bool {
	return d.Equal(d.Round(MinorUnitPlaces))
}

// IsNegligible reports whether d is closer to zero than one minor unit.
func IsNegligible(d decimal.Decimal) bool {
	return d.Abs().LessThan(Tolerance)
}

// RequirePositive returns an *ArithmeticError unless d > 0.
func RequirePositive(op string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return &ArithmeticError{Op: op, Reason: fmt.Sprintf("amount must be positive, got %s", d.String())}
	}
	return nil
}

// FromFloat converts a float to a decimal, rejecting NaN and infinities.
func FromFloat(op string, f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, &ArithmeticError{Op: op, Reason: "amount is not a finite number"}
	}
	return decimal.NewFromFloat(f), nil
}

// Parse reads a decimal amount such as "1250.50".
func Parse(op, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, &ArithmeticError{Op: op, Reason: "amount is empty"}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ArithmeticError{Op: op, Reason: fmt.Sprintf("invalid amount %q", s)}
	}
	return d, nil
}
