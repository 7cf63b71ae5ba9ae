package money

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound(t *testing.T) {
	assert.True(t, Round(decimal.RequireFromString("33.333333")).Equal(decimal.RequireFromString("33.33")))
	assert.True(t, Round(decimal.RequireFromString("66.666666")).Equal(decimal.RequireFromString("66.67")))
	assert.True(t, Round(decimal.RequireFromString("0.005")).Equal(decimal.RequireFromString("0.01")))
}

func TestIsWholeMinorUnits(t *testing.T) {
	assert.True(t, IsWholeMinorUnits(decimal.RequireFromString("10.00")))
	assert.True(t, IsWholeMinorUnits(decimal.RequireFromString("10.5")))
	assert.True(t, IsWholeMinorUnits(decimal.RequireFromString("10.0100")))
	assert.False(t, IsWholeMinorUnits(decimal.RequireFromString("10.004")))
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, WithinTolerance(decimal.RequireFromString("100.00"), decimal.RequireFromString("99.99")))
	assert.False(t, WithinTolerance(decimal.RequireFromString("100.00"), decimal.RequireFromString("99.98")))
	assert.True(t, IsNegligible(decimal.RequireFromString("0.004")))
	assert.False(t, IsNegligible(decimal.RequireFromString("-0.01")))
}

func TestRequirePositive(t *testing.T) {
	require.NoError(t, RequirePositive("split", decimal.NewFromInt(1)))

	err := RequirePositive("split", decimal.Zero)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrArithmetic))

	var arith *ArithmeticError
	require.True(t, errors.As(err, &arith))
	assert.Equal(t, "split", arith.Op)
}

func TestFromFloat(t *testing.T) {
	d, err := FromFloat("amount", 12.5)
	require.NoError(t, err)
	assert.Equal(t, "12.5", d.String())

	_, err = FromFloat("amount", math.NaN())
	assert.ErrorIs(t, err, ErrArithmetic)
	_, err = FromFloat("amount", math.Inf(1))
	assert.ErrorIs(t, err, ErrArithmetic)
}

func TestParse(t *testing.T) {
	d, err := Parse("amount", " 45000 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.NewFromInt(45000)))

	_, err = Parse("amount", "")
	assert.ErrorIs(t, err, ErrArithmetic)
	_, err = Parse("amount", "NaN")
	assert.ErrorIs(t, err, ErrArithmetic)
}
