package split

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/momosplit/internal/money"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertAmounts(t *testing.T, want []string, got []decimal.Decimal) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, dec(want[i]).Equal(got[i]), "share %d: want %s, got %s", i, want[i], got[i])
	}
}

func TestComputeEqualSplit_FirstMemberAbsorbsRemainder(t *testing.T) {
	shares, err := ComputeEqualSplit(dec("100"), []int64{1, 2, 3})
	require.NoError(t, err)

	assertAmounts(t, []string{"33.34", "33.33", "33.33"}, Amounts(shares))
	assert.Equal(t, []int64{1, 2, 3}, []int64{shares[0].UserID, shares[1].UserID, shares[2].UserID})
	assert.True(t, money.Sum(Amounts(shares)...).Equal(dec("100")))
}

func TestComputeEqualSplit_NegativeResidual(t *testing.T) {
	// 200 / 3 rounds up to 66.67, so the first member gives a cent back
	shares, err := ComputeEqualSplit(dec("200"), []int64{7, 8, 9})
	require.NoError(t, err)

	assertAmounts(t, []string{"66.66", "66.67", "66.67"}, Amounts(shares))
	assert.True(t, money.Sum(Amounts(shares)...).Equal(dec("200")))
}

func TestComputeEqualSplit_SumIsExact(t *testing.T) {
	amounts := []string{"0.01", "0.05", "1", "10.10", "99.99", "1000", "45000", "12345.67"}
	for _, a := range amounts {
		for n := 1; n <= 9; n++ {
			members := make([]int64, n)
			for i := range members {
				members[i] = int64(i + 1)
			}

			shares, err := ComputeEqualSplit(dec(a), members)
			require.NoError(t, err)
			require.Len(t, shares, n)
			assert.True(t, money.Sum(Amounts(shares)...).Equal(dec(a)), "amount %s split %d ways", a, n)
		}
	}
}

func TestComputeEqualSplit_SingleMember(t *testing.T) {
	shares, err := ComputeEqualSplit(dec("45000"), []int64{42})
	require.NoError(t, err)
	require.Len(t, shares, 1)
	assert.Equal(t, int64(42), shares[0].UserID)
	assert.True(t, shares[0].Amount.Equal(dec("45000")))
}

func TestComputeEqualSplit_Idempotent(t *testing.T) {
	members := []int64{3, 1, 2}
	first, err := ComputeEqualSplit(dec("10"), members)
	require.NoError(t, err)
	second, err := ComputeEqualSplit(dec("10"), members)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []int64{3, 1, 2}, members)
}

func TestComputeEqualSplit_Rejects(t *testing.T) {
	_, err := ComputeEqualSplit(dec("0"), []int64{1})
	assert.ErrorIs(t, err, money.ErrArithmetic)

	_, err = ComputeEqualSplit(dec("-5"), []int64{1})
	assert.ErrorIs(t, err, money.ErrArithmetic)

	_, err = ComputeEqualSplit(dec("5"), nil)
	assert.ErrorIs(t, err, money.ErrArithmetic)

	_, err = ComputeEqualSplit(dec("5"), []int64{1, 1})
	assert.ErrorIs(t, err, ErrDuplicateMember)
}

func TestComputePercentageSplit(t *testing.T) {
	shares, err := ComputePercentageSplit(dec("200"), []decimal.Decimal{dec("50"), dec("30"), dec("20")})
	require.NoError(t, err)
	assertAmounts(t, []string{"100.00", "60.00", "40.00"}, shares)
}

func TestComputePercentageSplit_NoRedistribution(t *testing.T) {
	shares, err := ComputePercentageSplit(dec("100"), []decimal.Decimal{dec("33.33"), dec("33.33"), dec("33.34")})
	require.NoError(t, err)
	assertAmounts(t, []string{"33.33", "33.33", "33.34"}, shares)

	// 10 * 1/3 each: rounding leaves the total a cent short, within tolerance
	third := dec("33.3333")
	shares, err = ComputePercentageSplit(dec("10"), []decimal.Decimal{third, third, third})
	require.NoError(t, err)
	assertAmounts(t, []string{"3.33", "3.33", "3.33"}, shares)
	assert.True(t, money.WithinTolerance(money.Sum(shares...), dec("10")))
}

func TestComputePercentageSplit_DoesNotRequireHundred(t *testing.T) {
	shares, err := ComputePercentageSplit(dec("100"), []decimal.Decimal{dec("50"), dec("20")})
	require.NoError(t, err)
	assertAmounts(t, []string{"50.00", "20.00"}, shares)
}

func TestComputePercentageSplit_Rejects(t *testing.T) {
	_, err := ComputePercentageSplit(dec("0"), []decimal.Decimal{dec("100")})
	assert.ErrorIs(t, err, money.ErrArithmetic)

	_, err = ComputePercentageSplit(dec("10"), nil)
	assert.ErrorIs(t, err, money.ErrArithmetic)

	_, err = ComputePercentageSplit(dec("10"), []decimal.Decimal{dec("101")})
	assert.ErrorIs(t, err, ErrPercentageOutOfRange)

	_, err = ComputePercentageSplit(dec("10"), []decimal.Decimal{dec("-1")})
	assert.ErrorIs(t, err, ErrPercentageOutOfRange)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		name      string
		splitType string
		inputs    []Input
		wantType  SplitType
		wantErr   error
	}{
		{
			name:      "equal",
			splitType: "EQUAL",
			inputs:    []Input{{UserID: 1}, {UserID: 2}},
			wantType:  SplitTypeEqual,
		},
		{
			name:      "even alias lower case",
			splitType: "even",
			inputs:    []Input{{UserID: 1}},
			wantType:  SplitTypeEqual,
		},
		{
			name:      "percentage",
			splitType: "PERCENTAGE",
			inputs:    []Input{{UserID: 1, Percentage: decPtr("60")}, {UserID: 2, Percentage: decPtr("40")}},
			wantType:  SplitTypePercentage,
		},
		{
			name:      "exact",
			splitType: "EXACT",
			inputs:    []Input{{UserID: 1, Amount: decPtr("10")}, {UserID: 2, Amount: decPtr("5")}},
			wantType:  SplitTypeExact,
		},
		{
			name:      "percentage missing",
			splitType: "PERCENTAGE",
			inputs:    []Input{{UserID: 1, Percentage: decPtr("60")}, {UserID: 2}},
			wantErr:   ErrMissingPercentage,
		},
		{
			name:      "exact missing",
			splitType: "EXACT",
			inputs:    []Input{{UserID: 1}},
			wantErr:   ErrMissingExactAmount,
		},
		{
			name:      "equal with amount",
			splitType: "EQUAL",
			inputs:    []Input{{UserID: 1, Amount: decPtr("3")}},
			wantErr:   ErrUnexpectedField,
		},
		{
			name:      "no participants",
			splitType: "EQUAL",
			wantErr:   ErrNoParticipants,
		},
		{
			name:      "unknown",
			splitType: "SHARES",
			inputs:    []Input{{UserID: 1}},
			wantErr:   ErrUnknownSplitType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, members, err := ParsePolicy(tt.splitType, tt.inputs)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, policy.Type())
			assert.Len(t, members, len(tt.inputs))
		})
	}
}

func TestApply(t *testing.T) {
	members := []int64{1, 2, 3}

	shares, err := Apply(Equal{}, dec("100"), members)
	require.NoError(t, err)
	assertAmounts(t, []string{"33.34", "33.33", "33.33"}, Amounts(shares))

	shares, err = Apply(Percentage{Percents: []decimal.Decimal{dec("50"), dec("30"), dec("20")}}, dec("200"), members)
	require.NoError(t, err)
	assertAmounts(t, []string{"100", "60", "40"}, Amounts(shares))
	require.NotNil(t, shares[1].Percentage)
	assert.True(t, shares[1].Percentage.Equal(dec("30")))

	shares, err = Apply(Exact{Amounts: []decimal.Decimal{dec("10"), dec("20"), dec("70")}}, dec("100"), members)
	require.NoError(t, err)
	assertAmounts(t, []string{"10", "20", "70"}, Amounts(shares))

	_, err = Apply(Exact{Amounts: []decimal.Decimal{dec("10")}}, dec("100"), members)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Apply(Equal{}, dec("100"), []int64{1, 2, 1})
	assert.ErrorIs(t, err, ErrDuplicateMember)
}

func TestPercentagesOf(t *testing.T) {
	got := PercentagesOf(dec("200"), []decimal.Decimal{dec("50"), dec("150")})
	assertAmounts(t, []string{"25", "75"}, got)

	zero := PercentagesOf(dec("0"), []decimal.Decimal{dec("1")})
	assert.True(t, zero[0].IsZero())
}

func TestIsPolicyError(t *testing.T) {
	_, _, err := ParsePolicy("THIRDS", []Input{{UserID: 1}})
	assert.True(t, IsPolicyError(err))

	_, err = ComputeEqualSplit(decimal.Zero, []int64{1})
	assert.True(t, IsPolicyError(err))

	assert.False(t, IsPolicyError(errors.New("connection refused")))
}
