package fixedpoint

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"19", "19"},
		{"1900000/10000000", "19/100"},
		{"10000/100", "100"},
		{"-4250/100", "-85/2"},
		{"0.19", "19/100"},
		{"0", "0"},
		{"0/1", "0"},
		{"3/9", "1/3"},
		{" 7 ", "7"},
		{"+5", "5"},
		{".5", "1/2"},
		{"2.", "2"},
	}
	for _, tt := range tests {
		n, err := Parse(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, n.String(), "input %q", tt.input)

		again, err := Parse(n.String())
		require.NoError(t, err)
		assert.True(t, n.Equal(again), "re-parse of %q", tt.input)
	}
}

func TestParse_Errors(t *testing.T) {
	bad := []string{
		"", "abc", "1/0", "1/x", "x/3", "1e5", "1.2.3",
		"0x10", "0b101", "0o17", "1_000", "0x1p-2", "-1_6", "0x10/1", ".", "+",
	}
	for _, input := range bad {
		_, err := Parse(input)
		assert.Error(t, err, "expected error for %q", input)
	}

	_, err := Parse("5/0")
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestParseIntegerIsExact(t *testing.T) {
	n := MustParse("19")
	assert.True(t, n.Equal(NewFromInt(19)))
	assert.False(t, n.Equal(MustParse("18.999999999999999")))
}

func TestDivideAndMultiplyRestoresFraction(t *testing.T) {
	orig := MustParse("1900000/10000000")
	q, err := orig.Div(MustParse("100"))
	require.NoError(t, err)
	assert.Equal(t, "19/10000", q.String())
	assert.True(t, q.Mul(Hundred).Equal(orig))
}

func TestDivisionByZero(t *testing.T) {
	_, err := One.Div(Zero)
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = One.Div(MustParse("0/5"))
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = NewFromFraction(3, 0)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestArithmetic(t *testing.T) {
	a := MustParse("0.1")
	b := MustParse("0.2")
	assert.True(t, a.Add(b).Equal(MustParse("0.3")), "0.1+0.2 must be exactly 0.3")
	assert.True(t, b.Sub(a).Equal(a))
	assert.True(t, a.Mul(b).Equal(MustParse("0.02")))
	assert.True(t, a.Neg().IsNegative())
	assert.True(t, a.Neg().Abs().Equal(a))

	third, err := One.Div(NewFromInt(3))
	require.NoError(t, err)
	assert.True(t, third.Mul(NewFromInt(3)).Equal(One), "1/3*3 must be exactly 1")
}

func TestZeroValue(t *testing.T) {
	var n Number
	assert.True(t, n.IsZero())
	assert.False(t, n.IsPositive())
	assert.False(t, n.IsNegative())
	assert.Equal(t, "0", n.String())
	assert.True(t, n.Add(One).Equal(One))
	assert.True(t, n.Equal(Zero))
}

func TestSignPredicates(t *testing.T) {
	assert.True(t, MustParse("1/100").IsPositive())
	assert.True(t, MustParse("-1/100").IsNegative())
	assert.False(t, Zero.IsPositive())
	assert.Equal(t, -1, MustParse("1").Cmp(MustParse("2")))
	assert.Equal(t, 1, MustParse("2").Cmp(MustParse("1")))
	assert.Equal(t, 0, MustParse("2/4").Cmp(MustParse("1/2")))
}

func TestIsGreaterThanTolerance(t *testing.T) {
	tests := []struct {
		a, b, tol string
		want      bool
	}{
		{"100", "99.999", "0.01", false},
		{"100", "99.999", "0.0001", true},
		{"100", "100", "0", false},
		{"100", "99", "0", true},
		{"99", "100", "0.01", false},
		{"100.005", "100", "0.005", false},
		{"100.0051", "100", "0.005", true},
	}
	for _, tt := range tests {
		got := MustParse(tt.a).IsGreaterThan(MustParse(tt.b), MustParse(tt.tol))
		assert.Equal(t, tt.want, got, "%s > %s within %s", tt.a, tt.b, tt.tol)
	}
}

func TestStringFixed(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"4", "4.00"},
		{"127.5", "127.50"},
		{"1/3", "0.33"},
		{"2/3", "0.67"},
		{"-1/8", "-0.13"},
		{"10000/84", "119.05"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MustParse(tt.input).StringFixed(2), "input %q", tt.input)
	}
}

func TestFromDecimal(t *testing.T) {
	d := decimal.RequireFromString("33.33")
	n := FromDecimal(d)
	assert.Equal(t, "3333/100", n.String())
	assert.True(t, n.Decimal(2).Equal(d))
}

func TestSum(t *testing.T) {
	total := Sum(MustParse("1/3"), MustParse("1/3"), MustParse("1/3"))
	assert.True(t, total.Equal(One))
	assert.True(t, Sum().IsZero())
}
