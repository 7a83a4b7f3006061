// Package fixedpoint provides the exact number type used for every monetary
// amount and quantity in a book.
package fixedpoint

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrDivisionByZero is returned when dividing by a zero Number.
var ErrDivisionByZero = errors.New("division by zero")

// Number is an immutable exact rational. The zero value is 0.
type Number struct {
	r *big.Rat
}

var (
	// Zero is 0.
	Zero = Number{}
	// One is 1.
	One = NewFromInt(1)
	// Hundred is 100.
	Hundred = NewFromInt(100)
)

// NewFromInt returns n as a Number.
func NewFromInt(n int64) Number {
	return Number{r: new(big.Rat).SetInt64(n)}
}

// NewFromFraction returns num/denom.
func NewFromFraction(num, denom int64) (Number, error) {
	if denom == 0 {
		return Number{}, fmt.Errorf("fraction %d/0: %w", num, ErrDivisionByZero)
	}
	return Number{r: big.NewRat(num, denom)}, nil
}

// decimalPattern is a plain base-10 decimal: no exponent, base prefix or digit separators.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// Parse reads "a/b", an integer or a decimal such as "0.19".
func Parse(s string) (Number, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}, errors.New("parsing number: empty string")
	}
	if num, denom, ok := strings.Cut(s, "/"); ok {
		d, ok := new(big.Int).SetString(denom, 10)
		if !ok {
			return Number{}, fmt.Errorf("parsing number %q: bad denominator", s)
		}
		if d.Sign() == 0 {
			return Number{}, fmt.Errorf("parsing number %q: %w", s, ErrDivisionByZero)
		}
		n, ok := new(big.Int).SetString(num, 10)
		if !ok {
			return Number{}, fmt.Errorf("parsing number %q: bad numerator", s)
		}
		return Number{r: new(big.Rat).SetFrac(n, d)}, nil
	}
	if !decimalPattern.MatchString(s) {
		return Number{}, fmt.Errorf("parsing number %q: not a decimal", s)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Number{}, fmt.Errorf("parsing number %q: not a decimal", s)
	}
	return Number{r: r}, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) Number {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

// FromDecimal converts a shopspring decimal exactly.
func FromDecimal(d decimal.Decimal) Number {
	return Number{r: d.Rat()}
}

func (n Number) rat() *big.Rat {
	if n.r == nil {
		return new(big.Rat)
	}
	return n.r
}

// Add returns n + o.
func (n Number) Add(o Number) Number {
	return Number{r: new(big.Rat).Add(n.rat(), o.rat())}
}

// Sub returns n - o.
func (n Number) Sub(o Number) Number {
	return Number{r: new(big.Rat).Sub(n.rat(), o.rat())}
}

// Mul returns n * o.
func (n Number) Mul(o Number) Number {
	return Number{r: new(big.Rat).Mul(n.rat(), o.rat())}
}

// Div returns n / o, or ErrDivisionByZero when o is zero.
func (n Number) Div(o Number) (Number, error) {
	if o.IsZero() {
		return Number{}, fmt.Errorf("dividing %s: %w", n, ErrDivisionByZero)
	}
	return Number{r: new(big.Rat).Quo(n.rat(), o.rat())}, nil
}

// Neg returns -n.
func (n Number) Neg() Number {
	return Number{r: new(big.Rat).Neg(n.rat())}
}

// Abs returns |n|.
func (n Number) Abs() Number {
	return Number{r: new(big.Rat).Abs(n.rat())}
}

// Cmp returns -1, 0 or +1 as n is less than, equal to or greater than o.
func (n Number) Cmp(o Number) int {
	return n.rat().Cmp(o.rat())
}

// Equal reports whether n and o reduce to the same fraction.
func (n Number) Equal(o Number) bool {
	return n.Cmp(o) == 0
}

// IsZero reports whether n is 0.
func (n Number) IsZero() bool {
	return n.r == nil || n.r.Sign() == 0
}

// IsPositive reports whether n > 0.
func (n Number) IsPositive() bool {
	return n.rat().Sign() > 0
}

// IsNegative reports whether n < 0.
func (n Number) IsNegative() bool {
	return n.rat().Sign() < 0
}

// IsGreaterThan reports whether n exceeds o by more than tolerance.
// Values within tolerance of each other compare as equal.
func (n Number) IsGreaterThan(o, tolerance Number) bool {
	return n.Sub(o).Cmp(tolerance.Abs()) > 0
}

// String returns the reduced fraction, "a/b", or "a" for integers.
func (n Number) String() string {
	return n.rat().RatString()
}

// Decimal rounds n half away from zero to places decimal places.
func (n Number) Decimal(places int32) decimal.Decimal {
	r := n.rat()
	num := decimal.NewFromBigInt(r.Num(), 0)
	denom := decimal.NewFromBigInt(r.Denom(), 0)
	return num.DivRound(denom, places)
}

// StringFixed formats n with exactly places decimal places.
func (n Number) StringFixed(places int32) string {
	return n.Decimal(places).StringFixed(places)
}

// Sum adds all values.
func Sum(values ...Number) Number {
	total := new(big.Rat)
	for _, v := range values {
		total.Add(total, v.rat())
	}
	return Number{r: total}
}
