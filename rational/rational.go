// Package rational provides the exact fraction type used for percentages,
// amplifier counts and priority weights. Values are immutable; every
// operation returns a new Value.
package rational

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// ErrSyntax is returned when text is not a decimal or n/d fraction.
var ErrSyntax = errors.New("rational: invalid syntax")

// ErrDivideByZero is returned by Div when the divisor is zero.
var ErrDivideByZero = errors.New("rational: division by zero")

// Value is an exact rational number. The zero Value is 0.
type Value struct {
	r *big.Rat
}

// Zero returns 0.
func Zero() Value {
	return Value{r: new(big.Rat)}
}

// One returns 1.
func One() Value {
	return FromInt(1)
}

// FromInt builds an integer-valued Value.
func FromInt(n int64) Value {
	return Value{r: new(big.Rat).SetInt64(n)}
}

// FromFrac builds num/den. den must not be zero.
func FromFrac(num, den int64) Value {
	return Value{r: big.NewRat(num, den)}
}

// Parse reads a decimal ("1.5", "-2", "150") or fraction ("3/2") string.
// Exponent and float-special forms are rejected so link text stays exact.
func Parse(text string) (Value, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Value{}, fmt.Errorf("%w: empty", ErrSyntax)
	}
	if strings.ContainsAny(text, "eEpPxX_") {
		return Value{}, fmt.Errorf("%w: %q", ErrSyntax, text)
	}
	r, ok := new(big.Rat).SetString(text)
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrSyntax, text)
	}
	return Value{r: r}, nil
}

// MustParse is Parse for constants and tests.
func MustParse(text string) Value {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Value) rat() *big.Rat {
	if v.r == nil {
		return new(big.Rat)
	}
	return v.r
}

// Rat returns a copy of the underlying big.Rat.
func (v Value) Rat() *big.Rat {
	return new(big.Rat).Set(v.rat())
}

// Add returns v + o.
func (v Value) Add(o Value) Value {
	return Value{r: new(big.Rat).Add(v.rat(), o.rat())}
}

// Mul returns v * o.
func (v Value) Mul(o Value) Value {
	return Value{r: new(big.Rat).Mul(v.rat(), o.rat())}
}

// Div returns v / o.
func (v Value) Div(o Value) (Value, error) {
	if o.rat().Sign() == 0 {
		return Value{}, ErrDivideByZero
	}
	return Value{r: new(big.Rat).Quo(v.rat(), o.rat())}, nil
}

// Cmp compares v and o and returns -1, 0 or +1.
func (v Value) Cmp(o Value) int {
	return v.rat().Cmp(o.rat())
}

// Equal reports whether v and o are the same number.
func (v Value) Equal(o Value) bool {
	return v.Cmp(o) == 0
}

// Sign returns -1, 0 or +1.
func (v Value) Sign() int {
	return v.rat().Sign()
}

// IsInteger reports whether the denominator is 1.
func (v Value) IsInteger() bool {
	return v.rat().IsInt()
}

// Float64 returns the nearest float64, for display and expression helpers.
func (v Value) Float64() float64 {
	f, _ := v.rat().Float64()
	return f
}

// String renders integers as "n" and everything else as "n/d".
func (v Value) String() string {
	r := v.rat()
	if r.IsInt() {
		return r.Num().String()
	}
	return r.String()
}

// MarshalText implements encoding.TextMarshaler.
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Value) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// UnmarshalJSON accepts a JSON number or a string holding a decimal or
// fraction.
func (v *Value) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if strings.HasPrefix(text, `"`) {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrSyntax, text)
		}
		text = unquoted
	}
	return v.UnmarshalText([]byte(text))
}
