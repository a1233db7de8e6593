// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fixedpoint implements an unsigned Q64.128 number: a 192 bit magnitude
// interpreted as raw / 2^128. All operations are checked, none of them wraps.
package fixedpoint

import (
	"errors"
	"strings"

	"github.com/holiman/uint256"
)

const (
	// FractionalBits number of bits after the binary point.
	FractionalBits = 128
	// Bits total width of the magnitude.
	Bits = 192
	// ByteLength length of the little-endian encoding.
	ByteLength = Bits / 8

	displayDecimals = 18
)

var (
	ErrOverflow     = errors.New("fixedpoint: overflow")
	ErrUnderflow    = errors.New("fixedpoint: underflow")
	ErrDivideByZero = errors.New("fixedpoint: divide by zero")
)

var (
	one           = new(uint256.Int).Lsh(uint256.NewInt(1), FractionalBits)
	displayFactor = uint256.NewInt(1_000_000_000_000_000_000)
)

// Q64x128 is an unsigned fixed point number with 64 integer bits and 128 fractional bits.
// The zero value is zero.
type Q64x128 struct {
	v uint256.Int
}

// Zero returns 0.
func Zero() Q64x128 { return Q64x128{} }

// FromUint64 returns n as a fixed point number. It never fails since the integer part is 64 bits wide.
func FromUint64(n uint64) Q64x128 {
	var q Q64x128
	q.v[2] = n
	return q
}

// FromWords builds a number from its three little-endian 64 bit words, hi being the integer part.
func FromWords(lo, mid, hi uint64) Q64x128 {
	var q Q64x128
	q.v[0], q.v[1], q.v[2] = lo, mid, hi
	return q
}

// Words returns the little-endian words [lo, mid, hi].
func (q Q64x128) Words() [3]uint64 {
	return [3]uint64{q.v[0], q.v[1], q.v[2]}
}

// Uint64 returns the integer part, truncating the fraction.
func (q Q64x128) Uint64() uint64 {
	return q.v[2]
}

// Fraction returns the fractional part.
func (q Q64x128) Fraction() Q64x128 {
	return FromWords(q.v[0], q.v[1], 0)
}

// Split returns the integer part and the fractional remainder.
func (q Q64x128) Split() (uint64, Q64x128) {
	return q.Uint64(), q.Fraction()
}

// IsZero returns whether q is 0.
func (q Q64x128) IsZero() bool {
	return q.v.IsZero()
}

// Cmp compares q and other and returns -1, 0 or +1.
func (q Q64x128) Cmp(other Q64x128) int {
	return q.v.Cmp(&other.v)
}

// Lt returns q < other.
func (q Q64x128) Lt(other Q64x128) bool { return q.v.Lt(&other.v) }

// Gt returns q > other.
func (q Q64x128) Gt(other Q64x128) bool { return q.v.Gt(&other.v) }

// Eq returns q == other.
func (q Q64x128) Eq(other Q64x128) bool { return q.v.Eq(&other.v) }

// Add returns q + other.
func (q Q64x128) Add(other Q64x128) (Q64x128, error) {
	var r Q64x128
	r.v.Add(&q.v, &other.v)
	return r.checked()
}

// Sub returns q - other.
func (q Q64x128) Sub(other Q64x128) (Q64x128, error) {
	var r Q64x128
	if _, underflow := r.v.SubOverflow(&q.v, &other.v); underflow {
		return Q64x128{}, ErrUnderflow
	}
	return r, nil
}

// Mul returns q × other rounded down.
func (q Q64x128) Mul(other Q64x128) (Q64x128, error) {
	var r Q64x128
	if _, overflow := r.v.MulDivOverflow(&q.v, &other.v, one); overflow {
		return Q64x128{}, ErrOverflow
	}
	return r.checked()
}

// MulUint64 returns q × n.
func (q Q64x128) MulUint64(n uint64) (Q64x128, error) {
	var r Q64x128
	if _, overflow := r.v.MulOverflow(&q.v, uint256.NewInt(n)); overflow {
		return Q64x128{}, ErrOverflow
	}
	return r.checked()
}

// Div returns q / other rounded down.
func (q Q64x128) Div(other Q64x128) (Q64x128, error) {
	if other.IsZero() {
		return Q64x128{}, ErrDivideByZero
	}
	var r Q64x128
	if _, overflow := r.v.MulDivOverflow(&q.v, one, &other.v); overflow {
		return Q64x128{}, ErrOverflow
	}
	return r.checked()
}

// DivUint64 returns q / n rounded down.
func (q Q64x128) DivUint64(n uint64) (Q64x128, error) {
	if n == 0 {
		return Q64x128{}, ErrDivideByZero
	}
	var r Q64x128
	r.v.Div(&q.v, uint256.NewInt(n))
	return r, nil
}

func (q Q64x128) checked() (Q64x128, error) {
	if q.v.BitLen() > Bits {
		return Q64x128{}, ErrOverflow
	}
	return q, nil
}

// Raw returns the magnitude in decimal.
func (q Q64x128) Raw() string {
	return q.v.Dec()
}

// ParseRaw parses a decimal magnitude.
func ParseRaw(s string) (Q64x128, error) {
	var q Q64x128
	if err := q.v.SetFromDecimal(s); err != nil {
		return Q64x128{}, err
	}
	return q.checked()
}

// String returns the value in decimal notation, the fraction truncated to 18 digits.
func (q Q64x128) String() string {
	integer, frac := q.Split()
	var b strings.Builder
	b.WriteString(uint256.NewInt(integer).Dec())
	if frac.IsZero() {
		return b.String()
	}
	var scaled uint256.Int
	scaled.MulDivOverflow(&frac.v, displayFactor, one)
	digits := scaled.Dec()
	digits = strings.Repeat("0", displayDecimals-len(digits)) + digits
	digits = strings.TrimRight(digits, "0")
	if digits == "" {
		return b.String()
	}
	b.WriteByte('.')
	b.WriteString(digits)
	return b.String()
}
