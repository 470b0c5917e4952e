// Package u128 provides checked 64-bit arithmetic with 128-bit
// intermediates, used by the pool pricing and liquidity math.
//
// All operations either return an exact result or an overflow error;
// nothing wraps silently.
package u128

import (
	"errors"
	"math/bits"
)

// ErrOverflow is returned when a result does not fit the target width
// or a divisor is zero.
var ErrOverflow = errors.New("u128: arithmetic overflow")

// Uint128 is an unsigned 128-bit integer.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

// From64 converts a uint64 into a Uint128.
func From64(v uint64) Uint128 {
	return Uint128{Lo: v}
}

// IsZero reports whether u is zero.
func (u Uint128) IsZero() bool {
	return u.Hi == 0 && u.Lo == 0
}

// Cmp compares u and v, returning -1, 0 or +1.
func (u Uint128) Cmp(v Uint128) int {
	switch {
	case u.Hi != v.Hi:
		if u.Hi < v.Hi {
			return -1
		}
		return 1
	case u.Lo != v.Lo:
		if u.Lo < v.Lo {
			return -1
		}
		return 1
	}
	return 0
}

// Mul64 multiplies u by v, failing if the product exceeds 128 bits.
func (u Uint128) Mul64(v uint64) (Uint128, error) {
	hi1, lo := bits.Mul64(u.Lo, v)
	hi2, hi := bits.Mul64(u.Hi, v)
	if hi2 != 0 {
		return Uint128{}, ErrOverflow
	}
	hi, carry := bits.Add64(hi, hi1, 0)
	if carry != 0 {
		return Uint128{}, ErrOverflow
	}
	return Uint128{Hi: hi, Lo: lo}, nil
}

// Div64 divides u by v, failing if v is zero or the quotient exceeds
// 64 bits.
func (u Uint128) Div64(v uint64) (uint64, error) {
	if v == 0 || u.Hi >= v {
		return 0, ErrOverflow
	}
	q, _ := bits.Div64(u.Hi, u.Lo, v)
	return q, nil
}

// Sqrt returns the integer square root of u: the largest r such that
// r*r <= u. Uses the binary digit-by-digit method so no intermediate
// exceeds 128 bits.
func (u Uint128) Sqrt() uint64 {
	var rem, root Uint128
	n := u
	for i := 0; i < 64; i++ {
		rem = rem.shl(2)
		rem.Lo |= n.Hi >> 62
		n = n.shl(2)
		root = root.shl(1)
		cand := root.shl(1)
		cand.Lo |= 1
		if rem.Cmp(cand) >= 0 {
			rem = rem.sub(cand)
			root.Lo |= 1
		}
	}
	return root.Lo
}

func (u Uint128) shl(n uint) Uint128 {
	return Uint128{
		Hi: u.Hi<<n | u.Lo>>(64-n),
		Lo: u.Lo << n,
	}
}

func (u Uint128) sub(v Uint128) Uint128 {
	lo, borrow := bits.Sub64(u.Lo, v.Lo, 0)
	hi, _ := bits.Sub64(u.Hi, v.Hi, borrow)
	return Uint128{Hi: hi, Lo: lo}
}

// Mul returns a*b as a Uint128. It cannot overflow.
func Mul(a, b uint64) Uint128 {
	hi, lo := bits.Mul64(a, b)
	return Uint128{Hi: hi, Lo: lo}
}

// MulDiv computes floor(a*b/den) with a 128-bit intermediate, failing
// if den is zero or the quotient exceeds 64 bits.
func MulDiv(a, b, den uint64) (uint64, error) {
	return Mul(a, b).Div64(den)
}

// CheckedAdd returns a+b, failing on wraparound.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

// CheckedSub returns a-b, failing if b > a.
func CheckedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrOverflow
	}
	return diff, nil
}

// CheckedMul returns a*b, failing if the product exceeds 64 bits.
func CheckedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}
