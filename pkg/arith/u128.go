// Package arith implements the overflow-safe 256-bit arithmetic kernel
// that every invariant check in this module depends on: wide_mul, mul_cmp,
// mul_div and sqrt_product, all operating on 128-bit reserves, prices and
// LP amounts. Products and comparisons are computed by expanding through
// github.com/holiman/uint256's 256-bit word type rather than hand-rolled
// (hi, lo) carry propagation — the same library the chains in this pack
// that implement constant-product AMMs (go-ethereum and its descendants)
// use for exactly this arithmetic.
package arith

import (
	"fmt"

	"github.com/holiman/uint256"
)

// U128 is an unsigned 128-bit integer, stored as two 64-bit words. Lo holds
// bits [0,64) and Hi holds bits [64,128) — the same split used by the wire
// codec in pkg/types, which serializes Lo first (little-endian).
type U128 struct {
	Lo uint64
	Hi uint64
}

// Zero is the additive identity.
var Zero = U128{}

// U128FromUint64 widens a uint64 into a U128.
func U128FromUint64(v uint64) U128 {
	return U128{Lo: v}
}

// IsZero reports whether x is the zero value.
func (x U128) IsZero() bool {
	return x.Lo == 0 && x.Hi == 0
}

// Cmp compares x and y, returning -1, 0 or 1.
func (x U128) Cmp(y U128) int {
	if x.Hi != y.Hi {
		if x.Hi < y.Hi {
			return -1
		}
		return 1
	}
	if x.Lo != y.Lo {
		if x.Lo < y.Lo {
			return -1
		}
		return 1
	}
	return 0
}

func (x U128) Lt(y U128) bool { return x.Cmp(y) < 0 }
func (x U128) Gt(y U128) bool { return x.Cmp(y) > 0 }
func (x U128) Eq(y U128) bool { return x.Cmp(y) == 0 }
func (x U128) Le(y U128) bool { return x.Cmp(y) <= 0 }
func (x U128) Ge(y U128) bool { return x.Cmp(y) >= 0 }

// ToUint256 widens x into a 256-bit word for use as an exact intermediate.
func (x U128) ToUint256() *uint256.Int {
	z := new(uint256.Int).SetUint64(x.Hi)
	z.Lsh(z, 64)
	z.Add(z, new(uint256.Int).SetUint64(x.Lo))
	return z
}

// U128FromUint256 narrows z back into a U128, failing if z does not fit in
// 128 bits.
func U128FromUint256(z *uint256.Int) (U128, error) {
	var hiMask uint256.Int
	hiMask.Lsh(uint256.NewInt(1), 128)
	hiMask.Sub(&hiMask, uint256.NewInt(1))
	if z.Gt(&hiMask) {
		return U128{}, fmt.Errorf("arith: value overflows 128 bits")
	}
	lo := new(uint256.Int).And(z, new(uint256.Int).SetUint64(^uint64(0)))
	hiWord := new(uint256.Int).Rsh(z, 64)
	return U128{Lo: lo.Uint64(), Hi: hiWord.Uint64()}, nil
}

// Add returns x+y and an error if the sum overflows 128 bits.
func (x U128) Add(y U128) (U128, error) {
	zx, zy := x.ToUint256(), y.ToUint256()
	sum := new(uint256.Int).Add(zx, zy)
	return U128FromUint256(sum)
}

// AddWrapping returns x+y modulo 2^128, used for TWAP cumulative
// accumulation where wrapping is intentional (see pkg/twap).
func (x U128) AddWrapping(y U128) U128 {
	zx, zy := x.ToUint256(), y.ToUint256()
	sum := new(uint256.Int).Add(zx, zy)
	var mod uint256.Int
	mod.Lsh(uint256.NewInt(1), 128)
	sum.Mod(sum, &mod)
	out, _ := U128FromUint256(sum)
	return out
}

// WrapLow128 narrows a 256-bit value to its low 128 bits modulo 2^128,
// discarding any higher bits rather than erroring. Used where wraparound
// is the documented behavior (TWAP cumulative price accumulation).
func WrapLow128(z *uint256.Int) U128 {
	var mod uint256.Int
	mod.Lsh(uint256.NewInt(1), 128)
	var wrapped uint256.Int
	wrapped.Mod(z, &mod)
	out, _ := U128FromUint256(&wrapped)
	return out
}

// Sub returns x-y and an error if y > x.
func (x U128) Sub(y U128) (U128, error) {
	if x.Lt(y) {
		return U128{}, fmt.Errorf("arith: subtraction underflow")
	}
	zx, zy := x.ToUint256(), y.ToUint256()
	diff := new(uint256.Int).Sub(zx, zy)
	return U128FromUint256(diff)
}

// String renders x in decimal for diagnostics.
func (x U128) String() string {
	return x.ToUint256().Dec()
}
