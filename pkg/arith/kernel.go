package arith

import (
	"github.com/holiman/uint256"

	"github.com/vibeswap/ckb-core/internal/errs"
)

// WideMul computes a*b exactly as a 256-bit value. It never overflows: the
// product of two 128-bit operands always fits in 256 bits. Commutative by
// construction (uint256.Mul is).
func WideMul(a, b U128) *uint256.Int {
	return new(uint256.Int).Mul(a.ToUint256(), b.ToUint256())
}

// MulCmp compares a*b with c*d as 256-bit values without ever overflowing.
// This is the single source of truth for the constant-product invariant.
func MulCmp(a, b, c, d U128) int {
	lhs := WideMul(a, b)
	rhs := WideMul(c, d)
	return lhs.Cmp(rhs)
}

// MulDiv returns floor(a*b/c). c must be nonzero. The wide intermediate
// a*b is computed exactly in 256 bits and then divided by c; the quotient
// is expected by callers to fit back into 128 bits (the spec's
// precondition on every call site), and MulDiv returns errs.Overflow if it
// does not.
func MulDiv(a, b, c U128) (U128, error) {
	if c.IsZero() {
		return U128{}, errs.New(errs.Overflow, "mul_div: divisor is zero")
	}
	num := WideMul(a, b)
	q := new(uint256.Int).Div(num, c.ToUint256())
	out, err := U128FromUint256(q)
	if err != nil {
		return U128{}, errs.New(errs.Overflow, "mul_div: quotient overflows 128 bits")
	}
	return out, nil
}

// MulWide multiplies two already-wide (256-bit) intermediates, erroring
// if the true product would exceed 256 bits. Used by multi-term fee
// algebra (e.g. get_amount_out's triple product) where a single
// two-operand WideMul is not enough headroom.
func MulWide(a, b *uint256.Int) (*uint256.Int, error) {
	out, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, errs.New(errs.Overflow, "mul_wide: product exceeds 256 bits")
	}
	return out, nil
}

// AddWide adds two 256-bit intermediates, erroring on overflow past 256
// bits.
func AddWide(a, b *uint256.Int) (*uint256.Int, error) {
	out, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, errs.New(errs.Overflow, "add_wide: sum exceeds 256 bits")
	}
	return out, nil
}

// DivWide computes floor(num/denom) for 256-bit num and denom, narrowing
// the quotient back to a U128 and erroring if it does not fit.
func DivWide(num, denom *uint256.Int) (U128, error) {
	if denom.IsZero() {
		return U128{}, errs.New(errs.Overflow, "div_wide: divisor is zero")
	}
	q := new(uint256.Int).Div(num, denom)
	out, err := U128FromUint256(q)
	if err != nil {
		return U128{}, errs.New(errs.Overflow, "div_wide: quotient overflows 128 bits")
	}
	return out, nil
}

// Sqrt returns floor(sqrt(x)) via integer Newton's method.
func Sqrt(x U128) U128 {
	return sqrt256(x.ToUint256())
}

// SqrtProduct returns sqrt(a*b). When a*b fits in 128 bits the result is
// exact; otherwise it falls back to sqrt(a)*sqrt(b) with each root
// floored, which never exceeds the exact floor root and can fall short of
// it by up to about sqrt(a)+sqrt(b).
func SqrtProduct(a, b U128) U128 {
	wide := WideMul(a, b)
	if _, err := U128FromUint256(wide); err == nil {
		return sqrt256(wide)
	}
	sa, sb := Sqrt(a), Sqrt(b)
	wideFallback := WideMul(sa, sb)
	out, err := U128FromUint256(wideFallback)
	if err != nil {
		// sa, sb are each at most floor(sqrt(2^128-1)) so sa*sb cannot
		// actually overflow 128 bits; guard deterministically regardless.
		return U128{Hi: ^uint64(0), Lo: ^uint64(0)}
	}
	return out
}

// sqrt256 returns floor(sqrt(z)) for a 256-bit value known to fit back into
// 128 bits once square-rooted (reserve products are bounded to fit).
func sqrt256(z *uint256.Int) U128 {
	if z.IsZero() {
		return U128{}
	}
	one := uint256.NewInt(1)
	bitLen := z.BitLen()
	guess := new(uint256.Int).Lsh(one, uint((bitLen+1)/2))
	for {
		div := new(uint256.Int).Div(z, guess)
		sum := new(uint256.Int).Add(guess, div)
		next := new(uint256.Int).Rsh(sum, 1)
		if next.Cmp(guess) >= 0 {
			break
		}
		guess = next
	}
	for {
		sq := new(uint256.Int).Mul(guess, guess)
		if sq.Cmp(z) <= 0 {
			break
		}
		guess = new(uint256.Int).Sub(guess, one)
	}
	out, _ := U128FromUint256(guess)
	return out
}
