package arith

import (
	"math/rand"
	"testing"

	"pgregory.net/rapid"
)

func u128Gen(t *rapid.T, label string) U128 {
	hi := rapid.Uint64Range(0, 1<<62).Draw(t, label+"_hi")
	lo := rapid.Uint64().Draw(t, label+"_lo")
	return U128{Hi: hi, Lo: lo}
}

func TestWideMul_Commutative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := u128Gen(t, "a")
		b := u128Gen(t, "b")
		if WideMul(a, b).Cmp(WideMul(b, a)) != 0 {
			t.Fatalf("wide_mul(%v,%v) != wide_mul(%v,%v)", a, b, b, a)
		}
	})
}

func TestMulDiv_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := U128FromUint64(rapid.Uint64Range(0, 1<<62).Draw(t, "a"))
		c := U128FromUint64(rapid.Uint64Range(1, 1<<32).Draw(t, "c"))

		got, err := MulDiv(a, c, c)
		if err != nil {
			t.Fatalf("mul_div(a,c,c): %v", err)
		}
		if got.Cmp(a) != 0 {
			t.Fatalf("mul_div(%v,c,c) = %v, want %v", a, got, a)
		}

		one := U128FromUint64(1)
		got2, err := MulDiv(a, one, one)
		if err != nil {
			t.Fatalf("mul_div(a,1,1): %v", err)
		}
		if got2.Cmp(a) != 0 {
			t.Fatalf("mul_div(%v,1,1) = %v, want %v", a, got2, a)
		}

		b := u128Gen(t, "b")
		got3, err := MulDiv(U128{}, b, c)
		if err != nil {
			t.Fatalf("mul_div(0,b,c): %v", err)
		}
		if !got3.IsZero() {
			t.Fatalf("mul_div(0,%v,c) = %v, want 0", b, got3)
		}
	})
}

func TestMulDiv_DivisorZero(t *testing.T) {
	_, err := MulDiv(U128FromUint64(1), U128FromUint64(1), U128{})
	if err == nil {
		t.Fatalf("expected error for zero divisor")
	}
}

func TestMulCmp_MatchesSeparateMuls(t *testing.T) {
	cases := []struct {
		a, b, c, d uint64
		want       int
	}{
		{2, 3, 2, 3, 0},
		{2, 3, 2, 4, -1},
		{5, 5, 4, 6, 1},
	}
	for _, tc := range cases {
		got := MulCmp(U128FromUint64(tc.a), U128FromUint64(tc.b), U128FromUint64(tc.c), U128FromUint64(tc.d))
		if got != tc.want {
			t.Fatalf("MulCmp(%d,%d,%d,%d) = %d, want %d", tc.a, tc.b, tc.c, tc.d, got, tc.want)
		}
	}
}

func TestSqrt_PerfectSquares(t *testing.T) {
	for i := uint64(0); i < 200; i++ {
		x := U128FromUint64(i * i)
		got := Sqrt(x)
		if got.Cmp(U128FromUint64(i)) != 0 {
			t.Fatalf("sqrt(%d^2) = %v, want %d", i, got, i)
		}
	}
}

func TestSqrt_Monotone(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	prev := uint64(0)
	for i := 0; i < 500; i++ {
		v := prev + uint64(r.Intn(1000))
		got := Sqrt(U128FromUint64(v))
		sq := got.Lo * got.Lo
		if sq > v {
			t.Fatalf("sqrt(%d) = %d overshoots: %d^2=%d > %d", v, got.Lo, got.Lo, sq, v)
		}
		next := (got.Lo + 1) * (got.Lo + 1)
		if next <= v {
			t.Fatalf("sqrt(%d) = %d undershoots: (%d+1)^2=%d <= %d", v, got.Lo, got.Lo, next, v)
		}
		prev = v
	}
}

func TestSqrtProduct_SmallFitsExact(t *testing.T) {
	a := U128FromUint64(1_000_000)
	b := U128FromUint64(4_000_000)
	got := SqrtProduct(a, b)
	if got.Cmp(U128FromUint64(2_000_000)) != 0 {
		t.Fatalf("sqrt_product(1e6,4e6) = %v, want 2e6", got)
	}
}

func TestSqrtProduct_OverflowFallback(t *testing.T) {
	big := U128{Hi: 1 << 40}
	got := SqrtProduct(big, big)
	want := Sqrt(big)
	// sqrt(a*b) where a==b should equal a exactly when a*b overflows 128
	// bits and we fall back to sqrt(a)*sqrt(b) == sqrt(a)*sqrt(a).
	wantSq := WideMul(want, want)
	if _, err := U128FromUint256(wantSq); err != nil {
		t.Fatalf("unexpected overflow in fallback product")
	}
	if got.Cmp(big) != 0 {
		t.Fatalf("sqrt_product(a,a) fallback = %v, want %v", got, big)
	}
}

func TestU128_AddSub(t *testing.T) {
	a := U128FromUint64(10)
	b := U128FromUint64(3)
	sum, err := a.Add(b)
	if err != nil || sum.Cmp(U128FromUint64(13)) != 0 {
		t.Fatalf("add failed: %v %v", sum, err)
	}
	diff, err := a.Sub(b)
	if err != nil || diff.Cmp(U128FromUint64(7)) != 0 {
		t.Fatalf("sub failed: %v %v", diff, err)
	}
	if _, err := b.Sub(a); err == nil {
		t.Fatalf("expected underflow error")
	}
}

func TestU128_AddWrapping(t *testing.T) {
	max := U128{Hi: ^uint64(0), Lo: ^uint64(0)}
	got := max.AddWrapping(U128FromUint64(1))
	if !got.IsZero() {
		t.Fatalf("wrapping add overflow = %v, want 0", got)
	}
}
