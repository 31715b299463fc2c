// Package twap implements the fixed-cardinality observation ring buffer
// backing each pool's time-weighted average price. Cumulative arithmetic
// wraps modulo 2^128 by design (the same wraparound TWAP design used by
// constant-product AMMs generally): consult only ever takes a difference
// of two cumulatives observed within one wrap period, so the wrap is
// transparent to callers.
package twap

import (
	"errors"

	"github.com/vibeswap/ckb-core/pkg/arith"
)

// ErrNotNewer is returned by Write when block does not exceed the most
// recent observation's block number.
var ErrNotNewer = errors.New("twap: block must be strictly greater than the last observation")

// ErrEmpty is returned by Consult when the ring has no observations.
var ErrEmpty = errors.New("twap: no observations")

// ErrWindowTooWide is returned by Consult when no stored observation is
// old enough to bracket current_block - window.
var ErrWindowTooWide = errors.New("twap: window exceeds observation history")

// Observation is one ring slot: the block it was recorded at and the
// cumulative price-weighted-by-time-elapsed as of that block.
type Observation struct {
	Block        uint64
	Cumulative   arith.U128
}

// Ring is a fixed-capacity circular buffer of Observations, oldest
// overwritten first.
type Ring struct {
	cap  int
	buf  []Observation
	next int // index the next Write will occupy
	full bool
}

// NewRing constructs a Ring with the given capacity (must be >= 1).
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{cap: capacity, buf: make([]Observation, capacity)}
}

func (r *Ring) count() int {
	if r.full {
		return r.cap
	}
	return r.next
}

// Last returns the most recently written observation, if any.
func (r *Ring) Last() (Observation, bool) {
	if r.count() == 0 {
		return Observation{}, false
	}
	idx := (r.next - 1 + r.cap) % r.cap
	return r.buf[idx], true
}

// Write appends an observation at (price, block): the new cumulative is
// last.Cumulative + price * (block - last.Block), wrapping modulo 2^128.
// The very first write seeds the ring with a zero cumulative. block must
// be strictly greater than the last observation's block.
func (r *Ring) Write(price arith.U128, block uint64) error {
	last, ok := r.Last()
	if !ok {
		r.push(Observation{Block: block, Cumulative: arith.Zero})
		return nil
	}
	if block <= last.Block {
		return ErrNotNewer
	}
	elapsed := arith.U128FromUint64(block - last.Block)
	delta := wrappingMul(price, elapsed)
	cum := last.Cumulative.AddWrapping(delta)
	r.push(Observation{Block: block, Cumulative: cum})
	return nil
}

func (r *Ring) push(o Observation) {
	r.buf[r.next] = o
	r.next = (r.next + 1) % r.cap
	if r.next == 0 {
		r.full = true
	}
}

// wrappingMul computes (a*b) mod 2^128 using the exact 256-bit product
// and discarding the high half.
func wrappingMul(a, b arith.U128) arith.U128 {
	return arith.WrapLow128(arith.WideMul(a, b))
}

// Consult linearly scans stored observations for the pair bracketing
// target = current_block - window, interpolates the cumulative at
// target linearly between them, then returns
// (current_cum - target_cum) / (current_block - target). Both current
// and target must be covered by stored observations (the newest
// observation is taken as "current" by the caller supplying currentCum
// directly, since a live Write may not yet have happened for the
// requesting block).
func (r *Ring) Consult(window uint64, currentBlock uint64, currentCum arith.U128) (arith.U128, error) {
	if r.count() == 0 {
		return arith.Zero, ErrEmpty
	}
	if window == 0 || window >= currentBlock {
		return arith.Zero, ErrWindowTooWide
	}
	target := currentBlock - window

	obs := r.ordered()
	var before, after *Observation
	for i := range obs {
		if obs[i].Block <= target {
			before = &obs[i]
		}
		if obs[i].Block >= target && after == nil {
			after = &obs[i]
		}
	}
	if before == nil {
		return arith.Zero, ErrWindowTooWide
	}

	var targetCum arith.U128
	if after == nil || after.Block == before.Block {
		targetCum = before.Cumulative
	} else {
		targetCum = interpolate(*before, *after, target)
	}

	diff := currentCum.AddWrapping(twosComplement(targetCum))
	denom := currentBlock - target
	q, err := arith.MulDiv(diff, arith.U128FromUint64(1), arith.U128FromUint64(denom))
	if err != nil {
		return arith.Zero, err
	}
	return q, nil
}

// ordered returns the ring's observations in chronological order.
func (r *Ring) ordered() []Observation {
	n := r.count()
	out := make([]Observation, n)
	if !r.full {
		copy(out, r.buf[:n])
		return out
	}
	for i := 0; i < n; i++ {
		out[i] = r.buf[(r.next+i)%r.cap]
	}
	return out
}

// interpolate linearly estimates the cumulative at target between two
// bracketing observations.
func interpolate(before, after Observation, target uint64) arith.U128 {
	span := after.Block - before.Block
	if span == 0 {
		return before.Cumulative
	}
	delta := after.Cumulative.AddWrapping(twosComplement(before.Cumulative))
	elapsed := target - before.Block
	scaled, err := arith.MulDiv(delta, arith.U128FromUint64(elapsed), arith.U128FromUint64(span))
	if err != nil {
		scaled = arith.Zero
	}
	return before.Cumulative.AddWrapping(scaled)
}

// twosComplement returns (2^128 - x) mod 2^128, i.e. x's additive
// inverse under wraparound arithmetic, so a - b can be expressed as
// a.AddWrapping(twosComplement(b)).
func twosComplement(x arith.U128) arith.U128 {
	if x.IsZero() {
		return arith.Zero
	}
	notLo := ^x.Lo
	notHi := ^x.Hi
	inv := arith.U128{Lo: notLo, Hi: notHi}
	one := arith.U128FromUint64(1)
	sum, _ := inv.Add(one) // inv < max, so +1 never overflows 128 bits here
	return sum
}
