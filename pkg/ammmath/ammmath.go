// Package ammmath implements the constant-product fee algebra, liquidity
// accounting, and off-chain clearing-price bisection shared by the pool
// validator and the fixture generator. Every computation routes through
// pkg/arith so it matches the exact 256-bit comparisons the validator
// performs — this package never approximates with float64, including in
// the clearing-price bisection, which is a miner-side convenience the
// validator only spot-checks.
package ammmath

import (
	"github.com/holiman/uint256"

	"github.com/vibeswap/ckb-core/internal/errs"
	"github.com/vibeswap/ckb-core/pkg/arith"
	"github.com/vibeswap/ckb-core/pkg/types"
)

// feeFactor returns BPS - feeBps as a U128, erroring if feeBps > BPS.
func feeFactor(feeBps uint16) (arith.U128, error) {
	return types.BPSU128.Sub(arith.U128FromUint64(uint64(feeBps)))
}

// GetAmountOut computes in*(BPS-feeBps)*rOut / (rIn*BPS + in*(BPS-feeBps)),
// the constant-product output for a given input after fees.
func GetAmountOut(in, rIn, rOut arith.U128, feeBps uint16) (arith.U128, error) {
	ff, err := feeFactor(feeBps)
	if err != nil {
		return arith.Zero, err
	}
	inWithFee := arith.WideMul(in, ff) // in * (BPS - fee), 256-bit

	numerator, err := arith.MulWide(inWithFee, rOut.ToUint256())
	if err != nil {
		return arith.Zero, err
	}

	rInBps := arith.WideMul(rIn, types.BPSU128)
	denominator, err := arith.AddWide(rInBps, inWithFee)
	if err != nil {
		return arith.Zero, err
	}

	return arith.DivWide(numerator, denominator)
}

// GetAmountIn inverts GetAmountOut: given a desired output, returns the
// input required, rounded up by 1 so the pool is never shorted.
func GetAmountIn(out, rIn, rOut arith.U128, feeBps uint16) (arith.U128, error) {
	if out.Ge(rOut) {
		return arith.Zero, errs.New(errs.SwapCalculationFailed, "get_amount_in: output must be less than reserve")
	}
	ff, err := feeFactor(feeBps)
	if err != nil {
		return arith.Zero, err
	}

	numerator, err := arith.MulWide(arith.WideMul(rIn, out), types.BPSU128.ToUint256())
	if err != nil {
		return arith.Zero, err
	}

	denomBase, err := rOut.Sub(out)
	if err != nil {
		return arith.Zero, err
	}
	denominator := arith.WideMul(denomBase, ff)
	if denominator.IsZero() {
		return arith.Zero, errs.New(errs.SwapCalculationFailed, "get_amount_in: zero denominator")
	}

	q := new(uint256.Int).Div(numerator, denominator)
	rem := new(uint256.Int).Mod(numerator, denominator)
	out128, err := arith.U128FromUint256(q)
	if err != nil {
		return arith.Zero, errs.New(errs.Overflow, "get_amount_in: quotient overflows 128 bits")
	}
	if !rem.IsZero() {
		out128, err = out128.Add(arith.U128FromUint64(1))
		if err != nil {
			return arith.Zero, errs.New(errs.Overflow, "get_amount_in: rounded-up result overflows 128 bits")
		}
	}
	return out128, nil
}

// CalculateLiquidity returns the LP tokens minted for depositing (a0, a1)
// against reserves (r0, r1) and the pool's current total supply. An empty
// pool (total == 0) mints sqrt_product(a0,a1) - minimum_liquidity.
func CalculateLiquidity(a0, a1, r0, r1, total, minimumLiquidity arith.U128) (arith.U128, error) {
	if total.IsZero() {
		s := arith.SqrtProduct(a0, a1)
		return s.Sub(minimumLiquidity)
	}
	lhs, err := arith.MulDiv(a0, total, r0)
	if err != nil {
		return arith.Zero, err
	}
	rhs, err := arith.MulDiv(a1, total, r1)
	if err != nil {
		return arith.Zero, err
	}
	if lhs.Le(rhs) {
		return lhs, nil
	}
	return rhs, nil
}

// SpotPrice returns mul_div(r1, PRECISION, r0), the pool's implied price
// of token0 in terms of token1.
func SpotPrice(r0, r1 arith.U128) (arith.U128, error) {
	return arith.MulDiv(r1, types.PrecisionU128, r0)
}

// Order is a revealed order's demand at a limit price, used only by the
// off-chain clearing-price search.
type Order struct {
	IsBuy      bool
	AmountIn   arith.U128
	LimitPrice arith.U128
}

// ClearingResult is the bisection search's output: the clearing price
// and the two-sided volume fillable at it.
type ClearingResult struct {
	Price          arith.U128
	FillableVolume arith.U128
}

// demandAt sums the buy-side and sell-side demand willing to trade at
// price, restricted to orders whose limit permits it (buys with
// limit >= price, sells with limit <= price).
func demandAt(orders []Order, price arith.U128) (buyDemand, sellDemand arith.U128) {
	buyDemand, sellDemand = arith.Zero, arith.Zero
	for _, o := range orders {
		if o.IsBuy {
			if o.LimitPrice.Ge(price) {
				buyDemand, _ = buyDemand.Add(o.AmountIn)
			}
		} else {
			if o.LimitPrice.Le(price) {
				sellDemand, _ = sellDemand.Add(o.AmountIn)
			}
		}
	}
	return buyDemand, sellDemand
}

// capacityAt bounds each side's fillable volume by the AMM pool's
// geometric-mean capacity, so clearing never claims more volume than the
// pool could absorb. The bound is the same at every probe price — the
// pool's capacity doesn't depend on where the bisection currently is —
// so this takes no price argument, unlike demandAt.
func capacityAt(r0, r1 arith.U128) arith.U128 {
	return arith.SqrtProduct(r0, r1)
}

// ClearingPrice bisects over [minSellLimit, maxBuyLimit] around the
// pool's spot price, summing buy/sell demand filtered by limit price and
// capped by pool capacity at each probe, moving the bracket by the sign
// of net demand, until MaxIterations or the bracket width falls below
// ConvergenceThresh (in bps-of-bps of the spot price). It is a
// convenience for off-chain miners building a batch settlement claim;
// the validator only checks the claimed clearing price and fillable
// volume satisfy the invariants in 4.1/4.2, it never re-derives them.
func ClearingPrice(orders []Order, r0, r1 arith.U128, minSellLimit, maxBuyLimit arith.U128) (ClearingResult, error) {
	lo, hi := minSellLimit, maxBuyLimit
	if lo.Gt(hi) {
		lo, hi = hi, lo
	}

	spot, err := SpotPrice(r0, r1)
	if err != nil {
		return ClearingResult{}, err
	}
	threshold, err := arith.MulDiv(spot, arith.U128FromUint64(types.ConvergenceThresh), arith.U128FromUint64(types.BPS*types.BPS))
	if err != nil {
		return ClearingResult{}, err
	}

	var mid arith.U128
	var fillable arith.U128
	for i := 0; i < types.MaxIterations; i++ {
		width, err := hi.Sub(lo)
		if err != nil {
			width = arith.Zero
		}
		if width.Le(threshold) {
			break
		}

		sum, err := lo.Add(hi)
		if err != nil {
			// Bracket itself cannot exceed 128 bits for realistic
			// prices; fall back to the wider side on the rare
			// pathological input.
			mid = hi
		} else {
			mid, _ = arith.MulDiv(sum, arith.U128FromUint64(1), arith.U128FromUint64(2))
		}

		buyDemand, sellDemand := demandAt(orders, mid)
		cap := capacityAt(r0, r1)
		if buyDemand.Gt(cap) {
			buyDemand = cap
		}
		if sellDemand.Gt(cap) {
			sellDemand = cap
		}
		fillable = buyDemand
		if sellDemand.Lt(fillable) {
			fillable = sellDemand
		}

		switch {
		case buyDemand.Gt(sellDemand):
			lo = mid // excess demand: price must rise
		case sellDemand.Gt(buyDemand):
			hi = mid // excess supply: price must fall
		default:
			lo, hi = mid, mid
		}
	}

	return ClearingResult{Price: mid, FillableVolume: fillable}, nil
}
