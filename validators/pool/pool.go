// Package pool implements the constant-product AMM pool validator: the
// create/add/remove/swap dispatch, the fee algebra and k-invariant checks,
// TWAP accumulation, and the circuit breakers. Dispatch-by-diffing the old
// and new cell payloads, then walking a fixed rule list per transition
// kind, is grounded on the same spend_verify.go shape the auction
// validator uses, adapted from phase-pair dispatch to reserve/LP-delta
// dispatch.
package pool

import (
	"github.com/vibeswap/ckb-core/internal/errs"
	"github.com/vibeswap/ckb-core/pkg/ammmath"
	"github.com/vibeswap/ckb-core/pkg/arith"
	"github.com/vibeswap/ckb-core/pkg/types"
)

// Input carries transition-specific context beyond the two PoolCell
// payloads.
type Input struct {
	CurrentBlock uint64

	VolumeBreakerLimit  arith.U128
	PriceBreakerBps     uint16
	MaxTradeSizeBps     uint16
	MaxPriceDeviationBps uint16

	// OraclePrice is the oracle-cell price supplied as a cell-dep, if any.
	// A zero value (both words zero) means no oracle was supplied.
	OraclePrice arith.U128
}

// Validate decides whether newBytes is a legal successor to oldBytes.
// oldBytes is nil for the very first pool cell (creation rule).
func Validate(oldBytes, newBytes []byte, in Input) error {
	newCell, err := types.ParsePoolCell(newBytes)
	if err != nil {
		return err
	}
	if oldBytes == nil {
		return validateCreation(newCell)
	}
	oldCell, err := types.ParsePoolCell(oldBytes)
	if err != nil {
		return err
	}
	if oldCell.PairID != newCell.PairID {
		return errs.New(errs.PairIdChanged, "pool: pair_id changed across transition")
	}
	if oldCell.Token0TypeHash != newCell.Token0TypeHash || oldCell.Token1TypeHash != newCell.Token1TypeHash {
		return errs.New(errs.TokenTypesChanged, "pool: token type hashes changed across transition")
	}
	if oldCell.MinimumLiquidity != newCell.MinimumLiquidity {
		return errs.New(errs.MinimumLiquidityChanged, "pool: minimum_liquidity changed across transition")
	}

	reservesChanged := !oldCell.Reserve0.Eq(newCell.Reserve0) || !oldCell.Reserve1.Eq(newCell.Reserve1)
	lpChanged := !oldCell.TotalLPSupply.Eq(newCell.TotalLPSupply)

	switch {
	case !reservesChanged && !lpChanged:
		return errs.New(errs.NoStateChange, "pool: neither reserves nor lp supply changed")
	case !reservesChanged && lpChanged:
		return errs.New(errs.NoStateChange, "pool: lp supply changed with no reserve movement")
	case reservesChanged && lpChanged:
		if newCell.TotalLPSupply.Gt(oldCell.TotalLPSupply) {
			if err := validateAdd(oldCell, newCell); err != nil {
				return err
			}
		} else {
			if err := validateRemove(oldCell, newCell); err != nil {
				return err
			}
		}
	case reservesChanged && !lpChanged:
		if err := validateSwap(oldCell, newCell, in); err != nil {
			return err
		}
	}

	if reservesChanged {
		if err := validateTWAP(oldCell, newCell, in.CurrentBlock); err != nil {
			return err
		}
		if err := validateCircuitBreakers(oldCell, newCell, in); err != nil {
			return err
		}
	}
	return nil
}

func validateCreation(c *types.PoolCell) error {
	if c.Reserve0.IsZero() || c.Reserve1.IsZero() {
		return errs.New(errs.ZeroReserves, "pool: creation requires nonzero reserves")
	}
	s := arith.SqrtProduct(c.Reserve0, c.Reserve1)
	minLiq := arith.U128FromUint64(types.MinimumLiquidity)
	if s.Le(minLiq) {
		return errs.New(errs.InsufficientInitialLiquidity, "pool: initial liquidity does not exceed minimum_liquidity")
	}
	wantSupply, err := s.Sub(minLiq)
	if err != nil {
		return errs.New(errs.InsufficientInitialLiquidity, "pool: sqrt(product) below minimum_liquidity")
	}
	if !c.TotalLPSupply.Eq(wantSupply) {
		return errs.New(errs.InvalidLPSupply, "pool: total_lp_supply does not match sqrt(product)-minimum_liquidity")
	}
	if !c.MinimumLiquidity.Eq(minLiq) {
		return errs.New(errs.MinimumLiquidityChanged, "pool: minimum_liquidity must equal the protocol constant")
	}
	if c.FeeRateBps == 0 || c.FeeRateBps > 1000 {
		return errs.New(errs.InvalidFeeRate, "pool: fee_rate_bps must be in (0, 1000]")
	}
	var zero32 [32]byte
	if c.PairID == zero32 || c.Token0TypeHash == zero32 || c.Token1TypeHash == zero32 {
		return errs.New(errs.InvalidPairId, "pool: identifiers must be nonzero")
	}
	if c.Token0TypeHash == c.Token1TypeHash {
		return errs.New(errs.DuplicateTokenTypes, "pool: token0 and token1 type hashes must be distinct")
	}
	return nil
}

func validateAdd(old, new *types.PoolCell) error {
	a0, err := new.Reserve0.Sub(old.Reserve0)
	if err != nil || a0.IsZero() {
		return errs.New(errs.ZeroLiquidityDeposit, "pool: add requires reserve0 to increase")
	}
	a1, err := new.Reserve1.Sub(old.Reserve1)
	if err != nil || a1.IsZero() {
		return errs.New(errs.ZeroLiquidityDeposit, "pool: add requires reserve1 to increase")
	}

	// Proportionality: |a0/r0 - a1/r1| <= 10^-3, evaluated via mul_div with
	// PRECISION to avoid floating point.
	p0, err := arith.MulDiv(a0, types.PrecisionU128, old.Reserve0)
	if err != nil {
		return errs.New(errs.DisproportionateDeposit, "pool: a0/r0 overflowed")
	}
	p1, err := arith.MulDiv(a1, types.PrecisionU128, old.Reserve1)
	if err != nil {
		return errs.New(errs.DisproportionateDeposit, "pool: a1/r1 overflowed")
	}
	var diff arith.U128
	if p0.Ge(p1) {
		diff, _ = p0.Sub(p1)
	} else {
		diff, _ = p1.Sub(p0)
	}
	tolerance, _ := arith.MulDiv(types.PrecisionU128, arith.U128FromUint64(1), arith.U128FromUint64(1000))
	if diff.Gt(tolerance) {
		return errs.New(errs.DisproportionateDeposit, "pool: deposit ratio diverges from reserve ratio by more than 10^-3")
	}

	wantLP, err := ammmath.CalculateLiquidity(a0, a1, old.Reserve0, old.Reserve1, old.TotalLPSupply, old.MinimumLiquidity)
	if err != nil {
		return errs.New(errs.LPCalculationFailed, "pool: add liquidity calculation failed")
	}
	minted, err := new.TotalLPSupply.Sub(old.TotalLPSupply)
	if err != nil {
		return errs.New(errs.InvalidLPMinted, "pool: total_lp_supply decreased on an add")
	}
	if !minted.Eq(wantLP) {
		return errs.New(errs.InvalidLPMinted, "pool: lp minted does not match calculate_liquidity")
	}

	if arith.MulCmp(new.Reserve0, new.Reserve1, old.Reserve0, old.Reserve1) < 0 {
		return errs.New(errs.KInvariantViolation, "pool: constant-product invariant decreased on add")
	}
	return nil
}

func validateRemove(old, new *types.PoolCell) error {
	burned, err := old.TotalLPSupply.Sub(new.TotalLPSupply)
	if err != nil || burned.IsZero() {
		return errs.New(errs.ExcessiveWithdrawal, "pool: remove requires total_lp_supply to decrease")
	}
	if new.TotalLPSupply.Lt(old.MinimumLiquidity) {
		return errs.New(errs.BelowMinimumLiquidity, "pool: remaining lp supply falls below minimum_liquidity")
	}

	wantOut0, err := arith.MulDiv(burned, old.Reserve0, old.TotalLPSupply)
	if err != nil {
		return errs.New(errs.LPCalculationFailed, "pool: remove out0 calculation failed")
	}
	wantOut1, err := arith.MulDiv(burned, old.Reserve1, old.TotalLPSupply)
	if err != nil {
		return errs.New(errs.LPCalculationFailed, "pool: remove out1 calculation failed")
	}

	out0, err := old.Reserve0.Sub(new.Reserve0)
	if err != nil {
		return errs.New(errs.ReserveUnderflow, "pool: reserve0 increased on a remove")
	}
	out1, err := old.Reserve1.Sub(new.Reserve1)
	if err != nil {
		return errs.New(errs.ReserveUnderflow, "pool: reserve1 increased on a remove")
	}

	if !withinOneUnit(out0, wantOut0) {
		return errs.New(errs.ExcessiveWithdrawal, "pool: out0 diverges from burned share by more than rounding slack")
	}
	if !withinOneUnit(out1, wantOut1) {
		return errs.New(errs.ExcessiveWithdrawal, "pool: out1 diverges from burned share by more than rounding slack")
	}
	return nil
}

func withinOneUnit(got, want arith.U128) bool {
	if got.Eq(want) {
		return true
	}
	var diff arith.U128
	if got.Gt(want) {
		diff, _ = got.Sub(want)
	} else {
		diff, _ = want.Sub(got)
	}
	return diff.Le(arith.U128FromUint64(1))
}

func validateSwap(old, new *types.PoolCell, in Input) error {
	if !old.TotalLPSupply.Eq(new.TotalLPSupply) {
		return errs.New(errs.LPChangedDuringSwap, "pool: total_lp_supply must not change during a swap")
	}

	r0Grew := new.Reserve0.Gt(old.Reserve0)
	r1Grew := new.Reserve1.Gt(old.Reserve1)
	r0Shrank := new.Reserve0.Lt(old.Reserve0)
	r1Shrank := new.Reserve1.Lt(old.Reserve1)

	var amountIn, amountOut, rInOld, rOutOld arith.U128
	switch {
	case r0Grew && r1Shrank:
		amountIn, _ = new.Reserve0.Sub(old.Reserve0)
		amountOut, _ = old.Reserve1.Sub(new.Reserve1)
		rInOld, rOutOld = old.Reserve0, old.Reserve1
	case r1Grew && r0Shrank:
		amountIn, _ = new.Reserve1.Sub(old.Reserve1)
		amountOut, _ = old.Reserve0.Sub(new.Reserve0)
		rInOld, rOutOld = old.Reserve1, old.Reserve0
	default:
		return errs.New(errs.KInvariantViolation, "pool: swap must move exactly one reserve up and the other down")
	}

	feeFreeBound, err := ammmath.GetAmountOut(amountIn, rInOld, rOutOld, 0)
	if err != nil {
		return errs.New(errs.SwapCalculationFailed, "pool: fee-free bound calculation failed")
	}
	if amountOut.Gt(feeFreeBound) {
		return errs.New(errs.ExcessiveOutput, "pool: amount_out exceeds the fee-free upper bound")
	}

	feeInclusive, err := ammmath.GetAmountOut(amountIn, rInOld, rOutOld, old.FeeRateBps)
	if err != nil {
		return errs.New(errs.SwapCalculationFailed, "pool: fee-inclusive calculation failed")
	}
	slack, err := arith.MulDiv(feeInclusive, arith.U128FromUint64(1), arith.U128FromUint64(10_000))
	if err != nil {
		slack = arith.Zero
	}
	maxAllowed, err := feeInclusive.Add(slack)
	if err != nil {
		maxAllowed = feeInclusive
	}
	if amountOut.Gt(maxAllowed) {
		return errs.New(errs.InsufficientFee, "pool: amount_out exceeds the fee-inclusive expected output plus rounding slack")
	}

	if arith.MulCmp(new.Reserve0, new.Reserve1, old.Reserve0, old.Reserve1) < 0 {
		return errs.New(errs.KInvariantViolation, "pool: constant-product invariant decreased on swap")
	}

	tradeRatio, err := arith.MulDiv(amountIn, types.BPSU128, rInOld)
	if err == nil && in.MaxTradeSizeBps != 0 && tradeRatio.Gt(arith.U128FromUint64(uint64(in.MaxTradeSizeBps))) {
		return errs.New(errs.TradeTooLarge, "pool: amount_in/r_in exceeds max_trade_size_bps")
	}

	if !in.OraclePrice.IsZero() {
		spot, err := ammmath.SpotPrice(new.Reserve0, new.Reserve1)
		if err == nil {
			if priceDeviationExceeds(spot, in.OraclePrice, in.MaxPriceDeviationBps) {
				return errs.New(errs.ExcessivePriceDeviation, "pool: post-swap spot price deviates from oracle beyond max_price_deviation_bps")
			}
		}
	}
	return nil
}

// priceDeviationExceeds reports whether |a-b|/b (in bps) exceeds maxBps.
func priceDeviationExceeds(a, b arith.U128, maxBps uint16) bool {
	if b.IsZero() {
		return false
	}
	var diff arith.U128
	if a.Ge(b) {
		diff, _ = a.Sub(b)
	} else {
		diff, _ = b.Sub(a)
	}
	devBps, err := arith.MulDiv(diff, types.BPSU128, b)
	if err != nil {
		return true
	}
	return devBps.Gt(arith.U128FromUint64(uint64(maxBps)))
}

func validateTWAP(old, new *types.PoolCell, currentBlock uint64) error {
	if currentBlock <= old.TwapLastBlock {
		if !new.TwapPriceCum.Eq(old.TwapPriceCum) {
			return errs.New(errs.InvalidTWAPUpdate, "pool: twap_price_cum must be unchanged when current_block has not advanced")
		}
		if new.TwapLastBlock != old.TwapLastBlock {
			return errs.New(errs.InvalidTWAPBlock, "pool: twap_last_block must be unchanged when current_block has not advanced")
		}
		return nil
	}
	oldPrice, err := arith.MulDiv(old.Reserve1, types.PrecisionU128, old.Reserve0)
	if err != nil {
		return errs.New(errs.InvalidTWAPUpdate, "pool: old spot price overflowed during twap update")
	}
	elapsed := currentBlock - old.TwapLastBlock
	delta := arith.WrapLow128(arith.WideMul(oldPrice, arith.U128FromUint64(elapsed)))
	want := old.TwapPriceCum.AddWrapping(delta)
	if !new.TwapPriceCum.Eq(want) {
		return errs.New(errs.InvalidTWAPUpdate, "pool: twap_price_cum does not match wrapped accumulation")
	}
	if new.TwapLastBlock != currentBlock {
		return errs.New(errs.InvalidTWAPBlock, "pool: twap_last_block must be set to current_block")
	}
	return nil
}

func validateCircuitBreakers(old, new *types.PoolCell, in Input) error {
	delta0 := absDiff(old.Reserve0, new.Reserve0)
	delta1 := absDiff(old.Reserve1, new.Reserve1)
	if !in.VolumeBreakerLimit.IsZero() {
		if delta0.Gt(in.VolumeBreakerLimit) || delta1.Gt(in.VolumeBreakerLimit) {
			return errs.New(errs.VolumeCircuitBreaker, "pool: reserve delta exceeds volume_breaker_limit")
		}
	}
	if in.PriceBreakerBps != 0 {
		oldPrice, err1 := ammmath.SpotPrice(old.Reserve0, old.Reserve1)
		newPrice, err2 := ammmath.SpotPrice(new.Reserve0, new.Reserve1)
		if err1 == nil && err2 == nil {
			if priceDeviationExceeds(newPrice, oldPrice, in.PriceBreakerBps) {
				return errs.New(errs.PriceCircuitBreaker, "pool: single-step price delta exceeds price_breaker_bps")
			}
		}
	}
	return nil
}

func absDiff(a, b arith.U128) arith.U128 {
	if a.Ge(b) {
		d, _ := a.Sub(b)
		return d
	}
	d, _ := b.Sub(a)
	return d
}
