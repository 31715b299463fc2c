// Package oracle implements the per-pair OracleCell's update rule: newer
// block, unchanged pair, bounded relative price change, bounded staleness.
// Structured the same single-cell-update shape as validators/compliance
// and validators/config.
package oracle

import (
	"github.com/vibeswap/ckb-core/internal/errs"
	"github.com/vibeswap/ckb-core/pkg/arith"
	"github.com/vibeswap/ckb-core/pkg/types"
)

// Input carries context needed beyond the two OracleCell payloads.
type Input struct {
	CurrentBlock uint64
}

// ValidateUpdate decides whether newBytes is a legal OracleCell payload
// and, if oldBytes is non-nil, a legal successor to it (spec §3).
func ValidateUpdate(oldBytes, newBytes []byte, in Input) error {
	newCell, err := types.ParseOracleCell(newBytes)
	if err != nil {
		return err
	}
	if newCell.Confidence > 100 {
		return errs.New(errs.InvalidConfidence, "oracle: confidence must be <= 100")
	}
	if newCell.BlockNumber > in.CurrentBlock {
		return errs.New(errs.FutureBlock, "oracle: block_number must not be in the future")
	}
	if in.CurrentBlock-newCell.BlockNumber > 100 {
		return errs.New(errs.StaleData, "oracle: current_block - block_number must be <= 100")
	}

	if oldBytes == nil {
		return nil
	}
	oldCell, err := types.ParseOracleCell(oldBytes)
	if err != nil {
		return err
	}
	if oldCell.PairID != newCell.PairID {
		return errs.New(errs.PairIdChanged, "oracle: pair_id must not change across updates")
	}
	if newCell.BlockNumber <= oldCell.BlockNumber {
		return errs.New(errs.NotNewer, "oracle: block_number must strictly increase across updates")
	}
	if priceChangeExceedsHalf(oldCell.Price, newCell.Price) {
		return errs.New(errs.ExcessivePriceChange, "oracle: relative price change exceeds 50%")
	}
	return nil
}

// priceChangeExceedsHalf reports whether |new-old|/old exceeds 50%.
func priceChangeExceedsHalf(oldPrice, newPrice arith.U128) bool {
	if oldPrice.IsZero() {
		return !newPrice.IsZero()
	}
	var diff arith.U128
	if newPrice.Ge(oldPrice) {
		diff, _ = newPrice.Sub(oldPrice)
	} else {
		diff, _ = oldPrice.Sub(newPrice)
	}
	half, err := arith.MulDiv(oldPrice, arith.U128FromUint64(1), arith.U128FromUint64(2))
	if err != nil {
		return true
	}
	return diff.Gt(half)
}
