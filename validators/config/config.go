// Package config implements the singleton ConfigCell's range checks and
// update rule. Every other validator reads ConfigCell's tunables but none
// may mutate it except through a transaction this validator accepts,
// modeled on the teacher's featurebits.go single-cell parameter-range
// validation.
package config

import (
	"github.com/vibeswap/ckb-core/internal/errs"
	"github.com/vibeswap/ckb-core/pkg/types"
)

// Input carries the context a config update needs beyond the two cell
// payloads.
type Input struct {
	CurrentBlock uint64
}

// ValidateRanges checks the static range invariants from spec §3 on a
// single ConfigCell payload, independent of whether it is a creation or
// an update.
func ValidateRanges(c *types.ConfigCell) error {
	if c.SlashRateBps > types.BPS {
		return errs.New(errs.OutOfRange, "config: slash_rate_bps must be <= 10000")
	}
	if c.MaxPriceDeviationBps < 1 || c.MaxPriceDeviationBps > 5000 {
		return errs.New(errs.OutOfRange, "config: max_price_deviation_bps must be in [1, 5000]")
	}
	if c.MaxTradeSizeBps == 0 || c.MaxTradeSizeBps > types.BPS {
		return errs.New(errs.OutOfRange, "config: max_trade_size_bps must be in (0, 10000]")
	}
	if c.MinPoWDifficulty == 0 {
		return errs.New(errs.OutOfRange, "config: min_pow_difficulty must be > 0")
	}
	if c.CommitWindowBlocks == 0 {
		return errs.New(errs.OutOfRange, "config: commit_window_blocks must be > 0")
	}
	if c.RevealWindowBlocks == 0 {
		return errs.New(errs.OutOfRange, "config: reveal_window_blocks must be > 0")
	}
	if c.DefaultFeeRateBps == 0 || c.DefaultFeeRateBps > 1000 {
		return errs.New(errs.OutOfRange, "config: default_fee_rate_bps must be in (0, 1000]")
	}
	return nil
}

// Validate decides whether newBytes is a legal ConfigCell payload, and
// (when oldBytes is non-nil) a legal successor to it: a strictly
// increasing version and last_updated, same as ComplianceCell's update
// discipline.
func Validate(oldBytes, newBytes []byte, in Input) error {
	newCell, err := types.ParseConfigCell(newBytes)
	if err != nil {
		return err
	}
	if err := ValidateRanges(newCell); err != nil {
		return err
	}
	if newCell.LastUpdated > in.CurrentBlock {
		return errs.New(errs.FutureBlock, "config: last_updated must not be in the future")
	}
	if oldBytes == nil {
		return nil
	}
	oldCell, err := types.ParseConfigCell(oldBytes)
	if err != nil {
		return err
	}
	if newCell.Version <= oldCell.Version {
		return errs.New(errs.VersionNotIncremented, "config: version must strictly increase")
	}
	if newCell.LastUpdated <= oldCell.LastUpdated {
		return errs.New(errs.StaleUpdate, "config: last_updated must strictly increase")
	}
	return nil
}
