// Package lpposition implements the per-user LPPositionCell's creation
// and immutability rules. Spec §2 allocates this its own validator share
// ("Commit / compliance / config / oracle / LP / PoW-lock validators")
// but §4 gives it no subsection of its own; it is a small single-cell
// covenant validator shaped like the teacher's htlc.go and vault.go.
package lpposition

import (
	"github.com/vibeswap/ckb-core/internal/errs"
	"github.com/vibeswap/ckb-core/pkg/types"
)

// ValidateCreation checks a freshly created LPPositionCell against spec
// §3's invariants: lp_amount > 0, pool_id nonzero.
func ValidateCreation(cellBytes []byte) error {
	c, err := types.ParseLPPositionCell(cellBytes)
	if err != nil {
		return err
	}
	if c.LPAmount.IsZero() {
		return errs.New(errs.InvalidArgs, "lpposition: lp_amount must be nonzero")
	}
	var zero32 [32]byte
	if c.PoolID == zero32 {
		return errs.New(errs.InvalidArgs, "lpposition: pool_id must be nonzero")
	}
	return nil
}

// ValidateUpdate checks that entry_price, pool_id and deposit_block never
// change across a transition of the same LP position (only lp_amount may
// move, e.g. a partial withdrawal burning part of the position).
func ValidateUpdate(oldBytes, newBytes []byte) error {
	oldCell, err := types.ParseLPPositionCell(oldBytes)
	if err != nil {
		return err
	}
	newCell, err := types.ParseLPPositionCell(newBytes)
	if err != nil {
		return err
	}
	if oldCell.PoolID != newCell.PoolID {
		return errs.New(errs.InvalidArgs, "lpposition: pool_id is immutable")
	}
	if oldCell.EntryPrice != newCell.EntryPrice {
		return errs.New(errs.InvalidArgs, "lpposition: entry_price is immutable")
	}
	if oldCell.DepositBlock != newCell.DepositBlock {
		return errs.New(errs.InvalidArgs, "lpposition: deposit_block is immutable")
	}
	if newCell.LPAmount.IsZero() {
		return errs.New(errs.InvalidArgs, "lpposition: lp_amount must remain nonzero")
	}
	return nil
}
