// Package commit implements the commit-cell validator: the creation rules
// for a user's sealed per-order deposit, and the requirement that it can
// only be consumed alongside the auction cell it targets. The "parse,
// then walk a fixed rule list" shape mirrors validators/auction and
// validators/pool, narrowed to a cell with no cross-transition state
// machine of its own — grounded on the teacher's htlc.go, which validates
// a single-cell covenant the same way.
package commit

import (
	"github.com/vibeswap/ckb-core/internal/errs"
	"github.com/vibeswap/ckb-core/pkg/types"
)

// AuctionContext carries the fields of the auction cell consumed alongside
// this commit, when the caller supplies one as a cell-dep. A nil pointer
// means no auction cell data was available to cross-check.
type AuctionContext struct {
	BatchID uint64
	Phase   types.Phase
}

// Input carries the transition-specific context a commit creation needs
// beyond the raw cell bytes.
type Input struct {
	MinDepositCKB uint64

	// InputLockHash is the lock hash of the transaction input funding this
	// commit, if available to the caller. A zero value means unavailable.
	InputLockHash [32]byte

	// PairTypeArgs is the 32-byte pair identifier encoded in the commit
	// cell's type script args.
	PairTypeArgs [32]byte

	// Auction is the auction cell cell-dep's relevant fields, if the
	// transaction carries one. nil means absent (spec §4.3: the auction
	// cell MUST appear in the same transaction for a commit to be
	// consumed, but creation-time validation of a standalone commit cell
	// does not require it).
	Auction *AuctionContext

	// AuctionPresent records whether the auction cell appears in this
	// transaction at all, independent of whether its fields were decoded
	// into Auction (§4.3's NoAuctionCellInTx check).
	AuctionPresent bool

	// RequireAuctionCell gates the NoAuctionCellInTx check: set when this
	// call validates a commit being *consumed* (aggregation/slash), not
	// merely created.
	RequireAuctionCell bool
}

// ValidateCreation checks a freshly created CommitCell against the rules
// in spec §4.3.
func ValidateCreation(cellBytes []byte, in Input) error {
	c, err := types.ParseCommitCell(cellBytes)
	if err != nil {
		return err
	}

	var zero32 [32]byte
	if c.OrderHash == zero32 {
		return errs.New(errs.ZeroOrderHash, "commit: order_hash must be nonzero")
	}
	if c.DepositCKB < in.MinDepositCKB {
		return errs.New(errs.InsufficientDeposit, "commit: deposit_ckb below min_deposit")
	}
	if c.TokenAmount.IsZero() {
		return errs.New(errs.ZeroTokenAmount, "commit: token_amount must be nonzero")
	}
	if in.InputLockHash != zero32 && in.InputLockHash != c.SenderLockHash {
		return errs.New(errs.LockHashMismatch, "commit: sender_lock_hash does not match the funding input's lock hash")
	}
	if in.PairTypeArgs == zero32 {
		return errs.New(errs.InvalidTypeArgs, "commit: type-script args must encode a nonzero 32-byte pair identifier")
	}
	if in.Auction != nil {
		if c.BatchID != in.Auction.BatchID {
			return errs.New(errs.BatchIdMismatch, "commit: batch_id does not match the auction cell's current batch")
		}
		if in.Auction.Phase != types.PhaseCommit {
			return errs.New(errs.WrongPhase, "commit: auction cell is not in COMMIT phase")
		}
	}
	return validateConsumption(in)
}

// ValidateConsumption enforces the rule that consuming a commit cell (to
// aggregate it into a batch, or to slash it for non-reveal) requires the
// auction cell to appear in the same transaction. It does not check for
// duplicate commits: UTXO uniqueness at the ledger layer already makes
// that impossible (spec §4.3, §9(c)).
func ValidateConsumption(in Input) error {
	return validateConsumption(in)
}

func validateConsumption(in Input) error {
	if in.RequireAuctionCell && !in.AuctionPresent {
		return errs.New(errs.NoAuctionCellInTx, "commit: auction cell must appear in the same transaction")
	}
	return nil
}
