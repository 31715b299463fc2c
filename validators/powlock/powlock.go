// Package powlock implements the PoW lock script's consumption check for
// shared cells (auction, pool): challenge derivation and binding, leading-
// zero-bit verification against the larger of the lock args' and the
// caller-supplied minimum difficulty, and
// the difficulty-adjustment formula when the target changes across a
// transition. Grounded on pkg/pow's primitives and the teacher's
// spend_verify.go's "parse witness, then check a fixed rule list" shape.
package powlock

import (
	"github.com/vibeswap/ckb-core/internal/errs"
	"github.com/vibeswap/ckb-core/pkg/pow"
	"github.com/vibeswap/ckb-core/pkg/types"
)

// WitnessBytes is the exact size of the PoW witness: challenge || nonce
// (spec §6).
const WitnessBytes = 64

// Witness is the 64-byte challenge||nonce blob carried in the consuming
// transaction's witness section.
type Witness struct {
	Challenge [32]byte
	Nonce     [32]byte
}

// ParseWitness decodes a 64-byte PoW witness.
func ParseWitness(b []byte) (*Witness, error) {
	if len(b) != WitnessBytes {
		return nil, errs.Newf(errs.InvalidProofStructure, "powlock: witness must be %d bytes, got %d", WitnessBytes, len(b))
	}
	w := &Witness{}
	copy(w.Challenge[:], b[0:32])
	copy(w.Nonce[:], b[32:64])
	return w, nil
}

// Input carries the context the PoW lock check needs beyond the witness
// bytes and the lock args.
type Input struct {
	BatchID        uint64
	PrevStateHash  [32]byte
	WitnessBytes   []byte
	MinDifficulty  uint8
	OldDifficulty  uint8
	NewDifficulty  uint8
	DifficultyChanged bool
	TargetBlocks   uint64
	ActualBlocks   uint64
}

// ValidateConsumption checks that consuming a PoW-locked cell carries a
// valid proof of work against the derived challenge, and — if the cell's
// difficulty_target changed across this transition — that the new
// difficulty matches the retarget formula within tolerance (spec §4.4).
func ValidateConsumption(args *types.PoWLockArgs, in Input) error {
	w, err := ParseWitness(in.WitnessBytes)
	if err != nil {
		return err
	}

	wantChallenge := pow.DeriveChallenge(args.PairID, in.BatchID, in.PrevStateHash)
	if w.Challenge != wantChallenge {
		return errs.New(errs.InvalidChallenge, "powlock: witness challenge does not match derived challenge")
	}

	minDiff := args.MinDifficulty
	if in.MinDifficulty > minDiff {
		minDiff = in.MinDifficulty
	}
	if !pow.Verify(w.Challenge, w.Nonce, minDiff) {
		return errs.New(errs.InsufficientDifficulty, "powlock: proof does not meet min_difficulty")
	}

	if in.DifficultyChanged {
		if !pow.WithinAdjustmentTolerance(in.NewDifficulty, in.OldDifficulty, in.TargetBlocks, in.ActualBlocks) {
			return errs.New(errs.InvalidDifficultyAdjustment, "powlock: new difficulty is outside the retarget formula's ±1 tolerance")
		}
	}
	return nil
}
