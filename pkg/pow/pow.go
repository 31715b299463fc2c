// Package pow implements the challenge derivation, leading-zero-bit
// verification, and difficulty-adjustment formula behind the PoW lock
// on shared auction and pool cells. The clamp-and-retarget shape is
// grounded on the teacher's RetargetV1 (big.Int-based, ratio clamped to
// [1/4, 4]); this variant tracks leading zero bits rather than a byte
// target and folds the ratio through log2 instead of linear scaling.
package pow

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"math/big"
)

// DeriveChallenge computes SHA-256(pair_id ‖ batch_id ‖ prev_state_hash),
// the value a PoW witness's challenge field must equal.
func DeriveChallenge(pairID [32]byte, batchID uint64, prevStateHash [32]byte) [32]byte {
	buf := make([]byte, 0, 32+8+32)
	buf = append(buf, pairID[:]...)
	var batchLE [8]byte
	binary.LittleEndian.PutUint64(batchLE[:], batchID)
	buf = append(buf, batchLE[:]...)
	buf = append(buf, prevStateHash[:]...)
	return sha256.Sum256(buf)
}

// LeadingZeroBits counts the leading zero bits of h, MSB first.
func LeadingZeroBits(h [32]byte) int {
	count := 0
	for _, b := range h {
		if b == 0 {
			count += 8
			continue
		}
		for mask := byte(0x80); mask != 0; mask >>= 1 {
			if b&mask != 0 {
				return count
			}
			count++
		}
	}
	return count
}

// Verify checks that SHA-256(challenge ‖ nonce) has at least minDifficulty
// leading zero bits.
func Verify(challenge [32]byte, nonce [32]byte, minDifficulty uint8) bool {
	buf := make([]byte, 0, 64)
	buf = append(buf, challenge[:]...)
	buf = append(buf, nonce[:]...)
	h := sha256.Sum256(buf)
	return LeadingZeroBits(h) >= int(minDifficulty)
}

// DifficultyToTarget returns the largest 256-bit value whose leading-zero
// bit count equals exactly difficulty, big-endian: the first set bit
// sits at bit position `difficulty` counting from the MSB, every bit
// after it is also set (the maximal qualifying value), and the preceding
// bytes stay zero. Verification via byte comparison (hash <= target) is
// equivalent to the leading-zero-bit count check for difficulty in
// [0, 255]; higher difficulty yields a lexicographically smaller target.
func DifficultyToTarget(difficulty uint8) [32]byte {
	var out [32]byte
	byteIdx := int(difficulty) / 8
	bitInByte := uint(int(difficulty) % 8)
	setBit := byte(1) << (7 - bitInByte)
	out[byteIdx] = setBit | (setBit - 1)
	for i := byteIdx + 1; i < 32; i++ {
		out[i] = 0xff
	}
	return out
}

// TargetToDifficulty is the inverse of DifficultyToTarget, recovering the
// difficulty from a target's leading-zero-bit count.
func TargetToDifficulty(target [32]byte) uint8 {
	lz := LeadingZeroBits(target)
	if lz > 255 {
		lz = 255
	}
	return uint8(lz)
}

// clampRatio restricts r to [1/4, 4].
func clampRatio(r *big.Rat) *big.Rat {
	quarter := big.NewRat(1, 4)
	four := big.NewRat(4, 1)
	if r.Cmp(quarter) < 0 {
		return quarter
	}
	if r.Cmp(four) > 0 {
		return four
	}
	return r
}

// AdjustDifficulty computes the next difficulty from the previous
// difficulty and the block span since the last phase transition:
// ratio = targetBlocks / actualBlocks, clamped to [1/4, 4]; log2(ratio)
// is added to prevDifficulty (floating add, rounded to nearest int),
// clamped to [1, 255]. If actualBlocks == 0, the difficulty is bumped
// by exactly 1 (clamped at 255).
func AdjustDifficulty(prevDifficulty uint8, targetBlocks, actualBlocks uint64) uint8 {
	if actualBlocks == 0 {
		if prevDifficulty == 255 {
			return 255
		}
		return prevDifficulty + 1
	}

	ratio := clampRatio(big.NewRat(int64(targetBlocks), int64(actualBlocks)))
	f, _ := ratio.Float64()
	delta := math.Log2(f)

	next := int(math.Round(float64(prevDifficulty) + delta))
	if next < 1 {
		next = 1
	}
	if next > 255 {
		next = 255
	}
	return uint8(next)
}

// WithinAdjustmentTolerance reports whether got is within ±1 of the
// formula's output for (prevDifficulty, targetBlocks, actualBlocks), as
// the spec's tolerance allows validators to accept either of two
// adjacent roundings of the log2 term.
func WithinAdjustmentTolerance(got, prevDifficulty uint8, targetBlocks, actualBlocks uint64) bool {
	want := int(AdjustDifficulty(prevDifficulty, targetBlocks, actualBlocks))
	diff := int(got) - want
	return diff >= -1 && diff <= 1
}
