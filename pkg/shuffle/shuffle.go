// Package shuffle implements the deterministic Fisher-Yates permutation
// and its two seed-generation variants used to order revealed orders
// within a batch before clearing. The seed-by-XOR-fold pattern mirrors
// the teacher's tagged-hash preimage construction in consensus/merkle.go,
// adapted from a Merkle accumulator to a running-seed PRNG.
package shuffle

import (
	"crypto/sha256"
	"encoding/binary"
)

// GenerateSeed folds secrets with XOR and hashes the result together
// with the secret count: H((⊕ secrets) ‖ len_LE). It is suitable for the
// initial shuffle seed but MUST NOT be used for the final shuffle, since
// the last revealer can choose their secret to steer the XOR fold.
func GenerateSeed(secrets [][32]byte) [32]byte {
	folded := xorFold(secrets)
	buf := make([]byte, 0, 32+8)
	buf = append(buf, folded[:]...)
	buf = append(buf, lenLE(len(secrets))...)
	return sha256.Sum256(buf)
}

// GenerateSeedSecure folds secrets with XOR and hashes the result
// together with future-block entropy and the batch id:
// H((⊕ secrets) ‖ block_entropy ‖ batch_id_LE ‖ len_LE). The block
// entropy must come from a block unknown at reveal time, which is the
// sole defense against a last-revealer grinding attack; this variant is
// mandatory for the final shuffle.
func GenerateSeedSecure(secrets [][32]byte, blockEntropy [32]byte, batchID uint64) [32]byte {
	folded := xorFold(secrets)
	buf := make([]byte, 0, 32+32+8+8)
	buf = append(buf, folded[:]...)
	buf = append(buf, blockEntropy[:]...)
	var batchLE [8]byte
	binary.LittleEndian.PutUint64(batchLE[:], batchID)
	buf = append(buf, batchLE[:]...)
	buf = append(buf, lenLE(len(secrets))...)
	return sha256.Sum256(buf)
}

func xorFold(secrets [][32]byte) [32]byte {
	var out [32]byte
	for _, s := range secrets {
		for i := 0; i < 32; i++ {
			out[i] ^= s[i]
		}
	}
	return out
}

func lenLE(n int) []byte {
	var out [8]byte
	binary.LittleEndian.PutUint64(out[:], uint64(n))
	return out[:]
}

// firstU64 reads the first 8 bytes of seed as a little-endian uint64.
func firstU64(seed [32]byte) uint64 {
	return binary.LittleEndian.Uint64(seed[:8])
}

// Permute returns a deterministic permutation of [0, n) derived from
// seed: Fisher-Yates from i = n-1 down to 1, re-deriving the seed at
// each step as H(seed ‖ i_LE) and picking j = firstU64(seed') mod (i+1).
// The input n-length slice perm is not shuffled in place; Permute
// returns the index permutation so callers can apply it to any
// same-length slice of associated data.
func Permute(seed [32]byte, n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	if n <= 1 {
		return perm
	}

	cur := seed
	for i := n - 1; i >= 1; i-- {
		buf := make([]byte, 0, 32+8)
		buf = append(buf, cur[:]...)
		buf = append(buf, lenLE(i)...)
		cur = sha256.Sum256(buf)

		j := int(firstU64(cur) % uint64(i+1))
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}
