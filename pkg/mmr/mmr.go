// Package mmr implements an append-only Merkle Mountain Range: a forest of
// perfect binary trees whose peak heights track the binary representation
// of the leaf count. It is the accumulator behind the auction cell's
// commit_mmr_root, grounded on the tagged-hash leaf/node pattern the
// teacher's Merkle code uses, but forest-shaped rather than a single
// balanced tree.
package mmr

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"

	"github.com/vibeswap/ckb-core/pkg/types"
)

// ErrEmpty is returned by Root and Proof when the tree has no leaves.
var ErrEmpty = errors.New("mmr: empty tree")

// ErrIndexOutOfRange is returned by Proof for an index >= leaf count.
var ErrIndexOutOfRange = errors.New("mmr: index out of range")

// Tree is an in-memory Merkle Mountain Range. The zero value is an empty
// tree ready to use.
type Tree struct {
	peaks     [][32]byte
	peakSizes []int // leaf count spanned by each peak, most recent last
	leaves    int
}

func leafHash(data []byte) [32]byte {
	buf := make([]byte, 1+len(data))
	buf[0] = types.HashLeafTag
	copy(buf[1:], data)
	return sha256.Sum256(buf)
}

func branchHash(left, right [32]byte) [32]byte {
	var buf [1 + 32 + 32]byte
	buf[0] = types.HashBranchTag
	copy(buf[1:33], left[:])
	copy(buf[33:], right[:])
	return sha256.Sum256(buf[:])
}

func popcount(n int) int {
	c := 0
	for n > 0 {
		c += n & 1
		n >>= 1
	}
	return c
}

// Append adds a new leaf built from data and merges peaks until the peak
// count matches popcount(leaf_count).
func (t *Tree) Append(data []byte) {
	t.peaks = append(t.peaks, leafHash(data))
	t.peakSizes = append(t.peakSizes, 1)
	t.leaves++

	for len(t.peaks) > popcount(t.leaves) {
		n := len(t.peaks)
		left, right := t.peaks[n-2], t.peaks[n-1]
		merged := branchHash(left, right)
		mergedSize := t.peakSizes[n-2] + t.peakSizes[n-1]

		t.peaks = t.peaks[:n-2]
		t.peakSizes = t.peakSizes[:n-2]
		t.peaks = append(t.peaks, merged)
		t.peakSizes = append(t.peakSizes, mergedSize)
	}
}

// ErrPeakCountMismatch is returned by NewFromPeaks when the supplied peak
// list's length does not match popcount(leafCount).
var ErrPeakCountMismatch = errors.New("mmr: peak count does not match popcount(leaf count)")

// NewFromPeaks resumes a Tree from a previously-persisted peak list and
// leaf count, without replaying the full leaf history. This is how a
// validator continues appending to an existing accumulator when only its
// root (not its full leaf history) is stored in a cell: the caller
// carries the peak list alongside the root as sidecar witness data, and
// NewFromPeaks lets Append pick up exactly where the prior Tree left off.
// Peak sizes are derived from leafCount's binary representation, which is
// an invariant of the merge algorithm Append implements.
func NewFromPeaks(peaks [][32]byte, leafCount int) (*Tree, error) {
	sizes := peakSizesFromCount(leafCount)
	if len(sizes) != len(peaks) {
		return nil, ErrPeakCountMismatch
	}
	t := &Tree{
		peaks:     append([][32]byte{}, peaks...),
		peakSizes: sizes,
		leaves:    leafCount,
	}
	return t, nil
}

func peakSizesFromCount(n int) []int {
	var sizes []int
	for bit := 63; bit >= 0; bit-- {
		if n&(1<<uint(bit)) != 0 {
			sizes = append(sizes, 1<<uint(bit))
		}
	}
	return sizes
}

// NewFromLeaves builds a Tree by appending each element of data in order.
// Validators use it to recompute a commit MMR root from a batch's
// order_hash list rather than trusting a caller-supplied root.
func NewFromLeaves(data [][]byte) *Tree {
	t := &Tree{}
	for _, d := range data {
		t.Append(d)
	}
	return t
}

// LeafCount returns the number of leaves appended so far.
func (t *Tree) LeafCount() int {
	return t.leaves
}

// Peaks returns a copy of the current peak hashes, left (tallest) to
// right (most recent, shortest).
func (t *Tree) Peaks() [][32]byte {
	out := make([][32]byte, len(t.peaks))
	copy(out, t.peaks)
	return out
}

// Root returns the single accumulator root: the lone peak if there is
// exactly one, else H(peaks concatenated ‖ leaf_count_LE).
func (t *Tree) Root() ([32]byte, error) {
	var zero [32]byte
	if t.leaves == 0 {
		return zero, ErrEmpty
	}
	if len(t.peaks) == 1 {
		return t.peaks[0], nil
	}
	buf := make([]byte, 0, len(t.peaks)*32+8)
	for _, p := range t.peaks {
		buf = append(buf, p[:]...)
	}
	var countLE [8]byte
	binary.LittleEndian.PutUint64(countLE[:], uint64(t.leaves))
	buf = append(buf, countLE[:]...)
	return sha256.Sum256(buf), nil
}

// Proof is a membership proof for one leaf: the sibling path up to its
// peak, plus the full peak list and leaf count needed to recompute root.
// SiblingOnRight[i] records whether Siblings[i] was the right-hand node
// at that merge step (so the tracked hash was the left-hand node).
type Proof struct {
	LeafIndex      int
	Siblings       [][32]byte
	SiblingOnRight []bool
	PeakIndex      int
	Peaks          [][32]byte
	LeafCount      int
}

// ComputeProof rebuilds the MMR from leafHashes and extracts a Proof for
// the leaf at index, by replaying Append and tracking which peak-stack
// slot the target leaf's running hash occupies across merges.
func ComputeProof(leafHashes [][32]byte, index int) (Proof, error) {
	if index < 0 || index >= len(leafHashes) {
		return Proof{}, ErrIndexOutOfRange
	}

	var peaks [][32]byte
	var peakSizes []int
	var siblings [][32]byte
	var onRight []bool
	trackPos := -1

	for i, lh := range leafHashes {
		peaks = append(peaks, lh)
		peakSizes = append(peakSizes, 1)
		if i == index {
			trackPos = len(peaks) - 1
		}

		leaves := i + 1
		for len(peaks) > popcount(leaves) {
			n := len(peaks)
			leftIdx, rightIdx := n-2, n-1
			left, right := peaks[leftIdx], peaks[rightIdx]
			merged := branchHash(left, right)
			mergedSize := peakSizes[leftIdx] + peakSizes[rightIdx]

			tracked := false
			if trackPos == leftIdx {
				siblings = append(siblings, right)
				onRight = append(onRight, true)
				tracked = true
			} else if trackPos == rightIdx {
				siblings = append(siblings, left)
				onRight = append(onRight, false)
				tracked = true
			}

			peaks = append(peaks[:leftIdx], merged)
			peakSizes = append(peakSizes[:leftIdx], mergedSize)
			if tracked {
				trackPos = len(peaks) - 1
			}
		}
	}

	peaksCopy := make([][32]byte, len(peaks))
	copy(peaksCopy, peaks)
	return Proof{
		LeafIndex:      index,
		Siblings:       siblings,
		SiblingOnRight: onRight,
		PeakIndex:      trackPos,
		Peaks:          peaksCopy,
		LeafCount:      len(leafHashes),
	}, nil
}

// RootFromPeaks recomputes the accumulator root from an explicit peak
// list and leaf count, independent of any live Tree — used by verifiers
// that only hold a Proof.
func RootFromPeaks(peaks [][32]byte, leafCount int) ([32]byte, error) {
	var zero [32]byte
	if leafCount == 0 || len(peaks) == 0 {
		return zero, ErrEmpty
	}
	if len(peaks) == 1 {
		return peaks[0], nil
	}
	buf := make([]byte, 0, len(peaks)*32+8)
	for _, p := range peaks {
		buf = append(buf, p[:]...)
	}
	var countLE [8]byte
	binary.LittleEndian.PutUint64(countLE[:], uint64(leafCount))
	buf = append(buf, countLE[:]...)
	return sha256.Sum256(buf), nil
}

// Verify folds a proof's siblings into a peak hash, checks that peak is
// present (by position) in the claimed peak list, then recomputes root
// and compares against want.
func Verify(leafData []byte, p Proof, want [32]byte) bool {
	if p.PeakIndex < 0 || p.PeakIndex >= len(p.Peaks) {
		return false
	}
	if len(p.Siblings) != len(p.SiblingOnRight) {
		return false
	}
	h := leafHash(leafData)
	for i, sib := range p.Siblings {
		if p.SiblingOnRight[i] {
			h = branchHash(h, sib)
		} else {
			h = branchHash(sib, h)
		}
	}
	if h != p.Peaks[p.PeakIndex] {
		return false
	}
	got, err := RootFromPeaks(p.Peaks, p.LeafCount)
	if err != nil {
		return false
	}
	return got == want
}
