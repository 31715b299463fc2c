// Package compliance implements the singleton ComplianceCell's update
// rule (strictly increasing version and last_updated) and the Merkle
// proof check that marks a sender blocked during commit aggregation (the
// auction validator receives the result as ConsumedCommit.Blocked).
// Spec §9(b) flags the source's filter as a placeholder that never blocks
// anyone; this implementation pins down the protocol it left open: a
// standard Merkle proof of membership, verified by recomputing the root
// from a claimed sibling path and comparing it against the cell's
// published root. A sender proven to be in the blocked tree is blocked.
package compliance

import (
	"crypto/sha256"

	"github.com/vibeswap/ckb-core/internal/errs"
	"github.com/vibeswap/ckb-core/pkg/types"
)

// Input carries context needed beyond the two ComplianceCell payloads.
// Creation is signalled by passing nil oldBytes to ValidateUpdate.
type Input struct {
	CurrentBlock uint64
}

// ValidateUpdate checks that newBytes is a legal successor to oldBytes: a
// strictly increasing version and last_updated (spec §3). Governance
// authorization (which key may publish an update) is enforced by the
// cell's lock script, outside this validator's scope; Unauthorized is
// reserved for callers that wire in that check.
func ValidateUpdate(oldBytes, newBytes []byte, in Input) error {
	newCell, err := types.ParseComplianceCell(newBytes)
	if err != nil {
		return err
	}
	if newCell.LastUpdated > in.CurrentBlock {
		return errs.New(errs.FutureBlock, "compliance: last_updated must not be in the future")
	}
	if oldBytes == nil {
		return nil
	}
	oldCell, err := types.ParseComplianceCell(oldBytes)
	if err != nil {
		return err
	}
	if newCell.Version <= oldCell.Version {
		return errs.New(errs.VersionNotIncremented, "compliance: version must strictly increase")
	}
	if newCell.LastUpdated <= oldCell.LastUpdated {
		return errs.New(errs.StaleUpdate, "compliance: last_updated must strictly increase")
	}
	return nil
}

// MerkleProof is an inclusion proof against one of the ComplianceCell's
// three roots: the leaf's sibling path from the leaf's position up to the
// root, ordered leaf-first (index 0 = the level just above the leaf), with
// one left/right bit per level.
type MerkleProof struct {
	Leaf     [32]byte
	Siblings [][32]byte
	// PathBits[i] is 0 if Leaf's subtree is the left child at level i,
	// 1 if it is the right child.
	PathBits []uint8
}

func leafHash(data [32]byte) [32]byte {
	buf := make([]byte, 0, 33)
	buf = append(buf, types.HashLeafTag)
	buf = append(buf, data[:]...)
	return sha256.Sum256(buf)
}

func branchHash(left, right [32]byte) [32]byte {
	buf := make([]byte, 0, 65)
	buf = append(buf, types.HashBranchTag)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return sha256.Sum256(buf)
}

// recompute folds the proof's sibling path into a candidate root.
func recompute(p MerkleProof) ([32]byte, error) {
	if len(p.Siblings) != len(p.PathBits) {
		return [32]byte{}, errs.New(errs.InvalidArgs, "compliance: proof siblings/path-bits length mismatch")
	}
	cur := leafHash(p.Leaf)
	for i, sib := range p.Siblings {
		if p.PathBits[i] == 0 {
			cur = branchHash(cur, sib)
		} else {
			cur = branchHash(sib, cur)
		}
	}
	return cur, nil
}

// VerifyInclusion reports whether p proves that leaf is a member of the
// tree committed to by root.
func VerifyInclusion(p MerkleProof, root [32]byte) bool {
	got, err := recompute(p)
	if err != nil {
		return false
	}
	return got == root
}

// IsBlocked reports whether the sender identified by senderLockHash is
// marked blocked, given a membership (inclusion) proof against
// the ComplianceCell's blocked_merkle_root. A present, root-matching
// inclusion proof for senderLockHash itself means the sender IS listed in
// the blocked set, i.e. blocked. Absence of a proof (nil) means the
// caller asserts no block applies, matching spec §4.1's default: "in
// absence of compliance data, none are marked".
func IsBlocked(senderLockHash [32]byte, proof *MerkleProof, blockedMerkleRoot [32]byte) bool {
	if proof == nil {
		return false
	}
	if proof.Leaf != senderLockHash {
		return false
	}
	return VerifyInclusion(*proof, blockedMerkleRoot)
}
