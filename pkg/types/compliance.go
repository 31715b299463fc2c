package types

import (
	"github.com/vibeswap/ckb-core/internal/errs"
)

// ComplianceCellBytes is the exact wire size of ComplianceCell (spec §3, §6).
const ComplianceCellBytes = 108

// ComplianceCell publishes Merkle roots of off-chain compiled block/tier/
// jurisdiction lists that validators check membership proofs against.
type ComplianceCell struct {
	BlockedMerkleRoot      [32]byte
	TierMerkleRoot         [32]byte
	JurisdictionMerkleRoot [32]byte
	LastUpdated            uint64
	Version                uint32
}

// Serialize encodes c to its 108-byte little-endian wire form.
func (c *ComplianceCell) Serialize() []byte {
	w := newWriter(ComplianceCellBytes)
	w.writeBytes32(c.BlockedMerkleRoot)
	w.writeBytes32(c.TierMerkleRoot)
	w.writeBytes32(c.JurisdictionMerkleRoot)
	w.writeU64(c.LastUpdated)
	w.writeU32(c.Version)
	return w.bytes()
}

// ParseComplianceCell decodes a 108-byte ComplianceCell.
func ParseComplianceCell(b []byte) (*ComplianceCell, error) {
	if len(b) != ComplianceCellBytes {
		return nil, errs.Newf(errs.InvalidCellData, "compliance cell: expected %d bytes, got %d", ComplianceCellBytes, len(b))
	}
	cur := newCursor(b)
	out := &ComplianceCell{}
	var err error
	if out.BlockedMerkleRoot, err = cur.readBytes32(); err != nil {
		return nil, err
	}
	if out.TierMerkleRoot, err = cur.readBytes32(); err != nil {
		return nil, err
	}
	if out.JurisdictionMerkleRoot, err = cur.readBytes32(); err != nil {
		return nil, err
	}
	if out.LastUpdated, err = cur.readU64(); err != nil {
		return nil, err
	}
	if out.Version, err = cur.readU32(); err != nil {
		return nil, err
	}
	if err := cur.done(); err != nil {
		return nil, err
	}
	return out, nil
}
