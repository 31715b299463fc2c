package types

import (
	"github.com/vibeswap/ckb-core/internal/errs"
	"github.com/vibeswap/ckb-core/pkg/arith"
)

// CommitCellBytes is the exact wire size of CommitCell (spec §3, §6).
const CommitCellBytes = 136

// CommitCell is the per-user, no-contention commitment to a sealed order.
type CommitCell struct {
	OrderHash      [32]byte
	BatchID        uint64
	DepositCKB     uint64
	TokenTypeHash  [32]byte
	TokenAmount    arith.U128
	BlockNumber    uint64
	SenderLockHash [32]byte
}

// Serialize encodes c to its 136-byte little-endian wire form.
func (c *CommitCell) Serialize() []byte {
	w := newWriter(CommitCellBytes)
	w.writeBytes32(c.OrderHash)
	w.writeU64(c.BatchID)
	w.writeU64(c.DepositCKB)
	w.writeBytes32(c.TokenTypeHash)
	w.writeU128(c.TokenAmount)
	w.writeU64(c.BlockNumber)
	w.writeBytes32(c.SenderLockHash)
	return w.bytes()
}

// ParseCommitCell decodes a 136-byte CommitCell.
func ParseCommitCell(b []byte) (*CommitCell, error) {
	if len(b) != CommitCellBytes {
		return nil, errs.Newf(errs.InvalidCellData, "commit cell: expected %d bytes, got %d", CommitCellBytes, len(b))
	}
	cur := newCursor(b)
	out := &CommitCell{}
	var err error
	if out.OrderHash, err = cur.readBytes32(); err != nil {
		return nil, err
	}
	if out.BatchID, err = cur.readU64(); err != nil {
		return nil, err
	}
	if out.DepositCKB, err = cur.readU64(); err != nil {
		return nil, err
	}
	if out.TokenTypeHash, err = cur.readBytes32(); err != nil {
		return nil, err
	}
	if out.TokenAmount, err = cur.readU128(); err != nil {
		return nil, err
	}
	if out.BlockNumber, err = cur.readU64(); err != nil {
		return nil, err
	}
	if out.SenderLockHash, err = cur.readBytes32(); err != nil {
		return nil, err
	}
	if err := cur.done(); err != nil {
		return nil, err
	}
	return out, nil
}
