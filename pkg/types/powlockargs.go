package types

import (
	"github.com/vibeswap/ckb-core/internal/errs"
)

// PoWLockArgsBytes is the exact wire size of PoWLockArgs (spec §3, §6).
const PoWLockArgsBytes = 33

// PoWLockArgs is the lock-script args blob attached to a PoW-protected
// shared cell (auction, pool): the pair this difficulty applies to, and
// the floor difficulty below which validators/powlock rejects consuming
// the cell.
type PoWLockArgs struct {
	PairID        [32]byte
	MinDifficulty uint8
}

// Serialize encodes a to its 33-byte little-endian wire form.
func (a *PoWLockArgs) Serialize() []byte {
	w := newWriter(PoWLockArgsBytes)
	w.writeBytes32(a.PairID)
	w.writeU8(a.MinDifficulty)
	return w.bytes()
}

// ParsePoWLockArgs decodes a 33-byte PoWLockArgs.
func ParsePoWLockArgs(b []byte) (*PoWLockArgs, error) {
	if len(b) != PoWLockArgsBytes {
		return nil, errs.Newf(errs.InvalidCellData, "pow lock args: expected %d bytes, got %d", PoWLockArgsBytes, len(b))
	}
	c := newCursor(b)
	out := &PoWLockArgs{}
	var err error
	if out.PairID, err = c.readBytes32(); err != nil {
		return nil, err
	}
	if out.MinDifficulty, err = c.readU8(); err != nil {
		return nil, err
	}
	if err := c.done(); err != nil {
		return nil, err
	}
	return out, nil
}
