package types

import (
	"github.com/vibeswap/ckb-core/internal/errs"
	"github.com/vibeswap/ckb-core/pkg/arith"
)

// LPPositionCellBytes is the exact wire size of LPPositionCell (spec §3, §6).
const LPPositionCellBytes = 72

// LPPositionCell is a per-user liquidity provider receipt.
type LPPositionCell struct {
	LPAmount     arith.U128
	EntryPrice   arith.U128
	PoolID       [32]byte
	DepositBlock uint64
}

// Serialize encodes l to its 72-byte little-endian wire form.
func (l *LPPositionCell) Serialize() []byte {
	w := newWriter(LPPositionCellBytes)
	w.writeU128(l.LPAmount)
	w.writeU128(l.EntryPrice)
	w.writeBytes32(l.PoolID)
	w.writeU64(l.DepositBlock)
	return w.bytes()
}

// ParseLPPositionCell decodes a 72-byte LPPositionCell.
func ParseLPPositionCell(b []byte) (*LPPositionCell, error) {
	if len(b) != LPPositionCellBytes {
		return nil, errs.Newf(errs.InvalidCellData, "lp position cell: expected %d bytes, got %d", LPPositionCellBytes, len(b))
	}
	c := newCursor(b)
	out := &LPPositionCell{}
	var err error
	if out.LPAmount, err = c.readU128(); err != nil {
		return nil, err
	}
	if out.EntryPrice, err = c.readU128(); err != nil {
		return nil, err
	}
	if out.PoolID, err = c.readBytes32(); err != nil {
		return nil, err
	}
	if out.DepositBlock, err = c.readU64(); err != nil {
		return nil, err
	}
	if err := c.done(); err != nil {
		return nil, err
	}
	return out, nil
}
