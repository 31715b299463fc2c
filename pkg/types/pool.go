package types

import (
	"github.com/vibeswap/ckb-core/internal/errs"
	"github.com/vibeswap/ckb-core/pkg/arith"
)

// PoolCellBytes is the exact wire size of PoolCell (spec §3, §6).
const PoolCellBytes = 218

// PoolCell is the shared per-pair constant-product AMM pool.
type PoolCell struct {
	Reserve0         arith.U128
	Reserve1         arith.U128
	TotalLPSupply    arith.U128
	FeeRateBps       uint16
	TwapPriceCum     arith.U128
	TwapLastBlock    uint64
	KLast            [32]byte
	MinimumLiquidity arith.U128
	PairID           [32]byte
	Token0TypeHash   [32]byte
	Token1TypeHash   [32]byte
}

// Serialize encodes p to its 218-byte little-endian wire form.
func (p *PoolCell) Serialize() []byte {
	w := newWriter(PoolCellBytes)
	w.writeU128(p.Reserve0)
	w.writeU128(p.Reserve1)
	w.writeU128(p.TotalLPSupply)
	w.writeU16(p.FeeRateBps)
	w.writeU128(p.TwapPriceCum)
	w.writeU64(p.TwapLastBlock)
	w.writeBytes32(p.KLast)
	w.writeU128(p.MinimumLiquidity)
	w.writeBytes32(p.PairID)
	w.writeBytes32(p.Token0TypeHash)
	w.writeBytes32(p.Token1TypeHash)
	return w.bytes()
}

// ParsePoolCell decodes a 218-byte PoolCell.
func ParsePoolCell(b []byte) (*PoolCell, error) {
	if len(b) != PoolCellBytes {
		return nil, errs.Newf(errs.InvalidCellData, "pool cell: expected %d bytes, got %d", PoolCellBytes, len(b))
	}
	c := newCursor(b)
	p := &PoolCell{}
	var err error
	if p.Reserve0, err = c.readU128(); err != nil {
		return nil, err
	}
	if p.Reserve1, err = c.readU128(); err != nil {
		return nil, err
	}
	if p.TotalLPSupply, err = c.readU128(); err != nil {
		return nil, err
	}
	if p.FeeRateBps, err = c.readU16(); err != nil {
		return nil, err
	}
	if p.TwapPriceCum, err = c.readU128(); err != nil {
		return nil, err
	}
	if p.TwapLastBlock, err = c.readU64(); err != nil {
		return nil, err
	}
	if p.KLast, err = c.readBytes32(); err != nil {
		return nil, err
	}
	if p.MinimumLiquidity, err = c.readU128(); err != nil {
		return nil, err
	}
	if p.PairID, err = c.readBytes32(); err != nil {
		return nil, err
	}
	if p.Token0TypeHash, err = c.readBytes32(); err != nil {
		return nil, err
	}
	if p.Token1TypeHash, err = c.readBytes32(); err != nil {
		return nil, err
	}
	if err := c.done(); err != nil {
		return nil, err
	}
	return p, nil
}
