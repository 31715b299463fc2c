package types

import (
	"github.com/vibeswap/ckb-core/internal/errs"
	"github.com/vibeswap/ckb-core/pkg/arith"
)

// OracleCellBytes is the exact wire size of OracleCell (spec §3, §6).
const OracleCellBytes = 89

// OracleCell publishes an external reference price that the pool validator
// checks pool-implied price against for circuit-breaker deviation limits.
type OracleCell struct {
	Price       arith.U128
	BlockNumber uint64
	Confidence  uint8
	SourceHash  [32]byte
	PairID      [32]byte
}

// Serialize encodes o to its 89-byte little-endian wire form.
func (o *OracleCell) Serialize() []byte {
	w := newWriter(OracleCellBytes)
	w.writeU128(o.Price)
	w.writeU64(o.BlockNumber)
	w.writeU8(o.Confidence)
	w.writeBytes32(o.SourceHash)
	w.writeBytes32(o.PairID)
	return w.bytes()
}

// ParseOracleCell decodes an 89-byte OracleCell.
func ParseOracleCell(b []byte) (*OracleCell, error) {
	if len(b) != OracleCellBytes {
		return nil, errs.Newf(errs.InvalidCellData, "oracle cell: expected %d bytes, got %d", OracleCellBytes, len(b))
	}
	c := newCursor(b)
	out := &OracleCell{}
	var err error
	if out.Price, err = c.readU128(); err != nil {
		return nil, err
	}
	if out.BlockNumber, err = c.readU64(); err != nil {
		return nil, err
	}
	if out.Confidence, err = c.readU8(); err != nil {
		return nil, err
	}
	if out.SourceHash, err = c.readBytes32(); err != nil {
		return nil, err
	}
	if out.PairID, err = c.readBytes32(); err != nil {
		return nil, err
	}
	if err := c.done(); err != nil {
		return nil, err
	}
	return out, nil
}
