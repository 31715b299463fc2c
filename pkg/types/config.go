package types

import (
	"github.com/vibeswap/ckb-core/internal/errs"
	"github.com/vibeswap/ckb-core/pkg/arith"
)

// ConfigCellBytes is the exact wire size of ConfigCell (spec §3, §6).
const ConfigCellBytes = 67

// ConfigCell carries the governance-tunable parameters every other
// validator reads but none may mutate except through an update that
// validators/config accepts: parameters within range, and strictly
// increasing version and last_updated. validators/config checks no
// signature.
type ConfigCell struct {
	CommitWindowBlocks       uint32
	RevealWindowBlocks       uint32
	SlashRateBps             uint16
	MaxPriceDeviationBps     uint16
	MaxTradeSizeBps          uint16
	MaxCommitsPerAggregation uint32
	VolumeBreakerLimit       arith.U128
	PriceBreakerBps          uint16
	MinDepositCKB            uint64
	DefaultFeeRateBps        uint16
	MinPoWDifficulty         uint8
	Version                  uint32
	OracleMaxStalenessBlocks uint64
	LastUpdated              uint64
}

// Serialize encodes c to its 67-byte little-endian wire form.
func (c *ConfigCell) Serialize() []byte {
	w := newWriter(ConfigCellBytes)
	w.writeU32(c.CommitWindowBlocks)
	w.writeU32(c.RevealWindowBlocks)
	w.writeU16(c.SlashRateBps)
	w.writeU16(c.MaxPriceDeviationBps)
	w.writeU16(c.MaxTradeSizeBps)
	w.writeU32(c.MaxCommitsPerAggregation)
	w.writeU128(c.VolumeBreakerLimit)
	w.writeU16(c.PriceBreakerBps)
	w.writeU64(c.MinDepositCKB)
	w.writeU16(c.DefaultFeeRateBps)
	w.writeU8(c.MinPoWDifficulty)
	w.writeU32(c.Version)
	w.writeU64(c.OracleMaxStalenessBlocks)
	w.writeU64(c.LastUpdated)
	return w.bytes()
}

// ParseConfigCell decodes a 67-byte ConfigCell.
func ParseConfigCell(b []byte) (*ConfigCell, error) {
	if len(b) != ConfigCellBytes {
		return nil, errs.Newf(errs.InvalidCellData, "config cell: expected %d bytes, got %d", ConfigCellBytes, len(b))
	}
	c := newCursor(b)
	out := &ConfigCell{}
	var err error
	if out.CommitWindowBlocks, err = c.readU32(); err != nil {
		return nil, err
	}
	if out.RevealWindowBlocks, err = c.readU32(); err != nil {
		return nil, err
	}
	if out.SlashRateBps, err = c.readU16(); err != nil {
		return nil, err
	}
	if out.MaxPriceDeviationBps, err = c.readU16(); err != nil {
		return nil, err
	}
	if out.MaxTradeSizeBps, err = c.readU16(); err != nil {
		return nil, err
	}
	if out.MaxCommitsPerAggregation, err = c.readU32(); err != nil {
		return nil, err
	}
	if out.VolumeBreakerLimit, err = c.readU128(); err != nil {
		return nil, err
	}
	if out.PriceBreakerBps, err = c.readU16(); err != nil {
		return nil, err
	}
	if out.MinDepositCKB, err = c.readU64(); err != nil {
		return nil, err
	}
	if out.DefaultFeeRateBps, err = c.readU16(); err != nil {
		return nil, err
	}
	if out.MinPoWDifficulty, err = c.readU8(); err != nil {
		return nil, err
	}
	if out.Version, err = c.readU32(); err != nil {
		return nil, err
	}
	if out.OracleMaxStalenessBlocks, err = c.readU64(); err != nil {
		return nil, err
	}
	if out.LastUpdated, err = c.readU64(); err != nil {
		return nil, err
	}
	if err := c.done(); err != nil {
		return nil, err
	}
	return out, nil
}
