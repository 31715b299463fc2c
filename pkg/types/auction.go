package types

import (
	"github.com/vibeswap/ckb-core/internal/errs"
	"github.com/vibeswap/ckb-core/pkg/arith"
)

// AuctionCellBytes is the exact wire size of AuctionCell (spec §3, §6).
const AuctionCellBytes = 217

// AuctionCell is the shared, one-per-pair cell driving the commit-reveal
// batch auction state machine.
type AuctionCell struct {
	Phase             Phase
	BatchID           uint64
	CommitMMRRoot     [32]byte
	CommitCount       uint32
	RevealCount       uint32
	XorSeed           [32]byte
	ClearingPrice     arith.U128
	FillableVolume    arith.U128
	DifficultyTarget  [32]byte
	PrevStateHash     [32]byte
	PhaseStartBlock   uint64
	PairID            [32]byte
}

// Serialize encodes a to its 217-byte little-endian wire form.
func (a *AuctionCell) Serialize() []byte {
	w := newWriter(AuctionCellBytes)
	w.writeU8(byte(a.Phase))
	w.writeU64(a.BatchID)
	w.writeBytes32(a.CommitMMRRoot)
	w.writeU32(a.CommitCount)
	w.writeU32(a.RevealCount)
	w.writeBytes32(a.XorSeed)
	w.writeU128(a.ClearingPrice)
	w.writeU128(a.FillableVolume)
	w.writeBytes32(a.DifficultyTarget)
	w.writeBytes32(a.PrevStateHash)
	w.writeU64(a.PhaseStartBlock)
	w.writeBytes32(a.PairID)
	return w.bytes()
}

// ParseAuctionCell decodes a 217-byte AuctionCell, failing InvalidCellData
// on any parse error (including wrong length and an unrecognized phase).
func ParseAuctionCell(b []byte) (*AuctionCell, error) {
	if len(b) != AuctionCellBytes {
		return nil, errs.Newf(errs.InvalidCellData, "auction cell: expected %d bytes, got %d", AuctionCellBytes, len(b))
	}
	c := newCursor(b)
	a := &AuctionCell{}

	phaseByte, err := c.readU8()
	if err != nil {
		return nil, err
	}
	if phaseByte > byte(PhaseSettled) {
		return nil, errs.Newf(errs.InvalidCellData, "auction cell: invalid phase %d", phaseByte)
	}
	a.Phase = Phase(phaseByte)

	if a.BatchID, err = c.readU64(); err != nil {
		return nil, err
	}
	if a.CommitMMRRoot, err = c.readBytes32(); err != nil {
		return nil, err
	}
	if a.CommitCount, err = c.readU32(); err != nil {
		return nil, err
	}
	if a.RevealCount, err = c.readU32(); err != nil {
		return nil, err
	}
	if a.XorSeed, err = c.readBytes32(); err != nil {
		return nil, err
	}
	if a.ClearingPrice, err = c.readU128(); err != nil {
		return nil, err
	}
	if a.FillableVolume, err = c.readU128(); err != nil {
		return nil, err
	}
	if a.DifficultyTarget, err = c.readBytes32(); err != nil {
		return nil, err
	}
	if a.PrevStateHash, err = c.readBytes32(); err != nil {
		return nil, err
	}
	if a.PhaseStartBlock, err = c.readU64(); err != nil {
		return nil, err
	}
	if a.PairID, err = c.readBytes32(); err != nil {
		return nil, err
	}
	if err := c.done(); err != nil {
		return nil, err
	}
	return a, nil
}
