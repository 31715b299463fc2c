package types

import (
	"github.com/vibeswap/ckb-core/internal/errs"
	"github.com/vibeswap/ckb-core/pkg/arith"
)

// RevealWitnessBytes is the exact wire size of RevealWitness (spec §3, §6).
const RevealWitnessBytes = 77

// RevealWitness is carried in the transaction's witness section, not a
// cell, and reveals the order sealed by a CommitCell.
type RevealWitness struct {
	OrderType    OrderType
	AmountIn     arith.U128
	LimitPrice   arith.U128
	Secret       [32]byte
	PriorityBid  uint64
	CommitIndex  uint32
}

// Serialize encodes w to its 77-byte little-endian wire form.
func (w *RevealWitness) Serialize() []byte {
	out := newWriter(RevealWitnessBytes)
	out.writeU8(byte(w.OrderType))
	out.writeU128(w.AmountIn)
	out.writeU128(w.LimitPrice)
	out.writeBytes32(w.Secret)
	out.writeU64(w.PriorityBid)
	out.writeU32(w.CommitIndex)
	return out.bytes()
}

// ParseRevealWitness decodes a 77-byte RevealWitness, rejecting any
// order_type outside {BUY, SELL}.
func ParseRevealWitness(b []byte) (*RevealWitness, error) {
	if len(b) != RevealWitnessBytes {
		return nil, errs.Newf(errs.InvalidWitness, "reveal witness: expected %d bytes, got %d", RevealWitnessBytes, len(b))
	}
	c := newCursor(b)
	out := &RevealWitness{}

	ot, err := c.readU8()
	if err != nil {
		return nil, err
	}
	if ot != byte(OrderBuy) && ot != byte(OrderSell) {
		return nil, errs.Newf(errs.InvalidOrderType, "reveal witness: order_type %d", ot)
	}
	out.OrderType = OrderType(ot)

	if out.AmountIn, err = c.readU128(); err != nil {
		return nil, err
	}
	if out.LimitPrice, err = c.readU128(); err != nil {
		return nil, err
	}
	if out.Secret, err = c.readBytes32(); err != nil {
		return nil, err
	}
	if out.PriorityBid, err = c.readU64(); err != nil {
		return nil, err
	}
	if out.CommitIndex, err = c.readU32(); err != nil {
		return nil, err
	}
	if err := c.done(); err != nil {
		return nil, err
	}
	return out, nil
}
