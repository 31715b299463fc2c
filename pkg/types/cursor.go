// Package types implements the fixed little-endian wire codecs for every
// cell payload and witness in the data model (spec §3, §6): AuctionCell,
// CommitCell, RevealWitness, PoolCell, LPPositionCell, ComplianceCell,
// ConfigCell, OracleCell and PoWLockArgs. Field order and byte widths are
// the wire format; they must never change. The reader/writer pair below
// is grounded on the teacher's consensus/wire.go cursor, extended with
// 128-bit and 32-byte fixed-array primitives this format needs that the
// teacher's transaction format did not.
package types

import (
	"encoding/binary"
	"fmt"

	"github.com/vibeswap/ckb-core/internal/errs"
	"github.com/vibeswap/ckb-core/pkg/arith"
)

type cursor struct {
	b   []byte
	pos int
}

func newCursor(b []byte) *cursor {
	return &cursor{b: b}
}

func (c *cursor) remaining() int {
	if c.pos >= len(c.b) {
		return 0
	}
	return len(c.b) - c.pos
}

func (c *cursor) readExact(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, errs.New(errs.InvalidCellData, "truncated")
	}
	start := c.pos
	c.pos += n
	return c.b[start:c.pos], nil
}

func (c *cursor) readU8() (byte, error) {
	b, err := c.readExact(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) readU16() (uint16, error) {
	b, err := c.readExact(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) readU32() (uint32, error) {
	b, err := c.readExact(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) readU64() (uint64, error) {
	b, err := c.readExact(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// readU128 reads a 16-byte little-endian value: the low 8 bytes first,
// then the high 8 bytes.
func (c *cursor) readU128() (arith.U128, error) {
	lo, err := c.readU64()
	if err != nil {
		return arith.U128{}, err
	}
	hi, err := c.readU64()
	if err != nil {
		return arith.U128{}, err
	}
	return arith.U128{Lo: lo, Hi: hi}, nil
}

func (c *cursor) readBytes32() ([32]byte, error) {
	var out [32]byte
	b, err := c.readExact(32)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

func (c *cursor) readBytesN(n int) ([]byte, error) {
	b, err := c.readExact(n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

func (c *cursor) done() error {
	if c.remaining() != 0 {
		return errs.Newf(errs.InvalidCellData, "trailing bytes: %d remaining", c.remaining())
	}
	return nil
}

// writer accumulates a fixed-layout payload.
type writer struct {
	buf []byte
}

func newWriter(capacity int) *writer {
	return &writer{buf: make([]byte, 0, capacity)}
}

func (w *writer) writeU8(v byte) {
	w.buf = append(w.buf, v)
}

func (w *writer) writeU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) writeU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) writeU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) writeU128(v arith.U128) {
	w.writeU64(v.Lo)
	w.writeU64(v.Hi)
}

func (w *writer) writeBytes32(v [32]byte) {
	w.buf = append(w.buf, v[:]...)
}

func (w *writer) writeBytesN(v []byte, n int) error {
	if len(v) != n {
		return fmt.Errorf("types: expected %d bytes, got %d", n, len(v))
	}
	w.buf = append(w.buf, v...)
	return nil
}

func (w *writer) bytes() []byte {
	return w.buf
}
