// Package wiretest builds little-endian record images for tests. It
// carries its own tiny writer instead of leaning on the packages under
// test, so a broken encoder or decoder cannot mask itself.
package wiretest

import (
	"encoding/binary"
	"fmt"
)

// Builder accumulates a byte image field by field. All multi-byte fields
// are little-endian.
type Builder struct {
	buf []byte
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) U8(v uint8)   { b.buf = append(b.buf, v) }
func (b *Builder) I8(v int8)    { b.U8(uint8(v)) }
func (b *Builder) U16(v uint16) { b.buf = binary.LittleEndian.AppendUint16(b.buf, v) }
func (b *Builder) I16(v int16)  { b.U16(uint16(v)) }
func (b *Builder) U32(v uint32) { b.buf = binary.LittleEndian.AppendUint32(b.buf, v) }
func (b *Builder) I32(v int32)  { b.U32(uint32(v)) }
func (b *Builder) U64(v uint64) { b.buf = binary.LittleEndian.AppendUint64(b.buf, v) }
func (b *Builder) I64(v int64)  { b.U64(uint64(v)) }

// Str writes s into a NUL-padded field of n bytes.
func (b *Builder) Str(s string, n int) {
	if len(s) > n {
		panic(fmt.Sprintf("wiretest: %q does not fit a %d-byte field", s, n))
	}
	f := make([]byte, n)
	copy(f, s)
	b.buf = append(b.buf, f...)
}

// Pad writes n zero bytes.
func (b *Builder) Pad(n int) { b.buf = append(b.buf, make([]byte, n)...) }

// Append writes raw bytes as-is.
func (b *Builder) Append(raw []byte) { b.buf = append(b.buf, raw...) }

// Bytes returns the image built so far.
func (b *Builder) Bytes() []byte { return b.buf }

// Len returns the number of bytes built so far.
func (b *Builder) Len() int { return len(b.buf) }

// Header writes a 16-byte record header. totalSize is the full record
// size in bytes, header included, and must be a multiple of 4 encodable
// in the length byte.
func (b *Builder) Header(rtype uint8, totalSize int, publisher uint16, instrument uint32, tsEvent uint64) {
	if totalSize%4 != 0 || totalSize < 0 || totalSize/4 > 255 {
		panic(fmt.Sprintf("wiretest: record size %d is not encodable", totalSize))
	}
	b.U8(uint8(totalSize / 4))
	b.U8(rtype)
	b.U16(publisher)
	b.U32(instrument)
	b.U64(tsEvent)
}

// Trade returns a complete 48-byte trade record: price 1234.5, size 7,
// aggressor side ask, last-in-event flag set, sequence 100.
func Trade(instrument uint32, tsEvent uint64) []byte {
	b := NewBuilder()
	b.Header(0x00, 48, 1, instrument, tsEvent)
	b.I64(1_234_500_000_000)
	b.U32(7)
	b.U8('T')
	b.U8('A')
	b.U8(0x80)
	b.U8(0)
	b.U64(tsEvent + 1_000)
	b.I32(500)
	b.U32(100)
	return b.Bytes()
}

// Mbo returns a complete 56-byte market-by-order record: order 0xCAFE
// added on the bid at 1234.0 for 5, sequence 101.
func Mbo(instrument uint32, tsEvent uint64) []byte {
	b := NewBuilder()
	b.Header(0xA0, 56, 1, instrument, tsEvent)
	b.U64(0xCAFE)
	b.I64(1_234_000_000_000)
	b.U32(5)
	b.U8(0x80)
	b.U8(0)
	b.U8('A')
	b.U8('B')
	b.U64(tsEvent + 800)
	b.I32(250)
	b.U32(101)
	return b.Bytes()
}

// Unknown returns a record with an unrecognized kind tag and a zeroed
// body of bodyLen bytes. bodyLen+16 must be a multiple of 4.
func Unknown(rtype uint8, instrument uint32, bodyLen int) []byte {
	b := NewBuilder()
	b.Header(rtype, 16+bodyLen, 99, instrument, 1)
	b.Pad(bodyLen)
	return b.Bytes()
}

// Stream concatenates record images into one capture buffer.
func Stream(records ...[]byte) []byte {
	var buf []byte
	for _, r := range records {
		buf = append(buf, r...)
	}
	return buf
}
