package dbn

import (
	"encoding/binary"
	"fmt"
)

// Cursor walks a byte buffer of decoded records. Every read is bounds
// checked; a read past the end fails with an error wrapping ErrTruncated
// and leaves the position unchanged, so a caller can retry once more
// bytes are available.
//
// A Cursor never copies: Bytes returns a window into the underlying
// buffer.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a cursor positioned at the start of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the number of bytes consumed so far.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of bytes left to read.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

func (c *Cursor) need(n int) error {
	if rem := len(c.buf) - c.pos; rem < n {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, c.pos, rem)
	}
	return nil
}

// Bytes consumes and returns the next n bytes. The returned slice aliases
// the cursor's buffer and stays valid as long as the buffer does.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Skip advances past n bytes without returning them.
func (c *Cursor) Skip(n int) error {
	if err := c.need(n); err != nil {
		return err
	}
	c.pos += n
	return nil
}

// U8 consumes one byte.
func (c *Cursor) U8() (uint8, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	v := c.buf[c.pos]
	c.pos++
	return v, nil
}

// U16 consumes a little-endian uint16.
func (c *Cursor) U16() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.buf[c.pos:])
	c.pos += 2
	return v, nil
}

// U32 consumes a little-endian uint32.
func (c *Cursor) U32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v, nil
}

// U64 consumes a little-endian uint64.
func (c *Cursor) U64() (uint64, error) {
	if err := c.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(c.buf[c.pos:])
	c.pos += 8
	return v, nil
}

// I8 consumes one byte as a signed integer.
func (c *Cursor) I8() (int8, error) {
	v, err := c.U8()
	return int8(v), err
}

// I16 consumes a little-endian int16.
func (c *Cursor) I16() (int16, error) {
	v, err := c.U16()
	return int16(v), err
}

// I32 consumes a little-endian int32.
func (c *Cursor) I32() (int32, error) {
	v, err := c.U32()
	return int32(v), err
}

// I64 consumes a little-endian int64.
func (c *Cursor) I64() (int64, error) {
	v, err := c.U64()
	return int64(v), err
}

// fieldReader reads fields out of a record body whose length has already
// been checked against the layout it is decoded with. Reads are therefore
// infallible; the dispatcher compares the final offset against the layout
// size to catch decoder bugs.
type fieldReader struct {
	b   []byte
	off int
}

func (r *fieldReader) u8() uint8 {
	v := r.b[r.off]
	r.off++
	return v
}

func (r *fieldReader) i8() int8 { return int8(r.u8()) }

func (r *fieldReader) u16() uint16 {
	v := binary.LittleEndian.Uint16(r.b[r.off:])
	r.off += 2
	return v
}

func (r *fieldReader) i16() int16 { return int16(r.u16()) }

func (r *fieldReader) u32() uint32 {
	v := binary.LittleEndian.Uint32(r.b[r.off:])
	r.off += 4
	return v
}

func (r *fieldReader) i32() int32 { return int32(r.u32()) }

func (r *fieldReader) u64() uint64 {
	v := binary.LittleEndian.Uint64(r.b[r.off:])
	r.off += 8
	return v
}

func (r *fieldReader) i64() int64 { return int64(r.u64()) }

func (r *fieldReader) skip(n int) {
	_ = r.b[r.off : r.off+n]
	r.off += n
}

// chars copies len(dst) bytes into dst. Fixed-size character fields are
// copied rather than aliased so records outlive the buffer they were
// decoded from.
func (r *fieldReader) chars(dst []byte) {
	r.off += copy(dst, r.b[r.off:r.off+len(dst)])
}
