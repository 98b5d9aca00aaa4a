package dbn

import (
	"fmt"
	"io"
)

// Stream decodes records lazily out of an in-memory capture. Nothing past
// the record most recently returned has been examined, so a malformed
// tail is only reported once the caller reaches it.
//
// The zero Stream is not usable; call NewStream.
type Stream struct {
	cur   *Cursor
	rec   Record
	start int
	err   error
	done  bool
}

// NewStream returns a stream positioned before the first record of buf.
// The buffer must hold records only; strip a metadata preamble with
// DecodeMetadata first.
func NewStream(buf []byte) *Stream {
	return &Stream{cur: NewCursor(buf)}
}

// Next advances to the next record. It returns false when the buffer is
// exhausted or the stream fails; Err tells the two apart. Once Next has
// returned false the stream is terminal and every further call returns
// false without reading.
func (s *Stream) Next() bool {
	if s.done {
		return false
	}
	if s.cur.Remaining() == 0 {
		s.done = true
		return false
	}
	s.start = s.cur.Pos()
	hd, err := DecodeHeader(s.cur)
	if err != nil {
		s.fail(fmt.Errorf("record at offset %d: %w", s.start, err))
		return false
	}
	body, err := s.cur.Bytes(hd.BodySize())
	if err != nil {
		s.fail(fmt.Errorf("%s record at offset %d: %w", hd.RType, s.start, err))
		return false
	}
	rec, err := decodeBody(hd, body)
	if err != nil {
		s.fail(fmt.Errorf("record at offset %d: %w", s.start, err))
		return false
	}
	s.rec = rec
	return true
}

func (s *Stream) fail(err error) {
	s.err = err
	s.rec = nil
	s.done = true
}

// Record returns the record decoded by the last successful Next.
func (s *Stream) Record() Record { return s.rec }

// Raw returns the wire bytes of the current record, header included. The
// slice aliases the stream's buffer.
func (s *Stream) Raw() []byte {
	if s.rec == nil {
		return nil
	}
	return s.cur.buf[s.start:s.cur.Pos()]
}

// Offset returns the buffer offset of the current record.
func (s *Stream) Offset() int { return s.start }

// Err returns the error that stopped the stream, or nil if it ended
// cleanly on a record boundary.
func (s *Stream) Err() error { return s.err }

// Decoder decodes records lazily from an io.Reader. It reads exactly one
// record ahead and never buffers the source, so it suits sockets and
// decompressors as well as files.
//
// The zero Decoder is not usable; call NewDecoder.
type Decoder struct {
	r     io.Reader
	buf   []byte
	rec   Record
	raw   []byte
	start int64
	off   int64
	err   error
	done  bool
}

// NewDecoder returns a decoder reading records from r. If the source
// begins with a metadata preamble, strip it with ReadMetadata first.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r, buf: make([]byte, HeaderSize, MaxRecordSize)}
}

// Next advances to the next record. It returns false at the end of the
// source or on failure; Err tells the two apart. A source that ends
// cleanly between records is not an error, one that ends inside a record
// fails with ErrTruncated. Terminal states are sticky.
func (d *Decoder) Next() bool {
	if d.done {
		return false
	}
	d.start = d.off
	hdr := d.buf[:HeaderSize]
	if _, err := io.ReadFull(d.r, hdr); err != nil {
		switch err {
		case io.EOF:
			d.done = true
		case io.ErrUnexpectedEOF:
			d.fail(fmt.Errorf("%w: source ends inside a record header at offset %d", ErrTruncated, d.start))
		default:
			d.fail(fmt.Errorf("read header at offset %d: %w", d.start, err))
		}
		return false
	}
	d.off += HeaderSize
	hd := decodeHeader(hdr)
	if err := checkRecordLength(hd); err != nil {
		d.fail(fmt.Errorf("record at offset %d: %w", d.start, err))
		return false
	}
	raw := d.buf[:hd.RecordSize()]
	body := raw[HeaderSize:]
	if _, err := io.ReadFull(d.r, body); err != nil {
		switch err {
		case io.EOF, io.ErrUnexpectedEOF:
			d.fail(fmt.Errorf("%w: source ends inside a %s record at offset %d", ErrTruncated, hd.RType, d.start))
		default:
			d.fail(fmt.Errorf("read %s record at offset %d: %w", hd.RType, d.start, err))
		}
		return false
	}
	d.off += int64(len(body))
	rec, err := decodeBody(hd, body)
	if err != nil {
		d.fail(fmt.Errorf("record at offset %d: %w", d.start, err))
		return false
	}
	d.rec = rec
	d.raw = raw
	return true
}

func (d *Decoder) fail(err error) {
	d.err = err
	d.rec = nil
	d.raw = nil
	d.done = true
}

// Record returns the record decoded by the last successful Next.
func (d *Decoder) Record() Record { return d.rec }

// Raw returns the wire bytes of the current record, header included. The
// slice is overwritten by the next call to Next; copy it to keep it.
func (d *Decoder) Raw() []byte { return d.raw }

// Offset returns the source offset of the current record.
func (d *Decoder) Offset() int64 { return d.start }

// Err returns the error that stopped the decoder, or nil if the source
// ended cleanly on a record boundary.
func (d *Decoder) Err() error { return d.err }

// DecodeRecord decodes buf as exactly one record. Trailing bytes after
// the record's declared length fail with ErrInvalidRecordLength.
func DecodeRecord(buf []byte) (Record, error) {
	cur := NewCursor(buf)
	hd, err := DecodeHeader(cur)
	if err != nil {
		return nil, err
	}
	body, err := cur.Bytes(hd.BodySize())
	if err != nil {
		return nil, fmt.Errorf("%s record: %w", hd.RType, err)
	}
	if n := cur.Remaining(); n != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after a %d-byte record",
			ErrInvalidRecordLength, n, hd.RecordSize())
	}
	return decodeBody(hd, body)
}
