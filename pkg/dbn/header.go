package dbn

import (
	"encoding/binary"
	"fmt"
)

// RecordHeader is the fixed 16-byte preamble of every record. It names the
// record's kind, its total length, and the instrument and event time it
// refers to.
type RecordHeader struct {
	// Length is the total record size, header included, in 4-byte words.
	Length uint8
	// RType tags the record kind and selects the body layout.
	RType RType
	// PublisherID identifies the dataset and venue the record came from.
	PublisherID uint16
	// InstrumentID is the numeric instrument identifier.
	InstrumentID uint32
	// TsEvent is the matching-engine event time in nanoseconds since the
	// UNIX epoch.
	TsEvent uint64
}

// Header returns the header itself. It exists so RecordHeader satisfies
// Record when embedded in a message struct.
func (h RecordHeader) Header() RecordHeader { return h }

// RecordSize returns the total record size in bytes, header included.
func (h RecordHeader) RecordSize() int { return int(h.Length) * LengthMultiplier }

// BodySize returns the size of the body that follows the header.
func (h RecordHeader) BodySize() int { return h.RecordSize() - HeaderSize }

func decodeHeader(b []byte) RecordHeader {
	return RecordHeader{
		Length:       b[0],
		RType:        RType(b[1]),
		PublisherID:  binary.LittleEndian.Uint16(b[2:4]),
		InstrumentID: binary.LittleEndian.Uint32(b[4:8]),
		TsEvent:      binary.LittleEndian.Uint64(b[8:16]),
	}
}

func checkRecordLength(hd RecordHeader) error {
	if hd.RecordSize() < HeaderSize {
		return fmt.Errorf("%w: length %d words (%d bytes) cannot cover the %d-byte header",
			ErrInvalidRecordLength, hd.Length, hd.RecordSize(), HeaderSize)
	}
	return nil
}

// DecodeHeader reads one record header from the cursor and validates its
// length field. If fewer than HeaderSize bytes remain the cursor is left
// where it was and the error wraps ErrTruncated. A length too small to
// cover the header itself fails with ErrInvalidRecordLength after the
// header bytes have been consumed.
func DecodeHeader(cur *Cursor) (RecordHeader, error) {
	b, err := cur.Bytes(HeaderSize)
	if err != nil {
		return RecordHeader{}, err
	}
	hd := decodeHeader(b)
	if err := checkRecordLength(hd); err != nil {
		return hd, err
	}
	return hd, nil
}
