package dbn

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const (
	// MetadataMagic opens every capture that carries a metadata preamble.
	MetadataMagic = "DBN"

	// MetadataPreludeLen is the size of the magic, version and length
	// prefix in front of the metadata section.
	MetadataPreludeLen = 8

	// MinVersion and MaxVersion bound the capture versions this package
	// reads.
	MinVersion = 1
	MaxVersion = 3

	metadataFixedLen  = 100
	metadataV1CstrLen = 22
)

// Metadata describes the capture that follows it: the dataset and time
// range requested, the symbology used, and how the requested symbols
// resolved.
type Metadata struct {
	Version uint8
	Dataset string
	Schema  Schema
	// Start and End are the requested range in UTC nanoseconds.
	Start uint64
	End   uint64
	Limit uint64
	// RecordCount is declared by version 1 captures only; later versions
	// dropped the field and it reads math.MaxUint64.
	RecordCount uint64
	STypeIn     SType
	STypeOut    SType
	// TsOut reports whether the capture was requested with gateway send
	// timestamps appended to each record.
	TsOut bool
	// SymbolCstrLen is the size of the NUL-padded symbol fields in the
	// sections below.
	SymbolCstrLen int
	Symbols       []string
	Partial       []string
	NotFound      []string
	Mappings      []SymbolMapping
}

// SymbolMapping records how one requested symbol resolved over time.
type SymbolMapping struct {
	RawSymbol string
	Intervals []MappingInterval
}

// MappingInterval is one validity window of a symbol mapping. Dates are
// YYYYMMDD integers.
type MappingInterval struct {
	StartDate uint32
	EndDate   uint32
	Symbol    string
}

// ReadMetadata reads and parses the metadata preamble from r, leaving the
// reader positioned at the first record.
func ReadMetadata(r io.Reader) (*Metadata, error) {
	prelude := make([]byte, MetadataPreludeLen)
	if _, err := io.ReadFull(r, prelude); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: source ends inside the metadata prelude", ErrTruncated)
		}
		return nil, fmt.Errorf("read metadata prelude: %w", err)
	}
	version, length, err := parsePrelude(prelude)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: source ends inside the metadata section", ErrTruncated)
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	return parseMetadata(version, buf)
}

// DecodeMetadata parses the metadata preamble at the start of buf and
// returns it along with the number of bytes it spans; buf[consumed:] is
// the first record.
func DecodeMetadata(buf []byte) (md *Metadata, consumed int, err error) {
	if len(buf) < MetadataPreludeLen {
		return nil, 0, fmt.Errorf("%w: need %d bytes for the metadata prelude, have %d",
			ErrTruncated, MetadataPreludeLen, len(buf))
	}
	version, length, err := parsePrelude(buf[:MetadataPreludeLen])
	if err != nil {
		return nil, 0, err
	}
	consumed = MetadataPreludeLen + int(length)
	if len(buf) < consumed {
		return nil, 0, fmt.Errorf("%w: metadata declares %d bytes, have %d",
			ErrTruncated, consumed, len(buf))
	}
	md, err = parseMetadata(version, buf[MetadataPreludeLen:consumed])
	if err != nil {
		return nil, 0, err
	}
	return md, consumed, nil
}

func parsePrelude(b []byte) (version uint8, length uint32, err error) {
	if string(b[:3]) != MetadataMagic {
		return 0, 0, fmt.Errorf("%w: % X", ErrBadMagic, b[:3])
	}
	version = b[3]
	if version < MinVersion || version > MaxVersion {
		return 0, 0, fmt.Errorf("%w: version %d, this package reads %d through %d",
			ErrUnsupportedVersion, version, MinVersion, MaxVersion)
	}
	length = binary.LittleEndian.Uint32(b[4:])
	if length < metadataFixedLen {
		return 0, 0, fmt.Errorf("%w: declared length %d is shorter than the %d-byte fixed section",
			ErrMalformedMetadata, length, metadataFixedLen)
	}
	return version, length, nil
}

func parseMetadata(version uint8, buf []byte) (*Metadata, error) {
	md := &Metadata{Version: version, RecordCount: math.MaxUint64}

	r := &fieldReader{b: buf[:metadataFixedLen]}
	var dataset [16]byte
	r.chars(dataset[:])
	md.Dataset = CStr(dataset[:])
	md.Schema = Schema(r.u16())
	md.Start = r.u64()
	md.End = r.u64()
	md.Limit = r.u64()
	if version == 1 {
		md.RecordCount = r.u64()
	}
	md.STypeIn = SType(r.u8())
	md.STypeOut = SType(r.u8())
	md.TsOut = r.u8() != 0
	if version == 1 {
		md.SymbolCstrLen = metadataV1CstrLen
	} else {
		md.SymbolCstrLen = int(r.u16())
		if md.SymbolCstrLen == 0 {
			return nil, fmt.Errorf("%w: symbol_cstr_len is zero", ErrMalformedMetadata)
		}
	}

	cur := NewCursor(buf[metadataFixedLen:])
	sdLen, err := cur.U32()
	if err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}
	if sdLen != 0 {
		return nil, fmt.Errorf("%w: unexpected %d-byte schema definition section", ErrMalformedMetadata, sdLen)
	}
	if md.Symbols, err = readSymbolList(cur, md.SymbolCstrLen); err != nil {
		return nil, fmt.Errorf("metadata symbols: %w", err)
	}
	if md.Partial, err = readSymbolList(cur, md.SymbolCstrLen); err != nil {
		return nil, fmt.Errorf("metadata partial symbols: %w", err)
	}
	if md.NotFound, err = readSymbolList(cur, md.SymbolCstrLen); err != nil {
		return nil, fmt.Errorf("metadata unresolved symbols: %w", err)
	}
	if md.Mappings, err = readMappings(cur, md.SymbolCstrLen); err != nil {
		return nil, fmt.Errorf("metadata mappings: %w", err)
	}
	return md, nil
}

// readSymbolList reads a count-prefixed list of NUL-padded symbols. The
// count is checked against the bytes actually present before anything is
// allocated, so a corrupt count cannot balloon memory.
func readSymbolList(cur *Cursor, cstrLen int) ([]string, error) {
	n, err := cur.U32()
	if err != nil {
		return nil, err
	}
	if uint64(n)*uint64(cstrLen) > uint64(cur.Remaining()) {
		return nil, fmt.Errorf("%w: %d symbols of %d bytes each exceed the %d bytes present",
			ErrMalformedMetadata, n, cstrLen, cur.Remaining())
	}
	syms := make([]string, 0, n)
	for i := uint32(0); i < n; i++ {
		b, err := cur.Bytes(cstrLen)
		if err != nil {
			return nil, err
		}
		syms = append(syms, CStr(b))
	}
	return syms, nil
}

func readMappings(cur *Cursor, cstrLen int) ([]SymbolMapping, error) {
	n, err := cur.U32()
	if err != nil {
		return nil, err
	}
	// Each mapping is at least a raw symbol and an interval count.
	if uint64(n)*uint64(cstrLen+4) > uint64(cur.Remaining()) {
		return nil, fmt.Errorf("%w: %d mappings exceed the %d bytes present",
			ErrMalformedMetadata, n, cur.Remaining())
	}
	mappings := make([]SymbolMapping, 0, n)
	for i := uint32(0); i < n; i++ {
		raw, err := cur.Bytes(cstrLen)
		if err != nil {
			return nil, err
		}
		m := SymbolMapping{RawSymbol: CStr(raw)}
		ic, err := cur.U32()
		if err != nil {
			return nil, err
		}
		if uint64(ic)*uint64(cstrLen+8) > uint64(cur.Remaining()) {
			return nil, fmt.Errorf("%w: %d intervals exceed the %d bytes present",
				ErrMalformedMetadata, ic, cur.Remaining())
		}
		m.Intervals = make([]MappingInterval, 0, ic)
		for j := uint32(0); j < ic; j++ {
			var iv MappingInterval
			if iv.StartDate, err = cur.U32(); err != nil {
				return nil, err
			}
			if iv.EndDate, err = cur.U32(); err != nil {
				return nil, err
			}
			sym, err := cur.Bytes(cstrLen)
			if err != nil {
				return nil, err
			}
			iv.Symbol = CStr(sym)
			m.Intervals = append(m.Intervals, iv)
		}
		mappings = append(mappings, m)
	}
	return mappings, nil
}
