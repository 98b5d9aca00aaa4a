package dbn

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/ssargent/tickwire/pkg/internal/wiretest"
)

// buildMetadata assembles a version-2+ metadata image: prelude, 100-byte
// fixed section, then the variable section handed in raw.
func buildMetadata(version uint8, cstrLen int, variable []byte) []byte {
	fixed := wiretest.NewBuilder()
	fixed.Str("GLBX.MDP3", 16)
	fixed.U16(uint16(SchemaTrades))
	fixed.U64(1_700_000_000_000_000_000) // start
	fixed.U64(1_700_086_400_000_000_000) // end
	fixed.U64(0)                         // limit
	fixed.U8(uint8(STypeRawSymbol))
	fixed.U8(uint8(STypeInstrumentID))
	fixed.U8(0) // ts_out
	fixed.U16(uint16(cstrLen))
	fixed.Pad(metadataFixedLen - fixed.Len())

	b := wiretest.NewBuilder()
	b.Append([]byte(MetadataMagic))
	b.U8(version)
	b.U32(uint32(metadataFixedLen + len(variable)))
	b.Append(fixed.Bytes())
	b.Append(variable)
	return b.Bytes()
}

// emptyVariable is a variable section with no symbols and no mappings.
func emptyVariable() []byte {
	b := wiretest.NewBuilder()
	b.U32(0) // schema definition length
	b.U32(0) // symbols
	b.U32(0) // partial
	b.U32(0) // not found
	b.U32(0) // mappings
	return b.Bytes()
}

func TestDecodeMetadata(t *testing.T) {
	v := wiretest.NewBuilder()
	v.U32(0) // schema definition length
	v.U32(2) // symbols
	v.Str("ESH4", 8)
	v.Str("ESM4", 8)
	v.U32(1) // partial
	v.Str("NQH4", 8)
	v.U32(0) // not found
	v.U32(1) // mappings
	v.Str("ES.c.0", 8)
	v.U32(2) // intervals
	v.U32(20240101)
	v.U32(20240315)
	v.Str("ESH4", 8)
	v.U32(20240315)
	v.U32(20240621)
	v.Str("ESM4", 8)

	buf := buildMetadata(2, 8, v.Bytes())
	trailer := wiretest.Trade(42, 1)
	md, consumed, err := DecodeMetadata(append(buf, trailer...))
	if err != nil {
		t.Fatalf("DecodeMetadata failed: %v", err)
	}
	if consumed != len(buf) {
		t.Errorf("consumed: got %d, want %d", consumed, len(buf))
	}
	if md.Version != 2 || md.Dataset != "GLBX.MDP3" || md.Schema != SchemaTrades {
		t.Errorf("fixed fields: got version=%d dataset=%q schema=%s", md.Version, md.Dataset, md.Schema)
	}
	if md.Start != 1_700_000_000_000_000_000 || md.End != 1_700_086_400_000_000_000 {
		t.Errorf("range: got start=%d end=%d", md.Start, md.End)
	}
	if md.STypeIn != STypeRawSymbol || md.STypeOut != STypeInstrumentID || md.TsOut {
		t.Errorf("symbology: got in=%s out=%s ts_out=%v", md.STypeIn, md.STypeOut, md.TsOut)
	}
	if md.RecordCount != math.MaxUint64 {
		t.Errorf("RecordCount: got %d, want the undefined sentinel", md.RecordCount)
	}
	if md.SymbolCstrLen != 8 {
		t.Errorf("SymbolCstrLen: got %d, want 8", md.SymbolCstrLen)
	}

	wantSymbols := []string{"ESH4", "ESM4"}
	if len(md.Symbols) != 2 || md.Symbols[0] != wantSymbols[0] || md.Symbols[1] != wantSymbols[1] {
		t.Errorf("Symbols: got %v, want %v", md.Symbols, wantSymbols)
	}
	if len(md.Partial) != 1 || md.Partial[0] != "NQH4" {
		t.Errorf("Partial: got %v", md.Partial)
	}
	if len(md.NotFound) != 0 {
		t.Errorf("NotFound: got %v", md.NotFound)
	}
	if len(md.Mappings) != 1 {
		t.Fatalf("Mappings: got %d, want 1", len(md.Mappings))
	}
	m := md.Mappings[0]
	if m.RawSymbol != "ES.c.0" || len(m.Intervals) != 2 {
		t.Fatalf("mapping: got raw=%q intervals=%d", m.RawSymbol, len(m.Intervals))
	}
	if iv := m.Intervals[1]; iv.StartDate != 20240315 || iv.EndDate != 20240621 || iv.Symbol != "ESM4" {
		t.Errorf("interval: got %+v", iv)
	}
}

func TestDecodeMetadataV1(t *testing.T) {
	// Version 1 carries a record count and a fixed 22-byte symbol width;
	// the fixed section layout shifts accordingly.
	fixed := wiretest.NewBuilder()
	fixed.Str("XNAS.ITCH", 16)
	fixed.U16(uint16(SchemaMbo))
	fixed.U64(10)
	fixed.U64(20)
	fixed.U64(0)
	fixed.U64(12345) // record count, v1 only
	fixed.U8(uint8(STypeRawSymbol))
	fixed.U8(uint8(STypeInstrumentID))
	fixed.U8(1) // ts_out
	fixed.Pad(metadataFixedLen - fixed.Len())

	v := wiretest.NewBuilder()
	v.U32(0)
	v.U32(1)
	v.Str("AAPL", metadataV1CstrLen)
	v.U32(0)
	v.U32(0)
	v.U32(0)

	b := wiretest.NewBuilder()
	b.Append([]byte(MetadataMagic))
	b.U8(1)
	b.U32(uint32(metadataFixedLen + v.Len()))
	b.Append(fixed.Bytes())
	b.Append(v.Bytes())

	md, _, err := DecodeMetadata(b.Bytes())
	if err != nil {
		t.Fatalf("DecodeMetadata failed: %v", err)
	}
	if md.RecordCount != 12345 {
		t.Errorf("RecordCount: got %d, want 12345", md.RecordCount)
	}
	if md.SymbolCstrLen != metadataV1CstrLen {
		t.Errorf("SymbolCstrLen: got %d, want %d", md.SymbolCstrLen, metadataV1CstrLen)
	}
	if !md.TsOut {
		t.Error("TsOut should be set")
	}
	if len(md.Symbols) != 1 || md.Symbols[0] != "AAPL" {
		t.Errorf("Symbols: got %v", md.Symbols)
	}
}

func TestDecodeMetadataErrors(t *testing.T) {
	valid := buildMetadata(2, 8, emptyVariable())

	t.Run("bad magic", func(t *testing.T) {
		buf := append([]byte(nil), valid...)
		copy(buf, "XXX")
		if _, _, err := DecodeMetadata(buf); !errors.Is(err, ErrBadMagic) {
			t.Errorf("got %v, want ErrBadMagic", err)
		}
	})

	t.Run("unsupported version", func(t *testing.T) {
		for _, version := range []uint8{0, MaxVersion + 1} {
			buf := append([]byte(nil), valid...)
			buf[3] = version
			if _, _, err := DecodeMetadata(buf); !errors.Is(err, ErrUnsupportedVersion) {
				t.Errorf("version %d: got %v, want ErrUnsupportedVersion", version, err)
			}
		}
	})

	t.Run("declared length below fixed section", func(t *testing.T) {
		b := wiretest.NewBuilder()
		b.Append([]byte(MetadataMagic))
		b.U8(2)
		b.U32(metadataFixedLen - 1)
		b.Pad(metadataFixedLen - 1)
		if _, _, err := DecodeMetadata(b.Bytes()); !errors.Is(err, ErrMalformedMetadata) {
			t.Errorf("got %v, want ErrMalformedMetadata", err)
		}
	})

	t.Run("zero symbol width", func(t *testing.T) {
		buf := buildMetadata(3, 0, emptyVariable())
		if _, _, err := DecodeMetadata(buf); !errors.Is(err, ErrMalformedMetadata) {
			t.Errorf("got %v, want ErrMalformedMetadata", err)
		}
	})

	t.Run("unexpected schema definition section", func(t *testing.T) {
		v := wiretest.NewBuilder()
		v.U32(32) // the section was never shipped; a nonzero length is corruption
		v.Pad(32)
		v.U32(0)
		v.U32(0)
		v.U32(0)
		v.U32(0)
		buf := buildMetadata(2, 8, v.Bytes())
		if _, _, err := DecodeMetadata(buf); !errors.Is(err, ErrMalformedMetadata) {
			t.Errorf("got %v, want ErrMalformedMetadata", err)
		}
	})

	t.Run("symbol count past the section end", func(t *testing.T) {
		v := wiretest.NewBuilder()
		v.U32(0)
		v.U32(1 << 30) // claims far more symbols than bytes present
		buf := buildMetadata(2, 8, v.Bytes())
		if _, _, err := DecodeMetadata(buf); !errors.Is(err, ErrMalformedMetadata) {
			t.Errorf("got %v, want ErrMalformedMetadata", err)
		}
	})

	t.Run("truncated prelude", func(t *testing.T) {
		if _, _, err := DecodeMetadata(valid[:MetadataPreludeLen-2]); !errors.Is(err, ErrTruncated) {
			t.Errorf("got %v, want ErrTruncated", err)
		}
	})

	t.Run("truncated section", func(t *testing.T) {
		if _, _, err := DecodeMetadata(valid[:len(valid)-4]); !errors.Is(err, ErrTruncated) {
			t.Errorf("got %v, want ErrTruncated", err)
		}
	})
}

func TestReadMetadata(t *testing.T) {
	buf := buildMetadata(2, 8, emptyVariable())
	trade := wiretest.Trade(42, 1)
	r := bytes.NewReader(wiretest.Stream(buf, trade))

	md, err := ReadMetadata(r)
	if err != nil {
		t.Fatalf("ReadMetadata failed: %v", err)
	}
	if md.Dataset != "GLBX.MDP3" {
		t.Errorf("Dataset: got %q", md.Dataset)
	}

	// The reader is left at the first record.
	d := NewDecoder(r)
	if !d.Next() {
		t.Fatalf("decoding after the preamble failed: %v", d.Err())
	}
	if _, ok := d.Record().(*TradeMsg); !ok {
		t.Errorf("got %T, want *TradeMsg", d.Record())
	}

	t.Run("truncated source", func(t *testing.T) {
		_, err := ReadMetadata(bytes.NewReader(buf[:len(buf)-10]))
		if !errors.Is(err, ErrTruncated) {
			t.Errorf("got %v, want ErrTruncated", err)
		}
	})
}
