package dbn

import (
	"errors"
	"testing"

	"github.com/ssargent/tickwire/pkg/internal/wiretest"
)

func TestCursorReads(t *testing.T) {
	b := wiretest.NewBuilder()
	b.U8(0x7F)
	b.I8(-2)
	b.U16(0xBEEF)
	b.I16(-300)
	b.U32(0xDEADBEEF)
	b.I32(-70000)
	b.U64(0x1122334455667788)
	b.I64(-5_000_000_000)

	cur := NewCursor(b.Bytes())

	if v, err := cur.U8(); err != nil || v != 0x7F {
		t.Fatalf("U8: got %d, %v; want 127, nil", v, err)
	}
	if v, err := cur.I8(); err != nil || v != -2 {
		t.Fatalf("I8: got %d, %v; want -2, nil", v, err)
	}
	if v, err := cur.U16(); err != nil || v != 0xBEEF {
		t.Fatalf("U16: got %#x, %v; want 0xbeef, nil", v, err)
	}
	if v, err := cur.I16(); err != nil || v != -300 {
		t.Fatalf("I16: got %d, %v; want -300, nil", v, err)
	}
	if v, err := cur.U32(); err != nil || v != 0xDEADBEEF {
		t.Fatalf("U32: got %#x, %v; want 0xdeadbeef, nil", v, err)
	}
	if v, err := cur.I32(); err != nil || v != -70000 {
		t.Fatalf("I32: got %d, %v; want -70000, nil", v, err)
	}
	if v, err := cur.U64(); err != nil || v != 0x1122334455667788 {
		t.Fatalf("U64: got %#x, %v; want 0x1122334455667788, nil", v, err)
	}
	if v, err := cur.I64(); err != nil || v != -5_000_000_000 {
		t.Fatalf("I64: got %d, %v; want -5000000000, nil", v, err)
	}

	if cur.Remaining() != 0 {
		t.Errorf("Remaining after reading everything: got %d, want 0", cur.Remaining())
	}
	if cur.Pos() != len(b.Bytes()) {
		t.Errorf("Pos: got %d, want %d", cur.Pos(), len(b.Bytes()))
	}
}

func TestCursorTruncatedReadDoesNotAdvance(t *testing.T) {
	cur := NewCursor([]byte{0x01, 0x02, 0x03})

	// A four-byte read over a three-byte buffer must fail cleanly.
	if _, err := cur.U32(); !errors.Is(err, ErrTruncated) {
		t.Fatalf("U32 over short buffer: got %v, want ErrTruncated", err)
	}
	if cur.Pos() != 0 {
		t.Fatalf("failed read moved the cursor to %d", cur.Pos())
	}

	// The same bytes are still readable at a smaller width.
	if v, err := cur.U16(); err != nil || v != 0x0201 {
		t.Fatalf("U16 after failed U32: got %#x, %v; want 0x0201, nil", v, err)
	}
	if _, err := cur.Bytes(2); !errors.Is(err, ErrTruncated) {
		t.Fatalf("Bytes(2) with one byte left: got %v, want ErrTruncated", err)
	}
	if v, err := cur.U8(); err != nil || v != 0x03 {
		t.Fatalf("U8 after failed Bytes: got %#x, %v; want 0x03, nil", v, err)
	}
}

func TestCursorBytesAliasesBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	cur := NewCursor(buf)

	window, err := cur.Bytes(3)
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}

	// The window is a view, not a copy.
	buf[1] = 99
	if window[1] != 99 {
		t.Errorf("Bytes returned a copy; writes to the buffer are not visible")
	}
	if cur.Pos() != 3 || cur.Remaining() != 2 {
		t.Errorf("position after Bytes(3): got pos=%d rem=%d, want 3, 2", cur.Pos(), cur.Remaining())
	}
}

func TestCursorSkip(t *testing.T) {
	cur := NewCursor(make([]byte, 10))

	if err := cur.Skip(6); err != nil {
		t.Fatalf("Skip(6) failed: %v", err)
	}
	if err := cur.Skip(5); !errors.Is(err, ErrTruncated) {
		t.Fatalf("Skip past end: got %v, want ErrTruncated", err)
	}
	if cur.Pos() != 6 {
		t.Fatalf("failed Skip moved the cursor to %d", cur.Pos())
	}
	if err := cur.Skip(4); err != nil {
		t.Fatalf("Skip to exact end failed: %v", err)
	}
}
