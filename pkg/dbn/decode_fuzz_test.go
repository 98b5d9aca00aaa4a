//go:build fuzz
// +build fuzz

package dbn

import (
	"testing"

	"github.com/ssargent/tickwire/pkg/internal/wiretest"
)

// FuzzStream feeds arbitrary bytes through the stream driver. Whatever the
// input, the driver must terminate without panicking: malformed input is
// reported as an error value, never as a crash.
func FuzzStream(f *testing.F) {
	f.Add([]byte{})
	f.Add(wiretest.Trade(42, 1))
	f.Add(wiretest.Stream(wiretest.Trade(1, 1), wiretest.Unknown(0x5A, 1, 40)))
	f.Add(wiretest.Trade(42, 1)[:HeaderSize-1])
	f.Add(wiretest.Unknown(0x13, 7, 384)) // instrument-def, legacy body size
	f.Add(wiretest.Unknown(0x13, 7, 100)) // instrument-def, unknown body size

	f.Fuzz(func(t *testing.T, data []byte) {
		s := NewStream(data)
		records := 0
		for s.Next() {
			if s.Record() == nil {
				t.Fatal("Next returned true with a nil record")
			}
			records++
			if records > len(data) {
				t.Fatal("stream produced more records than input bytes")
			}
		}
		// Exhaustion and failure are both legal; half-decoded state is not.
		if s.Err() == nil && s.cur.Remaining() != 0 {
			t.Fatalf("clean exhaustion with %d bytes unread", s.cur.Remaining())
		}
	})
}

// FuzzDecodeMetadata does the same for the metadata preamble parser.
func FuzzDecodeMetadata(f *testing.F) {
	f.Add([]byte("DBN"))
	f.Add([]byte{'D', 'B', 'N', 2, 100, 0, 0, 0})

	f.Fuzz(func(t *testing.T, data []byte) {
		md, consumed, err := DecodeMetadata(data)
		if err != nil {
			return
		}
		if md == nil {
			t.Fatal("nil metadata with a nil error")
		}
		if consumed < MetadataPreludeLen || consumed > len(data) {
			t.Fatalf("consumed %d of %d bytes", consumed, len(data))
		}
	})
}
