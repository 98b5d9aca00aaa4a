//go:build bench
// +build bench

package dbn

import (
	"bytes"
	"testing"

	"github.com/ssargent/tickwire/pkg/internal/wiretest"
)

func benchStream(n int) []byte {
	trade := wiretest.Trade(42, 1_700_000_000_000_000_000)
	mbo := wiretest.Mbo(42, 1_700_000_000_000_000_100)
	var buf []byte
	for i := 0; i < n; i++ {
		buf = append(buf, trade...)
		buf = append(buf, mbo...)
	}
	return buf
}

func BenchmarkStream_Next(b *testing.B) {
	buf := benchStream(1024)
	b.SetBytes(int64(len(buf)))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		s := NewStream(buf)
		for s.Next() {
		}
		if s.Err() != nil {
			b.Fatal(s.Err())
		}
	}
}

func BenchmarkDecoder_Next(b *testing.B) {
	buf := benchStream(1024)
	b.SetBytes(int64(len(buf)))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		d := NewDecoder(bytes.NewReader(buf))
		for d.Next() {
		}
		if d.Err() != nil {
			b.Fatal(d.Err())
		}
	}
}

func BenchmarkDecodeRecord(b *testing.B) {
	benchmarks := []struct {
		name string
		buf  []byte
	}{
		{"trade", wiretest.Trade(42, 1)},
		{"mbo", wiretest.Mbo(42, 1)},
		{"unknown", wiretest.Unknown(0x5A, 42, 40)},
	}
	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := DecodeRecord(bm.buf); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
