// Package dbn decodes Databento Binary Encoding (DBN) market data.
//
// A DBN capture is an optional metadata preamble followed by a dense
// sequence of self-delimiting records. Decoding is lazy: callers pull one
// record at a time through Stream (in-memory buffers) or Decoder
// (io.Reader sources), and nothing past the current record is touched.
//
// # Record format
//
// Every record begins with a fixed 16-byte header:
//
//	offset  size  field
//	0       1     length         total record size in 4-byte words
//	1       1     rtype          kind tag, see the RType constants
//	2       2     publisher_id
//	4       4     instrument_id
//	8       8     ts_event       UTC nanoseconds since the epoch
//
// All integers are little-endian. The body spans length*4-16 bytes and its
// layout is fixed per kind; bytes past a kind's fixed layout are reserved
// padding. Prices are int64 with nine implied decimal places
// (FixedPriceScale); this package never converts them to floating point.
//
// Records with a tag this package does not recognize are not errors: the
// stream skips their declared length and yields a SkippedRecord marker, so
// captures from newer producers keep decoding.
//
// Instrument definitions are the one kind with two wire generations. The
// generation is resolved by exact body size alone: 384 bytes for the
// legacy layout, 504 for the current one. Both decode into
// InstrumentDefMsg. Any other body size fails with
// ErrUnknownLayoutVersion.
//
// # Usage
//
//	s := dbn.NewStream(buf)
//	for s.Next() {
//		switch rec := s.Record().(type) {
//		case *dbn.TradeMsg:
//			// ...
//		case *dbn.SkippedRecord:
//			// unknown kind, already skipped
//		}
//	}
//	if err := s.Err(); err != nil {
//		// stream stopped before a clean end
//	}
//
// A nil Err after Next returns false means the source ended exactly on a
// record boundary. Terminal states are sticky: further Next calls return
// false without reading.
//
// # Errors
//
// Failures wrap the sentinel errors in this package (ErrTruncated,
// ErrInvalidRecordLength, ErrUnknownLayoutVersion, ErrDecoderOverrun,
// ErrDecoderUnderrun, and the metadata sentinels) with offset and kind
// context; classify them with errors.Is.
//
// # Concurrency
//
// Streams, decoders, and cursors are single-goroutine objects. Decode
// independent captures on independent streams to parallelize; decoded
// records are plain values and safe to share once returned.
package dbn
