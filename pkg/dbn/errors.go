package dbn

import "errors"

// Sentinel errors. Failure sites wrap these with fmt.Errorf("%w", ...) to
// add offset and kind context; match them with errors.Is.
var (
	// ErrTruncated reports a source that ended before a full header,
	// body, or metadata section could be read.
	ErrTruncated = errors.New("dbn: truncated input")

	// ErrInvalidRecordLength reports a header whose declared length
	// cannot cover the header itself, or a one-shot decode whose buffer
	// does not match the declared length.
	ErrInvalidRecordLength = errors.New("dbn: invalid record length")

	// ErrUnknownLayoutVersion reports an instrument definition whose
	// body size matches no known layout generation.
	ErrUnknownLayoutVersion = errors.New("dbn: unknown instrument definition layout")

	// ErrDecoderOverrun reports a record whose declared body is smaller
	// than the fixed layout of its kind.
	ErrDecoderOverrun = errors.New("dbn: decoder overrun")

	// ErrDecoderUnderrun reports a decoder that consumed fewer bytes
	// than its layout declares. It indicates a bug, not bad input.
	ErrDecoderUnderrun = errors.New("dbn: decoder underrun")

	// ErrBadMagic reports a metadata preamble that does not open with
	// the DBN magic bytes.
	ErrBadMagic = errors.New("dbn: bad magic")

	// ErrUnsupportedVersion reports a container version outside the
	// range this package decodes.
	ErrUnsupportedVersion = errors.New("dbn: unsupported container version")

	// ErrMalformedMetadata reports a structurally invalid metadata
	// preamble.
	ErrMalformedMetadata = errors.New("dbn: malformed metadata")
)
