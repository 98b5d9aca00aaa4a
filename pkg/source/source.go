// Package source resolves capture paths into byte streams. Compressed
// captures are decompressed transparently, so the decoding core only ever
// sees plain record bytes.
package source

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic opens every zstandard frame, little-endian 0xFD2FB528.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// Open returns a reader over the decompressed contents of path. Zstandard
// captures are detected by their frame magic, not the file name, so a
// renamed .zst file still opens correctly.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(f)
	magic, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		f.Close()
		return nil, fmt.Errorf("sniff %s: %w", path, err)
	}
	if !isZstd(magic) {
		return &readCloser{r: br, c: f}, nil
	}
	dec, err := zstd.NewReader(br)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open zstd stream %s: %w", path, err)
	}
	return &zstdCloser{Decoder: dec, file: f}, nil
}

// ReadFile returns the decompressed contents of path.
func ReadFile(path string) ([]byte, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	buf, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return buf, nil
}

func isZstd(magic []byte) bool {
	if len(magic) < len(zstdMagic) {
		return false
	}
	for i, b := range zstdMagic {
		if magic[i] != b {
			return false
		}
	}
	return true
}

type readCloser struct {
	r io.Reader
	c io.Closer
}

func (rc *readCloser) Read(p []byte) (int, error) { return rc.r.Read(p) }
func (rc *readCloser) Close() error               { return rc.c.Close() }

type zstdCloser struct {
	*zstd.Decoder
	file *os.File
}

func (z *zstdCloser) Close() error {
	z.Decoder.Close()
	return z.file.Close()
}
