package cmd

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tradeRecord encodes one 48-byte trade record.
func tradeRecord(instrument uint32, tsEvent uint64) []byte {
	buf := make([]byte, 0, 48)
	buf = append(buf, 48/4, 0x00)
	buf = binary.LittleEndian.AppendUint16(buf, 1)
	buf = binary.LittleEndian.AppendUint32(buf, instrument)
	buf = binary.LittleEndian.AppendUint64(buf, tsEvent)
	buf = binary.LittleEndian.AppendUint64(buf, 1_234_500_000_000) // price
	buf = binary.LittleEndian.AppendUint32(buf, 7)                 // size
	buf = append(buf, 'T', 'A', 0x80, 0)                          // action, side, flags, depth
	buf = binary.LittleEndian.AppendUint64(buf, tsEvent+50)        // ts_recv
	buf = binary.LittleEndian.AppendUint32(buf, 100)               // ts_in_delta
	buf = binary.LittleEndian.AppendUint32(buf, 42)                // sequence
	return buf
}

// unknownRecord encodes a record of a kind no decoder handles.
func unknownRecord(bodyLen int) []byte {
	total := 16 + bodyLen
	buf := make([]byte, 0, total)
	buf = append(buf, byte(total/4), 0x5A)
	buf = binary.LittleEndian.AppendUint16(buf, 99)
	buf = binary.LittleEndian.AppendUint32(buf, 7)
	buf = binary.LittleEndian.AppendUint64(buf, 1)
	return append(buf, make([]byte, bodyLen)...)
}

func writeCapture(t *testing.T, records ...[]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.dbn")
	var buf []byte
	for _, rec := range records {
		buf = append(buf, rec...)
	}
	require.NoError(t, os.WriteFile(path, buf, 0644))
	return path
}

func TestStatFile(t *testing.T) {
	path := writeCapture(t,
		tradeRecord(42, 1000),
		tradeRecord(42, 2000),
		unknownRecord(40),
	)

	counts, records, skipped, err := statFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), records)
	assert.Equal(t, uint64(1), skipped)
	assert.Equal(t, uint64(2), counts["trade"])
	assert.Equal(t, uint64(1), counts["rtype-0x5A"])
}

func TestStatFileTruncated(t *testing.T) {
	rec := tradeRecord(42, 1000)
	path := writeCapture(t, rec[:len(rec)-4])

	_, _, _, err := statFile(path)
	assert.Error(t, err)
}

func TestOpenCapture(t *testing.T) {
	path := writeCapture(t, tradeRecord(7, 500))

	closer, md, dec, err := openCapture(path)
	require.NoError(t, err)
	defer closer.Close()

	assert.Nil(t, md, "plain captures carry no metadata preamble")
	require.True(t, dec.Next())
	assert.Equal(t, uint32(7), dec.Record().Header().InstrumentID)
	assert.False(t, dec.Next())
	assert.NoError(t, dec.Err())
}
