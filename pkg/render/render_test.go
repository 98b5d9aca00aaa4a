package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/tickwire/pkg/dbn"
	"github.com/ssargent/tickwire/pkg/internal/wiretest"
)

func TestPrice(t *testing.T) {
	cases := []struct {
		raw  int64
		want string
	}{
		{1_234_500_000_000, "1234.5"},
		{1_000_000_000, "1"},
		{-2_500_000_000, "-2.5"},
		{1, "0.000000001"},
		{0, "0"},
	}
	for _, tc := range cases {
		got := Price(tc.raw)
		require.NotNil(t, got, "price %d", tc.raw)
		assert.Equal(t, tc.want, *got)
	}

	assert.Nil(t, Price(dbn.UndefPrice), "the undefined price renders as null")
}

func TestTime(t *testing.T) {
	got := Time(1_700_000_000_000_000_000)
	require.NotNil(t, got)
	assert.Equal(t, "2023-11-14T22:13:20Z", *got)

	got = Time(1_700_000_000_123_456_789)
	require.NotNil(t, got)
	assert.Equal(t, "2023-11-14T22:13:20.123456789Z", *got)

	assert.Nil(t, Time(dbn.UndefTimestamp))
}

func decodeOne(t *testing.T, image []byte) dbn.Record {
	t.Helper()
	rec, err := dbn.DecodeRecord(image)
	require.NoError(t, err)
	return rec
}

func TestViewTrade(t *testing.T) {
	rec := decodeOne(t, wiretest.Trade(42, 1_700_000_000_000_000_000))
	v, ok := View(rec).(TradeView)
	require.True(t, ok, "got %T", View(rec))

	assert.Equal(t, "trade", v.Kind)
	assert.Equal(t, uint32(42), v.InstrumentID)
	require.NotNil(t, v.Price)
	assert.Equal(t, "1234.5", *v.Price)
	assert.Equal(t, uint32(7), v.Size)
	assert.Equal(t, "A", v.Side)
	assert.Equal(t, "T", v.Action)

	// Views marshal cleanly.
	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"trade"`)
	assert.Contains(t, string(data), `"price":"1234.5"`)
}

func TestViewSkipped(t *testing.T) {
	rec := decodeOne(t, wiretest.Unknown(0x5A, 9, 40))
	v, ok := View(rec).(SkippedView)
	require.True(t, ok, "got %T", View(rec))
	assert.Equal(t, "rtype-0x5A", v.Kind)
	assert.Equal(t, 40, v.BodyLen)
}

func TestViewMbp10Levels(t *testing.T) {
	b := wiretest.NewBuilder()
	b.Header(0x0A, dbn.SizeMbp10Msg, 1, 5, 1_700_000_000_000_000_000)
	b.I64(dbn.UndefPrice)
	b.U32(0)
	b.U8('M')
	b.U8('N')
	b.U8(0)
	b.U8(0)
	b.U64(1_700_000_000_000_000_100)
	b.I32(0)
	b.U32(1)
	for i := 0; i < 10; i++ {
		b.I64(int64(1_000_000_000 * (i + 1))) // bid
		b.I64(int64(1_000_000_000 * (i + 2))) // ask
		b.U32(10)
		b.U32(20)
		b.U32(1)
		b.U32(2)
	}

	v, ok := View(decodeOne(t, b.Bytes())).(BookView)
	require.True(t, ok)
	assert.Nil(t, v.Price, "undefined event price renders as null")
	require.Len(t, v.Levels, 10)
	require.NotNil(t, v.Levels[0].BidPx)
	assert.Equal(t, "1", *v.Levels[0].BidPx)
	require.NotNil(t, v.Levels[9].AskPx)
	assert.Equal(t, "11", *v.Levels[9].AskPx)
}

func TestText(t *testing.T) {
	trade := decodeOne(t, wiretest.Trade(42, 1_700_000_000_000_000_000))
	line := Text(trade)
	assert.Contains(t, line, "trade")
	assert.Contains(t, line, "instr=42")
	assert.Contains(t, line, "px=1234.5")
	assert.NotContains(t, line, "\n")

	skipped := decodeOne(t, wiretest.Unknown(0x5A, 9, 40))
	line = Text(skipped)
	assert.Contains(t, line, "skipped body=40")
}
