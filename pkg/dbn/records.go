package dbn

import (
	"bytes"
	"strings"
)

// Record is any decoded market-data record. Concrete types embed
// RecordHeader, so the header fields and RecordSize/BodySize are
// promoted on every record.
type Record interface {
	Header() RecordHeader
}

// SkippedRecord stands in for a record whose kind this package does not
// decode. The header is fully parsed; the body was skipped over so the
// stream stays aligned on the next record.
type SkippedRecord struct {
	RecordHeader
	// BodyLen is the number of body bytes that were skipped.
	BodyLen int
}

// CStr interprets b as a NUL-padded character field and returns the text
// before the first NUL.
func CStr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// BidAskPair is one price level of a book: best bid and ask with their
// aggregate sizes and order counts.
type BidAskPair struct {
	BidPx int64
	AskPx int64
	BidSz uint32
	AskSz uint32
	BidCt uint32
	AskCt uint32
}

// ConsolidatedBidAskPair is one consolidated price level: best bid and
// ask across venues, each tagged with the publisher that quoted it.
type ConsolidatedBidAskPair struct {
	BidPx int64
	AskPx int64
	BidSz uint32
	AskSz uint32
	BidPb uint16
	AskPb uint16
}

// MboMsg is a market-by-order tick: one add, cancel, modify, clear, trade
// or fill against a single resting order.
type MboMsg struct {
	RecordHeader
	// OrderID is the venue-assigned order identifier.
	OrderID uint64
	Price   int64
	Size    uint32
	Flags   uint8
	// ChannelID is the capture channel the tick arrived on.
	ChannelID uint8
	Action    byte
	Side      byte
	// TsRecv is the capture-server receive time in nanoseconds.
	TsRecv uint64
	// TsInDelta is ts_recv minus the venue send time, in nanoseconds.
	TsInDelta int32
	Sequence  uint32
}

// TradeMsg is a trade tick.
type TradeMsg struct {
	RecordHeader
	Price  int64
	Size   uint32
	Action byte
	Side   byte
	Flags  uint8
	// Depth is the book level the trade executed at.
	Depth     uint8
	TsRecv    uint64
	TsInDelta int32
	Sequence  uint32
}

// Mbp1Msg is a top-of-book update: the event that changed the book plus
// the resulting best bid and ask.
type Mbp1Msg struct {
	RecordHeader
	Price     int64
	Size      uint32
	Action    byte
	Side      byte
	Flags     uint8
	Depth     uint8
	TsRecv    uint64
	TsInDelta int32
	Sequence  uint32
	Levels    [1]BidAskPair
}

// Mbp10Msg is a ten-level book update.
type Mbp10Msg struct {
	RecordHeader
	Price     int64
	Size      uint32
	Action    byte
	Side      byte
	Flags     uint8
	Depth     uint8
	TsRecv    uint64
	TsInDelta int32
	Sequence  uint32
	Levels    [10]BidAskPair
}

// OhlcvMsg is one aggregated bar. The bar interval is carried by the
// header's RType, not by the body.
type OhlcvMsg struct {
	RecordHeader
	Open   int64
	High   int64
	Low    int64
	Close  int64
	Volume uint64
}

// StatusMsg reports a change in an instrument's trading status.
type StatusMsg struct {
	RecordHeader
	TsRecv       uint64
	Action       uint16
	Reason       uint16
	TradingEvent uint16
	// IsTrading, IsQuoting and IsShortSellRestricted are 'Y', 'N' or '~'
	// when the venue does not report the field.
	IsTrading             byte
	IsQuoting             byte
	IsShortSellRestricted byte
}

// ImbalanceMsg reports auction order imbalance.
type ImbalanceMsg struct {
	RecordHeader
	TsRecv               uint64
	RefPrice             int64
	AuctionTime          uint64
	ContBookClrPrice     int64
	AuctInterestClrPrice int64
	SsrFillingPrice      int64
	IndMatchPrice        int64
	UpperCollar          int64
	LowerCollar          int64
	PairedQty            uint32
	TotalImbalanceQty    uint32
	MarketImbalanceQty   uint32
	UnpairedQty          uint32
	AuctionType          byte
	Side                 byte
	AuctionStatus        uint8
	FreezeStatus         uint8
	NumExtensions        uint8
	UnpairedSide         byte
	SignificantImbalance byte
}

// StatMsg is one venue-published statistic, such as a settlement price or
// open interest. StatType says which quantity Price or Quantity carries;
// the one not used holds its undefined sentinel.
type StatMsg struct {
	RecordHeader
	TsRecv uint64
	// TsRef is the reference time of the statistic, such as the session
	// the settlement belongs to.
	TsRef        uint64
	Price        int64
	Quantity     int32
	Sequence     uint32
	TsInDelta    int32
	StatType     StatType
	ChannelID    uint16
	UpdateAction uint8
	StatFlags    uint8
}

// ErrorMsg carries a gateway error raised inside a live stream.
type ErrorMsg struct {
	RecordHeader
	Err  [302]byte
	Code uint8
	// IsLast is 1 on the final chunk of a multi-record error.
	IsLast uint8
}

// Message returns the error text.
func (m *ErrorMsg) Message() string { return CStr(m.Err[:]) }

// SymbolMappingMsg maps an instrument between two symbologies over a
// validity window.
type SymbolMappingMsg struct {
	RecordHeader
	STypeIn        SType
	STypeInSymbol  [71]byte
	STypeOut       SType
	STypeOutSymbol [71]byte
	StartTs        uint64
	EndTs          uint64
}

// InSymbol returns the input symbol as text.
func (m *SymbolMappingMsg) InSymbol() string { return CStr(m.STypeInSymbol[:]) }

// OutSymbol returns the output symbol as text.
func (m *SymbolMappingMsg) OutSymbol() string { return CStr(m.STypeOutSymbol[:]) }

// SystemMsg carries a gateway notification, most commonly the periodic
// heartbeat on an otherwise quiet live stream.
type SystemMsg struct {
	RecordHeader
	Msg  [303]byte
	Code uint8
}

// Message returns the notification text.
func (m *SystemMsg) Message() string { return CStr(m.Msg[:]) }

// IsHeartbeat reports whether the message is a gateway heartbeat.
func (m *SystemMsg) IsHeartbeat() bool {
	return strings.HasPrefix(m.Message(), "Heartbeat")
}

// Cmbp1Msg is a consolidated top-of-book update across venues.
type Cmbp1Msg struct {
	RecordHeader
	Price     int64
	Size      uint32
	Action    byte
	Side      byte
	Flags     uint8
	TsRecv    uint64
	TsInDelta int32
	Levels    [1]ConsolidatedBidAskPair
}

// TcbboMsg is a trade tick paired with the consolidated best bid and ask
// at the time of the trade.
type TcbboMsg struct {
	RecordHeader
	Price     int64
	Size      uint32
	Action    byte
	Side      byte
	Flags     uint8
	TsRecv    uint64
	TsInDelta int32
	Levels    [1]ConsolidatedBidAskPair
}

// CbboMsg is a sampled consolidated best bid and ask.
type CbboMsg struct {
	RecordHeader
	Price  int64
	Size   uint32
	Side   byte
	Flags  uint8
	TsRecv uint64
	Levels [1]ConsolidatedBidAskPair
}

// BboMsg is a sampled best bid and ask from a single venue.
type BboMsg struct {
	RecordHeader
	Price    int64
	Size     uint32
	Side     byte
	Flags    uint8
	TsRecv   uint64
	Sequence uint32
	Levels   [1]BidAskPair
}
