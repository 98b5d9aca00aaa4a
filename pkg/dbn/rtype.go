package dbn

import (
	"fmt"
	"math"
)

// Header framing.
const (
	// HeaderSize is the fixed size of a record header in bytes.
	HeaderSize = 16

	// LengthMultiplier converts the header's length field, counted in
	// 4-byte words, to bytes.
	LengthMultiplier = 4

	// MaxRecordSize is the largest record the length field can declare.
	MaxRecordSize = math.MaxUint8 * LengthMultiplier
)

// FixedPriceScale is the implied denominator of fixed-point price fields:
// one unit is 1e-9 of the instrument's currency.
const FixedPriceScale = 1_000_000_000

// Sentinel values marking fields that carry no meaningful value.
const (
	UndefPrice        = math.MaxInt64
	UndefOrderSize    = math.MaxUint32
	UndefTimestamp    = math.MaxUint64
	UndefStatQuantity = math.MaxInt32
)

// RType is the kind tag carried in every record header.
type RType uint8

// Record kind tags.
const (
	RTypeMbp0          RType = 0x00 // trade ticks
	RTypeMbp1          RType = 0x01
	RTypeMbp10         RType = 0x0A
	RTypeStatus        RType = 0x12
	RTypeInstrumentDef RType = 0x13
	RTypeImbalance     RType = 0x14
	RTypeError         RType = 0x15
	RTypeSymbolMapping RType = 0x16
	RTypeSystem        RType = 0x17
	RTypeStatistics    RType = 0x18
	RTypeOhlcv1S       RType = 0x20
	RTypeOhlcv1M       RType = 0x21
	RTypeOhlcv1H       RType = 0x22
	RTypeOhlcv1D       RType = 0x23
	RTypeMbo           RType = 0xA0
	RTypeCmbp1         RType = 0xB1
	RTypeCbbo1S        RType = 0xC0
	RTypeCbbo1M        RType = 0xC1
	RTypeTcbbo         RType = 0xC2
	RTypeBbo1S         RType = 0xC3
	RTypeBbo1M         RType = 0xC4
)

// String returns the kind's wire name, or the tag in hex for kinds this
// package does not decode.
func (r RType) String() string {
	if name := kinds[r].name; name != "" {
		return name
	}
	return fmt.Sprintf("rtype-0x%02X", uint8(r))
}

// Total record sizes, header included, for the fixed-layout kinds.
const (
	SizeMboMsg           = 56
	SizeTradeMsg         = 48
	SizeMbp1Msg          = 80
	SizeMbp10Msg         = 368
	SizeOhlcvMsg         = 56
	SizeStatusMsg        = 40
	SizeImbalanceMsg     = 112
	SizeStatMsg          = 64
	SizeErrorMsg         = 320
	SizeSymbolMappingMsg = 176
	SizeSystemMsg        = 320
	SizeCmbp1Msg         = 80
	SizeCbboMsg          = 80
	SizeTcbboMsg         = 80
	SizeBboMsg           = 80

	// Instrument definitions come in two generations told apart by size.
	SizeInstrumentDefMsgV2 = 400
	SizeInstrumentDefMsgV3 = 520
)

// Bits of the per-record flags field.
const (
	FlagLast         = 1 << 7 // last record in the event for this instrument
	FlagTob          = 1 << 6 // top-of-book message
	FlagSnapshot     = 1 << 5 // sourced from a replay or snapshot
	FlagMbp          = 1 << 4 // aggregated price-level message
	FlagBadTsRecv    = 1 << 3 // ts_recv is inaccurate
	FlagMaybeBadBook = 1 << 2 // unrecoverable gap detected upstream
)

// Side codes.
const (
	SideAsk  byte = 'A'
	SideBid  byte = 'B'
	SideNone byte = 'N'
)

// Action codes for book updates.
const (
	ActionAdd    byte = 'A'
	ActionCancel byte = 'C'
	ActionModify byte = 'M'
	ActionClear  byte = 'R'
	ActionTrade  byte = 'T'
	ActionFill   byte = 'F'
	ActionNone   byte = 'N'
)

// StatType identifies the quantity a statistics record reports.
type StatType uint16

// Statistic types.
const (
	StatOpeningPrice            StatType = 1
	StatIndicativeOpeningPrice  StatType = 2
	StatSettlementPrice         StatType = 3
	StatTradingSessionLowPrice  StatType = 4
	StatTradingSessionHighPrice StatType = 5
	StatClearedVolume           StatType = 6
	StatLowestOffer             StatType = 7
	StatHighestBid              StatType = 8
	StatOpenInterest            StatType = 9
	StatFixingPrice             StatType = 10
	StatClosePrice              StatType = 11
	StatNetChange               StatType = 12
	StatVwap                    StatType = 13
)

// Statistic update actions.
const (
	StatUpdateActionNew    uint8 = 1
	StatUpdateActionDelete uint8 = 2
)

// Schema identifies the record mix a capture was requested with.
type Schema uint16

// Schemas.
const (
	SchemaMbo        Schema = 0
	SchemaMbp1       Schema = 1
	SchemaMbp10      Schema = 2
	SchemaTbbo       Schema = 3
	SchemaTrades     Schema = 4
	SchemaOhlcv1S    Schema = 5
	SchemaOhlcv1M    Schema = 6
	SchemaOhlcv1H    Schema = 7
	SchemaOhlcv1D    Schema = 8
	SchemaDefinition Schema = 9
	SchemaStatistics Schema = 10
	SchemaStatus     Schema = 11
	SchemaImbalance  Schema = 12
	SchemaOhlcvEod   Schema = 13
	SchemaCmbp1      Schema = 14
	SchemaCbbo1S     Schema = 15
	SchemaCbbo1M     Schema = 16
	SchemaTcbbo      Schema = 17
	SchemaBbo1S      Schema = 18
	SchemaBbo1M      Schema = 19

	// SchemaMixed marks captures with no single schema.
	SchemaMixed Schema = 0xFFFF
)

var schemaNames = map[Schema]string{
	SchemaMbo:        "mbo",
	SchemaMbp1:       "mbp-1",
	SchemaMbp10:      "mbp-10",
	SchemaTbbo:       "tbbo",
	SchemaTrades:     "trades",
	SchemaOhlcv1S:    "ohlcv-1s",
	SchemaOhlcv1M:    "ohlcv-1m",
	SchemaOhlcv1H:    "ohlcv-1h",
	SchemaOhlcv1D:    "ohlcv-1d",
	SchemaDefinition: "definition",
	SchemaStatistics: "statistics",
	SchemaStatus:     "status",
	SchemaImbalance:  "imbalance",
	SchemaOhlcvEod:   "ohlcv-eod",
	SchemaCmbp1:      "cmbp-1",
	SchemaCbbo1S:     "cbbo-1s",
	SchemaCbbo1M:     "cbbo-1m",
	SchemaTcbbo:      "tcbbo",
	SchemaBbo1S:      "bbo-1s",
	SchemaBbo1M:      "bbo-1m",
	SchemaMixed:      "mixed",
}

func (s Schema) String() string {
	if name, ok := schemaNames[s]; ok {
		return name
	}
	return fmt.Sprintf("schema-%d", uint16(s))
}

// SType identifies a symbology type.
type SType uint8

// Symbology types.
const (
	STypeInstrumentID SType = 0
	STypeRawSymbol    SType = 1
	STypeContinuous   SType = 3
	STypeParent       SType = 4

	// STypeNone marks a mixed or unspecified symbology.
	STypeNone SType = 0xFF
)

func (s SType) String() string {
	switch s {
	case STypeInstrumentID:
		return "instrument_id"
	case STypeRawSymbol:
		return "raw_symbol"
	case STypeContinuous:
		return "continuous"
	case STypeParent:
		return "parent"
	case STypeNone:
		return "none"
	}
	return fmt.Sprintf("stype-%d", uint8(s))
}
