package dbn

import "fmt"

// Instrument classes.
const (
	ClassBond         byte = 'B'
	ClassCall         byte = 'C'
	ClassFuture       byte = 'F'
	ClassStock        byte = 'K'
	ClassMixedSpread  byte = 'M'
	ClassPut          byte = 'P'
	ClassFutureSpread byte = 'S'
	ClassOptionSpread byte = 'T'
	ClassFxSpot       byte = 'X'
)

// InstrumentDefMsg is an instrument definition. Two generations of the
// layout are in circulation and the body carries no version field, so the
// decoder tells them apart by exact body size alone. The struct is the
// union of both generations; fields absent from the generation decoded
// stay zero.
type InstrumentDefMsg struct {
	RecordHeader

	TsRecv                  uint64
	MinPriceIncrement       int64
	DisplayFactor           int64
	Expiration              uint64
	Activation              uint64
	HighLimitPrice          int64
	LowLimitPrice           int64
	MaxPriceVariation       int64
	UnitOfMeasureQty        int64
	MinPriceIncrementAmount int64
	PriceRatio              int64
	StrikePrice             int64

	// RawInstrumentID was widened in the current generation; legacy
	// definitions carry 32 bits.
	RawInstrumentID uint64

	InstAttribValue      int32
	UnderlyingID         uint32
	MarketDepthImplied   int32
	MarketDepth          int32
	MarketSegmentID      uint32
	MaxTradeVol          uint32
	MinLotSize           int32
	MinLotSizeBlock      int32
	MinLotSizeRoundLot   int32
	MinTradeVol          uint32
	ContractMultiplier   int32
	DecayQuantity        int32
	OriginalContractSize int32

	ApplID         int16
	MaturityYear   uint16
	DecayStartDate uint16
	ChannelID      uint16

	Currency            [4]byte
	SettlCurrency       [4]byte
	SecSubType          [6]byte
	RawSymbol           [71]byte
	Group               [21]byte
	Exchange            [5]byte
	Asset               [11]byte
	Cfi                 [7]byte
	SecurityType        [7]byte
	UnitOfMeasure       [31]byte
	Underlying          [21]byte
	StrikePriceCurrency [4]byte

	InstrumentClass        byte
	MatchAlgorithm         byte
	MainFraction           uint8
	PriceDisplayFormat     uint8
	SubFraction            uint8
	UnderlyingProduct      uint8
	SecurityUpdateAction   byte
	MaturityMonth          uint8
	MaturityDay            uint8
	MaturityWeek           uint8
	UserDefinedInstrument  byte
	ContractMultiplierUnit int8
	FlowScheduleType       int8
	TickRule               uint8

	// Fields carried by legacy definitions only.
	TradingReferencePrice   int64
	TradingReferenceDate    uint16
	MdSecurityTradingStatus uint8
	SettlPriceType          uint8

	// Spread leg fields, carried by current definitions only.
	LegPrice                 int64
	LegDelta                 int64
	LegInstrumentID          uint32
	LegRatioPriceNumerator   int32
	LegRatioPriceDenominator int32
	LegRatioQtyNumerator     int32
	LegRatioQtyDenominator   int32
	LegUnderlyingID          uint32
	LegCount                 uint16
	LegIndex                 uint16
	LegRawSymbol             [71]byte
	LegInstrumentClass       byte
	LegSide                  byte
}

// Symbol returns the raw symbol as text.
func (d *InstrumentDefMsg) Symbol() string { return CStr(d.RawSymbol[:]) }

const (
	instrumentDefBodyV2 = SizeInstrumentDefMsgV2 - HeaderSize
	instrumentDefBodyV3 = SizeInstrumentDefMsgV3 - HeaderSize
)

func decodeInstrumentDef(hd RecordHeader, r *fieldReader) (Record, error) {
	switch len(r.b) {
	case instrumentDefBodyV2:
		return decodeInstrumentDefV2(hd, r)
	case instrumentDefBodyV3:
		return decodeInstrumentDefV3(hd, r)
	}
	return nil, fmt.Errorf("%w: instrument definition body is %d bytes, want %d (legacy) or %d",
		ErrUnknownLayoutVersion, len(r.b), instrumentDefBodyV2, instrumentDefBodyV3)
}

func decodeInstrumentDefV2(hd RecordHeader, r *fieldReader) (Record, error) {
	d := &InstrumentDefMsg{RecordHeader: hd}
	d.TsRecv = r.u64()
	d.MinPriceIncrement = r.i64()
	d.DisplayFactor = r.i64()
	d.Expiration = r.u64()
	d.Activation = r.u64()
	d.HighLimitPrice = r.i64()
	d.LowLimitPrice = r.i64()
	d.MaxPriceVariation = r.i64()
	d.TradingReferencePrice = r.i64()
	d.UnitOfMeasureQty = r.i64()
	d.MinPriceIncrementAmount = r.i64()
	d.PriceRatio = r.i64()
	d.StrikePrice = r.i64()
	d.InstAttribValue = r.i32()
	d.UnderlyingID = r.u32()
	d.RawInstrumentID = uint64(r.u32())
	d.MarketDepthImplied = r.i32()
	d.MarketDepth = r.i32()
	d.MarketSegmentID = r.u32()
	d.MaxTradeVol = r.u32()
	d.MinLotSize = r.i32()
	d.MinLotSizeBlock = r.i32()
	d.MinLotSizeRoundLot = r.i32()
	d.MinTradeVol = r.u32()
	d.ContractMultiplier = r.i32()
	d.DecayQuantity = r.i32()
	d.OriginalContractSize = r.i32()
	d.TradingReferenceDate = r.u16()
	d.ApplID = r.i16()
	d.MaturityYear = r.u16()
	d.DecayStartDate = r.u16()
	d.ChannelID = r.u16()
	r.chars(d.Currency[:])
	r.chars(d.SettlCurrency[:])
	r.chars(d.SecSubType[:])
	r.chars(d.RawSymbol[:])
	r.chars(d.Group[:])
	r.chars(d.Exchange[:])
	r.chars(d.Asset[:7]) // legacy asset is 7 bytes; the tail stays zero
	r.chars(d.Cfi[:])
	r.chars(d.SecurityType[:])
	r.chars(d.UnitOfMeasure[:])
	r.chars(d.Underlying[:])
	r.chars(d.StrikePriceCurrency[:])
	d.InstrumentClass = r.u8()
	d.MatchAlgorithm = r.u8()
	d.MdSecurityTradingStatus = r.u8()
	d.MainFraction = r.u8()
	d.PriceDisplayFormat = r.u8()
	d.SettlPriceType = r.u8()
	d.SubFraction = r.u8()
	d.UnderlyingProduct = r.u8()
	d.SecurityUpdateAction = r.u8()
	d.MaturityMonth = r.u8()
	d.MaturityDay = r.u8()
	d.MaturityWeek = r.u8()
	d.UserDefinedInstrument = r.u8()
	d.ContractMultiplierUnit = r.i8()
	d.FlowScheduleType = r.i8()
	d.TickRule = r.u8()
	r.skip(10)
	return d, nil
}

func decodeInstrumentDefV3(hd RecordHeader, r *fieldReader) (Record, error) {
	d := &InstrumentDefMsg{RecordHeader: hd}
	d.TsRecv = r.u64()
	d.MinPriceIncrement = r.i64()
	d.DisplayFactor = r.i64()
	d.Expiration = r.u64()
	d.Activation = r.u64()
	d.HighLimitPrice = r.i64()
	d.LowLimitPrice = r.i64()
	d.MaxPriceVariation = r.i64()
	d.UnitOfMeasureQty = r.i64()
	d.MinPriceIncrementAmount = r.i64()
	d.PriceRatio = r.i64()
	d.StrikePrice = r.i64()
	d.RawInstrumentID = r.u64()
	d.LegPrice = r.i64()
	d.LegDelta = r.i64()
	d.InstAttribValue = r.i32()
	d.UnderlyingID = r.u32()
	d.MarketDepthImplied = r.i32()
	d.MarketDepth = r.i32()
	d.MarketSegmentID = r.u32()
	d.MaxTradeVol = r.u32()
	d.MinLotSize = r.i32()
	d.MinLotSizeBlock = r.i32()
	d.MinLotSizeRoundLot = r.i32()
	d.MinTradeVol = r.u32()
	d.ContractMultiplier = r.i32()
	d.DecayQuantity = r.i32()
	d.OriginalContractSize = r.i32()
	d.LegInstrumentID = r.u32()
	d.LegRatioPriceNumerator = r.i32()
	d.LegRatioPriceDenominator = r.i32()
	d.LegRatioQtyNumerator = r.i32()
	d.LegRatioQtyDenominator = r.i32()
	d.LegUnderlyingID = r.u32()
	d.ApplID = r.i16()
	d.MaturityYear = r.u16()
	d.DecayStartDate = r.u16()
	d.ChannelID = r.u16()
	d.LegCount = r.u16()
	d.LegIndex = r.u16()
	r.chars(d.Currency[:])
	r.chars(d.SettlCurrency[:])
	r.chars(d.SecSubType[:])
	r.chars(d.RawSymbol[:])
	r.chars(d.Group[:])
	r.chars(d.Exchange[:])
	r.chars(d.Asset[:])
	r.chars(d.Cfi[:])
	r.chars(d.SecurityType[:])
	r.chars(d.UnitOfMeasure[:])
	r.chars(d.Underlying[:])
	r.chars(d.StrikePriceCurrency[:])
	r.chars(d.LegRawSymbol[:])
	d.InstrumentClass = r.u8()
	d.MatchAlgorithm = r.u8()
	d.MainFraction = r.u8()
	d.PriceDisplayFormat = r.u8()
	d.SubFraction = r.u8()
	d.UnderlyingProduct = r.u8()
	d.SecurityUpdateAction = r.u8()
	d.MaturityMonth = r.u8()
	d.MaturityDay = r.u8()
	d.MaturityWeek = r.u8()
	d.UserDefinedInstrument = r.u8()
	d.ContractMultiplierUnit = r.i8()
	d.FlowScheduleType = r.i8()
	d.TickRule = r.u8()
	d.LegInstrumentClass = r.u8()
	d.LegSide = r.u8()
	r.skip(17)
	return d, nil
}
