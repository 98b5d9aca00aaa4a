package dbn

import "fmt"

// decodeFn decodes one record body. The reader is positioned at the start
// of the body and the body's length has already been checked against the
// kind's layout.
type decodeFn func(hd RecordHeader, r *fieldReader) (Record, error)

// kindSpec describes one record kind: its wire name, its total record
// size, and its body decoder. A size of zero means the kind has more than
// one layout generation and the decoder resolves the generation from the
// body size itself.
type kindSpec struct {
	name string
	size int
	fn   decodeFn
}

var kinds = [256]kindSpec{
	RTypeMbp0:          {name: "trade", size: SizeTradeMsg, fn: decodeTrade},
	RTypeMbp1:          {name: "mbp-1", size: SizeMbp1Msg, fn: decodeMbp1},
	RTypeMbp10:         {name: "mbp-10", size: SizeMbp10Msg, fn: decodeMbp10},
	RTypeStatus:        {name: "status", size: SizeStatusMsg, fn: decodeStatus},
	RTypeInstrumentDef: {name: "instrument-def", fn: decodeInstrumentDef},
	RTypeImbalance:     {name: "imbalance", size: SizeImbalanceMsg, fn: decodeImbalance},
	RTypeError:         {name: "error", size: SizeErrorMsg, fn: decodeError},
	RTypeSymbolMapping: {name: "symbol-mapping", size: SizeSymbolMappingMsg, fn: decodeSymbolMapping},
	RTypeSystem:        {name: "system", size: SizeSystemMsg, fn: decodeSystem},
	RTypeStatistics:    {name: "statistics", size: SizeStatMsg, fn: decodeStat},
	RTypeOhlcv1S:       {name: "ohlcv-1s", size: SizeOhlcvMsg, fn: decodeOhlcv},
	RTypeOhlcv1M:       {name: "ohlcv-1m", size: SizeOhlcvMsg, fn: decodeOhlcv},
	RTypeOhlcv1H:       {name: "ohlcv-1h", size: SizeOhlcvMsg, fn: decodeOhlcv},
	RTypeOhlcv1D:       {name: "ohlcv-1d", size: SizeOhlcvMsg, fn: decodeOhlcv},
	RTypeMbo:           {name: "mbo", size: SizeMboMsg, fn: decodeMbo},
	RTypeCmbp1:         {name: "cmbp-1", size: SizeCmbp1Msg, fn: decodeCmbp1},
	RTypeCbbo1S:        {name: "cbbo-1s", size: SizeCbboMsg, fn: decodeCbbo},
	RTypeCbbo1M:        {name: "cbbo-1m", size: SizeCbboMsg, fn: decodeCbbo},
	RTypeTcbbo:         {name: "tcbbo", size: SizeTcbboMsg, fn: decodeTcbbo},
	RTypeBbo1S:         {name: "bbo-1s", size: SizeBboMsg, fn: decodeBbo},
	RTypeBbo1M:         {name: "bbo-1m", size: SizeBboMsg, fn: decodeBbo},
}

// Known reports whether this package decodes bodies of the kind. Unknown
// kinds still stream cleanly; their bodies are skipped.
func (r RType) Known() bool { return kinds[r].fn != nil }

// decodeBody decodes one record body according to the header's kind tag.
// Unknown kinds yield a SkippedRecord. A declared body shorter than the
// kind's layout fails with ErrDecoderOverrun before any field is read; a
// decoder that stops short of its layout reports ErrDecoderUnderrun.
// Bodies longer than the layout are allowed, the surplus is padding.
func decodeBody(hd RecordHeader, body []byte) (Record, error) {
	k := kinds[hd.RType]
	if k.fn == nil {
		return &SkippedRecord{RecordHeader: hd, BodyLen: len(body)}, nil
	}
	want := len(body)
	if k.size != 0 {
		want = k.size - HeaderSize
		if len(body) < want {
			return nil, fmt.Errorf("%w: %s body is %d bytes, layout needs %d",
				ErrDecoderOverrun, hd.RType, len(body), want)
		}
	}
	r := &fieldReader{b: body}
	rec, err := k.fn(hd, r)
	if err != nil {
		return nil, err
	}
	if r.off != want {
		return nil, fmt.Errorf("%w: %s decoder consumed %d of %d body bytes",
			ErrDecoderUnderrun, hd.RType, r.off, want)
	}
	return rec, nil
}

func readBidAskPair(r *fieldReader) (p BidAskPair) {
	p.BidPx = r.i64()
	p.AskPx = r.i64()
	p.BidSz = r.u32()
	p.AskSz = r.u32()
	p.BidCt = r.u32()
	p.AskCt = r.u32()
	return p
}

func readConsolidatedPair(r *fieldReader) (p ConsolidatedBidAskPair) {
	p.BidPx = r.i64()
	p.AskPx = r.i64()
	p.BidSz = r.u32()
	p.AskSz = r.u32()
	p.BidPb = r.u16()
	r.skip(2)
	p.AskPb = r.u16()
	r.skip(2)
	return p
}

func decodeMbo(hd RecordHeader, r *fieldReader) (Record, error) {
	m := &MboMsg{RecordHeader: hd}
	m.OrderID = r.u64()
	m.Price = r.i64()
	m.Size = r.u32()
	m.Flags = r.u8()
	m.ChannelID = r.u8()
	m.Action = r.u8()
	m.Side = r.u8()
	m.TsRecv = r.u64()
	m.TsInDelta = r.i32()
	m.Sequence = r.u32()
	return m, nil
}

func decodeTrade(hd RecordHeader, r *fieldReader) (Record, error) {
	m := &TradeMsg{RecordHeader: hd}
	m.Price = r.i64()
	m.Size = r.u32()
	m.Action = r.u8()
	m.Side = r.u8()
	m.Flags = r.u8()
	m.Depth = r.u8()
	m.TsRecv = r.u64()
	m.TsInDelta = r.i32()
	m.Sequence = r.u32()
	return m, nil
}

func decodeMbp1(hd RecordHeader, r *fieldReader) (Record, error) {
	m := &Mbp1Msg{RecordHeader: hd}
	m.Price = r.i64()
	m.Size = r.u32()
	m.Action = r.u8()
	m.Side = r.u8()
	m.Flags = r.u8()
	m.Depth = r.u8()
	m.TsRecv = r.u64()
	m.TsInDelta = r.i32()
	m.Sequence = r.u32()
	m.Levels[0] = readBidAskPair(r)
	return m, nil
}

func decodeMbp10(hd RecordHeader, r *fieldReader) (Record, error) {
	m := &Mbp10Msg{RecordHeader: hd}
	m.Price = r.i64()
	m.Size = r.u32()
	m.Action = r.u8()
	m.Side = r.u8()
	m.Flags = r.u8()
	m.Depth = r.u8()
	m.TsRecv = r.u64()
	m.TsInDelta = r.i32()
	m.Sequence = r.u32()
	for i := range m.Levels {
		m.Levels[i] = readBidAskPair(r)
	}
	return m, nil
}

func decodeOhlcv(hd RecordHeader, r *fieldReader) (Record, error) {
	m := &OhlcvMsg{RecordHeader: hd}
	m.Open = r.i64()
	m.High = r.i64()
	m.Low = r.i64()
	m.Close = r.i64()
	m.Volume = r.u64()
	return m, nil
}

func decodeStatus(hd RecordHeader, r *fieldReader) (Record, error) {
	m := &StatusMsg{RecordHeader: hd}
	m.TsRecv = r.u64()
	m.Action = r.u16()
	m.Reason = r.u16()
	m.TradingEvent = r.u16()
	m.IsTrading = r.u8()
	m.IsQuoting = r.u8()
	m.IsShortSellRestricted = r.u8()
	r.skip(7)
	return m, nil
}

func decodeImbalance(hd RecordHeader, r *fieldReader) (Record, error) {
	m := &ImbalanceMsg{RecordHeader: hd}
	m.TsRecv = r.u64()
	m.RefPrice = r.i64()
	m.AuctionTime = r.u64()
	m.ContBookClrPrice = r.i64()
	m.AuctInterestClrPrice = r.i64()
	m.SsrFillingPrice = r.i64()
	m.IndMatchPrice = r.i64()
	m.UpperCollar = r.i64()
	m.LowerCollar = r.i64()
	m.PairedQty = r.u32()
	m.TotalImbalanceQty = r.u32()
	m.MarketImbalanceQty = r.u32()
	m.UnpairedQty = r.u32()
	m.AuctionType = r.u8()
	m.Side = r.u8()
	m.AuctionStatus = r.u8()
	m.FreezeStatus = r.u8()
	m.NumExtensions = r.u8()
	m.UnpairedSide = r.u8()
	m.SignificantImbalance = r.u8()
	r.skip(1)
	return m, nil
}

func decodeStat(hd RecordHeader, r *fieldReader) (Record, error) {
	m := &StatMsg{RecordHeader: hd}
	m.TsRecv = r.u64()
	m.TsRef = r.u64()
	m.Price = r.i64()
	m.Quantity = r.i32()
	m.Sequence = r.u32()
	m.TsInDelta = r.i32()
	m.StatType = StatType(r.u16())
	m.ChannelID = r.u16()
	m.UpdateAction = r.u8()
	m.StatFlags = r.u8()
	r.skip(6)
	return m, nil
}

func decodeError(hd RecordHeader, r *fieldReader) (Record, error) {
	m := &ErrorMsg{RecordHeader: hd}
	r.chars(m.Err[:])
	m.Code = r.u8()
	m.IsLast = r.u8()
	return m, nil
}

func decodeSymbolMapping(hd RecordHeader, r *fieldReader) (Record, error) {
	m := &SymbolMappingMsg{RecordHeader: hd}
	m.STypeIn = SType(r.u8())
	r.chars(m.STypeInSymbol[:])
	m.STypeOut = SType(r.u8())
	r.chars(m.STypeOutSymbol[:])
	m.StartTs = r.u64()
	m.EndTs = r.u64()
	return m, nil
}

func decodeSystem(hd RecordHeader, r *fieldReader) (Record, error) {
	m := &SystemMsg{RecordHeader: hd}
	r.chars(m.Msg[:])
	m.Code = r.u8()
	return m, nil
}

func decodeCmbp1(hd RecordHeader, r *fieldReader) (Record, error) {
	m := &Cmbp1Msg{RecordHeader: hd}
	m.Price = r.i64()
	m.Size = r.u32()
	m.Action = r.u8()
	m.Side = r.u8()
	m.Flags = r.u8()
	r.skip(1)
	m.TsRecv = r.u64()
	m.TsInDelta = r.i32()
	r.skip(4)
	m.Levels[0] = readConsolidatedPair(r)
	return m, nil
}

func decodeTcbbo(hd RecordHeader, r *fieldReader) (Record, error) {
	m := &TcbboMsg{RecordHeader: hd}
	m.Price = r.i64()
	m.Size = r.u32()
	m.Action = r.u8()
	m.Side = r.u8()
	m.Flags = r.u8()
	r.skip(1)
	m.TsRecv = r.u64()
	m.TsInDelta = r.i32()
	r.skip(4)
	m.Levels[0] = readConsolidatedPair(r)
	return m, nil
}

func decodeCbbo(hd RecordHeader, r *fieldReader) (Record, error) {
	m := &CbboMsg{RecordHeader: hd}
	m.Price = r.i64()
	m.Size = r.u32()
	r.skip(1)
	m.Side = r.u8()
	m.Flags = r.u8()
	r.skip(1)
	m.TsRecv = r.u64()
	r.skip(8)
	m.Levels[0] = readConsolidatedPair(r)
	return m, nil
}

func decodeBbo(hd RecordHeader, r *fieldReader) (Record, error) {
	m := &BboMsg{RecordHeader: hd}
	m.Price = r.i64()
	m.Size = r.u32()
	r.skip(1)
	m.Side = r.u8()
	m.Flags = r.u8()
	r.skip(1)
	m.TsRecv = r.u64()
	r.skip(4)
	m.Sequence = r.u32()
	m.Levels[0] = readBidAskPair(r)
	return m, nil
}
