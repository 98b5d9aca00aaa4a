// Package render converts decoded records into presentation values.
// Fixed-point prices stay raw int64 everywhere inside the decode path;
// this is the one layer that turns them into decimal strings, and the one
// place a per-kind switch happens after dispatch.
package render

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ssargent/tickwire/pkg/dbn"
)

// priceExponent is the base-10 exponent of the wire fixed-point scale:
// 1e-9 per dbn.FixedPriceScale.
const priceExponent = -9

// Price renders a fixed-point price as a decimal string, or nil for the
// undefined sentinel.
func Price(v int64) *string {
	if v == dbn.UndefPrice {
		return nil
	}
	s := decimal.New(v, priceExponent).String()
	return &s
}

// Time renders a nanosecond timestamp as RFC3339Nano UTC, or nil for the
// undefined sentinel.
func Time(ns uint64) *string {
	if ns == dbn.UndefTimestamp {
		return nil
	}
	s := time.Unix(0, int64(ns)).UTC().Format(time.RFC3339Nano)
	return &s
}

// HeaderView is the part of every view shared by all record kinds.
type HeaderView struct {
	Kind         string  `json:"kind"`
	PublisherID  uint16  `json:"publisher_id"`
	InstrumentID uint32  `json:"instrument_id"`
	TsEvent      *string `json:"ts_event"`
}

func headerView(hd dbn.RecordHeader) HeaderView {
	return HeaderView{
		Kind:         hd.RType.String(),
		PublisherID:  hd.PublisherID,
		InstrumentID: hd.InstrumentID,
		TsEvent:      Time(hd.TsEvent),
	}
}

// LevelView is one rendered book level.
type LevelView struct {
	BidPx *string `json:"bid_px"`
	AskPx *string `json:"ask_px"`
	BidSz uint32  `json:"bid_sz"`
	AskSz uint32  `json:"ask_sz"`
	BidCt uint32  `json:"bid_ct,omitempty"`
	AskCt uint32  `json:"ask_ct,omitempty"`
	BidPb uint16  `json:"bid_pb,omitempty"`
	AskPb uint16  `json:"ask_pb,omitempty"`
}

func levelView(l dbn.BidAskPair) LevelView {
	return LevelView{
		BidPx: Price(l.BidPx), AskPx: Price(l.AskPx),
		BidSz: l.BidSz, AskSz: l.AskSz,
		BidCt: l.BidCt, AskCt: l.AskCt,
	}
}

func consolidatedLevelView(l dbn.ConsolidatedBidAskPair) LevelView {
	return LevelView{
		BidPx: Price(l.BidPx), AskPx: Price(l.AskPx),
		BidSz: l.BidSz, AskSz: l.AskSz,
		BidPb: l.BidPb, AskPb: l.AskPb,
	}
}

// TradeView renders a trade tick.
type TradeView struct {
	HeaderView
	Price    *string `json:"price"`
	Size     uint32  `json:"size"`
	Action   string  `json:"action"`
	Side     string  `json:"side"`
	Depth    uint8   `json:"depth"`
	TsRecv   *string `json:"ts_recv"`
	Sequence uint32  `json:"sequence"`
}

// MboView renders a market-by-order tick.
type MboView struct {
	HeaderView
	OrderID  uint64  `json:"order_id"`
	Price    *string `json:"price"`
	Size     uint32  `json:"size"`
	Action   string  `json:"action"`
	Side     string  `json:"side"`
	TsRecv   *string `json:"ts_recv"`
	Sequence uint32  `json:"sequence"`
}

// BookView renders a price-level update of any depth.
type BookView struct {
	HeaderView
	Price    *string     `json:"price"`
	Size     uint32      `json:"size"`
	Action   string      `json:"action"`
	Side     string      `json:"side"`
	Depth    uint8       `json:"depth"`
	TsRecv   *string     `json:"ts_recv"`
	Sequence uint32      `json:"sequence"`
	Levels   []LevelView `json:"levels"`
}

// OhlcvView renders one bar.
type OhlcvView struct {
	HeaderView
	Open   *string `json:"open"`
	High   *string `json:"high"`
	Low    *string `json:"low"`
	Close  *string `json:"close"`
	Volume uint64  `json:"volume"`
}

// StatusView renders a trading-status change.
type StatusView struct {
	HeaderView
	TsRecv       *string `json:"ts_recv"`
	Action       uint16  `json:"action"`
	Reason       uint16  `json:"reason"`
	TradingEvent uint16  `json:"trading_event"`
	IsTrading    string  `json:"is_trading"`
	IsQuoting    string  `json:"is_quoting"`
}

// InstrumentDefView renders the commonly consumed slice of an instrument
// definition.
type InstrumentDefView struct {
	HeaderView
	Symbol            string  `json:"symbol"`
	Exchange          string  `json:"exchange"`
	Asset             string  `json:"asset"`
	Currency          string  `json:"currency"`
	InstrumentClass   string  `json:"instrument_class"`
	MinPriceIncrement *string `json:"min_price_increment"`
	StrikePrice       *string `json:"strike_price"`
	Expiration        *string `json:"expiration"`
	MaturityYear      uint16  `json:"maturity_year,omitempty"`
	LegCount          uint16  `json:"leg_count,omitempty"`
}

// ImbalanceView renders an auction imbalance.
type ImbalanceView struct {
	HeaderView
	TsRecv            *string `json:"ts_recv"`
	RefPrice          *string `json:"ref_price"`
	PairedQty         uint32  `json:"paired_qty"`
	TotalImbalanceQty uint32  `json:"total_imbalance_qty"`
	AuctionType       string  `json:"auction_type"`
	Side              string  `json:"side"`
}

// StatView renders a venue statistic.
type StatView struct {
	HeaderView
	TsRecv   *string `json:"ts_recv"`
	TsRef    *string `json:"ts_ref"`
	StatType uint16  `json:"stat_type"`
	Price    *string `json:"price"`
	Quantity *int32  `json:"quantity"`
}

// ErrorView renders a gateway error.
type ErrorView struct {
	HeaderView
	Message string `json:"message"`
	Code    uint8  `json:"code"`
	IsLast  bool   `json:"is_last"`
}

// SymbolMappingView renders a symbology mapping.
type SymbolMappingView struct {
	HeaderView
	STypeIn   string  `json:"stype_in"`
	InSymbol  string  `json:"in_symbol"`
	STypeOut  string  `json:"stype_out"`
	OutSymbol string  `json:"out_symbol"`
	StartTs   *string `json:"start_ts"`
	EndTs     *string `json:"end_ts"`
}

// SystemView renders a gateway notification.
type SystemView struct {
	HeaderView
	Message     string `json:"message"`
	Code        uint8  `json:"code"`
	IsHeartbeat bool   `json:"is_heartbeat"`
}

// SkippedView renders a record of a kind the decoder does not know.
type SkippedView struct {
	HeaderView
	BodyLen int `json:"body_len"`
}

// View converts a decoded record into its presentation value. Every kind
// the decoder produces has a view; anything else falls back to the bare
// header.
func View(rec dbn.Record) any {
	switch m := rec.(type) {
	case *dbn.TradeMsg:
		return TradeView{
			HeaderView: headerView(m.RecordHeader),
			Price:      Price(m.Price), Size: m.Size,
			Action: string(m.Action), Side: string(m.Side), Depth: m.Depth,
			TsRecv: Time(m.TsRecv), Sequence: m.Sequence,
		}
	case *dbn.MboMsg:
		return MboView{
			HeaderView: headerView(m.RecordHeader),
			OrderID:    m.OrderID, Price: Price(m.Price), Size: m.Size,
			Action: string(m.Action), Side: string(m.Side),
			TsRecv: Time(m.TsRecv), Sequence: m.Sequence,
		}
	case *dbn.Mbp1Msg:
		return BookView{
			HeaderView: headerView(m.RecordHeader),
			Price:      Price(m.Price), Size: m.Size,
			Action: string(m.Action), Side: string(m.Side), Depth: m.Depth,
			TsRecv: Time(m.TsRecv), Sequence: m.Sequence,
			Levels: []LevelView{levelView(m.Levels[0])},
		}
	case *dbn.Mbp10Msg:
		levels := make([]LevelView, len(m.Levels))
		for i, l := range m.Levels {
			levels[i] = levelView(l)
		}
		return BookView{
			HeaderView: headerView(m.RecordHeader),
			Price:      Price(m.Price), Size: m.Size,
			Action: string(m.Action), Side: string(m.Side), Depth: m.Depth,
			TsRecv: Time(m.TsRecv), Sequence: m.Sequence,
			Levels: levels,
		}
	case *dbn.OhlcvMsg:
		return OhlcvView{
			HeaderView: headerView(m.RecordHeader),
			Open:       Price(m.Open), High: Price(m.High),
			Low: Price(m.Low), Close: Price(m.Close), Volume: m.Volume,
		}
	case *dbn.StatusMsg:
		return StatusView{
			HeaderView: headerView(m.RecordHeader),
			TsRecv:     Time(m.TsRecv), Action: m.Action, Reason: m.Reason,
			TradingEvent: m.TradingEvent,
			IsTrading:    string(m.IsTrading), IsQuoting: string(m.IsQuoting),
		}
	case *dbn.InstrumentDefMsg:
		return InstrumentDefView{
			HeaderView: headerView(m.RecordHeader),
			Symbol:     m.Symbol(),
			Exchange:   dbn.CStr(m.Exchange[:]),
			Asset:      dbn.CStr(m.Asset[:]),
			Currency:   dbn.CStr(m.Currency[:]),
			InstrumentClass:   string(m.InstrumentClass),
			MinPriceIncrement: Price(m.MinPriceIncrement),
			StrikePrice:       Price(m.StrikePrice),
			Expiration:        Time(m.Expiration),
			MaturityYear:      m.MaturityYear,
			LegCount:          m.LegCount,
		}
	case *dbn.ImbalanceMsg:
		return ImbalanceView{
			HeaderView: headerView(m.RecordHeader),
			TsRecv:     Time(m.TsRecv), RefPrice: Price(m.RefPrice),
			PairedQty: m.PairedQty, TotalImbalanceQty: m.TotalImbalanceQty,
			AuctionType: string(m.AuctionType), Side: string(m.Side),
		}
	case *dbn.StatMsg:
		v := StatView{
			HeaderView: headerView(m.RecordHeader),
			TsRecv:     Time(m.TsRecv), TsRef: Time(m.TsRef),
			StatType: uint16(m.StatType), Price: Price(m.Price),
		}
		if m.Quantity != dbn.UndefStatQuantity {
			q := m.Quantity
			v.Quantity = &q
		}
		return v
	case *dbn.ErrorMsg:
		return ErrorView{
			HeaderView: headerView(m.RecordHeader),
			Message:    m.Message(), Code: m.Code, IsLast: m.IsLast != 0,
		}
	case *dbn.SymbolMappingMsg:
		return SymbolMappingView{
			HeaderView: headerView(m.RecordHeader),
			STypeIn:    m.STypeIn.String(), InSymbol: m.InSymbol(),
			STypeOut: m.STypeOut.String(), OutSymbol: m.OutSymbol(),
			StartTs: Time(m.StartTs), EndTs: Time(m.EndTs),
		}
	case *dbn.SystemMsg:
		return SystemView{
			HeaderView: headerView(m.RecordHeader),
			Message:    m.Message(), Code: m.Code, IsHeartbeat: m.IsHeartbeat(),
		}
	case *dbn.Cmbp1Msg:
		return BookView{
			HeaderView: headerView(m.RecordHeader),
			Price:      Price(m.Price), Size: m.Size,
			Action: string(m.Action), Side: string(m.Side),
			TsRecv: Time(m.TsRecv),
			Levels: []LevelView{consolidatedLevelView(m.Levels[0])},
		}
	case *dbn.TcbboMsg:
		return BookView{
			HeaderView: headerView(m.RecordHeader),
			Price:      Price(m.Price), Size: m.Size,
			Action: string(m.Action), Side: string(m.Side),
			TsRecv: Time(m.TsRecv),
			Levels: []LevelView{consolidatedLevelView(m.Levels[0])},
		}
	case *dbn.CbboMsg:
		return BookView{
			HeaderView: headerView(m.RecordHeader),
			Price:      Price(m.Price), Size: m.Size,
			Side:   string(m.Side),
			TsRecv: Time(m.TsRecv),
			Levels: []LevelView{consolidatedLevelView(m.Levels[0])},
		}
	case *dbn.BboMsg:
		return BookView{
			HeaderView: headerView(m.RecordHeader),
			Price:      Price(m.Price), Size: m.Size,
			Side:   string(m.Side),
			TsRecv: Time(m.TsRecv), Sequence: m.Sequence,
			Levels: []LevelView{levelView(m.Levels[0])},
		}
	case *dbn.SkippedRecord:
		return SkippedView{HeaderView: headerView(m.RecordHeader), BodyLen: m.BodyLen}
	default:
		return headerView(rec.Header())
	}
}

func str(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}

// Text renders a record as one compact line.
func Text(rec dbn.Record) string {
	hd := rec.Header()
	prefix := fmt.Sprintf("%s %s pub=%d instr=%d", str(Time(hd.TsEvent)), hd.RType, hd.PublisherID, hd.InstrumentID)
	switch m := rec.(type) {
	case *dbn.TradeMsg:
		return fmt.Sprintf("%s px=%s sz=%d side=%c seq=%d", prefix, str(Price(m.Price)), m.Size, m.Side, m.Sequence)
	case *dbn.MboMsg:
		return fmt.Sprintf("%s order=%d action=%c side=%c px=%s sz=%d", prefix, m.OrderID, m.Action, m.Side, str(Price(m.Price)), m.Size)
	case *dbn.Mbp1Msg:
		l := m.Levels[0]
		return fmt.Sprintf("%s bid=%s/%d ask=%s/%d", prefix, str(Price(l.BidPx)), l.BidSz, str(Price(l.AskPx)), l.AskSz)
	case *dbn.OhlcvMsg:
		return fmt.Sprintf("%s o=%s h=%s l=%s c=%s v=%d", prefix,
			str(Price(m.Open)), str(Price(m.High)), str(Price(m.Low)), str(Price(m.Close)), m.Volume)
	case *dbn.InstrumentDefMsg:
		return fmt.Sprintf("%s symbol=%s class=%c exchange=%s", prefix, m.Symbol(), m.InstrumentClass, dbn.CStr(m.Exchange[:]))
	case *dbn.ErrorMsg:
		return fmt.Sprintf("%s code=%d msg=%q", prefix, m.Code, m.Message())
	case *dbn.SystemMsg:
		return fmt.Sprintf("%s code=%d msg=%q", prefix, m.Code, m.Message())
	case *dbn.SkippedRecord:
		return fmt.Sprintf("%s skipped body=%d", prefix, m.BodyLen)
	default:
		return prefix
	}
}
