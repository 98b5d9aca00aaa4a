package dbn_test

import (
	"fmt"

	"github.com/ssargent/tickwire/pkg/dbn"
	"github.com/ssargent/tickwire/pkg/internal/wiretest"
)

// ExampleStream demonstrates pulling records out of an in-memory capture,
// including the skip outcome for a record kind this package does not know.
func ExampleStream() {
	buf := wiretest.Stream(
		wiretest.Trade(42, 1_700_000_000_000_000_000),
		wiretest.Unknown(0x5A, 42, 40),
		wiretest.Mbo(42, 1_700_000_000_000_000_100),
	)

	s := dbn.NewStream(buf)
	for s.Next() {
		switch rec := s.Record().(type) {
		case *dbn.TradeMsg:
			fmt.Printf("trade: instrument=%d price=%d size=%d\n", rec.InstrumentID, rec.Price, rec.Size)
		case *dbn.MboMsg:
			fmt.Printf("mbo: order=%#x side=%c\n", rec.OrderID, rec.Side)
		case *dbn.SkippedRecord:
			fmt.Printf("skipped: %s (%d body bytes)\n", rec.RType, rec.BodyLen)
		}
	}
	if err := s.Err(); err != nil {
		fmt.Println("stream failed:", err)
	}

	// Output:
	// trade: instrument=42 price=1234500000000 size=7
	// skipped: rtype-0x5A (40 body bytes)
	// mbo: order=0xcafe side=B
}

// ExampleDecodeRecord decodes a single standalone record image.
func ExampleDecodeRecord() {
	rec, err := dbn.DecodeRecord(wiretest.Trade(7, 1_700_000_000_000_000_000))
	if err != nil {
		fmt.Println("decode failed:", err)
		return
	}
	trade := rec.(*dbn.TradeMsg)
	fmt.Printf("%s record for instrument %d\n", trade.RType, trade.InstrumentID)

	// Output:
	// trade record for instrument 7
}
