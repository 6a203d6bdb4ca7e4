package executor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BtcSentinel/internal/model"
)

type memSink struct {
	records []model.TradeRecord
}

func (s *memSink) Append(rec model.TradeRecord) error {
	s.records = append(s.records, rec)
	return nil
}

func testParams() Params {
	return Params{
		CommissionRate:    0.002,
		PeriodicAmount:    100.0,
		OversoldRSI:       30,
		OversoldBoost:     1.5,
		StopATRMultiplier: 3.0,
		TakeProfitGain:    0.05,
	}
}

func day(n int) time.Time {
	return time.Date(2025, 1, n, 0, 0, 0, 0, time.UTC)
}

func TestPeriodicBuy_OversoldBoost(t *testing.T) {
	sink := &memSink{}
	e := New(testParams(), sink)
	p := &model.Portfolio{Cash: 100000}
	row := model.MarketRow{Date: day(1), Close: 50000, RSI: 25}

	rec, ok := e.PeriodicBuy(row, p)
	require.True(t, ok)

	// amount = 100 * 1.5 = 150, fee = 0.3, qty = 149.7 / 50000
	assert.InDelta(t, 0.3, rec.Fee, 1e-9)
	assert.InDelta(t, 149.7/50000, rec.Quantity, 1e-12)
	assert.InDelta(t, 99850, p.Cash, 1e-9)
	assert.InDelta(t, 149.7/50000, p.HoldingsQty, 1e-12)
	assert.Equal(t, model.TradeDCA, rec.Type)
	assert.Equal(t, model.SideBuy, rec.Side)
	assert.Len(t, sink.records, 1)
}

func TestPeriodicBuy_NoBoostAtThreshold(t *testing.T) {
	e := New(testParams(), &memSink{})
	p := &model.Portfolio{Cash: 1000}
	row := model.MarketRow{Date: day(1), Close: 50000, RSI: 30}

	rec, ok := e.PeriodicBuy(row, p)
	require.True(t, ok)
	assert.InDelta(t, 0.2, rec.Fee, 1e-9) // base 100, no boost
	assert.InDelta(t, 900, p.Cash, 1e-9)
}

func TestPeriodicBuy_InsufficientCashIsNoOp(t *testing.T) {
	sink := &memSink{}
	e := New(testParams(), sink)
	p := &model.Portfolio{Cash: 99.99}
	row := model.MarketRow{Date: day(1), Close: 50000, RSI: 50}

	_, ok := e.PeriodicBuy(row, p)
	assert.False(t, ok)
	assert.InDelta(t, 99.99, p.Cash, 1e-9)
	assert.Zero(t, p.HoldingsQty)
	assert.Empty(t, sink.records)
}

func TestOpenTactical_SetsVolatilityStop(t *testing.T) {
	e := New(testParams(), &memSink{})
	p := &model.Portfolio{Cash: 10000}
	row := model.MarketRow{Date: day(1), Close: 60000, ATR: 1000}

	rec, ok := e.OpenTactical(row, p, 0.5)
	require.True(t, ok)

	// budget = 5000, fee = 10, qty = 4990/60000
	assert.InDelta(t, 10, rec.Fee, 1e-9)
	assert.InDelta(t, 4990.0/60000, rec.Quantity, 1e-12)
	assert.InDelta(t, 5000, p.Cash, 1e-9)
	assert.InDelta(t, 57000, p.StopLossLevel, 1e-9) // 60000 - 1000*3
	assert.InDelta(t, 60000, p.TacticalEntryPrice, 1e-9)
	assert.InDelta(t, rec.Quantity, p.TacticalQty, 1e-12)
	assert.InDelta(t, rec.Quantity, p.HoldingsQty, 1e-12)
	assert.Equal(t, model.TradeSwing, rec.Type)
}

func TestOpenTactical_SinglePositionOnly(t *testing.T) {
	e := New(testParams(), &memSink{})
	p := &model.Portfolio{Cash: 10000}
	row := model.MarketRow{Date: day(1), Close: 60000, ATR: 1000}

	_, ok := e.OpenTactical(row, p, 0.5)
	require.True(t, ok)
	qtyAfterFirst := p.TacticalQty

	_, ok = e.OpenTactical(row, p, 0.5)
	assert.False(t, ok, "second open while position is held must be rejected")
	assert.Equal(t, qtyAfterFirst, p.TacticalQty)
}

func TestCloseTactical_StopLossFillsAtStopLevel(t *testing.T) {
	e := New(testParams(), &memSink{})
	p := &model.Portfolio{
		Cash:               1000,
		HoldingsQty:        0.1,
		TacticalQty:        0.1,
		TacticalEntryPrice: 60000,
		StopLossLevel:      57000,
	}
	row := model.MarketRow{Date: day(2), Close: 56000}

	rec, ok := e.CloseTactical(row, p)
	require.True(t, ok)

	// Exit at the stop level, not the observed close.
	assert.Equal(t, model.TradeSwingSL, rec.Type)
	assert.InDelta(t, 57000, rec.Price, 1e-9)

	proceeds := 0.1 * 57000.0
	fee := proceeds * 0.002
	assert.InDelta(t, fee, rec.Fee, 1e-9)
	assert.InDelta(t, 1000+proceeds-fee, p.Cash, 1e-9)
	assert.Zero(t, p.TacticalQty)
	assert.Zero(t, p.TacticalEntryPrice)
	assert.Zero(t, p.StopLossLevel)
	assert.InDelta(t, 0, p.HoldingsQty, 1e-12)
}

func TestCloseTactical_TakeProfitAtExactGain(t *testing.T) {
	e := New(testParams(), &memSink{})
	p := &model.Portfolio{
		Cash:               0,
		HoldingsQty:        0.2,
		TacticalQty:        0.2,
		TacticalEntryPrice: 50000,
		StopLossLevel:      47000,
	}
	// Exactly +5%: must trigger and fill at the market close.
	row := model.MarketRow{Date: day(3), Close: 52500}

	rec, ok := e.CloseTactical(row, p)
	require.True(t, ok)
	assert.Equal(t, model.TradeSwingTP, rec.Type)
	assert.InDelta(t, 52500, rec.Price, 1e-9)
}

func TestCloseTactical_NoExitCondition(t *testing.T) {
	e := New(testParams(), &memSink{})
	p := &model.Portfolio{
		Cash:               0,
		HoldingsQty:        0.2,
		TacticalQty:        0.2,
		TacticalEntryPrice: 50000,
		StopLossLevel:      47000,
	}
	row := model.MarketRow{Date: day(3), Close: 51000} // above stop, below +5%

	_, ok := e.CloseTactical(row, p)
	assert.False(t, ok)
	assert.InDelta(t, 0.2, p.TacticalQty, 1e-12)
}

func TestCloseTactical_StopLossTakesPriority(t *testing.T) {
	// Degenerate state where the close is both under the stop and over the
	// take-profit line; the stop must win.
	e := New(testParams(), &memSink{})
	p := &model.Portfolio{
		HoldingsQty:        0.1,
		TacticalQty:        0.1,
		TacticalEntryPrice: 40000,
		StopLossLevel:      50000,
	}
	row := model.MarketRow{Date: day(4), Close: 45000}

	rec, ok := e.CloseTactical(row, p)
	require.True(t, ok)
	assert.Equal(t, model.TradeSwingSL, rec.Type)
	assert.InDelta(t, 50000, rec.Price, 1e-9)
}

func TestProcessRow_LedgerConservation(t *testing.T) {
	e := New(testParams(), &memSink{})
	p := &model.Portfolio{Cash: 100000}
	row := model.MarketRow{Date: day(1), Close: 50000, RSI: 25, ATR: 1000}
	d := model.Decision{Action: model.ActionAggressiveBuy, Allocation: 0.6}

	trades := e.ProcessRow(row, p, d)
	require.Len(t, trades, 2) // DCA buy then swing entry

	// Every buy: cash_before - cash_after == notional, and holdings grow
	// by exactly (notional - fee) / price.
	cash := 100000.0
	holdings := 0.0
	for _, tr := range trades {
		notional := tr.Quantity*tr.Price + tr.Fee
		cash -= notional
		holdings += tr.Quantity
	}
	assert.InDelta(t, cash, p.Cash, 1e-6)
	assert.InDelta(t, holdings, p.HoldingsQty, 1e-12)
}

func TestProcessRow_SameDayReopenAfterClose(t *testing.T) {
	sink := &memSink{}
	e := New(testParams(), sink)
	p := &model.Portfolio{
		Cash:               50000,
		HoldingsQty:        0.1,
		TacticalQty:        0.1,
		TacticalEntryPrice: 40000,
		StopLossLevel:      37000,
	}
	// Take-profit fires, then the buy signal reopens on the same row.
	row := model.MarketRow{Date: day(5), Close: 42000, RSI: 60, ATR: 500}
	d := model.Decision{Action: model.ActionAggressiveBuy, Allocation: 0.3}

	trades := e.ProcessRow(row, p, d)
	require.Len(t, trades, 3)
	assert.Equal(t, model.TradeSwingTP, trades[0].Type)
	assert.Equal(t, model.TradeDCA, trades[1].Type)
	assert.Equal(t, model.TradeSwing, trades[2].Type)
	assert.True(t, p.HasTacticalPosition())
	assert.InDelta(t, 42000, p.TacticalEntryPrice, 1e-9)
}

func TestProcessRow_NoOpenWithoutBuySignal(t *testing.T) {
	e := New(testParams(), &memSink{})
	p := &model.Portfolio{Cash: 100000}
	row := model.MarketRow{Date: day(1), Close: 50000, RSI: 50, ATR: 1000}
	d := model.Decision{Action: model.ActionHoldDCAOnly, Allocation: 0}

	trades := e.ProcessRow(row, p, d)
	require.Len(t, trades, 1)
	assert.Equal(t, model.TradeDCA, trades[0].Type)
	assert.False(t, p.HasTacticalPosition())
}
