package executor

import (
	"log"

	"BtcSentinel/internal/model"
)

// Params holds the execution parameters shared by all three transitions.
type Params struct {
	CommissionRate    float64 // applied multiplicatively to traded notional
	PeriodicAmount    float64 // base periodic accumulation amount, in cash
	OversoldRSI       float64 // below this, the periodic amount is boosted
	OversoldBoost     float64 // periodic amount multiplier when oversold
	StopATRMultiplier float64 // stop distance in ATR units
	TakeProfitGain    float64 // fractional gain that triggers a take-profit
}

// TradeSink receives every executed trade. Append failures are logged and
// swallowed so a broken log never blocks execution.
type TradeSink interface {
	Append(rec model.TradeRecord) error
}

// Executor applies the three trade state transitions to a portfolio:
// periodic accumulation, tactical open, tactical close. Each transition is
// independently gated by its own preconditions; a failed precondition is a
// normal "not executed" outcome, never an error.
type Executor struct {
	params Params
	sink   TradeSink
}

// New creates an Executor writing executed trades to sink.
func New(params Params, sink TradeSink) *Executor {
	return &Executor{params: params, sink: sink}
}

// PeriodicBuy executes the fixed-cadence accumulation purchase, boosted
// when RSI is below the oversold threshold. No-op if cash cannot cover the
// full amount.
func (e *Executor) PeriodicBuy(row model.MarketRow, p *model.Portfolio) (model.TradeRecord, bool) {
	amount := e.params.PeriodicAmount
	if row.RSI < e.params.OversoldRSI {
		amount *= e.params.OversoldBoost
	}

	if p.Cash < amount {
		return model.TradeRecord{}, false
	}

	fee := amount * e.params.CommissionRate
	qty := (amount - fee) / row.Close

	p.Cash -= amount
	p.HoldingsQty += qty

	rec := model.TradeRecord{
		Date:     row.Date,
		Side:     model.SideBuy,
		Type:     model.TradeDCA,
		Quantity: qty,
		Price:    row.Close,
		Fee:      fee,
	}
	e.record(rec)
	return rec, true
}

// OpenTactical opens a swing position sized by the given allocation
// fraction of current cash, with a volatility-scaled protective stop at
// close − ATR × multiplier. No-op while a position is already open or when
// the allocation yields a zero budget.
func (e *Executor) OpenTactical(row model.MarketRow, p *model.Portfolio, allocation float64) (model.TradeRecord, bool) {
	if p.HasTacticalPosition() {
		return model.TradeRecord{}, false
	}

	budget := p.Cash * allocation
	if budget <= 0 {
		return model.TradeRecord{}, false
	}

	entry := row.Close
	fee := budget * e.params.CommissionRate
	qty := (budget - fee) / entry

	p.Cash -= budget
	p.HoldingsQty += qty
	p.TacticalQty = qty
	p.TacticalEntryPrice = entry
	p.StopLossLevel = entry - row.ATR*e.params.StopATRMultiplier

	rec := model.TradeRecord{
		Date:     row.Date,
		Side:     model.SideBuy,
		Type:     model.TradeSwing,
		Quantity: qty,
		Price:    entry,
		Fee:      fee,
	}
	e.record(rec)
	return rec, true
}

// CloseTactical closes the open swing position when an exit condition is
// met, stop-loss taking priority over take-profit. A stop-loss fills at the
// stop level itself (slippage-free stop model), a take-profit at the
// observed close. No-op when no position is open or neither condition holds.
func (e *Executor) CloseTactical(row model.MarketRow, p *model.Portfolio) (model.TradeRecord, bool) {
	if !p.HasTacticalPosition() {
		return model.TradeRecord{}, false
	}

	var exitPrice float64
	var exitType model.TradeType
	switch {
	case row.Close < p.StopLossLevel:
		exitPrice = p.StopLossLevel
		exitType = model.TradeSwingSL
	case row.Close >= p.TacticalEntryPrice*(1+e.params.TakeProfitGain):
		exitPrice = row.Close
		exitType = model.TradeSwingTP
	default:
		return model.TradeRecord{}, false
	}

	qty := p.TacticalQty
	proceeds := qty * exitPrice
	fee := proceeds * e.params.CommissionRate

	p.Cash += proceeds - fee
	p.HoldingsQty -= qty
	p.TacticalQty = 0
	p.TacticalEntryPrice = 0
	p.StopLossLevel = 0

	rec := model.TradeRecord{
		Date:     row.Date,
		Side:     model.SideSell,
		Type:     exitType,
		Quantity: qty,
		Price:    exitPrice,
		Fee:      fee,
	}
	e.record(rec)
	return rec, true
}

// ProcessRow applies all three transitions to one row in fixed order:
// tactical close first, then periodic accumulation, then tactical open.
// Because the close runs first, a position exited on this row may be
// reopened on the same row if the fused signal calls for it; that same-day
// re-entry is intentional. Returns every trade executed for the row.
func (e *Executor) ProcessRow(row model.MarketRow, p *model.Portfolio, d model.Decision) []model.TradeRecord {
	var trades []model.TradeRecord

	if rec, ok := e.CloseTactical(row, p); ok {
		trades = append(trades, rec)
	}
	if rec, ok := e.PeriodicBuy(row, p); ok {
		trades = append(trades, rec)
	}
	if d.Action.IsBuy() && !p.HasTacticalPosition() && d.Allocation > 0 {
		if rec, ok := e.OpenTactical(row, p, d.Allocation); ok {
			trades = append(trades, rec)
		}
	}
	return trades
}

func (e *Executor) record(rec model.TradeRecord) {
	if e.sink == nil {
		return
	}
	if err := e.sink.Append(rec); err != nil {
		log.Printf("[WARN] append trade log: %v", err)
	}
}
