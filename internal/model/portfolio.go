package model

import "time"

// Portfolio is the durable ledger state of the bot. It is owned by the
// running catch-up loop (single writer, no locking) and checkpointed to
// disk after every processed row.
//
// Invariants: Cash >= 0; HoldingsQty >= TacticalQty >= 0; at most one
// tactical position is open, and while it is, TacticalEntryPrice and
// StopLossLevel are both positive. Both reset to zero on close.
type Portfolio struct {
	Cash               float64   `json:"cash"`
	HoldingsQty        float64   `json:"holdings_qty"`
	TacticalQty        float64   `json:"tactical_qty"`
	TacticalEntryPrice float64   `json:"tactical_entry_price"`
	StopLossLevel      float64   `json:"stop_loss_level"`
	EquityUSD          float64   `json:"equity_usd"`
	LastProcessedAt    time.Time `json:"last_processed_at"`
	// LastReportAt is bookkeeping for the weekly reporter; the trading
	// loop never touches it.
	LastReportAt time.Time `json:"last_report_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasTacticalPosition reports whether a tactical position is open.
func (p *Portfolio) HasTacticalPosition() bool {
	return p.TacticalQty > 0
}
