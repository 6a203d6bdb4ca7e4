package recorder

import "BtcSentinel/internal/model"

// DecisionSnapshot holds everything recorded for one processed row: the
// observed indicators, the fused decision, and the ledger after execution.
type DecisionSnapshot struct {
	Row      model.MarketRow
	Decision model.Decision
	Cash     float64
	Holdings float64
	Equity   float64
}

// Recorder persists per-row history for dashboards and after-the-fact
// analysis. It is strictly additive; nothing in the trading path reads it.
type Recorder interface {
	RecordDecision(snap *DecisionSnapshot) error
	RecordTrade(rec *model.TradeRecord) error
	Close() error
}
