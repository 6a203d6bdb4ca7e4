package model

import "time"

// Side is the direction of an executed trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// TradeType tags which executor path produced a trade.
type TradeType string

const (
	TradeDCA     TradeType = "DCA"     // periodic accumulation
	TradeSwing   TradeType = "Swing"   // tactical entry
	TradeSwingSL TradeType = "SwingSL" // tactical stop-loss exit
	TradeSwingTP TradeType = "SwingTP" // tactical take-profit exit
)

// TradeRecord is one immutable row of the append-only trade log.
type TradeRecord struct {
	Date     time.Time
	Side     Side
	Type     TradeType
	Quantity float64
	Price    float64
	Fee      float64
}
