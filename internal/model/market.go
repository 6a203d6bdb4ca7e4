package model

import "time"

// MarketRow is one daily observation from the prepared indicator series.
// All indicator values arrive precomputed; the engine only reads them.
type MarketRow struct {
	Date       time.Time
	Close      float64
	RSI        float64
	MACD       float64
	MACDSignal float64
	ATR        float64
	Sentiment  float64 // fear & greed index, 0-100, lower = more fearful
}

// MACDDelta is the distance of MACD above its signal line.
func (r MarketRow) MACDDelta() float64 {
	return r.MACD - r.MACDSignal
}
