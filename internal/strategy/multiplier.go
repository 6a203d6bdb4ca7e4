package strategy

import "BtcSentinel/internal/model"

// Multiplier bounds.
const (
	multiplierMin = 0.0
	multiplierMax = 1.5
)

// Multiplier computes the rule-based adaptive risk multiplier for a buy
// action by checking whether the MACD trend, sentiment extremes, and RSI
// confirm it. Non-buy and flat/hold actions are neutral (exactly 1.0).
//
// Starting from 1.0, three independent adjustments apply once each:
// trend confirmation (±0.2), sentiment-extreme contrarian bias (±0.3),
// and a momentum-exhaustion filter (∓0.1). The result is clamped to
// [0.0, 1.5]. Pure and deterministic.
func Multiplier(row model.MarketRow, action model.Action) float64 {
	if action.IsFlat() || !action.IsBuy() {
		return 1.0
	}

	m := 1.0

	// MACD trend confirmation: positive delta agrees with a long entry.
	if row.MACDDelta() > 0 {
		m += 0.2
	} else {
		m -= 0.2
	}

	// Sentiment extremes, read contrarian: extreme fear rewards a long
	// entry, extreme greed punishes it.
	switch {
	case row.Sentiment <= 30:
		m += 0.3
	case row.Sentiment >= 70:
		m -= 0.3
	}

	// Momentum exhaustion: RSI already over-extended upward penalizes the
	// entry; an oversold extreme rewards it.
	switch {
	case row.RSI >= 75:
		m -= 0.1
	case row.RSI <= 30:
		m += 0.1
	}

	if m < multiplierMin {
		return multiplierMin
	}
	if m > multiplierMax {
		return multiplierMax
	}
	return m
}
