package strategy

import (
	"math"

	"BtcSentinel/internal/model"
)

// Thresholds are kept as ordered decision tables (first matching entry
// wins) so they can be unit-tested independently of the control flow.

// technicalModes classifies the row's indicator regime.
var technicalModes = []struct {
	match func(macdDelta, rsi float64) bool
	mode  model.TechnicalMode
	score int
}{
	// Strong momentum: MACD above its signal with RSI confirming.
	{func(d, rsi float64) bool { return d > 0 && rsi > 55 }, model.ModeMomentum, 2},
	// Low momentum consolidation range.
	{func(d, rsi float64) bool { return rsi > 30 && rsi < 50 && math.Abs(d) < 0.1 }, model.ModeRangeBound, 1},
}

// sentimentBands maps the fear & greed index to a contrarian score:
// deep fear boosts the score, extreme greed penalizes it.
var sentimentBands = []struct {
	maxIndex float64
	score    int
}{
	{24, 2},
	{49, 1},
	{74, 0},
	{math.MaxFloat64, -1},
}

// actionThresholds maps the combined score to an action class and a base
// allocation expressed as a fraction of the configured maximum.
var actionThresholds = []struct {
	match       func(score int) bool
	action      model.Action
	maxFraction float64 // multiplied by the configured max allocation
}{
	{func(s int) bool { return s >= 4 }, model.ActionAggressiveBuy, 1.0},
	{func(s int) bool { return s >= 2 }, model.ActionModerateBuy, 0.5},
	{func(s int) bool { return s <= -1 }, model.ActionAvoidEntry, 0},
	{func(s int) bool { return true }, model.ActionHoldDCAOnly, 0},
}

func classifyTechnical(row model.MarketRow) (model.TechnicalMode, int) {
	delta := row.MACDDelta()
	for _, t := range technicalModes {
		if t.match(delta, row.RSI) {
			return t.mode, t.score
		}
	}
	return model.ModeNeutral, 0
}

func scoreSentiment(index float64) int {
	for _, b := range sentimentBands {
		if index <= b.maxIndex {
			return b.score
		}
	}
	return -1
}

// Fuse combines the technical mode and the sentiment score of one row into
// an action class and a base allocation fraction. Pure function of the row.
func Fuse(row model.MarketRow, maxAllocation float64) model.Decision {
	mode, taScore := classifyTechnical(row)
	sentScore := scoreSentiment(row.Sentiment)
	combined := taScore + sentScore

	d := model.Decision{
		TechnicalMode:  mode,
		TechnicalScore: taScore,
		SentimentScore: sentScore,
		CombinedScore:  combined,
	}
	for _, t := range actionThresholds {
		if t.match(combined) {
			d.Action = t.action
			d.BaseAllocation = maxAllocation * t.maxFraction
			break
		}
	}
	return d
}

// Decide runs signal fusion and, for buy actions, applies the adaptive risk
// multiplier to the base allocation. The result is clamped to the configured
// maximum; if it lands below 10% of that maximum the action is relabeled as
// risk-blocked for reporting (the small allocation speaks for itself).
func Decide(row model.MarketRow, maxAllocation float64) model.Decision {
	d := Fuse(row, maxAllocation)

	if !d.Action.IsBuy() {
		d.Multiplier = 1.0
		d.Allocation = d.BaseAllocation
		return d
	}

	d.Multiplier = Multiplier(row, d.Action)
	d.Allocation = math.Min(d.BaseAllocation*d.Multiplier, maxAllocation)
	if d.Allocation < maxAllocation*0.1 {
		d.Action = d.Action.RiskBlocked()
	}
	return d
}
