package model

import "strings"

// TechnicalMode classifies the technical-indicator regime of one row.
type TechnicalMode string

const (
	ModeMomentum   TechnicalMode = "MOMENTUM"
	ModeRangeBound TechnicalMode = "RANGE_BOUND"
	ModeNeutral    TechnicalMode = "NEUTRAL"
)

// Action is the discrete decision class produced by signal fusion.
type Action string

const (
	ActionAggressiveBuy Action = "AGGRESSIVE_BUY"
	ActionModerateBuy   Action = "MODERATE_BUY"
	ActionAvoidEntry    Action = "AVOID_ENTRY"
	ActionHoldDCAOnly   Action = "HOLD_DCA_ONLY"
)

// riskBlockedPrefix marks actions whose post-multiplier allocation fell
// below 10% of the configured maximum. Informational only: the low
// allocation itself is what keeps the tactical entry small or absent.
const riskBlockedPrefix = "RISK_BLOCKED_"

// IsBuy reports whether the action carries a buy/long marker.
func (a Action) IsBuy() bool {
	s := strings.ToUpper(string(a))
	return strings.Contains(s, "BUY") || strings.Contains(s, "LONG")
}

// IsFlat reports whether the action is a flat/hold class.
func (a Action) IsFlat() bool {
	s := strings.ToUpper(string(a))
	return strings.Contains(s, "FLAT") || strings.Contains(s, "HOLD")
}

// RiskBlocked returns the action relabeled as risk-blocked.
func (a Action) RiskBlocked() Action {
	return Action(riskBlockedPrefix + string(a))
}

// Decision is the fused output for one row: the action class, the scores
// that produced it, and the tactical allocation after the risk multiplier.
type Decision struct {
	Action         Action
	TechnicalMode  TechnicalMode
	TechnicalScore int
	SentimentScore int
	CombinedScore  int
	BaseAllocation float64
	Multiplier     float64
	Allocation     float64
}
