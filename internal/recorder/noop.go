package recorder

import "BtcSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordDecision(_ *DecisionSnapshot) error { return nil }
func (n *NoopRecorder) RecordTrade(_ *model.TradeRecord) error   { return nil }
func (n *NoopRecorder) Close() error                             { return nil }
