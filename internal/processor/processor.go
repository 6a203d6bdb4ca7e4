// Package processor runs the batch catch-up loop: once per wake cycle it
// validates the incoming series, computes a lookback watermark, replays
// every row newer than the watermark through the decision and execution
// pipeline, and checkpoints the ledger after each row.
package processor

import (
	"context"
	"fmt"
	"log"
	"time"

	"BtcSentinel/internal/collector"
	"BtcSentinel/internal/executor"
	"BtcSentinel/internal/model"
	"BtcSentinel/internal/notifier"
	"BtcSentinel/internal/portfolio"
	"BtcSentinel/internal/recorder"
	"BtcSentinel/internal/strategy"
)

// Processor orchestrates one sequential trading loop. It is the sole owner
// of the ledger while running; rows are replayed strictly in ascending
// timestamp order with no concurrency.
type Processor struct {
	collector     *collector.Collector
	ledger        *portfolio.Manager
	exec          *executor.Executor
	notifier      notifier.Sender
	recorder      recorder.Recorder
	maxAllocation float64
	lookback      time.Duration
	interval      time.Duration
}

// New creates a Processor.
func New(col *collector.Collector, ledger *portfolio.Manager, exec *executor.Executor,
	sender notifier.Sender, rec recorder.Recorder,
	maxAllocation float64, lookback, interval time.Duration) *Processor {
	return &Processor{
		collector:     col,
		ledger:        ledger,
		exec:          exec,
		notifier:      sender,
		recorder:      rec,
		maxAllocation: maxAllocation,
		lookback:      lookback,
		interval:      interval,
	}
}

// Run executes catch-up cycles until ctx is cancelled, sleeping the
// configured interval between cycles. A failed cycle never terminates the
// loop; it is logged, alerted, and retried after the normal wait.
func (p *Processor) Run(ctx context.Context) {
	for {
		p.safeCycle()

		log.Printf("[INFO] waiting %s until next cycle", p.interval)
		select {
		case <-ctx.Done():
			log.Println("[INFO] processor stopped")
			return
		case <-time.After(p.interval):
		}
	}
}

// safeCycle runs one cycle and contains every failure at the cycle level:
// logged, reported via the notifier as a critical alert, and dropped so the
// loop can continue.
func (p *Processor) safeCycle() {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic in cycle: %v", r)
			log.Printf("[ERROR] %v", err)
			p.trySend(notifier.FormatCriticalError(err))
		}
	}()

	if err := p.RunCycle(); err != nil {
		log.Printf("[ERROR] cycle failed: %v", err)
		p.trySend(notifier.FormatCriticalError(err))
	}
}

// RunCycle performs one full catch-up pass: validate, window, replay.
// Validation failures (missing columns, unreadable or empty source) are
// expected operational conditions: logged and skipped, no alert, nil error.
func (p *Processor) RunCycle() error {
	rows, err := p.collector.Collect()
	if err != nil {
		log.Printf("[WARN] data validation failed, skipping cycle: %v", err)
		return nil
	}

	state := p.ledger.Portfolio()

	// Windowing. The resume point is recomputed every cycle as the latest
	// available timestamp minus the lookback, deliberately ignoring the
	// stored watermark. This is observed legacy behavior: it can replay
	// rows already executed or skip rows older than the window. Resuming
	// strictly after LastProcessedAt instead is the known alternative.
	latest := rows[len(rows)-1].Date
	watermark := latest.Add(-p.lookback)
	state.LastProcessedAt = watermark
	log.Printf("[INFO] lookback watermark set to %s", watermark.Format("2006-01-02"))

	pending := pendingRows(rows, watermark)
	if len(pending) == 0 {
		log.Printf("[INFO] no new data since %s", watermark.Format("2006-01-02"))
		return nil
	}

	log.Printf("[INFO] replaying %d new data points", len(pending))

	var lastDecision model.Decision
	for _, row := range pending {
		lastDecision = p.processRow(row, state)
	}

	log.Printf("[INFO] batch done: %d rows, final action %s, equity $%.2f, holdings %.6f",
		len(pending), lastDecision.Action, state.EquityUSD, state.HoldingsQty)
	return nil
}

// processRow runs fusion, multiplier, and execution for one row, then
// advances the watermark, recomputes equity, and checkpoints. The trade's
// ledger effects are fully applied before the checkpoint write, so a crash
// loses at most this one row's progress.
func (p *Processor) processRow(row model.MarketRow, state *model.Portfolio) model.Decision {
	d := strategy.Decide(row, p.maxAllocation)
	trades := p.exec.ProcessRow(row, state, d)

	state.LastProcessedAt = row.Date
	state.EquityUSD = state.Cash + state.HoldingsQty*row.Close

	if err := p.ledger.Checkpoint(); err != nil {
		log.Printf("[WARN] checkpoint failed, continuing with in-memory state: %v", err)
	}

	if err := p.recorder.RecordDecision(&recorder.DecisionSnapshot{
		Row:      row,
		Decision: d,
		Cash:     state.Cash,
		Holdings: state.HoldingsQty,
		Equity:   state.EquityUSD,
	}); err != nil {
		log.Printf("[WARN] record decision: %v", err)
	}
	for i := range trades {
		if err := p.recorder.RecordTrade(&trades[i]); err != nil {
			log.Printf("[WARN] record trade: %v", err)
		}
	}

	if len(trades) > 0 {
		p.trySend(notifier.FormatRowTrades(row.Date, trades, d, *state))
	}

	log.Printf("[INFO] > [%s] action: %s | equity: $%.2f",
		row.Date.Format("2006-01-02"), d.Action, state.EquityUSD)
	return d
}

func pendingRows(rows []model.MarketRow, watermark time.Time) []model.MarketRow {
	for i, r := range rows {
		if r.Date.After(watermark) {
			return rows[i:]
		}
	}
	return nil
}

func (p *Processor) trySend(text string) {
	if err := p.notifier.Send(text); err != nil {
		log.Printf("[WARN] send notification: %v", err)
	}
}
