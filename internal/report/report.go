// Package report builds the weekly performance summary from the durable
// portfolio checkpoint and the trade log. It only reads both; the running
// loop is never touched.
package report

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"BtcSentinel/internal/model"
	"BtcSentinel/internal/portfolio"
	"BtcSentinel/internal/tradelog"
)

// WeeklySummary aggregates the last week's trade activity.
type WeeklySummary struct {
	TotalTrades int
	DCABuys     int
	SwingTrades int
	TotalFees   float64
}

// BuildSummary tallies trades by type. Any Swing-tagged type (entry,
// stop-loss, take-profit) counts as a swing trade.
func BuildSummary(trades []model.TradeRecord) WeeklySummary {
	var s WeeklySummary
	for _, t := range trades {
		s.TotalTrades++
		s.TotalFees += t.Fee
		switch {
		case t.Type == model.TradeDCA:
			s.DCABuys++
		case strings.HasPrefix(string(t.Type), string(model.TradeSwing)):
			s.SwingTrades++
		}
	}
	return s
}

var bodyTemplate = template.Must(template.New("weekly").Parse(`<html>
  <body>
    <h2>Weekly Trading Bot Performance Summary</h2>
    <p>This report covers the past week's activity and the current state of the portfolio as of {{.Now}}.</p>

    <h3>Portfolio Snapshot:</h3>
    <ul>
      <li><strong>Portfolio Value:</strong> ${{printf "%.2f" .Equity}}</li>
      <li><strong>Holdings:</strong> {{printf "%.6f" .Holdings}} {{.Symbol}}, ${{printf "%.2f" .Cash}} Cash</li>
    </ul>

    <h3>Weekly Metrics:</h3>
    <ul>
      <li><strong>P/L vs starting budget:</strong> {{.PnLPct}}, ${{.PnLUSD}}</li>
      <li><strong>Total Trades:</strong> {{.Summary.TotalTrades}} ({{.Summary.DCABuys}} DCA, {{.Summary.SwingTrades}} swing)</li>
      <li><strong>Total Fees Paid:</strong> ${{printf "%.2f" .Summary.TotalFees}}</li>
    </ul>
  </body>
</html>
`))

// Generator renders the weekly report from persisted state.
type Generator struct {
	stateFile    string
	tradeLog     *tradelog.Log
	symbol       string
	startingCash float64
}

// NewGenerator creates a Generator reading the given checkpoint and log.
func NewGenerator(stateFile string, tl *tradelog.Log, symbol string, startingCash float64) *Generator {
	return &Generator{
		stateFile:    stateFile,
		tradeLog:     tl,
		symbol:       symbol,
		startingCash: startingCash,
	}
}

// Generate loads the checkpoint and the last week of trades and renders the
// email subject and HTML body. P/L uses the starting budget as baseline; a
// proper week-over-week comparison would need a weekly equity snapshot.
func (g *Generator) Generate(now time.Time) (subject, htmlBody string, err error) {
	state, err := portfolio.LoadState(g.stateFile)
	if err != nil {
		return "", "", fmt.Errorf("load portfolio checkpoint: %w", err)
	}

	trades, err := g.tradeLog.ReadSince(now.AddDate(0, 0, -7))
	if err != nil {
		return "", "", fmt.Errorf("read trade log: %w", err)
	}
	summary := BuildSummary(trades)

	equity := state.EquityUSD
	if equity == 0 {
		equity = g.startingCash
	}
	pnlUSD := equity - g.startingCash
	pnlPct := 0.0
	if g.startingCash > 0 {
		pnlPct = pnlUSD / g.startingCash * 100
	}

	subject = fmt.Sprintf("Weekly Trading Bot Report - P/L: %+.2f USD (%+.2f%%)", pnlUSD, pnlPct)

	var b strings.Builder
	err = bodyTemplate.Execute(&b, map[string]any{
		"Now":      now.Format("2006-01-02 15:04:05"),
		"Equity":   equity,
		"Holdings": state.HoldingsQty,
		"Cash":     state.Cash,
		"Symbol":   g.symbol,
		"PnLUSD":   fmt.Sprintf("%+.2f", pnlUSD),
		"PnLPct":   fmt.Sprintf("%+.2f%%", pnlPct),
		"Summary":  summary,
	})
	if err != nil {
		return "", "", fmt.Errorf("render report: %w", err)
	}
	return subject, b.String(), nil
}
