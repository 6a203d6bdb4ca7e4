package notifier

import (
	"fmt"
	"strings"
	"time"

	"BtcSentinel/internal/model"
)

// tradeLabels maps trade types to the labels used in alert messages.
var tradeLabels = map[model.TradeType]string{
	model.TradeDCA:     "DCA BUY",
	model.TradeSwing:   "SWING ENTRY",
	model.TradeSwingSL: "SWING EXIT (stop-loss)",
	model.TradeSwingTP: "SWING EXIT (take-profit)",
}

// FormatRowTrades builds one alert summarizing all trades executed for a
// single processed row.
func FormatRowTrades(date time.Time, trades []model.TradeRecord, d model.Decision, state model.Portfolio) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🤖 *DAILY TRADES EXECUTED* on %s\n", date.Format("2006-01-02")))
	b.WriteString("Executed trade events:\n")
	for _, t := range trades {
		label, ok := tradeLabels[t.Type]
		if !ok {
			label = string(t.Type)
		}
		b.WriteString(fmt.Sprintf("- %s: %.6f @ %.2f (fee %.2f)\n", label, t.Quantity, t.Price, t.Fee))
	}
	b.WriteString(fmt.Sprintf("Final action: *%s* (mode %s, score %+d, multiplier %.2f)\n",
		d.Action, d.TechnicalMode, d.CombinedScore, d.Multiplier))
	b.WriteString(fmt.Sprintf("Equity: $%.2f | Holdings: %.6f", state.EquityUSD, state.HoldingsQty))
	return b.String()
}

// FormatCriticalError builds the alert sent when a whole cycle fails.
func FormatCriticalError(err error) string {
	return fmt.Sprintf("🚨 *CRITICAL ERROR* in trading loop:\n%v", err)
}

// FormatStartup builds the announcement sent once when the loop starts.
func FormatStartup(symbol string) string {
	return fmt.Sprintf("✅ *BOT STARTUP SUCCESSFUL!* Trading loop for %s initialized and running.", symbol)
}
