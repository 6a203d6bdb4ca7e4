package collector

import (
	"fmt"

	"BtcSentinel/internal/model"
)

// Fetcher retrieves the raw indicator series from a data source.
type Fetcher interface {
	Fetch() ([]model.MarketRow, error)
	Name() string
}

// Collector fetches the prepared series and validates it before the
// processor replays it. Any validation failure here fails the whole cycle;
// the processor logs it and retries on the next wake.
type Collector struct {
	fetcher Fetcher
	symbol  string
}

// NewCollector creates a Collector for the given symbol.
func NewCollector(fetcher Fetcher, symbol string) *Collector {
	return &Collector{fetcher: fetcher, symbol: symbol}
}

// Symbol returns the configured asset symbol.
func (c *Collector) Symbol() string {
	return c.symbol
}

// Collect fetches the full series and checks it is non-empty and strictly
// ascending by timestamp.
func (c *Collector) Collect() ([]model.MarketRow, error) {
	rows, err := c.fetcher.Fetch()
	if err != nil {
		return nil, fmt.Errorf("fetch %s series: %w", c.symbol, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s series is empty", c.symbol)
	}
	for i := 1; i < len(rows); i++ {
		if !rows[i].Date.After(rows[i-1].Date) {
			return nil, fmt.Errorf("%s series not strictly ascending at row %d (%s)",
				c.symbol, i, rows[i].Date.Format("2006-01-02"))
		}
	}
	return rows, nil
}
