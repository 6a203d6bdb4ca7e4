package collector

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"BtcSentinel/internal/model"
)

// requiredColumns are the columns the strategy depends on. A series
// missing any of them is rejected wholesale.
var requiredColumns = []string{"Date", "Close", "RSI", "MACD", "MACD_Signal", "ATR", "FGI_Score"}

// dateLayouts accepted in the Date column.
var dateLayouts = []string{"2006-01-02 15:04:05", "2006-01-02", time.RFC3339}

// CSVFetcher reads the merged price/indicator series from a local CSV file
// prepared by the upstream data pipeline. Extra columns are ignored.
type CSVFetcher struct {
	filePath string
}

// NewCSVFetcher creates a fetcher for the given CSV file.
func NewCSVFetcher(filePath string) *CSVFetcher {
	return &CSVFetcher{filePath: filePath}
}

// Name identifies the data source.
func (f *CSVFetcher) Name() string {
	return "csv:" + f.filePath
}

// Fetch reads and parses the full series, sorted ascending by date.
func (f *CSVFetcher) Fetch() ([]model.MarketRow, error) {
	file, err := os.Open(f.filePath)
	if err != nil {
		return nil, fmt.Errorf("open series file: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read series file: %w", err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("series file %s has no header", f.filePath)
	}

	cols := map[string]int{}
	for i, name := range records[0] {
		cols[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("series file missing required column %q", name)
		}
	}

	rows := make([]model.MarketRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		row, err := parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("series line %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows, nil
}

func parseRow(rec []string, cols map[string]int) (model.MarketRow, error) {
	field := func(name string) (string, error) {
		idx := cols[name]
		if idx >= len(rec) {
			return "", fmt.Errorf("short row, missing %s", name)
		}
		return rec[idx], nil
	}

	var row model.MarketRow

	dateStr, err := field("Date")
	if err != nil {
		return row, err
	}
	row.Date, err = parseDate(dateStr)
	if err != nil {
		return row, err
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"Close", &row.Close},
		{"RSI", &row.RSI},
		{"MACD", &row.MACD},
		{"MACD_Signal", &row.MACDSignal},
		{"ATR", &row.ATR},
		{"FGI_Score", &row.Sentiment},
	}
	for _, f := range floats {
		s, err := field(f.name)
		if err != nil {
			return row, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return row, fmt.Errorf("parse %s %q: %w", f.name, s, err)
		}
		*f.dst = v
	}
	return row, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
