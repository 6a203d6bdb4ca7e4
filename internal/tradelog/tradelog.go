// Package tradelog keeps the append-only record of every executed trade,
// independent of the portfolio checkpoint. The weekly reporter reads it
// back; the trading loop only ever appends.
package tradelog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"BtcSentinel/internal/model"
)

const timeLayout = "2006-01-02 15:04:05"

var header = []string{"timestamp", "side", "trade_type", "quantity", "price", "fee"}

// Log is a CSV-backed append-only trade log. The header is written once,
// when the file is first created.
type Log struct {
	filePath string
}

// New creates a Log backed by the given CSV file path.
func New(filePath string) *Log {
	return &Log{filePath: filePath}
}

// Append writes one trade record to the end of the log, creating the file
// with a header row if it doesn't exist yet.
func (l *Log) Append(rec model.TradeRecord) error {
	needHeader := true
	if info, err := os.Stat(l.filePath); err == nil && info.Size() > 0 {
		needHeader = false
	}

	f, err := os.OpenFile(l.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open trade log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needHeader {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write trade log header: %w", err)
		}
	}
	row := []string{
		rec.Date.Format(timeLayout),
		string(rec.Side),
		string(rec.Type),
		strconv.FormatFloat(rec.Quantity, 'f', -1, 64),
		strconv.FormatFloat(rec.Price, 'f', -1, 64),
		strconv.FormatFloat(rec.Fee, 'f', -1, 64),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write trade record: %w", err)
	}
	w.Flush()
	return w.Error()
}

// ReadSince returns every logged trade at or after the cutoff, in file
// (append) order. A missing log file yields an empty slice, not an error.
func (l *Log) ReadSince(cutoff time.Time) ([]model.TradeRecord, error) {
	f, err := os.Open(l.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open trade log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read trade log: %w", err)
	}

	var recs []model.TradeRecord
	for i, row := range rows {
		if i == 0 || len(row) < 6 {
			continue // header
		}
		date, err := time.Parse(timeLayout, row[0])
		if err != nil {
			return nil, fmt.Errorf("trade log line %d: %w", i+1, err)
		}
		if date.Before(cutoff) {
			continue
		}
		qty, _ := strconv.ParseFloat(row[3], 64)
		price, _ := strconv.ParseFloat(row[4], 64)
		fee, _ := strconv.ParseFloat(row[5], 64)
		recs = append(recs, model.TradeRecord{
			Date:     date,
			Side:     model.Side(row[1]),
			Type:     model.TradeType(row[2]),
			Quantity: qty,
			Price:    price,
			Fee:      fee,
		})
	}
	return recs, nil
}
