package recorder

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"

	"BtcSentinel/internal/model"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read
	// while the bot writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS decision_snapshots (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			row_date        INTEGER NOT NULL,
			close           REAL,
			rsi             REAL,
			macd            REAL,
			macd_signal     REAL,
			atr             REAL,
			sentiment       REAL,
			technical_mode  TEXT,
			technical_score INTEGER,
			sentiment_score INTEGER,
			combined_score  INTEGER,
			action          TEXT,
			multiplier      REAL,
			allocation      REAL,
			cash            REAL,
			holdings_qty    REAL,
			equity_usd      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decision_date ON decision_snapshots(row_date)`,

		`CREATE TABLE IF NOT EXISTS trade_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			trade_date INTEGER NOT NULL,
			side       TEXT,
			trade_type TEXT,
			quantity   REAL,
			price      REAL,
			fee        REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trade_date ON trade_events(trade_date)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordDecision(snap *DecisionSnapshot) error {
	row := snap.Row
	d := snap.Decision
	_, err := r.db.Exec(`INSERT INTO decision_snapshots
		(row_date, close, rsi, macd, macd_signal, atr, sentiment,
		 technical_mode, technical_score, sentiment_score, combined_score,
		 action, multiplier, allocation, cash, holdings_qty, equity_usd)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		row.Date.Unix(), row.Close, row.RSI, row.MACD, row.MACDSignal, row.ATR, row.Sentiment,
		string(d.TechnicalMode), d.TechnicalScore, d.SentimentScore, d.CombinedScore,
		string(d.Action), d.Multiplier, d.Allocation,
		snap.Cash, snap.Holdings, snap.Equity,
	)
	return err
}

func (r *SQLiteRecorder) RecordTrade(rec *model.TradeRecord) error {
	_, err := r.db.Exec(`INSERT INTO trade_events
		(trade_date, side, trade_type, quantity, price, fee)
		VALUES (?,?,?,?,?,?)`,
		rec.Date.Unix(), string(rec.Side), string(rec.Type),
		rec.Quantity, rec.Price, rec.Fee,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
