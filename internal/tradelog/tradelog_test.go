package tradelog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BtcSentinel/internal/model"
)

func rec(day int, typ model.TradeType) model.TradeRecord {
	side := model.SideBuy
	if typ == model.TradeSwingSL || typ == model.TradeSwingTP {
		side = model.SideSell
	}
	return model.TradeRecord{
		Date:     time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC),
		Side:     side,
		Type:     typ,
		Quantity: 0.0015,
		Price:    50000,
		Fee:      0.3,
	}
}

func TestAppend_HeaderWrittenOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	l := New(path)

	require.NoError(t, l.Append(rec(1, model.TradeDCA)))
	require.NoError(t, l.Append(rec(2, model.TradeSwing)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "timestamp,side,trade_type,quantity,price,fee", lines[0])
	assert.Equal(t, 1, strings.Count(string(data), "timestamp,"))
}

func TestReadSince_RoundTripAndCutoff(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	l := New(path)

	require.NoError(t, l.Append(rec(1, model.TradeDCA)))
	require.NoError(t, l.Append(rec(5, model.TradeSwing)))
	require.NoError(t, l.Append(rec(9, model.TradeSwingTP)))

	all, err := l.ReadSince(time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, model.TradeDCA, all[0].Type)
	assert.Equal(t, model.SideSell, all[2].Side)
	assert.InDelta(t, 0.0015, all[0].Quantity, 1e-12)

	cutoff := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	recent, err := l.ReadSince(cutoff)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, model.TradeSwing, recent[0].Type)
}

func TestReadSince_MissingFile(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "absent.csv"))
	recs, err := l.ReadSince(time.Time{})
	require.NoError(t, err)
	assert.Empty(t, recs)
}
