package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 0.002, cfg.Strategy.CommissionRate)
	assert.Equal(t, 100.0, cfg.Strategy.PeriodicBaseAmount)
	assert.Equal(t, 0.60, cfg.Strategy.MaxTacticalAllocation)
	assert.Equal(t, 3.0, cfg.Strategy.StopATRMultiplier)
	assert.Equal(t, 100000.0, cfg.Portfolio.StartingCash)
	assert.Equal(t, 24*time.Hour, cfg.Loop.Interval.Std())
	assert.Equal(t, 7, cfg.Loop.LookbackDays)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	content := `
data_source:
  csv_path: "series.csv"
strategy:
  commission_rate: 0.001
loop:
  interval: "6h"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("STARTING_CASH", "5000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "series.csv", cfg.DataSource.CSVPath)
	assert.Equal(t, 0.001, cfg.Strategy.CommissionRate)
	assert.Equal(t, 6*time.Hour, cfg.Loop.Interval.Std())
	assert.Equal(t, "tok", cfg.Telegram.BotToken)
	assert.Equal(t, 5000.0, cfg.Portfolio.StartingCash)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	require.Error(t, cfg.Validate(), "telegram credentials are required")

	cfg.Telegram.BotToken = "tok"
	cfg.Telegram.ChatID = "chat"
	require.NoError(t, cfg.Validate())

	cfg.Strategy.MaxTacticalAllocation = 1.5
	assert.Error(t, cfg.Validate())
}
