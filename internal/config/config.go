package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so intervals can be written as "24h" in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		CSVPath string `yaml:"csv_path"`
		Symbol  string `yaml:"symbol"`
	} `yaml:"data_source"`
	Strategy struct {
		CommissionRate        float64 `yaml:"commission_rate"`
		PeriodicBaseAmount    float64 `yaml:"periodic_base_amount"`
		OversoldRSI           float64 `yaml:"oversold_rsi"`
		OversoldBoost         float64 `yaml:"oversold_boost"`
		MaxTacticalAllocation float64 `yaml:"max_tactical_allocation"`
		StopATRMultiplier     float64 `yaml:"stop_atr_multiplier"`
		TakeProfitGain        float64 `yaml:"take_profit_gain"`
	} `yaml:"strategy"`
	Portfolio struct {
		StartingCash float64 `yaml:"starting_cash"`
		StateFile    string  `yaml:"state_file"`
		TradeLogFile string  `yaml:"trade_log_file"`
	} `yaml:"portfolio"`
	Loop struct {
		Interval     Duration `yaml:"interval"`
		LookbackDays int      `yaml:"lookback_days"`
		ReportCron   string   `yaml:"report_cron"`
	} `yaml:"loop"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Email struct {
		SMTPHost  string `yaml:"smtp_host"`
		SMTPPort  int    `yaml:"smtp_port"`
		Sender    string `yaml:"sender"`
		Password  string `yaml:"password"`
		Recipient string `yaml:"recipient"`
	} `yaml:"email"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("GMAIL_USER"); v != "" {
		cfg.Email.Sender = v
	}
	if v := os.Getenv("GMAIL_PASS"); v != "" {
		cfg.Email.Password = v
	}
	if v := os.Getenv("CSV_FILE_PATH"); v != "" {
		cfg.DataSource.CSVPath = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("STARTING_CASH"); v != "" {
		var cash float64
		if _, err := fmt.Sscanf(v, "%f", &cash); err == nil {
			cfg.Portfolio.StartingCash = cash
		}
	}

	// Defaults
	if cfg.DataSource.CSVPath == "" {
		cfg.DataSource.CSVPath = "btc_final_merged_data.csv"
	}
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "BTC-USD"
	}
	if cfg.Strategy.CommissionRate == 0 {
		cfg.Strategy.CommissionRate = 0.002
	}
	if cfg.Strategy.PeriodicBaseAmount == 0 {
		cfg.Strategy.PeriodicBaseAmount = 100.0
	}
	if cfg.Strategy.OversoldRSI == 0 {
		cfg.Strategy.OversoldRSI = 30
	}
	if cfg.Strategy.OversoldBoost == 0 {
		cfg.Strategy.OversoldBoost = 1.5
	}
	if cfg.Strategy.MaxTacticalAllocation == 0 {
		cfg.Strategy.MaxTacticalAllocation = 0.60
	}
	if cfg.Strategy.StopATRMultiplier == 0 {
		cfg.Strategy.StopATRMultiplier = 3.0
	}
	if cfg.Strategy.TakeProfitGain == 0 {
		cfg.Strategy.TakeProfitGain = 0.05
	}
	if cfg.Portfolio.StartingCash == 0 {
		cfg.Portfolio.StartingCash = 100000.0
	}
	if cfg.Portfolio.StateFile == "" {
		cfg.Portfolio.StateFile = "data/portfolio_state.json"
	}
	if cfg.Portfolio.TradeLogFile == "" {
		cfg.Portfolio.TradeLogFile = "data/weekly_trade_log.csv"
	}
	if cfg.Loop.Interval == 0 {
		cfg.Loop.Interval = Duration(24 * time.Hour)
	}
	if cfg.Loop.LookbackDays == 0 {
		cfg.Loop.LookbackDays = 7
	}
	if cfg.Loop.ReportCron == "" {
		cfg.Loop.ReportCron = "0 0 9 * * 1" // Monday 09:00
	}
	if cfg.Email.SMTPHost == "" {
		cfg.Email.SMTPHost = "smtp.gmail.com"
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}

	return cfg, nil
}

// Validate checks that all required fields are set and in range.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Portfolio.StartingCash <= 0 {
		return fmt.Errorf("portfolio.starting_cash must be positive")
	}
	if c.Strategy.CommissionRate < 0 || c.Strategy.CommissionRate >= 1 {
		return fmt.Errorf("strategy.commission_rate must be in [0, 1)")
	}
	if c.Strategy.MaxTacticalAllocation <= 0 || c.Strategy.MaxTacticalAllocation > 1 {
		return fmt.Errorf("strategy.max_tactical_allocation must be in (0, 1]")
	}
	if c.Loop.LookbackDays <= 0 {
		return fmt.Errorf("loop.lookback_days must be positive")
	}
	return nil
}
