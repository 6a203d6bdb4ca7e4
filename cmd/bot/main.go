package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"BtcSentinel/internal/collector"
	"BtcSentinel/internal/config"
	"BtcSentinel/internal/executor"
	"BtcSentinel/internal/notifier"
	"BtcSentinel/internal/portfolio"
	"BtcSentinel/internal/processor"
	"BtcSentinel/internal/recorder"
	"BtcSentinel/internal/report"
	"BtcSentinel/internal/tradelog"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Optional .env for local runs; real deployments set env vars directly.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}

	// One-shot mode: generate and send the weekly report, then exit.
	if len(os.Args) > 1 && os.Args[1] == "send_report" {
		log.Println("[INFO] weekly email reporter starting")
		if err := sendWeeklyReport(cfg); err != nil {
			log.Fatalf("[FATAL] send weekly report: %v", err)
		}
		log.Println("[INFO] weekly report sent")
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	log.Println("[INFO] BtcSentinel starting...")

	fetcher := collector.NewCSVFetcher(cfg.DataSource.CSVPath)
	col := collector.NewCollector(fetcher, cfg.DataSource.Symbol)
	log.Printf("[INFO] data source: %s", fetcher.Name())

	ledger, err := portfolio.NewManager(cfg.Portfolio.StateFile, cfg.Portfolio.StartingCash)
	if err != nil {
		log.Fatalf("[FATAL] init portfolio ledger: %v", err)
	}

	tl := tradelog.New(cfg.Portfolio.TradeLogFile)

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)

	exec := executor.New(executor.Params{
		CommissionRate:    cfg.Strategy.CommissionRate,
		PeriodicAmount:    cfg.Strategy.PeriodicBaseAmount,
		OversoldRSI:       cfg.Strategy.OversoldRSI,
		OversoldBoost:     cfg.Strategy.OversoldBoost,
		StopATRMultiplier: cfg.Strategy.StopATRMultiplier,
		TakeProfitGain:    cfg.Strategy.TakeProfitGain,
	}, tl)

	proc := processor.New(col, ledger, exec, tn, rec,
		cfg.Strategy.MaxTacticalAllocation,
		time.Duration(cfg.Loop.LookbackDays)*24*time.Hour,
		cfg.Loop.Interval.Std())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// In-process weekly report schedule.
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(cfg.Loop.ReportCron, func() {
		if err := sendWeeklyReport(cfg); err != nil {
			log.Printf("[ERROR] scheduled weekly report: %v", err)
		}
	}); err != nil {
		log.Fatalf("[FATAL] register report schedule: %v", err)
	}
	c.Start()
	defer c.Stop()

	if err := tn.SendWithRetry(ctx, notifier.FormatStartup(cfg.DataSource.Symbol), 3); err != nil {
		log.Printf("[WARN] startup notification: %v", err)
	}

	log.Println("[INFO] BtcSentinel is running. Press Ctrl+C to stop.")
	proc.Run(ctx)
	log.Println("[INFO] BtcSentinel stopped")
}

func sendWeeklyReport(cfg *config.Config) error {
	gen := report.NewGenerator(
		cfg.Portfolio.StateFile,
		tradelog.New(cfg.Portfolio.TradeLogFile),
		cfg.DataSource.Symbol,
		cfg.Portfolio.StartingCash,
	)
	subject, body, err := gen.Generate(time.Now())
	if err != nil {
		return err
	}
	sender := notifier.NewEmailSender(
		cfg.Email.SMTPHost, cfg.Email.SMTPPort,
		cfg.Email.Sender, cfg.Email.Password, cfg.Email.Recipient,
	)
	return sender.SendHTML(subject, body)
}
