package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"CrossWatch/internal/calculator"
	"CrossWatch/internal/chart"
	"CrossWatch/internal/collector"
	"CrossWatch/internal/config"
	"CrossWatch/internal/dedup"
	"CrossWatch/internal/dispatch"
	"CrossWatch/internal/logger"
	"CrossWatch/internal/notifier"
	"CrossWatch/internal/recorder"
	"CrossWatch/internal/scheduler"
)

func main() {
	zl, err := logger.New(os.Getenv("DEBUG") == "true")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()
	zl.Info("CrossWatch starting")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		zl.Fatal("load config", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		zl.Fatal("config validation", zap.Error(err))
	}

	// Init fetcher
	fetcher, err := newFetcher(cfg)
	if err != nil {
		zl.Fatal("init fetcher", zap.Error(err))
	}
	zl.Info("data source ready", zap.String("provider", fetcher.Name()))

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, zl)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			zl.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
			zl.Info("sqlite recorder opened", zap.String("path", cfg.Database.SQLitePath))
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ind := cfg.Indicators
	disp := dispatch.New(
		fetcher,
		chart.NewRenderer(ind.Overbought, ind.Oversold),
		tn,
		rec,
		dedup.NewMemory(),
		dispatch.Options{
			Symbols:  cfg.DataSource.Symbols,
			Lookback: time.Duration(cfg.DataSource.LookbackDays) * 24 * time.Hour,
			MinBars:  ind.MinBars,
			Windows: calculator.Windows{
				VWMAShort:    ind.VWMAShort,
				VWMALong:     ind.VWMALong,
				RSI:          ind.RSIWindow,
				RSIMA:        ind.RSIMAWindow,
				Stoch:        ind.StochWindow,
				StochSmoothK: ind.StochSmoothK,
				StochSmoothD: ind.StochSmoothD,
			},
			Overbought: ind.Overbought,
			Oversold:   ind.Oversold,
		},
		zl,
	)

	sched := scheduler.NewScheduler(ctx, disp, cfg.Schedule.PollInterval.Std(), cfg.Schedule.Cron, zl)

	// Start Telegram command polling
	go tn.StartPolling(ctx, sched.HandleCommand)

	// Run the polling loop
	errCh := make(chan error, 1)
	go func() { errCh <- sched.Run() }()

	zl.Info("CrossWatch is running",
		zap.Strings("symbols", cfg.DataSource.Symbols),
		zap.Duration("interval", cfg.Schedule.PollInterval.Std()))

	// Wait for shutdown signal or scheduler error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		zl.Info("shutdown signal received, stopping")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			zl.Fatal("scheduler", zap.Error(err))
		}
	}
	zl.Info("CrossWatch stopped")
}

func newFetcher(cfg *config.Config) (collector.Fetcher, error) {
	ds := cfg.DataSource
	switch ds.Provider {
	case "yahoo":
		return collector.NewYahooFetcher(ds.Interval, cfg.Proxy), nil
	case "binance":
		return collector.NewBinanceFetcher(ds.APIKey, ds.APISecret, ds.Interval), nil
	default:
		return nil, fmt.Errorf("unknown data source provider %q", ds.Provider)
	}
}
