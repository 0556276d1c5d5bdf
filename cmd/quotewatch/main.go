// Command quotewatch fetches a stock quote and pushes the price with a
// direction indicator. One pass per invocation; run it from cron or a
// systemd timer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"homewatch/internal/config"
	"homewatch/internal/quote"
	"homewatch/internal/watch"
	"homewatch/pkg/logx"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "./homewatch.yaml", "path to config yaml")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
	if err := cfg.ValidateQuote(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}

	log, closeLog := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File:    logx.FileConfig{Enabled: cfg.Logging.File.Enabled, Path: cfg.Logging.File.Path},
		Journal: cfg.Logging.Journal,
	})

	notifier := watch.BuildNotifier(cfg, cfg.Quote.Topic, log)

	code := watch.Quote(ctx, cfg, log, notifier, quote.NewClient())
	closeLog()
	os.Exit(code)
}
