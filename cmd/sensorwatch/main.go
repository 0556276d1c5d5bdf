// Command sensorwatch checks the sensor database for missing check-ins and
// pushes an alert when sensors have gone silent. One pass per invocation;
// run it from cron or a systemd timer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"homewatch/internal/config"
	"homewatch/internal/source"
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
	if err := cfg.ValidateSensors(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}

	log, closeLog := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File:    logx.FileConfig{Enabled: cfg.Logging.File.Enabled, Path: cfg.Logging.File.Path},
		Journal: cfg.Logging.Journal,
	})

	src, err := source.Open(cfg.Sensors, log)
	if err != nil {
		log.Error("cannot open sensor source", logx.Err(err))
		closeLog()
		os.Exit(1)
	}

	notifier := watch.BuildNotifier(cfg, cfg.Sensors.Topic, log)

	code := watch.Sensors(ctx, cfg, log, notifier, src)
	closeLog()
	os.Exit(code)
}
