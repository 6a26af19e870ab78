package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"navigation-qr/internal/config"
	eb "navigation-qr/internal/eventBus"
	"navigation-qr/internal/generator"
	"navigation-qr/internal/inventory"
	logpkg "navigation-qr/internal/logger"
	"navigation-qr/internal/metrics"
	"navigation-qr/internal/qrimage"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfgPath := flag.String("config", "", "YAML or JSON configuration (default "+config.DefaultPath+" if present)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := logpkg.NewLogger(cfg.Log.Level, cfg.Log.Format, "generate-qrs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	// catch Ctrl-C / SIGTERM and stop between two nodes
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := eb.NewEventBus(log)
	coll := metrics.NewCollector()
	done := make(chan struct{})
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		coll.Consume(sub)
	}()

	gen := generator.New(qrimage.NewEncoder(cfg.QR.BoxSize, cfg.QR.Recovery), bus, log, os.Stdout)
	log.Info("starting generation", zap.String("run_id", gen.RunID().String()))

	now := time.Now()
	stats, err := gen.GenerateAll(ctx, cfg, now)
	bus.Close()
	<-done
	if err != nil {
		log.Warn("generation interrupted by the user", zap.Error(err))
		return 1
	}

	total := generator.Total(stats)
	if total == 0 {
		return 1
	}

	if err := gen.WriteReadme(cfg.Resolve("qr_codes/README.md"), cfg.FloorNumbers(), now); err != nil {
		log.Warn("could not write README", zap.Error(err))
	}
	if cfg.Inventory != "" {
		if err := inventory.Write(cfg.Resolve(cfg.Inventory), generator.Records(cfg.FloorNumbers(), stats)); err != nil {
			log.Warn("could not write inventory", zap.Error(err))
		} else {
			log.Info("inventory written", zap.String("path", cfg.Resolve(cfg.Inventory)))
		}
	}
	// always flush the report once something was generated
	if cfg.Report != "" {
		if err := coll.Flush(cfg.Resolve(cfg.Report)); err != nil {
			log.Warn("flush report", zap.Error(err))
		} else {
			log.Info("report written", zap.String("path", cfg.Resolve(cfg.Report)), zap.Int("total", total))
		}
	}
	return 0
}
