package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"navigation-qr/internal/config"
	eb "navigation-qr/internal/eventBus"
	"navigation-qr/internal/generator"
	logpkg "navigation-qr/internal/logger"
	"navigation-qr/internal/qrimage"
	"navigation-qr/internal/server"
	"navigation-qr/internal/utils"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfgPath := flag.String("config", "", "YAML or JSON configuration (default "+config.DefaultPath+" if present)")
	addr := flag.String("addr", "", "listen address, overrides server.addr")
	monitor := flag.Duration("monitor", 0, "log goroutine and heap usage at this interval")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	log, err := logpkg.NewLogger(cfg.Log.Level, cfg.Log.Format, "qr-server")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	utils.MonitorResources(ctx, log, *monitor)

	bus := eb.NewEventBus(log)
	defer bus.Close()

	// console progress goes to stderr next to the logs
	gen := generator.New(qrimage.NewEncoder(cfg.QR.BoxSize, cfg.QR.Recovery), bus, log, os.Stderr)
	srv := server.New(ctx, cfg, bus, gen, log)
	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		log.Error("server stopped", zap.Error(err))
		return 1
	}
	log.Info("server shut down")
	return 0
}
