package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"navigation-qr/internal/config"
	"navigation-qr/internal/graph"
	logpkg "navigation-qr/internal/logger"
	"navigation-qr/internal/mqtt"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfgPath := flag.String("config", "", "YAML or JSON configuration (default "+config.DefaultPath+" if present)")
	only := flag.Int("piso", 0, "publish a single floor, 0 for all")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	log, err := logpkg.NewLogger(cfg.Log.Level, cfg.Log.Format, "publish-qrs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	floors := cfg.Floors
	if *only != 0 {
		f, ok := cfg.Floor(*only)
		if !ok {
			log.Error("floor is not configured", zap.Int("piso", *only))
			return 1
		}
		floors = []config.FloorCfg{f}
	}

	manager, err := mqtt.New(cfg.MQTT, log)
	if err != nil {
		log.Error("mqtt connect", zap.Error(err))
		return 1
	}
	defer manager.Disconnect()

	total := 0
	for _, f := range floors {
		path := cfg.Resolve(f.Graph)
		g, err := graph.Load(path)
		if err != nil {
			log.Warn("skip floor", zap.Int("piso", f.Number), zap.String("graph", path), zap.Error(err))
			continue
		}
		sent, err := mqtt.PublishFloor(manager, cfg.MQTT.TopicPrefix, cfg.MQTT.QoS, f.Number, g)
		total += sent
		if err != nil {
			log.Error("publish floor", zap.Int("piso", f.Number), zap.Int("sent", sent), zap.Error(err))
			return 1
		}
		log.Info("floor published", zap.Int("piso", f.Number), zap.Int("sent", sent))
	}

	log.Info("publish finished", zap.Int("total", total))
	if total == 0 {
		return 1
	}
	return 0
}
