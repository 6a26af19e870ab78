package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"navigation-qr/internal/config"
	logpkg "navigation-qr/internal/logger"
	"navigation-qr/internal/verify"
)

const banner = "======================================================================"

func main() {
	os.Exit(run())
}

func run() int {
	cfgPath := flag.String("config", "", "YAML or JSON configuration (default "+config.DefaultPath+" if present)")
	sample := flag.Int("sample", verify.DefaultSample, "nodes probed per graph, 0 for all")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	log, err := logpkg.NewLogger(cfg.Log.Level, cfg.Log.Format, "verify-qr-format")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	fmt.Println("\n" + banner)
	fmt.Println("🔍 QR FORMAT VERIFIER")
	fmt.Println(banner)
	fmt.Println("\nChecks that the generated QRs are understood")
	fmt.Println("by the Flutter application.")

	failed := 0
	for _, f := range cfg.Floors {
		path := cfg.Resolve(f.Graph)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		rep, err := verify.ProbeGraph(path, os.Stdout, *sample)
		if err != nil {
			log.Warn("probe graph", zap.String("graph", path), zap.Error(err))
			continue
		}
		failed += rep.Failed()
		log.Debug("graph probed", zap.String("graph", path), zap.Int("nodes", rep.Total), zap.Int("failed", rep.Failed()))
	}

	fmt.Println("\n" + banner)
	fmt.Println("📱 QR FORMATS SUPPORTED BY THE APP:")
	fmt.Println(banner)
	fmt.Print(verify.SupportedFormats)
	fmt.Printf("%s\n\n", banner)

	if failed > 0 {
		log.Warn("some payloads did not validate", zap.Int("failed", failed))
	}
	return 0
}
