package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"navigation-qr/internal/config"
	"navigation-qr/internal/generator"
	logpkg "navigation-qr/internal/logger"
	"navigation-qr/internal/qrimage"
)

const banner = "======================================================================"

func usage(floors []int) {
	list := make([]string, len(floors))
	for i, n := range floors {
		list[i] = strconv.Itoa(n)
	}
	fmt.Println("\n📖 Usage:")
	fmt.Printf("   generate-floor-qr [-config file] [%s]\n", strings.Join(list, "|"))
	fmt.Println("\n📝 Examples:")
	fmt.Println("   generate-floor-qr 1    # regenerate floor 1")
	fmt.Println("   generate-floor-qr 3    # regenerate floor 3")
}

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

	if flag.NArg() < 1 {
		fmt.Println("❌ Error: you must give the floor number")
		usage(cfg.FloorNumbers())
		return 1
	}
	n, err := strconv.Atoi(flag.Arg(0))
	if err != nil {
		fmt.Printf("❌ Error: '%s' is not a valid number\n", flag.Arg(0))
		return 1
	}
	floor, ok := cfg.Floor(n)
	if !ok {
		fmt.Printf("❌ Error: floor '%d' is not valid, expected one of %v\n", n, cfg.FloorNumbers())
		return 1
	}

	graphPath := cfg.Resolve(floor.Graph)
	outDir := cfg.Resolve(floor.Output)
	if _, err := os.Stat(graphPath); err != nil {
		fmt.Printf("❌ Error: file %s not found\n", graphPath)
		return 1
	}

	log, err := logpkg.NewLogger(cfg.Log.Level, cfg.Log.Format, "generate-floor-qr")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("\n" + banner)
	fmt.Printf("🗺️  REGENERATE QRs - FLOOR %d\n", n)
	fmt.Println(banner)

	gen := generator.New(qrimage.NewEncoder(cfg.QR.BoxSize, cfg.QR.Recovery), nil, log, os.Stdout)
	res, err := gen.GenerateFloor(ctx, graphPath, outDir, n)
	if err != nil {
		log.Error("floor generation failed", zap.Int("piso", n), zap.Error(err))
	}

	fmt.Println("\n" + banner)
	if res.Generated > 0 {
		fmt.Printf("✅ %d QR codes regenerated\n", res.Generated)
		fmt.Printf("📂 Location: %s\n", outDir)
	} else {
		fmt.Println("⚠️  No QR codes were generated")
	}
	fmt.Printf("%s\n\n", banner)

	if res.Generated == 0 {
		return 1
	}
	return 0
}
