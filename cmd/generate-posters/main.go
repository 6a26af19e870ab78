package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"navigation-qr/internal/config"
	logpkg "navigation-qr/internal/logger"
	"navigation-qr/internal/poster"
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
	log, err := logpkg.NewLogger(cfg.Log.Level, cfg.Log.Format, "generate-posters")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	outDir := cfg.Resolve(cfg.Posters.OutputDir)
	written := 0
	for _, f := range cfg.Floors {
		qrDir := cfg.Resolve(f.Output)
		if _, err := os.Stat(qrDir); err != nil {
			fmt.Printf("⚠️  Folder not found: %s\n", qrDir)
			continue
		}
		pages, err := poster.WriteFloor(qrDir, outDir, f.Number, cfg.Posters.ImagePrefix)
		if err != nil {
			log.Error("write posters", zap.Int("piso", f.Number), zap.Error(err))
			continue
		}
		fmt.Printf("✅ %s created with %d posters\n", poster.FileName(f.Number), pages)
		written++
	}

	if written == 0 {
		return 1
	}
	fmt.Printf("\n📂 Output: %s\n", outDir)
	fmt.Println("Compile each file with: pdflatex Afiches_PisoN.tex")
	return 0
}
