package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"navigation-qr/internal/config"
	eb "navigation-qr/internal/eventBus"
	"navigation-qr/internal/graph"
	"navigation-qr/internal/payload"
)

const rule = "──────────────────────────────────────────────────────────────────────"
const banner = "======================================================================"

// ImageWriter turns a payload into an image file.
type ImageWriter interface {
	WriteFile(data, path string) error
}

// Record describes one QR image written to disk.
type Record struct {
	Floor   int
	NodeID  string
	X       string
	Y       string
	File    string
	Payload string
}

type FloorResult struct {
	Floor     int
	Generated int
	Failed    int
	Records   []Record
}

type Generator struct {
	enc   ImageWriter
	bus   *eb.EventBus
	log   *zap.Logger
	out   io.Writer
	runID uuid.UUID
}

// New returns a generator. bus may be nil; out receives the progress text.
func New(enc ImageWriter, bus *eb.EventBus, log *zap.Logger, out io.Writer) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Generator{enc: enc, bus: bus, log: log, out: out, runID: uuid.New()}
}

func (g *Generator) RunID() uuid.UUID { return g.runID }

func (g *Generator) publish(ev eb.Event) {
	ev.RunID = g.runID
	g.bus.Publish(ev)
}

// GenerateFloor writes QR_<id>.png into outDir for every node of the graph.
// A floor <= 0 is taken from the graph filename (grafo_pisoN.json), default 1.
// Per-node failures are counted; only an unreadable graph returns an error.
func (g *Generator) GenerateFloor(ctx context.Context, graphPath, outDir string, floor int) (FloorResult, error) {
	if floor <= 0 {
		floor = graph.FloorFromFilename(graphPath, 1)
	}
	res := FloorResult{Floor: floor}
	log := g.log.With(zap.Int("piso", floor), zap.String("graph", graphPath))

	gr, err := graph.Load(graphPath)
	if err != nil {
		if errors.Is(err, graph.ErrMissingNodes) {
			fmt.Fprintf(g.out, "⚠️  The file has no 'nodos' key: %s\n", graphPath)
		} else {
			fmt.Fprintf(g.out, "❌ Could not read graph %s: %v\n", graphPath, err)
		}
		log.Error("load graph", zap.Error(err))
		return res, err
	}
	if len(gr.Nodes) == 0 {
		fmt.Fprintf(g.out, "⚠️  No nodes in file: %s\n", graphPath)
		log.Warn("graph has no nodes")
		return res, nil
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return res, fmt.Errorf("create %s: %w", outDir, err)
	}

	total := len(gr.Nodes)
	fmt.Fprintf(g.out, "\n📍 Generating QRs for %d nodes of floor %d...\n", total, floor)
	fmt.Fprintf(g.out, "📂 Saving to: %s\n", outDir)
	fmt.Fprintln(g.out, rule)
	g.publish(eb.Event{Type: eb.EventFloorStarted, Floor: floor, Count: total})

	for i, node := range gr.Nodes {
		if err := ctx.Err(); err != nil {
			log.Warn("generation interrupted", zap.Int("done", i))
			return res, err
		}
		idx := i + 1
		data := payload.Build(node, floor)
		name := "QR_" + node.FileStem(idx) + ".png"
		path := filepath.Join(outDir, name)

		if err := g.enc.WriteFile(data, path); err != nil {
			res.Failed++
			fmt.Fprintf(g.out, "  [%3d/%d] ✗ Error in %s\n", idx, total, name)
			log.Error("generate qr", zap.String("node_id", node.ID), zap.Error(err))
			g.publish(eb.Event{Type: eb.EventQRFailed, Floor: floor, NodeID: node.ID, File: name, Error: err.Error()})
			continue
		}

		res.Generated++
		res.Records = append(res.Records, Record{
			Floor:   floor,
			NodeID:  node.ID,
			X:       rawText(node.X),
			Y:       rawText(node.Y),
			File:    path,
			Payload: data,
		})
		g.publish(eb.Event{Type: eb.EventQRGenerated, Floor: floor, NodeID: node.ID, File: name, Payload: data})
		if idx%10 == 0 || idx == total {
			fmt.Fprintf(g.out, "  [%3d/%d] ✓ %s\n", idx, total, name)
		}
	}

	fmt.Fprintln(g.out, rule)
	fmt.Fprintf(g.out, "✅ Done: %d QRs generated\n", res.Generated)
	if res.Failed > 0 {
		fmt.Fprintf(g.out, "⚠️  %d errors during generation\n", res.Failed)
	}
	log.Info("floor generated", zap.Int("generated", res.Generated), zap.Int("failed", res.Failed))
	g.publish(eb.Event{Type: eb.EventFloorFinished, Floor: floor, Count: res.Generated})
	return res, nil
}

// GenerateAll runs GenerateFloor for every configured floor. Floors whose
// graph file is missing are reported and counted as zero.
func (g *Generator) GenerateAll(ctx context.Context, cfg *config.Config, now time.Time) (map[int]FloorResult, error) {
	base, err := filepath.Abs(cfg.BaseDir)
	if err != nil {
		base = cfg.BaseDir
	}
	fmt.Fprintln(g.out, "\n"+banner)
	fmt.Fprintln(g.out, "🗺️  QR CODE GENERATOR - UMAG NAVIGATION")
	fmt.Fprintln(g.out, banner)
	fmt.Fprintf(g.out, "📅 Date: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(g.out, "📂 Base directory: %s\n", base)
	fmt.Fprintln(g.out, banner)

	stats := make(map[int]FloorResult, len(cfg.Floors))
	for _, f := range cfg.Floors {
		graphPath := cfg.Resolve(f.Graph)
		if _, err := os.Stat(graphPath); err != nil {
			fmt.Fprintf(g.out, "\n⚠️  File not found: %s\n", graphPath)
			g.log.Warn("graph file not found", zap.Int("piso", f.Number), zap.String("graph", graphPath))
			g.publish(eb.Event{Type: eb.EventFloorSkipped, Floor: f.Number})
			stats[f.Number] = FloorResult{Floor: f.Number}
			continue
		}

		// a broken graph is already reported and counts as zero
		res, _ := g.GenerateFloor(ctx, graphPath, cfg.Resolve(f.Output), f.Number)
		stats[f.Number] = res
		if err := ctx.Err(); err != nil {
			return stats, err
		}
	}

	g.printSummary(cfg.FloorNumbers(), stats)
	return stats, nil
}

func (g *Generator) printSummary(floors []int, stats map[int]FloorResult) {
	fmt.Fprintln(g.out, "\n"+banner)
	fmt.Fprintln(g.out, "📊 GENERATION SUMMARY")
	fmt.Fprintln(g.out, banner)

	total := Total(stats)
	for _, n := range floors {
		if c := stats[n].Generated; c > 0 {
			fmt.Fprintf(g.out, "  Floor %d: %3d QRs generated\n", n, c)
		} else {
			fmt.Fprintf(g.out, "  Floor %d: ⚠️  no QRs generated\n", n)
		}
	}
	fmt.Fprintln(g.out, rule)
	fmt.Fprintf(g.out, "  TOTAL:  %3d QR codes generated\n", total)
	fmt.Fprintln(g.out, banner)

	if total > 0 {
		fmt.Fprintln(g.out, "\n✅ Process completed successfully")
		fmt.Fprintln(g.out, "\n📌 NEXT STEPS:")
		fmt.Fprintln(g.out, "   1. Review the generated QRs in 'qr_codes/'")
		fmt.Fprintln(g.out, "   2. Print the QRs on 5x5 cm stickers")
		fmt.Fprintln(g.out, "   3. Mount the QRs 1.5 m high at each location")
		fmt.Fprintln(g.out, "   4. Test scanning with the mobile app")
		fmt.Fprintln(g.out, "\n💡 TIP: the QRs use error correction level H (30 percent)")
		fmt.Fprintln(g.out, "   so they still scan with minor damage.")
	} else {
		fmt.Fprintln(g.out, "\n⚠️  No QR codes were generated")
		fmt.Fprintln(g.out, "   Check that the JSON files exist in 'lib/data/'")
	}
	fmt.Fprintln(g.out)
}

// Total sums the generated images over all floors.
func Total(stats map[int]FloorResult) int {
	total := 0
	for _, r := range stats {
		total += r.Generated
	}
	return total
}

// Records flattens the per-floor records in floor order.
func Records(floors []int, stats map[int]FloorResult) []Record {
	var out []Record
	for _, n := range floors {
		out = append(out, stats[n].Records...)
	}
	return out
}

func rawText(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	return s
}
