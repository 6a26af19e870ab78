// Package verify checks that the payloads generated from a floor graph are
// understood by the navigation app.
package verify

import (
	"fmt"
	"io"

	"navigation-qr/internal/graph"
	"navigation-qr/internal/payload"
)

// DefaultSample is how many nodes of each graph are probed.
const DefaultSample = 3

const rule = "──────────────────────────────────────────────────────────────────────"

type Probe struct {
	Index   int
	Payload string
	payload.Result
}

type Report struct {
	Path   string
	Total  int
	Probes []Probe
}

// Failed counts the probes that did not validate.
func (r Report) Failed() int {
	n := 0
	for _, p := range r.Probes {
		if !p.Valid {
			n++
		}
	}
	return n
}

// ProbeGraph builds and validates the payloads of the first sample nodes of
// the graph at path, writing a line per node to w.
func ProbeGraph(path string, w io.Writer, sample int) (Report, error) {
	rep := Report{Path: path}

	g, err := graph.Load(path)
	if err != nil {
		fmt.Fprintf(w, "❌ Error: %v\n", err)
		return rep, err
	}
	rep.Total = len(g.Nodes)
	if rep.Total == 0 {
		fmt.Fprintf(w, "⚠️  No nodes in %s\n", path)
		return rep, nil
	}

	floor := graph.FloorFromFilename(path, 1)
	fmt.Fprintf(w, "\n📂 Testing: %s\n", path)
	fmt.Fprintf(w, "📍 Total nodes: %d\n", rep.Total)
	fmt.Fprintln(w, rule)

	if sample <= 0 || sample > rep.Total {
		sample = rep.Total
	}
	for i, n := range g.Nodes[:sample] {
		data := payload.Build(n, floor)
		p := Probe{Index: i + 1, Payload: data, Result: payload.Inspect(data)}
		rep.Probes = append(rep.Probes, p)

		if p.Valid {
			fmt.Fprintf(w, "  [%d] ✓ %s\n", p.Index, p.Message)
		} else {
			fmt.Fprintf(w, "  [%d] ✗ %s\n", p.Index, p.Message)
			fmt.Fprintf(w, "      QR: %s...\n", truncate(data, 100))
		}
	}
	if rest := rep.Total - sample; rest > 0 {
		fmt.Fprintf(w, "  ... (and %d more nodes)\n", rest)
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "✅ QR format verified")
	fmt.Fprintln(w)
	return rep, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// SupportedFormats is the list of scan formats accepted by the app.
const SupportedFormats = `
1. JSON format (written by the QR generator):
   {"type": "nodo", "id": "P1_Entrada_1", "piso": 1, "x": 100, "y": 200}

2. Plain text format:
   - nodo:P1_Entrada_1
   - piso:1|nodo:P1_Entrada_1
   - ubicacion:Entrada Principal
   - coord:1004,460
   - ruta:P1_Entrada_1|P1_Pasillo_Norte

3. Bare ID:
   - P1_Entrada_1
`
