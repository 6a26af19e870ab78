package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrMissingNodes is returned when a graph file has no "nodos" key.
var ErrMissingNodes = errors.New("graph file has no 'nodos' key")

// Node is one point of a floor graph. X and Y keep the raw JSON text so the
// coordinates reach the QR payload exactly as they were written.
type Node struct {
	ID string          `json:"id"`
	X  json.RawMessage `json:"x,omitempty"`
	Y  json.RawMessage `json:"y,omitempty"`
}

// Graph is the per-floor description read from grafo_pisoN.json.
type Graph struct {
	Nodes []Node `json:"nodos"`
}

var stemReplacer = strings.NewReplacer("/", "_", "\\", "_")

// FileStem names the QR image of the node at the given 1-based position.
// Path separators in the id become '_' so the image stays in its floor directory.
func (n Node) FileStem(index int) string {
	if n.ID == "" {
		return fmt.Sprintf("nodo_%d", index)
	}
	return stemReplacer.Replace(n.ID)
}

// Load reads a floor graph.
func Load(path string) (*Graph, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(f, &probe); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	raw, ok := probe["nodos"]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingNodes)
	}

	g := &Graph{}
	if err := json.Unmarshal(raw, &g.Nodes); err != nil {
		return nil, fmt.Errorf("decode nodos in %s: %w", path, err)
	}
	return g, nil
}

// FloorFromFilename extracts N from a path like lib/data/grafo_pisoN.json.
func FloorFromFilename(path string, fallback int) int {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	parts := strings.Split(stem, "piso")
	if len(parts) < 2 {
		return fallback
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return fallback
	}
	return n
}
