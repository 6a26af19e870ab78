package verify

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grafo_piso2.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"nodos": [
		{"id": "P2_A", "x": 1, "y": 2},
		{"id": "Sala"},
		{},
		{"id": "P2_D"},
		{"id": "P2_E"}
	]}`), 0o644))

	var out bytes.Buffer
	rep, err := ProbeGraph(path, &out, DefaultSample)
	require.NoError(t, err)

	assert.Equal(t, 5, rep.Total)
	require.Len(t, rep.Probes, 3)
	assert.Zero(t, rep.Failed())
	assert.Contains(t, rep.Probes[1].Payload, `"piso": 2`)

	text := out.String()
	assert.Contains(t, text, "[1] ✓ valid nodo QR: P2_A")
	assert.Contains(t, text, "[3] ✓ valid nodo QR: ")
	assert.Contains(t, text, "... (and 2 more nodes)")
	assert.NotContains(t, text, "P2_D")
}

func TestProbeGraph_SmallGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grafo_piso1.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"nodos": [{"id": "P1_A"}]}`), 0o644))

	var out bytes.Buffer
	rep, err := ProbeGraph(path, &out, DefaultSample)
	require.NoError(t, err)
	assert.Len(t, rep.Probes, 1)
	assert.NotContains(t, out.String(), "more nodes")
}

func TestProbeGraph_Errors(t *testing.T) {
	var out bytes.Buffer
	_, err := ProbeGraph(filepath.Join(t.TempDir(), "missing.json"), &out, DefaultSample)
	assert.Error(t, err)
	assert.Contains(t, out.String(), "❌ Error")

	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"nodos": []}`), 0o644))
	out.Reset()
	rep, err := ProbeGraph(path, &out, DefaultSample)
	require.NoError(t, err)
	assert.Empty(t, rep.Probes)
	assert.Contains(t, out.String(), "No nodes in")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 100))
	assert.Equal(t, "ñañ", truncate("ñañaña", 3))
}
