package qrimage

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, qrcode.Low, ParseLevel("L"))
	assert.Equal(t, qrcode.Medium, ParseLevel("m"))
	assert.Equal(t, qrcode.High, ParseLevel("Q"))
	assert.Equal(t, qrcode.Highest, ParseLevel("H"))
	assert.Equal(t, qrcode.Highest, ParseLevel(""))
}

func TestNewEncoder_DefaultBoxSize(t *testing.T) {
	e := NewEncoder(0, "H")
	assert.Equal(t, 10, e.BoxSize)
}

func TestWriteFile_ProducesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "QR_P1_Entrada_1.png")
	e := NewEncoder(10, "H")

	err := e.WriteFile(`{"type": "nodo", "id": "P1_Entrada_1", "piso": 1, "x": 100, "y": 200}`, path)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	b := img.Bounds()
	assert.Equal(t, b.Dx(), b.Dy())
	assert.Zero(t, b.Dx()%10, "image width should be a whole number of modules")
}

func TestPNG_ScalesWithBoxSize(t *testing.T) {
	small, err := NewEncoder(2, "H").PNG("P1_A")
	require.NoError(t, err)
	large, err := NewEncoder(8, "H").PNG("P1_A")
	require.NoError(t, err)

	si, err := png.Decode(bytes.NewReader(small))
	require.NoError(t, err)
	li, err := png.Decode(bytes.NewReader(large))
	require.NoError(t, err)
	assert.Equal(t, si.Bounds().Dx()*4, li.Bounds().Dx())
}

func TestWriteFile_BadDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "x.png")
	err := NewEncoder(10, "H").WriteFile("data", path)
	assert.Error(t, err)
}
