package qrimage

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// Encoder renders QR payloads as black-on-white PNG files.
type Encoder struct {
	// BoxSize is the width in pixels of one QR module.
	BoxSize int
	Level   qrcode.RecoveryLevel
}

// NewEncoder maps the usual L/M/Q/H letters to go-qrcode recovery levels.
// Unknown letters get the highest level, which survives ~30% damage.
func NewEncoder(boxSize int, level string) *Encoder {
	if boxSize <= 0 {
		boxSize = 10
	}
	return &Encoder{BoxSize: boxSize, Level: ParseLevel(level)}
}

func ParseLevel(level string) qrcode.RecoveryLevel {
	switch strings.ToUpper(level) {
	case "L":
		return qrcode.Low
	case "M":
		return qrcode.Medium
	case "Q":
		return qrcode.High
	default:
		return qrcode.Highest
	}
}

// PNG returns the encoded image. The 4-module quiet zone is kept.
func (e *Encoder) PNG(data string) ([]byte, error) {
	q, err := qrcode.New(data, e.Level)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	q.ForegroundColor = color.Black
	q.BackgroundColor = color.White
	// a negative size is interpreted as pixels per module
	return q.PNG(-e.BoxSize)
}

// WriteFile encodes data and writes the PNG to path.
func (e *Encoder) WriteFile(data, path string) error {
	png, err := e.PNG(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
