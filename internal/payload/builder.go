// Package payload builds and checks the JSON text encoded in navigation QR codes.
package payload

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"navigation-qr/internal/graph"
)

// TypeNodo is the discriminator of payloads that point at a graph node.
const TypeNodo = "nodo"

// FloorFromID derives the floor from ids shaped like P<floor>_<rest>.
// Anything else yields defaultFloor.
func FloorFromID(id string, defaultFloor int) int {
	if id == "" || !strings.HasPrefix(id, "P") {
		return defaultFloor
	}
	prefix, _, found := strings.Cut(id, "_")
	if !found {
		return defaultFloor
	}
	n, err := strconv.Atoi(strings.TrimPrefix(prefix, "P"))
	if err != nil {
		return defaultFloor
	}
	return n
}

// Build returns the payload the app expects when it scans the QR of node.
//
// The key order and the ", " / ": " separators are part of the format read by
// the app, so the object is assembled by hand instead of through a struct.
func Build(node graph.Node, defaultFloor int) string {
	var b strings.Builder
	b.WriteString(`{"type": `)
	b.WriteString(quote(TypeNodo))
	b.WriteString(`, "id": `)
	b.WriteString(quote(node.ID))
	b.WriteString(`, "piso": `)
	b.WriteString(strconv.Itoa(FloorFromID(node.ID, defaultFloor)))
	b.WriteString(`, "x": `)
	b.WriteString(coordinate(node.X))
	b.WriteString(`, "y": `)
	b.WriteString(coordinate(node.Y))
	b.WriteString("}")
	return b.String()
}

// quote encodes s as a JSON string, leaving UTF-8 and HTML characters literal.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// coordinate renders a raw coordinate, or null when it is absent or not JSON.
func coordinate(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "null"
	}
	return buf.String()
}
