package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies which of the payload shapes understood by the app was scanned.
type Kind int

const (
	KindUnknown Kind = iota
	KindNodo
	KindRuta
	KindCoordinate
)

func (k Kind) String() string {
	switch k {
	case KindNodo:
		return "nodo"
	case KindRuta:
		return "ruta"
	case KindCoordinate:
		return "coordenadas"
	default:
		return "unknown"
	}
}

// Result is the outcome of checking one scanned text.
type Result struct {
	Valid   bool   `json:"valid"`
	Kind    Kind   `json:"-"`
	Message string `json:"message"`
}

// Validate reports whether raw is a payload the app can use, with a diagnostic.
func Validate(raw string) (bool, string) {
	r := Inspect(raw)
	return r.Valid, r.Message
}

// Inspect checks raw and also reports the kind it was recognized as.
func Inspect(raw string) Result {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return Result{Message: fmt.Sprintf("JSON decode error: %v", err)}
	}

	// Arrays, strings and numbers have no keys and fall through to "missing 'type'".
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		fields = nil
	}

	typeRaw, ok := fields["type"]
	if !ok {
		return Result{Message: "missing 'type' field"}
	}

	kind, isString := str(typeRaw)
	if !isString {
		return Result{Message: fmt.Sprintf("unrecognized type '%s'", display(typeRaw))}
	}

	has := func(key string) bool {
		_, ok := fields[key]
		return ok
	}

	switch kind {
	case "nodo":
		if !has("id") {
			return Result{Kind: KindNodo, Message: "'nodo' QR must have 'id' field"}
		}
		if !has("piso") {
			return Result{Kind: KindNodo, Message: "'nodo' QR must have 'piso' field"}
		}
		return Result{Valid: true, Kind: KindNodo, Message: "valid nodo QR: " + display(fields["id"])}

	case "ruta":
		if !has("origen") || !has("destino") {
			return Result{Kind: KindRuta, Message: "'ruta' QR must have 'origen' and 'destino' fields"}
		}
		return Result{
			Valid:   true,
			Kind:    KindRuta,
			Message: fmt.Sprintf("valid ruta QR: %s → %s", display(fields["origen"]), display(fields["destino"])),
		}

	case "coordenadas", "coord":
		if !has("x") || !has("y") {
			return Result{Kind: KindCoordinate, Message: "coordinate QR must have 'x' and 'y' fields"}
		}
		return Result{
			Valid:   true,
			Kind:    KindCoordinate,
			Message: fmt.Sprintf("valid coordinate QR: (%s, %s)", display(fields["x"]), display(fields["y"])),
		}

	default:
		return Result{Message: fmt.Sprintf("unrecognized type '%s'", kind)}
	}
}

// display renders a JSON value for a message: strings unquoted, the rest compact.
func display(raw json.RawMessage) string {
	if s, ok := str(raw); ok {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func str(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false
	}
	return s, true
}
