package model

import "strings"

// The legacy schema stores several name columns as blank-padded CHAR.
// Writers pad with PadFixed, readers trim with TrimFixed.
const (
	ClienteNombreWidth  = 50
	TipoPagoNombreWidth = 30
)

// PadFixed right-pads s with spaces to width, truncating when longer.
func PadFixed(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

// TrimFixed removes the trailing pad of a fixed-width column value.
func TrimFixed(s string) string {
	return strings.TrimRight(s, " ")
}
