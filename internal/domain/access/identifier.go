package access

import (
	"strings"
	"unicode"
)

// Normalize canoniza un identificador leído o enviado: elimina todo espacio en blanco
// (incluido el ruido del lector: tabs, saltos de línea, NBSP) y pasa a minúsculas.
// Es idempotente: Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	return strings.ToLower(stripped)
}
