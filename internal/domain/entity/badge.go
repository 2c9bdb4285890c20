package entity

import "time"

// Badge vincula un identificador físico (RFID) con una persona y un rol.
// Identifier y CreatedAt son inmutables después del registro.
type Badge struct {
	Identifier string // normalizado: sin espacios, minúsculas
	Name       string
	Role       Role
	CreatedAt  time.Time
}
