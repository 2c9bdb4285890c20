package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/rfid-access-api/internal/domain"
)

// Role código de rol de un badge. Conjunto cerrado; el código se persiste como SMALLINT.
type Role string

// Roles válidos para Badge.
const (
	RoleAdmin    Role = "1"
	RoleEmployee Role = "2"
)

// roleAliases nombres aceptados al importar datos heterogéneos (API, CSV, versiones anteriores).
var roleAliases = map[string]Role{
	"admin":          RoleAdmin,
	"administrador":  RoleAdmin,
	"administrateur": RoleAdmin,
	"employee":       RoleEmployee,
	"empleado":       RoleEmployee,
	"employé":        RoleEmployee,
	"employe":        RoleEmployee,
}

// ParseRole normaliza un rol recibido como código ("1", " 02 ") o como nombre ("admin", "empleado").
// Devuelve domain.ErrInvalidRole si no pertenece al conjunto cerrado.
func ParseRole(raw string) (Role, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", fmt.Errorf("%w: vacío", domain.ErrInvalidRole)
	}
	if n, err := strconv.Atoi(s); err == nil {
		r := Role(strconv.Itoa(n))
		if r.Known() {
			return r, nil
		}
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidRole, raw)
	}
	if r, ok := roleAliases[s]; ok {
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidRole, raw)
}

// RoleFromCode convierte el valor persistido. Un código fuera del conjunto se conserva tal cual
// para que la política lo trate como rol desconocido.
func RoleFromCode(code int16) Role {
	return Role(strconv.Itoa(int(code)))
}

// Code devuelve el valor a persistir.
func (r Role) Code() (int16, error) {
	n, err := strconv.ParseInt(string(r), 10, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidRole, string(r))
	}
	return int16(n), nil
}

// Known indica si el rol pertenece al conjunto cerrado.
func (r Role) Known() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// Label nombre legible del rol.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleEmployee:
		return "employee"
	}
	return "unknown"
}
