package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// RoleValue rol tal como llega del cliente: acepta "2", 2 o "employee".
// La validación contra el conjunto cerrado se hace en el caso de uso (entity.ParseRole).
type RoleValue string

// UnmarshalJSON acepta string o número JSON.
func (r *RoleValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = RoleValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("role: se espera string o número: %w", err)
	}
	*r = RoleValue(n.String())
	return nil
}

// CreateBadgeRequest entrada para registrar un badge.
type CreateBadgeRequest struct {
	Identifier string    `json:"identifier" form:"identifier"`
	Name       string    `json:"name" form:"name"`
	Role       RoleValue `json:"role" form:"role"`
}

// UpdateBadgeRequest entrada para actualizar un badge (identifier viene en la ruta).
type UpdateBadgeRequest struct {
	Name string    `json:"name" form:"name"`
	Role RoleValue `json:"role" form:"role"`
}

// BadgeResponse salida de un badge.
type BadgeResponse struct {
	Message    string    `json:"message,omitempty"`
	Identifier string    `json:"identifier"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	RoleName   string    `json:"role_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// BadgeListResponse lista paginada de badges.
type BadgeListResponse struct {
	Items []BadgeResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// DeleteBadgeResponse confirmación de borrado.
type DeleteBadgeResponse struct {
	Message    string `json:"message"`
	Identifier string `json:"identifier"`
}
