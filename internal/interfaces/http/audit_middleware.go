package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Auditor destino del registro de auditoría (audit.Recorder).
type Auditor interface {
	Record(message string)
}

// AuditMiddleware escribe "<METHOD> <path> - status <code>" por cada petición.
// El registro es asíncrono y sus fallos no afectan la respuesta.
func AuditMiddleware(auditor Auditor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		auditor.Record(fmt.Sprintf("%s %s - status %d", c.Method(), c.Path(), responseStatus(c, err)))
		return err
	}
}
