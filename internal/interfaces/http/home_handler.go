package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rfid-access-api/internal/application/dto"
)

// Pinger comprueba la conexión con el almacenamiento (*pgxpool.Pool lo implementa).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Home godoc
// @Summary      Estado de la API
// @Tags         info
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       / [get]
func Home(c *fiber.Ctx) error {
	return c.JSON(dto.MessageResponse{Message: "API de control de acceso RFID operativa"})
}

// Health godoc
// @Summary      Health check
// @Tags         info
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func Health(service string, db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": service})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": service})
	}
}
