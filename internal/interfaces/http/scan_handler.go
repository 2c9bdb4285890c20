package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rfid-access-api/internal/application/scan"
	"github.com/jhoicas/rfid-access-api/pkg/logger"
)

// ScanHandler decisión de acceso para un lector.
type ScanHandler struct {
	uc  *scan.UseCase
	log *logger.Logger
}

// NewScanHandler construye el handler.
func NewScanHandler(uc *scan.UseCase, log *logger.Logger) *ScanHandler {
	return &ScanHandler{uc: uc, log: log}
}

// Scan godoc
// @Summary      Escanear badge
// @Description  Siempre 200 con status unrecognized, denied o granted. Un badge desconocido no es un error.
// @Tags         scan
// @Security     Bearer
// @Produce      json
// @Param        identifier  path  string  true  "Identificador leído"
// @Success      200  {object}  dto.ScanResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /scan/{identifier} [get]
func (h *ScanHandler) Scan(c *fiber.Ctx) error {
	out, err := h.uc.Scan(c.UserContext(), pathIdentifier(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
