package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rfid-access-api/internal/application/audit"
	"github.com/jhoicas/rfid-access-api/internal/application/dto"
	"github.com/jhoicas/rfid-access-api/pkg/logger"
)

// LogHandler consulta del registro de auditoría.
type LogHandler struct {
	svc    *audit.LogService
	report *audit.ReportUseCase
	log    *logger.Logger
}

// NewLogHandler construye el handler. report nil deshabilita la descarga en PDF.
func NewLogHandler(svc *audit.LogService, report *audit.ReportUseCase, log *logger.Logger) *LogHandler {
	return &LogHandler{svc: svc, report: report, log: log}
}

// List godoc
// @Summary      Listar registro de accesos
// @Tags         logs
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.AccessLogListResponse
// @Router       /logs [get]
func (h *LogHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.svc.List(c.UserContext(), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Descargar el registro de accesos en PDF
// @Tags         logs
// @Security     Bearer
// @Produce      application/pdf
// @Param        limit  query  int  false  "Entradas más recientes (máx. 1000)"  default(1000)
// @Success      200    {file}    binary
// @Failure      401    {object}  dto.ErrorResponse
// @Router       /logs/report.pdf [get]
func (h *LogHandler) Report(c *fiber.Ctx) error {
	doc, filename, err := h.report.Download(c.UserContext(), c.QueryInt("limit", audit.MaxReportEntries))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(doc)
}
