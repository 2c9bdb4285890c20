package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rfid-access-api/internal/application/badge"
	"github.com/jhoicas/rfid-access-api/internal/application/dto"
	"github.com/jhoicas/rfid-access-api/pkg/logger"
)

// BadgeHandler maneja las peticiones HTTP del registro de badges (protegido).
type BadgeHandler struct {
	uc  *badge.UseCase
	log *logger.Logger
}

// NewBadgeHandler construye el handler.
func NewBadgeHandler(uc *badge.UseCase, log *logger.Logger) *BadgeHandler {
	return &BadgeHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar badge
// @Tags         badges
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBadgeRequest  true  "identifier, name, role"
// @Success      201   {object}  dto.BadgeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /badge [post]
func (h *BadgeHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBadgeRequest
	if err := c.BodyParser(&in); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, CodeInvalidBody, "cuerpo inválido")
	}
	out, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out.Message = "Badge registrado"
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener badge
// @Tags         badges
// @Security     Bearer
// @Produce      json
// @Param        identifier  path  string  true  "Identificador del badge"
// @Success      200  {object}  dto.BadgeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /badge/{identifier} [get]
func (h *BadgeHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), pathIdentifier(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar badges
// @Tags         badges
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.BadgeListResponse
// @Router       /badges [get]
func (h *BadgeHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar badge
// @Tags         badges
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        identifier  path  string  true  "Identificador del badge"
// @Param        body        body  dto.UpdateBadgeRequest  true  "name, role"
// @Success      200  {object}  dto.BadgeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /badge/{identifier} [put]
func (h *BadgeHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBadgeRequest
	if err := c.BodyParser(&in); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, CodeInvalidBody, "cuerpo inválido")
	}
	out, err := h.uc.Update(c.UserContext(), pathIdentifier(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out.Message = "Badge actualizado"
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar badge
// @Tags         badges
// @Security     Bearer
// @Produce      json
// @Param        identifier  path  string  true  "Identificador del badge"
// @Success      200  {object}  dto.DeleteBadgeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /badge/{identifier} [delete]
func (h *BadgeHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.UserContext(), pathIdentifier(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// pathIdentifier decodifica el parámetro de ruta: los lectores envían "ABC%20123".
func pathIdentifier(c *fiber.Ctx) string {
	raw := c.Params("identifier")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
