package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rfid-access-api/internal/application/auth"
	"github.com/jhoicas/rfid-access-api/internal/application/dto"
	"github.com/jhoicas/rfid-access-api/internal/domain"
	"github.com/jhoicas/rfid-access-api/pkg/logger"
)

// AuthHandler emite tokens de sesión.
type AuthHandler struct {
	uc  *auth.UseCase
	log *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.UseCase, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

// Token godoc
// @Summary      Obtener token (OAuth2 password)
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Accept       json
// @Produce      json
// @Param        username  formData  string  true  "Usuario administrador"
// @Param        password  formData  string  true  "Contraseña"
// @Success      200  {object}  dto.TokenResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /token [post]
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var in dto.TokenRequest
	if err := c.BodyParser(&in); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, CodeInvalidBody, "cuerpo inválido")
	}
	if in.Username == "" || in.Password == "" {
		return writeError(c, h.log, domain.ErrInvalidCredentials)
	}
	out, err := h.uc.Authenticate(in.Username, in.Password)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
