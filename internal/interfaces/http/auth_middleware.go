package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocalSubject clave en c.Locals con el subject del token validado.
const LocalSubject = "subject"

// Authorizer valida un token y devuelve su subject.
type Authorizer interface {
	Authorize(token string) (string, error)
}

// AuthMiddleware valida el Bearer Token y guarda el subject en c.Locals.
func AuthMiddleware(authz Authorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return errorJSON(c, fiber.StatusUnauthorized, CodeMissingToken, "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return errorJSON(c, fiber.StatusUnauthorized, CodeInvalidToken, "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return errorJSON(c, fiber.StatusUnauthorized, CodeMissingToken, "token vacío")
		}
		subject, err := authz.Authorize(tokenString)
		if err != nil {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return errorJSON(c, fiber.StatusUnauthorized, CodeInvalidToken, "token inválido o expirado")
		}
		c.Locals(LocalSubject, subject)
		return c.Next()
	}
}

// GetSubject devuelve el subject del contexto (después del middleware de auth).
func GetSubject(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalSubject).(string)
	return s
}
