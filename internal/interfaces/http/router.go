package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/rfid-access-api/internal/application/audit"
	"github.com/jhoicas/rfid-access-api/internal/application/auth"
	"github.com/jhoicas/rfid-access-api/internal/application/badge"
	"github.com/jhoicas/rfid-access-api/internal/application/dto"
	"github.com/jhoicas/rfid-access-api/internal/application/scan"
	"github.com/jhoicas/rfid-access-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC  *auth.UseCase
	BadgeUC *badge.UseCase
	ScanUC  *scan.UseCase
	LogSvc  *audit.LogService
	Report  *audit.ReportUseCase // nil sin informe PDF
	Auditor Auditor // nil desactiva la auditoría de peticiones
	DB      Pinger  // nil con almacenamiento en memoria
	Log     *logger.Logger
	Service string
}

// NewApp crea la aplicación Fiber con recover y errores en formato dto.ErrorResponse.
// Immutable: los valores de ruta y cuerpo se copian y pueden guardarse más allá del handler.
func NewApp(name string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   name,
		Immutable: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			apiCode := CodeInternal
			if code == fiber.StatusNotFound {
				apiCode = CodeNotFound
			}
			msg := "error interno del servidor"
			if code < fiber.StatusInternalServerError {
				msg = err.Error()
			}
			return c.Status(code).JSON(dto.ErrorResponse{Code: apiCode, Message: msg})
		},
	})
	app.Use(recover.New())
	return app
}

// Router registra middlewares y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	app.Use(RequestLogger(log))
	if deps.Auditor != nil {
		app.Use(AuditMiddleware(deps.Auditor))
	}

	// Público
	app.Get("/", Home)
	app.Get("/health", Health(deps.Service, deps.DB))
	authHandler := NewAuthHandler(deps.AuthUC, log)
	app.Post("/token", authHandler.Token)

	// Rutas protegidas (requieren Bearer Token)
	requireAuth := AuthMiddleware(deps.AuthUC)

	badgeHandler := NewBadgeHandler(deps.BadgeUC, log)
	app.Post("/badge", requireAuth, badgeHandler.Create)
	app.Get("/badge/:identifier", requireAuth, badgeHandler.Get)
	app.Put("/badge/:identifier", requireAuth, badgeHandler.Update)
	app.Delete("/badge/:identifier", requireAuth, badgeHandler.Delete)
	app.Get("/badges", requireAuth, badgeHandler.List)

	scanHandler := NewScanHandler(deps.ScanUC, log)
	app.Get("/scan/:identifier", requireAuth, scanHandler.Scan)

	logHandler := NewLogHandler(deps.LogSvc, deps.Report, log)
	app.Get("/logs", requireAuth, logHandler.List)
	if deps.Report != nil {
		app.Get("/logs/report.pdf", requireAuth, logHandler.Report)
	}
}
