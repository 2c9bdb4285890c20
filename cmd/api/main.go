// @title           RFID Access API
// @version         1.0
// @description     Control de acceso por badge RFID: registro de badges, decisión de escaneo por franja horaria y registro de auditoría.
// @BasePath        /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/contrib/swagger"

	_ "github.com/jhoicas/rfid-access-api/docs"
	"github.com/jhoicas/rfid-access-api/internal/application/audit"
	"github.com/jhoicas/rfid-access-api/internal/application/auth"
	"github.com/jhoicas/rfid-access-api/internal/application/badge"
	"github.com/jhoicas/rfid-access-api/internal/application/scan"
	"github.com/jhoicas/rfid-access-api/internal/domain/access"
	"github.com/jhoicas/rfid-access-api/internal/domain/entity"
	"github.com/jhoicas/rfid-access-api/internal/domain/repository"
	"github.com/jhoicas/rfid-access-api/internal/infrastructure/memory"
	"github.com/jhoicas/rfid-access-api/internal/infrastructure/pdf"
	"github.com/jhoicas/rfid-access-api/internal/infrastructure/postgres"
	"github.com/jhoicas/rfid-access-api/internal/infrastructure/sqldb"
	httpRouter "github.com/jhoicas/rfid-access-api/internal/interfaces/http"
	"github.com/jhoicas/rfid-access-api/pkg/config"
	"github.com/jhoicas/rfid-access-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	if insecure := cfg.InsecureDefaults(); len(insecure) > 0 {
		if cfg.App.Env == "production" {
			log.Fatal().Strs("keys", insecure).Msg("valores por defecto inseguros en producción")
		}
		log.Warn().Strs("keys", insecure).Msg("valores por defecto inseguros: definirlos antes de desplegar")
	}

	loc, err := time.LoadLocation(cfg.Access.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Access.Timezone).Msg("zona horaria inválida")
	}
	policy, err := buildPolicy(cfg.Access)
	if err != nil {
		log.Fatal().Err(err).Msg("política de acceso")
	}
	if policy.FailOpen() {
		log.Warn().Msg("POLICY_UNKNOWN_ROLE=allow: los roles sin política tienen acceso 24h")
	}

	ctx := context.Background()
	var (
		txRunner  badge.TxRunner
		badgeRepo repository.BadgeRepository
		logRepo   repository.AccessLogRepository
		db        httpRouter.Pinger
	)
	switch cfg.App.Storage {
	case config.StorageMemory:
		store := memory.NewStore()
		txRunner = memory.NewTxRunner(store)
		badgeRepo = memory.NewBadgeRepository(store)
		logRepo = memory.NewAccessLogRepository(store)
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	case config.StorageMySQL, config.StorageSQLite:
		store, err := openSQLStore(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Str("storage", cfg.App.Storage).Msg("conexión a la base de datos")
		}
		defer store.Close()
		txRunner = store.TxRunner()
		badgeRepo = store.Badges()
		logRepo = store.AccessLogs()
		db = store
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		txRunner = postgres.NewTxRunner(pool)
		badgeRepo = postgres.NewBadgeRepository(pool)
		logRepo = postgres.NewAccessLogRepository(pool)
		db = pool
	}

	recorder := audit.NewRecorder(logRepo, loc, cfg.Access.AuditBuffer, log)
	recorder.Start()

	badgeUC := badge.NewUseCase(txRunner, badgeRepo)
	scanUC := scan.NewUseCase(badgeUC, policy, loc, recorder, log)
	authUC, err := auth.NewUseCase(
		auth.AdminConfig{
			Username:     cfg.Admin.Username,
			Password:     cfg.Admin.Password,
			PasswordHash: cfg.Admin.PasswordHash,
		},
		auth.JWTConfig{
			Secret: cfg.JWT.Secret,
			TTL:    time.Duration(cfg.JWT.Expiration) * time.Minute,
			Issuer: cfg.JWT.Issuer,
		},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de autenticación")
	}

	app := httpRouter.NewApp(cfg.App.Name)

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "RFID Access API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:  authUC,
		BadgeUC: badgeUC,
		ScanUC:  scanUC,
		LogSvc:  audit.NewLogService(logRepo),
		Report:  audit.NewReportUseCase(logRepo, pdf.NewAccessReportGenerator(), cfg.App.Name, loc),
		Auditor: recorder,
		DB:      db,
		Log:     log,
		Service: cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := recorder.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("registro de auditoría sin vaciar")
	}

	log.Info().Msg("aplicación detenida")
}

// openSQLStore MySQL reutiliza DB_*; SQLite usa SQLITE_PATH.
func openSQLStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*sqldb.Store, error) {
	if cfg.App.Storage == config.StorageSQLite {
		return sqldb.OpenSQLite(ctx, cfg.DB.SQLitePath)
	}
	return sqldb.OpenMySQL(ctx, sqldb.MySQLConfig{
		DSN:      cfg.DB.DatabaseURL,
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.DBName,
		MaxConns: cfg.DB.MaxConns,
		MinConns: cfg.DB.MinConns,
	}, log)
}

// buildPolicy tabla rol -> franja a partir de POLICY_*_HOURS y POLICY_UNKNOWN_ROLE.
func buildPolicy(cfg config.AccessConfig) (*access.Policy, error) {
	adminW, err := access.ParseWindow(cfg.AdminHours)
	if err != nil {
		return nil, fmt.Errorf("POLICY_ADMIN_HOURS: %w", err)
	}
	employeeW, err := access.ParseWindow(cfg.EmployeeHours)
	if err != nil {
		return nil, fmt.Errorf("POLICY_EMPLOYEE_HOURS: %w", err)
	}
	fallback := access.FullDay
	if cfg.UnknownRole == "deny" {
		fallback = access.Closed
	}
	return access.NewPolicy(map[entity.Role]access.Window{
		entity.RoleAdmin:    adminW,
		entity.RoleEmployee: employeeW,
	}, fallback)
}
