// Package scan motor de decisión de un escaneo de badge: normalizar, buscar en el registro y
// evaluar la franja horaria del rol.
package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/rfid-access-api/internal/application/dto"
	"github.com/jhoicas/rfid-access-api/internal/domain/access"
	"github.com/jhoicas/rfid-access-api/internal/domain/entity"
	"github.com/jhoicas/rfid-access-api/pkg/logger"
)

// Mensajes de la respuesta de escaneo.
const (
	MessageUnrecognized = "Badge no reconocido"
	MessageDenied       = "Acceso denegado - fuera del horario autorizado"
	MessageGranted      = "Badge reconocido"
)

// BadgeFinder lectura del registro. Un badge ausente devuelve nil, nil.
type BadgeFinder interface {
	Find(ctx context.Context, rawIdentifier string) (*entity.Badge, error)
}

// Auditor destino fire-and-forget del registro de auditoría.
type Auditor interface {
	Record(message string)
}

// Outcome resultado de la decisión.
type Outcome int

const (
	OutcomeUnrecognized Outcome = iota
	OutcomeDenied
	OutcomeGranted
)

// String valor de status en la respuesta.
func (o Outcome) String() string {
	switch o {
	case OutcomeDenied:
		return dto.ScanStatusDenied
	case OutcomeGranted:
		return dto.ScanStatusGranted
	}
	return dto.ScanStatusUnrecognized
}

// Result decisión de un escaneo. Badge es nil cuando Outcome es OutcomeUnrecognized.
type Result struct {
	Outcome    Outcome
	Identifier string
	Badge      *entity.Badge
	// At hora del escaneo en la zona de acceso.
	At     time.Time
	Window access.Window
}

// ToResponse payload HTTP según el resultado.
func (r *Result) ToResponse() *dto.ScanResponse {
	switch r.Outcome {
	case OutcomeGranted:
		return &dto.ScanResponse{
			Status:     r.Outcome.String(),
			Message:    MessageGranted,
			Identifier: r.Badge.Identifier,
			Name:       r.Badge.Name,
			Role:       string(r.Badge.Role),
		}
	case OutcomeDenied:
		return &dto.ScanResponse{
			Status:        r.Outcome.String(),
			Message:       MessageDenied,
			Role:          string(r.Badge.Role),
			CurrentTime:   r.At.Format("15:04:05"),
			AllowedWindow: r.Window.String(),
		}
	}
	return &dto.ScanResponse{Status: r.Outcome.String(), Message: MessageUnrecognized}
}

// UseCase motor de decisión.
type UseCase struct {
	badges  BadgeFinder
	policy  *access.Policy
	loc     *time.Location
	auditor Auditor
	log     *logger.Logger
	clock   func() time.Time
}

// NewUseCase construye el motor. loc es la zona horaria del sitio; nil usa UTC.
// auditor puede ser nil.
func NewUseCase(badges BadgeFinder, policy *access.Policy, loc *time.Location, auditor Auditor, log *logger.Logger) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{badges: badges, policy: policy, loc: loc, auditor: auditor, log: log, clock: time.Now}
}

// WithClock reemplaza el reloj usado por Scan (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.clock = now
	return uc
}

// Scan decide con la hora actual y devuelve el payload HTTP.
func (uc *UseCase) Scan(ctx context.Context, rawIdentifier string) (*dto.ScanResponse, error) {
	res, err := uc.Decide(ctx, rawIdentifier, uc.clock())
	if err != nil {
		return nil, err
	}
	return res.ToResponse(), nil
}

// Decide evalúa un escaneo en el instante at. Un badge desconocido es un resultado, no un error;
// solo los fallos del registro devuelven error.
func (uc *UseCase) Decide(ctx context.Context, rawIdentifier string, at time.Time) (*Result, error) {
	identifier := access.Normalize(rawIdentifier)
	res := &Result{Identifier: identifier, At: at.In(uc.loc), Outcome: OutcomeUnrecognized}

	if identifier != "" {
		badge, err := uc.badges.Find(ctx, identifier)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", identifier, err)
		}
		if badge != nil {
			res.Badge = badge
			window, known := uc.policy.WindowFor(badge.Role)
			res.Window = window
			if !known {
				uc.log.Warn().Str("identifier", identifier).Str("role", string(badge.Role)).
					Bool("fail_open", uc.policy.FailOpen()).Msg("scan: rol sin política, se aplica la ventana por defecto")
			}
			if uc.policy.IsWithinWindow(badge.Role, res.At) {
				res.Outcome = OutcomeGranted
			} else {
				res.Outcome = OutcomeDenied
			}
		}
	}

	if uc.auditor != nil {
		uc.auditor.Record(fmt.Sprintf("Scan %s: %s", identifier, res.Outcome))
	}
	return res, nil
}
