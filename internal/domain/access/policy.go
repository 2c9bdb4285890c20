package access

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/rfid-access-api/internal/domain/entity"
)

// Window franja horaria permitida [Open, Close) en horas del día.
type Window struct {
	Open  int
	Close int
}

// FullDay acceso 24/24.
var FullDay = Window{Open: 0, Close: 24}

// Closed ventana vacía: ninguna hora cumple Open <= h < Close.
var Closed = Window{Open: 0, Close: 0}

// Validate exige 0 <= Open < Close <= 24.
func (w Window) Validate() error {
	if w.Open < 0 || w.Open > 23 {
		return fmt.Errorf("hora de apertura fuera de rango: %d", w.Open)
	}
	if w.Close < 1 || w.Close > 24 {
		return fmt.Errorf("hora de cierre fuera de rango: %d", w.Close)
	}
	if w.Open >= w.Close {
		return fmt.Errorf("apertura (%d) debe ser menor que cierre (%d)", w.Open, w.Close)
	}
	return nil
}

// Contains evalúa Open <= hour < Close.
func (w Window) Contains(hour int) bool {
	return w.Open <= hour && hour < w.Close
}

// String formato de respuesta: "08:00 - 18:00".
func (w Window) String() string {
	return fmt.Sprintf("%02d:00 - %02d:00", w.Open, w.Close)
}

// ParseWindow interpreta "8-18" (configuración por entorno).
func ParseWindow(s string) (Window, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return Window{}, fmt.Errorf("ventana inválida %q: formato esperado apertura-cierre", s)
	}
	open, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Window{}, fmt.Errorf("ventana inválida %q: %w", s, err)
	}
	closeH, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Window{}, fmt.Errorf("ventana inválida %q: %w", s, err)
	}
	w := Window{Open: open, Close: closeH}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

// Policy tabla explícita rol -> franja horaria.
//
// Los roles sin entrada usan fallback. El valor histórico es FullDay (fail-open): un badge con un
// código de rol heredado fuera del conjunto entra a cualquier hora. Closed lo hace fail-closed.
type Policy struct {
	windows  map[entity.Role]Window
	fallback Window
}

// DefaultWindows admin 24/24, empleado 8h-18h.
func DefaultWindows() map[entity.Role]Window {
	return map[entity.Role]Window{
		entity.RoleAdmin:    FullDay,
		entity.RoleEmployee: {Open: 8, Close: 18},
	}
}

// NewPolicy valida cada ventana. fallback puede ser Closed.
func NewPolicy(windows map[entity.Role]Window, fallback Window) (*Policy, error) {
	copied := make(map[entity.Role]Window, len(windows))
	for role, w := range windows {
		if !role.Known() {
			return nil, fmt.Errorf("política para rol desconocido %q", string(role))
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("rol %s: %w", role, err)
		}
		copied[role] = w
	}
	if fallback != Closed {
		if err := fallback.Validate(); err != nil {
			return nil, fmt.Errorf("ventana por defecto: %w", err)
		}
	}
	return &Policy{windows: copied, fallback: fallback}, nil
}

// WindowFor devuelve la ventana aplicable y si el rol tiene entrada propia.
func (p *Policy) WindowFor(role entity.Role) (Window, bool) {
	if w, ok := p.windows[role]; ok {
		return w, true
	}
	return p.fallback, false
}

// FailOpen indica si los roles desconocidos tienen acceso en algún momento.
func (p *Policy) FailOpen() bool {
	return p.fallback != Closed
}

// IsWithinWindow decide admitir/denegar solo por la hora de at (en la zona de at).
func (p *Policy) IsWithinWindow(role entity.Role, at time.Time) bool {
	w, _ := p.WindowFor(role)
	return w.Contains(at.Hour())
}
