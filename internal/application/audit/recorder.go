// Package audit registro de auditoría: una línea de texto por escaneo y por petición HTTP.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/rfid-access-api/internal/domain/entity"
	"github.com/jhoicas/rfid-access-api/internal/domain/repository"
	"github.com/jhoicas/rfid-access-api/pkg/logger"
)

// Formatos de las columnas date y time de access_logs.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

const writeTimeout = 5 * time.Second

// Recorder escribe el registro de forma asíncrona (fire-and-forget):
//
//	Record → cola con buffer → goroutine escritora → AccessLogRepository.Append
//
// Record nunca bloquea ni devuelve error. Si la cola está llena o la escritura falla,
// la entrada se descarta con un warning en el log estructurado.
type Recorder struct {
	repo  repository.AccessLogRepository
	loc   *time.Location
	clock func() time.Time
	log   *logger.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan entity.AccessLog
	done   chan struct{}
	start  sync.Once
}

// NewRecorder construye el recorder. buffer <= 0 usa 1. loc nil usa UTC.
func NewRecorder(repo repository.AccessLogRepository, loc *time.Location, buffer int, log *logger.Logger) *Recorder {
	if buffer <= 0 {
		buffer = 1
	}
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Recorder{
		repo:  repo,
		loc:   loc,
		clock: time.Now,
		log:   log,
		queue: make(chan entity.AccessLog, buffer),
		done:  make(chan struct{}),
	}
}

// WithClock reemplaza el reloj (tests). Llamar antes de Start.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.clock = now
	return r
}

// Start lanza la goroutine escritora. Llamadas posteriores no tienen efecto.
func (r *Recorder) Start() {
	r.start.Do(func() { go r.run() })
}

// Record encola message con la fecha y hora actuales en la zona configurada.
func (r *Recorder) Record(message string) {
	now := r.clock().In(r.loc)
	entry := entity.AccessLog{
		Date:    now.Format(DateLayout),
		Time:    now.Format(TimeLayout),
		Message: truncate(message, entity.AccessLogMessageMax),
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- entry:
	default:
		r.log.Warn().Str("message", entry.Message).Msg("audit: cola llena, entrada descartada")
	}
}

// Close deja de aceptar entradas y espera a que se escriban las encoladas o a que ctx expire.
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	r.Start()
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Recorder) run() {
	defer close(r.done)
	for entry := range r.queue {
		r.write(entry)
	}
}

func (r *Recorder) write(entry entity.AccessLog) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := r.repo.Append(ctx, &entry); err != nil {
		r.log.Warn().Err(err).Str("message", entry.Message).Msg("audit: no se pudo persistir la entrada")
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
