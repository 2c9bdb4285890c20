package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/rfid-access-api/internal/domain/entity"
	"github.com/jhoicas/rfid-access-api/internal/domain/repository"
)

// MaxReportEntries límite de entradas en un informe.
const MaxReportEntries = 1000

// Report datos del informe imprimible.
type Report struct {
	Title       string
	Site        string
	GeneratedAt time.Time
	Entries     []*entity.AccessLog
}

// ReportGenerator renderiza un Report (PDF).
type ReportGenerator interface {
	GenerateAccessReport(ctx context.Context, report Report) ([]byte, error)
}

// ReportUseCase genera el informe de las últimas entradas del registro.
type ReportUseCase struct {
	repo  repository.AccessLogRepository
	gen   ReportGenerator
	site  string
	loc   *time.Location
	clock func() time.Time
}

// NewReportUseCase construye el caso de uso. loc nil usa UTC.
func NewReportUseCase(repo repository.AccessLogRepository, gen ReportGenerator, site string, loc *time.Location) *ReportUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportUseCase{repo: repo, gen: gen, site: site, loc: loc, clock: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.clock = now
	return uc
}

// Download devuelve el PDF con las últimas limit entradas (más recientes primero) y su nombre de archivo.
func (uc *ReportUseCase) Download(ctx context.Context, limit int) ([]byte, string, error) {
	if limit <= 0 || limit > MaxReportEntries {
		limit = MaxReportEntries
	}
	entries, err := uc.repo.List(ctx, limit, 0)
	if err != nil {
		return nil, "", fmt.Errorf("report: obtener registro: %w", err)
	}
	now := uc.clock().In(uc.loc)
	doc, err := uc.gen.GenerateAccessReport(ctx, Report{
		Title:       "Registro de accesos",
		Site:        uc.site,
		GeneratedAt: now,
		Entries:     entries,
	})
	if err != nil {
		return nil, "", fmt.Errorf("report: generación fallida: %w", err)
	}
	return doc, fmt.Sprintf("registro_accesos_%s.pdf", now.Format("20060102_1504")), nil
}

// IsDenial indica si la entrada corresponde a un escaneo denegado o no reconocido.
func IsDenial(message string) bool {
	return strings.HasPrefix(message, "Scan ") &&
		(strings.HasSuffix(message, ": denied") || strings.HasSuffix(message, ": unrecognized"))
}
