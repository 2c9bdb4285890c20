package audit

import (
	"context"

	"github.com/jhoicas/rfid-access-api/internal/application/dto"
	"github.com/jhoicas/rfid-access-api/internal/domain/repository"
)

// LogService consulta del registro de auditoría.
type LogService struct {
	repo repository.AccessLogRepository
}

// NewLogService construye el servicio.
func NewLogService(repo repository.AccessLogRepository) *LogService {
	return &LogService{repo: repo}
}

// List devuelve las entradas más recientes primero.
func (s *LogService) List(ctx context.Context, page dto.PageRequest) (*dto.AccessLogListResponse, error) {
	page.Normalize()
	list, err := s.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AccessLogResponse, 0, len(list))
	for _, e := range list {
		items = append(items, dto.AccessLogResponse{ID: e.ID, Date: e.Date, Time: e.Time, Message: e.Message})
	}
	return &dto.AccessLogListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}
