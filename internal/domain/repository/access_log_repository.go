package repository

import (
	"context"

	"github.com/jhoicas/rfid-access-api/internal/domain/entity"
)

// AccessLogRepository registro append-only: no hay Update ni Delete.
type AccessLogRepository interface {
	Append(ctx context.Context, entry *entity.AccessLog) error
	// List devuelve las entradas más recientes primero.
	List(ctx context.Context, limit, offset int) ([]*entity.AccessLog, error)
}
