package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/rfid-access-api/internal/domain/entity"
	"github.com/jhoicas/rfid-access-api/internal/domain/repository"
)

var _ repository.AccessLogRepository = (*AccessLogRepo)(nil)

// AccessLogRepo registro de auditoría append-only en la tabla access_logs.
type AccessLogRepo struct {
	db Querier
}

// NewAccessLogRepository construye el adaptador.
func NewAccessLogRepository(db Querier) *AccessLogRepo {
	return &AccessLogRepo{db: db}
}

// Append inserta la entrada y completa su ID.
func (r *AccessLogRepo) Append(ctx context.Context, entry *entity.AccessLog) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO access_logs (date, time, message) VALUES ($1, $2, $3) RETURNING id`,
		entry.Date, entry.Time, entry.Message,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("insert access log: %w", err)
	}
	return nil
}

// List entradas más recientes primero.
func (r *AccessLogRepo) List(ctx context.Context, limit, offset int) ([]*entity.AccessLog, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, date, time, message FROM access_logs ORDER BY id DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list access logs: %w", err)
	}
	defer rows.Close()

	var list []*entity.AccessLog
	for rows.Next() {
		var e entity.AccessLog
		if err := rows.Scan(&e.ID, &e.Date, &e.Time, &e.Message); err != nil {
			return nil, fmt.Errorf("scan access log: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
