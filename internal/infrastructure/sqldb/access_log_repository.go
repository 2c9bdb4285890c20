package sqldb

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

// Append inserta la entrada y completa su ID con LAST_INSERT_ID / last_insert_rowid.
func (r *AccessLogRepo) Append(ctx context.Context, entry *entity.AccessLog) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO access_logs (date, time, message) VALUES (?, ?, ?)`,
		entry.Date, entry.Time, entry.Message)
	if err != nil {
		return fmt.Errorf("insert access log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("access log id: %w", err)
	}
	entry.ID = id
	return nil
}

// List entradas más recientes primero.
func (r *AccessLogRepo) List(ctx context.Context, limit, offset int) ([]*entity.AccessLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, time, message FROM access_logs ORDER BY id DESC LIMIT ? OFFSET ?`,
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
