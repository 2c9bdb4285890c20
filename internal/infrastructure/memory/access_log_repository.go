package memory

import (
	"context"

	"github.com/jhoicas/rfid-access-api/internal/domain/entity"
	"github.com/jhoicas/rfid-access-api/internal/domain/repository"
)

var _ repository.AccessLogRepository = (*AccessLogRepo)(nil)

// AccessLogRepo registro append-only en memoria.
type AccessLogRepo struct {
	store *Store
}

// NewAccessLogRepository construye el repositorio.
func NewAccessLogRepository(store *Store) *AccessLogRepo {
	return &AccessLogRepo{store: store}
}

// Append asigna un ID incremental y agrega la entrada.
func (r *AccessLogRepo) Append(_ context.Context, entry *entity.AccessLog) error {
	r.store.logMu.Lock()
	defer r.store.logMu.Unlock()
	r.store.nextID++
	entry.ID = r.store.nextID
	r.store.logs = append(r.store.logs, *entry)
	return nil
}

// List devuelve las entradas más recientes primero.
func (r *AccessLogRepo) List(_ context.Context, limit, offset int) ([]*entity.AccessLog, error) {
	r.store.logMu.Lock()
	reversed := make([]entity.AccessLog, len(r.store.logs))
	for i, e := range r.store.logs {
		reversed[len(r.store.logs)-1-i] = e
	}
	r.store.logMu.Unlock()
	return page(reversed, limit, offset), nil
}
