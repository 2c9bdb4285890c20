package repository

import (
	"context"

	"github.com/jhoicas/rfid-access-api/internal/domain/entity"
)

// BadgeRepository define el puerto de persistencia para Badge (DIP).
// Los identificadores recibidos ya están normalizados.
type BadgeRepository interface {
	// Create devuelve domain.ErrDuplicateIdentifier si el identificador ya existe.
	Create(ctx context.Context, badge *entity.Badge) error
	// GetByIdentifier devuelve nil, nil si no existe.
	GetByIdentifier(ctx context.Context, identifier string) (*entity.Badge, error)
	// GetByIdentifierForUpdate igual que GetByIdentifier pero bloquea la fila hasta el fin de la tx.
	GetByIdentifierForUpdate(ctx context.Context, identifier string) (*entity.Badge, error)
	// Update modifica name y role; domain.ErrNotFound si no existe.
	Update(ctx context.Context, badge *entity.Badge) error
	// Delete elimina físicamente; domain.ErrNotFound si no existe.
	Delete(ctx context.Context, identifier string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Badge, error)
	Count(ctx context.Context) (int, error)
}
