package badge

import (
	"context"

	"github.com/jhoicas/rfid-access-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando el repositorio atado a esa tx.
// Garantiza que lectura + escritura sobre un mismo identificador sean atómicas frente a otras peticiones.
type TxRunner interface {
	Run(ctx context.Context, fn func(badges repository.BadgeRepository) error) error
}
