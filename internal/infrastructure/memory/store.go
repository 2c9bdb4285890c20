// Package memory adaptadores en memoria de los puertos de persistencia. Se usan en tests y con
// STORAGE=memory para ejecutar la API sin PostgreSQL; los datos se pierden al reiniciar.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/rfid-access-api/internal/application/badge"
	"github.com/jhoicas/rfid-access-api/internal/domain/entity"
	"github.com/jhoicas/rfid-access-api/internal/domain/repository"
)

var _ badge.TxRunner = (*TxRunner)(nil)

// Store estado compartido por los repositorios en memoria.
type Store struct {
	mu     sync.RWMutex
	badges map[string]entity.Badge

	logMu  sync.Mutex
	logs   []entity.AccessLog
	nextID int64
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{badges: make(map[string]entity.Badge)}
}

// TxRunner serializa las transacciones tomando el lock de escritura durante todo el callback.
// Si fn devuelve error se restaura el estado previo.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con un repositorio que opera bajo el lock ya tomado.
func (r *TxRunner) Run(ctx context.Context, fn func(badges repository.BadgeRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snapshot := make(map[string]entity.Badge, len(r.store.badges))
	for k, v := range r.store.badges {
		snapshot[k] = v
	}
	if err := fn(&BadgeRepo{store: r.store, inTx: true}); err != nil {
		r.store.badges = snapshot
		return err
	}
	return nil
}
